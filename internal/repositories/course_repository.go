package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/learncamera/backend/internal/apperrors"
	"github.com/learncamera/backend/internal/models"
)

type courseRepository struct {
	db *sql.DB
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *sql.DB) *courseRepository {
	return &courseRepository{
		db: db,
	}
}

const courseColumns = `id, title, slug, description_markdown, stripe_price_id, price_cents, image_url, created_at, updated_at`

func scanCourse(scanner interface{ Scan(...any) error }) (*models.Course, error) {
	course := &models.Course{}
	err := scanner.Scan(
		&course.ID,
		&course.Title,
		&course.Slug,
		&course.DescriptionMarkdown,
		&course.StripePriceID,
		&course.PriceCents,
		&course.ImageURL,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	return course, err
}

// GetAll retrieves all courses ordered by title
func (r *courseRepository) GetAll(ctx context.Context) ([]*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses ORDER BY title, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	courses := make([]*models.Course, 0)
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, course)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return courses, nil
}

// GetBySlug retrieves a course by its slug
func (r *courseRepository) GetBySlug(ctx context.Context, slug string) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE slug = ? LIMIT 1`

	course, err := scanCourse(r.db.QueryRowContext(ctx, query, slug))
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("course not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course by slug: %w", err)
	}

	return course, nil
}

// GetByID retrieves a course by its ID
func (r *courseRepository) GetByID(ctx context.Context, id int) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = ? LIMIT 1`

	course, err := scanCourse(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("course not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course by id: %w", err)
	}

	return course, nil
}

// Create inserts a new course
func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (title, slug, description_markdown, stripe_price_id, price_cents, image_url)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		course.Title,
		course.Slug,
		course.DescriptionMarkdown,
		course.StripePriceID,
		course.PriceCents,
		course.ImageURL,
	)
	if isDuplicateEntry(err) {
		return apperrors.Conflict("course with this slug already exists")
	}
	if err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	course.ID = int(id)
	return nil
}

// DeleteBySlug deletes a course; chapters, lessons, blocks, progress and purchases cascade
func (r *courseRepository) DeleteBySlug(ctx context.Context, slug string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE slug = ?`, slug)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NotFound("course not found")
	}

	return nil
}
