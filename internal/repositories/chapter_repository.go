package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/learncamera/backend/internal/apperrors"
	"github.com/learncamera/backend/internal/models"
)

type chapterRepository struct {
	db *sql.DB
}

// NewChapterRepository creates a new chapter repository
func NewChapterRepository(db *sql.DB) *chapterRepository {
	return &chapterRepository{
		db: db,
	}
}

// GetByCourseIDs retrieves the chapters of several courses, each course's chapters ordered by order_index
func (r *chapterRepository) GetByCourseIDs(ctx context.Context, courseIDs []int) ([]*models.Chapter, error) {
	if len(courseIDs) == 0 {
		return []*models.Chapter{}, nil
	}

	placeholders, args := inClause(courseIDs)
	query := fmt.Sprintf(`
		SELECT id, course_id, title, slug, order_index
		FROM chapters
		WHERE course_id IN (%s)
		ORDER BY course_id, order_index, id`, placeholders)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query chapters: %w", err)
	}
	defer rows.Close()

	chapters := make([]*models.Chapter, 0)
	for rows.Next() {
		chapter := &models.Chapter{}
		if err := rows.Scan(&chapter.ID, &chapter.CourseID, &chapter.Title, &chapter.Slug, &chapter.OrderIndex); err != nil {
			return nil, fmt.Errorf("failed to scan chapter: %w", err)
		}
		chapters = append(chapters, chapter)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return chapters, nil
}

// GetBySlug retrieves a chapter of a course by its slug
func (r *chapterRepository) GetBySlug(ctx context.Context, courseID int, slug string) (*models.Chapter, error) {
	query := `
		SELECT id, course_id, title, slug, order_index
		FROM chapters
		WHERE course_id = ? AND slug = ?
		LIMIT 1
	`

	chapter := &models.Chapter{}
	err := r.db.QueryRowContext(ctx, query, courseID, slug).Scan(
		&chapter.ID,
		&chapter.CourseID,
		&chapter.Title,
		&chapter.Slug,
		&chapter.OrderIndex,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("chapter not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chapter by slug: %w", err)
	}

	return chapter, nil
}

// Create inserts a new chapter
func (r *chapterRepository) Create(ctx context.Context, chapter *models.Chapter) error {
	query := `
		INSERT INTO chapters (course_id, title, slug, order_index)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, chapter.CourseID, chapter.Title, chapter.Slug, chapter.OrderIndex)
	if isDuplicateEntry(err) {
		return apperrors.Conflict("chapter with this slug already exists in the course")
	}
	if err != nil {
		return fmt.Errorf("failed to create chapter: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	chapter.ID = int(id)
	return nil
}
