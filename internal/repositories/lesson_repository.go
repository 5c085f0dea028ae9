package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/learncamera/backend/internal/apperrors"
	"github.com/learncamera/backend/internal/models"
)

type lessonRepository struct {
	db *sql.DB
}

// NewLessonRepository creates a new lesson repository
func NewLessonRepository(db *sql.DB) *lessonRepository {
	return &lessonRepository{
		db: db,
	}
}

// GetByChapterIDs retrieves the lessons of several chapters, each chapter's lessons ordered by order_index
func (r *lessonRepository) GetByChapterIDs(ctx context.Context, chapterIDs []int) ([]*models.Lesson, error) {
	if len(chapterIDs) == 0 {
		return []*models.Lesson{}, nil
	}

	placeholders, args := inClause(chapterIDs)
	query := fmt.Sprintf(`
		SELECT id, chapter_id, title, slug, number, order_index, is_free_preview
		FROM lessons
		WHERE chapter_id IN (%s)
		ORDER BY chapter_id, order_index, id`, placeholders)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query lessons: %w", err)
	}
	defer rows.Close()

	lessons := make([]*models.Lesson, 0)
	for rows.Next() {
		lesson := &models.Lesson{}
		err := rows.Scan(
			&lesson.ID,
			&lesson.ChapterID,
			&lesson.Title,
			&lesson.Slug,
			&lesson.Number,
			&lesson.OrderIndex,
			&lesson.IsFreePreview,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lesson: %w", err)
		}
		lessons = append(lessons, lesson)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return lessons, nil
}

// GetByLocator resolves a lesson by course slug, chapter slug and lesson number
func (r *lessonRepository) GetByLocator(ctx context.Context, courseSlug, chapterSlug string, number int) (*models.LessonLocation, error) {
	query := `
		SELECT l.id, l.chapter_id, l.title, l.slug, l.number, l.order_index, l.is_free_preview,
		       c.id, c.slug, ch.slug
		FROM lessons l
		INNER JOIN chapters ch ON ch.id = l.chapter_id
		INNER JOIN courses c ON c.id = ch.course_id
		WHERE c.slug = ? AND ch.slug = ? AND l.number = ?
		LIMIT 1
	`

	lesson := &models.Lesson{}
	location := &models.LessonLocation{Lesson: lesson}
	err := r.db.QueryRowContext(ctx, query, courseSlug, chapterSlug, number).Scan(
		&lesson.ID,
		&lesson.ChapterID,
		&lesson.Title,
		&lesson.Slug,
		&lesson.Number,
		&lesson.OrderIndex,
		&lesson.IsFreePreview,
		&location.CourseID,
		&location.CourseSlug,
		&location.ChapterSlug,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("lesson not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson by locator: %w", err)
	}

	return location, nil
}

// GetSequenceByCourseID lists a course's lessons in sequencing order:
// chapter order_index first, then lesson number.
func (r *lessonRepository) GetSequenceByCourseID(ctx context.Context, courseID int) ([]models.SequencedLesson, error) {
	query := `
		SELECT l.id, ch.slug, ch.order_index, l.number, l.title, l.is_free_preview
		FROM lessons l
		INNER JOIN chapters ch ON ch.id = l.chapter_id
		WHERE ch.course_id = ?
		ORDER BY ch.order_index, l.number, ch.id
	`

	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lesson sequence: %w", err)
	}
	defer rows.Close()

	sequence := make([]models.SequencedLesson, 0)
	for rows.Next() {
		var lesson models.SequencedLesson
		err := rows.Scan(
			&lesson.LessonID,
			&lesson.ChapterSlug,
			&lesson.ChapterOrderIndex,
			&lesson.Number,
			&lesson.Title,
			&lesson.IsFreePreview,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sequenced lesson: %w", err)
		}
		sequence = append(sequence, lesson)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return sequence, nil
}

// CountByCourseID counts all lessons under a course
func (r *lessonRepository) CountByCourseID(ctx context.Context, courseID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM lessons l
		INNER JOIN chapters ch ON ch.id = l.chapter_id
		WHERE ch.course_id = ?
	`

	var count int
	if err := r.db.QueryRowContext(ctx, query, courseID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count lessons: %w", err)
	}

	return count, nil
}

// Create inserts a new lesson.
// A zero Number is assigned as max+1 within the chapter and a zero OrderIndex as Number-1.
// The chapter's lesson rows are locked while the number is chosen.
func (r *lessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if lesson.Number == 0 {
		query := `SELECT COALESCE(MAX(number), 0) + 1 FROM lessons WHERE chapter_id = ? FOR UPDATE`
		if err := tx.QueryRowContext(ctx, query, lesson.ChapterID).Scan(&lesson.Number); err != nil {
			return fmt.Errorf("failed to get next lesson number: %w", err)
		}
	}
	if lesson.OrderIndex == 0 {
		lesson.OrderIndex = max(lesson.Number-1, 0)
	}

	query := `
		INSERT INTO lessons (chapter_id, title, slug, number, order_index, is_free_preview)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	result, err := tx.ExecContext(ctx, query,
		lesson.ChapterID,
		lesson.Title,
		lesson.Slug,
		lesson.Number,
		lesson.OrderIndex,
		lesson.IsFreePreview,
	)
	if isDuplicateEntry(err) {
		return apperrors.Conflict("lesson with this slug or number already exists in the chapter")
	}
	if err != nil {
		return fmt.Errorf("failed to create lesson: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	lesson.ID = int(id)
	return nil
}
