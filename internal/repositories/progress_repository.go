package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/learncamera/backend/internal/apperrors"
	"github.com/learncamera/backend/internal/models"
)

type progressRepository struct {
	db *sql.DB
}

// NewProgressRepository creates a new lesson progress repository
func NewProgressRepository(db *sql.DB) *progressRepository {
	return &progressRepository{
		db: db,
	}
}

// Start creates the progress row for (user, lesson) if it does not exist yet.
// It reports whether a row was created. An existing row is left untouched.
func (r *progressRepository) Start(ctx context.Context, userID, lessonID int, startedAt time.Time) (bool, error) {
	query := `
		INSERT INTO lesson_progress (user_id, lesson_id, started_at)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE id = id
	`

	result, err := r.db.ExecContext(ctx, query, userID, lessonID, startedAt)
	if err != nil {
		return false, fmt.Errorf("failed to start lesson progress: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

// MarkCompleted sets completed_at on an incomplete progress row.
// It reports whether the row changed; an already completed row keeps its timestamp.
func (r *progressRepository) MarkCompleted(ctx context.Context, userID, lessonID int, completedAt time.Time) (bool, error) {
	query := `
		UPDATE lesson_progress
		SET completed_at = ?
		WHERE user_id = ? AND lesson_id = ? AND completed_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, completedAt, userID, lessonID)
	if err != nil {
		return false, fmt.Errorf("failed to complete lesson progress: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

// Get retrieves the progress row for (user, lesson)
func (r *progressRepository) Get(ctx context.Context, userID, lessonID int) (*models.LessonProgress, error) {
	query := `
		SELECT id, user_id, lesson_id, started_at, completed_at
		FROM lesson_progress
		WHERE user_id = ? AND lesson_id = ?
		LIMIT 1
	`

	progress := &models.LessonProgress{}
	var completedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, userID, lessonID).Scan(
		&progress.ID,
		&progress.UserID,
		&progress.LessonID,
		&progress.StartedAt,
		&completedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("progress not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson progress: %w", err)
	}

	if completedAt.Valid {
		progress.CompletedAt = &completedAt.Time
	}
	return progress, nil
}

// CountCompletedByCourse counts the user's completed lessons under a course
func (r *progressRepository) CountCompletedByCourse(ctx context.Context, userID, courseID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM lesson_progress p
		INNER JOIN lessons l ON l.id = p.lesson_id
		INNER JOIN chapters ch ON ch.id = l.chapter_id
		WHERE p.user_id = ? AND ch.course_id = ? AND p.completed_at IS NOT NULL
	`

	var count int
	if err := r.db.QueryRowContext(ctx, query, userID, courseID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count completed lessons: %w", err)
	}

	return count, nil
}

// GetCompletedLessonIDs lists the ids of the user's completed lessons under a course
func (r *progressRepository) GetCompletedLessonIDs(ctx context.Context, userID, courseID int) ([]int, error) {
	query := `
		SELECT p.lesson_id
		FROM lesson_progress p
		INNER JOIN lessons l ON l.id = p.lesson_id
		INNER JOIN chapters ch ON ch.id = l.chapter_id
		WHERE p.user_id = ? AND ch.course_id = ? AND p.completed_at IS NOT NULL
	`

	rows, err := r.db.QueryContext(ctx, query, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed lessons: %w", err)
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan lesson id: %w", err)
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return ids, nil
}

// GetLastIncomplete returns the most recently started incomplete lesson of the user across all courses.
// Rows started at the same instant are resolved in favour of the later insert.
// A nil pointer without error means the user has no incomplete lesson.
func (r *progressRepository) GetLastIncomplete(ctx context.Context, userID int) (*models.LessonPointer, error) {
	query := `
		SELECT c.slug, ch.slug, l.number, l.title
		FROM lesson_progress p
		INNER JOIN lessons l ON l.id = p.lesson_id
		INNER JOIN chapters ch ON ch.id = l.chapter_id
		INNER JOIN courses c ON c.id = ch.course_id
		WHERE p.user_id = ? AND p.completed_at IS NULL
		ORDER BY p.started_at DESC, p.id DESC
		LIMIT 1
	`

	pointer := &models.LessonPointer{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&pointer.CourseSlug,
		&pointer.ChapterSlug,
		&pointer.Number,
		&pointer.Title,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last incomplete lesson: %w", err)
	}

	return pointer, nil
}

// ListReminderTargets lists users whose latest incomplete lesson was started before idleBefore
func (r *progressRepository) ListReminderTargets(ctx context.Context, idleBefore time.Time) ([]models.ReminderTarget, error) {
	query := `
		SELECT u.id, u.email, u.username, MAX(p.started_at) AS last_started_at
		FROM lesson_progress p
		INNER JOIN users u ON u.id = p.user_id
		WHERE p.completed_at IS NULL
		GROUP BY u.id, u.email, u.username
		HAVING MAX(p.started_at) < ?
		ORDER BY u.id
	`

	rows, err := r.db.QueryContext(ctx, query, idleBefore)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminder targets: %w", err)
	}
	defer rows.Close()

	targets := make([]models.ReminderTarget, 0)
	for rows.Next() {
		var target models.ReminderTarget
		if err := rows.Scan(&target.UserID, &target.Email, &target.Username, &target.LastStartedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reminder target: %w", err)
		}
		targets = append(targets, target)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return targets, nil
}
