package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/learncamera/backend/internal/apperrors"
	"github.com/learncamera/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupProgressTestRepository creates a progress repository with a mock database
func setupProgressTestRepository(t *testing.T) (*progressRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	return NewProgressRepository(db), mock, func() { db.Close() }
}

func TestNewProgressRepository(t *testing.T) {
	db := &sql.DB{}

	repo := NewProgressRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestProgressRepository_Start(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name            string
		setupMock       func(sqlmock.Sqlmock)
		expectedError   bool
		expectedCreated bool
	}{
		{
			name: "row created",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO lesson_progress \(user_id, lesson_id, started_at\)\s+VALUES \(\?, \?, \?\)\s+ON DUPLICATE KEY UPDATE id = id`).
					WithArgs(1, 100, now).
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
			expectedCreated: true,
		},
		{
			name: "row already exists",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO lesson_progress`).
					WithArgs(1, 100, now).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			expectedCreated: false,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO lesson_progress`).WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
		{
			name: "rows affected error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO lesson_progress`).
					WillReturnResult(sqlmock.NewErrorResult(errors.New("rows affected error")))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupProgressTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			created, err := repo.Start(context.Background(), 1, 100, now)

			if tt.expectedError {
				assert.Error(t, err)
				assert.False(t, created)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedCreated, created)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestProgressRepository_MarkCompleted(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name            string
		rowsAffected    int64
		execErr         error
		expectedError   bool
		expectedChanged bool
	}{
		{name: "first completion", rowsAffected: 1, expectedChanged: true},
		{name: "already completed keeps timestamp", rowsAffected: 0, expectedChanged: false},
		{name: "database error", execErr: errors.New("database error"), expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupProgressTestRepository(t)
			defer cleanup()

			expect := mock.ExpectExec(`UPDATE lesson_progress\s+SET completed_at = \?\s+WHERE user_id = \? AND lesson_id = \? AND completed_at IS NULL`).
				WithArgs(now, 1, 100)
			if tt.execErr != nil {
				expect.WillReturnError(tt.execErr)
			} else {
				expect.WillReturnResult(sqlmock.NewResult(0, tt.rowsAffected))
			}

			changed, err := repo.MarkCompleted(context.Background(), 1, 100, now)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedChanged, changed)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestProgressRepository_Get(t *testing.T) {
	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	completed := started.Add(time.Hour)
	columns := []string{"id", "user_id", "lesson_id", "started_at", "completed_at"}

	t.Run("in progress", func(t *testing.T) {
		repo, mock, cleanup := setupProgressTestRepository(t)
		defer cleanup()

		mock.ExpectQuery(`FROM lesson_progress\s+WHERE user_id = \? AND lesson_id = \?`).WithArgs(1, 100).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(5, 1, 100, started, nil))

		progress, err := repo.Get(context.Background(), 1, 100)
		require.NoError(t, err)
		assert.False(t, progress.IsCompleted())
		assert.Equal(t, started, progress.StartedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("completed", func(t *testing.T) {
		repo, mock, cleanup := setupProgressTestRepository(t)
		defer cleanup()

		mock.ExpectQuery(`FROM lesson_progress`).WithArgs(1, 100).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(5, 1, 100, started, completed))

		progress, err := repo.Get(context.Background(), 1, 100)
		require.NoError(t, err)
		require.True(t, progress.IsCompleted())
		assert.Equal(t, completed, *progress.CompletedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock, cleanup := setupProgressTestRepository(t)
		defer cleanup()

		mock.ExpectQuery(`FROM lesson_progress`).WithArgs(1, 100).WillReturnError(sql.ErrNoRows)

		progress, err := repo.Get(context.Background(), 1, 100)
		assert.Nil(t, progress)
		assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProgressRepository_CountCompletedByCourse(t *testing.T) {
	repo, mock, cleanup := setupProgressTestRepository(t)
	defer cleanup()

	mock.ExpectQuery(`WHERE p.user_id = \? AND ch.course_id = \? AND p.completed_at IS NOT NULL`).
		WithArgs(1, 7).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountCompletedByCourse(context.Background(), 1, 7)

	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgressRepository_GetCompletedLessonIDs(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo, mock, cleanup := setupProgressTestRepository(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT p.lesson_id\s+FROM lesson_progress p`).
			WithArgs(1, 7).
			WillReturnRows(sqlmock.NewRows([]string{"lesson_id"}).AddRow(100).AddRow(102))

		ids, err := repo.GetCompletedLessonIDs(context.Background(), 1, 7)

		require.NoError(t, err)
		assert.Equal(t, []int{100, 102}, ids)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("none", func(t *testing.T) {
		repo, mock, cleanup := setupProgressTestRepository(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT p.lesson_id`).WithArgs(1, 7).WillReturnRows(sqlmock.NewRows([]string{"lesson_id"}))

		ids, err := repo.GetCompletedLessonIDs(context.Background(), 1, 7)

		require.NoError(t, err)
		assert.Empty(t, ids)
		assert.NotNil(t, ids)
	})
}

func TestProgressRepository_GetLastIncomplete(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		expected      *models.LessonPointer
	}{
		{
			name: "latest incomplete lesson",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"slug", "slug", "number", "title"}).AddRow("intro", "basics", 2, "Exposure")
				mock.ExpectQuery(`WHERE p.user_id = \? AND p.completed_at IS NULL\s+ORDER BY p.started_at DESC, p.id DESC\s+LIMIT 1`).
					WithArgs(1).
					WillReturnRows(rows)
			},
			expected: &models.LessonPointer{CourseSlug: "intro", ChapterSlug: "basics", Number: 2, Title: "Exposure"},
		},
		{
			name: "no progress rows is not an error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`ORDER BY p.started_at DESC`).WithArgs(1).WillReturnError(sql.ErrNoRows)
			},
			expected: nil,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`ORDER BY p.started_at DESC`).WithArgs(1).WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupProgressTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			pointer, err := repo.GetLastIncomplete(context.Background(), 1)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, pointer)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestProgressRepository_ListReminderTargets(t *testing.T) {
	repo, mock, cleanup := setupProgressTestRepository(t)
	defer cleanup()

	cutoff := time.Now().Add(-72 * time.Hour)
	last := cutoff.Add(-time.Hour)
	mock.ExpectQuery(`HAVING MAX\(p.started_at\) < \?`).
		WithArgs(cutoff).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "username", "last_started_at"}).
			AddRow(1, "ann@example.com", "ann", last))

	targets, err := repo.ListReminderTargets(context.Background(), cutoff)

	require.NoError(t, err)
	assert.Equal(t, []models.ReminderTarget{{UserID: 1, Email: "ann@example.com", Username: "ann", LastStartedAt: last}}, targets)
	assert.NoError(t, mock.ExpectationsWereMet())
}
