package services

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/learncamera/backend/internal/apperrors"
	"github.com/learncamera/backend/internal/models"
)

// ProgressRepository defines methods for lesson progress data access
type ProgressRepository interface {
	// Start creates the progress row for (user, lesson) unless it exists
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "lessonID" is the ID of the lesson.
	// "startedAt" is stored as the start time of a new row.
	//
	// Returns whether a row was created and an error if any.
	Start(ctx context.Context, userID, lessonID int, startedAt time.Time) (bool, error)
	// MarkCompleted sets the completion time of an incomplete progress row
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "lessonID" is the ID of the lesson.
	// "completedAt" is the completion time.
	//
	// Returns whether the row changed and an error if any.
	MarkCompleted(ctx context.Context, userID, lessonID int, completedAt time.Time) (bool, error)
	// CountCompletedByCourse counts the user's completed lessons in a course
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "courseID" is the ID of the course.
	//
	// Returns the number of completed lessons and an error if any.
	CountCompletedByCourse(ctx context.Context, userID, courseID int) (int, error)
	// GetCompletedLessonIDs lists the user's completed lessons in a course
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "courseID" is the ID of the course.
	//
	// Returns the lesson IDs and an error if any.
	GetCompletedLessonIDs(ctx context.Context, userID, courseID int) ([]int, error)
	// GetLastIncomplete finds the most recently started incomplete lesson across all courses
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns nil without error when the user has no incomplete lesson.
	GetLastIncomplete(ctx context.Context, userID int) (*models.LessonPointer, error)
}

type progressService struct {
	courseRepo   CourseRepository
	lessonRepo   LessonRepository
	progressRepo ProgressRepository
	now          func() time.Time
}

// NewProgressService creates a new progress service
func NewProgressService(
	courseRepo CourseRepository,
	lessonRepo LessonRepository,
	progressRepo ProgressRepository,
) *progressService {
	return &progressService{
		courseRepo:   courseRepo,
		lessonRepo:   lessonRepo,
		progressRepo: progressRepo,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// StartLesson marks a lesson as started for the user. Starting an already started
// or completed lesson changes nothing.
func (s *progressService) StartLesson(ctx context.Context, userID int, courseSlug, chapterSlug string, number int) error {
	location, err := s.lessonRepo.GetByLocator(ctx, courseSlug, chapterSlug, number)
	if err != nil {
		return err
	}

	if _, err := s.progressRepo.Start(ctx, userID, location.Lesson.ID, s.now()); err != nil {
		return err
	}

	return nil
}

// CompleteLesson marks a lesson as completed, starting it first when needed.
// The first completion time is kept on repeated calls.
func (s *progressService) CompleteLesson(ctx context.Context, userID int, courseSlug, chapterSlug string, number int) error {
	location, err := s.lessonRepo.GetByLocator(ctx, courseSlug, chapterSlug, number)
	if err != nil {
		return err
	}

	now := s.now()
	if _, err := s.progressRepo.Start(ctx, userID, location.Lesson.ID, now); err != nil {
		return err
	}
	if _, err := s.progressRepo.MarkCompleted(ctx, userID, location.Lesson.ID, now); err != nil {
		return err
	}

	return nil
}

// CourseProgress counts the user's completed lessons against all lessons of the course
func (s *progressService) CourseProgress(ctx context.Context, userID int, courseSlug string) (*models.CourseProgress, error) {
	course, err := s.courseRepo.GetBySlug(ctx, courseSlug)
	if err != nil {
		return nil, err
	}

	total, err := s.lessonRepo.CountByCourseID(ctx, course.ID)
	if err != nil {
		return nil, err
	}

	completed, err := s.progressRepo.CountCompletedByCourse(ctx, userID, course.ID)
	if err != nil {
		return nil, err
	}

	return &models.CourseProgress{
		Completed:  completed,
		Total:      total,
		Percentage: completionPercentage(completed, total),
	}, nil
}

// NextLesson returns the first lesson in sequencing order the user has not completed.
// When every lesson is completed the last lesson is returned with AllCompleted set.
// A course without lessons yields NotFound.
func (s *progressService) NextLesson(ctx context.Context, userID int, courseSlug string) (*models.NextLesson, error) {
	course, sequence, completed, err := s.loadSequence(ctx, userID, courseSlug)
	if err != nil {
		return nil, err
	}

	if len(sequence) == 0 {
		return nil, apperrors.NotFound("no lessons found")
	}

	idx := nextIndex(sequence, completed)
	allCompleted := idx < 0
	if allCompleted {
		idx = len(sequence) - 1
	}

	lesson := sequence[idx]
	return &models.NextLesson{
		LessonPointer: models.LessonPointer{
			CourseSlug:  course.Slug,
			ChapterSlug: lesson.ChapterSlug,
			Number:      lesson.Number,
			Title:       lesson.Title,
		},
		IsFreePreview: lesson.IsFreePreview,
		AllCompleted:  allCompleted,
	}, nil
}

// LastIncompleteLesson returns the most recently started lesson the user has not completed,
// across all courses. Nil without error means there is none.
func (s *progressService) LastIncompleteLesson(ctx context.Context, userID int) (*models.LessonPointer, error) {
	return s.progressRepo.GetLastIncomplete(ctx, userID)
}

// LessonStatuses lists every lesson of the course in sequencing order with its completion state.
// Exactly one lesson is flagged as next unless all lessons are completed.
func (s *progressService) LessonStatuses(ctx context.Context, userID int, courseSlug string) (*models.LessonStatuses, error) {
	course, sequence, completed, err := s.loadSequence(ctx, userID, courseSlug)
	if err != nil {
		return nil, err
	}

	result := &models.LessonStatuses{
		CourseSlug:     course.Slug,
		LessonStatuses: make([]models.LessonStatus, 0, len(sequence)),
	}

	next := nextIndex(sequence, completed)
	if next >= 0 {
		result.NextLesson = &models.NextLessonRef{
			ChapterSlug: sequence[next].ChapterSlug,
			Number:      sequence[next].Number,
		}
	}

	for i, lesson := range sequence {
		_, isCompleted := completed[lesson.LessonID]
		result.LessonStatuses = append(result.LessonStatuses, models.LessonStatus{
			LessonID:      lesson.LessonID,
			ChapterSlug:   lesson.ChapterSlug,
			Number:        lesson.Number,
			Title:         lesson.Title,
			IsCompleted:   isCompleted,
			IsNext:        i == next,
			IsFreePreview: lesson.IsFreePreview,
		})
	}

	return result, nil
}

// loadSequence resolves the course, its lessons in sequencing order and the user's completed set
func (s *progressService) loadSequence(ctx context.Context, userID int, courseSlug string) (*models.Course, []models.SequencedLesson, map[int]struct{}, error) {
	course, err := s.courseRepo.GetBySlug(ctx, courseSlug)
	if err != nil {
		return nil, nil, nil, err
	}

	sequence, err := s.lessonRepo.GetSequenceByCourseID(ctx, course.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	sortSequence(sequence)

	completedIDs, err := s.progressRepo.GetCompletedLessonIDs(ctx, userID, course.ID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load completed lessons: %w", err)
	}

	completed := make(map[int]struct{}, len(completedIDs))
	for _, id := range completedIDs {
		completed[id] = struct{}{}
	}

	return course, sequence, completed, nil
}

// sortSequence orders lessons by chapter order_index then lesson number.
// Lesson order_index is not part of the key.
func sortSequence(sequence []models.SequencedLesson) {
	slices.SortStableFunc(sequence, func(a, b models.SequencedLesson) int {
		return cmp.Or(
			cmp.Compare(a.ChapterOrderIndex, b.ChapterOrderIndex),
			cmp.Compare(a.Number, b.Number),
		)
	})
}

// nextIndex returns the index of the first lesson not in completed, or -1 when all are completed
func nextIndex(sequence []models.SequencedLesson, completed map[int]struct{}) int {
	for i, lesson := range sequence {
		if _, done := completed[lesson.LessonID]; !done {
			return i
		}
	}
	return -1
}

// completionPercentage is completed/total*100 rounded to one decimal, and 0 for an empty course
func completionPercentage(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*1000) / 10
}
