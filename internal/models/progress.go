package models

import "time"

// LessonProgress is a user's start and completion record for one lesson
type LessonProgress struct {
	ID          int        `json:"id"`
	UserID      int        `json:"user_id"`
	LessonID    int        `json:"lesson_id"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// IsCompleted reports whether the lesson has been completed
func (p *LessonProgress) IsCompleted() bool {
	return p.CompletedAt != nil
}

// SequencedLesson is a lesson row as used for progress sequencing
type SequencedLesson struct {
	LessonID          int
	ChapterSlug       string
	ChapterOrderIndex int
	Number            int
	Title             string
	IsFreePreview     bool
}

// StatusResponse is returned by the start and complete endpoints
type StatusResponse struct {
	Status string `json:"status"`
}

// LessonPointer identifies a lesson by course, chapter and number
type LessonPointer struct {
	CourseSlug  string `json:"course_slug"`
	ChapterSlug string `json:"chapter_slug"`
	Number      int    `json:"number"`
	Title       string `json:"title"`
}

// NextLesson is the next lesson a user should take in a course.
// When every lesson is completed it points at the last lesson and AllCompleted is set.
type NextLesson struct {
	LessonPointer
	IsFreePreview bool `json:"is_free_preview"`
	AllCompleted  bool `json:"all_completed,omitempty"`
}

// CourseProgress aggregates a user's completion of a course
type CourseProgress struct {
	Completed  int     `json:"completed"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// LessonStatus is one entry of the lesson status listing
type LessonStatus struct {
	LessonID      int    `json:"lesson_id"`
	ChapterSlug   string `json:"chapter_slug"`
	Number        int    `json:"number"`
	Title         string `json:"title"`
	IsCompleted   bool   `json:"is_completed"`
	IsNext        bool   `json:"is_next"`
	IsFreePreview bool   `json:"is_free_preview"`
}

// NextLessonRef identifies the next lesson inside a status listing
type NextLessonRef struct {
	ChapterSlug string `json:"chapter_slug"`
	Number      int    `json:"number"`
}

// LessonStatuses lists the completion state of every lesson in a course.
// NextLesson is nil when every lesson is completed.
type LessonStatuses struct {
	CourseSlug     string         `json:"course_slug"`
	LessonStatuses []LessonStatus `json:"lesson_statuses"`
	NextLesson     *NextLessonRef `json:"next_lesson"`
}

// ReminderTarget is a user with a stale incomplete lesson
type ReminderTarget struct {
	UserID        int
	Email         string
	Username      string
	LastStartedAt time.Time
}
