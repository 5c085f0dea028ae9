package models

import "time"

// Course represents a sellable course with its chapter tree
type Course struct {
	ID                  int        `json:"id"`
	Title               string     `json:"title"`
	Slug                string     `json:"slug"`
	DescriptionMarkdown string     `json:"description_markdown"`
	StripePriceID       string     `json:"-"`
	PriceCents          int64      `json:"price_cents"`
	ImageURL            string     `json:"image_url"`
	CreatedAt           time.Time  `json:"-"`
	UpdatedAt           time.Time  `json:"-"`
	Chapters            []*Chapter `json:"chapters"`
}

// Chapter represents an ordered section of a course
type Chapter struct {
	ID         int       `json:"id"`
	CourseID   int       `json:"-"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	OrderIndex int       `json:"order_index"`
	Lessons    []*Lesson `json:"lessons"`
}

// Lesson represents a lesson addressed by its chapter and number
type Lesson struct {
	ID            int            `json:"id"`
	ChapterID     int            `json:"-"`
	Title         string         `json:"title"`
	Slug          string         `json:"slug"`
	Number        int            `json:"number"`
	OrderIndex    int            `json:"order_index"`
	IsFreePreview bool           `json:"is_free_preview"`
	Blocks        []*LessonBlock `json:"blocks"`
}

// LessonLocation is a lesson resolved together with its chapter and course
type LessonLocation struct {
	Lesson      *Lesson
	CourseID    int
	CourseSlug  string
	ChapterSlug string
}

// CreateCourseRequest represents a request to create a course
type CreateCourseRequest struct {
	Title               string `json:"title" validate:"required,max=255"`
	Slug                string `json:"slug" validate:"omitempty,max=255"`
	DescriptionMarkdown string `json:"description_markdown"`
	StripePriceID       string `json:"stripe_price_id" validate:"max=255"`
	PriceCents          int64  `json:"price_cents" validate:"min=0"`
	ImageURL            string `json:"image_url" validate:"omitempty,url"`
}

// CreateChapterRequest represents a request to add a chapter to a course
type CreateChapterRequest struct {
	Title      string `json:"title" validate:"required,max=255"`
	Slug       string `json:"slug" validate:"omitempty,max=255"`
	OrderIndex int    `json:"order_index" validate:"min=0"`
}

// CreateLessonRequest represents a request to add a lesson to a chapter.
// A zero Number is assigned as max+1 within the chapter, a zero OrderIndex as Number-1.
type CreateLessonRequest struct {
	Title         string `json:"title" validate:"required,max=255"`
	Slug          string `json:"slug" validate:"omitempty,max=255"`
	Number        int    `json:"number" validate:"min=0"`
	OrderIndex    int    `json:"order_index" validate:"min=0"`
	IsFreePreview bool   `json:"is_free_preview"`
}

// LessonDetail is a single lesson returned together with its address
type LessonDetail struct {
	*Lesson
	CourseSlug  string `json:"course_slug"`
	ChapterSlug string `json:"chapter_slug"`
}
