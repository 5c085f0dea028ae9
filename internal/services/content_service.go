package services

import (
	"context"
	"fmt"

	"github.com/learncamera/backend/internal/models"
)

// CourseRepository defines methods for course data access
type CourseRepository interface {
	// GetAll retrieves all courses ordered by title
	//
	// "ctx" is the context for the request.
	//
	// Returns a list of courses without chapters and an error if any.
	GetAll(ctx context.Context) ([]*models.Course, error)
	// GetBySlug retrieves a course by slug
	//
	// "ctx" is the context for the request.
	// "slug" is the slug of the course.
	//
	// If the course does not exist, a NotFound error is returned.
	GetBySlug(ctx context.Context, slug string) (*models.Course, error)
	// GetByID retrieves a course by ID
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the course.
	//
	// If the course does not exist, a NotFound error is returned.
	GetByID(ctx context.Context, id int) (*models.Course, error)
	// Create creates a new course and sets its ID
	//
	// "ctx" is the context for the request.
	// "course" is the course to create.
	//
	// If the slug is taken, a Conflict error is returned.
	Create(ctx context.Context, course *models.Course) error
	// DeleteBySlug deletes a course with its whole tree, progress and purchases
	//
	// "ctx" is the context for the request.
	// "slug" is the slug of the course.
	//
	// If the course does not exist, a NotFound error is returned.
	DeleteBySlug(ctx context.Context, slug string) error
}

// ChapterRepository defines methods for chapter data access
type ChapterRepository interface {
	// GetByCourseIDs retrieves the chapters of the given courses ordered by order_index
	//
	// "ctx" is the context for the request.
	// "courseIDs" are the IDs of the courses.
	//
	// Returns a list of chapters and an error if any.
	GetByCourseIDs(ctx context.Context, courseIDs []int) ([]*models.Chapter, error)
	// GetBySlug retrieves a chapter of a course by slug
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	// "slug" is the slug of the chapter.
	//
	// If the chapter does not exist, a NotFound error is returned.
	GetBySlug(ctx context.Context, courseID int, slug string) (*models.Chapter, error)
	// Create creates a new chapter and sets its ID
	//
	// "ctx" is the context for the request.
	// "chapter" is the chapter to create.
	//
	// If the slug is taken within the course, a Conflict error is returned.
	Create(ctx context.Context, chapter *models.Chapter) error
}

// LessonRepository defines methods for lesson data access
type LessonRepository interface {
	// GetByChapterIDs retrieves the lessons of the given chapters ordered by order_index
	//
	// "ctx" is the context for the request.
	// "chapterIDs" are the IDs of the chapters.
	//
	// Returns a list of lessons and an error if any.
	GetByChapterIDs(ctx context.Context, chapterIDs []int) ([]*models.Lesson, error)
	// GetByLocator resolves a lesson from its public address
	//
	// "ctx" is the context for the request.
	// "courseSlug" is the slug of the course.
	// "chapterSlug" is the slug of the chapter.
	// "number" is the number of the lesson within the chapter.
	//
	// If no such lesson exists, a NotFound error is returned.
	GetByLocator(ctx context.Context, courseSlug, chapterSlug string, number int) (*models.LessonLocation, error)
	// GetSequenceByCourseID lists a course's lessons by chapter order_index then lesson number
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	//
	// Returns the sequenced lessons and an error if any.
	GetSequenceByCourseID(ctx context.Context, courseID int) ([]models.SequencedLesson, error)
	// CountByCourseID counts the lessons of a course
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	//
	// Returns the number of lessons and an error if any.
	CountByCourseID(ctx context.Context, courseID int) (int, error)
	// Create creates a new lesson, assigning its number and order index when unset
	//
	// "ctx" is the context for the request.
	// "lesson" is the lesson to create.
	//
	// If the slug or number is taken within the chapter, a Conflict error is returned.
	Create(ctx context.Context, lesson *models.Lesson) error
}

// LessonBlockRepository defines methods for lesson block data access
type LessonBlockRepository interface {
	// GetByLessonIDs retrieves the blocks of the given lessons ordered by order_index
	//
	// "ctx" is the context for the request.
	// "lessonIDs" are the IDs of the lessons.
	//
	// Returns a list of blocks and an error if any.
	GetByLessonIDs(ctx context.Context, lessonIDs []int) ([]*models.LessonBlock, error)
	// Create creates a new block and sets its ID
	//
	// "ctx" is the context for the request.
	// "block" is the block to create.
	//
	// Returns an error if any.
	Create(ctx context.Context, block *models.LessonBlock) error
}

type contentService struct {
	courseRepo  CourseRepository
	chapterRepo ChapterRepository
	lessonRepo  LessonRepository
	blockRepo   LessonBlockRepository
}

// NewContentService creates a new content service
func NewContentService(
	courseRepo CourseRepository,
	chapterRepo ChapterRepository,
	lessonRepo LessonRepository,
	blockRepo LessonBlockRepository,
) *contentService {
	return &contentService{
		courseRepo:  courseRepo,
		chapterRepo: chapterRepo,
		lessonRepo:  lessonRepo,
		blockRepo:   blockRepo,
	}
}

// ListCourses returns every course with its full chapter, lesson and block tree
func (s *contentService) ListCourses(ctx context.Context) ([]*models.Course, error) {
	courses, err := s.courseRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.attachTrees(ctx, courses); err != nil {
		return nil, err
	}

	return courses, nil
}

// GetCourse returns a single course tree
func (s *contentService) GetCourse(ctx context.Context, slug string) (*models.Course, error) {
	course, err := s.courseRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if err := s.attachTrees(ctx, []*models.Course{course}); err != nil {
		return nil, err
	}

	return course, nil
}

// GetLesson resolves a lesson by course slug, chapter slug and number and loads its blocks
func (s *contentService) GetLesson(ctx context.Context, courseSlug, chapterSlug string, number int) (*models.LessonLocation, error) {
	location, err := s.lessonRepo.GetByLocator(ctx, courseSlug, chapterSlug, number)
	if err != nil {
		return nil, err
	}

	blocks, err := s.blockRepo.GetByLessonIDs(ctx, []int{location.Lesson.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to load lesson blocks: %w", err)
	}
	location.Lesson.Blocks = blocks

	return location, nil
}

// attachTrees loads chapters, lessons and blocks for the given courses with one query per level.
// Repositories return each level already ordered by order_index.
func (s *contentService) attachTrees(ctx context.Context, courses []*models.Course) error {
	courseIDs := make([]int, 0, len(courses))
	byCourse := make(map[int]*models.Course, len(courses))
	for _, course := range courses {
		course.Chapters = []*models.Chapter{}
		courseIDs = append(courseIDs, course.ID)
		byCourse[course.ID] = course
	}

	chapters, err := s.chapterRepo.GetByCourseIDs(ctx, courseIDs)
	if err != nil {
		return fmt.Errorf("failed to load chapters: %w", err)
	}

	chapterIDs := make([]int, 0, len(chapters))
	byChapter := make(map[int]*models.Chapter, len(chapters))
	for _, chapter := range chapters {
		chapter.Lessons = []*models.Lesson{}
		if course, ok := byCourse[chapter.CourseID]; ok {
			course.Chapters = append(course.Chapters, chapter)
		}
		chapterIDs = append(chapterIDs, chapter.ID)
		byChapter[chapter.ID] = chapter
	}

	lessons, err := s.lessonRepo.GetByChapterIDs(ctx, chapterIDs)
	if err != nil {
		return fmt.Errorf("failed to load lessons: %w", err)
	}

	lessonIDs := make([]int, 0, len(lessons))
	byLesson := make(map[int]*models.Lesson, len(lessons))
	for _, lesson := range lessons {
		lesson.Blocks = []*models.LessonBlock{}
		if chapter, ok := byChapter[lesson.ChapterID]; ok {
			chapter.Lessons = append(chapter.Lessons, lesson)
		}
		lessonIDs = append(lessonIDs, lesson.ID)
		byLesson[lesson.ID] = lesson
	}

	blocks, err := s.blockRepo.GetByLessonIDs(ctx, lessonIDs)
	if err != nil {
		return fmt.Errorf("failed to load lesson blocks: %w", err)
	}

	for _, block := range blocks {
		if lesson, ok := byLesson[block.LessonID]; ok {
			lesson.Blocks = append(lesson.Blocks, block)
		}
	}

	return nil
}
