package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/gosimple/slug"
	"github.com/learncamera/backend/internal/apperrors"
	"github.com/learncamera/backend/internal/models"
	"go.uber.org/zap"
)

type adminContentService struct {
	courseRepo  CourseRepository
	chapterRepo ChapterRepository
	lessonRepo  LessonRepository
	blockRepo   LessonBlockRepository
	logger      *zap.Logger
}

// NewAdminContentService creates a new admin content service
func NewAdminContentService(
	courseRepo CourseRepository,
	chapterRepo ChapterRepository,
	lessonRepo LessonRepository,
	blockRepo LessonBlockRepository,
	logger *zap.Logger,
) *adminContentService {
	return &adminContentService{
		courseRepo:  courseRepo,
		chapterRepo: chapterRepo,
		lessonRepo:  lessonRepo,
		blockRepo:   blockRepo,
		logger:      logger,
	}
}

// CreateCourse creates a course. The slug is derived from the title when not given.
func (s *adminContentService) CreateCourse(ctx context.Context, req *models.CreateCourseRequest) (*models.Course, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	courseSlug, err := slugFor(req.Slug, req.Title)
	if err != nil {
		return nil, err
	}

	course := &models.Course{
		Title:               strings.TrimSpace(req.Title),
		Slug:                courseSlug,
		DescriptionMarkdown: req.DescriptionMarkdown,
		StripePriceID:       strings.TrimSpace(req.StripePriceID),
		PriceCents:          req.PriceCents,
		ImageURL:            req.ImageURL,
		Chapters:            []*models.Chapter{},
	}
	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info("course created", zap.Int("course_id", course.ID), zap.String("slug", course.Slug))
	return course, nil
}

// CreateChapter adds a chapter to the course identified by slug
func (s *adminContentService) CreateChapter(ctx context.Context, courseSlug string, req *models.CreateChapterRequest) (*models.Chapter, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	chapterSlug, err := slugFor(req.Slug, req.Title)
	if err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetBySlug(ctx, courseSlug)
	if err != nil {
		return nil, err
	}

	chapter := &models.Chapter{
		CourseID:   course.ID,
		Title:      strings.TrimSpace(req.Title),
		Slug:       chapterSlug,
		OrderIndex: req.OrderIndex,
		Lessons:    []*models.Lesson{},
	}
	if err := s.chapterRepo.Create(ctx, chapter); err != nil {
		return nil, err
	}

	return chapter, nil
}

// CreateLesson adds a lesson to a chapter. A zero number becomes the next free number of the chapter.
func (s *adminContentService) CreateLesson(ctx context.Context, courseSlug, chapterSlug string, req *models.CreateLessonRequest) (*models.Lesson, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	lessonSlug, err := slugFor(req.Slug, req.Title)
	if err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetBySlug(ctx, courseSlug)
	if err != nil {
		return nil, err
	}
	chapter, err := s.chapterRepo.GetBySlug(ctx, course.ID, chapterSlug)
	if err != nil {
		return nil, err
	}

	lesson := &models.Lesson{
		ChapterID:     chapter.ID,
		Title:         strings.TrimSpace(req.Title),
		Slug:          lessonSlug,
		Number:        req.Number,
		OrderIndex:    req.OrderIndex,
		IsFreePreview: req.IsFreePreview,
		Blocks:        []*models.LessonBlock{},
	}
	if err := s.lessonRepo.Create(ctx, lesson); err != nil {
		return nil, err
	}

	return lesson, nil
}

// CreateBlock appends a content block to a lesson
func (s *adminContentService) CreateBlock(ctx context.Context, courseSlug, chapterSlug string, number int, req *models.CreateBlockRequest) (*models.LessonBlock, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	links := req.Links
	if len(links) == 0 || string(links) == "null" {
		links = json.RawMessage("[]")
	}
	var decoded []any
	if err := json.Unmarshal(links, &decoded); err != nil {
		return nil, apperrors.Validation("links must be a JSON array")
	}

	imageURLs := req.ImageURLs
	if imageURLs == nil {
		imageURLs = []string{}
	}

	location, err := s.lessonRepo.GetByLocator(ctx, courseSlug, chapterSlug, number)
	if err != nil {
		return nil, err
	}

	block := &models.LessonBlock{
		LessonID:     location.Lesson.ID,
		BlockType:    req.BlockType,
		OrderIndex:   req.OrderIndex,
		TextMarkdown: req.TextMarkdown,
		ImageURLs:    imageURLs,
		VideoURL:     req.VideoURL,
		Links:        links,
	}
	if err := s.blockRepo.Create(ctx, block); err != nil {
		return nil, err
	}

	return block, nil
}

// DeleteCourse deletes a course together with its content, progress and purchases
func (s *adminContentService) DeleteCourse(ctx context.Context, courseSlug string) error {
	if err := s.courseRepo.DeleteBySlug(ctx, courseSlug); err != nil {
		return err
	}

	s.logger.Info("course deleted", zap.String("slug", courseSlug))
	return nil
}

// Entities lists the entities and fields visible to content administrators
func (s *adminContentService) Entities() []models.AdminEntity {
	return models.AdminEntities
}

// slugFor normalises an explicit slug or derives one from the title
func slugFor(explicit, title string) (string, error) {
	source := strings.TrimSpace(explicit)
	if source == "" {
		source = title
	}
	result := slug.Make(source)
	if result == "" {
		return "", apperrors.Validation("slug could not be derived from title")
	}
	return result, nil
}
