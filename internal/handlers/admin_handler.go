package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/learncamera/backend/internal/models"
	"go.uber.org/zap"
)

// AdminContentService is the interface that wraps methods for managing course content
type AdminContentService interface {
	// CreateCourse creates a course
	//
	// "ctx" is the context for the request.
	// "req" holds the course fields. An empty slug is derived from the title.
	//
	// Returns the created course and an error if any.
	CreateCourse(ctx context.Context, req *models.CreateCourseRequest) (*models.Course, error)
	// CreateChapter adds a chapter to a course
	//
	// "ctx" is the context for the request.
	// "courseSlug" is the slug of the course.
	// "req" holds the chapter fields.
	//
	// Returns the created chapter and an error if any.
	CreateChapter(ctx context.Context, courseSlug string, req *models.CreateChapterRequest) (*models.Chapter, error)
	// CreateLesson adds a lesson to a chapter
	//
	// "ctx" is the context for the request.
	// "courseSlug" is the slug of the course.
	// "chapterSlug" is the slug of the chapter.
	// "req" holds the lesson fields. A zero number is assigned automatically.
	//
	// Returns the created lesson and an error if any.
	CreateLesson(ctx context.Context, courseSlug, chapterSlug string, req *models.CreateLessonRequest) (*models.Lesson, error)
	// CreateBlock appends a content block to a lesson
	//
	// "ctx" is the context for the request.
	// "courseSlug", "chapterSlug" and "number" address the lesson.
	// "req" holds the block fields.
	//
	// Returns the created block and an error if any.
	CreateBlock(ctx context.Context, courseSlug, chapterSlug string, number int, req *models.CreateBlockRequest) (*models.LessonBlock, error)
	// DeleteCourse deletes a course with everything that belongs to it
	//
	// "ctx" is the context for the request.
	// "courseSlug" is the slug of the course.
	//
	// Returns a NotFound error for an unknown course.
	DeleteCourse(ctx context.Context, courseSlug string) error
	// Entities lists the entities and fields visible to administrators
	Entities() []models.AdminEntity
}

// AdminHandler handles HTTP requests for content administration
type AdminHandler struct {
	BaseHandler
	service AdminContentService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(svc AdminContentService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		service:     svc,
		BaseHandler: BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers all admin handler routes
func (h *AdminHandler) RegisterRoutes(r chi.Router, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(adminMiddleware)
		r.Get("/entities", h.ListEntities)
		r.Post("/courses", h.CreateCourse)
		r.Delete("/courses/{courseSlug}", h.DeleteCourse)
		r.Post("/courses/{courseSlug}/chapters", h.CreateChapter)
		r.Post("/courses/{courseSlug}/{chapterSlug}/lessons", h.CreateLesson)
		r.Post("/courses/{courseSlug}/{chapterSlug}/{number}/blocks", h.CreateBlock)
	})
}

// ListEntities handles GET /admin/entities
// @Summary List admin entities
// @Description Get the entities and fields exposed to content administrators
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.AdminEntity
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /admin/entities [get]
func (h *AdminHandler) ListEntities(w http.ResponseWriter, r *http.Request) {
	h.RespondJSON(w, http.StatusOK, h.service.Entities())
}

// CreateCourse handles POST /admin/courses
// @Summary Create course
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateCourseRequest true "Course"
// @Success 201 {object} models.Course
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/courses [post]
func (h *AdminHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCourseRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	course, err := h.service.CreateCourse(r.Context(), &req)
	if err != nil {
		h.RespondAppError(w, err, "failed to create course")
		return
	}

	h.RespondJSON(w, http.StatusCreated, course)
}

// DeleteCourse handles DELETE /admin/courses/{courseSlug}
// @Summary Delete course
// @Description Delete a course with its chapters, lessons, blocks, progress and purchases
// @Tags admin
// @Security BearerAuth
// @Param courseSlug path string true "Course slug"
// @Success 204 "Deleted"
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/courses/{courseSlug} [delete]
func (h *AdminHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCourse(r.Context(), chi.URLParam(r, "courseSlug")); err != nil {
		h.RespondAppError(w, err, "failed to delete course")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateChapter handles POST /admin/courses/{courseSlug}/chapters
// @Summary Create chapter
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseSlug path string true "Course slug"
// @Param request body models.CreateChapterRequest true "Chapter"
// @Success 201 {object} models.Chapter
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/courses/{courseSlug}/chapters [post]
func (h *AdminHandler) CreateChapter(w http.ResponseWriter, r *http.Request) {
	var req models.CreateChapterRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	chapter, err := h.service.CreateChapter(r.Context(), chi.URLParam(r, "courseSlug"), &req)
	if err != nil {
		h.RespondAppError(w, err, "failed to create chapter")
		return
	}

	h.RespondJSON(w, http.StatusCreated, chapter)
}

// CreateLesson handles POST /admin/courses/{courseSlug}/{chapterSlug}/lessons
// @Summary Create lesson
// @Description Add a lesson to a chapter. Number defaults to the next free number, order index to number-1.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseSlug path string true "Course slug"
// @Param chapterSlug path string true "Chapter slug"
// @Param request body models.CreateLessonRequest true "Lesson"
// @Success 201 {object} models.Lesson
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/courses/{courseSlug}/{chapterSlug}/lessons [post]
func (h *AdminHandler) CreateLesson(w http.ResponseWriter, r *http.Request) {
	var req models.CreateLessonRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	lesson, err := h.service.CreateLesson(r.Context(), chi.URLParam(r, "courseSlug"), chi.URLParam(r, "chapterSlug"), &req)
	if err != nil {
		h.RespondAppError(w, err, "failed to create lesson")
		return
	}

	h.RespondJSON(w, http.StatusCreated, lesson)
}

// CreateBlock handles POST /admin/courses/{courseSlug}/{chapterSlug}/{number}/blocks
// @Summary Create lesson block
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseSlug path string true "Course slug"
// @Param chapterSlug path string true "Chapter slug"
// @Param number path int true "Lesson number"
// @Param request body models.CreateBlockRequest true "Block"
// @Success 201 {object} models.LessonBlock
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/courses/{courseSlug}/{chapterSlug}/{number}/blocks [post]
func (h *AdminHandler) CreateBlock(w http.ResponseWriter, r *http.Request) {
	number, ok := h.lessonNumber(w, r)
	if !ok {
		return
	}

	var req models.CreateBlockRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	block, err := h.service.CreateBlock(r.Context(), chi.URLParam(r, "courseSlug"), chi.URLParam(r, "chapterSlug"), number, &req)
	if err != nil {
		h.RespondAppError(w, err, "failed to create lesson block")
		return
	}

	h.RespondJSON(w, http.StatusCreated, block)
}
