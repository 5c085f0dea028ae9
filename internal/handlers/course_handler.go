package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/learncamera/backend/internal/middleware"
	"github.com/learncamera/backend/internal/models"
	"go.uber.org/zap"
)

// ContentService is the interface that wraps methods for reading course content
type ContentService interface {
	// ListCourses retrieves every course with its chapter, lesson and block tree
	//
	// "ctx" is the context for the request.
	//
	// Returns a list of courses and an error if any.
	ListCourses(ctx context.Context) ([]*models.Course, error)
	// GetCourse retrieves one course tree
	//
	// "ctx" is the context for the request.
	// "slug" is the slug of the course.
	//
	// Returns the course and an error if any. Unknown slugs yield a NotFound error.
	GetCourse(ctx context.Context, slug string) (*models.Course, error)
	// GetLesson resolves a lesson with its blocks
	//
	// "ctx" is the context for the request.
	// "courseSlug" is the slug of the course.
	// "chapterSlug" is the slug of the chapter.
	// "number" is the number of the lesson within the chapter.
	//
	// Returns the lesson location and an error if any.
	GetLesson(ctx context.Context, courseSlug, chapterSlug string, number int) (*models.LessonLocation, error)
}

// AccessService is the interface that wraps the access gate
type AccessService interface {
	// CheckLessonAccess decides whether a caller may read a lesson
	//
	// "ctx" is the context for the request.
	// "userID" is the caller, nil when anonymous.
	// "location" is the resolved lesson.
	//
	// Returns an Unauthenticated or Forbidden error when access is denied.
	CheckLessonAccess(ctx context.Context, userID *int, location *models.LessonLocation) error
	// CourseAccess reports whether the user holds a purchase of the course
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "courseSlug" is the slug of the course.
	//
	// Returns the access flag and an error if any.
	CourseAccess(ctx context.Context, userID int, courseSlug string) (*models.CourseAccess, error)
}

// CourseHandler handles HTTP requests for course content
type CourseHandler struct {
	BaseHandler
	service       ContentService
	accessService AccessService
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(svc ContentService, accessService AccessService, logger *zap.Logger) *CourseHandler {
	return &CourseHandler{
		service:       svc,
		accessService: accessService,
		BaseHandler:   BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers all course handler routes
func (h *CourseHandler) RegisterRoutes(r chi.Router, authMiddleware, optionalAuthMiddleware func(http.Handler) http.Handler) {
	r.Get("/courses", h.ListCourses)
	r.Get("/courses/{courseSlug}", h.GetCourse)
	r.With(optionalAuthMiddleware).Get("/courses/{courseSlug}/{chapterSlug}/{number}", h.GetLesson)
	r.With(authMiddleware).Get("/courses/{courseSlug}/access", h.GetCourseAccess)
}

// ListCourses handles GET /courses
// @Summary List courses
// @Description Get every course with nested chapters, lessons and blocks
// @Tags courses
// @Produce json
// @Success 200 {array} models.Course
// @Failure 500 {object} map[string]string
// @Router /courses [get]
func (h *CourseHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.service.ListCourses(r.Context())
	if err != nil {
		h.RespondAppError(w, err, "failed to list courses")
		return
	}

	h.RespondJSON(w, http.StatusOK, courses)
}

// GetCourse handles GET /courses/{courseSlug}
// @Summary Get course
// @Description Get a single course tree by slug
// @Tags courses
// @Produce json
// @Param courseSlug path string true "Course slug"
// @Success 200 {object} models.Course
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /courses/{courseSlug} [get]
func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	course, err := h.service.GetCourse(r.Context(), chi.URLParam(r, "courseSlug"))
	if err != nil {
		h.RespondAppError(w, err, "failed to get course")
		return
	}

	h.RespondJSON(w, http.StatusOK, course)
}

// GetLesson handles GET /courses/{courseSlug}/{chapterSlug}/{number}
// @Summary Get lesson
// @Description Get a lesson with its blocks. Free preview lessons are public, other lessons require a purchase.
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param courseSlug path string true "Course slug"
// @Param chapterSlug path string true "Chapter slug"
// @Param number path int true "Lesson number"
// @Success 200 {object} models.LessonDetail
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /courses/{courseSlug}/{chapterSlug}/{number} [get]
func (h *CourseHandler) GetLesson(w http.ResponseWriter, r *http.Request) {
	number, ok := h.lessonNumber(w, r)
	if !ok {
		return
	}

	location, err := h.service.GetLesson(r.Context(), chi.URLParam(r, "courseSlug"), chi.URLParam(r, "chapterSlug"), number)
	if err != nil {
		h.RespondAppError(w, err, "failed to get lesson")
		return
	}

	var userID *int
	if id, ok := middleware.GetUserID(r.Context()); ok {
		userID = &id
	}
	if err := h.accessService.CheckLessonAccess(r.Context(), userID, location); err != nil {
		h.RespondAppError(w, err, "failed to check lesson access")
		return
	}

	h.RespondJSON(w, http.StatusOK, models.LessonDetail{
		Lesson:      location.Lesson,
		CourseSlug:  location.CourseSlug,
		ChapterSlug: location.ChapterSlug,
	})
}

// GetCourseAccess handles GET /courses/{courseSlug}/access
// @Summary Check course access
// @Description Report whether the current user has purchased the course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param courseSlug path string true "Course slug"
// @Success 200 {object} models.CourseAccess
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /courses/{courseSlug}/access [get]
func (h *CourseHandler) GetCourseAccess(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	access, err := h.accessService.CourseAccess(r.Context(), userID, chi.URLParam(r, "courseSlug"))
	if err != nil {
		h.RespondAppError(w, err, "failed to check course access")
		return
	}

	h.RespondJSON(w, http.StatusOK, access)
}

// lessonNumber parses the {number} path parameter. A non-numeric number addresses no lesson.
func (h *BaseHandler) lessonNumber(w http.ResponseWriter, r *http.Request) (int, bool) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil || number < 1 {
		h.RespondError(w, http.StatusNotFound, "lesson not found")
		return 0, false
	}
	return number, true
}
