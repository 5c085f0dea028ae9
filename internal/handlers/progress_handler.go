package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/learncamera/backend/internal/middleware"
	"github.com/learncamera/backend/internal/models"
	"go.uber.org/zap"
)

// ProgressService is the interface that wraps methods for lesson progress and sequencing
type ProgressService interface {
	// StartLesson marks a lesson as started for the user
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "courseSlug", "chapterSlug" and "number" address the lesson.
	//
	// Returns a NotFound error for an unknown lesson.
	StartLesson(ctx context.Context, userID int, courseSlug, chapterSlug string, number int) error
	// CompleteLesson marks a lesson as completed for the user, starting it when needed
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "courseSlug", "chapterSlug" and "number" address the lesson.
	//
	// Returns a NotFound error for an unknown lesson.
	CompleteLesson(ctx context.Context, userID int, courseSlug, chapterSlug string, number int) error
	// CourseProgress counts completed lessons of a course
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "courseSlug" is the slug of the course.
	//
	// Returns the progress and an error if any.
	CourseProgress(ctx context.Context, userID int, courseSlug string) (*models.CourseProgress, error)
	// NextLesson finds the first lesson in sequencing order the user has not completed
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "courseSlug" is the slug of the course.
	//
	// Returns the next lesson and an error if any.
	NextLesson(ctx context.Context, userID int, courseSlug string) (*models.NextLesson, error)
	// LastIncompleteLesson finds the most recently started lesson the user has not completed
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns nil without error when there is none.
	LastIncompleteLesson(ctx context.Context, userID int) (*models.LessonPointer, error)
	// LessonStatuses lists every lesson of a course with its completion state
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "courseSlug" is the slug of the course.
	//
	// Returns the statuses and an error if any.
	LessonStatuses(ctx context.Context, userID int, courseSlug string) (*models.LessonStatuses, error)
}

// ProgressHandler handles HTTP requests for lesson progress
type ProgressHandler struct {
	BaseHandler
	service ProgressService
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(svc ProgressService, logger *zap.Logger) *ProgressHandler {
	return &ProgressHandler{
		service:     svc,
		BaseHandler: BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers all progress handler routes
func (h *ProgressHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/courses/progress/last-incomplete", h.LastIncompleteLesson)
		r.Post("/courses/{courseSlug}/{chapterSlug}/{number}/start", h.StartLesson)
		r.Post("/courses/{courseSlug}/{chapterSlug}/{number}/complete", h.CompleteLesson)
		r.Get("/courses/{courseSlug}/progress", h.CourseProgress)
		r.Get("/courses/{courseSlug}/next-lesson", h.NextLesson)
		r.Get("/courses/{courseSlug}/lesson-statuses", h.LessonStatuses)
	})
}

// StartLesson handles POST /courses/{courseSlug}/{chapterSlug}/{number}/start
// @Summary Start lesson
// @Description Mark a lesson as started. Repeated calls change nothing.
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param courseSlug path string true "Course slug"
// @Param chapterSlug path string true "Chapter slug"
// @Param number path int true "Lesson number"
// @Success 200 {object} models.StatusResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /courses/{courseSlug}/{chapterSlug}/{number}/start [post]
func (h *ProgressHandler) StartLesson(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	number, ok := h.lessonNumber(w, r)
	if !ok {
		return
	}

	if err := h.service.StartLesson(r.Context(), userID, chi.URLParam(r, "courseSlug"), chi.URLParam(r, "chapterSlug"), number); err != nil {
		h.RespondAppError(w, err, "failed to start lesson")
		return
	}

	h.RespondJSON(w, http.StatusOK, models.StatusResponse{Status: "started"})
}

// CompleteLesson handles POST /courses/{courseSlug}/{chapterSlug}/{number}/complete
// @Summary Complete lesson
// @Description Mark a lesson as completed. The first completion time is kept.
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param courseSlug path string true "Course slug"
// @Param chapterSlug path string true "Chapter slug"
// @Param number path int true "Lesson number"
// @Success 200 {object} models.StatusResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /courses/{courseSlug}/{chapterSlug}/{number}/complete [post]
func (h *ProgressHandler) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	number, ok := h.lessonNumber(w, r)
	if !ok {
		return
	}

	if err := h.service.CompleteLesson(r.Context(), userID, chi.URLParam(r, "courseSlug"), chi.URLParam(r, "chapterSlug"), number); err != nil {
		h.RespondAppError(w, err, "failed to complete lesson")
		return
	}

	h.RespondJSON(w, http.StatusOK, models.StatusResponse{Status: "completed"})
}

// LastIncompleteLesson handles GET /courses/progress/last-incomplete
// @Summary Last incomplete lesson
// @Description Get the most recently started lesson that is not completed, across all courses
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.LessonPointer
// @Success 204 "No incomplete lesson"
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /courses/progress/last-incomplete [get]
func (h *ProgressHandler) LastIncompleteLesson(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	lesson, err := h.service.LastIncompleteLesson(r.Context(), userID)
	if err != nil {
		h.RespondAppError(w, err, "failed to get last incomplete lesson")
		return
	}
	if lesson == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.RespondJSON(w, http.StatusOK, lesson)
}

// CourseProgress handles GET /courses/{courseSlug}/progress
// @Summary Course progress
// @Description Get completed and total lesson counts with the completion percentage
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param courseSlug path string true "Course slug"
// @Success 200 {object} models.CourseProgress
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /courses/{courseSlug}/progress [get]
func (h *ProgressHandler) CourseProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	progress, err := h.service.CourseProgress(r.Context(), userID, chi.URLParam(r, "courseSlug"))
	if err != nil {
		h.RespondAppError(w, err, "failed to get course progress")
		return
	}

	h.RespondJSON(w, http.StatusOK, progress)
}

// NextLesson handles GET /courses/{courseSlug}/next-lesson
// @Summary Next lesson
// @Description Get the first lesson, by chapter order then lesson number, that is not completed
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param courseSlug path string true "Course slug"
// @Success 200 {object} models.NextLesson
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /courses/{courseSlug}/next-lesson [get]
func (h *ProgressHandler) NextLesson(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	next, err := h.service.NextLesson(r.Context(), userID, chi.URLParam(r, "courseSlug"))
	if err != nil {
		h.RespondAppError(w, err, "failed to get next lesson")
		return
	}

	h.RespondJSON(w, http.StatusOK, next)
}

// LessonStatuses handles GET /courses/{courseSlug}/lesson-statuses
// @Summary Lesson statuses
// @Description Get every lesson of a course in sequencing order with completion and next flags
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param courseSlug path string true "Course slug"
// @Success 200 {object} models.LessonStatuses
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /courses/{courseSlug}/lesson-statuses [get]
func (h *ProgressHandler) LessonStatuses(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	statuses, err := h.service.LessonStatuses(r.Context(), userID, chi.URLParam(r, "courseSlug"))
	if err != nil {
		h.RespondAppError(w, err, "failed to get lesson statuses")
		return
	}

	h.RespondJSON(w, http.StatusOK, statuses)
}

// userID extracts the authenticated user or answers 401
func (h *BaseHandler) userID(w http.ResponseWriter, r *http.Request) (int, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.Logger.Error("user ID not found in context")
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return 0, false
	}
	return userID, true
}
