package handlers

import (
	"context"
	"net/http"

	"github.com/learncamera/backend/internal/middleware"
	"github.com/learncamera/backend/internal/models"
)

// withUserID passes requests through with the given identity attached
func withUserID(userID, role int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithUser(r.Context(), userID, role)))
		})
	}
}

func passThrough(next http.Handler) http.Handler {
	return next
}

type mockContentService struct {
	courses  []*models.Course
	course   *models.Course
	location *models.LessonLocation
	err      error

	lessonNumber int
}

func (m *mockContentService) ListCourses(ctx context.Context) ([]*models.Course, error) {
	return m.courses, m.err
}

func (m *mockContentService) GetCourse(ctx context.Context, slug string) (*models.Course, error) {
	return m.course, m.err
}

func (m *mockContentService) GetLesson(ctx context.Context, courseSlug, chapterSlug string, number int) (*models.LessonLocation, error) {
	m.lessonNumber = number
	return m.location, m.err
}

type mockAccessService struct {
	access    *models.CourseAccess
	checkErr  error
	err       error
	checkedID *int
	checked   bool
}

func (m *mockAccessService) CheckLessonAccess(ctx context.Context, userID *int, location *models.LessonLocation) error {
	m.checked = true
	m.checkedID = userID
	return m.checkErr
}

func (m *mockAccessService) CourseAccess(ctx context.Context, userID int, courseSlug string) (*models.CourseAccess, error) {
	return m.access, m.err
}

type mockProgressService struct {
	progress *models.CourseProgress
	next     *models.NextLesson
	last     *models.LessonPointer
	statuses *models.LessonStatuses
	err      error

	startedNumber   int
	completedNumber int
	userID          int
}

func (m *mockProgressService) StartLesson(ctx context.Context, userID int, courseSlug, chapterSlug string, number int) error {
	m.userID = userID
	m.startedNumber = number
	return m.err
}

func (m *mockProgressService) CompleteLesson(ctx context.Context, userID int, courseSlug, chapterSlug string, number int) error {
	m.userID = userID
	m.completedNumber = number
	return m.err
}

func (m *mockProgressService) CourseProgress(ctx context.Context, userID int, courseSlug string) (*models.CourseProgress, error) {
	return m.progress, m.err
}

func (m *mockProgressService) NextLesson(ctx context.Context, userID int, courseSlug string) (*models.NextLesson, error) {
	return m.next, m.err
}

func (m *mockProgressService) LastIncompleteLesson(ctx context.Context, userID int) (*models.LessonPointer, error) {
	return m.last, m.err
}

func (m *mockProgressService) LessonStatuses(ctx context.Context, userID int, courseSlug string) (*models.LessonStatuses, error) {
	return m.statuses, m.err
}

type mockCheckoutService struct {
	response *models.CheckoutResponse
	created  bool
	err      error

	payload   []byte
	signature string
	request   *models.CheckoutRequest
}

func (m *mockCheckoutService) CreateCheckoutSession(ctx context.Context, userID int, req *models.CheckoutRequest) (*models.CheckoutResponse, error) {
	m.request = req
	return m.response, m.err
}

func (m *mockCheckoutService) HandleWebhook(ctx context.Context, payload []byte, signature string) (bool, error) {
	m.payload = payload
	m.signature = signature
	return m.created, m.err
}

type mockPurchaseLister struct {
	purchases []models.PurchasedCourse
	err       error
}

func (m *mockPurchaseLister) ListPurchases(ctx context.Context, userID int) ([]models.PurchasedCourse, error) {
	return m.purchases, m.err
}

type mockAuthService struct {
	tokens *models.TokenResponse
	err    error
}

func (m *mockAuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.TokenResponse, error) {
	return m.tokens, m.err
}

func (m *mockAuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error) {
	return m.tokens, m.err
}

func (m *mockAuthService) Refresh(ctx context.Context, req *models.RefreshRequest) (*models.TokenResponse, error) {
	return m.tokens, m.err
}

type mockAdminContentService struct {
	course  *models.Course
	chapter *models.Chapter
	lesson  *models.Lesson
	block   *models.LessonBlock
	err     error

	blockNumber int
	deleted     string
}

func (m *mockAdminContentService) CreateCourse(ctx context.Context, req *models.CreateCourseRequest) (*models.Course, error) {
	return m.course, m.err
}

func (m *mockAdminContentService) CreateChapter(ctx context.Context, courseSlug string, req *models.CreateChapterRequest) (*models.Chapter, error) {
	return m.chapter, m.err
}

func (m *mockAdminContentService) CreateLesson(ctx context.Context, courseSlug, chapterSlug string, req *models.CreateLessonRequest) (*models.Lesson, error) {
	return m.lesson, m.err
}

func (m *mockAdminContentService) CreateBlock(ctx context.Context, courseSlug, chapterSlug string, number int, req *models.CreateBlockRequest) (*models.LessonBlock, error) {
	m.blockNumber = number
	return m.block, m.err
}

func (m *mockAdminContentService) DeleteCourse(ctx context.Context, courseSlug string) error {
	m.deleted = courseSlug
	return m.err
}

func (m *mockAdminContentService) Entities() []models.AdminEntity {
	return models.AdminEntities
}

type mockPinger struct {
	err error
}

func (m *mockPinger) PingContext(ctx context.Context) error {
	return m.err
}
