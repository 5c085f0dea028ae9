package services

import (
	"context"
	"time"

	"github.com/learncamera/backend/internal/apperrors"
	"github.com/learncamera/backend/internal/models"
)

// mockCourseRepository is a mock implementation of CourseRepository
type mockCourseRepository struct {
	courses   []*models.Course
	course    *models.Course
	err       error
	createErr error
	deleteErr error
	created   *models.Course
	deleted   string
}

func (m *mockCourseRepository) GetAll(ctx context.Context) ([]*models.Course, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.courses, nil
}

func (m *mockCourseRepository) GetBySlug(ctx context.Context, slug string) (*models.Course, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.course == nil {
		return nil, apperrors.NotFound("course not found")
	}
	return m.course, nil
}

func (m *mockCourseRepository) GetByID(ctx context.Context, id int) (*models.Course, error) {
	return m.GetBySlug(ctx, "")
}

func (m *mockCourseRepository) Create(ctx context.Context, course *models.Course) error {
	if m.createErr != nil {
		return m.createErr
	}
	course.ID = 1
	m.created = course
	return nil
}

func (m *mockCourseRepository) DeleteBySlug(ctx context.Context, slug string) error {
	m.deleted = slug
	return m.deleteErr
}

// mockChapterRepository is a mock implementation of ChapterRepository
type mockChapterRepository struct {
	chapters  []*models.Chapter
	chapter   *models.Chapter
	err       error
	createErr error
	created   *models.Chapter
}

func (m *mockChapterRepository) GetByCourseIDs(ctx context.Context, courseIDs []int) ([]*models.Chapter, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.chapters, nil
}

func (m *mockChapterRepository) GetBySlug(ctx context.Context, courseID int, slug string) (*models.Chapter, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.chapter == nil {
		return nil, apperrors.NotFound("chapter not found")
	}
	return m.chapter, nil
}

func (m *mockChapterRepository) Create(ctx context.Context, chapter *models.Chapter) error {
	if m.createErr != nil {
		return m.createErr
	}
	chapter.ID = 1
	m.created = chapter
	return nil
}

// mockLessonRepository is a mock implementation of LessonRepository
type mockLessonRepository struct {
	lessons    []*models.Lesson
	location   *models.LessonLocation
	sequence   []models.SequencedLesson
	count      int
	err        error
	locatorErr error
	createErr  error
	created    *models.Lesson
}

func (m *mockLessonRepository) GetByChapterIDs(ctx context.Context, chapterIDs []int) ([]*models.Lesson, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.lessons, nil
}

func (m *mockLessonRepository) GetByLocator(ctx context.Context, courseSlug, chapterSlug string, number int) (*models.LessonLocation, error) {
	if m.locatorErr != nil {
		return nil, m.locatorErr
	}
	if m.location == nil {
		return nil, apperrors.NotFound("lesson not found")
	}
	return m.location, nil
}

func (m *mockLessonRepository) GetSequenceByCourseID(ctx context.Context, courseID int) ([]models.SequencedLesson, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.sequence, nil
}

func (m *mockLessonRepository) CountByCourseID(ctx context.Context, courseID int) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.count, nil
}

func (m *mockLessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	if m.createErr != nil {
		return m.createErr
	}
	lesson.ID = 1
	if lesson.Number == 0 {
		lesson.Number = 1
	}
	m.created = lesson
	return nil
}

// mockLessonBlockRepository is a mock implementation of LessonBlockRepository
type mockLessonBlockRepository struct {
	blocks    []*models.LessonBlock
	err       error
	createErr error
	created   *models.LessonBlock
}

func (m *mockLessonBlockRepository) GetByLessonIDs(ctx context.Context, lessonIDs []int) ([]*models.LessonBlock, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.blocks, nil
}

func (m *mockLessonBlockRepository) Create(ctx context.Context, block *models.LessonBlock) error {
	if m.createErr != nil {
		return m.createErr
	}
	block.ID = 1
	m.created = block
	return nil
}

// mockProgressRepository is a mock implementation of ProgressRepository
type mockProgressRepository struct {
	startErr       error
	completeErr    error
	err            error
	completedCount int
	completedIDs   []int
	last           *models.LessonPointer
	startCalls     []time.Time
	completeCalls  []time.Time
}

func (m *mockProgressRepository) Start(ctx context.Context, userID, lessonID int, startedAt time.Time) (bool, error) {
	if m.startErr != nil {
		return false, m.startErr
	}
	m.startCalls = append(m.startCalls, startedAt)
	return len(m.startCalls) == 1, nil
}

func (m *mockProgressRepository) MarkCompleted(ctx context.Context, userID, lessonID int, completedAt time.Time) (bool, error) {
	if m.completeErr != nil {
		return false, m.completeErr
	}
	m.completeCalls = append(m.completeCalls, completedAt)
	return len(m.completeCalls) == 1, nil
}

func (m *mockProgressRepository) CountCompletedByCourse(ctx context.Context, userID, courseID int) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.completedCount, nil
}

func (m *mockProgressRepository) GetCompletedLessonIDs(ctx context.Context, userID, courseID int) ([]int, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.completedIDs, nil
}

func (m *mockProgressRepository) GetLastIncomplete(ctx context.Context, userID int) (*models.LessonPointer, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.last, nil
}

// mockPurchaseRepository is a mock implementation of PurchaseRepository
type mockPurchaseRepository struct {
	exists    bool
	existsErr error
	created   bool
	createErr error
	purchases []models.PurchasedCourse
	listErr   error
	recorded  *models.Purchase
}

func (m *mockPurchaseRepository) Exists(ctx context.Context, userID, courseID int) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	return m.exists, nil
}

func (m *mockPurchaseRepository) GetOrCreate(ctx context.Context, purchase *models.Purchase) (bool, error) {
	if m.createErr != nil {
		return false, m.createErr
	}
	m.recorded = purchase
	if m.created {
		purchase.ID = 1
	}
	return m.created, nil
}

func (m *mockPurchaseRepository) ListByUser(ctx context.Context, userID int) ([]models.PurchasedCourse, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.purchases, nil
}

// mockTaskEnqueuer is a mock implementation of TaskEnqueuer
type mockTaskEnqueuer struct {
	err               error
	confirmations     []int
	reminders         []int
	reminderErrByUser map[int]error
}

func (m *mockTaskEnqueuer) EnqueuePurchaseConfirmation(ctx context.Context, userID, courseID int) error {
	if m.err != nil {
		return m.err
	}
	m.confirmations = append(m.confirmations, courseID)
	return nil
}

func (m *mockTaskEnqueuer) EnqueueLessonReminder(ctx context.Context, userID int) error {
	if err := m.reminderErrByUser[userID]; err != nil {
		return err
	}
	if m.err != nil {
		return m.err
	}
	m.reminders = append(m.reminders, userID)
	return nil
}

// mockUserRepository is a mock implementation of UserRepository
type mockUserRepository struct {
	user                   *models.User
	err                    error
	createErr              error
	existsByEmailResult    bool
	existsByEmailError     error
	existsByUsernameResult bool
	existsByUsernameError  error
	created                *models.User
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = 1
	m.created = user
	return nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.user == nil {
		return nil, apperrors.NotFound("user not found")
	}
	return m.user, nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	return m.GetByEmail(ctx, "")
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsByEmailError != nil {
		return false, m.existsByEmailError
	}
	return m.existsByEmailResult, nil
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.existsByUsernameError != nil {
		return false, m.existsByUsernameError
	}
	return m.existsByUsernameResult, nil
}

// mockTokenGenerator is a mock implementation of TokenGenerator
type mockTokenGenerator struct {
	err         error
	validateErr error
	userID      int
	issuedFor   int
	issuedRole  int
}

func (m *mockTokenGenerator) GenerateTokens(userID int, role int) (string, string, error) {
	if m.err != nil {
		return "", "", m.err
	}
	m.issuedFor = userID
	m.issuedRole = role
	return "access-token", "refresh-token", nil
}

func (m *mockTokenGenerator) ValidateRefreshToken(token string) (int, error) {
	if m.validateErr != nil {
		return 0, m.validateErr
	}
	return m.userID, nil
}

// mockPaymentProvider is a mock implementation of PaymentProvider
type mockPaymentProvider struct {
	response *models.CheckoutResponse
	err      error
	params   *models.CheckoutSessionParams
	checkout *models.CompletedCheckout
	parseErr error
}

func (m *mockPaymentProvider) CreateCheckoutSession(ctx context.Context, params models.CheckoutSessionParams) (*models.CheckoutResponse, error) {
	m.params = &params
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *mockPaymentProvider) ParseCompletedCheckout(payload []byte, signature string) (*models.CompletedCheckout, error) {
	if m.parseErr != nil {
		return nil, m.parseErr
	}
	return m.checkout, nil
}

// mockPurchaseRecorder is a mock implementation of PurchaseRecorder
type mockPurchaseRecorder struct {
	created  bool
	err      error
	recorded *models.CompletedCheckout
}

func (m *mockPurchaseRecorder) RecordPurchase(ctx context.Context, checkout *models.CompletedCheckout) (bool, error) {
	m.recorded = checkout
	if m.err != nil {
		return false, m.err
	}
	return m.created, nil
}

// mockReminderRepository is a mock implementation of ReminderRepository
type mockReminderRepository struct {
	targets    []models.ReminderTarget
	err        error
	idleBefore time.Time
}

func (m *mockReminderRepository) ListReminderTargets(ctx context.Context, idleBefore time.Time) ([]models.ReminderTarget, error) {
	m.idleBefore = idleBefore
	if m.err != nil {
		return nil, m.err
	}
	return m.targets, nil
}

// mockReminderCooldown is a mock implementation of ReminderCooldown
type mockReminderCooldown struct {
	claimed map[int]bool
	errUser int
	err     error
	lastTTL time.Duration
}

func (m *mockReminderCooldown) Acquire(ctx context.Context, userID int, ttl time.Duration) (bool, error) {
	m.lastTTL = ttl
	if m.err != nil && userID == m.errUser {
		return false, m.err
	}
	if m.claimed == nil {
		m.claimed = make(map[int]bool)
	}
	if m.claimed[userID] {
		return false, nil
	}
	m.claimed[userID] = true
	return true, nil
}

// mockMailer is a mock implementation of Mailer
type mockMailer struct {
	err     error
	sent    int
	to      string
	subject string
	body    string
}

func (m *mockMailer) Send(ctx context.Context, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent++
	m.to = to
	m.subject = subject
	m.body = body
	return nil
}
