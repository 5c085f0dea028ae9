package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/learncamera/backend/internal/apperrors"
	"github.com/learncamera/backend/internal/models"
	"go.uber.org/zap"
)

// Mailer defines methods for sending e-mails
type Mailer interface {
	// Send delivers one HTML e-mail
	//
	// "ctx" is the context for the request.
	// "to" is the recipient address.
	// "subject" is the subject line.
	// "body" is the HTML body.
	//
	// Returns an error if the e-mail could not be delivered.
	Send(ctx context.Context, to, subject, body string) error
}

// LastIncompleteFinder resolves the lesson a user should resume
type LastIncompleteFinder interface {
	// GetLastIncomplete finds the most recently started incomplete lesson across all courses
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns nil without error when the user has no incomplete lesson.
	GetLastIncomplete(ctx context.Context, userID int) (*models.LessonPointer, error)
}

var (
	purchaseConfirmationTemplate = template.Must(template.New("purchase").Parse(
		`<p>Hi {{.Username}},</p>
<p>Thank you for buying <strong>{{.CourseTitle}}</strong>. All lessons are now unlocked.</p>
<p><a href="{{.CourseURL}}">Start learning</a></p>`))

	lessonReminderTemplate = template.Must(template.New("reminder").Parse(
		`<p>Hi {{.Username}},</p>
<p>You have not finished <strong>{{.LessonTitle}}</strong> yet.</p>
<p><a href="{{.LessonURL}}">Continue where you left off</a></p>`))
)

type notificationService struct {
	userRepo       UserRepository
	courseRepo     CourseRepository
	progressFinder LastIncompleteFinder
	mailer         Mailer
	frontendURL    string
	logger         *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	userRepo UserRepository,
	courseRepo CourseRepository,
	progressFinder LastIncompleteFinder,
	mailer Mailer,
	frontendURL string,
	logger *zap.Logger,
) *notificationService {
	return &notificationService{
		userRepo:       userRepo,
		courseRepo:     courseRepo,
		progressFinder: progressFinder,
		mailer:         mailer,
		frontendURL:    frontendURL,
		logger:         logger,
	}
}

// SendPurchaseConfirmation e-mails the buyer of a course.
// A deleted user or course ends the job without sending.
func (s *notificationService) SendPurchaseConfirmation(ctx context.Context, userID, courseID int) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if apperrors.Is(err, apperrors.KindNotFound) {
		s.logger.Warn("purchase confirmation skipped, user not found", zap.Int("user_id", userID))
		return nil
	}
	if err != nil {
		return err
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if apperrors.Is(err, apperrors.KindNotFound) {
		s.logger.Warn("purchase confirmation skipped, course not found", zap.Int("course_id", courseID))
		return nil
	}
	if err != nil {
		return err
	}

	body, err := render(purchaseConfirmationTemplate, map[string]string{
		"Username":    user.Username,
		"CourseTitle": course.Title,
		"CourseURL":   fmt.Sprintf("%s/courses/%s", s.frontendURL, course.Slug),
	})
	if err != nil {
		return err
	}

	if err := s.mailer.Send(ctx, user.Email, "Your purchase: "+course.Title, body); err != nil {
		return err
	}

	s.logger.Info("purchase confirmation sent", zap.Int("user_id", userID), zap.Int("course_id", courseID))
	return nil
}

// SendLessonReminder e-mails a user about the lesson they started last and did not finish.
// Nothing is sent when no such lesson exists anymore.
func (s *notificationService) SendLessonReminder(ctx context.Context, userID int) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if apperrors.Is(err, apperrors.KindNotFound) {
		s.logger.Warn("lesson reminder skipped, user not found", zap.Int("user_id", userID))
		return nil
	}
	if err != nil {
		return err
	}

	lesson, err := s.progressFinder.GetLastIncomplete(ctx, userID)
	if err != nil {
		return err
	}
	if lesson == nil {
		s.logger.Info("lesson reminder skipped, nothing to resume", zap.Int("user_id", userID))
		return nil
	}

	body, err := render(lessonReminderTemplate, map[string]string{
		"Username":    user.Username,
		"LessonTitle": lesson.Title,
		"LessonURL": fmt.Sprintf("%s/courses/%s/%s/%d",
			s.frontendURL, lesson.CourseSlug, lesson.ChapterSlug, lesson.Number),
	})
	if err != nil {
		return err
	}

	if err := s.mailer.Send(ctx, user.Email, "Continue your lesson: "+lesson.Title, body); err != nil {
		return err
	}

	s.logger.Info("lesson reminder sent", zap.Int("user_id", userID))
	return nil
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s e-mail: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
