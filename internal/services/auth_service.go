package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/learncamera/backend/internal/apperrors"
	"github.com/learncamera/backend/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository defines methods for user data access
type UserRepository interface {
	// Create creates a new user and sets its ID
	//
	// "ctx" is the context for the request.
	// "user" is the user to create.
	//
	// If the email or username is taken, a Conflict error is returned.
	Create(ctx context.Context, user *models.User) error
	// GetByEmail retrieves a user by email
	//
	// "ctx" is the context for the request.
	// "email" is the lower-cased email.
	//
	// If the user does not exist, a NotFound error is returned.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByID retrieves a user by ID
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the user.
	//
	// If the user does not exist, a NotFound error is returned.
	GetByID(ctx context.Context, id int) (*models.User, error)
	// ExistsByEmail checks if the email is registered
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// ExistsByUsername checks if the username is registered
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// TokenGenerator defines methods for issuing tokens
type TokenGenerator interface {
	// GenerateTokens issues an access and a refresh token
	//
	// "userID" is the ID of the user.
	// "role" is the role of the user.
	//
	// Returns the access token, the refresh token and an error if any.
	GenerateTokens(userID int, role int) (string, string, error)
	// ValidateRefreshToken checks a refresh token
	//
	// "token" is the refresh token.
	//
	// Returns the user ID carried by the token and an error if it is invalid.
	ValidateRefreshToken(token string) (int, error)
}

type authService struct {
	userRepo       UserRepository
	tokenGenerator TokenGenerator
	logger         *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo UserRepository, tokenGenerator TokenGenerator, logger *zap.Logger) *authService {
	return &authService{
		userRepo:       userRepo,
		tokenGenerator: tokenGenerator,
		logger:         logger,
	}
}

// Register creates an account and returns a token pair for it
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.TokenResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	emailTaken, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if emailTaken {
		return nil, apperrors.Conflict("email already registered")
	}

	usernameTaken, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if usernameTaken {
		return nil, apperrors.Conflict("username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.Int("user_id", user.ID))

	return s.issueTokens(user)
}

// Login checks e-mail and password and returns a token pair
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if apperrors.Is(err, apperrors.KindNotFound) {
		return nil, apperrors.Unauthenticated("invalid credentials")
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.Unauthenticated("invalid credentials")
	}

	return s.issueTokens(user)
}

// Refresh exchanges a valid refresh token for a new token pair
func (s *authService) Refresh(ctx context.Context, req *models.RefreshRequest) (*models.TokenResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	userID, err := s.tokenGenerator.ValidateRefreshToken(req.Refresh)
	if err != nil {
		return nil, apperrors.Unauthenticated("invalid or expired refresh token")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if apperrors.Is(err, apperrors.KindNotFound) {
		return nil, apperrors.Unauthenticated("invalid or expired refresh token")
	}
	if err != nil {
		return nil, err
	}

	return s.issueTokens(user)
}

func (s *authService) issueTokens(user *models.User) (*models.TokenResponse, error) {
	access, refresh, err := s.tokenGenerator.GenerateTokens(user.ID, int(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}
	return &models.TokenResponse{Access: access, Refresh: refresh}, nil
}
