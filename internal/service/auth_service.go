package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eventdesk/eventdesk/internal/models"
	"github.com/eventdesk/eventdesk/internal/repository"
	"github.com/eventdesk/eventdesk/pkg/utils"
)

// Login and signup failure reasons. Each check gets its own message so the
// caller can surface it directly.
var (
	ErrUserNotFound     = errors.New("user not found, check your email or sign up")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrInvalidRole      = errors.New("invalid role selected")
	ErrEmailTaken       = errors.New("an account with this email already exists")
	ErrNotLoggedIn      = errors.New("not logged in")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInactiveAccount  = errors.New("account is deactivated")
)

// AuthService holds the single in-memory session and mirrors it to the store.
// Passwords are stored and compared in plaintext; this is a demo system with
// no security goals.
type AuthService struct {
	userRepo    *repository.UserRepository
	sessionRepo *repository.SessionRepository
	validator   *utils.Validator
	logger      *zap.Logger

	currentUser *models.User
}

func NewAuthService(userRepo *repository.UserRepository, sessionRepo *repository.SessionRepository, validator *utils.Validator, logger *zap.Logger) *AuthService {
	s := &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		validator:   validator,
		logger:      logger,
	}
	s.restoreSession()
	return s
}

// restoreSession rehydrates the in-memory session from the persisted pointer.
func (s *AuthService) restoreSession() {
	id, err := s.sessionRepo.CurrentUserID()
	if err != nil {
		return
	}
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		// Stale pointer; drop it.
		_ = s.sessionRepo.Clear()
		return
	}
	s.currentUser = user
}

func (s *AuthService) Login(req models.LoginRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user.Password != req.Password {
		return nil, ErrInvalidPassword
	}
	if user.Role != req.Role {
		return nil, ErrInvalidRole
	}
	if !user.IsActive {
		return nil, ErrInactiveAccount
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("update last login: %w", err)
	}

	s.currentUser = user
	if err := s.sessionRepo.Set(user.ID); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	s.logger.Info("user logged in",
		zap.String("user_id", user.ID),
		zap.String("role", user.Role),
	)
	return user, nil
}

func (s *AuthService) Signup(req models.SignupRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := s.userRepo.EmailExists(email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: req.Password,
		Role:     req.Role,
		IsActive: true,
	}
	if err := s.userRepo.Save(user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID),
		zap.String("role", user.Role),
	)
	return user, nil
}

func (s *AuthService) Logout() error {
	s.currentUser = nil
	return s.sessionRepo.Clear()
}

// CurrentUser returns the logged-in user, or ErrNotLoggedIn.
func (s *AuthService) CurrentUser() (*models.User, error) {
	if s.currentUser == nil {
		return nil, ErrNotLoggedIn
	}
	return s.currentUser, nil
}

func (s *AuthService) IsLoggedIn() bool {
	return s.currentUser != nil
}

// UpdateProfile edits the logged-in user. Email changes re-check uniqueness.
func (s *AuthService) UpdateProfile(req models.UpdateProfileRequest) (*models.User, error) {
	if s.currentUser == nil {
		return nil, ErrNotLoggedIn
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	user := *s.currentUser
	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			exists, err := s.userRepo.EmailExists(email)
			if err != nil {
				return nil, fmt.Errorf("check email: %w", err)
			}
			if exists {
				return nil, ErrEmailTaken
			}
			user.Email = email
		}
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(&user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	s.currentUser = &user
	if err := s.sessionRepo.Set(user.ID); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	return &user, nil
}
