package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/raphaelgruber/keymap/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// Sentinel errors for authentication flows. Handlers map these to HTTP
// status codes.
var (
	// ErrInvalidCredentials covers both unknown email and wrong password,
	// deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken indicates signup with an already registered email.
	ErrEmailTaken = errors.New("user with this email already exists")

	// ErrNotAuthenticated indicates a missing, unknown or expired session.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// AuthService handles signup, login and cookie-session resolution.
type AuthService struct {
	users      UserRepository
	sessions   SessionRepository
	sessionTTL time.Duration
	logger     *slog.Logger
}

// NewAuthService creates an AuthService with the given session lifetime.
func NewAuthService(users UserRepository, sessions SessionRepository, sessionTTL time.Duration, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// SignUp registers a new account and opens a session for it.
func (s *AuthService) SignUp(ctx context.Context, name, email, password string) (*models.User, *models.Session, error) {
	existing, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, models.NewUser(name, email, string(hash)))
	if err != nil {
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	session, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("user signed up", "user", user.ID)
	return user, session, nil
}

// SignIn verifies credentials and opens a session.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*models.User, *models.Session, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("look up user: %w", err)
	}
	if user == nil {
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("user signed in", "user", user.ID)
	return user, session, nil
}

// SignOut deletes the session. Unknown sessions are ignored.
func (s *AuthService) SignOut(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.DeleteSession(ctx, sessionID)
}

// UserBySession resolves a session cookie to its user. Expired sessions are
// removed on sight.
func (s *AuthService) UserBySession(ctx context.Context, sessionID string) (*models.User, error) {
	if sessionID == "" {
		return nil, ErrNotAuthenticated
	}

	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("look up session: %w", err)
	}
	if session == nil {
		return nil, ErrNotAuthenticated
	}
	if session.Expired(time.Now()) {
		if err := s.sessions.DeleteSession(ctx, sessionID); err != nil {
			s.logger.Warn("failed to delete expired session", "session", sessionID, "error", err)
		}
		return nil, ErrNotAuthenticated
	}

	user, err := s.users.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("look up session user: %w", err)
	}
	if user == nil {
		return nil, ErrNotAuthenticated
	}
	return user, nil
}

// SessionTTL returns the configured session lifetime, for cookie expiry.
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}

func (s *AuthService) openSession(ctx context.Context, userID string) (*models.Session, error) {
	session := models.NewSession(userID, s.sessionTTL)
	if err := s.sessions.PutSession(ctx, session); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return &session, nil
}
