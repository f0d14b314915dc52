package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/lekhyo/booking-service/internal/models"
	"github.com/lekhyo/booking-service/internal/repository"
	"github.com/lekhyo/booking-service/internal/session"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 8

type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Phone    string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, session.Session, error)
	Authenticate(ctx context.Context, token string) (session.Session, error)
	Me(ctx context.Context, s session.Session) (*models.User, error)
	Logout(ctx context.Context, s session.Session) error
	LoginURL(returnURL string) string
	EnsureAdmin(ctx context.Context, email, password string) error
}

type authService struct {
	users    repository.UserRepository
	tokens   repository.TokenRepository
	sessions *session.Manager
	loginURL string
}

func NewAuthService(users repository.UserRepository, tokens repository.TokenRepository, sessions *session.Manager, loginURL string) AuthService {
	return &authService{users: users, tokens: tokens, sessions: sessions, loginURL: loginURL}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) create(ctx context.Context, in RegisterInput, role models.Role) (*models.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, invalid("a valid email is required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, invalid("password must be at least %d characters", minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{
		Email:        email,
		FullName:     strings.TrimSpace(in.FullName),
		Phone:        strings.TrimSpace(in.Phone),
		Role:         role,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Register creates a guest account. Staff roles are granted out of band.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if _, err := s.users.FindByEmail(ctx, normalizeEmail(in.Email)); err == nil {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return s.create(ctx, in, models.RoleGuest)
}

func (s *authService) Login(ctx context.Context, email, password string) (string, session.Session, error) {
	u, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", session.Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", session.Session{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", session.Session{}, ErrInvalidCredentials
	}
	return s.sessions.Issue(u)
}

// Authenticate accepts a bearer token when it is well-formed, unexpired and not logged out.
func (s *authService) Authenticate(ctx context.Context, token string) (session.Session, error) {
	sess, err := s.sessions.Parse(token)
	if err != nil {
		return session.Session{}, ErrUnauthenticated
	}
	revoked, err := s.tokens.IsRevoked(ctx, sess.TokenID)
	if err != nil {
		return session.Session{}, err
	}
	if revoked {
		return session.Session{}, ErrUnauthenticated
	}
	return sess, nil
}

func (s *authService) Me(ctx context.Context, sess session.Session) (*models.User, error) {
	u, err := s.users.FindByID(ctx, sess.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnauthenticated
	}
	return u, err
}

func (s *authService) Logout(ctx context.Context, sess session.Session) error {
	if sess.TokenID == "" {
		return ErrUnauthenticated
	}
	return s.tokens.Revoke(ctx, sess.TokenID, sess.ExpiresAt)
}

// LoginURL builds the redirect target for unauthenticated clients.
func (s *authService) LoginURL(returnURL string) string {
	if returnURL == "" {
		return s.loginURL
	}
	sep := "?"
	if strings.Contains(s.loginURL, "?") {
		sep = "&"
	}
	return s.loginURL + sep + "return_url=" + url.QueryEscape(returnURL)
}

// EnsureAdmin seeds an admin account on first start. An existing user with the email is
// left untouched.
func (s *authService) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	_, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if _, err := s.create(ctx, RegisterInput{Email: email, Password: password, FullName: "Administrator"}, models.RoleAdmin); err != nil {
		return err
	}
	log.Printf("[Auth] seeded admin account %s", normalizeEmail(email))
	return nil
}
