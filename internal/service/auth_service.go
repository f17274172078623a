// Package service contains the business logic that sits between the HTTP
// handlers and the repositories.
package service

import (
	"context"
	"sync"
	"time"

	"townsquare/internal/models"
	"townsquare/internal/observability"
	"townsquare/internal/repository"
	"townsquare/internal/validation"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"
)

// AuthService owns credentials and login sessions.
type AuthService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	sessionTTL  time.Duration
	bcryptCost  int
	now         func() time.Time

	dummyOnce sync.Once
	dummyHash []byte
}

type RegisterInput struct {
	Email       string
	DisplayName string
	Password    string
}

// LoginResult is a freshly created session together with its owner.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Identity  *models.UserIdentity
}

// NewAuthService returns an AuthService. A zero bcryptCost means bcrypt.DefaultCost.
func NewAuthService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	sessionTTL time.Duration,
	bcryptCost int,
) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		sessionTTL:  sessionTTL,
		bcryptCost:  bcryptCost,
		now:         time.Now,
	}
}

// Register validates the input and stores a new user with a hashed password.
// The unique index on email decides between concurrent registrations.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (user *models.User, err error) {
	span, ctx := observability.NewSpan(ctx, "AuthService.Register")
	defer func() {
		span.End(err)
		observability.AuthEvents.WithLabelValues("register", outcomeLabel(err)).Inc()
	}()

	email := validation.NormalizeEmail(in.Email)
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	displayName := validation.NormalizeText(in.DisplayName)
	if err := validation.ValidateDisplayName(displayName); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user = &models.User{
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// VerifyLogin returns the identity for matching credentials and nil otherwise.
// An unknown email and a wrong password are indistinguishable to the caller,
// including in how long the check takes.
func (s *AuthService) VerifyLogin(ctx context.Context, email, password string) (*models.UserIdentity, error) {
	user, err := s.userRepo.GetByEmail(ctx, validation.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	// bcrypt only reads the first 72 bytes, and registration never accepts more.
	if user == nil || len(password) > validation.MaxPasswordLength {
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		return nil, nil
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil
	}
	return user.Identity(), nil
}

func (s *AuthService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("townsquare-no-such-user"), s.bcryptCost)
	})
	return s.dummyHash
}

// EmailExists reports whether an account uses the address. Malformed
// addresses can never be registered, so they report false without a query.
func (s *AuthService) EmailExists(ctx context.Context, email string) (bool, error) {
	email = validation.NormalizeEmail(email)
	if validation.ValidateEmail(email) != nil {
		return false, nil
	}
	return s.userRepo.EmailExists(ctx, email)
}

// CreateSession starts a session for the user and returns its token.
func (s *AuthService) CreateSession(ctx context.Context, userID uint) (*models.Session, error) {
	return s.sessionRepo.Create(ctx, userID, s.now().Add(s.sessionTTL))
}

// ResolveSession maps a token to its owner. Empty, malformed, unknown and
// expired tokens all resolve to nil without an error.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*models.UserIdentity, error) {
	if token == "" {
		return nil, nil
	}
	identity, err := s.sessionRepo.Resolve(ctx, token, s.now())
	if err != nil {
		observability.AuthEvents.WithLabelValues("resolve", "error").Inc()
		return nil, err
	}
	if identity == nil {
		observability.AuthEvents.WithLabelValues("resolve", "miss").Inc()
	}
	return identity, nil
}

func (s *AuthService) DeleteSession(ctx context.Context, token string) error {
	return s.sessionRepo.Delete(ctx, token)
}

// DeleteUserSessions logs the user out everywhere.
func (s *AuthService) DeleteUserSessions(ctx context.Context, userID uint) (int64, error) {
	return s.sessionRepo.DeleteByUser(ctx, userID)
}

// PurgeExpiredSessions removes sessions past their expiry.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessionRepo.PurgeExpired(ctx, s.now())
}

// DeleteUser removes the account together with its sessions and content.
func (s *AuthService) DeleteUser(ctx context.Context, userID uint) error {
	return s.userRepo.Delete(ctx, userID)
}

// Login verifies the credentials and starts a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (result *LoginResult, err error) {
	span, ctx := observability.NewSpan(ctx, "AuthService.Login")
	defer func() {
		span.End(err)
		observability.AuthEvents.WithLabelValues("login", outcomeLabel(err)).Inc()
	}()

	identity, err := s.VerifyLogin(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	span.AddAttributes(attribute.Int64("user.id", int64(identity.ID)))

	session, err := s.CreateSession(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Token:     session.ID,
		ExpiresAt: session.ExpiresAt,
		Identity:  identity,
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	err := s.DeleteSession(ctx, token)
	observability.AuthEvents.WithLabelValues("logout", outcomeLabel(err)).Inc()
	return err
}

// outcomeLabel keeps rejected credentials apart from store failures.
func outcomeLabel(err error) string {
	switch models.ErrorCode(err) {
	case "":
		return observability.Outcome(err)
	case models.CodeUnauthorized:
		return "rejected"
	case models.CodeValidation, models.CodeDuplicateEmail:
		return "invalid"
	default:
		return "error"
	}
}
