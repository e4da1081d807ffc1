package identity

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"foundry/internal/events"
	"foundry/internal/platform/metrics"
	id "foundry/pkg/domain"
	dErrors "foundry/pkg/domain-errors"
	"foundry/pkg/platform/sentinel"
	"foundry/pkg/requestcontext"
)

// TokenIssuer signs a session token for a user. Satisfied by
// jwttoken.JWTService.
type TokenIssuer interface {
	GenerateToken(userID id.UserID, role id.Role) (string, error)
}

// Service orchestrates signup, login, and profile management.
type Service struct {
	users   Store
	tokens  TokenIssuer
	events  events.Publisher
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewService(users Store, tokens TokenIssuer, publisher events.Publisher, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		users:   users,
		tokens:  tokens,
		events:  publisher,
		metrics: m,
		logger:  logger,
	}
}

// SignUpParams is the validated-on-construction input to SignUp.
type SignUpParams struct {
	FullName string
	Email    string
	Password string
	Role     id.Role
}

// SignUp creates an account and returns it with a fresh session token.
// A taken email surfaces as a conflict.
func (s *Service) SignUp(ctx context.Context, params SignUpParams) (*User, string, error) {
	user, err := NewUser(params.FullName, params.Email, params.Password, params.Role, requestcontext.Now(ctx))
	if err != nil {
		return nil, "", err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyExists) {
			return nil, "", dErrors.New(dErrors.CodeConflict, "email is already registered")
		}
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	s.metrics.IncSignups()
	s.emit(ctx, events.New(events.TypeUserSignedUp, user.CreatedAt, user.ID.String(), user.ID.String()))

	s.logger.InfoContext(ctx, "user signed up",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", user.ID,
		"role", user.Role,
	)
	return user, token, nil
}

// Login verifies credentials and returns the user with a session token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", dErrors.New(dErrors.CodeValidation, "email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, "", dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
		}
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}
	if err := VerifyPassword(password, user.PasswordHash); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	s.logger.InfoContext(ctx, "user logged in",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", user.ID,
	)
	return user, token, nil
}

// Profile returns the authenticated caller's account.
func (s *Service) Profile(ctx context.Context) (*User, error) {
	userID := requestcontext.UserID(ctx)
	if userID.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
	}
	return user, nil
}

// UpdateProfile changes the caller's display name.
func (s *Service) UpdateProfile(ctx context.Context, fullName string) (*User, error) {
	fullName = strings.TrimSpace(fullName)
	if len(fullName) < 2 || len(fullName) > 100 {
		return nil, dErrors.New(dErrors.CodeValidation, "fullname must be between 2 and 100 characters")
	}

	user, err := s.Profile(ctx)
	if err != nil {
		return nil, err
	}
	user.FullName = fullName
	user.UpdatedAt = requestcontext.Now(ctx)

	if err := s.users.Update(ctx, user); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update profile")
	}
	return user, nil
}

func (s *Service) emit(ctx context.Context, event events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit event",
			"event_type", event.Type,
			"error", err,
		)
	}
}
