package identity

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"foundry/internal/events"
	id "foundry/pkg/domain"
	dErrors "foundry/pkg/domain-errors"
	"foundry/pkg/requestcontext"
)

type staticTokenIssuer struct {
	token string
	err   error
}

func (i staticTokenIssuer) GenerateToken(id.UserID, id.Role) (string, error) {
	return i.token, i.err
}

type IdentityServiceSuite struct {
	suite.Suite
	store   *InMemoryStore
	emitted *events.InMemoryPublisher
	service *Service
	ctx     context.Context
	now     time.Time
}

func (s *IdentityServiceSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.emitted = events.NewInMemoryPublisher()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = NewService(s.store, staticTokenIssuer{token: "signed-token"}, s.emitted, nil, logger)
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

func TestIdentityServiceSuite(t *testing.T) {
	suite.Run(t, new(IdentityServiceSuite))
}

func (s *IdentityServiceSuite) signUp(email string, role id.Role) *User {
	user, token, err := s.service.SignUp(s.ctx, SignUpParams{
		FullName: "Ada Lovelace",
		Email:    email,
		Password: "correct-horse-battery",
		Role:     role,
	})
	s.Require().NoError(err)
	s.Require().NotEmpty(token)
	return user
}

func (s *IdentityServiceSuite) TestSignUp() {
	s.Run("creates a user with hashed password", func() {
		user := s.signUp("ada@example.com", id.RoleUser)

		s.Equal("Ada Lovelace", user.FullName)
		s.Equal("ada@example.com", user.Email)
		s.Equal(id.RoleUser, user.Role)
		s.Equal(s.now, user.CreatedAt)
		s.NotEqual("correct-horse-battery", user.PasswordHash)
		s.NoError(VerifyPassword("correct-horse-battery", user.PasswordHash))
	})

	s.Run("emits a signup event", func() {
		user := s.signUp("grace@example.com", id.RoleStartupOwner)

		found := false
		for _, e := range s.emitted.Events() {
			if e.Type == events.TypeUserSignedUp && e.Subject == user.ID.String() {
				found = true
			}
		}
		s.True(found, "expected a user.signed_up event for the new user")
	})

	s.Run("rejects a taken email as conflict", func() {
		s.signUp("taken@example.com", id.RoleUser)

		_, _, err := s.service.SignUp(s.ctx, SignUpParams{
			FullName: "Someone Else",
			Email:    "TAKEN@example.com",
			Password: "another-password",
			Role:     id.RoleUser,
		})
		s.Require().Error(err)
		s.Equal(dErrors.CodeConflict, dErrors.CodeOf(err))
	})

	s.Run("rejects the admin role at signup", func() {
		_, _, err := s.service.SignUp(s.ctx, SignUpParams{
			FullName: "Wannabe Admin",
			Email:    "admin@example.com",
			Password: "some-password",
			Role:     id.RoleAdmin,
		})
		s.Require().Error(err)
		s.Equal(dErrors.CodeValidation, dErrors.CodeOf(err))
	})
}

func (s *IdentityServiceSuite) TestLogin() {
	s.signUp("login@example.com", id.RoleUser)

	s.Run("returns user and token for valid credentials", func() {
		user, token, err := s.service.Login(s.ctx, "login@example.com", "correct-horse-battery")
		s.Require().NoError(err)
		s.Equal("login@example.com", user.Email)
		s.Equal("signed-token", token)
	})

	s.Run("is case-insensitive on email", func() {
		_, _, err := s.service.Login(s.ctx, "LOGIN@Example.COM", "correct-horse-battery")
		s.NoError(err)
	})

	s.Run("rejects a wrong password as unauthorized", func() {
		_, _, err := s.service.Login(s.ctx, "login@example.com", "wrong-password")
		s.Require().Error(err)
		s.Equal(dErrors.CodeUnauthorized, dErrors.CodeOf(err))
	})

	s.Run("rejects an unknown email with the same error code", func() {
		_, _, err := s.service.Login(s.ctx, "nobody@example.com", "whatever-password")
		s.Require().Error(err)
		s.Equal(dErrors.CodeUnauthorized, dErrors.CodeOf(err))
	})

	s.Run("rejects empty credentials as validation error", func() {
		_, _, err := s.service.Login(s.ctx, "", "")
		s.Require().Error(err)
		s.Equal(dErrors.CodeValidation, dErrors.CodeOf(err))
	})
}

func (s *IdentityServiceSuite) TestProfile() {
	user := s.signUp("profile@example.com", id.RoleUser)
	authed := requestcontext.WithUserID(s.ctx, user.ID)

	s.Run("returns the authenticated caller", func() {
		got, err := s.service.Profile(authed)
		s.Require().NoError(err)
		s.Equal(user.ID, got.ID)
	})

	s.Run("requires authentication", func() {
		_, err := s.service.Profile(s.ctx)
		s.Require().Error(err)
		s.Equal(dErrors.CodeUnauthorized, dErrors.CodeOf(err))
	})

	s.Run("updates the display name", func() {
		got, err := s.service.UpdateProfile(authed, "Ada King")
		s.Require().NoError(err)
		s.Equal("Ada King", got.FullName)

		reloaded, err := s.store.FindByID(s.ctx, user.ID)
		s.Require().NoError(err)
		s.Equal("Ada King", reloaded.FullName)
	})

	s.Run("rejects a too-short name", func() {
		_, err := s.service.UpdateProfile(authed, "A")
		s.Require().Error(err)
		s.Equal(dErrors.CodeValidation, dErrors.CodeOf(err))
	})
}
