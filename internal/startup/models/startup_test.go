package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "foundry/pkg/domain"
	dErrors "foundry/pkg/domain-errors"
)

func validRegistration() Registration {
	return Registration{
		Name:         "Quantum Greens",
		Description:  "Vertical farming with machine-learned irrigation schedules.",
		Location:     "Rotterdam",
		ContactEmail: "hello@quantumgreens.example",
	}
}

func TestNewStartup(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	owner := id.NewUserID()

	t.Run("builds a pending listing", func(t *testing.T) {
		startup, err := NewStartup(owner, validRegistration(), now)
		require.NoError(t, err)
		assert.Equal(t, StatusPending, startup.Status)
		assert.Equal(t, owner, startup.OwnerID)
		assert.Zero(t, startup.Rating)
		assert.Equal(t, now, startup.CreatedAt)
	})

	t.Run("trims whitespace before validating", func(t *testing.T) {
		reg := validRegistration()
		reg.Name = "  Quantum Greens  "
		reg.Location = " Rotterdam "
		startup, err := NewStartup(owner, reg, now)
		require.NoError(t, err)
		assert.Equal(t, "Quantum Greens", startup.Name)
		assert.Equal(t, "Rotterdam", startup.Location)
	})

	invalid := []struct {
		name   string
		mutate func(*Registration)
	}{
		{"name too short", func(r *Registration) { r.Name = "Q" }},
		{"description too short", func(r *Registration) { r.Description = "too short" }},
		{"location missing", func(r *Registration) { r.Location = "   " }},
		{"contact email malformed", func(r *Registration) { r.ContactEmail = "not-an-email" }},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			reg := validRegistration()
			tc.mutate(&reg)
			_, err := NewStartup(owner, reg, now)
			require.Error(t, err)
			assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
		})
	}
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusApproved))
	assert.True(t, StatusPending.CanTransitionTo(StatusRejected))
	assert.False(t, StatusApproved.CanTransitionTo(StatusRejected))
	assert.False(t, StatusRejected.CanTransitionTo(StatusApproved))
	assert.False(t, StatusApproved.CanTransitionTo(StatusPending))
}

func TestCanModerate(t *testing.T) {
	now := time.Now()
	startup, err := NewStartup(id.NewUserID(), validRegistration(), now)
	require.NoError(t, err)

	t.Run("pending listing accepts a decision", func(t *testing.T) {
		assert.NoError(t, startup.CanModerate(StatusApproved))
		assert.NoError(t, startup.CanModerate(StatusRejected))
	})

	t.Run("re-applying the current status is allowed", func(t *testing.T) {
		startup.ApplyModeration(StatusApproved, now)
		assert.NoError(t, startup.CanModerate(StatusApproved))
	})

	t.Run("flipping a decided listing is rejected", func(t *testing.T) {
		err := startup.CanModerate(StatusRejected)
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeInvariantViolation, dErrors.CodeOf(err))
	})
}

func TestApplyModerationSameStatusIsNoOp(t *testing.T) {
	created := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	startup, err := NewStartup(id.NewUserID(), validRegistration(), created)
	require.NoError(t, err)

	decided := created.Add(time.Hour)
	startup.ApplyModeration(StatusApproved, decided)
	require.Equal(t, decided, startup.UpdatedAt)

	startup.ApplyModeration(StatusApproved, decided.Add(time.Hour))
	assert.Equal(t, decided, startup.UpdatedAt, "re-applying the same status should not touch the listing")
}

func TestSearchFilterNormalize(t *testing.T) {
	t.Run("defaults the limit", func(t *testing.T) {
		f := SearchFilter{}
		f.Normalize()
		assert.Equal(t, 50, f.Limit)
	})

	t.Run("caps an oversized limit", func(t *testing.T) {
		f := SearchFilter{Limit: 5000}
		f.Normalize()
		assert.Equal(t, 100, f.Limit)
	})

	t.Run("clamps a negative offset", func(t *testing.T) {
		f := SearchFilter{Offset: -3, Limit: 10}
		f.Normalize()
		assert.Equal(t, 0, f.Offset)
		assert.Equal(t, 10, f.Limit)
	})

	t.Run("trims text filters", func(t *testing.T) {
		f := SearchFilter{Query: "  farming ", Location: " berlin ", Limit: 10}
		f.Normalize()
		assert.Equal(t, "farming", f.Query)
		assert.Equal(t, "berlin", f.Location)
	})
}
