package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pebble-tech/cursor-my-hackathon/internal/domain"
)

func authFixture(t *testing.T) (*AuthService, domain.Participant) {
	t.Helper()

	hashed, err := hashPassword("correct horse battery")
	require.NoError(t, err)

	repo := newFakeParticipantRepo()
	staff := domain.Participant{
		ID:       "ops-1",
		Name:     "Ops Olga",
		Email:    "olga@example.com",
		Password: hashed,
		Role:     domain.RoleOps,
		Status:   domain.StatusRegistered,
	}
	require.NoError(t, repo.insert(staff))
	require.NoError(t, repo.insert(domain.Participant{
		ID:     "p1",
		Email:  "ada@example.com",
		Role:   domain.RoleParticipant,
		Status: domain.StatusRegistered,
	}))

	return NewAuthService(repo), staff
}

func TestLogin(t *testing.T) {
	svc, staff := authFixture(t)

	got, err := svc.Login(context.Background(), "olga@example.com", "correct horse battery")
	require.NoError(t, err)

	assert.Equal(t, staff.ID, got.ID)
	assert.Equal(t, domain.RoleOps, got.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := authFixture(t)

	_, err := svc.Login(context.Background(), "olga@example.com", "nope")
	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestLogin_ParticipantHasNoStaffAccess(t *testing.T) {
	svc, _ := authFixture(t)

	_, err := svc.Login(context.Background(), "ada@example.com", "anything")
	assert.ErrorIs(t, err, ErrNotStaff)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := authFixture(t)

	_, err := svc.Login(context.Background(), "ghost@example.com", "anything")
	assert.ErrorIs(t, err, ErrParticipantNotFound)
}
