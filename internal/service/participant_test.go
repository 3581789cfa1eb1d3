package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pebble-tech/cursor-my-hackathon/internal/domain"
	"github.com/pebble-tech/cursor-my-hackathon/internal/repository"
)

type fakeParticipantRepo struct {
	byID    map[string]domain.Participant
	byEmail map[string]domain.Participant
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{
		byID:    make(map[string]domain.Participant),
		byEmail: make(map[string]domain.Participant),
	}
}

func (f *fakeParticipantRepo) insert(p domain.Participant) error {
	if _, ok := f.byEmail[p.Email]; ok {
		return repository.ErrParticipantEmailExists
	}
	f.byID[p.ID] = p
	f.byEmail[p.Email] = p

	return nil
}

func (f *fakeParticipantRepo) Create(_ context.Context, p domain.Participant) (domain.Participant, error) {
	if err := f.insert(p); err != nil {
		return domain.Participant{}, err
	}

	return p, nil
}

func (f *fakeParticipantRepo) CreateBatch(_ context.Context, participants []domain.Participant) error {
	for _, p := range participants {
		if err := f.insert(p); err != nil {
			return err
		}
	}

	return nil
}

func (f *fakeParticipantRepo) GetByID(_ context.Context, id string) (domain.Participant, error) {
	p, ok := f.byID[id]
	if !ok {
		return domain.Participant{}, repository.ErrParticipantNotFound
	}

	return p, nil
}

func (f *fakeParticipantRepo) GetByEmail(_ context.Context, email string) (domain.Participant, error) {
	p, ok := f.byEmail[strings.ToLower(email)]
	if !ok {
		return domain.Participant{}, repository.ErrParticipantNotFound
	}

	return p, nil
}

func (f *fakeParticipantRepo) ExistingEmails(_ context.Context, emails []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	for _, email := range emails {
		if _, ok := f.byEmail[email]; ok {
			existing[email] = true
		}
	}

	return existing, nil
}

func (f *fakeParticipantRepo) ListBySelector(_ context.Context, selector domain.RecipientSelector) ([]domain.Participant, error) {
	var out []domain.Participant
	for _, p := range f.byID {
		if selector.Role != "" && p.Role != selector.Role {
			continue
		}
		if selector.ParticipantType != "" && p.ParticipantType != selector.ParticipantType {
			continue
		}
		if selector.Status != "" && p.Status != selector.Status {
			continue
		}
		out = append(out, p)
	}

	return out, nil
}

func (f *fakeParticipantRepo) Update(_ context.Context, p domain.Participant) (domain.Participant, error) {
	existing, ok := f.byID[p.ID]
	if !ok {
		return domain.Participant{}, repository.ErrParticipantNotFound
	}
	if other, ok := f.byEmail[p.Email]; ok && other.ID != p.ID {
		return domain.Participant{}, repository.ErrParticipantEmailExists
	}
	delete(f.byEmail, existing.Email)
	f.byID[p.ID] = p
	f.byEmail[p.Email] = p

	return p, nil
}

func (f *fakeParticipantRepo) Delete(_ context.Context, id string) error {
	p, ok := f.byID[id]
	if !ok {
		return repository.ErrParticipantNotFound
	}
	delete(f.byID, id)
	delete(f.byEmail, p.Email)

	return nil
}

type fakeCreditLookup struct {
	credits map[string][]domain.AssignedCredit
}

func (f *fakeCreditLookup) ListAssignedCredits(_ context.Context, participantID string) ([]domain.AssignedCredit, error) {
	return f.credits[participantID], nil
}

type fakeQRGen struct {
	err error
}

func (f *fakeQRGen) Generate(participantID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}

	return "qr-" + participantID, nil
}

func participantFixture() (*ParticipantService, *fakeParticipantRepo, *fakeCreditLookup) {
	repo := newFakeParticipantRepo()
	credits := &fakeCreditLookup{credits: make(map[string][]domain.AssignedCredit)}
	svc := NewParticipantService(repo, credits, &fakeQRGen{})

	return svc, repo, credits
}

func TestCreateParticipant_DefaultsAndQRToken(t *testing.T) {
	svc, repo, _ := participantFixture()

	created, err := svc.Create(context.Background(), domain.Participant{
		Name:  "Ada",
		Email: " Ada@Example.COM ",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "ada@example.com", created.Email)
	assert.Equal(t, domain.RoleParticipant, created.Role)
	assert.Equal(t, domain.ParticipantRegular, created.ParticipantType)
	assert.Equal(t, domain.StatusRegistered, created.Status)
	assert.Equal(t, "qr-"+created.ID, created.QRToken)

	stored, ok := repo.byID[created.ID]
	require.True(t, ok)
	assert.Equal(t, created.QRToken, stored.QRToken)
}

func TestCreateParticipant_HashesPassword(t *testing.T) {
	svc, repo, _ := participantFixture()

	created, err := svc.Create(context.Background(), domain.Participant{
		Name:     "Ops Olga",
		Email:    "olga@example.com",
		Password: "hunter2hunter2",
		Role:     domain.RoleOps,
	})
	require.NoError(t, err)

	stored := repo.byID[created.ID]
	assert.NotEqual(t, "hunter2hunter2", stored.Password)
	assert.True(t, strings.HasPrefix(stored.Password, "$2a$"))
}

func TestCreateParticipant_DuplicateEmail(t *testing.T) {
	svc, _, _ := participantFixture()

	_, err := svc.Create(context.Background(), domain.Participant{Email: "ada@example.com"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), domain.Participant{Email: "ADA@example.com"})
	assert.ErrorIs(t, err, ErrParticipantEmailExists)
}

func TestImportParticipants_ReportsSkippedRows(t *testing.T) {
	svc, repo, _ := participantFixture()

	_, err := svc.Create(context.Background(), domain.Participant{Email: "taken@example.com"})
	require.NoError(t, err)

	result, err := svc.Import(context.Background(), []domain.ParticipantImport{
		{Name: "Ada", Email: "Ada@Example.com", LumaID: "evt-1"},
		{Name: "No Email"},
		{Name: "Taken", Email: "taken@example.com"},
		{Name: "Ada Again", Email: "ada@example.com"},
		{Name: "Grace", Email: "grace@example.com", Role: domain.RoleOps},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Imported)
	require.Len(t, result.Skipped, 3)
	assert.Equal(t, domain.SkippedParticipant{Row: 2, Reason: "missing email"}, result.Skipped[0])
	assert.Equal(t, domain.SkippedParticipant{Row: 3, Email: "taken@example.com", Reason: "already registered"}, result.Skipped[1])
	assert.Equal(t, domain.SkippedParticipant{Row: 4, Email: "ada@example.com", Reason: "duplicate in batch"}, result.Skipped[2])

	ada, err := repo.GetByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "evt-1", ada.LumaID)
	assert.Equal(t, domain.RoleParticipant, ada.Role)
	assert.Equal(t, "qr-"+ada.ID, ada.QRToken)

	grace, err := repo.GetByEmail(context.Background(), "grace@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOps, grace.Role)
}

func TestDashboard(t *testing.T) {
	svc, _, credits := participantFixture()

	created, err := svc.Create(context.Background(), domain.Participant{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	credits.credits[created.ID] = []domain.AssignedCredit{
		{
			CreditType: domain.CreditType{ID: "credit-1", Name: "cloud-credits"},
			Code:       domain.Code{ID: "code-1", CodeValue: "ABC123", Status: domain.CodeAssigned},
		},
	}

	dashboard, err := svc.Dashboard(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, created.ID, dashboard.Participant.ID)
	require.Len(t, dashboard.Credits, 1)
	assert.Equal(t, "ABC123", dashboard.Credits[0].Code.CodeValue)
}

func TestUpdateParticipant_PinsCheckinStateAndCredentials(t *testing.T) {
	svc, repo, _ := participantFixture()

	created, err := svc.Create(context.Background(), domain.Participant{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "hunter2hunter2",
		Role:     domain.RoleOps,
	})
	require.NoError(t, err)

	stored := repo.byID[created.ID]

	updated, err := svc.UpdateParticipant(context.Background(), domain.Participant{
		ID:      created.ID,
		Name:    "Ada L.",
		Email:   "ada@example.com",
		Role:    domain.RoleOps,
		Status:  domain.StatusCheckedIn,
		QRToken: "forged-token",
	})
	require.NoError(t, err)

	assert.Equal(t, "Ada L.", updated.Name)
	assert.Equal(t, domain.StatusRegistered, updated.Status)
	assert.Equal(t, stored.QRToken, updated.QRToken)
	assert.Equal(t, stored.Password, updated.Password)
}

func TestDeleteParticipant_NotFound(t *testing.T) {
	svc, _, _ := participantFixture()

	err := svc.DeleteParticipant(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrParticipantNotFound)
}
