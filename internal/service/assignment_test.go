package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pebble-tech/cursor-my-hackathon/internal/domain"
	"github.com/pebble-tech/cursor-my-hackathon/internal/repository"
)

// fakeClaimRepo hands out sequentially numbered codes per credit type
// until the configured pool size runs dry.
type fakeClaimRepo struct {
	pools  map[string]int
	issued map[string]int
}

func newFakeClaimRepo(pools map[string]int) *fakeClaimRepo {
	return &fakeClaimRepo{
		pools:  pools,
		issued: make(map[string]int),
	}
}

func (f *fakeClaimRepo) claim(creditTypeID, recipientID string) (domain.Code, error) {
	if f.issued[creditTypeID] >= f.pools[creditTypeID] {
		return domain.Code{}, repository.ErrPoolExhausted
	}
	f.issued[creditTypeID]++

	return domain.Code{
		ID:           fmt.Sprintf("%v-code-%d", creditTypeID, f.issued[creditTypeID]),
		CreditTypeID: creditTypeID,
		CodeValue:    fmt.Sprintf("VAL%d", f.issued[creditTypeID]),
		Status:       domain.CodeAssigned,
		AssignedTo:   recipientID,
	}, nil
}

func (f *fakeClaimRepo) ClaimOne(_ context.Context, creditTypeID, recipientID string) (domain.Code, error) {
	return f.claim(creditTypeID, recipientID)
}

func (f *fakeClaimRepo) ClaimBatch(_ context.Context, creditTypeIDs, recipientIDs []string) ([]domain.GiveawayAssignment, error) {
	snapshot := make(map[string]int, len(f.issued))
	for k, v := range f.issued {
		snapshot[k] = v
	}

	var assignments []domain.GiveawayAssignment
	for i, recipientID := range recipientIDs {
		for _, creditTypeID := range creditTypeIDs {
			code, err := f.claim(creditTypeID, recipientID)
			if err != nil {
				// Roll back, exactly as the transactional DAO would.
				f.issued = snapshot

				return nil, &repository.ExhaustionError{
					CreditTypeID:     creditTypeID,
					ServedRecipients: i,
				}
			}
			assignments = append(assignments, domain.GiveawayAssignment{
				RecipientID:  recipientID,
				CreditTypeID: creditTypeID,
				Code:         code,
			})
		}
	}

	return assignments, nil
}

type fakeSelectorRepo struct {
	participants []domain.Participant
}

func (f *fakeSelectorRepo) GetByID(_ context.Context, id string) (domain.Participant, error) {
	for _, p := range f.participants {
		if p.ID == id {
			return p, nil
		}
	}

	return domain.Participant{}, repository.ErrParticipantNotFound
}

func (f *fakeSelectorRepo) ListBySelector(_ context.Context, selector domain.RecipientSelector) ([]domain.Participant, error) {
	var out []domain.Participant
	for _, p := range f.participants {
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

type fakeCreditTypeRepo struct {
	types map[string]domain.CreditType
}

func (f *fakeCreditTypeRepo) GetCreditTypeByID(_ context.Context, id string) (domain.CreditType, error) {
	ct, ok := f.types[id]
	if !ok {
		return domain.CreditType{}, repository.ErrCreditTypeNotFound
	}

	return ct, nil
}

func (f *fakeCreditTypeRepo) Unassign(_ context.Context, codeID string) (domain.Code, error) {
	return domain.Code{ID: codeID, Status: domain.CodeUnassigned}, nil
}

func (f *fakeCreditTypeRepo) MarkRedeemed(_ context.Context, codeID, participantID string, redeemed bool) (domain.Code, error) {
	status := domain.CodeAssigned
	if redeemed {
		status = domain.CodeRedeemed
	}

	return domain.Code{ID: codeID, AssignedTo: participantID, Status: status}, nil
}

func giveawayFixture(pools map[string]int, participants []domain.Participant) (*AssignmentService, *fakeClaimRepo, *fakeNotifier) {
	claimRepo := newFakeClaimRepo(pools)
	notifier := &fakeNotifier{}
	creditRepo := &fakeCreditTypeRepo{types: map[string]domain.CreditType{
		"credit-1": {ID: "credit-1", Name: "cloud-credits", IsActive: true},
		"credit-2": {ID: "credit-2", Name: "gpu-hours", IsActive: true},
	}}

	svc := NewAssignmentService(claimRepo, &fakeSelectorRepo{participants: participants}, creditRepo, notifier)

	return svc, claimRepo, notifier
}

func hackers(n int) []domain.Participant {
	out := make([]domain.Participant, n)
	for i := range out {
		out[i] = domain.Participant{
			ID:              fmt.Sprintf("p%d", i+1),
			Role:            domain.RoleParticipant,
			ParticipantType: domain.ParticipantRegular,
			Status:          domain.StatusCheckedIn,
		}
	}

	return out
}

func TestRunGiveaway_AssignsOneCodePerRecipientAndType(t *testing.T) {
	svc, claimRepo, notifier := giveawayFixture(
		map[string]int{"credit-1": 5, "credit-2": 5},
		hackers(3),
	)

	result, err := svc.RunGiveaway(context.Background(),
		[]string{"credit-1", "credit-2"},
		domain.RecipientSelector{Status: domain.StatusCheckedIn},
		"admin-1",
	)
	require.NoError(t, err)

	assert.Equal(t, 6, result.AssignedCount)
	assert.Len(t, result.Assignments, 6)
	assert.Empty(t, result.NotifyWarning)
	assert.Equal(t, 3, claimRepo.issued["credit-1"])
	assert.Equal(t, 3, claimRepo.issued["credit-2"])

	// One notification per recipient, each carrying both credits.
	require.Len(t, notifier.calls, 3)
	for _, call := range notifier.calls {
		assert.Len(t, call.credits, 2)
	}
}

func TestRunGiveaway_ExhaustionAbortsWholeBatch(t *testing.T) {
	svc, claimRepo, notifier := giveawayFixture(
		map[string]int{"credit-1": 2, "credit-2": 5},
		hackers(4),
	)

	_, err := svc.RunGiveaway(context.Background(),
		[]string{"credit-1", "credit-2"},
		domain.RecipientSelector{Status: domain.StatusCheckedIn},
		"admin-1",
	)
	require.Error(t, err)

	var exhaustion *ExhaustionError
	require.ErrorAs(t, err, &exhaustion)
	assert.ErrorIs(t, err, ErrPoolExhausted)
	assert.Equal(t, "credit-1", exhaustion.CreditTypeID)
	assert.Equal(t, 2, exhaustion.ServedRecipients)

	// Nothing stuck: the batch rolled back and nobody was notified.
	assert.Zero(t, claimRepo.issued["credit-1"])
	assert.Zero(t, claimRepo.issued["credit-2"])
	assert.Empty(t, notifier.calls)
}

func TestRunGiveaway_SelectorFiltersRecipients(t *testing.T) {
	participants := hackers(3)
	participants[1].ParticipantType = domain.ParticipantVIP

	svc, _, notifier := giveawayFixture(map[string]int{"credit-1": 5}, participants)

	result, err := svc.RunGiveaway(context.Background(),
		[]string{"credit-1"},
		domain.RecipientSelector{ParticipantType: domain.ParticipantVIP},
		"admin-1",
	)
	require.NoError(t, err)

	assert.Equal(t, 1, result.AssignedCount)
	require.Len(t, notifier.calls, 1)
	assert.Equal(t, "p2", notifier.calls[0].participant.ID)
}

func TestRunGiveaway_NoRecipients(t *testing.T) {
	svc, _, _ := giveawayFixture(map[string]int{"credit-1": 5}, hackers(2))

	_, err := svc.RunGiveaway(context.Background(),
		[]string{"credit-1"},
		domain.RecipientSelector{Role: domain.RoleAdmin},
		"admin-1",
	)
	assert.ErrorIs(t, err, ErrNoRecipients)
}

func TestRunGiveaway_NotificationFailureIsSoft(t *testing.T) {
	svc, _, notifier := giveawayFixture(map[string]int{"credit-1": 5}, hackers(2))
	notifier.err = assert.AnError

	result, err := svc.RunGiveaway(context.Background(),
		[]string{"credit-1"},
		domain.RecipientSelector{Status: domain.StatusCheckedIn},
		"admin-1",
	)
	require.NoError(t, err)

	assert.Equal(t, 2, result.AssignedCount)
	assert.Equal(t, "2 of 2 notifications failed to send", result.NotifyWarning)
}

func TestAssignAdHoc(t *testing.T) {
	svc, claimRepo, notifier := giveawayFixture(map[string]int{"credit-1": 1}, hackers(1))

	credit, err := svc.AssignAdHoc(context.Background(), "p1", "credit-1", "admin-1")
	require.NoError(t, err)

	assert.Equal(t, "cloud-credits", credit.CreditType.Name)
	assert.Equal(t, "p1", credit.Code.AssignedTo)
	assert.Equal(t, 1, claimRepo.issued["credit-1"])
	require.Len(t, notifier.calls, 1)

	// Pool is now dry.
	_, err = svc.AssignAdHoc(context.Background(), "p1", "credit-1", "admin-1")
	assert.ErrorIs(t, err, ErrPoolExhausted)
}

func TestAssignAdHoc_UnknownRecipientOrType(t *testing.T) {
	svc, _, _ := giveawayFixture(map[string]int{"credit-1": 1}, hackers(1))

	_, err := svc.AssignAdHoc(context.Background(), "ghost", "credit-1", "admin-1")
	assert.ErrorIs(t, err, ErrParticipantNotFound)

	_, err = svc.AssignAdHoc(context.Background(), "p1", "nope", "admin-1")
	assert.ErrorIs(t, err, ErrCreditTypeNotFound)
}
