package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pebble-tech/cursor-my-hackathon/internal/domain"
	"github.com/pebble-tech/cursor-my-hackathon/internal/metrics"
	"github.com/pebble-tech/cursor-my-hackathon/internal/repository"
)

var (
	ErrPoolExhausted       = repository.ErrPoolExhausted
	ErrCodeNotFound        = repository.ErrCodeNotFound
	ErrCodeNotOwned        = repository.ErrCodeNotOwned
	ErrCodeAlreadyRedeemed = repository.ErrCodeAlreadyRedeemed
	ErrCodeNotAssigned     = repository.ErrCodeNotAssigned
	ErrNoRecipients        = errors.New("recipient selector matched no participants")
)

// ExhaustionError aborts a strict giveaway and reports how many
// recipients would have been fully served.
type ExhaustionError = repository.ExhaustionError

type AssignmentRepository interface {
	ClaimOne(ctx context.Context, creditTypeID, recipientID string) (domain.Code, error)
	ClaimBatch(ctx context.Context, creditTypeIDs, recipientIDs []string) ([]domain.GiveawayAssignment, error)
}

type AssignmentParticipantRepository interface {
	GetByID(ctx context.Context, id string) (domain.Participant, error)
	ListBySelector(ctx context.Context, selector domain.RecipientSelector) ([]domain.Participant, error)
}

type AssignmentCreditRepository interface {
	GetCreditTypeByID(ctx context.Context, id string) (domain.CreditType, error)
	Unassign(ctx context.Context, codeID string) (domain.Code, error)
	MarkRedeemed(ctx context.Context, codeID, participantID string, redeemed bool) (domain.Code, error)
}

type AssignmentService struct {
	repo            AssignmentRepository
	participantRepo AssignmentParticipantRepository
	creditRepo      AssignmentCreditRepository
	notifier        Notifier
}

func NewAssignmentService(
	repo AssignmentRepository,
	participantRepo AssignmentParticipantRepository,
	creditRepo AssignmentCreditRepository,
	notifier Notifier,
) *AssignmentService {
	return &AssignmentService{
		repo:            repo,
		participantRepo: participantRepo,
		creditRepo:      creditRepo,
		notifier:        notifier,
	}
}

// AssignAdHoc claims one code for a single recipient outside the
// check-in flow. The claim commits before the notification is attempted.
func (s *AssignmentService) AssignAdHoc(ctx context.Context, recipientID, creditTypeID, actorID string) (domain.AssignedCredit, error) {
	participant, err := s.participantRepo.GetByID(ctx, recipientID)
	if err != nil {
		return domain.AssignedCredit{}, fmt.Errorf("s.participantRepo.GetByID -> %w", err)
	}

	creditType, err := s.creditRepo.GetCreditTypeByID(ctx, creditTypeID)
	if err != nil {
		return domain.AssignedCredit{}, fmt.Errorf("s.creditRepo.GetCreditTypeByID -> %w", err)
	}

	start := time.Now()
	code, err := s.repo.ClaimOne(ctx, creditTypeID, recipientID)
	if err != nil {
		if errors.Is(err, repository.ErrPoolExhausted) {
			metrics.RecordClaimDuration("exhausted", time.Since(start).Seconds())
			metrics.RecordPoolExhausted(creditType.Name)

			return domain.AssignedCredit{}, ErrPoolExhausted
		}
		metrics.RecordClaimDuration("error", time.Since(start).Seconds())

		return domain.AssignedCredit{}, fmt.Errorf("s.repo.ClaimOne -> %w", err)
	}
	metrics.RecordClaimDuration("assigned", time.Since(start).Seconds())

	credit := domain.AssignedCredit{
		CreditType: creditType,
		Code:       code,
	}

	zap.L().Info("ad hoc credit assigned",
		zap.String("recipient_id", recipientID),
		zap.String("credit_type", creditType.Name),
		zap.String("actor_id", actorID),
	)

	if err = s.notifier.CreditAssigned(ctx, participant, []domain.AssignedCredit{credit}); err != nil {
		zap.L().Warn("credit assignment notification failed",
			zap.String("recipient_id", recipientID),
			zap.Error(err),
		)
	}

	return credit, nil
}

// RunGiveaway claims one code per (recipient, credit type) pair for every
// participant matched by the selector. The batch is all or nothing: an
// exhausted pool mid-batch rolls everything back and the returned
// ExhaustionError reports how many recipients could have been served.
// Notifications go out only after the batch committed.
func (s *AssignmentService) RunGiveaway(ctx context.Context, creditTypeIDs []string, selector domain.RecipientSelector, actorID string) (domain.GiveawayResult, error) {
	creditTypes := make(map[string]domain.CreditType, len(creditTypeIDs))
	for _, creditTypeID := range creditTypeIDs {
		creditType, err := s.creditRepo.GetCreditTypeByID(ctx, creditTypeID)
		if err != nil {
			return domain.GiveawayResult{}, fmt.Errorf("s.creditRepo.GetCreditTypeByID -> %w", err)
		}
		creditTypes[creditTypeID] = creditType
	}

	recipients, err := s.participantRepo.ListBySelector(ctx, selector)
	if err != nil {
		return domain.GiveawayResult{}, fmt.Errorf("s.participantRepo.ListBySelector -> %w", err)
	}
	if len(recipients) == 0 {
		return domain.GiveawayResult{}, ErrNoRecipients
	}

	recipientIDs := make([]string, len(recipients))
	for i, recipient := range recipients {
		recipientIDs[i] = recipient.ID
	}

	assignments, err := s.repo.ClaimBatch(ctx, creditTypeIDs, recipientIDs)
	if err != nil {
		var exhaustion *ExhaustionError
		if errors.As(err, &exhaustion) {
			metrics.RecordPoolExhausted(creditTypes[exhaustion.CreditTypeID].Name)

			return domain.GiveawayResult{}, exhaustion
		}

		return domain.GiveawayResult{}, fmt.Errorf("s.repo.ClaimBatch -> %w", err)
	}

	zap.L().Info("giveaway completed",
		zap.Int("recipients", len(recipients)),
		zap.Int("assignments", len(assignments)),
		zap.String("actor_id", actorID),
	)

	result := domain.GiveawayResult{
		AssignedCount: len(assignments),
		Assignments:   assignments,
	}

	byRecipient := make(map[string][]domain.AssignedCredit, len(recipients))
	for _, assignment := range assignments {
		byRecipient[assignment.RecipientID] = append(byRecipient[assignment.RecipientID], domain.AssignedCredit{
			CreditType: creditTypes[assignment.CreditTypeID],
			Code:       assignment.Code,
		})
	}

	var failed int
	for _, recipient := range recipients {
		if err = s.notifier.CreditAssigned(ctx, recipient, byRecipient[recipient.ID]); err != nil {
			failed++
			zap.L().Warn("giveaway notification failed",
				zap.String("recipient_id", recipient.ID),
				zap.Error(err),
			)
		}
	}
	if failed > 0 {
		result.NotifyWarning = fmt.Sprintf("%v of %v notifications failed to send", failed, len(recipients))
	}

	return result, nil
}

// Unassign returns an assigned code to the pool. Redeemed codes never
// come back.
func (s *AssignmentService) Unassign(ctx context.Context, codeID string) (domain.Code, error) {
	code, err := s.creditRepo.Unassign(ctx, codeID)
	if err != nil {
		if errors.Is(err, repository.ErrCodeNotFound) || errors.Is(err, repository.ErrCodeAlreadyRedeemed) {
			return domain.Code{}, err
		}

		return domain.Code{}, fmt.Errorf("s.creditRepo.Unassign -> %w", err)
	}

	return code, nil
}

// MarkRedeemed toggles the self-reported redeemed flag on a code owned
// by the calling participant.
func (s *AssignmentService) MarkRedeemed(ctx context.Context, codeID, participantID string, redeemed bool) (domain.Code, error) {
	code, err := s.creditRepo.MarkRedeemed(ctx, codeID, participantID, redeemed)
	if err != nil {
		if errors.Is(err, repository.ErrCodeNotFound) ||
			errors.Is(err, repository.ErrCodeNotOwned) ||
			errors.Is(err, repository.ErrCodeNotAssigned) {
			return domain.Code{}, err
		}

		return domain.Code{}, fmt.Errorf("s.creditRepo.MarkRedeemed -> %w", err)
	}

	return code, nil
}
