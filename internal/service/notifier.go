package service

import (
	"context"

	"github.com/pebble-tech/cursor-my-hackathon/internal/domain"
)

// Notifier is the outbound notification boundary. Implementations must
// be safe to call after the triggering transaction committed; a failed
// dispatch is logged and surfaced as a soft warning, never unwinding a
// durable assignment.
type Notifier interface {
	CheckinConfirmation(ctx context.Context, participant domain.Participant, credits []domain.AssignedCredit) error
	CreditAssigned(ctx context.Context, participant domain.Participant, credits []domain.AssignedCredit) error
}
