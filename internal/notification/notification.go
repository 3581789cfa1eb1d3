package notification

import (
	"context"

	"go.uber.org/zap"

	"github.com/pebble-tech/cursor-my-hackathon/internal/domain"
)

// Dispatcher records outbound participant notifications. Delivery over a
// real mail provider plugs in behind the service-level Notifier
// interface; this implementation writes structured log entries so staff
// can audit what would have been sent.
type Dispatcher struct {
	logger *zap.Logger
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		logger: zap.L(),
	}
}

func (d *Dispatcher) CheckinConfirmation(ctx context.Context, participant domain.Participant, credits []domain.AssignedCredit) error {
	d.logger.Info("dispatching check-in confirmation",
		zap.String("participant_id", participant.ID),
		zap.String("email", participant.Email),
		zap.Int("credit_count", len(credits)),
		zap.Strings("credit_types", creditTypeNames(credits)),
	)

	return nil
}

func (d *Dispatcher) CreditAssigned(ctx context.Context, participant domain.Participant, credits []domain.AssignedCredit) error {
	d.logger.Info("dispatching credit assignment notice",
		zap.String("participant_id", participant.ID),
		zap.String("email", participant.Email),
		zap.Strings("credit_types", creditTypeNames(credits)),
	)

	return nil
}

func creditTypeNames(credits []domain.AssignedCredit) []string {
	names := make([]string, len(credits))
	for i, credit := range credits {
		names[i] = credit.CreditType.Name
	}

	return names
}
