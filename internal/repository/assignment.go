package repository

import (
	"context"

	"github.com/pebble-tech/cursor-my-hackathon/internal/domain"
	"github.com/pebble-tech/cursor-my-hackathon/internal/repository/dao"
)

var ErrPoolExhausted = dao.ErrPoolExhausted

// ExhaustionError carries the served-recipient count out of an aborted
// strict batch claim.
type ExhaustionError = dao.ExhaustionError

type AssignmentDAO interface {
	ClaimOne(ctx context.Context, creditTypeID, recipientID string) (dao.Code, error)
	ClaimBatch(ctx context.Context, creditTypeIDs, recipientIDs []string) ([]dao.BatchClaim, error)
	FirstAttendance(ctx context.Context, params dao.FirstAttendanceParams) (dao.FirstAttendanceResult, error)
}

// FirstAttendanceOutcome is the committed result of a first-attendance
// check-in: best-effort assigned credits, the pools found empty, and the
// check-in record.
type FirstAttendanceOutcome struct {
	Assigned  []domain.AssignedCredit
	Exhausted []string
	Record    domain.CheckinRecord
}

type AssignmentRepository struct {
	dao AssignmentDAO
}

func NewAssignmentRepository(dao AssignmentDAO) *AssignmentRepository {
	return &AssignmentRepository{
		dao: dao,
	}
}

func (r *AssignmentRepository) ClaimOne(ctx context.Context, creditTypeID, recipientID string) (domain.Code, error) {
	code, err := r.dao.ClaimOne(ctx, creditTypeID, recipientID)
	if err != nil {
		return domain.Code{}, err
	}

	return codeDaoToDomain(code), nil
}

func (r *AssignmentRepository) ClaimBatch(ctx context.Context, creditTypeIDs, recipientIDs []string) ([]domain.GiveawayAssignment, error) {
	claims, err := r.dao.ClaimBatch(ctx, creditTypeIDs, recipientIDs)
	if err != nil {
		return nil, err
	}

	assignments := make([]domain.GiveawayAssignment, len(claims))
	for i, claim := range claims {
		assignments[i] = domain.GiveawayAssignment{
			RecipientID:  claim.RecipientID,
			CreditTypeID: claim.CreditTypeID,
			Code:         codeDaoToDomain(claim.Code),
		}
	}

	return assignments, nil
}

func (r *AssignmentRepository) FirstAttendance(ctx context.Context, participantID, checkinTypeID, actorID string, assignCredits bool) (FirstAttendanceOutcome, error) {
	result, err := r.dao.FirstAttendance(ctx, dao.FirstAttendanceParams{
		ParticipantID: participantID,
		CheckinTypeID: checkinTypeID,
		ActorID:       actorID,
		AssignCredits: assignCredits,
	})
	if err != nil {
		return FirstAttendanceOutcome{}, err
	}

	outcome := FirstAttendanceOutcome{
		Exhausted: result.Exhausted,
		Record:    checkinRecordDaoToDomain(result.Record),
	}
	for _, claimed := range result.Assigned {
		outcome.Assigned = append(outcome.Assigned, domain.AssignedCredit{
			CreditType: creditTypeDaoToDomain(claimed.CreditType),
			Code:       codeDaoToDomain(claimed.Code),
		})
	}

	return outcome, nil
}
