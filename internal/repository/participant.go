package repository

import (
	"context"

	"github.com/pebble-tech/cursor-my-hackathon/internal/domain"
	"github.com/pebble-tech/cursor-my-hackathon/internal/repository/dao"
)

var (
	ErrParticipantNotFound    = dao.ErrParticipantNotFound
	ErrParticipantEmailExists = dao.ErrParticipantEmailExists
)

type ParticipantDAO interface {
	Insert(ctx context.Context, participant dao.Participant) (dao.Participant, error)
	InsertBatch(ctx context.Context, participants []dao.Participant) error
	FindByID(ctx context.Context, id string) (dao.Participant, error)
	FindByEmail(ctx context.Context, email string) (dao.Participant, error)
	FindEmails(ctx context.Context, emails []string) ([]string, error)
	FindBySelector(ctx context.Context, role, participantType, status string) ([]dao.Participant, error)
	Update(ctx context.Context, participant dao.Participant) (dao.Participant, error)
	Delete(ctx context.Context, id string) error
}

type ParticipantRepository struct {
	dao ParticipantDAO
}

func NewParticipantRepository(dao ParticipantDAO) *ParticipantRepository {
	return &ParticipantRepository{
		dao: dao,
	}
}

func participantDaoToDomain(p dao.Participant) domain.Participant {
	return domain.Participant{
		ID:              p.ID,
		Name:            p.Name,
		Email:           p.Email,
		Password:        p.Password,
		Role:            domain.Role(p.Role),
		ParticipantType: domain.ParticipantType(p.ParticipantType),
		Status:          domain.ParticipantStatus(p.Status),
		QRToken:         p.QRToken,
		LumaID:          p.LumaID,
		CheckedInAt:     p.CheckedInAt,
		CheckedInBy:     p.CheckedInBy,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func participantDomainToDao(p domain.Participant) dao.Participant {
	return dao.Participant{
		ID:              p.ID,
		Name:            p.Name,
		Email:           p.Email,
		Password:        p.Password,
		Role:            string(p.Role),
		ParticipantType: string(p.ParticipantType),
		Status:          string(p.Status),
		QRToken:         p.QRToken,
		LumaID:          p.LumaID,
		CheckedInAt:     p.CheckedInAt,
		CheckedInBy:     p.CheckedInBy,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func (r *ParticipantRepository) Create(ctx context.Context, participant domain.Participant) (domain.Participant, error) {
	created, err := r.dao.Insert(ctx, participantDomainToDao(participant))
	if err != nil {
		return domain.Participant{}, err
	}

	return participantDaoToDomain(created), nil
}

func (r *ParticipantRepository) CreateBatch(ctx context.Context, participants []domain.Participant) error {
	batch := make([]dao.Participant, len(participants))
	for i, p := range participants {
		batch[i] = participantDomainToDao(p)
	}

	return r.dao.InsertBatch(ctx, batch)
}

func (r *ParticipantRepository) GetByID(ctx context.Context, id string) (domain.Participant, error) {
	participant, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Participant{}, err
	}

	return participantDaoToDomain(participant), nil
}

func (r *ParticipantRepository) GetByEmail(ctx context.Context, email string) (domain.Participant, error) {
	participant, err := r.dao.FindByEmail(ctx, email)
	if err != nil {
		return domain.Participant{}, err
	}

	return participantDaoToDomain(participant), nil
}

func (r *ParticipantRepository) ExistingEmails(ctx context.Context, emails []string) (map[string]bool, error) {
	existing, err := r.dao.FindEmails(ctx, emails)
	if err != nil {
		return nil, err
	}

	set := make(map[string]bool, len(existing))
	for _, email := range existing {
		set[email] = true
	}

	return set, nil
}

func (r *ParticipantRepository) ListBySelector(ctx context.Context, selector domain.RecipientSelector) ([]domain.Participant, error) {
	participants, err := r.dao.FindBySelector(ctx,
		string(selector.Role),
		string(selector.ParticipantType),
		string(selector.Status),
	)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Participant, len(participants))
	for i, p := range participants {
		result[i] = participantDaoToDomain(p)
	}

	return result, nil
}

func (r *ParticipantRepository) Update(ctx context.Context, participant domain.Participant) (domain.Participant, error) {
	updated, err := r.dao.Update(ctx, participantDomainToDao(participant))
	if err != nil {
		return domain.Participant{}, err
	}

	return participantDaoToDomain(updated), nil
}

func (r *ParticipantRepository) Delete(ctx context.Context, id string) error {
	return r.dao.Delete(ctx, id)
}
