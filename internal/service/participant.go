package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pebble-tech/cursor-my-hackathon/internal/domain"
	"github.com/pebble-tech/cursor-my-hackathon/internal/repository"
)

var (
	ErrParticipantNotFound    = repository.ErrParticipantNotFound
	ErrParticipantEmailExists = repository.ErrParticipantEmailExists
)

// QRGenerator issues the permanent badge token for a participant id.
type QRGenerator interface {
	Generate(participantID string) (string, error)
}

type ParticipantRepository interface {
	Create(ctx context.Context, participant domain.Participant) (domain.Participant, error)
	CreateBatch(ctx context.Context, participants []domain.Participant) error
	GetByID(ctx context.Context, id string) (domain.Participant, error)
	GetByEmail(ctx context.Context, email string) (domain.Participant, error)
	ExistingEmails(ctx context.Context, emails []string) (map[string]bool, error)
	ListBySelector(ctx context.Context, selector domain.RecipientSelector) ([]domain.Participant, error)
	Update(ctx context.Context, participant domain.Participant) (domain.Participant, error)
	Delete(ctx context.Context, id string) error
}

type ParticipantCreditRepository interface {
	ListAssignedCredits(ctx context.Context, participantID string) ([]domain.AssignedCredit, error)
}

type ParticipantService struct {
	repo       ParticipantRepository
	creditRepo ParticipantCreditRepository
	qrGen      QRGenerator
}

func NewParticipantService(repo ParticipantRepository, creditRepo ParticipantCreditRepository, qrGen QRGenerator) *ParticipantService {
	return &ParticipantService{
		repo:       repo,
		creditRepo: creditRepo,
		qrGen:      qrGen,
	}
}

// Create registers one participant with a freshly issued QR token. The
// id is generated here so the token can be signed before the insert.
func (s *ParticipantService) Create(ctx context.Context, participant domain.Participant) (domain.Participant, error) {
	participant.Email = strings.ToLower(strings.TrimSpace(participant.Email))
	if participant.ID == "" {
		participant.ID = uuid.NewString()
	}
	if participant.Role == "" {
		participant.Role = domain.RoleParticipant
	}
	if participant.ParticipantType == "" {
		participant.ParticipantType = domain.ParticipantRegular
	}
	participant.Status = domain.StatusRegistered

	if participant.Password != "" {
		hashed, err := hashPassword(participant.Password)
		if err != nil {
			return domain.Participant{}, fmt.Errorf("hashPassword -> %w", err)
		}
		participant.Password = hashed
	}

	token, err := s.qrGen.Generate(participant.ID)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("s.qrGen.Generate -> %w", err)
	}
	participant.QRToken = token

	created, err := s.repo.Create(ctx, participant)
	if err != nil {
		if errors.Is(err, repository.ErrParticipantEmailExists) {
			return domain.Participant{}, ErrParticipantEmailExists
		}

		return domain.Participant{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// Import registers participants in bulk. Duplicate emails, whether
// already registered or repeated within the batch, are skipped and
// reported row by row rather than failing the import.
func (s *ParticipantService) Import(ctx context.Context, imports []domain.ParticipantImport) (domain.ParticipantImportResult, error) {
	emails := make([]string, 0, len(imports))
	for _, imp := range imports {
		email := strings.ToLower(strings.TrimSpace(imp.Email))
		if email != "" {
			emails = append(emails, email)
		}
	}

	existing, err := s.repo.ExistingEmails(ctx, emails)
	if err != nil {
		return domain.ParticipantImportResult{}, fmt.Errorf("s.repo.ExistingEmails -> %w", err)
	}

	var result domain.ParticipantImportResult
	seen := make(map[string]bool, len(imports))
	accepted := make([]domain.Participant, 0, len(imports))

	for i, imp := range imports {
		email := strings.ToLower(strings.TrimSpace(imp.Email))

		switch {
		case email == "":
			result.Skipped = append(result.Skipped, domain.SkippedParticipant{
				Row:    i + 1,
				Email:  imp.Email,
				Reason: "missing email",
			})
			continue
		case existing[email]:
			result.Skipped = append(result.Skipped, domain.SkippedParticipant{
				Row:    i + 1,
				Email:  email,
				Reason: "already registered",
			})
			continue
		case seen[email]:
			result.Skipped = append(result.Skipped, domain.SkippedParticipant{
				Row:    i + 1,
				Email:  email,
				Reason: "duplicate in batch",
			})
			continue
		}
		seen[email] = true

		participant := domain.Participant{
			ID:              uuid.NewString(),
			Name:            imp.Name,
			Email:           email,
			LumaID:          imp.LumaID,
			Role:            imp.Role,
			ParticipantType: imp.ParticipantType,
			Status:          domain.StatusRegistered,
		}
		if participant.Role == "" {
			participant.Role = domain.RoleParticipant
		}
		if participant.ParticipantType == "" {
			participant.ParticipantType = domain.ParticipantRegular
		}

		token, err := s.qrGen.Generate(participant.ID)
		if err != nil {
			return domain.ParticipantImportResult{}, fmt.Errorf("s.qrGen.Generate -> %w", err)
		}
		participant.QRToken = token

		accepted = append(accepted, participant)
	}

	if len(accepted) > 0 {
		if err = s.repo.CreateBatch(ctx, accepted); err != nil {
			return domain.ParticipantImportResult{}, fmt.Errorf("s.repo.CreateBatch -> %w", err)
		}
	}
	result.Imported = len(accepted)

	return result, nil
}

func (s *ParticipantService) GetParticipant(ctx context.Context, id string) (domain.Participant, error) {
	participant, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	return participant, nil
}

// Dashboard returns a participant's own view: profile plus every
// assigned credit in display order.
func (s *ParticipantService) Dashboard(ctx context.Context, participantID string) (domain.ParticipantDashboard, error) {
	participant, err := s.repo.GetByID(ctx, participantID)
	if err != nil {
		return domain.ParticipantDashboard{}, fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	credits, err := s.creditRepo.ListAssignedCredits(ctx, participantID)
	if err != nil {
		return domain.ParticipantDashboard{}, fmt.Errorf("s.creditRepo.ListAssignedCredits -> %w", err)
	}

	return domain.ParticipantDashboard{
		Participant: participant,
		Credits:     credits,
	}, nil
}

func (s *ParticipantService) ListParticipants(ctx context.Context, selector domain.RecipientSelector) ([]domain.Participant, error) {
	participants, err := s.repo.ListBySelector(ctx, selector)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListBySelector -> %w", err)
	}

	return participants, nil
}

func (s *ParticipantService) UpdateParticipant(ctx context.Context, participant domain.Participant) (domain.Participant, error) {
	existing, err := s.repo.GetByID(ctx, participant.ID)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	// Check-in state and credentials only move through their own flows.
	participant.Status = existing.Status
	participant.CheckedInAt = existing.CheckedInAt
	participant.CheckedInBy = existing.CheckedInBy
	participant.QRToken = existing.QRToken
	participant.Password = existing.Password
	participant.CreatedAt = existing.CreatedAt

	updated, err := s.repo.Update(ctx, participant)
	if err != nil {
		if errors.Is(err, repository.ErrParticipantEmailExists) {
			return domain.Participant{}, ErrParticipantEmailExists
		}

		return domain.Participant{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *ParticipantService) DeleteParticipant(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrParticipantNotFound) {
			return ErrParticipantNotFound
		}

		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
