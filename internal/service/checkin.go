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
	ErrInvalidQRToken        = errors.New("invalid qr token")
	ErrCheckinTypeNotFound   = repository.ErrCheckinTypeNotFound
	ErrCheckinTypeNameExists = repository.ErrCheckinTypeNameExists
	ErrCheckinTypeInactive   = errors.New("checkin type is not active")
	ErrAlreadyCheckedIn      = repository.ErrAlreadyCheckedIn
)

// AlreadyCheckedInError reports a duplicate scan together with who the
// participant is and when the original check-in happened, so the station
// can show a meaningful message instead of a bare failure.
type AlreadyCheckedInError struct {
	Participant domain.Participant
	CheckedInAt time.Time
}

func (e *AlreadyCheckedInError) Error() string {
	return fmt.Sprintf("participant %v already checked in at %v", e.Participant.ID, e.CheckedInAt.Format(time.RFC3339))
}

func (e *AlreadyCheckedInError) Unwrap() error {
	return ErrAlreadyCheckedIn
}

// QRVerifier validates a scanned badge token and returns the participant
// id it was issued for.
type QRVerifier interface {
	Verify(token string) (string, error)
}

type CheckinRepository interface {
	CreateCheckinType(ctx context.Context, checkinType domain.CheckinType) (domain.CheckinType, error)
	UpdateCheckinType(ctx context.Context, checkinType domain.CheckinType) (domain.CheckinType, error)
	GetCheckinTypeByID(ctx context.Context, id string) (domain.CheckinType, error)
	ListCheckinTypes(ctx context.Context) ([]domain.CheckinType, error)
	ListActiveCheckinTypes(ctx context.Context) ([]domain.CheckinType, error)
	CreateRecord(ctx context.Context, record domain.CheckinRecord) (domain.CheckinRecord, error)
	GetRecord(ctx context.Context, checkinTypeID, participantID string) (domain.CheckinRecord, error)
	ListRecordsByParticipant(ctx context.Context, participantID string) ([]domain.CheckinRecord, error)
	RecentByActor(ctx context.Context, actorID string, limit int) ([]domain.RecentScan, error)
}

type CheckinParticipantRepository interface {
	GetByID(ctx context.Context, id string) (domain.Participant, error)
}

type CheckinAssignmentRepository interface {
	FirstAttendance(ctx context.Context, participantID, checkinTypeID, actorID string, assignCredits bool) (repository.FirstAttendanceOutcome, error)
}

type CheckinService struct {
	repo            CheckinRepository
	participantRepo CheckinParticipantRepository
	assignmentRepo  CheckinAssignmentRepository
	verifier        QRVerifier
	notifier        Notifier
}

func NewCheckinService(
	repo CheckinRepository,
	participantRepo CheckinParticipantRepository,
	assignmentRepo CheckinAssignmentRepository,
	verifier QRVerifier,
	notifier Notifier,
) *CheckinService {
	return &CheckinService{
		repo:            repo,
		participantRepo: participantRepo,
		assignmentRepo:  assignmentRepo,
		verifier:        verifier,
		notifier:        notifier,
	}
}

// ProcessCheckin handles one badge scan end to end: verify the QR,
// resolve participant and check-in type, then record the check-in. The
// first attendance scan also flips the participant to checked-in and
// hands out one code per active credit type, all inside one transaction;
// VIPs get the status flip without codes. Duplicate scans, concurrent or
// not, surface as AlreadyCheckedInError carrying the original timestamp.
func (s *CheckinService) ProcessCheckin(ctx context.Context, qrToken, checkinTypeID, actorID string) (domain.CheckinResult, error) {
	start := time.Now()

	result, err := s.processCheckin(ctx, qrToken, checkinTypeID, actorID)
	switch {
	case err == nil:
		metrics.RecordCheckinDuration("success", time.Since(start).Seconds())
	case errors.Is(err, ErrAlreadyCheckedIn):
		metrics.RecordCheckinDuration("already_checked_in", time.Since(start).Seconds())
	default:
		metrics.RecordCheckinDuration("error", time.Since(start).Seconds())
	}

	return result, err
}

func (s *CheckinService) processCheckin(ctx context.Context, qrToken, checkinTypeID, actorID string) (domain.CheckinResult, error) {
	participantID, err := s.verifier.Verify(qrToken)
	if err != nil {
		return domain.CheckinResult{}, ErrInvalidQRToken
	}

	participant, err := s.participantRepo.GetByID(ctx, participantID)
	if err != nil {
		return domain.CheckinResult{}, fmt.Errorf("s.participantRepo.GetByID -> %w", err)
	}

	checkinType, err := s.repo.GetCheckinTypeByID(ctx, checkinTypeID)
	if err != nil {
		return domain.CheckinResult{}, fmt.Errorf("s.repo.GetCheckinTypeByID -> %w", err)
	}
	if !checkinType.IsActive {
		return domain.CheckinResult{}, ErrCheckinTypeInactive
	}

	// Fast path for duplicates; the unique constraint below remains the
	// authoritative guard under concurrency.
	if existing, err := s.repo.GetRecord(ctx, checkinTypeID, participantID); err == nil {
		return domain.CheckinResult{}, &AlreadyCheckedInError{
			Participant: participant,
			CheckedInAt: existing.CheckedInAt,
		}
	} else if !errors.Is(err, repository.ErrCheckinRecordNotFound) {
		return domain.CheckinResult{}, fmt.Errorf("s.repo.GetRecord -> %w", err)
	}

	isFirstAttendance := checkinType.Category == domain.CategoryAttendance &&
		participant.Status == domain.StatusRegistered

	result := domain.CheckinResult{
		IsVIP:             participant.IsVIP(),
		IsFirstAttendance: isFirstAttendance,
	}

	if isFirstAttendance {
		outcome, err := s.assignmentRepo.FirstAttendance(ctx, participantID, checkinTypeID, actorID, !participant.IsVIP())
		if err != nil {
			if errors.Is(err, repository.ErrAlreadyCheckedIn) {
				return domain.CheckinResult{}, s.lostIdempotencyRace(ctx, checkinTypeID, participant)
			}

			return domain.CheckinResult{}, fmt.Errorf("s.assignmentRepo.FirstAttendance -> %w", err)
		}

		now := outcome.Record.CheckedInAt
		participant.Status = domain.StatusCheckedIn
		participant.CheckedInAt = &now
		participant.CheckedInBy = actorID

		result.AssignedCredits = outcome.Assigned
		result.ExhaustedCreditTypes = outcome.Exhausted
		for _, name := range outcome.Exhausted {
			metrics.RecordPoolExhausted(name)
		}
	} else {
		_, err = s.repo.CreateRecord(ctx, domain.CheckinRecord{
			CheckinTypeID: checkinTypeID,
			ParticipantID: participantID,
			CheckedInBy:   actorID,
		})
		if err != nil {
			if errors.Is(err, repository.ErrAlreadyCheckedIn) {
				return domain.CheckinResult{}, s.lostIdempotencyRace(ctx, checkinTypeID, participant)
			}

			return domain.CheckinResult{}, fmt.Errorf("s.repo.CreateRecord -> %w", err)
		}
	}

	result.Participant = participant

	if len(result.AssignedCredits) > 0 {
		if err = s.notifier.CheckinConfirmation(ctx, participant, result.AssignedCredits); err != nil {
			result.NotifyWarning = "confirmation notification failed to send"
			zap.L().Warn("check-in notification failed",
				zap.String("participant_id", participantID),
				zap.Error(err),
			)
		}
	}

	return result, nil
}

// lostIdempotencyRace builds the duplicate-scan error after a concurrent
// scan won the insert. The winner's record supplies the timestamp.
func (s *CheckinService) lostIdempotencyRace(ctx context.Context, checkinTypeID string, participant domain.Participant) error {
	record, err := s.repo.GetRecord(ctx, checkinTypeID, participant.ID)
	if err != nil {
		return fmt.Errorf("s.repo.GetRecord -> %w", err)
	}

	return &AlreadyCheckedInError{
		Participant: participant,
		CheckedInAt: record.CheckedInAt,
	}
}

// GuestStatus verifies a badge and reports, per active check-in type,
// whether the participant has checked in yet.
func (s *CheckinService) GuestStatus(ctx context.Context, qrToken string) (domain.GuestStatus, error) {
	participantID, err := s.verifier.Verify(qrToken)
	if err != nil {
		return domain.GuestStatus{}, ErrInvalidQRToken
	}

	participant, err := s.participantRepo.GetByID(ctx, participantID)
	if err != nil {
		return domain.GuestStatus{}, fmt.Errorf("s.participantRepo.GetByID -> %w", err)
	}

	checkinTypes, err := s.repo.ListActiveCheckinTypes(ctx)
	if err != nil {
		return domain.GuestStatus{}, fmt.Errorf("s.repo.ListActiveCheckinTypes -> %w", err)
	}

	records, err := s.repo.ListRecordsByParticipant(ctx, participantID)
	if err != nil {
		return domain.GuestStatus{}, fmt.Errorf("s.repo.ListRecordsByParticipant -> %w", err)
	}

	byType := make(map[string]domain.CheckinRecord, len(records))
	for _, record := range records {
		byType[record.CheckinTypeID] = record
	}

	statuses := make([]domain.CheckinStatus, len(checkinTypes))
	for i, checkinType := range checkinTypes {
		status := domain.CheckinStatus{
			CheckinTypeID:   checkinType.ID,
			CheckinTypeName: checkinType.Name,
		}

		if record, ok := byType[checkinType.ID]; ok {
			checkedInAt := record.CheckedInAt
			status.CheckedInAt = &checkedInAt
		}

		statuses[i] = status
	}

	return domain.GuestStatus{
		Participant: participant,
		Statuses:    statuses,
	}, nil
}

func (s *CheckinService) RecentScans(ctx context.Context, actorID string, limit int) ([]domain.RecentScan, error) {
	scans, err := s.repo.RecentByActor(ctx, actorID, limit)
	if err != nil {
		return nil, fmt.Errorf("s.repo.RecentByActor -> %w", err)
	}

	return scans, nil
}

func (s *CheckinService) CreateCheckinType(ctx context.Context, checkinType domain.CheckinType) (domain.CheckinType, error) {
	created, err := s.repo.CreateCheckinType(ctx, checkinType)
	if err != nil {
		if errors.Is(err, repository.ErrCheckinTypeNameExists) {
			return domain.CheckinType{}, ErrCheckinTypeNameExists
		}

		return domain.CheckinType{}, fmt.Errorf("s.repo.CreateCheckinType -> %w", err)
	}

	return created, nil
}

func (s *CheckinService) UpdateCheckinType(ctx context.Context, checkinType domain.CheckinType) (domain.CheckinType, error) {
	existing, err := s.repo.GetCheckinTypeByID(ctx, checkinType.ID)
	if err != nil {
		return domain.CheckinType{}, fmt.Errorf("s.repo.GetCheckinTypeByID -> %w", err)
	}
	checkinType.CreatedAt = existing.CreatedAt

	updated, err := s.repo.UpdateCheckinType(ctx, checkinType)
	if err != nil {
		if errors.Is(err, repository.ErrCheckinTypeNameExists) {
			return domain.CheckinType{}, ErrCheckinTypeNameExists
		}

		return domain.CheckinType{}, fmt.Errorf("s.repo.UpdateCheckinType -> %w", err)
	}

	return updated, nil
}

func (s *CheckinService) ListCheckinTypes(ctx context.Context) ([]domain.CheckinType, error) {
	checkinTypes, err := s.repo.ListCheckinTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListCheckinTypes -> %w", err)
	}

	return checkinTypes, nil
}
