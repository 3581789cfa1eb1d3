package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrParticipantNotFound    = errors.New("participant not found")
	ErrParticipantEmailExists = errors.New("participant email already registered")
)

type Participant struct {
	ID string `gorm:"primaryKey"`

	Name     string `gorm:"not null"`
	Email    string `gorm:"uniqueIndex;not null"`
	Password string

	Role            string `gorm:"not null;default:'participant'"`
	ParticipantType string `gorm:"not null;default:'regular'"`
	Status          string `gorm:"not null;default:'registered'"`

	QRToken string `gorm:"column:qr_token"`
	LumaID  string

	CheckedInAt *time.Time
	CheckedInBy string

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Participant) TableName() string {
	return "participants"
}

type ParticipantDAO struct {
	db *gorm.DB
}

func NewParticipantDAO(db *gorm.DB) *ParticipantDAO {
	return &ParticipantDAO{
		db: db,
	}
}

func (d *ParticipantDAO) Insert(ctx context.Context, participant Participant) (Participant, error) {
	if participant.ID == "" {
		participant.ID = uuid.NewString()
	}

	result := d.db.WithContext(ctx).Create(&participant)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return Participant{}, ErrParticipantEmailExists
		}

		return Participant{}, result.Error
	}

	return participant, nil
}

// InsertBatch inserts participants in chunks. Callers are expected to have
// deduplicated the batch already.
func (d *ParticipantDAO) InsertBatch(ctx context.Context, participants []Participant) error {
	if len(participants) == 0 {
		return nil
	}

	for i := range participants {
		if participants[i].ID == "" {
			participants[i].ID = uuid.NewString()
		}
	}

	result := d.db.WithContext(ctx).CreateInBatches(participants, 100)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return ErrParticipantEmailExists
		}

		return result.Error
	}

	return nil
}

func (d *ParticipantDAO) FindByID(ctx context.Context, id string) (Participant, error) {
	var participant Participant

	result := d.db.WithContext(ctx).First(&participant, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Participant{}, ErrParticipantNotFound
		}

		return Participant{}, result.Error
	}

	return participant, nil
}

func (d *ParticipantDAO) FindByEmail(ctx context.Context, email string) (Participant, error) {
	var participant Participant

	result := d.db.WithContext(ctx).First(&participant, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Participant{}, ErrParticipantNotFound
		}

		return Participant{}, result.Error
	}

	return participant, nil
}

func (d *ParticipantDAO) FindEmails(ctx context.Context, emails []string) ([]string, error) {
	var existing []string

	result := d.db.WithContext(ctx).
		Model(&Participant{}).
		Where("email IN ?", emails).
		Pluck("email", &existing)
	if result.Error != nil {
		return nil, result.Error
	}

	return existing, nil
}

// FindBySelector returns participants matching the non-empty filter fields,
// in insertion order so giveaway batches iterate deterministically.
func (d *ParticipantDAO) FindBySelector(ctx context.Context, role, participantType, status string) ([]Participant, error) {
	query := d.db.WithContext(ctx).Model(&Participant{})

	if role != "" {
		query = query.Where("role = ?", role)
	}
	if participantType != "" {
		query = query.Where("participant_type = ?", participantType)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var participants []Participant
	result := query.Order("created_at ASC, id ASC").Find(&participants)
	if result.Error != nil {
		return nil, result.Error
	}

	return participants, nil
}

func (d *ParticipantDAO) Update(ctx context.Context, participant Participant) (Participant, error) {
	result := d.db.WithContext(ctx).Save(&participant)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return Participant{}, ErrParticipantEmailExists
		}

		return Participant{}, result.Error
	}

	return participant, nil
}

func (d *ParticipantDAO) Delete(ctx context.Context, id string) error {
	result := d.db.WithContext(ctx).Delete(&Participant{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrParticipantNotFound
	}

	return nil
}
