package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCheckinTypeNotFound   = errors.New("checkin type not found")
	ErrCheckinTypeNameExists = errors.New("checkin type name already exists")
	ErrAlreadyCheckedIn      = errors.New("already checked in")
	ErrCheckinRecordNotFound = errors.New("checkin record not found")
)

type CheckinType struct {
	ID string `gorm:"primaryKey"`

	Name         string `gorm:"uniqueIndex;not null"`
	Category     string `gorm:"not null"`
	Description  string
	DisplayOrder int  `gorm:"not null;default:0;index"`
	IsActive     bool `gorm:"not null;default:true;index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (CheckinType) TableName() string {
	return "checkin_types"
}

// CheckinRecord marks one processed scan. The unique index on
// (checkin_type_id, participant_id) is the idempotency guard: under
// concurrent duplicate scans exactly one insert wins and the loser is
// reported as already checked in.
type CheckinRecord struct {
	ID string `gorm:"primaryKey"`

	CheckinTypeID string `gorm:"not null;uniqueIndex:ux_checkin_records_type_participant,priority:1"`
	ParticipantID string `gorm:"not null;uniqueIndex:ux_checkin_records_type_participant,priority:2;index"`
	CheckedInBy   string `gorm:"not null;index"`

	CheckedInAt time.Time `gorm:"not null;index"`
}

func (CheckinRecord) TableName() string {
	return "checkin_records"
}

// RecentScanRow is the joined shape behind an operator's activity feed.
type RecentScanRow struct {
	ParticipantID   string
	ParticipantName string
	ParticipantType string
	CheckinTypeID   string
	CheckinTypeName string
	CheckedInAt     time.Time
}

type CheckinDAO struct {
	db *gorm.DB
}

func NewCheckinDAO(db *gorm.DB) *CheckinDAO {
	return &CheckinDAO{
		db: db,
	}
}

func (d *CheckinDAO) InsertCheckinType(ctx context.Context, checkinType CheckinType) (CheckinType, error) {
	if checkinType.ID == "" {
		checkinType.ID = uuid.NewString()
	}

	result := d.db.WithContext(ctx).Create(&checkinType)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return CheckinType{}, ErrCheckinTypeNameExists
		}

		return CheckinType{}, result.Error
	}

	return checkinType, nil
}

func (d *CheckinDAO) UpdateCheckinType(ctx context.Context, checkinType CheckinType) (CheckinType, error) {
	result := d.db.WithContext(ctx).Save(&checkinType)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return CheckinType{}, ErrCheckinTypeNameExists
		}

		return CheckinType{}, result.Error
	}

	return checkinType, nil
}

func (d *CheckinDAO) FindCheckinTypeByID(ctx context.Context, id string) (CheckinType, error) {
	var checkinType CheckinType

	result := d.db.WithContext(ctx).First(&checkinType, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return CheckinType{}, ErrCheckinTypeNotFound
		}

		return CheckinType{}, result.Error
	}

	return checkinType, nil
}

func (d *CheckinDAO) ListCheckinTypes(ctx context.Context) ([]CheckinType, error) {
	var checkinTypes []CheckinType

	result := d.db.WithContext(ctx).Order("display_order ASC").Find(&checkinTypes)
	if result.Error != nil {
		return nil, result.Error
	}

	return checkinTypes, nil
}

func (d *CheckinDAO) ListActiveCheckinTypes(ctx context.Context) ([]CheckinType, error) {
	var checkinTypes []CheckinType

	result := d.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_order ASC").
		Find(&checkinTypes)
	if result.Error != nil {
		return nil, result.Error
	}

	return checkinTypes, nil
}

func (d *CheckinDAO) InsertRecord(ctx context.Context, record CheckinRecord) (CheckinRecord, error) {
	record, err := insertRecordTx(d.db.WithContext(ctx), record)
	if err != nil {
		return CheckinRecord{}, err
	}

	return record, nil
}

func insertRecordTx(tx *gorm.DB, record CheckinRecord) (CheckinRecord, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CheckedInAt.IsZero() {
		record.CheckedInAt = time.Now()
	}

	result := tx.Create(&record)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return CheckinRecord{}, ErrAlreadyCheckedIn
		}

		return CheckinRecord{}, result.Error
	}

	return record, nil
}

func (d *CheckinDAO) FindRecord(ctx context.Context, checkinTypeID, participantID string) (CheckinRecord, error) {
	var record CheckinRecord

	result := d.db.WithContext(ctx).
		First(&record, "checkin_type_id = ? AND participant_id = ?", checkinTypeID, participantID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return CheckinRecord{}, ErrCheckinRecordNotFound
		}

		return CheckinRecord{}, result.Error
	}

	return record, nil
}

func (d *CheckinDAO) ListRecordsByParticipant(ctx context.Context, participantID string) ([]CheckinRecord, error) {
	var records []CheckinRecord

	result := d.db.WithContext(ctx).
		Where("participant_id = ?", participantID).
		Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}

	return records, nil
}

func (d *CheckinDAO) RecentByActor(ctx context.Context, actorID string, limit int) ([]RecentScanRow, error) {
	var rows []RecentScanRow

	err := d.db.WithContext(ctx).
		Model(&CheckinRecord{}).
		Select(`checkin_records.participant_id,
			participants.name AS participant_name,
			participants.participant_type,
			checkin_records.checkin_type_id,
			checkin_types.name AS checkin_type_name,
			checkin_records.checked_in_at`).
		Joins("INNER JOIN participants ON participants.id = checkin_records.participant_id").
		Joins("INNER JOIN checkin_types ON checkin_types.id = checkin_records.checkin_type_id").
		Where("checkin_records.checked_in_by = ?", actorID).
		Order("checkin_records.checked_in_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}
