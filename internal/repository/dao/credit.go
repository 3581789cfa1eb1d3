package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCreditTypeNotFound         = errors.New("credit type not found")
	ErrCreditTypeNameExists       = errors.New("credit type name already exists")
	ErrCreditTypeHasAssignedCodes = errors.New("credit type has assigned codes")
	ErrCodeNotFound               = errors.New("code not found")
	ErrCodeNotOwned               = errors.New("code not assigned to this participant")
	ErrCodeAlreadyRedeemed        = errors.New("code already redeemed")
	ErrCodeNotAssigned            = errors.New("code is not assigned")
)

const (
	CodeStatusUnassigned = "unassigned"
	CodeStatusAssigned   = "assigned"
	CodeStatusRedeemed   = "redeemed"
)

type CreditType struct {
	ID string `gorm:"primaryKey"`

	Name              string `gorm:"uniqueIndex;not null"`
	DisplayName       string `gorm:"not null"`
	EmailInstructions string
	WebInstructions   string
	DisplayOrder      int    `gorm:"not null;default:0;index"`
	IconURL           string `gorm:"column:icon_url"`
	IsActive          bool   `gorm:"not null;default:true;index"`
	DistributionType  string `gorm:"not null;default:'unique'"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (CreditType) TableName() string {
	return "credit_types"
}

// Code is one unit of sponsor inventory. A universal credit type holds the
// same code value replicated across many rows, so there is deliberately no
// database-level uniqueness on (credit_type_id, code_value); the import
// path enforces it for unique-distribution pools instead.
type Code struct {
	ID string `gorm:"primaryKey"`

	CreditTypeID string `gorm:"not null;index:idx_codes_pool,priority:1"`
	CodeValue    string `gorm:"not null"`
	RedeemURL    string `gorm:"column:redeem_url"`
	Status       string `gorm:"not null;default:'unassigned';index:idx_codes_pool,priority:2"`

	AssignedTo *string `gorm:"index"`
	AssignedAt *time.Time
	RedeemedAt *time.Time

	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Code) TableName() string {
	return "codes"
}

// PoolCount aggregates one credit type's code inventory by status.
type PoolCount struct {
	CreditTypeID string
	Total        int64
	Remaining    int64
}

type CreditDAO struct {
	db *gorm.DB
}

func NewCreditDAO(db *gorm.DB) *CreditDAO {
	return &CreditDAO{
		db: db,
	}
}

func (d *CreditDAO) InsertCreditType(ctx context.Context, creditType CreditType) (CreditType, error) {
	if creditType.ID == "" {
		creditType.ID = uuid.NewString()
	}

	result := d.db.WithContext(ctx).Create(&creditType)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return CreditType{}, ErrCreditTypeNameExists
		}

		return CreditType{}, result.Error
	}

	return creditType, nil
}

func (d *CreditDAO) UpdateCreditType(ctx context.Context, creditType CreditType) (CreditType, error) {
	result := d.db.WithContext(ctx).Save(&creditType)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return CreditType{}, ErrCreditTypeNameExists
		}

		return CreditType{}, result.Error
	}

	return creditType, nil
}

func (d *CreditDAO) FindCreditTypeByID(ctx context.Context, id string) (CreditType, error) {
	var creditType CreditType

	result := d.db.WithContext(ctx).First(&creditType, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return CreditType{}, ErrCreditTypeNotFound
		}

		return CreditType{}, result.Error
	}

	return creditType, nil
}

func (d *CreditDAO) ListCreditTypes(ctx context.Context) ([]CreditType, error) {
	var creditTypes []CreditType

	result := d.db.WithContext(ctx).Order("display_order ASC").Find(&creditTypes)
	if result.Error != nil {
		return nil, result.Error
	}

	return creditTypes, nil
}

func (d *CreditDAO) ListActiveCreditTypes(ctx context.Context) ([]CreditType, error) {
	var creditTypes []CreditType

	result := d.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_order ASC").
		Find(&creditTypes)
	if result.Error != nil {
		return nil, result.Error
	}

	return creditTypes, nil
}

// DeleteCreditType removes a credit type and its pool. Deletion is refused
// while any code is assigned or redeemed; the outside world may already
// depend on those codes.
func (d *CreditDAO) DeleteCreditType(ctx context.Context, id string) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var assigned int64
		err := tx.Model(&Code{}).
			Where("credit_type_id = ? AND status <> ?", id, CodeStatusUnassigned).
			Count(&assigned).Error
		if err != nil {
			return err
		}
		if assigned > 0 {
			return ErrCreditTypeHasAssignedCodes
		}

		if err := tx.Delete(&Code{}, "credit_type_id = ?", id).Error; err != nil {
			return err
		}

		result := tx.Delete(&CreditType{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCreditTypeNotFound
		}

		return nil
	})
}

func (d *CreditDAO) InsertCodes(ctx context.Context, codes []Code) error {
	if len(codes) == 0 {
		return nil
	}

	for i := range codes {
		if codes[i].ID == "" {
			codes[i].ID = uuid.NewString()
		}
		if codes[i].Status == "" {
			codes[i].Status = CodeStatusUnassigned
		}
	}

	return d.db.WithContext(ctx).CreateInBatches(codes, 100).Error
}

// FindCodeValues returns which of the given values already exist in a
// credit type's pool, for import-time duplicate detection.
func (d *CreditDAO) FindCodeValues(ctx context.Context, creditTypeID string, values []string) ([]string, error) {
	var existing []string

	result := d.db.WithContext(ctx).
		Model(&Code{}).
		Where("credit_type_id = ? AND code_value IN ?", creditTypeID, values).
		Pluck("code_value", &existing)
	if result.Error != nil {
		return nil, result.Error
	}

	return existing, nil
}

func (d *CreditDAO) ListCodesAssignedTo(ctx context.Context, participantID string) ([]Code, error) {
	var codes []Code

	result := d.db.WithContext(ctx).
		Where("assigned_to = ?", participantID).
		Order("assigned_at ASC").
		Find(&codes)
	if result.Error != nil {
		return nil, result.Error
	}

	return codes, nil
}

func (d *CreditDAO) PoolCounts(ctx context.Context) ([]PoolCount, error) {
	var counts []PoolCount

	err := d.db.WithContext(ctx).
		Model(&Code{}).
		Select("credit_type_id, COUNT(*) AS total, SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS remaining", CodeStatusUnassigned).
		Group("credit_type_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	return counts, nil
}

// Unassign returns an assigned code to the pool. Redeemed codes are
// immutable; their assignment already happened in the outside world.
func (d *CreditDAO) Unassign(ctx context.Context, codeID string) (Code, error) {
	var code Code

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&code, "id = ?", codeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCodeNotFound
			}

			return err
		}

		if code.Status == CodeStatusRedeemed {
			return ErrCodeAlreadyRedeemed
		}

		// The status guard re-checks against the committed row once the
		// update takes the row lock, so a redeem landing after the read
		// above can never be reverted.
		result := tx.Model(&Code{}).
			Where("id = ? AND status <> ?", codeID, CodeStatusRedeemed).
			Updates(map[string]interface{}{
				"status":      CodeStatusUnassigned,
				"assigned_to": nil,
				"assigned_at": nil,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCodeAlreadyRedeemed
		}

		code.Status = CodeStatusUnassigned
		code.AssignedTo = nil
		code.AssignedAt = nil

		return nil
	})
	if err != nil {
		return Code{}, err
	}

	return code, nil
}

// MarkRedeemed toggles the self-reported redemption flag. Only the
// assigned recipient may flip their own code; there is no server-side
// verification of actual redemption.
func (d *CreditDAO) MarkRedeemed(ctx context.Context, codeID, participantID string, redeemed bool) (Code, error) {
	var code Code

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&code, "id = ?", codeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCodeNotFound
			}

			return err
		}

		if code.AssignedTo == nil || *code.AssignedTo != participantID {
			return ErrCodeNotOwned
		}

		if code.Status == CodeStatusUnassigned {
			return ErrCodeNotAssigned
		}

		updates := map[string]interface{}{
			"status":      CodeStatusAssigned,
			"redeemed_at": nil,
		}
		if redeemed {
			now := time.Now()
			updates["status"] = CodeStatusRedeemed
			updates["redeemed_at"] = now
			code.RedeemedAt = &now
			code.Status = CodeStatusRedeemed
		} else {
			code.RedeemedAt = nil
			code.Status = CodeStatusAssigned
		}

		// Ownership is re-checked by the update predicate against the
		// committed row, so a concurrent unassign cannot leave a redeemed
		// code without an owner.
		result := tx.Model(&Code{}).
			Where("id = ? AND assigned_to = ? AND status <> ?", codeID, participantID, CodeStatusUnassigned).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCodeNotAssigned
		}

		return nil
	})
	if err != nil {
		return Code{}, err
	}

	return code, nil
}
