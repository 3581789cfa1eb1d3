package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrPoolExhausted means no unassigned code was claimable for a credit
// type at claim time. Expected during normal operation, not exceptional.
var ErrPoolExhausted = errors.New("code pool exhausted")

// ExhaustionError aborts a strict batch claim. ServedRecipients counts how
// many recipients would have been fully served before the pool ran dry,
// so the operator can be told "only N of M were available".
type ExhaustionError struct {
	CreditTypeID     string
	ServedRecipients int
}

func (e *ExhaustionError) Error() string {
	return fmt.Sprintf("code pool exhausted for credit type %v after %v fully served recipients", e.CreditTypeID, e.ServedRecipients)
}

func (e *ExhaustionError) Unwrap() error {
	return ErrPoolExhausted
}

// ClaimedCredit pairs a claimed code with its credit type row.
type ClaimedCredit struct {
	CreditType CreditType
	Code       Code
}

// BatchClaim is one (recipient, credit type, code) outcome of a giveaway.
type BatchClaim struct {
	RecipientID  string
	CreditTypeID string
	Code         Code
}

type FirstAttendanceParams struct {
	ParticipantID string
	CheckinTypeID string
	ActorID       string
	AssignCredits bool
}

type FirstAttendanceResult struct {
	Assigned []ClaimedCredit
	// Exhausted lists the names of active credit types whose pools were
	// empty; the check-in itself still succeeds.
	Exhausted []string
	Record    CheckinRecord
}

// AssignmentDAO owns every transition of a Code out of the unassigned
// pool. No other component mutates code rows.
type AssignmentDAO struct {
	db *gorm.DB
}

func NewAssignmentDAO(db *gorm.DB) *AssignmentDAO {
	return &AssignmentDAO{
		db: db,
	}
}

// claimOneTx selects one unassigned code with FOR UPDATE SKIP LOCKED and
// flips it to assigned within the caller's transaction. Concurrent
// claimants never block each other: rows locked by another transaction
// are skipped, so racing claims each grab a different row or observe an
// empty pool.
func claimOneTx(tx *gorm.DB, creditTypeID, recipientID string) (Code, error) {
	var code Code

	err := tx.
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("credit_type_id = ? AND status = ?", creditTypeID, CodeStatusUnassigned).
		Order("created_at ASC").
		Take(&code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Code{}, ErrPoolExhausted
		}

		return Code{}, err
	}

	now := time.Now()
	err = tx.Model(&Code{}).
		Where("id = ?", code.ID).
		Updates(map[string]interface{}{
			"status":      CodeStatusAssigned,
			"assigned_to": recipientID,
			"assigned_at": now,
		}).Error
	if err != nil {
		return Code{}, err
	}

	code.Status = CodeStatusAssigned
	code.AssignedTo = &recipientID
	code.AssignedAt = &now

	return code, nil
}

// ClaimOne atomically assigns one code from a credit type's pool to the
// recipient. The row selection and the status flip commit together; a
// failed claim leaves no trace.
func (d *AssignmentDAO) ClaimOne(ctx context.Context, creditTypeID, recipientID string) (Code, error) {
	var code Code

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		code, txErr = claimOneTx(tx, creditTypeID, recipientID)
		return txErr
	})
	if err != nil {
		return Code{}, err
	}

	return code, nil
}

// ClaimBatch assigns one code per (recipient, credit type) pair inside a
// single transaction. Recipients are served in list order; if any pool
// runs dry mid-batch the whole transaction rolls back and an
// ExhaustionError reports how many recipients were fully served.
// Giveaways are rare admin-triggered events, so holding the locks for the
// whole batch is acceptable.
func (d *AssignmentDAO) ClaimBatch(ctx context.Context, creditTypeIDs, recipientIDs []string) ([]BatchClaim, error) {
	var claims []BatchClaim

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, recipientID := range recipientIDs {
			for _, creditTypeID := range creditTypeIDs {
				code, err := claimOneTx(tx, creditTypeID, recipientID)
				if err != nil {
					if errors.Is(err, ErrPoolExhausted) {
						return &ExhaustionError{
							CreditTypeID:     creditTypeID,
							ServedRecipients: i,
						}
					}

					return err
				}

				claims = append(claims, BatchClaim{
					RecipientID:  recipientID,
					CreditTypeID: creditTypeID,
					Code:         code,
				})
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return claims, nil
}

// FirstAttendance performs the first-attendance check-in as one atomic
// unit: best-effort bonus claims across every active credit type, the
// participant status flip, and the check-in record insert. If the record
// insert loses the idempotency race, everything rolls back and a retry
// scan is safe. Exhausted pools are skipped, never failing the check-in
// on an unrelated sponsor's empty inventory.
func (d *AssignmentDAO) FirstAttendance(ctx context.Context, params FirstAttendanceParams) (FirstAttendanceResult, error) {
	var result FirstAttendanceResult

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if params.AssignCredits {
			var creditTypes []CreditType
			err := tx.
				Where("is_active = ?", true).
				Order("display_order ASC").
				Find(&creditTypes).Error
			if err != nil {
				return err
			}

			for _, creditType := range creditTypes {
				code, err := claimOneTx(tx, creditType.ID, params.ParticipantID)
				if err != nil {
					if errors.Is(err, ErrPoolExhausted) {
						result.Exhausted = append(result.Exhausted, creditType.Name)
						continue
					}

					return err
				}

				result.Assigned = append(result.Assigned, ClaimedCredit{
					CreditType: creditType,
					Code:       code,
				})
			}
		}

		now := time.Now()
		err := tx.Model(&Participant{}).
			Where("id = ?", params.ParticipantID).
			Updates(map[string]interface{}{
				"status":        "checked_in",
				"checked_in_at": now,
				"checked_in_by": params.ActorID,
			}).Error
		if err != nil {
			return err
		}

		record, err := insertRecordTx(tx, CheckinRecord{
			CheckinTypeID: params.CheckinTypeID,
			ParticipantID: params.ParticipantID,
			CheckedInBy:   params.ActorID,
		})
		if err != nil {
			return err
		}
		result.Record = record

		return nil
	})
	if err != nil {
		return FirstAttendanceResult{}, err
	}

	return result, nil
}
