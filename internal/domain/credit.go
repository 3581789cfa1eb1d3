package domain

import "time"

// CodeStatus is the closed set of states a pool code moves through.
// A code is created Unassigned, flipped to Assigned exactly once by the
// assignment engine, and may end up Redeemed by the owning recipient.
type CodeStatus string

const (
	CodeUnassigned CodeStatus = "unassigned"
	CodeAssigned   CodeStatus = "assigned"
	CodeRedeemed   CodeStatus = "redeemed"
)

type DistributionType string

const (
	// DistributionUnique hands out a distinct code value per recipient.
	DistributionUnique DistributionType = "unique"
	// DistributionUniversal replicates one shared code value into N pool
	// rows so the ordinary claim path serves every recipient.
	DistributionUniversal DistributionType = "universal"
)

type CreditType struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	DisplayName       string           `json:"display_name"`
	EmailInstructions string           `json:"email_instructions,omitempty"`
	WebInstructions   string           `json:"web_instructions,omitempty"`
	DisplayOrder      int              `json:"display_order"`
	IconURL           string           `json:"icon_url,omitempty"`
	IsActive          bool             `json:"is_active"`
	DistributionType  DistributionType `json:"distribution_type"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

type Code struct {
	ID           string     `json:"id"`
	CreditTypeID string     `json:"credit_type_id"`
	CodeValue    string     `json:"code_value"`
	RedeemURL    string     `json:"redeem_url,omitempty"`
	Status       CodeStatus `json:"status"`
	AssignedTo   string     `json:"assigned_to,omitempty"`
	AssignedAt   *time.Time `json:"assigned_at,omitempty"`
	RedeemedAt   *time.Time `json:"redeemed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// AssignedCredit pairs a claimed code with the credit type it was drawn
// from, as handed to recipients and notification templates.
type AssignedCredit struct {
	CreditType CreditType `json:"credit_type"`
	Code       Code       `json:"code"`
}

// PoolStats summarizes one credit type's inventory.
type PoolStats struct {
	Total     int64 `json:"total"`
	Assigned  int64 `json:"assigned"`
	Remaining int64 `json:"remaining"`
}

// CreditTypeOverview is the admin listing row: a credit type together
// with its pool inventory.
type CreditTypeOverview struct {
	CreditType CreditType `json:"credit_type"`
	Stats      PoolStats  `json:"stats"`
}

type CodeImport struct {
	CodeValue string `json:"code_value"`
	RedeemURL string `json:"redeem_url,omitempty"`
}

type SkippedCode struct {
	CodeValue string `json:"code_value"`
	Reason    string `json:"reason"`
}

type CodeImportResult struct {
	Imported int           `json:"imported"`
	Skipped  []SkippedCode `json:"skipped"`
}

// GiveawayAssignment records one (recipient, credit type, code) outcome
// inside a bulk giveaway.
type GiveawayAssignment struct {
	RecipientID  string `json:"recipient_id"`
	CreditTypeID string `json:"credit_type_id"`
	Code         Code   `json:"code"`
}

type GiveawayResult struct {
	AssignedCount int                  `json:"assigned_count"`
	Assignments   []GiveawayAssignment `json:"assignments"`
	NotifyWarning string               `json:"notify_warning,omitempty"`
}
