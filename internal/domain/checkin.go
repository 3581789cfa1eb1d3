package domain

import "time"

type CheckinCategory string

const (
	CategoryAttendance CheckinCategory = "attendance"
	CategoryMeal       CheckinCategory = "meal"
)

type CheckinType struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Category     CheckinCategory `json:"category"`
	Description  string          `json:"description,omitempty"`
	DisplayOrder int             `json:"display_order"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type CheckinRecord struct {
	ID            string    `json:"id"`
	CheckinTypeID string    `json:"checkin_type_id"`
	ParticipantID string    `json:"participant_id"`
	CheckedInBy   string    `json:"checked_in_by"`
	CheckedInAt   time.Time `json:"checked_in_at"`
}

// CheckinResult is the outcome of a successfully processed scan.
// ExhaustedCreditTypes names the active credit types whose pools were
// empty during best-effort bonus assignment so operators can tell an
// empty pool apart from any other failure.
type CheckinResult struct {
	Participant          Participant      `json:"participant"`
	AssignedCredits      []AssignedCredit `json:"assigned_credits"`
	ExhaustedCreditTypes []string         `json:"exhausted_credit_types,omitempty"`
	IsVIP                bool             `json:"is_vip"`
	IsFirstAttendance    bool             `json:"is_first_attendance"`
	NotifyWarning        string           `json:"notify_warning,omitempty"`
}

// CheckinStatus reports, for one active check-in type, whether the
// participant has a record and when it was made.
type CheckinStatus struct {
	CheckinTypeID   string     `json:"checkin_type_id"`
	CheckinTypeName string     `json:"checkin_type_name"`
	CheckedInAt     *time.Time `json:"checked_in_at,omitempty"`
}

type GuestStatus struct {
	Participant Participant     `json:"participant"`
	Statuses    []CheckinStatus `json:"checkin_statuses"`
}

// RecentScan is one entry in an operator's recent activity feed.
type RecentScan struct {
	ParticipantID   string    `json:"participant_id"`
	ParticipantName string    `json:"participant_name"`
	ParticipantType string    `json:"participant_type"`
	CheckinTypeID   string    `json:"checkin_type_id"`
	CheckinTypeName string    `json:"checkin_type_name"`
	CheckedInAt     time.Time `json:"checked_in_at"`
}
