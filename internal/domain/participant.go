package domain

import "time"

type Role string

const (
	RoleParticipant Role = "participant"
	RoleOps         Role = "ops"
	RoleAdmin       Role = "admin"
)

type ParticipantType string

const (
	ParticipantRegular ParticipantType = "regular"
	ParticipantVIP     ParticipantType = "vip"
)

type ParticipantStatus string

const (
	StatusRegistered ParticipantStatus = "registered"
	StatusCheckedIn  ParticipantStatus = "checked_in"
)

type Participant struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Email           string            `json:"email"`
	Password        string            `json:"-"`
	Role            Role              `json:"role"`
	ParticipantType ParticipantType   `json:"participant_type"`
	Status          ParticipantStatus `json:"status"`
	QRToken         string            `json:"qr_token,omitempty"`
	LumaID          string            `json:"luma_id,omitempty"`
	CheckedInAt     *time.Time        `json:"checked_in_at,omitempty"`
	CheckedInBy     string            `json:"checked_in_by,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// IsVIP reports whether the participant is exempt from automatic
// credit assignment.
func (p Participant) IsVIP() bool {
	return p.ParticipantType == ParticipantVIP
}

// RecipientSelector narrows the set of participants targeted by a bulk
// giveaway. Zero-valued fields match everything.
type RecipientSelector struct {
	Role            Role              `json:"role,omitempty"`
	ParticipantType ParticipantType   `json:"participant_type,omitempty"`
	Status          ParticipantStatus `json:"status,omitempty"`
}

type ParticipantImport struct {
	Name            string
	Email           string
	LumaID          string
	Role            Role
	ParticipantType ParticipantType
}

type SkippedParticipant struct {
	Row    int    `json:"row"`
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

// ParticipantDashboard is what a participant sees after check-in: their
// own record plus every credit assigned to them, in display order.
type ParticipantDashboard struct {
	Participant Participant      `json:"participant"`
	Credits     []AssignedCredit `json:"credits"`
}

type ParticipantImportResult struct {
	Imported int                  `json:"imported"`
	Skipped  []SkippedParticipant `json:"skipped"`
}
