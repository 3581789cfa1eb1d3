package response

import (
	"time"

	"github.com/pebble-tech/cursor-my-hackathon/internal/domain"
)

// AlreadyCheckedIn is the 409 payload for a duplicate scan: the station
// shows who the badge belongs to and when the original check-in was.
type AlreadyCheckedIn struct {
	Error       string             `json:"error"`
	Participant domain.Participant `json:"participant"`
	CheckedInAt time.Time          `json:"checked_in_at"`
}

// GiveawayExhausted is the 409 payload for a giveaway aborted on an
// empty pool.
type GiveawayExhausted struct {
	Error            string `json:"error"`
	CreditTypeID     string `json:"credit_type_id"`
	ServedRecipients int    `json:"served_recipients"`
}
