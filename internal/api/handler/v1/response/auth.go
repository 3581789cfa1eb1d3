package response

import "github.com/pebble-tech/cursor-my-hackathon/internal/domain"

type LoginResponse struct {
	Token string             `json:"token"`
	User  domain.Participant `json:"user"`
}
