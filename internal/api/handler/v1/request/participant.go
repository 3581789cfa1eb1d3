package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type CreateParticipantRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	LumaID          string `json:"luma_id"`
	Role            string `json:"role"`
	ParticipantType string `json:"participant_type"`
	Password        string `json:"password"`
}

func (req *CreateParticipantRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Role, validation.In("participant", "ops", "admin")),
		validation.Field(&req.ParticipantType, validation.In("regular", "vip")),
	)
}

type ParticipantImportRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	LumaID          string `json:"luma_id"`
	Role            string `json:"role"`
	ParticipantType string `json:"participant_type"`
}

type ImportParticipantsRequest struct {
	Participants []ParticipantImportRequest `json:"participants"`
}

func (req *ImportParticipantsRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Participants, validation.Required, validation.Length(1, 5000)),
	)
}

type UpdateParticipantRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	LumaID          string `json:"luma_id"`
	Role            string `json:"role"`
	ParticipantType string `json:"participant_type"`
}

func (req *UpdateParticipantRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Role, validation.In("participant", "ops", "admin")),
		validation.Field(&req.ParticipantType, validation.In("regular", "vip")),
	)
}
