package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CheckinRequest struct {
	QRToken       string `json:"qr_token"`
	CheckinTypeID string `json:"checkin_type_id"`
}

func (req *CheckinRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.QRToken, validation.Required),
		validation.Field(&req.CheckinTypeID, validation.Required),
	)
}

type GuestStatusRequest struct {
	QRToken string `json:"qr_token"`
}

func (req *GuestStatusRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.QRToken, validation.Required),
	)
}

type CheckinTypeRequest struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order"`
	IsActive     *bool  `json:"is_active"`
}

func (req *CheckinTypeRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Category, validation.Required, validation.In("attendance", "meal")),
		validation.Field(&req.Description, validation.Length(0, 500)),
		validation.Field(&req.DisplayOrder, validation.Min(0)),
	)
}
