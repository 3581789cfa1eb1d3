package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type CreateCreditTypeRequest struct {
	Name              string `json:"name"`
	DisplayName       string `json:"display_name"`
	EmailInstructions string `json:"email_instructions"`
	WebInstructions   string `json:"web_instructions"`
	DisplayOrder      int    `json:"display_order"`
	IconURL           string `json:"icon_url"`
	DistributionType  string `json:"distribution_type"`

	// Universal distribution only.
	UniversalCode      string `json:"universal_code"`
	UniversalRedeemURL string `json:"universal_redeem_url"`
	UniversalQuantity  int    `json:"universal_quantity"`
}

func (req *CreateCreditTypeRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.DisplayName, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.DisplayOrder, validation.Min(0)),
		validation.Field(&req.IconURL, is.URL),
		validation.Field(&req.DistributionType, validation.In("unique", "universal")),
		validation.Field(&req.UniversalQuantity, validation.Min(0)),
	)
}

type UpdateCreditTypeRequest struct {
	Name              string `json:"name"`
	DisplayName       string `json:"display_name"`
	EmailInstructions string `json:"email_instructions"`
	WebInstructions   string `json:"web_instructions"`
	DisplayOrder      int    `json:"display_order"`
	IconURL           string `json:"icon_url"`
	IsActive          *bool  `json:"is_active"`
}

func (req *UpdateCreditTypeRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.DisplayName, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.DisplayOrder, validation.Min(0)),
		validation.Field(&req.IconURL, is.URL),
	)
}

type CodeImportRequest struct {
	CodeValue string `json:"code_value"`
	RedeemURL string `json:"redeem_url"`
}

type ImportCodesRequest struct {
	Codes []CodeImportRequest `json:"codes"`
}

func (req *ImportCodesRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Codes, validation.Required, validation.Length(1, 10000)),
	)
}

type GiveawayRequest struct {
	CreditTypeIDs   []string `json:"credit_type_ids"`
	Role            string   `json:"role"`
	ParticipantType string   `json:"participant_type"`
	Status          string   `json:"status"`
}

func (req *GiveawayRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.CreditTypeIDs, validation.Required, validation.Length(1, 20)),
		validation.Field(&req.Role, validation.In("participant", "ops", "admin")),
		validation.Field(&req.ParticipantType, validation.In("regular", "vip")),
		validation.Field(&req.Status, validation.In("registered", "checked_in")),
	)
}

type AdHocAssignRequest struct {
	RecipientID  string `json:"recipient_id"`
	CreditTypeID string `json:"credit_type_id"`
}

func (req *AdHocAssignRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.RecipientID, validation.Required),
		validation.Field(&req.CreditTypeID, validation.Required),
	)
}

type MarkRedeemedRequest struct {
	QRToken  string `json:"qr_token"`
	Redeemed *bool  `json:"redeemed"`
}

func (req *MarkRedeemedRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.QRToken, validation.Required),
		validation.Field(&req.Redeemed, validation.NotNil),
	)
}
