package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pebble-tech/cursor-my-hackathon/internal/api/handler/v1/request"
	"github.com/pebble-tech/cursor-my-hackathon/internal/api/handler/v1/response"
	"github.com/pebble-tech/cursor-my-hackathon/internal/api/middleware"
	"github.com/pebble-tech/cursor-my-hackathon/internal/domain"
	"github.com/pebble-tech/cursor-my-hackathon/internal/service"
)

type CreditService interface {
	CreateCreditType(ctx context.Context, params service.CreateCreditTypeParams) (domain.CreditType, error)
	UpdateCreditType(ctx context.Context, creditType domain.CreditType) (domain.CreditType, error)
	GetCreditType(ctx context.Context, id string) (domain.CreditType, error)
	ListCreditTypes(ctx context.Context) ([]domain.CreditTypeOverview, error)
	DeleteCreditType(ctx context.Context, id string) error
	ImportCodes(ctx context.Context, creditTypeID string, imports []domain.CodeImport) (domain.CodeImportResult, error)
}

type AssignmentService interface {
	AssignAdHoc(ctx context.Context, recipientID, creditTypeID, actorID string) (domain.AssignedCredit, error)
	RunGiveaway(ctx context.Context, creditTypeIDs []string, selector domain.RecipientSelector, actorID string) (domain.GiveawayResult, error)
	Unassign(ctx context.Context, codeID string) (domain.Code, error)
	MarkRedeemed(ctx context.Context, codeID, participantID string, redeemed bool) (domain.Code, error)
}

type CreditHandler struct {
	svc           CreditService
	assignmentSvc AssignmentService
	verifier      QRVerifier
}

func NewCreditHandler(svc CreditService, assignmentSvc AssignmentService, verifier QRVerifier) *CreditHandler {
	return &CreditHandler{
		svc:           svc,
		assignmentSvc: assignmentSvc,
		verifier:      verifier,
	}
}

func (h *CreditHandler) HandleCreateCreditType(ctx *gin.Context) {
	req := request.CreateCreditTypeRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	created, err := h.svc.CreateCreditType(ctx.Request.Context(), service.CreateCreditTypeParams{
		CreditType: domain.CreditType{
			Name:              req.Name,
			DisplayName:       req.DisplayName,
			EmailInstructions: req.EmailInstructions,
			WebInstructions:   req.WebInstructions,
			DisplayOrder:      req.DisplayOrder,
			IconURL:           req.IconURL,
			IsActive:          true,
			DistributionType:  domain.DistributionType(req.DistributionType),
		},
		UniversalCode:      req.UniversalCode,
		UniversalRedeemURL: req.UniversalRedeemURL,
		UniversalQuantity:  req.UniversalQuantity,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCreditTypeNameExists):
			response.RenderErr(ctx, response.ErrConflict(err))
		case errors.Is(err, service.ErrUniversalCodeRequired):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleCreateCreditType -> h.svc.CreateCreditType -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusCreated, created)
}

func (h *CreditHandler) HandleUpdateCreditType(ctx *gin.Context) {
	req := request.UpdateCreditTypeRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	updated, err := h.svc.UpdateCreditType(ctx.Request.Context(), domain.CreditType{
		ID:                ctx.Param("creditTypeID"),
		Name:              req.Name,
		DisplayName:       req.DisplayName,
		EmailInstructions: req.EmailInstructions,
		WebInstructions:   req.WebInstructions,
		DisplayOrder:      req.DisplayOrder,
		IconURL:           req.IconURL,
		IsActive:          isActive,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCreditTypeNotFound):
			response.RenderErr(ctx, response.ErrNotFound(err))
		case errors.Is(err, service.ErrCreditTypeNameExists):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("v1.HandleUpdateCreditType -> h.svc.UpdateCreditType -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, updated)
}

func (h *CreditHandler) HandleListCreditTypes(ctx *gin.Context) {
	overviews, err := h.svc.ListCreditTypes(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListCreditTypes -> h.svc.ListCreditTypes -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, overviews)
}

func (h *CreditHandler) HandleDeleteCreditType(ctx *gin.Context) {
	err := h.svc.DeleteCreditType(ctx.Request.Context(), ctx.Param("creditTypeID"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCreditTypeNotFound):
			response.RenderErr(ctx, response.ErrNotFound(err))
		case errors.Is(err, service.ErrCreditTypeHasAssignedCodes):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("v1.HandleDeleteCreditType -> h.svc.DeleteCreditType -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *CreditHandler) HandleImportCodes(ctx *gin.Context) {
	req := request.ImportCodesRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	imports := make([]domain.CodeImport, len(req.Codes))
	for i, code := range req.Codes {
		imports[i] = domain.CodeImport{
			CodeValue: code.CodeValue,
			RedeemURL: code.RedeemURL,
		}
	}

	result, err := h.svc.ImportCodes(ctx.Request.Context(), ctx.Param("creditTypeID"), imports)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCreditTypeNotFound):
			response.RenderErr(ctx, response.ErrNotFound(err))
		case errors.Is(err, service.ErrUniversalCodeImport):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleImportCodes -> h.svc.ImportCodes -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, result)
}

// HandleGiveaway runs an all-or-nothing bulk assignment over the
// participants matched by the selector in the request.
func (h *CreditHandler) HandleGiveaway(ctx *gin.Context) {
	req := request.GiveawayRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	actorID := ctx.GetString(middleware.CtxKeyActorID)
	selector := domain.RecipientSelector{
		Role:            domain.Role(req.Role),
		ParticipantType: domain.ParticipantType(req.ParticipantType),
		Status:          domain.ParticipantStatus(req.Status),
	}

	result, err := h.assignmentSvc.RunGiveaway(ctx.Request.Context(), req.CreditTypeIDs, selector, actorID)
	if err != nil {
		var exhaustion *service.ExhaustionError
		switch {
		case errors.As(err, &exhaustion):
			ctx.JSON(http.StatusConflict, response.GiveawayExhausted{
				Error:            "code pool exhausted",
				CreditTypeID:     exhaustion.CreditTypeID,
				ServedRecipients: exhaustion.ServedRecipients,
			})
		case errors.Is(err, service.ErrCreditTypeNotFound):
			response.RenderErr(ctx, response.ErrNotFound(err))
		case errors.Is(err, service.ErrNoRecipients):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleGiveaway -> h.assignmentSvc.RunGiveaway -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, result)
}

func (h *CreditHandler) HandleAssignAdHoc(ctx *gin.Context) {
	req := request.AdHocAssignRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	actorID := ctx.GetString(middleware.CtxKeyActorID)

	credit, err := h.assignmentSvc.AssignAdHoc(ctx.Request.Context(), req.RecipientID, req.CreditTypeID, actorID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPoolExhausted):
			response.RenderErr(ctx, response.ErrConflict(err))
		case errors.Is(err, service.ErrParticipantNotFound),
			errors.Is(err, service.ErrCreditTypeNotFound):
			response.RenderErr(ctx, response.ErrNotFound(err))
		default:
			err = fmt.Errorf("v1.HandleAssignAdHoc -> h.assignmentSvc.AssignAdHoc -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusCreated, credit)
}

func (h *CreditHandler) HandleUnassignCode(ctx *gin.Context) {
	code, err := h.assignmentSvc.Unassign(ctx.Request.Context(), ctx.Param("codeID"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCodeNotFound):
			response.RenderErr(ctx, response.ErrNotFound(err))
		case errors.Is(err, service.ErrCodeAlreadyRedeemed):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("v1.HandleUnassignCode -> h.assignmentSvc.Unassign -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, code)
}

// HandleMarkRedeemed lets a participant toggle the redeemed flag on a
// code they own. The badge token authenticates the caller.
func (h *CreditHandler) HandleMarkRedeemed(ctx *gin.Context) {
	req := request.MarkRedeemedRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	participantID, err := h.verifier.Verify(req.QRToken)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(service.ErrInvalidQRToken))

		return
	}

	code, err := h.assignmentSvc.MarkRedeemed(ctx.Request.Context(), ctx.Param("codeID"), participantID, *req.Redeemed)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCodeNotFound):
			response.RenderErr(ctx, response.ErrNotFound(err))
		case errors.Is(err, service.ErrCodeNotOwned):
			response.RenderErr(ctx, response.ErrForbidden(err))
		case errors.Is(err, service.ErrCodeNotAssigned):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("v1.HandleMarkRedeemed -> h.assignmentSvc.MarkRedeemed -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, code)
}
