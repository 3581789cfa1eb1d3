package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pebble-tech/cursor-my-hackathon/internal/api/handler/v1/request"
	"github.com/pebble-tech/cursor-my-hackathon/internal/api/handler/v1/response"
	"github.com/pebble-tech/cursor-my-hackathon/internal/domain"
	"github.com/pebble-tech/cursor-my-hackathon/internal/service"
)

// QRVerifier resolves a scanned badge token to a participant id.
type QRVerifier interface {
	Verify(token string) (string, error)
}

type ParticipantService interface {
	Create(ctx context.Context, participant domain.Participant) (domain.Participant, error)
	Import(ctx context.Context, imports []domain.ParticipantImport) (domain.ParticipantImportResult, error)
	GetParticipant(ctx context.Context, id string) (domain.Participant, error)
	Dashboard(ctx context.Context, participantID string) (domain.ParticipantDashboard, error)
	ListParticipants(ctx context.Context, selector domain.RecipientSelector) ([]domain.Participant, error)
	UpdateParticipant(ctx context.Context, participant domain.Participant) (domain.Participant, error)
	DeleteParticipant(ctx context.Context, id string) error
}

type ParticipantHandler struct {
	svc      ParticipantService
	verifier QRVerifier
}

func NewParticipantHandler(svc ParticipantService, verifier QRVerifier) *ParticipantHandler {
	return &ParticipantHandler{
		svc:      svc,
		verifier: verifier,
	}
}

func (h *ParticipantHandler) HandleCreateParticipant(ctx *gin.Context) {
	req := request.CreateParticipantRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	created, err := h.svc.Create(ctx.Request.Context(), domain.Participant{
		Name:            req.Name,
		Email:           req.Email,
		LumaID:          req.LumaID,
		Role:            domain.Role(req.Role),
		ParticipantType: domain.ParticipantType(req.ParticipantType),
		Password:        req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrParticipantEmailExists) {
			response.RenderErr(ctx, response.ErrConflict(err))

			return
		}

		err = fmt.Errorf("v1.HandleCreateParticipant -> h.svc.Create -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, created)
}

func (h *ParticipantHandler) HandleImportParticipants(ctx *gin.Context) {
	req := request.ImportParticipantsRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	imports := make([]domain.ParticipantImport, len(req.Participants))
	for i, p := range req.Participants {
		imports[i] = domain.ParticipantImport{
			Name:            p.Name,
			Email:           p.Email,
			LumaID:          p.LumaID,
			Role:            domain.Role(p.Role),
			ParticipantType: domain.ParticipantType(p.ParticipantType),
		}
	}

	result, err := h.svc.Import(ctx.Request.Context(), imports)
	if err != nil {
		err = fmt.Errorf("v1.HandleImportParticipants -> h.svc.Import -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, result)
}

func (h *ParticipantHandler) HandleGetParticipant(ctx *gin.Context) {
	participant, err := h.svc.GetParticipant(ctx.Request.Context(), ctx.Param("participantID"))
	if err != nil {
		if errors.Is(err, service.ErrParticipantNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(err))

			return
		}

		err = fmt.Errorf("v1.HandleGetParticipant -> h.svc.GetParticipant -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, participant)
}

func (h *ParticipantHandler) HandleListParticipants(ctx *gin.Context) {
	selector := domain.RecipientSelector{
		Role:            domain.Role(ctx.Query("role")),
		ParticipantType: domain.ParticipantType(ctx.Query("participant_type")),
		Status:          domain.ParticipantStatus(ctx.Query("status")),
	}

	participants, err := h.svc.ListParticipants(ctx.Request.Context(), selector)
	if err != nil {
		err = fmt.Errorf("v1.HandleListParticipants -> h.svc.ListParticipants -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, participants)
}

func (h *ParticipantHandler) HandleUpdateParticipant(ctx *gin.Context) {
	req := request.UpdateParticipantRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	updated, err := h.svc.UpdateParticipant(ctx.Request.Context(), domain.Participant{
		ID:              ctx.Param("participantID"),
		Name:            req.Name,
		Email:           req.Email,
		LumaID:          req.LumaID,
		Role:            domain.Role(req.Role),
		ParticipantType: domain.ParticipantType(req.ParticipantType),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrParticipantNotFound):
			response.RenderErr(ctx, response.ErrNotFound(err))
		case errors.Is(err, service.ErrParticipantEmailExists):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("v1.HandleUpdateParticipant -> h.svc.UpdateParticipant -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, updated)
}

func (h *ParticipantHandler) HandleDeleteParticipant(ctx *gin.Context) {
	err := h.svc.DeleteParticipant(ctx.Request.Context(), ctx.Param("participantID"))
	if err != nil {
		if errors.Is(err, service.ErrParticipantNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(err))

			return
		}

		err = fmt.Errorf("v1.HandleDeleteParticipant -> h.svc.DeleteParticipant -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleDashboard is the participant-facing read: the badge token in the
// request body authenticates the caller, no login involved.
func (h *ParticipantHandler) HandleDashboard(ctx *gin.Context) {
	req := request.GuestStatusRequest{}
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

	dashboard, err := h.svc.Dashboard(ctx.Request.Context(), participantID)
	if err != nil {
		if errors.Is(err, service.ErrParticipantNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(err))

			return
		}

		err = fmt.Errorf("v1.HandleDashboard -> h.svc.Dashboard -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, dashboard)
}
