package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pebble-tech/cursor-my-hackathon/internal/api/handler/v1/request"
	"github.com/pebble-tech/cursor-my-hackathon/internal/api/handler/v1/response"
	"github.com/pebble-tech/cursor-my-hackathon/internal/api/middleware"
	"github.com/pebble-tech/cursor-my-hackathon/internal/domain"
	"github.com/pebble-tech/cursor-my-hackathon/internal/service"
)

const defaultRecentScansLimit = 20

type CheckinService interface {
	ProcessCheckin(ctx context.Context, qrToken, checkinTypeID, actorID string) (domain.CheckinResult, error)
	GuestStatus(ctx context.Context, qrToken string) (domain.GuestStatus, error)
	RecentScans(ctx context.Context, actorID string, limit int) ([]domain.RecentScan, error)
	CreateCheckinType(ctx context.Context, checkinType domain.CheckinType) (domain.CheckinType, error)
	UpdateCheckinType(ctx context.Context, checkinType domain.CheckinType) (domain.CheckinType, error)
	ListCheckinTypes(ctx context.Context) ([]domain.CheckinType, error)
}

type CheckinHandler struct {
	svc CheckinService
}

func NewCheckinHandler(svc CheckinService) *CheckinHandler {
	return &CheckinHandler{
		svc: svc,
	}
}

// HandleCheckin processes one badge scan recorded by the logged-in
// station operator.
func (h *CheckinHandler) HandleCheckin(ctx *gin.Context) {
	req := request.CheckinRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	actorID := ctx.GetString(middleware.CtxKeyActorID)

	result, err := h.svc.ProcessCheckin(ctx.Request.Context(), req.QRToken, req.CheckinTypeID, actorID)
	if err != nil {
		var alreadyCheckedIn *service.AlreadyCheckedInError
		switch {
		case errors.As(err, &alreadyCheckedIn):
			ctx.JSON(http.StatusConflict, response.AlreadyCheckedIn{
				Error:       "already checked in",
				Participant: alreadyCheckedIn.Participant,
				CheckedInAt: alreadyCheckedIn.CheckedInAt,
			})
		case errors.Is(err, service.ErrInvalidQRToken):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrParticipantNotFound),
			errors.Is(err, service.ErrCheckinTypeNotFound):
			response.RenderErr(ctx, response.ErrNotFound(err))
		case errors.Is(err, service.ErrCheckinTypeInactive):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleCheckin -> h.svc.ProcessCheckin -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, result)
}

// HandleGuestStatus resolves a badge to the participant's per-type
// check-in status. Stations call it before deciding which scan to offer.
func (h *CheckinHandler) HandleGuestStatus(ctx *gin.Context) {
	req := request.GuestStatusRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	status, err := h.svc.GuestStatus(ctx.Request.Context(), req.QRToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidQRToken):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrParticipantNotFound):
			response.RenderErr(ctx, response.ErrNotFound(err))
		default:
			err = fmt.Errorf("v1.HandleGuestStatus -> h.svc.GuestStatus -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, status)
}

func (h *CheckinHandler) HandleRecentScans(ctx *gin.Context) {
	limit := defaultRecentScansLimit
	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 100 {
			response.RenderErr(ctx, response.ErrBadRequest(errors.New("limit must be between 1 and 100")))

			return
		}
		limit = parsed
	}

	actorID := ctx.GetString(middleware.CtxKeyActorID)

	scans, err := h.svc.RecentScans(ctx.Request.Context(), actorID, limit)
	if err != nil {
		err = fmt.Errorf("v1.HandleRecentScans -> h.svc.RecentScans -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, scans)
}

func (h *CheckinHandler) HandleCreateCheckinType(ctx *gin.Context) {
	req := request.CheckinTypeRequest{}
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

	created, err := h.svc.CreateCheckinType(ctx.Request.Context(), domain.CheckinType{
		Name:         req.Name,
		Category:     domain.CheckinCategory(req.Category),
		Description:  req.Description,
		DisplayOrder: req.DisplayOrder,
		IsActive:     isActive,
	})
	if err != nil {
		if errors.Is(err, service.ErrCheckinTypeNameExists) {
			response.RenderErr(ctx, response.ErrConflict(err))

			return
		}

		err = fmt.Errorf("v1.HandleCreateCheckinType -> h.svc.CreateCheckinType -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, created)
}

func (h *CheckinHandler) HandleUpdateCheckinType(ctx *gin.Context) {
	req := request.CheckinTypeRequest{}
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

	updated, err := h.svc.UpdateCheckinType(ctx.Request.Context(), domain.CheckinType{
		ID:           ctx.Param("checkinTypeID"),
		Name:         req.Name,
		Category:     domain.CheckinCategory(req.Category),
		Description:  req.Description,
		DisplayOrder: req.DisplayOrder,
		IsActive:     isActive,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCheckinTypeNotFound):
			response.RenderErr(ctx, response.ErrNotFound(err))
		case errors.Is(err, service.ErrCheckinTypeNameExists):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("v1.HandleUpdateCheckinType -> h.svc.UpdateCheckinType -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, updated)
}

func (h *CheckinHandler) HandleListCheckinTypes(ctx *gin.Context) {
	checkinTypes, err := h.svc.ListCheckinTypes(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListCheckinTypes -> h.svc.ListCheckinTypes -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, checkinTypes)
}
