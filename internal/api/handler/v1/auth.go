package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pebble-tech/cursor-my-hackathon/internal/api/handler/v1/request"
	"github.com/pebble-tech/cursor-my-hackathon/internal/api/handler/v1/response"
	"github.com/pebble-tech/cursor-my-hackathon/internal/config"
	"github.com/pebble-tech/cursor-my-hackathon/internal/domain"
	"github.com/pebble-tech/cursor-my-hackathon/internal/pkg/jwthelper"
	"github.com/pebble-tech/cursor-my-hackathon/internal/service"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (domain.Participant, error)
}

type AuthHandler struct {
	conf *config.APIConfig
	svc  AuthService
}

func NewAuthHandler(conf *config.APIConfig, svc AuthService) *AuthHandler {
	return &AuthHandler{
		conf: conf,
		svc:  svc,
	}
}

// HandleLogin authenticates a staff member and issues the JWT used by
// the station and admin endpoints.
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	req := request.LoginRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	staff, err := h.svc.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrParticipantNotFound) ||
			errors.Is(err, service.ErrWrongPassword) ||
			errors.Is(err, service.ErrNotStaff) {
			response.RenderErr(ctx, response.ErrWrongCredentials(errors.New("wrong credentials")))

			return
		}

		err = fmt.Errorf("v1.HandleLogin -> h.svc.Login -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	token, err := jwthelper.GenerateToken([]byte(h.conf.JWTSigningKey), staff.ID, string(staff.Role), ctx.Request.UserAgent())
	if err != nil {
		err = fmt.Errorf("v1.HandleLogin -> jwthelper.GenerateToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.LoginResponse{
		Token: token,
		User:  staff,
	})
}
