package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pebble-tech/cursor-my-hackathon/internal/api/handler/v1/response"
	"github.com/pebble-tech/cursor-my-hackathon/internal/pkg/jwthelper"
)

// Context keys populated by VerifyJWT for downstream handlers.
const (
	CtxKeyActorID   = "actorID"
	CtxKeyActorRole = "actorRole"
)

var (
	errMissingAuthHeader = errors.New("missing or malformed Authorization header")
	errInvalidToken      = errors.New("invalid or expired token")
	errForbiddenRole     = errors.New("insufficient role")
)

type Authenticator struct {
	signingKey string
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: signingKey,
	}
}

func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingAuthHeader))
			ctx.Abort()

			return
		}

		claims, err := jwthelper.ParseToken([]byte(a.signingKey), tokenString)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(errInvalidToken))
			ctx.Abort()

			return
		}

		ctx.Set(CtxKeyActorID, claims.UserID)
		ctx.Set(CtxKeyActorRole, claims.Role)
		ctx.Next()
	}
}

// RequireRoles rejects requests whose verified role is not in the allow
// list. Must run after VerifyJWT.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		actorRole := ctx.GetString(CtxKeyActorRole)
		for _, role := range roles {
			if actorRole == role {
				ctx.Next()

				return
			}
		}

		response.RenderErr(ctx, response.ErrForbidden(errForbiddenRole))
		ctx.Abort()
	}
}
