package http

import (
	"github.com/Victor-cmda/serveon-sub001/internal/core/port"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	Handler
	service port.Service
}

func NewAuthHandler(service port.Service, logger *zap.Logger) (*AuthHandler, error) {
	return &AuthHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

type actorTokenRequest struct {
	EmployeeID uint64 `json:"employee_id" binding:"required"`
}

type actorTokenResponse struct {
	Token string `json:"token"`
}

// IssueActorToken hands out a bearer token for an active employee so
// later mutations carry an acting employee without resending the id.
func (ah *AuthHandler) IssueActorToken(ctx *gin.Context) {
	req := actorTokenRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		ah.handleValidationError(ctx, err)
		return
	}

	token, err := ah.service.IssueActorToken(ctx, req.EmployeeID)
	if err != nil {
		ah.handleError(ctx, err)
		return
	}

	ah.handleSuccess(ctx, actorTokenResponse{Token: token})
}
