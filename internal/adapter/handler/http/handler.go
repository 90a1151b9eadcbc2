package http

import (
	"net/http"

	"github.com/Victor-cmda/serveon-sub001/internal/core/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errorStatusMap = map[error]int{
	domain.ErrInternal:        http.StatusInternalServerError,
	domain.ErrDataNotFound:    http.StatusNotFound,
	domain.ErrConflictingData: http.StatusConflict,

	domain.ErrTokenCreation:              http.StatusInternalServerError,
	domain.ErrInvalidToken:               http.StatusUnauthorized,
	domain.ErrExpiredToken:               http.StatusUnauthorized,
	domain.ErrEmptyAuthorizationHeader:   http.StatusUnauthorized,
	domain.ErrInvalidAuthorizationHeader: http.StatusUnauthorized,
	domain.ErrInvalidAuthorizationType:   http.StatusUnauthorized,

	domain.ErrBadRequest: http.StatusBadRequest,

	domain.ErrUnknownOrderFamily:       http.StatusNotFound,
	domain.ErrOrderExists:              http.StatusConflict,
	domain.ErrProductNotFound:          http.StatusNotFound,
	domain.ErrPaymentMethodNotFound:    http.StatusNotFound,
	domain.ErrEmployeeNotFound:         http.StatusNotFound,
	domain.ErrNoActiveEmployee:         http.StatusUnprocessableEntity,
	domain.ErrMissingCounterparty:      http.StatusUnprocessableEntity,
	domain.ErrItemQuantityNotPositive:  http.StatusUnprocessableEntity,
	domain.ErrItemDiscountExceedsPrice: http.StatusUnprocessableEntity,
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleAbort sends an error response and aborts the request with the
// status mapped for the error.
func handleAbort(ctx *gin.Context, err error) {
	statusCode, ok := errorStatusMap[err]
	if !ok {
		statusCode = http.StatusInternalServerError
	}
	ctx.AbortWithStatusJSON(statusCode, errorResponse{Error: err.Error()})
}

type Handler struct {
	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger}
}

// handleValidationError sends an error response for a request the binding
// layer rejected.
func (h *Handler) handleValidationError(ctx *gin.Context, err error) {
	h.logger.Debug("request validation failed", zap.Error(err))
	ctx.JSON(http.StatusBadRequest, errorResponse{Error: domain.ErrBadRequest.Error()})
}

func (h *Handler) handleError(ctx *gin.Context, err error) {
	statusCode, ok := errorStatusMap[err]
	if !ok {
		statusCode = http.StatusInternalServerError
		h.logger.Error("error processing request", zap.Error(err))
		ctx.JSON(statusCode, errorResponse{Error: domain.ErrInternal.Error()})
		return
	}
	ctx.JSON(statusCode, errorResponse{Error: err.Error()})
}

// handleSuccess sends a success response with the specified status code and optional data
func (h *Handler) handleSuccessWithStatus(ctx *gin.Context, data any, status int) {
	if data != nil {
		ctx.JSON(status, data)
	} else {
		ctx.Status(status)
	}
}

func (h *Handler) handleSuccess(ctx *gin.Context, data any) {
	h.handleSuccessWithStatus(ctx, data, http.StatusOK)
}
