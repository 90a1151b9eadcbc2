package http

import (
	"github.com/Victor-cmda/serveon-sub001/internal/core/port"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReferenceHandler exposes the read-only lookups order forms need.
type ReferenceHandler struct {
	Handler
	service port.Service
}

func NewReferenceHandler(service port.Service, logger *zap.Logger) (*ReferenceHandler, error) {
	return &ReferenceHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

type productResp struct {
	ID   uint64 `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
	Unit string `json:"unit"`
}

func (rh *ReferenceHandler) ListProducts(ctx *gin.Context) {
	list, err := rh.service.ListProducts(ctx)
	if err != nil {
		rh.handleError(ctx, err)
		return
	}

	result := make([]productResp, 0, len(list))
	for _, product := range list {
		result = append(result, productResp{
			ID:   product.ID,
			Code: product.Code,
			Name: product.Name,
			Unit: product.Unit,
		})
	}
	rh.handleSuccess(ctx, result)
}

type paymentMethodResp struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

func (rh *ReferenceHandler) ListPaymentMethods(ctx *gin.Context) {
	list, err := rh.service.ListPaymentMethods(ctx)
	if err != nil {
		rh.handleError(ctx, err)
		return
	}

	result := make([]paymentMethodResp, 0, len(list))
	for _, method := range list {
		result = append(result, paymentMethodResp{ID: method.ID, Name: method.Name})
	}
	rh.handleSuccess(ctx, result)
}

type employeeResp struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

func (rh *ReferenceHandler) ListEmployees(ctx *gin.Context) {
	list, err := rh.service.ListActiveEmployees(ctx)
	if err != nil {
		rh.handleError(ctx, err)
		return
	}

	result := make([]employeeResp, 0, len(list))
	for _, employee := range list {
		result = append(result, employeeResp{ID: employee.ID, Name: employee.Name})
	}
	rh.handleSuccess(ctx, result)
}
