package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Victor-cmda/serveon-sub001/internal/core/domain"
	"github.com/Victor-cmda/serveon-sub001/internal/core/port"
	"github.com/gin-gonic/gin"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

// OrderHandler serves one order family; the router mounts an instance
// per family under its own path prefix.
type OrderHandler struct {
	Handler
	service port.Service
	family  domain.OrderFamily
}

func NewOrderHandler(service port.Service, family domain.OrderFamily, logger *zap.Logger) (*OrderHandler, error) {
	return &OrderHandler{
		Handler: *NewHandler(logger),
		service: service,
		family:  family,
	}, nil
}

type orderItemRequest struct {
	ProductID    uint64  `json:"product_id" binding:"required"`
	Quantity     float64 `json:"quantity" binding:"required"`
	UnitPrice    float64 `json:"unit_price"`
	UnitDiscount float64 `json:"unit_discount"`
}

type orderInstallmentRequest struct {
	PaymentMethodID uint64    `json:"payment_method_id" binding:"required"`
	DueDate         time.Time `json:"due_date" binding:"required"`
	Amount          float64   `json:"amount"`
}

type createOrderRequest struct {
	Number           string                    `json:"number"`
	Model            string                    `json:"model"`
	Series           string                    `json:"series"`
	CounterpartyID   uint64                    `json:"counterparty_id" binding:"required"`
	IssueDate        *time.Time                `json:"issue_date"`
	ExpectedDelivery *time.Time                `json:"expected_delivery"`
	RealizedDelivery *time.Time                `json:"realized_delivery"`
	PaymentTermID    *uint64                   `json:"payment_term_id"`
	EmployeeID       *uint64                   `json:"employee_id"`
	CarrierID        *uint64                   `json:"carrier_id"`
	FreightType      string                    `json:"freight_type"`
	Freight          float64                   `json:"freight"`
	Insurance        float64                   `json:"insurance"`
	OtherCharges     float64                   `json:"other_charges"`
	Discount         float64                   `json:"discount"`
	Surcharge        float64                   `json:"surcharge"`
	Notes            string                    `json:"notes"`
	Items            []orderItemRequest        `json:"items"`
	Installments     []orderInstallmentRequest `json:"installments"`
}

func (req *createOrderRequest) toDraft() (*domain.OrderDraft, error) {
	draft := domain.OrderDraft{
		Number:           req.Number,
		Model:            req.Model,
		Series:           req.Series,
		CounterpartyID:   req.CounterpartyID,
		ExpectedDelivery: req.ExpectedDelivery,
		RealizedDelivery: req.RealizedDelivery,
		PaymentTermID:    req.PaymentTermID,
		EmployeeID:       req.EmployeeID,
		CarrierID:        req.CarrierID,
		FreightType:      domain.FreightType(req.FreightType),
		Notes:            req.Notes,
	}
	if req.IssueDate != nil {
		draft.IssueDate = *req.IssueDate
	}

	var err error
	if draft.Freight, err = decimal.NewFromFloat64(req.Freight); err != nil {
		return nil, err
	}
	if draft.Insurance, err = decimal.NewFromFloat64(req.Insurance); err != nil {
		return nil, err
	}
	if draft.OtherCharges, err = decimal.NewFromFloat64(req.OtherCharges); err != nil {
		return nil, err
	}
	if draft.Discount, err = decimal.NewFromFloat64(req.Discount); err != nil {
		return nil, err
	}
	if draft.Surcharge, err = decimal.NewFromFloat64(req.Surcharge); err != nil {
		return nil, err
	}

	for _, item := range req.Items {
		itemDraft, err := item.toDraft()
		if err != nil {
			return nil, err
		}
		draft.Items = append(draft.Items, itemDraft)
	}
	for _, installment := range req.Installments {
		installmentDraft, err := installment.toDraft()
		if err != nil {
			return nil, err
		}
		draft.Installments = append(draft.Installments, installmentDraft)
	}

	return &draft, nil
}

func (req *orderItemRequest) toDraft() (domain.ItemDraft, error) {
	draft := domain.ItemDraft{ProductID: req.ProductID}

	var err error
	if draft.Quantity, err = decimal.NewFromFloat64(req.Quantity); err != nil {
		return domain.ItemDraft{}, err
	}
	if draft.UnitPrice, err = decimal.NewFromFloat64(req.UnitPrice); err != nil {
		return domain.ItemDraft{}, err
	}
	if draft.UnitDiscount, err = decimal.NewFromFloat64(req.UnitDiscount); err != nil {
		return domain.ItemDraft{}, err
	}
	return draft, nil
}

func (req *orderInstallmentRequest) toDraft() (domain.InstallmentDraft, error) {
	draft := domain.InstallmentDraft{
		PaymentMethodID: req.PaymentMethodID,
		DueDate:         req.DueDate,
	}

	var err error
	if draft.Amount, err = decimal.NewFromFloat64(req.Amount); err != nil {
		return domain.InstallmentDraft{}, err
	}
	return draft, nil
}

type orderItemResp struct {
	ID              uint64          `json:"id"`
	ProductID       uint64          `json:"product_id"`
	ProductCode     string          `json:"product_code"`
	ProductName     string          `json:"product_name"`
	Unit            string          `json:"unit"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	UnitDiscount    decimal.Decimal `json:"unit_discount"`
	UnitNet         decimal.Decimal `json:"unit_net"`
	LineTotal       decimal.Decimal `json:"line_total"`
	ApportionedCost decimal.Decimal `json:"apportioned_cost"`
	UnitLandedCost  decimal.Decimal `json:"unit_landed_cost"`
	TotalLandedCost decimal.Decimal `json:"total_landed_cost"`
}

type orderInstallmentResp struct {
	ID                uint64          `json:"id"`
	Number            int             `json:"number"`
	PaymentMethodID   uint64          `json:"payment_method_id"`
	PaymentMethodName string          `json:"payment_method_name"`
	DueDate           time.Time       `json:"due_date"`
	Amount            decimal.Decimal `json:"amount"`
}

type orderResp struct {
	ID               uint64                 `json:"id"`
	Number           string                 `json:"number"`
	Model            string                 `json:"model"`
	Series           string                 `json:"series"`
	CounterpartyID   uint64                 `json:"counterparty_id"`
	CounterpartyName string                 `json:"counterparty_name"`
	IssueDate        time.Time              `json:"issue_date"`
	ExpectedDelivery *time.Time             `json:"expected_delivery,omitempty"`
	RealizedDelivery *time.Time             `json:"realized_delivery,omitempty"`
	PaymentTermID    *uint64                `json:"payment_term_id,omitempty"`
	PaymentTermName  string                 `json:"payment_term_name,omitempty"`
	EmployeeID       *uint64                `json:"employee_id,omitempty"`
	EmployeeName     string                 `json:"employee_name,omitempty"`
	CarrierID        *uint64                `json:"carrier_id,omitempty"`
	CarrierName      string                 `json:"carrier_name,omitempty"`
	FreightType      string                 `json:"freight_type"`
	Freight          decimal.Decimal        `json:"freight"`
	Insurance        decimal.Decimal        `json:"insurance"`
	OtherCharges     decimal.Decimal        `json:"other_charges"`
	Discount         decimal.Decimal        `json:"discount"`
	Surcharge        decimal.Decimal        `json:"surcharge"`
	ProductSubtotal  decimal.Decimal        `json:"product_subtotal"`
	GrandTotal       decimal.Decimal        `json:"grand_total"`
	Notes            string                 `json:"notes"`
	Status           string                 `json:"status"`
	ApprovedBy       *uint64                `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time             `json:"approved_at,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
	Items            []orderItemResp        `json:"items"`
	Installments     []orderInstallmentResp `json:"installments"`
}

func newOrderResp(order *domain.Order) orderResp {
	resp := orderResp{
		ID:               order.ID,
		Number:           order.Number,
		Model:            order.Model,
		Series:           order.Series,
		CounterpartyID:   order.CounterpartyID,
		CounterpartyName: order.CounterpartyName,
		IssueDate:        order.IssueDate,
		ExpectedDelivery: order.ExpectedDelivery,
		RealizedDelivery: order.RealizedDelivery,
		PaymentTermID:    order.PaymentTermID,
		PaymentTermName:  order.PaymentTermName,
		EmployeeID:       order.EmployeeID,
		EmployeeName:     order.EmployeeName,
		CarrierID:        order.CarrierID,
		CarrierName:      order.CarrierName,
		FreightType:      string(order.FreightType),
		Freight:          order.Freight,
		Insurance:        order.Insurance,
		OtherCharges:     order.OtherCharges,
		Discount:         order.Discount,
		Surcharge:        order.Surcharge,
		ProductSubtotal:  order.ProductSubtotal,
		GrandTotal:       order.GrandTotal,
		Notes:            order.Notes,
		Status:           string(order.Status),
		ApprovedBy:       order.ApprovedBy,
		ApprovedAt:       order.ApprovedAt,
		CreatedAt:        order.CreatedAt,
		Items:            make([]orderItemResp, 0, len(order.Items)),
		Installments:     make([]orderInstallmentResp, 0, len(order.Installments)),
	}

	for _, item := range order.Items {
		resp.Items = append(resp.Items, orderItemResp{
			ID:              item.ID,
			ProductID:       item.ProductID,
			ProductCode:     item.ProductCode,
			ProductName:     item.ProductName,
			Unit:            item.Unit,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			UnitDiscount:    item.UnitDiscount,
			UnitNet:         item.UnitNet,
			LineTotal:       item.LineTotal,
			ApportionedCost: item.ApportionedCost,
			UnitLandedCost:  item.UnitLandedCost,
			TotalLandedCost: item.TotalLandedCost,
		})
	}
	for _, installment := range order.Installments {
		resp.Installments = append(resp.Installments, orderInstallmentResp{
			ID:                installment.ID,
			Number:            installment.Number,
			PaymentMethodID:   installment.PaymentMethodID,
			PaymentMethodName: installment.PaymentMethodName,
			DueDate:           installment.DueDate,
			Amount:            installment.Amount,
		})
	}

	return resp
}

func (oh *OrderHandler) CreateOrder(ctx *gin.Context) {
	req := createOrderRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	draft, err := req.toDraft()
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	order, err := oh.service.CreateOrder(ctx, oh.family, draft)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccessWithStatus(ctx, newOrderResp(order), http.StatusCreated)
}

type updateOrderRequest struct {
	Number           *string                   `json:"number"`
	Model            *string                   `json:"model"`
	Series           *string                   `json:"series"`
	CounterpartyID   *uint64                   `json:"counterparty_id"`
	IssueDate        *time.Time                `json:"issue_date"`
	ExpectedDelivery *time.Time                `json:"expected_delivery"`
	RealizedDelivery *time.Time                `json:"realized_delivery"`
	PaymentTermID    *uint64                   `json:"payment_term_id"`
	EmployeeID       *uint64                   `json:"employee_id"`
	CarrierID        *uint64                   `json:"carrier_id"`
	FreightType      *string                   `json:"freight_type"`
	Freight          *float64                  `json:"freight"`
	Insurance        *float64                  `json:"insurance"`
	OtherCharges     *float64                  `json:"other_charges"`
	Discount         *float64                  `json:"discount"`
	Surcharge        *float64                  `json:"surcharge"`
	Notes            *string                   `json:"notes"`
	Items            []orderItemRequest        `json:"items"`
	Installments     []orderInstallmentRequest `json:"installments"`
}

func (req *updateOrderRequest) toPatch() (*domain.OrderPatch, error) {
	patch := domain.OrderPatch{
		Number:           req.Number,
		Model:            req.Model,
		Series:           req.Series,
		CounterpartyID:   req.CounterpartyID,
		IssueDate:        req.IssueDate,
		ExpectedDelivery: req.ExpectedDelivery,
		RealizedDelivery: req.RealizedDelivery,
		PaymentTermID:    req.PaymentTermID,
		EmployeeID:       req.EmployeeID,
		CarrierID:        req.CarrierID,
		Notes:            req.Notes,
	}
	if req.FreightType != nil {
		freightType := domain.FreightType(*req.FreightType)
		patch.FreightType = &freightType
	}

	toDec := func(f *float64) (*decimal.Decimal, error) {
		if f == nil {
			return nil, nil
		}
		value, err := decimal.NewFromFloat64(*f)
		if err != nil {
			return nil, err
		}
		return &value, nil
	}
	var err error
	if patch.Freight, err = toDec(req.Freight); err != nil {
		return nil, err
	}
	if patch.Insurance, err = toDec(req.Insurance); err != nil {
		return nil, err
	}
	if patch.OtherCharges, err = toDec(req.OtherCharges); err != nil {
		return nil, err
	}
	if patch.Discount, err = toDec(req.Discount); err != nil {
		return nil, err
	}
	if patch.Surcharge, err = toDec(req.Surcharge); err != nil {
		return nil, err
	}

	if req.Items != nil {
		patch.Items = make([]domain.ItemDraft, 0, len(req.Items))
		for _, item := range req.Items {
			itemDraft, err := item.toDraft()
			if err != nil {
				return nil, err
			}
			patch.Items = append(patch.Items, itemDraft)
		}
	}
	if req.Installments != nil {
		patch.Installments = make([]domain.InstallmentDraft, 0, len(req.Installments))
		for _, installment := range req.Installments {
			installmentDraft, err := installment.toDraft()
			if err != nil {
				return nil, err
			}
			patch.Installments = append(patch.Installments, installmentDraft)
		}
	}

	return &patch, nil
}

func (oh *OrderHandler) UpdateOrder(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	req := updateOrderRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	patch, err := req.toPatch()
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	order, err := oh.service.UpdateOrder(ctx, oh.family, id, patch)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccess(ctx, newOrderResp(order))
}

func (oh *OrderHandler) GetOrder(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	order, err := oh.service.GetOrder(ctx, oh.family, id)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccess(ctx, newOrderResp(order))
}

func (oh *OrderHandler) ListOrders(ctx *gin.Context) {
	var status *domain.OrderStatus
	if value := ctx.Query("status"); value != "" {
		s := domain.OrderStatus(value)
		status = &s
	}

	list, err := oh.service.ListOrders(ctx, oh.family, status)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	result := make([]orderResp, 0, len(list))
	for _, order := range list {
		result = append(result, newOrderResp(order))
	}

	oh.handleSuccess(ctx, result)
}

func (oh *OrderHandler) DeleteOrder(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	if err := oh.service.DeleteOrder(ctx, oh.family, id); err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccessWithStatus(ctx, nil, http.StatusNoContent)
}

type checkDuplicateResp struct {
	Exists bool `json:"exists"`
}

func (oh *OrderHandler) CheckDuplicate(ctx *gin.Context) {
	counterpartyID, err := strconv.ParseUint(ctx.Query("counterparty_id"), 10, 64)
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	exists, err := oh.service.CheckDuplicate(ctx, oh.family,
		ctx.Query("number"), ctx.Query("model"), ctx.Query("series"), counterpartyID)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccess(ctx, checkDuplicateResp{Exists: exists})
}

type approveOrderRequest struct {
	ActorID *uint64 `json:"actor_id"`
}

func (oh *OrderHandler) Approve(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	req := approveOrderRequest{}
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
			oh.handleValidationError(ctx, err)
			return
		}
	}

	// Explicit actor wins; a bearer token supplies one otherwise; the
	// service falls back to the first active employee when both are absent.
	actorID := req.ActorID
	if actorID == nil {
		if payload := getActorPayload(ctx); payload != nil {
			actorID = &payload.EmployeeID
		}
	}

	order, err := oh.service.Approve(ctx, oh.family, id, actorID)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccess(ctx, newOrderResp(order))
}

type denyOrderRequest struct {
	Reason string `json:"reason"`
}

func (oh *OrderHandler) Deny(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	req := denyOrderRequest{}
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
			oh.handleValidationError(ctx, err)
			return
		}
	}

	order, err := oh.service.Deny(ctx, oh.family, id, req.Reason)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccess(ctx, newOrderResp(order))
}
