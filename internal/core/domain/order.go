package domain

import (
	"time"

	"github.com/govalues/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusApproved  OrderStatus = "APPROVED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

type FreightType string

const (
	FreightCIF  FreightType = "CIF"
	FreightFOB  FreightType = "FOB"
	FreightNone FreightType = "NONE"
)

// Order is a sale or purchase header together with its owned children.
// The tuple (Number, Model, Series, CounterpartyID) is unique among
// active orders of one family.
type Order struct {
	ID               uint64
	Family           OrderFamily
	Number           string
	Model            string
	Series           string
	CounterpartyID   uint64
	CounterpartyName string
	IssueDate        time.Time
	ExpectedDelivery *time.Time
	RealizedDelivery *time.Time
	PaymentTermID    *uint64
	PaymentTermName  string
	EmployeeID       *uint64
	EmployeeName     string
	CarrierID        *uint64
	CarrierName      string
	FreightType      FreightType
	Freight          decimal.Decimal
	Insurance        decimal.Decimal
	OtherCharges     decimal.Decimal
	Discount         decimal.Decimal
	Surcharge        decimal.Decimal
	ProductSubtotal  decimal.Decimal
	GrandTotal       decimal.Decimal
	Notes            string
	Status           OrderStatus
	ApprovedBy       *uint64
	ApprovedAt       *time.Time
	Active           bool
	CreatedAt        time.Time
	Items            []OrderItem
	Installments     []OrderInstallment
}

// OrderItem is one resolved product line. Product code, name and unit are
// captured at write time and never re-derived from the catalog.
type OrderItem struct {
	ID              uint64
	OrderID         uint64
	ProductID       uint64
	ProductCode     string
	ProductName     string
	Unit            string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	UnitDiscount    decimal.Decimal
	UnitNet         decimal.Decimal
	LineTotal       decimal.Decimal
	ApportionedCost decimal.Decimal
	UnitLandedCost  decimal.Decimal
	TotalLandedCost decimal.Decimal
}

// OrderInstallment is one scheduled payment. Numbers run contiguously
// from 1 within an order.
type OrderInstallment struct {
	ID                uint64
	OrderID           uint64
	Number            int
	PaymentMethodID   uint64
	PaymentMethodName string
	DueDate           time.Time
	Amount            decimal.Decimal
}

// OrderDraft is a submitted order before resolution. An empty Number asks
// the allocator for the next one in the family.
type OrderDraft struct {
	Number           string
	Model            string
	Series           string
	CounterpartyID   uint64
	IssueDate        time.Time
	ExpectedDelivery *time.Time
	RealizedDelivery *time.Time
	PaymentTermID    *uint64
	EmployeeID       *uint64
	CarrierID        *uint64
	FreightType      FreightType
	Freight          decimal.Decimal
	Insurance        decimal.Decimal
	OtherCharges     decimal.Decimal
	Discount         decimal.Decimal
	Surcharge        decimal.Decimal
	Notes            string
	Items            []ItemDraft
	Installments     []InstallmentDraft
}

type ItemDraft struct {
	ProductID    uint64
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	UnitDiscount decimal.Decimal
}

type InstallmentDraft struct {
	PaymentMethodID uint64
	DueDate         time.Time
	Amount          decimal.Decimal
}

// OrderPatch carries the optional header fields of a partial update.
// Nil means "leave unchanged". Items/Installments, when non-nil, replace
// the order's children entirely and force a totals recompute.
type OrderPatch struct {
	Number           *string
	Model            *string
	Series           *string
	CounterpartyID   *uint64
	IssueDate        *time.Time
	ExpectedDelivery *time.Time
	RealizedDelivery *time.Time
	PaymentTermID    *uint64
	EmployeeID       *uint64
	CarrierID        *uint64
	FreightType      *FreightType
	Freight          *decimal.Decimal
	Insurance        *decimal.Decimal
	OtherCharges     *decimal.Decimal
	Discount         *decimal.Decimal
	Surcharge        *decimal.Decimal
	Notes            *string
	Items            []ItemDraft
	Installments     []InstallmentDraft
}
