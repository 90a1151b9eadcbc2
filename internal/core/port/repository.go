package port

import (
	"context"
	"time"

	"github.com/Victor-cmda/serveon-sub001/internal/core/domain"
)

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock
type Repository interface {
	// Orders. CreateOrder and UpdateOrder run one transaction each:
	// header, then items, then installments, all or nothing. CreateOrder
	// allocates the family's next number when order.Number is empty.
	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	UpdateOrder(ctx context.Context, order *domain.Order, replaceChildren bool) (*domain.Order, error)
	ReadOrder(ctx context.Context, family domain.OrderFamily, id uint64) (*domain.Order, error)
	ListOrders(ctx context.Context, family domain.OrderFamily, status *domain.OrderStatus) ([]*domain.Order, error)
	DeleteOrder(ctx context.Context, family domain.OrderFamily, id uint64) error
	OrderExists(ctx context.Context, family domain.OrderFamily,
		number, model, series string, counterpartyID uint64) (bool, error)
	UpdateOrderStatus(ctx context.Context, family domain.OrderFamily, id uint64,
		status domain.OrderStatus, approvedBy *uint64, approvedAt *time.Time, notes string) error

	// Reference lookups.
	GetProduct(ctx context.Context, id uint64) (*domain.Product, error)
	GetPaymentMethod(ctx context.Context, id uint64) (*domain.PaymentMethod, error)
	GetEmployee(ctx context.Context, id uint64) (*domain.Employee, error)
	ListActiveEmployees(ctx context.Context) ([]*domain.Employee, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	ListPaymentMethods(ctx context.Context) ([]*domain.PaymentMethod, error)
}
