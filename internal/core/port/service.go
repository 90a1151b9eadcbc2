package port

import (
	"context"

	"github.com/Victor-cmda/serveon-sub001/internal/core/domain"
)

type Service interface {
	CreateOrder(ctx context.Context, family domain.OrderFamily, draft *domain.OrderDraft) (*domain.Order, error)
	UpdateOrder(ctx context.Context, family domain.OrderFamily, id uint64, patch *domain.OrderPatch) (*domain.Order, error)
	GetOrder(ctx context.Context, family domain.OrderFamily, id uint64) (*domain.Order, error)
	ListOrders(ctx context.Context, family domain.OrderFamily, status *domain.OrderStatus) ([]*domain.Order, error)
	DeleteOrder(ctx context.Context, family domain.OrderFamily, id uint64) error
	CheckDuplicate(ctx context.Context, family domain.OrderFamily,
		number, model, series string, counterpartyID uint64) (bool, error)

	Approve(ctx context.Context, family domain.OrderFamily, id uint64, actorID *uint64) (*domain.Order, error)
	Deny(ctx context.Context, family domain.OrderFamily, id uint64, reason string) (*domain.Order, error)

	IssueActorToken(ctx context.Context, employeeID uint64) (string, error)

	ListProducts(ctx context.Context) ([]*domain.Product, error)
	ListPaymentMethods(ctx context.Context) ([]*domain.PaymentMethod, error)
	ListActiveEmployees(ctx context.Context) ([]*domain.Employee, error)
}
