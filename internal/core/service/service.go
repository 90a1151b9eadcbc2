package service

import (
	"context"
	"errors"
	"time"

	"github.com/Victor-cmda/serveon-sub001/internal/core/domain"
	"github.com/Victor-cmda/serveon-sub001/internal/core/port"
	"go.uber.org/zap"
)

// Service is the order transaction engine, shared by the sales and
// purchases families.
type Service struct {
	repo         port.Repository
	tokenService port.TokenService
	logger       *zap.Logger
}

func NewService(repo port.Repository, tokenService port.TokenService, logger *zap.Logger) (*Service, error) {
	return &Service{
		repo:         repo,
		tokenService: tokenService,
		logger:       logger,
	}, nil
}

func (s *Service) CreateOrder(ctx context.Context, family domain.OrderFamily, draft *domain.OrderDraft) (*domain.Order, error) {
	if !family.Valid() {
		return nil, domain.ErrUnknownOrderFamily
	}
	if draft.CounterpartyID == 0 {
		return nil, domain.ErrMissingCounterparty
	}

	// Pre-flight duplicate check on explicit numbers. The partial unique
	// index is the actual guarantee; this only gives the caller a clean
	// answer before any work is done.
	if draft.Number != "" {
		exists, err := s.repo.OrderExists(ctx, family,
			draft.Number, draft.Model, draft.Series, draft.CounterpartyID)
		if err != nil {
			s.logger.Error("Check duplicate", zap.Error(err))
			return nil, domain.ErrInternal
		}
		if exists {
			return nil, domain.ErrOrderExists
		}
	}

	order := &domain.Order{
		Family:           family,
		Number:           draft.Number,
		Model:            draft.Model,
		Series:           draft.Series,
		CounterpartyID:   draft.CounterpartyID,
		IssueDate:        draft.IssueDate,
		ExpectedDelivery: draft.ExpectedDelivery,
		RealizedDelivery: draft.RealizedDelivery,
		PaymentTermID:    draft.PaymentTermID,
		EmployeeID:       draft.EmployeeID,
		CarrierID:        draft.CarrierID,
		FreightType:      draft.FreightType,
		Freight:          draft.Freight,
		Insurance:        draft.Insurance,
		OtherCharges:     draft.OtherCharges,
		Discount:         draft.Discount,
		Surcharge:        draft.Surcharge,
		Notes:            draft.Notes,
		Status:           domain.OrderStatusPending,
		Active:           true,
	}
	if order.IssueDate.IsZero() {
		order.IssueDate = time.Now()
	}
	if order.FreightType == "" {
		order.FreightType = domain.FreightNone
	}

	items, err := s.resolveItems(ctx, draft.Items)
	if err != nil {
		return nil, err
	}
	installments, err := s.resolveInstallments(ctx, draft.Installments)
	if err != nil {
		return nil, err
	}
	order.Items = items
	order.Installments = installments

	if err := aggregate(order); err != nil {
		s.logger.Error("Aggregate order", zap.Error(err))
		return nil, domain.ErrInternal
	}

	created, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		if errors.Is(err, domain.ErrConflictingData) {
			return nil, domain.ErrOrderExists
		}
		s.logger.Error("Create order", zap.Error(err))
		return nil, err
	}

	return created, nil
}

func (s *Service) UpdateOrder(ctx context.Context, family domain.OrderFamily, id uint64, patch *domain.OrderPatch) (*domain.Order, error) {
	if !family.Valid() {
		return nil, domain.ErrUnknownOrderFamily
	}

	order, err := s.repo.ReadOrder(ctx, family, id)
	if err != nil {
		return nil, err
	}

	applyPatch(order, patch)

	if patch.Items != nil {
		items, err := s.resolveItems(ctx, patch.Items)
		if err != nil {
			return nil, err
		}
		order.Items = items
	}
	if patch.Installments != nil {
		installments, err := s.resolveInstallments(ctx, patch.Installments)
		if err != nil {
			return nil, err
		}
		order.Installments = installments
	}

	// Totals and apportionment depend on both children and header charges,
	// so they are recomputed on every update. Children rows are rewritten
	// whenever either side of that computation changed.
	if err := aggregate(order); err != nil {
		s.logger.Error("Aggregate order", zap.Error(err))
		return nil, domain.ErrInternal
	}
	replaceChildren := patch.Items != nil || patch.Installments != nil ||
		patch.Freight != nil || patch.Insurance != nil || patch.OtherCharges != nil

	updated, err := s.repo.UpdateOrder(ctx, order, replaceChildren)
	if err != nil {
		if errors.Is(err, domain.ErrConflictingData) {
			return nil, domain.ErrOrderExists
		}
		s.logger.Error("Update order", zap.Error(err))
		return nil, err
	}

	return updated, nil
}

func (s *Service) GetOrder(ctx context.Context, family domain.OrderFamily, id uint64) (*domain.Order, error) {
	if !family.Valid() {
		return nil, domain.ErrUnknownOrderFamily
	}
	return s.repo.ReadOrder(ctx, family, id)
}

func (s *Service) ListOrders(ctx context.Context, family domain.OrderFamily, status *domain.OrderStatus) ([]*domain.Order, error) {
	if !family.Valid() {
		return nil, domain.ErrUnknownOrderFamily
	}
	list, err := s.repo.ListOrders(ctx, family, status)
	if err != nil {
		s.logger.Error("List orders", zap.Error(err))
		return nil, err
	}
	return list, nil
}

// DeleteOrder soft-deletes an order that owns children and hard-deletes
// an empty one. The choice is made by the repository inside the same
// transaction that inspects the children.
func (s *Service) DeleteOrder(ctx context.Context, family domain.OrderFamily, id uint64) error {
	if !family.Valid() {
		return domain.ErrUnknownOrderFamily
	}
	return s.repo.DeleteOrder(ctx, family, id)
}

func (s *Service) CheckDuplicate(ctx context.Context, family domain.OrderFamily,
	number, model, series string, counterpartyID uint64) (bool, error) {
	if !family.Valid() {
		return false, domain.ErrUnknownOrderFamily
	}
	return s.repo.OrderExists(ctx, family, number, model, series, counterpartyID)
}

// Approve moves an order to APPROVED, recording the acting employee and
// the transition time. With no actor supplied the first active employee
// by id is the fallback approver.
func (s *Service) Approve(ctx context.Context, family domain.OrderFamily, id uint64, actorID *uint64) (*domain.Order, error) {
	if !family.Valid() {
		return nil, domain.ErrUnknownOrderFamily
	}

	order, err := s.repo.ReadOrder(ctx, family, id)
	if err != nil {
		return nil, err
	}

	var actor uint64
	if actorID != nil {
		employee, err := s.repo.GetEmployee(ctx, *actorID)
		if err != nil {
			if errors.Is(err, domain.ErrDataNotFound) {
				return nil, domain.ErrEmployeeNotFound
			}
			return nil, err
		}
		if !employee.Active {
			return nil, domain.ErrEmployeeNotFound
		}
		actor = employee.ID
	} else {
		employees, err := s.repo.ListActiveEmployees(ctx)
		if err != nil {
			s.logger.Error("List active employees", zap.Error(err))
			return nil, err
		}
		if len(employees) == 0 {
			return nil, domain.ErrNoActiveEmployee
		}
		actor = employees[0].ID
	}

	now := time.Now()
	err = s.repo.UpdateOrderStatus(ctx, family, id,
		domain.OrderStatusApproved, &actor, &now, order.Notes)
	if err != nil {
		s.logger.Error("Approve order", zap.Error(err))
		return nil, err
	}

	return s.repo.ReadOrder(ctx, family, id)
}

// Deny moves an order to CANCELLED and appends the denial note to the
// existing notes, never overwriting them. Installment sums are not
// cross-checked against the total anywhere in the engine, and terminal
// states are not guarded against re-transition.
func (s *Service) Deny(ctx context.Context, family domain.OrderFamily, id uint64, reason string) (*domain.Order, error) {
	if !family.Valid() {
		return nil, domain.ErrUnknownOrderFamily
	}

	order, err := s.repo.ReadOrder(ctx, family, id)
	if err != nil {
		return nil, err
	}

	note := family.Descriptor().DefaultDenyNote
	if reason != "" {
		note = "Negado: " + reason
	}
	notes := order.Notes
	if notes != "" {
		notes = notes + " | " + note
	} else {
		notes = note
	}

	err = s.repo.UpdateOrderStatus(ctx, family, id,
		domain.OrderStatusCancelled, order.ApprovedBy, order.ApprovedAt, notes)
	if err != nil {
		s.logger.Error("Deny order", zap.Error(err))
		return nil, err
	}

	return s.repo.ReadOrder(ctx, family, id)
}

func (s *Service) IssueActorToken(ctx context.Context, employeeID uint64) (string, error) {
	employee, err := s.repo.GetEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return "", domain.ErrEmployeeNotFound
		}
		return "", err
	}
	if !employee.Active {
		return "", domain.ErrEmployeeNotFound
	}

	token, err := s.tokenService.CreateToken(employee)
	if err != nil {
		s.logger.Error("Create token", zap.Error(err))
		return "", domain.ErrTokenCreation
	}
	return token, nil
}

func (s *Service) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *Service) ListPaymentMethods(ctx context.Context) ([]*domain.PaymentMethod, error) {
	return s.repo.ListPaymentMethods(ctx)
}

func (s *Service) ListActiveEmployees(ctx context.Context) ([]*domain.Employee, error) {
	return s.repo.ListActiveEmployees(ctx)
}

func (s *Service) resolveItems(ctx context.Context, drafts []domain.ItemDraft) ([]domain.OrderItem, error) {
	items := make([]domain.OrderItem, 0, len(drafts))
	for _, draft := range drafts {
		product, err := s.repo.GetProduct(ctx, draft.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrDataNotFound) {
				return nil, domain.ErrProductNotFound
			}
			return nil, err
		}
		item, err := resolveItem(draft, product)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *Service) resolveInstallments(ctx context.Context, drafts []domain.InstallmentDraft) ([]domain.OrderInstallment, error) {
	installments := make([]domain.OrderInstallment, 0, len(drafts))
	for i, draft := range drafts {
		method, err := s.repo.GetPaymentMethod(ctx, draft.PaymentMethodID)
		if err != nil {
			if errors.Is(err, domain.ErrDataNotFound) {
				return nil, domain.ErrPaymentMethodNotFound
			}
			return nil, err
		}
		installments = append(installments, resolveInstallment(i+1, draft, method))
	}
	return installments, nil
}

func applyPatch(order *domain.Order, patch *domain.OrderPatch) {
	if patch.Number != nil {
		order.Number = *patch.Number
	}
	if patch.Model != nil {
		order.Model = *patch.Model
	}
	if patch.Series != nil {
		order.Series = *patch.Series
	}
	if patch.CounterpartyID != nil {
		order.CounterpartyID = *patch.CounterpartyID
	}
	if patch.IssueDate != nil {
		order.IssueDate = *patch.IssueDate
	}
	if patch.ExpectedDelivery != nil {
		order.ExpectedDelivery = patch.ExpectedDelivery
	}
	if patch.RealizedDelivery != nil {
		order.RealizedDelivery = patch.RealizedDelivery
	}
	if patch.PaymentTermID != nil {
		order.PaymentTermID = patch.PaymentTermID
	}
	if patch.EmployeeID != nil {
		order.EmployeeID = patch.EmployeeID
	}
	if patch.CarrierID != nil {
		order.CarrierID = patch.CarrierID
	}
	if patch.FreightType != nil {
		order.FreightType = *patch.FreightType
	}
	if patch.Freight != nil {
		order.Freight = *patch.Freight
	}
	if patch.Insurance != nil {
		order.Insurance = *patch.Insurance
	}
	if patch.OtherCharges != nil {
		order.OtherCharges = *patch.OtherCharges
	}
	if patch.Discount != nil {
		order.Discount = *patch.Discount
	}
	if patch.Surcharge != nil {
		order.Surcharge = *patch.Surcharge
	}
	if patch.Notes != nil {
		order.Notes = *patch.Notes
	}
}
