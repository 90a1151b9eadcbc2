package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/Victor-cmda/serveon-sub001/internal/core/domain"
	"github.com/Victor-cmda/serveon-sub001/internal/core/port/mock"
	"github.com/Victor-cmda/serveon-sub001/internal/core/service"
	"github.com/golang/mock/gomock"
	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type prepareMocks func(repo *mock.MockRepository)

func TestService_CreateOrder(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger, _ := zap.NewProduction()

	product := domain.Product{ID: 7, Code: "P-007", Name: "Steel bracket", Unit: "UN"}
	method := domain.PaymentMethod{ID: 2, Name: "Boleto"}

	goodDraft := func() *domain.OrderDraft {
		return &domain.OrderDraft{
			Number:         "125",
			Model:          "55",
			Series:         "1",
			CounterpartyID: 1,
			Freight:        decimal.MustParse("10"),
			Items: []domain.ItemDraft{
				{
					ProductID:    7,
					Quantity:     decimal.MustParse("2"),
					UnitPrice:    decimal.MustParse("50"),
					UnitDiscount: decimal.MustParse("5"),
				},
			},
			Installments: []domain.InstallmentDraft{
				{
					PaymentMethodID: 2,
					DueDate:         time.Now().AddDate(0, 1, 0),
					Amount:          decimal.MustParse("100"),
				},
			},
		}
	}

	type createOrderTest struct {
		name     string
		family   domain.OrderFamily
		draft    *domain.OrderDraft
		mock     prepareMocks
		expError error
		check    func(t *testing.T, order *domain.Order)
	}

	tests := []createOrderTest{
		{
			name:   "Create good order",
			family: domain.FamilySales,
			draft:  goodDraft(),
			mock: func(repo *mock.MockRepository) {
				repo.EXPECT().OrderExists(gomock.Any(), domain.FamilySales, "125", "55", "1", uint64(1)).
					Return(false, nil)
				repo.EXPECT().GetProduct(gomock.Any(), uint64(7)).Return(&product, nil)
				repo.EXPECT().GetPaymentMethod(gomock.Any(), uint64(2)).Return(&method, nil)
				repo.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, order *domain.Order) (*domain.Order, error) {
						order.ID = 1
						return order, nil
					})
			},
			check: func(t *testing.T, order *domain.Order) {
				assert.Equal(t, domain.OrderStatusPending, order.Status)
				assert.True(t, order.Active)
				assert.Equal(t, "P-007", order.Items[0].ProductCode)
				// 2 * (50 - 5)
				assert.Zero(t, decimal.MustParse("90").Cmp(order.ProductSubtotal))
				// 90 + 10 freight
				assert.Zero(t, decimal.MustParse("100").Cmp(order.GrandTotal))
				// single line takes all the freight
				assert.Zero(t, decimal.MustParse("10").Cmp(order.Items[0].ApportionedCost))
				assert.Equal(t, 1, order.Installments[0].Number)
				assert.Equal(t, "Boleto", order.Installments[0].PaymentMethodName)
			},
		},
		{
			name:   "Duplicate natural key rejected before any write",
			family: domain.FamilySales,
			draft:  goodDraft(),
			mock: func(repo *mock.MockRepository) {
				repo.EXPECT().OrderExists(gomock.Any(), domain.FamilySales, "125", "55", "1", uint64(1)).
					Return(true, nil)
			},
			expError: domain.ErrOrderExists,
		},
		{
			name:   "Referenced product missing",
			family: domain.FamilyPurchases,
			draft:  goodDraft(),
			mock: func(repo *mock.MockRepository) {
				repo.EXPECT().OrderExists(gomock.Any(), domain.FamilyPurchases, "125", "55", "1", uint64(1)).
					Return(false, nil)
				repo.EXPECT().GetProduct(gomock.Any(), uint64(7)).
					Return(nil, domain.ErrDataNotFound)
			},
			expError: domain.ErrProductNotFound,
		},
		{
			name:   "Discount exceeding price rejected before any write",
			family: domain.FamilySales,
			draft: &domain.OrderDraft{
				Number:         "200",
				CounterpartyID: 1,
				Items: []domain.ItemDraft{
					{
						ProductID:    7,
						Quantity:     decimal.MustParse("1"),
						UnitPrice:    decimal.MustParse("10"),
						UnitDiscount: decimal.MustParse("11"),
					},
				},
			},
			mock: func(repo *mock.MockRepository) {
				repo.EXPECT().OrderExists(gomock.Any(), domain.FamilySales, "200", "", "", uint64(1)).
					Return(false, nil)
				repo.EXPECT().GetProduct(gomock.Any(), uint64(7)).Return(&product, nil)
			},
			expError: domain.ErrItemDiscountExceedsPrice,
		},
		{
			name:     "Missing counterparty",
			family:   domain.FamilySales,
			draft:    &domain.OrderDraft{Number: "10"},
			mock:     func(repo *mock.MockRepository) {},
			expError: domain.ErrMissingCounterparty,
		},
		{
			name:   "Allocator race surfaces as duplicate",
			family: domain.FamilySales,
			draft: &domain.OrderDraft{
				CounterpartyID: 1,
			},
			mock: func(repo *mock.MockRepository) {
				repo.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).
					Return(nil, domain.ErrConflictingData)
			},
			expError: domain.ErrOrderExists,
		},
		{
			name:     "Unknown family",
			family:   domain.OrderFamily("rentals"),
			draft:    goodDraft(),
			mock:     func(repo *mock.MockRepository) {},
			expError: domain.ErrUnknownOrderFamily,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			repo := mock.NewMockRepository(mockCtrl)
			ts := mock.NewMockTokenService(mockCtrl)
			test.mock(repo)

			s, err := service.NewService(repo, ts, logger)
			assert.NoError(t, err)

			result, err := s.CreateOrder(context.Background(), test.family, test.draft)

			assert.Equal(t, test.expError, err)
			if test.check != nil {
				assert.NotNil(t, result)
				test.check(t, result)
			}
		})
	}
}

func TestService_Approve(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger, _ := zap.NewProduction()

	pendingOrder := domain.Order{
		ID:     5,
		Family: domain.FamilySales,
		Number: "5",
		Status: domain.OrderStatusPending,
	}
	actor := uint64(7)
	now := time.Now()
	approvedOrder := domain.Order{
		ID:         5,
		Family:     domain.FamilySales,
		Number:     "5",
		Status:     domain.OrderStatusApproved,
		ApprovedBy: &actor,
		ApprovedAt: &now,
	}

	type approveTest struct {
		name     string
		actorID  *uint64
		mock     prepareMocks
		expError error
		check    func(t *testing.T, order *domain.Order)
	}

	tests := []approveTest{
		{
			name:    "Default actor resolved from first active employee",
			actorID: nil,
			mock: func(repo *mock.MockRepository) {
				repo.EXPECT().ReadOrder(gomock.Any(), domain.FamilySales, uint64(5)).
					Return(&pendingOrder, nil)
				repo.EXPECT().ListActiveEmployees(gomock.Any()).
					Return([]*domain.Employee{{ID: 7, Name: "Ana", Active: true}}, nil)
				repo.EXPECT().UpdateOrderStatus(gomock.Any(), domain.FamilySales, uint64(5),
					domain.OrderStatusApproved, &actor, gomock.Any(), "").
					Return(nil)
				repo.EXPECT().ReadOrder(gomock.Any(), domain.FamilySales, uint64(5)).
					Return(&approvedOrder, nil)
			},
			check: func(t *testing.T, order *domain.Order) {
				assert.Equal(t, domain.OrderStatusApproved, order.Status)
				assert.Equal(t, uint64(7), *order.ApprovedBy)
			},
		},
		{
			name:    "Supplied actor inactive",
			actorID: &actor,
			mock: func(repo *mock.MockRepository) {
				repo.EXPECT().ReadOrder(gomock.Any(), domain.FamilySales, uint64(5)).
					Return(&pendingOrder, nil)
				repo.EXPECT().GetEmployee(gomock.Any(), uint64(7)).
					Return(&domain.Employee{ID: 7, Name: "Ana", Active: false}, nil)
			},
			expError: domain.ErrEmployeeNotFound,
		},
		{
			name:    "No active employee for default approval",
			actorID: nil,
			mock: func(repo *mock.MockRepository) {
				repo.EXPECT().ReadOrder(gomock.Any(), domain.FamilySales, uint64(5)).
					Return(&pendingOrder, nil)
				repo.EXPECT().ListActiveEmployees(gomock.Any()).
					Return([]*domain.Employee{}, nil)
			},
			expError: domain.ErrNoActiveEmployee,
		},
		{
			name:    "Order not found",
			actorID: nil,
			mock: func(repo *mock.MockRepository) {
				repo.EXPECT().ReadOrder(gomock.Any(), domain.FamilySales, uint64(5)).
					Return(nil, domain.ErrDataNotFound)
			},
			expError: domain.ErrDataNotFound,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			repo := mock.NewMockRepository(mockCtrl)
			ts := mock.NewMockTokenService(mockCtrl)
			test.mock(repo)

			s, err := service.NewService(repo, ts, logger)
			assert.NoError(t, err)

			result, err := s.Approve(context.Background(), domain.FamilySales, 5, test.actorID)

			assert.Equal(t, test.expError, err)
			if test.check != nil {
				assert.NotNil(t, result)
				test.check(t, result)
			}
		})
	}
}

func TestService_Deny(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger, _ := zap.NewProduction()

	type denyTest struct {
		name     string
		family   domain.OrderFamily
		reason   string
		notes    string
		expNotes string
	}

	tests := []denyTest{
		{
			name:     "Default note without reason",
			family:   domain.FamilySales,
			reason:   "",
			notes:    "",
			expNotes: "Venda negada",
		},
		{
			name:     "Purchases default note",
			family:   domain.FamilyPurchases,
			reason:   "",
			notes:    "",
			expNotes: "Compra negada",
		},
		{
			name:     "Reason appended to existing notes",
			family:   domain.FamilySales,
			reason:   "B",
			notes:    "Negado: A",
			expNotes: "Negado: A | Negado: B",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			repo := mock.NewMockRepository(mockCtrl)
			ts := mock.NewMockTokenService(mockCtrl)

			order := domain.Order{
				ID:     9,
				Family: test.family,
				Notes:  test.notes,
				Status: domain.OrderStatusPending,
			}
			denied := order
			denied.Status = domain.OrderStatusCancelled
			denied.Notes = test.expNotes

			repo.EXPECT().ReadOrder(gomock.Any(), test.family, uint64(9)).
				Return(&order, nil)
			repo.EXPECT().UpdateOrderStatus(gomock.Any(), test.family, uint64(9),
				domain.OrderStatusCancelled, gomock.Nil(), gomock.Nil(), test.expNotes).
				Return(nil)
			repo.EXPECT().ReadOrder(gomock.Any(), test.family, uint64(9)).
				Return(&denied, nil)

			s, err := service.NewService(repo, ts, logger)
			assert.NoError(t, err)

			result, err := s.Deny(context.Background(), test.family, 9, test.reason)

			assert.NoError(t, err)
			assert.Equal(t, domain.OrderStatusCancelled, result.Status)
			assert.Equal(t, test.expNotes, result.Notes)
		})
	}
}

func TestService_IssueActorToken(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger, _ := zap.NewProduction()

	type tokenTest struct {
		name     string
		mock     func(repo *mock.MockRepository, ts *mock.MockTokenService)
		expError error
		expToken string
	}

	employee := domain.Employee{ID: 4, Name: "Bruno", Active: true}

	tests := []tokenTest{
		{
			name: "Token for active employee",
			mock: func(repo *mock.MockRepository, ts *mock.MockTokenService) {
				repo.EXPECT().GetEmployee(gomock.Any(), uint64(4)).Return(&employee, nil)
				ts.EXPECT().CreateToken(&employee).Return("token", nil)
			},
			expToken: "token",
		},
		{
			name: "Inactive employee refused",
			mock: func(repo *mock.MockRepository, ts *mock.MockTokenService) {
				repo.EXPECT().GetEmployee(gomock.Any(), uint64(4)).
					Return(&domain.Employee{ID: 4, Active: false}, nil)
			},
			expError: domain.ErrEmployeeNotFound,
		},
		{
			name: "Unknown employee",
			mock: func(repo *mock.MockRepository, ts *mock.MockTokenService) {
				repo.EXPECT().GetEmployee(gomock.Any(), uint64(4)).
					Return(nil, domain.ErrDataNotFound)
			},
			expError: domain.ErrEmployeeNotFound,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			repo := mock.NewMockRepository(mockCtrl)
			ts := mock.NewMockTokenService(mockCtrl)
			test.mock(repo, ts)

			s, err := service.NewService(repo, ts, logger)
			assert.NoError(t, err)

			token, err := s.IssueActorToken(context.Background(), 4)

			assert.Equal(t, test.expError, err)
			assert.Equal(t, test.expToken, token)
		})
	}
}
