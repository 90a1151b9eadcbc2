package service_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Victor-cmda/serveon-sub001/internal/adapter/auth"
	"github.com/Victor-cmda/serveon-sub001/internal/adapter/config"
	"github.com/Victor-cmda/serveon-sub001/internal/adapter/storage"
	"github.com/Victor-cmda/serveon-sub001/internal/adapter/storage/repository"
	"github.com/Victor-cmda/serveon-sub001/internal/core/domain"
	"github.com/Victor-cmda/serveon-sub001/internal/core/port"
	"github.com/Victor-cmda/serveon-sub001/internal/core/service"
	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// Tests here run against a real PostgreSQL pointed to by TEST_DATABASE_URI
// and are skipped otherwise. Each run migrates and reseeds the reference
// tables, so a throwaway database is expected.
func getDeps(t *testing.T) (*storage.DB, port.Repository, port.TokenService) {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URI")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URI is not set")
	}

	ctx := context.Background()

	db, err := storage.NewDBStorage(ctx, &config.Database{DSN: dsn})
	assert.NoError(t, err)
	err = db.RunMigrations()
	assert.NoError(t, err)

	seed := []string{
		`truncate sales_order_items, sales_order_installments, sales_orders,
		 purchase_order_items, purchase_order_installments, purchase_orders,
		 customers, suppliers, employees, products, payment_methods
		 restart identity cascade`,
		`insert into customers (name) values ('ACME Ltda')`,
		`insert into suppliers (name) values ('Fornecedora SA')`,
		`insert into employees (name, active) values ('Ana', true), ('Bruno', false)`,
		`insert into products (code, name, unit) values ('P-001', 'Parafuso', 'UN')`,
		`insert into payment_methods (name) values ('Boleto')`,
	}
	for _, stmt := range seed {
		_, err = db.Exec(ctx, stmt)
		assert.NoError(t, err)
	}

	repo, err := repository.NewRepository(db)
	assert.NoError(t, err)
	ts, err := auth.New()
	assert.NoError(t, err)

	return db, repo, ts
}

func TestServiceDB_OrderLifecycle(t *testing.T) {
	_, repo, ts := getDeps(t)

	logger, _ := zap.NewProduction()
	s, err := service.NewService(repo, ts, logger)
	assert.NoError(t, err)

	ctx := context.Background()

	draft := &domain.OrderDraft{
		Number:         "125",
		Model:          "55",
		Series:         "1",
		CounterpartyID: 1,
		Freight:        decimal.MustParse("12"),
		Items: []domain.ItemDraft{
			{
				ProductID:    1,
				Quantity:     decimal.MustParse("3"),
				UnitPrice:    decimal.MustParse("20"),
				UnitDiscount: decimal.MustParse("2"),
			},
			{
				ProductID: 1,
				Quantity:  decimal.MustParse("1"),
				UnitPrice: decimal.MustParse("36"),
			},
		},
		Installments: []domain.InstallmentDraft{
			{
				PaymentMethodID: 1,
				DueDate:         time.Now().AddDate(0, 1, 0),
				Amount:          decimal.MustParse("102"),
			},
		},
	}

	created, err := s.CreateOrder(ctx, domain.FamilySales, draft)
	assert.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, domain.OrderStatusPending, created.Status)
	// the create response carries joined names, same shape as a read
	assert.Equal(t, "ACME Ltda", created.CounterpartyName)
	// 3*(20-2) + 36 = 90 subtotal, plus 12 freight
	assert.Zero(t, decimal.MustParse("90").Cmp(created.ProductSubtotal))
	assert.Zero(t, decimal.MustParse("102").Cmp(created.GrandTotal))

	loaded, err := s.GetOrder(ctx, domain.FamilySales, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, "125", loaded.Number)
	assert.Equal(t, "ACME Ltda", loaded.CounterpartyName)
	assert.Len(t, loaded.Items, 2)
	assert.Len(t, loaded.Installments, 1)
	// freight split 54:36 over the two lines
	assert.Zero(t, decimal.MustParse("7.20").Cmp(loaded.Items[0].ApportionedCost))
	assert.Zero(t, decimal.MustParse("4.80").Cmp(loaded.Items[1].ApportionedCost))

	_, err = s.CreateOrder(ctx, domain.FamilySales, draft)
	assert.Equal(t, domain.ErrOrderExists, err)

	exists, err := s.CheckDuplicate(ctx, domain.FamilySales, "125", "55", "1", 1)
	assert.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.CheckDuplicate(ctx, domain.FamilySales, "126", "55", "1", 1)
	assert.NoError(t, err)
	assert.False(t, exists)

	approved, err := s.Approve(ctx, domain.FamilySales, created.ID, nil)
	assert.NoError(t, err)
	assert.Equal(t, domain.OrderStatusApproved, approved.Status)
	assert.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, uint64(1), *approved.ApprovedBy)

	denied, err := s.Deny(ctx, domain.FamilySales, created.ID, "cliente desistiu")
	assert.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, denied.Status)
	assert.Equal(t, "Negado: cliente desistiu", denied.Notes)

	// order owns children, so delete only deactivates it
	err = s.DeleteOrder(ctx, domain.FamilySales, created.ID)
	assert.NoError(t, err)

	_, err = s.GetOrder(ctx, domain.FamilySales, created.ID)
	assert.Equal(t, domain.ErrDataNotFound, err)

	// natural key is free again once the holder is inactive
	exists, err = s.CheckDuplicate(ctx, domain.FamilySales, "125", "55", "1", 1)
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestServiceDB_NumberAllocation(t *testing.T) {
	_, repo, ts := getDeps(t)

	logger, _ := zap.NewProduction()
	s, err := service.NewService(repo, ts, logger)
	assert.NoError(t, err)

	ctx := context.Background()

	first, err := s.CreateOrder(ctx, domain.FamilyPurchases, &domain.OrderDraft{CounterpartyID: 1})
	assert.NoError(t, err)
	assert.Equal(t, "1", first.Number)

	_, err = s.CreateOrder(ctx, domain.FamilyPurchases, &domain.OrderDraft{
		Number:         "7",
		CounterpartyID: 1,
	})
	assert.NoError(t, err)

	next, err := s.CreateOrder(ctx, domain.FamilyPurchases, &domain.OrderDraft{CounterpartyID: 1})
	assert.NoError(t, err)
	assert.Equal(t, "8", next.Number)

	// the sales sequence is independent from purchases
	sales, err := s.CreateOrder(ctx, domain.FamilySales, &domain.OrderDraft{CounterpartyID: 1})
	assert.NoError(t, err)
	assert.Equal(t, "1", sales.Number)
}

func TestRepositoryDB_CreateOrderRollsBackOnChildFailure(t *testing.T) {
	db, repo, _ := getDeps(t)

	ctx := context.Background()

	// header and item insert fine; the installment's payment method does
	// not exist, so its FK fails after both
	order := &domain.Order{
		Family:         domain.FamilySales,
		Number:         "300",
		CounterpartyID: 1,
		IssueDate:      time.Now(),
		FreightType:    domain.FreightNone,
		Status:         domain.OrderStatusPending,
		Active:         true,
		Items: []domain.OrderItem{
			{
				ProductID:   1,
				ProductCode: "P-001",
				ProductName: "Parafuso",
				Unit:        "UN",
				Quantity:    decimal.One,
				UnitPrice:   decimal.MustParse("10"),
				UnitNet:     decimal.MustParse("10"),
				LineTotal:   decimal.MustParse("10"),
			},
		},
		Installments: []domain.OrderInstallment{
			{
				Number:          1,
				PaymentMethodID: 999,
				DueDate:         time.Now(),
				Amount:          decimal.MustParse("10"),
			},
		},
	}

	_, err := repo.CreateOrder(ctx, order)
	assert.Error(t, err)

	for _, table := range []string{"sales_orders", "sales_order_items", "sales_order_installments"} {
		var count int
		err := db.QueryRow(ctx, "select count(*) from "+table).Scan(&count)
		assert.NoError(t, err)
		assert.Zero(t, count, table)
	}
}

func TestRepositoryDB_CreateOrderNaturalKeyConflict(t *testing.T) {
	_, repo, _ := getDeps(t)

	ctx := context.Background()

	newOrder := func() *domain.Order {
		return &domain.Order{
			Family:         domain.FamilySales,
			Number:         "77",
			Model:          "55",
			Series:         "1",
			CounterpartyID: 1,
			IssueDate:      time.Now(),
			FreightType:    domain.FreightNone,
			Status:         domain.OrderStatusPending,
			Active:         true,
		}
	}

	first, err := repo.CreateOrder(ctx, newOrder())
	assert.NoError(t, err)
	assert.NotZero(t, first.ID)

	// same natural key straight at the repository: the partial unique
	// index rejects it, translated to the conflict sentinel
	_, err = repo.CreateOrder(ctx, newOrder())
	assert.Equal(t, domain.ErrConflictingData, err)
}

func TestServiceDB_UpdateOrderRewritesChildren(t *testing.T) {
	_, repo, ts := getDeps(t)

	logger, _ := zap.NewProduction()
	s, err := service.NewService(repo, ts, logger)
	assert.NoError(t, err)

	ctx := context.Background()

	created, err := s.CreateOrder(ctx, domain.FamilySales, &domain.OrderDraft{
		CounterpartyID: 1,
		Items: []domain.ItemDraft{
			{
				ProductID: 1,
				Quantity:  decimal.MustParse("2"),
				UnitPrice: decimal.MustParse("10"),
			},
		},
	})
	assert.NoError(t, err)
	assert.Zero(t, decimal.MustParse("20").Cmp(created.GrandTotal))

	freight := decimal.MustParse("5")
	updated, err := s.UpdateOrder(ctx, domain.FamilySales, created.ID, &domain.OrderPatch{
		Freight: &freight,
	})
	assert.NoError(t, err)
	assert.Zero(t, decimal.MustParse("25").Cmp(updated.GrandTotal))
	assert.Zero(t, decimal.MustParse("5").Cmp(updated.Items[0].ApportionedCost))

	updated, err = s.UpdateOrder(ctx, domain.FamilySales, created.ID, &domain.OrderPatch{
		Items: []domain.ItemDraft{
			{
				ProductID: 1,
				Quantity:  decimal.MustParse("4"),
				UnitPrice: decimal.MustParse("10"),
			},
		},
	})
	assert.NoError(t, err)
	assert.Len(t, updated.Items, 1)
	assert.Zero(t, decimal.MustParse("45").Cmp(updated.GrandTotal))
}
