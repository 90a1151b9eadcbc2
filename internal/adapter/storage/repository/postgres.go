package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/Victor-cmda/serveon-sub001/internal/adapter/storage"
	"github.com/Victor-cmda/serveon-sub001/internal/core/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Repository struct {
	db *storage.DB
}

func NewRepository(db *storage.DB) (*Repository, error) {
	return &Repository{db: db}, nil
}

// CreateOrder persists a resolved order in one transaction: number
// allocation (when none was supplied), header, items, installments.
// Any failure rolls the whole unit back. A natural-key collision is
// reported as domain.ErrConflictingData. The committed order is re-read
// so the result carries the joined reference names.
func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	d := order.Family.Descriptor()

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if order.Number == "" {
			number, err := r.nextOrderNumber(ctx, tx, d)
			if err != nil {
				return err
			}
			order.Number = number
		}

		headerSt := r.db.QueryBuilder.
			Insert(d.OrderTable).
			Columns("number", "model", "series", d.CounterpartyColumn,
				"issue_date", "expected_delivery", "realized_delivery",
				"payment_term_id", "employee_id", "carrier_id",
				"freight_type", "freight", "insurance", "other_charges",
				"discount", "surcharge", "product_subtotal", "grand_total",
				"notes", "status", "active").
			Values(order.Number, order.Model, order.Series, order.CounterpartyID,
				order.IssueDate, order.ExpectedDelivery, order.RealizedDelivery,
				order.PaymentTermID, order.EmployeeID, order.CarrierID,
				order.FreightType, order.Freight, order.Insurance, order.OtherCharges,
				order.Discount, order.Surcharge, order.ProductSubtotal, order.GrandTotal,
				order.Notes, order.Status, order.Active).
			Suffix("RETURNING id, created_at")

		sql, args, err := headerSt.ToSql()
		if err != nil {
			return err
		}
		err = tx.QueryRow(ctx, sql, args...).Scan(&order.ID, &order.CreatedAt)
		if err != nil {
			return err
		}

		return r.insertChildren(ctx, tx, d, order)
	})
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, domain.ErrConflictingData
		}
		return nil, err
	}

	return r.ReadOrder(ctx, order.Family, order.ID)
}

// UpdateOrder rewrites the header columns of an existing order and, when
// replaceChildren is set, replaces its items and installments, all in one
// transaction.
func (r *Repository) UpdateOrder(ctx context.Context, order *domain.Order, replaceChildren bool) (*domain.Order, error) {
	d := order.Family.Descriptor()

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		headerSt := r.db.QueryBuilder.
			Update(d.OrderTable).
			SetMap(map[string]interface{}{
				"number":             order.Number,
				"model":              order.Model,
				"series":             order.Series,
				d.CounterpartyColumn: order.CounterpartyID,
				"issue_date":         order.IssueDate,
				"expected_delivery":  order.ExpectedDelivery,
				"realized_delivery":  order.RealizedDelivery,
				"payment_term_id":    order.PaymentTermID,
				"employee_id":        order.EmployeeID,
				"carrier_id":         order.CarrierID,
				"freight_type":       order.FreightType,
				"freight":            order.Freight,
				"insurance":          order.Insurance,
				"other_charges":      order.OtherCharges,
				"discount":           order.Discount,
				"surcharge":          order.Surcharge,
				"product_subtotal":   order.ProductSubtotal,
				"grand_total":        order.GrandTotal,
				"notes":              order.Notes,
			}).
			Where(sq.Eq{"id": order.ID})

		sql, args, err := headerSt.ToSql()
		if err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrDataNotFound
		}

		if !replaceChildren {
			return nil
		}

		for _, table := range []string{d.ItemTable, d.InstallmentTable} {
			deleteSt := r.db.QueryBuilder.Delete(table).Where(sq.Eq{"order_id": order.ID})
			sql, args, err := deleteSt.ToSql()
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, sql, args...); err != nil {
				return err
			}
		}

		return r.insertChildren(ctx, tx, d, order)
	})
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, domain.ErrConflictingData
		}
		return nil, err
	}

	return r.ReadOrder(ctx, order.Family, order.ID)
}

func (r *Repository) insertChildren(ctx context.Context, tx pgx.Tx, d domain.FamilyDescriptor, order *domain.Order) error {
	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		itemSt := r.db.QueryBuilder.
			Insert(d.ItemTable).
			Columns("order_id", "product_id", "product_code", "product_name", "unit",
				"quantity", "unit_price", "unit_discount", "unit_net", "line_total",
				"apportioned_cost", "unit_landed_cost", "total_landed_cost").
			Values(item.OrderID, item.ProductID, item.ProductCode, item.ProductName, item.Unit,
				item.Quantity, item.UnitPrice, item.UnitDiscount, item.UnitNet, item.LineTotal,
				item.ApportionedCost, item.UnitLandedCost, item.TotalLandedCost).
			Suffix("RETURNING id")

		sql, args, err := itemSt.ToSql()
		if err != nil {
			return err
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&item.ID); err != nil {
			return err
		}
	}

	for i := range order.Installments {
		installment := &order.Installments[i]
		installment.OrderID = order.ID
		instSt := r.db.QueryBuilder.
			Insert(d.InstallmentTable).
			Columns("order_id", "number", "payment_method_id", "payment_method_name",
				"due_date", "amount").
			Values(installment.OrderID, installment.Number, installment.PaymentMethodID,
				installment.PaymentMethodName, installment.DueDate, installment.Amount).
			Suffix("RETURNING id")

		sql, args, err := instSt.ToSql()
		if err != nil {
			return err
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&installment.ID); err != nil {
			return err
		}
	}

	return nil
}

// nextOrderNumber reads the family's existing order numbers inside the
// creating transaction and returns the next free numeric one. Concurrent
// allocations of the same number end as a unique violation on commit.
func (r *Repository) nextOrderNumber(ctx context.Context, tx pgx.Tx, d domain.FamilyDescriptor) (string, error) {
	statement := r.db.QueryBuilder.Select("number").From(d.OrderTable)

	sql, args, err := statement.ToSql()
	if err != nil {
		return "", err
	}

	rows, err := tx.Query(ctx, sql, args...)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	numbers := make([]string, 0)
	for rows.Next() {
		var number string
		if err := rows.Scan(&number); err != nil {
			return "", err
		}
		numbers = append(numbers, number)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	return domain.NextOrderNumber(numbers), nil
}

func (r *Repository) orderQuery(d domain.FamilyDescriptor) sq.SelectBuilder {
	return r.db.QueryBuilder.
		Select("o.id", "o.number", "o.model", "o.series",
			"o."+d.CounterpartyColumn, "c.name",
			"o.issue_date", "o.expected_delivery", "o.realized_delivery",
			"o.payment_term_id", "coalesce(pt.name, '')",
			"o.employee_id", "coalesce(e.name, '')",
			"o.carrier_id", "coalesce(ca.name, '')",
			"o.freight_type", "o.freight", "o.insurance", "o.other_charges",
			"o.discount", "o.surcharge", "o.product_subtotal", "o.grand_total",
			"o.notes", "o.status", "o.approved_by", "o.approved_at",
			"o.active", "o.created_at").
		From(d.OrderTable + " o").
		Join(d.CounterpartyTable + " c ON c.id = o." + d.CounterpartyColumn).
		LeftJoin("payment_terms pt ON pt.id = o.payment_term_id").
		LeftJoin("employees e ON e.id = o.employee_id").
		LeftJoin("carriers ca ON ca.id = o.carrier_id")
}

func scanOrder(row pgx.Row, order *domain.Order) error {
	return row.Scan(
		&order.ID,
		&order.Number,
		&order.Model,
		&order.Series,
		&order.CounterpartyID,
		&order.CounterpartyName,
		&order.IssueDate,
		&order.ExpectedDelivery,
		&order.RealizedDelivery,
		&order.PaymentTermID,
		&order.PaymentTermName,
		&order.EmployeeID,
		&order.EmployeeName,
		&order.CarrierID,
		&order.CarrierName,
		&order.FreightType,
		&order.Freight,
		&order.Insurance,
		&order.OtherCharges,
		&order.Discount,
		&order.Surcharge,
		&order.ProductSubtotal,
		&order.GrandTotal,
		&order.Notes,
		&order.Status,
		&order.ApprovedBy,
		&order.ApprovedAt,
		&order.Active,
		&order.CreatedAt,
	)
}

// ReadOrder reconstructs one active order with joined reference names
// and its children ordered by insertion / sequence.
func (r *Repository) ReadOrder(ctx context.Context, family domain.OrderFamily, id uint64) (*domain.Order, error) {
	d := family.Descriptor()

	statement := r.orderQuery(d).Where(sq.Eq{"o.id": id, "o.active": true})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	order := domain.Order{Family: family}
	err = scanOrder(r.db.QueryRow(ctx, sql, args...), &order)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}

	if err := r.loadChildren(ctx, d, &order); err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *Repository) ListOrders(ctx context.Context, family domain.OrderFamily, status *domain.OrderStatus) ([]*domain.Order, error) {
	d := family.Descriptor()

	statement := r.orderQuery(d).Where(sq.Eq{"o.active": true}).OrderBy("o.id")
	if status != nil {
		statement = statement.Where(sq.Eq{"o.status": *status})
	}

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Order, 0)
	for rows.Next() {
		order := domain.Order{Family: family}
		if err := scanOrder(rows, &order); err != nil {
			return nil, err
		}
		list = append(list, &order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, order := range list {
		if err := r.loadChildren(ctx, d, order); err != nil {
			return nil, err
		}
	}

	return list, nil
}

func (r *Repository) loadChildren(ctx context.Context, d domain.FamilyDescriptor, order *domain.Order) error {
	itemsSt := r.db.QueryBuilder.
		Select("id", "order_id", "product_id", "product_code", "product_name", "unit",
			"quantity", "unit_price", "unit_discount", "unit_net", "line_total",
			"apportioned_cost", "unit_landed_cost", "total_landed_cost").
		From(d.ItemTable).
		Where(sq.Eq{"order_id": order.ID}).
		OrderBy("id")

	sql, args, err := itemsSt.ToSql()
	if err != nil {
		return err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	order.Items = make([]domain.OrderItem, 0)
	for rows.Next() {
		item := domain.OrderItem{}
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductCode,
			&item.ProductName,
			&item.Unit,
			&item.Quantity,
			&item.UnitPrice,
			&item.UnitDiscount,
			&item.UnitNet,
			&item.LineTotal,
			&item.ApportionedCost,
			&item.UnitLandedCost,
			&item.TotalLandedCost,
		)
		if err != nil {
			return err
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	instSt := r.db.QueryBuilder.
		Select("id", "order_id", "number", "payment_method_id", "payment_method_name",
			"due_date", "amount").
		From(d.InstallmentTable).
		Where(sq.Eq{"order_id": order.ID}).
		OrderBy("number")

	sql, args, err = instSt.ToSql()
	if err != nil {
		return err
	}

	rows, err = r.db.Query(ctx, sql, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	order.Installments = make([]domain.OrderInstallment, 0)
	for rows.Next() {
		installment := domain.OrderInstallment{}
		err := rows.Scan(
			&installment.ID,
			&installment.OrderID,
			&installment.Number,
			&installment.PaymentMethodID,
			&installment.PaymentMethodName,
			&installment.DueDate,
			&installment.Amount,
		)
		if err != nil {
			return err
		}
		order.Installments = append(order.Installments, installment)
	}

	return rows.Err()
}

// DeleteOrder soft-deletes an order that still owns children by flipping
// its active flag; an order with no children is removed outright.
func (r *Repository) DeleteOrder(ctx context.Context, family domain.OrderFamily, id uint64) error {
	d := family.Descriptor()

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var children int
		countSQL := "SELECT (SELECT count(*) FROM " + d.ItemTable + " WHERE order_id = $1)" +
			" + (SELECT count(*) FROM " + d.InstallmentTable + " WHERE order_id = $1)"
		if err := tx.QueryRow(ctx, countSQL, id).Scan(&children); err != nil {
			return err
		}

		var statement sq.Sqlizer
		if children > 0 {
			statement = r.db.QueryBuilder.
				Update(d.OrderTable).
				Set("active", false).
				Where(sq.Eq{"id": id, "active": true})
		} else {
			statement = r.db.QueryBuilder.
				Delete(d.OrderTable).
				Where(sq.Eq{"id": id, "active": true})
		}

		sql, args, err := statement.ToSql()
		if err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrDataNotFound
		}
		return nil
	})
}

// OrderExists reports whether an active order already carries the
// natural key (number, model, series, counterparty).
func (r *Repository) OrderExists(ctx context.Context, family domain.OrderFamily,
	number, model, series string, counterpartyID uint64) (bool, error) {
	d := family.Descriptor()

	statement := r.db.QueryBuilder.
		Select("1").
		From(d.OrderTable).
		Where(sq.Eq{
			"number":             number,
			"model":              model,
			"series":             series,
			d.CounterpartyColumn: counterpartyID,
			"active":             true,
		}).
		Limit(1)

	sql, args, err := statement.ToSql()
	if err != nil {
		return false, err
	}

	var one int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&one)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// UpdateOrderStatus mutates only the approval columns and notes.
func (r *Repository) UpdateOrderStatus(ctx context.Context, family domain.OrderFamily, id uint64,
	status domain.OrderStatus, approvedBy *uint64, approvedAt *time.Time, notes string) error {
	d := family.Descriptor()

	statement := r.db.QueryBuilder.
		Update(d.OrderTable).
		SetMap(map[string]interface{}{
			"status":      status,
			"approved_by": approvedBy,
			"approved_at": approvedAt,
			"notes":       notes,
		}).
		Where(sq.Eq{"id": id, "active": true})

	sql, args, err := statement.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDataNotFound
	}
	return nil
}

func (r *Repository) GetProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	statement := r.db.QueryBuilder.
		Select("id", "code", "name", "unit").
		From("products").
		Where(sq.Eq{"id": id})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	product := domain.Product{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&product.ID, &product.Code, &product.Name, &product.Unit)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *Repository) GetPaymentMethod(ctx context.Context, id uint64) (*domain.PaymentMethod, error) {
	statement := r.db.QueryBuilder.
		Select("id", "name").
		From("payment_methods").
		Where(sq.Eq{"id": id})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	method := domain.PaymentMethod{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&method.ID, &method.Name)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}
	return &method, nil
}

func (r *Repository) GetEmployee(ctx context.Context, id uint64) (*domain.Employee, error) {
	statement := r.db.QueryBuilder.
		Select("id", "name", "active").
		From("employees").
		Where(sq.Eq{"id": id})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	employee := domain.Employee{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&employee.ID, &employee.Name, &employee.Active)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}
	return &employee, nil
}

func (r *Repository) ListActiveEmployees(ctx context.Context) ([]*domain.Employee, error) {
	statement := r.db.QueryBuilder.
		Select("id", "name", "active").
		From("employees").
		Where(sq.Eq{"active": true}).
		OrderBy("id")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Employee, 0)
	for rows.Next() {
		employee := domain.Employee{}
		if err := rows.Scan(&employee.ID, &employee.Name, &employee.Active); err != nil {
			return nil, err
		}
		list = append(list, &employee)
	}
	return list, rows.Err()
}

func (r *Repository) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	statement := r.db.QueryBuilder.
		Select("id", "code", "name", "unit").
		From("products").
		OrderBy("id")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Product, 0)
	for rows.Next() {
		product := domain.Product{}
		if err := rows.Scan(&product.ID, &product.Code, &product.Name, &product.Unit); err != nil {
			return nil, err
		}
		list = append(list, &product)
	}
	return list, rows.Err()
}

func (r *Repository) ListPaymentMethods(ctx context.Context) ([]*domain.PaymentMethod, error) {
	statement := r.db.QueryBuilder.
		Select("id", "name").
		From("payment_methods").
		OrderBy("id")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.PaymentMethod, 0)
	for rows.Next() {
		method := domain.PaymentMethod{}
		if err := rows.Scan(&method.ID, &method.Name); err != nil {
			return nil, err
		}
		list = append(list, &method)
	}
	return list, rows.Err()
}
