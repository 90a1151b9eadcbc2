package service

import (
	"fmt"

	"github.com/Victor-cmda/serveon-sub001/internal/core/domain"
	"github.com/govalues/decimal"
)

// resolveItem validates one submitted line against its resolved product
// and computes the derived per-line amounts. Apportioned and landed costs
// are filled in later by aggregate, once the order-level charges are known.
func resolveItem(draft domain.ItemDraft, product *domain.Product) (domain.OrderItem, error) {
	if draft.Quantity.Cmp(decimal.Zero) <= 0 {
		return domain.OrderItem{}, domain.ErrItemQuantityNotPositive
	}
	if draft.UnitDiscount.Cmp(draft.UnitPrice) > 0 {
		return domain.OrderItem{}, domain.ErrItemDiscountExceedsPrice
	}

	unitNet, err := draft.UnitPrice.Sub(draft.UnitDiscount)
	if err != nil {
		return domain.OrderItem{}, fmt.Errorf("math error:%w", err)
	}
	lineTotal, err := unitNet.Mul(draft.Quantity)
	if err != nil {
		return domain.OrderItem{}, fmt.Errorf("math error:%w", err)
	}

	return domain.OrderItem{
		ProductID:       product.ID,
		ProductCode:     product.Code,
		ProductName:     product.Name,
		Unit:            product.Unit,
		Quantity:        draft.Quantity,
		UnitPrice:       draft.UnitPrice,
		UnitDiscount:    draft.UnitDiscount,
		UnitNet:         unitNet,
		LineTotal:       lineTotal,
		ApportionedCost: decimal.Zero,
		UnitLandedCost:  unitNet,
		TotalLandedCost: lineTotal,
	}, nil
}

// resolveInstallment carries a schedule entry over with the payment
// method's display name captured. number is the contiguous 1-based
// position after renumbering.
func resolveInstallment(number int, draft domain.InstallmentDraft, method *domain.PaymentMethod) domain.OrderInstallment {
	return domain.OrderInstallment{
		Number:            number,
		PaymentMethodID:   method.ID,
		PaymentMethodName: method.Name,
		DueDate:           draft.DueDate,
		Amount:            draft.Amount,
	}
}

// aggregate recomputes the order's financial totals from its resolved
// items and order-level adjustments, then apportions the extra charges
// (freight + insurance + other) across the items. Totals are never
// trusted from client input.
func aggregate(order *domain.Order) error {
	subtotal := decimal.Zero
	for i := range order.Items {
		s, err := subtotal.Add(order.Items[i].LineTotal)
		if err != nil {
			return fmt.Errorf("math error:%w", err)
		}
		subtotal = s
	}
	order.ProductSubtotal = subtotal

	extra := decimal.Zero
	for _, amount := range []decimal.Decimal{order.Freight, order.Insurance, order.OtherCharges} {
		e, err := extra.Add(amount)
		if err != nil {
			return fmt.Errorf("math error:%w", err)
		}
		extra = e
	}

	grand, err := subtotal.Add(extra)
	if err != nil {
		return fmt.Errorf("math error:%w", err)
	}
	grand, err = grand.Add(order.Surcharge)
	if err != nil {
		return fmt.Errorf("math error:%w", err)
	}
	grand, err = grand.Sub(order.Discount)
	if err != nil {
		return fmt.Errorf("math error:%w", err)
	}
	order.GrandTotal = grand

	return apportion(order.Items, extra, subtotal)
}

// apportion distributes extra across items proportionally to line total.
// The last item takes the remainder so the shares sum to extra exactly.
// Orders with no items or a zero subtotal get no apportionment.
func apportion(items []domain.OrderItem, extra, subtotal decimal.Decimal) error {
	if len(items) == 0 || subtotal.Cmp(decimal.Zero) == 0 || extra.Cmp(decimal.Zero) == 0 {
		for i := range items {
			items[i].ApportionedCost = decimal.Zero
			items[i].UnitLandedCost = items[i].UnitNet
			items[i].TotalLandedCost = items[i].LineTotal
		}
		return nil
	}

	assigned := decimal.Zero
	for i := range items {
		var share decimal.Decimal
		var err error
		if i == len(items)-1 {
			share, err = extra.Sub(assigned)
			if err != nil {
				return fmt.Errorf("math error:%w", err)
			}
		} else {
			share, err = extra.Mul(items[i].LineTotal)
			if err != nil {
				return fmt.Errorf("math error:%w", err)
			}
			share, err = share.Quo(subtotal)
			if err != nil {
				return fmt.Errorf("math error:%w", err)
			}
			share = share.Round(2)
			assigned, err = assigned.Add(share)
			if err != nil {
				return fmt.Errorf("math error:%w", err)
			}
		}

		perUnit, err := share.Quo(items[i].Quantity)
		if err != nil {
			return fmt.Errorf("math error:%w", err)
		}
		unitLanded, err := items[i].UnitNet.Add(perUnit)
		if err != nil {
			return fmt.Errorf("math error:%w", err)
		}
		totalLanded, err := items[i].LineTotal.Add(share)
		if err != nil {
			return fmt.Errorf("math error:%w", err)
		}

		items[i].ApportionedCost = share
		items[i].UnitLandedCost = unitLanded
		items[i].TotalLandedCost = totalLanded
	}

	return nil
}
