package usecase

import (
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/sale/dto"
	"github.com/shopspring/decimal"
)

// priceSale computes line and header amounts. Every percentage is applied
// with half-up rounding to cents before it is subtracted or added:
//
//	line_discount = round(q * price * pct / 100)
//	line_total    = q * price - line_discount
//	subtotal      = sum(line_total)
//	discount      = round(subtotal * pct / 100)
//	tax           = round((subtotal - discount) * tax_pct / 100)
//	total         = subtotal - discount + tax
func priceSale(input *dto.PostSaleInput, method model.PaymentMethod, status model.PaymentStatus, at time.Time) *model.Sale {
	items := make([]model.SaleItem, len(input.Items))
	subtotal := decimal.Zero

	for i, in := range input.Items {
		gross := in.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity)))
		lineDiscount := model.Percent(gross, in.DiscountPercentage)
		lineTotal := gross.Sub(lineDiscount)

		items[i] = model.SaleItem{
			ProductID:          in.ProductID,
			WarehouseID:        in.WarehouseID,
			Quantity:           in.Quantity,
			UnitPrice:          in.UnitPrice,
			DiscountPercentage: in.DiscountPercentage,
			DiscountAmount:     lineDiscount,
			TotalAmount:        lineTotal,
			CreatedAt:          at,
		}
		subtotal = subtotal.Add(lineTotal)
	}

	discount := model.Percent(subtotal, input.DiscountPercentage)
	taxable := subtotal.Sub(discount)
	tax := model.Percent(taxable, input.TaxPercentage)

	return &model.Sale{
		CustomerID:         input.CustomerID,
		UserID:             input.UserID,
		SaleDate:           at,
		Subtotal:           subtotal,
		DiscountPercentage: input.DiscountPercentage,
		DiscountAmount:     discount,
		TaxPercentage:      input.TaxPercentage,
		TaxAmount:          tax,
		TotalAmount:        taxable.Add(tax),
		PaymentMethod:      method,
		PaymentStatus:      status,
		Notes:              input.Notes,
		CreatedAt:          at,
		Items:              items,
	}
}
