package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(s); m {
	case PaymentCash, PaymentBankTransfer:
		return m, nil
	case "":
		return PaymentCash, nil
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

type PaymentStatus string

const (
	PaymentCompleted PaymentStatus = "completed"
	PaymentPending   PaymentStatus = "pending"
)

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch st := PaymentStatus(s); st {
	case PaymentCompleted, PaymentPending:
		return st, nil
	case "":
		return PaymentCompleted, nil
	}
	return "", fmt.Errorf("unknown payment status %q", s)
}

// Sale is a posted transaction header. It is immutable once created.
type Sale struct {
	ID                 int64           `db:"id" json:"id"`
	TransactionNumber  string          `db:"transaction_number" json:"transaction_number"`
	CustomerID         int64           `db:"customer_id" json:"customer_id"`
	UserID             int64           `db:"user_id" json:"user_id"`
	SaleDate           time.Time       `db:"sale_date" json:"sale_date"`
	Subtotal           decimal.Decimal `db:"subtotal" json:"subtotal"`
	DiscountPercentage decimal.Decimal `db:"discount_percentage" json:"discount_percentage"`
	DiscountAmount     decimal.Decimal `db:"discount_amount" json:"discount_amount"`
	TaxPercentage      decimal.Decimal `db:"tax_percentage" json:"tax_percentage"`
	TaxAmount          decimal.Decimal `db:"tax_amount" json:"tax_amount"`
	TotalAmount        decimal.Decimal `db:"total_amount" json:"total_amount"`
	PaymentMethod      PaymentMethod   `db:"payment_method" json:"payment_method"`
	PaymentStatus      PaymentStatus   `db:"payment_status" json:"payment_status"`
	Notes              *string         `db:"notes" json:"notes"`
	CreatedAt          time.Time       `db:"created_at" json:"created_at"`
	Items              []SaleItem      `db:"-" json:"items"` // Loaded explicitly
}

type SaleItem struct {
	ID                 int64           `db:"id" json:"id"`
	SaleID             int64           `db:"sale_id" json:"sale_id"`
	ProductID          int64           `db:"product_id" json:"product_id"`
	WarehouseID        int64           `db:"warehouse_id" json:"warehouse_id"`
	Quantity           int             `db:"quantity" json:"quantity"`
	UnitPrice          decimal.Decimal `db:"unit_price" json:"unit_price"`
	DiscountPercentage decimal.Decimal `db:"discount_percentage" json:"discount_percentage"`
	DiscountAmount     decimal.Decimal `db:"discount_amount" json:"discount_amount"`
	TotalAmount        decimal.Decimal `db:"total_amount" json:"total_amount"`
	CreatedAt          time.Time       `db:"created_at" json:"created_at"`
}
