package model

import (
	"math"
	"time"
)

// MaxQuantity is the largest quantity, change or threshold a stock column holds.
const MaxQuantity = math.MaxInt32

type Stock struct {
	ID           int64     `db:"id" json:"id"`
	ProductID    int64     `db:"product_id" json:"product_id"`
	WarehouseID  int64     `db:"warehouse_id" json:"warehouse_id"`
	Quantity     int       `db:"quantity" json:"quantity"`
	MinimumStock int       `db:"minimum_stock" json:"minimum_stock"`
	LastUpdated  time.Time `db:"last_updated" json:"last_updated"`
}

// IsLow reports whether the quantity has reached the minimum threshold.
// A zero threshold disables the check.
func (s *Stock) IsLow() bool {
	return s.MinimumStock > 0 && s.Quantity <= s.MinimumStock
}

type AdjustmentType string

const (
	AdjustmentIncrease   AdjustmentType = "increase"
	AdjustmentDecrease   AdjustmentType = "decrease"
	AdjustmentCorrection AdjustmentType = "correction"
)

func (t AdjustmentType) Valid() bool {
	switch t {
	case AdjustmentIncrease, AdjustmentDecrease, AdjustmentCorrection:
		return true
	}
	return false
}

// AgreesWith reports whether a signed quantity change is allowed for the
// adjustment type: increases are positive, decreases negative, corrections
// any non-zero amount.
func (t AdjustmentType) AgreesWith(change int) bool {
	switch t {
	case AdjustmentIncrease:
		return change > 0
	case AdjustmentDecrease:
		return change < 0
	case AdjustmentCorrection:
		return change != 0
	}
	return false
}

// StockAdjustment is an immutable audit record of a single stock mutation.
// PreviousQuantity + QuantityChange == NewQuantity always holds.
type StockAdjustment struct {
	ID               int64          `db:"id" json:"id"`
	StockID          int64          `db:"stock_id" json:"stock_id"`
	UserID           int64          `db:"user_id" json:"user_id"`
	AdjustmentType   AdjustmentType `db:"adjustment_type" json:"adjustment_type"`
	QuantityChange   int            `db:"quantity_change" json:"quantity_change"`
	PreviousQuantity int            `db:"previous_quantity" json:"previous_quantity"`
	NewQuantity      int            `db:"new_quantity" json:"new_quantity"`
	Reason           string         `db:"reason" json:"reason"`
	Notes            *string        `db:"notes" json:"notes"`
	AdjustmentDate   time.Time      `db:"adjustment_date" json:"adjustment_date"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
}
