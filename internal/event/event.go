// Package event defines the messages exchanged over the broker.
package event

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	TypeSaleRequested = "sale.requested"
	TypeSalePosted    = "sale.posted"
	TypeSaleRejected  = "sale.rejected"
	TypeStockLow      = "stock.low"
)

type Envelope struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

func New(eventType string, payload any) Envelope {
	return Envelope{
		EventID:   uuid.NewString(),
		EventType: eventType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// Publisher writes an event keyed for partitioning. *broker.KafkaProducer
// satisfies it.
type Publisher interface {
	Publish(ctx context.Context, key string, value any) error
}

// Nop discards every event. Used when the broker is disabled.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }

type StockLowPayload struct {
	StockID      int64 `json:"stock_id"`
	ProductID    int64 `json:"product_id"`
	WarehouseID  int64 `json:"warehouse_id"`
	Quantity     int   `json:"quantity"`
	MinimumStock int   `json:"minimum_stock"`
}

type SalePostedPayload struct {
	SaleID            int64     `json:"sale_id"`
	TransactionNumber string    `json:"transaction_number"`
	CustomerID        int64     `json:"customer_id"`
	UserID            int64     `json:"user_id"`
	TotalAmount       string    `json:"total_amount"`
	ItemCount         int       `json:"item_count"`
	SaleDate          time.Time `json:"sale_date"`
}

type SaleRejectedPayload struct {
	RequestID string `json:"request_id"`
	Reason    string `json:"reason"`
	Kind      string `json:"kind"`
}
