package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/apperror"
	"github.com/fekuna/omnipos-retail-service/internal/event"
	"github.com/fekuna/omnipos-retail-service/internal/sale"
	"github.com/fekuna/omnipos-retail-service/internal/sale/dto"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RequestLockTTL bounds how long a request id stays claimed, which is the
// window in which a redelivered request is recognised as a duplicate.
const RequestLockTTL = 24 * time.Hour

// MessageReader is the consuming half of the broker. *broker.KafkaConsumer
// satisfies it.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// Locker claims request ids. *cache.RedisClient satisfies it.
type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}

type SaleListener struct {
	reader    MessageReader
	uc        sale.UseCase
	locker    Locker
	publisher event.Publisher
	logger    logger.ZapLogger
	backoff   time.Duration
}

// NewSaleListener builds a listener for sale.requested commands. locker may be
// nil, in which case redelivered requests are not deduplicated.
func NewSaleListener(reader MessageReader, uc sale.UseCase, locker Locker, publisher event.Publisher, logger logger.ZapLogger) *SaleListener {
	if publisher == nil {
		publisher = event.Nop{}
	}
	return &SaleListener{
		reader:    reader,
		uc:        uc,
		locker:    locker,
		publisher: publisher,
		logger:    logger,
		backoff:   time.Second,
	}
}

func (l *SaleListener) Start(ctx context.Context) {
	l.logger.Info("Starting sale request listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping sale request listener")
			return
		default:
			msg, err := l.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(l.backoff):
				}
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type SaleRequestedEvent struct {
	EventID   string             `json:"event_id"`
	EventType string             `json:"event_type"`
	Payload   SaleRequestPayload `json:"payload"`
	Timestamp time.Time          `json:"timestamp"`
}

type SaleRequestPayload struct {
	RequestID          string            `json:"request_id"`
	CustomerID         int64             `json:"customer_id"`
	UserID             int64             `json:"user_id"`
	Items              []SaleRequestItem `json:"items"`
	DiscountPercentage decimal.Decimal   `json:"discount_percentage"`
	TaxPercentage      decimal.Decimal   `json:"tax_percentage"`
	PaymentMethod      string            `json:"payment_method"`
	PaymentStatus      string            `json:"payment_status"`
	Notes              *string           `json:"notes"`
}

type SaleRequestItem struct {
	ProductID          int64           `json:"product_id"`
	WarehouseID        int64           `json:"warehouse_id"`
	Quantity           int             `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
}

func (p SaleRequestPayload) input() *dto.PostSaleInput {
	items := make([]dto.SaleItemInput, len(p.Items))
	for i, it := range p.Items {
		items[i] = dto.SaleItemInput{
			ProductID:          it.ProductID,
			WarehouseID:        it.WarehouseID,
			Quantity:           it.Quantity,
			UnitPrice:          it.UnitPrice,
			DiscountPercentage: it.DiscountPercentage,
		}
	}
	return &dto.PostSaleInput{
		CustomerID:         p.CustomerID,
		Items:              items,
		DiscountPercentage: p.DiscountPercentage,
		TaxPercentage:      p.TaxPercentage,
		PaymentMethod:      p.PaymentMethod,
		PaymentStatus:      p.PaymentStatus,
		Notes:              p.Notes,
		UserID:             p.UserID,
	}
}

func requestLockKey(requestID string) string {
	return "sale-request:" + requestID
}

func (l *SaleListener) processMessage(ctx context.Context, value []byte) {
	var evt SaleRequestedEvent
	if err := json.Unmarshal(value, &evt); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}
	if evt.EventType != event.TypeSaleRequested {
		return
	}

	req := evt.Payload
	if req.RequestID == "" {
		l.reject(ctx, req.RequestID, apperror.Invalid("request_id is required"))
		return
	}

	l.logger.Info("Processing sale request", zap.String("request_id", req.RequestID))

	key := requestLockKey(req.RequestID)
	token := uuid.NewString()
	if l.locker != nil {
		acquired, err := l.locker.AcquireLock(ctx, key, token, RequestLockTTL)
		if err != nil {
			l.logger.Error("Failed to claim sale request", zap.String("request_id", req.RequestID), zap.Error(err))
			return
		}
		if !acquired {
			l.logger.Info("Skipping duplicate sale request", zap.String("request_id", req.RequestID))
			return
		}
	}

	s, err := l.uc.PostSale(ctx, req.input())
	if err != nil {
		// Free the id so that a corrected resend is not treated as a duplicate.
		if l.locker != nil {
			if rerr := l.locker.ReleaseLock(ctx, key, token); rerr != nil {
				l.logger.Warn("Failed to release sale request", zap.String("request_id", req.RequestID), zap.Error(rerr))
			}
		}
		l.reject(ctx, req.RequestID, err)
		return
	}

	l.logger.Info("Sale request posted",
		zap.String("request_id", req.RequestID),
		zap.String("transaction_number", s.TransactionNumber),
	)
}

func (l *SaleListener) reject(ctx context.Context, requestID string, cause error) {
	payload := event.SaleRejectedPayload{
		RequestID: requestID,
		Reason:    cause.Error(),
		Kind:      apperror.Kind(cause),
	}
	if err := l.publisher.Publish(ctx, requestID, event.New(event.TypeSaleRejected, payload)); err != nil {
		l.logger.Error("Failed to publish sale rejection", zap.String("request_id", requestID), zap.Error(err))
	}
}
