package listener

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/apperror"
	"github.com/fekuna/omnipos-retail-service/internal/event"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/sale/dto"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSaleUseCase struct {
	mock.Mock
}

func (m *mockSaleUseCase) PostSale(ctx context.Context, input *dto.PostSaleInput) (*model.Sale, error) {
	args := m.Called(ctx, input)
	s, _ := args.Get(0).(*model.Sale)
	return s, args.Error(1)
}

func (m *mockSaleUseCase) GetSale(ctx context.Context, id int64) (*model.Sale, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*model.Sale)
	return s, args.Error(1)
}

func (m *mockSaleUseCase) ListSales(ctx context.Context, filters *dto.SaleFilters) ([]model.Sale, int, error) {
	args := m.Called(ctx, filters)
	s, _ := args.Get(0).([]model.Sale)
	return s, args.Int(1), args.Error(2)
}

type mockLocker struct {
	mock.Mock
}

func (m *mockLocker) AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *mockLocker) ReleaseLock(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, key string, value any) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

// sliceReader hands out queued messages, then blocks until the context ends.
type sliceReader struct {
	msgs chan kafka.Message
}

func (r *sliceReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-r.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func request(t *testing.T, requestID string) []byte {
	t.Helper()
	b, err := json.Marshal(SaleRequestedEvent{
		EventID:   "evt-1",
		EventType: event.TypeSaleRequested,
		Payload: SaleRequestPayload{
			RequestID:     requestID,
			CustomerID:    7,
			UserID:        3,
			TaxPercentage: decimal.RequireFromString("11"),
			Items: []SaleRequestItem{
				{ProductID: 1, WarehouseID: 2, Quantity: 4, UnitPrice: decimal.RequireFromString("12.50")},
			},
		},
		Timestamp: time.Now(),
	})
	require.NoError(t, err)
	return b
}

func TestProcessMessagePostsSale(t *testing.T) {
	uc := &mockSaleUseCase{}
	locker := &mockLocker{}
	pub := &mockPublisher{}
	l := NewSaleListener(nil, uc, locker, pub, logger.NewNop())

	locker.On("AcquireLock", mock.Anything, "sale-request:req-1", mock.AnythingOfType("string"), RequestLockTTL).Return(true, nil)
	uc.On("PostSale", mock.Anything, mock.MatchedBy(func(in *dto.PostSaleInput) bool {
		return in.CustomerID == 7 && in.UserID == 3 && len(in.Items) == 1 &&
			in.Items[0].Quantity == 4 && in.Items[0].UnitPrice.Equal(decimal.RequireFromString("12.50")) &&
			in.TaxPercentage.Equal(decimal.NewFromInt(11))
	})).Return(&model.Sale{ID: 1, TransactionNumber: "TRX20260315-ABCDEF"}, nil)

	l.processMessage(context.Background(), request(t, "req-1"))

	uc.AssertExpectations(t)
	locker.AssertExpectations(t)
	locker.AssertNotCalled(t, "ReleaseLock", mock.Anything, mock.Anything, mock.Anything)
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessMessageRejectsFailedSale(t *testing.T) {
	uc := &mockSaleUseCase{}
	locker := &mockLocker{}
	pub := &mockPublisher{}
	l := NewSaleListener(nil, uc, locker, pub, logger.NewNop())

	locker.On("AcquireLock", mock.Anything, "sale-request:req-2", mock.Anything, RequestLockTTL).Return(true, nil)
	locker.On("ReleaseLock", mock.Anything, "sale-request:req-2", mock.Anything).Return(nil)
	uc.On("PostSale", mock.Anything, mock.Anything).Return(nil, &apperror.StockError{StockID: 1, Available: 1, Requested: 4})
	var published event.Envelope
	pub.On("Publish", mock.Anything, "req-2", mock.AnythingOfType("event.Envelope")).
		Run(func(args mock.Arguments) { published = args.Get(2).(event.Envelope) }).
		Return(nil)

	l.processMessage(context.Background(), request(t, "req-2"))

	locker.AssertExpectations(t)
	pub.AssertExpectations(t)
	assert.Equal(t, event.TypeSaleRejected, published.EventType)
	payload, ok := published.Payload.(event.SaleRejectedPayload)
	require.True(t, ok)
	assert.Equal(t, "req-2", payload.RequestID)
	assert.Equal(t, "insufficient_stock", payload.Kind)
	assert.Contains(t, payload.Reason, "insufficient stock")
}

func TestProcessMessageSkipsDuplicate(t *testing.T) {
	uc := &mockSaleUseCase{}
	locker := &mockLocker{}
	l := NewSaleListener(nil, uc, locker, &mockPublisher{}, logger.NewNop())

	locker.On("AcquireLock", mock.Anything, "sale-request:req-3", mock.Anything, RequestLockTTL).Return(false, nil)

	l.processMessage(context.Background(), request(t, "req-3"))

	uc.AssertNotCalled(t, "PostSale", mock.Anything, mock.Anything)
}

func TestProcessMessageIgnoresOtherEvents(t *testing.T) {
	uc := &mockSaleUseCase{}
	l := NewSaleListener(nil, uc, nil, &mockPublisher{}, logger.NewNop())

	b, err := json.Marshal(event.New(event.TypeSalePosted, event.SalePostedPayload{SaleID: 1}))
	require.NoError(t, err)
	l.processMessage(context.Background(), b)
	l.processMessage(context.Background(), []byte("not json"))

	uc.AssertNotCalled(t, "PostSale", mock.Anything, mock.Anything)
}

func TestProcessMessageRequiresRequestID(t *testing.T) {
	uc := &mockSaleUseCase{}
	pub := &mockPublisher{}
	l := NewSaleListener(nil, uc, nil, pub, logger.NewNop())

	pub.On("Publish", mock.Anything, "", mock.MatchedBy(func(e event.Envelope) bool {
		p, ok := e.Payload.(event.SaleRejectedPayload)
		return ok && p.Kind == "invalid_input"
	})).Return(nil)

	l.processMessage(context.Background(), request(t, ""))

	pub.AssertExpectations(t)
	uc.AssertNotCalled(t, "PostSale", mock.Anything, mock.Anything)
}

func TestStartConsumesUntilCancelled(t *testing.T) {
	uc := &mockSaleUseCase{}
	reader := &sliceReader{msgs: make(chan kafka.Message, 1)}
	l := NewSaleListener(reader, uc, nil, nil, logger.NewNop())

	posted := make(chan struct{})
	uc.On("PostSale", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { close(posted) }).
		Return(&model.Sale{ID: 1}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Start(ctx)
		close(done)
	}()

	reader.msgs <- kafka.Message{Value: request(t, "req-4")}
	select {
	case <-posted:
	case <-time.After(2 * time.Second):
		t.Fatal("request was not posted")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop")
	}
}
