package usecase

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/apperror"
	"github.com/fekuna/omnipos-retail-service/internal/catalog"
	"github.com/fekuna/omnipos-retail-service/internal/event"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/stock"
	"github.com/fekuna/omnipos-retail-service/internal/stock/dto"
	"github.com/fekuna/omnipos-retail-service/internal/store"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const maxReasonLen = 500

var tracer = otel.Tracer("retail-service/stock")

type stockUseCase struct {
	repo      stock.Repository
	catalog   catalog.Repository
	tx        store.TxManager
	recorder  *Recorder
	publisher event.Publisher
	logger    logger.ZapLogger
	now       func() time.Time
}

func NewStockUseCase(repo stock.Repository, catalogRepo catalog.Repository, tx store.TxManager, publisher event.Publisher, log logger.ZapLogger) stock.UseCase {
	if publisher == nil {
		publisher = event.Nop{}
	}
	return &stockUseCase{
		repo:      repo,
		catalog:   catalogRepo,
		tx:        tx,
		recorder:  NewRecorder(repo),
		publisher: publisher,
		logger:    log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (uc *stockUseCase) GetOrCreate(ctx context.Context, productID, warehouseID int64) (*model.Stock, error) {
	p, err := uc.catalog.FindProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound("product", productID)
	}
	w, err := uc.catalog.FindWarehouseByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, apperror.NotFound("warehouse", warehouseID)
	}

	return uc.repo.GetOrCreate(ctx, productID, warehouseID, uc.now())
}

// CreateStock opens a stock row with an initial count and threshold. The
// initial quantity is booked as an adjustment like any other change.
func (uc *stockUseCase) CreateStock(ctx context.Context, input *dto.CreateStockInput) (*dto.AdjustResult, error) {
	if input.Quantity < 0 || input.Quantity > model.MaxQuantity {
		return nil, apperror.ErrInvalidQuantity
	}
	if err := validMinimum(input.MinimumStock); err != nil {
		return nil, err
	}

	var result *dto.AdjustResult
	err := uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := uc.requireActiveUser(ctx, input.UserID); err != nil {
			return err
		}
		st, err := uc.GetOrCreate(ctx, input.ProductID, input.WarehouseID)
		if err != nil {
			return err
		}
		st, err = uc.lock(ctx, st.ID)
		if err != nil {
			return err
		}
		if st.MinimumStock != input.MinimumStock {
			if err := uc.repo.UpdateMinimum(ctx, st.ID, input.MinimumStock); err != nil {
				return err
			}
			st.MinimumStock = input.MinimumStock
		}

		change := input.Quantity - st.Quantity
		if change == 0 {
			result = &dto.AdjustResult{Stock: st}
			return nil
		}
		typ := model.AdjustmentIncrease
		if change < 0 {
			typ = model.AdjustmentCorrection
		}
		result, err = uc.apply(ctx, st, change, typ, "initial stock", nil, input.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *stockUseCase) Adjust(ctx context.Context, input *dto.AdjustStockInput) (*dto.AdjustResult, error) {
	ctx, span := tracer.Start(ctx, "stock.Adjust", trace.WithAttributes(
		attribute.Int64("stock.id", input.StockID),
		attribute.Int("stock.change", input.QuantityChange),
		attribute.String("stock.type", string(input.AdjustmentType)),
	))
	defer span.End()

	if !input.AdjustmentType.Valid() {
		return nil, apperror.Invalid("unknown adjustment type %q", input.AdjustmentType)
	}
	if !input.AdjustmentType.AgreesWith(input.QuantityChange) {
		return nil, apperror.Invalid("quantity change %d does not match adjustment type %s", input.QuantityChange, input.AdjustmentType)
	}
	if input.QuantityChange > model.MaxQuantity || input.QuantityChange < -model.MaxQuantity {
		return nil, apperror.ErrInvalidQuantity
	}
	if err := validReason(&input.Reason); err != nil {
		return nil, err
	}

	var result *dto.AdjustResult
	err := uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := uc.requireActiveUser(ctx, input.UserID); err != nil {
			return err
		}
		st, err := uc.lock(ctx, input.StockID)
		if err != nil {
			return err
		}
		result, err = uc.apply(ctx, st, input.QuantityChange, input.AdjustmentType, input.Reason, input.Notes, input.UserID)
		return err
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return result, nil
}

// Correct books a physical recount. A count equal to the current quantity
// changes nothing and records nothing.
func (uc *stockUseCase) Correct(ctx context.Context, input *dto.CorrectStockInput) (*dto.AdjustResult, error) {
	if input.NewQuantity < 0 || input.NewQuantity > model.MaxQuantity {
		return nil, apperror.ErrInvalidQuantity
	}
	if err := validReason(&input.Reason); err != nil {
		return nil, err
	}

	var result *dto.AdjustResult
	err := uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := uc.requireActiveUser(ctx, input.UserID); err != nil {
			return err
		}
		st, err := uc.lock(ctx, input.StockID)
		if err != nil {
			return err
		}
		change := input.NewQuantity - st.Quantity
		if change == 0 {
			result = &dto.AdjustResult{Stock: st}
			return nil
		}
		result, err = uc.apply(ctx, st, change, model.AdjustmentCorrection, input.Reason, input.Notes, input.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// apply writes the new quantity and its audit row. st must already be locked.
func (uc *stockUseCase) apply(ctx context.Context, st *model.Stock, change int, typ model.AdjustmentType, reason string, notes *string, userID int64) (*dto.AdjustResult, error) {
	previous := st.Quantity
	next := previous + change
	if next < 0 {
		return nil, &apperror.StockError{
			StockID:     st.ID,
			ProductID:   st.ProductID,
			WarehouseID: st.WarehouseID,
			Available:   previous,
			Requested:   -change,
		}
	}
	if next > model.MaxQuantity {
		return nil, apperror.Invalid("quantity %d + %d exceeds %d", previous, change, model.MaxQuantity)
	}

	now := uc.now()
	if err := uc.repo.UpdateQuantity(ctx, st.ID, next, now); err != nil {
		return nil, err
	}
	adj, err := uc.recorder.Record(ctx, Entry{
		StockID:  st.ID,
		Type:     typ,
		Previous: previous,
		Change:   change,
		New:      next,
		Reason:   reason,
		Notes:    notes,
		UserID:   userID,
		At:       now,
	})
	if err != nil {
		return nil, err
	}

	st.Quantity = next
	st.LastUpdated = now
	uc.notifyIfLow(ctx, st)

	return &dto.AdjustResult{Stock: st, Adjustment: adj}, nil
}

func (uc *stockUseCase) SetMinimumStock(ctx context.Context, stockID int64, minimum int) (*model.Stock, error) {
	if err := validMinimum(minimum); err != nil {
		return nil, err
	}

	var st *model.Stock
	err := uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		st, err = uc.lock(ctx, stockID)
		if err != nil {
			return err
		}
		if err := uc.repo.UpdateMinimum(ctx, stockID, minimum); err != nil {
			return err
		}
		st.MinimumStock = minimum
		uc.notifyIfLow(ctx, st)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

func (uc *stockUseCase) GetStock(ctx context.Context, id int64) (*model.Stock, error) {
	st, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, apperror.NotFound("stock", id)
	}
	return st, nil
}

func (uc *stockUseCase) ListStocks(ctx context.Context, filters *dto.StockFilters) ([]model.Stock, int, error) {
	return uc.repo.List(ctx, filters)
}

func (uc *stockUseCase) ListLowStock(ctx context.Context, warehouseID *int64, page, pageSize int) ([]model.Stock, int, error) {
	return uc.repo.List(ctx, &dto.StockFilters{
		WarehouseID: warehouseID,
		LowStock:    true,
		Page:        page,
		PageSize:    pageSize,
	})
}

func (uc *stockUseCase) ListAdjustments(ctx context.Context, filters *dto.AdjustmentFilters) ([]model.StockAdjustment, int, error) {
	if filters.AdjustmentType != "" && !filters.AdjustmentType.Valid() {
		return nil, 0, apperror.Invalid("unknown adjustment type %q", filters.AdjustmentType)
	}
	return uc.repo.ListAdjustments(ctx, filters)
}

func (uc *stockUseCase) lock(ctx context.Context, id int64) (*model.Stock, error) {
	st, err := uc.repo.FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, apperror.NotFound("stock", id)
	}
	return st, nil
}

func (uc *stockUseCase) requireActiveUser(ctx context.Context, id int64) error {
	u, err := uc.catalog.FindUserByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil || !u.IsActive {
		return apperror.NotFound("user", id)
	}
	return nil
}

// notifyIfLow publishes a stock.low event once the surrounding transaction
// commits. Publishing failures are logged and never fail the adjustment.
func (uc *stockUseCase) notifyIfLow(ctx context.Context, st *model.Stock) {
	if !st.IsLow() {
		return
	}
	payload := event.StockLowPayload{
		StockID:      st.ID,
		ProductID:    st.ProductID,
		WarehouseID:  st.WarehouseID,
		Quantity:     st.Quantity,
		MinimumStock: st.MinimumStock,
	}
	store.AfterCommit(ctx, func(ctx context.Context) {
		err := uc.publisher.Publish(ctx, strconv.FormatInt(payload.StockID, 10), event.New(event.TypeStockLow, payload))
		if err != nil {
			uc.logger.Warn("failed to publish low stock event", zap.Int64("stock_id", payload.StockID), zap.Error(err))
		}
	})
}

func validReason(reason *string) error {
	*reason = strings.TrimSpace(*reason)
	if *reason == "" {
		return apperror.Invalid("reason is required")
	}
	if len(*reason) > maxReasonLen {
		return apperror.Invalid("reason must be at most %d characters", maxReasonLen)
	}
	return nil
}

func validMinimum(minimum int) error {
	if minimum < 0 || minimum > model.MaxQuantity {
		return apperror.Invalid("minimum_stock must be between 0 and %d", model.MaxQuantity)
	}
	return nil
}
