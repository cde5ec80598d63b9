package usecase

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/apperror"
	"github.com/fekuna/omnipos-retail-service/internal/catalog"
	"github.com/fekuna/omnipos-retail-service/internal/event"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/report"
	"github.com/fekuna/omnipos-retail-service/internal/sale"
	"github.com/fekuna/omnipos-retail-service/internal/sale/dto"
	"github.com/fekuna/omnipos-retail-service/internal/stock"
	stockdto "github.com/fekuna/omnipos-retail-service/internal/stock/dto"
	"github.com/fekuna/omnipos-retail-service/internal/store"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const DefaultTxnNumberRetries = 5

var tracer = otel.Tracer("retail-service/sale")

type saleUseCase struct {
	repo      sale.Repository
	catalog   catalog.Repository
	ledger    stock.UseCase
	tx        store.TxManager
	cache     report.Cache
	publisher event.Publisher
	numbers   NumberGenerator
	retries   int
	logger    logger.ZapLogger
	now       func() time.Time
}

// NewSaleUseCase wires the sale poster. cache may be nil when reports are not
// cached; retries <= 0 falls back to DefaultTxnNumberRetries.
func NewSaleUseCase(
	repo sale.Repository,
	catalogRepo catalog.Repository,
	ledger stock.UseCase,
	tx store.TxManager,
	cache report.Cache,
	publisher event.Publisher,
	retries int,
	log logger.ZapLogger,
) sale.UseCase {
	if retries <= 0 {
		retries = DefaultTxnNumberRetries
	}
	if publisher == nil {
		publisher = event.Nop{}
	}
	return &saleUseCase{
		repo:      repo,
		catalog:   catalogRepo,
		ledger:    ledger,
		tx:        tx,
		cache:     cache,
		publisher: publisher,
		numbers:   NewTransactionNumber,
		retries:   retries,
		logger:    log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (uc *saleUseCase) PostSale(ctx context.Context, input *dto.PostSaleInput) (*model.Sale, error) {
	ctx, span := tracer.Start(ctx, "sale.PostSale", trace.WithAttributes(
		attribute.Int64("sale.customer_id", input.CustomerID),
		attribute.Int64("sale.user_id", input.UserID),
		attribute.Int("sale.items", len(input.Items)),
	))
	defer span.End()

	s, err := uc.postSale(ctx, input)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, apperror.Kind(err))
		uc.logger.Warn("sale rejected",
			zap.Int64("customer_id", input.CustomerID),
			zap.Int64("user_id", input.UserID),
			zap.String("kind", apperror.Kind(err)),
			zap.Error(err),
		)
		return nil, err
	}

	span.SetAttributes(attribute.String("sale.transaction_number", s.TransactionNumber))
	uc.logger.Info("sale posted",
		zap.Int64("sale_id", s.ID),
		zap.String("transaction_number", s.TransactionNumber),
		zap.String("total_amount", s.TotalAmount.StringFixed(2)),
	)
	return s, nil
}

func (uc *saleUseCase) postSale(ctx context.Context, input *dto.PostSaleInput) (*model.Sale, error) {
	method, status, err := validateShape(input)
	if err != nil {
		return nil, err
	}
	if err := uc.validateReferences(ctx, input); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= uc.retries; attempt++ {
		at := uc.now()
		s := priceSale(input, method, status, at)
		s.TransactionNumber = uc.numbers(at)

		err := uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
			return uc.persist(ctx, s)
		})
		if err == nil {
			return s, nil
		}
		if !apperror.IsConflictOn(err, sale.ConstraintTransactionNumber) {
			return nil, err
		}

		lastErr = err
		uc.logger.Warn("transaction number collision, retrying",
			zap.String("transaction_number", s.TransactionNumber),
			zap.Int("attempt", attempt),
		)
	}
	return nil, fmt.Errorf("no free transaction number after %d attempts: %w", uc.retries, lastErr)
}

// persist runs inside one transaction: decrement every line's stock row, then
// insert the sale. Rows are locked in (product, warehouse) order so that two
// sales touching the same rows cannot deadlock.
func (uc *saleUseCase) persist(ctx context.Context, s *model.Sale) error {
	taken, err := uc.repo.ExistsTransactionNumber(ctx, s.TransactionNumber)
	if err != nil {
		return err
	}
	if taken {
		return apperror.Conflict(sale.ConstraintTransactionNumber)
	}

	order := make([]int, len(s.Items))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		ia, ib := s.Items[a], s.Items[b]
		return cmp.Or(cmp.Compare(ia.ProductID, ib.ProductID), cmp.Compare(ia.WarehouseID, ib.WarehouseID))
	})

	// A product or warehouse may have been deactivated since validation.
	for i, item := range s.Items {
		if err := uc.recheckItem(ctx, item); err != nil {
			return itemError(i, item, err)
		}
	}

	reason := "sale:" + s.TransactionNumber
	for _, i := range order {
		item := s.Items[i]
		st, err := uc.ledger.GetOrCreate(ctx, item.ProductID, item.WarehouseID)
		if err != nil {
			return itemError(i, item, err)
		}
		_, err = uc.ledger.Adjust(ctx, &stockdto.AdjustStockInput{
			StockID:        st.ID,
			QuantityChange: -item.Quantity,
			AdjustmentType: model.AdjustmentDecrease,
			Reason:         reason,
			UserID:         s.UserID,
		})
		if err != nil {
			return itemError(i, item, err)
		}
	}

	if err := uc.repo.Create(ctx, s); err != nil {
		return err
	}

	posted := *s
	store.AfterCommit(ctx, func(ctx context.Context) {
		uc.afterPost(ctx, &posted)
	})
	return nil
}

func (uc *saleUseCase) afterPost(ctx context.Context, s *model.Sale) {
	if uc.cache != nil {
		key := report.MonthlyCacheKey(s.SaleDate.Year(), s.SaleDate.Month())
		if err := uc.cache.Delete(ctx, key); err != nil {
			uc.logger.Warn("failed to invalidate report cache", zap.String("key", key), zap.Error(err))
		}
	}

	payload := event.SalePostedPayload{
		SaleID:            s.ID,
		TransactionNumber: s.TransactionNumber,
		CustomerID:        s.CustomerID,
		UserID:            s.UserID,
		TotalAmount:       s.TotalAmount.StringFixed(2),
		ItemCount:         len(s.Items),
		SaleDate:          s.SaleDate,
	}
	if err := uc.publisher.Publish(ctx, s.TransactionNumber, event.New(event.TypeSalePosted, payload)); err != nil {
		uc.logger.Warn("failed to publish sale posted event", zap.Int64("sale_id", s.ID), zap.Error(err))
	}
}

func (uc *saleUseCase) GetSale(ctx context.Context, id int64) (*model.Sale, error) {
	s, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, apperror.NotFound("sale", id)
	}
	items, err := uc.repo.ListItems(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Items = items
	return s, nil
}

func (uc *saleUseCase) ListSales(ctx context.Context, filters *dto.SaleFilters) ([]model.Sale, int, error) {
	return uc.repo.List(ctx, filters)
}

// validateShape checks the sale-level fields that need no lookups.
func validateShape(input *dto.PostSaleInput) (model.PaymentMethod, model.PaymentStatus, error) {
	if len(input.Items) == 0 {
		return "", "", apperror.Invalid("a sale needs at least one item")
	}
	if err := validPercentage("discount_percentage", input.DiscountPercentage); err != nil {
		return "", "", err
	}
	if err := validPercentage("tax_percentage", input.TaxPercentage); err != nil {
		return "", "", err
	}
	method, err := model.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return "", "", apperror.Invalid("%v", err)
	}
	status, err := model.ParsePaymentStatus(input.PaymentStatus)
	if err != nil {
		return "", "", apperror.Invalid("%v", err)
	}
	if input.Notes != nil && len(*input.Notes) > 1000 {
		return "", "", apperror.Invalid("notes must be at most 1000 characters")
	}
	return method, status, nil
}

// validateReferences checks the actor, the customer and then every item in
// request order. The first failing item is reported.
func (uc *saleUseCase) validateReferences(ctx context.Context, input *dto.PostSaleInput) error {
	user, err := uc.catalog.FindUserByID(ctx, input.UserID)
	if err != nil {
		return err
	}
	if user == nil || !user.IsActive {
		return apperror.NotFound("user", input.UserID)
	}

	customer, err := uc.catalog.FindCustomerByID(ctx, input.CustomerID)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperror.NotFound("customer", input.CustomerID)
	}

	for i, item := range input.Items {
		if err := uc.validateItem(ctx, item); err != nil {
			return &apperror.ItemError{Index: i, ProductID: item.ProductID, WarehouseID: item.WarehouseID, Err: err}
		}
	}
	return nil
}

func (uc *saleUseCase) validateItem(ctx context.Context, item dto.SaleItemInput) error {
	p, err := uc.catalog.FindProductByID(ctx, item.ProductID)
	if err != nil {
		return err
	}
	w, err := uc.catalog.FindWarehouseByID(ctx, item.WarehouseID)
	if err != nil {
		return err
	}
	if err := sellable(item.ProductID, item.WarehouseID, p, w); err != nil {
		return err
	}

	if item.Quantity <= 0 || item.Quantity > model.MaxQuantity {
		return apperror.ErrInvalidQuantity
	}
	if !item.UnitPrice.IsPositive() || !model.IsCents(item.UnitPrice) {
		return apperror.ErrInvalidPrice
	}
	return validPercentage("item discount_percentage", item.DiscountPercentage)
}

var hundred = decimal.NewFromInt(100)

func validPercentage(field string, pct decimal.Decimal) error {
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return apperror.Invalid("%s must be between 0 and 100", field)
	}
	if !model.IsCents(pct) {
		return apperror.Invalid("%s must have at most 2 decimal places", field)
	}
	return nil
}

// recheckItem share-locks the item's product and warehouse so neither can be
// deactivated before the sale commits.
func (uc *saleUseCase) recheckItem(ctx context.Context, item model.SaleItem) error {
	p, err := uc.catalog.FindProductByIDForShare(ctx, item.ProductID)
	if err != nil {
		return err
	}
	w, err := uc.catalog.FindWarehouseByIDForShare(ctx, item.WarehouseID)
	if err != nil {
		return err
	}
	return sellable(item.ProductID, item.WarehouseID, p, w)
}

func sellable(productID, warehouseID int64, p *model.Product, w *model.Warehouse) error {
	if p == nil || !p.IsActive {
		return apperror.NotFound("product", productID)
	}
	if w == nil || !w.IsActive {
		return apperror.NotFound("warehouse", warehouseID)
	}
	return nil
}

func itemError(index int, item model.SaleItem, err error) error {
	return &apperror.ItemError{Index: index, ProductID: item.ProductID, WarehouseID: item.WarehouseID, Err: err}
}
