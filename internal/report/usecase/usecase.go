package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/apperror"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/report"
	"github.com/fekuna/omnipos-retail-service/pkg/cache"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"go.uber.org/zap"
)

const (
	DefaultTopSellersLimit = 10
	DefaultCacheTTL        = 10 * time.Minute
)

type reportUseCase struct {
	repo     report.Repository
	cache    report.Cache
	topLimit int
	ttl      time.Duration
	logger   logger.ZapLogger
	now      func() time.Time
}

// NewReportUseCase builds the monthly aggregator. cache may be nil.
func NewReportUseCase(repo report.Repository, cache report.Cache, topLimit int, ttl time.Duration, log logger.ZapLogger) report.UseCase {
	if topLimit <= 0 {
		topLimit = DefaultTopSellersLimit
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &reportUseCase{
		repo:     repo,
		cache:    cache,
		topLimit: topLimit,
		ttl:      ttl,
		logger:   log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (uc *reportUseCase) MonthlyReport(ctx context.Context, month, year int) (*model.MonthlySalesReport, error) {
	if month < 1 || month > 12 {
		return nil, apperror.Invalid("month must be between 1 and 12, got %d", month)
	}
	if year < 1 {
		return nil, apperror.Invalid("year must be positive, got %d", year)
	}

	key := report.MonthlyCacheKey(year, time.Month(month))
	if cached := uc.fromCache(ctx, key); cached != nil {
		return cached, nil
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	total, count, err := uc.repo.SalesTotals(ctx, from, to)
	if err != nil {
		return nil, err
	}
	top, err := uc.repo.TopSellingItems(ctx, from, to, uc.topLimit)
	if err != nil {
		return nil, err
	}
	byWarehouse, err := uc.repo.SalesByWarehouse(ctx, from, to)
	if err != nil {
		return nil, err
	}
	byEmployee, err := uc.repo.SalesByEmployee(ctx, from, to)
	if err != nil {
		return nil, err
	}

	r := &model.MonthlySalesReport{
		Month:             month,
		Year:              year,
		TotalSales:        model.RoundMoney(total),
		TotalTransactions: count,
		TopSellingItems:   nonNil(top),
		SalesByWarehouse:  nonNil(byWarehouse),
		SalesByEmployee:   nonNil(byEmployee),
		GeneratedAt:       uc.now(),
	}
	uc.toCache(ctx, key, r)
	return r, nil
}

func (uc *reportUseCase) fromCache(ctx context.Context, key string) *model.MonthlySalesReport {
	if uc.cache == nil {
		return nil
	}
	data, err := uc.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			uc.logger.Warn("report cache unavailable", zap.String("key", key), zap.Error(err))
		}
		return nil
	}
	var r model.MonthlySalesReport
	if err := json.Unmarshal(data, &r); err != nil {
		uc.logger.Warn("discarding unreadable cached report", zap.String("key", key), zap.Error(err))
		return nil
	}
	return &r
}

func (uc *reportUseCase) toCache(ctx context.Context, key string, r *model.MonthlySalesReport) {
	if uc.cache == nil {
		return
	}
	data, err := json.Marshal(r)
	if err != nil {
		uc.logger.Warn("failed to encode report", zap.Error(err))
		return
	}
	if err := uc.cache.Set(ctx, key, data, uc.ttl); err != nil {
		uc.logger.Warn("failed to cache report", zap.String("key", key), zap.Error(err))
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
