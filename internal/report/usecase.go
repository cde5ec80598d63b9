package report

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/model"
)

type UseCase interface {
	MonthlyReport(ctx context.Context, month, year int) (*model.MonthlySalesReport, error)
}

// Cache stores rendered reports. *cache.RedisClient satisfies it.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// MonthlyCacheKey is the cache key of the report for one calendar month.
func MonthlyCacheKey(year int, month time.Month) string {
	return fmt.Sprintf("reports:monthly:%04d-%02d", year, int(month))
}
