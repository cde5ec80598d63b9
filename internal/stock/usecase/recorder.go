package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/apperror"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/stock"
)

// Entry is one stock mutation to be written to the audit trail.
type Entry struct {
	StockID  int64
	Type     model.AdjustmentType
	Previous int
	Change   int
	New      int
	Reason   string
	Notes    *string
	UserID   int64
	At       time.Time
}

// Recorder appends adjustment rows. It is only called from inside the
// ledger's transaction, after the stock row itself has been written.
type Recorder struct {
	repo stock.Repository
}

func NewRecorder(repo stock.Repository) *Recorder {
	return &Recorder{repo: repo}
}

func (r *Recorder) Record(ctx context.Context, e Entry) (*model.StockAdjustment, error) {
	if e.Previous+e.Change != e.New {
		return nil, apperror.Invalid("adjustment %d%+d does not produce %d", e.Previous, e.Change, e.New)
	}

	adj := &model.StockAdjustment{
		StockID:          e.StockID,
		UserID:           e.UserID,
		AdjustmentType:   e.Type,
		QuantityChange:   e.Change,
		PreviousQuantity: e.Previous,
		NewQuantity:      e.New,
		Reason:           e.Reason,
		Notes:            e.Notes,
		AdjustmentDate:   e.At,
		CreatedAt:        e.At,
	}
	if err := r.repo.CreateAdjustment(ctx, adj); err != nil {
		return nil, err
	}
	return adj, nil
}
