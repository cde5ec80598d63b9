package usecase

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NumberGenerator produces a transaction number candidate for a sale posted
// at the given time. Candidates are not guaranteed unique; collisions are
// detected at insert time and retried.
type NumberGenerator func(at time.Time) string

// NewTransactionNumber returns TRX<yyyymmdd>-<6 hex digits>, 18 characters.
func NewTransactionNumber(at time.Time) string {
	id := uuid.New()
	return "TRX" + at.Format("20060102") + "-" + strings.ToUpper(hex.EncodeToString(id[:3]))
}
