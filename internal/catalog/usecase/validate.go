package usecase

import (
	"strings"
	"unicode/utf8"

	"github.com/fekuna/omnipos-retail-service/internal/apperror"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/shopspring/decimal"
)

func requireText(field string, v *string, maxLen int) error {
	*v = strings.TrimSpace(*v)
	if *v == "" {
		return apperror.Invalid("%s is required", field)
	}
	if utf8.RuneCountInString(*v) > maxLen {
		return apperror.Invalid("%s must be at most %d characters", field, maxLen)
	}
	return nil
}

func optionalText(field string, v *string, maxLen int) error {
	if v == nil {
		return nil
	}
	if utf8.RuneCountInString(*v) > maxLen {
		return apperror.Invalid("%s must be at most %d characters", field, maxLen)
	}
	return nil
}

func validPrice(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return apperror.Invalid("%s must not be negative", field)
	}
	if !model.IsCents(d) {
		return apperror.Invalid("%s must have at most 2 decimal places", field)
	}
	return nil
}
