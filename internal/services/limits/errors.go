package limits

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AmountError reports a per-transaction bound violation.
type AmountError struct {
	Bound    decimal.Decimal
	TooSmall bool
}

func (e *AmountError) Error() string {
	if e.TooSmall {
		return fmt.Sprintf("amount below minimum of %s", e.Bound.StringFixed(2))
	}
	return fmt.Sprintf("amount exceeds maximum of %s", e.Bound.StringFixed(2))
}

// DailyLimitError reports that a transfer would push the day's total
// past the configured limit. Remaining is the headroom left today and
// may be zero or negative once the limit is fully consumed.
type DailyLimitError struct {
	Limit     decimal.Decimal
	Remaining decimal.Decimal
}

func (e *DailyLimitError) Error() string {
	return fmt.Sprintf("daily limit of %s exceeded, remaining %s",
		e.Limit.StringFixed(2), e.Remaining.StringFixed(2))
}
