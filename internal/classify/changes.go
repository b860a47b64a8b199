package classify

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/plsense/internal/model"
)

var hundred = decimal.NewFromInt(100)

// PeriodChanges returns one change per amount, each measured against the
// previous amount. The first period has no change, nor does any period
// beside a null amount. Percent is the change over the absolute prior
// amount, rounded to two places, and is null when the prior amount is zero.
func PeriodChanges(amounts []decimal.NullDecimal) []model.PeriodChange {
	changes := make([]model.PeriodChange, len(amounts))
	for p := 1; p < len(amounts); p++ {
		prev, cur := amounts[p-1], amounts[p]
		if !prev.Valid || !cur.Valid {
			continue
		}
		diff := cur.Decimal.Sub(prev.Decimal)
		changes[p].Dollar = decimal.NewNullDecimal(diff)
		if !prev.Decimal.IsZero() {
			changes[p].Percent = decimal.NewNullDecimal(diff.Div(prev.Decimal.Abs()).Mul(hundred).Round(2))
		}
	}
	return changes
}
