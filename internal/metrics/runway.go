package metrics

import (
	"time"

	"github.com/cleared-dev/plsense/internal/model"
)

// Runway estimates months of cash left at the average net burn. The zero
// cash date counts whole months from asOf.
func Runway(cash float64, burn model.Burn, asOf time.Time) model.Runway {
	r := model.Runway{CashBalance: cash}
	if burn.NetBurnAvg <= 0 {
		r.Unlimited = true
		r.Status = model.RunwayProfitable
		r.Urgency = model.PriorityNone
		return r
	}

	months := cash / burn.NetBurnAvg
	r.MonthsRemaining = round(months, 1)
	r.ZeroCashDate = addMonths(asOf, int(months)).Format("2006-01-02")

	switch {
	case months <= 6:
		r.Status, r.Urgency = model.RunwayCritical, model.PriorityHigh
	case months < 12:
		r.Status, r.Urgency = model.RunwayConcerning, model.PriorityMedium
	case months < 18:
		r.Status, r.Urgency = model.RunwayComfortable, model.PriorityLow
	default:
		r.Status, r.Urgency = model.RunwayStrong, model.PriorityNone
	}
	return r
}

// addMonths adds n calendar months, clamping the day to the target month's
// length (Jan 31 + 1 month = Feb 28/29).
func addMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, n, 0)
	last := first.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
