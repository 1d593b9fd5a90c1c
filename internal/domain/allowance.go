package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateClass classifies the per-diem rate assigned to a calendar day.
type RateClass string

const (
	// RateFull is the 24h-absence rate.
	RateFull RateClass = "full"
	// RatePartial is the arrival/departure-day rate (>=8h but <24h).
	RatePartial RateClass = "partial"
	// RateNone marks an informational day that earns no allowance.
	RateNone RateClass = "none"
)

// AbroadPeriod is the engine-internal representation of a tour segment:
// a contiguous date range during which the crew member is away from the
// home base. Rebuilt from scratch on every engine invocation.
type AbroadPeriod struct {
	Start   time.Time
	End     time.Time
	Flights []Flight

	// Country and Location track the rolling current position, the
	// destination of the most recent landing.
	Country  string
	Location string

	// ReturnCountry and ReturnLocation capture where the final leg
	// departed from. The return day's allowance uses the departed-from
	// country, not the arrival country.
	ReturnCountry  string
	ReturnLocation string

	// Incomplete marks a period whose start was inferred rather than
	// observed (tour-end marker with no matching tour-start).
	Incomplete bool

	OvernightOutbound bool
	OvernightReturn   bool
}

// Nights is the number of hotel nights spent away during the period.
func (p *AbroadPeriod) Nights() int {
	n := int(p.End.Sub(p.Start).Hours() / 24)
	if n < 0 {
		return 0
	}
	return n
}

// Contains reports whether the calendar day d falls inside the period.
func (p *AbroadPeriod) Contains(d time.Time) bool {
	return !d.Before(p.Start) && !d.After(p.End)
}

// DailyAllowanceInfo is the engine's per-calendar-day output: exactly
// one record per date, first write wins.
type DailyAllowanceInfo struct {
	Date     time.Time       `json:"date"`
	Country  string          `json:"country"`
	Location string          `json:"location,omitempty"`
	Rate     decimal.Decimal `json:"rate"`
	Class    RateClass       `json:"class"`
	// Qualifies is false for informational days that are recorded but
	// not deduct-eligible.
	Qualifies bool `json:"qualifies"`
}
