package calculation

import (
	"sort"

	"github.com/0xdavidjansen/crewtax/internal/domain"
	"github.com/0xdavidjansen/crewtax/pkg/dateutil"
)

// NormalizeFlights sorts the roster chronologically and merges
// cross-month continuation fragments into their parent flights. A
// fragment whose parent cannot be found is kept standalone and flagged
// with a diagnostic; the calculation proceeds.
func NormalizeFlights(flights []domain.Flight, diag *diagnostics) []domain.Flight {
	sorted := make([]domain.Flight, len(flights))
	copy(sorted, flights)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !dateutil.SameDay(sorted[i].Date, sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].DepartureMinute < sorted[j].DepartureMinute
	})

	merged := make([]domain.Flight, 0, len(sorted))
	for _, f := range sorted {
		if !f.IsContinuation() {
			merged = append(merged, f)
			continue
		}
		parent := findParent(merged, f)
		if parent < 0 {
			diag.warnf(f.Date, "continuation fragment %s on %s has no parent flight on day %d of the prior month; keeping it standalone",
				f.Number, dateutil.FormatDay(f.Date), f.ContinuationOfDay)
			merged = append(merged, f)
			continue
		}
		// The merged logical flight keeps the parent's departure and
		// takes the fragment's arrival; block time is the sum of both
		// legs, which also makes the overnight detection see the
		// midnight rollover.
		merged[parent].BlockMinutes += f.BlockMinutes
		merged[parent].ArrivalStation = f.ArrivalStation
		merged[parent].ArrivalCountry = f.ArrivalCountry
		merged[parent].ArrivalMinute = f.ArrivalMinute
		if f.DutyCode != domain.DutyCodeNone {
			merged[parent].DutyCode = f.DutyCode
		}
	}
	return merged
}

// findParent locates the prior-month flight a continuation fragment
// belongs to: same flight number, departing on the marked day of the
// month immediately before the fragment's month.
func findParent(flights []domain.Flight, fragment domain.Flight) int {
	wantYear, wantMonth := dateutil.PriorMonth(fragment.Date.Year(), fragment.Date.Month())
	for i := len(flights) - 1; i >= 0; i-- {
		f := flights[i]
		if f.Date.Year() != wantYear || f.Date.Month() != wantMonth {
			continue
		}
		if f.Date.Day() == fragment.ContinuationOfDay && f.Number == fragment.Number {
			return i
		}
	}
	return -1
}

// flightsByDay groups chronologically sorted flights by calendar day,
// preserving order within each day. The returned day keys are sorted.
func flightsByDay(flights []domain.Flight) (map[string][]domain.Flight, []string) {
	byDay := make(map[string][]domain.Flight)
	var keys []string
	for _, f := range flights {
		k := dateutil.DayKey(f.Date)
		if _, seen := byDay[k]; !seen {
			keys = append(keys, k)
		}
		byDay[k] = append(byDay[k], f)
	}
	sort.Strings(keys)
	return byDay, keys
}
