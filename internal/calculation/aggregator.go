package calculation

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/0xdavidjansen/crewtax/internal/domain"
	"github.com/0xdavidjansen/crewtax/internal/rates"
)

// aggregateMonths folds the per-day and per-month intermediate results
// into ordered monthly breakdowns. Monetary values stay unrounded;
// rounding happens in the output layer.
func aggregateMonths(
	calendar *AllowanceCalendar,
	trips map[domain.MonthKey]int,
	workDays map[domain.MonthKey]int,
	hotelNights map[domain.MonthKey]int,
	settings *domain.Settings,
	reimbursements []domain.Reimbursement,
	resolver *rates.Resolver,
) []domain.MonthlyBreakdown {
	reimbByMonth := make(map[domain.MonthKey]decimal.Decimal, len(reimbursements))
	for _, r := range reimbursements {
		k := domain.MonthKey{Year: r.Year, Month: r.Month}
		reimbByMonth[k] = reimbByMonth[k].Add(r.Amount)
	}

	allowancesByMonth := make(map[domain.MonthKey][]domain.DailyAllowanceInfo)
	for _, day := range calendar.Days() {
		k := domain.MonthKeyOf(day.Date)
		allowancesByMonth[k] = append(allowancesByMonth[k], day)
	}

	keys := monthKeyUnion(allowancesByMonth, trips, workDays, hotelNights)

	months := make([]domain.MonthlyBreakdown, 0, len(keys))
	for _, k := range keys {
		m := domain.MonthlyBreakdown{
			Year:        k.Year,
			Month:       k.Month,
			TripCount:   trips[k],
			WorkDays:    workDays[k],
			HotelNights: hotelNights[k],
			Allowances:  allowancesByMonth[k],
		}

		m.DistanceDeduction = DistanceDeduction(m.TripCount, settings.CommuteKilometers, k.Year, resolver)
		m.CleaningCost = settings.CleaningCostPerWorkday.Mul(decimal.NewFromInt(int64(m.WorkDays)))
		m.TipDeduction = settings.TipPerHotelNight.Mul(decimal.NewFromInt(int64(m.HotelNights)))

		for _, day := range m.Allowances {
			if day.Qualifies {
				m.AllowanceTotal = m.AllowanceTotal.Add(day.Rate)
			}
		}
		m.Reimbursement = reimbByMonth[k]
		// The deductible difference is clamped: employer reimbursement
		// beyond the computed allowance never goes negative.
		m.AllowanceDeductible = m.AllowanceTotal.Sub(m.Reimbursement)
		if m.AllowanceDeductible.IsNegative() {
			m.AllowanceDeductible = decimal.Zero
		}

		months = append(months, m)
	}
	return months
}

func monthKeyUnion(
	allowances map[domain.MonthKey][]domain.DailyAllowanceInfo,
	trips, workDays, hotelNights map[domain.MonthKey]int,
) []domain.MonthKey {
	set := make(map[domain.MonthKey]bool)
	for k := range allowances {
		set[k] = true
	}
	for k := range trips {
		set[k] = true
	}
	for k := range workDays {
		set[k] = true
	}
	for k := range hotelNights {
		set[k] = true
	}
	keys := make([]domain.MonthKey, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })
	return keys
}

// FilterYear scopes a finished calculation to one calendar year,
// recomputing the totals and the country breakdown from the retained
// months. Year zero means no filter.
func FilterYear(calc *domain.TaxCalculation, year int) *domain.TaxCalculation {
	if year == 0 {
		return calc
	}
	out := *calc
	out.Months = nil
	out.CommuteTotal = decimal.Zero
	out.AllowanceTotal = decimal.Zero
	out.CleaningTotal = decimal.Zero
	out.TipTotal = decimal.Zero

	var days []domain.DailyAllowanceInfo
	for _, m := range calc.Months {
		if m.Year != year {
			continue
		}
		out.Months = append(out.Months, m)
		days = append(days, m.Allowances...)
		out.CommuteTotal = out.CommuteTotal.Add(m.DistanceDeduction)
		out.AllowanceTotal = out.AllowanceTotal.Add(m.AllowanceDeductible)
		out.CleaningTotal = out.CleaningTotal.Add(m.CleaningCost)
		out.TipTotal = out.TipTotal.Add(m.TipDeduction)
	}
	out.Countries = countryTotals(days)
	out.GrandTotal = out.CommuteTotal.
		Add(out.AllowanceTotal).
		Add(out.CleaningTotal).
		Add(out.TipTotal)
	return &out
}

// countryBreakdown splits the qualifying allowance days by country,
// ordered by country name.
func countryBreakdown(calendar *AllowanceCalendar) []domain.CountryAllowance {
	return countryTotals(calendar.Days())
}

func countryTotals(days []domain.DailyAllowanceInfo) []domain.CountryAllowance {
	byCountry := make(map[string]*domain.CountryAllowance)
	for _, day := range days {
		if !day.Qualifies {
			continue
		}
		c, ok := byCountry[day.Country]
		if !ok {
			c = &domain.CountryAllowance{Country: day.Country}
			byCountry[day.Country] = c
		}
		switch day.Class {
		case domain.RateFull:
			c.FullDays++
		case domain.RatePartial:
			c.PartialDays++
		}
		c.Amount = c.Amount.Add(day.Rate)
	}

	names := make([]string, 0, len(byCountry))
	for name := range byCountry {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]domain.CountryAllowance, 0, len(names))
	for _, name := range names {
		out = append(out, *byCountry[name])
	}
	return out
}
