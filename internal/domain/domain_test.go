package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFlightOvernight(t *testing.T) {
	f := Flight{
		Date:            time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		DepartureMinute: 22 * 60,
		BlockMinutes:    120,
	}
	assert.True(t, f.Overnight(), "22:00 plus two hours crosses midnight")
	assert.Equal(t, time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC), f.ArrivalDate())

	f.BlockMinutes = 119
	assert.False(t, f.Overnight())
	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), f.ArrivalDate())
}

func TestFlightIsContinuation(t *testing.T) {
	f := Flight{ContinuationOfDay: 31}
	assert.True(t, f.IsContinuation())
	f.ContinuationOfDay = 0
	assert.False(t, f.IsContinuation())
}

func TestDutyCategoryQualifiesForAllowance(t *testing.T) {
	assert.True(t, DutyMedical.QualifiesForAllowance())
	assert.True(t, DutyStandby.QualifiesForAllowance())
	assert.True(t, DutyEmergencyTraining.QualifiesForAllowance())
	assert.False(t, DutyReserveTraining.QualifiesForAllowance())
	assert.False(t, DutyGround.QualifiesForAllowance())
	assert.False(t, DutyLayover.QualifiesForAllowance(), "layover days are rated by country, not by the domestic partial rule")
}

func TestSettingsCountsAsTrip(t *testing.T) {
	s := &Settings{CountMedicalAsTrip: true, CountStandbyAsTrip: false, CountEmergencyTrainingAsTrip: true}
	assert.True(t, s.CountsAsTrip(DutyMedical))
	assert.False(t, s.CountsAsTrip(DutyStandby))
	assert.True(t, s.CountsAsTrip(DutyEmergencyTraining))
	assert.False(t, s.CountsAsTrip(DutyReserveTraining), "no flag enables reserve training")
	assert.False(t, s.CountsAsTrip(DutyLayover))
}

func TestSettingsOneWayCommuteMinutes(t *testing.T) {
	s := &Settings{CommuteKilometers: 30}
	assert.Equal(t, 15, s.OneWayCommuteMinutes(), "half a minute per kilometre")

	override := 45
	s.CommuteMinutesOverride = &override
	assert.Equal(t, 45, s.OneWayCommuteMinutes())
}

func TestMonthKeyOrdering(t *testing.T) {
	dec23 := MonthKey{Year: 2023, Month: time.December}
	jan24 := MonthKey{Year: 2024, Month: time.January}
	feb24 := MonthKey{Year: 2024, Month: time.February}

	assert.True(t, dec23.Before(jan24))
	assert.True(t, jan24.Before(feb24))
	assert.False(t, feb24.Before(jan24))
	assert.False(t, jan24.Before(jan24))

	assert.Equal(t, jan24, MonthKeyOf(time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)))
}

func TestMonthlyBreakdownTotal(t *testing.T) {
	m := MonthlyBreakdown{
		DistanceDeduction:   decimal.RequireFromString("39.2"),
		CleaningCost:        decimal.RequireFromString("4.50"),
		TipDeduction:        decimal.RequireFromString("6.00"),
		AllowanceTotal:      decimal.RequireFromString("234"),
		AllowanceDeductible: decimal.RequireFromString("184"),
	}
	assert.True(t, m.Total().Equal(decimal.RequireFromString("233.70")),
		"the total uses the deductible allowance, not the raw one")
}

func TestAbroadPeriodNights(t *testing.T) {
	p := AbroadPeriod{
		Start: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 6, 6, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, 3, p.Nights())
	assert.True(t, p.Contains(time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC)))
	assert.True(t, p.Contains(p.End))
	assert.False(t, p.Contains(time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC)))
}
