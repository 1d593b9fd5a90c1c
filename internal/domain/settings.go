package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CrewRole determines how pre-flight briefing minutes are classified.
type CrewRole string

const (
	RolePilot CrewRole = "pilot"
	RoleCabin CrewRole = "cabin"
)

// Settings is the user-tunable deduction policy.
type Settings struct {
	Role         CrewRole `yaml:"role" json:"role"`
	AircraftType string   `yaml:"aircraft_type,omitempty" json:"aircraft_type,omitempty"` // pilots classify haul type by fleet

	// CommuteKilometers is the one-way home-to-airport distance.
	CommuteKilometers int `yaml:"commute_kilometers" json:"commute_kilometers"`
	// CommuteMinutesOverride replaces the distance-derived one-way
	// commute duration when set.
	CommuteMinutesOverride *int `yaml:"commute_minutes_override,omitempty" json:"commute_minutes_override,omitempty"`

	CleaningCostPerWorkday decimal.Decimal `yaml:"cleaning_cost_per_workday" json:"cleaning_cost_per_workday"`
	TipPerHotelNight       decimal.Decimal `yaml:"tip_per_hotel_night" json:"tip_per_hotel_night"`

	// Trip-counting policy.
	CountMedicalAsTrip           bool `yaml:"count_medical_as_trip" json:"count_medical_as_trip"`
	CountStandbyAsTrip           bool `yaml:"count_standby_as_trip" json:"count_standby_as_trip"`
	CountEmergencyTrainingAsTrip bool `yaml:"count_emergency_training_as_trip" json:"count_emergency_training_as_trip"`
	// OutboundTripsOnly counts only tour-start markers as trips; the
	// matching tour-end marker is then free.
	OutboundTripsOnly bool `yaml:"outbound_trips_only" json:"outbound_trips_only"`

	// HomeBaseOverride pins the home base instead of detecting it from
	// flight frequency.
	HomeBaseOverride string `yaml:"home_base_override,omitempty" json:"home_base_override,omitempty"`
}

// CountsAsTrip reports whether a duty category is chargeable under this
// policy. Reserve/standby training is excluded unconditionally.
func (s *Settings) CountsAsTrip(c DutyCategory) bool {
	switch c {
	case DutyMedical:
		return s.CountMedicalAsTrip
	case DutyStandby:
		return s.CountStandbyAsTrip
	case DutyEmergencyTraining:
		return s.CountEmergencyTrainingAsTrip
	}
	return false
}

// OneWayCommuteMinutes derives the one-way commute duration: half a
// minute per kilometre unless explicitly overridden.
func (s *Settings) OneWayCommuteMinutes() int {
	if s.CommuteMinutesOverride != nil {
		return *s.CommuteMinutesOverride
	}
	return s.CommuteKilometers / 2
}

// Reimbursement is the tax-free amount an employer already reimbursed
// for one month.
type Reimbursement struct {
	Year   int             `yaml:"year" json:"year"`
	Month  time.Month      `yaml:"month" json:"month"`
	Amount decimal.Decimal `yaml:"amount" json:"amount"`
}

// MonthKey identifies one calendar month.
type MonthKey struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// Before orders month keys chronologically.
func (k MonthKey) Before(other MonthKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

// MonthKeyOf returns the month key a calendar day belongs to.
func MonthKeyOf(d time.Time) MonthKey {
	return MonthKey{Year: d.Year(), Month: d.Month()}
}
