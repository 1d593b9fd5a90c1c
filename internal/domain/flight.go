package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/0xdavidjansen/crewtax/pkg/dateutil"
)

// DutyCode tags a flight with its roster duty marker.
type DutyCode string

const (
	DutyCodeNone      DutyCode = ""
	DutyCodeTourStart DutyCode = "tour_start"
	DutyCodeTourEnd   DutyCode = "tour_end"
	DutyCodeOther     DutyCode = "other"
)

// Flight is one leg from the parsed duty roster. Records are append-only
// inputs; the engine never mutates them. An arrival clock numerically
// before the departure clock signals an overnight flight, not bad data.
type Flight struct {
	ID                uuid.UUID `yaml:"id,omitempty" json:"id"`
	Date              time.Time `yaml:"date" json:"date"` // calendar day of departure
	Number            string    `yaml:"number" json:"number"`
	ContinuationOfDay int       `yaml:"continuation_of_day,omitempty" json:"continuation_of_day,omitempty"` // day of prior month this fragment continues; 0 = none
	DepartureStation  string    `yaml:"departure_station" json:"departure_station"`
	ArrivalStation    string    `yaml:"arrival_station" json:"arrival_station"`
	DepartureCountry  string    `yaml:"departure_country,omitempty" json:"departure_country"`
	ArrivalCountry    string    `yaml:"arrival_country,omitempty" json:"arrival_country"`
	DepartureMinute   int       `yaml:"-" json:"departure_minute"` // minutes since local midnight
	ArrivalMinute     int       `yaml:"-" json:"arrival_minute"`
	BlockMinutes      int       `yaml:"block_minutes" json:"block_minutes"`
	DutyCode          DutyCode  `yaml:"duty_code,omitempty" json:"duty_code,omitempty"`
}

// IsContinuation reports whether this record is a cross-month
// continuation fragment that should be merged with a parent flight
// found in the prior month.
func (f *Flight) IsContinuation() bool {
	return f.ContinuationOfDay > 0
}

// Overnight reports whether the flight rolls past midnight: departure
// clock plus block time reaches into the next calendar day.
func (f *Flight) Overnight() bool {
	return f.DepartureMinute+f.BlockMinutes >= dateutil.MinutesPerDay
}

// ArrivalDate returns the calendar day the flight lands on.
func (f *Flight) ArrivalDate() time.Time {
	if f.Overnight() {
		return dateutil.NextDay(f.Date)
	}
	return dateutil.DayOf(f.Date)
}
