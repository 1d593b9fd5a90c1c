package domain

import (
	"time"

	"github.com/google/uuid"
)

// DutyCategory classifies a rostered day without a flight.
type DutyCategory string

const (
	// DutyMedical is an aeromedical examination day.
	DutyMedical DutyCategory = "medical"
	// DutyLayover is a stand-alone abroad/layover day; Country is required.
	DutyLayover DutyCategory = "layover"
	// DutyStandby is an airport standby day.
	DutyStandby DutyCategory = "standby"
	// DutyEmergencyTraining is a recurrent emergency-equipment training day.
	DutyEmergencyTraining DutyCategory = "emergency_training"
	// DutyReserveTraining is reserve/standby training. It never counts as
	// a chargeable trip, regardless of settings.
	DutyReserveTraining DutyCategory = "reserve_training"
	// DutyGround is any other ground duty. Never allowance-eligible.
	DutyGround DutyCategory = "ground"
)

// QualifiesForAllowance reports whether a free-standing day of this
// category earns the domestic partial-day allowance.
func (c DutyCategory) QualifiesForAllowance() bool {
	switch c {
	case DutyMedical, DutyStandby, DutyEmergencyTraining:
		return true
	}
	return false
}

// DutyDay is a calendar day without a flight, tagged with its duty
// category. Append-only input, never mutated by the engine.
type DutyDay struct {
	ID       uuid.UUID    `yaml:"id,omitempty" json:"id"`
	Date     time.Time    `yaml:"date" json:"date"`
	Category DutyCategory `yaml:"category" json:"category"`
	Country  string       `yaml:"country,omitempty" json:"country,omitempty"` // required for layover days
}
