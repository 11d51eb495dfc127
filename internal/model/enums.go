package model

import (
	"database/sql/driver"
	"fmt"
)

// Enumerations are small closed integer types. The zero value of each is
// invalid: it never parses from input and is rejected by Value on write.
// Storage and wire formats use the code string.

// ── BoatType ──

// BoatType vessel category.
type BoatType uint8

const (
	BoatTypeMotorYacht BoatType = iota + 1
	BoatTypeSailingYacht
	BoatTypeCatamaran
	BoatTypeJetSki
	BoatTypeTender
)

// BoatTypes lists every valid BoatType in display order.
var BoatTypes = []BoatType{
	BoatTypeMotorYacht, BoatTypeSailingYacht, BoatTypeCatamaran, BoatTypeJetSki, BoatTypeTender,
}

func (t BoatType) String() string {
	switch t {
	case BoatTypeMotorYacht:
		return "M/Y"
	case BoatTypeSailingYacht:
		return "S/Y"
	case BoatTypeCatamaran:
		return "CAT."
	case BoatTypeJetSki:
		return "JETSKI"
	case BoatTypeTender:
		return "TENDER"
	}
	return ""
}

// Label is the display text; boat types display as their code.
func (t BoatType) Label() string { return t.String() }

// Valid reports whether t is one of the declared variants.
func (t BoatType) Valid() bool { return t.String() != "" }

// ParseBoatType parses a stored or submitted code.
func ParseBoatType(s string) (BoatType, error) {
	for _, t := range BoatTypes {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown boat type %q", s)
}

func (t BoatType) MarshalText() ([]byte, error) { return marshalCode(t.String(), "boat type", uint8(t)) }

func (t *BoatType) UnmarshalText(b []byte) error {
	v, err := ParseBoatType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (t *BoatType) Scan(src interface{}) error {
	s, err := scanCode(src, "BoatType")
	if err != nil {
		return err
	}
	return t.UnmarshalText([]byte(s))
}

func (t BoatType) Value() (driver.Value, error) { return valueCode(t.String(), "boat type", uint8(t)) }

// ── State ──

// State where a boat currently is.
type State uint8

const (
	StateIn State = iota + 1
	StateOut
	StateRepair
)

// States lists every valid State in display order.
var States = []State{StateIn, StateOut, StateRepair}

func (s State) String() string {
	switch s {
	case StateIn:
		return "in"
	case StateOut:
		return "out"
	case StateRepair:
		return "repair"
	}
	return ""
}

// Label is the display text.
func (s State) Label() string {
	switch s {
	case StateIn:
		return "In"
	case StateOut:
		return "Out"
	case StateRepair:
		return "Repair"
	}
	return ""
}

// Valid reports whether s is one of the declared variants.
func (s State) Valid() bool { return s.String() != "" }

// ParseState parses a stored or submitted code.
func ParseState(code string) (State, error) {
	for _, s := range States {
		if s.String() == code {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown state %q", code)
}

func (s State) MarshalText() ([]byte, error) { return marshalCode(s.String(), "state", uint8(s)) }

func (s *State) UnmarshalText(b []byte) error {
	v, err := ParseState(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (s *State) Scan(src interface{}) error {
	code, err := scanCode(src, "State")
	if err != nil {
		return err
	}
	return s.UnmarshalText([]byte(code))
}

func (s State) Value() (driver.Value, error) { return valueCode(s.String(), "state", uint8(s)) }

// ── Direction ──

// Direction of a traffic movement.
type Direction uint8

const (
	DirectionIn Direction = iota + 1
	DirectionOut
	DirectionRepair
	DirectionArrival
	DirectionDeparture
)

// Directions lists every valid Direction in display order.
var Directions = []Direction{DirectionIn, DirectionOut, DirectionRepair, DirectionArrival, DirectionDeparture}

func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "in"
	case DirectionOut:
		return "out"
	case DirectionRepair:
		return "repair"
	case DirectionArrival:
		return "arrival"
	case DirectionDeparture:
		return "departure"
	}
	return ""
}

// Label is the display text.
func (d Direction) Label() string {
	switch d {
	case DirectionIn:
		return "In"
	case DirectionOut:
		return "Out"
	case DirectionRepair:
		return "Repair"
	case DirectionArrival:
		return "Arrival"
	case DirectionDeparture:
		return "Departure"
	}
	return ""
}

// Valid reports whether d is one of the declared variants.
func (d Direction) Valid() bool { return d.String() != "" }

// BoatState is the state a linked boat takes after a movement in direction d.
// ok is false only for the invalid zero value.
func (d Direction) BoatState() (state State, ok bool) {
	switch d {
	case DirectionIn, DirectionArrival:
		return StateIn, true
	case DirectionOut, DirectionDeparture:
		return StateOut, true
	case DirectionRepair:
		return StateRepair, true
	}
	return 0, false
}

// ParseDirection parses a stored or submitted code.
func ParseDirection(code string) (Direction, error) {
	for _, d := range Directions {
		if d.String() == code {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q", code)
}

func (d Direction) MarshalText() ([]byte, error) { return marshalCode(d.String(), "direction", uint8(d)) }

func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (d *Direction) Scan(src interface{}) error {
	code, err := scanCode(src, "Direction")
	if err != nil {
		return err
	}
	return d.UnmarshalText([]byte(code))
}

func (d Direction) Value() (driver.Value, error) { return valueCode(d.String(), "direction", uint8(d)) }

// ── BookingType ──

// BookingType how a berth is booked. It is a form input only; the boat stores
// the resulting check-in / check-out labels.
type BookingType uint8

const (
	BookingYearly BookingType = iota + 1
	BookingDailyMonthly
	BookingGuest
)

// BookingTypes lists every valid BookingType in display order.
var BookingTypes = []BookingType{BookingYearly, BookingDailyMonthly, BookingGuest}

func (b BookingType) String() string {
	switch b {
	case BookingYearly:
		return "yearly"
	case BookingDailyMonthly:
		return "daily_monthly"
	case BookingGuest:
		return "guest"
	}
	return ""
}

// Label is the display text.
func (b BookingType) Label() string {
	switch b {
	case BookingYearly:
		return "Yearly"
	case BookingDailyMonthly:
		return "Daily / Monthly"
	case BookingGuest:
		return "Guest"
	}
	return ""
}

// ParseBookingType parses a submitted code.
func ParseBookingType(code string) (BookingType, error) {
	for _, b := range BookingTypes {
		if b.String() == code {
			return b, nil
		}
	}
	return 0, fmt.Errorf("unknown booking type %q", code)
}

// ── helpers ──

func scanCode(src interface{}, typ string) (string, error) {
	switch v := src.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("%s.Scan: unsupported type %T", typ, src)
	}
}

func valueCode(code, what string, raw uint8) (driver.Value, error) {
	if code == "" {
		return nil, fmt.Errorf("invalid %s %d", what, raw)
	}
	return code, nil
}

func marshalCode(code, what string, raw uint8) ([]byte, error) {
	if code == "" {
		return nil, fmt.Errorf("invalid %s %d", what, raw)
	}
	return []byte(code), nil
}
