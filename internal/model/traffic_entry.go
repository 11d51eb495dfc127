package model

import (
	"time"

	"gorm.io/gorm"
)

// ZoneSetting is the gorm setting key carrying the *time.Location used to
// combine traffic date and time. Unset means UTC.
const ZoneSetting = "harbor:zone"

// TrafficEntry one movement of a boat for table traffic_entries.
//
// Boat type, name and berth are copies taken at the time of the movement.
// OccurredAt and TrafficDay are derived on every save and any value assigned
// to them beforehand is discarded.
type TrafficEntry struct {
	ID                 uint       `gorm:"primaryKey"                          json:"id"`
	BoatType           BoatType   `gorm:"type:varchar(30);not null"           json:"boat_type"`
	Name               string     `gorm:"type:varchar(100);not null"          json:"name"`
	TrDate             *time.Time `gorm:"type:date"                           json:"tr_date,omitempty"`
	TrTime             *string    `gorm:"type:varchar(5)"                     json:"tr_time,omitempty"`
	Direction          Direction  `gorm:"type:varchar(20);not null"           json:"direction"`
	Passengers         *int       `gorm:"check:passengers IS NULL OR passengers >= 1" json:"passengers,omitempty"`
	Purpose            string     `gorm:"type:varchar(100);not null;default:''" json:"purpose"`
	ExpectedReturnDate *time.Time `gorm:"column:edr;type:date"                json:"edr,omitempty"`
	ExpectedReturnTime *string    `gorm:"column:etr;type:varchar(5)"          json:"etr,omitempty"`
	Comments           string     `gorm:"type:varchar(200);not null;default:''" json:"comments"`
	Berth              string     `gorm:"type:varchar(20);not null;default:''"  json:"berth"`
	OccurredAt         *time.Time `json:"occurred_at,omitempty"`
	TrafficDay         *string    `gorm:"type:varchar(10);index"              json:"traffic_day,omitempty"`
	BoatID             *uint      `gorm:"index"                               json:"boat_id,omitempty"`
	BaseModel

	// associations
	Boat *Boat `gorm:"foreignKey:BoatID;constraint:OnDelete:SET NULL" json:"-"`
}

// TableName table name.
func (TrafficEntry) TableName() string { return "traffic_entries" }

// Derive recomputes OccurredAt and TrafficDay.
//
// OccurredAt is TrDate+TrTime in loc, present only when both are set and the
// time parses. TrafficDay is the calendar date of OccurredAt in loc, falling
// back to TrDate.
func (e *TrafficEntry) Derive(loc *time.Location) {
	if loc == nil {
		loc = time.UTC
	}
	e.OccurredAt = nil
	e.TrafficDay = nil

	if e.TrDate != nil && e.TrTime != nil {
		if clock, err := time.Parse(ClockLayout, *e.TrTime); err == nil {
			y, m, d := e.TrDate.Date()
			at := time.Date(y, m, d, clock.Hour(), clock.Minute(), 0, 0, loc)
			e.OccurredAt = &at
		}
	}

	var day string
	switch {
	case e.OccurredAt != nil:
		day = e.OccurredAt.In(loc).Format(DayLayout)
	case e.TrDate != nil:
		day = e.TrDate.Format(DayLayout)
	default:
		return
	}
	e.TrafficDay = &day
}

// BeforeSave gorm hook; see Derive.
func (e *TrafficEntry) BeforeSave(tx *gorm.DB) error {
	loc := time.UTC
	if v, ok := tx.Get(ZoneSetting); ok {
		if l, ok := v.(*time.Location); ok && l != nil {
			loc = l
		}
	}
	e.Derive(loc)
	return nil
}
