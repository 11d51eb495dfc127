package model

import "time"

// BaseModel audit timestamps embedded by every table.
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// DayLayout is the format of day keys and date inputs.
const DayLayout = "2006-01-02"

// ClockLayout is the format of stored times of day.
const ClockLayout = "15:04"

// LabelDateLayout is how validated check-in / check-out dates are stored.
const LabelDateLayout = "2006/01/02"
