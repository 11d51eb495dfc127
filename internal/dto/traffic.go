package dto

import (
	"strings"
	"time"
)

// ── traffic module DTOs ──

// TrafficForm create traffic entry form. The copied boat fields may stay
// blank when boat_id links a boat; they are then taken from the boat.
type TrafficForm struct {
	BoatID     FormNumber `form:"boat_id"    json:"boat_id"    binding:"omitempty,integer,min_int=1"`
	BoatType   string     `form:"boat_type"  json:"boat_type"  binding:"omitempty,oneof=M/Y S/Y CAT. JETSKI TENDER"`
	Name       string     `form:"name"       json:"name"       binding:"omitempty,max=100"`
	Berth      string     `form:"berth"      json:"berth"      binding:"omitempty,max=20"`
	TrDate     string     `form:"tr_date"    json:"tr_date"    binding:"omitempty,datetime=2006-01-02"`
	TrTime     string     `form:"tr_time"    json:"tr_time"    binding:"omitempty,clock"`
	Direction  string     `form:"direction"  json:"direction"  binding:"required,oneof=in out repair arrival departure"`
	Passengers FormNumber `form:"passengers" json:"passengers" binding:"omitempty,integer,min_int=1"`
	Purpose    string     `form:"purpose"    json:"purpose"    binding:"omitempty,max=100"`
	Edr        string     `form:"edr"        json:"edr"        binding:"omitempty,datetime=2006-01-02"`
	Etr        string     `form:"etr"        json:"etr"        binding:"omitempty,clock"`
	Comments   string     `form:"comments"   json:"comments"   binding:"omitempty,max=200"`
}

// Trimmed copy of f with surrounding blanks removed.
func (f TrafficForm) Trimmed() TrafficForm {
	f.BoatID = FormNumber(strings.TrimSpace(string(f.BoatID)))
	f.Passengers = FormNumber(strings.TrimSpace(string(f.Passengers)))
	for _, s := range []*string{
		&f.BoatType, &f.Name, &f.Berth, &f.TrDate, &f.TrTime, &f.Direction,
		&f.Purpose, &f.Edr, &f.Etr, &f.Comments,
	} {
		*s = strings.TrimSpace(*s)
	}
	return f
}

// TrafficEntryResponse traffic entry as shown in lists.
type TrafficEntryResponse struct {
	ID             uint       `json:"id"`
	BoatID         *uint      `json:"boat_id,omitempty"`
	BoatType       string     `json:"boat_type"`
	BoatTypeLabel  string     `json:"boat_type_label"`
	Name           string     `json:"name"`
	Berth          string     `json:"berth"`
	TrDate         string     `json:"tr_date,omitempty"`
	TrTime         string     `json:"tr_time,omitempty"`
	Direction      string     `json:"direction"`
	DirectionLabel string     `json:"direction_label"`
	Passengers     *int       `json:"passengers,omitempty"`
	Purpose        string     `json:"purpose"`
	Edr            string     `json:"edr,omitempty"`
	Etr            string     `json:"etr,omitempty"`
	Comments       string     `json:"comments"`
	OccurredAt     *time.Time `json:"occurred_at,omitempty"`
	TrafficDay     string     `json:"traffic_day,omitempty"`
	// When is the display form of date and time, e.g. "2024/05/01 14:30".
	When      string `json:"when"`
	CreatedAt string `json:"created_at"`
}

// TrafficCreateResult outcome of recording a traffic entry.
type TrafficCreateResult struct {
	ID          uint `json:"id"`
	BoatUpdated bool `json:"boat_updated"`
}

// BackfillSummary outcome of re-deriving occurred_at on stored rows.
type BackfillSummary struct {
	Scanned int `json:"scanned"`
	Updated int `json:"updated"`
	// NoDate rows without a date; they are left untouched.
	NoDate int `json:"no_date"`
}
