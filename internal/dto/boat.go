package dto

import (
	"strings"
	"time"
)

// ── boat module DTOs ──

// BoatForm create/update boat form. Bound from HTML forms and JSON alike.
// Dates are YYYY-MM-DD as sent by a date input; they only count for
// daily/monthly bookings.
type BoatForm struct {
	BoatType    string `form:"boat_type"    json:"boat_type"    binding:"required,oneof=M/Y S/Y CAT. JETSKI TENDER"`
	Name        string `form:"name"         json:"name"         binding:"required,max=100"`
	Berth       string `form:"berth"        json:"berth"        binding:"required,max=20"`
	State       string `form:"state"        json:"state"        binding:"required,oneof=in out repair"`
	BookingType string `form:"booking_type" json:"booking_type" binding:"required,oneof=yearly daily_monthly guest"`
	CheckIn     string `form:"check_in"     json:"check_in"     binding:"omitempty,datetime=2006-01-02"`
	CheckOut    string `form:"check_out"    json:"check_out"    binding:"omitempty,datetime=2006-01-02"`
}

// Trimmed copy of f with surrounding blanks removed.
func (f BoatForm) Trimmed() BoatForm {
	for _, s := range []*string{&f.BoatType, &f.Name, &f.Berth, &f.State, &f.BookingType, &f.CheckIn, &f.CheckOut} {
		*s = strings.TrimSpace(*s)
	}
	return f
}

// BoatResponse boat as shown in lists and returned by the API.
type BoatResponse struct {
	ID            uint   `json:"id"`
	BoatType      string `json:"boat_type"`
	BoatTypeLabel string `json:"boat_type_label"`
	Name          string `json:"name"`
	Berth         string `json:"berth"`
	State         string `json:"state"`
	StateLabel    string `json:"state_label"`
	CheckIn       string `json:"check_in"`
	CheckOut      string `json:"check_out"`
	Deleted       bool   `json:"deleted"`
	DeletedAt     string `json:"deleted_at,omitempty"`
	Archived      bool   `json:"archived"`
	ArchivedAt    string `json:"archived_at,omitempty"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// PendingDeletionResponse soft-deleted boat waiting for archive.
type PendingDeletionResponse struct {
	BoatResponse
	// ArchiveDueAt is when the auto-archive job picks the boat up.
	ArchiveDueAt time.Time `json:"archive_due_at"`
	// RemainingSeconds until ArchiveDueAt, never negative.
	RemainingSeconds int64 `json:"remaining_seconds"`
}

// Remaining formats RemainingSeconds as HH:MM:SS.
func (p PendingDeletionResponse) Remaining() string {
	s := p.RemainingSeconds
	if s < 0 {
		s = 0
	}
	return formatHMS(s)
}

// LifecycleResult outcome of a soft-delete, archive or cancel.
// Affected is false when a concurrent request already made the change.
type LifecycleResult struct {
	ID       uint `json:"id"`
	Affected bool `json:"affected"`
}

// ArchiveSummary outcome of an auto-archive sweep.
type ArchiveSummary struct {
	Candidates int    `json:"candidates"`
	Archived   int    `json:"archived"`
	Skipped    int    `json:"skipped"`
	Failed     []uint `json:"failed,omitempty"`
}
