package dto

import "fmt"

// ── list responses ──

// BoatListResult one fixed-size page of boats.
type BoatListResult struct {
	Boats    []BoatResponse `json:"boats"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	Per      int            `json:"per"`
	NumPages int            `json:"num_pages"`
	Sort     string         `json:"sort"`
	Dir      string         `json:"dir"`
	Q        string         `json:"q,omitempty"`
}

// TrafficListResult one page of traffic, either a day or a fixed-size window.
type TrafficListResult struct {
	Mode     string                 `json:"mode"`
	Entries  []TrafficEntryResponse `json:"entries"`
	Page     int                    `json:"page"`
	NumPages int                    `json:"num_pages"`
	// Day of the page in day mode; empty when there are no dated entries.
	Day string `json:"day,omitempty"`
	// Total and Per are set in per mode.
	Total int64  `json:"total,omitempty"`
	Per   int    `json:"per,omitempty"`
	Sort  string `json:"sort"`
	Dir   string `json:"dir"`
	Q     string `json:"q,omitempty"`
}

// HasPrevious page exists.
func (r *TrafficListResult) HasPrevious() bool { return r.Page > 1 }

// HasNext page exists.
func (r *TrafficListResult) HasNext() bool { return r.Page < r.NumPages }

// NumPagesFor number of fixed-size pages for total rows, at least 1.
func NumPagesFor(total int64, per int) int {
	if per < 1 || total <= 0 {
		return 1
	}
	n := int(total) / per
	if int(total)%per > 0 {
		n++
	}
	return n
}

func formatHMS(totalSec int64) string {
	return fmt.Sprintf("%02d:%02d:%02d", totalSec/3600, (totalSec%3600)/60, totalSec%60)
}
