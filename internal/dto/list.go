package dto

import (
	"strconv"
	"strings"
)

// Pagination modes.
const (
	ModeDay = "day"
	ModePer = "per"
)

// Sort directions.
const (
	DirAsc  = "asc"
	DirDesc = "desc"
)

// ListParams query string of every list page.
type ListParams struct {
	Q    string `form:"q"`
	Sort string `form:"sort"`
	Dir  string `form:"dir"`
	Mode string `form:"mode"`
	Per  string `form:"per"`
	Page string `form:"page"`
	// Day jump-to-date, YYYY-MM-DD.
	Day string `form:"day"`
}

// Search trimmed search term.
func (p *ListParams) Search() string { return strings.TrimSpace(p.Q) }

// Desc is true unless dir is asc.
func (p *ListParams) Desc() bool { return strings.ToLower(strings.TrimSpace(p.Dir)) != DirAsc }

// Direction normalized sort direction.
func (p *ListParams) Direction() string {
	if p.Desc() {
		return DirDesc
	}
	return DirAsc
}

// PaginationMode resolves mode, falling back to def.
func (p *ListParams) PaginationMode(def string) string {
	switch strings.ToLower(strings.TrimSpace(p.Mode)) {
	case ModeDay:
		return ModeDay
	case ModePer:
		return ModePer
	}
	return def
}

// PageSize parses per and clamps it to [1, max]. Blank or garbage means def.
func (p *ListParams) PageSize(def, max int) int {
	n, err := strconv.Atoi(strings.TrimSpace(p.Per))
	if err != nil {
		n = def
	}
	if n < 1 {
		n = 1
	}
	if n > max {
		n = max
	}
	return n
}
