package repository

import (
	"strings"

	"gorm.io/gorm"
)

// ListQuery search, sort and window of a list query.
//
// Columns are interpolated into SQL and must come from the whitelists below.
type ListQuery struct {
	Search        string
	SearchColumns []string
	SortColumn    string
	Desc          bool
	Offset        int
	// Limit <= 0 means no limit.
	Limit int
}

// ── whitelists ──

// Default sort keys.
const (
	BoatDefaultSort    = "created"
	TrafficDefaultSort = "occurred"
)

// BoatSearchColumns columns the boat search term is matched against.
var BoatSearchColumns = []string{"name", "boat_type", "berth", "state", "check_in", "check_out"}

// TrafficSearchColumns columns the traffic search term is matched against.
var TrafficSearchColumns = []string{"name", "boat_type", "berth", "direction", "purpose", "comments"}

var boatSortColumns = map[string]string{
	"created":   "created_at",
	"name":      "name",
	"type":      "boat_type",
	"berth":     "berth",
	"state":     "state",
	"check_in":  "check_in",
	"check_out": "check_out",
}

var trafficSortColumns = map[string]string{
	"occurred":   "occurred_at",
	"created":    "created_at",
	"date":       "tr_date",
	"time":       "tr_time",
	"name":       "name",
	"type":       "boat_type",
	"berth":      "berth",
	"direction":  "direction",
	"passengers": "passengers",
	"purpose":    "purpose",
}

// BoatSort resolves a sort key; unknown keys fall back to the default.
func BoatSort(key string) (resolved, column string) {
	return resolveSort(boatSortColumns, key, BoatDefaultSort)
}

// TrafficSort resolves a sort key; unknown keys fall back to the default.
func TrafficSort(key string) (resolved, column string) {
	return resolveSort(trafficSortColumns, key, TrafficDefaultSort)
}

func resolveSort(columns map[string]string, key, def string) (string, string) {
	key = strings.ToLower(strings.TrimSpace(key))
	if col, ok := columns[key]; ok {
		return key, col
	}
	return def, columns[def]
}

// ── query building ──

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern case-folded substring pattern with LIKE wildcards escaped.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

func (q ListQuery) applySearch(db *gorm.DB) *gorm.DB {
	if q.Search == "" || len(q.SearchColumns) == 0 {
		return db
	}
	pattern := likePattern(q.Search)
	conds := make([]string, 0, len(q.SearchColumns))
	args := make([]interface{}, 0, len(q.SearchColumns))
	for _, col := range q.SearchColumns {
		conds = append(conds, "LOWER("+col+`) LIKE ? ESCAPE '\'`)
		args = append(args, pattern)
	}
	return db.Where("("+strings.Join(conds, " OR ")+")", args...)
}

// applyOrder sorts NULLs last and breaks ties by id in the same direction.
func (q ListQuery) applyOrder(db *gorm.DB) *gorm.DB {
	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}
	if q.SortColumn != "" && q.SortColumn != "id" {
		db = db.Order(q.SortColumn + " IS NULL").Order(q.SortColumn + " " + dir)
	}
	return db.Order("id " + dir)
}

func (q ListQuery) applyWindow(db *gorm.DB) *gorm.DB {
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}
	if q.Offset > 0 {
		db = db.Offset(q.Offset)
	}
	return db
}
