package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"harbor-control/config"
	"harbor-control/internal/model"
	"harbor-control/internal/pagination"
	"harbor-control/internal/repository"
	"harbor-control/pkg/database"
)

// ── Mock BoatRepository ──

type mockBoatRepo struct {
	boats  map[uint]*model.Boat
	nextID uint

	// updateErrs are returned, in order, by UpdateWhere before it succeeds.
	updateErrs  []error
	updateCalls int
	// beforeUpdate runs inside UpdateWhere, simulating a concurrent writer.
	beforeUpdate func()
	stateCalls   int
}

func newMockBoatRepo() *mockBoatRepo {
	return &mockBoatRepo{boats: make(map[uint]*model.Boat)}
}

func (m *mockBoatRepo) add(b *model.Boat) *model.Boat {
	if b.ID == 0 {
		m.nextID++
		b.ID = m.nextID
	} else if b.ID > m.nextID {
		m.nextID = b.ID
	}
	m.boats[b.ID] = b
	return b
}

func (m *mockBoatRepo) Create(_ context.Context, boat *model.Boat) error {
	boat.Normalize()
	boat.Deleted, boat.Archived = false, false
	boat.CreatedAt = time.Now()
	m.add(boat)
	return nil
}

func (m *mockBoatRepo) GetByID(_ context.Context, id uint) (*model.Boat, error) {
	if b, ok := m.boats[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBoatRepo) sorted(filter func(*model.Boat) bool) []model.Boat {
	var out []model.Boat
	for _, b := range m.boats {
		if filter(b) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (m *mockBoatRepo) List(_ context.Context, vis repository.BoatVisibility, q repository.ListQuery) ([]model.Boat, int64, error) {
	all := m.sorted(func(b *model.Boat) bool {
		switch vis {
		case repository.VisibleActive:
			if !b.Active() {
				return false
			}
		case repository.VisiblePending:
			if !b.PendingDeletion() {
				return false
			}
		}
		return matchesSearch(q, boatColumn(b))
	})
	total := int64(len(all))
	if q.Offset < len(all) {
		all = all[q.Offset:]
	} else {
		all = nil
	}
	if q.Limit > 0 && q.Limit < len(all) {
		all = all[:q.Limit]
	}
	return all, total, nil
}

// boatColumn reads the searchable columns of b by name.
func boatColumn(b *model.Boat) func(col string) string {
	return func(col string) string {
		switch col {
		case "name":
			return b.Name
		case "boat_type":
			return b.BoatType.String()
		case "berth":
			return b.Berth
		case "state":
			return b.State.String()
		case "check_in":
			return b.CheckIn
		case "check_out":
			return b.CheckOut
		}
		return ""
	}
}

// matchesSearch mirrors the repository search: a case-insensitive substring
// of any whitelisted column.
func matchesSearch(q repository.ListQuery, column func(col string) string) bool {
	if q.Search == "" {
		return true
	}
	term := strings.ToLower(q.Search)
	for _, col := range q.SearchColumns {
		if strings.Contains(strings.ToLower(column(col)), term) {
			return true
		}
	}
	return false
}

func (m *mockBoatRepo) ListPendingDeletion(_ context.Context) ([]model.Boat, error) {
	out := m.sorted(func(b *model.Boat) bool { return b.PendingDeletion() })
	sort.SliceStable(out, func(i, j int) bool { return out[i].DeletedAt.After(*out[j].DeletedAt) })
	return out, nil
}

func (m *mockBoatRepo) ListDeletedBefore(_ context.Context, cutoff time.Time) ([]model.Boat, error) {
	out := m.sorted(func(b *model.Boat) bool {
		return b.PendingDeletion() && b.DeletedAt != nil && !b.DeletedAt.After(cutoff)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockBoatRepo) UpdateEditable(_ context.Context, boat *model.Boat) (int64, error) {
	cur, ok := m.boats[boat.ID]
	if !ok || !cur.Active() {
		return 0, nil
	}
	boat.Normalize()
	cur.BoatType, cur.Name, cur.Berth, cur.State = boat.BoatType, boat.Name, boat.Berth, boat.State
	cur.CheckIn, cur.CheckOut = boat.CheckIn, boat.CheckOut
	return 1, nil
}

// UpdateWhere understands the guards the lifecycle service builds:
// "id = ? AND deleted = ?" and "id = ? AND deleted = ? AND archived = ?".
func (m *mockBoatRepo) UpdateWhere(_ context.Context, upd database.ConditionalUpdate) (int64, error) {
	m.updateCalls++
	if len(m.updateErrs) > 0 {
		err := m.updateErrs[0]
		m.updateErrs = m.updateErrs[1:]
		return 0, err
	}
	if m.beforeUpdate != nil {
		m.beforeUpdate()
		m.beforeUpdate = nil
	}

	args := upd.Guard.Args
	b, ok := m.boats[args[0].(uint)]
	if !ok || b.Deleted != args[1].(bool) {
		return 0, nil
	}
	if len(args) > 2 && b.Archived != args[2].(bool) {
		return 0, nil
	}

	for col, v := range upd.Changes {
		switch col {
		case "deleted":
			b.Deleted = v.(bool)
		case "archived":
			b.Archived = v.(bool)
		case "deleted_at":
			b.DeletedAt = toTimePtr(v)
		case "archived_at":
			b.ArchivedAt = toTimePtr(v)
		}
	}
	return 1, nil
}

func toTimePtr(v interface{}) *time.Time {
	if t, ok := v.(time.Time); ok {
		return &t
	}
	return nil
}

func (m *mockBoatRepo) SetState(_ context.Context, id uint, state model.State) (int64, error) {
	m.stateCalls++
	b, ok := m.boats[id]
	if !ok {
		return 0, nil
	}
	b.State = state
	return 1, nil
}

func (m *mockBoatRepo) Delete(_ context.Context, id uint) (int64, error) {
	if _, ok := m.boats[id]; !ok {
		return 0, nil
	}
	delete(m.boats, id)
	return 1, nil
}

// ── Mock TrafficRepository ──

type mockTrafficRepo struct {
	entries  map[uint]*model.TrafficEntry
	nextID   uint
	loc      *time.Location
	createFn func(*model.TrafficEntry) error
}

func newMockTrafficRepo() *mockTrafficRepo {
	return &mockTrafficRepo{entries: make(map[uint]*model.TrafficEntry), loc: time.UTC}
}

func (m *mockTrafficRepo) Create(_ context.Context, e *model.TrafficEntry) error {
	if m.createFn != nil {
		if err := m.createFn(e); err != nil {
			return err
		}
	}
	e.Derive(m.loc)
	m.nextID++
	e.ID = m.nextID
	e.CreatedAt = time.Now()
	m.entries[e.ID] = e
	return nil
}

// put stores e as-is, without deriving.
func (m *mockTrafficRepo) put(e *model.TrafficEntry) {
	m.nextID++
	e.ID = m.nextID
	m.entries[e.ID] = e
}

func (m *mockTrafficRepo) GetByID(_ context.Context, id uint) (*model.TrafficEntry, error) {
	if e, ok := m.entries[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func trafficColumn(e *model.TrafficEntry) func(col string) string {
	return func(col string) string {
		switch col {
		case "name":
			return e.Name
		case "boat_type":
			return e.BoatType.String()
		case "berth":
			return e.Berth
		case "direction":
			return e.Direction.String()
		case "purpose":
			return e.Purpose
		case "comments":
			return e.Comments
		}
		return ""
	}
}

func (m *mockTrafficRepo) filtered(q repository.ListQuery) []model.TrafficEntry {
	var out []model.TrafficEntry
	for _, e := range m.entries {
		if matchesSearch(q, trafficColumn(e)) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (m *mockTrafficRepo) List(_ context.Context, q repository.ListQuery) ([]model.TrafficEntry, int64, error) {
	all := m.filtered(q)
	total := int64(len(all))
	if q.Offset < len(all) {
		all = all[q.Offset:]
	} else {
		all = nil
	}
	if q.Limit > 0 && q.Limit < len(all) {
		all = all[:q.Limit]
	}
	return all, total, nil
}

func (m *mockTrafficRepo) Days(q repository.ListQuery) pagination.DaySource[model.TrafficEntry] {
	return pagination.NewSliceSource(m.filtered(q), func(e model.TrafficEntry) (pagination.Day, bool) {
		if e.TrafficDay == nil {
			return pagination.Day{}, false
		}
		d, err := pagination.ParseDay(*e.TrafficDay)
		return d, err == nil
	})
}

func (m *mockTrafficRepo) ListUnderived(_ context.Context, afterID uint, limit int) ([]model.TrafficEntry, error) {
	var out []model.TrafficEntry
	for _, e := range m.entries {
		if e.ID <= afterID || e.TrDate == nil {
			continue
		}
		if e.TrafficDay == nil || (e.TrTime != nil && e.OccurredAt == nil) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockTrafficRepo) CountWithoutDate(_ context.Context) (int64, error) {
	var n int64
	for _, e := range m.entries {
		if e.TrDate == nil {
			n++
		}
	}
	return n, nil
}

func (m *mockTrafficRepo) SaveDerived(_ context.Context, e *model.TrafficEntry) error {
	e.Derive(m.loc)
	stored := m.entries[e.ID]
	stored.OccurredAt, stored.TrafficDay = e.OccurredAt, e.TrafficDay
	return nil
}

// ── helpers ──

func testConfig() *config.Config {
	return &config.Config{
		App:        config.AppConfig{Timezone: "UTC"},
		Pagination: config.PaginationConfig{DefaultPer: 25, MaxPer: 500, IncludeEmptyDays: true},
		Lifecycle: config.LifecycleConfig{
			RetryAttempts:    3,
			RetryBackoff:     time.Millisecond,
			AutoArchiveAfter: 48 * time.Hour,
		},
	}
}

func setupTestRepo() (*repository.Repository, *mockBoatRepo, *mockTrafficRepo) {
	boats := newMockBoatRepo()
	traffic := newMockTrafficRepo()
	return &repository.Repository{Boat: boats, Traffic: traffic}, boats, traffic
}

func dateOf(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func strPtr(s string) *string { return &s }
