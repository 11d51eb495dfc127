package repository_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"harbor-control/config"
	"harbor-control/internal/model"
	"harbor-control/internal/pagination"
	"harbor-control/internal/repository"
	"harbor-control/pkg/database"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var athens = time.FixedZone("EEST", 3*60*60)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Driver:        config.DriverSQLite,
		Path:          filepath.Join(t.TempDir(), "harbor_test.db"),
		BusyTimeoutMS: 2000,
		MaxOpenConns:  1,
		MaxIdleConns:  1,
	}
	db, err := database.NewDB(cfg, "silent", zap.NewNop())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.RunMigrations(sqlDB, config.DriverSQLite, zap.NewNop()))
	return db
}

func setupTestRepo(t *testing.T) (*repository.Repository, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	return repository.NewRepository(db, athens), db
}

func createBoat(t *testing.T, repo *repository.Repository, name string) *model.Boat {
	t.Helper()
	boat := &model.Boat{
		BoatType: model.BoatTypeMotorYacht,
		Name:     name,
		Berth:    "a1",
		State:    model.StateIn,
		CheckIn:  model.LabelYearly,
		CheckOut: model.LabelYearly,
	}
	require.NoError(t, repo.Boat.Create(context.Background(), boat))
	return boat
}

func dateOf(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func clock(s string) *string { return &s }

func createEntry(t *testing.T, repo *repository.Repository, name string, day *time.Time, at *string) *model.TrafficEntry {
	t.Helper()
	entry := &model.TrafficEntry{
		BoatType:  model.BoatTypeSailingYacht,
		Name:      name,
		Berth:     "B2",
		TrDate:    day,
		TrTime:    at,
		Direction: model.DirectionArrival,
	}
	require.NoError(t, repo.Traffic.Create(context.Background(), entry))
	return entry
}

// ═══════════════════════════════════════════════════════════
// Test: Boats
// ═══════════════════════════════════════════════════════════

func TestBoatRepo_Create_NormalizesAndClearsFlags(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	now := time.Now()
	boat := &model.Boat{
		BoatType:  model.BoatTypeCatamaran,
		Name:      "  sea breeze ",
		Berth:     "c12",
		State:     model.StateOut,
		Deleted:   true,
		DeletedAt: &now,
		Archived:  true,
	}
	require.NoError(t, repo.Boat.Create(ctx, boat))

	found, err := repo.Boat.GetByID(ctx, boat.ID)
	require.NoError(t, err)
	assert.Equal(t, "SEA BREEZE", found.Name)
	assert.Equal(t, "C12", found.Berth)
	assert.Equal(t, model.BoatTypeCatamaran, found.BoatType)
	assert.False(t, found.Deleted)
	assert.False(t, found.Archived)
	assert.Nil(t, found.DeletedAt)
}

func TestBoatRepo_GetByID_NotFound(t *testing.T) {
	repo, _ := setupTestRepo(t)

	_, err := repo.Boat.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestBoatRepo_UpdateEditable_SkipsDeletedBoat(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()
	boat := createBoat(t, repo, "aurora")

	affected, err := repo.Boat.UpdateWhere(ctx, database.ConditionalUpdate{
		Guard:   database.Guard{Where: "id = ? AND deleted = ?", Args: []interface{}{boat.ID, false}},
		Changes: map[string]interface{}{"deleted": true, "deleted_at": time.Now().UTC()},
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, affected)

	boat.Name = "renamed"
	affected, err = repo.Boat.UpdateEditable(ctx, boat)
	require.NoError(t, err)
	assert.EqualValues(t, 0, affected)

	found, err := repo.Boat.GetByID(ctx, boat.ID)
	require.NoError(t, err)
	assert.Equal(t, "AURORA", found.Name)
	assert.True(t, found.Deleted, "a form save must never undelete a boat")
}

func TestBoatRepo_UpdateEditable_WritesFormColumns(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()
	boat := createBoat(t, repo, "aurora")

	boat.Name = "borealis"
	boat.State = model.StateRepair
	boat.CheckIn, boat.CheckOut = "2024/05/01", model.LabelUnknown
	affected, err := repo.Boat.UpdateEditable(ctx, boat)
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	found, err := repo.Boat.GetByID(ctx, boat.ID)
	require.NoError(t, err)
	assert.Equal(t, "BOREALIS", found.Name)
	assert.Equal(t, model.StateRepair, found.State)
	assert.Equal(t, "2024/05/01", found.CheckIn)
	assert.Equal(t, model.LabelUnknown, found.CheckOut)
}

func TestBoatRepo_UpdateWhere_SecondSoftDeleteLosesRace(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()
	boat := createBoat(t, repo, "aurora")

	upd := database.ConditionalUpdate{
		Guard:   database.Guard{Where: "id = ? AND deleted = ?", Args: []interface{}{boat.ID, false}},
		Changes: map[string]interface{}{"deleted": true, "deleted_at": time.Now().UTC()},
	}
	first, err := repo.Boat.UpdateWhere(ctx, upd)
	require.NoError(t, err)
	second, err := repo.Boat.UpdateWhere(ctx, upd)
	require.NoError(t, err)

	assert.EqualValues(t, 1, first)
	assert.EqualValues(t, 0, second)
}

func TestBoatRepo_List_VisibilityAndSearch(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	createBoat(t, repo, "aurora")
	createBoat(t, repo, "100%_blue")
	gone := createBoat(t, repo, "aurora two")
	_, err := repo.Boat.UpdateWhere(ctx, database.ConditionalUpdate{
		Guard:   database.Guard{Where: "id = ?", Args: []interface{}{gone.ID}},
		Changes: map[string]interface{}{"deleted": true, "deleted_at": time.Now().UTC()},
	})
	require.NoError(t, err)

	boats, total, err := repo.Boat.List(ctx, repository.VisibleActive, repository.ListQuery{
		Search:        "AUR",
		SearchColumns: repository.BoatSearchColumns,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, boats, 1)
	assert.Equal(t, "AURORA", boats[0].Name)

	// wildcards in the term match literally
	boats, _, err = repo.Boat.List(ctx, repository.VisibleActive, repository.ListQuery{
		Search:        "%_",
		SearchColumns: repository.BoatSearchColumns,
	})
	require.NoError(t, err)
	require.Len(t, boats, 1)
	assert.Equal(t, "100%_BLUE", boats[0].Name)

	pending, total, err := repo.Boat.List(ctx, repository.VisiblePending, repository.ListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, gone.ID, pending[0].ID)
}

func TestBoatRepo_List_SearchMatchesBerthOnly(t *testing.T) {
	repo, db := setupTestRepo(t)
	ctx := context.Background()

	// UpdateColumn skips the uppercasing hook so stored berths keep mixed case
	berths := map[string]string{"alba": "Pier-7a", "brisa": "pier-7B", "corsair": "dock-9", "delta": "PIER-8"}
	ids := map[string]uint{}
	for name, berth := range berths {
		boat := createBoat(t, repo, name)
		require.NoError(t, db.Model(&model.Boat{}).Where("id = ?", boat.ID).UpdateColumn("berth", berth).Error)
		ids[name] = boat.ID
	}

	boats, total, err := repo.Boat.List(ctx, repository.VisibleActive, repository.ListQuery{
		Search:        "pIeR-7",
		SearchColumns: repository.BoatSearchColumns,
		SortColumn:    "name",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, boats, 2)
	assert.Equal(t, ids["alba"], boats[0].ID)
	assert.Equal(t, ids["brisa"], boats[1].ID)
	assert.Equal(t, "Pier-7a", boats[0].Berth)
	for _, b := range boats {
		assert.NotContains(t, strings.ToLower(b.Name), "pier")
	}

	// berth is searched only because it is whitelisted
	_, total, err = repo.Boat.List(ctx, repository.VisibleActive, repository.ListQuery{
		Search:        "pier-7",
		SearchColumns: []string{"name"},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}

func TestTrafficRepo_List_SearchMatchesCommentsOnly(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	hit := &model.TrafficEntry{BoatType: model.BoatTypeTender, Name: "ALBA", Direction: model.DirectionOut, Comments: "Fuel at North Quay"}
	miss := &model.TrafficEntry{BoatType: model.BoatTypeTender, Name: "BRISA", Direction: model.DirectionOut, Comments: "crew change"}
	require.NoError(t, repo.Traffic.Create(ctx, hit))
	require.NoError(t, repo.Traffic.Create(ctx, miss))

	entries, total, err := repo.Traffic.List(ctx, repository.ListQuery{
		Search:        "NORTH quay",
		SearchColumns: repository.TrafficSearchColumns,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, entries, 1)
	assert.Equal(t, hit.ID, entries[0].ID)
}

func TestBoatRepo_List_SortAndWindow(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	a := createBoat(t, repo, "charlie")
	b := createBoat(t, repo, "alpha")
	c := createBoat(t, repo, "bravo")

	_, col := repository.BoatSort("name")
	boats, total, err := repo.Boat.List(ctx, repository.VisibleActive, repository.ListQuery{SortColumn: col})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, []uint{b.ID, c.ID, a.ID}, []uint{boats[0].ID, boats[1].ID, boats[2].ID})

	boats, _, err = repo.Boat.List(ctx, repository.VisibleActive, repository.ListQuery{
		SortColumn: col, Desc: true, Offset: 1, Limit: 1,
	})
	require.NoError(t, err)
	require.Len(t, boats, 1)
	assert.Equal(t, c.ID, boats[0].ID)
}

func TestBoatRepo_ListPendingDeletion_NewestDeletionFirst(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	older := createBoat(t, repo, "older")
	newer := createBoat(t, repo, "newer")
	createBoat(t, repo, "active")

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for id, at := range map[uint]time.Time{older.ID: base, newer.ID: base.Add(time.Hour)} {
		_, err := repo.Boat.UpdateWhere(ctx, database.ConditionalUpdate{
			Guard:   database.Guard{Where: "id = ?", Args: []interface{}{id}},
			Changes: map[string]interface{}{"deleted": true, "deleted_at": at},
		})
		require.NoError(t, err)
	}

	boats, err := repo.Boat.ListPendingDeletion(ctx)
	require.NoError(t, err)
	require.Len(t, boats, 2)
	assert.Equal(t, newer.ID, boats[0].ID)
	assert.Equal(t, older.ID, boats[1].ID)

	expired, err := repo.Boat.ListDeletedBefore(ctx, base.Add(30*time.Minute))
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, older.ID, expired[0].ID)
}

func TestBoatRepo_Delete_NullsTrafficReference(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	boat := createBoat(t, repo, "aurora")
	for _, dir := range []model.Direction{model.DirectionArrival, model.DirectionDeparture} {
		require.NoError(t, repo.Traffic.Create(ctx, &model.TrafficEntry{
			BoatType: model.BoatTypeMotorYacht, Name: "AURORA", Direction: dir, BoatID: &boat.ID,
		}))
	}

	affected, err := repo.Boat.Delete(ctx, boat.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	entries, total, err := repo.Traffic.List(ctx, repository.ListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	for _, e := range entries {
		assert.Nil(t, e.BoatID)
		assert.Equal(t, "AURORA", e.Name)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Traffic
// ═══════════════════════════════════════════════════════════

func TestTrafficRepo_Create_DerivesOccurredAtInZone(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	bogus := time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)
	entry := &model.TrafficEntry{
		BoatType:   model.BoatTypeTender,
		Name:       "tender 1",
		TrDate:     dateOf(2024, 3, 1),
		TrTime:     clock("01:30"),
		Direction:  model.DirectionDeparture,
		OccurredAt: &bogus,
	}
	require.NoError(t, repo.Traffic.Create(ctx, entry))

	found, err := repo.Traffic.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	require.NotNil(t, found.OccurredAt)
	want := time.Date(2024, 2, 29, 22, 30, 0, 0, time.UTC)
	assert.True(t, found.OccurredAt.Equal(want), "occurred_at %s, want %s", found.OccurredAt, want)
	require.NotNil(t, found.TrafficDay)
	assert.Equal(t, "2024-03-01", *found.TrafficDay)
}

func TestTrafficRepo_Create_DateOnlyHasDayButNoInstant(t *testing.T) {
	repo, _ := setupTestRepo(t)

	entry := createEntry(t, repo, "x", dateOf(2024, 3, 2), nil)
	found, err := repo.Traffic.GetByID(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Nil(t, found.OccurredAt)
	require.NotNil(t, found.TrafficDay)
	assert.Equal(t, "2024-03-02", *found.TrafficDay)

	undated := createEntry(t, repo, "y", nil, clock("10:00"))
	found, err = repo.Traffic.GetByID(context.Background(), undated.ID)
	require.NoError(t, err)
	assert.Nil(t, found.OccurredAt)
	assert.Nil(t, found.TrafficDay)
}

func TestTrafficDaySource_PagesEveryDayInRange(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	createEntry(t, repo, "aurora", dateOf(2024, 3, 1), clock("09:00"))
	late := createEntry(t, repo, "aurora", dateOf(2024, 3, 4), clock("18:00"))
	early := createEntry(t, repo, "aurora", dateOf(2024, 3, 4), clock("08:00"))
	createEntry(t, repo, "other", dateOf(2024, 3, 9), clock("08:00"))
	createEntry(t, repo, "aurora", nil, nil)

	_, col := repository.TrafficSort("")
	src := repo.Traffic.Days(repository.ListQuery{
		Search:        "auro",
		SearchColumns: repository.TrafficSearchColumns,
		SortColumn:    col,
		Desc:          true,
	})

	p, err := pagination.NewDayPaginator(ctx, src, true)
	require.NoError(t, err)
	assert.Equal(t, 4, p.NumPages())

	page, err := p.Page(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", page.Day.String())
	require.Len(t, page.Entries, 2)
	assert.Equal(t, late.ID, page.Entries[0].ID)
	assert.Equal(t, early.ID, page.Entries[1].ID)

	page, err = p.Page(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-03", page.Day.String())
	assert.Empty(t, page.Entries)

	sparse, err := pagination.NewDayPaginator(ctx, src, false)
	require.NoError(t, err)
	assert.Equal(t, 2, sparse.NumPages())
}

func TestTrafficDaySource_NoDatedEntries(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()
	createEntry(t, repo, "aurora", nil, nil)

	p, err := pagination.NewDayPaginator(ctx, repo.Traffic.Days(repository.ListQuery{}), true)
	require.NoError(t, err)
	assert.Equal(t, 1, p.NumPages())

	page, err := p.Page(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, page.Day)
	assert.Empty(t, page.Entries)
}

func TestTrafficRepo_ListUnderived_AndSaveDerived(t *testing.T) {
	repo, db := setupTestRepo(t)
	ctx := context.Background()

	entry := createEntry(t, repo, "aurora", dateOf(2024, 3, 1), clock("09:00"))
	createEntry(t, repo, "undated", nil, nil)
	require.NoError(t, db.Exec("UPDATE traffic_entries SET occurred_at = NULL, traffic_day = NULL").Error)

	rows, err := repo.Traffic.ListUnderived(ctx, 0, 200)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, entry.ID, rows[0].ID)

	require.NoError(t, repo.Traffic.SaveDerived(ctx, &rows[0]))

	rows, err = repo.Traffic.ListUnderived(ctx, 0, 200)
	require.NoError(t, err)
	assert.Empty(t, rows)

	noDate, err := repo.Traffic.CountWithoutDate(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, noDate)

	found, err := repo.Traffic.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	require.NotNil(t, found.OccurredAt)
	assert.True(t, found.OccurredAt.Equal(time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)))
}

// ═══════════════════════════════════════════════════════════
// Test: Transactions
// ═══════════════════════════════════════════════════════════

func TestTransaction_Rollback(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	txRepo := repo.WithTx(tx)

	boat := createBoat(t, txRepo, "ghost")
	tx.Rollback()

	_, err = repo.Boat.GetByID(ctx, boat.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestInTx_CommitsBothWrites(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()
	boat := createBoat(t, repo, "aurora")

	err := repo.InTx(ctx, func(txRepo *repository.Repository) error {
		entry := &model.TrafficEntry{
			BoatType: model.BoatTypeMotorYacht, Name: "AURORA", Direction: model.DirectionDeparture,
			BoatID: &boat.ID, TrDate: dateOf(2024, 3, 1), TrTime: clock("12:00"),
		}
		if err := txRepo.Traffic.Create(ctx, entry); err != nil {
			return err
		}
		_, err := txRepo.Boat.SetState(ctx, boat.ID, model.StateOut)
		return err
	})
	require.NoError(t, err)

	found, err := repo.Boat.GetByID(ctx, boat.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StateOut, found.State)

	entries, _, err := repo.Traffic.List(ctx, repository.ListQuery{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].OccurredAt)
	assert.True(t, entries[0].OccurredAt.Equal(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)))
}
