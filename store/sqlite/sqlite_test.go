package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/leave-ledger/generic"
	"github.com/warp/leave-ledger/store/sqlite"
	"github.com/warp/leave-ledger/timeoff"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func date(s string) generic.Date { return generic.MustParseDate(s) }

func testEmployee(id, name string) timeoff.Employee {
	return timeoff.Employee{
		ID:         generic.EmployeeID(id),
		Name:       name,
		LegalID:    "12345678Z",
		Department: "SERVEIS TÈCNICS",
		HireDate:   date("2008-03-01"),
	}
}

func bookedLedger(t *testing.T) timeoff.Ledger {
	l := timeoff.NewLedger(timeoff.DefaultCatalog(), timeoff.DefaultWorkWeek, nil)
	var out timeoff.Outcome
	l, out = l.Assign(date("2025-01-10"), timeoff.CategoryVacation)
	require.Equal(t, timeoff.OutcomeApplied, out)
	l, out = l.Approve(date("2025-01-10"))
	require.Equal(t, timeoff.OutcomeApplied, out)
	l, out = l.Assign(date("2025-03-01"), timeoff.CategoryPersonalLeave)
	require.Equal(t, timeoff.OutcomeApplied, out)
	return l
}

// =============================================================================
// EMPLOYEE TESTS
// =============================================================================

func TestStore_Ping(t *testing.T) {
	// GIVEN: An open store
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Ping(context.Background()))

	// WHEN: The connection is closed
	require.NoError(t, store.Close())

	// THEN: Ping reports it
	assert.Error(t, store.Ping(context.Background()))
}

func TestStore_CreateAndGetEmployee(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	emp := testEmployee("emp-1", "Jordi")
	require.NoError(t, store.CreateEmployee(ctx, emp, timeoff.NewLedger(timeoff.DefaultCatalog(), timeoff.DefaultWorkWeek, nil)))

	got, err := store.GetEmployee(ctx, "emp-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Jordi", got.Name)
	assert.Equal(t, "12345678Z", got.LegalID)
	assert.Equal(t, "SERVEIS TÈCNICS", got.Department)
	assert.Equal(t, date("2008-03-01"), got.HireDate)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestStore_GetEmployee_NotFound(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetEmployee(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_CreateEmployee_DuplicateID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	l := timeoff.NewLedger(timeoff.DefaultCatalog(), timeoff.DefaultWorkWeek, nil)

	require.NoError(t, store.CreateEmployee(ctx, testEmployee("emp-1", "A"), l))
	err := store.CreateEmployee(ctx, testEmployee("emp-1", "B"), l)
	assert.ErrorIs(t, err, generic.ErrAlreadyExists)
}

func TestStore_ListEmployees_OrderedByName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	l := timeoff.NewLedger(timeoff.DefaultCatalog(), timeoff.DefaultWorkWeek, nil)

	require.NoError(t, store.CreateEmployee(ctx, testEmployee("emp-2", "Marta"), l))
	require.NoError(t, store.CreateEmployee(ctx, testEmployee("emp-1", "Anna"), l))

	list, err := store.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Anna", list[0].Name)
	assert.Equal(t, "Marta", list[1].Name)
}

func TestStore_DeleteEmployee_RemovesLedger(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateEmployee(ctx, testEmployee("emp-1", "Jordi"), bookedLedger(t)))
	require.NoError(t, store.DeleteEmployee(ctx, "emp-1"))

	rec, err := store.GetLedger(ctx, "emp-1")
	require.NoError(t, err)
	assert.Nil(t, rec, "ledger should be deleted with the profile")

	assert.ErrorIs(t, store.DeleteEmployee(ctx, "emp-1"), generic.ErrNotFound)
}

// =============================================================================
// LEDGER TESTS
// =============================================================================

func TestStore_LedgerRoundTrip(t *testing.T) {
	// GIVEN: A ledger with an approved and a requested day
	// WHEN: It is persisted and reloaded
	// THEN: Entries, catalog and work week are identical

	store := newTestStore(t)
	ctx := context.Background()
	original := bookedLedger(t)

	require.NoError(t, store.CreateEmployee(ctx, testEmployee("emp-1", "Jordi"), original))

	rec, err := store.GetLedger(ctx, "emp-1")
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, int64(1), rec.Version)
	assert.Equal(t, original.Entries(), rec.Ledger.Entries())
	assert.Equal(t, original.Catalog(), rec.Ledger.Catalog())
	assert.Equal(t, original.WorkWeek(), rec.Ledger.WorkWeek())

	q := timeoff.Query{Year: 2025}
	before := timeoff.Aggregate(map[generic.EmployeeID]timeoff.Ledger{"emp-1": original}, nil, q)
	after := timeoff.Aggregate(map[generic.EmployeeID]timeoff.Ledger{"emp-1": rec.Ledger}, nil, q)
	assert.Equal(t, before, after)
}

func TestStore_SaveLedger_OptimisticLocking(t *testing.T) {
	// GIVEN: Two writers loaded version 1
	// WHEN: Both save
	// THEN: The second is rejected and the first write survives

	store := newTestStore(t)
	ctx := context.Background()
	base := timeoff.NewLedger(timeoff.DefaultCatalog(), timeoff.DefaultWorkWeek, nil)
	require.NoError(t, store.CreateEmployee(ctx, testEmployee("emp-1", "Jordi"), base))

	first, _ := base.Assign(date("2025-05-05"), timeoff.CategoryVacation)
	second, _ := base.Assign(date("2025-05-06"), timeoff.CategoryVacation)

	v, err := store.SaveLedger(ctx, "emp-1", first, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)

	_, err = store.SaveLedger(ctx, "emp-1", second, 1)
	assert.ErrorIs(t, err, generic.ErrConcurrentModification)
	assert.True(t, generic.IsRetryable(err))

	rec, err := store.GetLedger(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), rec.Version)
	_, ok := rec.Ledger.Entry(date("2025-05-05"))
	assert.True(t, ok)
	_, ok = rec.Ledger.Entry(date("2025-05-06"))
	assert.False(t, ok)
}

func TestStore_SaveLedger_UnknownEmployee(t *testing.T) {
	store := newTestStore(t)
	l := timeoff.NewLedger(timeoff.DefaultCatalog(), timeoff.DefaultWorkWeek, nil)

	_, err := store.SaveLedger(context.Background(), "ghost", l, 1)
	assert.ErrorIs(t, err, generic.ErrNotFound)
}

func TestStore_ListLedgers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	empty := timeoff.NewLedger(timeoff.DefaultCatalog(), timeoff.DefaultWorkWeek, nil)

	require.NoError(t, store.CreateEmployee(ctx, testEmployee("emp-1", "Jordi"), bookedLedger(t)))
	require.NoError(t, store.CreateEmployee(ctx, testEmployee("emp-2", "Anna"), empty))

	all, err := store.ListLedgers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 2, all["emp-1"].Len())
	assert.Equal(t, 0, all["emp-2"].Len())
}

func TestStore_ReopenKeepsData(t *testing.T) {
	path := t.TempDir() + "/leave.db"
	ctx := context.Background()

	store, err := sqlite.New(path)
	require.NoError(t, err)
	require.NoError(t, store.CreateEmployee(ctx, testEmployee("emp-1", "Jordi"), bookedLedger(t)))
	require.NoError(t, store.Close())

	// Second open finds the schema already migrated.
	store, err = sqlite.New(path)
	require.NoError(t, err)
	defer store.Close()

	rec, err := store.GetLedger(ctx, "emp-1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 2, rec.Ledger.Len())
}
