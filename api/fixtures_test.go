package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/warp/leave-ledger/generic"
	"github.com/warp/leave-ledger/store/memory"
	"github.com/warp/leave-ledger/timeoff"
)

// testNow is a Monday. Jordi has 14 completed years of service on it.
var testNow = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

const jordiID generic.EmployeeID = "emp-jordi"

// jordi is the demo employee used across handler tests.
func jordi() timeoff.Employee {
	return timeoff.Employee{
		ID:         jordiID,
		Name:       "Jordi Puig Serra",
		LegalID:    "12345678Z",
		Department: "Informàtica",
		HireDate:   generic.MustParseDate("2010-04-10"),
		CreatedAt:  testNow,
	}
}

// jordiLedger holds a small 2025 history:
//
//	2025-01-07, 2025-01-08  VACATION        approved (January rollover window)
//	2025-02-03..07          VACATION        requested
//	2025-03-03              PERSONAL_LEAVE  approved
//	2025-04-22              PERSONAL_LEAVE  requested
func jordiLedger() timeoff.Ledger {
	d := generic.MustParseDate
	approved := func(k timeoff.CategoryKey) timeoff.LeaveEntry {
		return timeoff.LeaveEntry{CategoryKey: k, Status: timeoff.StatusApproved}
	}
	requested := func(k timeoff.CategoryKey) timeoff.LeaveEntry {
		return timeoff.LeaveEntry{CategoryKey: k, Status: timeoff.StatusRequested}
	}

	entries := map[generic.Date]timeoff.LeaveEntry{
		d("2025-01-07"): approved(timeoff.CategoryVacation),
		d("2025-01-08"): approved(timeoff.CategoryVacation),
		d("2025-02-03"): requested(timeoff.CategoryVacation),
		d("2025-02-04"): requested(timeoff.CategoryVacation),
		d("2025-02-05"): requested(timeoff.CategoryVacation),
		d("2025-02-06"): requested(timeoff.CategoryVacation),
		d("2025-02-07"): requested(timeoff.CategoryVacation),
		d("2025-03-03"): approved(timeoff.CategoryPersonalLeave),
		d("2025-04-22"): requested(timeoff.CategoryPersonalLeave),
	}
	catalog := timeoff.SeedCatalog(jordi().HireDate, generic.DateOf(testNow))
	return timeoff.NewLedger(catalog, timeoff.DefaultWorkWeek, entries)
}

func seedJordi(t *testing.T, store timeoff.Store) {
	t.Helper()
	require.NoError(t, store.CreateEmployee(context.Background(), jordi(), jordiLedger()))
}

// newTestRouter wires a handler over store with a fixed clock and a
// discarded log.
func newTestRouter(t *testing.T, store timeoff.Store, opts HandlerOptions) http.Handler {
	t.Helper()
	if opts.Now == nil {
		opts.Now = func() time.Time { return testNow }
	}
	h, err := NewHandler(store, opts)
	require.NoError(t, err)

	r, err := NewRouter(h, RouterOptions{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	require.NoError(t, err)
	return r
}

// newDemoRouter is a memory store holding Jordi, with default options.
func newDemoRouter(t *testing.T) (http.Handler, *memory.Store) {
	t.Helper()
	store := memory.New()
	seedJordi(t, store)
	return newTestRouter(t, store, HandlerOptions{}), store
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
