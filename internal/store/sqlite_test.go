package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/bep-cli/internal/model"
	"github.com/sells-group/bep-cli/internal/numeric"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func validResult() model.ValidationResult {
	return model.ValidationResult{
		OK: true,
		Value: &model.CalculationInputs{
			Price:        50000,
			UnitCost:     20000,
			FixedCost:    3000000,
			TargetProfit: numeric.Float(5000000),
			VariableCostDetail: &model.VariableCostDetail{
				Materials: 15000, Packaging: 5000,
			},
		},
	}
}

func TestSQLite_SaveAndGetProject(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	saved, err := st.SaveProject(ctx, "  handmade soap ", validResult())
	require.NoError(t, err)
	assert.Equal(t, "handmade soap", saved.Name)
	assert.Equal(t, 100.0, saved.Result.BreakEvenQty)
	assert.Equal(t, 267.0, saved.Result.TargetQty)

	got, err := st.GetProject(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, saved.Name, got.Name)
	assert.Equal(t, saved.Inputs, got.Inputs)
	assert.Equal(t, saved.Result, got.Result)
	assert.Equal(t, saved.Sensitivity, got.Sensitivity)
	assert.WithinDuration(t, saved.CreatedAt, got.CreatedAt, time.Second)
}

func TestSQLite_SaveProject_RejectsUnvalidated(t *testing.T) {
	st := newTestSQLiteStore(t)

	tests := []struct {
		name string
		res  model.ValidationResult
	}{
		{"failed", model.ValidationResult{OK: false, Issues: []model.ValidationIssue{{Code: model.IssueRangeError}}}},
		{"ok without value", model.ValidationResult{OK: true}},
		{"non-positive margin", model.ValidationResult{OK: true, Value: &model.CalculationInputs{Price: 10, UnitCost: 10}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := st.SaveProject(context.Background(), "x", tt.res)
			assert.ErrorIs(t, err, ErrNotValidated)
		})
	}

	projects, err := st.ListProjects(context.Background(), ProjectFilter{})
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestSQLite_GetProject_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetProject(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLite_ListProjects(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	for _, name := range []string{"soap", "candle", "soap gift set"} {
		_, err := st.SaveProject(ctx, name, validResult())
		require.NoError(t, err)
	}

	all, err := st.ListProjects(ctx, ProjectFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	soaps, err := st.ListProjects(ctx, ProjectFilter{Name: "soap"})
	require.NoError(t, err)
	var names []string
	for _, p := range soaps {
		names = append(names, p.Name)
	}
	assert.ElementsMatch(t, []string{"soap", "soap gift set"}, names)

	page, err := st.ListProjects(ctx, ProjectFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, page, 1)
}

func TestSQLite_UntitledProject(t *testing.T) {
	st := newTestSQLiteStore(t)

	p, err := st.SaveProject(context.Background(), "", validResult())
	require.NoError(t, err)
	assert.Equal(t, "untitled", p.Name)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported driver")
}

func TestOpen_SQLite(t *testing.T) {
	st, err := Open(context.Background(), DriverSQLite, filepath.Join(t.TempDir(), "open.db"), nil)
	require.NoError(t, err)
	defer st.Close() //nolint:errcheck
	assert.IsType(t, &SQLiteStore{}, st)
}
