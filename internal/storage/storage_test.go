package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leengari/pivotgrid/internal/derive"
	"github.com/leengari/pivotgrid/internal/domain/view"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	file, err := NewFileStore(filepath.Join(t.TempDir(), "config"))
	require.NoError(t, err)
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "config.db"), "pivot_app_v1")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   file,
		"sqlite": db,
	}
}

func TestStoreContract(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get("missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set("k", []byte(`{"a":1}`)))
			got, err := s.Get("k")
			require.NoError(t, err)
			assert.JSONEq(t, `{"a":1}`, string(got))

			require.NoError(t, s.Set("k", []byte(`[2]`)))
			got, err = s.Get("k")
			require.NoError(t, err)
			assert.Equal(t, `[2]`, string(got))

			require.NoError(t, s.Delete("k"))
			require.NoError(t, s.Delete("k"))
			_, err = s.Get("k")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestSQLiteNamespacesAreIsolated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared.db")
	a, err := OpenSQLite(path, "a")
	require.NoError(t, err)
	defer a.Close()
	b, err := OpenSQLite(path, "b")
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, a.Set("k", []byte("1")))
	_, err = b.Get("k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpen(t *testing.T) {
	s, err := Open("memory", "", "ns")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, err = Open("redis", "", "ns")
	assert.ErrorContains(t, err, "unknown store driver")
}

func TestAdapterRoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			a := NewAdapter(s, "pivot_app_v1")

			c := view.NewCatalog()
			v, err := c.Add("By region")
			require.NoError(t, err)
			require.NoError(t, c.UpdateConfig(v.ID, view.PivotConfig{Rows: []string{"region"}, AggregatorName: "Sum", Vals: []string{"amount"}, RendererName: "Table"}))

			defs := []derive.Definition{
				{Name: "total", Formula: "[price]*[qty]", InsertAfter: "qty"},
				{Name: "flag", Formula: "[total] > 10"},
			}

			require.NoError(t, a.SaveViews(c))
			require.NoError(t, a.SaveHiddenColumns([]string{"notes"}))
			require.NoError(t, a.SaveCustomColumns(defs))

			snap := a.Load()
			assert.Equal(t, c.ActiveViewID, snap.Catalog.ActiveViewID)
			require.Len(t, snap.Catalog.Views, 2)
			assert.Equal(t, []string{"region"}, snap.Catalog.Views[1].Config.Rows)
			assert.Equal(t, []string{"notes"}, snap.HiddenColumns)
			assert.Equal(t, defs, snap.CustomColumns)
		})
	}
}

func TestAdapterDefaultsOnMissingOrCorrupt(t *testing.T) {
	s := NewMemoryStore()
	a := NewAdapter(s, "ns")

	snap := a.Load()
	assert.Equal(t, view.DataViewID, snap.Catalog.ActiveViewID)
	assert.Len(t, snap.Catalog.Views, 1)
	assert.Empty(t, snap.HiddenColumns)
	assert.Empty(t, snap.CustomColumns)

	require.NoError(t, s.Set("ns", []byte("{not json")))
	require.NoError(t, s.Set("ns_hiddenColumns", []byte(`{"a":1}`)))
	require.NoError(t, s.Set("ns_customColumns", []byte(`"x"`)))

	snap = a.Load()
	assert.Len(t, snap.Catalog.Views, 1)
	assert.NotNil(t, snap.HiddenColumns)
	assert.Empty(t, snap.HiddenColumns)
	assert.Empty(t, snap.CustomColumns)
}

func TestAdapterReadsInsertAfter(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Set("ns_customColumns", []byte(`[
		{"name":"a","formula":"1","insertCol":"x"},
		{"name":"b","formula":"2","insertAfter":"y"}
	]`)))

	defs := NewAdapter(s, "ns").LoadCustomColumns()
	require.Len(t, defs, 2)
	assert.Equal(t, "x", defs[0].InsertAfter)
	assert.Equal(t, "y", defs[1].InsertAfter)

	require.NoError(t, NewAdapter(s, "ns").SaveCustomColumns(defs))
	raw, err := s.Get("ns_customColumns")
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"insertCol": "y"`)
	assert.NotContains(t, string(raw), "insertAfter")
}

func TestSnapshotClone(t *testing.T) {
	snap := Snapshot{
		Catalog:       view.NewCatalog(),
		HiddenColumns: []string{"a"},
		CustomColumns: []derive.Definition{{Name: "x", Formula: "1"}},
	}
	cp, err := snap.Clone()
	require.NoError(t, err)

	cp.HiddenColumns[0] = "b"
	cp.Catalog.ActiveViewID = "other"
	cp.CustomColumns[0].Name = "y"

	assert.Equal(t, "a", snap.HiddenColumns[0])
	assert.Equal(t, view.DataViewID, snap.Catalog.ActiveViewID)
	assert.Equal(t, "x", snap.CustomColumns[0].Name)
}
