package engine

import (
	"context"
	"errors"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/leengari/pivotgrid/internal/config"
	"github.com/leengari/pivotgrid/internal/derive"
	"github.com/leengari/pivotgrid/internal/domain/data"
	"github.com/leengari/pivotgrid/internal/domain/view"
	"github.com/leengari/pivotgrid/internal/query/paginate"
	"github.com/leengari/pivotgrid/internal/query/sorting"
	"github.com/leengari/pivotgrid/internal/storage"
	"github.com/leengari/pivotgrid/internal/testutil"
)

// MockObserver is a test observer that records events
type MockObserver struct {
	Events []Event
}

func (m *MockObserver) OnEvent(event Event) {
	m.Events = append(m.Events, event)
}

func (m *MockObserver) count(t EventType) int {
	n := 0
	for _, e := range m.Events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Store = config.StoreConfig{Driver: "memory"}
	return cfg
}

func newEngine(t *testing.T, cfg config.Config, store storage.Store) *Engine {
	t.Helper()
	eng, err := New(cfg, storage.NewAdapter(store, cfg.Namespace))
	assert.NilError(t, err)
	t.Cleanup(eng.Close)
	return eng
}

func loadedPeople(t *testing.T) (*Engine, storage.Store) {
	t.Helper()
	store := storage.NewMemoryStore()
	eng := newEngine(t, testConfig(), store)
	eng.LoadDataset(testutil.CreatePeopleDataset(t), "people")
	return eng, store
}

func TestAddObserver(t *testing.T) {
	eng := newEngine(t, testConfig(), storage.NewMemoryStore())
	observer := &MockObserver{}

	eng.AddObserver(observer)

	if len(eng.observers) != 1 {
		t.Errorf("Expected 1 observer, got %d", len(eng.observers))
	}
}

func TestRemoveObserver(t *testing.T) {
	eng := newEngine(t, testConfig(), storage.NewMemoryStore())
	observer := &MockObserver{}

	eng.AddObserver(observer)
	eng.RemoveObserver(observer)

	if len(eng.observers) != 0 {
		t.Errorf("Expected 0 observers, got %d", len(eng.observers))
	}
}

func TestNotifyWithMultipleObservers(t *testing.T) {
	eng := newEngine(t, testConfig(), storage.NewMemoryStore())
	observer1 := &MockObserver{}
	observer2 := &MockObserver{}
	eng.AddObserver(observer1)
	eng.AddObserver(observer2)

	eng.notify(Event{Type: EventFilter, Data: "rows"})

	assert.Equal(t, len(observer1.Events), 1)
	assert.Equal(t, len(observer2.Events), 1)
	assert.Equal(t, observer1.Events[0].Type, EventFilter)
	assert.Assert(t, !observer1.Events[0].Timestamp.IsZero())
	assert.Equal(t, observer1.Events[0].SessionID, eng.Session().ID)
}

func TestNoDataset(t *testing.T) {
	eng := newEngine(t, testConfig(), storage.NewMemoryStore())

	_, err := eng.Materialize()
	assert.Assert(t, errors.Is(err, ErrNoDataset))
	assert.Assert(t, errors.Is(eng.SetFilter("city", nil), ErrNoDataset))
	_, err = eng.AddCustomColumn(derive.Definition{Name: "x", Formula: "1"})
	assert.Assert(t, errors.Is(err, ErrNoDataset))
}

func TestLoadClassifiesAndResets(t *testing.T) {
	eng, _ := loadedPeople(t)
	observer := &MockObserver{}
	eng.AddObserver(observer)
	first := eng.Session().ID

	assert.Assert(t, eng.Classification().IsNumeric("age"))
	assert.Assert(t, !eng.Classification().IsNumeric("city"))
	assert.Assert(t, eng.Dataset().Rows[0].Get("age").IsNumber())

	assert.NilError(t, eng.SetFilter("city", []string{"Oslo"}))
	assert.NilError(t, eng.SetSort("age", sorting.Descending))
	eng.SetPage(3)

	eng.LoadDataset(testutil.CreateSalesDataset(t, 3), "sales")
	state, err := eng.State()
	assert.NilError(t, err)
	assert.Equal(t, len(state.Filters), 0)
	assert.Equal(t, state.Sort, sorting.State{})
	assert.Equal(t, state.Page.Page, 1)
	assert.Assert(t, eng.Session().ID != first)
	assert.Equal(t, observer.count(EventLoad), 2)
	assert.Equal(t, observer.count(EventClassify), 1)
}

func TestLoadFailureKeepsDataset(t *testing.T) {
	eng, _ := loadedPeople(t)
	_, err := eng.Load("/does/not/exist.csv")
	assert.Assert(t, err != nil)
	assert.Equal(t, eng.Dataset().Len(), 4)
}

func TestMaterializePaginationClamps(t *testing.T) {
	store := storage.NewMemoryStore()
	cfg := testConfig()
	cfg.PageSize = 10
	eng := newEngine(t, cfg, store)
	eng.LoadDataset(testutil.CreateSalesDataset(t, 25), "sales")

	eng.SetPage(99)
	pv, err := eng.Materialize()
	assert.NilError(t, err)
	assert.Equal(t, pv.Page, 3)
	assert.Equal(t, pv.TotalPages, 3)
	assert.Equal(t, len(pv.Rows), 5)
	assert.Equal(t, pv.Offset, 20)

	eng.SetPage(0)
	pv, err = eng.Materialize()
	assert.NilError(t, err)
	assert.Equal(t, pv.Page, 1)
	assert.DeepEqual(t, pv.Grid[0], []string{"region", "amount"})
	assert.DeepEqual(t, pv.Grid[1], []string{"north", "1"})

	assert.Assert(t, errors.Is(eng.SetPageSize(0), paginate.ErrInvalidPageSize))
}

func TestPageClampedOnEveryChange(t *testing.T) {
	cfg := testConfig()
	cfg.PageSize = 10
	eng := newEngine(t, cfg, storage.NewMemoryStore())
	eng.LoadDataset(testutil.CreateSalesDataset(t, 25), "sales")

	eng.SetPage(3)
	assert.NilError(t, eng.SetFilter("region", []string{"north"}))
	state, err := eng.State()
	assert.NilError(t, err)
	assert.Equal(t, state.Page.Page, 1, "5 north rows fit on one page")

	assert.NilError(t, eng.ResetFilter("region"))
	eng.SetPage(3)
	for range 3 {
		eng.NextPage()
	}
	state, err = eng.State()
	assert.NilError(t, err)
	assert.Equal(t, state.Page.Page, 3)

	eng.SetPage(1)
	for range 3 {
		eng.PrevPage()
	}
	eng.NextPage()
	pv, err := eng.Materialize()
	assert.NilError(t, err)
	assert.Equal(t, pv.Page, 2)

	eng.SetPage(3)
	assert.NilError(t, eng.SetPageSize(20))
	state, err = eng.State()
	assert.NilError(t, err)
	assert.Equal(t, state.Page.Page, 2)
}

func TestFilterComposition(t *testing.T) {
	eng, _ := loadedPeople(t)

	assert.NilError(t, eng.SetFilter("city", []string{"Oslo"}))
	assert.NilError(t, eng.SetFilter("age", []string{"41", "19"}))
	pv, err := eng.Materialize()
	assert.NilError(t, err)
	testutil.AssertColumnValues(t, pv.Rows, "name", []string{"carol"}, "city and age")

	eng.ClearAllFilters()
	assert.NilError(t, eng.SetFilter("city", []string{""}))
	pv, err = eng.Materialize()
	assert.NilError(t, err)
	testutil.AssertColumnValues(t, pv.Rows, "name", []string{"dave"}, "empty city")

	assert.NilError(t, eng.ClearFilter("city"))
	pv, err = eng.Materialize()
	assert.NilError(t, err)
	assert.Equal(t, pv.TotalRows, 0)
	assert.Equal(t, pv.Page, 1)

	assert.NilError(t, eng.ResetFilter("city"))
	pv, err = eng.Materialize()
	assert.NilError(t, err)
	assert.Equal(t, pv.TotalRows, 4)

	assert.Assert(t, errors.Is(eng.SetFilter("missing", nil), data.ErrColumnNotFound))
}

func TestToggleStartsFromAllValues(t *testing.T) {
	eng, _ := loadedPeople(t)

	assert.NilError(t, eng.ToggleValue("city", "Oslo"))
	pv, err := eng.Materialize()
	assert.NilError(t, err)
	testutil.AssertColumnValues(t, pv.Rows, "name", []string{"bob", "dave"}, "Oslo unchecked")

	assert.NilError(t, eng.ToggleValue("city", "Oslo"))
	pv, err = eng.Materialize()
	assert.NilError(t, err)
	assert.Equal(t, pv.TotalRows, 4)

	assert.NilError(t, eng.DeselectAll("city", []string{"Oslo", "Lima"}))
	pv, err = eng.Materialize()
	assert.NilError(t, err)
	testutil.AssertColumnValues(t, pv.Rows, "name", []string{"dave"}, "deselect searched")

	assert.NilError(t, eng.SelectAll("city", []string{"Lima"}))
	pv, err = eng.Materialize()
	assert.NilError(t, err)
	testutil.AssertColumnValues(t, pv.Rows, "name", []string{"bob", "dave"}, "select searched")
}

func TestSortAndToggle(t *testing.T) {
	eng, _ := loadedPeople(t)

	assert.NilError(t, eng.SetSort("age", sorting.Ascending))
	pv, err := eng.Materialize()
	assert.NilError(t, err)
	testutil.AssertColumnValues(t, pv.Rows, "name", []string{"dave", "bob", "alice", "carol"}, "age asc")

	assert.NilError(t, eng.ToggleSort("age", sorting.Descending))
	pv, err = eng.Materialize()
	assert.NilError(t, err)
	testutil.AssertColumnValues(t, pv.Rows, "name", []string{"carol", "alice", "bob", "dave"}, "age desc")

	assert.NilError(t, eng.ToggleSort("age", sorting.Descending))
	assert.Assert(t, !eng.Sort().Active())
	pv, err = eng.Materialize()
	assert.NilError(t, err)
	testutil.AssertColumnValues(t, pv.Rows, "name", []string{"alice", "bob", "carol", "dave"}, "unsorted")
}

func TestCustomColumnPersistsAndReplays(t *testing.T) {
	eng, store := loadedPeople(t)

	res, err := eng.AddCustomColumn(derive.Definition{Name: "double", Formula: "[age] * 2", InsertAfter: "name"})
	assert.NilError(t, err)
	assert.Equal(t, res.Index, 1)
	assert.Equal(t, res.Failed, 0)
	assert.DeepEqual(t, eng.Columns(), []string{"name", "double", "city", "age", "score"})
	assert.Assert(t, eng.Classification().IsNumeric("double"))

	want := []string{"60", "50", "82", "38"}
	testutil.AssertColumnValues(t, eng.Dataset().Rows, "double", want, "derived")

	reloaded := newEngine(t, testConfig(), store)
	report := reloaded.LoadDataset(testutil.CreatePeopleDataset(t), "people")
	assert.Equal(t, len(report.Applied), 1)
	testutil.AssertColumnValues(t, reloaded.Dataset().Rows, "double", want, "replayed")

	_, err = eng.AddCustomColumn(derive.Definition{Name: "", Formula: "1"})
	assert.Assert(t, errors.Is(err, derive.ErrEmptyName))
	_, err = eng.AddCustomColumn(derive.Definition{Name: "age", Formula: "1"})
	assert.Assert(t, errors.Is(err, data.ErrDuplicateColumn))
	assert.Equal(t, len(eng.CustomColumns()), 1)
}

// readOnlyStore rejects every write
type readOnlyStore struct {
	*storage.MemoryStore
}

func (readOnlyStore) Set(string, []byte) error { return errors.New("disk full") }

func TestCustomColumnNotAddedWhenSaveFails(t *testing.T) {
	eng := newEngine(t, testConfig(), readOnlyStore{storage.NewMemoryStore()})
	eng.LoadDataset(testutil.CreatePeopleDataset(t), "people")

	_, err := eng.AddCustomColumn(derive.Definition{Name: "double", Formula: "[age] * 2"})
	assert.Assert(t, errors.Is(err, ErrPersist))
	assert.DeepEqual(t, eng.Columns(), []string{"name", "city", "age", "score"})
	assert.Equal(t, len(eng.CustomColumns()), 0)
	assert.Assert(t, !eng.Dataset().HasColumn("double"))
}

func TestHiddenColumns(t *testing.T) {
	eng, store := loadedPeople(t)

	assert.NilError(t, eng.HideColumn("city"))
	assert.NilError(t, eng.HideColumn("city"))
	pv, err := eng.Materialize()
	assert.NilError(t, err)
	assert.DeepEqual(t, pv.Columns, []string{"name", "age", "score"})

	saved := storage.NewAdapter(store, testConfig().Namespace).LoadHiddenColumns()
	assert.DeepEqual(t, saved, []string{"city"})

	assert.NilError(t, eng.ShowColumn("city"))
	assert.DeepEqual(t, eng.HiddenColumns(), []string{})

	err = eng.SetHiddenColumns([]string{"score", "nope"})
	assert.Assert(t, errors.Is(err, data.ErrColumnNotFound))
	assert.NilError(t, eng.SetHiddenColumns([]string{"score", "name"}))
	assert.DeepEqual(t, eng.HiddenColumns(), []string{"name", "score"})
}

func TestViewsExportImport(t *testing.T) {
	eng, store := loadedPeople(t)

	v, err := eng.AddView("By city")
	assert.NilError(t, err)
	assert.Equal(t, eng.ActiveView().ID, v.ID)
	assert.NilError(t, eng.UpdateViewConfig(v.ID, view.PivotConfig{
		Rows:           []string{"city", "age"},
		AggregatorName: "Sum",
		RendererName:   "Table",
	}))

	rc, err := eng.RenderConfig()
	assert.NilError(t, err)
	assert.DeepEqual(t, rc.Rows, []string{"city"})
	assert.DeepEqual(t, rc.Vals, []string{"age"})
	assert.DeepEqual(t, rc.AttrDropdown, []string{"age", "score"})

	doc, err := eng.ExportViews()
	assert.NilError(t, err)

	other := newEngine(t, testConfig(), storage.NewMemoryStore())
	assert.NilError(t, other.ImportViews(doc))
	assert.Equal(t, other.ActiveView().ID, v.ID)
	assert.Equal(t, other.ActiveView().Title, "By city")

	err = other.ImportViews([]byte(`{"views": 3}`))
	assert.Assert(t, errors.Is(err, storage.ErrInvalidImport))
	assert.Equal(t, other.ActiveView().ID, v.ID)

	assert.NilError(t, eng.DeleteView(v.ID))
	assert.Equal(t, eng.ActiveView().ID, view.DataViewID)
	assert.Equal(t, storage.NewAdapter(store, testConfig().Namespace).LoadViews().ActiveViewID, view.DataViewID)
}

func TestFilterCandidatesUsesWorker(t *testing.T) {
	cfg := testConfig()
	cfg.WorkerThreshold = 10
	eng := newEngine(t, cfg, storage.NewMemoryStore())
	observer := &MockObserver{}
	eng.AddObserver(observer)
	eng.LoadDataset(testutil.CreateSalesDataset(t, 100), "sales")

	got, err := eng.FilterCandidates(context.Background(), "region", "")
	assert.NilError(t, err)
	assert.DeepEqual(t, got, []string{"central", "east", "north", "south", "west"})
	assert.Equal(t, observer.count(EventWorker), 1)

	got, err = eng.FilterCandidates(context.Background(), "region", "TH")
	assert.NilError(t, err)
	assert.DeepEqual(t, got, []string{"north", "south"})

	small, _ := loadedPeople(t)
	got, err = small.FilterCandidates(context.Background(), "city", "")
	assert.NilError(t, err)
	assert.DeepEqual(t, got, []string{"", "Lima", "Oslo"})
}

func TestExportGrid(t *testing.T) {
	store := storage.NewMemoryStore()
	cfg := testConfig()
	cfg.PageSize = 2
	eng := newEngine(t, cfg, store)
	eng.LoadDataset(testutil.CreatePeopleDataset(t), "people")
	assert.NilError(t, eng.HideColumn("score"))

	page, err := eng.ExportGrid(false)
	assert.NilError(t, err)
	assert.Equal(t, len(page), 3)

	all, err := eng.ExportGrid(true)
	assert.NilError(t, err)
	assert.Equal(t, len(all), 5)
	assert.DeepEqual(t, all[0], []string{"name", "city", "age"})
	assert.DeepEqual(t, all[4], []string{"dave", "", "19"})
}

func TestStateIsACopy(t *testing.T) {
	eng, _ := loadedPeople(t)
	assert.NilError(t, eng.SetFilter("city", []string{"Oslo"}))

	state, err := eng.State()
	assert.NilError(t, err)
	delete(state.Filters["city"], "Oslo")

	assert.Assert(t, eng.Filters()["city"].Contains("Oslo"))
	assert.Assert(t, is.Len(state.Filters["city"], 0))
}
