// Package engine owns the application state of the data grid: the loaded
// dataset, its classification, the custom columns, the filter, sort, page
// and hidden-column state, and the saved views. Every mutation goes
// through a method here; Materialize turns the state into a page.
package engine

import (
	"fmt"
	"time"

	"github.com/tiendc/go-deepcopy"

	"github.com/leengari/pivotgrid/internal/classify"
	"github.com/leengari/pivotgrid/internal/collation"
	"github.com/leengari/pivotgrid/internal/config"
	"github.com/leengari/pivotgrid/internal/derive"
	"github.com/leengari/pivotgrid/internal/domain/data"
	"github.com/leengari/pivotgrid/internal/domain/view"
	"github.com/leengari/pivotgrid/internal/loader"
	"github.com/leengari/pivotgrid/internal/query/filter"
	"github.com/leengari/pivotgrid/internal/query/paginate"
	"github.com/leengari/pivotgrid/internal/query/sorting"
	"github.com/leengari/pivotgrid/internal/storage"
	"github.com/leengari/pivotgrid/internal/worker"
)

// Engine is the main entry point for the data grid.
// It is not safe for concurrent use; only the worker pool runs on other
// goroutines.
type Engine struct {
	cfg       config.Config
	store     *storage.Adapter
	coll      *collation.Collator
	pool      *worker.Pool
	session   Session
	observers []Observer

	dataset *data.Dataset
	classes classify.Classification

	filters filter.State
	sort    sorting.State
	page    paginate.State
	hidden  []string
	catalog *view.Catalog
	custom  []derive.Definition
}

// New creates an engine and reads the saved configuration from store
func New(cfg config.Config, store *storage.Adapter) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	coll, err := collation.New(cfg.Locale)
	if err != nil {
		return nil, err
	}

	snap := store.Load()
	e := &Engine{
		cfg:       cfg,
		store:     store,
		coll:      coll,
		pool:      worker.NewPool(cfg.WorkerPoolSize, cfg.WorkerTimeout, coll),
		session:   newSession(""),
		observers: make([]Observer, 0),
		filters:   filter.State{},
		page:      paginate.State{Page: 1, PageSize: cfg.PageSize},
		hidden:    snap.HiddenColumns,
		catalog:   snap.Catalog,
		custom:    snap.CustomColumns,
	}
	return e, nil
}

// Close stops the worker pool
func (e *Engine) Close() {
	e.pool.Close()
}

// Load reads a file and makes it the current dataset. On error the
// previous dataset and state are left untouched.
func (e *Engine) Load(path string) (derive.Report, error) {
	ds, err := loader.Load(path)
	if err != nil {
		return derive.Report{}, err
	}
	return e.LoadDataset(ds, path), nil
}

// LoadDataset replaces the dataset wholesale: it classifies the raw
// columns, coerces numeric ones, replays the saved custom columns in
// order and resets filter, sort and page state.
func (e *Engine) LoadDataset(raw *data.Dataset, source string) derive.Report {
	start := time.Now()
	e.session = newSession(source)
	e.notify(Event{Type: EventLoad, Data: map[string]any{
		"source":  source,
		"rows":    raw.Len(),
		"columns": len(raw.Columns),
	}})

	ds := raw.Clone()
	e.classify(ds)

	derived, report := derive.Replay(ds, e.custom)
	for _, res := range report.Applied {
		e.notify(Event{Type: EventDerive, Data: res})
	}
	if len(report.Applied) > 0 {
		e.classify(derived)
	}

	e.dataset = derived
	e.filters = filter.State{}
	e.sort = sorting.State{}
	e.page = paginate.State{Page: 1, PageSize: e.page.PageSize}

	e.notify(Event{Type: EventLoad, Data: map[string]any{
		"source":   source,
		"applied":  len(report.Applied),
		"skipped":  len(report.Skipped),
		"duration": time.Since(start).String(),
	}})
	return report
}

// classify recomputes the classification of ds and stores numbers in
// its numeric columns
func (e *Engine) classify(ds *data.Dataset) {
	e.classes = classify.Classify(ds, e.cfg.NumericSampleSize)
	coerced := classify.CoerceNumeric(ds, e.classes)
	e.notify(Event{Type: EventClassify, Data: map[string]any{
		"numeric": e.classes.NumericColumns(),
		"textual": e.classes.TextualColumns(),
		"coerced": coerced,
	}})
}

func (e *Engine) requireDataset() error {
	if e.dataset == nil {
		return ErrNoDataset
	}
	return nil
}

func (e *Engine) requireColumn(column string) error {
	if err := e.requireDataset(); err != nil {
		return err
	}
	if !e.dataset.HasColumn(column) {
		return fmt.Errorf("%w: %q", data.ErrColumnNotFound, column)
	}
	return nil
}

// Session returns the current session
func (e *Engine) Session() Session { return e.session }

// Dataset returns the current dataset, nil before the first load.
// Callers must not modify it.
func (e *Engine) Dataset() *data.Dataset { return e.dataset }

// Classification returns the classification of the current dataset
func (e *Engine) Classification() classify.Classification { return e.classes }

// Columns returns the current column order
func (e *Engine) Columns() []string {
	if e.dataset == nil {
		return nil
	}
	return append([]string(nil), e.dataset.Columns...)
}

// CustomColumns returns the saved custom column definitions in order
func (e *Engine) CustomColumns() []derive.Definition {
	return append([]derive.Definition(nil), e.custom...)
}

// AddCustomColumn validates def, derives the column on the current
// dataset and saves the definition. If the definition cannot be saved
// the dataset and the custom column list are left unchanged.
func (e *Engine) AddCustomColumn(def derive.Definition) (derive.Result, error) {
	if err := e.requireDataset(); err != nil {
		return derive.Result{}, err
	}

	ds, res, err := derive.Apply(e.dataset, def)
	if err != nil {
		return derive.Result{}, err
	}

	def.Name = res.Column
	custom := append(append([]derive.Definition(nil), e.custom...), def)
	if err := e.store.SaveCustomColumns(custom); err != nil {
		return derive.Result{}, persistError("custom columns", err)
	}

	e.dataset = ds
	e.custom = custom
	e.notify(Event{Type: EventDerive, Data: res})
	e.classify(ds)
	return res, nil
}

// State is a copy of the session-scoped view state
type State struct {
	Filters filter.State
	Sort    sorting.State
	Page    paginate.State
	Hidden  []string
}

// State returns a deep copy of the current filter, sort, page and
// hidden-column state
func (e *Engine) State() (State, error) {
	var cp State
	src := State{Filters: e.filters, Sort: e.sort, Page: e.page, Hidden: e.hidden}
	if err := deepcopy.Copy(&cp, &src); err != nil {
		return State{}, fmt.Errorf("copy engine state: %w", err)
	}
	return cp, nil
}

// AddObserver registers an observer to receive lifecycle events
func (e *Engine) AddObserver(observer Observer) {
	e.observers = append(e.observers, observer)
}

// RemoveObserver unregisters an observer
func (e *Engine) RemoveObserver(observer Observer) {
	for i, o := range e.observers {
		if o == observer {
			e.observers = append(e.observers[:i], e.observers[i+1:]...)
			return
		}
	}
}

// notify sends an event to all registered observers
func (e *Engine) notify(event Event) {
	event.Timestamp = time.Now()
	event.SessionID = e.session.ID
	for _, observer := range e.observers {
		observer.OnEvent(event)
	}
}
