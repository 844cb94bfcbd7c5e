package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tiendc/go-deepcopy"

	"github.com/leengari/pivotgrid/internal/derive"
	"github.com/leengari/pivotgrid/internal/domain/view"
)

// Snapshot is everything read from the store at startup
type Snapshot struct {
	Catalog       *view.Catalog
	HiddenColumns []string
	CustomColumns []derive.Definition
}

// Clone returns a snapshot sharing no memory with s
func (s Snapshot) Clone() (Snapshot, error) {
	var cp Snapshot
	if err := deepcopy.Copy(&cp, &s); err != nil {
		return Snapshot{}, fmt.Errorf("clone snapshot: %w", err)
	}
	return cp, nil
}

// Adapter maps configuration onto the three namespace keys of a Store.
// Reads never fail: missing or corrupt entries yield defaults.
type Adapter struct {
	store     Store
	namespace string
}

func NewAdapter(store Store, namespace string) *Adapter {
	return &Adapter{store: store, namespace: namespace}
}

func (a *Adapter) Namespace() string { return a.namespace }

// read decodes key into v. It reports false when the key is missing or
// holds something that does not decode.
func (a *Adapter) read(key string, v any) bool {
	raw, err := a.store.Get(key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Warn("failed to read stored config, using defaults", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		slog.Warn("stored config is corrupt, using defaults", "key", key, "error", err)
		return false
	}
	return true
}

func (a *Adapter) write(key string, v any) error {
	raw, err := marshalRecord(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := a.store.Set(key, raw); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Load reads all configuration once
func (a *Adapter) Load() Snapshot {
	return Snapshot{
		Catalog:       a.LoadViews(),
		HiddenColumns: a.LoadHiddenColumns(),
		CustomColumns: a.LoadCustomColumns(),
	}
}

func (a *Adapter) LoadViews() *view.Catalog {
	var rec configRecord
	if !a.read(a.namespace, &rec) {
		return view.NewCatalog()
	}
	c := &view.Catalog{Views: rec.Views, ActiveViewID: rec.ActiveViewID}
	c.Normalize()
	return c
}

func (a *Adapter) SaveViews(c *view.Catalog) error {
	return a.write(a.namespace, configRecord{Views: c.Views, ActiveViewID: c.ActiveViewID})
}

func (a *Adapter) LoadHiddenColumns() []string {
	var hidden []string
	if !a.read(a.namespace+hiddenColumnsSuffix, &hidden) {
		return []string{}
	}
	if hidden == nil {
		hidden = []string{}
	}
	return hidden
}

func (a *Adapter) SaveHiddenColumns(hidden []string) error {
	if hidden == nil {
		hidden = []string{}
	}
	return a.write(a.namespace+hiddenColumnsSuffix, hidden)
}

func (a *Adapter) LoadCustomColumns() []derive.Definition {
	var recs []customColumnRecord
	if !a.read(a.namespace+customColumnsSuffix, &recs) {
		return []derive.Definition{}
	}
	defs := make([]derive.Definition, 0, len(recs))
	for _, r := range recs {
		defs = append(defs, r.definition())
	}
	return defs
}

func (a *Adapter) SaveCustomColumns(defs []derive.Definition) error {
	recs := make([]customColumnRecord, 0, len(defs))
	for _, def := range defs {
		recs = append(recs, recordFromDefinition(def))
	}
	return a.write(a.namespace+customColumnsSuffix, recs)
}
