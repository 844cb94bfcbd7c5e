// Package view holds the saved views shown as tabs next to the data table.
package view

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tiendc/go-deepcopy"
)

// DataViewID is the permanent builtin table view
const DataViewID = "data"

var (
	ErrViewNotFound = errors.New("view not found")
	ErrEmptyTitle   = errors.New("view title must not be empty")
	ErrBuiltinView  = errors.New("builtin view cannot be changed")
)

// PivotConfig is the saved cross-tab layout of a view
type PivotConfig struct {
	Rows           []string `json:"rows"`
	Cols           []string `json:"cols"`
	AggregatorName string   `json:"aggregatorName"`
	Vals           []string `json:"vals"`
	RendererName   string   `json:"rendererName"`
}

// DefaultPivotConfig is the layout of a freshly added view
func DefaultPivotConfig() PivotConfig {
	return PivotConfig{
		Rows:           []string{},
		Cols:           []string{},
		AggregatorName: "Count",
		Vals:           []string{},
		RendererName:   "Table",
	}
}

// MarshalJSON writes empty lists as [] rather than null
func (p PivotConfig) MarshalJSON() ([]byte, error) {
	type plain PivotConfig
	out := plain(p)
	if out.Rows == nil {
		out.Rows = []string{}
	}
	if out.Cols == nil {
		out.Cols = []string{}
	}
	if out.Vals == nil {
		out.Vals = []string{}
	}
	return json.Marshal(out)
}

// View is one tab: the builtin data table or a saved pivot.
// Config is nil for the data view.
type View struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Config    *PivotConfig `json:"config"`
	IsBuiltin bool         `json:"isBuiltin"`
}

func dataView() View {
	return View{ID: DataViewID, Title: "Data", IsBuiltin: true}
}

// Catalog is the ordered list of views plus the active one.
// The data view is always first.
type Catalog struct {
	Views        []View `json:"views"`
	ActiveViewID string `json:"activeViewId"`
}

// NewCatalog returns a catalog holding only the data view
func NewCatalog() *Catalog {
	return &Catalog{Views: []View{dataView()}, ActiveViewID: DataViewID}
}

// Normalize puts exactly one builtin data view at the head, drops views
// without an id or with a repeated id, and points an unknown active id
// back at the data view
func (c *Catalog) Normalize() {
	views := []View{dataView()}
	seen := map[string]bool{DataViewID: true}
	for _, v := range c.Views {
		if v.ID == "" || seen[v.ID] {
			continue
		}
		seen[v.ID] = true
		v.IsBuiltin = false
		views = append(views, v)
	}
	c.Views = views

	if c.ActiveViewID == "" || !seen[c.ActiveViewID] {
		c.ActiveViewID = DataViewID
	}
}

func (c *Catalog) index(id string) int {
	for i, v := range c.Views {
		if v.ID == id {
			return i
		}
	}
	return -1
}

// Get returns a copy of the view with id
func (c *Catalog) Get(id string) (View, error) {
	i := c.index(id)
	if i < 0 {
		return View{}, fmt.Errorf("%w: %q", ErrViewNotFound, id)
	}
	return c.Views[i], nil
}

// Active returns the active view
func (c *Catalog) Active() View {
	if v, err := c.Get(c.ActiveViewID); err == nil {
		return v
	}
	return dataView()
}

// Add appends a new pivot view with the default layout and activates it
func (c *Catalog) Add(title string) (View, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return View{}, ErrEmptyTitle
	}
	cfg := DefaultPivotConfig()
	v := View{ID: "view_" + uuid.NewString(), Title: title, Config: &cfg}
	c.Views = append(c.Views, v)
	c.ActiveViewID = v.ID
	return v, nil
}

func (c *Catalog) mutable(id string) (int, error) {
	i := c.index(id)
	if i < 0 {
		return -1, fmt.Errorf("%w: %q", ErrViewNotFound, id)
	}
	if c.Views[i].IsBuiltin {
		return -1, fmt.Errorf("%w: %q", ErrBuiltinView, id)
	}
	return i, nil
}

func (c *Catalog) Rename(id, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	i, err := c.mutable(id)
	if err != nil {
		return err
	}
	c.Views[i].Title = title
	return nil
}

// Delete removes a view; deleting the active view activates the data view
func (c *Catalog) Delete(id string) error {
	i, err := c.mutable(id)
	if err != nil {
		return err
	}
	c.Views = append(c.Views[:i], c.Views[i+1:]...)
	if c.ActiveViewID == id {
		c.ActiveViewID = DataViewID
	}
	return nil
}

func (c *Catalog) SetActive(id string) error {
	if c.index(id) < 0 {
		return fmt.Errorf("%w: %q", ErrViewNotFound, id)
	}
	c.ActiveViewID = id
	return nil
}

// UpdateConfig replaces a pivot view's layout
func (c *Catalog) UpdateConfig(id string, cfg PivotConfig) error {
	i, err := c.mutable(id)
	if err != nil {
		return err
	}
	cfg = cloneConfig(cfg)
	c.Views[i].Config = &cfg
	return nil
}

// Clone returns a catalog sharing no memory with c
func (c *Catalog) Clone() (*Catalog, error) {
	var cp Catalog
	if err := deepcopy.Copy(&cp, c); err != nil {
		return nil, fmt.Errorf("clone view catalog: %w", err)
	}
	return &cp, nil
}

func cloneConfig(cfg PivotConfig) PivotConfig {
	cfg.Rows = append([]string{}, cfg.Rows...)
	cfg.Cols = append([]string{}, cfg.Cols...)
	cfg.Vals = append([]string{}, cfg.Vals...)
	return cfg
}
