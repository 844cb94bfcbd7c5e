package engine

import (
	"fmt"
	"slices"

	"github.com/leengari/pivotgrid/internal/domain/view"
	"github.com/leengari/pivotgrid/internal/pivot"
	"github.com/leengari/pivotgrid/internal/query/projection"
	"github.com/leengari/pivotgrid/internal/storage"
)

// Views returns a copy of the view catalog
func (e *Engine) Views() (*view.Catalog, error) {
	return e.catalog.Clone()
}

// ActiveView returns the active view
func (e *Engine) ActiveView() view.View { return e.catalog.Active() }

func (e *Engine) saveViews() error {
	if err := e.store.SaveViews(e.catalog); err != nil {
		return persistError("views", err)
	}
	return nil
}

// AddView creates a pivot view with the default layout and activates it
func (e *Engine) AddView(title string) (view.View, error) {
	v, err := e.catalog.Add(title)
	if err != nil {
		return view.View{}, err
	}
	return v, e.saveViews()
}

func (e *Engine) RenameView(id, title string) error {
	if err := e.catalog.Rename(id, title); err != nil {
		return err
	}
	return e.saveViews()
}

func (e *Engine) DeleteView(id string) error {
	if err := e.catalog.Delete(id); err != nil {
		return err
	}
	return e.saveViews()
}

func (e *Engine) SetActiveView(id string) error {
	if err := e.catalog.SetActive(id); err != nil {
		return err
	}
	return e.saveViews()
}

func (e *Engine) UpdateViewConfig(id string, cfg view.PivotConfig) error {
	if err := e.catalog.UpdateConfig(id, cfg); err != nil {
		return err
	}
	return e.saveViews()
}

// RenderConfig builds the renderer configuration for the active view.
// The data view renders with the default layout.
func (e *Engine) RenderConfig() (pivot.RenderConfig, error) {
	if err := e.requireDataset(); err != nil {
		return pivot.RenderConfig{}, err
	}
	cfg := view.DefaultPivotConfig()
	if active := e.catalog.Active(); active.Config != nil {
		cfg = *active.Config
	}
	return pivot.BuildRenderConfig(cfg, e.dataset.Columns, e.classes, e.HiddenColumns()), nil
}

// ExportViews encodes the view catalog as a {views, activeViewId} document
func (e *Engine) ExportViews() ([]byte, error) {
	return storage.ExportViews(e.catalog)
}

// ImportViews replaces the view catalog with an exported document.
// An invalid document changes nothing.
func (e *Engine) ImportViews(raw []byte) error {
	c, err := storage.ImportViews(raw)
	if err != nil {
		return err
	}
	e.catalog = c
	return e.saveViews()
}

// HiddenColumns returns the hidden columns present in the dataset, in
// dataset order. Before a load it returns the saved set as stored.
func (e *Engine) HiddenColumns() []string {
	if e.dataset == nil {
		return append([]string{}, e.hidden...)
	}
	return projection.NewProjection(e.hidden...).HiddenColumns(e.dataset.Columns)
}

func (e *Engine) saveHidden() error {
	if err := e.store.SaveHiddenColumns(e.hidden); err != nil {
		return persistError("hidden columns", err)
	}
	return nil
}

// HideColumn removes column from the rendered table
func (e *Engine) HideColumn(column string) error {
	if err := e.requireColumn(column); err != nil {
		return err
	}
	if slices.Contains(e.hidden, column) {
		return nil
	}
	e.hidden = append(e.hidden, column)
	return e.saveHidden()
}

// ShowColumn undoes HideColumn
func (e *Engine) ShowColumn(column string) error {
	i := slices.Index(e.hidden, column)
	if i < 0 {
		return nil
	}
	e.hidden = slices.Delete(e.hidden, i, i+1)
	return e.saveHidden()
}

// SetHiddenColumns replaces the hidden set. Every name must be a column
// of the current dataset.
func (e *Engine) SetHiddenColumns(columns []string) error {
	if err := e.requireDataset(); err != nil {
		return err
	}
	proj := projection.NewProjection(columns...)
	if err := projection.ValidateProjection(e.dataset, proj); err != nil {
		return fmt.Errorf("set hidden columns: %w", err)
	}
	e.hidden = proj.HiddenColumns(e.dataset.Columns)
	return e.saveHidden()
}
