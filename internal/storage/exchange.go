package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/leengari/pivotgrid/internal/domain/view"
)

// ErrInvalidImport is returned for an import document that is not valid
// JSON or lacks the views/activeViewId shape
var ErrInvalidImport = errors.New("invalid import document")

// ExportViews encodes the catalog as {views, activeViewId}
func ExportViews(c *view.Catalog) ([]byte, error) {
	snapshot, err := c.Clone()
	if err != nil {
		return nil, err
	}
	return marshalRecord(configRecord{Views: snapshot.Views, ActiveViewID: snapshot.ActiveViewID})
}

// ImportViews decodes an exported document into a new catalog. Nothing
// is returned unless the whole document is valid.
func ImportViews(raw []byte) (*view.Catalog, error) {
	var rec legacyConfigRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}

	views, active := rec.Views, rec.ActiveViewID
	if views == nil && active == nil {
		views, active = rec.Pivots, rec.ActivePivotID
	}
	if views == nil {
		return nil, fmt.Errorf("%w: missing views", ErrInvalidImport)
	}
	if active == nil || strings.TrimSpace(*active) == "" {
		return nil, fmt.Errorf("%w: missing activeViewId", ErrInvalidImport)
	}

	ids := map[string]bool{view.DataViewID: true}
	for i, v := range *views {
		if strings.TrimSpace(v.ID) == "" {
			return nil, fmt.Errorf("%w: view %d has no id", ErrInvalidImport, i)
		}
		ids[v.ID] = true
	}
	if !ids[*active] {
		return nil, fmt.Errorf("%w: active view %q is not in the document", ErrInvalidImport, *active)
	}

	c := &view.Catalog{Views: *views, ActiveViewID: *active}
	c.Normalize()
	return c, nil
}
