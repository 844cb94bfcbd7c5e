package storage

import (
	"encoding/json"

	"github.com/leengari/pivotgrid/internal/derive"
	"github.com/leengari/pivotgrid/internal/domain/view"
)

// Key suffixes under the namespace
const (
	hiddenColumnsSuffix = "_hiddenColumns"
	customColumnsSuffix = "_customColumns"
)

// configRecord is stored under the bare namespace key and is also the
// import/export document. Older documents used pivots/activePivotId.
type configRecord struct {
	Views        []view.View `json:"views"`
	ActiveViewID string      `json:"activeViewId"`
}

type legacyConfigRecord struct {
	Views         *[]view.View `json:"views"`
	ActiveViewID  *string      `json:"activeViewId"`
	Pivots        *[]view.View `json:"pivots"`
	ActivePivotID *string      `json:"activePivotId"`
}

// customColumnRecord is one saved derived column. The anchor is written
// as insertCol; insertAfter is accepted on read.
type customColumnRecord struct {
	Name        string `json:"name"`
	Formula     string `json:"formula"`
	InsertCol   string `json:"insertCol,omitempty"`
	InsertAfter string `json:"insertAfter,omitempty"`
}

func (r customColumnRecord) definition() derive.Definition {
	anchor := r.InsertCol
	if anchor == "" {
		anchor = r.InsertAfter
	}
	return derive.Definition{Name: r.Name, Formula: r.Formula, InsertAfter: anchor}
}

func recordFromDefinition(def derive.Definition) customColumnRecord {
	return customColumnRecord{Name: def.Name, Formula: def.Formula, InsertCol: def.InsertAfter}
}

func marshalRecord(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
