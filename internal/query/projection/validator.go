package projection

import (
	"fmt"

	"github.com/leengari/pivotgrid/internal/domain/data"
)

// ValidateProjection checks that every hidden column exists in the dataset
func ValidateProjection(ds *data.Dataset, proj *Projection) error {
	if proj == nil {
		return nil
	}

	for col := range proj.Hidden {
		if !ds.HasColumn(col) {
			return fmt.Errorf("%w: cannot hide '%s'", data.ErrColumnNotFound, col)
		}
	}

	return nil
}
