package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDataset is returned by operations that need a loaded dataset
	ErrNoDataset = errors.New("no dataset loaded")

	// ErrPersist wraps a failed write to the configuration store. View
	// and hidden-column changes are kept in memory when it is returned;
	// a custom column is not added.
	ErrPersist = errors.New("failed to persist configuration")
)

func persistError(what string, err error) error {
	return fmt.Errorf("%w (%s): %v", ErrPersist, what, err)
}
