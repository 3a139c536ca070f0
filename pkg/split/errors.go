package split

import (
	"errors"
	"fmt"
)

// ErrExport is matched by every ExportError.
var ErrExport = errors.New("export failed")

// ExportError reports the cell that could not be written. Cells before it
// stay on disk.
type ExportError struct {
	// Index is the 1-based cell index that failed.
	Index int
	// Written is the number of cells already on disk.
	Written int
	Path    string
	Err     error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export cell %d (%s) after %d written: %v", e.Index, e.Path, e.Written, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

func (e *ExportError) Is(target error) bool { return target == ErrExport }
