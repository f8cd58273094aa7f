package question

import (
	"errors"
	"fmt"
)

// ErrNoSource is returned when no question source matches the configured pattern.
var ErrNoSource = errors.New("no question source found")

// DataIntegrityError reports malformed source data. It is fatal at load time.
type DataIntegrityError struct {
	Source string
	Row    int // 1-based data row, 0 when the error concerns the whole source
	Err    error
}

func (e *DataIntegrityError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("data integrity: %s row %d: %v", e.Source, e.Row, e.Err)
	}
	return fmt.Sprintf("data integrity: %s: %v", e.Source, e.Err)
}

func (e *DataIntegrityError) Unwrap() error { return e.Err }
