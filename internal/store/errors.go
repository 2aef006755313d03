package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateName is returned when a unique name constraint would be
// violated (brands, categories).
var ErrDuplicateName = errors.New("name already exists")

// InstrumentNotFoundError reports an order line referencing an
// instrument that does not exist. It originates from client input, so
// callers map it to an invalid-argument response rather than 404.
type InstrumentNotFoundError struct {
	InstrumentID int
}

func (e *InstrumentNotFoundError) Error() string {
	return fmt.Sprintf("instrument with id %d not found", e.InstrumentID)
}

// InsufficientStockError reports a reservation that would drive an
// instrument's stock negative.
type InsufficientStockError struct {
	InstrumentID int
	Name         string
	Requested    int
	Available    int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for instrument: %s", e.Name)
}
