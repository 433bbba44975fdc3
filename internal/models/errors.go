package models

import (
	"errors"
	"fmt"
)

// Snapshot load failures. ErrSnapshotMissing means a fresh store should be
// initialized; ErrSnapshotCorrupt is surfaced to the operator instead of
// silently discarding data.
var (
	ErrSnapshotMissing = errors.New("snapshot missing")
	ErrSnapshotCorrupt = errors.New("snapshot corrupt")
)

// ValidationError rejects invalid input to a mutating operation
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports a missing product, category, sale or settings row
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// InsufficientStockError aborts a whole sale when any line requests more
// units than the product has in stock
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (%s): available=%d, requested=%d",
		e.ProductName, e.ProductID, e.Available, e.Requested)
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
