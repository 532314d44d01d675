package repo

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when the requested record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrInvalidInput is returned when arguments fail validation before reaching the store
	ErrInvalidInput = errors.New("invalid input")

	// ErrConnectivity is returned when the data store cannot be reached
	ErrConnectivity = errors.New("data store unavailable")

	// ErrWrite is returned when the store rejects an insert or update (unique or check constraint)
	ErrWrite = errors.New("write rejected by data store")

	// ErrQuery is returned when a read fails for a reason other than connectivity
	ErrQuery = errors.New("query failed")

	// ErrReference is returned when a referenced customer, employee, item, donor or transaction is missing
	ErrReference = errors.New("referenced record does not exist")

	// ErrInsufficientStock is matched by every *InsufficientStockError
	ErrInsufficientStock = errors.New("insufficient stock")
)

// InsufficientStockError reports a requested quantity above what is available
type InsufficientStockError struct {
	ItemID    uint
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %d: available=%d, requested=%d", e.ItemID, e.Available, e.Requested)
}

// Is makes errors.Is(err, ErrInsufficientStock) hold
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

func referenceError(kind string, id uint) error {
	return fmt.Errorf("%w: %s %d", ErrReference, kind, id)
}

func invalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// isDomainError reports errors that already carry a caller-facing meaning
func isDomainError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrReference) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrConnectivity) ||
		errors.Is(err, ErrWrite) ||
		errors.Is(err, ErrQuery)
}

func isConnectivityError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// classifyWrite maps a driver error from a write path onto the error taxonomy
func classifyWrite(err error) error {
	switch {
	case isDomainError(err):
		return err
	case isConnectivityError(err):
		return ErrConnectivity
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrReference
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	default:
		return ErrWrite
	}
}

// classifyRead maps a driver error from a read path onto the error taxonomy
func classifyRead(err error) error {
	switch {
	case isDomainError(err):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case isConnectivityError(err):
		return ErrConnectivity
	default:
		return ErrQuery
	}
}

// writeFailure logs the driver detail and returns a sanitized, classified error.
// Domain errors pass through untouched and are not logged as failures.
func writeFailure(log *zap.Logger, op string, err error, fields ...zap.Field) error {
	if isDomainError(err) {
		return err
	}
	log.Error("Failed to "+op, append(fields, zap.Error(err))...)
	return fmt.Errorf("%s: %w", op, classifyWrite(err))
}

// readFailure is the read-path counterpart of writeFailure
func readFailure(log *zap.Logger, op string, err error, fields ...zap.Field) error {
	if isDomainError(err) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	log.Error("Failed to "+op, append(fields, zap.Error(err))...)
	return fmt.Errorf("%s: %w", op, classifyRead(err))
}
