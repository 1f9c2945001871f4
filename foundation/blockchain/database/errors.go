package database

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Set of error variables for ledger operations.
var (
	ErrEmptyLedger    = errors.New("ledger has no blocks")
	ErrInvalidProof   = errors.New("nonce does not satisfy the proof of work")
	ErrParentMismatch = errors.New("previous hash does not match the latest block")
)

// MissingFieldError is returned when a transaction submission lacks one or
// more required fields. Fields maps the field name to a message.
type MissingFieldError struct {
	Fields map[string]string
}

// NewMissingFieldError constructs the error for the named fields.
func NewMissingFieldError(fields map[string]string) *MissingFieldError {
	return &MissingFieldError{Fields: fields}
}

// Error implements the error interface.
func (mfe *MissingFieldError) Error() string {
	names := make([]string, 0, len(mfe.Fields))
	for name := range mfe.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	return fmt.Sprintf("missing fields: %s", strings.Join(names, ", "))
}

// IsMissingFieldError checks if an error of type MissingFieldError exists.
func IsMissingFieldError(err error) bool {
	var mfe *MissingFieldError
	return errors.As(err, &mfe)
}
