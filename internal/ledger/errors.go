// internal/ledger/errors.go
package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrReadOnly is returned by writes on a connection without a signer.
	ErrReadOnly = errors.New("no signer configured: connection is read-only")

	// ErrReverted means the transaction was mined but failed.
	ErrReverted = errors.New("transaction reverted")

	// ErrNotConfigured means the contract address for a call is missing.
	ErrNotConfigured = errors.New("contract address not configured")

	// ErrEmptySelection is returned for stake/withdraw with no token ids.
	ErrEmptySelection = errors.New("no tokens selected")
)

// CallError is a failed contract read or write with the call site attached.
type CallError struct {
	Err      error
	Contract string
	Method   string
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Contract, e.Method, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// NewCallError wraps err, returning nil for a nil err.
func NewCallError(err error, contract, method string) error {
	if err == nil {
		return nil
	}
	return &CallError{
		Err:      err,
		Contract: contract,
		Method:   method,
	}
}
