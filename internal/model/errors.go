package model

import "errors"

var (
	// ErrPoolNotFound means no pair exists yet; it is an expected outcome.
	ErrPoolNotFound = errors.New("pool not found")
	// ErrLookupFailed wraps a transient RPC failure on a read.
	ErrLookupFailed = errors.New("lookup failed")
	// ErrSameToken rejects a pair whose two legs resolve to one token.
	ErrSameToken = errors.New("same token on both legs")

	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrUserRejected          = errors.New("user rejected")
	ErrTransactionReverted   = errors.New("transaction reverted")
	ErrNetworkMismatch       = errors.New("network mismatch")

	ErrSessionBusy       = errors.New("operation already in flight")
	ErrInvalidTransition = errors.New("invalid state transition")
)
