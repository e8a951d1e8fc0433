package models

import "errors"

// Failure taxonomy of the charge protocol. The messages are the exact
// strings surfaced to API clients, so they are part of the contract.
var (
	// ErrAccountNotFound is returned when the charged user id does not
	// resolve to an existing account.
	ErrAccountNotFound = errors.New("User not found")

	// ErrInsufficientFunds is returned when the account balance cannot
	// cover the requested amount. No mutation happens on this path.
	ErrInsufficientFunds = errors.New("Insufficient funds")

	// ErrInvalidAmount is returned for zero or negative charge amounts.
	ErrInvalidAmount = errors.New("Amount must be positive")
)
