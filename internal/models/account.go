package models

import (
	"time"
)

// Account is the per-user balance record. Balance is stored in minor
// units (cents) as int64 and must never go negative.
type Account struct {
	ID        int64     `json:"id" db:"id"`
	Balance   int64     `json:"balance" db:"balance"` // in cents
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ChargeRequest is the body of POST /users/charge.
type ChargeRequest struct {
	UserID int64  `json:"userId" validate:"required,gt=0"`
	Action string `json:"action" validate:"required"`
	Amount int64  `json:"amount" validate:"required,gt=0"` // in cents
}

// ChargeResponse carries only the post-charge balance, nothing else.
type ChargeResponse struct {
	Balance int64 `json:"balance"`
}

// BalanceResponse is returned by the balance enquiry endpoint.
type BalanceResponse struct {
	UserID  int64 `json:"userId"`
	Balance int64 `json:"balance"`
}
