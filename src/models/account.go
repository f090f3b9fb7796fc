package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	ID              string    `db:"id"`
	OwnerID         int64     `db:"owner_id"`
	Name            string    `db:"name"`
	DefaultCurrency string    `db:"default_currency"`
	Hidden          bool      `db:"hidden"`
	CreatedAt       time.Time `db:"created_at"`
}

// AccountAsset is the balance held by an account in one currency.
// There is at most one row per (account, currency) pair. The amount is a
// signed decimal: the ledger records what happened, it does not forbid
// negative balances.
type AccountAsset struct {
	ID        string          `db:"id"`
	AccountID string          `db:"account_id"`
	Currency  string          `db:"currency"`
	Amount    decimal.Decimal `db:"amount"`
	UpdatedAt time.Time       `db:"updated_at"`
}
