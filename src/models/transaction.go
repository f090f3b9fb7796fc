package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionDirection string

const (
	DirectionIncome   TransactionDirection = "income"
	DirectionExpense  TransactionDirection = "expense"
	DirectionTransfer TransactionDirection = "transfer"
)

type TradeType string

const (
	TradeBuy  TradeType = "buy"
	TradeSell TradeType = "sell"
)

// Transaction is one ledger event. Amount is always a non-negative
// magnitude; the sign of its balance effect is derived from Direction.
type Transaction struct {
	ID          string               `db:"id"`
	OwnerID     int64                `db:"owner_id"`
	Direction   TransactionDirection `db:"direction"`
	AccountID   string               `db:"account_id"`
	ToAccountID *string              `db:"to_account_id"`

	Amount   decimal.Decimal `db:"amount"`
	Currency string          `db:"currency"`

	// AmountUSD is the USD equivalent snapshotted at creation time, used as
	// a conversion fallback when no historical rate exists for the date.
	AmountUSD *decimal.Decimal `db:"amount_usd"`

	// ConvertedAmount/ConvertedCurrency hold the amount actually credited or
	// debited in the account's held currency when the transaction itself
	// performed a conversion.
	ConvertedAmount   *decimal.Decimal `db:"converted_amount"`
	ConvertedCurrency *string          `db:"converted_currency"`

	CategoryID *string `db:"category_id"`
	TagID      *string `db:"tag_id"`

	// Trade leg, set when a transfer represents an asset trade.
	TradeType      *TradeType       `db:"trade_type"`
	BaseCurrency   *string          `db:"base_currency"`
	BaseAmount     *decimal.Decimal `db:"base_amount"`
	QuoteCurrency  *string          `db:"quote_currency"`
	QuoteAmount    *decimal.Decimal `db:"quote_amount"`
	ExecutionPrice *decimal.Decimal `db:"execution_price"`
	FeeAmount      *decimal.Decimal `db:"fee_amount"`
	FeeCurrency    *string          `db:"fee_currency"`

	Description     string    `db:"description"`
	TransactionDate time.Time `db:"transaction_date"`
	CreatedAt       time.Time `db:"created_at"`
}

// EffectivePosting resolves the amount/currency pair the ledger posts to the
// credited side: the converted pair when present, the raw pair otherwise.
func (t *Transaction) EffectivePosting() (decimal.Decimal, string) {
	if t.ConvertedAmount != nil && t.ConvertedCurrency != nil && *t.ConvertedCurrency != "" {
		return *t.ConvertedAmount, *t.ConvertedCurrency
	}
	return t.Amount, t.Currency
}

// TransactionWithRefs is a transaction row joined with its category and tag
// names, as returned by the analytics read queries.
type TransactionWithRefs struct {
	Transaction
	CategoryName *string `db:"category_name"`
	TagName      *string `db:"tag_name"`
}
