package schemas

import (
	"time"

	"tracker/src/models"

	"github.com/shopspring/decimal"
)

// TransactionDetail is the per-direction payload of a transaction. Exactly
// one concrete detail type is attached to CreateTransactionParams, so fields
// that only make sense for one direction cannot leak into another.
type TransactionDetail interface {
	Direction() models.TransactionDirection
}

type ExpenseDetail struct {
	CategoryID *string `json:"categoryId,omitempty"`
	TagID      *string `json:"tagId,omitempty"`

	// Amount actually charged when the expense settled in another currency.
	// When set, the ledger posts this pair instead of the raw one.
	ConvertedAmount   *decimal.Decimal `json:"convertedAmount,omitempty"`
	ConvertedCurrency *string          `json:"convertedCurrency,omitempty"`
}

func (ExpenseDetail) Direction() models.TransactionDirection { return models.DirectionExpense }

type IncomeDetail struct {
	CategoryID *string `json:"categoryId,omitempty"`

	ConvertedAmount   *decimal.Decimal `json:"convertedAmount,omitempty"`
	ConvertedCurrency *string          `json:"convertedCurrency,omitempty"`
}

func (IncomeDetail) Direction() models.TransactionDirection { return models.DirectionIncome }

type TransferDetail struct {
	ToAccountID string `json:"toAccountId"`

	// Amount credited to the destination account when the transfer converts
	// between currencies. When unset the raw amount/currency is credited.
	ConvertedAmount   *decimal.Decimal `json:"convertedAmount,omitempty"`
	ConvertedCurrency *string          `json:"convertedCurrency,omitempty"`

	Trade *TradeDetail `json:"trade,omitempty"`
}

func (TransferDetail) Direction() models.TransactionDirection { return models.DirectionTransfer }

// TradeDetail marks a transfer as an asset trade.
type TradeDetail struct {
	Type           models.TradeType `json:"type"`
	BaseCurrency   string           `json:"baseCurrency"`
	BaseAmount     decimal.Decimal  `json:"baseAmount"`
	QuoteCurrency  string           `json:"quoteCurrency"`
	QuoteAmount    decimal.Decimal  `json:"quoteAmount"`
	ExecutionPrice decimal.Decimal  `json:"executionPrice"`
	FeeAmount      *decimal.Decimal `json:"feeAmount,omitempty"`
	FeeCurrency    *string          `json:"feeCurrency,omitempty"`
}

type CreateTransactionParams struct {
	OwnerID     int64           `json:"ownerId"`
	AccountID   string          `json:"accountId"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`

	Detail TransactionDetail `json:"-"`
}

// UpdateTransactionParams carries the fields of an existing transaction to
// overwrite. Nil fields keep their current values. The direction of a
// transaction cannot change after creation.
type UpdateTransactionParams struct {
	Amount            *decimal.Decimal `json:"amount,omitempty"`
	Currency          *string          `json:"currency,omitempty"`
	Description       *string          `json:"description,omitempty"`
	Date              *time.Time       `json:"date,omitempty"`
	CategoryID        *string          `json:"categoryId,omitempty"`
	TagID             *string          `json:"tagId,omitempty"`
	ToAccountID       *string          `json:"toAccountId,omitempty"`
	ConvertedAmount   *decimal.Decimal `json:"convertedAmount,omitempty"`
	ConvertedCurrency *string          `json:"convertedCurrency,omitempty"`
}

// CreateTransactionRequest is the wire shape of the create endpoint; the
// direction discriminator selects which detail block applies.
type CreateTransactionRequest struct {
	OwnerID     int64           `json:"ownerId"`
	AccountID   string          `json:"accountId"`
	Direction   string          `json:"direction"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	Date        *time.Time      `json:"date,omitempty"`

	Expense  *ExpenseDetail  `json:"expense,omitempty"`
	Income   *IncomeDetail   `json:"income,omitempty"`
	Transfer *TransferDetail `json:"transfer,omitempty"`
}
