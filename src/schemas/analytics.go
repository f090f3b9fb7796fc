package schemas

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Period is a reporting window selector. Rolling periods (7d/30d/90d) cover
// whole days ending today; calendar periods run from their calendar boundary
// through now.
type Period string

const (
	Period7Days   Period = "7d"
	Period30Days  Period = "30d"
	Period90Days  Period = "90d"
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	Period3Months Period = "3month"
)

func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case Period7Days, Period30Days, Period90Days, PeriodWeek, PeriodMonth, Period3Months:
		return Period(s), nil
	default:
		return "", fmt.Errorf("unknown period %q", s)
	}
}

type Summary struct {
	Period       Period    `json:"period"`
	MainCurrency string    `json:"mainCurrency"`
	From         time.Time `json:"from"`
	To           time.Time `json:"to"`

	Balance      decimal.Decimal `json:"balance"`
	Expenses     decimal.Decimal `json:"expenses"`
	Income       decimal.Decimal `json:"income"`
	ExpensesPrev decimal.Decimal `json:"expensesPrev"`
	IncomePrev   decimal.Decimal `json:"incomePrev"`

	// Trend percentages are nil when the previous period had no data;
	// "no prior data" is distinct from "0% change".
	ExpensesTrendPct *decimal.Decimal `json:"expensesTrendPct"`
	IncomeTrendPct   *decimal.Decimal `json:"incomeTrendPct"`

	BurnRate decimal.Decimal `json:"burnRate"`
}

type TopGroup struct {
	Name string          `json:"name"`
	Sum  decimal.Decimal `json:"sum"`
	Pct  decimal.Decimal `json:"pct"`
}

type TransferItem struct {
	ID              string          `json:"id"`
	ConvertedAmount decimal.Decimal `json:"convertedAmount"`
	Description     string          `json:"description"`
	Date            time.Time       `json:"date"`
}

type TopTransfer struct {
	FromAccountID string          `json:"fromAccountId"`
	ToAccountID   string          `json:"toAccountId"`
	Sum           decimal.Decimal `json:"sum"`
	Items         []TransferItem  `json:"items"`
}

type AnomalyRow struct {
	ID              string          `json:"id"`
	AccountID       string          `json:"accountId"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	ConvertedAmount decimal.Decimal `json:"convertedAmount"`
	CategoryName    *string         `json:"categoryName,omitempty"`
	Description     string          `json:"description"`
	Date            time.Time       `json:"date"`
}

type TypeSplit struct {
	Expenses  decimal.Decimal `json:"expenses"`
	Income    decimal.Decimal `json:"income"`
	Transfers decimal.Decimal `json:"transfers"`
}

type DetailRow struct {
	ID              string          `json:"id"`
	AccountID       string          `json:"accountId"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	ConvertedAmount decimal.Decimal `json:"convertedAmount"`
	Description     string          `json:"description"`
	Date            time.Time       `json:"date"`
}

type DetailPage struct {
	Items  []DetailRow `json:"items"`
	Total  int64       `json:"total"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}

// TopQuery scopes the top-N breakdowns. BeginningBalance, when positive, is
// the denominator for percentage shares; otherwise shares degrade to the raw
// converted sums.
type TopQuery struct {
	OwnerID          int64
	Period           Period
	MainCurrency     string
	Limit            int
	AccountID        *string
	BeginningBalance *decimal.Decimal
}

type AnomalyQuery struct {
	OwnerID          int64
	Period           Period
	MainCurrency     string
	Threshold        decimal.Decimal
	AccountID        *string
	BeginningBalance *decimal.Decimal
}

type DetailQuery struct {
	OwnerID      int64
	Period       Period
	MainCurrency string
	CategoryID   *string
	TagID        *string
	AccountID    *string
	Limit        int
	Offset       int
}
