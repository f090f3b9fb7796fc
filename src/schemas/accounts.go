package schemas

import "github.com/shopspring/decimal"

type CreateAccountRequest struct {
	OwnerID         int64  `json:"ownerId"`
	Name            string `json:"name"`
	DefaultCurrency string `json:"defaultCurrency"`
}

type SetAccountHiddenRequest struct {
	OwnerID int64 `json:"ownerId"`
	Hidden  bool  `json:"hidden"`
}

type AccountHolding struct {
	Currency        string          `json:"currency"`
	Amount          decimal.Decimal `json:"amount"`
	ConvertedAmount decimal.Decimal `json:"convertedAmount"`
}

type AccountBalance struct {
	AccountID    string           `json:"accountId"`
	Name         string           `json:"name"`
	Hidden       bool             `json:"hidden"`
	MainCurrency string           `json:"mainCurrency"`
	Total        decimal.Decimal  `json:"total"`
	Holdings     []AccountHolding `json:"holdings"`
}

// PortfolioSplit is the fiat vs crypto share of all visible holdings,
// expressed in the main currency.
type PortfolioSplit struct {
	MainCurrency string          `json:"mainCurrency"`
	Fiat         decimal.Decimal `json:"fiat"`
	Crypto       decimal.Decimal `json:"crypto"`
	FiatPct      decimal.Decimal `json:"fiatPct"`
	CryptoPct    decimal.Decimal `json:"cryptoPct"`
}
