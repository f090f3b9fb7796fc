package services

import (
	"context"
	"time"

	"tracker/src/utils"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type CurrencyServiceI interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) decimal.Decimal
	ToMainCurrency(ctx context.Context, amount decimal.Decimal, currency, mainCurrency string, transactionDate *time.Time, usdAmount *decimal.Decimal) decimal.Decimal
	IsCrypto(code string) bool
}

// CurrencyService converts amounts across currencies over the shared
// base-relative rate table.
type CurrencyService struct {
	rates RateServiceI
	log   *logrus.Logger
}

func NewCurrencyService(rates RateServiceI, log *logrus.Logger) *CurrencyService {
	return &CurrencyService{rates: rates, log: log}
}

// Convert translates amount from one currency to another using the live rate
// table. Unknown codes resolve to rate 1, so the worst case is an
// unconverted amount rather than a failure.
func (s *CurrencyService) Convert(ctx context.Context, amount decimal.Decimal, from, to string) decimal.Decimal {
	if from == to {
		return amount
	}

	table := s.rates.GetRates(ctx)
	if _, ok := table.Rates[from]; !ok {
		s.log.Debugf("unknown currency %q, using rate 1", from)
	}
	if _, ok := table.Rates[to]; !ok {
		s.log.Debugf("unknown currency %q, using rate 1", to)
	}

	fromRate := decimal.NewFromFloat(table.Rate(from))
	toRate := decimal.NewFromFloat(table.Rate(to))

	return amount.Div(fromRate).Mul(toRate)
}

// ToMainCurrency normalizes an amount into the reporting currency through a
// layered fallback, ordered by accuracy:
//
//  1. historical rate for the transaction date,
//  2. the USD snapshot recorded at creation time, bridged to the main
//     currency at the live rate,
//  3. the live rate for the raw amount.
//
// When none applies the raw amount is returned unconverted. This never fails.
func (s *CurrencyService) ToMainCurrency(ctx context.Context, amount decimal.Decimal, currency, mainCurrency string, transactionDate *time.Time, usdAmount *decimal.Decimal) decimal.Decimal {
	if currency == mainCurrency {
		return amount
	}

	if transactionDate != nil {
		if rate, ok := s.rates.GetHistoricalRate(ctx, *transactionDate, currency, mainCurrency); ok {
			return amount.Mul(decimal.NewFromFloat(rate))
		}
	}

	if usdAmount != nil {
		return s.Convert(ctx, *usdAmount, utils.USDCurrencyCode, mainCurrency)
	}

	return s.Convert(ctx, amount, currency, mainCurrency)
}

func (s *CurrencyService) IsCrypto(code string) bool {
	return s.rates.IsCrypto(code)
}
