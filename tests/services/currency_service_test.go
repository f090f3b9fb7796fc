package services_test

import (
	"context"
	"testing"
	"time"

	"tracker/src/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCurrencyService_Convert(t *testing.T) {
	ctx := context.Background()
	rates := newStubRateService(map[string]float64{"USD": 1, "EUR": 0.9, "GBP": 0.8})
	currency := services.NewCurrencyService(rates, testLogger())

	t.Run("identity", func(t *testing.T) {
		amount := decimal.RequireFromString("123.456")
		assert.True(t, currency.Convert(ctx, amount, "EUR", "EUR").Equal(amount))
	})

	t.Run("through the base table", func(t *testing.T) {
		got := currency.Convert(ctx, decimal.NewFromInt(100), "EUR", "USD")
		assert.Equal(t, "111.11", got.StringFixed(2))
	})

	t.Run("cross rate", func(t *testing.T) {
		// 90 EUR -> 100 USD -> 80 GBP
		got := currency.Convert(ctx, decimal.NewFromInt(90), "EUR", "GBP")
		assert.Equal(t, "80.00", got.StringFixed(2))
	})

	t.Run("round trip", func(t *testing.T) {
		amount := decimal.NewFromInt(100)
		back := currency.Convert(ctx, currency.Convert(ctx, amount, "EUR", "USD"), "USD", "EUR")
		assert.True(t, back.Sub(amount).Abs().LessThan(decimal.RequireFromString("0.0001")),
			"round trip drifted: %s", back)
	})

	t.Run("unknown code falls back to rate 1", func(t *testing.T) {
		got := currency.Convert(ctx, decimal.NewFromInt(50), "XYZ", "USD")
		assert.Equal(t, "50.00", got.StringFixed(2))
	})
}

func TestCurrencyService_ToMainCurrency(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("same currency returns the amount untouched", func(t *testing.T) {
		rates := newStubRateService(map[string]float64{"USD": 1})
		currency := services.NewCurrencyService(rates, testLogger())

		amount := decimal.RequireFromString("42.42")
		got := currency.ToMainCurrency(ctx, amount, "EUR", "EUR", &date, nil)
		assert.True(t, got.Equal(amount))
	})

	t.Run("historical rate wins when available", func(t *testing.T) {
		rates := newStubRateService(map[string]float64{"USD": 1, "EUR": 0.9})
		rates.setHistorical(date, "EUR", "USD", 1.2)
		currency := services.NewCurrencyService(rates, testLogger())

		got := currency.ToMainCurrency(ctx, decimal.NewFromInt(100), "EUR", "USD", &date, nil)
		assert.Equal(t, "120.00", got.StringFixed(2))
	})

	t.Run("usd snapshot bridges when history is missing", func(t *testing.T) {
		rates := newStubRateService(map[string]float64{"USD": 1, "EUR": 0.9})
		currency := services.NewCurrencyService(rates, testLogger())

		usdAmount := decimal.NewFromInt(100)
		got := currency.ToMainCurrency(ctx, decimal.NewFromInt(90), "EUR", "GBP", &date, &usdAmount)
		// Snapshot converted at the live USD->GBP rate; GBP is unknown so rate 1.
		assert.Equal(t, "100.00", got.StringFixed(2))
	})

	t.Run("live rate when neither history nor snapshot applies", func(t *testing.T) {
		rates := newStubRateService(map[string]float64{"USD": 1, "EUR": 0.9})
		currency := services.NewCurrencyService(rates, testLogger())

		got := currency.ToMainCurrency(ctx, decimal.NewFromInt(90), "EUR", "USD", nil, nil)
		assert.Equal(t, "100.00", got.StringFixed(2))
	})

	t.Run("unknown codes degrade to the raw amount", func(t *testing.T) {
		rates := newStubRateService(map[string]float64{"USD": 1})
		currency := services.NewCurrencyService(rates, testLogger())

		got := currency.ToMainCurrency(ctx, decimal.NewFromInt(33), "XYZ", "ABC", nil, nil)
		assert.Equal(t, "33.00", got.StringFixed(2))
	})
}

func TestCurrencyService_IsCrypto(t *testing.T) {
	rates := newStubRateService(map[string]float64{"USD": 1})
	currency := services.NewCurrencyService(rates, testLogger())

	assert.True(t, currency.IsCrypto("BTC"))
	assert.False(t, currency.IsCrypto("USD"))
}
