package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"tracker/src/clients/rates"
	"tracker/src/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRateProvider is a scriptable provider: set err to simulate an outage.
type stubRateProvider struct {
	latest        *rates.GetLatestRatesResponse
	err           error
	historical    *rates.GetHistoricalRatesResponse
	historicalErr error

	latestCalls int
}

func (p *stubRateProvider) GetLatestRates(ctx context.Context, base string) (*rates.GetLatestRatesResponse, error) {
	p.latestCalls++
	if p.err != nil {
		return nil, p.err
	}
	return p.latest, nil
}

func (p *stubRateProvider) GetHistoricalRates(ctx context.Context, date string, base string, symbols []string) (*rates.GetHistoricalRatesResponse, error) {
	if p.historicalErr != nil {
		return nil, p.historicalErr
	}
	return p.historical, nil
}

var _ rates.RateProviderClientI = (*stubRateProvider)(nil)

func usdProvider() *stubRateProvider {
	return &stubRateProvider{
		latest: &rates.GetLatestRatesResponse{
			Base:  "USD",
			Rates: map[string]float64{"EUR": 0.9, "GBP": 0.8},
		},
	}
}

func TestRateService_GetRates(t *testing.T) {
	ctx := context.Background()

	t.Run("fresh table is served from cache", func(t *testing.T) {
		provider := usdProvider()
		service := services.NewRateService(provider, nil, testLogger(), "USD")

		first := service.GetRates(ctx)
		second := service.GetRates(ctx)

		assert.Equal(t, 1, provider.latestCalls)
		assert.Equal(t, first, second)
		assert.Equal(t, "USD", first.Base)
		assert.Equal(t, float64(1), first.Rates["USD"])
		assert.Equal(t, 0.9, first.Rates["EUR"])
	})

	t.Run("refresh bypasses freshness", func(t *testing.T) {
		provider := usdProvider()
		service := services.NewRateService(provider, nil, testLogger(), "USD")

		service.RefreshRates(ctx)
		service.RefreshRates(ctx)

		assert.Equal(t, 2, provider.latestCalls)
	})

	t.Run("empty base currency defaults to USD", func(t *testing.T) {
		provider := usdProvider()
		service := services.NewRateService(provider, nil, testLogger(), "")

		table := service.GetRates(ctx)
		assert.Equal(t, "USD", table.Base)
	})

	t.Run("provider outage falls back to the last good table", func(t *testing.T) {
		provider := usdProvider()
		service := services.NewRateService(provider, nil, testLogger(), "USD")

		good := service.RefreshRates(ctx)
		require.Equal(t, 0.9, good.Rates["EUR"])

		provider.err = errors.New("provider down")
		table := service.RefreshRates(ctx)

		assert.Equal(t, 0.9, table.Rates["EUR"])
	})

	t.Run("nothing available degrades to an identity table", func(t *testing.T) {
		provider := &stubRateProvider{err: errors.New("provider down")}
		service := services.NewRateService(provider, nil, testLogger(), "EUR")

		table := service.GetRates(ctx)

		require.NotNil(t, table)
		assert.Equal(t, "EUR", table.Base)
		assert.Equal(t, map[string]float64{"EUR": 1}, table.Rates)
	})
}

func TestRateService_GetHistoricalRate(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	t.Run("identity without a provider call", func(t *testing.T) {
		service := services.NewRateService(&stubRateProvider{err: errors.New("down")}, nil, testLogger(), "USD")

		rate, ok := service.GetHistoricalRate(ctx, date, "EUR", "EUR")
		assert.True(t, ok)
		assert.Equal(t, float64(1), rate)
	})

	t.Run("provider rate", func(t *testing.T) {
		provider := &stubRateProvider{
			historical: &rates.GetHistoricalRatesResponse{
				Base:  "EUR",
				Date:  "2025-02-01",
				Rates: map[string]float64{"USD": 1.1},
			},
		}
		service := services.NewRateService(provider, nil, testLogger(), "USD")

		rate, ok := service.GetHistoricalRate(ctx, date, "EUR", "USD")
		assert.True(t, ok)
		assert.Equal(t, 1.1, rate)
	})

	t.Run("outage is a normal absence", func(t *testing.T) {
		provider := &stubRateProvider{historicalErr: errors.New("no data")}
		service := services.NewRateService(provider, nil, testLogger(), "USD")

		_, ok := service.GetHistoricalRate(ctx, date, "EUR", "USD")
		assert.False(t, ok)
	})

	t.Run("missing symbol is a normal absence", func(t *testing.T) {
		provider := &stubRateProvider{
			historical: &rates.GetHistoricalRatesResponse{
				Base:  "EUR",
				Rates: map[string]float64{},
			},
		}
		service := services.NewRateService(provider, nil, testLogger(), "USD")

		_, ok := service.GetHistoricalRate(ctx, date, "EUR", "USD")
		assert.False(t, ok)
	})
}

func TestRateService_IsCrypto(t *testing.T) {
	service := services.NewRateService(usdProvider(), nil, testLogger(), "USD")

	assert.True(t, service.IsCrypto("BTC"))
	assert.True(t, service.IsCrypto("ETH"))
	assert.False(t, service.IsCrypto("EUR"))
	assert.False(t, service.IsCrypto("btc"))
}
