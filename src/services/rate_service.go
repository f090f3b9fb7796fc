package services

import (
	"context"
	"time"

	"tracker/src/clients/rates"
	"tracker/src/models"
	"tracker/src/utils"
	redis_utils "tracker/src/utils/redis"

	"github.com/sirupsen/logrus"
)

// RateTableTTL is how long a fetched rate table is considered fresh.
const RateTableTTL = 24 * time.Hour

const lastGoodRatesKey = "rates:last_good"

// cryptoCurrencies drives the fiat/crypto portfolio split. Static set
// membership, not live data.
var cryptoCurrencies = map[string]bool{
	"BTC": true, "ETH": true, "USDT": true, "BNB": true, "SOL": true,
	"XRP": true, "USDC": true, "ADA": true, "DOGE": true, "TON": true,
	"TRX": true, "DOT": true, "MATIC": true, "LTC": true, "AVAX": true,
	"SHIB": true, "LINK": true, "XLM": true, "XMR": true, "ATOM": true,
}

type RateServiceI interface {
	GetRates(ctx context.Context) *models.RateTable
	RefreshRates(ctx context.Context) *models.RateTable
	GetHistoricalRate(ctx context.Context, date time.Time, from, to string) (float64, bool)
	IsCrypto(code string) bool
}

// RateService caches the provider's base-relative rate table. Conversion is
// best-effort: a provider failure falls back to the last good table (memory,
// then Redis), and as a last resort to a degenerate table that maps only the
// base currency to 1. GetRates never fails.
//
// Two concurrent refreshes may both hit the provider; last write wins. Rate
// data is advisory, so that race is tolerated.
type RateService struct {
	client rates.RateProviderClientI
	cache  *utils.Cache[*models.RateTable]
	redis  *redis_utils.RedisHandler
	log    *logrus.Logger
	base   string
}

func NewRateService(client rates.RateProviderClientI, redis *redis_utils.RedisHandler, log *logrus.Logger, baseCurrency string) *RateService {
	if baseCurrency == "" {
		baseCurrency = utils.USDCurrencyCode
	}
	return &RateService{
		client: client,
		cache:  utils.NewCache[*models.RateTable](),
		redis:  redis,
		log:    log,
		base:   baseCurrency,
	}
}

// GetRates returns the cached table while fresh and refreshes it otherwise.
func (s *RateService) GetRates(ctx context.Context) *models.RateTable {
	if table, ok := s.cache.Get(); ok {
		return table
	}
	return s.RefreshRates(ctx)
}

// RefreshRates fetches a new table from the provider, bypassing freshness.
func (s *RateService) RefreshRates(ctx context.Context) *models.RateTable {
	resp, err := s.client.GetLatestRates(ctx, s.base)
	if err == nil {
		table := &models.RateTable{
			Base:      resp.Base,
			Rates:     resp.Rates,
			FetchedAt: time.Now(),
		}
		table.Rates[table.Base] = 1
		s.cache.Set(table, RateTableTTL)
		s.persistLastGood(ctx, table)
		return table
	}

	s.log.WithError(err).Warn("rate refresh failed, falling back to last good table")

	if table, ok := s.cache.Stale(); ok {
		return table
	}

	if table := s.loadLastGood(ctx); table != nil {
		if time.Since(table.FetchedAt) < RateTableTTL {
			s.cache.Set(table, RateTableTTL-time.Since(table.FetchedAt))
		}
		return table
	}

	// Nothing available: conversion degrades to identity on the base.
	return &models.RateTable{
		Base:      s.base,
		Rates:     map[string]float64{s.base: 1},
		FetchedAt: time.Now(),
	}
}

// GetHistoricalRate returns the from→to rate on a given date. Absence is a
// normal outcome for dates the provider does not cover.
func (s *RateService) GetHistoricalRate(ctx context.Context, date time.Time, from, to string) (float64, bool) {
	if from == to {
		return 1, true
	}

	resp, err := s.client.GetHistoricalRates(ctx, date.Format(utils.ShortDashDateLayout), from, []string{to})
	if err != nil {
		s.log.WithError(err).Debugf("no historical rate for %s->%s on %s", from, to, date.Format(utils.ShortDashDateLayout))
		return 0, false
	}

	rate, ok := resp.Rates[to]
	if !ok || rate == 0 {
		return 0, false
	}
	return rate, true
}

func (s *RateService) IsCrypto(code string) bool {
	return cryptoCurrencies[code]
}

func (s *RateService) persistLastGood(ctx context.Context, table *models.RateTable) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Set(ctx, lastGoodRatesKey, table, 0); err != nil {
		s.log.WithError(err).Debug("could not persist rate table to redis")
	}
}

func (s *RateService) loadLastGood(ctx context.Context) *models.RateTable {
	if s.redis == nil {
		return nil
	}
	var table models.RateTable
	if err := s.redis.Get(ctx, lastGoodRatesKey, &table); err != nil {
		return nil
	}
	return &table
}
