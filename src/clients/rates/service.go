package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"

	"tracker/src/config"
	"tracker/src/utils/requests"
)

type RateProviderClientI interface {
	GetLatestRates(ctx context.Context, base string) (*GetLatestRatesResponse, error)
	GetHistoricalRates(ctx context.Context, date string, base string, symbols []string) (*GetHistoricalRatesResponse, error)
}

type RateProviderClient struct {
	API     *requests.ExternalAPIService
	BaseURL string
	APIKey  string
}

// NewClient creates a new instance of RateProviderClient
func NewClient(cfg *config.Config) *RateProviderClient {
	api := requests.NewExternalAPIService()
	return &RateProviderClient{
		API:     api,
		BaseURL: cfg.ExternalClients.Rates.BaseURL,
		APIKey:  cfg.ExternalClients.Rates.APIKey,
	}
}

// GetLatestRates fetches the current base-relative rate table from the provider
func (c *RateProviderClient) GetLatestRates(ctx context.Context, base string) (*GetLatestRatesResponse, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("rates provider api key is not configured")
	}

	endpoint := fmt.Sprintf("%s/v1/latest", c.BaseURL)

	params := url.Values{}
	params.Add("base", base)
	params.Add("apiKey", c.APIKey)

	resp, err := c.API.Get(ctx, endpoint, "", params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var latestResponse GetLatestRatesResponse
	err = json.Unmarshal(responseBody, &latestResponse)
	if err != nil {
		return nil, err
	}

	if len(latestResponse.Rates) == 0 {
		return nil, fmt.Errorf("rates provider returned an empty table")
	}

	return &latestResponse, nil
}

// GetHistoricalRates fetches the rate table for a specific date (YYYY-MM-DD).
// Providers do not cover every date; a missing date surfaces as an error the
// caller treats as a normal absence.
func (c *RateProviderClient) GetHistoricalRates(ctx context.Context, date string, base string, symbols []string) (*GetHistoricalRatesResponse, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("rates provider api key is not configured")
	}

	endpoint := fmt.Sprintf("%s/v1/historical/%s", c.BaseURL, date)

	params := url.Values{}
	params.Add("base", base)
	params.Add("apiKey", c.APIKey)
	if len(symbols) > 0 {
		for _, s := range symbols {
			params.Add("symbols", s)
		}
	}

	resp, err := c.API.Get(ctx, endpoint, "", params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var historicalResponse GetHistoricalRatesResponse
	err = json.Unmarshal(responseBody, &historicalResponse)
	if err != nil {
		return nil, err
	}

	if historicalResponse.Date == "" {
		historicalResponse.Date = date
	}

	return &historicalResponse, nil
}
