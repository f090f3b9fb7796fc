package rates_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"tracker/src/clients/rates"
	"tracker/src/utils/requests"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(baseURL string) *rates.RateProviderClient {
	return &rates.RateProviderClient{
		API:     requests.NewExternalAPIService(),
		BaseURL: baseURL,
		APIKey:  "test-key",
	}
}

func TestRateProviderClient_GetLatestRates(t *testing.T) {
	t.Run("parses the provider response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/latest", r.URL.Path)
			assert.Equal(t, "USD", r.URL.Query().Get("base"))
			assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"base":"USD","timestamp":1700000000,"rates":{"EUR":0.9,"GBP":0.8}}`))
		}))
		defer server.Close()

		resp, err := newClient(server.URL).GetLatestRates(context.Background(), "USD")
		require.NoError(t, err)

		assert.Equal(t, "USD", resp.Base)
		assert.Equal(t, 0.9, resp.Rates["EUR"])
		assert.Equal(t, 0.8, resp.Rates["GBP"])
	})

	t.Run("empty table is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"base":"USD","rates":{}}`))
		}))
		defer server.Close()

		_, err := newClient(server.URL).GetLatestRates(context.Background(), "USD")
		assert.Error(t, err)
	})

	t.Run("missing api key fails before any request", func(t *testing.T) {
		client := newClient("http://localhost:0")
		client.APIKey = ""

		_, err := client.GetLatestRates(context.Background(), "USD")
		assert.Error(t, err)
	})

	t.Run("provider error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		_, err := newClient(server.URL).GetLatestRates(context.Background(), "USD")
		assert.Error(t, err)
	})
}

func TestRateProviderClient_GetHistoricalRates(t *testing.T) {
	t.Run("requests the dated endpoint", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/historical/2025-02-01", r.URL.Path)
			assert.Equal(t, "EUR", r.URL.Query().Get("base"))
			assert.Equal(t, []string{"USD", "GBP"}, r.URL.Query()["symbols"])

			_, _ = w.Write([]byte(`{"base":"EUR","date":"2025-02-01","rates":{"USD":1.1,"GBP":0.85}}`))
		}))
		defer server.Close()

		resp, err := newClient(server.URL).GetHistoricalRates(context.Background(), "2025-02-01", "EUR", []string{"USD", "GBP"})
		require.NoError(t, err)

		assert.Equal(t, "2025-02-01", resp.Date)
		assert.Equal(t, 1.1, resp.Rates["USD"])
	})

	t.Run("missing date in the body defaults to the requested one", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"base":"EUR","rates":{"USD":1.1}}`))
		}))
		defer server.Close()

		resp, err := newClient(server.URL).GetHistoricalRates(context.Background(), "2025-02-01", "EUR", nil)
		require.NoError(t, err)

		assert.Equal(t, "2025-02-01", resp.Date)
	})
}
