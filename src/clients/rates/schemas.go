package rates

// GetLatestRatesResponse is the provider payload for the current
// base-relative rate table.
type GetLatestRatesResponse struct {
	Base      string             `json:"base"`
	Timestamp int64              `json:"timestamp"`
	Rates     map[string]float64 `json:"rates"`
}

// GetHistoricalRatesResponse is the provider payload for a dated rate table.
type GetHistoricalRatesResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}
