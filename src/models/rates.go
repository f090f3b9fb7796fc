package models

import "time"

// RateTable maps currency codes to their rate relative to Base.
// rate[Base] is always 1.
type RateTable struct {
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
	FetchedAt time.Time          `json:"fetchedAt"`
}

// Rate returns the base-relative rate for a currency code. Unknown codes
// resolve to 1 so conversion degrades to identity instead of failing.
func (rt *RateTable) Rate(code string) float64 {
	if rate, ok := rt.Rates[code]; ok && rate != 0 {
		return rate
	}
	return 1
}
