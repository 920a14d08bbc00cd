package api

// EconomicRecord is one row from GET /economic_calendar.
type EconomicRecord struct {
	Event     string   `json:"event"`
	Date      string   `json:"date"` // "2025-11-20 13:30:00", provider clock is UTC
	Country   string   `json:"country"`
	Impact    string   `json:"impact"` // "Low", "Medium", "High"
	Estimate  *float64 `json:"estimate"`
	Previous  *float64 `json:"previous"`
	UpdatedAt string   `json:"updatedAt"` // ISO 8601, may be empty on older records
}

// EarningsRecord is one row from GET /earning_calendar.
type EarningsRecord struct {
	Symbol          string   `json:"symbol"`
	Date            string   `json:"date"` // "2025-11-20"
	Time            string   `json:"time"` // "bmo", "amc", or a placeholder
	EPSEstimated    *float64 `json:"epsEstimated"`
	RevenueEstimate *float64 `json:"revenueEstimated"`
	UpdatedFromDate string   `json:"updatedFromDate"` // "2025-11-18", may be empty
}

// Quote is one row from GET /quote/{symbols}.
type Quote struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	MarketCap float64 `json:"marketCap"`
}
