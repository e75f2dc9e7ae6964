package models

// ConsumptionRecord is one normalized hourly consumption entry in kWh.
// Timestamp keeps the provider's original string untouched; it is only
// converted to a bucket key at price-join time.
type ConsumptionRecord struct {
	Timestamp string  `json:"timestamp"`
	KWh       float64 `json:"consumption"`
}

// PriceEntry is a single hour from one day's fragment of the spot price feed.
type PriceEntry struct {
	TimeStart   string  `json:"time_start"`
	PricePerKWh float64 `json:"NOK_per_kWh"`
}

// PriceTable maps canonical hour keys (YYYY-MM-DDTHH:00:00) to the spot
// price for that hour. It may have gaps when day fragments failed to fetch.
type PriceTable map[string]float64

// HourlyEntry is one priced hour of a monthly report.
type HourlyEntry struct {
	Timestamp   string  `json:"timestamp"`
	KWh         float64 `json:"consumption"`
	PricePerKWh float64 `json:"price_per_kwh"`
	Cost        float64 `json:"cost"`
}

// MonthlyReport is the reconciled month for one charger and price zone.
type MonthlyReport struct {
	TotalKWh   float64       `json:"total_kwh"`
	TotalCost  float64       `json:"total_cost"`
	PriceZone  string        `json:"price_zone"`
	HourlyData []HourlyEntry `json:"hourly_data"`
}
