package models

// ChargerUsage represents one reconciled hour as archived in the local
// database by the fetch command.
type ChargerUsage struct {
	ID          int     `json:"id"`
	ChargerID   string  `json:"charger_id"`
	Timestamp   string  `json:"timestamp"` // original provider timestamp string
	KWh         float64 `json:"kwh"`
	PricePerKWh float64 `json:"price_per_kwh"`
	Cost        float64 `json:"cost"`
	Zone        string  `json:"zone"`
	Published   bool    `json:"published"`
}
