package ledger

import (
	"math"

	"chargecost/pkg/models"
)

// Round2 rounds to 2 decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round4 rounds to 4 decimal places, half away from zero.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// Aggregate joins normalized consumption records against the hourly price
// table and folds them into a monthly report. Records whose timestamp has no
// matching price (missing day fragment, unparseable timestamp) are priced at
// zero but still contribute their kWh to the total. Output entries carry the
// original timestamp string, not the bucket key.
func Aggregate(records []models.ConsumptionRecord, prices models.PriceTable, zone string) *models.MonthlyReport {
	report := &models.MonthlyReport{
		PriceZone:  zone,
		HourlyData: make([]models.HourlyEntry, 0, len(records)),
	}

	var totalKWh, totalCost float64
	for _, rec := range records {
		var price float64
		if key, ok := JoinKey(rec.Timestamp); ok {
			price = prices[key]
		}
		cost := rec.KWh * price

		totalKWh += rec.KWh
		totalCost += cost

		report.HourlyData = append(report.HourlyData, models.HourlyEntry{
			Timestamp:   rec.Timestamp,
			KWh:         rec.KWh,
			PricePerKWh: Round4(price),
			Cost:        Round2(cost),
		})
	}

	report.TotalKWh = Round2(totalKWh)
	report.TotalCost = Round2(totalCost)
	return report
}

// AggregateFlat is the original fixed-rate costing (1 NOK per kWh), kept for
// deployments without a configured price feed.
func AggregateFlat(records []models.ConsumptionRecord) (totalKWh, totalPrice float64) {
	var kwh float64
	for _, rec := range records {
		kwh += rec.KWh
	}
	return Round2(kwh), Round2(kwh * 1.0)
}
