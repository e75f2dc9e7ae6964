package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chargecost/pkg/models"
)

func TestAggregateJoinsByHour(t *testing.T) {
	records := []models.ConsumptionRecord{
		{Timestamp: "2024-01-01T00:00:00Z", KWh: 5.0},
		{Timestamp: "2024-01-01T01:00:00Z", KWh: 3.0},
	}
	prices := models.PriceTable{
		"2024-01-01T00:00:00": 0.50,
		"2024-01-01T01:00:00": 1.25,
	}

	report := Aggregate(records, prices, "NO1")

	assert.Equal(t, 8.0, report.TotalKWh)
	assert.Equal(t, 6.25, report.TotalCost) // 5*0.50 + 3*1.25
	assert.Equal(t, "NO1", report.PriceZone)
	require.Len(t, report.HourlyData, 2)
	assert.Equal(t, 2.5, report.HourlyData[0].Cost)
	assert.Equal(t, 0.5, report.HourlyData[0].PricePerKWh)
}

func TestAggregateMissingHoursPricedAtZero(t *testing.T) {
	records := []models.ConsumptionRecord{
		{Timestamp: "2024-01-01T00:00:00Z", KWh: 5.0},
		{Timestamp: "2024-01-03T00:00:00Z", KWh: 3.0}, // day absent from table
	}
	prices := models.PriceTable{"2024-01-01T00:00:00": 1.0}

	report := Aggregate(records, prices, "NO1")

	assert.Equal(t, 8.0, report.TotalKWh)
	assert.Equal(t, 5.0, report.TotalCost)
	assert.Equal(t, 0.0, report.HourlyData[1].PricePerKWh)
	assert.Equal(t, 0.0, report.HourlyData[1].Cost)
}

func TestAggregateUnparseableTimestampStillCounts(t *testing.T) {
	records := []models.ConsumptionRecord{
		{Timestamp: "garbage", KWh: 2.0},
	}
	prices := models.PriceTable{"2024-01-01T00:00:00": 9.99}

	report := Aggregate(records, prices, "NO2")

	assert.Equal(t, 2.0, report.TotalKWh)
	assert.Equal(t, 0.0, report.TotalCost)
	require.Len(t, report.HourlyData, 1)
	assert.Equal(t, "garbage", report.HourlyData[0].Timestamp)
	assert.Equal(t, 0.0, report.HourlyData[0].PricePerKWh)
	assert.Equal(t, 0.0, report.HourlyData[0].Cost)
}

func TestAggregateKeepsOriginalTimestamps(t *testing.T) {
	records := []models.ConsumptionRecord{
		{Timestamp: "2024-01-01T00:30:00+01:00", KWh: 1.0},
	}

	report := Aggregate(records, models.PriceTable{}, "NO1")

	// The display timestamp is the original string, never the bucket key.
	assert.Equal(t, "2024-01-01T00:30:00+01:00", report.HourlyData[0].Timestamp)
}

func TestAggregateSumMatchesTotal(t *testing.T) {
	records := []models.ConsumptionRecord{
		{Timestamp: "2024-01-01T00:00:00Z", KWh: 1.234},
		{Timestamp: "2024-01-01T01:00:00Z", KWh: 5.678},
		{Timestamp: "2024-01-01T02:00:00Z", KWh: 0.001},
	}

	report := Aggregate(records, models.PriceTable{}, "NO1")

	var sum float64
	for _, h := range report.HourlyData {
		sum += h.KWh
	}
	assert.InDelta(t, report.TotalKWh, sum, 0.01)
}

func TestAggregateRounding(t *testing.T) {
	records := []models.ConsumptionRecord{
		{Timestamp: "2024-01-01T00:00:00Z", KWh: 1.234},
		{Timestamp: "2024-01-01T01:00:00Z", KWh: 5.678},
	}

	report := Aggregate(records, models.PriceTable{}, "NO1")

	// 1.234 + 5.678 = 6.912, rounded to 2 decimals
	assert.Equal(t, 6.91, report.TotalKWh)
}

func TestAggregateFlatLegacyRate(t *testing.T) {
	records := []models.ConsumptionRecord{
		{Timestamp: "2024-01-01T00:00:00Z", KWh: 5.0},
		{Timestamp: "2024-01-01T01:00:00Z", KWh: 3.0},
	}

	totalKWh, totalPrice := AggregateFlat(records)
	assert.Equal(t, 8.0, totalKWh)
	assert.Equal(t, 8.0, totalPrice) // fixed 1 NOK per kWh

	totalKWh, totalPrice = AggregateFlat(nil)
	assert.Equal(t, 0.0, totalKWh)
	assert.Equal(t, 0.0, totalPrice)
}

func TestRoundingHelpers(t *testing.T) {
	assert.Equal(t, 6.91, Round2(6.912))
	assert.Equal(t, 0.13, Round2(0.125)) // half rounds away from zero
	assert.Equal(t, 1.2346, Round4(1.23456))
	assert.Equal(t, -0.13, Round2(-0.125))
}
