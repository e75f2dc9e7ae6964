package ledger

import (
	"strconv"

	"chargecost/pkg/models"
)

// Candidate keys tried in priority order. The provider's response schema
// varies across API versions, so extraction is declarative rather than
// branching per shape.
var (
	wrapperKeys     = []string{"data", "consumption", "hourly"}
	valueFields     = []string{"consumption", "energy", "kwh", "wh"}
	timestampFields = []string{"timestamp", "date", "time", "dateTime"}
)

// NormalizeConsumption flattens whatever shape the provider returned into an
// ordered sequence of kWh records. raw is the decoded JSON payload: either a
// list of entries or a mapping wrapping one. Entries that are not mappings
// are skipped. Values above 100 are taken to be Wh and converted to kWh.
//
// Zero and negative readings are dropped before unit inference, so a
// legitimate zero-consumption hour never reaches the report. Kept as-is
// pending product confirmation; see DESIGN.md.
func NormalizeConsumption(raw any) []models.ConsumptionRecord {
	entries := unwrapEntries(raw)
	records := make([]models.ConsumptionRecord, 0, len(entries))

	for _, e := range entries {
		entry, ok := e.(map[string]any)
		if !ok {
			continue
		}

		value := numericField(entry, valueFields)
		if value <= 0 {
			continue
		}

		kwh := value
		if value > 100 { // anything above 100 is assumed to be Wh
			kwh = value / 1000.0
		}

		records = append(records, models.ConsumptionRecord{
			Timestamp: stringField(entry, timestampFields),
			KWh:       kwh,
		})
	}

	return records
}

// unwrapEntries locates the entry list inside raw. A mapping is searched for
// a nested list under the wrapper keys; when none yields one the whole
// mapping is treated as a single-entry response.
func unwrapEntries(raw any) []any {
	switch v := raw.(type) {
	case []any:
		return v
	case map[string]any:
		for _, key := range wrapperKeys {
			if list, ok := v[key].([]any); ok {
				return list
			}
		}
		return []any{v}
	default:
		return nil
	}
}

// numericField returns the value of the first present candidate field,
// coerced to float64. A present but non-numeric value becomes 0.
func numericField(entry map[string]any, fields []string) float64 {
	for _, f := range fields {
		v, ok := entry[f]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		case string:
			if parsed, err := strconv.ParseFloat(n, 64); err == nil {
				return parsed
			}
			return 0
		default:
			return 0
		}
	}
	return 0
}

// stringField returns the first present candidate field holding a string.
func stringField(entry map[string]any, fields []string) string {
	for _, f := range fields {
		if s, ok := entry[f].(string); ok {
			return s
		}
	}
	return ""
}
