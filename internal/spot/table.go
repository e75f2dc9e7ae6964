package spot

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"chargecost/internal/ledger"
	"chargecost/pkg/models"
)

const defaultDayTimeout = 10 * time.Second

// Builder assembles a complete month of hourly prices from daily fragments.
type Builder struct {
	Source     DayFetcher
	DayTimeout time.Duration

	log *logrus.Entry
}

// NewBuilder wraps a day-fragment source. dayTimeout bounds each per-day
// fetch; zero selects a default.
func NewBuilder(source DayFetcher, dayTimeout time.Duration) *Builder {
	if dayTimeout <= 0 {
		dayTimeout = defaultDayTimeout
	}
	return &Builder{
		Source:     source,
		DayTimeout: dayTimeout,
		log:        logrus.WithField("component", "spot"),
	}
}

// Build fetches every day of the month and merges the fragments into one
// hour-keyed table. A failed day is logged and skipped; its hours stay
// absent and the aggregator prices them at zero. Callers must treat the
// returned table as possibly incomplete.
func (b *Builder) Build(ctx context.Context, year, month int, zone string) models.PriceTable {
	zone = NormalizeZone(zone)
	table := make(models.PriceTable)

	for day := 1; day <= daysInMonth(year, month); day++ {
		dayCtx, cancel := context.WithTimeout(ctx, b.DayTimeout)
		entries, err := b.Source.FetchDay(dayCtx, year, month, day, zone)
		cancel()

		if err != nil {
			b.log.WithError(err).Warnf("skipping prices for %04d-%02d-%02d %s", year, month, day, zone)
			continue
		}

		for _, entry := range entries {
			key, ok := ledger.JoinKey(entry.TimeStart)
			if !ok {
				continue
			}
			// last write wins; each hour appears once per fragment in practice
			table[key] = entry.PricePerKWh
		}
	}

	return table
}

func daysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if isLeapYear(year) {
			return 29
		}
		return 28
	}
	return 0
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
