package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chargecost/pkg/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInsertAndList(t *testing.T) {
	db := openTestDB(t)

	rows := []models.ChargerUsage{
		{ChargerID: "CH1", Timestamp: "2024-01-01T00:00:00Z", KWh: 5.0, PricePerKWh: 0.5, Cost: 2.5, Zone: "NO1"},
		{ChargerID: "CH1", Timestamp: "2024-01-01T01:00:00Z", KWh: 3.0, PricePerKWh: 0.5, Cost: 1.5, Zone: "NO1"},
		{ChargerID: "CH2", Timestamp: "2024-01-01T00:00:00Z", KWh: 1.0, Zone: "NO2"},
	}
	for i := range rows {
		require.NoError(t, db.InsertUsage(&rows[i]))
	}

	got, err := db.ListUsage("CH1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-01-01T00:00:00Z", got[0].Timestamp)
	assert.Equal(t, 5.0, got[0].KWh)
	assert.Equal(t, 2.5, got[0].Cost)
	assert.False(t, got[0].Published)
}

func TestInsertIgnoresDuplicates(t *testing.T) {
	db := openTestDB(t)

	row := models.ChargerUsage{ChargerID: "CH1", Timestamp: "2024-01-01T00:00:00Z", KWh: 5.0}
	require.NoError(t, db.InsertUsage(&row))
	require.NoError(t, db.InsertUsage(&row))

	got, err := db.ListUsage("CH1")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestMarkPublished(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.InsertUsage(&models.ChargerUsage{ChargerID: "CH1", Timestamp: "2024-01-01T00:00:00Z", KWh: 5.0}))
	require.NoError(t, db.InsertUsage(&models.ChargerUsage{ChargerID: "CH1", Timestamp: "2024-01-01T01:00:00Z", KWh: 3.0}))

	unpublished, err := db.ListUnpublishedUsage("CH1")
	require.NoError(t, err)
	require.Len(t, unpublished, 2)

	require.NoError(t, db.MarkPublished(unpublished[0].ID))

	unpublished, err = db.ListUnpublishedUsage("CH1")
	require.NoError(t, err)
	require.Len(t, unpublished, 1)
	assert.Equal(t, "2024-01-01T01:00:00Z", unpublished[0].Timestamp)
}

func TestListChargers(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.InsertUsage(&models.ChargerUsage{ChargerID: "CH2", Timestamp: "t", KWh: 1}))
	require.NoError(t, db.InsertUsage(&models.ChargerUsage{ChargerID: "CH1", Timestamp: "t", KWh: 1}))

	ids, err := db.ListChargers()
	require.NoError(t, err)
	assert.Equal(t, []string{"CH1", "CH2"}, ids)
}
