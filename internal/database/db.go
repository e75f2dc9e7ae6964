package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"chargecost/pkg/models"
)

// DB wraps the database connection
type DB struct {
	conn *sql.DB
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the necessary tables
func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS charger_usage (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		charger_id TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		kwh REAL NOT NULL,
		price_per_kwh REAL NOT NULL DEFAULT 0,
		cost REAL NOT NULL DEFAULT 0,
		zone TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		published INTEGER DEFAULT 0,
		UNIQUE(charger_id, timestamp)
	);
	CREATE INDEX IF NOT EXISTS idx_usage_charger ON charger_usage(charger_id);
	CREATE INDEX IF NOT EXISTS idx_usage_timestamp ON charger_usage(timestamp);
	CREATE INDEX IF NOT EXISTS idx_usage_published ON charger_usage(published);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// InsertUsage inserts a reconciled hour, ignoring duplicates
func (db *DB) InsertUsage(data *models.ChargerUsage) error {
	query := `
	INSERT OR IGNORE INTO charger_usage (charger_id, timestamp, kwh, price_per_kwh, cost, zone, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	createdAt := time.Now().UTC().Format(time.RFC3339)

	_, err := db.conn.Exec(query, data.ChargerID, data.Timestamp, data.KWh, data.PricePerKWh, data.Cost, data.Zone, createdAt)
	if err != nil {
		return fmt.Errorf("inserting usage data: %w", err)
	}

	return nil
}

// ListUsage retrieves all stored hours for a charger, oldest first
func (db *DB) ListUsage(chargerID string) ([]models.ChargerUsage, error) {
	return db.queryUsage(`
	SELECT id, charger_id, timestamp, kwh, price_per_kwh, cost, zone, published
	FROM charger_usage
	WHERE charger_id = ?
	ORDER BY timestamp ASC
	`, chargerID)
}

// ListUnpublishedUsage retrieves stored hours not yet pushed downstream
func (db *DB) ListUnpublishedUsage(chargerID string) ([]models.ChargerUsage, error) {
	return db.queryUsage(`
	SELECT id, charger_id, timestamp, kwh, price_per_kwh, cost, zone, published
	FROM charger_usage
	WHERE charger_id = ? AND published = 0
	ORDER BY timestamp ASC
	`, chargerID)
}

// ListChargers returns the distinct charger IDs present in the archive
func (db *DB) ListChargers() ([]string, error) {
	rows, err := db.conn.Query(`SELECT DISTINCT charger_id FROM charger_usage ORDER BY charger_id`)
	if err != nil {
		return nil, fmt.Errorf("querying chargers: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning charger id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// MarkPublished flags a record as pushed downstream
func (db *DB) MarkPublished(id int) error {
	_, err := db.conn.Exec(`UPDATE charger_usage SET published = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("marking record published: %w", err)
	}
	return nil
}

func (db *DB) queryUsage(query string, args ...any) ([]models.ChargerUsage, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying usage data: %w", err)
	}
	defer rows.Close()

	var results []models.ChargerUsage
	for rows.Next() {
		var data models.ChargerUsage
		var published int

		if err := rows.Scan(&data.ID, &data.ChargerID, &data.Timestamp, &data.KWh, &data.PricePerKWh, &data.Cost, &data.Zone, &published); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		data.Published = published != 0

		results = append(results, data)
	}

	return results, rows.Err()
}
