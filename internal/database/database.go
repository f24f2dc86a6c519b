package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DB is a FlightStore backed by a SQLite file
type DB struct {
	FlightRepository
	db *sql.DB
}

// New opens the SQLite database at dbPath and creates the flights schema if needed
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := optimizeSQLite(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to optimize database: %w", err)
	}

	database := &DB{
		FlightRepository: NewFlightRepository(db),
		db:               db,
	}

	if err := database.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return database, nil
}

// optimizeSQLite tunes SQLite for a read-mostly workload
func optimizeSQLite(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA busy_timeout=5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	return nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}

// initSchema creates the flights table and its search indexes
func (d *DB) initSchema() error {
	flightsSchema := `CREATE TABLE IF NOT EXISTS flights (
		fid INTEGER PRIMARY KEY,
		day_of_month INTEGER NOT NULL,
		carrier_id TEXT NOT NULL,
		flight_num TEXT NOT NULL,
		origin_city TEXT NOT NULL,
		dest_city TEXT NOT NULL,
		actual_time INTEGER NOT NULL,
		capacity INTEGER NOT NULL,
		price INTEGER NOT NULL,
		canceled INTEGER NOT NULL DEFAULT 0
	);`

	if _, err := d.db.Exec(flightsSchema); err != nil {
		return fmt.Errorf("failed to create flights table: %w", err)
	}

	for _, idx := range flightIndexes {
		if _, err := d.db.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

var flightIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_flights_origin_day ON flights(origin_city, day_of_month)`,
	`CREATE INDEX IF NOT EXISTS idx_flights_dest_day ON flights(dest_city, day_of_month)`,
}

var _ FlightStore = (*DB)(nil)
