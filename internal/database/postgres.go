package database

import (
	"context"
	"errors"
	"fmt"

	"flight_search/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresDB is a FlightStore backed by a PostgreSQL connection pool
type PostgresDB struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to PostgreSQL using dsn and creates the flights schema if needed
func NewPostgres(ctx context.Context, dsn string) (*PostgresDB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	database := NewPostgresFromPool(pool)
	if err := database.initSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return database, nil
}

// NewPostgresFromPool wraps an existing pool without touching the schema
func NewPostgresFromPool(pool *pgxpool.Pool) *PostgresDB {
	return &PostgresDB{pool: pool}
}

func (d *PostgresDB) initSchema(ctx context.Context) error {
	if _, err := d.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS flights (
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
	)`); err != nil {
		return fmt.Errorf("failed to create flights table: %w", err)
	}

	for _, idx := range flightIndexes {
		if _, err := d.pool.Exec(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func (d *PostgresDB) SearchDirect(ctx context.Context, originCity, destCity string, dayOfMonth, limit int) ([]models.Flight, error) {
	rows, err := d.pool.Query(ctx, `SELECT `+flightColumns+`
		FROM flights
		WHERE origin_city = $1 AND dest_city = $2 AND day_of_month = $3 AND canceled = 0
		ORDER BY actual_time ASC, fid ASC
		LIMIT $4`,
		originCity, destCity, dayOfMonth, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query direct flights: %w", err)
	}
	defer rows.Close()

	flights := make([]models.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan direct flight: %w", err)
		}
		flights = append(flights, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read direct flights: %w", err)
	}

	return flights, nil
}

func (d *PostgresDB) SearchOneHop(ctx context.Context, originCity, destCity string, dayOfMonth, limit int) ([]models.Itinerary, error) {
	rows, err := d.pool.Query(ctx, `SELECT `+oneHopColumns+`
		FROM flights AS f1
		JOIN flights AS f2 ON f1.dest_city = f2.origin_city
		WHERE f1.origin_city = $1 AND f2.dest_city = $2
			AND f1.day_of_month = $3 AND f2.day_of_month = $3
			AND f1.canceled = 0 AND f2.canceled = 0
		ORDER BY f1.actual_time + f2.actual_time ASC, f1.fid ASC, f2.fid ASC
		LIMIT $4`,
		originCity, destCity, dayOfMonth, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query one-hop flights: %w", err)
	}
	defer rows.Close()

	itineraries := make([]models.Itinerary, 0)
	for rows.Next() {
		it, err := scanOneHop(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan one-hop flights: %w", err)
		}
		itineraries = append(itineraries, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read one-hop flights: %w", err)
	}

	return itineraries, nil
}

// InsertBatch sends all rows in one pgx batch, which runs as a single implicit transaction
func (d *PostgresDB) InsertBatch(ctx context.Context, rows []*FlightRow) error {
	if len(rows) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(`INSERT INTO flights (`+flightColumns+`, canceled)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (fid) DO NOTHING`, insertArgs(row)...)
	}

	br := d.pool.SendBatch(ctx, batch)
	for _, row := range rows {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("failed to insert flight %d: %w", row.ID, err)
		}
	}

	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close batch: %w", err)
	}

	return nil
}

func (d *PostgresDB) IsTablePopulated(ctx context.Context) (bool, error) {
	var ignored int
	err := d.pool.QueryRow(ctx, "SELECT 1 FROM flights LIMIT 1").Scan(&ignored)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check flights table: %w", err)
	}
	return true, nil
}

func (d *PostgresDB) Close() error {
	d.pool.Close()
	return nil
}

var _ FlightStore = (*PostgresDB)(nil)
