package database

import (
	"context"
	"database/sql"
	"fmt"

	"flight_search/internal/models"
)

const flightColumns = `fid, day_of_month, carrier_id, flight_num, origin_city, dest_city, actual_time, capacity, price`

const oneHopColumns = `f1.fid, f1.day_of_month, f1.carrier_id, f1.flight_num, f1.origin_city, f1.dest_city, f1.actual_time, f1.capacity, f1.price,
		f2.fid, f2.day_of_month, f2.carrier_id, f2.flight_num, f2.origin_city, f2.dest_city, f2.actual_time, f2.capacity, f2.price`

// FlightRow is a dataset row as stored in the flights table
type FlightRow struct {
	models.Flight
	Canceled bool
}

// FlightRepository defines the flight search and load operations shared by every store
type FlightRepository interface {
	SearchDirect(ctx context.Context, originCity, destCity string, dayOfMonth, limit int) ([]models.Flight, error)
	SearchOneHop(ctx context.Context, originCity, destCity string, dayOfMonth, limit int) ([]models.Itinerary, error)
	InsertBatch(ctx context.Context, rows []*FlightRow) error
	IsTablePopulated(ctx context.Context) (bool, error)
}

// FlightStore is a FlightRepository that owns its connection
type FlightStore interface {
	FlightRepository
	Close() error
}

type flightRepository struct {
	db *sql.DB
}

func NewFlightRepository(db *sql.DB) FlightRepository {
	return &flightRepository{db: db}
}

// SearchDirect returns up to limit non-canceled flights from originCity to destCity
// on dayOfMonth, shortest first
func (r *flightRepository) SearchDirect(ctx context.Context, originCity, destCity string, dayOfMonth, limit int) ([]models.Flight, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+flightColumns+`
		FROM flights
		WHERE origin_city = ? AND dest_city = ? AND day_of_month = ? AND canceled = 0
		ORDER BY actual_time ASC, fid ASC
		LIMIT ?`,
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

// SearchOneHop returns up to limit two-leg itineraries connecting originCity to
// destCity where both legs fly on dayOfMonth
func (r *flightRepository) SearchOneHop(ctx context.Context, originCity, destCity string, dayOfMonth, limit int) ([]models.Itinerary, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+oneHopColumns+`
		FROM flights AS f1
		JOIN flights AS f2 ON f1.dest_city = f2.origin_city
		WHERE f1.origin_city = ? AND f2.dest_city = ?
			AND f1.day_of_month = ? AND f2.day_of_month = ?
			AND f1.canceled = 0 AND f2.canceled = 0
		ORDER BY f1.actual_time + f2.actual_time ASC, f1.fid ASC, f2.fid ASC
		LIMIT ?`,
		originCity, destCity, dayOfMonth, dayOfMonth, limit,
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

// InsertBatch inserts dataset rows in a single transaction, ignoring fids already present
func (r *flightRepository) InsertBatch(ctx context.Context, rows []*FlightRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO flights (
		`+flightColumns+`, canceled
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, insertArgs(row)...); err != nil {
			return fmt.Errorf("failed to insert flight %d: %w", row.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *flightRepository) IsTablePopulated(ctx context.Context) (bool, error) {
	var ignored int
	err := r.db.QueryRowContext(ctx, "SELECT 1 FROM flights LIMIT 1").Scan(&ignored)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check flights table: %w", err)
	}
	return true, nil
}

// rowScanner is satisfied by both *sql.Rows and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanFlight(s rowScanner) (models.Flight, error) {
	var f models.Flight
	err := s.Scan(&f.ID, &f.DayOfMonth, &f.CarrierID, &f.FlightNumber, &f.OriginCity, &f.DestCity, &f.Duration, &f.Capacity, &f.Price)
	return f, err
}

func scanOneHop(s rowScanner) (models.Itinerary, error) {
	var f1, f2 models.Flight
	err := s.Scan(
		&f1.ID, &f1.DayOfMonth, &f1.CarrierID, &f1.FlightNumber, &f1.OriginCity, &f1.DestCity, &f1.Duration, &f1.Capacity, &f1.Price,
		&f2.ID, &f2.DayOfMonth, &f2.CarrierID, &f2.FlightNumber, &f2.OriginCity, &f2.DestCity, &f2.Duration, &f2.Capacity, &f2.Price,
	)
	if err != nil {
		return models.Itinerary{}, err
	}
	return models.NewOneHopItinerary(f1, f2), nil
}

func insertArgs(row *FlightRow) []any {
	canceled := 0
	if row.Canceled {
		canceled = 1
	}
	return []any{
		row.ID, row.DayOfMonth, row.CarrierID, row.FlightNumber, row.OriginCity,
		row.DestCity, row.Duration, row.Capacity, row.Price, canceled,
	}
}
