package database

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"flight_search/internal/models"
)

// FlightWriter is the subset of FlightRepository used by the dataset loader
type FlightWriter interface {
	InsertBatch(ctx context.Context, rows []*FlightRow) error
}

var datasetColumns = []string{
	"fid", "day_of_month", "carrier_id", "flight_num", "origin_city",
	"dest_city", "canceled", "actual_time", "capacity", "price",
}

// LoadFlightsFromCSV loads flight rows from csvPaths into w, batchSize rows per transaction.
// Every file must start with a header naming at least the dataset columns; records that
// cannot be parsed are skipped. Returns the number of rows handed to w.
func LoadFlightsFromCSV(ctx context.Context, w FlightWriter, csvPaths []string, batchSize int) (int, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batch size must be greater than 0")
	}

	loaded := 0
	batch := make([]*FlightRow, 0, batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := w.InsertBatch(ctx, batch); err != nil {
			return fmt.Errorf("failed to insert batch: %w", err)
		}
		loaded += len(batch)
		batch = batch[:0]
		return nil
	}

	for _, csvPath := range csvPaths {
		err := readFlightsCSV(csvPath, func(row *FlightRow) error {
			batch = append(batch, row)
			if len(batch) >= batchSize {
				return flush()
			}
			return nil
		})
		if err != nil {
			return loaded, err
		}
	}

	if err := flush(); err != nil {
		return loaded, fmt.Errorf("failed to insert final batch: %w", err)
	}

	return loaded, nil
}

func readFlightsCSV(csvPath string, emit func(*FlightRow) error) error {
	file, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("failed to open CSV file %s: %w", csvPath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read CSV header from %s: %w", csvPath, err)
	}

	headerMap := make(map[string]int, len(header))
	for i, h := range header {
		headerMap[strings.Trim(strings.TrimSpace(h), "'\"")] = i
	}
	for _, col := range datasetColumns {
		if _, ok := headerMap[col]; !ok {
			return fmt.Errorf("CSV file %s is missing column %q", csvPath, col)
		}
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read CSV record from %s: %w", csvPath, err)
		}

		row, err := parseFlightRecord(record, headerMap)
		if err != nil {
			slog.Warn("Skipping invalid flight record", "file", csvPath, "line", line, "error", err)
			continue
		}

		if err := emit(row); err != nil {
			return err
		}
	}
}

func parseFlightRecord(record []string, headerMap map[string]int) (*FlightRow, error) {
	p := fieldParser{record: record, headerMap: headerMap}

	row := &FlightRow{
		Flight: models.Flight{
			ID:           p.getInt("fid"),
			DayOfMonth:   p.getInt("day_of_month"),
			CarrierID:    p.getString("carrier_id"),
			FlightNumber: p.getString("flight_num"),
			OriginCity:   p.getString("origin_city"),
			DestCity:     p.getString("dest_city"),
			Duration:     p.getInt("actual_time"),
			Capacity:     p.getInt("capacity"),
			Price:        p.getInt("price"),
		},
		Canceled: p.getBool("canceled"),
	}
	if p.err != nil {
		return nil, p.err
	}

	return row, nil
}

// fieldParser reads typed fields by header name and keeps the first error
type fieldParser struct {
	record    []string
	headerMap map[string]int
	err       error
}

func (p *fieldParser) getString(name string) string {
	if idx, ok := p.headerMap[name]; ok && idx < len(p.record) {
		return strings.Trim(strings.TrimSpace(p.record[idx]), "'\"")
	}
	if p.err == nil {
		p.err = fmt.Errorf("missing field %s", name)
	}
	return ""
}

func (p *fieldParser) getInt(name string) int {
	raw := p.getString(name)
	if p.err != nil {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.err = fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	return v
}

func (p *fieldParser) getBool(name string) bool {
	raw := p.getString(name)
	if p.err != nil {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.err = fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	return v
}
