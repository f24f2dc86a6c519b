package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockWriter records every batch handed to it
type mockWriter struct {
	batches [][]*FlightRow
	err     error
}

func (m *mockWriter) InsertBatch(ctx context.Context, rows []*FlightRow) error {
	if m.err != nil {
		return m.err
	}
	batch := make([]*FlightRow, len(rows))
	copy(batch, rows)
	m.batches = append(m.batches, batch)
	return nil
}

func writeCSV(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const csvHeader = "fid,day_of_month,carrier_id,flight_num,origin_city,dest_city,canceled,actual_time,capacity,price\n"

func TestLoadFlightsFromCSV(t *testing.T) {
	path := writeCSV(t, "flights.csv", csvHeader+
		"1,10,AS,24,Seattle WA,Boston MA,0,299,7,986\n"+
		"2,10,AS,25,\"Seattle WA\",Boston MA,1,300,8,900\n"+
		"3,11,UA,7,Boston MA,Seattle WA,0,330,10,500\n")

	w := &mockWriter{}
	loaded, err := LoadFlightsFromCSV(context.Background(), w, []string{path}, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded)

	require.Len(t, w.batches, 2)
	assert.Len(t, w.batches[0], 2)
	assert.Len(t, w.batches[1], 1)

	first := w.batches[0][0]
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 10, first.DayOfMonth)
	assert.Equal(t, "AS", first.CarrierID)
	assert.Equal(t, "24", first.FlightNumber)
	assert.Equal(t, "Seattle WA", first.OriginCity)
	assert.Equal(t, "Boston MA", first.DestCity)
	assert.Equal(t, 299, first.Duration)
	assert.Equal(t, 7, first.Capacity)
	assert.Equal(t, 986, first.Price)
	assert.False(t, first.Canceled)

	assert.True(t, w.batches[0][1].Canceled)
	assert.Equal(t, "Seattle WA", w.batches[0][1].OriginCity)
}

func TestLoadFlightsFromCSV_HeaderOrderIndependent(t *testing.T) {
	path := writeCSV(t, "flights.csv",
		"price,capacity,actual_time,canceled,dest_city,origin_city,flight_num,carrier_id,day_of_month,fid,month_id\n"+
			"120,3,45,0,B,A,9,DL,4,77,7\n")

	w := &mockWriter{}
	loaded, err := LoadFlightsFromCSV(context.Background(), w, []string{path}, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded)

	row := w.batches[0][0]
	assert.Equal(t, 77, row.ID)
	assert.Equal(t, 4, row.DayOfMonth)
	assert.Equal(t, 45, row.Duration)
	assert.Equal(t, 120, row.Price)
}

func TestLoadFlightsFromCSV_SkipsInvalidRecords(t *testing.T) {
	path := writeCSV(t, "flights.csv", csvHeader+
		"x,10,AS,24,A,B,0,299,7,986\n"+
		"2,10,AS,24,A,B,maybe,299,7,986\n"+
		"3,10,AS\n"+
		"4,10,AS,24,A,B,0,299,7,986\n")

	w := &mockWriter{}
	loaded, err := LoadFlightsFromCSV(context.Background(), w, []string{path}, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded)
	assert.Equal(t, 4, w.batches[0][0].ID)
}

func TestLoadFlightsFromCSV_MultipleFiles(t *testing.T) {
	part1 := writeCSV(t, "part1.csv", csvHeader+"1,10,AS,24,A,B,0,299,7,986\n")
	part2 := writeCSV(t, "part2.csv", csvHeader+"2,10,AS,24,B,C,0,100,7,200\n")

	w := &mockWriter{}
	loaded, err := LoadFlightsFromCSV(context.Background(), w, []string{part1, part2}, 100)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded)
	require.Len(t, w.batches, 1)
	assert.Len(t, w.batches[0], 2)
}

func TestLoadFlightsFromCSV_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := LoadFlightsFromCSV(ctx, &mockWriter{}, nil, 0)
	assert.Error(t, err)

	_, err = LoadFlightsFromCSV(ctx, &mockWriter{}, []string{filepath.Join(t.TempDir(), "missing.csv")}, 10)
	assert.Error(t, err)

	noFid := writeCSV(t, "nofid.csv", "day_of_month,carrier_id\n1,AS\n")
	_, err = LoadFlightsFromCSV(ctx, &mockWriter{}, []string{noFid}, 10)
	assert.Error(t, err)

	good := writeCSV(t, "good.csv", csvHeader+"1,10,AS,24,A,B,0,299,7,986\n")
	writeErr := errors.New("disk full")
	_, err = LoadFlightsFromCSV(ctx, &mockWriter{err: writeErr}, []string{good}, 10)
	assert.ErrorIs(t, err, writeErr)
}

func TestLoadFlightsFromCSV_IntoSQLite(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(t, db)

	path := writeCSV(t, "flights.csv", csvHeader+
		"1,10,AS,24,A,B,0,30,7,100\n"+
		"2,10,AS,25,B,C,0,40,7,100\n")

	ctx := context.Background()
	loaded, err := LoadFlightsFromCSV(ctx, db, []string{path}, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded)

	itineraries, err := db.SearchOneHop(ctx, "A", "C", 10, 5)
	require.NoError(t, err)
	require.Len(t, itineraries, 1)
	assert.Equal(t, 70, itineraries[0].TotalDuration)
}
