package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFlight(id, duration int) Flight {
	return Flight{
		ID:           id,
		DayOfMonth:   10,
		CarrierID:    "AS",
		FlightNumber: "100",
		OriginCity:   "Seattle WA",
		DestCity:     "Boston MA",
		Duration:     duration,
		Capacity:     12,
		Price:        300,
	}
}

func TestFlightString(t *testing.T) {
	f := Flight{
		ID:           60454,
		DayOfMonth:   1,
		CarrierID:    "AS",
		FlightNumber: "24",
		OriginCity:   "Seattle WA",
		DestCity:     "Boston MA",
		Duration:     299,
		Capacity:     7,
		Price:        986,
	}

	assert.Equal(t,
		"ID: 60454 Day: 1 Carrier: AS Number: 24 Origin: Seattle WA Dest: Boston MA Duration: 299 Capacity: 7 Price: 986",
		f.String())
}

func TestNewItinerary(t *testing.T) {
	direct := NewDirectItinerary(testFlight(1, 100))
	assert.True(t, direct.IsDirect())
	assert.Equal(t, 100, direct.TotalDuration)
	assert.Equal(t, 300, direct.TotalPrice)
	assert.Len(t, direct.Flights(), 1)

	hop := NewOneHopItinerary(testFlight(1, 30), testFlight(2, 40))
	assert.False(t, hop.IsDirect())
	require.NotNil(t, hop.Second)
	assert.Equal(t, 2, hop.Second.ID)
	assert.Equal(t, 70, hop.TotalDuration)
	assert.Equal(t, 600, hop.TotalPrice)

	legs := hop.Flights()
	require.Len(t, legs, 2)
	assert.Equal(t, 1, legs[0].ID)
	assert.Equal(t, 2, legs[1].ID)
}

func TestCompareItineraries(t *testing.T) {
	tests := []struct {
		name string
		a    Itinerary
		b    Itinerary
		want int
	}{
		{
			name: "shorter duration first",
			a:    NewDirectItinerary(testFlight(9, 50)),
			b:    NewDirectItinerary(testFlight(1, 60)),
			want: -1,
		},
		{
			name: "equal duration breaks on first flight id",
			a:    NewDirectItinerary(testFlight(3, 60)),
			b:    NewDirectItinerary(testFlight(2, 60)),
			want: 1,
		},
		{
			name: "equal first leg breaks on second flight id",
			a:    NewOneHopItinerary(testFlight(1, 30), testFlight(4, 30)),
			b:    NewOneHopItinerary(testFlight(1, 20), testFlight(5, 40)),
			want: -1,
		},
		{
			name: "direct before one-hop with same first leg",
			a:    NewDirectItinerary(testFlight(1, 60)),
			b:    NewOneHopItinerary(testFlight(1, 30), testFlight(2, 30)),
			want: -1,
		},
		{
			name: "two direct with same first flight are equal",
			a:    NewDirectItinerary(testFlight(1, 60)),
			b:    NewDirectItinerary(testFlight(1, 60)),
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareItineraries(tt.a, tt.b))
			assert.Equal(t, -tt.want, CompareItineraries(tt.b, tt.a))
		})
	}
}

func TestSortItineraries(t *testing.T) {
	itineraries := []Itinerary{
		NewDirectItinerary(testFlight(5, 100)),
		NewOneHopItinerary(testFlight(1, 30), testFlight(7, 40)),
		NewOneHopItinerary(testFlight(1, 30), testFlight(2, 40)),
		NewDirectItinerary(testFlight(3, 70)),
	}

	SortItineraries(itineraries)

	require.Len(t, itineraries, 4)
	assert.Equal(t, 1, itineraries[0].First.ID)
	assert.Equal(t, 2, itineraries[0].Second.ID)
	assert.Equal(t, 1, itineraries[1].First.ID)
	assert.Equal(t, 7, itineraries[1].Second.ID)
	assert.Equal(t, 3, itineraries[2].First.ID)
	assert.Equal(t, 5, itineraries[3].First.ID)

	for i := 1; i < len(itineraries); i++ {
		assert.LessOrEqual(t, CompareItineraries(itineraries[i-1], itineraries[i]), 0)
	}
}

func TestSortItineraries_DirectAndOneHopShareFirstFlight(t *testing.T) {
	itineraries := []Itinerary{
		NewOneHopItinerary(testFlight(1, 20), testFlight(3, 40)),
		NewDirectItinerary(testFlight(1, 60)),
		NewOneHopItinerary(testFlight(1, 20), testFlight(2, 40)),
	}

	SortItineraries(itineraries)

	require.Len(t, itineraries, 3)
	assert.True(t, itineraries[0].IsDirect())
	require.NotNil(t, itineraries[1].Second)
	assert.Equal(t, 2, itineraries[1].Second.ID)
	require.NotNil(t, itineraries[2].Second)
	assert.Equal(t, 3, itineraries[2].Second.ID)
}

func TestCompareItineraries_Transitive(t *testing.T) {
	pool := []Itinerary{
		NewDirectItinerary(testFlight(1, 60)),
		NewDirectItinerary(testFlight(2, 60)),
		NewOneHopItinerary(testFlight(1, 20), testFlight(2, 40)),
		NewOneHopItinerary(testFlight(1, 20), testFlight(3, 40)),
		NewOneHopItinerary(testFlight(2, 10), testFlight(1, 50)),
		NewDirectItinerary(testFlight(1, 50)),
	}

	for _, a := range pool {
		for _, b := range pool {
			for _, c := range pool {
				if CompareItineraries(a, b) <= 0 && CompareItineraries(b, c) <= 0 {
					assert.LessOrEqual(t, CompareItineraries(a, c), 0)
				}
			}
		}
	}
}
