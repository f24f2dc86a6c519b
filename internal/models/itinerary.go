package models

import (
	"cmp"
	"slices"
)

// Itinerary is either a direct flight or a one-hop journey over two flights
type Itinerary struct {
	First         Flight
	Second        *Flight // nil for direct itineraries
	TotalDuration int     // minutes, sum of leg durations
	TotalPrice    int     // sum of leg prices
}

// NewDirectItinerary builds an itinerary from a single flight
func NewDirectItinerary(f Flight) Itinerary {
	return Itinerary{
		First:         f,
		TotalDuration: f.Duration,
		TotalPrice:    f.Price,
	}
}

// NewOneHopItinerary builds an itinerary from two connecting flights
func NewOneHopItinerary(first, second Flight) Itinerary {
	return Itinerary{
		First:         first,
		Second:        &second,
		TotalDuration: first.Duration + second.Duration,
		TotalPrice:    first.Price + second.Price,
	}
}

// IsDirect reports whether the itinerary has a single leg
func (it Itinerary) IsDirect() bool {
	return it.Second == nil
}

// Flights returns the legs of the itinerary in travel order
func (it Itinerary) Flights() []Flight {
	if it.Second == nil {
		return []Flight{it.First}
	}
	return []Flight{it.First, *it.Second}
}

// CompareItineraries orders by total duration, then first flight id, then
// second flight id. With duration and first flight tied, a direct itinerary
// sorts before any one-hop itinerary.
func CompareItineraries(a, b Itinerary) int {
	if c := cmp.Compare(a.TotalDuration, b.TotalDuration); c != 0 {
		return c
	}
	if c := cmp.Compare(a.First.ID, b.First.ID); c != 0 {
		return c
	}
	switch {
	case a.Second == nil && b.Second == nil:
		return 0
	case a.Second == nil:
		return -1
	case b.Second == nil:
		return 1
	}
	return cmp.Compare(a.Second.ID, b.Second.ID)
}

// SortItineraries sorts in place using CompareItineraries
func SortItineraries(itineraries []Itinerary) {
	slices.SortStableFunc(itineraries, CompareItineraries)
}
