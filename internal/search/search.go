// Package search finds direct and one-hop itineraries between two cities and
// renders them as a ranked text report.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"flight_search/internal/models"
)

const (
	// NoFlightsMessage is returned when a search succeeds without results
	NoFlightsMessage = "No flights match your selection\n"
	// FailureMessage is returned for any failed search
	FailureMessage = "Failed to search\n"
)

// ErrInvalidLimit is returned for a negative number of itineraries
var ErrInvalidLimit = errors.New("number of itineraries must not be negative")

// FlightRepository is the data access needed by a search
type FlightRepository interface {
	SearchDirect(ctx context.Context, originCity, destCity string, dayOfMonth, limit int) ([]models.Flight, error)
	SearchOneHop(ctx context.Context, originCity, destCity string, dayOfMonth, limit int) ([]models.Itinerary, error)
}

// Request holds the parameters of a single search
type Request struct {
	OriginCity          string
	DestCity            string
	DirectOnly          bool
	DayOfMonth          int
	NumberOfItineraries int
}

// Searcher runs itinerary searches against a FlightRepository
type Searcher struct {
	repo FlightRepository
}

func New(repo FlightRepository) *Searcher {
	return &Searcher{repo: repo}
}

// Search returns at most req.NumberOfItineraries itineraries, ranked.
// Direct flights are fetched first; one-hop itineraries only fill the remaining
// slots and are never fetched when req.DirectOnly is set. Any repository error
// discards everything found so far.
func (s *Searcher) Search(ctx context.Context, req Request) ([]models.Itinerary, error) {
	limit := req.NumberOfItineraries
	if limit < 0 {
		return nil, ErrInvalidLimit
	}
	if limit == 0 {
		return nil, nil
	}

	direct, err := s.repo.SearchDirect(ctx, req.OriginCity, req.DestCity, req.DayOfMonth, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search direct flights: %w", err)
	}
	if len(direct) > limit {
		direct = direct[:limit]
	}

	slog.Debug("Direct flight search finished",
		"origin", req.OriginCity,
		"dest", req.DestCity,
		"day", req.DayOfMonth,
		"limit", limit,
		"found", len(direct),
	)

	itineraries := make([]models.Itinerary, 0, len(direct))
	for _, f := range direct {
		itineraries = append(itineraries, models.NewDirectItinerary(f))
	}

	if !req.DirectOnly && len(itineraries) < limit {
		remaining := limit - len(itineraries)

		oneHop, err := s.repo.SearchOneHop(ctx, req.OriginCity, req.DestCity, req.DayOfMonth, remaining)
		if err != nil {
			return nil, fmt.Errorf("failed to search one-hop flights: %w", err)
		}
		if len(oneHop) > remaining {
			oneHop = oneHop[:remaining]
		}

		slog.Debug("One-hop flight search finished",
			"origin", req.OriginCity,
			"dest", req.DestCity,
			"day", req.DayOfMonth,
			"limit", remaining,
			"found", len(oneHop),
		)

		itineraries = append(itineraries, oneHop...)
	}

	models.SortItineraries(itineraries)
	return itineraries, nil
}

// TransactionSearch runs a search and renders the report. Every failure
// collapses to FailureMessage.
func (s *Searcher) TransactionSearch(ctx context.Context, originCity, destCity string, directOnly bool, dayOfMonth, numberOfItineraries int) string {
	itineraries, err := s.Search(ctx, Request{
		OriginCity:          originCity,
		DestCity:            destCity,
		DirectOnly:          directOnly,
		DayOfMonth:          dayOfMonth,
		NumberOfItineraries: numberOfItineraries,
	})
	if err != nil {
		slog.Error("Flight search failed",
			"origin", originCity,
			"dest", destCity,
			"direct_only", directOnly,
			"day", dayOfMonth,
			"limit", numberOfItineraries,
			"error", err,
		)
		return FailureMessage
	}

	return Format(itineraries)
}
