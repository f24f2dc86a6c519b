package search

import (
	"fmt"
	"slices"
	"strings"

	"flight_search/internal/models"
)

// Format ranks a copy of itineraries and renders one block per itinerary:
//
//	Itinerary <i>: <n> flight(s), <minutes> minutes
//	<one line per flight>
func Format(itineraries []models.Itinerary) string {
	if len(itineraries) == 0 {
		return NoFlightsMessage
	}

	ranked := slices.Clone(itineraries)
	models.SortItineraries(ranked)

	var sb strings.Builder
	for i, it := range ranked {
		legs := it.Flights()
		fmt.Fprintf(&sb, "Itinerary %d: %d flight(s), %d minutes\n", i, len(legs), it.TotalDuration)
		for _, f := range legs {
			sb.WriteString(f.String())
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}
