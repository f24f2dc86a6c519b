package models

import "fmt"

// Flight is a single row of the flights table
type Flight struct {
	ID           int    // fid
	DayOfMonth   int    // Day of the month the flight departs
	CarrierID    string // Carrier code (e.g., AA)
	FlightNumber string // Flight number within the carrier
	OriginCity   string // Origin city name
	DestCity     string // Destination city name
	Duration     int    // Actual flight time in minutes
	Capacity     int    // Number of seats
	Price        int    // Ticket price
}

// String renders the flight in the fixed report format
func (f Flight) String() string {
	return fmt.Sprintf("ID: %d Day: %d Carrier: %s Number: %s Origin: %s Dest: %s Duration: %d Capacity: %d Price: %d",
		f.ID, f.DayOfMonth, f.CarrierID, f.FlightNumber, f.OriginCity, f.DestCity, f.Duration, f.Capacity, f.Price)
}
