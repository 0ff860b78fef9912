package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SeatColumns are the seat letters of every row, window to window
var SeatColumns = []string{"A", "B", "C", "D", "E", "F"}

// Flight represents a scheduled flight and its seat map
type Flight struct {
	FlightNumber  string  `json:"flight_number"`
	Airline       string  `json:"airline"`
	Origin        string  `json:"origin"`
	Destination   string  `json:"destination"`
	DepartureDate string  `json:"departure_date"`
	DepartureTime string  `json:"departure_time"`
	ArrivalTime   string  `json:"arrival_time"`
	BaseFare      float64 `json:"base_fare"`

	totalSeats     int
	availableSeats int
	seatLabels     []string // row-major
	seatMap        map[string]bool
}

// SeatState is one cell of a rendered seat map
type SeatState struct {
	Label     string `json:"label"`
	Available bool   `json:"available"`
}

// NewFlight creates a flight with every seat available
func NewFlight(number, airline, origin, destination, date, depTime, arrTime string, totalSeats int, baseFare float64) *Flight {
	f := &Flight{
		FlightNumber:  number,
		Airline:       airline,
		Origin:        origin,
		Destination:   destination,
		DepartureDate: date,
		DepartureTime: depTime,
		ArrivalTime:   arrTime,
		BaseFare:      baseFare,
	}
	f.initializeSeats(totalSeats)
	return f
}

// SeatLabels generates capacity labels in row-major order: A1..F1, A2..F2, ...
func SeatLabels(capacity int) []string {
	if capacity <= 0 {
		return nil
	}
	labels := make([]string, 0, capacity)
	rows := (capacity + len(SeatColumns) - 1) / len(SeatColumns)
	for row := 1; row <= rows; row++ {
		for _, col := range SeatColumns {
			if len(labels) == capacity {
				return labels
			}
			labels = append(labels, col+strconv.Itoa(row))
		}
	}
	return labels
}

func (f *Flight) initializeSeats(totalSeats int) {
	if totalSeats < 0 {
		totalSeats = 0
	}
	f.totalSeats = totalSeats
	f.seatLabels = SeatLabels(totalSeats)
	f.seatMap = make(map[string]bool, len(f.seatLabels))
	for _, label := range f.seatLabels {
		f.seatMap[label] = true
	}
	f.availableSeats = len(f.seatLabels)
}

// NormalizeSeat trims a user-entered seat label and upper-cases its column letter
func NormalizeSeat(seat string) string {
	seat = strings.TrimSpace(seat)
	r, size := utf8.DecodeRuneInString(seat)
	if size == 0 {
		return seat
	}
	return string(unicode.ToUpper(r)) + seat[size:]
}

// TotalSeats returns the seat capacity
func (f *Flight) TotalSeats() int {
	return f.totalSeats
}

// AvailableSeatsCount returns the number of seats still open for booking
func (f *Flight) AvailableSeatsCount() int {
	return f.availableSeats
}

// BookedSeatsCount returns the number of booked seats
func (f *Flight) BookedSeatsCount() int {
	return f.totalSeats - f.availableSeats
}

// BookSeat marks an available seat as booked. Unknown or booked seats are left untouched.
func (f *Flight) BookSeat(seat string) bool {
	available, ok := f.seatMap[seat]
	if !ok || !available {
		return false
	}
	f.seatMap[seat] = false
	f.availableSeats--
	return true
}

// CancelSeat releases a booked seat. Unknown or available seats are left untouched.
func (f *Flight) CancelSeat(seat string) bool {
	available, ok := f.seatMap[seat]
	if !ok || available {
		return false
	}
	f.seatMap[seat] = true
	f.availableSeats++
	return true
}

// IsSeatAvailable reports whether seat exists and is open
func (f *Flight) IsSeatAvailable(seat string) bool {
	return f.seatMap[seat]
}

// HasSeat reports whether seat is part of the seat map
func (f *Flight) HasSeat(seat string) bool {
	_, ok := f.seatMap[seat]
	return ok
}

// AvailableSeats lists open seats in row-major order
func (f *Flight) AvailableSeats() []string {
	return f.seatsWithState(true)
}

// BookedSeats lists booked seats in row-major order
func (f *Flight) BookedSeats() []string {
	return f.seatsWithState(false)
}

func (f *Flight) seatsWithState(available bool) []string {
	seats := []string{}
	for _, label := range f.seatLabels {
		if f.seatMap[label] == available {
			seats = append(seats, label)
		}
	}
	return seats
}

// Occupancy returns the booked share of the flight as a percentage
func (f *Flight) Occupancy() float64 {
	if f.totalSeats == 0 {
		return 0
	}
	return float64(f.BookedSeatsCount()) * 100 / float64(f.totalSeats)
}

// SeatRows groups the seat map by row for display
func (f *Flight) SeatRows() [][]SeatState {
	var rows [][]SeatState
	for i, label := range f.seatLabels {
		if i%len(SeatColumns) == 0 {
			rows = append(rows, make([]SeatState, 0, len(SeatColumns)))
		}
		last := len(rows) - 1
		rows[last] = append(rows[last], SeatState{Label: label, Available: f.seatMap[label]})
	}
	return rows
}

// Route returns the "origin -> destination" label used in reports
func (f *Flight) Route() string {
	return f.Origin + " -> " + f.Destination
}

// Matches reports whether the flight satisfies an exact search
func (f *Flight) Matches(origin, destination, date string) bool {
	return f.Origin == origin && f.Destination == destination &&
		f.DepartureDate == date && f.availableSeats > 0
}

// Clone returns a deep copy that shares no state with f
func (f *Flight) Clone() *Flight {
	c := *f
	c.seatLabels = append([]string(nil), f.seatLabels...)
	c.seatMap = make(map[string]bool, len(f.seatMap))
	for k, v := range f.seatMap {
		c.seatMap[k] = v
	}
	return &c
}

// String summarises the flight for log lines and listings
func (f *Flight) String() string {
	return fmt.Sprintf("%s (%s) %s %s %s-%s %d/%d seats, fare %.2f",
		f.FlightNumber, f.Airline, f.Route(), f.DepartureDate, f.DepartureTime,
		f.ArrivalTime, f.availableSeats, f.totalSeats, f.BaseFare)
}

type flightJSON struct {
	FlightNumber   string   `json:"flight_number"`
	Airline        string   `json:"airline"`
	Origin         string   `json:"origin"`
	Destination    string   `json:"destination"`
	DepartureDate  string   `json:"departure_date"`
	DepartureTime  string   `json:"departure_time"`
	ArrivalTime    string   `json:"arrival_time"`
	TotalSeats     int      `json:"total_seats"`
	AvailableSeats int      `json:"available_seats"`
	BaseFare       float64  `json:"base_fare"`
	BookedSeats    []string `json:"booked_seats"`
}

// MarshalJSON encodes the seat map as its booked-seat list
func (f *Flight) MarshalJSON() ([]byte, error) {
	return json.Marshal(flightJSON{
		FlightNumber:   f.FlightNumber,
		Airline:        f.Airline,
		Origin:         f.Origin,
		Destination:    f.Destination,
		DepartureDate:  f.DepartureDate,
		DepartureTime:  f.DepartureTime,
		ArrivalTime:    f.ArrivalTime,
		TotalSeats:     f.totalSeats,
		AvailableSeats: f.availableSeats,
		BaseFare:       f.BaseFare,
		BookedSeats:    f.BookedSeats(),
	})
}

// UnmarshalJSON rebuilds the seat map from the booked-seat list
func (f *Flight) UnmarshalJSON(data []byte) error {
	var raw flightJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = *NewFlight(raw.FlightNumber, raw.Airline, raw.Origin, raw.Destination,
		raw.DepartureDate, raw.DepartureTime, raw.ArrivalTime, raw.TotalSeats, raw.BaseFare)
	for _, seat := range raw.BookedSeats {
		f.BookSeat(seat)
	}
	return nil
}

// AddFlightRequest carries the attributes of a new flight
type AddFlightRequest struct {
	FlightNumber  string  `json:"flight_number" validate:"required"`
	Airline       string  `json:"airline" validate:"required"`
	Origin        string  `json:"origin" validate:"required"`
	Destination   string  `json:"destination" validate:"required"`
	DepartureDate string  `json:"departure_date" validate:"required"`
	DepartureTime string  `json:"departure_time" validate:"required"`
	ArrivalTime   string  `json:"arrival_time" validate:"required"`
	TotalSeats    int     `json:"total_seats" validate:"gt=0,lte=1000"`
	BaseFare      float64 `json:"base_fare" validate:"gte=0"`
}

// SearchRequest represents an exact-match flight search
type SearchRequest struct {
	Origin      string `json:"origin" validate:"required"`
	Destination string `json:"destination" validate:"required"`
	Date        string `json:"date" validate:"required"`
}
