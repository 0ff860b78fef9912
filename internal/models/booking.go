package models

import "fmt"

// BookingStatus is the lifecycle state of a booking
type BookingStatus string

// BookingStatus constants
const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// Booking binds a passenger to one seat on one flight
type Booking struct {
	ID           string        `json:"id"`
	PassengerID  string        `json:"passenger_id"`
	FlightNumber string        `json:"flight_number"`
	SeatNumber   string        `json:"seat_number"`
	BookingDate  string        `json:"booking_date"`
	Fare         float64       `json:"fare"`
	Status       BookingStatus `json:"status"`
}

// BookingRequest represents a seat booking request
type BookingRequest struct {
	FlightNumber string `json:"flight_number" validate:"required"`
	SeatNumber   string `json:"seat_number" validate:"required"`
}

// BookingSummary aggregates the booking ledger
type BookingSummary struct {
	TotalBookings     int     `json:"total_bookings"`
	ConfirmedBookings int     `json:"confirmed_bookings"`
	CancelledBookings int     `json:"cancelled_bookings"`
	TotalRevenue      float64 `json:"total_revenue"`
}

// IsValidStatus checks if the booking status is valid
func (b *Booking) IsValidStatus() bool {
	return b.Status == BookingStatusConfirmed || b.Status == BookingStatusCancelled
}

// IsConfirmed reports whether the booking still holds its seat
func (b *Booking) IsConfirmed() bool {
	return b.Status == BookingStatusConfirmed
}

// CanCancel checks if the booking can be cancelled
func (b *Booking) CanCancel() bool {
	return b.Status == BookingStatusConfirmed
}

// Cancel moves the booking to its terminal state
func (b *Booking) Cancel() error {
	if !b.CanCancel() {
		return fmt.Errorf("booking %s cannot be cancelled in status %s", b.ID, b.Status)
	}
	b.Status = BookingStatusCancelled
	return nil
}

// Clone returns a copy of the booking
func (b *Booking) Clone() *Booking {
	c := *b
	return &c
}
