package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"airline_reservation/internal/models"
)

// Collection names one persisted entity set
type Collection string

// Collections of the reservation ledger
const (
	CollectionPassengers Collection = "passengers"
	CollectionAdmins     Collection = "admins"
	CollectionFlights    Collection = "flights"
	CollectionBookings   Collection = "bookings"
)

// RecordStore persists encoded records, one collection at a time.
// WriteRecords replaces the whole collection.
type RecordStore interface {
	ReadRecords(ctx context.Context, collection Collection) ([]string, error)
	WriteRecords(ctx context.Context, collection Collection, records []string) error
	Close() error
}

// Ledger encodes and decodes the reservation entities on top of a RecordStore
type Ledger struct {
	store  RecordStore
	logger *slog.Logger
}

// NewLedger creates a ledger backed by store
func NewLedger(store RecordStore, logger *slog.Logger) *Ledger {
	return &Ledger{store: store, logger: logger}
}

// Close releases the underlying store
func (l *Ledger) Close() error {
	return l.store.Close()
}

func (l *Ledger) read(ctx context.Context, collection Collection, decode func(string) error) error {
	records, err := l.store.ReadRecords(ctx, collection)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", collection, err)
	}
	for i, record := range records {
		if strings.TrimSpace(record) == "" {
			continue
		}
		if err := decode(record); err != nil {
			return fmt.Errorf("%s record %d: %w", collection, i+1, err)
		}
	}
	return nil
}

func (l *Ledger) write(ctx context.Context, collection Collection, records []string) error {
	if err := l.store.WriteRecords(ctx, collection, records); err != nil {
		return fmt.Errorf("failed to write %s: %w", collection, err)
	}
	l.logger.Debug("collection saved", "collection", collection, "records", len(records))
	return nil
}

// LoadPassengers reads every passenger record
func (l *Ledger) LoadPassengers(ctx context.Context) ([]*models.Passenger, error) {
	var passengers []*models.Passenger
	err := l.read(ctx, CollectionPassengers, func(record string) error {
		p, err := DecodePassenger(record)
		if err != nil {
			return err
		}
		passengers = append(passengers, p)
		return nil
	})
	return passengers, err
}

// LoadAdmins reads every admin record
func (l *Ledger) LoadAdmins(ctx context.Context) ([]*models.Admin, error) {
	var admins []*models.Admin
	err := l.read(ctx, CollectionAdmins, func(record string) error {
		a, err := DecodeAdmin(record)
		if err != nil {
			return err
		}
		admins = append(admins, a)
		return nil
	})
	return admins, err
}

// LoadFlights reads every flight record. When the stored available counter
// disagrees with the booked-seat list, the list wins and a warning is logged.
func (l *Ledger) LoadFlights(ctx context.Context) ([]*models.Flight, error) {
	var flights []*models.Flight
	err := l.read(ctx, CollectionFlights, func(record string) error {
		decoded, err := DecodeFlight(record)
		if err != nil {
			return err
		}
		if !decoded.Consistent() {
			l.logger.Warn("flight seat counter rebuilt from booked seats",
				"flight", decoded.Flight.FlightNumber,
				"stored_available", decoded.StoredAvailable,
				"available", decoded.Flight.AvailableSeatsCount(),
				"unknown_seats", decoded.UnknownSeats)
		}
		flights = append(flights, decoded.Flight)
		return nil
	})
	return flights, err
}

// LoadBookings reads every booking record
func (l *Ledger) LoadBookings(ctx context.Context) ([]*models.Booking, error) {
	var bookings []*models.Booking
	err := l.read(ctx, CollectionBookings, func(record string) error {
		b, err := DecodeBooking(record)
		if err != nil {
			return err
		}
		bookings = append(bookings, b)
		return nil
	})
	return bookings, err
}

// SavePassengers rewrites the passenger collection
func (l *Ledger) SavePassengers(ctx context.Context, passengers []*models.Passenger) error {
	records := make([]string, len(passengers))
	for i, p := range passengers {
		records[i] = EncodePassenger(p)
	}
	return l.write(ctx, CollectionPassengers, records)
}

// SaveAdmins rewrites the admin collection
func (l *Ledger) SaveAdmins(ctx context.Context, admins []*models.Admin) error {
	records := make([]string, len(admins))
	for i, a := range admins {
		records[i] = EncodeAdmin(a)
	}
	return l.write(ctx, CollectionAdmins, records)
}

// SaveFlights rewrites the flight collection
func (l *Ledger) SaveFlights(ctx context.Context, flights []*models.Flight) error {
	records := make([]string, len(flights))
	for i, f := range flights {
		records[i] = EncodeFlight(f)
	}
	return l.write(ctx, CollectionFlights, records)
}

// SaveBookings rewrites the booking collection
func (l *Ledger) SaveBookings(ctx context.Context, bookings []*models.Booking) error {
	records := make([]string, len(bookings))
	for i, b := range bookings {
		records[i] = EncodeBooking(b)
	}
	return l.write(ctx, CollectionBookings, records)
}
