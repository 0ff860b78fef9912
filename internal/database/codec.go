package database

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"airline_reservation/internal/models"
)

// ErrMalformedRecord is returned when a persisted line cannot be decoded
var ErrMalformedRecord = errors.New("malformed record")

const (
	fieldDelimiter = '|'
	listDelimiter  = ','
	escapeChar     = '\\'
)

// Field counts per record type. The trailing list field of passengers and
// flights may be absent in files written without a trailing delimiter.
const (
	passengerFields = 7
	adminFields     = 5
	flightFields    = 11
	bookingFields   = 7
)

// EscapeField protects delimiters and line breaks inside a field value.
// Values without special characters are written unchanged.
func EscapeField(value string) string {
	if !strings.ContainsAny(value, "\\|,\n\r") {
		return value
	}
	var b strings.Builder
	b.Grow(len(value) + 4)
	for i := 0; i < len(value); i++ {
		switch c := value[i]; c {
		case escapeChar, fieldDelimiter, listDelimiter:
			b.WriteByte(escapeChar)
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// UnescapeField reverses EscapeField
func UnescapeField(value string) string {
	if strings.IndexByte(value, escapeChar) < 0 {
		return value
	}
	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c != escapeChar || i+1 == len(value) {
			b.WriteByte(c)
			continue
		}
		i++
		switch value[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		default:
			b.WriteByte(value[i])
		}
	}
	return b.String()
}

// splitEscaped cuts s on every sep that is not preceded by the escape character.
// The returned parts are still escaped.
func splitEscaped(s string, sep byte) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case escapeChar:
			i++
		case sep:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

func joinRecord(fields ...string) string {
	return strings.Join(fields, string(fieldDelimiter))
}

func encodeList(items []string) string {
	escaped := make([]string, len(items))
	for i, item := range items {
		escaped[i] = EscapeField(item)
	}
	return strings.Join(escaped, string(listDelimiter))
}

func decodeList(field string) []string {
	items := []string{}
	if field == "" {
		return items
	}
	for _, item := range splitEscaped(field, listDelimiter) {
		if item == "" {
			continue
		}
		items = append(items, UnescapeField(item))
	}
	return items
}

// splitRecord returns the raw fields of line, padding a missing trailing list field.
func splitRecord(line string, want int, trailingList bool) ([]string, error) {
	fields := splitEscaped(line, fieldDelimiter)
	if trailingList && len(fields) == want-1 {
		fields = append(fields, "")
	}
	if len(fields) != want {
		return nil, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedRecord, want, len(fields))
	}
	return fields, nil
}

func scalar(fields []string, i int) string {
	return UnescapeField(fields[i])
}

func formatFare(fare float64) string {
	return strconv.FormatFloat(fare, 'f', -1, 64)
}

func parseFare(field string) (float64, error) {
	fare, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid fare %q", ErrMalformedRecord, field)
	}
	return fare, nil
}

func parseCount(name, field string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(field))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", ErrMalformedRecord, name, field)
	}
	return n, nil
}

// EncodePassenger renders id|password|name|email|phone|passport|bookingIds
func EncodePassenger(p *models.Passenger) string {
	return joinRecord(
		EscapeField(p.ID),
		EscapeField(p.Password),
		EscapeField(p.Name),
		EscapeField(p.Email),
		EscapeField(p.Phone),
		EscapeField(p.PassportNumber),
		encodeList(p.BookingIDs),
	)
}

// DecodePassenger parses a line written by EncodePassenger
func DecodePassenger(line string) (*models.Passenger, error) {
	fields, err := splitRecord(line, passengerFields, true)
	if err != nil {
		return nil, err
	}
	return &models.Passenger{
		ID:             scalar(fields, 0),
		Password:       scalar(fields, 1),
		Name:           scalar(fields, 2),
		Email:          scalar(fields, 3),
		Phone:          scalar(fields, 4),
		PassportNumber: scalar(fields, 5),
		BookingIDs:     decodeList(fields[6]),
	}, nil
}

// EncodeAdmin renders id|password|name|email|level
func EncodeAdmin(a *models.Admin) string {
	return joinRecord(
		EscapeField(a.ID),
		EscapeField(a.Password),
		EscapeField(a.Name),
		EscapeField(a.Email),
		EscapeField(a.Level),
	)
}

// DecodeAdmin parses a line written by EncodeAdmin
func DecodeAdmin(line string) (*models.Admin, error) {
	fields, err := splitRecord(line, adminFields, false)
	if err != nil {
		return nil, err
	}
	return &models.Admin{
		ID:       scalar(fields, 0),
		Password: scalar(fields, 1),
		Name:     scalar(fields, 2),
		Email:    scalar(fields, 3),
		Level:    scalar(fields, 4),
	}, nil
}

// EncodeFlight renders
// number|airline|origin|destination|date|depTime|arrTime|total|available|fare|bookedSeats
func EncodeFlight(f *models.Flight) string {
	return joinRecord(
		EscapeField(f.FlightNumber),
		EscapeField(f.Airline),
		EscapeField(f.Origin),
		EscapeField(f.Destination),
		EscapeField(f.DepartureDate),
		EscapeField(f.DepartureTime),
		EscapeField(f.ArrivalTime),
		strconv.Itoa(f.TotalSeats()),
		strconv.Itoa(f.AvailableSeatsCount()),
		formatFare(f.BaseFare),
		encodeList(f.BookedSeats()),
	)
}

// DecodedFlight is a flight rebuilt from its booked-seat list together with
// the available count stored alongside it.
type DecodedFlight struct {
	Flight          *models.Flight
	StoredAvailable int
	UnknownSeats    []string
}

// Consistent reports whether the stored counter agrees with the rebuilt seat map
func (d DecodedFlight) Consistent() bool {
	return d.StoredAvailable == d.Flight.AvailableSeatsCount() && len(d.UnknownSeats) == 0
}

// DecodeFlight parses a line written by EncodeFlight. The seat map is rebuilt
// at full capacity and every listed seat is booked again.
func DecodeFlight(line string) (DecodedFlight, error) {
	fields, err := splitRecord(line, flightFields, true)
	if err != nil {
		return DecodedFlight{}, err
	}
	total, err := parseCount("total seats", fields[7])
	if err != nil {
		return DecodedFlight{}, err
	}
	stored, err := parseCount("available seats", fields[8])
	if err != nil {
		return DecodedFlight{}, err
	}
	fare, err := parseFare(fields[9])
	if err != nil {
		return DecodedFlight{}, err
	}

	flight := models.NewFlight(
		scalar(fields, 0), scalar(fields, 1), scalar(fields, 2), scalar(fields, 3),
		scalar(fields, 4), scalar(fields, 5), scalar(fields, 6), total, fare,
	)
	decoded := DecodedFlight{Flight: flight, StoredAvailable: stored}
	for _, seat := range decodeList(fields[10]) {
		if !flight.BookSeat(seat) {
			decoded.UnknownSeats = append(decoded.UnknownSeats, seat)
		}
	}
	return decoded, nil
}

// EncodeBooking renders id|passengerId|flightNumber|seat|date|fare|status
func EncodeBooking(b *models.Booking) string {
	return joinRecord(
		EscapeField(b.ID),
		EscapeField(b.PassengerID),
		EscapeField(b.FlightNumber),
		EscapeField(b.SeatNumber),
		EscapeField(b.BookingDate),
		formatFare(b.Fare),
		EscapeField(string(b.Status)),
	)
}

// DecodeBooking parses a line written by EncodeBooking
func DecodeBooking(line string) (*models.Booking, error) {
	fields, err := splitRecord(line, bookingFields, false)
	if err != nil {
		return nil, err
	}
	fare, err := parseFare(fields[5])
	if err != nil {
		return nil, err
	}
	booking := &models.Booking{
		ID:           scalar(fields, 0),
		PassengerID:  scalar(fields, 1),
		FlightNumber: scalar(fields, 2),
		SeatNumber:   scalar(fields, 3),
		BookingDate:  scalar(fields, 4),
		Fare:         fare,
		Status:       models.BookingStatus(scalar(fields, 6)),
	}
	if !booking.IsValidStatus() {
		return nil, fmt.Errorf("%w: invalid booking status %q", ErrMalformedRecord, booking.Status)
	}
	return booking, nil
}
