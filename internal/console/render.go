package console

import (
	"fmt"
	"io"
	"strings"

	"airline_reservation/internal/models"
)

const occupancyBarWidth = 20

func writeBanner(w io.Writer, title string) {
	fmt.Fprintln(w, "\n=====================================")
	fmt.Fprintf(w, "%s\n", centered(title, 36))
	fmt.Fprintln(w, "=====================================")
}

func centered(s string, width int) string {
	pad := width - len(s)
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad/2) + s + strings.Repeat(" ", pad-pad/2)
}

func writeFlightInfo(w io.Writer, f *models.Flight) {
	fmt.Fprintln(w, "\n========================================")
	fmt.Fprintf(w, "Flight: %s (%s)\n", f.FlightNumber, f.Airline)
	fmt.Fprintf(w, "Route: %s\n", f.Route())
	fmt.Fprintf(w, "Date: %s\n", f.DepartureDate)
	fmt.Fprintf(w, "Departure: %s | Arrival: %s\n", f.DepartureTime, f.ArrivalTime)
	fmt.Fprintf(w, "Available Seats: %d/%d\n", f.AvailableSeatsCount(), f.TotalSeats())
	fmt.Fprintf(w, "Base Fare: ₹%.2f\n", f.BaseFare)
	fmt.Fprintln(w, "========================================")
}

// writeSeatMap draws the O/X grid with an aisle after column C
func writeSeatMap(w io.Writer, f *models.Flight) {
	fmt.Fprintln(w, "\n=== SEAT MAP (O = Available, X = Booked) ===")
	fmt.Fprintf(w, "     %s\n", seatHeader())
	for i, row := range f.SeatRows() {
		var b strings.Builder
		fmt.Fprintf(&b, "%2d  ", i+1)
		for j := range models.SeatColumns {
			switch {
			case j >= len(row):
				b.WriteString("   ")
			case row[j].Available:
				b.WriteString(" O ")
			default:
				b.WriteString(" X ")
			}
			if j == 2 {
				b.WriteString("  ")
			}
		}
		fmt.Fprintln(w, b.String())
	}
	fmt.Fprintln(w, "=============================================")
}

func seatHeader() string {
	var b strings.Builder
	for j, col := range models.SeatColumns {
		if j > 0 {
			b.WriteString("  ")
		}
		if j == 3 {
			b.WriteString("  ")
		}
		b.WriteString(col)
	}
	return b.String()
}

func writeBookingInfo(w io.Writer, b *models.Booking) {
	fmt.Fprintln(w, "\n======== BOOKING DETAILS ========")
	fmt.Fprintf(w, "Booking ID: %s\n", b.ID)
	fmt.Fprintf(w, "Passenger ID: %s\n", b.PassengerID)
	fmt.Fprintf(w, "Flight Number: %s\n", b.FlightNumber)
	fmt.Fprintf(w, "Seat Number: %s\n", b.SeatNumber)
	fmt.Fprintf(w, "Booking Date: %s\n", b.BookingDate)
	fmt.Fprintf(w, "Total Fare: ₹%.2f\n", b.Fare)
	fmt.Fprintf(w, "Status: %s\n", b.Status)
	fmt.Fprintln(w, "=================================")
}

func writeBookingSummary(w io.Writer, s models.BookingSummary) {
	fmt.Fprintln(w, "\n========== SUMMARY ==========")
	fmt.Fprintf(w, "Total Bookings: %d\n", s.TotalBookings)
	fmt.Fprintf(w, "Confirmed: %d\n", s.ConfirmedBookings)
	fmt.Fprintf(w, "Cancelled: %d\n", s.CancelledBookings)
	fmt.Fprintf(w, "Total Revenue: ₹%.2f\n", s.TotalRevenue)
	fmt.Fprintln(w, "=============================")
}

// occupancyBar renders one '#' per started 5% of occupancy
func occupancyBar(occupancy float64) string {
	filled := int(occupancy / 5)
	if filled > occupancyBarWidth {
		filled = occupancyBarWidth
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", occupancyBarWidth-filled) + "]"
}

func writeOccupancy(w io.Writer, fo models.FlightOccupancy) {
	fmt.Fprintln(w, "\n----------------------------------------")
	fmt.Fprintf(w, "Flight: %s\n", fo.FlightNumber)
	fmt.Fprintf(w, "Route: %s\n", fo.Route)
	fmt.Fprintf(w, "Total Seats: %d\n", fo.TotalSeats)
	fmt.Fprintf(w, "Booked: %d\n", fo.BookedSeats)
	fmt.Fprintf(w, "Available: %d\n", fo.AvailableSeats)
	fmt.Fprintf(w, "Occupancy: %.2f%%\n", fo.Occupancy)
	fmt.Fprintf(w, "Status: %s %.2f%%\n", occupancyBar(fo.Occupancy), fo.Occupancy)
}

func writeSystemReport(w io.Writer, r models.SystemReport) {
	fmt.Fprintln(w, "\n========== AIRLINE SYSTEM REPORT ==========")

	fmt.Fprintln(w, "\n--- FLEET STATISTICS ---")
	fmt.Fprintf(w, "Total Flights: %d\n", r.TotalFlights)
	fmt.Fprintf(w, "Total Seat Capacity: %d\n", r.TotalSeats)
	fmt.Fprintf(w, "Booked Seats: %d\n", r.BookedSeats)
	fmt.Fprintf(w, "Available Seats: %d\n", r.AvailableSeats)
	fmt.Fprintf(w, "Overall Occupancy: %.2f%%\n", r.OverallOccupancy)

	fmt.Fprintln(w, "\n--- PASSENGER STATISTICS ---")
	fmt.Fprintf(w, "Registered Passengers: %d\n", r.TotalPassengers)
	fmt.Fprintf(w, "Total Bookings: %d\n", r.TotalBookings)
	fmt.Fprintf(w, "Confirmed Bookings: %d\n", r.ConfirmedBookings)
	fmt.Fprintf(w, "Cancelled Bookings: %d\n", r.CancelledBookings)

	fmt.Fprintln(w, "\n--- FINANCIAL STATISTICS ---")
	fmt.Fprintf(w, "Total Revenue: ₹%.2f\n", r.TotalRevenue)
	fmt.Fprintf(w, "Average Booking Value: ₹%.2f\n", r.AverageBookingValue)

	fmt.Fprintln(w, "\n--- TOP ROUTES ---")
	if len(r.TopRoutes) == 0 {
		fmt.Fprintln(w, "No booking data available.")
	}
	for i, route := range r.TopRoutes {
		fmt.Fprintf(w, "%d. %s (%d bookings)\n", i+1, route.Route, route.Bookings)
	}

	fmt.Fprintln(w, "\n===========================================")
	fmt.Fprintf(w, "Report Generated on: %s\n", r.GeneratedOn)
	fmt.Fprintln(w, "===========================================")
}
