package services

import (
	"context"
	"sort"

	"airline_reservation/internal/models"
)

// TopRoutesLimit is the number of routes in the popularity ranking
const TopRoutesLimit = 5

// SummarizeBookings counts bookings by status. Revenue only includes confirmed bookings.
func SummarizeBookings(bookings []*models.Booking) models.BookingSummary {
	summary := models.BookingSummary{TotalBookings: len(bookings)}
	for _, b := range bookings {
		if b.IsConfirmed() {
			summary.ConfirmedBookings++
			summary.TotalRevenue += b.Fare
		} else {
			summary.CancelledBookings++
		}
	}
	return summary
}

// TopRoutes ranks routes by confirmed bookings, highest first. Routes with the
// same count are listed in route name order.
// Bookings whose flight no longer exists are ignored.
func TopRoutes(flights []*models.Flight, bookings []*models.Booking, limit int) []models.RouteCount {
	routeOf := make(map[string]string, len(flights))
	for _, f := range flights {
		routeOf[f.FlightNumber] = f.Route()
	}

	var routes []models.RouteCount
	position := make(map[string]int)
	for _, b := range bookings {
		if !b.IsConfirmed() {
			continue
		}
		route, ok := routeOf[b.FlightNumber]
		if !ok {
			continue
		}
		i, seen := position[route]
		if !seen {
			i = len(routes)
			position[route] = i
			routes = append(routes, models.RouteCount{Route: route})
		}
		routes[i].Bookings++
	}

	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Bookings != routes[j].Bookings {
			return routes[i].Bookings > routes[j].Bookings
		}
		return routes[i].Route < routes[j].Route
	})
	if limit >= 0 && len(routes) > limit {
		routes = routes[:limit]
	}
	return routes
}

// BuildOccupancyReport computes per-flight and fleet-wide occupancy
func BuildOccupancyReport(flights []*models.Flight) models.OccupancyReport {
	report := models.OccupancyReport{Flights: make([]models.FlightOccupancy, 0, len(flights))}
	for _, f := range flights {
		report.Flights = append(report.Flights, models.FlightOccupancy{
			FlightNumber:   f.FlightNumber,
			Route:          f.Route(),
			TotalSeats:     f.TotalSeats(),
			BookedSeats:    f.BookedSeatsCount(),
			AvailableSeats: f.AvailableSeatsCount(),
			Occupancy:      f.Occupancy(),
		})
		report.TotalSeats += f.TotalSeats()
		report.BookedSeats += f.BookedSeatsCount()
	}
	if report.TotalSeats > 0 {
		report.OverallOccupancy = float64(report.BookedSeats) * 100 / float64(report.TotalSeats)
	}
	return report
}

// BuildSystemReport aggregates fleet, passenger and revenue statistics
func BuildSystemReport(flights []*models.Flight, passengerCount int, bookings []*models.Booking) models.SystemReport {
	occupancy := BuildOccupancyReport(flights)
	summary := SummarizeBookings(bookings)

	report := models.SystemReport{
		TotalFlights:      len(flights),
		TotalSeats:        occupancy.TotalSeats,
		BookedSeats:       occupancy.BookedSeats,
		AvailableSeats:    occupancy.TotalSeats - occupancy.BookedSeats,
		OverallOccupancy:  occupancy.OverallOccupancy,
		TotalPassengers:   passengerCount,
		TotalBookings:     summary.TotalBookings,
		ConfirmedBookings: summary.ConfirmedBookings,
		CancelledBookings: summary.CancelledBookings,
		TotalRevenue:      summary.TotalRevenue,
		TopRoutes:         TopRoutes(flights, bookings, TopRoutesLimit),
	}
	if summary.ConfirmedBookings > 0 {
		report.AverageBookingValue = summary.TotalRevenue / float64(summary.ConfirmedBookings)
	}
	return report
}

// SystemReport returns the admin overview of the ledger
func (s *ReservationService) SystemReport(ctx context.Context, session models.Session) (models.SystemReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkSession(session, models.RoleAdmin); err != nil {
		return models.SystemReport{}, err
	}
	report := BuildSystemReport(s.flights, len(s.passengers), s.bookings)
	report.GeneratedOn = s.now().Format(BookingDateLayout)
	return report, nil
}

// OccupancyReport returns the load of every flight
func (s *ReservationService) OccupancyReport(ctx context.Context, session models.Session) (models.OccupancyReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkSession(session, models.RoleAdmin); err != nil {
		return models.OccupancyReport{}, err
	}
	return BuildOccupancyReport(s.flights), nil
}
