package models

// RouteCount is one entry of the popular routes ranking
type RouteCount struct {
	Route    string `json:"route"`
	Bookings int    `json:"bookings"`
}

// FlightOccupancy reports the load of a single flight
type FlightOccupancy struct {
	FlightNumber   string  `json:"flight_number"`
	Route          string  `json:"route"`
	TotalSeats     int     `json:"total_seats"`
	BookedSeats    int     `json:"booked_seats"`
	AvailableSeats int     `json:"available_seats"`
	Occupancy      float64 `json:"occupancy"`
}

// OccupancyReport aggregates flight load across the inventory
type OccupancyReport struct {
	Flights          []FlightOccupancy `json:"flights"`
	TotalSeats       int               `json:"total_seats"`
	BookedSeats      int               `json:"booked_seats"`
	OverallOccupancy float64           `json:"overall_occupancy"`
}

// SystemReport is the admin overview of the ledger
type SystemReport struct {
	TotalFlights        int          `json:"total_flights"`
	TotalSeats          int          `json:"total_seats"`
	BookedSeats         int          `json:"booked_seats"`
	AvailableSeats      int          `json:"available_seats"`
	OverallOccupancy    float64      `json:"overall_occupancy"`
	TotalPassengers     int          `json:"total_passengers"`
	TotalBookings       int          `json:"total_bookings"`
	ConfirmedBookings   int          `json:"confirmed_bookings"`
	CancelledBookings   int          `json:"cancelled_bookings"`
	TotalRevenue        float64      `json:"total_revenue"`
	AverageBookingValue float64      `json:"average_booking_value"`
	TopRoutes           []RouteCount `json:"top_routes"`
	GeneratedOn         string       `json:"generated_on"`
}
