// Package console implements the interactive terminal front end.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"airline_reservation/internal/models"
	"airline_reservation/internal/services"
)

// errInputClosed unwinds every menu when the input stream ends
var errInputClosed = errors.New("input closed")

// Console drives the reservation menus over a line-oriented stream
type Console struct {
	service services.ReservationManager
	in      *bufio.Scanner
	out     io.Writer
	logger  *slog.Logger
}

// New creates a console reading commands from in and writing to out
func New(service services.ReservationManager, in io.Reader, out io.Writer, logger *slog.Logger) *Console {
	return &Console{
		service: service,
		in:      bufio.NewScanner(in),
		out:     out,
		logger:  logger,
	}
}

// Run shows the main menu until the user exits or the input ends
func (c *Console) Run(ctx context.Context) error {
	err := c.mainMenu(ctx)
	if errors.Is(err, errInputClosed) {
		return nil
	}
	return err
}

func (c *Console) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

// prompt writes label and returns the next trimmed input line
func (c *Console) prompt(label string) (string, error) {
	c.printf("%s", label)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", errInputClosed
	}
	return strings.TrimSpace(c.in.Text()), nil
}

// promptValid re-prompts with retry until value satisfies the validator tag
func (c *Console) promptValid(label, retry, tag string) (string, error) {
	value, err := c.prompt(label)
	for err == nil && models.Validate.Var(value, tag) != nil {
		value, err = c.prompt(retry)
	}
	return value, err
}

func (c *Console) promptInt(label string) (int, error) {
	for {
		value, err := c.prompt(label)
		if err != nil {
			return 0, err
		}
		if n, convErr := strconv.Atoi(value); convErr == nil {
			return n, nil
		}
		label = "Invalid number! Enter again: "
	}
}

func (c *Console) promptFloat(label string) (float64, error) {
	for {
		value, err := c.prompt(label)
		if err != nil {
			return 0, err
		}
		if f, convErr := strconv.ParseFloat(value, 64); convErr == nil {
			return f, nil
		}
		label = "Invalid amount! Enter again: "
	}
}

// reportSaveFailure tells the user a change is held in memory only
func (c *Console) reportSaveFailure(err error) {
	c.logger.Error("ledger save failed", "error", err)
	c.printf("WARNING: Changes could not be saved (%v). They will be retried on the next change.\n", err)
}

func (c *Console) mainMenu(ctx context.Context) error {
	for {
		writeBanner(c.out, "AIRLINE RESERVATION SYSTEM")
		c.println("         (Pro Level Edition)        ")
		c.println("\n1. Passenger Login")
		c.println("2. Passenger Registration")
		c.println("3. Admin Login")
		c.println("4. Exit")
		c.println("-------------------------------------")
		choice, err := c.prompt("Enter choice: ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = c.login(ctx, models.RolePassenger)
		case "2":
			err = c.registerPassenger(ctx)
		case "3":
			err = c.login(ctx, models.RoleAdmin)
		case "4":
			c.println("\nThank you for using Airline Reservation System!")
			c.printf("Safe travels!\n\n")
			return nil
		default:
			c.println("\nInvalid choice! Please try again.")
		}
		if err != nil {
			return err
		}
	}
}

func (c *Console) login(ctx context.Context, role models.Role) error {
	title, failure := "PASSENGER LOGIN", "\nERROR: Invalid credentials!"
	if role == models.RoleAdmin {
		title, failure = "ADMIN LOGIN", "\nERROR: Invalid admin credentials!"
	}
	writeBanner(c.out, title)

	id, err := c.prompt("\nUser ID: ")
	if err != nil {
		return err
	}
	password, err := c.prompt("Password: ")
	if err != nil {
		return err
	}

	session, err := c.service.Authenticate(ctx, role, id, password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.println(failure)
			return nil
		}
		return err
	}

	if role == models.RoleAdmin {
		c.printf("\nSUCCESS: Admin Login Successful! Welcome, %s\n", session.Name)
		err = c.adminMenu(ctx, session)
	} else {
		c.printf("\nSUCCESS: Login Successful! Welcome, %s\n", session.Name)
		err = c.passengerMenu(ctx, session)
	}
	if logoutErr := c.service.Logout(ctx, session); logoutErr != nil && !errors.Is(logoutErr, services.ErrInvalidSession) {
		c.logger.Warn("logout failed", "account", session.AccountID, "error", logoutErr)
	}
	return err
}

func (c *Console) registerPassenger(ctx context.Context) error {
	writeBanner(c.out, "PASSENGER REGISTRATION")

	var req models.RegisterPassengerRequest
	var err error
	if req.Name, err = c.prompt("\nEnter Full Name: "); err != nil {
		return err
	}
	if req.Email, err = c.promptValid("Enter Email: ", "Invalid email format! Enter again: ", "required,email"); err != nil {
		return err
	}
	if req.Phone, err = c.promptValid("Enter Phone: ", "Invalid phone number! Enter 10 digits: ", "required,number,min=10"); err != nil {
		return err
	}
	if req.PassportNumber, err = c.prompt("Enter Passport Number: "); err != nil {
		return err
	}
	if req.Password, err = c.promptValid("Enter Password: ", "Password too short! Minimum 4 characters: ", "required,min=4"); err != nil {
		return err
	}

	passenger, err := c.service.RegisterPassenger(ctx, req)
	switch {
	case errors.Is(err, services.ErrEmailTaken):
		c.println("\nERROR: Email already registered!")
		return nil
	case errors.Is(err, services.ErrValidation):
		c.printf("\nERROR: %v\n", err)
		return nil
	case err != nil && passenger == nil:
		return err
	case err != nil:
		c.reportSaveFailure(err)
	}

	c.println("\nSUCCESS: Registration Successful!")
	c.printf("Your User ID: %s\n", passenger.ID)
	c.println("Please remember your credentials.")
	return nil
}

func (c *Console) passengerMenu(ctx context.Context, session models.Session) error {
	for {
		writeBanner(c.out, "PASSENGER DASHBOARD")
		c.printf("\nWelcome, %s!\n", session.Name)
		c.println("\n1. Search Flights")
		c.println("2. View All Flights")
		c.println("3. Book a Flight")
		c.println("4. View My Bookings")
		c.println("5. Cancel Booking")
		c.println("6. My Profile")
		c.println("7. Logout")
		c.println("----------------------------------")
		choice, err := c.prompt("Enter choice: ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = c.searchFlights(ctx)
		case "2":
			c.viewAllFlights(ctx)
		case "3":
			err = c.bookFlight(ctx, session)
		case "4":
			err = c.viewMyBookings(ctx, session)
		case "5":
			err = c.cancelBooking(ctx, session)
		case "6":
			err = c.showProfile(session)
		case "7":
			c.println("\nLogged out successfully!")
			return nil
		default:
			c.println("\nInvalid choice!")
		}
		if err != nil {
			return err
		}
	}
}

func (c *Console) searchFlights(ctx context.Context) error {
	writeBanner(c.out, "SEARCH FLIGHTS")

	origin, err := c.prompt("\nOrigin City: ")
	if err != nil {
		return err
	}
	destination, err := c.prompt("Destination City: ")
	if err != nil {
		return err
	}
	date, err := c.prompt("Date (DD/MM/YYYY): ")
	if err != nil {
		return err
	}

	flights, err := c.service.SearchFlights(ctx, origin, destination, date)
	if err != nil {
		return err
	}
	c.println("\n*** SEARCH RESULTS ***")
	for _, f := range flights {
		writeFlightInfo(c.out, f)
	}
	if len(flights) == 0 {
		c.println("\nNo flights found matching your criteria.")
	}
	return nil
}

func (c *Console) viewAllFlights(ctx context.Context) []*models.Flight {
	writeBanner(c.out, "AVAILABLE FLIGHTS")

	flights := c.service.ListFlights(ctx)
	if len(flights) == 0 {
		c.println("\nNo flights available.")
		return nil
	}
	for i, f := range flights {
		c.printf("\n%d. ", i+1)
		writeFlightInfo(c.out, f)
	}
	return flights
}

func (c *Console) bookFlight(ctx context.Context, session models.Session) error {
	if flights := c.viewAllFlights(ctx); len(flights) == 0 {
		return nil
	}

	number, err := c.prompt("\nEnter Flight Number to book: ")
	if err != nil {
		return err
	}
	flight, err := c.service.GetFlight(ctx, number)
	if errors.Is(err, services.ErrFlightNotFound) {
		c.println("\nERROR: Flight not found!")
		return nil
	}
	if err != nil {
		return err
	}
	if flight.AvailableSeatsCount() <= 0 {
		c.println("\nERROR: No seats available!")
		return nil
	}

	writeSeatMap(c.out, flight)
	c.printf("\nAvailable Seats: %s\n", strings.Join(flight.AvailableSeats(), ", "))

	seat, err := c.prompt("\nEnter Seat Number (e.g., A1): ")
	if err != nil {
		return err
	}

	booking, err := c.service.BookSeat(ctx, session, number, models.NormalizeSeat(seat))
	switch {
	case errors.Is(err, services.ErrSeatUnavailable):
		c.println("\nERROR: Seat not available!")
		return nil
	case errors.Is(err, services.ErrNoSeatsAvailable):
		c.println("\nERROR: No seats available!")
		return nil
	case errors.Is(err, services.ErrFlightNotFound):
		c.println("\nERROR: Flight not found!")
		return nil
	case err != nil && booking == nil:
		c.printf("\nERROR: Booking failed! %v\n", err)
		return nil
	case err != nil:
		c.reportSaveFailure(err)
	}

	c.println("\n*** BOOKING SUCCESSFUL! ***")
	writeBookingInfo(c.out, booking)
	return nil
}

func (c *Console) viewMyBookings(ctx context.Context, session models.Session) error {
	writeBanner(c.out, "MY BOOKINGS")

	bookings, err := c.service.MyBookings(ctx, session)
	if err != nil {
		return err
	}
	if len(bookings) == 0 {
		c.println("\nNo bookings found.")
		return nil
	}
	for _, b := range bookings {
		writeBookingInfo(c.out, b)
	}
	return nil
}

func (c *Console) cancelBooking(ctx context.Context, session models.Session) error {
	if err := c.viewMyBookings(ctx, session); err != nil {
		return err
	}

	id, err := c.prompt("\nEnter Booking ID to cancel: ")
	if err != nil {
		return err
	}

	booking, err := c.service.CancelBooking(ctx, session, id)
	switch {
	case errors.Is(err, services.ErrBookingNotFound):
		c.println("\nERROR: Booking not found or already cancelled!")
		return nil
	case err != nil && booking == nil:
		return err
	case err != nil:
		c.reportSaveFailure(err)
	}

	c.println("\nSUCCESS: Booking Cancelled Successfully!")
	c.printf("Refund of ₹%.2f will be processed.\n", booking.Fare)
	return nil
}

func (c *Console) showProfile(session models.Session) error {
	account, err := c.service.Profile(session)
	if err != nil {
		return err
	}
	c.println("\n=== MY PROFILE ===")
	c.printf("%s", account.Describe())
	return nil
}

func (c *Console) adminMenu(ctx context.Context, session models.Session) error {
	for {
		writeBanner(c.out, "ADMIN DASHBOARD")
		c.printf("\nWelcome, %s!\n", session.Name)
		c.println("\n1. Add New Flight")
		c.println("2. Remove Flight")
		c.println("3. View All Flights")
		c.println("4. View All Bookings")
		c.println("5. View All Passengers")
		c.println("6. Flight Occupancy Report")
		c.println("7. Generate System Reports")
		c.println("8. Register New Admin")
		c.println("9. Logout")
		c.println("-------------------------------------")
		choice, err := c.prompt("Enter choice: ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = c.addFlight(ctx, session)
		case "2":
			err = c.removeFlight(ctx, session)
		case "3":
			c.viewAllFlights(ctx)
		case "4":
			err = c.viewAllBookings(ctx, session)
		case "5":
			err = c.viewAllPassengers(ctx, session)
		case "6":
			err = c.viewOccupancy(ctx, session)
		case "7":
			err = c.generateReport(ctx, session)
		case "8":
			err = c.registerAdmin(ctx, session)
		case "9":
			c.println("\nLogged out successfully!")
			return nil
		default:
			c.println("\nInvalid choice!")
		}
		if err != nil {
			return err
		}
	}
}

func (c *Console) addFlight(ctx context.Context, session models.Session) error {
	writeBanner(c.out, "ADD NEW FLIGHT")

	var req models.AddFlightRequest
	fields := []struct {
		label string
		dest  *string
	}{
		{"\nFlight Number: ", &req.FlightNumber},
		{"Airline Name: ", &req.Airline},
		{"Origin: ", &req.Origin},
		{"Destination: ", &req.Destination},
		{"Date (DD/MM/YYYY): ", &req.DepartureDate},
		{"Departure Time (HH:MM): ", &req.DepartureTime},
		{"Arrival Time (HH:MM): ", &req.ArrivalTime},
	}
	var err error
	for _, field := range fields {
		if *field.dest, err = c.prompt(field.label); err != nil {
			return err
		}
	}
	if req.TotalSeats, err = c.promptInt("Total Seats: "); err != nil {
		return err
	}
	if req.BaseFare, err = c.promptFloat("Base Fare (₹): "); err != nil {
		return err
	}

	flight, err := c.service.AddFlight(ctx, session, req)
	switch {
	case errors.Is(err, services.ErrFlightAlreadyExists):
		c.println("\nERROR: Flight number already exists!")
		return nil
	case errors.Is(err, services.ErrValidation):
		c.printf("\nERROR: %v\n", err)
		return nil
	case err != nil && flight == nil:
		return err
	case err != nil:
		c.reportSaveFailure(err)
	}

	c.println("\nSUCCESS: Flight Added Successfully!")
	return nil
}

func (c *Console) removeFlight(ctx context.Context, session models.Session) error {
	if flights := c.viewAllFlights(ctx); len(flights) == 0 {
		return nil
	}

	number, err := c.prompt("\nEnter Flight Number to remove: ")
	if err != nil {
		return err
	}

	err = c.service.RemoveFlight(ctx, session, number)
	switch {
	case errors.Is(err, services.ErrFlightNotFound):
		c.println("\nERROR: Flight not found!")
		return nil
	case errors.Is(err, services.ErrFlightHasActiveBookings):
		c.println("\nERROR: Cannot remove flight with active bookings!")
		return nil
	case errors.Is(err, services.ErrPersistence):
		c.reportSaveFailure(err)
	case err != nil:
		return err
	}

	c.println("\nSUCCESS: Flight Removed Successfully!")
	return nil
}

func (c *Console) viewAllBookings(ctx context.Context, session models.Session) error {
	writeBanner(c.out, "ALL BOOKINGS (ADMIN)")

	bookings, summary, err := c.service.ListBookings(ctx, session)
	if err != nil {
		return err
	}
	if len(bookings) == 0 {
		c.println("\nNo bookings found.")
		return nil
	}
	for _, b := range bookings {
		writeBookingInfo(c.out, b)
	}
	writeBookingSummary(c.out, summary)
	return nil
}

func (c *Console) viewAllPassengers(ctx context.Context, session models.Session) error {
	writeBanner(c.out, "ALL PASSENGERS (ADMIN)")

	passengers, err := c.service.ListPassengers(ctx, session)
	if err != nil {
		return err
	}
	if len(passengers) == 0 {
		c.println("\nNo passengers registered.")
		return nil
	}
	for i, p := range passengers {
		c.printf("\n--- Passenger %d ---\n", i+1)
		c.printf("%s", p.Describe())
	}
	c.printf("\n\nTotal Passengers: %d\n", len(passengers))
	return nil
}

func (c *Console) viewOccupancy(ctx context.Context, session models.Session) error {
	writeBanner(c.out, "FLIGHT OCCUPANCY REPORT")

	report, err := c.service.OccupancyReport(ctx, session)
	if err != nil {
		return err
	}
	if len(report.Flights) == 0 {
		c.println("\nNo flights available.")
		return nil
	}
	for _, fo := range report.Flights {
		writeOccupancy(c.out, fo)
	}
	return nil
}

func (c *Console) generateReport(ctx context.Context, session models.Session) error {
	writeBanner(c.out, "SYSTEM REPORTS")

	report, err := c.service.SystemReport(ctx, session)
	if err != nil {
		return err
	}
	writeSystemReport(c.out, report)
	return nil
}

func (c *Console) registerAdmin(ctx context.Context, session models.Session) error {
	account, err := c.service.Profile(session)
	if err != nil {
		return err
	}
	if admin, ok := account.(*models.Admin); !ok || !admin.IsSuper() {
		c.println("\nERROR: Only SUPER admins can register new admins!")
		return nil
	}

	writeBanner(c.out, "ADMIN REGISTRATION")

	var req models.RegisterAdminRequest
	if req.Name, err = c.prompt("\nEnter Full Name: "); err != nil {
		return err
	}
	if req.Email, err = c.promptValid("Enter Email: ", "Invalid email format! Enter again: ", "required,email"); err != nil {
		return err
	}
	if req.Password, err = c.promptValid("Enter Password: ", "Password too short! Minimum 4 characters: ", "required,min=4"); err != nil {
		return err
	}
	if req.Level, err = c.prompt("Enter Admin Level (SUPER/REGULAR): "); err != nil {
		return err
	}

	admin, err := c.service.RegisterAdmin(ctx, session, req)
	switch {
	case errors.Is(err, services.ErrEmailTaken):
		c.println("\nERROR: Email already registered!")
		return nil
	case errors.Is(err, services.ErrNotAuthorized):
		c.println("\nERROR: Only SUPER admins can register new admins!")
		return nil
	case errors.Is(err, services.ErrValidation):
		c.printf("\nERROR: %v\n", err)
		return nil
	case err != nil && admin == nil:
		return err
	case err != nil:
		c.reportSaveFailure(err)
	}

	c.println("\nSUCCESS: Admin Registration Successful!")
	c.printf("Admin ID: %s\n", admin.ID)
	return nil
}
