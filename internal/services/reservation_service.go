package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"airline_reservation/internal/database"
	"airline_reservation/internal/models"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// BookingDateLayout is the D/M/YYYY layout stamped on new bookings
const BookingDateLayout = "2/1/2006"

// LedgerStore loads and saves the reservation collections
type LedgerStore interface {
	LoadPassengers(ctx context.Context) ([]*models.Passenger, error)
	LoadAdmins(ctx context.Context) ([]*models.Admin, error)
	LoadFlights(ctx context.Context) ([]*models.Flight, error)
	LoadBookings(ctx context.Context) ([]*models.Booking, error)
	SavePassengers(ctx context.Context, passengers []*models.Passenger) error
	SaveAdmins(ctx context.Context, admins []*models.Admin) error
	SaveFlights(ctx context.Context, flights []*models.Flight) error
	SaveBookings(ctx context.Context, bookings []*models.Booking) error
	Close() error
}

// SearchCache stores search results between mutations
type SearchCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	InvalidateSearches(ctx context.Context) error
}

// Option configures a ReservationService
type Option func(*ReservationService)

// WithSearchCache enables caching of search results for ttl
func WithSearchCache(cache SearchCache, ttl time.Duration) Option {
	return func(s *ReservationService) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

// WithClock replaces the clock used for booking dates and reports
func WithClock(now func() time.Time) Option {
	return func(s *ReservationService) { s.now = now }
}

// WithIDGenerator replaces the identifier generator
func WithIDGenerator(ids *IDGenerator) Option {
	return func(s *ReservationService) { s.ids = ids }
}

// ReservationService owns the flights, bookings and accounts and keeps them consistent.
// Every operation runs under one lock, so a reader never observes a seat map
// that disagrees with the booking ledger.
type ReservationService struct {
	mu       sync.RWMutex
	store    LedgerStore
	cache    SearchCache
	cacheTTL time.Duration
	ids      *IDGenerator
	logger   *slog.Logger
	now      func() time.Time
	// Singleflight group to prevent cache stampede
	searchGroup singleflight.Group

	passengers []*models.Passenger
	admins     []*models.Admin
	flights    []*models.Flight
	bookings   []*models.Booking
	sessions   map[uuid.UUID]models.Session
	dirty      bool
}

// NewReservationService creates a service backed by store. Call Load before use.
func NewReservationService(store LedgerStore, logger *slog.Logger, opts ...Option) *ReservationService {
	s := &ReservationService{
		store:    store,
		ids:      NewIDGenerator(DefaultIDStart),
		logger:   logger,
		now:      time.Now,
		cacheTTL: 2 * time.Hour,
		sessions: make(map[uuid.UUID]models.Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads every collection from the store and creates the bootstrap
// admin when no admin exists.
func (s *ReservationService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if s.passengers, err = s.store.LoadPassengers(ctx); err != nil {
		return fmt.Errorf("failed to load passengers: %w", err)
	}
	if s.admins, err = s.store.LoadAdmins(ctx); err != nil {
		return fmt.Errorf("failed to load admins: %w", err)
	}
	if s.flights, err = s.store.LoadFlights(ctx); err != nil {
		return fmt.Errorf("failed to load flights: %w", err)
	}
	if s.bookings, err = s.store.LoadBookings(ctx); err != nil {
		return fmt.Errorf("failed to load bookings: %w", err)
	}

	for _, p := range s.passengers {
		s.ids.Observe(p.ID)
	}
	for _, a := range s.admins {
		s.ids.Observe(a.ID)
	}
	for _, b := range s.bookings {
		s.ids.Observe(b.ID)
	}
	s.reconcile()

	s.logger.Info("ledger loaded",
		"passengers", len(s.passengers),
		"admins", len(s.admins),
		"flights", len(s.flights),
		"bookings", len(s.bookings),
		"next_id", s.ids.Peek())

	if len(s.admins) == 0 {
		s.admins = append(s.admins, &models.Admin{
			ID:       "admin",
			Password: "admin123",
			Name:     "System Admin",
			Email:    "admin@airline.com",
			Level:    models.AdminLevelSuper,
		})
		s.logger.Info("bootstrap admin created", "admin", "admin")
		return s.persist(ctx, database.CollectionAdmins)
	}
	return nil
}

// reconcile logs confirmed bookings whose seat is not held on the flight
func (s *ReservationService) reconcile() {
	for _, b := range s.bookings {
		if !b.IsConfirmed() {
			continue
		}
		flight := s.findFlight(b.FlightNumber)
		if flight == nil {
			continue
		}
		if !flight.HasSeat(b.SeatNumber) || flight.IsSeatAvailable(b.SeatNumber) {
			s.logger.Warn("confirmed booking does not hold its seat",
				"booking", b.ID, "flight", b.FlightNumber, "seat", b.SeatNumber)
		}
	}
}

// SeedSampleFlights adds the sample schedule when the inventory is empty
func (s *ReservationService) SeedSampleFlights(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.flights) > 0 {
		return 0, nil
	}
	s.flights = append(s.flights, SampleFlights()...)
	s.logger.Info("sample flights seeded", "flights", len(s.flights))
	err := s.persist(ctx, database.CollectionFlights)
	s.invalidateSearches(ctx)
	return len(s.flights), err
}

// SampleFlights returns the default schedule used on an empty inventory
func SampleFlights() []*models.Flight {
	return []*models.Flight{
		models.NewFlight("AI101", "Air India", "New Delhi", "Mumbai", "15/10/2025", "08:00", "10:30", 48, 5500),
		models.NewFlight("AI102", "Air India", "Mumbai", "Bangalore", "15/10/2025", "11:00", "13:30", 48, 4200),
		models.NewFlight("SG201", "SpiceJet", "Bangalore", "Chennai", "16/10/2025", "14:00", "15:30", 42, 3800),
		models.NewFlight("IG301", "IndiGo", "Chennai", "Kolkata", "16/10/2025", "17:00", "19:30", 54, 6500),
		models.NewFlight("AI103", "Air India", "Delhi", "Goa", "17/10/2025", "07:00", "09:30", 36, 7200),
	}
}

// Close writes every collection and releases the store
func (s *ReservationService) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.persist(ctx, allCollections...)
	if closeErr := s.store.Close(); closeErr != nil {
		err = errors.Join(err, fmt.Errorf("failed to close store: %w", closeErr))
	}
	if err == nil {
		s.logger.Info("ledger saved")
	}
	return err
}

// allCollections is the order in which a full save writes the ledger
var allCollections = []database.Collection{
	database.CollectionBookings,
	database.CollectionFlights,
	database.CollectionPassengers,
	database.CollectionAdmins,
}

// persist writes the named collections in order. Memory stays authoritative
// when a write fails, and the next persist writes every collection.
func (s *ReservationService) persist(ctx context.Context, collections ...database.Collection) error {
	if s.dirty {
		collections = allCollections
	}
	var errs []error
	for _, c := range collections {
		var err error
		switch c {
		case database.CollectionBookings:
			err = s.store.SaveBookings(ctx, s.bookings)
		case database.CollectionFlights:
			err = s.store.SaveFlights(ctx, s.flights)
		case database.CollectionPassengers:
			err = s.store.SavePassengers(ctx, s.passengers)
		case database.CollectionAdmins:
			err = s.store.SaveAdmins(ctx, s.admins)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		s.dirty = true
		err := errors.Join(errs...)
		s.logger.Error("failed to persist ledger", "error", err)
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	s.dirty = false
	return nil
}

// invalidateSearches drops cached search results after an inventory change
func (s *ReservationService) invalidateSearches(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateSearches(ctx); err != nil {
		s.logger.Warn("failed to invalidate search cache", "error", err)
	}
}

// Dirty reports whether the last write to the store failed
func (s *ReservationService) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

func validate(req interface{}) error {
	if err := models.Validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// RegisterPassenger creates a passenger account. Emails are unique among passengers.
func (s *ReservationService) RegisterPassenger(ctx context.Context, req models.RegisterPassengerRequest) (*models.Passenger, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.PassportNumber = strings.TrimSpace(req.PassportNumber)
	if err := validate(req); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.passengers {
		if p.Email == req.Email {
			return nil, ErrEmailTaken
		}
	}

	passenger := &models.Passenger{
		ID:             s.ids.Next(PassengerIDPrefix),
		Password:       req.Password,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		PassportNumber: req.PassportNumber,
		BookingIDs:     []string{},
	}
	s.passengers = append(s.passengers, passenger)
	s.logger.Info("passenger registered", "passenger", passenger.ID)

	return passenger.Clone(), s.persist(ctx, database.CollectionPassengers)
}

// RegisterAdmin creates an admin account on behalf of a SUPER admin.
// Emails are unique among admins and the level is stored upper-case.
func (s *ReservationService) RegisterAdmin(ctx context.Context, session models.Session, req models.RegisterAdminRequest) (*models.Admin, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Level = strings.ToUpper(strings.TrimSpace(req.Level))
	if err := validate(req); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkSession(session, models.RoleAdmin); err != nil {
		return nil, err
	}
	if actor := s.findAdmin(session.AccountID); actor == nil || !actor.IsSuper() {
		return nil, fmt.Errorf("%w: only SUPER admins can register new admins", ErrNotAuthorized)
	}

	for _, a := range s.admins {
		if a.Email == req.Email {
			return nil, ErrEmailTaken
		}
	}

	admin := &models.Admin{
		ID:       s.ids.Next(AdminIDPrefix),
		Password: req.Password,
		Name:     req.Name,
		Email:    req.Email,
		Level:    req.Level,
	}
	s.admins = append(s.admins, admin)
	s.logger.Info("admin registered", "admin", admin.ID, "level", admin.Level, "by", session.AccountID)

	return admin.Clone(), s.persist(ctx, database.CollectionAdmins)
}

// Authenticate checks credentials for the given role and opens a session
func (s *ReservationService) Authenticate(ctx context.Context, role models.Role, id, password string) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var account models.Account
	switch role {
	case models.RolePassenger:
		if p := s.findPassenger(id); p != nil {
			account = p
		}
	case models.RoleAdmin:
		if a := s.findAdmin(id); a != nil {
			account = a
		}
	default:
		return models.Session{}, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	if account == nil || !account.CheckPassword(password) {
		s.logger.Warn("login failed", "role", role, "account", id)
		return models.Session{}, ErrInvalidCredentials
	}

	session := models.Session{
		Token:     uuid.New(),
		AccountID: account.AccountID(),
		Role:      account.Role(),
		Name:      accountName(account),
	}
	s.sessions[session.Token] = session
	s.logger.Info("login", "role", role, "account", id)
	return session, nil
}

func accountName(account models.Account) string {
	switch a := account.(type) {
	case *models.Passenger:
		return a.Name
	case *models.Admin:
		return a.Name
	}
	return ""
}

// Logout revokes the session
func (s *ReservationService) Logout(ctx context.Context, session models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[session.Token]; !ok {
		return ErrInvalidSession
	}
	delete(s.sessions, session.Token)
	s.logger.Info("logout", "account", session.AccountID)
	return nil
}

// ResolveSession returns the live session for token
func (s *ReservationService) ResolveSession(token uuid.UUID) (models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[token]
	if !ok {
		return models.Session{}, ErrInvalidSession
	}
	return session, nil
}

// Profile returns a copy of the session's account
func (s *ReservationService) Profile(session models.Session) (models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkSession(session, session.Role); err != nil {
		return nil, err
	}
	switch session.Role {
	case models.RolePassenger:
		if p := s.findPassenger(session.AccountID); p != nil {
			return p.Clone(), nil
		}
	case models.RoleAdmin:
		if a := s.findAdmin(session.AccountID); a != nil {
			return a.Clone(), nil
		}
	}
	return nil, ErrInvalidSession
}

// checkSession verifies that session is live and belongs to role. Callers hold the lock.
func (s *ReservationService) checkSession(session models.Session, role models.Role) error {
	stored, ok := s.sessions[session.Token]
	if !ok || stored.AccountID != session.AccountID || stored.Role != session.Role {
		return ErrInvalidSession
	}
	if stored.Role != role {
		return ErrNotAuthorized
	}
	return nil
}

// SearchFlights returns flights matching origin, destination and date exactly
// that still have an available seat.
func (s *ReservationService) SearchFlights(ctx context.Context, origin, destination, date string) ([]*models.Flight, error) {
	cacheKey := database.GenerateSearchCacheKey(origin, destination, date)

	if s.cache != nil {
		var cached []*models.Flight
		err := s.cache.GetJSON(ctx, cacheKey, &cached)
		if err == nil {
			s.logger.Debug("search cache hit", "key", cacheKey)
			return cached, nil
		}
		if !errors.Is(err, database.ErrCacheMiss) {
			s.logger.Warn("search cache read failed", "key", cacheKey, "error", err)
		}
	}

	result, err, _ := s.searchGroup.Do(cacheKey, func() (interface{}, error) {
		s.mu.RLock()
		defer s.mu.RUnlock()

		matches := []*models.Flight{}
		for _, f := range s.flights {
			if f.Matches(origin, destination, date) {
				matches = append(matches, f.Clone())
			}
		}
		// Written under the read lock so no mutation can invalidate between read and write.
		if s.cache != nil {
			if err := s.cache.SetJSON(ctx, cacheKey, matches, s.cacheTTL); err != nil {
				s.logger.Warn("failed to cache search results", "key", cacheKey, "error", err)
			}
		}
		return matches, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search flights: %w", err)
	}

	shared := result.([]*models.Flight)
	flights := make([]*models.Flight, len(shared))
	for i, f := range shared {
		flights[i] = f.Clone()
	}
	return flights, nil
}

// ListFlights returns every flight in inventory order
func (s *ReservationService) ListFlights(ctx context.Context) []*models.Flight {
	s.mu.RLock()
	defer s.mu.RUnlock()

	flights := make([]*models.Flight, len(s.flights))
	for i, f := range s.flights {
		flights[i] = f.Clone()
	}
	return flights
}

// GetFlight returns a copy of one flight
func (s *ReservationService) GetFlight(ctx context.Context, flightNumber string) (*models.Flight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f := s.findFlight(flightNumber)
	if f == nil {
		return nil, ErrFlightNotFound
	}
	return f.Clone(), nil
}

// BookSeat books seat on flightNumber for the session's passenger. The seat
// flip, ledger append and passenger back-reference happen in one critical section.
func (s *ReservationService) BookSeat(ctx context.Context, session models.Session, flightNumber, seat string) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkSession(session, models.RolePassenger); err != nil {
		return nil, err
	}
	passenger := s.findPassenger(session.AccountID)
	if passenger == nil {
		return nil, ErrInvalidSession
	}

	flight := s.findFlight(flightNumber)
	if flight == nil {
		return nil, ErrFlightNotFound
	}
	if flight.AvailableSeatsCount() <= 0 {
		return nil, ErrNoSeatsAvailable
	}
	if !flight.IsSeatAvailable(seat) {
		return nil, fmt.Errorf("%w: %s on %s", ErrSeatUnavailable, seat, flightNumber)
	}

	booking := &models.Booking{
		ID:           s.ids.Next(BookingIDPrefix),
		PassengerID:  passenger.ID,
		FlightNumber: flight.FlightNumber,
		SeatNumber:   seat,
		BookingDate:  s.now().Format(BookingDateLayout),
		Fare:         flight.BaseFare,
		Status:       models.BookingStatusConfirmed,
	}
	if !flight.BookSeat(seat) {
		return nil, fmt.Errorf("%w: %s on %s", ErrSeatUnavailable, seat, flightNumber)
	}
	s.bookings = append(s.bookings, booking)
	passenger.AddBooking(booking.ID)

	s.logger.Info("seat booked",
		"booking", booking.ID, "passenger", passenger.ID,
		"flight", flight.FlightNumber, "seat", seat, "fare", booking.Fare)

	err := s.persist(ctx, database.CollectionBookings, database.CollectionFlights, database.CollectionPassengers)
	s.invalidateSearches(ctx)
	return booking.Clone(), err
}

// CancelBooking cancels a confirmed booking owned by the session's passenger
// and frees its seat. A booking whose flight was removed is still cancelled.
func (s *ReservationService) CancelBooking(ctx context.Context, session models.Session, bookingID string) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkSession(session, models.RolePassenger); err != nil {
		return nil, err
	}

	booking := s.findBooking(bookingID)
	if booking == nil || booking.PassengerID != session.AccountID || !booking.CanCancel() {
		return nil, ErrBookingNotFound
	}

	if flight := s.findFlight(booking.FlightNumber); flight != nil {
		if !flight.CancelSeat(booking.SeatNumber) {
			s.logger.Warn("cancelled booking did not hold its seat",
				"booking", booking.ID, "flight", booking.FlightNumber, "seat", booking.SeatNumber)
		}
	} else {
		s.logger.Warn("cancelling booking for removed flight", "booking", booking.ID, "flight", booking.FlightNumber)
	}

	if err := booking.Cancel(); err != nil {
		return nil, err
	}
	if passenger := s.findPassenger(booking.PassengerID); passenger != nil {
		passenger.RemoveBooking(booking.ID)
	}

	s.logger.Info("booking cancelled",
		"booking", booking.ID, "passenger", booking.PassengerID,
		"flight", booking.FlightNumber, "seat", booking.SeatNumber, "refund", booking.Fare)

	err := s.persist(ctx, database.CollectionBookings, database.CollectionFlights, database.CollectionPassengers)
	s.invalidateSearches(ctx)
	return booking.Clone(), err
}

// MyBookings lists the session passenger's bookings in booking order
func (s *ReservationService) MyBookings(ctx context.Context, session models.Session) ([]*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkSession(session, models.RolePassenger); err != nil {
		return nil, err
	}
	passenger := s.findPassenger(session.AccountID)
	if passenger == nil {
		return nil, ErrInvalidSession
	}

	bookings := []*models.Booking{}
	for _, id := range passenger.BookingIDs {
		if b := s.findBooking(id); b != nil {
			bookings = append(bookings, b.Clone())
		}
	}
	return bookings, nil
}

// AddFlight adds a flight with every seat available. Flight numbers are unique.
func (s *ReservationService) AddFlight(ctx context.Context, session models.Session, req models.AddFlightRequest) (*models.Flight, error) {
	req.FlightNumber = strings.TrimSpace(req.FlightNumber)
	if err := validate(req); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkSession(session, models.RoleAdmin); err != nil {
		return nil, err
	}
	if s.findFlight(req.FlightNumber) != nil {
		return nil, ErrFlightAlreadyExists
	}

	flight := models.NewFlight(req.FlightNumber, req.Airline, req.Origin, req.Destination,
		req.DepartureDate, req.DepartureTime, req.ArrivalTime, req.TotalSeats, req.BaseFare)
	s.flights = append(s.flights, flight)
	s.logger.Info("flight added", "flight", flight.FlightNumber, "route", flight.Route(), "seats", flight.TotalSeats())

	err := s.persist(ctx, database.CollectionFlights)
	s.invalidateSearches(ctx)
	return flight.Clone(), err
}

// RemoveFlight deletes a flight that has no confirmed bookings. Cancelled
// bookings keep referencing the removed flight.
func (s *ReservationService) RemoveFlight(ctx context.Context, session models.Session, flightNumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkSession(session, models.RoleAdmin); err != nil {
		return err
	}
	i := slices.IndexFunc(s.flights, func(f *models.Flight) bool { return f.FlightNumber == flightNumber })
	if i < 0 {
		return ErrFlightNotFound
	}
	for _, b := range s.bookings {
		if b.FlightNumber == flightNumber && b.IsConfirmed() {
			return ErrFlightHasActiveBookings
		}
	}

	s.flights = slices.Delete(s.flights, i, i+1)
	s.logger.Info("flight removed", "flight", flightNumber)

	err := s.persist(ctx, database.CollectionFlights)
	s.invalidateSearches(ctx)
	return err
}

// ListBookings returns the whole ledger and its summary
func (s *ReservationService) ListBookings(ctx context.Context, session models.Session) ([]*models.Booking, models.BookingSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkSession(session, models.RoleAdmin); err != nil {
		return nil, models.BookingSummary{}, err
	}
	bookings := make([]*models.Booking, len(s.bookings))
	for i, b := range s.bookings {
		bookings[i] = b.Clone()
	}
	return bookings, SummarizeBookings(s.bookings), nil
}

// ListPassengers returns every registered passenger
func (s *ReservationService) ListPassengers(ctx context.Context, session models.Session) ([]*models.Passenger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkSession(session, models.RoleAdmin); err != nil {
		return nil, err
	}
	passengers := make([]*models.Passenger, len(s.passengers))
	for i, p := range s.passengers {
		passengers[i] = p.Clone()
	}
	return passengers, nil
}

func (s *ReservationService) findFlight(number string) *models.Flight {
	for _, f := range s.flights {
		if f.FlightNumber == number {
			return f
		}
	}
	return nil
}

func (s *ReservationService) findBooking(id string) *models.Booking {
	for _, b := range s.bookings {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func (s *ReservationService) findPassenger(id string) *models.Passenger {
	for _, p := range s.passengers {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *ReservationService) findAdmin(id string) *models.Admin {
	for _, a := range s.admins {
		if a.ID == id {
			return a
		}
	}
	return nil
}
