package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"airline_reservation/internal/handlers"
	"airline_reservation/internal/models"
	"golang.org/x/sync/errgroup"
)

type StressTest struct {
	client  *http.Client
	baseURL string
	logger  *slog.Logger
}

type TestResult struct {
	TestName   string
	Success    bool
	Error      string
	Duration   time.Duration
	StatusCode int
}

type ValidationResult struct {
	TotalTests  int
	PassedTests int
	FailedTests int
	Results     []TestResult
}

func (v *ValidationResult) add(result TestResult) {
	v.TotalTests++
	if result.Success {
		v.PassedTests++
	} else {
		v.FailedTests++
	}
	v.Results = append(v.Results, result)
}

func NewStressTest(baseURL string, logger *slog.Logger) *StressTest {
	return &StressTest{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: baseURL,
		logger:  logger,
	}
}

// call sends a JSON request and decodes the response into out when it is non-nil
func (st *StressTest) call(ctx context.Context, method, path, token string, body, out interface{}) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, st.baseURL+path, reader)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(handlers.SessionHeader, token)
	}

	resp, err := st.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < http.StatusBadRequest {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func (st *StressTest) login(ctx context.Context, role models.Role, id, password string) (string, error) {
	var session models.Session
	status, err := st.call(ctx, http.MethodPost, "/api/sessions", "", models.LoginRequest{Role: role, ID: id, Password: password}, &session)
	if err != nil {
		return "", err
	}
	if status != http.StatusCreated {
		return "", fmt.Errorf("login %s: status %d", id, status)
	}
	return session.Token.String(), nil
}

// setupFlight creates a fresh flight so every run races on an empty seat map
func (st *StressTest) setupFlight(ctx context.Context, adminToken string, seats int) (*models.Flight, error) {
	req := models.AddFlightRequest{
		FlightNumber:  fmt.Sprintf("ST%d", time.Now().Unix()%100000),
		Airline:       "Stress Air",
		Origin:        "Testville",
		Destination:   "Loadtown",
		DepartureDate: "1/1/2030",
		DepartureTime: "09:00",
		ArrivalTime:   "10:00",
		TotalSeats:    seats,
		BaseFare:      1000,
	}
	var flight models.Flight
	status, err := st.call(ctx, http.MethodPost, "/api/flights", adminToken, req, &flight)
	if err != nil {
		return nil, err
	}
	if status != http.StatusCreated {
		return nil, fmt.Errorf("add flight: status %d", status)
	}
	return &flight, nil
}

// registerPassengers creates and logs in users passengers concurrently
func (st *StressTest) registerPassengers(ctx context.Context, users int) ([]string, error) {
	tokens := make([]string, users)
	runID := time.Now().UnixNano()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(10)
	for i := 0; i < users; i++ {
		i := i
		g.Go(func() error {
			req := models.RegisterPassengerRequest{
				Name:           fmt.Sprintf("Stress User %d", i),
				Email:          fmt.Sprintf("stress-%d-%d@example.com", runID, i),
				Phone:          "9000000000",
				PassportNumber: fmt.Sprintf("ST%07d", i),
				Password:       "stress",
			}
			var passenger models.Passenger
			status, err := st.call(ctx, http.MethodPost, "/api/passengers", "", req, &passenger)
			if err != nil {
				return err
			}
			if status != http.StatusCreated {
				return fmt.Errorf("register passenger %d: status %d", i, status)
			}
			token, err := st.login(ctx, models.RolePassenger, passenger.ID, "stress")
			if err != nil {
				return err
			}
			tokens[i] = token
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tokens, nil
}

// runSeatRaceTest has every passenger try to book seats in a random order.
// Each attempt must end in 201 (won the seat) or 409 (someone else did).
func (st *StressTest) runSeatRaceTest(ctx context.Context, flight *models.Flight, tokens []string, attempts int) (ValidationResult, map[string][]string) {
	st.logger.Info("Starting seat race test", "users", len(tokens), "attempts_per_user", attempts, "flight", flight.FlightNumber)

	seats := models.SeatLabels(flight.TotalSeats())
	var (
		mu     sync.Mutex
		result ValidationResult
		won    = make(map[string][]string) // token -> booking ids
	)

	g, ctx := errgroup.WithContext(ctx)
	for i, token := range tokens {
		i, token := i, token
		g.Go(func() error {
			rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(i)))
			for n := 0; n < attempts; n++ {
				seat := seats[rng.Intn(len(seats))]
				testStart := time.Now()

				var booking models.Booking
				status, err := st.call(ctx, http.MethodPost, "/api/bookings", token,
					models.BookingRequest{FlightNumber: flight.FlightNumber, SeatNumber: seat}, &booking)

				r := TestResult{
					TestName:   fmt.Sprintf("Booking user %d seat %s", i, seat),
					Duration:   time.Since(testStart),
					StatusCode: status,
				}
				switch {
				case err != nil:
					r.Error = err.Error()
				case status == http.StatusCreated || status == http.StatusConflict:
					r.Success = true
				default:
					r.Error = fmt.Sprintf("Expected status 201 or 409, got %d", status)
				}

				mu.Lock()
				result.add(r)
				if status == http.StatusCreated {
					won[token] = append(won[token], booking.ID)
				}
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	st.logger.Info("Seat race test completed", "attempts", result.TotalTests, "passed", result.PassedTests, "failed", result.FailedTests)
	return result, won
}

// runCancelTest cancels every other booking each passenger won
func (st *StressTest) runCancelTest(ctx context.Context, won map[string][]string) ValidationResult {
	var (
		mu     sync.Mutex
		result ValidationResult
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(10)
	for token, ids := range won {
		token := token
		for i := 0; i < len(ids); i += 2 {
			id := ids[i]
			g.Go(func() error {
				testStart := time.Now()
				status, err := st.call(ctx, http.MethodPut, "/api/bookings/"+id+"/cancel", token, nil, nil)
				r := TestResult{
					TestName:   "Cancel " + id,
					Success:    err == nil && status == http.StatusOK,
					Duration:   time.Since(testStart),
					StatusCode: status,
				}
				if !r.Success {
					r.Error = fmt.Sprintf("Expected status 200, got %d (%v)", status, err)
				}
				mu.Lock()
				result.add(r)
				mu.Unlock()
				return nil
			})
		}
	}
	_ = g.Wait()

	st.logger.Info("Cancel test completed", "cancellations", result.TotalTests, "passed", result.PassedTests)
	return result
}

// runSearchTest fires identical searches concurrently
func (st *StressTest) runSearchTest(ctx context.Context, flight *models.Flight, concurrent int) ValidationResult {
	var (
		mu     sync.Mutex
		result ValidationResult
	)
	query := url.Values{}
	query.Set("origin", flight.Origin)
	query.Set("destination", flight.Destination)
	query.Set("date", flight.DepartureDate)
	path := "/api/flights/search?" + query.Encode()

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < concurrent; i++ {
		i := i
		g.Go(func() error {
			testStart := time.Now()
			status, err := st.call(ctx, http.MethodGet, path, "", nil, nil)
			r := TestResult{
				TestName:   fmt.Sprintf("Search %d", i),
				Success:    err == nil && status == http.StatusOK,
				Duration:   time.Since(testStart),
				StatusCode: status,
			}
			if !r.Success {
				r.Error = fmt.Sprintf("Expected status 200, got %d (%v)", status, err)
			}
			mu.Lock()
			result.add(r)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return result
}

// verifyLedger checks that no seat is held by two confirmed bookings and that
// the flight's available counter matches the ledger.
func (st *StressTest) verifyLedger(ctx context.Context, adminToken string, flight *models.Flight) TestResult {
	testStart := time.Now()
	result := TestResult{TestName: "Ledger consistency"}

	var listing struct {
		Bookings []*models.Booking `json:"bookings"`
	}
	status, err := st.call(ctx, http.MethodGet, "/api/bookings", adminToken, nil, &listing)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	if status != http.StatusOK {
		result.StatusCode = status
		result.Error = fmt.Sprintf("listing bookings returned status %d", status)
		return result
	}
	var current models.Flight
	status, err = st.call(ctx, http.MethodGet, "/api/flights/"+flight.FlightNumber, "", nil, &current)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	if status != http.StatusOK {
		result.StatusCode = status
		result.Error = fmt.Sprintf("fetching flight %s returned status %d", flight.FlightNumber, status)
		return result
	}

	holders := make(map[string]string)
	for _, b := range listing.Bookings {
		if b.FlightNumber != flight.FlightNumber || !b.IsConfirmed() {
			continue
		}
		if other, ok := holders[b.SeatNumber]; ok {
			result.Error = fmt.Sprintf("seat %s sold twice (%s, %s)", b.SeatNumber, other, b.ID)
			return result
		}
		holders[b.SeatNumber] = b.ID
	}

	expected := current.TotalSeats() - len(holders)
	if current.AvailableSeatsCount() != expected {
		result.Error = fmt.Sprintf("available seats %d, ledger implies %d", current.AvailableSeatsCount(), expected)
		return result
	}
	for seat := range holders {
		if current.IsSeatAvailable(seat) {
			result.Error = fmt.Sprintf("seat %s is booked but shown as available", seat)
			return result
		}
	}

	st.logger.Info("Ledger verified", "flight", flight.FlightNumber, "confirmed", len(holders), "available", expected)
	result.Success = true
	result.Duration = time.Since(testStart)
	return result
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	baseURL := flag.String("api", envOrDefault("API_URL", "http://localhost:8080"), "reservation API base URL")
	users := flag.Int("users", 20, "concurrent passengers")
	seats := flag.Int("seats", 30, "seats on the contested flight")
	attempts := flag.Int("attempts", 5, "booking attempts per passenger")
	adminID := flag.String("admin", "admin", "admin account id")
	adminPassword := flag.String("admin-password", "admin123", "admin password")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	logger.Info("Starting reservation stress test", "api", *baseURL)

	ctx := context.Background()
	st := NewStressTest(*baseURL, logger)

	adminToken, err := st.login(ctx, models.RoleAdmin, *adminID, *adminPassword)
	if err != nil {
		logger.Error("Admin login failed", "error", err)
		os.Exit(1)
	}
	flight, err := st.setupFlight(ctx, adminToken, *seats)
	if err != nil {
		logger.Error("Failed to create test flight", "error", err)
		os.Exit(1)
	}
	tokens, err := st.registerPassengers(ctx, *users)
	if err != nil {
		logger.Error("Failed to register passengers", "error", err)
		os.Exit(1)
	}

	var summary ValidationResult
	merge := func(r ValidationResult) {
		summary.TotalTests += r.TotalTests
		summary.PassedTests += r.PassedTests
		summary.FailedTests += r.FailedTests
		summary.Results = append(summary.Results, r.Results...)
	}

	logger.Info("=== Seat Race Test ===")
	raceResult, won := st.runSeatRaceTest(ctx, flight, tokens, *attempts)
	merge(raceResult)

	logger.Info("=== Ledger Check After Booking ===")
	summary.add(st.verifyLedger(ctx, adminToken, flight))

	logger.Info("=== Cancellation Test ===")
	merge(st.runCancelTest(ctx, won))

	logger.Info("=== Search Test ===")
	merge(st.runSearchTest(ctx, flight, *users))

	logger.Info("=== Ledger Check After Cancellation ===")
	summary.add(st.verifyLedger(ctx, adminToken, flight))

	for _, result := range summary.Results {
		if !result.Success {
			logger.Warn("Test failed", "test", result.TestName, "error", result.Error,
				"duration", result.Duration, "status", result.StatusCode)
		}
	}

	logger.Info("=== Test Summary ===",
		"total", summary.TotalTests,
		"passed", summary.PassedTests,
		"failed", summary.FailedTests,
		"success_rate", fmt.Sprintf("%.2f%%", float64(summary.PassedTests)/float64(summary.TotalTests)*100))

	if summary.FailedTests > 0 {
		os.Exit(1)
	}
}
