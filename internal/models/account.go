package models

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Role identifies an account category
type Role string

// Role constants
const (
	RolePassenger Role = "PASSENGER"
	RoleAdmin     Role = "ADMIN"
)

// AdminLevelSuper is the privilege level allowed to register admins
const AdminLevelSuper = "SUPER"

// Account is the capability set shared by passengers and admins
type Account interface {
	AccountID() string
	CheckPassword(password string) bool
	Role() Role
	Describe() string
}

// Passenger is a customer account
type Passenger struct {
	ID             string   `json:"id"`
	Password       string   `json:"-"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	PassportNumber string   `json:"passport_number"`
	BookingIDs     []string `json:"booking_ids"`
}

// AccountID returns the passenger identifier
func (p *Passenger) AccountID() string { return p.ID }

// CheckPassword compares the stored plain-text password
func (p *Passenger) CheckPassword(password string) bool { return p.Password == password }

// Role returns RolePassenger
func (p *Passenger) Role() Role { return RolePassenger }

// Describe renders the passenger profile
func (p *Passenger) Describe() string {
	var b strings.Builder
	writeIdentity(&b, p.ID, p.Name, p.Email, p.Role())
	fmt.Fprintf(&b, "Phone: %s\n", p.Phone)
	fmt.Fprintf(&b, "Passport: %s\n", p.PassportNumber)
	fmt.Fprintf(&b, "Total Bookings: %d\n", len(p.BookingIDs))
	return b.String()
}

// AddBooking appends a booking id to the owned list
func (p *Passenger) AddBooking(bookingID string) {
	p.BookingIDs = append(p.BookingIDs, bookingID)
}

// RemoveBooking drops the first occurrence of bookingID
func (p *Passenger) RemoveBooking(bookingID string) bool {
	i := slices.Index(p.BookingIDs, bookingID)
	if i < 0 {
		return false
	}
	p.BookingIDs = slices.Delete(p.BookingIDs, i, i+1)
	return true
}

// HasBooking reports whether bookingID is owned by the passenger
func (p *Passenger) HasBooking(bookingID string) bool {
	return slices.Contains(p.BookingIDs, bookingID)
}

// Clone returns a copy with its own booking list
func (p *Passenger) Clone() *Passenger {
	c := *p
	c.BookingIDs = slices.Clone(p.BookingIDs)
	return &c
}

// Admin is an operator account
type Admin struct {
	ID       string `json:"id"`
	Password string `json:"-"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Level    string `json:"level"`
}

// AccountID returns the admin identifier
func (a *Admin) AccountID() string { return a.ID }

// CheckPassword compares the stored plain-text password
func (a *Admin) CheckPassword(password string) bool { return a.Password == password }

// Role returns RoleAdmin
func (a *Admin) Role() Role { return RoleAdmin }

// IsSuper reports whether the admin may register other admins
func (a *Admin) IsSuper() bool { return a.Level == AdminLevelSuper }

// Describe renders the admin profile
func (a *Admin) Describe() string {
	var b strings.Builder
	writeIdentity(&b, a.ID, a.Name, a.Email, a.Role())
	fmt.Fprintf(&b, "Admin Level: %s\n", a.Level)
	return b.String()
}

// Clone returns a copy of the admin
func (a *Admin) Clone() *Admin {
	c := *a
	return &c
}

func writeIdentity(b *strings.Builder, id, name, email string, role Role) {
	fmt.Fprintf(b, "User ID: %s\n", id)
	fmt.Fprintf(b, "Name: %s\n", name)
	fmt.Fprintf(b, "Email: %s\n", email)
	fmt.Fprintf(b, "Role: %s\n", role)
}

// Session is an authenticated account reference. It carries identifiers only.
type Session struct {
	Token     uuid.UUID `json:"token"`
	AccountID string    `json:"account_id"`
	Role      Role      `json:"role"`
	Name      string    `json:"name"`
}

// IsPassenger reports whether the session belongs to a passenger
func (s Session) IsPassenger() bool { return s.Role == RolePassenger }

// IsAdmin reports whether the session belongs to an admin
func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }

// RegisterPassengerRequest carries the fields of a new passenger
type RegisterPassengerRequest struct {
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone" validate:"required,number,min=10"`
	PassportNumber string `json:"passport_number" validate:"required"`
	Password       string `json:"password" validate:"required,min=4"`
}

// RegisterAdminRequest carries the fields of a new admin
type RegisterAdminRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=4"`
	Level    string `json:"level" validate:"required"`
}

// LoginRequest represents an authentication attempt
type LoginRequest struct {
	Role     Role   `json:"role" validate:"required,oneof=PASSENGER ADMIN"`
	ID       string `json:"id" validate:"required"`
	Password string `json:"password" validate:"required"`
}
