package services

import (
	"strconv"
	"strings"
	"sync"
	"unicode"
)

// Identifier prefixes per entity category
const (
	PassengerIDPrefix = "P"
	AdminIDPrefix     = "ADM"
	BookingIDPrefix   = "TXN"
)

// DefaultIDStart is the first counter value handed out
const DefaultIDStart = 1000

// IDGenerator hands out prefix+counter identifiers from one counter shared by
// every prefix.
type IDGenerator struct {
	mu      sync.Mutex
	counter int
}

// NewIDGenerator creates a generator whose first identifier uses start
func NewIDGenerator(start int) *IDGenerator {
	return &IDGenerator{counter: start}
}

// Next returns prefix followed by the current counter and advances the counter
func (g *IDGenerator) Next(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := prefix + strconv.Itoa(g.counter)
	g.counter++
	return id
}

// Observe moves the counter past the numeric suffix of an existing id, so
// identifiers loaded from storage are never issued again.
func (g *IDGenerator) Observe(id string) {
	digits := strings.TrimLeftFunc(id, unicode.IsLetter)
	n, err := strconv.Atoi(digits)
	if err != nil || digits == "" {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if n >= g.counter {
		g.counter = n + 1
	}
}

// Peek returns the value the next identifier will use
func (g *IDGenerator) Peek() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.counter
}
