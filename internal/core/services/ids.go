package services

import (
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// sessionSuffixLength is the number of base36 characters after the
// timestamp in a session id.
const sessionSuffixLength = 9

// IDGenerator hands out strictly increasing millisecond message ids.
// Two ids requested within the same millisecond never collide.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewIDGenerator creates a generator reading the given clock.
func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// Next returns an id greater than floor and every id returned before.
func (g *IDGenerator) Next(floor int64) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	if id <= floor {
		id = floor + 1
	}
	g.last = id
	return id
}

// randomSuffix returns sessionSuffixLength random base36 characters.
func randomSuffix() string {
	u := uuid.New()
	s := new(big.Int).SetBytes(u[:]).Text(36)
	if len(s) < sessionSuffixLength {
		s = strings.Repeat("0", sessionSuffixLength-len(s)) + s
	}
	return s[len(s)-sessionSuffixLength:]
}
