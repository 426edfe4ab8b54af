package services

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// OtpGenerator produces 6-digit numeric codes. Codes are unique per
// user, not globally; collisions across users are fine.
type OtpGenerator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewOtpGenerator() *OtpGenerator {
	return &OtpGenerator{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Generate returns a code in [100000, 999999] and its expiry timestamp.
func (g *OtpGenerator) Generate(ttl time.Duration) (string, time.Time) {
	g.mu.Lock()
	n := 100000 + g.rnd.Intn(900000)
	g.mu.Unlock()
	return fmt.Sprintf("%d", n), time.Now().UTC().Add(ttl)
}
