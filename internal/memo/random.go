package memo

import (
	"math/rand"
	"sync"
	"time"
)

// RandomNumber draws integers in a closed range
type RandomNumber interface {
	Between(min, max int) int
}

// LockedRand is a RandomNumber safe for concurrent use
type LockedRand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewLockedRand creates a time seeded random source
func NewLockedRand() *LockedRand {
	return &LockedRand{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Between returns a number in [min, max]
func (r *LockedRand) Between(min, max int) int {
	if max <= min {
		return min
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return min + r.rnd.Intn(max-min+1)
}
