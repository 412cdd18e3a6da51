package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"
	"time"

	"github.com/rorogames/fishing-backend/internal/model"
)

// RandFunc returns a uniform random sample in [0, 1).  The fishing engine
// takes one so tests can fix the draw deterministically.
type RandFunc func() float64

// NewRand returns a RandFunc seeded from the OS entropy source, falling back
// to the wall clock when that fails.  The returned func is safe for
// concurrent use; rand.Rand itself is not.
func NewRand() RandFunc {
	var b [8]byte
	var rng *rand.Rand
	if _, err := crand.Read(b[:]); err != nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	} else {
		rng = rand.New(rand.NewSource(int64(binary.LittleEndian.Uint64(b[:]))))
	}
	var mu sync.Mutex
	return func() float64 {
		mu.Lock()
		defer mu.Unlock()
		return rng.Float64()
	}
}

// pickFish walks the catalog in its given order accumulating rarity mass and
// returns the index of the first fish whose cumulative rarity exceeds the
// sample, or -1 when the sample lands in the remainder (no catch).  Rarities
// are expected to sum to at most 1; the function does not enforce that.
func pickFish(catalog []model.FishType, sample float64) int {
	cumulative := 0.0
	for i, f := range catalog {
		cumulative += f.Rarity
		if sample < cumulative {
			return i
		}
	}
	return -1
}
