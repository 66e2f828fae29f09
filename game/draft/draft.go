// Package draft offers random habitat/wildlife pairs to the player whose turn
// it is.
//
// Draws are deterministic for a given seed: two drafters built from
// NewSeededSource with the same seed produce the same sequence of options.
// NewCryptoSeededSource picks a fresh seed from crypto/rand for live sessions.
package draft

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sync"

	"github.com/wricardo/mcp-training/cascadia/game/engine"
)

// RandomSource yields integers in [0, n)
type RandomSource interface {
	Intn(n int) int
}

// NewSeededSource returns a deterministic source for seed
func NewSeededSource(seed int64) RandomSource {
	return rand.New(rand.NewSource(seed))
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// NewCryptoSeededSource returns a source seeded from crypto/rand
func NewCryptoSeededSource() (RandomSource, error) {
	seed, err := NewSeed()
	if err != nil {
		return nil, err
	}
	return NewSeededSource(seed), nil
}

// Generate draws size options. The habitat and the animal of each option are
// picked independently, so an option may pair an animal with a habitat it
// cannot stand on. A non-positive size yields an empty draft.
func Generate(src RandomSource, size int) []engine.DraftOption {
	if size <= 0 {
		return []engine.DraftOption{}
	}

	options := make([]engine.DraftOption, 0, size)
	for i := 0; i < size; i++ {
		options = append(options, engine.DraftOption{
			Habitat: engine.AllHabitats[src.Intn(len(engine.AllHabitats))],
			Animal:  engine.AllAnimals[src.Intn(len(engine.AllAnimals))],
		})
	}
	return options
}

// Drafter adapts a RandomSource to engine.Drafter. It is safe for concurrent
// use.
type Drafter struct {
	mu  sync.Mutex
	src RandomSource
}

// NewDrafter creates a drafter drawing from src
func NewDrafter(src RandomSource) *Drafter {
	return &Drafter{src: src}
}

// Draw implements engine.Drafter
func (d *Drafter) Draw(size int) []engine.DraftOption {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Generate(d.src, size)
}

var _ engine.Drafter = (*Drafter)(nil)
