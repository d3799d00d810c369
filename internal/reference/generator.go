// Package reference produces candidate booking references: a fixed prefix
// followed by a short random alphanumeric suffix. Candidates are not unique
// by construction; the booking repository checks them against existing
// bookings inside the booking transaction and asks for another on collision.
package reference

import (
	"math/rand"
	"sync"
	"time"
)

const (
	prefix       = "B"
	suffixLength = 5
	alphabet     = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// Length is the total length of a generated reference.
const Length = len(prefix) + suffixLength

type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewGenerator() *Generator {
	return &Generator{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (g *Generator) Candidate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	buf := make([]byte, 0, Length)
	buf = append(buf, prefix...)
	for i := 0; i < suffixLength; i++ {
		buf = append(buf, alphabet[g.rng.Intn(len(alphabet))])
	}
	return string(buf)
}
