// internal/game/source.go
//
// Randomness sources for secret generation.
// A source is always handed to the engine at construction time; there is no
// package-level generator.
//
//   - seededSource: HMAC-SHA256 byte stream keyed by the seed. Rounds of 32
//     bytes are produced on demand, so the stream never runs dry and is
//     identical for identical seeds.
//   - entropySource: buffered crypto/rand.

package game

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"strconv"
)

// ByteSource yields an endless stream of random bytes.
type ByteSource interface {
	NextByte() byte
}

// seededSource generates a reproducible byte stream from a seed.
type seededSource struct {
	key   [8]byte
	round uint64
	pos   int
	buf   [sha256.Size]byte
}

// NewSeededSource returns a deterministic source for seed.
func NewSeededSource(seed uint64) ByteSource {
	s := &seededSource{}
	binary.BigEndian.PutUint64(s.key[:], seed)
	s.fill()
	return s
}

// NextByte returns the next byte, advancing to a fresh round when needed.
func (s *seededSource) NextByte() byte {
	if s.pos >= len(s.buf) {
		s.round++
		s.fill()
	}
	b := s.buf[s.pos]
	s.pos++
	return b
}

func (s *seededSource) fill() {
	h := hmac.New(sha256.New, s.key[:])
	h.Write([]byte("bagels:" + strconv.FormatUint(s.round, 10)))
	copy(s.buf[:], h.Sum(nil))
	s.pos = 0
}

// entropySource reads from crypto/rand in small batches.
type entropySource struct {
	buf [64]byte
	pos int
}

// NewEntropySource returns a non-reproducible source backed by crypto/rand.
func NewEntropySource() ByteSource {
	return &entropySource{pos: 64}
}

func (s *entropySource) NextByte() byte {
	if s.pos >= len(s.buf) {
		rand.Read(s.buf[:]) // never fails since Go 1.24
		s.pos = 0
	}
	b := s.buf[s.pos]
	s.pos++
	return b
}

// SourceFor picks the seeded source when seed is set, entropy otherwise.
func SourceFor(seed *uint64) ByteSource {
	if seed != nil {
		return NewSeededSource(*seed)
	}
	return NewEntropySource()
}
