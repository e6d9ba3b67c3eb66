// Package daily derives the shared puzzle of the day: every player gets the
// same secret on a given UTC date, without anything being stored.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/bagels/internal/game"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns a deterministic seed for a date using HMAC(salt, YYYY-MM-DD).
func Seed(date time.Time, salt string) uint64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// take first 8 bytes as the seed
	return binary.BigEndian.Uint64(sum[:8])
}

// Config returns base with its seed replaced by the seed for date.
func Config(base game.Config, date time.Time, salt string) game.Config {
	seed := Seed(date, salt)
	base.Seed = &seed
	return base
}
