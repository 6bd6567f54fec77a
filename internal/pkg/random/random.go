package random

import (
	"bufio"
	"crypto/rand"
	"io"
	mrand "math/rand/v2"
	"time"

	"github.com/wtfsayo/beerscape/internal/pkg/pool"
)

var p = pool.New(func() *bufio.Reader {
	return bufio.NewReader(rand.Reader)
})

// we may never need to change these values.
const base64Chars = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ-_"

// Base64Str generate a cryptographically secure base64 string in given length.
// Will panic if it can't read from 'crypto/rand'.
func Base64Str(length int) string {
	reader := p.Get()
	defer p.Put(reader)

	r := make([]byte, length) //nolint:gomnd
	i := 0

	for {
		n, err := io.ReadFull(reader, r)
		if err != nil {
			panic("unexpected error happened when reading from bufio.NewReader(crypto/rand.Reader)")
		}
		if n != len(r) {
			panic("partial reads occurred when reading from bufio.NewReader(crypto/rand.Reader)")
		}
		for _, rb := range r {
			r[i] = base64Chars[rb%64]
			i++
			if i == length {
				return string(r)
			}
		}
	}
}

// DurationBetween returns a uniform duration in [min, max].
// Jittering backoff this way keeps workers from retrying in lockstep.
func DurationBetween(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}

	return min + mrand.N(max-min+1)
}

// Uint32Between returns a uniform uint32 in [min, max].
// The span is computed in uint64 so the full uint32 range cannot
// overflow to a zero span.
func Uint32Between(min, max uint32) uint32 {
	if max <= min {
		return min
	}

	return min + uint32(mrand.Uint64N(uint64(max)-uint64(min)+1))
}
