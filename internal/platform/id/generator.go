package id

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const defaultTokenBytes = 32

// Generator creates opaque, URL-safe secrets for sessions and one-time links.
type Generator interface {
	NewToken() (string, error)
}

type RandomGenerator struct {
	size int
}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{size: defaultTokenBytes}
}

func (g *RandomGenerator) NewToken() (string, error) {
	size := g.size
	if size <= 0 {
		size = defaultTokenBytes
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}
