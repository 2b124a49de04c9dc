// Package idgen generates short random identifiers that are unique within a
// remote collection.
package idgen

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
)

// DefaultAlphabet omits glyphs that are easy to confuse (0/O, 1/I).
const DefaultAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	DefaultLength      = 8
	DefaultMaxAttempts = 10
)

var (
	ErrExhausted     = errors.New("idgen: no unique identifier after max attempts")
	ErrInvalidConfig = errors.New("idgen: invalid generator configuration")
)

// ExistsFunc reports whether id is already taken.
type ExistsFunc func(ctx context.Context, id string) (bool, error)

// Generator draws candidates until Exists reports one as free.
type Generator struct {
	Alphabet    string
	Length      int
	MaxAttempts int
	Exists      ExistsFunc
}

// New returns a generator with the default alphabet, length and attempts.
func New(exists ExistsFunc) *Generator {
	return &Generator{
		Alphabet:    DefaultAlphabet,
		Length:      DefaultLength,
		MaxAttempts: DefaultMaxAttempts,
		Exists:      exists,
	}
}

// Generate returns an identifier that Exists reported as unused.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	if len(g.Alphabet) == 0 || len(g.Alphabet) > 256 || g.Length <= 0 || g.Exists == nil {
		return "", ErrInvalidConfig
	}
	attempts := g.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}

	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		id, err := g.random()
		if err != nil {
			return "", err
		}

		taken, err := g.Exists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("idgen: check %q: %w", id, err)
		}
		if !taken {
			return id, nil
		}
	}
	return "", ErrExhausted
}

// random draws Length symbols using rejection sampling so every symbol is
// equally likely.
func (g *Generator) random() (string, error) {
	n := len(g.Alphabet)
	limit := 256 - 256%n

	out := make([]byte, 0, g.Length)
	buf := make([]byte, g.Length)
	for len(out) < g.Length {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, g.Alphabet[int(b)%n])
			if len(out) == g.Length {
				break
			}
		}
	}
	return string(out), nil
}
