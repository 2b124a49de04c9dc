package idgen

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_ReturnsFreeID(t *testing.T) {
	g := New(func(ctx context.Context, id string) (bool, error) { return false, nil })

	id, err := g.Generate(context.Background())
	require.NoError(t, err)
	assert.Len(t, id, DefaultLength)
	for _, r := range id {
		assert.True(t, strings.ContainsRune(DefaultAlphabet, r), "unexpected symbol %q", r)
	}
}

func TestGenerate_RetriesOnCollision(t *testing.T) {
	calls := 0
	var seen []string
	g := New(func(ctx context.Context, id string) (bool, error) {
		calls++
		seen = append(seen, id)
		return calls < 3, nil
	})

	id, err := g.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, seen[2], id)
}

func TestGenerate_Exhausted(t *testing.T) {
	calls := 0
	g := &Generator{
		Alphabet:    "AB",
		Length:      4,
		MaxAttempts: 5,
		Exists: func(ctx context.Context, id string) (bool, error) {
			calls++
			return true, nil
		},
	}

	_, err := g.Generate(context.Background())
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 5, calls)
}

func TestGenerate_PropagatesLookupError(t *testing.T) {
	boom := errors.New("store unavailable")
	g := New(func(ctx context.Context, id string) (bool, error) { return false, boom })

	_, err := g.Generate(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestGenerate_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := New(func(ctx context.Context, id string) (bool, error) {
		t.Fatal("lookup must not run after cancellation")
		return false, nil
	})

	_, err := g.Generate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerate_InvalidConfig(t *testing.T) {
	free := func(ctx context.Context, id string) (bool, error) { return false, nil }

	for name, g := range map[string]*Generator{
		"empty alphabet": {Alphabet: "", Length: 4, Exists: free},
		"zero length":    {Alphabet: "AB", Length: 0, Exists: free},
		"no lookup":      {Alphabet: "AB", Length: 4},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := g.Generate(context.Background())
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestGenerate_SingleSymbolAlphabet(t *testing.T) {
	g := &Generator{Alphabet: "Z", Length: 6, Exists: func(ctx context.Context, id string) (bool, error) { return false, nil }}

	id, err := g.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ZZZZZZ", id)
}
