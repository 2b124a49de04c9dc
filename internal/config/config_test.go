package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"MONGO_URI", "REDIS_URI", "PORT", "TOKEN_TTL", "PHOTO_URL_TTL", "FEED_CACHE_TTL", "LOG_DEV"} {
		t.Setenv(k, "")
	}
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 30*24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 15*time.Minute, cfg.Storage.URLTTL)
	assert.Equal(t, 2*time.Minute, cfg.FeedCacheTTL)
	assert.False(t, cfg.LogDev)
	assert.Equal(t, time.UTC, cfg.Location)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("REDIS_URI", "redis://cache:6380")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("LOG_DEV", "true")
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", cfg.RedisAddr)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.LogDev)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("TOKEN_TTL", "forever")
		_, err := Load()
		assert.ErrorContains(t, err, "TOKEN_TTL")
	})

	t.Run("bad timezone", func(t *testing.T) {
		t.Setenv("TOKEN_TTL", "")
		t.Setenv("TIMEZONE", "Mars/Olympus")
		_, err := Load()
		assert.ErrorContains(t, err, "TIMEZONE")
	})
}

func TestLoadQuestionnaire_Default(t *testing.T) {
	q, err := LoadQuestionnaire("")
	require.NoError(t, err)

	assert.Equal(t, "stress-check-23", q.ID)
	assert.Len(t, q.Pages, 3)
	assert.Equal(t, 23, q.TotalQuestions())
	assert.Equal(t, 11, q.SplitIndex())

	page, ok := q.PageFor(11)
	require.True(t, ok)
	assert.Equal(t, "About your job", page.Title)

	_, ok = q.PageFor(23)
	assert.False(t, ok)
	_, ok = q.PageFor(-1)
	assert.False(t, ok)
}

func TestLoadQuestionnaire_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
id: tiny
pages:
  - questions: [a, b]
    options: [{label: no, value: 0}, {label: yes, value: 1}]
  - questions: [c]
    options: [{label: low, value: 1}, {label: high, value: 5}]
`), 0o600))

	q, err := LoadQuestionnaire(path)
	require.NoError(t, err)
	assert.Equal(t, 2, q.SplitIndex())
	assert.Equal(t, 3, q.TotalQuestions())

	_, err = LoadQuestionnaire(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseQuestionnaire_Invalid(t *testing.T) {
	tests := map[string]string{
		"no pages":         `id: x`,
		"empty page":       "id: x\npages:\n  - options: [{label: a, value: 1}]",
		"no options":       "id: x\npages:\n  - questions: [a]",
		"duplicate values": "id: x\npages:\n  - questions: [a]\n    options: [{label: a, value: 1}, {label: b, value: 1}]",
		"bad yaml":         "pages: [",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseQuestionnaire([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestCheckAnswers(t *testing.T) {
	q, err := LoadQuestionnaire("")
	require.NoError(t, err)

	valid := make([]*int, 23)
	for i := range valid {
		v := 2
		valid[i] = &v
	}
	assert.NoError(t, q.CheckAnswers(valid))

	withGaps := make([]*int, 23)
	assert.NoError(t, q.CheckAnswers(withGaps), "unanswered items are allowed")

	assert.ErrorIs(t, q.CheckAnswers(valid[:22]), ErrAnswerCount)

	bad := append([]*int(nil), valid...)
	five := 5
	bad[15] = &five
	assert.ErrorIs(t, q.CheckAnswers(bad), ErrAnswerValue)
}
