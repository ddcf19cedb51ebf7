package utils

import (
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeToken(t *testing.T) {
	assert.Equal(t, "morning yoga", NormalizeToken("  Morning   Yoga "))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "futbol", Fold("Fútbol"))
	assert.Equal(t, "yoga", Fold("YOGA"))
}

func TestSearchTokens(t *testing.T) {
	tokens := SearchTokens("Morning Yoga", "Phoenix, AZ")
	assert.Contains(t, tokens, "morning yoga")
	assert.Contains(t, tokens, "morning")
	assert.Contains(t, tokens, "yoga")
	assert.Contains(t, tokens, "phoenix,")

	// duplicates collapse
	tokens = SearchTokens("yoga", "Yoga")
	assert.Equal(t, []string{"yoga"}, tokens)
}

func TestTrimMax(t *testing.T) {
	assert.Equal(t, "abc", TrimMax("  abc  ", 10))
	assert.Equal(t, "ab", TrimMax("abcdef", 2))

	// Truncation lands on rune boundaries, never mid-character.
	assert.Equal(t, "héllo", TrimMax("héllo", 5))
	assert.Equal(t, "hé", TrimMax("héllo", 2))
	assert.True(t, utf8.ValidString(TrimMax("日本語のテキスト", 4)))
	assert.Equal(t, "日本語の", TrimMax("日本語のテキスト", 4))
}

func TestParseTime(t *testing.T) {
	tm, err := ParseTime("2026-08-29T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC), tm)

	tm, err = ParseTime("2026-08-29")
	require.NoError(t, err)
	assert.Equal(t, 29, tm.Day())

	_, err = ParseTime("not a time")
	assert.ErrorIs(t, err, ErrInvalidTimeFormat)
}
