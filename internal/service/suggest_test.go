package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/loomkit/loom/internal/catalog"
)

func suggestStore(t *testing.T) *catalog.Store {
	t.Helper()
	snap, err := catalog.Default(zap.NewNop())
	require.NoError(t, err)
	store, err := catalog.NewStore(snap)
	require.NoError(t, err)
	return store
}

func TestSuggestPrefixBeatsSubstring(t *testing.T) {
	store := suggestStore(t)

	got := suggest(store, "card", 3)
	require.NotEmpty(t, got)
	// Prefix matches (Card, CardGrid) rank above StatCard's substring hit.
	assert.Equal(t, []string{"Card", "CardGrid", "StatCard"}, got)
}

func TestSuggestTypoFallsBackToEditDistance(t *testing.T) {
	store := suggestStore(t)

	got := suggest(store, "Buton", 3)
	require.NotEmpty(t, got)
	assert.Equal(t, "Button", got[0])
}

func TestSuggestMatchesAliases(t *testing.T) {
	store := suggestStore(t)

	got := suggest(store, "dialog", 3)
	assert.Contains(t, got, "Modal")
}

func TestSuggestHonorsLimit(t *testing.T) {
	store := suggestStore(t)

	assert.Len(t, suggest(store, "a", 2), 2)
	assert.Nil(t, suggest(store, "Button", 0))
}

func TestSuggestNoMatches(t *testing.T) {
	store := suggestStore(t)

	assert.Empty(t, suggest(store, "zzzzzzzzzz", 3))
	assert.Empty(t, suggest(store, "   ", 3))
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"button", "button", 0},
		{"buton", "button", 1},
		{"btn", "button", 3},
		{"kitten", "sitting", 3},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, levenshtein(tc.a, tc.b), "%s vs %s", tc.a, tc.b)
	}
}
