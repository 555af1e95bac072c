package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleWords(t *testing.T) {
	t.Parallel()

	catalog := make(map[string]int, len(wordCatalog))
	for _, entry := range wordCatalog {
		catalog[entry.text] = entry.points
	}

	t.Run("draws n distinct catalog words", func(t *testing.T) {
		t.Parallel()

		words := sampleWords(wordsPerRound)
		require.Len(t, words, wordsPerRound)

		seen := make(map[string]bool)
		for _, w := range words {
			points, ok := catalog[w.Text]
			require.True(t, ok, "word %q not in catalog", w.Text)
			assert.Equal(t, points, w.Points)
			assert.Positive(t, w.Points)
			assert.False(t, w.Guessed)
			assert.False(t, seen[w.Text], "word %q drawn twice", w.Text)
			seen[w.Text] = true
		}
	})

	t.Run("draws are independent", func(t *testing.T) {
		t.Parallel()

		// The pool is copied per draw, so back-to-back full draws both
		// succeed.
		first := sampleWords(wordsPerRound)
		second := sampleWords(wordsPerRound)
		assert.Len(t, first, wordsPerRound)
		assert.Len(t, second, wordsPerRound)
	})

	t.Run("overdraw returns the whole catalog", func(t *testing.T) {
		t.Parallel()

		words := sampleWords(len(wordCatalog) + 10)
		assert.Len(t, words, len(wordCatalog))
	})
}

func TestWordMaskedJSON(t *testing.T) {
	t.Parallel()

	// Masked words must not leak text or points on the wire.
	data, err := json.Marshal(Word{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"guessed":false}`, string(data))

	data, err = json.Marshal(Word{Text: "apple", Points: 5, Guessed: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"apple","points":5,"guessed":true}`, string(data))
}
