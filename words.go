package main

import (
	"crypto/rand"
)

// Word is one entry in the current round. Text and Points are omitted from
// JSON while the word is still hidden, so masked payloads marshal as
// {"guessed":false}.
type Word struct {
	Text    string `json:"text,omitempty"`
	Points  int    `json:"points,omitempty"`
	Guessed bool   `json:"guessed"`
}

type catalogEntry struct {
	text   string
	points int
}

// wordCatalog is the static draw pool. It is copied before every draw, so
// repeat words across rounds are possible.
var wordCatalog = []catalogEntry{
	{"apple", 5}, {"giraffe", 10}, {"spaceship", 20}, {"philosophy", 45}, {"ocean", 10},
	{"metropolis", 30}, {"burrito", 15}, {"pyramid", 25}, {"quantum", 50}, {"kangaroo", 20},
	{"sunflower", 10}, {"algorithm", 40}, {"marshmallow", 8}, {"helicopter", 35}, {"volcano", 30},
	{"penguin", 12}, {"jazz", 18}, {"machinery", 28}, {"tornado", 22}, {"saxophone", 38},
	{"island", 10}, {"microscope", 25}, {"revolver", 30}, {"constellation", 45}, {"cactus", 8},
	{"chocolate", 12}, {"zeppelin", 40}, {"laboratory", 32}, {"compass", 15}, {"violin", 20},
}

const wordsPerRound = 20

// sampleWords draws n distinct words uniformly without replacement. If the
// catalog holds fewer than n entries, every entry is returned.
func sampleWords(n int) []Word {
	pool := make([]catalogEntry, len(wordCatalog))
	copy(pool, wordCatalog)

	shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	if n > len(pool) {
		n = len(pool)
	}

	words := make([]Word, n)
	for i := range words {
		words[i] = Word{
			Text:   pool[i].text,
			Points: pool[i].points,
		}
	}

	return words
}

// shuffle performs a Fisher-Yates shuffle using crypto/rand.
func shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		var b [1]byte
		if _, err := rand.Read(b[:]); err != nil {
			continue
		}
		j := int(b[0]) % (i + 1)
		swap(i, j)
	}
}
