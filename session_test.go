package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWords() []Word {
	return []Word{
		{Text: "apple", Points: 10},
		{Text: "giraffe", Points: 20},
		{Text: "volcano", Points: 30},
	}
}

func TestSetName(t *testing.T) {
	t.Parallel()

	t.Run("roster tracks distinct connection ids", func(t *testing.T) {
		t.Parallel()
		s := newSession(6, 120)

		_, ok := s.setName("a", "alice")
		assert.True(t, ok)
		_, ok = s.setName("b", "bob")
		assert.True(t, ok)
		_, ok = s.setName("a", "alicia")
		assert.True(t, ok)

		players := s.playerList()
		require.Len(t, players, 2)
		assert.Equal(t, "alicia", players[0].Name)
		assert.Equal(t, "bob", players[1].Name)
	})

	t.Run("blank names are ignored", func(t *testing.T) {
		t.Parallel()
		s := newSession(6, 120)

		_, ok := s.setName("a", "")
		assert.False(t, ok)
		_, ok = s.setName("a", "   ")
		assert.False(t, ok)
		assert.Empty(t, s.playerList())
	})

	t.Run("new players start teamless with zero score", func(t *testing.T) {
		t.Parallel()
		s := newSession(6, 120)

		p, ok := s.setName("a", "alice")
		require.True(t, ok)
		assert.Equal(t, teamNone, p.Team)
		assert.Zero(t, p.Score)
	})

	t.Run("reconnect under a new id is a new player", func(t *testing.T) {
		t.Parallel()
		s := newSession(6, 120)

		s.setName("a", "alice")
		_, removed := s.remove("a")
		require.True(t, removed)
		s.setName("a2", "alice")

		players := s.playerList()
		require.Len(t, players, 1)
		assert.Equal(t, "a2", players[0].ID)
	})
}

func TestJoinTeam(t *testing.T) {
	t.Parallel()

	s := newSession(6, 120)

	_, ok := s.joinTeam("ghost", teamRed)
	assert.False(t, ok, "unnamed connections cannot join a team")

	s.setName("a", "alice")
	p, ok := s.joinTeam("a", teamRed)
	require.True(t, ok)
	assert.Equal(t, teamRed, p.Team)

	// Switching teams is allowed at any time.
	p, ok = s.joinTeam("a", teamBlue)
	require.True(t, ok)
	assert.Equal(t, teamBlue, p.Team)
}

func TestBecomeOperator(t *testing.T) {
	t.Parallel()

	t.Run("requires a named player with a team", func(t *testing.T) {
		t.Parallel()
		s := newSession(6, 120)

		_, ok := s.becomeOperator("ghost")
		assert.False(t, ok)

		s.setName("a", "alice")
		_, ok = s.becomeOperator("a")
		assert.False(t, ok, "teamless players cannot operate")
		assert.Empty(t, s.operatorID)

		s.joinTeam("a", teamRed)
		_, ok = s.becomeOperator("a")
		require.True(t, ok)
		assert.Equal(t, "a", s.operatorID)
	})

	t.Run("last requester wins", func(t *testing.T) {
		t.Parallel()
		s := newSession(6, 120)

		s.setName("a", "alice")
		s.joinTeam("a", teamRed)
		s.setName("b", "bob")
		s.joinTeam("b", teamBlue)

		s.becomeOperator("a")
		s.becomeOperator("b")
		assert.Equal(t, "b", s.operatorID)
	})
}

func TestStartRound(t *testing.T) {
	t.Parallel()

	t.Run("draws a fresh set of twenty hidden words", func(t *testing.T) {
		t.Parallel()
		s := newSession(6, 120)

		require.True(t, s.startRound())
		assert.Equal(t, 1, s.round)
		assert.Equal(t, statusInRound, s.status)
		assert.Equal(t, 120, s.timeLeft)

		require.Len(t, s.words, wordsPerRound)
		seen := make(map[string]bool)
		for _, w := range s.words {
			assert.False(t, w.Guessed)
			assert.Positive(t, w.Points)
			assert.False(t, seen[w.Text], "duplicate word %q in round", w.Text)
			seen[w.Text] = true
		}
	})

	t.Run("rejected while a round is in progress", func(t *testing.T) {
		t.Parallel()
		s := newSession(6, 120)

		require.True(t, s.startRound())
		assert.False(t, s.startRound())
		assert.Equal(t, 1, s.round)
	})

	t.Run("round index strictly increases", func(t *testing.T) {
		t.Parallel()
		s := newSession(3, 120)

		for i := 1; i <= 3; i++ {
			require.True(t, s.startRound())
			assert.Equal(t, i, s.round)
			s.endRound()
		}
		assert.Equal(t, statusEnded, s.status)
	})
}

func TestGuess(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) *session {
		t.Helper()
		s := newSession(6, 120)
		s.setName("a", "alice")
		require.True(t, s.startRound())
		s.words = testWords()
		return s
	}

	t.Run("case-insensitive and whitespace-trimmed", func(t *testing.T) {
		t.Parallel()
		s := setup(t)

		w, ok := s.guess("a", "  Apple ")
		require.True(t, ok)
		assert.Equal(t, "apple", w.Text)
		assert.Equal(t, 10, w.Points)
		assert.True(t, s.words[0].Guessed)
	})

	t.Run("each word scores once", func(t *testing.T) {
		t.Parallel()
		s := setup(t)

		_, ok := s.guess("a", "apple")
		require.True(t, ok)
		_, ok = s.guess("a", "apple")
		assert.False(t, ok, "repeat guess must be a no-op")
	})

	t.Run("rejected outside a round", func(t *testing.T) {
		t.Parallel()
		s := newSession(6, 120)
		s.setName("a", "alice")

		_, ok := s.guess("a", "apple")
		assert.False(t, ok)
	})

	t.Run("rejected for unknown players and blank text", func(t *testing.T) {
		t.Parallel()
		s := setup(t)

		_, ok := s.guess("ghost", "apple")
		assert.False(t, ok)
		_, ok = s.guess("a", "   ")
		assert.False(t, ok)
	})

	t.Run("no match is a no-op", func(t *testing.T) {
		t.Parallel()
		s := setup(t)

		_, ok := s.guess("a", "zebra")
		assert.False(t, ok)
		for _, w := range s.words {
			assert.False(t, w.Guessed)
		}
	})
}

func TestClearGuesses(t *testing.T) {
	t.Parallel()

	s := newSession(6, 120)
	s.setName("a", "alice")
	require.True(t, s.startRound())
	s.words = testWords()

	s.guess("a", "apple")
	s.guess("a", "giraffe")
	s.clearGuesses()

	for _, w := range s.words {
		assert.False(t, w.Guessed)
	}

	// Cleared words can be guessed again.
	_, ok := s.guess("a", "apple")
	assert.True(t, ok)
}

func TestShuffleWords(t *testing.T) {
	t.Parallel()

	s := newSession(6, 120)
	require.True(t, s.startRound())

	before := make(map[string]int)
	for _, w := range s.words {
		before[w.Text] = w.Points
	}

	s.shuffleWords()

	require.Len(t, s.words, wordsPerRound)
	for _, w := range s.words {
		points, ok := before[w.Text]
		assert.True(t, ok, "shuffle must not change word contents")
		assert.Equal(t, points, w.Points)
	}
}

func TestEndRound(t *testing.T) {
	t.Parallel()

	t.Run("credits guessed points to the operator's team", func(t *testing.T) {
		t.Parallel()
		s := newSession(6, 120)
		s.setName("a", "alice")
		s.joinTeam("a", teamRed)
		s.setName("b", "bob")
		s.joinTeam("b", teamBlue)
		s.becomeOperator("a")

		require.True(t, s.startRound())
		s.words = testWords()
		_, ok := s.guess("b", "apple")
		require.True(t, ok)

		summary, op := s.endRound()
		require.NotNil(t, op)
		assert.Equal(t, "alice", op.Name)
		assert.Equal(t, 1, summary.GuessedCount)
		assert.Equal(t, 10, summary.Points)
		assert.Equal(t, Scores{Red: 10, Blue: 0}, s.scores)

		assert.Empty(t, s.operatorID)
		assert.Empty(t, s.words)
		assert.Equal(t, statusWaiting, s.status)
	})

	t.Run("points are unassigned without an operator", func(t *testing.T) {
		t.Parallel()
		s := newSession(6, 120)
		s.setName("a", "alice")

		require.True(t, s.startRound())
		s.words = testWords()
		s.guess("a", "apple")
		s.guess("a", "volcano")

		summary, op := s.endRound()
		assert.Nil(t, op)
		assert.Equal(t, 2, summary.GuessedCount)
		assert.Equal(t, 40, summary.Points)
		assert.Equal(t, Scores{}, s.scores)
	})

	t.Run("session ends after the final round", func(t *testing.T) {
		t.Parallel()
		s := newSession(1, 120)

		require.True(t, s.startRound())
		s.endRound()
		assert.Equal(t, statusEnded, s.status)
	})
}

func TestPublicStateMasking(t *testing.T) {
	t.Parallel()

	s := newSession(6, 120)
	s.setName("a", "alice")
	require.True(t, s.startRound())
	s.words = testWords()
	_, ok := s.guess("a", "giraffe")
	require.True(t, ok)

	state := s.publicState()
	require.Len(t, state.CurrentWords, 3)
	for _, w := range state.CurrentWords {
		if w.Guessed {
			assert.Equal(t, "giraffe", w.Text)
			assert.Equal(t, 20, w.Points)
		} else {
			assert.Empty(t, w.Text, "unguessed word text must be masked")
			assert.Zero(t, w.Points, "unguessed word points must be masked")
		}
	}

	full := s.fullWords()
	require.Len(t, full, 3)
	for _, w := range full {
		assert.NotEmpty(t, w.Text)
		assert.Positive(t, w.Points)
	}
}

func TestScoringScenario(t *testing.T) {
	t.Parallel()

	s := newSession(6, 120)
	s.setName("a", "alice")
	s.joinTeam("a", teamRed)
	s.setName("b", "bob")
	s.joinTeam("b", teamBlue)
	_, ok := s.becomeOperator("a")
	require.True(t, ok)

	require.True(t, s.startRound())
	s.words = []Word{{Text: "apple", Points: 10}, {Text: "giraffe", Points: 20}}

	_, ok = s.guess("b", s.words[0].Text)
	require.True(t, ok)

	s.endRound()
	assert.Equal(t, 10, s.scores.Red)
	assert.Zero(t, s.scores.Blue)
}

func TestReset(t *testing.T) {
	t.Parallel()

	s := newSession(6, 120)
	s.setName("a", "alice")
	s.joinTeam("a", teamRed)
	s.becomeOperator("a")
	require.True(t, s.startRound())
	s.words = testWords()
	s.guess("a", "apple")
	s.endRound()

	s.reset()

	assert.Empty(t, s.playerList())
	assert.Empty(t, s.operatorID)
	assert.Zero(t, s.round)
	assert.Equal(t, Scores{}, s.scores)
	assert.Empty(t, s.words)
	assert.Equal(t, statusWaiting, s.status)

	// The session keeps accepting players after a reset.
	_, ok := s.setName("b", "bob")
	assert.True(t, ok)
}

func TestRemovePlayer(t *testing.T) {
	t.Parallel()

	s := newSession(6, 120)
	s.setName("a", "alice")
	s.joinTeam("a", teamRed)
	s.becomeOperator("a")
	require.True(t, s.startRound())
	wordCount := len(s.words)

	_, ok := s.remove("a")
	require.True(t, ok)

	// The roster does not own the operator slot; words and status are
	// untouched by a removal.
	assert.Equal(t, "a", s.operatorID)
	assert.Len(t, s.words, wordCount)
	assert.Equal(t, statusInRound, s.status)

	_, ok = s.remove("a")
	assert.False(t, ok)
}
