// Wordrush game session
//
// One team nominates an operator per round; the operator sees a freshly drawn
// list of 20 hidden words with point values and describes them while everyone
// else submits free-text guesses. Correct guesses flip words face-up, and at
// round end the points for guessed words are credited to the operator's team.
// A countdown clock terminates the round when it expires.
//
// The session is the single source of truth; connected browsers are thin
// renderers driven by broadcast state. This file holds the pure state machine
// with no I/O: the Hub (hub.go) owns the only instance and is the sole caller,
// so no locking happens here.

package main

import (
	"strings"
)

type team string

const (
	teamNone team = ""
	teamRed  team = "red"
	teamBlue team = "blue"
)

type gameStatus string

const (
	statusWaiting gameStatus = "waiting"
	statusInRound gameStatus = "in-round"
	statusEnded   gameStatus = "ended"
)

// Player is one named connection. The ID is the ephemeral connection ID and
// lives only as long as the connection does.
type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Team  team   `json:"team"`
	Score int    `json:"score"`
}

// Scores holds the session-level team totals. They only ever increase, once
// per round end, until an explicit game reset.
type Scores struct {
	Red  int `json:"red"`
	Blue int `json:"blue"`
}

// gameState is the public projection of the session broadcast to every
// connection. Unguessed words are masked by Word's omitempty fields.
type gameState struct {
	OperatorID   string     `json:"operatorId"`
	Round        int        `json:"round"`
	TotalRounds  int        `json:"totalRounds"`
	RoundTime    int        `json:"roundTime"`
	TimeLeft     int        `json:"timeLeft"`
	CurrentWords []Word     `json:"currentWords"`
	Scores       Scores     `json:"scores"`
	Status       gameStatus `json:"status"`
}

// roundSummary is broadcast once per round end.
type roundSummary struct {
	GuessedCount int    `json:"guessedCount"`
	Points       int    `json:"pts"`
	Scores       Scores `json:"scores"`
}

type session struct {
	players     map[string]*Player
	order       []string
	operatorID  string
	round       int
	totalRounds int
	roundTime   int
	timeLeft    int
	words       []Word
	scores      Scores
	status      gameStatus
}

func newSession(totalRounds, roundTime int) *session {
	return &session{
		players:     make(map[string]*Player),
		totalRounds: totalRounds,
		roundTime:   roundTime,
		status:      statusWaiting,
	}
}

// setName inserts a new teamless player for an unseen ID, or renames an
// existing one. Blank names are ignored.
func (s *session) setName(id, name string) (*Player, bool) {
	if strings.TrimSpace(name) == "" {
		return nil, false
	}

	p, ok := s.players[id]
	if !ok {
		p = &Player{ID: id, Team: teamNone}
		s.players[id] = p
		s.order = append(s.order, id)
	}
	p.Name = name

	return p, true
}

// joinTeam assigns a team to a known player. Switching teams mid-round is
// allowed.
func (s *session) joinTeam(id string, t team) (*Player, bool) {
	p, ok := s.players[id]
	if !ok {
		return nil, false
	}
	p.Team = t

	return p, true
}

// remove deletes a player from the roster. Clearing the operator slot is the
// caller's job; an in-progress round's words and scores are unaffected.
func (s *session) remove(id string) (*Player, bool) {
	p, ok := s.players[id]
	if !ok {
		return nil, false
	}

	delete(s.players, id)
	dst := s.order[:0]
	for _, oid := range s.order {
		if oid == id {
			continue
		}
		dst = append(dst, oid)
	}
	s.order = dst

	return p, true
}

// playerList returns the roster in join order.
func (s *session) playerList() []Player {
	players := make([]Player, 0, len(s.order))
	for _, id := range s.order {
		if p, ok := s.players[id]; ok {
			players = append(players, *p)
		}
	}
	return players
}

func (s *session) player(id string) (*Player, bool) {
	p, ok := s.players[id]
	return p, ok
}

// becomeOperator makes the requesting player the operator, replacing any
// current one (last requester wins). The player must exist and have a team.
func (s *session) becomeOperator(id string) (*Player, bool) {
	p, ok := s.players[id]
	if !ok || p.Team == teamNone {
		return nil, false
	}
	s.operatorID = id

	return p, true
}

func (s *session) isOperator(id string) bool {
	return s.operatorID != "" && s.operatorID == id
}

// startRound begins the next round: increments the round counter, draws a
// fresh word set, and arms the clock. Rejected while a round is in progress.
// An operator is not required; unscored points are reported at round end.
func (s *session) startRound() bool {
	if s.status == statusInRound {
		return false
	}

	s.round++
	s.words = sampleWords(wordsPerRound)
	s.timeLeft = s.roundTime
	s.status = statusInRound

	return true
}

// guess matches normalized text against the first unguessed word. A match
// flips the word face-up exactly once; anything else is a no-op.
func (s *session) guess(id, text string) (Word, bool) {
	if s.status != statusInRound {
		return Word{}, false
	}
	if _, ok := s.players[id]; !ok {
		return Word{}, false
	}

	lowered := strings.ToLower(strings.TrimSpace(text))
	if lowered == "" {
		return Word{}, false
	}

	for i := range s.words {
		if s.words[i].Guessed {
			continue
		}
		if strings.ToLower(s.words[i].Text) == lowered {
			s.words[i].Guessed = true
			return s.words[i], true
		}
	}

	return Word{}, false
}

// shuffleWords randomly permutes the word order. Cosmetic only; matching is
// by text, not position.
func (s *session) shuffleWords() {
	shuffle(len(s.words), func(i, j int) {
		s.words[i], s.words[j] = s.words[j], s.words[i]
	})
}

// clearGuesses flips every word in the current round back to hidden. Points
// are only tallied at round end, so nothing is refunded.
func (s *session) clearGuesses() {
	for i := range s.words {
		s.words[i].Guessed = false
	}
}

// endRound tallies the guessed points, credits them to the operator's team if
// one is assigned, and advances the lifecycle. The caller must ensure the
// round clock has been stopped and that the session is still in-round, or
// points would be tallied twice.
func (s *session) endRound() (roundSummary, *Player) {
	summary := roundSummary{}
	for _, w := range s.words {
		if w.Guessed {
			summary.GuessedCount++
			summary.Points += w.Points
		}
	}

	op, _ := s.players[s.operatorID]
	if op != nil {
		switch op.Team {
		case teamRed:
			s.scores.Red += summary.Points
		case teamBlue:
			s.scores.Blue += summary.Points
		}
	}
	summary.Scores = s.scores

	s.operatorID = ""
	s.words = nil
	s.timeLeft = 0
	if s.round >= s.totalRounds {
		s.status = statusEnded
	} else {
		s.status = statusWaiting
	}

	return summary, op
}

// reset returns the session to its initial values. The process keeps running
// and accepts new players afterwards.
func (s *session) reset() {
	s.players = make(map[string]*Player)
	s.order = nil
	s.operatorID = ""
	s.round = 0
	s.scores = Scores{}
	s.words = nil
	s.timeLeft = 0
	s.status = statusWaiting
}

// publicState builds the redacted projection: unguessed words keep only their
// guessed flag, guessed words are shown in full to everyone.
func (s *session) publicState() gameState {
	words := make([]Word, len(s.words))
	for i, w := range s.words {
		if w.Guessed {
			words[i] = w
		} else {
			words[i] = Word{}
		}
	}

	return gameState{
		OperatorID:   s.operatorID,
		Round:        s.round,
		TotalRounds:  s.totalRounds,
		RoundTime:    s.roundTime,
		TimeLeft:     s.timeLeft,
		CurrentWords: words,
		Scores:       s.scores,
		Status:       s.status,
	}
}

// fullWords returns the unmasked word list, for targeted delivery to the
// operator only.
func (s *session) fullWords() []Word {
	words := make([]Word, len(s.words))
	copy(words, s.words)
	return words
}
