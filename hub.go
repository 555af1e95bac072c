package main

import (
	"fmt"
	"strings"
	"time"
)

// ClientMessage is the closed set of inbound events. Unknown types are
// dropped in the read pump before they reach the hub.
type ClientMessage struct {
	Type string `json:"type"` // "requestState", "setName", "joinTeam", "becomeOperator", "startRound", "revealWords", "shuffleWords", "clearGuesses", "guess", "chat", "nextRound", "endGame"
	Name string `json:"name,omitempty"` // setName
	Team string `json:"team,omitempty"` // joinTeam
	Text string `json:"text,omitempty"` // guess / chat
}

// WelcomeMessage is sent once to each connection with its ephemeral ID.
type WelcomeMessage struct {
	Type string `json:"type"` // "welcome"
	ID   string `json:"id"`
}

// PlayersMessage is the roster snapshot, in join order.
type PlayersMessage struct {
	Type    string   `json:"type"` // "players"
	Players []Player `json:"players"`
}

// SystemMessage carries human-readable announcements.
type SystemMessage struct {
	Type string `json:"type"` // "system"
	Text string `json:"text"`
}

// ChatMessage is a rebroadcast chat line.
type ChatMessage struct {
	Type string `json:"type"` // "chat"
	From string `json:"from"`
	Text string `json:"text"`
}

// StateMessage is the public state view broadcast after every mutation.
type StateMessage struct {
	Type string `json:"type"` // "gameState"
	gameState
}

// WordsMessage carries the unmasked word list: "words" to the operator at
// round start, "wordsReveal" on request.
type WordsMessage struct {
	Type  string `json:"type"`
	Words []Word `json:"words"`
}

// TimerMessage is sent on every clock tick.
type TimerMessage struct {
	Type        string `json:"type"` // "timer"
	SecondsLeft int    `json:"secondsLeft"`
}

// RoundEndedMessage is broadcast once per round end.
type RoundEndedMessage struct {
	Type string `json:"type"` // "roundEnded"
	roundSummary
}

type inboundEvent struct {
	client *Client
	msg    ClientMessage
}

// tick is delivered into the hub inbox by the round clock goroutine. The
// generation number lets the hub discard ticks from a clock that has already
// been replaced.
type tick struct {
	gen         int
	secondsLeft int
}

// Hub owns the session and processes one event at a time, so every handler
// is atomic with respect to every other connection's requests. Clock ticks
// arrive through the same inbox and compete for the same slot.
type Hub struct {
	cfg     *Config
	session *session
	clients map[*Client]bool

	register chan *Client
	unreg    chan *Client
	events   chan inboundEvent
	ticks    chan tick

	timerGen  int
	timerStop chan struct{}
}

func newHub(cfg *Config) *Hub {
	return &Hub{
		cfg:      cfg,
		session:  newSession(cfg.rounds, int(cfg.roundTime.Seconds())),
		clients:  make(map[*Client]bool),
		register: make(chan *Client),
		unreg:    make(chan *Client),
		events:   make(chan inboundEvent),
		ticks:    make(chan tick, 4),
	}
}

func (h *Hub) run() {
	for {
		select {
		case c := <-h.register:
			h.handleRegister(c)

		case c := <-h.unreg:
			h.handleUnregister(c)

		case ev := <-h.events:
			h.handleEvent(ev.client, ev.msg)

		case tk := <-h.ticks:
			h.handleTick(tk)
		}
	}
}

func (h *Hub) sendTo(c *Client, msg any) {
	if !h.clients[c] {
		return
	}
	select {
	case c.send <- msg:
	default:
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) broadcast(msg any) {
	for c := range h.clients {
		h.sendTo(c, msg)
	}
}

func (h *Hub) systemf(format string, args ...any) {
	h.broadcast(SystemMessage{Type: "system", Text: fmt.Sprintf(format, args...)})
}

func (h *Hub) broadcastState() {
	h.broadcast(StateMessage{Type: "gameState", gameState: h.session.publicState()})
}

func (h *Hub) broadcastPlayers() {
	h.broadcast(PlayersMessage{Type: "players", Players: h.session.playerList()})
}

func (h *Hub) handleRegister(c *Client) {
	h.clients[c] = true

	h.sendTo(c, WelcomeMessage{Type: "welcome", ID: c.id})
	h.sendTo(c, StateMessage{Type: "gameState", gameState: h.session.publicState()})
	h.broadcastPlayers()
}

func (h *Hub) handleUnregister(c *Client) {
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}

	p, ok := h.session.remove(c.id)
	if !ok {
		return
	}

	// A disconnecting operator releases the slot, but the round keeps going.
	if h.session.isOperator(c.id) {
		h.session.operatorID = ""
	}

	h.systemf("%s disconnected.", p.Name)
	h.broadcastPlayers()
}

func (h *Hub) handleEvent(c *Client, msg ClientMessage) {
	switch msg.Type {
	case "requestState":
		h.sendTo(c, StateMessage{Type: "gameState", gameState: h.session.publicState()})
		h.sendTo(c, PlayersMessage{Type: "players", Players: h.session.playerList()})

	case "setName":
		p, ok := h.session.setName(c.id, msg.Name)
		if !ok {
			return
		}
		logf(h.cfg, "GAMES: Player %q joined", p.Name)
		h.systemf("%s joined the lobby.", p.Name)
		h.broadcastPlayers()

	case "joinTeam":
		t := team(msg.Team)
		if t != teamRed && t != teamBlue {
			return
		}
		p, ok := h.session.joinTeam(c.id, t)
		if !ok {
			return
		}
		h.systemf("%s joined %s team.", p.Name, strings.ToUpper(msg.Team))
		h.broadcastPlayers()

	case "becomeOperator":
		p, ok := h.session.becomeOperator(c.id)
		if !ok {
			return
		}
		h.systemf("%s is now operator.", p.Name)
		h.broadcastState()

	case "startRound":
		h.startRound()

	case "revealWords":
		if !h.session.isOperator(c.id) {
			return
		}
		h.sendTo(c, WordsMessage{Type: "wordsReveal", Words: h.session.fullWords()})

	case "shuffleWords":
		if !h.session.isOperator(c.id) {
			return
		}
		h.session.shuffleWords()
		p, _ := h.session.player(c.id)
		h.systemf("%s shuffled words.", p.Name)
		h.broadcastState()

	case "clearGuesses":
		if !h.session.isOperator(c.id) {
			return
		}
		h.session.clearGuesses()
		h.systemf("Operator cleared guesses.")
		h.broadcastState()

	case "guess":
		w, ok := h.session.guess(c.id, msg.Text)
		if !ok {
			return
		}
		p, _ := h.session.player(c.id)
		h.systemf("%s guessed %q (+%d)", p.Name, w.Text, w.Points)
		h.broadcastState()

	case "chat":
		p, ok := h.session.player(c.id)
		if !ok {
			return
		}
		h.broadcast(ChatMessage{Type: "chat", From: p.Name, Text: msg.Text})

	case "nextRound":
		h.stopTimer()
		if h.session.status != statusInRound {
			return
		}
		h.endRound()

	case "endGame":
		h.stopTimer()
		h.session.reset()
		h.systemf("Game ended and reset.")
		h.broadcastState()
		h.broadcastPlayers()
	}
}

func (h *Hub) startRound() {
	if !h.session.startRound() {
		return
	}

	h.startTimer(h.session.roundTime)
	logf(h.cfg, "GAMES: Round %d started", h.session.round)
	h.systemf("Round %d started.", h.session.round)
	h.broadcastState()

	// Only the operator may see the drawn words. With no operator assigned,
	// nobody does; revealWords still works once someone takes the seat.
	for c := range h.clients {
		if h.session.isOperator(c.id) {
			h.sendTo(c, WordsMessage{Type: "words", Words: h.session.fullWords()})
		}
	}
}

// endRound assumes the clock has already been stopped and the session is
// still in-round.
func (h *Hub) endRound() {
	summary, op := h.session.endRound()

	if op != nil {
		h.systemf("%s (operator) scored %d points for %s.", op.Name, summary.Points, strings.ToUpper(string(op.Team)))
	} else {
		h.systemf("Round ended. %d points unassigned (no operator).", summary.Points)
	}

	h.broadcast(RoundEndedMessage{Type: "roundEnded", roundSummary: summary})
	h.broadcastState()

	if h.session.status == statusEnded {
		winner := "Draw"
		switch {
		case summary.Scores.Red > summary.Scores.Blue:
			winner = "Red"
		case summary.Scores.Blue > summary.Scores.Red:
			winner = "Blue"
		}
		h.systemf("Game over — %s. Final: Red %d — Blue %d", winner, summary.Scores.Red, summary.Scores.Blue)
	}
}

func (h *Hub) handleTick(tk tick) {
	// A stale clock may still flush a tick after being replaced.
	if tk.gen != h.timerGen {
		return
	}

	h.session.timeLeft = tk.secondsLeft
	h.broadcast(TimerMessage{Type: "timer", SecondsLeft: tk.secondsLeft})

	if tk.secondsLeft <= 0 {
		h.stopTimer()
		if h.session.status == statusInRound {
			h.endRound()
		}
	}
}

// startTimer arms the round clock: one tick per second delivered into the
// hub inbox. Any previous clock is stopped first.
func (h *Hub) startTimer(seconds int) {
	h.stopTimer()

	h.timerGen++
	gen := h.timerGen
	stop := make(chan struct{})
	h.timerStop = stop

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for left := seconds; left > 0; {
			select {
			case <-stop:
				return
			case <-ticker.C:
				left--
				select {
				case h.ticks <- tick{gen: gen, secondsLeft: left}:
				case <-stop:
					return
				}
			}
		}
	}()
}

// stopTimer discards any pending expiry without ending the round. Callers
// must stop the clock before ending a round through any other path. Bumping
// the generation invalidates ticks the old clock already queued.
func (h *Hub) stopTimer() {
	if h.timerStop != nil {
		close(h.timerStop)
		h.timerStop = nil
	}
	h.timerGen++
}
