// Package game holds the pure duel state machine: no goroutines, no I/O,
// no clocks of its own. Callers pass in the current time and are expected
// to serialize access (the duel actor does this).
package game

import (
	"time"

	"github.com/google/uuid"
)

const (
	// QuestionCount is the fixed length of every game's question sequence.
	QuestionCount = 40
	// GraceWindow separates pairing from the first scorable instant.
	GraceWindow = 5 * time.Second
	// PlayWindow is how long scoring stays open once the game starts.
	PlayWindow = 60 * time.Second
)

type Status string

const (
	StatusPending Status = "PENDING"
	StatusActive  Status = "ACTIVE"
	StatusEnded   Status = "ENDED"
)

// Game is one paired duel. Status only ever moves forward:
// PENDING -> ACTIVE -> ENDED.
type Game struct {
	ID     uuid.UUID
	Status Status

	User1 string
	User2 string // empty until paired

	User1Points int
	User2Points int

	Questions []Question

	StartingTime time.Time // zero until paired
	EndingTime   time.Time
}

// NewGame creates a PENDING game for the first participant. The question
// sequence is generated here, once, and never regenerated.
func NewGame(user1 string) *Game {
	return &Game{
		ID:        uuid.New(),
		Status:    StatusPending,
		User1:     user1,
		Questions: NewQuestionSet(),
	}
}

// Start pairs the second participant and opens the timing window:
// play begins GraceWindow from now and runs for PlayWindow.
func (g *Game) Start(user2 string, now time.Time) {
	g.User2 = user2
	g.Status = StatusActive
	g.StartingTime = now.Add(GraceWindow)
	g.EndingTime = g.StartingTime.Add(PlayWindow)
}

// RecordAnswer applies one answer outcome and reports whether a score was
// incremented. Incorrect answers, inactive games, and unknown users are
// all silent no-ops. An answer landing at or past EndingTime ends the game
// instead of scoring.
func (g *Game) RecordAnswer(user string, correct bool, now time.Time) bool {
	if !correct {
		return false
	}
	if g.Status != StatusActive {
		return false
	}
	if g.EndingTime.IsZero() {
		return false
	}
	if !now.Before(g.EndingTime) {
		g.Status = StatusEnded
		return false
	}

	switch user {
	case g.User1:
		g.User1Points++
	case g.User2:
		g.User2Points++
	default:
		return false
	}
	return true
}

// Expired reports whether the play window has closed.
func (g *Game) Expired(now time.Time) bool {
	if g.EndingTime.IsZero() {
		return false
	}
	return now.After(g.EndingTime)
}

// End moves the game to its terminal status.
func (g *Game) End() {
	g.Status = StatusEnded
}

// Winner returns the display name of the higher scorer. ok is false on a
// draw, in which case no winner is reported.
func (g *Game) Winner() (name string, ok bool) {
	switch {
	case g.User1Points > g.User2Points:
		return g.User1, true
	case g.User2Points > g.User1Points:
		return g.User2, true
	default:
		return "", false
	}
}
