// Package types defines the JSON wire messages exchanged with clients.
package types

import (
	"time"

	"github.com/vekariaayush04/matiq/internal/game"
)

// Inbound event type discriminators.
const (
	EventJoin   = "JOIN"
	EventUpdate = "UPDATE"
	EventLeave  = "LEAVE"
)

// ClientMessage is the raw inbound envelope; Type selects which of the
// remaining fields are meaningful. The ws layer converts it into a closed
// command set before anything acts on it.
type ClientMessage struct {
	Type string `json:"type"`

	// JOIN
	Name   string `json:"name,omitempty"`
	UserID string `json:"userId,omitempty"`

	// UPDATE
	GameID    string `json:"gameId,omitempty"`
	User      string `json:"user,omitempty"`
	IsCorrect bool   `json:"isCorrect,omitempty"`
}

// ServerEvent is the closed set of outbound payloads. Every event destined
// for a session is sent to both participants independently.
type ServerEvent interface{ isServerEvent() }

// Waiting acknowledges the first participant of a pair.
type Waiting struct {
	Status string `json:"status"` // always "waiting"
}

type GameStarted struct {
	Type         string          `json:"type"` // "GAME_STARTED"
	GameID       string          `json:"gameId"`
	User1        string          `json:"user1"`
	User2        string          `json:"user2"`
	StartingTime time.Time       `json:"startingTime"`
	EndingTime   time.Time       `json:"endingTime"`
	Questions    []game.Question `json:"questions"`
}

type ScoreUpdate struct {
	Type        string `json:"type"` // "SCORE_UPDATE"
	User1Points int    `json:"user1Points"`
	User2Points int    `json:"user2Points"`
}

type GameOver struct {
	Type        string `json:"type"` // "GAME_OVER"
	User1Points int    `json:"user1Points"`
	User2Points int    `json:"user2Points"`
	Winner      string `json:"winner,omitempty"` // omitted on a draw
}

// ErrorEvent goes to a single sender, e.g. an UPDATE naming an unknown game.
type ErrorEvent struct {
	Error string `json:"error"`
}

func (Waiting) isServerEvent()     {}
func (GameStarted) isServerEvent() {}
func (ScoreUpdate) isServerEvent() {}
func (GameOver) isServerEvent()    {}
func (ErrorEvent) isServerEvent()  {}

func NewWaiting() Waiting {
	return Waiting{Status: "waiting"}
}

func NewGameStarted(g *game.Game) GameStarted {
	return GameStarted{
		Type:         "GAME_STARTED",
		GameID:       g.ID.String(),
		User1:        g.User1,
		User2:        g.User2,
		StartingTime: g.StartingTime,
		EndingTime:   g.EndingTime,
		Questions:    g.Questions,
	}
}

func NewScoreUpdate(g *game.Game) ScoreUpdate {
	return ScoreUpdate{
		Type:        "SCORE_UPDATE",
		User1Points: g.User1Points,
		User2Points: g.User2Points,
	}
}

func NewGameOver(g *game.Game) GameOver {
	over := GameOver{
		Type:        "GAME_OVER",
		User1Points: g.User1Points,
		User2Points: g.User2Points,
	}
	if winner, ok := g.Winner(); ok {
		over.Winner = winner
	}
	return over
}
