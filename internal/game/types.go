// internal/game/types.go
//
// Core type definitions for the hangman engine.
// Defines:
//   - Status: coarse round state (playing/won/lost).
//   - Round: state for a single in-progress or finished round.
//   - Info and the per-operation results returned to callers.

package game

import (
	"time"

	"github.com/robalobadob/hangman/internal/events"
	"github.com/robalobadob/hangman/internal/ledger"
)

// MaxWrongGuesses is the wrong-guess budget of every round.
const MaxWrongGuesses = ledger.MaxWrongGuesses

// Status is the lifecycle state of a round. Won and Lost are terminal.
type Status string

const (
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

// Round holds the state of a single round.
type Round struct {
	ID        string    // Unique round identifier (random hex string).
	Word      string    // Target word, lowercased.
	Language  string    // Language the word was drawn from.
	Category  string    // Category the word was drawn from; empty for the whole list.
	Daily     bool      // True if the word is the word of the day.
	Guessed   []rune    // Guessed letters in guess order (hints included).
	Wrong     int       // Guessed letters absent from Word.
	Status    Status    // Current state.
	StartedAt time.Time // Wall-clock start, for speed scoring.
	EndedAt   time.Time // Set when the round becomes terminal.
	Points    int       // Points awarded on a win.

	guessed map[rune]struct{}
}

// Info is the client-facing view of the current round.
type Info struct {
	ID               string   `json:"id"`
	Language         string   `json:"language"`
	Category         string   `json:"category,omitempty"`
	Daily            bool     `json:"daily"`
	Display          string   `json:"display"` // e.g. "c _ t"
	Length           int      `json:"length"`
	Status           Status   `json:"status"`
	Active           bool     `json:"active"`
	WrongGuesses     int      `json:"wrongGuesses"`
	GuessesRemaining int      `json:"guessesRemaining"`
	GuessedLetters   []string `json:"guessedLetters"`
	CorrectLetters   []string `json:"correctLetters"`
	WrongLetters     []string `json:"wrongLetters"`
	HintsRemaining   int      `json:"hintsRemaining"`
	Stage            int      `json:"stage"` // hangman drawing stage, 0..MaxWrongGuesses
	ElapsedSeconds   int      `json:"elapsedSeconds"`
	Points           int      `json:"points,omitempty"`
	Word             string   `json:"word,omitempty"` // revealed once the round is over
}

// GuessResult is returned by Session.Guess.
type GuessResult struct {
	Letter   string         `json:"letter"`
	Correct  bool           `json:"correct"`
	Status   Status         `json:"status"`
	Points   int            `json:"points,omitempty"`
	Unlocked []string       `json:"unlocked,omitempty"`
	Round    Info           `json:"round"`
	Events   []events.Event `json:"events"`
}

// HintResult is returned by Session.Hint.
type HintResult struct {
	Letter   string         `json:"letter"`
	Status   Status         `json:"status"`
	Points   int            `json:"points,omitempty"`
	Unlocked []string       `json:"unlocked,omitempty"`
	Round    Info           `json:"round"`
	Events   []events.Event `json:"events"`
}

// Outcome is returned by Session.GiveUp.
type Outcome struct {
	Status   Status         `json:"status"`
	Word     string         `json:"word"`
	Unlocked []string       `json:"unlocked,omitempty"`
	Round    Info           `json:"round"`
	Events   []events.Event `json:"events"`
}
