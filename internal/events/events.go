// internal/events/events.go
//
// Outbound notifications produced by the game core.
// Presentation and audio collaborators subscribe to a Bus and react to
// discrete events (play a cue, flash a badge). Each event carries only the
// payload needed for that feedback.

package events

import "sync"

// Type names one kind of notification.
type Type string

const (
	GuessCorrect        Type = "guess-correct"
	GuessWrong          Type = "guess-wrong"
	RoundWon            Type = "round-won"
	RoundLost           Type = "round-lost"
	HintUsed            Type = "hint-used"
	AchievementUnlocked Type = "achievement-unlocked"
)

// Cue returns the sound cue a client should play for t.
func (t Type) Cue() string {
	switch t {
	case GuessCorrect:
		return "click"
	case GuessWrong:
		return "error"
	case RoundWon:
		return "win"
	case RoundLost:
		return "lose"
	case HintUsed:
		return "hint"
	case AchievementUnlocked:
		return "achievement"
	}
	return ""
}

// Event is a single notification.
type Event struct {
	Type        Type   `json:"type"`
	Cue         string `json:"cue"`
	Letter      string `json:"letter,omitempty"`
	Status      string `json:"status,omitempty"`
	Word        string `json:"word,omitempty"`
	Points      int    `json:"points,omitempty"`
	Achievement string `json:"achievement,omitempty"`
}

// New builds an event of type t with its cue filled in.
func New(t Type) Event {
	return Event{Type: t, Cue: t.Cue()}
}

// Listener receives published events.
type Listener func(Event)

// Bus fans events out to listeners in subscription order.
// The zero value is ready to use.
type Bus struct {
	mu        sync.RWMutex
	listeners []Listener
}

// Subscribe registers l for all future events.
func (b *Bus) Subscribe(l Listener) {
	if l == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, l)
}

// Publish delivers evs to every listener, in order.
func (b *Bus) Publish(evs ...Event) {
	if b == nil || len(evs) == 0 {
		return
	}
	b.mu.RLock()
	ls := append([]Listener(nil), b.listeners...)
	b.mu.RUnlock()
	for _, ev := range evs {
		for _, l := range ls {
			l(ev)
		}
	}
}
