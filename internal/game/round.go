package game

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/robalobadob/hangman/internal/ledger"
)

func newRound(word, lang, category string, daily bool, now time.Time) *Round {
	return &Round{
		ID:        randomID(),
		Word:      word,
		Language:  lang,
		Category:  category,
		Daily:     daily,
		Guessed:   []rune{},
		Status:    StatusPlaying,
		StartedAt: now,
		guessed:   make(map[rune]struct{}),
	}
}

// has reports whether l was already guessed or revealed.
func (r *Round) has(l rune) bool {
	_, ok := r.guessed[l]
	return ok
}

// inWord reports whether l occurs in the target word.
func (r *Round) inWord(l rune) bool {
	return strings.ContainsRune(r.Word, l)
}

// add records l and returns whether it is in the word.
// Callers must have rejected duplicates.
func (r *Round) add(l rune) bool {
	r.guessed[l] = struct{}{}
	r.Guessed = append(r.Guessed, l)
	if r.inWord(l) {
		return true
	}
	r.Wrong++
	return false
}

// missing returns the distinct letters of the word not yet guessed, in word order.
func (r *Round) missing() []rune {
	var out []rune
	seen := make(map[rune]struct{})
	for _, l := range r.Word {
		if _, dup := seen[l]; dup || r.has(l) {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

// settle moves the round to a terminal status if one applies.
// Won and Lost cannot both hold: a letter that completes the word is never wrong.
func (r *Round) settle(now time.Time) Status {
	if r.Status != StatusPlaying {
		return r.Status
	}
	switch {
	case len(r.missing()) == 0:
		r.Status = StatusWon
	case r.Wrong >= MaxWrongGuesses:
		r.Status = StatusLost
	default:
		return r.Status
	}
	r.EndedAt = now
	return r.Status
}

func (r *Round) remaining() int { return MaxWrongGuesses - r.Wrong }

// elapsed returns whole seconds since the start, frozen once terminal.
func (r *Round) elapsed(now time.Time) int {
	end := now
	if !r.EndedAt.IsZero() {
		end = r.EndedAt
	}
	d := end.Sub(r.StartedAt)
	if d < 0 {
		return 0
	}
	return int(d / time.Second)
}

// score applies the win formula to this round.
func (r *Round) score(now time.Time) int {
	return ledger.Score(r.remaining(), r.elapsed(now))
}

// display masks unguessed letters: "c _ t".
func (r *Round) display() string {
	parts := make([]string, 0, len(r.Word))
	for _, l := range r.Word {
		if r.has(l) {
			parts = append(parts, string(l))
		} else {
			parts = append(parts, "_")
		}
	}
	return strings.Join(parts, " ")
}

// info builds the client view. hints is the ledger balance.
func (r *Round) info(now time.Time, hints int) Info {
	in := Info{
		ID:               r.ID,
		Language:         r.Language,
		Category:         r.Category,
		Daily:            r.Daily,
		Display:          r.display(),
		Length:           len([]rune(r.Word)),
		Status:           r.Status,
		Active:           r.Status == StatusPlaying,
		WrongGuesses:     r.Wrong,
		GuessesRemaining: r.remaining(),
		GuessedLetters:   []string{},
		CorrectLetters:   []string{},
		WrongLetters:     []string{},
		HintsRemaining:   hints,
		Stage:            min(r.Wrong, MaxWrongGuesses),
		ElapsedSeconds:   r.elapsed(now),
		Points:           r.Points,
	}
	for _, l := range r.Guessed {
		s := string(l)
		in.GuessedLetters = append(in.GuessedLetters, s)
		if r.inWord(l) {
			in.CorrectLetters = append(in.CorrectLetters, s)
		} else {
			in.WrongLetters = append(in.WrongLetters, s)
		}
	}
	if !in.Active {
		in.Word = r.Word
	}
	return in
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
