// internal/game/engine.go
//
// Session engine: owns the single live round.
// Responsibilities:
//   - Start rounds from the word source (random or word of the day), drawing
//     from one category when a category is selected.
//   - Validate and apply letter guesses.
//   - Spend hints from the ledger to reveal letters.
//   - Detect won/lost transitions, score wins and forward outcomes to the ledger.
//   - Publish outbound events for audio/UI collaborators.
//
// State transitions:
//   - playing → won:  every distinct letter of the word is guessed.
//   - playing → lost: the wrong-guess budget is exhausted, or GiveUp.
// Starting a new round discards the previous one.
//
// Operations are serialized by one mutex; each runs to completion before the
// next is accepted.

package game

import (
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/internal/daily"
	"github.com/robalobadob/hangman/internal/events"
	"github.com/robalobadob/hangman/internal/ledger"
	"github.com/robalobadob/hangman/internal/words"
)

// Progress is the part of the ledger the session depends on.
type Progress interface {
	HintsBalance() int
	ConsumeHint() bool
	ApplyWin(ledger.WinOutcome) ledger.Result
	ApplyLoss() ledger.Result
}

// WordSource supplies word lists keyed by language code and category.
type WordSource interface {
	Ready() bool
	Resolve(lang string) string
	Words(lang string) ([]string, error)
	Category(lang, category string) ([]string, error)
	Categories(lang string) ([]string, error)
}

// Session runs rounds against a word source and a progress ledger.
type Session struct {
	mu       sync.Mutex
	src      WordSource
	progress Progress
	clock    Clock
	rng      *rand.Rand
	bus      *events.Bus
	salt     string
	lang     string
	category string
	round    *Round
}

// Option configures a Session.
type Option func(*Session)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option { return func(s *Session) { s.clock = c } }

// WithRand replaces the random source used for word and hint selection.
func WithRand(r *rand.Rand) Option { return func(s *Session) { s.rng = r } }

// WithBus publishes every produced event to b.
func WithBus(b *events.Bus) Option { return func(s *Session) { s.bus = b } }

// WithDailySalt sets the secret mixed into the word-of-the-day index.
func WithDailySalt(salt string) Option { return func(s *Session) { s.salt = salt } }

// WithLanguage sets the initial language.
func WithLanguage(lang string) Option { return func(s *Session) { s.lang = lang } }

// WithCategory restricts new rounds to one category. Empty means every word.
func WithCategory(category string) Option {
	return func(s *Session) { s.category = strings.TrimSpace(category) }
}

// NewSession constructs a Session. No round is live until StartRound.
func NewSession(src WordSource, progress Progress, opts ...Option) *Session {
	s := &Session{
		src:      src,
		progress: progress,
		clock:    systemClock{},
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		salt:     "local_dev_salt",
	}
	for _, o := range opts {
		o(s)
	}
	s.lang = src.Resolve(s.lang)
	return s
}

// Language returns the language used by the next round.
func (s *Session) Language() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lang
}

// SetLanguage changes the language of subsequent rounds. The live round keeps
// its word.
func (s *Session) SetLanguage(lang string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lang = s.src.Resolve(lang)
	return s.lang
}

// ResolveLanguage maps lang to a supported code; empty means the session language.
func (s *Session) ResolveLanguage(lang string) string {
	if lang == "" {
		return s.Language()
	}
	return s.src.Resolve(lang)
}

// Alphabet returns the keyboard letters for lang (or the session language).
func (s *Session) Alphabet(lang string) []string {
	return words.Alphabet(s.ResolveLanguage(lang))
}

// Category returns the category used by the next round; empty means every word.
func (s *Session) Category() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.category
}

// SetCategory selects the category of subsequent rounds. An unknown category
// is accepted here and falls back to the whole list when a round starts.
func (s *Session) SetCategory(category string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.category = strings.TrimSpace(category)
	return s.category
}

// Categories returns the resolved language and its category names.
func (s *Session) Categories(lang string) (string, []string, error) {
	lang = s.ResolveLanguage(lang)
	names, err := s.src.Categories(lang)
	if err != nil {
		return lang, nil, err
	}
	return lang, names, nil
}

// Today returns the date key of the word of the day, from the session clock.
func (s *Session) Today() string {
	return daily.DateKey(s.clock.Now())
}

// StartRound begins a new round with a random word in lang. An empty lang
// keeps the current language.
func (s *Session) StartRound(lang string) (Info, error) {
	return s.start(lang, false)
}

// StartDailyRound begins a new round with today's word in lang.
func (s *Session) StartDailyRound(lang string) (Info, error) {
	return s.start(lang, true)
}

func (s *Session) start(lang string, isDaily bool) (Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.src.Ready() {
		return Info{}, ErrNotReady
	}
	if lang != "" {
		s.lang = s.src.Resolve(lang)
	}

	list, category := s.wordList()

	now := s.clock.Now()
	var idx int
	if isDaily {
		idx = daily.Pick(now, s.salt, s.lang, category, len(list))
	} else {
		idx = s.rng.Intn(len(list))
	}
	word := words.Lower(s.lang, list[idx])

	s.round = newRound(word, s.lang, category, isDaily, now)
	log.Debug().
		Str("round", s.round.ID).
		Str("lang", s.lang).
		Str("category", category).
		Bool("daily", isDaily).
		Msg("round started")
	return s.round.info(now, s.progress.HintsBalance()), nil
}

// wordList returns the words to draw from and the category they belong to.
// An unusable category falls back to the whole language list, and an unusable
// language to the built-in list.
func (s *Session) wordList() ([]string, string) {
	if s.category != "" {
		list, err := s.src.Category(s.lang, s.category)
		if err == nil && len(list) > 0 {
			return list, s.category
		}
		log.Warn().Err(err).Str("lang", s.lang).Str("category", s.category).Msg("category unavailable, using full word list")
	}
	list, err := s.src.Words(s.lang)
	if err != nil || len(list) == 0 {
		log.Warn().Err(err).Str("lang", s.lang).Msg("word list unavailable, using fallback")
		return words.Fallback(), ""
	}
	return list, ""
}

// Info returns the view of the live round.
func (s *Session) Info() (Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.round == nil {
		return Info{}, ErrNoRound
	}
	return s.round.info(s.clock.Now(), s.progress.HintsBalance()), nil
}

// Guess applies one letter to the live round.
//
// Rejections (no state change): ErrNoRound, ErrRoundClosed once terminal,
// ErrInvalidInput unless letter is a single guessable letter,
// ErrDuplicateGuess if it was already guessed.
func (s *Session) Guess(letter string) (GuessResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.liveRound()
	if err != nil {
		return GuessResult{}, err
	}
	l, ok := parseLetter(r.Language, letter)
	if !ok {
		return GuessResult{}, ErrInvalidInput
	}
	if r.has(l) {
		return GuessResult{}, ErrDuplicateGuess
	}

	correct := r.add(l)
	ev := events.New(events.GuessWrong)
	if correct {
		ev = events.New(events.GuessCorrect)
	}
	ev.Letter = string(l)
	evs := []events.Event{ev}

	now := s.clock.Now()
	unlocked, evs := s.settle(r, now, evs)
	s.bus.Publish(evs...)

	return GuessResult{
		Letter:   string(l),
		Correct:  correct,
		Status:   r.Status,
		Points:   r.Points,
		Unlocked: unlocked,
		Round:    r.info(now, s.progress.HintsBalance()),
		Events:   evs,
	}, nil
}

// Hint spends one hint to reveal a random unguessed letter.
//
// The balance is checked first (ErrNoHints), then whether anything is left to
// reveal (ErrNoHintNeeded); the hint is only consumed once both pass.
func (s *Session) Hint() (HintResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.liveRound()
	if err != nil {
		return HintResult{}, err
	}
	if s.progress.HintsBalance() <= 0 {
		return HintResult{}, ErrNoHints
	}
	missing := r.missing()
	if len(missing) == 0 {
		return HintResult{}, ErrNoHintNeeded
	}
	if !s.progress.ConsumeHint() {
		return HintResult{}, ErrNoHints
	}

	l := missing[s.rng.Intn(len(missing))]
	r.add(l)
	ev := events.New(events.HintUsed)
	ev.Letter = string(l)
	evs := []events.Event{ev}

	now := s.clock.Now()
	unlocked, evs := s.settle(r, now, evs)
	s.bus.Publish(evs...)

	return HintResult{
		Letter:   string(l),
		Status:   r.Status,
		Points:   r.Points,
		Unlocked: unlocked,
		Round:    r.info(now, s.progress.HintsBalance()),
		Events:   evs,
	}, nil
}

// GiveUp ends the live round as lost, whatever budget is left.
func (s *Session) GiveUp() (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.liveRound()
	if err != nil {
		return Outcome{}, err
	}
	now := s.clock.Now()
	r.Status = StatusLost
	r.EndedAt = now

	unlocked, evs := s.finish(r, now, nil)
	s.bus.Publish(evs...)

	return Outcome{
		Status:   r.Status,
		Word:     r.Word,
		Unlocked: unlocked,
		Round:    r.info(now, s.progress.HintsBalance()),
		Events:   evs,
	}, nil
}

func (s *Session) liveRound() (*Round, error) {
	if s.round == nil {
		return nil, ErrNoRound
	}
	if s.round.Status != StatusPlaying {
		return nil, ErrRoundClosed
	}
	return s.round, nil
}

// settle evaluates the terminal condition and, on a transition, applies the
// outcome to the ledger.
func (s *Session) settle(r *Round, now time.Time, evs []events.Event) ([]string, []events.Event) {
	if r.settle(now) == StatusPlaying {
		return nil, evs
	}
	return s.finish(r, now, evs)
}

// finish forwards the outcome of a terminal round and appends its events.
func (s *Session) finish(r *Round, now time.Time, evs []events.Event) ([]string, []events.Event) {
	var res ledger.Result
	switch r.Status {
	case StatusWon:
		r.Points = r.score(now)
		res = s.progress.ApplyWin(ledger.WinOutcome{
			GuessesRemaining: r.remaining(),
			ElapsedSeconds:   r.elapsed(now),
		})
		ev := events.New(events.RoundWon)
		ev.Status, ev.Word, ev.Points = string(r.Status), r.Word, r.Points
		evs = append(evs, ev)
	case StatusLost:
		res = s.progress.ApplyLoss()
		ev := events.New(events.RoundLost)
		ev.Status, ev.Word = string(r.Status), r.Word
		evs = append(evs, ev)
	}
	for _, id := range res.Unlocked {
		ev := events.New(events.AchievementUnlocked)
		ev.Achievement = id
		evs = append(evs, ev)
	}
	log.Debug().
		Str("round", r.ID).
		Str("status", string(r.Status)).
		Int("wrong", r.Wrong).
		Int("points", r.Points).
		Strs("unlocked", res.Unlocked).
		Msg("round finished")
	return res.Unlocked, evs
}

// parseLetter lowercases letter and accepts it only if it is exactly one
// guessable rune.
func parseLetter(lang, letter string) (rune, bool) {
	letter = words.Lower(lang, letter)
	if utf8.RuneCountInString(letter) != 1 {
		return 0, false
	}
	l, _ := utf8.DecodeRuneInString(letter)
	if !words.IsLetter(l) {
		return 0, false
	}
	return l, true
}
