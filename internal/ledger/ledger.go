// internal/ledger/ledger.go
//
// Progress ledger: durable cross-round statistics and achievement flags.
// Responsibilities:
//   - Apply win/loss outcomes (counters, streaks, points).
//   - Hint economy (consume / grant) with a balance that never goes negative.
//   - Evaluate the achievement catalog after every outcome.
//   - Persist after every mutation (best effort; failures are logged only).
//
// The ledger is safe for concurrent use; every method runs under one mutex.

package ledger

import (
	"context"
	"math"
	"sync"

	"github.com/rs/zerolog/log"
)

// Ledger owns the cumulative counters and achievement flags.
type Ledger struct {
	mu       sync.Mutex
	counters Counters
	unlocked map[string]bool
	p        Persister
}

// New constructs a ledger with default values.
// p may be nil, in which case nothing is persisted.
func New(p Persister) *Ledger {
	return &Ledger{
		counters: DefaultCounters(),
		unlocked: make(map[string]bool),
		p:        p,
	}
}

// Load replaces in-memory state with the persisted snapshot.
// Missing records mean defaults; a failing persister leaves defaults in place.
func (l *Ledger) Load(ctx context.Context) error {
	if l.p == nil {
		return nil
	}
	snap, err := l.p.Load(ctx)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.counters = snap.Counters
	if l.counters.HintsBalance < 0 {
		l.counters.HintsBalance = 0
	}
	if l.counters.BestStreak < l.counters.CurrentStreak {
		l.counters.BestStreak = l.counters.CurrentStreak
	}
	l.unlocked = make(map[string]bool)
	for id, v := range snap.Achievements {
		if v && known(id) {
			l.unlocked[id] = true
		}
	}
	return nil
}

// ApplyWin records a won round and returns the points it earned.
func (l *Ledger) ApplyWin(o WinOutcome) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	c := &l.counters
	c.TotalGames++
	c.TotalWins++
	c.CurrentStreak++
	if c.CurrentStreak > c.BestStreak {
		c.BestStreak = c.CurrentStreak
	}
	if isPerfect(o.GuessesRemaining) {
		c.PerfectGames++
	}
	if isSpeedRun(o.ElapsedSeconds) {
		c.SpeedRuns++
	}
	points := Score(o.GuessesRemaining, o.ElapsedSeconds)
	c.TotalPoints += points
	c.LastGameTime = o.ElapsedSeconds

	res := Result{Points: points, Unlocked: l.evaluateLocked()}
	l.persistLocked()
	return res
}

// ApplyLoss records a lost or abandoned round.
func (l *Ledger) ApplyLoss() Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	c := &l.counters
	c.TotalGames++
	c.TotalLosses++
	c.CurrentStreak = 0
	c.LastGameTime = 0

	res := Result{Unlocked: l.evaluateLocked()}
	l.persistLocked()
	return res
}

// HintsBalance reports how many hints can still be spent.
func (l *Ledger) HintsBalance() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counters.HintsBalance
}

// ConsumeHint spends one hint. It returns false, changing nothing, when the
// balance is zero.
func (l *Ledger) ConsumeHint() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.counters.HintsBalance <= 0 {
		return false
	}
	l.counters.HintsBalance--
	l.counters.HintsUsed++
	l.persistLocked()
	return true
}

// GrantHints adds amount hints to the balance. Non-positive amounts grant
// DefaultHintGrant.
func (l *Ledger) GrantHints(amount int) int {
	if amount <= 0 {
		amount = DefaultHintGrant
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.counters.HintsBalance += amount
	l.persistLocked()
	return l.counters.HintsBalance
}

// Evaluate runs the achievement catalog against the current counters and
// returns newly unlocked ids. Outcome methods call this already; call it
// after Load to restore flags missing from a damaged achievements record.
func (l *Ledger) Evaluate() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	ids := l.evaluateLocked()
	if len(ids) > 0 {
		l.persistLocked()
	}
	return ids
}

func (l *Ledger) evaluateLocked() []string {
	ids := evaluate(l.counters, l.unlocked)
	for _, id := range ids {
		l.unlocked[id] = true
		log.Info().Str("achievement", id).Msg("achievement unlocked")
	}
	return ids
}

// Reset restores every counter to its default, clears all achievement flags
// and erases persisted state.
func (l *Ledger) Reset(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.counters = DefaultCounters()
	l.unlocked = make(map[string]bool)
	if l.p == nil {
		return
	}
	if err := l.p.Erase(ctx); err != nil {
		log.Warn().Err(err).Msg("erase ledger")
	}
}

// Counters returns a copy of the current counters.
func (l *Ledger) Counters() Counters {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counters
}

// Stats returns counters plus derived figures.
func (l *Ledger) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	c := l.counters
	st := Stats{
		Counters:             c,
		UnlockedAchievements: len(l.unlocked),
		TotalAchievements:    len(catalog),
	}
	if c.TotalGames > 0 {
		st.WinRate = int(math.Round(float64(c.TotalWins) / float64(c.TotalGames) * 100))
	}
	return st
}

// Achievements returns the whole catalog in order.
func (l *Ledger) Achievements() []Achievement {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Achievement, 0, len(catalog))
	for _, d := range catalog {
		out = append(out, Achievement{
			ID:          d.id,
			Icon:        d.icon,
			Description: d.id + "Desc",
			Unlocked:    l.unlocked[d.id],
		})
	}
	return out
}

// Unlocked returns only the unlocked catalog entries.
func (l *Ledger) Unlocked() []Achievement {
	var out []Achievement
	for _, a := range l.Achievements() {
		if a.Unlocked {
			out = append(out, a)
		}
	}
	return out
}

func (l *Ledger) snapshotLocked() Snapshot {
	flags := make(map[string]bool, len(catalog))
	for _, d := range catalog {
		flags[d.id] = l.unlocked[d.id]
	}
	return Snapshot{Counters: l.counters, Achievements: flags}
}

// persistLocked writes the current state. Failures do not affect gameplay.
func (l *Ledger) persistLocked() {
	if l.p == nil {
		return
	}
	if err := l.p.Save(context.Background(), l.snapshotLocked()); err != nil {
		log.Warn().Err(err).Msg("persist ledger")
	}
}
