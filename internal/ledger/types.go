// internal/ledger/types.go
//
// Core type definitions for the progress ledger.
// Defines:
//   - Counters: the cumulative statistics persisted as the "gameStats" record.
//   - Stats: Counters plus derived, read-only figures.
//   - Achievement: a catalog entry with its unlocked flag.
//   - WinOutcome / Result: what the session forwards in and gets back.

package ledger

const (
	// MaxWrongGuesses is the wrong-guess budget of a round.
	MaxWrongGuesses = 6

	// DefaultHintGrant is the starting balance and the default purchase size.
	DefaultHintGrant = 5

	// SpeedRunSeconds is the exclusive upper bound for a speed run.
	SpeedRunSeconds = 30
)

// Counters holds the cumulative cross-round statistics.
type Counters struct {
	TotalGames    int `json:"totalGames"`
	TotalWins     int `json:"totalWins"`
	TotalLosses   int `json:"totalLosses"`
	CurrentStreak int `json:"currentStreak"`
	BestStreak    int `json:"bestStreak"`
	TotalPoints   int `json:"totalPoints"`
	PerfectGames  int `json:"perfectGames"`
	SpeedRuns     int `json:"speedRuns"`
	HintsUsed     int `json:"hintsUsed"`
	HintsBalance  int `json:"hintsBalance"`
	LastGameTime  int `json:"lastGameTime"` // seconds taken by the last win, 0 after a loss
}

// DefaultCounters returns the state of a fresh installation.
func DefaultCounters() Counters {
	return Counters{HintsBalance: DefaultHintGrant}
}

// Stats is the read model served to clients.
type Stats struct {
	Counters
	WinRate              int `json:"winRate"` // rounded percentage
	UnlockedAchievements int `json:"unlockedAchievements"`
	TotalAchievements    int `json:"totalAchievements"`
}

// Achievement is one catalog entry as seen by clients.
type Achievement struct {
	ID          string `json:"id"`
	Icon        string `json:"icon"`
	Description string `json:"description"` // i18n key
	Unlocked    bool   `json:"unlocked"`
}

// WinOutcome summarises a won round. The ledger never sees the round itself.
type WinOutcome struct {
	GuessesRemaining int
	ElapsedSeconds   int
}

// Result reports what applying an outcome changed.
type Result struct {
	Points   int      // points added by this outcome (0 for losses)
	Unlocked []string // achievement ids unlocked by this outcome, in catalog order
}

// Snapshot is the full persisted state.
type Snapshot struct {
	Counters     Counters
	Achievements map[string]bool
}
