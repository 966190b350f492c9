package ledger

// definition pairs an achievement id with a pure predicate over counters.
type definition struct {
	id        string
	icon      string
	condition func(Counters) bool
}

// catalog is evaluated in order. Add entries here to extend it.
var catalog = []definition{
	{id: "firstWin", icon: "🏆", condition: func(c Counters) bool { return c.TotalWins >= 1 }},
	{id: "tenWins", icon: "🎯", condition: func(c Counters) bool { return c.TotalWins >= 10 }},
	{id: "perfectGame", icon: "⭐", condition: func(c Counters) bool { return c.PerfectGames >= 1 }},
	{id: "streak5", icon: "🔥", condition: func(c Counters) bool { return c.BestStreak >= 5 }},
	{id: "streak10", icon: "💥", condition: func(c Counters) bool { return c.BestStreak >= 10 }},
	{id: "speedRunner", icon: "⚡", condition: func(c Counters) bool { return c.SpeedRuns >= 1 }},
}

// AchievementIDs lists catalog identifiers in evaluation order.
func AchievementIDs() []string {
	ids := make([]string, len(catalog))
	for i, d := range catalog {
		ids[i] = d.id
	}
	return ids
}

func known(id string) bool {
	for _, d := range catalog {
		if d.id == id {
			return true
		}
	}
	return false
}

// evaluate returns the ids whose predicate holds for c and that are not
// already in unlocked. It does not mutate anything.
func evaluate(c Counters, unlocked map[string]bool) []string {
	var out []string
	for _, d := range catalog {
		if !unlocked[d.id] && d.condition(c) {
			out = append(out, d.id)
		}
	}
	return out
}
