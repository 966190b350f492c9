package ledger

// Score computes the points for a win:
//
//	100 base
//	+ 10 per wrong guess left unused
//	+ 50 for a perfect game (no wrong guesses)
//	+ 75 for a speed run (0 < elapsed < 30s)
func Score(guessesRemaining, elapsedSeconds int) int {
	points := 100 + 10*guessesRemaining
	if isPerfect(guessesRemaining) {
		points += 50
	}
	if isSpeedRun(elapsedSeconds) {
		points += 75
	}
	return points
}

// Perfect is keyed on the exact budget, not >=.
func isPerfect(guessesRemaining int) bool { return guessesRemaining == MaxWrongGuesses }

func isSpeedRun(elapsedSeconds int) bool {
	return elapsedSeconds > 0 && elapsedSeconds < SpeedRunSeconds
}
