package game

import (
	"errors"

	"github.com/robalobadob/hangman/internal/words"
)

// Every error below is recoverable and leaves the round and ledger untouched.
var (
	ErrInvalidInput   = errors.New("invalid letter")
	ErrDuplicateGuess = errors.New("letter already guessed")
	ErrRoundClosed    = errors.New("round is over")
	ErrNoRound        = errors.New("no round started")
	ErrNoHintNeeded   = errors.New("no letters left to reveal")
	ErrNoHints        = errors.New("no hints available")
	ErrNotReady       = words.ErrNotReady
	ErrConfiguration  = words.ErrConfiguration
)
