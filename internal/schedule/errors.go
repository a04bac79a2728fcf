package schedule

import "errors"

// Configuration errors, reported by Build before any scheduling work starts.
var (
	ErrTooFewCompetitors       = errors.New("at least two competitors are required")
	ErrInvalidGamesEach        = errors.New("games each must be at least 1")
	ErrDuplicateCompetitor     = errors.New("duplicate competitor")
	ErrInfeasibleConfiguration = errors.New("if the number of competitors is odd, the number of games each must be even")
)

// ErrSchedulingExhausted means the partial round could not be filled within
// the attempt limit. Building again (or with a different games-each value)
// may succeed.
var ErrSchedulingExhausted = errors.New("could not schedule the partial round")

// Errors returned by the Schedule mutation methods.
var (
	ErrIndexOutOfRange = errors.New("game index out of range")
	ErrDrawnResult     = errors.New("a game cannot end in a draw")
	ErrInvalidScore    = errors.New("scores cannot be negative")
)
