package schedule

import (
	"fmt"
	"io"
	"slices"
)

// Schedule is an ordered list of games split into fixed-size rounds. The
// last round may be shorter. A Schedule is not safe for concurrent use.
type Schedule struct {
	games             []Game
	gamesPerFullRound int
}

// New wraps games in a Schedule. It is used by Build and when loading a
// previously saved schedule.
func New(games []Game, gamesPerFullRound int) *Schedule {
	return &Schedule{games: games, gamesPerFullRound: gamesPerFullRound}
}

func (s *Schedule) Len() int {
	return len(s.games)
}

func (s *Schedule) IsEmpty() bool {
	return len(s.games) == 0
}

// Clear removes every game. The round size is kept.
func (s *Schedule) Clear() {
	s.games = nil
}

func (s *Schedule) GamesPerFullRound() int {
	return s.gamesPerFullRound
}

// Games returns a copy of all games in schedule order.
func (s *Schedule) Games() []Game {
	return slices.Clone(s.games)
}

// GameAt returns the game at index, or false if there is none.
func (s *Schedule) GameAt(index int) (Game, bool) {
	if index < 0 || index >= len(s.games) {
		return Game{}, false
	}
	return s.games[index], true
}

// GamesInRound returns the games in the given zero-based round. Rounds past
// the end are empty.
func (s *Schedule) GamesInRound(roundIndex int) []Game {
	if roundIndex < 0 || s.gamesPerFullRound <= 0 {
		return nil
	}
	start := roundIndex * s.gamesPerFullRound
	if start >= len(s.games) {
		return nil
	}
	end := min(start+s.gamesPerFullRound, len(s.games))
	return slices.Clone(s.games[start:end])
}

func (s *Schedule) NumRounds() int {
	if s.gamesPerFullRound <= 0 {
		return 0
	}
	return (len(s.games) + s.gamesPerFullRound - 1) / s.gamesPerFullRound
}

// RoundOf returns the zero-based round containing the game at index.
func (s *Schedule) RoundOf(index int) int {
	if s.gamesPerFullRound <= 0 {
		return 0
	}
	return index / s.gamesPerFullRound
}

// MoveGame removes the game at oldIndex and reinserts it so that it lands
// at newIndex as counted before the removal. newIndex may equal Len() to
// move a game to the end.
func (s *Schedule) MoveGame(oldIndex, newIndex int) error {
	if oldIndex < 0 || oldIndex >= len(s.games) || newIndex < 0 || newIndex > len(s.games) {
		return fmt.Errorf("%w: move %d to %d with %d games", ErrIndexOutOfRange, oldIndex, newIndex, len(s.games))
	}

	g := s.games[oldIndex]
	s.games = slices.Delete(s.games, oldIndex, oldIndex+1)
	if newIndex > oldIndex {
		newIndex--
	}
	s.games = slices.Insert(s.games, newIndex, g)
	return nil
}

func (s *Schedule) MarkPlayed(index int) error {
	if index < 0 || index >= len(s.games) {
		return fmt.Errorf("%w: %d with %d games", ErrIndexOutOfRange, index, len(s.games))
	}
	s.games[index].Played = true
	return nil
}

// RecordResult stores the final score of the game at index and marks it
// played. Draws are rejected.
func (s *Schedule) RecordResult(index, leftScore, rightScore int) error {
	if index < 0 || index >= len(s.games) {
		return fmt.Errorf("%w: %d with %d games", ErrIndexOutOfRange, index, len(s.games))
	}
	if leftScore < 0 || rightScore < 0 {
		return fmt.Errorf("%w: %d-%d", ErrInvalidScore, leftScore, rightScore)
	}
	if leftScore == rightScore {
		return fmt.Errorf("%w: %d-%d", ErrDrawnResult, leftScore, rightScore)
	}

	g := &s.games[index]
	g.LeftScore = leftScore
	g.RightScore = rightScore
	g.Played = true
	return nil
}

// RenameCascade copies c's name onto every game slot holding c's identity
// and returns how many slots changed.
func (s *Schedule) RenameCascade(c Competitor) int {
	updated := 0
	for i := range s.games {
		g := &s.games[i]
		if g.Left.ID == c.ID {
			g.Left.Name = c.Name
			updated++
		}
		if g.Right.ID == c.ID {
			g.Right.Name = c.Name
			updated++
		}
	}
	return updated
}

// NextGame returns the first game that has not been played.
func (s *Schedule) NextGame() (int, Game, bool) {
	for i, g := range s.games {
		if !g.Played {
			return i, g, true
		}
	}
	return -1, Game{}, false
}

// Remaining counts unplayed games.
func (s *Schedule) Remaining() int {
	n := 0
	for _, g := range s.games {
		if !g.Played {
			n++
		}
	}
	return n
}

// Print writes the schedule grouped by round, numbering games from 1.
func (s *Schedule) Print(w io.Writer) error {
	for r, n := 0, s.NumRounds(); r < n; r++ {
		if r > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := s.PrintRound(w, r); err != nil {
			return err
		}
	}
	return nil
}

// PrintRound writes a single round in the same format as Print.
func (s *Schedule) PrintRound(w io.Writer, roundIndex int) error {
	if _, err := fmt.Fprintf(w, "Round %d:\n", roundIndex+1); err != nil {
		return err
	}
	base := roundIndex * s.gamesPerFullRound
	for i, g := range s.GamesInRound(roundIndex) {
		if _, err := fmt.Fprintf(w, "%4d. %s%s\n", base+i+1, g, status(g)); err != nil {
			return err
		}
	}
	return nil
}

func status(g Game) string {
	switch {
	case g.HasResult():
		return fmt.Sprintf("  ✓ %d-%d", g.LeftScore, g.RightScore)
	case g.Played:
		return "  ✓"
	default:
		return ""
	}
}
