package validator

import (
	"fmt"

	"github.com/derekprior/rally/internal/excel"
	"github.com/derekprior/rally/internal/schedule"
)

// backToBackMinimum is the smallest roster whose games can be ordered so
// that nobody plays twice in a row.
const backToBackMinimum = 5

// Violation represents a problem found in a schedule.
type Violation struct {
	Game    int    // 1-based game number, 0 when the problem is not tied to one game
	Type    string // "error" or "warning"
	Message string
}

// Validate loads a schedule workbook and checks it. A gamesEach of zero or
// less is inferred from the number of games and competitors.
func Validate(path string, gamesEach int) ([]Violation, error) {
	wb, err := excel.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading workbook: %w", err)
	}

	var violations []Violation
	if gamesEach <= 0 {
		n := len(wb.Roster)
		if n == 0 {
			return []Violation{{Type: "error", Message: "workbook has no competitors"}}, nil
		}
		if 2*wb.Schedule.Len()%n != 0 {
			violations = append(violations, Violation{
				Type:    "error",
				Message: fmt.Sprintf("%d games cannot be shared evenly among %d competitors", wb.Schedule.Len(), n),
			})
		}
		gamesEach = 2 * wb.Schedule.Len() / n
	}

	return append(violations, Check(wb.Schedule, wb.Roster, gamesEach)...), nil
}

// Check reports errors for broken scheduling invariants and warnings for
// ordering that a manual move may have introduced.
func Check(s *schedule.Schedule, roster []schedule.Competitor, gamesEach int) []Violation {
	games := s.Games()
	known := make(map[string]bool, len(roster))
	for _, c := range roster {
		known[c.ID] = true
	}

	var violations []Violation

	// Errors
	violations = append(violations, checkSelfPairs(games)...)
	violations = append(violations, checkUnknownCompetitors(games, known)...)
	violations = append(violations, checkGameCounts(games, roster, gamesEach)...)

	// Warnings
	violations = append(violations, checkRepeatsInRound(s)...)
	if len(roster) >= backToBackMinimum {
		violations = append(violations, checkBackToBack(games)...)
	}

	return violations
}

func checkSelfPairs(games []schedule.Game) []Violation {
	var violations []Violation
	for i, g := range games {
		if g.Left.ID == g.Right.ID {
			violations = append(violations, Violation{
				Game:    i + 1,
				Type:    "error",
				Message: fmt.Sprintf("%s is paired with themselves", g.Left.Name),
			})
		}
	}
	return violations
}

func checkUnknownCompetitors(games []schedule.Game, known map[string]bool) []Violation {
	var violations []Violation
	for i, g := range games {
		for _, c := range []schedule.Competitor{g.Left, g.Right} {
			if !known[c.ID] {
				violations = append(violations, Violation{
					Game:    i + 1,
					Type:    "error",
					Message: fmt.Sprintf("%s (%s) is not on the roster", c.Name, c.ID),
				})
			}
		}
	}
	return violations
}

func checkGameCounts(games []schedule.Game, roster []schedule.Competitor, gamesEach int) []Violation {
	counts := make(map[string]int)
	for _, g := range games {
		counts[g.Left.ID]++
		if g.Right.ID != g.Left.ID {
			counts[g.Right.ID]++
		}
	}

	var violations []Violation
	for _, c := range roster {
		if counts[c.ID] != gamesEach {
			violations = append(violations, Violation{
				Type:    "error",
				Message: fmt.Sprintf("%s has %d games, want %d", c.Name, counts[c.ID], gamesEach),
			})
		}
	}
	return violations
}

// checkRepeatsInRound flags a pairing that appears twice in the same round.
func checkRepeatsInRound(s *schedule.Schedule) []Violation {
	type pair struct{ a, b string }

	var violations []Violation
	for r, n := 0, s.NumRounds(); r < n; r++ {
		base := r * s.GamesPerFullRound()
		seen := make(map[pair]int)
		for i, g := range s.GamesInRound(r) {
			p := pair{g.Left.ID, g.Right.ID}
			if p.a > p.b {
				p.a, p.b = p.b, p.a
			}
			if first, ok := seen[p]; ok {
				violations = append(violations, Violation{
					Game:    base + i + 1,
					Type:    "warning",
					Message: fmt.Sprintf("%s already played in round %d as game %d", g, r+1, first),
				})
				continue
			}
			seen[p] = base + i + 1
		}
	}
	return violations
}

func checkBackToBack(games []schedule.Game) []Violation {
	var violations []Violation
	for i := 1; i < len(games); i++ {
		prev, cur := games[i-1], games[i]
		for _, c := range []schedule.Competitor{cur.Left, cur.Right} {
			if prev.Involves(c.ID) {
				violations = append(violations, Violation{
					Game:    i + 1,
					Type:    "warning",
					Message: fmt.Sprintf("%s plays games %d and %d back to back", c.Name, i, i+1),
				})
			}
		}
	}
	return violations
}
