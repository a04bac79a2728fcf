package standings

import (
	"math"
	"sort"

	"github.com/derekprior/rally/internal/schedule"
)

// Row is one competitor's line in the standings table.
type Row struct {
	Competitor  schedule.Competitor
	Played      int
	Wins        int
	Losses      int
	RalliesWon  int
	RalliesLost int
	Ratio       float64 // rallies won per rally lost, to 2 decimal places
}

// Compute builds the standings for roster from the games that have a
// recorded result. Games marked played without a score, and games between
// competitors missing from roster, are ignored. Rows are ordered by wins,
// then ratio, then name.
func Compute(roster []schedule.Competitor, games []schedule.Game) []Row {
	rows := make([]Row, len(roster))
	index := make(map[string]int, len(roster))
	for i, c := range roster {
		rows[i].Competitor = c
		index[c.ID] = i
	}

	for _, g := range games {
		if !g.HasResult() {
			continue
		}
		l, lok := index[g.Left.ID]
		r, rok := index[g.Right.ID]
		if !lok || !rok {
			continue
		}
		rows[l].record(g.LeftScore, g.RightScore)
		rows[r].record(g.RightScore, g.LeftScore)
	}

	for i := range rows {
		rows[i].Ratio = ratio(rows[i].RalliesWon, rows[i].RalliesLost)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Wins != rows[j].Wins {
			return rows[i].Wins > rows[j].Wins
		}
		if rows[i].Ratio != rows[j].Ratio {
			return rows[i].Ratio > rows[j].Ratio
		}
		return rows[i].Competitor.Name < rows[j].Competitor.Name
	})
	return rows
}

func (r *Row) record(own, other int) {
	r.Played++
	r.RalliesWon += own
	r.RalliesLost += other
	if own > other {
		r.Wins++
	} else {
		r.Losses++
	}
}

// ratio treats zero rallies lost as one so an unbeaten record stays finite.
func ratio(won, lost int) float64 {
	if lost == 0 {
		lost = 1
	}
	return math.Round(float64(won)/float64(lost)*100) / 100
}
