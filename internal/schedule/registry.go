package schedule

import "slices"

// entrant holds the scheduling counters for one competitor.
type entrant struct {
	times int // matchups committed so far
	last  int // sequence number of the most recent committed matchup
}

// registry is indexed by roster position. Matchups refer to competitors by
// that index, so a clone is all a partial-round attempt needs to work on a
// private copy of the state.
type registry []entrant

func newRegistry(n int) registry {
	return make(registry, n)
}

func (r registry) clone() registry {
	return slices.Clone(r)
}

// commit records m as the seq-th matchup of the tournament.
func (r registry) commit(m matchup, seq int) {
	r[m.a].times++
	r[m.b].times++
	r[m.a].last = seq
	r[m.b].last = seq
}

func (r registry) load(m matchup) int {
	return r[m.a].times + r[m.b].times
}

func (r registry) recency(m matchup) int {
	return r[m.a].last + r[m.b].last
}

// saturated reports whether either side of m has reached limit.
func (r registry) saturated(m matchup, limit int) bool {
	return r[m.a].times >= limit || r[m.b].times >= limit
}
