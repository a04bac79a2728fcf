package schedule

import (
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"
)

// scheduleFullRound commits every matchup in the universe once. Order is
// chosen greedily: least-played pairs first, then least-recently-played.
func (b *builder) scheduleFullRound() {
	pool := b.shuffledUniverse()
	for len(pool) > 0 {
		var m matchup
		pool, m = take(pool, b.state, true)
		b.seq++
		b.state.commit(m, b.seq)
		b.committed = append(b.committed, m)
	}
}

// schedulePartialRound commits remainder more matchups without pushing any
// competitor past gamesEach. The greedy choice can strand itself when the
// pool is pruned empty, so each attempt works on a clone of the state and
// only a complete attempt is committed.
//
// The recency tie-break leaves the shuffle almost nothing to decide once
// full rounds have been played, so a stuck first attempt would repeat
// itself. Later attempts break load ties by shuffled pool order instead.
func (b *builder) schedulePartialRound(remainder int) error {
	if remainder == 0 {
		return nil
	}

	for attempt := 1; attempt <= b.maxAttempts; attempt++ {
		state := b.state.clone()
		seq := b.seq
		pool := b.prune(b.shuffledUniverse(), state)
		picked := make([]matchup, 0, remainder)

		for len(picked) < remainder && len(pool) > 0 {
			var m matchup
			pool, m = take(pool, state, attempt == 1)
			seq++
			state.commit(m, seq)
			picked = append(picked, m)
			pool = b.prune(pool, state)
		}

		if len(picked) == remainder {
			b.committed = append(b.committed, picked...)
			b.state = state
			b.seq = seq
			b.log.WithFields(logrus.Fields{
				"attempt":   attempt,
				"remainder": remainder,
			}).Debug("partial round scheduled")
			return nil
		}

		b.log.WithFields(logrus.Fields{
			"attempt":   attempt,
			"scheduled": len(picked),
			"remainder": remainder,
		}).Debug("partial round stuck, retrying")
	}

	return fmt.Errorf("%w: %d games still unplaced after %d attempts", ErrSchedulingExhausted, remainder, b.maxAttempts)
}

// prune drops every matchup involving a competitor who has no games left.
func (b *builder) prune(pool []matchup, state registry) []matchup {
	return slices.DeleteFunc(pool, func(m matchup) bool {
		return state.saturated(m, b.gamesEach)
	})
}

func (b *builder) shuffledUniverse() []matchup {
	pool := slices.Clone(b.universe)
	b.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	return pool
}

// take removes the best matchup from pool and returns both. pool must not
// be empty.
func take(pool []matchup, state registry, byRecency bool) ([]matchup, matchup) {
	i := selectBest(pool, state, byRecency)
	m := pool[i]
	return slices.Delete(pool, i, i+1), m
}

// selectBest returns the index of the matchup whose competitors have played
// the fewest games between them. With byRecency, ties go to the earliest
// combined last-played position; remaining ties go to pool order.
func selectBest(pool []matchup, state registry, byRecency bool) int {
	best := 0
	for i := 1; i < len(pool); i++ {
		load, bestLoad := state.load(pool[i]), state.load(pool[best])
		switch {
		case load < bestLoad:
			best = i
		case load == bestLoad && byRecency && state.recency(pool[i]) < state.recency(pool[best]):
			best = i
		}
	}
	return best
}
