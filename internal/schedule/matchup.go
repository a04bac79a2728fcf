package schedule

// matchup is an unordered pair of distinct roster indices, a < b.
type matchup struct {
	a, b int
}

// enumerate returns every unordered pair of n competitors exactly once,
// in row-major order.
func enumerate(n int) []matchup {
	if n < 2 {
		return nil
	}
	pairs := make([]matchup, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, matchup{a: i, b: j})
		}
	}
	return pairs
}
