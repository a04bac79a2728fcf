package schedule

// Game is one scheduled matchup. Left and Right are display order only.
type Game struct {
	Left   Competitor
	Right  Competitor
	Played bool

	// Scores are set by RecordResult; both are zero until then.
	LeftScore  int
	RightScore int
}

func (g Game) String() string {
	return g.Left.Name + " VS " + g.Right.Name
}

// Involves reports whether the competitor with the given id plays in g.
func (g Game) Involves(id string) bool {
	return g.Left.ID == id || g.Right.ID == id
}

// Opponent returns the other side of g from the competitor with the given id.
func (g Game) Opponent(id string) (Competitor, bool) {
	switch id {
	case g.Left.ID:
		return g.Right, true
	case g.Right.ID:
		return g.Left, true
	}
	return Competitor{}, false
}

// HasResult reports whether scores have been recorded for g.
func (g Game) HasResult() bool {
	return g.Played && g.LeftScore != g.RightScore
}

// Winner returns the side with the higher score once a result is recorded.
func (g Game) Winner() (Competitor, bool) {
	if !g.HasResult() {
		return Competitor{}, false
	}
	if g.LeftScore > g.RightScore {
		return g.Left, true
	}
	return g.Right, true
}
