package schedule

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testRoster(n int) []Competitor {
	roster := make([]Competitor, n)
	for i := range roster {
		roster[i] = Competitor{ID: fmt.Sprintf("id-%d", i+1), Name: fmt.Sprintf("Player %d", i+1)}
	}
	return roster
}

func seeded(seed int64) Options {
	return Options{Rand: rand.New(rand.NewSource(seed))}
}

type pair struct{ a, b string }

func pairOf(g Game) pair {
	a, b := g.Left.ID, g.Right.ID
	if a > b {
		a, b = b, a
	}
	return pair{a, b}
}

func TestBuildProperties(t *testing.T) {
	for n := 2; n <= 9; n++ {
		for g := 1; g <= 2*n; g++ {
			if n*g%2 == 1 {
				continue
			}
			t.Run(fmt.Sprintf("%d competitors %d games each", n, g), func(t *testing.T) {
				roster := testRoster(n)
				s, err := Build(roster, g, seeded(int64(n*100+g)))
				if err != nil {
					t.Fatalf("Build() error: %v", err)
				}

				if s.Len() != n*g/2 {
					t.Errorf("total games = %d, want %d", s.Len(), n*g/2)
				}

				perRound := n * (n - 1) / 2
				if s.GamesPerFullRound() != perRound {
					t.Errorf("games per full round = %d, want %d", s.GamesPerFullRound(), perRound)
				}
				wantRounds := (n*g/2 + perRound - 1) / perRound
				if s.NumRounds() != wantRounds {
					t.Errorf("rounds = %d, want %d", s.NumRounds(), wantRounds)
				}

				counts := make(map[string]int)
				for i, game := range s.Games() {
					if game.Left.ID == game.Right.ID {
						t.Errorf("game %d pairs %s with themselves", i+1, game.Left.Name)
					}
					counts[game.Left.ID]++
					counts[game.Right.ID]++
				}
				for _, c := range roster {
					if counts[c.ID] != g {
						t.Errorf("%s plays %d games, want %d", c.Name, counts[c.ID], g)
					}
				}

				fullRounds := (n * g / 2) / perRound
				for r := 0; r < fullRounds; r++ {
					games := s.GamesInRound(r)
					if len(games) != perRound {
						t.Fatalf("round %d has %d games, want %d", r+1, len(games), perRound)
					}
					seen := make(map[pair]bool)
					for _, game := range games {
						p := pairOf(game)
						if seen[p] {
							t.Errorf("round %d repeats %s", r+1, game)
						}
						seen[p] = true
					}
				}
			})
		}
	}
}

func TestBuildExamples(t *testing.T) {
	t.Run("3 competitors 3 games each is infeasible", func(t *testing.T) {
		s, err := Build(testRoster(3), 3, seeded(1))
		if !errors.Is(err, ErrInfeasibleConfiguration) {
			t.Fatalf("error = %v, want ErrInfeasibleConfiguration", err)
		}
		if s != nil {
			t.Error("expected no schedule")
		}
	})

	t.Run("4 competitors 3 games each is one full round", func(t *testing.T) {
		s, err := Build(testRoster(4), 3, seeded(2))
		if err != nil {
			t.Fatalf("Build() error: %v", err)
		}
		if s.GamesPerFullRound() != 6 || s.Len() != 6 || s.NumRounds() != 1 {
			t.Errorf("got %d per round, %d games, %d rounds; want 6, 6, 1",
				s.GamesPerFullRound(), s.Len(), s.NumRounds())
		}
		seen := make(map[pair]int)
		for _, g := range s.Games() {
			seen[pairOf(g)]++
		}
		if len(seen) != 6 {
			t.Errorf("distinct pairs = %d, want 6", len(seen))
		}
		for p, c := range seen {
			if c != 1 {
				t.Errorf("%v played %d times, want 1", p, c)
			}
		}
	})

	t.Run("5 competitors 4 games each is one full round", func(t *testing.T) {
		s, err := Build(testRoster(5), 4, seeded(3))
		if err != nil {
			t.Fatalf("Build() error: %v", err)
		}
		if s.GamesPerFullRound() != 10 || s.Len() != 10 || s.NumRounds() != 1 {
			t.Errorf("got %d per round, %d games, %d rounds; want 10, 10, 1",
				s.GamesPerFullRound(), s.Len(), s.NumRounds())
		}
	})

	t.Run("5 competitors 2 games each is a partial round only", func(t *testing.T) {
		roster := testRoster(5)
		s, err := Build(roster, 2, seeded(4))
		if err != nil {
			t.Fatalf("Build() error: %v", err)
		}
		if s.Len() != 5 {
			t.Fatalf("total games = %d, want 5", s.Len())
		}
		if s.NumRounds() != 1 || len(s.GamesInRound(0)) != 5 {
			t.Errorf("rounds = %d with %d games, want 1 with 5", s.NumRounds(), len(s.GamesInRound(0)))
		}
		counts := make(map[string]int)
		for _, g := range s.Games() {
			counts[g.Left.ID]++
			counts[g.Right.ID]++
		}
		for _, c := range roster {
			if counts[c.ID] != 2 {
				t.Errorf("%s plays %d games, want 2", c.Name, counts[c.ID])
			}
		}
	})

	t.Run("6 competitors 2 games each needs a relaxed retry", func(t *testing.T) {
		s, err := Build(testRoster(6), 2, seeded(5))
		if err != nil {
			t.Fatalf("Build() error: %v", err)
		}
		if s.Len() != 6 {
			t.Errorf("total games = %d, want 6", s.Len())
		}
	})
}

func TestBuildRejectsBadInput(t *testing.T) {
	dup := testRoster(4)
	dup[3].ID = dup[0].ID

	tests := []struct {
		name      string
		roster    []Competitor
		gamesEach int
		want      error
	}{
		{"no competitors", nil, 2, ErrTooFewCompetitors},
		{"one competitor", testRoster(1), 2, ErrTooFewCompetitors},
		{"zero games each", testRoster(4), 0, ErrInvalidGamesEach},
		{"negative games each", testRoster(4), -2, ErrInvalidGamesEach},
		{"duplicate id", dup, 2, ErrDuplicateCompetitor},
		{"odd and odd", testRoster(7), 5, ErrInfeasibleConfiguration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Build(tt.roster, tt.gamesEach, seeded(1))
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if s != nil {
				t.Error("expected no schedule")
			}
		})
	}
}

func TestBuildIsReproducible(t *testing.T) {
	roster := testRoster(7)
	a, err := Build(roster, 8, seeded(42))
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	b, err := Build(roster, 8, seeded(42))
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if diff := cmp.Diff(a.Games(), b.Games()); diff != "" {
		t.Errorf("same seed produced different schedules (-first +second):\n%s", diff)
	}
}

func TestBuildKeepsRosterIdentities(t *testing.T) {
	roster := testRoster(4)
	s, err := Build(roster, 2, seeded(9))
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	known := make(map[Competitor]bool)
	for _, c := range roster {
		known[c] = true
	}
	for i, g := range s.Games() {
		if !known[g.Left] || !known[g.Right] {
			t.Errorf("game %d references unknown competitor: %+v", i+1, g)
		}
	}
}

func TestPlan(t *testing.T) {
	tests := []struct {
		competitors, gamesEach int
		want                   Summary
	}{
		{4, 3, Summary{Competitors: 4, GamesEach: 3, GamesTotal: 6, GamesPerFullRound: 6, FullRounds: 1, Rounds: 1}},
		{5, 2, Summary{Competitors: 5, GamesEach: 2, GamesTotal: 5, GamesPerFullRound: 10, PartialRoundGames: 5, Rounds: 1}},
		{6, 7, Summary{Competitors: 6, GamesEach: 7, GamesTotal: 21, GamesPerFullRound: 15, FullRounds: 1, PartialRoundGames: 6, Rounds: 2}},
		{1, 4, Summary{Competitors: 1, GamesEach: 4, GamesTotal: 2}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.competitors, tt.gamesEach), func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Plan(tt.competitors, tt.gamesEach)); diff != "" {
				t.Errorf("Plan() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
