package validator

import (
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"github.com/derekprior/rally/internal/excel"
	"github.com/derekprior/rally/internal/schedule"
)

var (
	ann = schedule.Competitor{ID: "1", Name: "Ann"}
	ben = schedule.Competitor{ID: "2", Name: "Ben"}
	cat = schedule.Competitor{ID: "3", Name: "Cat"}
	dan = schedule.Competitor{ID: "4", Name: "Dan"}

	roster = []schedule.Competitor{ann, ben, cat, dan}
)

func vs(l, r schedule.Competitor) schedule.Game {
	return schedule.Game{Left: l, Right: r}
}

func countType(v []Violation, typ string) int {
	n := 0
	for _, vi := range v {
		if vi.Type == typ {
			n++
		}
	}
	return n
}

func TestCheckCleanSchedule(t *testing.T) {
	// Four competitors cannot avoid back-to-back games, so only errors and
	// round repeats are checked.
	s := schedule.New([]schedule.Game{
		vs(ann, ben), vs(cat, dan), vs(ann, cat), vs(ben, dan), vs(ann, dan), vs(ben, cat),
	}, 6)

	v := Check(s, roster, 3)
	if len(v) != 0 {
		t.Errorf("expected 0 violations, got %d: %v", len(v), v)
	}
}

func TestCheckSelfPairs(t *testing.T) {
	games := []schedule.Game{vs(ann, ben), vs(cat, cat)}
	v := checkSelfPairs(games)
	if len(v) != 1 {
		t.Fatalf("expected 1 violation, got %d: %v", len(v), v)
	}
	if v[0].Game != 2 || v[0].Type != "error" {
		t.Errorf("violation = %+v, want error on game 2", v[0])
	}
}

func TestCheckUnknownCompetitors(t *testing.T) {
	stranger := schedule.Competitor{ID: "x", Name: "Stranger"}
	known := map[string]bool{"1": true, "2": true}
	v := checkUnknownCompetitors([]schedule.Game{vs(ann, ben), vs(stranger, ann)}, known)
	if len(v) != 1 {
		t.Fatalf("expected 1 violation, got %d: %v", len(v), v)
	}
	if !strings.Contains(v[0].Message, "Stranger") {
		t.Errorf("message = %q, want it to name Stranger", v[0].Message)
	}
}

func TestCheckGameCounts(t *testing.T) {
	t.Run("balanced", func(t *testing.T) {
		games := []schedule.Game{vs(ann, ben), vs(cat, dan)}
		if v := checkGameCounts(games, roster, 1); len(v) != 0 {
			t.Errorf("expected 0 violations, got %d: %v", len(v), v)
		}
	})

	t.Run("one competitor over, one under", func(t *testing.T) {
		games := []schedule.Game{vs(ann, ben), vs(ann, dan)}
		v := checkGameCounts(games, roster, 1)
		// Ann has 2, Cat has 0.
		if len(v) != 2 {
			t.Fatalf("expected 2 violations, got %d: %v", len(v), v)
		}
		for _, vi := range v {
			if vi.Type != "error" {
				t.Errorf("expected error, got %s", vi.Type)
			}
		}
	})
}

func TestCheckRepeatsInRound(t *testing.T) {
	t.Run("repeat inside a round", func(t *testing.T) {
		s := schedule.New([]schedule.Game{vs(ann, ben), vs(cat, dan), vs(ben, ann)}, 6)
		v := checkRepeatsInRound(s)
		if len(v) != 1 {
			t.Fatalf("expected 1 violation, got %d: %v", len(v), v)
		}
		if v[0].Game != 3 || v[0].Type != "warning" {
			t.Errorf("violation = %+v, want warning on game 3", v[0])
		}
	})

	t.Run("repeat across rounds is fine", func(t *testing.T) {
		s := schedule.New([]schedule.Game{vs(ann, ben), vs(ann, ben)}, 1)
		if v := checkRepeatsInRound(s); len(v) != 0 {
			t.Errorf("expected 0 violations, got %d: %v", len(v), v)
		}
	})
}

func TestCheckBackToBack(t *testing.T) {
	v := checkBackToBack([]schedule.Game{vs(ann, ben), vs(ben, cat), vs(ann, dan)})
	if len(v) != 1 {
		t.Fatalf("expected 1 violation, got %d: %v", len(v), v)
	}
	if v[0].Game != 2 || !strings.Contains(v[0].Message, "Ben") {
		t.Errorf("violation = %+v, want Ben on game 2", v[0])
	}

	t.Run("skipped for small rosters", func(t *testing.T) {
		s := schedule.New([]schedule.Game{vs(ann, ben), vs(ben, cat), vs(cat, dan), vs(dan, ann)}, 6)
		v := Check(s, roster, 2)
		if n := countType(v, "warning"); n != 0 {
			t.Errorf("expected 0 warnings for four competitors, got %d: %v", n, v)
		}
	})
}

func TestValidateGeneratedSchedule(t *testing.T) {
	six := append(roster[:4:4],
		schedule.Competitor{ID: "5", Name: "Eve"},
		schedule.Competitor{ID: "6", Name: "Fay"},
	)
	s, err := schedule.Build(six, 7, schedule.Options{Rand: rand.New(rand.NewSource(3))})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "schedule.xlsx")
	if err := excel.Save(path, s, six); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	for _, gamesEach := range []int{7, 0} {
		v, err := Validate(path, gamesEach)
		if err != nil {
			t.Fatalf("Validate() error: %v", err)
		}
		if n := countType(v, "error"); n != 0 {
			t.Errorf("gamesEach=%d: expected 0 errors, got %d: %v", gamesEach, n, v)
		}
	}

	t.Run("wrong games each", func(t *testing.T) {
		v, err := Validate(path, 8)
		if err != nil {
			t.Fatalf("Validate() error: %v", err)
		}
		if n := countType(v, "error"); n != 6 {
			t.Errorf("expected 6 count errors, got %d: %v", n, v)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := Validate(filepath.Join(t.TempDir(), "nope.xlsx"), 7); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
