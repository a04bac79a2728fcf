package schedule

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultMaxAttempts bounds the partial-round retry loop when Options does
// not set one.
const DefaultMaxAttempts = 1000

// Options tunes a Build. The zero value is usable.
type Options struct {
	// Rand drives round shuffles and left/right display order. A nil Rand
	// gets a new time-seeded generator.
	Rand *rand.Rand

	// MaxAttempts caps partial-round retries. Zero means DefaultMaxAttempts.
	MaxAttempts int

	// Logger receives per-attempt diagnostics. Nil discards them.
	Logger logrus.FieldLogger
}

// Summary is the round arithmetic for a roster size and games-each value.
type Summary struct {
	Competitors       int
	GamesEach         int
	GamesTotal        int
	GamesPerFullRound int
	FullRounds        int
	PartialRoundGames int
	Rounds            int
}

// Plan computes the round arithmetic without scheduling anything.
func Plan(competitors, gamesEach int) Summary {
	s := Summary{
		Competitors:       competitors,
		GamesEach:         gamesEach,
		GamesTotal:        competitors * gamesEach / 2,
		GamesPerFullRound: competitors * (competitors - 1) / 2,
	}
	if s.GamesPerFullRound <= 0 || s.GamesTotal <= 0 {
		return s
	}
	s.FullRounds = s.GamesTotal / s.GamesPerFullRound
	s.PartialRoundGames = s.GamesTotal % s.GamesPerFullRound
	s.Rounds = s.FullRounds
	if s.PartialRoundGames > 0 {
		s.Rounds++
	}
	return s
}

// Build schedules every game of a round-robin tournament in which each
// competitor plays gamesEach games. Full rounds contain every pairing once;
// the remaining games form a final partial round. On error no Schedule is
// returned.
func Build(roster []Competitor, gamesEach int, opts Options) (*Schedule, error) {
	if err := checkRoster(roster, gamesEach); err != nil {
		return nil, err
	}

	plan := Plan(len(roster), gamesEach)
	b := newBuilder(roster, gamesEach, opts)
	b.log.WithFields(logrus.Fields{
		"competitors": plan.Competitors,
		"games_each":  plan.GamesEach,
		"full_rounds": plan.FullRounds,
		"remainder":   plan.PartialRoundGames,
	}).Debug("building schedule")

	for i := 0; i < plan.FullRounds; i++ {
		b.scheduleFullRound()
	}
	if err := b.schedulePartialRound(plan.PartialRoundGames); err != nil {
		return nil, err
	}

	return New(b.games(), plan.GamesPerFullRound), nil
}

func checkRoster(roster []Competitor, gamesEach int) error {
	if len(roster) < 2 {
		return fmt.Errorf("%w: got %d", ErrTooFewCompetitors, len(roster))
	}
	if gamesEach < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidGamesEach, gamesEach)
	}

	seen := make(map[string]string, len(roster))
	for _, c := range roster {
		if prev, ok := seen[c.ID]; ok {
			return fmt.Errorf("%w: %q and %q share id %q", ErrDuplicateCompetitor, prev, c.Name, c.ID)
		}
		seen[c.ID] = c.Name
	}

	if len(roster)%2 == 1 && gamesEach%2 == 1 {
		return fmt.Errorf("%w: %d competitors, %d games each", ErrInfeasibleConfiguration, len(roster), gamesEach)
	}
	return nil
}

type builder struct {
	roster      []Competitor
	gamesEach   int
	universe    []matchup
	rng         *rand.Rand
	maxAttempts int
	log         logrus.FieldLogger

	state     registry
	seq       int // matchups committed so far, across all rounds
	committed []matchup
}

func newBuilder(roster []Competitor, gamesEach int, opts Options) *builder {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	attempts := opts.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	log := opts.Logger
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}

	return &builder{
		roster:      roster,
		gamesEach:   gamesEach,
		universe:    enumerate(len(roster)),
		rng:         rng,
		maxAttempts: attempts,
		log:         log,
		state:       newRegistry(len(roster)),
	}
}

// games converts the committed matchups into Games in schedule order.
func (b *builder) games() []Game {
	games := make([]Game, len(b.committed))
	for i, m := range b.committed {
		left, right := b.roster[m.a], b.roster[m.b]
		if b.rng.Intn(2) == 1 {
			left, right = right, left
		}
		games[i] = Game{Left: left, Right: right}
	}
	return games
}
