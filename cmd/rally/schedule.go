package main

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/briandowns/spinner"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/derekprior/rally/internal/config"
	"github.com/derekprior/rally/internal/excel"
	"github.com/derekprior/rally/internal/schedule"
	"github.com/derekprior/rally/internal/validator"
)

func newScheduleCmd(trace *bool) *cobra.Command {
	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Generate, inspect and edit schedules",
	}

	var configFile string
	scheduleCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (default: config.yaml in current directory)")

	var (
		outputFile  string
		seed        int64
		maxAttempts int
	)
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a schedule from a config file",
		Long: heredoc.Doc(`
			Generate builds a schedule in which every competitor plays games_each
			games. Games are grouped into rounds where each pairing appears once;
			the last round may be partial.
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFile, *trace)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				cfg.Scheduler.Seed = seed
			}
			if cmd.Flags().Changed("max-attempts") {
				cfg.Scheduler.MaxAttempts = maxAttempts
			}
			return runGenerate(cfg, outputFile)
		},
	}
	generateCmd.Flags().StringVarP(&outputFile, "output", "o", defaultScheduleFile, "Output Excel file path")
	generateCmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (default: from config, 0 seeds from the clock)")
	generateCmd.Flags().IntVar(&maxAttempts, "max-attempts", 0, "Retry limit for the partial round (default: from config)")

	var round int
	showCmd := &cobra.Command{
		Use:   "show <schedule.xlsx>",
		Short: "Print a schedule by round",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(args[0], round)
		},
	}
	showCmd.Flags().IntVar(&round, "round", 0, "Only print this round (1-based)")

	var force bool
	moveCmd := &cobra.Command{
		Use:   "move <schedule.xlsx> <from> <to>",
		Short: "Move a game to a new position",
		Long: heredoc.Doc(`
			Move takes the game numbered <from> out of the schedule and puts it
			back so that it lands where game <to> was. Use one past the last game
			number to move a game to the end.

			Moving a game that has been played, or the next game to be played,
			needs --force.
		`),
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseGameNumber(args[1])
			if err != nil {
				return err
			}
			to, err := parseGameNumber(args[2])
			if err != nil {
				return err
			}
			return runMove(args[0], from, to, force)
		},
	}
	moveCmd.Flags().BoolVar(&force, "force", false, "Allow moving a played game or the next game")

	var score string
	playedCmd := &cobra.Command{
		Use:   "played <schedule.xlsx> <game>",
		Short: "Mark a game as played, optionally with its score",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			game, err := parseGameNumber(args[1])
			if err != nil {
				return err
			}
			return runPlayed(args[0], game, score)
		},
	}
	playedCmd.Flags().StringVar(&score, "score", "", "Final score as LEFT-RIGHT, e.g. 11-7")

	renameCmd := &cobra.Command{
		Use:   "rename <schedule.xlsx> <current-name> <new-name>",
		Short: "Rename a competitor everywhere in a schedule",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRename(args[0], args[1], args[2])
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate <schedule.xlsx>",
		Short: "Check a schedule for broken rules and guideline warnings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gamesEach := 0
			cfg, err := loadConfig(configFile, *trace)
			switch {
			case err == nil:
				gamesEach = cfg.Tournament.GamesEach
			case errors.Is(err, errNoConfig):
				logrus.Debug("no config found, inferring games each from the workbook")
			default:
				return err
			}
			return runValidate(args[0], gamesEach)
		},
	}

	scheduleCmd.AddCommand(generateCmd, showCmd, moveCmd, playedCmd, renameCmd, validateCmd)
	return scheduleCmd
}

func runGenerate(cfg *config.Config, outputPath string) error {
	roster := cfg.Roster()
	gamesEach := cfg.Tournament.GamesEach

	seed := cfg.Scheduler.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	plan := schedule.Plan(len(roster), gamesEach)
	if cfg.Tournament.Name != "" {
		fmt.Printf("%s\n\n", cfg.Tournament.Name)
	}
	fmt.Printf("Competitors: %d\n", plan.Competitors)
	fmt.Printf("Games Each:  %d\n", plan.GamesEach)
	fmt.Printf("Games Total: %d\n", plan.GamesTotal)
	fmt.Printf("Rounds:      %d (%d full, %d games in the last round)\n",
		plan.Rounds, plan.FullRounds, lastRoundGames(plan))
	fmt.Printf("Seed:        %d\n\n", seed)

	sp := spinner.New(spinner.CharSets[spinnerCharSet], 100*time.Millisecond)
	sp.Writer = os.Stderr
	sp.Suffix = " Building schedule..."
	sp.Start()
	s, err := schedule.Build(roster, gamesEach, schedule.Options{
		Rand:        rand.New(rand.NewSource(seed)),
		MaxAttempts: cfg.Scheduler.MaxAttempts,
		Logger:      logrus.StandardLogger(),
	})
	sp.Stop()
	if err != nil {
		if errors.Is(err, schedule.ErrSchedulingExhausted) {
			fmt.Fprintf(os.Stderr, "⚠ %s\n", err)
			fmt.Fprintf(os.Stderr, "  Try another --seed or raise --max-attempts.\n")
		}
		return fmt.Errorf("building schedule: %w", err)
	}
	fmt.Printf("✓ All %d games scheduled\n", s.Len())

	fmt.Println("\nPer Competitor:")
	fmt.Printf("  %-20s %6s %5s %5s\n", "Competitor", "Games", "Left", "Right")
	for _, c := range roster {
		left, right := 0, 0
		for _, g := range s.Games() {
			switch c.ID {
			case g.Left.ID:
				left++
			case g.Right.ID:
				right++
			}
		}
		fmt.Printf("  %-20s %6d %5d %5d\n", c.Name, left+right, left, right)
	}

	if err := excel.Save(outputPath, s, roster); err != nil {
		return fmt.Errorf("generating Excel: %w", err)
	}
	fmt.Printf("\n✓ Schedule saved to %s\n", outputPath)
	return nil
}

func lastRoundGames(plan schedule.Summary) int {
	if plan.PartialRoundGames > 0 {
		return plan.PartialRoundGames
	}
	return plan.GamesPerFullRound
}

func runShow(path string, round int) error {
	wb, err := excel.Load(path)
	if err != nil {
		return err
	}
	s := wb.Schedule

	if round != 0 {
		if round < 1 || round > s.NumRounds() {
			return fmt.Errorf("round %d out of range; schedule has %d rounds", round, s.NumRounds())
		}
		if err := s.PrintRound(os.Stdout, round-1); err != nil {
			return err
		}
	} else if err := s.Print(os.Stdout); err != nil {
		return err
	}

	if i, g, ok := s.NextGame(); ok {
		fmt.Printf("\nNext: game %d, %s (%d of %d remaining)\n", i+1, g, s.Remaining(), s.Len())
	} else {
		fmt.Println("\n✓ All games played")
	}
	return nil
}

func runMove(path string, from, to int, force bool) error {
	wb, err := excel.Load(path)
	if err != nil {
		return err
	}
	s := wb.Schedule

	g, ok := s.GameAt(from - 1)
	if !ok {
		return fmt.Errorf("game %d does not exist; schedule has %d games", from, s.Len())
	}
	if !force {
		if g.Played {
			return fmt.Errorf("game %d (%s) has been played; use --force to move it anyway", from, g)
		}
		if next, _, ok := s.NextGame(); ok && next == from-1 {
			return fmt.Errorf("game %d (%s) is the next game; use --force to move it anyway", from, g)
		}
	}

	if err := s.MoveGame(from-1, to-1); err != nil {
		return fmt.Errorf("moving game %d to %d: %w", from, to, err)
	}
	logrus.WithFields(logrus.Fields{"from": from, "to": to}).Debug("game moved")

	if err := excel.Save(path, s, wb.Roster); err != nil {
		return err
	}
	fmt.Printf("✓ Moved game %d (%s) to position %d\n", from, g, min(to, s.Len()))
	return nil
}

func runPlayed(path string, game int, score string) error {
	wb, err := excel.Load(path)
	if err != nil {
		return err
	}
	s := wb.Schedule

	if score == "" {
		err = s.MarkPlayed(game - 1)
	} else {
		var left, right int
		left, right, err = parseScore(score)
		if err != nil {
			return err
		}
		err = s.RecordResult(game-1, left, right)
	}
	if err != nil {
		return fmt.Errorf("game %d: %w", game, err)
	}

	if err := excel.Save(path, s, wb.Roster); err != nil {
		return err
	}
	g, _ := s.GameAt(game - 1)
	if w, ok := g.Winner(); ok {
		fmt.Printf("✓ Game %d (%s) played, %s wins %d-%d\n", game, g, w.Name, max(g.LeftScore, g.RightScore), min(g.LeftScore, g.RightScore))
	} else {
		fmt.Printf("✓ Game %d (%s) played\n", game, g)
	}
	return nil
}

func runRename(path, current, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("new name must not be empty")
	}

	wb, err := excel.Load(path)
	if err != nil {
		return err
	}

	i, err := findCompetitor(wb.Roster, current)
	if err != nil {
		return err
	}
	if slices.ContainsFunc(wb.Roster, func(c schedule.Competitor) bool { return c.Name == name }) {
		return fmt.Errorf("a competitor named %q already exists", name)
	}

	current = wb.Roster[i].Name
	wb.Roster[i].Name = name
	updated := wb.Schedule.RenameCascade(wb.Roster[i])

	if err := excel.Save(path, wb.Schedule, wb.Roster); err != nil {
		return err
	}
	fmt.Printf("✓ Renamed %s to %s in %d games\n", current, name, updated)
	return nil
}

func runValidate(path string, gamesEach int) error {
	violations, err := validator.Validate(path, gamesEach)
	if err != nil {
		return fmt.Errorf("validating: %w", err)
	}

	errors := 0
	warnings := 0
	for _, v := range violations {
		where := ""
		if v.Game > 0 {
			where = fmt.Sprintf("game %d: ", v.Game)
		}
		switch v.Type {
		case "error":
			errors++
			fmt.Printf("✗ Rule violation: %s%s\n", where, v.Message)
		case "warning":
			warnings++
			fmt.Printf("⚠ Guideline violation: %s%s\n", where, v.Message)
		}
	}

	fmt.Printf("\nValidation complete: %d rule violations, %d guideline violations\n", errors, warnings)

	if errors > 0 {
		return fmt.Errorf("%d rule violations found", errors)
	}
	return nil
}

// findCompetitor returns the roster index for query. An exact name wins;
// otherwise the closest case-insensitive fuzzy match is used if there is
// exactly one.
func findCompetitor(roster []schedule.Competitor, query string) (int, error) {
	names := make([]string, len(roster))
	for i, c := range roster {
		if c.Name == query {
			return i, nil
		}
		names[i] = c.Name
	}

	ranks := fuzzy.RankFindFold(query, names)
	if len(ranks) == 0 {
		return -1, fmt.Errorf("no competitor named %q", query)
	}
	sort.Sort(ranks)
	if len(ranks) == 1 || ranks[0].Distance < ranks[1].Distance {
		logrus.WithFields(logrus.Fields{"query": query, "match": ranks[0].Target}).Debug("fuzzy competitor match")
		return ranks[0].OriginalIndex, nil
	}

	var tied []string
	for _, r := range ranks {
		if r.Distance == ranks[0].Distance {
			tied = append(tied, r.Target)
		}
	}
	return -1, fmt.Errorf("%q matches more than one competitor: %s", query, strings.Join(tied, ", "))
}

// parseGameNumber reads a 1-based game number.
func parseGameNumber(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid game number %q", arg)
	}
	return n, nil
}

// parseScore reads a LEFT-RIGHT score such as "11-7".
func parseScore(score string) (int, int, error) {
	l, r, ok := strings.Cut(score, "-")
	if !ok {
		return 0, 0, fmt.Errorf("invalid score %q, want LEFT-RIGHT", score)
	}
	left, err := strconv.Atoi(strings.TrimSpace(l))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid score %q, want LEFT-RIGHT", score)
	}
	right, err := strconv.Atoi(strings.TrimSpace(r))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid score %q, want LEFT-RIGHT", score)
	}
	return left, right, nil
}
