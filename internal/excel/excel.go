package excel

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/derekprior/rally/internal/schedule"
	"github.com/derekprior/rally/internal/standings"
)

const (
	ScheduleSheet    = "Schedule"
	CompetitorsSheet = "Competitors"
	StandingsSheet   = "Standings"
)

// ErrMalformedWorkbook is returned by Load when a required sheet or column
// is missing or holds a value that cannot be parsed.
var ErrMalformedWorkbook = errors.New("malformed workbook")

var scheduleHeaders = []string{"Round", "Game", "Left", "Right", "Played", "Left Score", "Right Score", "Left ID", "Right ID"}

// Workbook is the state recovered from a saved schedule file.
type Workbook struct {
	Roster   []schedule.Competitor
	Schedule *schedule.Schedule
}

// Generate creates a workbook with the schedule, roster, standings and one
// sheet per competitor.
func Generate(s *schedule.Schedule, roster []schedule.Competitor) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetDefaultFont("Arial")

	styles, err := newStyles(f)
	if err != nil {
		return nil, fmt.Errorf("creating styles: %w", err)
	}

	if err := writeScheduleSheet(f, styles, s); err != nil {
		return nil, fmt.Errorf("writing schedule sheet: %w", err)
	}
	if err := writeCompetitorsSheet(f, styles, roster); err != nil {
		return nil, fmt.Errorf("writing competitors sheet: %w", err)
	}
	if err := writeStandingsSheet(f, styles, standings.Compute(roster, s.Games())); err != nil {
		return nil, fmt.Errorf("writing standings sheet: %w", err)
	}
	if err := writeCompetitorSheets(f, styles, s, roster); err != nil {
		return nil, fmt.Errorf("writing competitor sheets: %w", err)
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	if idx, err := f.GetSheetIndex(ScheduleSheet); err == nil {
		f.SetActiveSheet(idx)
	}
	return f, nil
}

// Save generates the workbook and writes it to path.
func Save(path string, s *schedule.Schedule, roster []schedule.Competitor) error {
	f, err := Generate(s, roster)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

type styles struct {
	header int
	cell   int
	center int
	played int
}

func newStyles(f *excelize.File) (styles, error) {
	var st styles
	var err error
	st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 16, Family: "Arial"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return st, err
	}
	st.cell, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 16, Family: "Arial"},
	})
	if err != nil {
		return st, err
	}
	st.center, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 16, Family: "Arial"},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return st, err
	}
	st.played, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 16, Family: "Arial", Color: "#808080"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E2EFDA"}},
	})
	return st, err
}

// writeTable writes a styled header row followed by rows, and sets column
// widths.
func writeTable(f *excelize.File, st styles, sheet string, headers []string, rows [][]any, widths []float64) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", cellRef(len(headers), 1), st.header); err != nil {
		return err
	}

	for i, row := range rows {
		r := i + 2
		if err := f.SetSheetRow(sheet, cellRef(1, r), &row); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cellRef(1, r), cellRef(len(headers), r), st.cell); err != nil {
			return err
		}
	}

	for i, w := range widths {
		col := colLetter(i + 1)
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}
	return f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func writeScheduleSheet(f *excelize.File, st styles, s *schedule.Schedule) error {
	games := s.Games()
	rows := make([][]any, len(games))
	for i, g := range games {
		played := ""
		if g.Played {
			played = "Yes"
		}
		var left, right any = "", ""
		if g.HasResult() {
			left, right = g.LeftScore, g.RightScore
		}
		rows[i] = []any{s.RoundOf(i) + 1, i + 1, g.Left.Name, g.Right.Name, played, left, right, g.Left.ID, g.Right.ID}
	}

	widths := []float64{10, 10, 24, 24, 10, 14, 14, 40, 40}
	if err := writeTable(f, st, ScheduleSheet, scheduleHeaders, rows, widths); err != nil {
		return err
	}

	for i, g := range games {
		r := i + 2
		if err := f.SetCellStyle(ScheduleSheet, cellRef(1, r), cellRef(2, r), st.center); err != nil {
			return err
		}
		if err := f.SetCellStyle(ScheduleSheet, cellRef(5, r), cellRef(7, r), st.center); err != nil {
			return err
		}
		if g.Played {
			if err := f.SetCellStyle(ScheduleSheet, cellRef(1, r), cellRef(4, r), st.played); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeCompetitorsSheet(f *excelize.File, st styles, roster []schedule.Competitor) error {
	rows := make([][]any, len(roster))
	for i, c := range roster {
		rows[i] = []any{c.ID, c.Name}
	}
	return writeTable(f, st, CompetitorsSheet, []string{"ID", "Name"}, rows, []float64{40, 24})
}

func writeStandingsSheet(f *excelize.File, st styles, table []standings.Row) error {
	headers := []string{"Rank", "Name", "Played", "Won", "Lost", "Rallies Won", "Rallies Lost", "Ratio"}
	rows := make([][]any, len(table))
	for i, r := range table {
		rows[i] = []any{i + 1, r.Competitor.Name, r.Played, r.Wins, r.Losses, r.RalliesWon, r.RalliesLost, r.Ratio}
	}
	return writeTable(f, st, StandingsSheet, headers, rows, []float64{8, 24, 10, 8, 8, 14, 14, 10})
}

func writeCompetitorSheets(f *excelize.File, st styles, s *schedule.Schedule, roster []schedule.Competitor) error {
	used := map[string]bool{
		strings.ToLower(ScheduleSheet):    true,
		strings.ToLower(CompetitorsSheet): true,
		strings.ToLower(StandingsSheet):   true,
		"sheet1":                          true,
	}
	games := s.Games()

	for _, c := range roster {
		var rows [][]any
		for i, g := range games {
			opp, ok := g.Opponent(c.ID)
			if !ok {
				continue
			}
			rows = append(rows, []any{i + 1, s.RoundOf(i) + 1, opp.Name, result(g, c.ID)})
		}

		sheet := sheetName(c.Name, used)
		if err := writeTable(f, st, sheet, []string{"Game", "Round", "Opponent", "Result"}, rows, []float64{10, 10, 24, 16}); err != nil {
			return fmt.Errorf("%s: %w", c.Name, err)
		}
	}
	return nil
}

// result describes g from the point of view of the competitor with id.
func result(g schedule.Game, id string) string {
	if !g.HasResult() {
		if g.Played {
			return "Played"
		}
		return ""
	}
	own, other := g.LeftScore, g.RightScore
	if g.Right.ID == id {
		own, other = other, own
	}
	if own > other {
		return fmt.Sprintf("W %d-%d", own, other)
	}
	return fmt.Sprintf("L %d-%d", own, other)
}

// sheetName turns a competitor name into a unique, legal worksheet name.
// Excel forbids some characters, limits names to 31 characters and compares
// them case-insensitively.
func sheetName(name string, used map[string]bool) string {
	clean := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return -1
		}
		return r
	}, name)
	clean = strings.Trim(strings.TrimSpace(clean), "'")
	if clean == "" {
		clean = "Competitor"
	}
	clean = truncate(clean, 31)

	candidate := clean
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		candidate = truncate(clean, 31-len(suffix)) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// Load reads a workbook written by Save back into a roster and schedule.
// Names on the schedule sheet are refreshed from the roster; games naming an
// id missing from the roster keep the name in their cell.
func Load(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	roster, err := readRoster(f)
	if err != nil {
		return nil, err
	}
	games, err := readGames(f, roster)
	if err != nil {
		return nil, err
	}

	n := len(roster)
	return &Workbook{
		Roster:   roster,
		Schedule: schedule.New(games, n*(n-1)/2),
	}, nil
}

func readRoster(f *excelize.File) ([]schedule.Competitor, error) {
	rows, err := f.GetRows(CompetitorsSheet)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s sheet: %v", ErrMalformedWorkbook, CompetitorsSheet, err)
	}

	var roster []schedule.Competitor
	for i, row := range rows {
		if i == 0 || isBlank(row) {
			continue
		}
		if len(row) < 2 || row[0] == "" {
			return nil, fmt.Errorf("%w: %s row %d needs an id and a name", ErrMalformedWorkbook, CompetitorsSheet, i+1)
		}
		roster = append(roster, schedule.Competitor{ID: row[0], Name: row[1]})
	}
	return roster, nil
}

func readGames(f *excelize.File, roster []schedule.Competitor) ([]schedule.Game, error) {
	rows, err := f.GetRows(ScheduleSheet)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s sheet: %v", ErrMalformedWorkbook, ScheduleSheet, err)
	}

	byID := make(map[string]schedule.Competitor, len(roster))
	for _, c := range roster {
		byID[c.ID] = c
	}
	side := func(id, name string) schedule.Competitor {
		if c, ok := byID[id]; ok {
			return c
		}
		return schedule.Competitor{ID: id, Name: name}
	}

	var games []schedule.Game
	for i, row := range rows {
		if i == 0 || isBlank(row) {
			continue
		}
		cell := func(col int) string {
			if col < len(row) {
				return strings.TrimSpace(row[col])
			}
			return ""
		}
		if cell(7) == "" || cell(8) == "" {
			return nil, fmt.Errorf("%w: %s row %d is missing a competitor id", ErrMalformedWorkbook, ScheduleSheet, i+1)
		}

		g := schedule.Game{
			Left:   side(cell(7), cell(2)),
			Right:  side(cell(8), cell(3)),
			Played: strings.EqualFold(cell(4), "yes"),
		}
		if cell(5) != "" || cell(6) != "" {
			if g.LeftScore, err = strconv.Atoi(cell(5)); err != nil {
				return nil, fmt.Errorf("%w: %s row %d left score %q", ErrMalformedWorkbook, ScheduleSheet, i+1, cell(5))
			}
			if g.RightScore, err = strconv.Atoi(cell(6)); err != nil {
				return nil, fmt.Errorf("%w: %s row %d right score %q", ErrMalformedWorkbook, ScheduleSheet, i+1, cell(6))
			}
			g.Played = true
		}
		games = append(games, g)
	}
	return games, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func cellRef(col, row int) string {
	return fmt.Sprintf("%s%d", colLetter(col), row)
}

func colLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}
