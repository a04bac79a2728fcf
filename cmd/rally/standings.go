package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/derekprior/rally/internal/excel"
	"github.com/derekprior/rally/internal/standings"
)

func newStandingsCmd() *cobra.Command {
	var chartPath string
	cmd := &cobra.Command{
		Use:   "standings <schedule.xlsx>",
		Short: "Print the standings from recorded results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStandings(args[0], chartPath)
		},
	}
	cmd.Flags().StringVar(&chartPath, "chart", "", "Also write a PNG chart of wins to this path")
	return cmd
}

func runStandings(path, chartPath string) error {
	wb, err := excel.Load(path)
	if err != nil {
		return err
	}

	rows := standings.Compute(wb.Roster, wb.Schedule.Games())
	fmt.Printf("  %4s  %-20s %6s %4s %4s %8s %8s %6s\n", "Rank", "Competitor", "Played", "W", "L", "For", "Against", "Ratio")
	for i, r := range rows {
		fmt.Printf("  %4d  %-20s %6d %4d %4d %8d %8d %6.2f\n",
			i+1, r.Competitor.Name, r.Played, r.Wins, r.Losses, r.RalliesWon, r.RalliesLost, r.Ratio)
	}
	fmt.Printf("\n%d of %d games played\n", wb.Schedule.Len()-wb.Schedule.Remaining(), wb.Schedule.Len())

	if chartPath == "" {
		return nil
	}
	f, err := os.Create(chartPath)
	if err != nil {
		return fmt.Errorf("creating chart: %w", err)
	}
	defer f.Close()
	if err := standings.RenderChart(f, rows); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	fmt.Printf("✓ Chart saved to %s\n", chartPath)
	return nil
}
