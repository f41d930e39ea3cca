package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-gridloop/internal/registry"
	"github.com/vovakirdan/tui-gridloop/internal/storage"
)

var (
	flagLimit int
	flagStats bool
	flagClear bool
)

func newScoresCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scores [game]",
		Short: "Show results for a game",
		Long: `Display the best results for the specified game.
Without a game, shows a summary of every game played so far.

Examples:
  gridloop scores snake
  gridloop scores snake --limit 25
  gridloop scores gomoku --stats
  gridloop scores bounce --clear
  gridloop scores`,
		Args: cobra.MaximumNArgs(1),
		RunE: runScores,
	}

	cmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of results to show")
	cmd.Flags().BoolVar(&flagStats, "stats", false, "Show aggregate statistics")
	cmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all results of the game")
	return cmd
}

func runScores(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening results database: %w", err)
	}
	defer store.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		return printSummary(ctx, out, store)
	}

	gameID := args[0]
	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown game %q, run 'gridloop list' to see available games", gameID)
	}
	title := gameID
	for _, g := range registry.List() {
		if g.ID == gameID {
			title = g.Title
		}
	}

	switch {
	case flagClear:
		if err := store.ClearResults(ctx, gameID); err != nil {
			return err
		}
		fmt.Fprintf(out, "Cleared results for %s.\n", title)
		return nil
	case flagStats:
		stats, err := store.Stats(ctx, gameID)
		if err != nil {
			return err
		}
		printStats(out, title, stats)
		return nil
	}

	results, err := store.TopResults(ctx, gameID, flagLimit)
	if err != nil {
		return fmt.Errorf("retrieving results: %w", err)
	}

	fmt.Fprintf(out, "High Scores - %s\n", title)
	fmt.Fprintln(out)

	if len(results) == 0 {
		fmt.Fprintln(out, "No results recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Play 'gridloop play %s' to set the first one!\n", gameID)
		return nil
	}

	// Print header
	fmt.Fprintf(out, "  %-4s  %-8s  %-8s  %-8s  %s\n", "Rank", "Score", "Winner", "Time", "Date")
	fmt.Fprintf(out, "  %-4s  %-8s  %-8s  %-8s  %s\n", "----", "-----", "------", "----", "----")

	for i, r := range results {
		winner := r.Winner
		if winner == "" {
			winner = "-"
		}
		fmt.Fprintf(out, "  %-4d  %-8d  %-8s  %-8s  %s\n",
			i+1, r.Score, winner, r.Duration.Round(time.Second), r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func printStats(out io.Writer, title string, s *storage.GameStats) {
	fmt.Fprintf(out, "Statistics - %s\n", title)
	fmt.Fprintln(out)
	if s.GamesCount == 0 {
		fmt.Fprintln(out, "No results recorded yet.")
		return
	}
	fmt.Fprintf(out, "  Games:       %d\n", s.GamesCount)
	fmt.Fprintf(out, "  Best:        %d\n", s.HighScore)
	fmt.Fprintf(out, "  Average:     %.1f\n", s.AvgScore)
	fmt.Fprintf(out, "  Frames:      %d\n", s.TotalFrames)
	fmt.Fprintf(out, "  Play time:   %s\n", s.PlayTime.Round(time.Second))
	if !s.LastPlayed.IsZero() {
		fmt.Fprintf(out, "  Last played: %s\n", s.LastPlayed.Local().Format("2006-01-02 15:04"))
	}

	winners := make([]string, 0, len(s.Wins))
	for w := range s.Wins {
		winners = append(winners, w)
	}
	sort.Strings(winners)
	for _, w := range winners {
		fmt.Fprintf(out, "  Wins (%s): %d\n", w, s.Wins[w])
	}
}

func printSummary(ctx context.Context, out io.Writer, store *storage.Store) error {
	all, err := store.AllStats(ctx)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Fprintln(out, "No results recorded yet.")
		return nil
	}

	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Fprintf(out, "  %-10s  %-6s  %-8s  %s\n", "Game", "Games", "Best", "Play time")
	fmt.Fprintf(out, "  %-10s  %-6s  %-8s  %s\n", "----", "-----", "----", "---------")
	for _, id := range ids {
		s := all[id]
		fmt.Fprintf(out, "  %-10s  %-6d  %-8d  %s\n", id, s.GamesCount, s.HighScore, s.PlayTime.Round(time.Second))
	}
	return nil
}
