package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"cqa/internal/config"
	"cqa/internal/history"
	"cqa/internal/report"
)

var (
	historyDB    string
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect archived analysis runs",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived runs, newest first",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print an archived report as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	historyCmd.PersistentFlags().StringVar(&historyDB, "history-db", "", "History database path (overrides config)")
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 0, "Maximum runs to list (0 means 50)")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func openHistory() (*history.Store, error) {
	path := historyDB
	if path == "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		path = cfg.History.Path
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("no history at %s (run analyze with --history first)", path)
	}
	return history.Open(path)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns(historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no archived runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tUNIT\tWHEN\tSCORE\tVERDICT\tISSUES")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n",
			r.ID, r.Unit, r.CreatedAt.Format(time.RFC3339),
			report.FormatScore(r.Overall), r.Verdict, r.IssueCount)
	}
	return w.Flush()
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	r, err := store.GetReport(args[0])
	if err != nil {
		return err
	}
	body, err := report.EncodeJSON(r)
	if err != nil {
		return err
	}
	fmt.Println(string(body))
	return nil
}
