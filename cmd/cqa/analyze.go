package main

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"cqa/internal/config"
	"cqa/internal/engine"
	"cqa/internal/history"
	"cqa/internal/report"
	"cqa/internal/rules"
	"cqa/internal/ruleset"
	"cqa/internal/scoring"
	"cqa/internal/source"
)

var (
	analyzeFormat     string
	analyzePolicy     string
	analyzeRulePacks  []string
	analyzeMinScore   float64
	analyzeJobs       int
	analyzeHistory    bool
	analyzeHistoryDB  string
	analyzeFailOnGate bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file-or-directory>",
	Short: "Analyze Python source and produce a quality report",
	Long: `Analyze one file or every .py file under a directory.

Each file gets an independent quality report; directory runs analyze
files concurrently but reports stay deterministic per file.

Examples:
  cqa analyze service.py
  cqa analyze --format=json src/
  cqa analyze --min-score=7.0 --fail-on-gate src/
  cqa analyze --rules-pack=team-rules.yaml service.py`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "human", "Output format (human, json, markdown, sarif)")
	analyzeCmd.Flags().StringVar(&analyzePolicy, "policy", "", "Path to a TOML scoring policy file")
	analyzeCmd.Flags().StringArrayVar(&analyzeRulePacks, "rules-pack", nil, "YAML rule pack to register (repeatable)")
	analyzeCmd.Flags().Float64Var(&analyzeMinScore, "min-score", 0, "Minimum overall score for the CI gate")
	analyzeCmd.Flags().IntVar(&analyzeJobs, "jobs", 4, "Concurrent analyses for directory runs")
	analyzeCmd.Flags().BoolVar(&analyzeHistory, "history", false, "Archive reports to the history store")
	analyzeCmd.Flags().StringVar(&analyzeHistoryDB, "history-db", "", "History database path (overrides config)")
	analyzeCmd.Flags().BoolVar(&analyzeFailOnGate, "fail-on-gate", false, "Exit non-zero when any report fails the gate")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	policy := scoring.DefaultPolicy()
	if analyzePolicy != "" {
		if policy, err = scoring.LoadPolicy(analyzePolicy); err != nil {
			return err
		}
	}

	cat := rules.DefaultCatalog()
	for _, pack := range analyzeRulePacks {
		n, err := ruleset.LoadAndRegister(pack, cat)
		if err != nil {
			return err
		}
		logger.Debug("registered rule pack", "path", pack, "rules", n)
	}

	opts, err := cfg.EngineOptions(cat, policy)
	if err != nil {
		return err
	}

	paths, err := collectPaths(args[0])
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no Python files found under %s", args[0])
	}
	logger.Info("analyzing", "files", len(paths))

	reports := analyzeAll(paths, cat, opts, analyzeJobs)

	if analyzeHistory || cfg.History.Enabled {
		dbPath := cfg.History.Path
		if analyzeHistoryDB != "" {
			dbPath = analyzeHistoryDB
		}
		if err := archiveReports(dbPath, reports, logger); err != nil {
			return err
		}
	}

	out, err := renderReports(reports, analyzeFormat)
	if err != nil {
		return err
	}
	fmt.Println(out)

	if analyzeFailOnGate {
		for _, r := range reports {
			if !r.Gate(analyzeMinScore) {
				os.Exit(1)
			}
		}
	}
	return nil
}

// collectPaths expands a file or directory argument into the list of
// Python files to analyze, sorted for deterministic batch output.
func collectPaths(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".py") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// analyzeAll runs the engine over many files with a bounded worker
// pool. Each unit is independent, so ordering of execution cannot
// change any single report; results are collected by index.
func analyzeAll(paths []string, cat *rules.Catalog, opts *engine.Options, jobs int) []*report.QualityReport {
	if jobs < 1 {
		jobs = 1
	}
	reports := make([]*report.QualityReport, len(paths))

	var wg sync.WaitGroup
	sem := make(chan struct{}, jobs)
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			reports[i] = analyzeFile(path, cat, opts)
		}(i, path)
	}
	wg.Wait()
	return reports
}

// analyzeFile never fails the batch: unreadable files degrade into a
// report the same way unparsable ones do inside the engine.
func analyzeFile(path string, cat *rules.Catalog, opts *engine.Options) *report.QualityReport {
	data, err := os.ReadFile(path)
	if err != nil {
		// Represent the unreadable file as unparsable input.
		data = []byte{0}
	}
	unit := source.NewUnit(path, string(data))
	r, err := engine.Analyze(unit, cat, opts)
	if err != nil {
		// Configuration was validated up front; reaching this is a bug,
		// but the batch contract still holds: contain it to this file.
		return &report.QualityReport{
			Unit:         path,
			Verdict:      scoring.VerdictNotProductionReady,
			VerdictLabel: scoring.VerdictNotProductionReady.Label(),
		}
	}
	return r
}

func archiveReports(dbPath string, reports []*report.QualityReport, logger *slog.Logger) error {
	store, err := history.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, r := range reports {
		id, err := store.SaveReport(r)
		if err != nil {
			return err
		}
		logger.Info("archived report", "unit", r.Unit, "run", id)
	}
	return nil
}
