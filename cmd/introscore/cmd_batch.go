package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spboyer/introscore/internal/dataset"
	"github.com/spboyer/introscore/internal/models"
	"github.com/spboyer/introscore/internal/orchestration"
	"github.com/spboyer/introscore/internal/reporting"
	"github.com/spboyer/introscore/internal/spinner"
	"github.com/spf13/cobra"
)

type batchOptions struct {
	workers    int
	filters    []string
	itemRange  string
	format     string
	outputPath string
	junitPath  string
	minScore   int
	verbose    bool
}

func newBatchCommand() *cobra.Command {
	var opts batchOptions

	cmd := &cobra.Command{
		Use:   "batch <dataset.csv|dataset.yaml>",
		Short: "Score every transcript in a dataset",
		Long: `Score every transcript in a CSV or YAML dataset.

CSV datasets need a header row with "transcript" (or "file") and optionally
"id" and "duration" columns. YAML datasets list items with id, transcript,
duration and file keys. File paths are relative to the dataset.

An item whose evaluation fails is recorded as an error and does not stop the
batch. Exits with status 1 when --min-score is set and any scored total is
below it, and with status 2 when any item errored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return batchCommandE(cmd, args[0], &opts)
		},
	}

	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Number of concurrent workers (default from config, 4)")
	cmd.Flags().StringArrayVar(&opts.filters, "filter", nil, "Only score items whose id matches this glob (can be repeated)")
	cmd.Flags().StringVar(&opts.itemRange, "range", "", "Only score items START:END (1-based, inclusive)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatTable, "Output format: table, json")
	cmd.Flags().StringVarP(&opts.outputPath, "output", "o", "", "Also write the JSON outcome to this file")
	cmd.Flags().StringVar(&opts.junitPath, "junit", "", "Write a JUnit XML report to this file")
	cmd.Flags().IntVar(&opts.minScore, "min-score", 0, "Exit with status 1 when any total is below this value")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print a line per scored item")

	return cmd
}

func batchCommandE(cmd *cobra.Command, path string, opts *batchOptions) error {
	if err := validateFormat(opts.format, formatTable, formatJSON); err != nil {
		return err
	}
	if opts.minScore < 0 || opts.minScore > 100 {
		return fmt.Errorf("--min-score must be between 0 and 100, got %d", opts.minScore)
	}

	items, err := dataset.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	if opts.itemRange != "" {
		start, end, err := parseRange(opts.itemRange)
		if err != nil {
			return err
		}
		if items, err = dataset.Range(items, start, end); err != nil {
			return err
		}
	}

	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}
	if opts.workers > 0 {
		cfg.Batch.Workers = opts.workers
	}

	s, err := buildScorer(cfg)
	if err != nil {
		return err
	}

	runner := orchestration.NewBatchRunner(s.scorer,
		orchestration.WithWorkers(cfg.Batch.Workers),
		orchestration.WithItemFilters(opts.filters...),
		orchestration.WithSetup(s.setup),
	)

	errOut := cmd.ErrOrStderr()
	switch {
	case opts.verbose:
		runner.OnProgress(func(event orchestration.ProgressEvent) {
			verboseProgressListener(errOut, event)
		})
	case isTerminal(os.Stderr) && errOut == os.Stderr:
		spin := spinner.Start(errOut, "Scoring...")
		defer spin.Stop()
		runner.OnProgress(func(event orchestration.ProgressEvent) {
			switch event.EventType {
			case orchestration.EventItemComplete:
				spin.Update(fmt.Sprintf("Scoring %d/%d", event.ItemNum, event.TotalItems))
			case orchestration.EventBatchComplete:
				spin.Stop()
			}
		})
	}

	outcome, err := runner.Run(cmd.Context(), filepath.Base(path), items)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.format == formatJSON {
		if err := reporting.WriteJSON(out, outcome); err != nil {
			return err
		}
	} else {
		reporting.RenderBatchTable(out, outcome)
	}

	if opts.outputPath != "" {
		if err := saveOutcome(outcome, opts.outputPath); err != nil {
			return err
		}
		fmt.Fprintf(errOut, "Results saved to: %s\n", opts.outputPath)
	}
	if opts.junitPath != "" {
		if err := reporting.WriteJUnitXML(outcome, opts.minScore, opts.junitPath); err != nil {
			return fmt.Errorf("writing JUnit report: %w", err)
		}
		fmt.Fprintf(errOut, "JUnit report saved to: %s\n", opts.junitPath)
	}

	return batchResult(outcome, opts.minScore)
}

// batchResult maps the outcome onto the exit code contract: item errors are
// runtime errors, totals below the minimum are threshold failures.
func batchResult(outcome *models.BatchOutcome, minScore int) error {
	if outcome.Digest.Errors > 0 {
		return fmt.Errorf("batch completed with %d error(s)", outcome.Digest.Errors)
	}
	if minScore <= 0 {
		return nil
	}

	below := 0
	for _, it := range outcome.Items {
		if it.Report != nil && it.Report.Total < minScore {
			below++
		}
	}
	if below > 0 {
		return &BelowMinimumError{
			Message: fmt.Sprintf("%d of %d item(s) scored below the minimum score %d", below, len(outcome.Items), minScore),
		}
	}
	return nil
}

func parseRange(s string) (int, int, error) {
	startRaw, endRaw, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid --range %q: want START:END", s)
	}
	start, err := strconv.Atoi(strings.TrimSpace(startRaw))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid --range start %q", startRaw)
	}
	end, err := strconv.Atoi(strings.TrimSpace(endRaw))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid --range end %q", endRaw)
	}
	return start, end, nil
}

func verboseProgressListener(w io.Writer, event orchestration.ProgressEvent) {
	switch event.EventType {
	case orchestration.EventBatchStart:
		fmt.Fprintf(w, "Scoring %d item(s)...\n", event.TotalItems)
	case orchestration.EventItemComplete:
		status := "✓"
		detail := strconv.Itoa(event.Total)
		if event.Status != models.StatusScored {
			status = "✗"
			detail = string(event.Status)
		}
		fmt.Fprintf(w, "%s [%d/%d] %s %s\n", status, event.ItemNum, event.TotalItems, event.ItemID, detail)
	case orchestration.EventBatchComplete:
		fmt.Fprintln(w, "Batch complete.")
	}
}

func saveOutcome(outcome *models.BatchOutcome, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	werr := reporting.WriteJSON(f, outcome)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return fmt.Errorf("writing output file: %w", werr)
	}
	return nil
}
