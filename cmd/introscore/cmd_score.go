package main

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spboyer/introscore/internal/models"
	"github.com/spboyer/introscore/internal/reporting"
	"github.com/spboyer/introscore/internal/transcript"
	"github.com/spf13/cobra"
)

const (
	formatTable    = "table"
	formatJSON     = "json"
	formatMarkdown = "markdown"
)

type scoreOptions struct {
	text      string
	duration  float64
	format    string
	minScore  int
	interpret bool
	parallel  bool
}

func newScoreCommand() *cobra.Command {
	var opts scoreOptions

	cmd := &cobra.Command{
		Use:   "score [transcript-file | -]",
		Short: "Score one self-introduction transcript",
		Long: `Score one self-introduction transcript against the rubric.

The transcript is read from a file (.txt, or .md which is reduced to its
prose), from --text, or from stdin ("-" or piped input). When stdin is an
interactive terminal and no input is given, a prompt asks for the transcript
and its duration.

Exits with status 1 when --min-score is set and the total is below it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return scoreCommandE(cmd, args, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.text, "text", "", "Transcript text (instead of a file)")
	cmd.Flags().Float64VarP(&opts.duration, "duration", "d", 0, "Audio duration in seconds (0 skips pacing)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatTable, "Output format: table, json, markdown")
	cmd.Flags().IntVar(&opts.minScore, "min-score", 0, "Exit with status 1 when the total is below this value")
	cmd.Flags().BoolVar(&opts.interpret, "interpret", false, "Print a plain-language interpretation after the table")
	cmd.Flags().BoolVar(&opts.parallel, "parallel", false, "Run the criterion graders concurrently")

	return cmd
}

func scoreCommandE(cmd *cobra.Command, args []string, opts *scoreOptions) error {
	if err := validateFormat(opts.format, formatTable, formatJSON, formatMarkdown); err != nil {
		return err
	}
	if !transcript.ValidDuration(opts.duration) {
		return fmt.Errorf("--duration must be a finite, non-negative number of seconds, got %v", opts.duration)
	}
	if opts.minScore < 0 || opts.minScore > 100 {
		return fmt.Errorf("--min-score must be between 0 and 100, got %d", opts.minScore)
	}

	text, duration, err := resolveTranscript(cmd, args, opts)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return errors.New("transcript is empty")
	}

	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("parallel") {
		cfg.Scoring.Parallel = &opts.parallel
	}

	s, err := buildScorer(cfg)
	if err != nil {
		return err
	}

	report, err := s.scorer.Score(cmd.Context(), text, duration)
	if err != nil {
		return err
	}

	if err := writeReport(cmd.OutOrStdout(), report, opts); err != nil {
		return err
	}

	if opts.minScore > 0 && report.Total < opts.minScore {
		return &BelowMinimumError{
			Message: fmt.Sprintf("total %d is below the minimum score %d", report.Total, opts.minScore),
		}
	}
	return nil
}

// resolveTranscript picks the transcript source: --text, a file argument,
// "-" or piped stdin, and finally the interactive prompt.
func resolveTranscript(cmd *cobra.Command, args []string, opts *scoreOptions) (string, float64, error) {
	if opts.text != "" {
		if len(args) > 0 {
			return "", 0, errors.New("--text and a transcript file are mutually exclusive")
		}
		return opts.text, opts.duration, nil
	}

	in := cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		text, err := transcript.ReadFile(args[0])
		return text, opts.duration, err
	}
	if len(args) == 0 && isTerminal(in) {
		text, duration, err := promptTranscript(in, cmd.ErrOrStderr())
		if err != nil {
			return "", 0, err
		}
		if cmd.Flags().Changed("duration") {
			duration = opts.duration
		}
		return text, duration, nil
	}

	text, err := transcript.ReadAll(in)
	return text, opts.duration, err
}

func writeReport(w io.Writer, report *models.ScoreReport, opts *scoreOptions) error {
	switch opts.format {
	case formatJSON:
		return reporting.WriteReportJSON(w, report)
	case formatMarkdown:
		reporting.RenderMarkdown(w, report)
	default:
		reporting.RenderTable(w, report)
	}
	if opts.interpret && opts.format != formatJSON {
		fmt.Fprintln(w)
		fmt.Fprint(w, reporting.FormatInterpretation(report))
	}
	return nil
}

func validateFormat(format string, allowed ...string) error {
	if slices.Contains(allowed, format) {
		return nil
	}
	return fmt.Errorf("unknown format %q (want one of: %s)", format, strings.Join(allowed, ", "))
}
