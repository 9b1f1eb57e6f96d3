package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spboyer/introscore/internal/transcript"
	"golang.org/x/term"
)

// promptTranscript is a test hook for replacing the interactive prompt.
// It returns the transcript text and the audio duration in seconds.
var promptTranscript = defaultPromptTranscript

func isTerminal(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func defaultPromptTranscript(in io.Reader, out io.Writer) (string, float64, error) {
	var (
		text        string
		durationRaw string
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Transcript").
				Description("Paste the self-introduction transcript").
				Lines(8).
				Value(&text).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("transcript is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Duration (seconds)").
				Description("Length of the recording; leave empty to skip pacing").
				Placeholder("60").
				Value(&durationRaw).
				Validate(func(s string) error {
					_, err := parseDuration(s)
					return err
				}),
		),
	).WithInput(in).WithOutput(out)

	if err := form.Run(); err != nil {
		return "", 0, fmt.Errorf("transcript prompt failed: %w", err)
	}

	duration, err := parseDuration(durationRaw)
	if err != nil {
		return "", 0, err
	}
	return text, duration, nil
}

func parseDuration(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !transcript.ValidDuration(v) {
		return 0, fmt.Errorf("duration must be a non-negative number of seconds, got %q", s)
	}
	return v, nil
}
