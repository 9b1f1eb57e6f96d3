package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess      = 0 // Scored at or above the minimum
	ExitBelowMinimum = 1 // One or more totals fell below --min-score
	ExitError        = 2 // Configuration, input or evaluation error
)

// BelowMinimumError indicates that scoring succeeded but at least one total
// is below the --min-score gate.
type BelowMinimumError struct {
	Message string
}

func (e *BelowMinimumError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var belowMin *BelowMinimumError
		if errors.As(err, &belowMin) {
			os.Exit(ExitBelowMinimum)
		}

		os.Exit(ExitError)
	}
}
