package main

import (
	"github.com/spboyer/introscore/internal/reporting"
	"github.com/spf13/cobra"
)

func newRubricCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "rubric",
		Short: "List the rubric criteria and their maximum points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format, formatTable, formatJSON); err != nil {
				return err
			}

			cfg, err := loadProjectConfig()
			if err != nil {
				return err
			}
			s, err := buildScorer(cfg)
			if err != nil {
				return err
			}

			criteria := s.scorer.Criteria()
			if format == formatJSON {
				return reporting.WriteJSON(cmd.OutOrStdout(), criteria)
			}
			reporting.RenderRubric(cmd.OutOrStdout(), criteria)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table, json")
	return cmd
}
