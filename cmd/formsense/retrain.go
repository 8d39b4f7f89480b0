package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arcbjorn/formsense/pkg/fieldtype"
)

var retrainCmd = &cobra.Command{
	Use:   "retrain",
	Short: "Mine the correction history for new fuzzy patterns",
	Long: `Group recorded corrections by (detected, corrected) pair and derive
new fuzzy patterns from words recurring across groups of three or more.
Induced patterns are listed per field type. Re-running over an unchanged
history adds nothing.`,
	RunE: runRetrain,
}

func runRetrain(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	d, closeStore, err := openDetector(cmd, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := d.Retrain(cmd.Context()); err != nil {
		return fmt.Errorf("retraining: %w", err)
	}

	total := 0
	for _, t := range fieldtype.All {
		induced := d.InducedPatterns(t)
		if len(induced) == 0 {
			continue
		}
		total += len(induced)
		fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", t)
		for _, p := range induced {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", p)
		}
	}
	if total == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no patterns induced (need 3+ corrections sharing a detected/corrected pair)")
	}
	return nil
}
