package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arcbjorn/formsense/pkg/fieldtype"
	"github.com/arcbjorn/formsense/pkg/signals"
)

var (
	correctIndex int
	correctType  string
	correctURL   string
)

var correctCmd = &cobra.Command{
	Use:   "correct [file]",
	Short: "Record a user correction for one control",
	Long: `Record that the Nth form control in the file (see scan output for
indexes) actually is the given field type. The correction is persisted and
applied to every future classification of the same logical field.

Examples:
  formsense correct signup.html --index 2 --type company
  formsense correct signup.html --index 0 --type email --url https://example.com/signup`,
	Args: cobra.ExactArgs(1),
	RunE: runCorrect,
}

func init() {
	correctCmd.Flags().IntVar(&correctIndex, "index", 0, "zero-based control index from scan output")
	correctCmd.Flags().StringVar(&correctType, "type", "", "the correct field type (required)")
	correctCmd.Flags().StringVar(&correctURL, "url", "", "page URL recorded in signals")
	_ = correctCmd.MarkFlagRequired("type")
}

func runCorrect(cmd *cobra.Command, args []string) error {
	corrected, ok := fieldtype.Parse(correctType)
	if !ok {
		return fmt.Errorf("unknown field type %q", correctType)
	}

	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	scanURL = correctURL
	doc, err := parseArg(args[0])
	if err != nil {
		return err
	}

	controls := doc.Controls()
	if correctIndex < 0 || correctIndex >= len(controls) {
		return fmt.Errorf("index %d out of range: document has %d controls", correctIndex, len(controls))
	}
	el := controls[correctIndex]

	d, closeStore, err := openDetector(cmd, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	b := signals.Gather(el, doc)
	detected := fieldtype.Unknown
	if res := d.DetectBundle(b); res != nil {
		detected = res.Type
	}

	if err := d.RecordBundleCorrection(cmd.Context(), b, detected, corrected); err != nil {
		return fmt.Errorf("recording correction: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "corrected %s: %s -> %s\n", b.Signature(), detected, corrected)
	return nil
}
