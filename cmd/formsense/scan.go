package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/arcbjorn/formsense/pkg/detect"
	"github.com/arcbjorn/formsense/pkg/htmldom"
	"github.com/arcbjorn/formsense/pkg/signals"
)

var (
	scanURL     string
	scanJSON    bool
	scanDetails bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [file]",
	Short: "Classify every form control in an HTML file",
	Long: `Parse an HTML file (or stdin with "-") and classify each input,
select and textarea.

Examples:
  formsense scan checkout.html
  formsense scan checkout.html --url https://shop.example/checkout --json
  curl -s https://example.com | formsense scan -`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanURL, "url", "", "page URL recorded in signals")
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "emit JSON output")
	scanCmd.Flags().BoolVar(&scanDetails, "details", false, "include full score maps (implies --json)")
}

// scanEntry is one control's result in scan output.
type scanEntry struct {
	Index     int             `json:"index"`
	Name      string          `json:"name"`
	ID        string          `json:"id"`
	Signature string          `json:"signature"`
	Result    *detect.Result  `json:"result"`
	Details   *detect.Details `json:"details,omitempty"`
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	doc, err := parseArg(args[0])
	if err != nil {
		return err
	}

	d, closeStore, err := openDetector(cmd, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	var entries []scanEntry
	for i, el := range doc.Controls() {
		entry := scanEntry{Index: i}
		if scanDetails {
			det := d.Details(el, doc)
			entry.Details = det
			entry.Result = det.Result
			entry.Signature = det.Bundle.Signature()
			entry.Name = det.Bundle.Attrs.Name
			entry.ID = det.Bundle.Attrs.ID
		} else {
			b := signals.Gather(el, doc)
			entry.Result = d.DetectBundle(b)
			entry.Signature = b.Signature()
			entry.Name = b.Attrs.Name
			entry.ID = b.Attrs.ID
		}
		entries = append(entries, entry)
	}

	if scanJSON || scanDetails {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	for _, e := range entries {
		if e.Result == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%3d  %-24s  (no detection)\n", e.Index, labelFor(e))
			continue
		}
		learned := ""
		if e.Result.Learned {
			learned = "  learned"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%3d  %-24s  %-14s  %3d  %-6s%s\n",
			e.Index, labelFor(e), e.Result.Type, e.Result.Score, e.Result.Band, learned)
	}
	return nil
}

func labelFor(e scanEntry) string {
	if e.Name != "" {
		return e.Name
	}
	if e.ID != "" {
		return "#" + e.ID
	}
	return "(anonymous)"
}

// parseArg parses the named HTML file, with "-" meaning stdin.
func parseArg(arg string) (*htmldom.Document, error) {
	var r io.Reader
	if arg == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(arg)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", arg, err)
		}
		defer f.Close()
		r = f
	}
	return htmldom.Parse(r, scanURL)
}
