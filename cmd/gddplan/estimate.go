package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/gdd-planner/internal/domain"
	"github.com/couchcryptid/gdd-planner/internal/planner"
)

// Output formats for the estimate command.
const (
	formatText = "text"
	formatCSV  = "csv"
	formatJSON = "json"
)

func newEstimateCmd(a *app) *cobra.Command {
	var (
		req    domain.PlanRequest
		format string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate maturity dates for one or more crops at a location",
		Example: `  gddplan estimate -l 90210 -p 2024-05-01 -c tomatoes -c beans-bush
  gddplan estimate -l T5A -c peas --format csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch format {
			case formatText, formatCSV, formatJSON:
			default:
				return fmt.Errorf("unknown format %q: want text, csv or json", format)
			}

			res := a.planner.Run(cmd.Context(), req)
			if err := render(cmd.OutOrStdout(), format, res); err != nil {
				return err
			}
			if outDir != "" && res.Status == planner.StatusOK {
				if err := writeExports(outDir, res.Plan); err != nil {
					return err
				}
			}
			return statusError(res)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&req.Location, "location", "l", "", "5-digit ZIP or the first 3 characters of a Canadian postal code")
	flags.StringVarP(&req.PlantingDate, "planting", "p", "", "planting date, YYYY-MM-DD (default today)")
	flags.StringArrayVarP(&req.Crops, "crop", "c", nil, "crop id; repeat for several crops (see `gddplan crops`)")
	flags.StringVarP(&format, "format", "f", formatText, "output format: text, csv or json")
	flags.StringVar(&outDir, "out", "", "also write the text and CSV exports into this directory")
	return cmd
}

func render(w io.Writer, format string, res planner.Result) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case formatCSV:
		if res.Status != planner.StatusOK {
			return nil
		}
		_, err := fmt.Fprintln(w, res.Plan.CSV())
		return err
	default:
		_, err := io.WriteString(w, textReport(res))
		return err
	}
}

// textReport renders a result for a terminal: the export text, the overall
// banner and the climate caveat. Results that are not ok show the location
// summary when one was resolved.
func textReport(res planner.Result) string {
	var b strings.Builder

	if res.Status != planner.StatusOK {
		if res.Plan != nil {
			for _, r := range res.Plan.SummaryRows() {
				fmt.Fprintf(&b, "%s: %s\n", r.Key, r.Value)
			}
		}
		for _, id := range res.Unknown {
			fmt.Fprintf(&b, "Skipped unknown crop: %s\n", id)
		}
		return b.String()
	}

	b.WriteString(res.Plan.Text())
	b.WriteString("\n\n")
	if label, note := res.Plan.Banner(); label != "" {
		b.WriteString(label)
		b.WriteString("\n")
		if note != "" {
			b.WriteString(note)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(res.Plan.Footnote())
	b.WriteString("\n")
	for _, id := range res.Unknown {
		fmt.Fprintf(&b, "Skipped unknown crop: %s\n", id)
	}
	return b.String()
}

func writeExports(dir string, plan *domain.Plan) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	files := map[string]string{
		domain.TextFilename: plan.Text() + "\n",
		domain.CSVFilename:  plan.CSV() + "\n",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}

// statusError maps a result that is not ok to a non-zero exit: 2 for bad
// input, 3 for everything else.
func statusError(res planner.Result) error {
	switch res.Status {
	case planner.StatusOK:
		return nil
	case planner.StatusInputError:
		return &exitError{code: 2, msg: res.Message}
	default:
		return &exitError{code: 3, msg: res.Message}
	}
}
