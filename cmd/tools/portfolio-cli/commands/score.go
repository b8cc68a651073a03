// cmd/tools/portfolio-cli/commands/score.go
package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"portfolio-scoring-workers/internal/common/logger"
	"portfolio-scoring-workers/internal/scoring"
	vpi "portfolio-scoring-workers/internal/workers/portfolio/validate-portfolio-items"
)

type scoreOptions struct {
	format   string
	strict   bool
	maxItems int
}

type scoreReport struct {
	ScoredItems      []scoring.ScoredPortfolioItem `json:"scoredItems"`
	PortfolioSummary scoring.PortfolioSummary      `json:"portfolioSummary"`
	NotNowCount      int                           `json:"notNowCount"`
	Warnings         []string                      `json:"validationWarnings"`
}

func newScoreCmd() *cobra.Command {
	opts := &scoreOptions{}

	cmd := &cobra.Command{
		Use:   "score <file.json>",
		Short: "Validate and score a portfolio file",
		Long: `Reads a JSON array of portfolio items, or an object with a
"portfolioItems" array, validates it the way validate-portfolio-items does
and prints the scored items with the portfolio summary.

Use "-" to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "json", "output format (json|table)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "reject value_pressure outside the scoring levels")
	cmd.Flags().IntVar(&opts.maxItems, "max-items", 500, "maximum number of items accepted")
	return cmd
}

func runScore(cmd *cobra.Command, path string, opts *scoreOptions) error {
	if opts.format != "json" && opts.format != "table" {
		return fmt.Errorf("unknown format %q", opts.format)
	}

	raw, err := readInput(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	items, err := decodeItems(raw)
	if err != nil {
		return err
	}

	validator := vpi.NewHandler(&vpi.Config{
		MaxItems:                   opts.maxItems,
		AllowFreeTextValuePressure: !opts.strict,
	}, logger.NewNoOpLogger())
	validated, err := validator.Execute(context.Background(), &vpi.Input{PortfolioItems: items})
	if err != nil {
		return err
	}

	var portfolio []scoring.PortfolioItem
	if err := remarshal(items, &portfolio); err != nil {
		return fmt.Errorf("decode portfolio items: %w", err)
	}

	scored := scoring.ScorePortfolio(portfolio)
	summary := scoring.GetPortfolioSummary(scored)
	report := scoreReport{
		ScoredItems:      scored,
		PortfolioSummary: summary,
		NotNowCount:      summary.NotNowCount(),
		Warnings:         validated.ValidationWarnings,
	}

	out := cmd.OutOrStdout()
	if opts.format == "table" {
		return writeTable(out, report)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// decodeItems accepts a bare array or an object with a portfolioItems field.
func decodeItems(raw []byte) ([]map[string]interface{}, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("input is empty")
	}

	if trimmed[0] == '[' {
		var items []map[string]interface{}
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("parse portfolio items: %w", err)
		}
		return items, nil
	}

	var wrapper struct {
		PortfolioItems []map[string]interface{} `json:"portfolioItems"`
	}
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return nil, fmt.Errorf("parse portfolio: %w", err)
	}
	return wrapper.PortfolioItems, nil
}

func remarshal(in, out interface{}) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func writeTable(out io.Writer, report scoreReport) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tFIT\tRECOMMENDATION\tRISKS")
	for _, item := range report.ScoredItems {
		risks := "-"
		if len(item.RiskFlags) > 0 {
			risks = strings.Join(item.RiskFlags, ", ")
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", item.Name, item.FitScore, item.Recommendation, risks)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := report.PortfolioSummary
	fmt.Fprintf(out, "\nitems=%d average=%d bootcamp=%d sprint=%d diagnostic=%d not_now=%d\n",
		s.TotalItems, s.AverageFitScore, s.ExecBootcampCount, s.LiteracySprintCount, s.DiagnosticCount, report.NotNowCount)
	for _, w := range report.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
	return nil
}
