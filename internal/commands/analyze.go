package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/JamesS-M/ledger-dashboard/internal/analyze"
	"github.com/JamesS-M/ledger-dashboard/internal/config"
	"github.com/JamesS-M/ledger-dashboard/internal/report"
	"github.com/JamesS-M/ledger-dashboard/internal/runner"
)

func newAnalyzeCommand(verbose *bool) *cobra.Command {
	var (
		jsonOut    bool
		reportOut  bool
		configPath string
		currency   string
	)

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyze a ledger file and print a summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runAnalyze(cmd, absPath, analyzeOptions{
				json:       jsonOut,
				report:     reportOut,
				configPath: configPath,
				currency:   currency,
				verbose:    *verbose,
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the full analysis as JSON")
	cmd.Flags().BoolVar(&reportOut, "report", false, "render a markdown report")
	cmd.Flags().StringVar(&configPath, "config", config.FileName, "config file path")
	cmd.Flags().StringVar(&currency, "currency", "", "display currency, overrides config")
	cmd.MarkFlagsMutuallyExclusive("json", "report")

	return cmd
}

type analyzeOptions struct {
	json       bool
	report     bool
	configPath string
	currency   string
	verbose    bool
}

func runAnalyze(cmd *cobra.Command, path string, opts analyzeOptions) error {
	cfg, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	currency := opts.currency
	if currency == "" {
		currency = cfg.Display.Currency
	}

	level := zerolog.WarnLevel
	if opts.verbose {
		level = zerolog.DebugLevel
	}
	log := newLogger(cmd.ErrOrStderr(), level)

	run := runner.New(runner.Options{
		Primary:   cfg.Tool.Primary,
		Secondary: cfg.Tool.Secondary,
		Timeout:   cfg.Tool.Timeout(),
	}, log)

	res, err := analyze.New(run, log).Analyze(cmd.Context(), path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case opts.json:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case opts.report:
		return renderReport(out, report.Markdown(res, currency))
	default:
		report.Terminal(out, res, currency)
		return nil
	}
}

// renderReport renders markdown for the terminal, falling back to the raw
// markdown when the renderer is unavailable.
func renderReport(w io.Writer, md string) error {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		_, werr := io.WriteString(w, md)
		return werr
	}
	rendered, err := r.Render(md)
	if err != nil {
		_, werr := io.WriteString(w, md)
		return werr
	}
	_, err = io.WriteString(w, rendered)
	return err
}
