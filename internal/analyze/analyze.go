// Package analyze orchestrates one ledger analysis: a required balance pass
// and a best-effort register pass, normalized into an AnalysisResult.
package analyze

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/JamesS-M/ledger-dashboard/internal/model"
	"github.com/JamesS-M/ledger-dashboard/internal/parse"
	"github.com/JamesS-M/ledger-dashboard/internal/runner"
)

// Runner produces raw tool output for one report kind.
type Runner interface {
	Run(ctx context.Context, kind runner.Kind, filePath string) (runner.Output, error)
}

// Analyzer is the single entry point of the analysis core. It never opens
// the ledger file itself; the external tool does.
type Analyzer struct {
	runner Runner
	log    zerolog.Logger
}

func New(r Runner, log zerolog.Logger) *Analyzer {
	return &Analyzer{runner: r, log: log}
}

// Analyze runs the balance and register reports for the ledger at filePath
// and assembles the canonical result. Balance failure fails the analysis;
// register failure degrades to an empty transaction list.
//
// A recover at this boundary turns an unexpected parser fault into an
// analysis error instead of crashing the caller.
func (a *Analyzer) Analyze(ctx context.Context, filePath string) (result *model.AnalysisResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error().Interface("panic", r).Str("file", filePath).Msg("analysis panicked")
			result, err = nil, fmt.Errorf("analysis failed: internal error")
		}
	}()

	balance, err := a.runner.Run(ctx, runner.Balance, filePath)
	if err != nil {
		return nil, fmt.Errorf("running balance report: %w", err)
	}

	shape, decoded := parse.Classify(balance.Text)
	a.log.Debug().Str("binary", balance.Binary).Str("shape", string(shape)).Msg("balance output classified")

	summary, err := parse.ExtractBalance(shape, decoded)
	if err != nil {
		a.log.Info().Str("shape", string(shape)).Str("raw", snippet(balance.Text)).Msg("balance extraction failed")
		return nil, fmt.Errorf("reading balance report: %w", err)
	}

	summary.Transactions = a.transactions(ctx, filePath)

	return &model.AnalysisResult{
		Summary:     summary,
		GeneratedAt: time.Now().UTC(),
		Raw:         balance.Text,
	}, nil
}

// transactions is the register pass. Every failure path degrades to an
// empty list; a ledger with an unreadable register still analyzes.
func (a *Analyzer) transactions(ctx context.Context, filePath string) []model.Transaction {
	out, err := a.runner.Run(ctx, runner.Register, filePath)
	if err != nil {
		a.log.Warn().Err(err).Msg("register run failed, continuing without transactions")
		return []model.Transaction{}
	}

	shape, decoded := parse.Classify(out.Text)
	txs, err := parse.ExtractRegister(shape, decoded)
	if err != nil || txs == nil {
		if err != nil {
			a.log.Warn().Err(err).Str("raw", snippet(out.Text)).Msg("register extraction failed")
		}
		return []model.Transaction{}
	}
	a.log.Debug().Int("transactions", len(txs)).Str("shape", string(shape)).Msg("register extracted")
	return txs
}

// snippet bounds raw tool output for log lines.
func snippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
