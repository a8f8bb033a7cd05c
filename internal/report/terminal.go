package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/JamesS-M/ledger-dashboard/internal/model"
)

const maxTerminalCategories = 8

// Terminal writes a colorized summary of res to w. Color is dropped
// automatically when w is not a terminal.
func Terminal(w io.Writer, res *model.AnalysisResult, currency string) {
	sum := res.Summary

	bold := color.New(color.Bold).FprintfFunc()
	green := color.New(color.FgGreen).FprintfFunc()
	red := color.New(color.FgRed).FprintfFunc()
	faint := color.New(color.Faint).FprintfFunc()

	bold(w, "Summary\n")
	green(w, "  %-16s %s\n", "Income", FormatAmount(sum.TotalIncome, currency))
	red(w, "  %-16s %s\n", "Expenses", FormatAmount(sum.TotalExpenses, currency))
	fmt.Fprintf(w, "  %-16s %s\n", "Assets", FormatAmount(sum.TotalAssets, currency))
	fmt.Fprintf(w, "  %-16s %s\n", "Liabilities", FormatAmount(sum.TotalLiabilities, currency))

	net := green
	if sum.NetWorth.IsNegative() {
		net = red
	}
	net(w, "  %-16s %s\n", "Net worth", FormatAmount(sum.NetWorth, currency))

	if len(sum.ExpenseCategories) > 0 {
		bold(w, "\nTop expenses\n")
		for i, c := range sum.ExpenseCategories {
			if i == maxTerminalCategories {
				faint(w, "  (%d more)\n", len(sum.ExpenseCategories)-i)
				break
			}
			fmt.Fprintf(w, "  %-16s %s\n", c.Category, FormatAmount(c.Amount, currency))
		}
	}

	faint(w, "\n%d transactions analyzed\n", len(sum.Transactions))
}
