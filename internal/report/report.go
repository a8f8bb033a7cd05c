// Package report turns an analysis result into human-facing output: a
// markdown report, a colorized terminal summary, and CSV export of the
// transaction list.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/JamesS-M/ledger-dashboard/internal/model"
)

const maxReportTransactions = 20

// FormatAmount renders d using the display conventions of the given ISO
// currency code: symbol, thousands separators, and the currency's minor
// unit precision. Unknown codes fall back to go-money's generic format.
func FormatAmount(d decimal.Decimal, code string) string {
	cur := *money.New(0, code).Currency()
	minor := d.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(minor.IntPart())
}

// Markdown renders res as a markdown report.
func Markdown(res *model.AnalysisResult, currency string) string {
	r := &mdRenderer{Builder: &strings.Builder{}, currency: currency}
	sum := res.Summary

	r.Printf("# Ledger Report\n\n")
	r.Printf("Generated %s\n\n", res.GeneratedAt.Format(time.RFC1123))

	r.Printf("## Summary\n\n")
	r.Printf("| Metric | Amount |\n")
	r.Printf("|:---|---:|\n")
	r.row("Total income", sum.TotalIncome)
	r.row("Total expenses", sum.TotalExpenses)
	r.row("Assets", sum.TotalAssets)
	r.row("Liabilities", sum.TotalLiabilities)
	r.row("Net worth", sum.NetWorth)
	r.Printf("\n")

	r.categories("Expenses by Category", sum.ExpenseCategories)
	r.categories("Income by Category", sum.IncomeCategories)
	r.transactions(sum.Transactions)

	return r.String()
}

type mdRenderer struct {
	*strings.Builder
	currency string
}

func (r *mdRenderer) Printf(format string, args ...any) {
	fmt.Fprintf(r, format, args...)
}

func (r *mdRenderer) row(label string, d decimal.Decimal) {
	r.Printf("| %s | %s |\n", label, FormatAmount(d, r.currency))
}

func (r *mdRenderer) categories(title string, cats []model.CategoryAmount) {
	r.Printf("## %s\n\n", title)
	if len(cats) == 0 {
		r.Printf("_none_\n\n")
		return
	}
	r.Printf("| Category | Amount |\n")
	r.Printf("|:---|---:|\n")
	for _, c := range cats {
		r.row(c.Category, c.Amount)
	}
	r.Printf("\n")
}

func (r *mdRenderer) transactions(txs []model.Transaction) {
	r.Printf("## Recent Transactions\n\n")
	if len(txs) == 0 {
		r.Printf("_none_\n")
		return
	}
	r.Printf("| Date | Account | Amount |\n")
	r.Printf("|:---|:---|---:|\n")
	for i, tx := range txs {
		if i == maxReportTransactions {
			r.Printf("\n_and %d more_\n", len(txs)-i)
			return
		}
		r.Printf("| %s | %s | %s |\n", tx.Date.Format(model.DateFormat), tx.Account, FormatAmount(tx.Amount, r.currency))
	}
}
