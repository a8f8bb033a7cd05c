package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/JamesS-M/ledger-dashboard/internal/model"
)

// WriteCSV streams the transaction list as date,account,amount rows with
// a header line.
func WriteCSV(w io.Writer, txs []model.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "account", "amount"}); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, tx := range txs {
		rec := []string{tx.Date.Format(model.DateFormat), tx.Account, tx.Amount.String()}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
