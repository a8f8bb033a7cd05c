package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is how transaction dates render everywhere: JSON, CSV, reports.
const DateFormat = "2006-01-02"

// Transaction is one posting line from a register run.
//
// Amount keeps the sign the tool reported; it is not normalized the way
// Summary totals are. Ordering follows the tool's emission order.
type Transaction struct {
	Date    time.Time
	Account string // colon-delimited path, e.g. "Expenses:Food:Groceries"
	Amount  decimal.Decimal
}

type transactionJSON struct {
	Date    string          `json:"date"`
	Account string          `json:"account"`
	Amount  decimal.Decimal `json:"amount"`
}

// MarshalJSON emits the date as a bare calendar date.
func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(transactionJSON{
		Date:    t.Date.Format(DateFormat),
		Account: t.Account,
		Amount:  t.Amount,
	})
}

func (t *Transaction) UnmarshalJSON(data []byte) error {
	var tj transactionJSON
	if err := json.Unmarshal(data, &tj); err != nil {
		return err
	}
	date, err := time.Parse(DateFormat, tj.Date)
	if err != nil {
		return fmt.Errorf("invalid transaction date %q: %w", tj.Date, err)
	}
	t.Date = date
	t.Account = tj.Account
	t.Amount = tj.Amount
	return nil
}

var _ json.Marshaler = Transaction{}
var _ json.Unmarshaler = (*Transaction)(nil)
