package ledgerfile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleJournal = `; personal ledger
2024-01-01 opening balances
    Assets:Checking        $2,000.00
    Equity:Opening

2024/01/15 * groceries
    Expenses:Food:Groceries    $52.10
    Assets:Checking
`

func TestProbeJournal(t *testing.T) {
	st := Probe(strings.NewReader(sampleJournal))

	assert.Equal(t, 2, st.Transactions)
	assert.Equal(t, 4, st.Postings)
	assert.Equal(t, 0, st.Directives)
	assert.True(t, st.LooksLikeJournal())
}

func TestProbeDirectivesOnly(t *testing.T) {
	st := Probe(strings.NewReader("account Assets:Checking\naccount Expenses:Food\ncommodity $\n"))

	assert.Equal(t, 3, st.Directives)
	assert.True(t, st.LooksLikeJournal())
}

func TestProbeRejectsProse(t *testing.T) {
	st := Probe(strings.NewReader("Dear diary,\ntoday I spent too much money.\n"))
	assert.False(t, st.LooksLikeJournal())
}

func TestProbeRejectsEmpty(t *testing.T) {
	assert.False(t, Probe(strings.NewReader("")).LooksLikeJournal())
	assert.False(t, Probe(strings.NewReader("\n\n; only comments\n")).LooksLikeJournal())
}

func TestProbeRejectsCSV(t *testing.T) {
	csv := "2024-01-01,ACH_DEBIT,coffee,-4.50\n2024-01-02,ACH_CREDIT,salary,2500.00\n"
	st := Probe(strings.NewReader(csv))

	assert.Equal(t, 0, st.Transactions)
	assert.False(t, st.LooksLikeJournal())
}

func TestProbeHeadWithoutPostings(t *testing.T) {
	// Dates alone do not make a journal.
	st := Probe(strings.NewReader("2024-01-01 something\n2024-01-02 else\n"))
	assert.False(t, st.LooksLikeJournal())
}
