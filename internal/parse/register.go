package parse

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JamesS-M/ledger-dashboard/internal/model"
)

// Key spellings seen across tool variants for register entries.
var (
	entryDateKeys      = []string{"date", "tdate", "pdate"}
	postingAccountKeys = []string{"paccount", "account", "acct"}
	postingAmountKeys  = []string{"amount", "pamount", "value", "total"}
	postingListKeys    = []string{"tpostings", "postings"}
)

// Layouts with unpadded components also accept zero-padded input.
var dateLayouts = []string{"2006-1-2", "2006/1/2"}

// registerLineRe matches text register rows: a date, the account path, and a
// trailing currency-like numeral.
var registerLineRe = regexp.MustCompile(`^\s*(\d{4}[-/]\d{1,2}[-/]\d{1,2})\s+(.+?)\s+([$€£¥]?-?[0-9][0-9,]*(?:\.[0-9]+)?)\s*$`)

// ExtractRegister turns sniffed register output into an ordered transaction
// list. Extraction is best effort: postings missing a resolvable date,
// account or amount are dropped, and unusable input yields an empty list,
// never an error. The error return exists for symmetry with ExtractBalance.
//
// Many output modes omit the date on every posting after a transaction's
// first; the walk carries the last seen date forward and substitutes it
// wherever an entry's own date is null or absent. That carried date is the
// extractor's only state and is threaded sequentially through one fold.
func ExtractRegister(shape Shape, decoded any) ([]model.Transaction, error) {
	fold := &registerFold{txs: []model.Transaction{}}
	switch shape {
	case ShapeHledgerArray, ShapeObjectArray:
		if list, ok := decoded.([]any); ok {
			fold.entries(flattenEntries(list))
		}
	case ShapeWrappedObject:
		if obj, ok := decoded.(map[string]any); ok {
			if list, ok := resolveList(obj); ok {
				fold.entries(flattenEntries(list))
			} else {
				fold.entries([]any{obj})
			}
		}
	default:
		text, _ := decoded.(string)
		fold.text(text)
	}
	return fold.txs, nil
}

// registerFold accumulates transactions and the carried last-seen date.
type registerFold struct {
	txs     []model.Transaction
	carried time.Time
	dated   bool // carried holds a real date
}

func (f *registerFold) append(date time.Time, account string, amount decimal.Decimal) {
	f.txs = append(f.txs, model.Transaction{Date: date, Account: account, Amount: amount})
}

// observe updates the carried date when the candidate parses.
func (f *registerFold) observe(candidate string) {
	if d, ok := parseDate(candidate); ok {
		f.carried = d
		f.dated = true
	}
}

func (f *registerFold) entries(entries []any) {
	for _, entry := range entries {
		switch e := entry.(type) {
		case []any:
			f.positionalEntry(e)
		case map[string]any:
			if postings := postingList(e); postings != nil {
				f.transactionEntry(e, postings)
			} else {
				f.flatPosting(e)
			}
		}
	}
}

// positionalEntry handles [date|null, status, description, posting, balance]
// rows. The date slot is null on every posting after a transaction's first.
func (f *registerFold) positionalEntry(e []any) {
	if len(e) < 4 {
		return
	}
	if own, ok := e[0].(string); ok {
		f.observe(own)
	}
	if !f.dated {
		return
	}
	posting, ok := e[3].(map[string]any)
	if !ok {
		return
	}
	account := stringField(posting, postingAccountKeys...)
	amount, ok := postingAmount(posting)
	if account == "" || !ok {
		return
	}
	f.append(f.carried, account, amount)
}

// transactionEntry expands an object carrying a posting list: one
// Transaction per posting, sharing the parent's date unless the posting
// carries its own.
func (f *registerFold) transactionEntry(entry map[string]any, postings []any) {
	f.observe(stringField(entry, "tdate", "date"))
	for _, p := range postings {
		posting, ok := p.(map[string]any)
		if !ok {
			continue
		}
		date, dated := f.carried, f.dated
		if own, ok := parseDate(stringField(posting, "pdate")); ok {
			date, dated = own, true
		}
		if !dated {
			continue
		}
		account := stringField(posting, postingAccountKeys...)
		amount, ok := postingAmount(posting)
		if account == "" || !ok {
			continue
		}
		f.append(date, account, amount)
	}
}

func (f *registerFold) flatPosting(e map[string]any) {
	f.observe(stringField(e, entryDateKeys...))
	if !f.dated {
		return
	}
	account := stringField(e, postingAccountKeys...)
	amount, ok := postingAmount(e)
	if account == "" || !ok {
		return
	}
	f.append(f.carried, account, amount)
}

// text recognizes two line grammars: pipe-delimited date|account|amount, and
// whitespace-delimited date account amount. Lines matching neither are
// dropped.
func (f *registerFold) text(text string) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.Contains(line, "|") {
			f.pipeLine(line)
			continue
		}
		m := registerLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		f.observe(m[1])
		if !f.dated {
			continue
		}
		f.append(f.carried, strings.TrimSpace(m[2]), decodeAmountString(m[3]))
	}
}

// pipeLine parses date|account|amount. An empty date field inherits the
// carried date; a non-empty field that is not a date disqualifies the line.
func (f *registerFold) pipeLine(line string) {
	parts := strings.Split(line, "|")
	if len(parts) != 3 {
		return
	}
	own := strings.TrimSpace(parts[0])
	if own != "" {
		if _, ok := parseDate(own); !ok {
			return
		}
		f.observe(own)
	}
	if !f.dated {
		return
	}
	account := strings.TrimSpace(parts[1])
	if account == "" {
		return
	}
	f.append(f.carried, account, decodeAmountString(strings.TrimSpace(parts[2])))
}

func postingList(entry map[string]any) []any {
	for _, key := range postingListKeys {
		if list, ok := entry[key].([]any); ok {
			return list
		}
	}
	return nil
}

// postingAmount requires a present amount field; a present field decoding to
// zero is acceptable, an absent one is not.
func postingAmount(m map[string]any) (decimal.Decimal, bool) {
	for _, key := range postingAmountKeys {
		if v, present := m[key]; present {
			return DecodeAmount(v), true
		}
	}
	return decimal.Zero, false
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}
