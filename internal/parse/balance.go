package parse

import (
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/JamesS-M/ledger-dashboard/internal/model"
)

// Key spellings seen across tool variants for a balance entry's account name
// and its amount.
var (
	accountNameKeys   = []string{"account", "aname", "name", "fullname", "acct"}
	balanceAmountKeys = []string{"aebalance", "aibalance", "amount", "total", "balance", "value", "quantity"}
)

// balanceLineRe matches text balance rows: an amount token, a run of at
// least two spaces, then the account path.
var balanceLineRe = regexp.MustCompile(`^\s*(\S+)\s{2,}(\S.*)$`)

// ExtractBalance turns sniffed balance output into a Summary.
//
// Entries whose account does not start with one of the four canonical
// classes are ignored. It fails only when the input resolves to no entry
// list at all; an empty list is a valid zero Summary.
func ExtractBalance(shape Shape, decoded any) (model.Summary, error) {
	switch shape {
	case ShapeHledgerArray, ShapeObjectArray:
		list, ok := decoded.([]any)
		if !ok {
			return model.Summary{}, errNoAccounts()
		}
		return summarize(flattenEntries(list)), nil
	case ShapeWrappedObject:
		obj, ok := decoded.(map[string]any)
		if !ok {
			return model.Summary{}, errNoAccounts()
		}
		if list, ok := resolveList(obj); ok {
			return summarize(flattenEntries(list)), nil
		}
		// No conventional list key. The object may still be a single
		// account entry; otherwise there is nothing to extract.
		if stringField(obj, accountNameKeys...) == "" {
			return model.Summary{}, errNoAccounts()
		}
		return summarize([]any{obj}), nil
	default:
		text, _ := decoded.(string)
		return summarizeText(text), nil
	}
}

// bucket accumulates one class's total and its per-category sums.
type bucket struct {
	total      decimal.Decimal
	categories map[string]decimal.Decimal
}

func newBucket() *bucket {
	return &bucket{total: decimal.Zero, categories: make(map[string]decimal.Decimal)}
}

func (b *bucket) add(category string, amount decimal.Decimal) {
	b.total = b.total.Add(amount)
	if category == "" {
		// Entry for the class root itself: counts toward the total,
		// produces no category row.
		return
	}
	b.categories[category] = b.categories[category].Add(amount)
}

func summarize(entries []any) model.Summary {
	buckets := map[model.Class]*bucket{}
	for _, class := range model.Classes {
		buckets[class] = newBucket()
	}
	for _, entry := range entries {
		account, amount, ok := balanceEntry(entry)
		if !ok {
			continue
		}
		class, category, ok := splitAccount(account)
		if !ok {
			continue
		}
		buckets[class].add(category, amount)
	}
	return assembleSummary(buckets)
}

func summarizeText(text string) model.Summary {
	buckets := map[model.Class]*bucket{}
	for _, class := range model.Classes {
		buckets[class] = newBucket()
	}
	for _, line := range strings.Split(text, "\n") {
		m := balanceLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		account := strings.TrimSpace(m[2])
		class, category, ok := splitAccount(account)
		if !ok {
			continue
		}
		buckets[class].add(category, decodeAmountString(m[1]))
	}
	return assembleSummary(buckets)
}

// balanceEntry resolves one entry to an account path and amount. Positional
// rows carry the full name first and their amounts fourth; record objects
// use one of several key spellings.
func balanceEntry(entry any) (string, decimal.Decimal, bool) {
	switch e := entry.(type) {
	case []any:
		if len(e) < 4 {
			return "", decimal.Zero, false
		}
		name, ok := e[0].(string)
		if !ok || name == "" {
			return "", decimal.Zero, false
		}
		return name, DecodeAmount(e[3]), true
	case map[string]any:
		name := stringField(e, accountNameKeys...)
		if name == "" {
			return "", decimal.Zero, false
		}
		for _, key := range balanceAmountKeys {
			if v, present := e[key]; present {
				return name, DecodeAmount(v), true
			}
		}
		return name, decimal.Zero, true
	default:
		return "", decimal.Zero, false
	}
}

// splitAccount buckets an account path by its first segment,
// case-insensitively, and returns the remainder as the category key.
func splitAccount(account string) (model.Class, string, bool) {
	head, rest, _ := strings.Cut(account, ":")
	head = strings.TrimSpace(head)
	for _, class := range model.Classes {
		if strings.EqualFold(head, string(class)) {
			return class, strings.TrimSpace(rest), true
		}
	}
	return "", "", false
}

func assembleSummary(buckets map[model.Class]*bucket) model.Summary {
	expenses := buckets[model.ClassExpenses]
	income := buckets[model.ClassIncome]
	assets := buckets[model.ClassAssets]
	liabilities := buckets[model.ClassLiabilities]

	return model.Summary{
		TotalExpenses:     expenses.total.Abs(),
		TotalIncome:       income.total.Abs(),
		TotalAssets:       assets.total,
		TotalLiabilities:  liabilities.total,
		NetWorth:          assets.total.Sub(liabilities.total),
		ExpenseCategories: normalizedCategories(expenses),
		IncomeCategories:  normalizedCategories(income),
	}
}

// normalizedCategories orients a bucket's category sums by the bucket's own
// sign (the tool reports income and expenses with a credit/debit sign
// convention that is an artifact, not information), drops anything that is
// not positive after orientation, and sorts descending by amount with the
// category name breaking ties.
func normalizedCategories(b *bucket) []model.CategoryAmount {
	flip := b.total.IsNegative()
	out := make([]model.CategoryAmount, 0, len(b.categories))
	for category, amount := range b.categories {
		if flip {
			amount = amount.Neg()
		}
		if !amount.IsPositive() {
			continue
		}
		out = append(out, model.CategoryAmount{Category: category, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Amount.Equal(out[j].Amount) {
			return out[i].Amount.GreaterThan(out[j].Amount)
		}
		return out[i].Category < out[j].Category
	})
	return out
}
