package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JamesS-M/ledger-dashboard/internal/model"
)

func extractBalanceRaw(t *testing.T, raw string) model.Summary {
	t.Helper()
	shape, decoded := Classify(raw)
	summary, err := ExtractBalance(shape, decoded)
	require.NoError(t, err)
	return summary
}

func assertSameSummary(t *testing.T, want, got model.Summary) {
	t.Helper()
	assert.True(t, want.TotalExpenses.Equal(got.TotalExpenses), "expenses: want %s got %s", want.TotalExpenses, got.TotalExpenses)
	assert.True(t, want.TotalIncome.Equal(got.TotalIncome), "income: want %s got %s", want.TotalIncome, got.TotalIncome)
	assert.True(t, want.TotalAssets.Equal(got.TotalAssets), "assets: want %s got %s", want.TotalAssets, got.TotalAssets)
	assert.True(t, want.TotalLiabilities.Equal(got.TotalLiabilities), "liabilities: want %s got %s", want.TotalLiabilities, got.TotalLiabilities)
	assert.True(t, want.NetWorth.Equal(got.NetWorth), "net worth: want %s got %s", want.NetWorth, got.NetWorth)

	require.Len(t, got.ExpenseCategories, len(want.ExpenseCategories))
	for i, w := range want.ExpenseCategories {
		assert.Equal(t, w.Category, got.ExpenseCategories[i].Category)
		assert.True(t, w.Amount.Equal(got.ExpenseCategories[i].Amount),
			"expense category %s: want %s got %s", w.Category, w.Amount, got.ExpenseCategories[i].Amount)
	}
	require.Len(t, got.IncomeCategories, len(want.IncomeCategories))
	for i, w := range want.IncomeCategories {
		assert.Equal(t, w.Category, got.IncomeCategories[i].Category)
		assert.True(t, w.Amount.Equal(got.IncomeCategories[i].Amount),
			"income category %s: want %s got %s", w.Category, w.Amount, got.IncomeCategories[i].Amount)
	}
}

func TestExtractBalanceObjectArray(t *testing.T) {
	raw := `[
		{"account":"Expenses:Food","total":-50},
		{"account":"Income:Salary","total":-1000},
		{"account":"Assets:Checking","total":2000},
		{"account":"Liabilities:CreditCard","total":300}
	]`
	s := extractBalanceRaw(t, raw)

	assert.Equal(t, "50", s.TotalExpenses.String())
	assert.Equal(t, "1000", s.TotalIncome.String())
	assert.Equal(t, "2000", s.TotalAssets.String())
	assert.Equal(t, "300", s.TotalLiabilities.String())
	assert.Equal(t, "1700", s.NetWorth.String())
}

// The same underlying data must produce an identical Summary no matter which
// of the four shapes it arrives in.
func TestExtractBalanceShapeInvariance(t *testing.T) {
	objectArray := `[
		{"account":"Expenses:Food","total":-50},
		{"account":"Income:Salary","total":-1000},
		{"account":"Assets:Checking","total":2000},
		{"account":"Liabilities:CreditCard","total":300}
	]`
	hledgerArray := `[
		["Expenses:Food","Food",1,[{"acommodity":"$","aquantity":{"decimalMantissa":-5000,"decimalPlaces":2}}]],
		["Income:Salary","Salary",1,[{"acommodity":"$","aquantity":{"decimalMantissa":-100000,"decimalPlaces":2}}]],
		["Assets:Checking","Checking",1,[{"acommodity":"$","aquantity":{"decimalMantissa":200000,"decimalPlaces":2}}]],
		["Liabilities:CreditCard","CreditCard",1,[{"acommodity":"$","aquantity":{"decimalMantissa":30000,"decimalPlaces":2}}]]
	]`
	nestedHledger := `[[
		["Expenses:Food","Food",1,[{"acommodity":"$","aquantity":{"decimalMantissa":-5000,"decimalPlaces":2}}]],
		["Income:Salary","Salary",1,[{"acommodity":"$","aquantity":{"decimalMantissa":-100000,"decimalPlaces":2}}]],
		["Assets:Checking","Checking",1,[{"acommodity":"$","aquantity":{"decimalMantissa":200000,"decimalPlaces":2}}]],
		["Liabilities:CreditCard","CreditCard",1,[{"acommodity":"$","aquantity":{"decimalMantissa":30000,"decimalPlaces":2}}]]
	],[[{"acommodity":"$","aquantity":{"decimalMantissa":125000,"decimalPlaces":2}}]]]`
	wrapped := `{"accounts":[
		{"account":"Expenses:Food","total":-50},
		{"account":"Income:Salary","total":-1000},
		{"account":"Assets:Checking","total":2000},
		{"account":"Liabilities:CreditCard","total":300}
	]}`
	plainText := "               $-50  Expenses:Food\n" +
		"             $-1,000  Income:Salary\n" +
		"              $2,000  Assets:Checking\n" +
		"                $300  Liabilities:CreditCard\n" +
		"--------------------\n" +
		"              $1,250\n"

	want := extractBalanceRaw(t, objectArray)
	for name, raw := range map[string]string{
		"hledger array":  hledgerArray,
		"nested hledger": nestedHledger,
		"wrapped object": wrapped,
		"plain text":     plainText,
	} {
		t.Run(name, func(t *testing.T) {
			assertSameSummary(t, want, extractBalanceRaw(t, raw))
		})
	}
}

func TestExtractBalanceCategories(t *testing.T) {
	raw := `[
		{"account":"Expenses:Food:Groceries","amount":-30},
		{"account":"Expenses:Food:Groceries","amount":-10},
		{"account":"Expenses:Rent","amount":-40},
		{"account":"Expenses","amount":-5},
		{"account":"Income:Salary","amount":-1000},
		{"account":"Income:Refunds","amount":50}
	]`
	s := extractBalanceRaw(t, raw)

	// The class-root entry counts toward the total but produces no category.
	assert.Equal(t, "85", s.TotalExpenses.String())
	require.Len(t, s.ExpenseCategories, 2)
	// Equal amounts tie-break by name.
	assert.Equal(t, "Food:Groceries", s.ExpenseCategories[0].Category)
	assert.Equal(t, "40", s.ExpenseCategories[0].Amount.String())
	assert.Equal(t, "Rent", s.ExpenseCategories[1].Category)
	assert.Equal(t, "40", s.ExpenseCategories[1].Amount.String())

	// Refunds go negative after orientation and are dropped.
	assert.Equal(t, "950", s.TotalIncome.String())
	require.Len(t, s.IncomeCategories, 1)
	assert.Equal(t, "Salary", s.IncomeCategories[0].Category)
	assert.Equal(t, "1000", s.IncomeCategories[0].Amount.String())
}

func TestExtractBalanceCategorySortStable(t *testing.T) {
	raw := `[
		{"account":"Expenses:Bravo","amount":10},
		{"account":"Expenses:Alpha","amount":10},
		{"account":"Expenses:Zulu","amount":25}
	]`
	s := extractBalanceRaw(t, raw)

	require.Len(t, s.ExpenseCategories, 3)
	assert.Equal(t, "Zulu", s.ExpenseCategories[0].Category)
	// Equal amounts order by name.
	assert.Equal(t, "Alpha", s.ExpenseCategories[1].Category)
	assert.Equal(t, "Bravo", s.ExpenseCategories[2].Category)
}

func TestExtractBalanceLowercaseRoots(t *testing.T) {
	raw := `[
		{"aname":"expenses:food","aebalance":-25},
		{"aname":"assets:cash","aebalance":125}
	]`
	s := extractBalanceRaw(t, raw)

	assert.Equal(t, "25", s.TotalExpenses.String())
	assert.Equal(t, "125", s.TotalAssets.String())
	require.Len(t, s.ExpenseCategories, 1)
	assert.Equal(t, "food", s.ExpenseCategories[0].Category)
}

func TestExtractBalanceIgnoresForeignAccounts(t *testing.T) {
	raw := `[
		{"account":"Equity:Opening","amount":999},
		{"account":"Assets:Cash","amount":10}
	]`
	s := extractBalanceRaw(t, raw)

	assert.Equal(t, "10", s.TotalAssets.String())
	assert.True(t, s.TotalExpenses.IsZero())
	assert.True(t, s.TotalIncome.IsZero())
}

func TestExtractBalanceEmptyListIsZeroSummary(t *testing.T) {
	s := extractBalanceRaw(t, `[]`)
	assert.True(t, s.TotalExpenses.IsZero())
	assert.True(t, s.NetWorth.IsZero())
	assert.Empty(t, s.ExpenseCategories)
}

func TestExtractBalanceWrappedObjectNoAccounts(t *testing.T) {
	shape, decoded := Classify(`{"status":"ok","version":3}`)
	require.Equal(t, ShapeWrappedObject, shape)

	_, err := ExtractBalance(shape, decoded)
	require.Error(t, err)

	var extractErr ExtractError
	require.ErrorAs(t, err, &extractErr)
	assert.Equal(t, "no accounts found", extractErr.Reason)
}

func TestExtractBalanceWrappedObjectSingleEntry(t *testing.T) {
	s := extractBalanceRaw(t, `{"account":"Assets:Vault","amount":77}`)
	assert.Equal(t, "77", s.TotalAssets.String())
}

func TestExtractBalancePlainTextIgnoresNoise(t *testing.T) {
	text := "The ledger tool reported:\n" +
		"               $-50  Expenses:Food\n" +
		"--------------------\n" +
		"               $-50\n"
	s := extractBalanceRaw(t, text)
	assert.Equal(t, "50", s.TotalExpenses.String())
	assert.True(t, s.TotalAssets.IsZero())
}

func TestExtractBalanceIdempotent(t *testing.T) {
	raw := `[
		{"account":"Expenses:Food","total":-50},
		{"account":"Assets:Checking","total":2000}
	]`
	first := extractBalanceRaw(t, raw)
	second := extractBalanceRaw(t, raw)
	assertSameSummary(t, first, second)
}
