package model

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Monetary values marshal as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Class identifies one of the four top-level account classes.
type Class string

const (
	ClassExpenses    Class = "Expenses"
	ClassIncome      Class = "Income"
	ClassAssets      Class = "Assets"
	ClassLiabilities Class = "Liabilities"
)

// Classes lists the recognized top-level classes in report order.
var Classes = []Class{ClassExpenses, ClassIncome, ClassAssets, ClassLiabilities}

// CategoryAmount is one category roll-up row within a class,
// e.g. {Category: "Food:Groceries", Amount: 412.50}.
type CategoryAmount struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"` // non-negative
}

// Summary is the aggregate result of one balance run.
//
// TotalExpenses and TotalIncome are sign-normalized to non-negative values;
// TotalAssets and TotalLiabilities keep the sign the tool reported.
// NetWorth = TotalAssets - TotalLiabilities.
type Summary struct {
	TotalExpenses     decimal.Decimal  `json:"total_expenses"`
	TotalIncome       decimal.Decimal  `json:"total_income"`
	TotalAssets       decimal.Decimal  `json:"total_assets"`
	TotalLiabilities  decimal.Decimal  `json:"total_liabilities"`
	NetWorth          decimal.Decimal  `json:"net_worth"`
	ExpenseCategories []CategoryAmount `json:"expense_categories"`
	IncomeCategories  []CategoryAmount `json:"income_categories"`

	// Transactions is empty until register output is merged in.
	Transactions []Transaction `json:"transactions"`
}
