package ledger

import "time"

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Category is a fixed business category a transaction is filed under.
type Category string

const (
	CategorySales                Category = "Sales"
	CategoryServices             Category = "Services"
	CategoryInvestments          Category = "Investments"
	CategoryOtherIncome          Category = "Other Income"
	CategoryFoodDining           Category = "Food & Dining"
	CategoryTransportation       Category = "Transportation"
	CategoryUtilities            Category = "Utilities"
	CategoryOfficeSupplies       Category = "Office Supplies"
	CategoryMarketing            Category = "Marketing"
	CategoryProfessionalServices Category = "Professional Services"
	CategoryRent                 Category = "Rent"
	CategoryEquipment            Category = "Equipment"
	CategorySoftware             Category = "Software"
	CategoryInsurance            Category = "Insurance"
	CategoryTravel               Category = "Travel"
	CategoryPayroll              Category = "Payroll"
	CategoryTaxes                Category = "Taxes"
	CategoryOtherExpense         Category = "Other Expense"
)

// IncomeCategories lists the categories valid for income transactions.
var IncomeCategories = []Category{
	CategorySales,
	CategoryServices,
	CategoryInvestments,
	CategoryOtherIncome,
}

// ExpenseCategories lists the categories valid for expense transactions.
var ExpenseCategories = []Category{
	CategoryFoodDining,
	CategoryTransportation,
	CategoryUtilities,
	CategoryOfficeSupplies,
	CategoryMarketing,
	CategoryProfessionalServices,
	CategoryRent,
	CategoryEquipment,
	CategorySoftware,
	CategoryInsurance,
	CategoryTravel,
	CategoryPayroll,
	CategoryTaxes,
	CategoryOtherExpense,
}

// ValidCategory reports whether category belongs to the taxonomy of the
// given transaction type.
func ValidCategory(txType TransactionType, category Category) bool {
	var set []Category
	switch txType {
	case TypeIncome:
		set = IncomeCategories
	case TypeExpense:
		set = ExpenseCategories
	default:
		return false
	}
	for _, c := range set {
		if c == category {
			return true
		}
	}
	return false
}

// Transaction is one ledger entry. Amounts are always positive; the type
// carries the sign.
type Transaction struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Type        TransactionType `json:"type"`
	Amount      float64         `json:"amount"`
	Category    Category        `json:"category"`
	Description string          `json:"description"`
	ReceiptID   string          `json:"receipt_id,omitempty"`
	IsRecurring bool            `json:"is_recurring,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
