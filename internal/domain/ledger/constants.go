package ledger

const (
	TypeIncome  = "income"
	TypeExpense = "expense"

	CategoryPayroll = "Salarios"
	// Monthly tuition paid by families, booked as manual income transactions.
	CategoryTuition = "Mensualidad"
)

// DefaultCategories are created on first start.
var DefaultCategories = []Category{
	{Name: CategoryPayroll, Type: TypeExpense},
	{Name: CategoryTuition, Type: TypeIncome},
}
