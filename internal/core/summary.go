package core

// CategoryAmount is an amount attributed to one category.
type CategoryAmount struct {
	Category Category `json:"category"`
	Amount   Money    `json:"amount"`
}

// Summary is the dashboard overview: totals across both collections plus the
// number of alert settings whose category spend currently exceeds the limit.
type Summary struct {
	TotalIncome   Money `json:"totalIncome"`
	TotalExpenses Money `json:"totalExpenses"`
	Balance       Money `json:"balance"`
	ActiveAlerts  int   `json:"activeAlerts"`
}

// TotalIncome sums the amounts of an income collection. Empty yields 0.
func TotalIncome(items []Income) Money {
	var cents int64
	for _, it := range items {
		cents += it.Amount.Cents
	}
	return Money{Cents: cents}
}

// TotalExpenses sums the amounts of an expense collection. Empty yields 0.
func TotalExpenses(items []Expense) Money {
	var cents int64
	for _, it := range items {
		cents += it.Amount.Cents
	}
	return Money{Cents: cents}
}

// GroupByCategory sums expense amounts per category over the full category
// enumeration. Categories without expenses are present with a zero amount.
func GroupByCategory(expenses []Expense) map[Category]Money {
	groups := make(map[Category]Money, len(Categories()))
	for _, c := range Categories() {
		groups[c] = Money{}
	}
	for _, e := range expenses {
		g := groups[e.Category]
		g.Cents += e.Amount.Cents
		groups[e.Category] = g
	}
	return groups
}

// ChartRows produces chart-ready grouping output: strictly positive category
// sums only, in canonical category order.
func ChartRows(expenses []Expense) []CategoryAmount {
	groups := GroupByCategory(expenses)
	rows := make([]CategoryAmount, 0, len(groups))
	for _, c := range Categories() {
		if groups[c].Cents > 0 {
			rows = append(rows, CategoryAmount{Category: c, Amount: groups[c]})
		}
	}
	return rows
}

// PercentOfLimit returns spent as a percentage of limit, clamped to [0,100].
// Limits are constrained positive at entry; a non-positive limit yields 0.
func PercentOfLimit(spent, limit Money) float64 {
	if limit.Cents <= 0 {
		return 0
	}
	pct := float64(spent.Cents) / float64(limit.Cents) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
