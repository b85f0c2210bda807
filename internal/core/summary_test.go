package core

import "testing"

func expenseOf(category Category, cents int64) Expense {
	return Expense{
		Amount:   Money{Cents: cents},
		Date:     NewDate(2026, 8, 1),
		Category: category,
	}
}

func TestTotalsEmptyCollections(t *testing.T) {
	if got := TotalIncome(nil); got.Cents != 0 {
		t.Fatalf("empty income total: expected 0, got %d", got.Cents)
	}
	if got := TotalExpenses([]Expense{}); got.Cents != 0 {
		t.Fatalf("empty expense total: expected 0, got %d", got.Cents)
	}
}

func TestTotalsOrderIndependent(t *testing.T) {
	a := []Expense{
		expenseOf(CategoryFood, 100),
		expenseOf(CategoryHousing, 2500),
		expenseOf(CategoryFood, 399),
	}
	b := []Expense{a[2], a[0], a[1]}

	if TotalExpenses(a).Cents != TotalExpenses(b).Cents {
		t.Fatal("total changed under reordering")
	}
}

func TestGroupByCategoryCoversAllCategories(t *testing.T) {
	groups := GroupByCategory([]Expense{
		expenseOf(CategoryFood, 1000),
		expenseOf(CategoryFood, 500),
		expenseOf(CategoryTransport, 250),
	})

	if len(groups) != len(Categories()) {
		t.Fatalf("expected %d groups, got %d", len(Categories()), len(groups))
	}
	if groups[CategoryFood].Cents != 1500 {
		t.Fatalf("Food: expected 1500, got %d", groups[CategoryFood].Cents)
	}
	if groups[CategoryTransport].Cents != 250 {
		t.Fatalf("Transport: expected 250, got %d", groups[CategoryTransport].Cents)
	}
	if groups[CategoryEducation].Cents != 0 {
		t.Fatalf("untouched category should be zero, got %d", groups[CategoryEducation].Cents)
	}
}

func TestGroupSumsMatchTotal(t *testing.T) {
	expenses := []Expense{
		expenseOf(CategoryFood, 1234),
		expenseOf(CategoryShopping, 567),
		expenseOf(CategoryOther, 89),
		expenseOf(CategoryFood, 1),
	}

	var grouped int64
	for _, m := range GroupByCategory(expenses) {
		grouped += m.Cents
	}
	if total := TotalExpenses(expenses).Cents; grouped != total {
		t.Fatalf("group sum %d != total %d", grouped, total)
	}
}

func TestChartRowsPositiveOnlyInCanonicalOrder(t *testing.T) {
	rows := ChartRows([]Expense{
		expenseOf(CategoryOther, 50),
		expenseOf(CategoryFood, 1000),
	})

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	// Food precedes Other in the canonical ordering regardless of input order.
	if rows[0].Category != CategoryFood || rows[1].Category != CategoryOther {
		t.Fatalf("unexpected row order: %v", rows)
	}
}

func TestPercentOfLimit(t *testing.T) {
	cases := []struct {
		spent, limit int64
		want         float64
	}{
		{0, 10000, 0},
		{5000, 10000, 50},
		{10000, 10000, 100},
		{15000, 10000, 100}, // clamped
		{5000, 0, 0},        // non-positive limit
		{5000, -1, 0},
	}
	for _, tc := range cases {
		got := PercentOfLimit(Money{Cents: tc.spent}, Money{Cents: tc.limit})
		if got != tc.want {
			t.Fatalf("spent=%d limit=%d: expected %v, got %v", tc.spent, tc.limit, tc.want, got)
		}
	}
}
