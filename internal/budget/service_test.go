package budget_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgetwise/internal/budget"
	"budgetwise/internal/core"
	"budgetwise/internal/store"
)

func newService(t *testing.T) *budget.Service {
	t.Helper()
	return budget.NewService(store.NewMemory(), nil)
}

func incomeParams(cents int64, date core.Date, source string) budget.IncomeParams {
	return budget.IncomeParams{
		Amount: core.Money{Cents: cents},
		Date:   date,
		Source: source,
	}
}

func expenseParams(cents int64, date core.Date, category core.Category) budget.ExpenseParams {
	return budget.ExpenseParams{
		Amount:   core.Money{Cents: cents},
		Date:     date,
		Category: category,
	}
}

func TestAddIncome(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	inc, err := svc.AddIncome(ctx, incomeParams(500000, core.NewDate(2026, 8, 1), "Salary"))
	require.NoError(t, err)
	assert.NotEmpty(t, inc.ID)
	assert.Equal(t, int64(500000), inc.Amount.Cents)

	items, err := svc.ListIncomes(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, inc.ID, items[0].ID)
}

func TestAddIncomeValidation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.AddIncome(ctx, incomeParams(0, core.NewDate(2026, 8, 1), "Salary"))
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	_, err = svc.AddIncome(ctx, incomeParams(1000, core.Date{}, "Salary"))
	assert.ErrorIs(t, err, core.ErrInvalidDate)

	_, err = svc.AddIncome(ctx, incomeParams(1000, core.NewDate(2026, 8, 1), ""))
	assert.ErrorIs(t, err, core.ErrEmptySource)

	items, err := svc.ListIncomes(ctx)
	require.NoError(t, err)
	assert.Empty(t, items, "rejected records must not be stored")
}

func TestIncomesUniqueIDs(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		inc, err := svc.AddIncome(ctx, incomeParams(1000, core.NewDate(2026, 8, 1), "Salary"))
		require.NoError(t, err)
		assert.False(t, seen[inc.ID], "duplicate ID %s", inc.ID)
		seen[inc.ID] = true
	}
}

func TestIncomesNewestFirst(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.AddIncome(ctx, incomeParams(100, core.NewDate(2026, 7, 1), "Old"))
	require.NoError(t, err)
	_, err = svc.AddIncome(ctx, incomeParams(200, core.NewDate(2026, 8, 15), "New"))
	require.NoError(t, err)
	_, err = svc.AddIncome(ctx, incomeParams(300, core.NewDate(2026, 8, 1), "Mid"))
	require.NoError(t, err)

	items, err := svc.ListIncomes(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "New", items[0].Source)
	assert.Equal(t, "Mid", items[1].Source)
	assert.Equal(t, "Old", items[2].Source)
}

func TestUpdateIncome(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	inc, err := svc.AddIncome(ctx, incomeParams(1000, core.NewDate(2026, 8, 1), "Salary"))
	require.NoError(t, err)

	inc.Amount = core.Money{Cents: 2000}
	require.NoError(t, svc.UpdateIncome(ctx, inc))

	items, err := svc.ListIncomes(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(2000), items[0].Amount.Cents)

	missing := inc
	missing.ID = "nope"
	assert.ErrorIs(t, svc.UpdateIncome(ctx, missing), budget.ErrNotFound)
}

func TestDeleteIncome(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	inc, err := svc.AddIncome(ctx, incomeParams(1000, core.NewDate(2026, 8, 1), "Salary"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteIncome(ctx, inc.ID))
	items, err := svc.ListIncomes(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	assert.ErrorIs(t, svc.DeleteIncome(ctx, inc.ID), budget.ErrNotFound)
}

func TestAddExpenseWithoutAlertSetting(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	exp, ev, err := svc.AddExpense(ctx, expenseParams(2999, core.NewDate(2026, 8, 2), core.CategoryFood))
	require.NoError(t, err)
	assert.NotEmpty(t, exp.ID)
	assert.Nil(t, ev, "no evaluation without a configured alert")
}

func TestAddExpenseTriggersAlert(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.SetAlert(ctx, budget.AlertParams{
		Category: core.CategoryFood,
		Limit:    core.Money{Cents: 500000},
	})
	require.NoError(t, err)

	_, ev, err := svc.AddExpense(ctx, expenseParams(300000, core.NewDate(2026, 8, 1), core.CategoryFood))
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.False(t, ev.Exceeded)

	// The second write pushes the cumulative total past the limit.
	_, ev, err = svc.AddExpense(ctx, expenseParams(250000, core.NewDate(2026, 8, 2), core.CategoryFood))
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.True(t, ev.Exceeded)
	assert.Equal(t, int64(550000), ev.CurrentTotal.Cents)
	assert.Equal(t, int64(50000), ev.OverBy.Cents)
}

func TestUpdateExpenseReEvaluates(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.SetAlert(ctx, budget.AlertParams{
		Category: core.CategoryFood,
		Limit:    core.Money{Cents: 10000},
	})
	require.NoError(t, err)

	exp, _, err := svc.AddExpense(ctx, expenseParams(5000, core.NewDate(2026, 8, 1), core.CategoryFood))
	require.NoError(t, err)

	// Raising the amount past the limit must be judged on the post-edit state.
	exp.Amount = core.Money{Cents: 15000}
	ev, err := svc.UpdateExpense(ctx, exp)
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.True(t, ev.Exceeded)

	// Lowering it back under must clear the flag.
	exp.Amount = core.Money{Cents: 2000}
	ev, err = svc.UpdateExpense(ctx, exp)
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.False(t, ev.Exceeded)
}

func TestDeleteExpenseNeverEvaluates(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.SetAlert(ctx, budget.AlertParams{
		Category: core.CategoryFood,
		Limit:    core.Money{Cents: 100},
	})
	require.NoError(t, err)

	exp, ev, err := svc.AddExpense(ctx, expenseParams(5000, core.NewDate(2026, 8, 1), core.CategoryFood))
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.True(t, ev.Exceeded)

	require.NoError(t, svc.DeleteExpense(ctx, exp.ID))
	items, err := svc.ListExpenses(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSetAlertRejectsDuplicateCategory(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.SetAlert(ctx, budget.AlertParams{
		Category: core.CategoryFood,
		Limit:    core.Money{Cents: 10000},
	})
	require.NoError(t, err)

	_, err = svc.SetAlert(ctx, budget.AlertParams{
		Category: core.CategoryFood,
		Limit:    core.Money{Cents: 20000},
	})
	assert.ErrorIs(t, err, budget.ErrAlertExists)

	settings, err := svc.ListAlerts(ctx)
	require.NoError(t, err)
	assert.Len(t, settings, 1)
}

func TestUpdateAlertKeepsCategoryUnique(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	food, err := svc.SetAlert(ctx, budget.AlertParams{
		Category: core.CategoryFood,
		Limit:    core.Money{Cents: 10000},
	})
	require.NoError(t, err)
	_, err = svc.SetAlert(ctx, budget.AlertParams{
		Category: core.CategoryTransport,
		Limit:    core.Money{Cents: 5000},
	})
	require.NoError(t, err)

	// Moving the Food alert onto Transport collides with the other setting.
	food.Category = core.CategoryTransport
	assert.ErrorIs(t, svc.UpdateAlert(ctx, food), budget.ErrAlertExists)

	// Changing only the limit is fine.
	food.Category = core.CategoryFood
	food.Limit = core.Money{Cents: 20000}
	require.NoError(t, svc.UpdateAlert(ctx, food))
}

func TestSummary(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.AddIncome(ctx, incomeParams(500000, core.NewDate(2026, 8, 1), "Salary"))
	require.NoError(t, err)
	_, _, err = svc.AddExpense(ctx, expenseParams(150000, core.NewDate(2026, 8, 2), core.CategoryHousing))
	require.NoError(t, err)
	_, err = svc.SetAlert(ctx, budget.AlertParams{
		Category: core.CategoryHousing,
		Limit:    core.Money{Cents: 100000},
	})
	require.NoError(t, err)

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(500000), summary.TotalIncome.Cents)
	assert.Equal(t, int64(150000), summary.TotalExpenses.Cents)
	assert.Equal(t, int64(350000), summary.Balance.Cents)
	assert.Equal(t, 1, summary.ActiveAlerts)
}

func TestExpenseBreakdown(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, _, err := svc.AddExpense(ctx, expenseParams(7500, core.NewDate(2026, 8, 1), core.CategoryFood))
	require.NoError(t, err)
	_, _, err = svc.AddExpense(ctx, expenseParams(2500, core.NewDate(2026, 8, 2), core.CategoryTransport))
	require.NoError(t, err)

	breakdown, err := svc.ExpenseBreakdown(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), breakdown.Total.Cents)
	require.Len(t, breakdown.Rows, 2)
	assert.Equal(t, core.CategoryFood, breakdown.Rows[0].Category)
	assert.InDelta(t, 75.0, breakdown.Rows[0].Percent, 0.001)
	assert.InDelta(t, 25.0, breakdown.Rows[1].Percent, 0.001)
}

func TestReplaceAlertsRejectsDuplicates(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	err := svc.ReplaceAlerts(ctx, []core.AlertSetting{
		{Category: core.CategoryFood, Limit: core.Money{Cents: 100}},
		{Category: core.CategoryFood, Limit: core.Money{Cents: 200}},
	})
	assert.ErrorIs(t, err, budget.ErrAlertExists)
}
