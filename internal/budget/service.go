// Package budget owns every read-modify-write sequence over the stored
// collections and the derived computations the pages consume.
package budget

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"budgetwise/internal/alert"
	"budgetwise/internal/core"
	"budgetwise/internal/log"
	"budgetwise/internal/store"
)

var (
	ErrNotFound    = errors.New("budget: record not found")
	ErrAlertExists = errors.New("budget: alert already configured for this category")
)

// Service is the single writer over the keyed store. The store is injected so
// tests can substitute the in-memory implementation.
type Service struct {
	incomes  store.Collection[core.Income]
	expenses store.Collection[core.Expense]
	alerts   store.Collection[core.AlertSetting]
	logger   *log.Logger
}

// NewService binds the typed collections. A nil logger falls back to a
// default one.
func NewService(kv store.KV, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	storeLogger := logger.WithComponent(log.ComponentStore)
	return &Service{
		incomes:  store.NewCollection[core.Income](kv, store.KeyIncome, storeLogger),
		expenses: store.NewCollection[core.Expense](kv, store.KeyExpenses, storeLogger),
		alerts:   store.NewCollection[core.AlertSetting](kv, store.KeyAlerts, storeLogger),
		logger:   logger.WithComponent(log.ComponentBudget),
	}
}

// IncomeParams are the fields of a new income record.
type IncomeParams struct {
	Amount      core.Money
	Date        core.Date
	Source      string
	Description string
}

// ExpenseParams are the fields of a new expense record.
type ExpenseParams struct {
	Amount      core.Money
	Date        core.Date
	Category    core.Category
	Description string
}

// AlertParams are the fields of a new alert setting.
type AlertParams struct {
	Category core.Category
	Limit    core.Money
}

func (s *Service) ListIncomes(ctx context.Context) ([]core.Income, error) {
	return s.incomes.Load(ctx)
}

func (s *Service) AddIncome(ctx context.Context, p IncomeParams) (core.Income, error) {
	inc := core.Income{
		ID:          uuid.NewString(),
		Amount:      p.Amount,
		Date:        p.Date,
		Source:      p.Source,
		Description: p.Description,
	}
	if err := inc.Validate(); err != nil {
		return core.Income{}, err
	}

	items, err := s.incomes.Load(ctx)
	if err != nil {
		return core.Income{}, err
	}
	items = append(items, inc)
	sortIncomes(items)
	if err := s.incomes.Store(ctx, items); err != nil {
		return core.Income{}, err
	}

	s.logger.InfoContext(ctx, "Income added",
		log.FieldOperation, log.OpCreate,
		log.FieldRecordID, inc.ID,
		"source", inc.Source,
		log.FieldAmount, inc.Amount.Cents)
	return inc, nil
}

// UpdateIncome replaces the stored record carrying the same ID wholesale.
func (s *Service) UpdateIncome(ctx context.Context, inc core.Income) error {
	if err := inc.Validate(); err != nil {
		return err
	}
	items, err := s.incomes.Load(ctx)
	if err != nil {
		return err
	}
	idx := incomeIndex(items, inc.ID)
	if idx < 0 {
		return ErrNotFound
	}
	items[idx] = inc
	sortIncomes(items)
	return s.incomes.Store(ctx, items)
}

func (s *Service) DeleteIncome(ctx context.Context, id string) error {
	items, err := s.incomes.Load(ctx)
	if err != nil {
		return err
	}
	idx := incomeIndex(items, id)
	if idx < 0 {
		return ErrNotFound
	}
	items = append(items[:idx], items[idx+1:]...)
	return s.incomes.Store(ctx, items)
}

// ReplaceIncomes is the set-all surface: it validates and stores the full
// collection, replacing whatever was there.
func (s *Service) ReplaceIncomes(ctx context.Context, items []core.Income) error {
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
		if err := items[i].Validate(); err != nil {
			return fmt.Errorf("income %q: %w", items[i].ID, err)
		}
	}
	sortIncomes(items)
	return s.incomes.Store(ctx, items)
}

func (s *Service) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	return s.expenses.Load(ctx)
}

// AddExpense stores the new record and evaluates the category against its
// alert setting using the post-write collection. The evaluation is nil when
// no alert is configured for the category.
func (s *Service) AddExpense(ctx context.Context, p ExpenseParams) (core.Expense, *alert.Evaluation, error) {
	exp := core.Expense{
		ID:          uuid.NewString(),
		Amount:      p.Amount,
		Date:        p.Date,
		Category:    p.Category,
		Description: p.Description,
	}
	if err := exp.Validate(); err != nil {
		return core.Expense{}, nil, err
	}

	items, err := s.expenses.Load(ctx)
	if err != nil {
		return core.Expense{}, nil, err
	}
	items = append(items, exp)
	sortExpenses(items)
	if err := s.expenses.Store(ctx, items); err != nil {
		return core.Expense{}, nil, err
	}

	s.logger.InfoContext(ctx, "Expense added",
		log.FieldOperation, log.OpCreate,
		log.FieldRecordID, exp.ID,
		log.FieldCategory, exp.Category.String(),
		log.FieldAmount, exp.Amount.Cents)

	ev, err := s.evaluate(ctx, items, exp.Category)
	return exp, ev, err
}

// UpdateExpense replaces the stored record wholesale and re-evaluates the
// (possibly changed) category against the post-edit collection.
func (s *Service) UpdateExpense(ctx context.Context, exp core.Expense) (*alert.Evaluation, error) {
	if err := exp.Validate(); err != nil {
		return nil, err
	}
	items, err := s.expenses.Load(ctx)
	if err != nil {
		return nil, err
	}
	idx := expenseIndex(items, exp.ID)
	if idx < 0 {
		return nil, ErrNotFound
	}
	items[idx] = exp
	sortExpenses(items)
	if err := s.expenses.Store(ctx, items); err != nil {
		return nil, err
	}
	return s.evaluate(ctx, items, exp.Category)
}

// DeleteExpense removes the record. Deletion never triggers an alert
// evaluation, matching the pages' observed behavior.
func (s *Service) DeleteExpense(ctx context.Context, id string) error {
	items, err := s.expenses.Load(ctx)
	if err != nil {
		return err
	}
	idx := expenseIndex(items, id)
	if idx < 0 {
		return ErrNotFound
	}
	items = append(items[:idx], items[idx+1:]...)
	return s.expenses.Store(ctx, items)
}

func (s *Service) ReplaceExpenses(ctx context.Context, items []core.Expense) error {
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
		if err := items[i].Validate(); err != nil {
			return fmt.Errorf("expense %q: %w", items[i].ID, err)
		}
	}
	sortExpenses(items)
	return s.expenses.Store(ctx, items)
}

func (s *Service) ListAlerts(ctx context.Context) ([]core.AlertSetting, error) {
	return s.alerts.Load(ctx)
}

// SetAlert creates a new spending limit. A category carries at most one
// setting; a duplicate is rejected with ErrAlertExists.
func (s *Service) SetAlert(ctx context.Context, p AlertParams) (core.AlertSetting, error) {
	setting := core.AlertSetting{
		ID:       uuid.NewString(),
		Category: p.Category,
		Limit:    p.Limit,
	}
	if err := setting.Validate(); err != nil {
		return core.AlertSetting{}, err
	}

	items, err := s.alerts.Load(ctx)
	if err != nil {
		return core.AlertSetting{}, err
	}
	for _, a := range items {
		if a.Category == setting.Category {
			return core.AlertSetting{}, ErrAlertExists
		}
	}
	items = append(items, setting)
	if err := s.alerts.Store(ctx, items); err != nil {
		return core.AlertSetting{}, err
	}

	s.logger.InfoContext(ctx, "Alert set",
		log.FieldOperation, log.OpCreate,
		log.FieldRecordID, setting.ID,
		log.FieldCategory, setting.Category.String(),
		log.FieldLimit, setting.Limit.Cents)
	return setting, nil
}

func (s *Service) UpdateAlert(ctx context.Context, setting core.AlertSetting) error {
	if err := setting.Validate(); err != nil {
		return err
	}
	items, err := s.alerts.Load(ctx)
	if err != nil {
		return err
	}
	idx := -1
	for i, a := range items {
		if a.ID == setting.ID {
			idx = i
			continue
		}
		if a.Category == setting.Category {
			return ErrAlertExists
		}
	}
	if idx < 0 {
		return ErrNotFound
	}
	items[idx] = setting
	return s.alerts.Store(ctx, items)
}

func (s *Service) DeleteAlert(ctx context.Context, id string) error {
	items, err := s.alerts.Load(ctx)
	if err != nil {
		return err
	}
	idx := -1
	for i, a := range items {
		if a.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}
	items = append(items[:idx], items[idx+1:]...)
	return s.alerts.Store(ctx, items)
}

func (s *Service) ReplaceAlerts(ctx context.Context, items []core.AlertSetting) error {
	seen := make(map[core.Category]bool, len(items))
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
		if err := items[i].Validate(); err != nil {
			return fmt.Errorf("alert %q: %w", items[i].ID, err)
		}
		if seen[items[i].Category] {
			return ErrAlertExists
		}
		seen[items[i].Category] = true
	}
	return s.alerts.Store(ctx, items)
}

// AlertStatuses evaluates every configured setting against current spend.
func (s *Service) AlertStatuses(ctx context.Context) ([]alert.Evaluation, error) {
	expenses, err := s.expenses.Load(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := s.alerts.Load(ctx)
	if err != nil {
		return nil, err
	}
	return alert.Statuses(expenses, settings), nil
}

// Summary computes the dashboard overview.
func (s *Service) Summary(ctx context.Context) (core.Summary, error) {
	incomes, err := s.incomes.Load(ctx)
	if err != nil {
		return core.Summary{}, err
	}
	expenses, err := s.expenses.Load(ctx)
	if err != nil {
		return core.Summary{}, err
	}
	settings, err := s.alerts.Load(ctx)
	if err != nil {
		return core.Summary{}, err
	}

	totalIn := core.TotalIncome(incomes)
	totalOut := core.TotalExpenses(expenses)
	active := 0
	for _, ev := range alert.Statuses(expenses, settings) {
		if ev.Exceeded {
			active++
		}
	}
	return core.Summary{
		TotalIncome:   totalIn,
		TotalExpenses: totalOut,
		Balance:       core.Money{Cents: totalIn.Cents - totalOut.Cents},
		ActiveAlerts:  active,
	}, nil
}

// BreakdownRow is one slice of the reports chart.
type BreakdownRow struct {
	Category core.Category `json:"category"`
	Amount   core.Money    `json:"amount"`
	Percent  float64       `json:"percent"`
}

// Breakdown is the reports page data: positive category sums and their share
// of the overall total.
type Breakdown struct {
	Total core.Money     `json:"total"`
	Rows  []BreakdownRow `json:"rows"`
}

func (s *Service) ExpenseBreakdown(ctx context.Context) (Breakdown, error) {
	expenses, err := s.expenses.Load(ctx)
	if err != nil {
		return Breakdown{}, err
	}

	total := core.TotalExpenses(expenses)
	chart := core.ChartRows(expenses)
	rows := make([]BreakdownRow, 0, len(chart))
	for _, r := range chart {
		pct := 0.0
		if total.Cents > 0 {
			pct = float64(r.Amount.Cents) / float64(total.Cents) * 100
		}
		rows = append(rows, BreakdownRow{Category: r.Category, Amount: r.Amount, Percent: pct})
	}
	return Breakdown{Total: total, Rows: rows}, nil
}

// TipData gathers the advisor inputs: the income total and the per-category
// expense aggregation.
func (s *Service) TipData(ctx context.Context) (core.Money, []core.CategoryAmount, error) {
	incomes, err := s.incomes.Load(ctx)
	if err != nil {
		return core.Money{}, nil, err
	}
	expenses, err := s.expenses.Load(ctx)
	if err != nil {
		return core.Money{}, nil, err
	}
	return core.TotalIncome(incomes), core.ChartRows(expenses), nil
}

func (s *Service) evaluate(ctx context.Context, postWrite []core.Expense, category core.Category) (*alert.Evaluation, error) {
	settings, err := s.alerts.Load(ctx)
	if err != nil {
		// The expense write already succeeded; an unreadable alert list
		// only suppresses the notification.
		s.logger.WarnContext(ctx, "Skipping alert evaluation, alerts unavailable",
			log.FieldOperation, log.OpEvaluate, log.FieldError, err)
		return nil, nil
	}
	ev, ok := alert.Evaluate(postWrite, settings, category)
	if !ok {
		return nil, nil
	}
	if ev.Exceeded {
		s.logger.InfoContext(ctx, "Spending limit exceeded",
			log.FieldOperation, log.OpEvaluate,
			log.FieldCategory, ev.Category.String(),
			"current_total_cents", ev.CurrentTotal.Cents,
			log.FieldLimit, ev.Limit.Cents,
			"over_by_cents", ev.OverBy.Cents)
	}
	return &ev, nil
}

// Transactions are shown newest first; ties keep insertion order.
func sortIncomes(items []core.Income) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.After(items[j].Date.Time)
	})
}

func sortExpenses(items []core.Expense) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.After(items[j].Date.Time)
	})
}

func incomeIndex(items []core.Income, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func expenseIndex(items []core.Expense, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
