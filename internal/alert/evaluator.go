// Package alert decides whether cumulative spend in a category has crossed
// its configured limit.
package alert

import (
	"budgetwise/internal/core"
)

// Evaluation is the outcome of checking one category against its limit.
type Evaluation struct {
	Category     core.Category `json:"category"`
	CurrentTotal core.Money    `json:"currentTotal"`
	Limit        core.Money    `json:"limit"`
	Percent      float64       `json:"percent"`
	Exceeded     bool          `json:"exceeded"`
	OverBy       core.Money    `json:"overBy"`
}

// Evaluate checks the category's cumulative spend against its alert setting.
//
// expenses must be the post-write collection: an edit is judged against the
// state after it is applied, otherwise an edit that pushes spend over the
// limit goes unnoticed and one that brings it back under is falsely flagged.
// The caller only invokes this on expense add/edit, never on delete.
//
// Returns ok=false when no setting exists for the category; that is "no
// alert configured", not an error.
func Evaluate(expenses []core.Expense, settings []core.AlertSetting, category core.Category) (Evaluation, bool) {
	setting, ok := settingFor(settings, category)
	if !ok {
		return Evaluation{}, false
	}

	var total int64
	for _, e := range expenses {
		if e.Category == category {
			total += e.Amount.Cents
		}
	}

	ev := Evaluation{
		Category:     category,
		CurrentTotal: core.Money{Cents: total},
		Limit:        setting.Limit,
		Percent:      core.PercentOfLimit(core.Money{Cents: total}, setting.Limit),
		Exceeded:     total > setting.Limit.Cents,
	}
	if over := total - setting.Limit.Cents; over > 0 {
		ev.OverBy = core.Money{Cents: over}
	}
	return ev, true
}

// Statuses evaluates every configured setting against the expense
// collection, in the order the settings are stored.
func Statuses(expenses []core.Expense, settings []core.AlertSetting) []Evaluation {
	out := make([]Evaluation, 0, len(settings))
	for _, s := range settings {
		if ev, ok := Evaluate(expenses, settings, s.Category); ok {
			out = append(out, ev)
		}
	}
	return out
}

func settingFor(settings []core.AlertSetting, category core.Category) (core.AlertSetting, bool) {
	for _, s := range settings {
		if s.Category == category {
			return s, true
		}
	}
	return core.AlertSetting{}, false
}
