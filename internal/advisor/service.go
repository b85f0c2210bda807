package advisor

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/singleflight"

	"budgetwise/internal/core"
	"budgetwise/internal/log"
)

// Canned responses. Validation and delegate failures surface as a
// single-element tip list; the raw error never reaches the caller.
const (
	tipInvalidIncome = "Please provide a valid income to get budget tips."
	tipNoExpenses    = "Please add some expenses to get personalized budget tips."
	tipUnavailable   = "Sorry, we couldn't generate tips at this moment. Please try again later or ensure your input is valid."
)

// Service validates tip requests, normalizes them, and relays the external
// service's answer. Identical concurrent requests are collapsed into a
// single upstream call.
type Service struct {
	client Client
	logger *log.Logger
	group  singleflight.Group
}

// NewService wraps the advice client. A nil client is allowed; every request
// then resolves to the unavailable tip. A nil logger falls back to a
// default one.
func NewService(client Client, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Service{client: client, logger: logger.WithComponent(log.ComponentAdvisor)}
}

// Tips returns budgeting suggestions for the given finances. It never
// returns an error: invalid input and upstream failures both come back as a
// canned single-element list.
func (s *Service) Tips(ctx context.Context, req TipsRequest) []string {
	if req.Income.Cents <= 0 {
		return []string{tipInvalidIncome}
	}
	if len(req.Expenses) == 0 {
		return []string{tipNoExpenses}
	}
	if s.client == nil {
		s.logger.WarnContext(ctx, "Tip request received but no advice client is configured")
		return []string{tipUnavailable}
	}

	req.Expenses = mergeByCategory(req.Expenses)

	v, err, shared := s.group.Do(requestKey(req), func() (any, error) {
		return s.client.Tips(ctx, req)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Advice service call failed", log.FieldError, err)
		return []string{tipUnavailable}
	}
	if shared {
		s.logger.DebugContext(ctx, "Tip request coalesced with an in-flight duplicate")
	}
	return v.([]string)
}

// mergeByCategory sums duplicate categories; the merged output keeps the
// insertion order of each category's first occurrence.
func mergeByCategory(in []core.CategoryAmount) []core.CategoryAmount {
	index := make(map[core.Category]int, len(in))
	out := make([]core.CategoryAmount, 0, len(in))
	for _, e := range in {
		if i, ok := index[e.Category]; ok {
			out[i].Amount.Cents += e.Amount.Cents
			continue
		}
		index[e.Category] = len(out)
		out = append(out, e)
	}
	return out
}

func requestKey(req TipsRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d", req.Income.Cents)
	for _, e := range req.Expenses {
		fmt.Fprintf(&b, "|%s=%d", e.Category, e.Amount.Cents)
	}
	return b.String()
}
