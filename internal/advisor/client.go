// Package advisor relays budgeting tips from an external advice-generation
// service. The service is an opaque remote collaborator; this package owns
// the validate/try/catch boundary around it.
package advisor

import (
	"context"

	"budgetwise/internal/core"
)

// TipsRequest is the normalized advisor input: the income total and the
// expense amounts grouped by category.
type TipsRequest struct {
	Income   core.Money            `json:"income"`
	Expenses []core.CategoryAmount `json:"expenses"`
}

// Client defines the interface for advice providers.
type Client interface {
	// Tips returns free-text budgeting suggestions for the given finances.
	Tips(ctx context.Context, req TipsRequest) ([]string, error)
}
