package advisor

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgetwise/internal/core"
)

type stubClient struct {
	mu    sync.Mutex
	calls int
	tips  []string
	err   error
	last  TipsRequest
}

func (c *stubClient) Tips(_ context.Context, req TipsRequest) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.last = req
	return c.tips, c.err
}

func validRequest() TipsRequest {
	return TipsRequest{
		Income: core.Money{Cents: 500000},
		Expenses: []core.CategoryAmount{
			{Category: core.CategoryFood, Amount: core.Money{Cents: 30000}},
		},
	}
}

func TestTipsInvalidIncome(t *testing.T) {
	client := &stubClient{tips: []string{"never called"}}
	svc := NewService(client, nil)

	req := validRequest()
	req.Income = core.Money{}
	tips := svc.Tips(context.Background(), req)

	assert.Equal(t, []string{tipInvalidIncome}, tips)
	assert.Zero(t, client.calls, "validation failures must not reach the client")
}

func TestTipsNoExpenses(t *testing.T) {
	client := &stubClient{tips: []string{"never called"}}
	svc := NewService(client, nil)

	req := validRequest()
	req.Expenses = nil
	tips := svc.Tips(context.Background(), req)

	assert.Equal(t, []string{tipNoExpenses}, tips)
	assert.Zero(t, client.calls)
}

func TestTipsNilClient(t *testing.T) {
	svc := NewService(nil, nil)
	tips := svc.Tips(context.Background(), validRequest())
	assert.Equal(t, []string{tipUnavailable}, tips)
}

func TestTipsClientFailure(t *testing.T) {
	client := &stubClient{err: errors.New("upstream down")}
	svc := NewService(client, nil)

	tips := svc.Tips(context.Background(), validRequest())
	assert.Equal(t, []string{tipUnavailable}, tips)
	assert.Equal(t, 1, client.calls)
}

func TestTipsSuccessPassthrough(t *testing.T) {
	want := []string{"Cook at home more often.", "Review your subscriptions."}
	client := &stubClient{tips: want}
	svc := NewService(client, nil)

	tips := svc.Tips(context.Background(), validRequest())
	assert.Equal(t, want, tips)
}

func TestTipsMergesDuplicateCategories(t *testing.T) {
	client := &stubClient{tips: []string{"ok"}}
	svc := NewService(client, nil)

	req := TipsRequest{
		Income: core.Money{Cents: 500000},
		Expenses: []core.CategoryAmount{
			{Category: core.CategoryFood, Amount: core.Money{Cents: 10000}},
			{Category: core.CategoryTransport, Amount: core.Money{Cents: 5000}},
			{Category: core.CategoryFood, Amount: core.Money{Cents: 2500}},
		},
	}
	svc.Tips(context.Background(), req)

	require.Len(t, client.last.Expenses, 2)
	assert.Equal(t, core.CategoryFood, client.last.Expenses[0].Category)
	assert.Equal(t, int64(12500), client.last.Expenses[0].Amount.Cents)
	assert.Equal(t, core.CategoryTransport, client.last.Expenses[1].Category)
}

func TestMergeByCategoryKeepsFirstOccurrenceOrder(t *testing.T) {
	in := []core.CategoryAmount{
		{Category: core.CategoryOther, Amount: core.Money{Cents: 1}},
		{Category: core.CategoryFood, Amount: core.Money{Cents: 2}},
		{Category: core.CategoryOther, Amount: core.Money{Cents: 3}},
	}
	out := mergeByCategory(in)

	require.Len(t, out, 2)
	assert.Equal(t, core.CategoryOther, out[0].Category)
	assert.Equal(t, int64(4), out[0].Amount.Cents)
	assert.Equal(t, core.CategoryFood, out[1].Category)
}
