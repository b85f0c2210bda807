package notify

import (
	"encoding/json"
	"time"

	"budgetwise/internal/alert"
)

// AlertEvent is the wire form of an over-limit evaluation.
type AlertEvent struct {
	Category          string    `json:"category"`
	CurrentTotalCents int64     `json:"current_total_cents"`
	LimitCents        int64     `json:"limit_cents"`
	OverByCents       int64     `json:"over_by_cents"`
	OccurredAt        time.Time `json:"occurred_at"`
}

// NewAlertEvent converts an evaluation into its wire form.
func NewAlertEvent(ev alert.Evaluation) *AlertEvent {
	return &AlertEvent{
		Category:          ev.Category.String(),
		CurrentTotalCents: ev.CurrentTotal.Cents,
		LimitCents:        ev.Limit.Cents,
		OverByCents:       ev.OverBy.Cents,
		OccurredAt:        time.Now().UTC(),
	}
}

func (e *AlertEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func AlertEventFromJSON(data []byte) (*AlertEvent, error) {
	var e AlertEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
