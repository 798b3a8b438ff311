package outbox

import (
	"encoding/json"
	"time"
)

// PayloadEnvelope is the versioned wrapper stored in outbox_events.payload.
// Consumers key off EventID for their own dedupe.
type PayloadEnvelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"eventId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Data       json.RawMessage `json:"data"`
}
