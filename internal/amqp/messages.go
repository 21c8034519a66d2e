package amqp

import (
	"encoding/json"
	"time"

	"contas/internal/core"
)

// EntryEvent announces a committed change to one entry. Consumers fetch the
// record itself through the API when they need it.
type EntryEvent struct {
	Domain    core.Domain `json:"domain"`
	Action    core.Action `json:"action"`
	ID        int64       `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEntryEvent stamps an event with the current UTC time.
func NewEntryEvent(d core.Domain, action core.Action, id int64) *EntryEvent {
	return &EntryEvent{
		Domain:    d,
		Action:    action,
		ID:        id,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *EntryEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EntryEventFromJSON decodes an event body.
func EntryEventFromJSON(data []byte) (*EntryEvent, error) {
	var ev EntryEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
