package events

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	TypeEmergencyModeActivated   = "EMERGENCY_MODE_ACTIVATED"
	TypeEmergencyModeDeactivated = "EMERGENCY_MODE_DEACTIVATED"
	TypeStateChanged             = "STATE_CHANGED"
	TypeProfileUpdated           = "PROFILE_UPDATED"
)

// Event is anything that can travel on the internal bus or NATS.
type Event interface {
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// UserID returns the "user_id" payload field, or "" when missing.
func (e BaseEvent) UserID() string {
	id, _ := e.Data["user_id"].(string)
	return id
}

func NewEmergencyModeEvent(userID string, active bool, at time.Time) BaseEvent {
	typ := TypeEmergencyModeDeactivated
	if active {
		typ = TypeEmergencyModeActivated
	}
	return BaseEvent{
		Type:       typ,
		Data:       map[string]interface{}{"user_id": userID, "is_emergency_mode": active},
		OccurredAt: at,
	}
}

func NewStateChangedEvent(userID string, fields []string, at time.Time) BaseEvent {
	return BaseEvent{
		Type:       TypeStateChanged,
		Data:       map[string]interface{}{"user_id": userID, "fields": fields},
		OccurredAt: at,
	}
}

func NewProfileUpdatedEvent(userID string, level int, at time.Time) BaseEvent {
	return BaseEvent{
		Type:       TypeProfileUpdated,
		Data:       map[string]interface{}{"user_id": userID, "current_level": level},
		OccurredAt: at,
	}
}

// envelope is the wire form; the type travels with the payload so consumers
// don't have to derive it from a topic or subject.
type envelope struct {
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurred_at"`
	Data       map[string]interface{} `json:"data"`
}

func Marshal(e Event) ([]byte, error) {
	return json.Marshal(envelope{Type: e.EventType(), OccurredAt: e.Timestamp(), Data: e.Payload()})
}

func Unmarshal(data []byte) (BaseEvent, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return BaseEvent{}, fmt.Errorf("decode event: %w", err)
	}
	if env.Type == "" {
		return BaseEvent{}, fmt.Errorf("decode event: missing type")
	}
	return BaseEvent{Type: env.Type, Data: env.Data, OccurredAt: env.OccurredAt}, nil
}
