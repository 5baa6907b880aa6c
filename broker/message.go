// Package broker fans presentation events out to an AMQP topic exchange
package broker

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/lixenwraith/bunny-coffee/event"
)

// Envelope is the JSON body of every published message
type Envelope struct {
	Type    string          `json:"type"`
	Tick    int64           `json:"tick"`
	At      time.Time       `json:"at"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// RoutingKey turns "EventCustomerStatus" into "customer.status"
func RoutingKey(et event.EventType) string {
	name := strings.TrimPrefix(event.GetEventName(et), "Event")
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('.')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Encode wraps ev in an Envelope
func Encode(ev event.GameEvent, at time.Time) ([]byte, error) {
	env := Envelope{Type: event.GetEventName(ev.Type), Tick: ev.Tick, At: at.UTC()}
	if ev.Payload != nil {
		raw, err := json.Marshal(ev.Payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", env.Type, err)
		}
		env.Payload = raw
	}
	return json.Marshal(env)
}

// Decode rebuilds a GameEvent with its typed payload pointer
func Decode(body []byte) (event.GameEvent, error) {
	event.InitRegistry()

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return event.GameEvent{}, fmt.Errorf("decode envelope: %w", err)
	}
	et, ok := event.GetEventType(env.Type)
	if !ok {
		return event.GameEvent{}, fmt.Errorf("decode envelope: unknown event type %q", env.Type)
	}

	ev := event.GameEvent{Type: et, Tick: env.Tick}
	if payload := event.NewPayloadStruct(et); payload != nil && len(env.Payload) > 0 {
		if err := json.Unmarshal(env.Payload, payload); err != nil {
			return event.GameEvent{}, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
		ev.Payload = payload
	}
	return ev, nil
}
