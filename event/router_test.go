package event

import "testing"

type recordingHandler struct {
	types []EventType
	seen  []GameEvent
}

func (h *recordingHandler) HandleEvent(ev GameEvent) { h.seen = append(h.seen, ev) }
func (h *recordingHandler) EventTypes() []EventType  { return h.types }

func TestRouterDispatchAll(t *testing.T) {
	q := NewQueue()
	r := NewRouter(q)

	money := &recordingHandler{types: []EventType{EventMoneyChanged}}
	all := &recordingHandler{types: AllTypes()}
	r.Register(money)
	r.Register(all)

	if r.HandlerCount(EventMoneyChanged) != 2 {
		t.Errorf("Expected 2 handlers for money, got %d", r.HandlerCount(EventMoneyChanged))
	}
	if r.HasHandlers(EventNone) {
		t.Error("EventNone should have no handlers")
	}

	q.Emit(EventMoneyChanged, &MoneyChangedPayload{Money: 10, Delta: 10}, 1)
	q.Emit(EventCustomerLeft, &CustomerLeftPayload{Index: 3}, 1)

	if n := r.DispatchAll(); n != 2 {
		t.Errorf("Expected 2 dispatched events, got %d", n)
	}
	if len(money.seen) != 1 {
		t.Errorf("Expected money handler to see 1 event, got %d", len(money.seen))
	}
	if len(all.seen) != 2 {
		t.Errorf("Expected catch-all handler to see 2 events, got %d", len(all.seen))
	}
}

func TestRegistryNames(t *testing.T) {
	InitRegistry()

	for _, et := range AllTypes() {
		name := GetEventName(et)
		back, ok := GetEventType(name)
		if !ok || back != et {
			t.Errorf("Round trip failed for %v: name=%q back=%v", et, name, back)
		}
	}

	if _, ok := NewPayloadStruct(EventMoneyChanged).(*MoneyChangedPayload); !ok {
		t.Error("Expected *MoneyChangedPayload for EventMoneyChanged")
	}
	if NewPayloadStruct(EventGameReset) != nil {
		t.Error("Expected nil payload for EventGameReset")
	}
	if GetEventName(EventNone) != "EventNone" {
		t.Errorf("Expected EventNone name, got %q", GetEventName(EventNone))
	}
}
