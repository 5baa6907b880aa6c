package event

import (
	"sync"
	"testing"

	"github.com/lixenwraith/bunny-coffee/parameter"
)

// TestQueueBasic tests basic push and consume operations
func TestQueueBasic(t *testing.T) {
	q := NewQueue()

	q.Emit(EventCustomerSpawned, &CustomerSpawnedPayload{Index: 0}, 1)
	q.Emit(EventCustomerStatus, &StatusPayload{Index: 0, From: "Idle", To: "MovingToBar"}, 1)
	q.Emit(EventMoneyChanged, &MoneyChangedPayload{Money: 4, Delta: 4}, 2)

	events := q.Consume()
	if len(events) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(events))
	}

	if events[0].Type != EventCustomerSpawned {
		t.Errorf("Event 1 mismatch: got type=%v", events[0].Type)
	}
	if events[2].Type != EventMoneyChanged || events[2].Tick != 2 {
		t.Errorf("Event 3 mismatch: got type=%v tick=%d", events[2].Type, events[2].Tick)
	}
	if p, ok := events[2].Payload.(*MoneyChangedPayload); !ok || p.Delta != 4 {
		t.Errorf("Expected money payload with delta 4, got %#v", events[2].Payload)
	}

	if again := q.Consume(); len(again) != 0 {
		t.Errorf("Expected 0 events on second consume, got %d", len(again))
	}
}

// TestQueueConcurrentPush tests concurrent producers with a single consumer
func TestQueueConcurrentPush(t *testing.T) {
	q := NewQueue()
	producers := 8
	perProducer := 50

	var wg sync.WaitGroup
	wg.Add(producers)
	for i := 0; i < producers; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				q.Emit(EventBubble, &BubblePayload{Index: id}, int64(j))
			}
		}(i)
	}
	wg.Wait()

	if got := len(q.Consume()); got != producers*perProducer {
		t.Errorf("Expected %d events, got %d", producers*perProducer, got)
	}
}

// TestQueueOverflow verifies the oldest events are overwritten when full
func TestQueueOverflow(t *testing.T) {
	q := NewQueue()
	extra := 10

	for i := 0; i < parameter.EventQueueSize+extra; i++ {
		q.Emit(EventBubble, i, int64(i))
	}

	if q.Len() != parameter.EventQueueSize {
		t.Errorf("Expected Len %d, got %d", parameter.EventQueueSize, q.Len())
	}
	if q.Dropped() != uint64(extra) {
		t.Errorf("Expected %d dropped, got %d", extra, q.Dropped())
	}

	events := q.Consume()
	if len(events) != parameter.EventQueueSize {
		t.Fatalf("Expected %d events, got %d", parameter.EventQueueSize, len(events))
	}
	if events[0].Payload != extra {
		t.Errorf("Expected oldest surviving payload %d, got %v", extra, events[0].Payload)
	}
}
