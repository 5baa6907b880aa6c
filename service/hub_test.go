package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type recorder struct {
	events []string
}

func (r *recorder) service(name string, deps []string, startErr error) *Func {
	return &Func{
		ID:        name,
		DependsOn: deps,
		OnStart: func(context.Context) error {
			if startErr != nil {
				return startErr
			}
			r.events = append(r.events, "start "+name)
			return nil
		},
		OnStop: func() error {
			r.events = append(r.events, "stop "+name)
			return nil
		},
	}
}

func TestHubStartsInDependencyOrder(t *testing.T) {
	rec := &recorder{}
	h := NewHub()
	for _, svc := range []Service{
		rec.service("api", []string{"scheduler", "store"}, nil),
		rec.service("scheduler", []string{"store"}, nil),
		rec.service("audio", nil, nil),
		rec.service("store", nil, nil),
	} {
		if err := h.Register(svc); err != nil {
			t.Fatalf("Register %s: %v", svc.Name(), err)
		}
	}

	order, err := h.Order()
	if err != nil {
		t.Fatalf("Order: %v", err)
	}
	want := []string{"audio", "store", "scheduler", "api"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("Expected order %v, got %v", want, order)
	}

	if err := h.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	h.StopAll()
	h.StopAll()

	wantEvents := []string{
		"start audio", "start store", "start scheduler", "start api",
		"stop api", "stop scheduler", "stop store", "stop audio",
	}
	if !reflect.DeepEqual(rec.events, wantEvents) {
		t.Errorf("Expected events %v, got %v", wantEvents, rec.events)
	}
}

func TestHubRollsBackOnStartFailure(t *testing.T) {
	rec := &recorder{}
	failure := errors.New("broker unreachable")
	h := NewHub()
	h.Register(rec.service("store", nil, nil))
	h.Register(rec.service("scheduler", []string{"store"}, nil))
	h.Register(rec.service("broker", []string{"scheduler"}, failure))

	err := h.StartAll(context.Background())
	if !errors.Is(err, failure) {
		t.Fatalf("Expected start failure, got %v", err)
	}

	want := []string{"start store", "start scheduler", "stop scheduler", "stop store"}
	if !reflect.DeepEqual(rec.events, want) {
		t.Errorf("Expected events %v, got %v", want, rec.events)
	}
}

func TestHubRegistrationErrors(t *testing.T) {
	rec := &recorder{}

	h := NewHub()
	h.Register(rec.service("store", nil, nil))
	if err := h.Register(rec.service("store", nil, nil)); !errors.Is(err, ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}

	h = NewHub()
	h.Register(rec.service("api", []string{"store"}, nil))
	if err := h.StartAll(context.Background()); !errors.Is(err, ErrMissing) {
		t.Errorf("Expected ErrMissing, got %v", err)
	}

	h = NewHub()
	h.Register(rec.service("a", []string{"b"}, nil))
	h.Register(rec.service("b", []string{"a"}, nil))
	if _, err := h.Order(); !errors.Is(err, ErrCycle) {
		t.Errorf("Expected ErrCycle, got %v", err)
	}
	if len(rec.events) != 0 {
		t.Errorf("Expected nothing started, got %v", rec.events)
	}
}

func TestMustGet(t *testing.T) {
	h := NewHub()
	svc := &Func{ID: "store"}
	h.Register(svc)

	if got := MustGet[*Func](h, "store"); got != svc {
		t.Errorf("Expected registered instance, got %v", got)
	}
	if _, ok := h.Get("missing"); ok {
		t.Error("Expected missing service")
	}

	defer func() {
		if recover() == nil {
			t.Error("Expected panic for unknown service")
		}
	}()
	MustGet[*Func](h, "missing")
}
