package delivery

import (
	"context"
	"errors"
	"testing"
)

type stubDeliverer struct {
	id    string
	typ   string
	err   error
	calls int
}

func (s *stubDeliverer) ID() string   { return s.id }
func (s *stubDeliverer) Type() string { return s.typ }

func (s *stubDeliverer) Deliver(_ context.Context, _ Event) error {
	s.calls++
	return s.err
}

func TestFanoutDeliversToAll(t *testing.T) {
	first := &stubDeliverer{id: "daily-mail", typ: TypeSMTP}
	second := &stubDeliverer{id: "archive-webhook", typ: TypeHTTP}

	fanout := NewFanout([]Deliverer{first, second, nil})
	if fanout.Size() != 2 {
		t.Fatalf("nil deliverers should be dropped, size = %d", fanout.Size())
	}

	successful, err := fanout.Deliver(context.Background(), testEvent())
	if err != nil {
		t.Fatalf("Deliver returned error: %v", err)
	}
	if successful != 2 {
		t.Errorf("successful = %d", successful)
	}
	if first.calls != 1 || second.calls != 1 {
		t.Errorf("deliverers not all invoked: %d, %d", first.calls, second.calls)
	}
}

func TestFanoutContinuesPastFailures(t *testing.T) {
	failErr := errors.New("relay refused")
	failing := &stubDeliverer{id: "daily-mail", typ: TypeSMTP, err: failErr}
	working := &stubDeliverer{id: "archive-webhook", typ: TypeHTTP}

	fanout := NewFanout([]Deliverer{failing, working})
	successful, err := fanout.Deliver(context.Background(), testEvent())
	if !errors.Is(err, failErr) {
		t.Fatalf("expected joined failure, got %v", err)
	}
	if successful != 1 {
		t.Errorf("successful = %d", successful)
	}
	if working.calls != 1 {
		t.Errorf("failure should not stop later deliverers")
	}
}

func TestFanoutWithNoDeliverers(t *testing.T) {
	successful, err := NewFanout(nil).Deliver(context.Background(), testEvent())
	if err != nil || successful != 0 {
		t.Fatalf("empty fanout: successful=%d err=%v", successful, err)
	}
}

func TestDefaultRegistryKnowsAllTypes(t *testing.T) {
	reg := DefaultRegistry()
	env := testBuildEnv()

	// SMTP is the only type buildable without external endpoints.
	d, err := reg.DelivererFor(context.Background(), DelivererConfig{ID: "daily-mail", Type: TypeSMTP}, env)
	if err != nil {
		t.Fatalf("DelivererFor(smtp): %v", err)
	}
	if d.Type() != TypeSMTP {
		t.Errorf("built wrong type: %s", d.Type())
	}

	if _, err := reg.DelivererFor(context.Background(), DelivererConfig{ID: "x", Type: "carrier-pigeon"}, env); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}

func TestBuildAllStopsOnBuilderError(t *testing.T) {
	reg := DefaultRegistry()
	env := testBuildEnv()
	env.Mail.Sender = ""

	if _, err := BuildAll(context.Background(), reg, []DelivererConfig{{ID: "daily-mail", Type: TypeSMTP}}, env); err == nil {
		t.Fatalf("expected builder error to propagate")
	}
}
