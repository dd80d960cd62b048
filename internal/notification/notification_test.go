package notification

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/decorhub/storefront/internal/logging"
)

type stubNotifier struct {
	err   error
	panic bool
	calls int
	last  Message
}

func (n *stubNotifier) Send(_ context.Context, msg Message) error {
	n.calls++
	n.last = msg
	if n.panic {
		panic("provider exploded")
	}
	return n.err
}

type countingObserver struct {
	delivered, failed int
}

func (o *countingObserver) OTPDelivery(delivered bool) {
	if delivered {
		o.delivered++
		return
	}
	o.failed++
}

func TestGatewaySendOTP(t *testing.T) {
	tests := []struct {
		name     string
		notifier Notifier
		want     bool
	}{
		{name: "delivered", notifier: &stubNotifier{}, want: true},
		{name: "transport error", notifier: &stubNotifier{err: errors.New("connection refused")}, want: false},
		{name: "panic", notifier: &stubNotifier{panic: true}, want: false},
		{name: "no notifier", notifier: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := &countingObserver{}
			gw := NewGateway(tt.notifier, logging.Discard(), obs)

			got := gw.SendOTP(context.Background(), "5551230000", "123456")
			if got.Delivered != tt.want {
				t.Fatalf("expected delivered=%v, got %v", tt.want, got.Delivered)
			}
			if obs.delivered+obs.failed != 1 {
				t.Fatalf("expected exactly one observed outcome, got %+v", obs)
			}
		})
	}
}

func TestGatewayMessage(t *testing.T) {
	stub := &stubNotifier{}
	NewGateway(stub, logging.Discard(), nil).SendOTP(context.Background(), "5551230000", "654321")

	if stub.last.Kind != KindOTP || stub.last.Destination != "5551230000" {
		t.Fatalf("unexpected message: %+v", stub.last)
	}
	if stub.last.Body != "Your OTP verification code is 654321" {
		t.Fatalf("unexpected body: %q", stub.last.Body)
	}
}

func TestSMSNotifier(t *testing.T) {
	var got smsRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		if got.Numbers == "0000000000" {
			_, _ = w.Write([]byte(`{"return":false,"message":["Invalid Numbers"]}`))
			return
		}
		_, _ = w.Write([]byte(`{"return":true,"request_id":"abc","message":["SMS sent successfully."]}`))
	}))
	defer srv.Close()

	n := NewSMSNotifier(SMSConfig{APIKey: "key-1", URL: srv.URL, Timeout: time.Second})

	if err := n.Send(context.Background(), Message{Kind: KindOTP, Destination: "5551230000", Body: "hi"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if auth != "key-1" {
		t.Fatalf("expected api key header, got %q", auth)
	}
	if got.Numbers != "5551230000" || got.Message != "hi" {
		t.Fatalf("unexpected payload: %+v", got)
	}

	if err := n.Send(context.Background(), Message{Destination: "0000000000", Body: "hi"}); err == nil {
		t.Fatalf("expected rejection error")
	}
}

func TestSMSNotifierErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	if err := NewSMSNotifier(SMSConfig{APIKey: "k", URL: srv.URL}).Send(context.Background(), Message{}); err == nil {
		t.Fatalf("expected error on 502")
	}
	if err := NewSMSNotifier(SMSConfig{URL: srv.URL}).Send(context.Background(), Message{}); err == nil {
		t.Fatalf("expected error without api key")
	}
}

func TestProtectedNotifierOpensAfterThreshold(t *testing.T) {
	inner := &stubNotifier{err: errors.New("down")}
	pn := NewProtectedNotifier(inner, ProtectedNotifierConfig{FailureThreshold: 2, Cooldown: time.Minute})
	now := time.Now()
	pn.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := pn.Send(ctx, Message{}); err == nil {
			t.Fatalf("expected inner error")
		}
	}
	if pn.State() != stateOpen {
		t.Fatalf("expected open circuit, got %s", pn.State())
	}
	if err := pn.Send(ctx, Message{}); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("open circuit must not call inner, calls=%d", inner.calls)
	}

	// after the cooldown one trial call goes through and closes the circuit
	now = now.Add(2 * time.Minute)
	inner.err = nil
	if err := pn.Send(ctx, Message{}); err != nil {
		t.Fatalf("trial call: %v", err)
	}
	if pn.State() != stateClosed {
		t.Fatalf("expected closed circuit, got %s", pn.State())
	}
}

func TestProtectedNotifierAppliesTimeout(t *testing.T) {
	slow := notifierFunc(func(ctx context.Context, _ Message) error {
		<-ctx.Done()
		return ctx.Err()
	})
	pn := NewProtectedNotifier(slow, ProtectedNotifierConfig{Timeout: 10 * time.Millisecond})

	if err := pn.Send(context.Background(), Message{}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

type notifierFunc func(ctx context.Context, msg Message) error

func (f notifierFunc) Send(ctx context.Context, msg Message) error { return f(ctx, msg) }
