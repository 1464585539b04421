package telemetry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type recordingEmitter struct {
	mu     sync.Mutex
	events []*Event
	ctxErr []error
	err    error
	done   chan struct{}
}

func newRecordingEmitter(buf int) *recordingEmitter {
	return &recordingEmitter{done: make(chan struct{}, buf)}
}

func (r *recordingEmitter) Emit(ctx context.Context, ev *Event) error {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.ctxErr = append(r.ctxErr, ctx.Err())
	r.mu.Unlock()
	r.done <- struct{}{}
	return r.err
}

func (r *recordingEmitter) wait(t *testing.T, n int) []*Event {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-r.done:
		case <-time.After(2 * time.Second):
			t.Fatalf("emit %d of %d never happened", i+1, n)
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Event(nil), r.events...)
}

func TestEmitAsync_NilArguments(t *testing.T) {
	EmitAsync(nil, context.Background(), &Event{EventType: EventCodeIssued})

	r := newRecordingEmitter(1)
	EmitAsync(r, context.Background(), nil)
	select {
	case <-r.done:
		t.Error("nil event was emitted")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestEmitAsync_DetachedFromRequestContext(t *testing.T) {
	r := newRecordingEmitter(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	EmitAsync(r, ctx, &Event{EventType: EventCodeVerified, Phone: "+226******56", Country: "BF"})
	events := r.wait(t, 1)
	if events[0].EventType != EventCodeVerified || events[0].Country != "BF" {
		t.Errorf("event = %+v", events[0])
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ctxErr[0] != nil {
		t.Errorf("emit ctx err = %v, want live context", r.ctxErr[0])
	}
}

func TestEmitAsync_ErrorsAndConcurrency(t *testing.T) {
	r := newRecordingEmitter(16)
	r.err = errors.New("collector unavailable")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			EmitAsync(r, context.Background(), &Event{EventType: EventVerificationFail})
		}()
	}
	wg.Wait()
	if n := len(r.wait(t, 16)); n != 16 {
		t.Errorf("events = %d, want 16", n)
	}
}
