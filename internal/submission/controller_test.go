package submission

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func okOp(msg string) Operation {
	return func(ctx context.Context) Result {
		return Result{Success: true, Message: msg}
	}
}

func TestSubmit_InvalidIsNoOp(t *testing.T) {
	c := NewController("test")
	var called int32

	ch, ok := c.Submit(context.Background(), false, func(ctx context.Context) Result {
		atomic.AddInt32(&called, 1)
		return Result{Success: true}
	})

	if ok || ch != nil {
		t.Fatal("Submit() with invalid form should be rejected")
	}
	if atomic.LoadInt32(&called) != 0 || c.Calls() != 0 {
		t.Error("operation must not be called for an invalid form")
	}
	if c.State() != (State{}) {
		t.Errorf("state changed: %+v", c.State())
	}
}

func TestSubmit_NilOperation(t *testing.T) {
	c := NewController("test")
	if _, ok := c.Submit(context.Background(), true, nil); ok {
		t.Error("Submit() with nil operation should be rejected")
	}
}

func TestSubmit_WhilePendingIsNoOp(t *testing.T) {
	c := NewController("test")
	release := make(chan struct{})

	ch, ok := c.Submit(context.Background(), true, func(ctx context.Context) Result {
		<-release
		return Result{Success: false, Message: "wrong password"}
	})
	if !ok {
		t.Fatal("first Submit() should start")
	}

	before := c.State()
	if !before.Pending {
		t.Fatal("state should be pending after submit")
	}

	var second int32
	ch2, ok2 := c.Submit(context.Background(), true, func(ctx context.Context) Result {
		atomic.AddInt32(&second, 1)
		return Result{Success: true}
	})
	if ok2 || ch2 != nil {
		t.Error("Submit() while pending should be rejected")
	}
	if c.State() != before {
		t.Errorf("state changed while pending: %+v -> %+v", before, c.State())
	}
	if c.Calls() != 1 {
		t.Errorf("Calls() = %d, want 1", c.Calls())
	}

	close(release)
	out := c.OnResult(<-ch)
	if out.State.Pending {
		t.Error("pending should be cleared after result")
	}
	if atomic.LoadInt32(&second) != 0 {
		t.Error("second operation must never run")
	}
}

func TestSubmit_ChannelYieldsOnceThenCloses(t *testing.T) {
	c := NewController("test")
	ch, ok := c.Submit(context.Background(), true, okOp("done"))
	if !ok {
		t.Fatal("Submit() should start")
	}

	select {
	case r, open := <-ch:
		if !open || !r.Success || r.Message != "done" {
			t.Fatalf("unexpected first receive: %+v open=%v", r, open)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for result")
	}

	select {
	case _, open := <-ch:
		if open {
			t.Error("channel should be closed after one result")
		}
	case <-time.After(time.Second):
		t.Fatal("channel was not closed")
	}
}

func TestSubmit_ClearsTerminalMessages(t *testing.T) {
	c := NewController("test")
	c.OnResult(Result{Success: false, Message: "boom"})

	if c.State().LastError != "boom" {
		t.Fatalf("LastError = %q, want boom", c.State().LastError)
	}

	release := make(chan struct{})
	ch, ok := c.Submit(context.Background(), true, func(ctx context.Context) Result {
		<-release
		return Result{Success: true, Message: "ok"}
	})
	if !ok {
		t.Fatal("Submit() should start")
	}

	s := c.State()
	if s.LastError != "" || s.LastSuccess != "" || s.Failed {
		t.Errorf("terminal messages not cleared on submit: %+v", s)
	}

	close(release)
	<-ch
}

func TestOnResult_Success(t *testing.T) {
	c := NewController("test")
	ch, _ := c.Submit(context.Background(), true, okOp("Password changed"))
	out := c.OnResult(<-ch)

	if out.State.Pending {
		t.Error("Pending should be false")
	}
	if out.State.LastSuccess != "Password changed" || out.State.LastError != "" {
		t.Errorf("unexpected messages: %+v", out.State)
	}
	if !out.ClearSecrets {
		t.Error("success should clear secrets")
	}
	if !out.Navigate {
		t.Error("first success should navigate")
	}
	if !out.State.Succeeded() {
		t.Error("Succeeded() should be true")
	}
}

func TestOnResult_Failure(t *testing.T) {
	c := NewController("test")
	ch, _ := c.Submit(context.Background(), true, func(ctx context.Context) Result {
		return Result{Success: false, Message: "Current password is incorrect"}
	})
	out := c.OnResult(<-ch)

	if out.ClearSecrets || out.Navigate {
		t.Errorf("failure must not clear or navigate: %+v", out)
	}
	if out.State.LastError != "Current password is incorrect" {
		t.Errorf("LastError = %q", out.State.LastError)
	}
	if !out.State.Failed || out.State.Succeeded() {
		t.Error("state should report failure")
	}
	if c.Navigated() {
		t.Error("failure must not latch navigation")
	}
}

func TestOnResult_NavigatesOnce(t *testing.T) {
	c := NewController("test")

	first := c.OnResult(Result{Success: true, Message: "ok"})
	second := c.OnResult(Result{Success: true, Message: "ok"})

	if !first.Navigate {
		t.Error("first success should navigate")
	}
	if second.Navigate {
		t.Error("second success must not navigate again")
	}
	if second.State.Seq != first.State.Seq+1 {
		t.Errorf("Seq should advance per resolution: %d then %d", first.State.Seq, second.State.Seq)
	}
}

func TestOnResult_FailureThenSuccessNavigates(t *testing.T) {
	c := NewController("test")

	if out := c.OnResult(Result{Success: false, Message: "no"}); out.Navigate {
		t.Error("failure should not navigate")
	}
	if out := c.OnResult(Result{Success: true, Message: "yes"}); !out.Navigate {
		t.Error("first success after a failure should navigate")
	}
}

func TestSubmit_ConcurrentCallersIssueOneCall(t *testing.T) {
	c := NewController("test")
	release := make(chan struct{})
	var calls int32

	op := func(ctx context.Context) Result {
		atomic.AddInt32(&calls, 1)
		<-release
		return Result{Success: true}
	}

	var wg sync.WaitGroup
	var started int32
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := c.Submit(context.Background(), true, op); ok {
				atomic.AddInt32(&started, 1)
			}
		}()
	}
	wg.Wait()
	close(release)

	if started != 1 {
		t.Errorf("%d submissions started, want 1", started)
	}
	if c.Calls() != 1 {
		t.Errorf("Calls() = %d, want 1", c.Calls())
	}
}

func TestSubmit_PassesContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")
	c := NewController("test")

	ch, _ := c.Submit(ctx, true, func(ctx context.Context) Result {
		return Result{Success: ctx.Value(key{}) == "v"}
	})

	if r := <-ch; !r.Success {
		t.Error("operation did not receive the submit context")
	}
}
