package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func quietSpinner(ctx context.Context, msg string) (*Spinner, *syncBuffer) {
	var buf syncBuffer
	s := newSpinnerWithContext(ctx, msg)
	s.w = &buf
	return s, &buf
}

func TestSpinnerBasic(t *testing.T) {
	s, buf := quietSpinner(context.Background(), "Laying out...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	if d := s.Stop(); d < 100*time.Millisecond {
		t.Errorf("Stop() = %v, want at least 100ms", d)
	}
	if !strings.Contains(buf.String(), "Laying out...") {
		t.Errorf("spinner output %q lacks message", buf.String())
	}
	if s.Cancelled() {
		t.Error("a stopped spinner is not cancelled")
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s, _ := quietSpinner(ctx, "Testing with context...")
	s.Start()

	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerWithTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s, _ := quietSpinner(ctx, "Testing with timeout...")
	s.Start()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s, _ := quietSpinner(context.Background(), "Testing idempotent stop...")
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerSetMessage(t *testing.T) {
	s, buf := quietSpinner(context.Background(), "Loading dataset...")
	s.Start()
	s.SetMessage("Laying out")
	time.Sleep(100 * time.Millisecond)
	s.Stop()
	if !strings.Contains(buf.String(), "Laying out") {
		t.Errorf("spinner output %q lacks the new message", buf.String())
	}
}

func TestSpinnerStopWithStatus(t *testing.T) {
	var out bytes.Buffer
	stdout = &out
	defer restoreStdout()

	s, _ := quietSpinner(context.Background(), "Testing success...")
	s.Start()
	s.StopWithSuccess("Done!")

	s, _ = quietSpinner(context.Background(), "Testing error...")
	s.Start()
	s.StopWithError("Failed!")

	if got := out.String(); !strings.Contains(got, "Done!") || !strings.Contains(got, "Failed!") {
		t.Errorf("status output = %q", got)
	}
}
