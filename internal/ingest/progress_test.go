package ingest

import (
	"testing"
	"time"
)

func TestNewProgressDisabled(t *testing.T) {
	if p := NewProgress(false); p != nil {
		t.Errorf("NewProgress(false) = %v, want nil", p)
	}
}

func TestProgressLifecycle(t *testing.T) {
	p := NewProgress(true)
	if p == nil {
		t.Fatal("NewProgress(true) returned nil")
	}

	// Increment and Finish before Start must be no-ops.
	p.Increment()
	p.Finish()

	p.Start(3)
	p.Increment()
	p.Increment()
	p.Increment()
	p.Finish()

	// A zero total never creates a bar.
	q := NewProgress(true)
	q.Start(0)
	q.Increment()
	q.Finish()
}

func TestStartSpinnerDisabled(t *testing.T) {
	stop := StartSpinner(false, "waiting")
	if stop == nil {
		t.Fatal("StartSpinner(false) returned nil stop func")
	}
	stop()
}

func TestStartSpinnerStops(t *testing.T) {
	stop := StartSpinner(true, "waiting")
	if stop == nil {
		t.Fatal("StartSpinner(true) returned nil stop func")
	}
	// Let the ticker fire at least once before stopping.
	time.Sleep(150 * time.Millisecond)
	stop()
}
