package worker

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSubmitRuns(t *testing.T) {
	p := NewPool(2)
	defer p.Close()

	done := make(chan struct{})
	if !p.Submit(func() { close(done) }) {
		t.Fatal("Submit returned false on a fresh pool")
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("submitted task never ran")
	}
}

func TestExecuteAll(t *testing.T) {
	p := NewPool(4)
	defer p.Close()

	var count atomic.Int32
	tasks := make([]func(), 100)
	for i := range tasks {
		tasks[i] = func() { count.Add(1) }
	}
	p.ExecuteAll(tasks)

	if got := count.Load(); got != 100 {
		t.Errorf("ran %d tasks, want 100", got)
	}
}

func TestExecuteAllEmpty(t *testing.T) {
	p := NewPool(1)
	defer p.Close()
	p.ExecuteAll(nil)
}

func TestSubmitAfterClose(t *testing.T) {
	p := NewPool(1)
	p.Close()

	if p.Submit(func() {}) {
		t.Error("Submit after Close returned true")
	}
	if p.IsRunning() {
		t.Error("IsRunning after Close = true")
	}
	// Close is idempotent.
	p.Close()
}

func TestCloseDrainsQueue(t *testing.T) {
	p := NewPool(1)

	var mu sync.Mutex
	ran := 0
	block := make(chan struct{})
	p.Submit(func() { <-block })
	for i := 0; i < 3; i++ {
		p.Submit(func() {
			mu.Lock()
			ran++
			mu.Unlock()
		})
	}
	close(block)
	p.Close()

	mu.Lock()
	defer mu.Unlock()
	if ran != 3 {
		t.Errorf("queued tasks run before Close returned = %d, want 3", ran)
	}
}

func TestSubmitNil(t *testing.T) {
	p := NewPool(1)
	defer p.Close()
	if p.Submit(nil) {
		t.Error("Submit(nil) returned true")
	}
}

func TestDefaultWorkers(t *testing.T) {
	p := NewPool(0)
	defer p.Close()
	if p.Workers() < 1 {
		t.Errorf("Workers() = %d, want >= 1", p.Workers())
	}
}
