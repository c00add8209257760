//go:build !integration

// File: internal/infra/worker/pool_test.go
package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestPoolRunsTasks(t *testing.T) {
	l := zerolog.Nop()
	p := NewPool(2, &l)
	p.Start(context.Background())
	defer p.Stop()

	var ran atomic.Int32
	done := make(chan struct{})
	for i := 0; i < 5; i++ {
		err := p.Submit(func(ctx context.Context) error {
			if ran.Add(1) == 5 {
				close(done)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("only %d of 5 tasks ran", ran.Load())
	}
}

func TestPoolSaturationDrops(t *testing.T) {
	l := zerolog.Nop()
	p := NewPool(1, &l)
	// Not started: the queue fills and Submit must refuse instead of blocking.
	var err error
	for i := 0; i < 100; i++ {
		if err = p.Submit(func(ctx context.Context) error { return nil }); err != nil {
			break
		}
	}
	if err != ErrQueueFull {
		t.Fatalf("want ErrQueueFull, got %v", err)
	}
}

func TestPoolNilTask(t *testing.T) {
	l := zerolog.Nop()
	p := NewPool(1, &l)
	if err := p.Submit(nil); err == nil {
		t.Fatal("nil task should be rejected")
	}
}