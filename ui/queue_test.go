package ui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDrainRunsInOrder(t *testing.T) {
	q := NewQueue()
	var got []int
	for i := 0; i < 3; i++ {
		i := i
		q.Post(func() { got = append(got, i) })
	}
	if n := q.Len(); n != 3 {
		t.Fatalf("Len() = %d, want 3", n)
	}
	if n := q.Drain(); n != 3 {
		t.Errorf("Drain() = %d, want 3", n)
	}
	if diff := cmp.Diff([]int{0, 1, 2}, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestDrainRunsNestedPosts(t *testing.T) {
	q := NewQueue()
	var got []string
	q.Post(func() {
		got = append(got, "outer")
		q.Post(func() { got = append(got, "inner") })
	})
	if n := q.Drain(); n != 2 {
		t.Errorf("Drain() = %d, want 2", n)
	}
	if diff := cmp.Diff([]string{"outer", "inner"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestClose(t *testing.T) {
	q := NewQueue()
	q.Close()
	if q.Post(func() {}) {
		t.Error("Post succeeded on a closed queue")
	}
	if n := q.Drain(); n != 0 {
		t.Errorf("Drain() = %d after Close, want 0", n)
	}
}

func TestRunSerialisesPosts(t *testing.T) {
	q := NewQueue()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- q.Run(ctx) }()

	const posters, each = 8, 50
	var wg sync.WaitGroup
	done := make(chan struct{})
	count := 0
	for p := 0; p < posters; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < each; i++ {
				q.Post(func() {
					// Unsynchronised: safe only because Run is the sole runner.
					count++
					if count == posters*each {
						close(done)
					}
				})
			}
		}()
	}
	wg.Wait()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("tasks did not all run")
	}
	cancel()
	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
}
