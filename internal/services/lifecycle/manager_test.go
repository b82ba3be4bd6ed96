package lifecycle

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestShutdownRunsHooksInReverseOnce(t *testing.T) {
	t.Parallel()

	var order []string
	m := New(time.Second, nil)
	m.Register("first", func(context.Context) error {
		order = append(order, "first")
		return nil
	})
	m.Register("failing", func(context.Context) error {
		order = append(order, "failing")
		return errors.New("boom")
	})
	m.RegisterCloser("closer", closerFunc(func() error {
		order = append(order, "closer")
		return nil
	}))
	m.Register("nil", nil)

	err := m.Shutdown(context.Background())
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected joined hook error, got %v", err)
	}
	if got := strings.Join(order, ","); got != "closer,failing,first" {
		t.Fatalf("unexpected order %s", got)
	}

	if err := m.Shutdown(context.Background()); err != nil {
		t.Fatalf("second shutdown must be a no-op, got %v", err)
	}
	if len(order) != 3 {
		t.Fatalf("hooks ran twice: %v", order)
	}
}

func TestShutdownAppliesTimeout(t *testing.T) {
	t.Parallel()

	m := New(10*time.Millisecond, nil)
	m.Register("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	if err := m.Shutdown(context.Background()); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestListenStopsWithParent(t *testing.T) {
	t.Parallel()

	parent, cancelParent := context.WithCancel(context.Background())
	ctx, cancel := New(time.Second, nil).Listen(parent)
	defer cancel()

	cancelParent()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatalf("listen context did not follow its parent")
	}
}
