package poll_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samirrijal/busticket/internal/core/domain"
	"github.com/samirrijal/busticket/internal/core/poll"
)

var fast = poll.Options{Interval: time.Millisecond, MaxAttempts: 15}

func TestUntil_DoneOnAttemptN(t *testing.T) {
	for _, n := range []int{1, 4, 15} {
		calls := 0
		got, err := poll.Until(context.Background(), fast, func(ctx context.Context, attempt int) (poll.Status[string], error) {
			calls++
			if attempt != calls {
				t.Errorf("attempt %d reported on call %d", attempt, calls)
			}
			if attempt == n {
				return poll.Status[string]{State: poll.Done, Payload: "trips"}, nil
			}
			return poll.Status[string]{State: poll.Pending}, nil
		})
		if err != nil {
			t.Fatalf("n=%d: unexpected error: %v", n, err)
		}
		if got != "trips" {
			t.Errorf("n=%d: expected payload trips, got %q", n, got)
		}
		if calls != n {
			t.Errorf("n=%d: expected %d calls, got %d", n, n, calls)
		}
	}
}

func TestUntil_TimeoutAfterMaxAttempts(t *testing.T) {
	calls := 0
	_, err := poll.Until(context.Background(), fast, func(ctx context.Context, attempt int) (poll.Status[int], error) {
		calls++
		return poll.Status[int]{State: poll.Pending}, nil
	})
	if !errors.Is(err, domain.ErrPollTimeout) {
		t.Fatalf("expected ErrPollTimeout, got %v", err)
	}
	if calls != 15 {
		t.Errorf("expected 15 calls, got %d", calls)
	}
}

func TestUntil_FailedStopsImmediately(t *testing.T) {
	calls := 0
	_, err := poll.Until(context.Background(), fast, func(ctx context.Context, attempt int) (poll.Status[int], error) {
		calls++
		return poll.Status[int]{State: poll.Failed, Message: "ruta no disponible"}, nil
	})
	if !errors.Is(err, domain.ErrUpstreamJobFailed) {
		t.Fatalf("expected ErrUpstreamJobFailed, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if got := err.Error(); got != "upstream job failed: ruta no disponible" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestUntil_FetchErrorAborts(t *testing.T) {
	boom := errors.New("502 bad gateway")
	calls := 0
	_, err := poll.Until(context.Background(), fast, func(ctx context.Context, attempt int) (poll.Status[int], error) {
		calls++
		return poll.Status[int]{}, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestUntil_ContextCancelledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	opts := poll.Options{Interval: time.Hour, MaxAttempts: 3}

	calls := 0
	_, err := poll.Until(ctx, opts, func(ctx context.Context, attempt int) (poll.Status[int], error) {
		calls++
		cancel()
		return poll.Status[int]{State: poll.Pending}, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestUntil_InitialDelay(t *testing.T) {
	opts := poll.Options{Interval: time.Millisecond, MaxAttempts: 2, InitialDelay: 20 * time.Millisecond}
	start := time.Now()
	var firstCall time.Duration
	_, err := poll.Until(context.Background(), opts, func(ctx context.Context, attempt int) (poll.Status[int], error) {
		firstCall = time.Since(start)
		return poll.Status[int]{State: poll.Done, Payload: 1}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if firstCall < 20*time.Millisecond {
		t.Errorf("first fetch after %s, expected at least 20ms", firstCall)
	}
}

func TestUntil_ZeroOptionsUseDefaults(t *testing.T) {
	calls := 0
	_, err := poll.Until(context.Background(), poll.Options{}, func(ctx context.Context, attempt int) (poll.Status[int], error) {
		calls++
		return poll.Status[int]{State: poll.Failed}, nil
	})
	if !errors.Is(err, domain.ErrUpstreamJobFailed) {
		t.Fatalf("expected ErrUpstreamJobFailed, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}
