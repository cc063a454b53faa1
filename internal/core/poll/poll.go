// Package poll drives asynchronous upstream jobs to a terminal state with a
// fixed interval and a hard attempt cap.
package poll

import (
	"context"
	"fmt"
	"time"

	"github.com/samirrijal/busticket/internal/core/domain"
)

// State of a polled job.
type State int

const (
	Pending State = iota
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return "pending"
	}
}

// Status is what a single fetch reports about the job.
type Status[T any] struct {
	State   State
	Payload T
	Message string // upstream error message when State is Failed
}

// Options configures a polling loop. Zero values fall back to the defaults.
type Options struct {
	Interval     time.Duration
	MaxAttempts  int
	InitialDelay time.Duration // wait before the first fetch
}

const (
	DefaultInterval    = 1000 * time.Millisecond
	DefaultMaxAttempts = 15
)

// DefaultOptions returns 15 attempts, one second apart.
func DefaultOptions() Options {
	return Options{Interval: DefaultInterval, MaxAttempts: DefaultMaxAttempts}
}

func (o Options) withDefaults() Options {
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	return o
}

// FetchFunc queries the job once. attempt is 1-based.
// A returned error aborts the loop immediately.
type FetchFunc[T any] func(ctx context.Context, attempt int) (Status[T], error)

// Until calls fetch until the job is Done, Failed, or MaxAttempts fetches
// have been made, waiting Interval between fetches. Cancelling ctx ends the
// wait early with ctx.Err().
func Until[T any](ctx context.Context, opts Options, fetch FetchFunc[T]) (T, error) {
	var zero T
	opts = opts.withDefaults()

	if opts.InitialDelay > 0 {
		if err := sleep(ctx, opts.InitialDelay); err != nil {
			return zero, err
		}
	}

	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		st, err := fetch(ctx, attempt)
		if err != nil {
			return zero, err
		}

		switch st.State {
		case Done:
			return st.Payload, nil
		case Failed:
			msg := st.Message
			if msg == "" {
				msg = "job reported error state"
			}
			return zero, fmt.Errorf("%w: %s", domain.ErrUpstreamJobFailed, msg)
		}

		if attempt < opts.MaxAttempts {
			if err := sleep(ctx, opts.Interval); err != nil {
				return zero, err
			}
		}
	}

	return zero, fmt.Errorf("%w after %d attempts", domain.ErrPollTimeout, opts.MaxAttempts)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
