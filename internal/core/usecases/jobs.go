package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/busticket/internal/core/domain"
	"github.com/samirrijal/busticket/internal/core/poll"
	"github.com/samirrijal/busticket/internal/pkg/logging"
	"github.com/samirrijal/busticket/internal/pkg/metrics"
)

// pollJob runs poll.Until and records how many polls the job needed.
func pollJob[T any](ctx context.Context, job string, opts poll.Options, fetch poll.FetchFunc[T]) (T, error) {
	attempts := 0
	v, err := poll.Until(ctx, opts, func(ctx context.Context, attempt int) (poll.Status[T], error) {
		attempts = attempt
		return fetch(ctx, attempt)
	})

	outcome := "done"
	switch {
	case errors.Is(err, domain.ErrPollTimeout):
		outcome = "timeout"
	case errors.Is(err, domain.ErrUpstreamJobFailed):
		outcome = "failed"
	case err != nil:
		outcome = "error"
	}
	metrics.PollAttempts.WithLabelValues(job, outcome).Observe(float64(attempts))
	return v, err
}

// publishEvent runs a best-effort publish; failures are only logged.
func publishEvent(ctx context.Context, name string, publish func() error) {
	if err := publish(); err != nil {
		logging.FromContext(ctx).Warn("publish event failed", "event", name, "error", err)
	}
}

func newEventID() string {
	return uuid.NewString()
}

type clock func() time.Time

func invalid(err error) bool {
	return errors.Is(err, domain.ErrInvalidInput)
}
