package poll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

// Options configures how long-running operations are tracked.
type Options struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Timeout         time.Duration
}

// Default tracking settings used when opts are zero/invalid.
var Default = Options{
	InitialInterval: 2 * time.Second,
	MaxInterval:     15 * time.Second,
	Timeout:         10 * time.Minute,
}

// ErrTimeout is returned when the operation is still pending after Options.Timeout.
var ErrTimeout = errors.New("operation still in progress")

var errPending = errors.New("pending")

// CheckFunc reports whether the operation reached a terminal state.
// A non-nil error stops polling immediately.
type CheckFunc func(ctx context.Context) (done bool, err error)

// Until calls check with exponential backoff until it reports done,
// returns an error, ctx is done, or the timeout elapses.
func Until(ctx context.Context, opts Options, action string, check CheckFunc) error {
	if opts.InitialInterval <= 0 || opts.Timeout <= 0 {
		opts = Default
	}
	if opts.MaxInterval < opts.InitialInterval {
		opts.MaxInterval = opts.InitialInterval
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = opts.InitialInterval
	b.MaxInterval = opts.MaxInterval
	b.MaxElapsedTime = opts.Timeout

	start := time.Now()
	attempt := 0
	op := func() error {
		attempt++
		done, err := check(ctx)
		if err != nil {
			return backoff.Permanent(err)
		}
		if !done {
			return errPending
		}
		return nil
	}
	notify := func(_ error, next time.Duration) {
		log.Debug().Str("action", action).Int("attempt", attempt).Dur("next_ms", next).Msg("operation pending")
	}

	err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify)
	if errors.Is(err, errPending) {
		return fmt.Errorf("%s: %w after %s", action, ErrTimeout, time.Since(start).Round(time.Second))
	}
	if err != nil {
		return err
	}
	log.Debug().Str("action", action).Int("attempts", attempt).Dur("elapsed_ms", time.Since(start)).Msg("operation finished")
	return nil
}
