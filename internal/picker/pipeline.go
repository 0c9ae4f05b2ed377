// Package picker streams candidates from a background producer into an
// interactive front-end and returns at most one selection.
package picker

import (
	"context"
	"errors"

	"github.com/raphi011/shelf/internal/log"
)

// ErrClosed is returned by emit once the front-end has stopped receiving.
var ErrClosed = errors.New("picker closed")

// bufferSize is the number of candidates queued ahead of the front-end.
const bufferSize = 256

// Source produces candidates by calling emit for each one, in display order.
// It must stop and return when emit fails.
type Source func(ctx context.Context, emit func(Candidate) error) error

// Frontend lets the user choose among candidates as they arrive.
//
// items is closed when the producer is finished; done then yields the
// producer's result (nil on success). A nil Candidate with a nil error means
// no selection was made.
type Frontend interface {
	Select(ctx context.Context, items <-chan Candidate, done <-chan error) (Candidate, error)
}

// Run starts src on its own goroutine and blocks in fe until the user
// confirms or aborts. The producer is cancelled when fe returns. Sends that
// fail because fe is gone are logged and end the producer without error.
func Run(ctx context.Context, fe Frontend, src Source) (Candidate, error) {
	l := log.FromContext(ctx).Named("picker")

	pctx, cancel := context.WithCancel(ctx)
	defer cancel()

	items := make(chan Candidate, bufferSize)
	done := make(chan error, 1)
	finished := make(chan struct{})

	var perr error
	go func() {
		defer close(finished)

		perr = src(pctx, func(c Candidate) error {
			select {
			case items <- c:
				return nil
			case <-pctx.Done():
				l.Errorf("channel send failure for %s", c.Text())
				return ErrClosed
			}
		})
		close(items)
		done <- perr
		close(done)
	}()

	sel, err := fe.Select(ctx, items, done)
	cancel()
	<-finished

	switch {
	case perr == nil, errors.Is(perr, ErrClosed):
	case errors.Is(perr, context.Canceled) && pctx.Err() != nil:
		l.Debugf("producer stopped: %v", perr)
	default:
		return nil, perr
	}
	if err != nil {
		return nil, err
	}
	return sel, nil
}
