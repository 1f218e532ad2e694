package importer

import (
	"context"
	"sync"
)

// Loader runs imports off the event loop. Results are delivered in completion
// order, so the most recently finished import wins.
type Loader struct {
	wg sync.WaitGroup
}

// Load runs fn in a goroutine and passes its outcome to done.
func (l *Loader) Load(ctx context.Context, fn func(context.Context) (Result, error), done func(Result, error)) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		res, err := fn(ctx)
		if err == nil {
			err = ctx.Err()
		}
		done(res, err)
	}()
}

// Wait blocks until every started load has reported.
func (l *Loader) Wait() {
	l.wg.Wait()
}
