package islet

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// LoadFunc loads item i.
type LoadFunc[T any] func(ctx context.Context, i int) (T, error)

// PreloadResult is the settled outcome of a Preloader. Items[i] holds either
// the loaded value or the placeholder; Err[i] is non-nil for failed items.
type PreloadResult[T any] struct {
	Items []T
	Err   []error
}

// Failed returns the number of items that did not load.
func (r PreloadResult[T]) Failed() int {
	n := 0
	for _, err := range r.Err {
		if err != nil {
			n++
		}
	}
	return n
}

// Preloader loads a fixed set of assets in the background and publishes the
// result once every attempt has settled, successfully or not. Consumers poll
// Ready from their tick and start animating only when it reports true.
type Preloader[T any] struct {
	// Name identifies the preloader in logs and signals.
	Name string
	// Placeholder substitutes failed items. Nil leaves the zero value.
	Placeholder func(i int) T
	// Concurrency bounds parallel loads. Zero or negative means 4.
	Concurrency int
	// Sink receives SignalLoadingFinished on the loading goroutine. Optional.
	Sink SignalSink

	load  LoadFunc[T]
	count int

	once   sync.Once
	ready  atomic.Bool
	result PreloadResult[T]
	done   chan struct{}
	err    error
}

// NewPreloader prepares count loads through load.
func NewPreloader[T any](name string, count int, load LoadFunc[T]) *Preloader[T] {
	return &Preloader[T]{Name: name, load: load, count: max(0, count), done: make(chan struct{})}
}

// Start launches the loads. Calling Start again is a no-op.
func (p *Preloader[T]) Start(ctx context.Context) {
	p.once.Do(func() {
		go p.run(ctx)
	})
}

func (p *Preloader[T]) run(ctx context.Context) {
	res := PreloadResult[T]{Items: make([]T, p.count), Err: make([]error, p.count)}
	g, gctx := errgroup.WithContext(ctx)
	limit := p.Concurrency
	if limit <= 0 {
		limit = 4
	}
	g.SetLimit(limit)
	for i := 0; i < p.count; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				res.Err[i] = err
				return err
			}
			v, err := p.load(gctx, i)
			if err != nil {
				res.Err[i] = fmt.Errorf("%s item %d: %w", p.Name, i, err)
				logWarn("preload failed", "loader", p.Name, "item", i, "err", err)
				return nil
			}
			res.Items[i] = v
			return nil
		})
	}
	p.err = g.Wait()
	for i, err := range res.Err {
		if err != nil && p.Placeholder != nil {
			res.Items[i] = p.Placeholder(i)
		}
	}
	p.result = res
	logDebug("preload settled", "loader", p.Name, "items", p.count, "failed", res.Failed())
	emit(p.Sink, Signal{Kind: SignalLoadingFinished, Source: p.Name, Failed: res.Failed()})
	p.ready.Store(true)
	close(p.done)
}

// Ready reports whether every load attempt has settled.
func (p *Preloader[T]) Ready() bool { return p.ready.Load() }

// Result returns the settled result. It is the zero value until Ready.
func (p *Preloader[T]) Result() PreloadResult[T] {
	if !p.ready.Load() {
		return PreloadResult[T]{}
	}
	return p.result
}

// Wait blocks until the loads settle or ctx is done. It returns ctx.Err() on
// cancellation, the load context's error if the loads were cancelled, and
// nil otherwise; individual item failures are reported in the result only.
func (p *Preloader[T]) Wait(ctx context.Context) (PreloadResult[T], error) {
	select {
	case <-p.done:
		return p.result, p.err
	case <-ctx.Done():
		return PreloadResult[T]{}, ctx.Err()
	}
}
