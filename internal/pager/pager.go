// Package pager assembles a complete annotation collection from a paged source.
package pager

import (
	"context"
	"errors"
	"fmt"

	"github.com/and161185/glnotes/internal/model"
)

var (
	// ErrEmptyPage is returned when the source stops yielding before the declared total.
	ErrEmptyPage = errors.New("pager: empty page before total reached")
	// ErrOverflow is returned when a page holds more annotations than the declared total allows.
	ErrOverflow = errors.New("pager: page exceeds declared total")
)

// Fetcher returns one page of size annotations starting at the zero-based start.
type Fetcher interface {
	FetchPage(ctx context.Context, start, size int) (model.Page, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, start, size int) (model.Page, error)

// FetchPage calls f.
func (f FetcherFunc) FetchPage(ctx context.Context, start, size int) (model.Page, error) {
	return f(ctx, start, size)
}

type options struct {
	progress func(loaded, total int)
}

// Option configures Collect.
type Option func(*options)

// WithProgress registers fn, called after every page with the running count.
func WithProgress(fn func(loaded, total int)) Option {
	return func(o *options) { o.progress = fn }
}

// Collect fetches pages of pageSize until the total reported by the first page
// is reached and returns the annotations in server order. Any error discards
// what was loaded so far.
func Collect(ctx context.Context, f Fetcher, pageSize int, opts ...Option) ([]model.Annotation, error) {
	if pageSize < 1 {
		return nil, fmt.Errorf("pager: page size %d", pageSize)
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	first, err := f.FetchPage(ctx, 0, pageSize)
	if err != nil {
		return nil, fmt.Errorf("page at 0: %w", err)
	}

	total := first.Total
	out := make([]model.Annotation, total)
	running := 0
	page := first
	for {
		n := len(page.Annotations)
		if running+n > total {
			return nil, fmt.Errorf("%w: %d + %d > %d", ErrOverflow, running, n, total)
		}
		copy(out[running:], page.Annotations)
		running += n
		if o.progress != nil {
			o.progress(running, total)
		}
		if running >= total {
			return out, nil
		}
		if n == 0 {
			return nil, fmt.Errorf("%w: %d of %d", ErrEmptyPage, running, total)
		}

		if page, err = f.FetchPage(ctx, running, pageSize); err != nil {
			return nil, fmt.Errorf("page at %d: %w", running, err)
		}
	}
}
