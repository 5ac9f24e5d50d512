package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/and161185/glnotes/internal/errs"
	"github.com/and161185/glnotes/internal/model"
)

// DefaultBatch is how many documents are resolved at once when labelling a page.
const DefaultBatch = 5

// Labels returns one display name per annotation, in input order: the note
// title, else the headline of its document, else its id. Documents are
// resolved in consecutive batches of batch lookups; progress, when non-nil,
// is called after each batch. A document that cannot be found falls back to
// the id; any other failure aborts.
func Labels(ctx context.Context, docs DocumentResolver, anns []model.Annotation, batch int, progress func(done, total int)) ([]string, error) {
	if batch < 1 {
		batch = DefaultBatch
	}
	out := make([]string, len(anns))

	for lo := 0; lo < len(anns); lo += batch {
		hi := min(lo+batch, len(anns))
		g, gctx := errgroup.WithContext(ctx)
		for i := lo; i < hi; i++ {
			a := anns[i]
			if title, ok := a.Title(); ok {
				out[i] = title
				continue
			}
			g.Go(func() error {
				doc, err := docs.DocumentFor(gctx, a)
				switch {
				case errors.Is(err, errs.ErrNotFound):
					out[i] = a.ID
				case err != nil:
					return fmt.Errorf("label %s: %w", a.ID, err)
				case doc.Headline != "":
					out[i] = doc.Headline
				default:
					out[i] = a.ID
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		if progress != nil {
			progress(hi, len(anns))
		}
	}
	return out, nil
}
