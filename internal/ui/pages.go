package ui

import (
	"context"
	"fmt"

	"github.com/and161185/glnotes/internal/ansi"
	"github.com/and161185/glnotes/internal/errs"
	"github.com/and161185/glnotes/internal/model"
	"github.com/and161185/glnotes/internal/service"
)

// pageBrowser pages through one scope, caching every page it has shown.
type pageBrowser struct {
	n       *Navigator
	src     service.Source
	scope   model.Scope
	current int
	pages   map[int]model.Page
	labels  map[int][]string
}

func newPageBrowser(n *Navigator, src service.Source, scope model.Scope) *pageBrowser {
	return &pageBrowser{n: n, src: src, scope: scope, pages: map[int]model.Page{}, labels: map[int][]string{}}
}

func (b *pageBrowser) describe() (loading, suffix string, err error) {
	switch b.scope.Kind {
	case model.ScopeAll:
		return "Loading annotations...", "annotations", nil
	case model.ScopeTag:
		return fmt.Sprintf("Loading annotations with Tag '%s'...", b.scope.Tag.Name),
			fmt.Sprintf("annotations with Tag '%s'", b.scope.Tag.Name), nil
	case model.ScopeFolder:
		return fmt.Sprintf("Loading annotations in Notebook '%s'...", b.scope.Folder.Name),
			fmt.Sprintf("annotations in Notebook '%s'", b.scope.Folder.Name), nil
	default:
		return "", "", errs.Unreachable(b.scope.Kind.String())
	}
}

func (b *pageBrowser) load(ctx context.Context) (model.Page, []string, error) {
	if p, ok := b.pages[b.current]; ok {
		return p, b.labels[b.current], nil
	}
	loading, suffix, err := b.describe()
	if err != nil {
		return model.Page{}, nil, err
	}
	loader := b.n.d.Loader

	loader.Start(loading)
	p, err := b.src.Page(ctx, b.scope, b.current*b.n.d.PageSize, b.n.d.PageSize)
	if err != nil {
		loader.Fail("Loading annotations failed")
		return model.Page{}, nil, err
	}
	loader.Succeed(fmt.Sprintf("%d of %d %s", p.Count, p.Total, suffix))

	loader.Start(fmt.Sprintf("Loading %d annotations...", len(p.Annotations)))
	labels, err := service.Labels(ctx, b.src, p.Annotations, b.n.d.Batch, func(done, total int) {
		loader.Start(fmt.Sprintf("Prepared %d of %d annotations...", done, total))
	})
	if err != nil {
		loader.Fail("Preparing annotations failed")
		return model.Page{}, nil, err
	}
	loader.Succeed(fmt.Sprintf("Prepared %d annotations", len(p.Annotations)))

	for i := range labels {
		labels[i] = ansi.Truncate(labels[i], labelWidth)
	}
	b.pages[b.current] = p
	b.labels[b.current] = labels
	return p, labels, nil
}

// pick shows the current page until the user picks an annotation (ok) or
// returns (!ok). Previous and next entries move between pages.
func (b *pageBrowser) pick(ctx context.Context) (model.Annotation, bool, error) {
	for {
		p, labels, err := b.load(ctx)
		if err != nil {
			return model.Annotation{}, false, err
		}

		const (
			pickReturn = -1
			pickPrev   = -2
			pickNext   = -3
		)
		options := []string{returnLabel}
		targets := []int{pickReturn}
		if b.current > 0 {
			options = append(options, fmt.Sprintf("%s(To page %d...)%s", ansi.Dim, b.current, ansi.Reset))
			targets = append(targets, pickPrev)
		}
		for i, l := range labels {
			options = append(options, l)
			targets = append(targets, i)
		}
		if (b.current+1)*b.n.d.PageSize < p.Total {
			options = append(options, fmt.Sprintf("%s(To page %d...)%s", ansi.Dim, b.current+2, ansi.Reset))
			targets = append(targets, pickNext)
		}

		i, err := b.n.d.Prompt.Select(ctx, "Select an annotation:", options)
		if err != nil {
			return model.Annotation{}, false, err
		}
		switch t := targets[i]; t {
		case pickReturn:
			return model.Annotation{}, false, nil
		case pickPrev:
			b.current--
		case pickNext:
			b.current++
		default:
			return p.Annotations[t], true, nil
		}
	}
}
