package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/and161185/glnotes/internal/ansi"
	"github.com/and161185/glnotes/internal/errs"
	"github.com/and161185/glnotes/internal/highlight"
	"github.com/and161185/glnotes/internal/markup"
	"github.com/and161185/glnotes/internal/model"
	"github.com/and161185/glnotes/internal/service"
)

const listSeparator = ", "

// Presenter renders one annotation with its highlighted passages.
type Presenter struct {
	base  *url.URL
	docs  service.DocumentResolver
	width int
}

// NewPresenter builds deep links against base and wraps notes at width columns.
func NewPresenter(base *url.URL, docs service.DocumentResolver, width int) *Presenter {
	if width <= 0 {
		width = 80
	}
	return &Presenter{base: base, docs: docs, width: width}
}

// Present writes the rendering of a to w.
func (p *Presenter) Present(ctx context.Context, w io.Writer, a model.Annotation) error {
	s, err := p.Render(ctx, a)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s)
	return err
}

// Render returns the full text block for a. An unknown highlight color or
// style is an error, never a silent default.
func (p *Presenter) Render(ctx context.Context, a model.Annotation) (string, error) {
	var b strings.Builder
	line := func(format string, args ...any) { fmt.Fprintf(&b, format+"\n", args...) }

	line("")
	line("%s", ansi.Header("Annotation"))

	title, ok := a.Title()
	if !ok {
		title = ansi.Dim + "(No title)" + ansi.Reset
	}
	line("%sTitle:%s %s", ansi.Bright, ansi.Reset, title)

	note := ansi.Dim + "(No note)" + ansi.Reset
	if a.Note != nil && a.Note.Content != nil && *a.Note.Content != "" {
		text, err := markup.PlainText(*a.Note.Content)
		if err != nil {
			return "", fmt.Errorf("note: %w", err)
		}
		note = wordwrap.String(text, p.width)
	}
	line("%sNote:%s  %s", ansi.Bright, ansi.Reset, note)

	doc, err := p.docs.DocumentFor(ctx, a)
	switch {
	case errors.Is(err, errs.ErrNotFound):
	case err != nil:
		return "", err
	default:
		if err := p.renderHighlights(&b, doc, a.Highlights); err != nil {
			return "", err
		}
	}

	line("")
	line("%sTags:%s       %s", ansi.Bright, ansi.Reset, names(a.Tags, "(No tags)", func(t model.Tag) string { return t.Name }))
	line("%sNotebooks:%s  %s", ansi.Bright, ansi.Reset, names(a.Folders, "(No notebooks)", func(f model.Folder) string { return f.Name }))
	line("")
	return b.String(), nil
}

func (p *Presenter) renderHighlights(b *strings.Builder, doc model.Document, hs []model.Highlight) error {
	link := p.deepLink(doc.ReferenceURI)
	for _, h := range hs {
		fmt.Fprintf(b, "\n%s%s%s | %s\n", ansi.FgCyan, doc.ReferenceURIDisplayText, ansi.Reset, doc.Publication)
		if link != "" {
			fmt.Fprintf(b, "%sView:%s %s\n", ansi.Bright, ansi.Reset, link)
		}

		frags, err := paragraphsFor(doc.Content, h.PID)
		if err != nil {
			return err
		}
		for _, f := range frags {
			text, err := highlight.Colorize(f.Paragraph, h)
			if err != nil {
				return err
			}
			verse := ""
			if f.VerseNumber != nil {
				verse = ansi.Bright + *f.VerseNumber + ansi.Reset + " "
			}
			fmt.Fprintf(b, "%sContent:%s %s%s%s\n", ansi.Bright, ansi.Reset, verse, text, ansi.Reset)
		}
		fmt.Fprintf(b, "%sHighlight:%s %s\n", ansi.Bright, ansi.Reset, highlight.Describe(h))
	}
	return nil
}

// paragraphsFor returns the paragraphs identified by pid, matched against the
// content id or the paragraph's data-aid. With no match every paragraph is returned.
func paragraphsFor(content []model.Content, pid string) ([]markup.Fragment, error) {
	all := make([]markup.Fragment, 0, len(content))
	var matched []markup.Fragment
	for _, c := range content {
		f, err := markup.Extract(c.Markup)
		if err != nil {
			return nil, fmt.Errorf("paragraph %s: %w", c.ID, err)
		}
		all = append(all, f)
		if pid != "" && (c.ID == pid || f.AID == pid) {
			matched = append(matched, f)
		}
	}
	if len(matched) > 0 {
		return matched, nil
	}
	return all, nil
}

func (p *Presenter) deepLink(referenceURI string) string {
	if p.base == nil || referenceURI == "" {
		return ""
	}
	ref, err := url.Parse(referenceURI)
	if err != nil {
		return ""
	}
	return p.base.ResolveReference(&url.URL{
		Path:     path.Join("/study", ref.Path),
		RawQuery: ref.RawQuery,
		Fragment: ref.Fragment,
	}).String()
}

func names[T any](items []T, empty string, name func(T) string) string {
	if len(items) == 0 {
		return ansi.Dim + empty + ansi.Reset
	}
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = ansi.FgMagenta + name(it) + ansi.Reset
	}
	return strings.Join(out, listSeparator)
}
