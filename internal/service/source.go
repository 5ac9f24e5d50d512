package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/and161185/glnotes/internal/api"
	"github.com/and161185/glnotes/internal/archive"
	"github.com/and161185/glnotes/internal/errs"
	"github.com/and161185/glnotes/internal/model"
)

// DocumentResolver finds the document an annotation points at.
type DocumentResolver interface {
	DocumentFor(ctx context.Context, a model.Annotation) (model.Document, error)
}

// Source serves notebooks, tags, annotation pages and documents, either from
// the network or from a local archive.
type Source interface {
	DocumentResolver
	Folders(ctx context.Context) ([]model.Folder, error)
	Tags(ctx context.Context) ([]model.Tag, error)
	Page(ctx context.Context, scope model.Scope, start, size int) (model.Page, error)
	// Offline reports whether annotation data comes from an archive.
	Offline() bool
}

// Remote is the subset of the API client used by services.
type Remote interface {
	DocumentResolver
	Folders(ctx context.Context) ([]model.Folder, error)
	Tags(ctx context.Context) ([]model.Tag, error)
	Annotations(ctx context.Context, q api.Query) (model.Page, error)
}

// Online reads everything from the Notes API.
type Online struct {
	remote Remote
}

// NewOnline returns a Source backed by remote.
func NewOnline(remote Remote) *Online {
	return &Online{remote: remote}
}

func (o *Online) Offline() bool { return false }

func (o *Online) Folders(ctx context.Context) ([]model.Folder, error) { return o.remote.Folders(ctx) }

func (o *Online) Tags(ctx context.Context) ([]model.Tag, error) { return o.remote.Tags(ctx) }

func (o *Online) DocumentFor(ctx context.Context, a model.Annotation) (model.Document, error) {
	return o.remote.DocumentFor(ctx, a)
}

// Page translates scope into an API query.
func (o *Online) Page(ctx context.Context, scope model.Scope, start, size int) (model.Page, error) {
	q, err := api.QueryFor(scope, start, size)
	if err != nil {
		return model.Page{}, err
	}
	return o.remote.Annotations(ctx, q)
}

// Offline reads annotations from an archive. Documents are not archived, so
// they are still resolved through docs.
type Offline struct {
	snap *archive.Snapshot
	docs DocumentResolver
}

// NewOffline returns a Source backed by snap.
func NewOffline(snap *archive.Snapshot, docs DocumentResolver) *Offline {
	return &Offline{snap: snap, docs: docs}
}

func (o *Offline) Offline() bool { return true }

func (o *Offline) Folders(context.Context) ([]model.Folder, error) { return o.snap.Folders(), nil }

func (o *Offline) Tags(context.Context) ([]model.Tag, error) { return o.snap.Tags(), nil }

func (o *Offline) Page(_ context.Context, scope model.Scope, start, size int) (model.Page, error) {
	return o.snap.Page(scope, start, size)
}

// DocumentFor resolves documents without a session. A document the service
// refuses to serve anonymously is reported as errs.ErrNotFound, so callers
// fall back as they do for a missing document.
func (o *Offline) DocumentFor(ctx context.Context, a model.Annotation) (model.Document, error) {
	d, err := o.docs.DocumentFor(ctx, a)
	if errors.Is(err, errs.ErrUnauthorized) {
		return model.Document{}, fmt.Errorf("document for %s unavailable offline (%v): %w", a.ID, err, errs.ErrNotFound)
	}
	return d, err
}
