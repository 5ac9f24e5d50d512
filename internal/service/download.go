package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/glnotes/internal/api"
	"github.com/and161185/glnotes/internal/archive"
	"github.com/and161185/glnotes/internal/model"
	"github.com/and161185/glnotes/internal/pager"
)

// DefaultDownloadPageSize is the page size the service uses when none is requested.
const DefaultDownloadPageSize = 1000

// Downloader snapshots every annotation into an archive file.
type Downloader struct {
	remote   Remote
	creds    api.CredentialProvider
	dir      string
	pageSize int
	now      func() time.Time
	log      *zap.Logger
}

// NewDownloader constructs a Downloader writing archives to dir.
func NewDownloader(remote Remote, creds api.CredentialProvider, dir string, pageSize int, log *zap.Logger) *Downloader {
	if pageSize <= 0 {
		pageSize = DefaultDownloadPageSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Downloader{remote: remote, creds: creds, dir: dir, pageSize: pageSize, now: time.Now, log: log}
}

// DownloadAll forces a fresh credential, collects the whole collection and
// writes it. It returns the archive path and the number of annotations.
func (d *Downloader) DownloadAll(ctx context.Context, opts ...pager.Option) (string, int, error) {
	if d.creds != nil {
		if _, err := d.creds.Credential(ctx, true); err != nil {
			return "", 0, err
		}
	}

	fetch := pager.FetcherFunc(func(ctx context.Context, start, size int) (model.Page, error) {
		return d.remote.Annotations(ctx, api.Query{Start: start, Size: size})
	})
	anns, err := pager.Collect(ctx, fetch, d.pageSize, opts...)
	if err != nil {
		return "", 0, fmt.Errorf("collect annotations: %w", err)
	}
	if err := model.ValidateAll(anns); err != nil {
		return "", 0, fmt.Errorf("collected archive: %w", err)
	}

	p, err := archive.Write(d.dir, anns, d.now())
	if err != nil {
		return "", 0, err
	}
	d.log.Info("archive written", zap.String("path", p), zap.Int("annotations", len(anns)))
	return p, len(anns), nil
}
