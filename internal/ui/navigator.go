package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	"go.uber.org/zap"

	"github.com/and161185/glnotes/internal/api"
	"github.com/and161185/glnotes/internal/ansi"
	"github.com/and161185/glnotes/internal/archive"
	"github.com/and161185/glnotes/internal/errs"
	"github.com/and161185/glnotes/internal/model"
	"github.com/and161185/glnotes/internal/pager"
	"github.com/and161185/glnotes/internal/service"
)

// DefaultPageSize is how many annotations one selection page lists.
const DefaultPageSize = 50

const labelWidth = 64

// errFinished unwinds the menus when the user declines to return.
var errFinished = errors.New("finished")

// Downloader snapshots the remote collection into an archive.
type Downloader interface {
	DownloadAll(ctx context.Context, opts ...pager.Option) (string, int, error)
}

// Deps wires the navigator.
type Deps struct {
	Prompt Prompter
	Loader *Loader
	Out    io.Writer
	Log    *zap.Logger

	// Online serves live data; Creds is asked for a fresh cookie before browsing it.
	Online service.Source
	Creds  api.CredentialProvider
	// Documents resolves documents while browsing an archive.
	Documents  service.DocumentResolver
	Downloader Downloader

	BaseURL  *url.URL
	DataDir  string
	PageSize int
	Batch    int
	Width    int
}

// Navigator runs the menu loop.
type Navigator struct {
	d Deps
}

// NewNavigator constructs a Navigator, filling unset sizes with defaults.
func NewNavigator(d Deps) *Navigator {
	if d.PageSize <= 0 {
		d.PageSize = DefaultPageSize
	}
	if d.Batch <= 0 {
		d.Batch = service.DefaultBatch
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Loader == nil {
		d.Loader = NewLoader(d.Out, false)
	}
	return &Navigator{d: d}
}

func (n *Navigator) println(a ...any) { fmt.Fprintln(n.d.Out, a...) }

// Run shows the main menu until the user quits.
func (n *Navigator) Run(ctx context.Context) error {
	n.println(ansi.Header("Gospel Library Notes Inspector"))
	for {
		archives, err := archive.Find(n.d.DataDir, n.d.Log)
		if err != nil {
			return err
		}

		type action int
		const (
			actOffline action = iota
			actDownload
			actOnline
			actQuit
		)
		var labels []string
		var actions []action
		if len(archives) > 0 {
			plural := "s"
			if len(archives) == 1 {
				plural = ""
			}
			labels = append(labels, fmt.Sprintf("View Notes Offline %s(%d archive%s)%s", ansi.Dim, len(archives), plural, ansi.Reset))
			actions = append(actions, actOffline)
		}
		labels = append(labels, "Download All Notes", "View Notes Online", "Quit")
		actions = append(actions, actDownload, actOnline, actQuit)

		i, err := n.d.Prompt.Select(ctx, "What would you like to do?", labels)
		if err != nil {
			return err
		}
		switch actions[i] {
		case actDownload:
			err = n.Download(ctx)
		case actOnline:
			err = n.browseOnline(ctx)
		case actOffline:
			err = n.selectArchive(ctx, archives)
		case actQuit:
			return nil
		default:
			return errs.Unreachable(int(actions[i]))
		}
		if errors.Is(err, errFinished) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Download writes a full archive, reporting progress on the loader.
func (n *Navigator) Download(ctx context.Context) error {
	n.d.Loader.Start("Loading annotations...")
	p, count, err := n.d.Downloader.DownloadAll(ctx, pager.WithProgress(func(loaded, total int) {
		n.d.Loader.Start(fmt.Sprintf("Loaded %d of %d annotations...", loaded, total))
	}))
	if err != nil {
		n.d.Loader.Fail("Download failed")
		return err
	}
	n.d.Loader.Succeed(fmt.Sprintf("Wrote %d annotations to '%s'", count, p))
	return nil
}

// done maps the user finishing a session to a clean return.
func done(err error) error {
	if errors.Is(err, errFinished) {
		return nil
	}
	return err
}

// BrowseOnline asks for a fresh cookie and browses live data.
func (n *Navigator) BrowseOnline(ctx context.Context) error { return done(n.browseOnline(ctx)) }

func (n *Navigator) browseOnline(ctx context.Context) error {
	if n.d.Creds != nil {
		if _, err := n.d.Creds.Credential(ctx, true); err != nil {
			return err
		}
	}
	return n.browse(ctx, n.d.Online)
}

// BrowseOffline lets the user pick an archive from the data directory and browses it.
func (n *Navigator) BrowseOffline(ctx context.Context) error {
	archives, err := archive.Find(n.d.DataDir, n.d.Log)
	if err != nil {
		return err
	}
	return done(n.selectArchive(ctx, archives))
}

// BrowseArchive browses a loaded archive.
func (n *Navigator) BrowseArchive(ctx context.Context, a archive.Archive) error {
	return done(n.browseArchive(ctx, a))
}

func (n *Navigator) browseArchive(ctx context.Context, a archive.Archive) error {
	return n.browse(ctx, service.NewOffline(archive.NewSnapshot(a.Annotations), n.d.Documents))
}

func (n *Navigator) selectArchive(ctx context.Context, archives []archive.Archive) error {
	switch len(archives) {
	case 0:
		n.d.Loader.Fail("No archives to view.")
		return nil
	case 1:
		n.d.Loader.Info(fmt.Sprintf("Only one archive: '%s'", archives[0].Name))
		return n.browseArchive(ctx, archives[0])
	}
	labels := make([]string, len(archives))
	for i, a := range archives {
		labels[i] = a.Name
	}
	i, err := n.d.Prompt.Select(ctx, "Select an archive:", labels)
	if err != nil {
		return err
	}
	return n.browseArchive(ctx, archives[i])
}

type tab int

const (
	tabNotes tab = iota
	tabTags
	tabNotebooks
	tabStudySets
	tabReturn
)

var tabLabels = []string{"Notes", "Tags", "Notebooks", "Study Sets", returnLabel}

// Browse runs the tab loop over src until the user returns or finishes.
func (n *Navigator) Browse(ctx context.Context, src service.Source) error { return done(n.browse(ctx, src)) }

func (n *Navigator) browse(ctx context.Context, src service.Source) error {
	pres := NewPresenter(n.d.BaseURL, src, n.d.Width)
	for {
		i, err := n.d.Prompt.Select(ctx, "Select a tab:", tabLabels)
		if err != nil {
			return err
		}
		switch tab(i) {
		case tabNotes:
			err = n.annotationLoop(ctx, src, pres, model.AllAnnotations(), "Return to Menu?")
		case tabTags:
			err = n.tagLoop(ctx, src, pres)
		case tabNotebooks:
			err = n.folderLoop(ctx, src, pres)
		case tabStudySets:
			n.println(ansi.Header("Study Sets are not yet supported"))
		case tabReturn:
			return nil
		default:
			return errs.Unreachable(i)
		}
		if err != nil {
			return err
		}
	}
}

func (n *Navigator) tagLoop(ctx context.Context, src service.Source, pres *Presenter) error {
	for {
		n.d.Loader.Start("Loading Tags...")
		tags, err := src.Tags(ctx)
		if err != nil {
			n.d.Loader.Fail("Loading Tags failed")
			return err
		}
		n.d.Loader.Succeed(fmt.Sprintf("%d Tags", len(tags)))

		labels := []string{returnLabel}
		for _, t := range tags {
			labels = append(labels, fmt.Sprintf("%s %s(%d)%s", t.Name, ansi.Dim, t.AnnotationsCount, ansi.Reset))
		}
		i, err := n.d.Prompt.Select(ctx, "Select a Tag:", labels)
		if err != nil {
			return err
		}
		if i == 0 {
			return nil
		}
		t := tags[i-1]
		n.println(fmt.Sprintf("Selected Tag '%s' with %d annotations", t.Name, t.AnnotationsCount))
		if err := n.annotationLoop(ctx, src, pres, model.WithTag(t), fmt.Sprintf("Return to Tag '%s'?", t.Name)); err != nil {
			return err
		}
	}
}

func (n *Navigator) folderLoop(ctx context.Context, src service.Source, pres *Presenter) error {
	for {
		n.d.Loader.Start("Loading Notebooks...")
		folders, err := src.Folders(ctx)
		if err != nil {
			n.d.Loader.Fail("Loading Notebooks failed")
			return err
		}
		n.d.Loader.Succeed(fmt.Sprintf("%d Notebooks", len(folders)))

		labels := []string{returnLabel}
		for _, f := range folders {
			labels = append(labels, fmt.Sprintf("%s %s(%d)%s", f.Name, ansi.Dim, f.AnnotationsCount, ansi.Reset))
		}
		i, err := n.d.Prompt.Select(ctx, "Select a Notebook:", labels)
		if err != nil {
			return err
		}
		if i == 0 {
			return nil
		}
		f := folders[i-1]
		n.println(fmt.Sprintf("Selected Notebook '%s' with %d annotations", f.Name, f.AnnotationsCount))
		if err := n.annotationLoop(ctx, src, pres, model.InFolder(f), fmt.Sprintf("Return to Notebook '%s'?", f.Name)); err != nil {
			return err
		}
	}
}

// annotationLoop lets the user pick and view annotations in scope until they
// go back. Declining the return question finishes the session.
func (n *Navigator) annotationLoop(ctx context.Context, src service.Source, pres *Presenter, scope model.Scope, returnQuestion string) error {
	pages := newPageBrowser(n, src, scope)
	for {
		a, ok, err := pages.pick(ctx)
		if err != nil || !ok {
			return err
		}
		if err := pres.Present(ctx, n.d.Out, a); err != nil {
			if errs.IsUnreachable(err) {
				n.d.Log.Error("unreachable case while rendering", zap.String("annotation", a.ID), zap.Error(err))
			}
			return err
		}
		again, err := n.d.Prompt.Confirm(ctx, returnQuestion)
		if err != nil {
			return err
		}
		if !again {
			return errFinished
		}
	}
}

var returnLabel = ".. " + ansi.Dim + "(Return)" + ansi.Reset
