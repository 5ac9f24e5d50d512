// Package api is the client for the Notes and content endpoints of
// churchofjesuschrist.org.
//
// Every request shares one contract: the session cookie is attached, a 401 is
// answered with exactly one credential refresh and retry, any other non-200
// status fails, and a 200 body must match the expected shape.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/and161185/glnotes/internal/cache"
	"github.com/and161185/glnotes/internal/errs"
	"github.com/and161185/glnotes/internal/model"
)

// DefaultBaseURL is the production host.
const DefaultBaseURL = "https://www.churchofjesuschrist.org"

// annotationKinds restricts listings to the kinds this client understands.
const annotationKinds = "journal,reference,highlight"

// CredentialProvider supplies the session cookie. With fresh=false it may
// return a cached value; with fresh=true it must obtain a new one.
type CredentialProvider interface {
	Credential(ctx context.Context, fresh bool) (string, error)
}

// Config holds client settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// HTTPClient overrides the default client; its transport is wrapped for logging.
	HTTPClient *http.Client
}

// Client performs authenticated GETs against the Notes API.
type Client struct {
	base   *url.URL
	http   *http.Client
	creds  CredentialProvider
	caches *cache.Set
	log    *zap.Logger
	docs   singleflight.Group
}

// New constructs a Client. creds may be nil for endpoints that need no session;
// requests are then sent without a Cookie header.
func New(cfg Config, creds CredentialProvider, caches *cache.Set, log *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("base url: %w", err)
	}
	if caches == nil {
		caches = cache.NewSet()
	}
	if log == nil {
		log = zap.NewNop()
	}

	hc := &http.Client{Timeout: cfg.Timeout}
	if cfg.HTTPClient != nil {
		c := *cfg.HTTPClient
		hc = &c
	}
	hc.Transport = NewLoggingTransport(hc.Transport, log)

	return &Client{base: base, http: hc, creds: creds, caches: caches, log: log}, nil
}

// BaseURL returns the host the client talks to.
func (c *Client) BaseURL() *url.URL {
	u := *c.base
	return &u
}

func (c *Client) endpoint(path string, params url.Values) *url.URL {
	u := *c.base
	u.Path = path
	u.RawQuery = params.Encode()
	return &u
}

func (c *Client) credential(ctx context.Context, fresh bool) (string, error) {
	if c.creds == nil {
		return "", nil
	}
	cookie, err := c.creds.Credential(ctx, fresh)
	if err != nil {
		return "", fmt.Errorf("credential: %w", err)
	}
	return cookie, nil
}

func (c *Client) send(ctx context.Context, u *url.URL, cookie string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	return c.http.Do(req)
}

// get performs one GET with the at-most-one-retry-on-401 policy and returns the body.
func (c *Client) get(ctx context.Context, u *url.URL) ([]byte, error) {
	cookie, err := c.credential(ctx, false)
	if err != nil {
		return nil, err
	}
	resp, err := c.send(ctx, u, cookie)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", u.Path, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return readBody(resp)
	case resp.StatusCode == http.StatusUnauthorized && c.creds != nil:
		discard(resp)
		c.log.Info("session rejected, refreshing credential", zap.String("path", u.Path))

		cookie, err = c.credential(ctx, true)
		if err != nil {
			return nil, err
		}
		resp, err = c.send(ctx, u, cookie)
		if err != nil {
			return nil, fmt.Errorf("GET %s: %w", u.Path, err)
		}
		if resp.StatusCode != http.StatusOK {
			discard(resp)
			return nil, &errs.StatusError{Code: resp.StatusCode}
		}
		return readBody(resp)
	default:
		discard(resp)
		return nil, &errs.StatusError{Code: resp.StatusCode}
	}
}

func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return b, nil
}

func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

func decode(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrValidation, err)
	}
	return nil
}

func invalid(what string, err error) error {
	return fmt.Errorf("%w: %s: %v", errs.ErrValidation, what, err)
}

// Document returns the document at uri. A URI missing from the response
// yields errs.ErrNotFound. Results are cached by URI and concurrent lookups of
// the same URI share one request, which is not cancelled when one of the
// waiting callers gives up.
func (c *Client) Document(ctx context.Context, uri, locale string) (model.Document, error) {
	if d, ok := c.caches.Documents.Get(uri); ok {
		return d, nil
	}

	// the shared fetch outlives any one caller; each caller still honors its own ctx
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.docs.DoChan(uri, func() (any, error) {
		if d, ok := c.caches.Documents.Get(uri); ok {
			return d, nil
		}

		body, err := c.get(fetchCtx, c.endpoint("/content/api/v3", url.Values{
			"uris": {uri},
			"lang": {locale},
		}))
		if err != nil {
			return model.Document{}, err
		}

		var docs map[string]model.Document
		if err := decode(body, &docs); err != nil {
			return model.Document{}, err
		}
		if docs == nil {
			return model.Document{}, invalid("documents", errors.New("expected an object keyed by uri"))
		}
		if err := validation.Validate(docs); err != nil {
			return model.Document{}, invalid("documents", err)
		}

		d, ok := docs[uri]
		if !ok {
			return model.Document{}, fmt.Errorf("document %q: %w", uri, errs.ErrNotFound)
		}
		c.caches.Documents.Put(uri, d)
		return d, nil
	})

	select {
	case <-ctx.Done():
		return model.Document{}, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return model.Document{}, r.Err
		}
		return r.Val.(model.Document), nil
	}
}

// DocumentFor returns the document an annotation points at.
func (c *Client) DocumentFor(ctx context.Context, a model.Annotation) (model.Document, error) {
	uri, ok := a.DocumentURI()
	if !ok {
		return model.Document{}, fmt.Errorf("annotation %q has no document uri: %w", a.ID, errs.ErrNotFound)
	}
	return c.Document(ctx, uri, a.Locale)
}

// Folders returns every notebook, from cache after the first listing.
func (c *Client) Folders(ctx context.Context) ([]model.Folder, error) {
	if all, ok := c.caches.Folders.All(); ok {
		return all, nil
	}

	body, err := c.get(ctx, c.endpoint("/notes/api/v3/folders", url.Values{"setId": {"all"}}))
	if err != nil {
		return nil, err
	}
	var folders []model.Folder
	if err := decode(body, &folders); err != nil {
		return nil, err
	}
	if err := model.ValidateAll(folders); err != nil {
		return nil, invalid("folders", err)
	}

	c.caches.Folders.Fill(folders)
	all, _ := c.caches.Folders.All()
	return all, nil
}

// Tags returns every tag, from cache after the first listing.
func (c *Client) Tags(ctx context.Context) ([]model.Tag, error) {
	if all, ok := c.caches.Tags.All(); ok {
		return all, nil
	}

	body, err := c.get(ctx, c.endpoint("/notes/api/v3/tags", url.Values{"setId": {"all"}}))
	if err != nil {
		return nil, err
	}
	var tags []model.Tag
	if err := decode(body, &tags); err != nil {
		return nil, err
	}
	if err := model.ValidateAll(tags); err != nil {
		return nil, invalid("tags", err)
	}

	c.caches.Tags.Fill(tags)
	all, _ := c.caches.Tags.All()
	return all, nil
}

// Annotations returns one page of annotations matching q.
func (c *Client) Annotations(ctx context.Context, q Query) (model.Page, error) {
	if err := q.Validate(); err != nil {
		return model.Page{}, fmt.Errorf("query: %w", err)
	}

	params := url.Values{
		"setId":          {"all"},
		"type":           {annotationKinds},
		"numberToReturn": {strconv.Itoa(q.Size)},
	}
	if q.FolderID != "" {
		params.Set("folderId", q.FolderID)
	}
	if q.TagID != "" {
		params.Set("tagId", q.TagID)
	}
	if q.Start > 0 {
		// the service counts from 1
		params.Set("start", strconv.Itoa(q.Start+1))
	}

	body, err := c.get(ctx, c.endpoint("/notes/api/v3/annotationsWithMeta", params))
	if err != nil {
		return model.Page{}, err
	}
	var page model.Page
	if err := decode(body, &page); err != nil {
		return model.Page{}, err
	}
	if err := page.Validate(); err != nil {
		return model.Page{}, invalid("annotations", err)
	}
	return page, nil
}
