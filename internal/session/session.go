// Package session holds the Notes service session cookie for the lifetime of
// the process and refreshes it on demand.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	u "github.com/gofrs/uuid/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrEmptyCredential is returned when acquisition yields an empty cookie.
var ErrEmptyCredential = errors.New("empty session cookie")

// Acquirer obtains a brand-new cookie, typically by asking the user.
type Acquirer interface {
	Acquire(ctx context.Context) (string, error)
}

// AcquirerFunc adapts a function to Acquirer.
type AcquirerFunc func(ctx context.Context) (string, error)

// Acquire calls f.
func (f AcquirerFunc) Acquire(ctx context.Context) (string, error) { return f(ctx) }

// Session caches the current cookie. Concurrent refreshes share one acquisition.
type Session struct {
	id    u.UUID
	acq   Acquirer
	store *Store
	log   *zap.Logger

	mu       sync.Mutex
	cookie   string
	restored bool

	flight singleflight.Group
}

// Option configures a Session.
type Option func(*Session)

// WithStore remembers cookies between runs in st.
func WithStore(st *Store) Option { return func(s *Session) { s.store = st } }

// WithLogger sets the logger; the session id is attached to every line.
func WithLogger(l *zap.Logger) Option { return func(s *Session) { s.log = l } }

// New creates a Session that acquires cookies through acq.
func New(acq Acquirer, opts ...Option) (*Session, error) {
	if acq == nil {
		return nil, errors.New("session: nil acquirer")
	}
	id, err := u.NewV4()
	if err != nil {
		return nil, fmt.Errorf("session id: %w", err)
	}
	s := &Session{id: id, acq: acq, log: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.With(zap.String("session", id.String()))
	return s, nil
}

// ID identifies this session in logs.
func (s *Session) ID() string { return s.id.String() }

// Credential returns the current cookie. With fresh=false a cached or
// remembered cookie is returned when available; otherwise a new one is acquired.
func (s *Session) Credential(ctx context.Context, fresh bool) (string, error) {
	if !fresh {
		if c := s.current(); c != "" {
			return c, nil
		}
	}

	v, err, shared := s.flight.Do("acquire", func() (any, error) {
		c, err := s.acq.Acquire(ctx)
		if err != nil {
			return "", fmt.Errorf("acquire: %w", err)
		}
		c = strings.TrimSpace(c)
		if c == "" {
			return "", ErrEmptyCredential
		}
		s.mu.Lock()
		s.cookie = c
		s.mu.Unlock()

		if s.store != nil {
			if err := s.store.Save(c); err != nil {
				s.log.Warn("remember session", zap.Error(err))
			}
		}
		s.log.Info("credential acquired", zap.Bool("fresh", fresh))
		return c, nil
	})
	if err != nil {
		return "", err
	}
	if shared {
		s.log.Debug("joined in-flight acquisition")
	}
	return v.(string), nil
}

// current returns the cached cookie, restoring a remembered one on first use.
func (s *Session) current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cookie != "" || s.restored || s.store == nil {
		return s.cookie
	}
	s.restored = true
	c, err := s.store.Load()
	if err != nil {
		s.log.Debug("no remembered session", zap.Error(err))
		return ""
	}
	s.cookie = c
	s.log.Info("restored remembered session")
	return c
}

// Forget drops the cached cookie and the remembered one.
func (s *Session) Forget() error {
	s.mu.Lock()
	s.cookie = ""
	s.restored = true
	s.mu.Unlock()
	if s.store == nil {
		return nil
	}
	return s.store.Clear()
}
