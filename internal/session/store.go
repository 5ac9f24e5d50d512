package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/and161185/glnotes/internal/crypto/sealer"
)

var (
	// ErrNoSession is returned when nothing is remembered.
	ErrNoSession = errors.New("no remembered session")
	// ErrExpired is returned when the remembered session is past its expiry.
	ErrExpired = errors.New("remembered session expired")
)

const (
	keyFile     = "session.key"
	sessionFile = "session.bin"
	purpose     = "glnotes session v1"
)

type sessionFileBody struct {
	Cookie    string    `json:"cookie"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store keeps one cookie encrypted on disk under dir.
type Store struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// NewStore returns a Store in dir. ttl bounds cookies whose expiry cannot be read.
func NewStore(dir string, ttl time.Duration) *Store {
	return &Store{dir: dir, ttl: ttl, now: time.Now}
}

func (s *Store) key() ([]byte, error) {
	p := filepath.Join(s.dir, keyFile)
	master, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		if master, err = sealer.Rand(sealer.KeyLen); err != nil {
			return nil, err
		}
		if err := os.MkdirAll(s.dir, 0o700); err != nil {
			return nil, err
		}
		if err := os.WriteFile(p, master, 0o600); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	return sealer.DeriveKey(master, purpose)
}

// Save encrypts and stores cookie, replacing any previous one.
func (s *Store) Save(cookie string) error {
	key, err := s.key()
	if err != nil {
		return fmt.Errorf("session key: %w", err)
	}
	body, err := json.Marshal(sessionFileBody{Cookie: cookie, ExpiresAt: Expiry(cookie, s.now(), s.ttl)})
	if err != nil {
		return err
	}
	blob, err := sealer.Seal(key, []byte(purpose), body)
	if err != nil {
		return fmt.Errorf("seal session: %w", err)
	}
	return os.WriteFile(filepath.Join(s.dir, sessionFile), blob, 0o600)
}

// Load returns the remembered cookie if it is still valid.
func (s *Store) Load() (string, error) {
	blob, err := os.ReadFile(filepath.Join(s.dir, sessionFile))
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", err
	}
	key, err := s.key()
	if err != nil {
		return "", fmt.Errorf("session key: %w", err)
	}
	body, err := sealer.Open(key, []byte(purpose), blob)
	if err != nil {
		return "", fmt.Errorf("open session: %w", err)
	}
	var sf sessionFileBody
	if err := json.Unmarshal(body, &sf); err != nil {
		return "", fmt.Errorf("decode session: %w", err)
	}
	if sf.Cookie == "" {
		return "", ErrNoSession
	}
	if !s.now().Before(sf.ExpiresAt) {
		return "", ErrExpired
	}
	return sf.Cookie, nil
}

// Clear forgets the remembered cookie. The key file is kept.
func (s *Store) Clear() error {
	err := os.Remove(filepath.Join(s.dir, sessionFile))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Expiry returns the earliest exp claim among the JWTs carried in cookie, or
// now+ttl when there is none.
func Expiry(cookie string, now time.Time, ttl time.Duration) time.Time {
	var earliest time.Time
	for _, tok := range jwtCandidates(cookie) {
		var claims jwt.RegisteredClaims
		if _, _, err := jwt.NewParser().ParseUnverified(tok, &claims); err != nil {
			continue
		}
		if claims.ExpiresAt == nil {
			continue
		}
		if exp := claims.ExpiresAt.Time; earliest.IsZero() || exp.Before(earliest) {
			earliest = exp
		}
	}
	if earliest.IsZero() {
		return now.Add(ttl)
	}
	return earliest
}

func jwtCandidates(cookie string) []string {
	var values []string
	if cookies, err := http.ParseCookie(cookie); err == nil {
		for _, c := range cookies {
			values = append(values, c.Value)
		}
	} else {
		values = append(values, cookie)
	}
	var out []string
	for _, v := range values {
		if strings.Count(v, ".") == 2 {
			out = append(out, v)
		}
	}
	return out
}
