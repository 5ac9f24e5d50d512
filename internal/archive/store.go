package archive

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/glnotes/internal/errs"
	"github.com/and161185/glnotes/internal/model"
)

// DefaultDir is where archives are written and scanned when nothing is configured.
const DefaultDir = "./data"

const (
	filePrefix = "archive "
	fileExt    = ".json"
	stampFmt   = "2006-01-02 15-04-05.000 Z07"
)

// Archive is one valid archive file found on disk.
type Archive struct {
	Path        string
	Name        string
	Annotations []model.Annotation
}

// FileName returns the archive file name for a snapshot taken at now.
func FileName(now time.Time) string {
	return filePrefix + now.Format(stampFmt) + fileExt
}

// Write stores anns as a JSON array in dir, creating dir if needed, and
// returns the file path.
func Write(dir string, anns []model.Annotation, now time.Time) (string, error) {
	if anns == nil {
		anns = []model.Annotation{}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("archive dir: %w", err)
	}
	b, err := json.Marshal(anns)
	if err != nil {
		return "", fmt.Errorf("encode archive: %w", err)
	}
	p := filepath.Join(dir, FileName(now))
	if err := os.WriteFile(p, b, 0o644); err != nil {
		return "", fmt.Errorf("write archive: %w", err)
	}
	return p, nil
}

// Read loads and validates one archive file.
func Read(path string) (Archive, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Archive{}, fmt.Errorf("read %s: %w", path, err)
	}
	anns, err := Parse(b)
	if err != nil {
		return Archive{}, fmt.Errorf("%s: %w", path, err)
	}
	return Archive{Path: path, Name: displayName(path), Annotations: anns}, nil
}

// Parse decodes an archive body. The body must be a JSON array of valid
// annotations; anything else is errs.ErrInvalidArchive.
func Parse(b []byte) ([]model.Annotation, error) {
	trimmed := bytes.TrimLeft(b, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: not a JSON array", errs.ErrInvalidArchive)
	}
	var anns []model.Annotation
	if err := json.Unmarshal(trimmed, &anns); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidArchive, err)
	}
	if err := model.ValidateAll(anns); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidArchive, err)
	}
	return anns, nil
}

// Find returns every valid archive directly inside dir, sorted by path.
// A missing dir is created and yields no archives. Entries that are not
// regular files or not valid archives are logged and skipped.
func Find(dir string, log *zap.Logger) ([]Archive, error) {
	if log == nil {
		log = zap.NewNop()
	}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info("archive dir missing, creating", zap.String("dir", dir))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create archive dir: %w", err)
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan archive dir: %w", err)
	}

	var out []Archive
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		p := filepath.Join(dir, e.Name())
		a, err := Read(p)
		if err != nil {
			log.Info("not valid", zap.String("file", p), zap.Error(err))
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func displayName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), fileExt)
}
