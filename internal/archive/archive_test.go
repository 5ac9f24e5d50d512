package archive

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/and161185/glnotes/internal/errs"
	"github.com/and161185/glnotes/internal/model"
)

func strPtr(s string) *string { return &s }

func folder(id string) model.Folder {
	f := model.Folder{Name: "Folder " + id, LastAddedDate: "2023-01-01", OrderedAnnotationIDs: []string{}}
	if id != "" {
		f.ID = strPtr(id)
	} else {
		f.Name = "Unassigned"
	}
	return f
}

func ann(id string, folders []model.Folder, tags ...string) model.Annotation {
	a := model.Annotation{
		ID: id, PersonID: "p1", Locale: "eng", ContentVersion: 1,
		Source: "web", Device: "web", Created: "2023-01-01", LastUpdated: "2023-01-02",
		Type: "highlight", Folders: folders, Tags: []model.Tag{},
	}
	for _, t := range tags {
		a.Tags = append(a.Tags, model.Tag{ID: t, Name: "Tag " + t})
	}
	return a
}

func fixture() []model.Annotation {
	return []model.Annotation{
		ann("a1", []model.Folder{folder(""), folder("f1")}, "t1"),
		ann("a2", []model.Folder{folder("")}),
		ann("a3", []model.Folder{folder("f2"), folder("f1")}, "t1", "t2"),
		ann("a4", []model.Folder{}),
	}
}

func ids(p model.Page) []string {
	out := []string{}
	for _, a := range p.Annotations {
		out = append(out, a.ID)
	}
	return out
}

func TestSnapshot_UnassignedEqualsAll(t *testing.T) {
	t.Parallel()

	s := NewSnapshot(fixture())
	for _, start := range []int{0, 1, 3, 10} {
		all, err := s.Page(model.AllAnnotations(), start, 2)
		require.NoError(t, err)
		un, err := s.Page(model.InFolder(model.Folder{Name: "Unassigned"}), start, 2)
		require.NoError(t, err)
		require.Equal(t, all, un)
		require.Equal(t, 4, un.Total)
	}
}

func TestSnapshot_FilterAndSlice(t *testing.T) {
	t.Parallel()

	s := NewSnapshot(fixture())

	p, err := s.Page(model.InFolder(folder("f1")), 0, 50)
	require.NoError(t, err)
	require.Equal(t, []string{"a1", "a3"}, ids(p))
	require.Equal(t, 2, p.Total)
	require.Equal(t, 2, p.Count)

	p, err = s.Page(model.InFolder(folder("f1")), 1, 50)
	require.NoError(t, err)
	require.Equal(t, []string{"a3"}, ids(p))

	p, err = s.Page(model.WithTag(model.Tag{ID: "t2"}), 0, 50)
	require.NoError(t, err)
	require.Equal(t, []string{"a3"}, ids(p))

	p, err = s.Page(model.AllAnnotations(), 2, 1)
	require.NoError(t, err)
	require.Equal(t, []string{"a3"}, ids(p))

	p, err = s.Page(model.AllAnnotations(), 9, 5)
	require.NoError(t, err)
	require.Empty(t, p.Annotations)
	require.NotNil(t, p.Annotations)
	require.Equal(t, 4, p.Total)
	require.NoError(t, p.Validate())

	_, err = s.Page(model.Scope{Kind: model.ScopeKind(7)}, 0, 5)
	require.True(t, errs.IsUnreachable(err))
}

func TestSnapshot_DerivedFoldersAndTags(t *testing.T) {
	t.Parallel()

	s := NewSnapshot(fixture())

	folders := s.Folders()
	require.Len(t, folders, 3)
	require.True(t, folders[0].Unassigned())
	require.Equal(t, UnassignedName, folders[0].Name)
	require.Equal(t, 4, folders[0].AnnotationsCount)
	require.Equal(t, "f1", *folders[1].ID)
	require.Equal(t, []string{"a1", "a3"}, folders[1].OrderedAnnotationIDs)
	require.Equal(t, 2, folders[1].AnnotationsCount)
	require.Equal(t, "f2", *folders[2].ID)

	tags := s.Tags()
	require.Len(t, tags, 2)
	require.Equal(t, "t1", tags[0].ID)
	require.Equal(t, 2, tags[0].AnnotationsCount)
	require.Equal(t, "t2", tags[1].ID)

	require.Empty(t, NewSnapshot(nil).Folders())
}

func TestWriteRead_RoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	now := time.Date(2024, 3, 5, 7, 8, 9, 123_000_000, time.UTC)
	want := fixture()
	want[0].Note = &model.Note{Title: strPtr("Faith"), Content: strPtr("<p>note</p>")}
	want[0].Highlights = []model.Highlight{{URI: "/u", PID: "p1", Color: model.ColorRed, Style: model.StyleRedUnderline, StartOffset: 1, EndOffset: -1}}

	p, err := Write(filepath.Join(dir, "nested"), want, now)
	require.NoError(t, err)
	require.Equal(t, "archive 2024-03-05 07-08-09.123 Z.json", filepath.Base(p))

	got, err := Read(p)
	require.NoError(t, err)
	require.Equal(t, want, got.Annotations)
	require.Equal(t, "archive 2024-03-05 07-08-09.123 Z", got.Name)
}

func TestWriteRead_KeepsServerShape(t *testing.T) {
	t.Parallel()

	// one annotation sends an empty highlight list, the journal entry omits it
	const body = `[
		{"annotationId": "a1", "personId": "p1", "locale": "eng", "contentVersion": 1,
		 "source": "web", "device": "web", "created": "2023-01-01", "lastUpdated": "2023-01-02",
		 "type": "reference", "folders": [], "tags": [], "highlights": []},
		{"annotationId": "a2", "personId": "p1", "locale": "", "contentVersion": 1,
		 "source": "web", "device": "web", "created": "2023-01-01", "lastUpdated": "2023-01-02",
		 "type": "journal", "folders": [], "tags": [{"tagId": "", "name": "", "timestamp": "", "created": "", "annotationsCount": 0}]},
		{"annotationId": "a3", "personId": "p1", "locale": "eng", "contentVersion": 1,
		 "source": "web", "device": "web", "created": "2023-01-01", "lastUpdated": "2023-01-02",
		 "type": "highlight", "folders": [], "tags": [],
		 "highlights": [{"pid": "", "color": "gray", "startOffset": -1, "endOffset": -1}]}
	]`
	want, err := Parse([]byte(body))
	require.NoError(t, err)
	require.NotNil(t, want[0].Highlights)
	require.Empty(t, want[0].Highlights)
	require.Nil(t, want[1].Highlights)

	p, err := Write(t.TempDir(), want, time.Date(2024, 3, 5, 7, 8, 9, 0, time.UTC))
	require.NoError(t, err)

	raw, err := os.ReadFile(p)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"highlights":[]`)
	require.Equal(t, 2, strings.Count(string(raw), `"highlights"`), "absent highlights stay absent")

	got, err := Read(p)
	require.NoError(t, err)
	require.Equal(t, want, got.Annotations)
}

func TestFind_CreatesMissingDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "data")
	found, err := Find(dir, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.Empty(t, found)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestFind_SkipsInvalidEntries(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("b.json", "  \n[]")
	write("object.json", `{"annotationId": "a1"}`)
	write("garbage.json", `[not json`)
	write("invalid.json", `[{"annotationId": "a1"}]`)
	write("empty.json", ``)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))

	p, err := Write(dir, fixture()[:1], time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	found, err := Find(dir, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.Len(t, found, 2)
	require.Equal(t, p, found[0].Path)
	require.Len(t, found[0].Annotations, 1)
	require.Equal(t, filepath.Join(dir, "b.json"), found[1].Path)
	require.Empty(t, found[1].Annotations)
}

func TestParse_RejectsNonArray(t *testing.T) {
	t.Parallel()

	for _, body := range []string{``, `null`, `{}`, `"x"`, `[1]`} {
		_, err := Parse([]byte(body))
		require.ErrorIs(t, err, errs.ErrInvalidArchive, "body %q", body)
	}
}
