package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestAnnotation_DocumentURI(t *testing.T) {
	t.Parallel()

	a := Annotation{Highlights: []Highlight{{URI: "/scriptures/nt/mark/9"}}, URI: strPtr("/other")}
	uri, ok := a.DocumentURI()
	if !ok || uri != "/scriptures/nt/mark/9" {
		t.Fatalf("first highlight uri must win: %q %v", uri, ok)
	}

	a = Annotation{URI: strPtr("/own")}
	uri, ok = a.DocumentURI()
	if !ok || uri != "/own" {
		t.Fatalf("annotation uri fallback: %q %v", uri, ok)
	}

	if _, ok := (Annotation{}).DocumentURI(); ok {
		t.Fatalf("no uri must report !ok")
	}
}

func TestFolderKey(t *testing.T) {
	t.Parallel()

	if FolderKey(Folder{Name: "Unassigned"}) != UnassignedKey {
		t.Fatalf("nil id must map to sentinel")
	}
	if FolderKey(Folder{ID: strPtr("")}) != UnassignedKey {
		t.Fatalf("empty id must map to sentinel")
	}
	if FolderKey(Folder{ID: strPtr("f1")}) != "f1" {
		t.Fatalf("id must be the key")
	}
}

func TestScopeConstructors(t *testing.T) {
	t.Parallel()

	require.Equal(t, ScopeAll, AllAnnotations().Kind)
	require.Equal(t, ScopeFolder, InFolder(Folder{Name: "x"}).Kind)
	require.Equal(t, ScopeTag, WithTag(Tag{ID: "t"}).Kind)
	require.Equal(t, "tag", ScopeTag.String())
	require.Equal(t, "unknown", ScopeKind(42).String())
}

func TestHighlight_Validate(t *testing.T) {
	t.Parallel()

	ok := Highlight{PID: "p1", Color: ColorYellow, StartOffset: 1, EndOffset: -1}
	require.NoError(t, ok.Validate())

	underlined := ok
	underlined.Style = StyleRedUnderline
	require.NoError(t, underlined.Validate())

	badColor := ok
	badColor.Color = "purple"
	require.Error(t, badColor.Validate())

	badStyle := ok
	badStyle.Style = "blue-underline"
	require.Error(t, badStyle.Validate())

	noPID := ok
	noPID.PID = ""
	require.NoError(t, noPID.Validate(), "an empty paragraph id is accepted")
}

func TestPage_Validate_CountMustMatch(t *testing.T) {
	t.Parallel()

	a := Annotation{ID: "a1", Locale: "eng", Folders: []Folder{}, Tags: []Tag{}}
	require.NoError(t, Page{Annotations: []Annotation{a}, Count: 1, Total: 3}.Validate())
	require.Error(t, Page{Annotations: []Annotation{a}, Count: 2, Total: 3}.Validate())
	require.Error(t, Page{Count: 0, Total: 0}.Validate(), "missing annotations array")
}

func TestAnnotation_ValidateFromWire(t *testing.T) {
	t.Parallel()

	raw := `{
		"annotationId": "a1", "personId": "p", "locale": "eng", "contentVersion": 1,
		"source": "web", "device": "web", "created": "2023-01-01", "lastUpdated": "2023-01-02",
		"type": "highlight",
		"folders": [{"name": "Unassigned", "annotationsCount": 1, "lastAddedDate": "x", "orderedAnnotationIds": ["a1"]}],
		"tags": [],
		"highlights": [{"uri": "/u", "pid": "p1", "color": "orange", "startOffset": 2, "endOffset": 5}]
	}`
	var a Annotation
	require.NoError(t, json.Unmarshal([]byte(raw), &a))
	require.NoError(t, a.Validate())
	require.True(t, a.Folders[0].Unassigned())

	var missing Annotation
	require.NoError(t, json.Unmarshal([]byte(`{"annotationId": "a1", "locale": "eng", "tags": []}`), &missing))
	require.Error(t, missing.Validate(), "folders is required")
}

func TestValidateAll(t *testing.T) {
	t.Parallel()

	require.Error(t, ValidateAll[Tag](nil))
	require.NoError(t, ValidateAll([]Tag{}))
	require.Error(t, ValidateAll([]Tag{{ID: "t1"}, {ID: "t2", AnnotationsCount: -1}}))
}
