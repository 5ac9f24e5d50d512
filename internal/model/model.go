// Package model defines the annotation records served by the Notes API and
// stored in local archives.
//
// JSON field names follow the service's wire format, so an archive file is a
// plain JSON array of the records the API returned.
package model

// Color is the highlight color reported by the service.
type Color string

// Known highlight colors. Any other value is a defect to triage.
const (
	ColorRed    Color = "red"
	ColorOrange Color = "orange"
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
	ColorBrown  Color = "brown"
	ColorGray   Color = "gray"
	ColorClear  Color = "clear"
	ColorPink   Color = "pink"
)

// Colors lists the known colors in display order.
var Colors = []Color{ColorRed, ColorOrange, ColorYellow, ColorGreen, ColorBlue, ColorBrown, ColorGray, ColorClear, ColorPink}

// Style modifies a highlight color. The zero value means no modifier.
type Style string

// StyleRedUnderline is the only style the service reports; it is combined with the color.
const StyleRedUnderline Style = "red-underline"

// Highlight is one colored span inside a document paragraph.
//
// Offsets are 1-based word indices into the paragraph identified by PID.
// -1 means unbounded in that direction.
type Highlight struct {
	URI         string `json:"uri,omitempty"`
	PID         string `json:"pid"`
	Color       Color  `json:"color"`
	Style       Style  `json:"style,omitempty"`
	StartOffset int    `json:"startOffset"`
	EndOffset   int    `json:"endOffset"`
}

// Note is the free-text part of an annotation. Content is markup.
type Note struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// Folder is a notebook. A nil ID denotes the synthetic "Unassigned" notebook,
// which matches every annotation.
type Folder struct {
	ID                   *string  `json:"folderId,omitempty"`
	Name                 string   `json:"name"`
	AnnotationsCount     int      `json:"annotationsCount"`
	LastAddedDate        string   `json:"lastAddedDate"`
	Created              *string  `json:"created,omitempty"`
	OrderedAnnotationIDs []string `json:"orderedAnnotationIds"`
}

// Unassigned reports whether f is the id-less notebook.
func (f Folder) Unassigned() bool {
	return f.ID == nil || *f.ID == ""
}

// Tag is a user label attachable to many annotations.
type Tag struct {
	ID               string `json:"tagId"`
	Name             string `json:"name"`
	Timestamp        string `json:"timestamp"`
	Created          string `json:"created"`
	AnnotationsCount int    `json:"annotationsCount"`
}

// Annotation is one user note, highlight or reference.
type Annotation struct {
	ID             string      `json:"annotationId"`
	PersonID       string      `json:"personId"`
	Locale         string      `json:"locale"`
	ContentVersion int         `json:"contentVersion"`
	DocID          *string     `json:"docId,omitempty"`
	Note           *Note       `json:"note,omitempty"`
	Source         string      `json:"source"`
	Device         string      `json:"device"`
	Created        string      `json:"created"`
	LastUpdated    string      `json:"lastUpdated"`
	Type           string      `json:"type"`
	Folders        []Folder    `json:"folders"`
	Tags           []Tag       `json:"tags"`
	Highlights     []Highlight `json:"highlights,omitzero"`
	URI            *string     `json:"uri,omitempty"`
}

// DocumentURI returns the URI of the document to display for a: the first
// highlight's URI, else the annotation's own URI. ok is false when neither exists.
func (a Annotation) DocumentURI() (uri string, ok bool) {
	if len(a.Highlights) > 0 && a.Highlights[0].URI != "" {
		return a.Highlights[0].URI, true
	}
	if a.URI != nil && *a.URI != "" {
		return *a.URI, true
	}
	return "", false
}

// Title returns the note title, if any.
func (a Annotation) Title() (string, bool) {
	if a.Note == nil || a.Note.Title == nil || *a.Note.Title == "" {
		return "", false
	}
	return *a.Note.Title, true
}

// Content is one markup paragraph of a document.
type Content struct {
	ID        string  `json:"id"`
	Markup    string  `json:"markup"`
	DisplayID *string `json:"displayId,omitempty"`
}

// Image is the document's illustration reference.
type Image struct {
	Src    *string `json:"src,omitempty"`
	Srcset *string `json:"srcset,omitempty"`
}

// Document is a scripture or study text unit, keyed by URI.
type Document struct {
	URI                     string    `json:"uri"`
	Headline                string    `json:"headline"`
	Publication             string    `json:"publication"`
	ReferenceURIDisplayText string    `json:"referenceURIDisplayText"`
	ReferenceURI            string    `json:"referenceURI"`
	Type                    string    `json:"type"`
	Content                 []Content `json:"content"`
	Image                   Image     `json:"image"`
	IDNotationURI           *string   `json:"idNotationUri,omitempty"`
}

// Page is one bounded slice of an annotation collection plus the collection size.
type Page struct {
	Annotations []Annotation `json:"annotations"`
	Count       int          `json:"annotationsCount"`
	Total       int          `json:"annotationsTotal"`
}
