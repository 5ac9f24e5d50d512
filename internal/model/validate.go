package model

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func knownColors() []any {
	out := make([]any, len(Colors))
	for i, c := range Colors {
		out[i] = c
	}
	return out
}

// Validate checks the highlight's shape, including the closed color/style sets.
// The paragraph id may be empty; such a highlight shows every paragraph.
func (h Highlight) Validate() error {
	return validation.ValidateStruct(&h,
		validation.Field(&h.Color, validation.Required, validation.In(knownColors()...)),
		validation.Field(&h.Style, validation.In(StyleRedUnderline)),
		validation.Field(&h.StartOffset, validation.Min(-1)),
		validation.Field(&h.EndOffset, validation.Min(-1)),
	)
}

// Validate checks the folder's shape.
func (f Folder) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.AnnotationsCount, validation.Min(0)),
		validation.Field(&f.OrderedAnnotationIDs, validation.NotNil),
	)
}

// Validate checks the tag's shape.
func (t Tag) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.AnnotationsCount, validation.Min(0)),
	)
}

// Validate checks the annotation and its nested folders, tags and highlights.
func (a Annotation) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.ID, validation.Required),
		validation.Field(&a.Folders, validation.NotNil),
		validation.Field(&a.Tags, validation.NotNil),
		validation.Field(&a.Highlights),
	)
}

// Validate checks a content paragraph.
func (c Content) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ID, validation.Required),
	)
}

// Validate checks the document's shape.
func (d Document) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.URI, validation.Required),
		validation.Field(&d.Content, validation.NotNil),
	)
}

// Validate checks the page and that the reported count matches its contents.
func (p Page) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Annotations, validation.NotNil),
		validation.Field(&p.Count, validation.Min(0), validation.By(func(any) error {
			if p.Count != len(p.Annotations) {
				return fmt.Errorf("annotationsCount %d does not match %d annotations", p.Count, len(p.Annotations))
			}
			return nil
		})),
		validation.Field(&p.Total, validation.Min(0)),
	)
}

// ValidateAll validates every element of a slice of records and returns the
// first failure annotated with its index.
func ValidateAll[T validation.Validatable](items []T) error {
	if items == nil {
		return errors.New("expected an array")
	}
	for i, it := range items {
		if err := it.Validate(); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
	}
	return nil
}
