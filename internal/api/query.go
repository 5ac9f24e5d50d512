package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/and161185/glnotes/internal/errs"
	"github.com/and161185/glnotes/internal/model"
)

// Query parameterizes an annotation listing. Start is zero-based.
type Query struct {
	FolderID string
	TagID    string
	Start    int
	Size     int
}

// Validate checks paging bounds.
func (q Query) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Start, validation.Min(0)),
		validation.Field(&q.Size, validation.Required, validation.Min(1)),
	)
}

// QueryFor translates a scope into a listing query. The Unassigned folder
// sends no folder filter, which the service answers with every annotation.
func QueryFor(scope model.Scope, start, size int) (Query, error) {
	q := Query{Start: start, Size: size}
	switch scope.Kind {
	case model.ScopeAll:
	case model.ScopeFolder:
		if !scope.Folder.Unassigned() {
			q.FolderID = *scope.Folder.ID
		}
	case model.ScopeTag:
		q.TagID = scope.Tag.ID
	default:
		return Query{}, errs.Unreachable(scope.Kind.String())
	}
	return q, nil
}
