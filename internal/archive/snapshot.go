// Package archive stores full annotation snapshots as JSON files and serves
// pages, notebooks and tags from a loaded snapshot without the network.
package archive

import (
	"github.com/and161185/glnotes/internal/errs"
	"github.com/and161185/glnotes/internal/model"
)

// UnassignedName names the notebook that collects every id-less folder.
const UnassignedName = "Unassigned"

// Snapshot is an in-memory archive. It is read-only after construction.
type Snapshot struct {
	anns []model.Annotation
}

// NewSnapshot wraps anns; the slice must not be modified afterwards.
func NewSnapshot(anns []model.Annotation) *Snapshot {
	return &Snapshot{anns: anns}
}

// Len returns the number of archived annotations.
func (s *Snapshot) Len() int { return len(s.anns) }

// Annotations returns the archived annotations in archive order.
func (s *Snapshot) Annotations() []model.Annotation { return s.anns }

// Page answers a listing query from the snapshot with the same shape the
// service returns. The id-less folder selects every annotation.
func (s *Snapshot) Page(scope model.Scope, start, size int) (model.Page, error) {
	var matched []model.Annotation
	switch scope.Kind {
	case model.ScopeAll:
		matched = s.anns
	case model.ScopeFolder:
		if scope.Folder.Unassigned() {
			matched = s.anns
			break
		}
		id := *scope.Folder.ID
		matched = s.filter(func(a model.Annotation) bool {
			for _, f := range a.Folders {
				if f.ID != nil && *f.ID == id {
					return true
				}
			}
			return false
		})
	case model.ScopeTag:
		matched = s.filter(func(a model.Annotation) bool {
			for _, t := range a.Tags {
				if t.ID == scope.Tag.ID {
					return true
				}
			}
			return false
		})
	default:
		return model.Page{}, errs.Unreachable(scope.Kind.String())
	}

	from := min(max(start, 0), len(matched))
	to := min(from+max(size, 0), len(matched))
	page := append([]model.Annotation{}, matched[from:to]...)
	return model.Page{Annotations: page, Count: len(page), Total: len(matched)}, nil
}

func (s *Snapshot) filter(keep func(model.Annotation) bool) []model.Annotation {
	var out []model.Annotation
	for _, a := range s.anns {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

// Folders derives the notebooks referenced by archived annotations in
// first-seen order. All id-less folders collapse into one Unassigned entry
// whose count is the archive size, matching its "everything" semantics.
func (s *Snapshot) Folders() []model.Folder {
	out := []model.Folder{}
	index := map[string]int{}
	for _, a := range s.anns {
		for _, f := range a.Folders {
			key := model.FolderKey(f)
			i, seen := index[key]
			if !seen {
				entry := model.Folder{
					ID:                   f.ID,
					Name:                 f.Name,
					LastAddedDate:        f.LastAddedDate,
					Created:              f.Created,
					OrderedAnnotationIDs: []string{},
				}
				if f.Unassigned() {
					entry.ID = nil
					entry.Name = UnassignedName
				}
				out = append(out, entry)
				i = len(out) - 1
				index[key] = i
			}
			out[i].AnnotationsCount++
			out[i].OrderedAnnotationIDs = append(out[i].OrderedAnnotationIDs, a.ID)
		}
	}
	if i, ok := index[model.UnassignedKey]; ok {
		out[i].AnnotationsCount = len(s.anns)
	}
	return out
}

// Tags derives the tags referenced by archived annotations in first-seen order.
func (s *Snapshot) Tags() []model.Tag {
	out := []model.Tag{}
	index := map[string]int{}
	for _, a := range s.anns {
		for _, t := range a.Tags {
			i, seen := index[t.ID]
			if !seen {
				entry := t
				entry.AnnotationsCount = 0
				out = append(out, entry)
				i = len(out) - 1
				index[t.ID] = i
			}
			out[i].AnnotationsCount++
		}
	}
	return out
}
