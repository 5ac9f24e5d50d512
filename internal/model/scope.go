package model

// ScopeKind discriminates Scope.
type ScopeKind int

const (
	ScopeAll ScopeKind = iota
	ScopeFolder
	ScopeTag
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeAll:
		return "all"
	case ScopeFolder:
		return "folder"
	case ScopeTag:
		return "tag"
	default:
		return "unknown"
	}
}

// Scope selects which annotations a page is drawn from.
// Only the field matching Kind is meaningful.
type Scope struct {
	Kind   ScopeKind
	Folder Folder
	Tag    Tag
}

// AllAnnotations selects every annotation.
func AllAnnotations() Scope { return Scope{Kind: ScopeAll} }

// InFolder selects annotations in f. The Unassigned folder selects everything.
func InFolder(f Folder) Scope { return Scope{Kind: ScopeFolder, Folder: f} }

// WithTag selects annotations carrying t.
func WithTag(t Tag) Scope { return Scope{Kind: ScopeTag, Tag: t} }

// UnassignedKey is the cache key of the id-less folder.
const UnassignedKey = "unassigned"

// FolderKey returns the natural cache key of f.
func FolderKey(f Folder) string {
	if f.Unassigned() {
		return UnassignedKey
	}
	return *f.ID
}
