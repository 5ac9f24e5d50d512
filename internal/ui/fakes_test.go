package ui

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/and161185/glnotes/internal/errs"
	"github.com/and161185/glnotes/internal/model"
)

// syncBuffer is a bytes.Buffer safe for the loader's spinner goroutine.
type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

type step struct {
	kind   string // select, confirm, secret
	answer string // substring of the option to select, or the secret
	yes    bool
}

func pick(substr string) step  { return step{kind: "select", answer: substr} }
func confirm(yes bool) step    { return step{kind: "confirm", yes: yes} }
func secret(value string) step { return step{kind: "secret", answer: value} }

// scripted answers prompts in order; an exhausted script aborts.
type scripted struct {
	t      *testing.T
	steps  []step
	titles []string
	shown  [][]string
}

func (s *scripted) next(kind, title string) (step, error) {
	s.titles = append(s.titles, title)
	if len(s.steps) == 0 {
		return step{}, ErrAborted
	}
	st := s.steps[0]
	s.steps = s.steps[1:]
	if st.kind != kind {
		s.t.Fatalf("prompt %q: got %s, script expects %s", title, kind, st.kind)
	}
	return st, nil
}

func (s *scripted) Select(_ context.Context, title string, options []string) (int, error) {
	s.shown = append(s.shown, options)
	st, err := s.next("select", title)
	if err != nil {
		return 0, err
	}
	for i, o := range options {
		if strings.Contains(o, st.answer) {
			return i, nil
		}
	}
	s.t.Fatalf("prompt %q: no option contains %q in %q", title, st.answer, options)
	return 0, nil
}

func (s *scripted) Confirm(_ context.Context, question string) (bool, error) {
	st, err := s.next("confirm", question)
	return st.yes, err
}

func (s *scripted) Secret(_ context.Context, prompt string) (string, error) {
	st, err := s.next("secret", prompt)
	return st.answer, err
}

// fakeSource serves n generated annotations and documents from a map.
type fakeSource struct {
	anns    []model.Annotation
	docs    map[string]model.Document
	offline bool
	starts  []int
}

func newFakeSource(n int) *fakeSource {
	s := &fakeSource{docs: map[string]model.Document{}}
	for i := 0; i < n; i++ {
		title := fmt.Sprintf("Note %03d", i)
		s.anns = append(s.anns, model.Annotation{
			ID: fmt.Sprintf("a%d", i), Locale: "eng",
			Note:    &model.Note{Title: &title},
			Folders: []model.Folder{}, Tags: []model.Tag{},
		})
	}
	return s
}

func (s *fakeSource) Offline() bool { return s.offline }

func (s *fakeSource) Folders(context.Context) ([]model.Folder, error) {
	id := "f1"
	return []model.Folder{{ID: &id, Name: "Study", AnnotationsCount: len(s.anns)}}, nil
}

func (s *fakeSource) Tags(context.Context) ([]model.Tag, error) {
	return []model.Tag{{ID: "t1", Name: "Faith", AnnotationsCount: len(s.anns)}}, nil
}

func (s *fakeSource) Page(_ context.Context, _ model.Scope, start, size int) (model.Page, error) {
	s.starts = append(s.starts, start)
	end := min(start+size, len(s.anns))
	page := s.anns[min(start, end):end]
	return model.Page{Annotations: page, Count: len(page), Total: len(s.anns)}, nil
}

func (s *fakeSource) DocumentFor(_ context.Context, a model.Annotation) (model.Document, error) {
	uri, ok := a.DocumentURI()
	if !ok {
		return model.Document{}, errs.ErrNotFound
	}
	d, ok := s.docs[uri]
	if !ok {
		return model.Document{}, errs.ErrNotFound
	}
	return d, nil
}
