// Package session owns the live edit buffer bound to the active document
// and the autosave pipeline into the repository. The buffer is a transient
// copy of the active document's content, never a second source of truth.
package session

import (
	"github.com/inkpad/inkpad/pkg/repository"
)

// Renderer turns markup into a rendered preview. It is a pure function of
// its input and is re-invoked on every buffer change.
type Renderer interface {
	Render(markup string) string
}

// RendererFunc adapts a plain function to the Renderer interface.
type RendererFunc func(markup string) string

// Render implements Renderer.
func (f RendererFunc) Render(markup string) string { return f(markup) }

// Session mediates between user input and the repository. Every buffer
// mutation is a persistence-triggering event; there is no explicit save
// action and no dirty flag.
type Session struct {
	repo     *repository.Repository
	renderer Renderer

	buffer       string
	rendered     string
	titleEditing bool
}

// New creates a session over a bootstrapped repository. It adopts the
// active document's content into the buffer immediately.
func New(repo *repository.Repository, renderer Renderer) *Session {
	s := &Session{repo: repo, renderer: renderer}
	if doc := repo.Active(); doc != nil {
		s.adopt(doc.Content)
	}
	return s
}

// adopt replaces the buffer wholesale and refreshes the preview.
func (s *Session) adopt(content string) {
	s.buffer = content
	s.rendered = s.renderer.Render(content)
}

// Buffer returns the live buffer text.
func (s *Session) Buffer() string { return s.buffer }

// Preview returns the rendered output for the current buffer.
func (s *Session) Preview() string { return s.rendered }

// SetBuffer applies an edit. The change is committed to the active document
// and re-rendered before returning.
func (s *Session) SetBuffer(text string) {
	s.buffer = text
	s.repo.UpdateContent(s.repo.ActiveID(), text)
	s.rendered = s.renderer.Render(text)
}

// NewDocument creates an empty document, makes it active, and clears the
// buffer.
func (s *Session) NewDocument() string {
	id := s.repo.Create()
	s.titleEditing = false
	s.adopt("")
	return id
}

// OpenDocument switches the active document and adopts its content.
// Unknown ids leave the session untouched.
func (s *Session) OpenDocument(id string) bool {
	content, ok := s.repo.Open(id)
	if !ok {
		return false
	}
	s.titleEditing = false
	s.adopt(content)
	return true
}

// AdoptActive re-adopts whichever document is currently active, e.g. after
// an import or a delete changed the active pointer outside the session.
func (s *Session) AdoptActive() {
	s.titleEditing = false
	if doc := s.repo.Active(); doc != nil {
		s.adopt(doc.Content)
	}
}

// BeginTitleEdit enters title-edit mode; title keystrokes route to Rename
// until the mode exits.
func (s *Session) BeginTitleEdit() { s.titleEditing = true }

// EndTitleEdit exits title-edit mode (blur or Enter).
func (s *Session) EndTitleEdit() { s.titleEditing = false }

// TitleEditing reports whether title-edit mode is active.
func (s *Session) TitleEditing() bool { return s.titleEditing }

// SetTitle routes a title keystroke to the repository. Ignored outside
// title-edit mode.
func (s *Session) SetTitle(title string) {
	if !s.titleEditing {
		return
	}
	s.repo.Rename(s.repo.ActiveID(), title)
}
