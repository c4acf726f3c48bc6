package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpad/inkpad/internal/store"
	"github.com/inkpad/inkpad/pkg/repository"
)

// upper is a stand-in for the external markup renderer.
var upper = RendererFunc(strings.ToUpper)

func newTestSession(t *testing.T) (*Session, *repository.Repository) {
	t.Helper()

	repo := repository.New(store.NewMemoryStore())
	repo.Bootstrap()
	return New(repo, upper), repo
}

func TestNewAdoptsActiveContent(t *testing.T) {
	s, repo := newTestSession(t)

	assert.Equal(t, repo.Active().Content, s.Buffer())
	assert.Equal(t, strings.ToUpper(repo.Active().Content), s.Preview())
}

// Typing into the buffer lands in the repository with no explicit save
// call, and the preview re-renders.
func TestSetBufferAutosaves(t *testing.T) {
	s, repo := newTestSession(t)

	s.SetBuffer("XY")

	assert.Equal(t, "XY", repo.Active().Content)
	assert.Equal(t, "XY", s.Buffer())
	assert.Equal(t, "XY", s.Preview())
}

func TestNewDocumentClearsBuffer(t *testing.T) {
	s, repo := newTestSession(t)
	s.SetBuffer("Z")
	prev := repo.ActiveID()

	id := s.NewDocument()

	assert.Equal(t, id, repo.ActiveID())
	assert.Empty(t, s.Buffer())
	assert.Empty(t, s.Preview())

	// The previous document keeps its content.
	content, ok := repo.Open(prev)
	require.True(t, ok)
	assert.Equal(t, "Z", content)
}

func TestOpenDocumentReplacesBufferWholesale(t *testing.T) {
	s, repo := newTestSession(t)
	welcome := repo.ActiveID()
	s.NewDocument()
	s.SetBuffer("scratch")

	require.True(t, s.OpenDocument(welcome))
	assert.Equal(t, repo.Active().Content, s.Buffer())

	assert.False(t, s.OpenDocument("nope"))
	assert.Equal(t, welcome, repo.ActiveID())
}

func TestTitleEditMode(t *testing.T) {
	s, repo := newTestSession(t)

	// Outside the mode, title keystrokes are ignored.
	s.SetTitle("ignored")
	assert.Equal(t, repository.WelcomeTitle, repo.Active().Title)

	s.BeginTitleEdit()
	assert.True(t, s.TitleEditing())
	s.SetTitle("My Notes")
	assert.Equal(t, "My Notes", repo.Active().Title)

	s.EndTitleEdit()
	assert.False(t, s.TitleEditing())
	s.SetTitle("late")
	assert.Equal(t, "My Notes", repo.Active().Title)
}

func TestTitleEditModeExitsOnSwitch(t *testing.T) {
	s, repo := newTestSession(t)
	welcome := repo.ActiveID()

	s.BeginTitleEdit()
	s.NewDocument()
	assert.False(t, s.TitleEditing())

	s.BeginTitleEdit()
	require.True(t, s.OpenDocument(welcome))
	assert.False(t, s.TitleEditing())
}

func TestAdoptActive(t *testing.T) {
	s, repo := newTestSession(t)

	repo.ImportFromText("import.md", "# Imported")
	s.AdoptActive()

	assert.Equal(t, "# Imported", s.Buffer())
	assert.Equal(t, "# IMPORTED", s.Preview())
}
