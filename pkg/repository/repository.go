package repository

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/inkpad/inkpad/internal/store"
)

// ErrLastDocument is returned when a delete would empty the collection.
var ErrLastDocument = errors.New("cannot delete the last remaining document")

// Repository holds the document collection in insertion order and tracks
// which document is active. Every mutation rewrites the whole snapshot
// through the store before returning; writes are last-writer-wins.
// Thread-safe for concurrent WASM callbacks.
type Repository struct {
	mu       sync.Mutex
	store    store.Store
	docs     []*Document
	activeID string

	// awaitingAdoption holds the id of a freshly created document whose
	// content the session has not yet adopted into its buffer. An empty
	// content update for that id is dropped so a stale buffer cannot wipe
	// the document right after creation.
	awaitingAdoption string

	// now is swappable so tests can control timestamps.
	now func() time.Time
}

// New creates a repository over the given store. Call Bootstrap before any
// other operation.
func New(s store.Store) *Repository {
	return &Repository{store: s, now: time.Now}
}

// Bootstrap loads the collection from the store. Absent or unreadable data
// falls open to seeding a single welcome document; storage errors are never
// propagated.
func (r *Repository) Bootstrap() {
	r.mu.Lock()
	defer r.mu.Unlock()

	raw, ok, err := r.store.Get(store.KeyDocuments)
	if err == nil && ok {
		if docs, activeID, loaded := decodeSnapshot(raw); loaded {
			r.docs = docs
			r.activeID = activeID
			if r.lookup(r.activeID) == nil && len(r.docs) > 0 {
				r.activeID = r.docs[0].ID
			}
			return
		}
	}

	now := r.now()
	seed := &Document{
		ID:        uuid.NewString(),
		Title:     WelcomeTitle,
		Content:   welcomeContent,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.docs = []*Document{seed}
	r.activeID = seed.ID
	r.persist()
}

// decodeSnapshot accepts the current wrapper shape and, for data written
// before the wrapper existed, a bare document array. A JSON null inside the
// document array decodes as a nil pointer; such snapshots are rejected as a
// whole so Bootstrap falls through to seeding.
func decodeSnapshot(raw string) ([]*Document, string, bool) {
	var snap snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err == nil && validDocs(snap.Documents) {
		return snap.Documents, snap.ActiveID, true
	}

	var bare []*Document
	if err := json.Unmarshal([]byte(raw), &bare); err == nil && validDocs(bare) {
		return bare, bare[0].ID, true
	}

	return nil, "", false
}

func validDocs(docs []*Document) bool {
	if len(docs) == 0 {
		return false
	}
	for _, d := range docs {
		if d == nil {
			return false
		}
	}
	return true
}

// Create appends a new empty document, makes it active, and returns its id.
// The session is expected to adopt the (empty) content into its buffer.
func (r *Repository) Create() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	doc := &Document{
		ID:        uuid.NewString(),
		Title:     DefaultTitle,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.docs = append(r.docs, doc)
	r.activeID = doc.ID
	r.awaitingAdoption = doc.ID
	r.persist()
	return doc.ID
}

// Open makes the document with the given id active and returns its content
// for the session to adopt. Unknown ids are a no-op; the second return
// reports whether the document exists.
func (r *Repository) Open(id string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := r.lookup(id)
	if doc == nil {
		return "", false
	}
	r.activeID = id
	r.awaitingAdoption = ""
	r.persist()
	return doc.Content, true
}

// Rename updates the document's title. No uniqueness check; unknown ids are
// a no-op.
func (r *Repository) Rename(id, newTitle string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := r.lookup(id)
	if doc == nil {
		return
	}
	doc.Title = newTitle
	doc.UpdatedAt = r.now()
	r.persist()
}

// UpdateContent replaces the document's content. An empty update for a
// freshly created document that was never adopted is dropped (see
// awaitingAdoption).
func (r *Repository) UpdateContent(id, newContent string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := r.lookup(id)
	if doc == nil {
		return
	}
	if newContent == "" && id == r.awaitingAdoption {
		return
	}
	r.awaitingAdoption = ""
	doc.Content = newContent
	doc.UpdatedAt = r.now()
	r.persist()
}

// Delete removes the document. Refuses with ErrLastDocument when only one
// document remains. When the active document is deleted, the first remaining
// document becomes active.
func (r *Repository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.docs) == 1 {
		return ErrLastDocument
	}
	idx := -1
	for i, d := range r.docs {
		if d.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	r.docs = append(r.docs[:idx], r.docs[idx+1:]...)
	if r.activeID == id {
		r.activeID = r.docs[0].ID
	}
	if r.awaitingAdoption == id {
		r.awaitingAdoption = ""
	}
	r.persist()
	return nil
}

// ImportFromText creates a document from an imported file. The title is the
// file name with any .md or .markdown suffix stripped; the new document
// becomes active. Returns the new id.
func (r *Repository) ImportFromText(name, text string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	title := strings.TrimSuffix(strings.TrimSuffix(name, ".markdown"), ".md")
	if title == "" {
		title = DefaultTitle
	}

	now := r.now()
	doc := &Document{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   text,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.docs = append(r.docs, doc)
	r.activeID = doc.ID
	r.awaitingAdoption = ""
	r.persist()
	return doc.ID
}

// List returns the documents in insertion order. The returned slice is a
// copy; the documents themselves are shared and must not be mutated.
func (r *Repository) List() []*Document {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Document, len(r.docs))
	copy(out, r.docs)
	return out
}

// Active returns the active document, or nil before Bootstrap.
func (r *Repository) Active() *Document {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.lookup(r.activeID)
}

// ActiveID returns the id of the active document.
func (r *Repository) ActiveID() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.activeID
}

// Count returns the number of documents.
func (r *Repository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.docs)
}

func (r *Repository) lookup(id string) *Document {
	for _, d := range r.docs {
		if d.ID == id {
			return d
		}
	}
	return nil
}

// persist writes the whole snapshot. Callers hold the mutex. A failed write
// leaves the in-memory state authoritative; the next mutation retries.
func (r *Repository) persist() {
	raw, err := json.Marshal(snapshot{
		SchemaVersion: snapshotSchemaVersion,
		ActiveID:      r.activeID,
		Documents:     r.docs,
	})
	if err != nil {
		return
	}
	_ = r.store.Set(store.KeyDocuments, string(raw))
}
