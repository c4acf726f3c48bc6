// Package repository owns the document collection and the active-document
// pointer. It is the single source of truth for persisted content; the
// editor session only ever holds a transient copy of the active document.
package repository

import "time"

// DefaultTitle is the title assigned to documents created without a name.
const DefaultTitle = "Untitled Document"

// Document is the unit of persisted content.
type Document struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// snapshot is the persisted shape of the whole collection. SchemaVersion
// tags the format so future layouts can migrate instead of discarding data.
type snapshot struct {
	SchemaVersion int         `json:"schemaVersion"`
	ActiveID      string      `json:"activeId"`
	Documents     []*Document `json:"documents"`
}

// snapshotSchemaVersion is the current persisted format.
const snapshotSchemaVersion = 1

// WelcomeTitle and welcomeContent seed the collection when the store holds
// no documents yet.
const WelcomeTitle = "Welcome"

const welcomeContent = `# Welcome to Inkpad

## Features
- **Bold text** and *italic text*
- ` + "`Inline code`" + ` and code blocks
- Lists and links

### Code Block Example
` + "```go" + `
func hello() {
	fmt.Println("Hello, World!")
}
` + "```" + `

### Try it out!
Type your markdown on the left and see it rendered on the right.`
