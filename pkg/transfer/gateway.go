// Package transfer moves documents across the application boundary: source
// export, PDF export through an external renderer, and file import.
package transfer

import (
	"context"
	"errors"
	"sync"
	"unicode/utf8"

	"github.com/inkpad/inkpad/pkg/repository"
)

var (
	// ErrNoActiveDocument is returned when an export runs before bootstrap.
	ErrNoActiveDocument = errors.New("no active document")

	// ErrExportInFlight rejects a PDF export while another is pending, so a
	// second call cannot trample the layout state the first one must restore.
	ErrExportInFlight = errors.New("a PDF export is already in flight")

	// ErrImportDecode is returned when an imported file is not valid text.
	ErrImportDecode = errors.New("imported file is not valid UTF-8 text")
)

// MIMEMarkdown is the MIME type of the source export artifact.
const MIMEMarkdown = "text/markdown"

// Options drive the external PDF renderer.
type Options struct {
	Margin     float64 `json:"margin"`
	Filename   string  `json:"filename"`
	Scale      float64 `json:"scale"`
	PageFormat string  `json:"pageFormat"`
}

// PDFRenderer rasterizes the rendered preview into a downloadable PDF. It
// may fail; the gateway restores the preview layout either way.
type PDFRenderer interface {
	Render(ctx context.Context, opts Options) error
}

// PreviewFrame grants scoped access to the preview pane's capture state.
// ExpandForCapture relaxes the height/overflow constraints so the full
// content is captured, and returns the function that restores them.
type PreviewFrame interface {
	ExpandForCapture() (restore func())
}

// Gateway implements import and export over the repository.
type Gateway struct {
	repo  *repository.Repository
	pdf   PDFRenderer
	frame PreviewFrame

	mu       sync.Mutex
	inFlight bool
}

// New creates a gateway. pdf and frame may be nil when PDF export is not
// offered.
func New(repo *repository.Repository, pdf PDFRenderer, frame PreviewFrame) *Gateway {
	return &Gateway{repo: repo, pdf: pdf, frame: frame}
}

// ExportSource serializes the active document's content into a
// filesystem-downloadable artifact named "<title>.md". Pure and synchronous.
func (g *Gateway) ExportSource() (filename string, data []byte, err error) {
	doc := g.repo.Active()
	if doc == nil {
		return "", nil, ErrNoActiveDocument
	}
	return doc.Title + ".md", []byte(doc.Content), nil
}

// ExportPDF drives the external renderer over the rendered preview. The
// preview frame is expanded for the duration of the call and restored on
// every exit path, success or failure. Overlapping exports are rejected.
func (g *Gateway) ExportPDF(ctx context.Context, opts Options) error {
	if g.pdf == nil {
		return errors.New("no PDF renderer configured")
	}
	doc := g.repo.Active()
	if doc == nil {
		return ErrNoActiveDocument
	}

	g.mu.Lock()
	if g.inFlight {
		g.mu.Unlock()
		return ErrExportInFlight
	}
	g.inFlight = true
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		g.inFlight = false
		g.mu.Unlock()
	}()

	if opts.Filename == "" {
		opts.Filename = doc.Title + ".pdf"
	}

	if g.frame != nil {
		restore := g.frame.ExpandForCapture()
		defer restore()
	}

	return g.pdf.Render(ctx, opts)
}

// Import decodes a user-selected file as text and creates a new active
// document from it. A decode failure leaves the collection unchanged.
func (g *Gateway) Import(name string, data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", ErrImportDecode
	}
	return g.repo.ImportFromText(name, string(data)), nil
}
