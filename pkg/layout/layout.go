// Package layout owns the split-pane ratio, the drag gesture that resizes
// it, the fullscreen-preview flag, and the color theme. It is independent of
// document content.
package layout

// Split ratio bounds, in percent of total width granted to the edit pane.
const (
	MinRatio     = 15.0
	MaxRatio     = 85.0
	DefaultRatio = 50.0
)

// Split tracks the pane divider. The drag gesture is an explicit state
// machine (idle -> dragging -> idle); pointer and touch streams feed the
// same methods.
type Split struct {
	ratio      float64
	dragging   bool
	fullscreen bool
}

// NewSplit creates a split at the default ratio.
func NewSplit() *Split {
	return &Split{ratio: DefaultRatio}
}

// Ratio returns the edit-pane share in percent, always within bounds.
func (s *Split) Ratio() float64 { return s.ratio }

// Dragging reports whether a drag is in progress.
func (s *Split) Dragging() bool { return s.dragging }

// StartDrag begins a drag operation.
func (s *Split) StartDrag() { s.dragging = true }

// Drag recomputes the ratio from the pointer position relative to the
// container bounds. Ignored when no drag is in progress.
func (s *Split) Drag(pointerX, boundsLeft, boundsWidth float64) {
	if !s.dragging || boundsWidth <= 0 {
		return
	}
	s.ratio = clamp((pointerX - boundsLeft) / boundsWidth * 100)
}

// EndDrag ends the current drag operation.
func (s *Split) EndDrag() { s.dragging = false }

// SetRatio sets the ratio directly, clamped to the legal range.
func (s *Split) SetRatio(ratio float64) { s.ratio = clamp(ratio) }

// FullscreenPreview reports whether the preview pane occupies the full
// viewport.
func (s *Split) FullscreenPreview() bool { return s.fullscreen }

// ToggleFullscreenPreview flips the fullscreen-preview flag. The ratio is
// untouched, so toggling off restores the prior layout.
func (s *Split) ToggleFullscreenPreview() bool {
	s.fullscreen = !s.fullscreen
	return s.fullscreen
}

// EditorWidth returns the effective edit-pane share given the fullscreen
// flag: zero while the preview owns the viewport.
func (s *Split) EditorWidth() float64 {
	if s.fullscreen {
		return 0
	}
	return s.ratio
}

func clamp(v float64) float64 {
	if v < MinRatio {
		return MinRatio
	}
	if v > MaxRatio {
		return MaxRatio
	}
	return v
}
