package layout

import (
	"testing"

	"github.com/inkpad/inkpad/internal/store"
)

func TestDragRecomputesRatio(t *testing.T) {
	s := NewSplit()
	if s.Ratio() != DefaultRatio {
		t.Fatalf("Expected default ratio %v, got %v", DefaultRatio, s.Ratio())
	}

	s.StartDrag()
	if !s.Dragging() {
		t.Fatal("Expected dragging after StartDrag")
	}

	// Pointer at 300px inside a 1000px container starting at 0.
	s.Drag(300, 0, 1000)
	if s.Ratio() != 30 {
		t.Errorf("Expected ratio 30, got %v", s.Ratio())
	}

	// Container offset is subtracted first.
	s.Drag(700, 200, 1000)
	if s.Ratio() != 50 {
		t.Errorf("Expected ratio 50, got %v", s.Ratio())
	}

	s.EndDrag()
	if s.Dragging() {
		t.Fatal("Expected idle after EndDrag")
	}
}

func TestDragClampsToBounds(t *testing.T) {
	s := NewSplit()
	s.StartDrag()

	// Far left of the container.
	s.Drag(-5000, 0, 1000)
	if s.Ratio() != MinRatio {
		t.Errorf("Expected clamp to %v, got %v", MinRatio, s.Ratio())
	}

	// Far right.
	s.Drag(5000, 0, 1000)
	if s.Ratio() != MaxRatio {
		t.Errorf("Expected clamp to %v, got %v", MaxRatio, s.Ratio())
	}
}

func TestDragIgnoredWhenIdle(t *testing.T) {
	s := NewSplit()

	s.Drag(300, 0, 1000)
	if s.Ratio() != DefaultRatio {
		t.Errorf("Move without StartDrag changed ratio to %v", s.Ratio())
	}

	// Degenerate bounds are ignored too.
	s.StartDrag()
	s.Drag(300, 0, 0)
	if s.Ratio() != DefaultRatio {
		t.Errorf("Zero-width bounds changed ratio to %v", s.Ratio())
	}
}

func TestFullscreenPreviewRestoresRatio(t *testing.T) {
	s := NewSplit()
	s.SetRatio(70)

	if on := s.ToggleFullscreenPreview(); !on {
		t.Fatal("Expected fullscreen on")
	}
	if s.EditorWidth() != 0 {
		t.Errorf("Expected editor hidden in fullscreen, got %v", s.EditorWidth())
	}

	if on := s.ToggleFullscreenPreview(); on {
		t.Fatal("Expected fullscreen off")
	}
	if s.EditorWidth() != 70 {
		t.Errorf("Expected prior ratio 70 restored, got %v", s.EditorWidth())
	}
}

func TestSetRatioClamps(t *testing.T) {
	s := NewSplit()
	s.SetRatio(1)
	if s.Ratio() != MinRatio {
		t.Errorf("Expected %v, got %v", MinRatio, s.Ratio())
	}
	s.SetRatio(99)
	if s.Ratio() != MaxRatio {
		t.Errorf("Expected %v, got %v", MaxRatio, s.Ratio())
	}
}

func TestThemeDefaultsToDark(t *testing.T) {
	m := NewThemeManager(store.NewMemoryStore())
	if m.Theme() != ThemeDark {
		t.Errorf("Expected dark default, got %v", m.Theme())
	}
}

func TestThemeUnrecognizedValueDefaultsToDark(t *testing.T) {
	s := store.NewMemoryStore()
	if err := s.Set(store.KeyTheme, "solarized"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	m := NewThemeManager(s)
	if m.Theme() != ThemeDark {
		t.Errorf("Expected dark for unrecognized value, got %v", m.Theme())
	}
}

// A toggle persists, and a fresh manager picks the persisted value up.
func TestThemeTogglePersists(t *testing.T) {
	s := store.NewMemoryStore()
	m := NewThemeManager(s)

	if got := m.Toggle(); got != ThemeLight {
		t.Fatalf("Expected light after toggle, got %v", got)
	}
	v, ok, err := s.Get(store.KeyTheme)
	if err != nil || !ok || v != "light" {
		t.Errorf("Expected persisted light, got %q (ok=%v err=%v)", v, ok, err)
	}

	m2 := NewThemeManager(s)
	if m2.Theme() != ThemeLight {
		t.Errorf("Expected reloaded theme light, got %v", m2.Theme())
	}

	if got := m2.Toggle(); got != ThemeDark {
		t.Errorf("Expected dark after second toggle, got %v", got)
	}
}
