//go:build js && wasm

package main

import (
	"context"
	"errors"
	"syscall/js"

	"github.com/inkpad/inkpad/internal/store"
	"github.com/inkpad/inkpad/pkg/session"
	"github.com/inkpad/inkpad/pkg/transfer"
)

// =============================================================================
// localStorage Store
// =============================================================================

// localStorageStore adapts window.localStorage to the Store interface.
type localStorageStore struct {
	storage js.Value
}

func newLocalStorageStore() *localStorageStore {
	return &localStorageStore{storage: js.Global().Get("localStorage")}
}

func (s *localStorageStore) Get(key string) (string, bool, error) {
	v := s.storage.Call("getItem", key)
	if v.IsNull() || v.IsUndefined() {
		return "", false, nil
	}
	return v.String(), true, nil
}

func (s *localStorageStore) Set(key, value string) error {
	// setItem throws when the quota is exceeded.
	defer func() { recover() }()
	s.storage.Call("setItem", key, value)
	return nil
}

var _ store.Store = (*localStorageStore)(nil)

// =============================================================================
// Markup renderer collaborator
// =============================================================================

// newMarkupRenderer binds the external markup renderer the page provides as
// window.renderMarkdown(markup) -> html. Absent renderer falls back to
// identity so the core keeps working.
func newMarkupRenderer() session.Renderer {
	return session.RendererFunc(func(markup string) string {
		render := js.Global().Get("renderMarkdown")
		if render.IsUndefined() || render.IsNull() {
			return markup
		}
		return render.Invoke(markup).String()
	})
}

// =============================================================================
// PDF renderer collaborator
// =============================================================================

// jsPDFRenderer drives the page-provided window.renderPdf(element, opts)
// which returns a Promise.
type jsPDFRenderer struct{}

func newPDFRenderer() transfer.PDFRenderer { return jsPDFRenderer{} }

func (jsPDFRenderer) Render(ctx context.Context, opts transfer.Options) error {
	render := js.Global().Get("renderPdf")
	if render.IsUndefined() || render.IsNull() {
		return errors.New("renderPdf is not available on this page")
	}

	target := previewElement()
	if target.IsNull() {
		return errors.New("preview element not found")
	}

	jsOpts := map[string]interface{}{
		"margin":     opts.Margin,
		"filename":   opts.Filename,
		"scale":      opts.Scale,
		"pageFormat": opts.PageFormat,
	}

	done := make(chan error, 1)
	var onOK, onErr js.Func
	onOK = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		done <- nil
		return nil
	})
	onErr = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		msg := "pdf render failed"
		if len(args) > 0 {
			msg = args[0].Call("toString").String()
		}
		done <- errors.New(msg)
		return nil
	})
	defer onOK.Release()
	defer onErr.Release()

	render.Invoke(target, js.ValueOf(jsOpts)).Call("then", onOK, onErr)

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// =============================================================================
// Preview frame
// =============================================================================

// domPreviewFrame relaxes the preview pane's height/overflow constraints for
// full-content capture and hands back the restore closure.
type domPreviewFrame struct{}

func newPreviewFrame() transfer.PreviewFrame { return domPreviewFrame{} }

func previewElement() js.Value {
	return js.Global().Get("document").Call("getElementById", "preview")
}

func (domPreviewFrame) ExpandForCapture() func() {
	el := previewElement()
	if el.IsNull() {
		return func() {}
	}
	style := el.Get("style")
	prevHeight := style.Get("height").String()
	prevOverflow := style.Get("overflow").String()

	style.Set("height", "auto")
	style.Set("overflow", "visible")

	return func() {
		style.Set("height", prevHeight)
		style.Set("overflow", prevOverflow)
	}
}

// =============================================================================
// Blob download
// =============================================================================

// downloadBlob triggers a browser download of data under the given name.
func downloadBlob(name, mime string, data []byte) {
	jsArray := js.Global().Get("Uint8Array").New(len(data))
	js.CopyBytesToJS(jsArray, data)

	parts := js.Global().Get("Array").New(1)
	parts.SetIndex(0, jsArray)
	blob := js.Global().Get("Blob").New(parts, js.ValueOf(map[string]interface{}{"type": mime}))
	url := js.Global().Get("URL").Call("createObjectURL", blob)

	doc := js.Global().Get("document")
	anchor := doc.Call("createElement", "a")
	anchor.Set("href", url)
	anchor.Set("download", name)
	anchor.Call("click")

	js.Global().Get("URL").Call("revokeObjectURL", url)
}

// =============================================================================
// Window-scoped drag listeners
// =============================================================================

// dragListeners holds the window-scoped handlers for the divider drag; they
// live for the session and are removed on teardown.
var dragListeners []struct {
	event string
	fn    js.Func
}

// dragFuncs are the unique js.Func values backing dragListeners; a handler
// can serve more than one event, so release happens here exactly once.
var dragFuncs []js.Func

func setDragCursor(dragging bool) {
	body := js.Global().Get("document").Get("body")
	if dragging {
		body.Get("style").Set("cursor", "col-resize")
	} else {
		body.Get("style").Set("cursor", "")
	}
}

// containerBounds reads the editor container's bounding box.
func containerBounds() (left, width float64, ok bool) {
	el := js.Global().Get("document").Call("getElementById", "editor-container")
	if el.IsNull() {
		return 0, 0, false
	}
	rect := el.Call("getBoundingClientRect")
	return rect.Get("left").Float(), rect.Get("width").Float(), true
}

func registerDragListeners() {
	window := js.Global()

	move := func(clientX float64) {
		if !split.Dragging() {
			return
		}
		left, width, ok := containerBounds()
		if !ok {
			return
		}
		split.Drag(clientX, left, width)
	}

	onMouseMove := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) > 0 {
			move(args[0].Get("clientX").Float())
		}
		return nil
	})
	onTouchMove := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) > 0 {
			touches := args[0].Get("touches")
			if touches.Get("length").Int() > 0 {
				move(touches.Index(0).Get("clientX").Float())
			}
		}
		return nil
	})
	onRelease := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if split.Dragging() {
			split.EndDrag()
			setDragCursor(false)
		}
		return nil
	})

	for _, l := range []struct {
		event string
		fn    js.Func
	}{
		{"mousemove", onMouseMove},
		{"touchmove", onTouchMove},
		{"mouseup", onRelease},
		{"touchend", onRelease},
	} {
		window.Call("addEventListener", l.event, l.fn)
		dragListeners = append(dragListeners, l)
	}
	dragFuncs = []js.Func{onMouseMove, onTouchMove, onRelease}
}

func removeDragListeners() {
	window := js.Global()
	for _, l := range dragListeners {
		window.Call("removeEventListener", l.event, l.fn)
	}
	for _, f := range dragFuncs {
		f.Release()
	}
	dragListeners = nil
	dragFuncs = nil
}
