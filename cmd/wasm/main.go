//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/inkpad/inkpad/internal/store"
	"github.com/inkpad/inkpad/pkg/layout"
	"github.com/inkpad/inkpad/pkg/repository"
	"github.com/inkpad/inkpad/pkg/search"
	"github.com/inkpad/inkpad/pkg/session"
	"github.com/inkpad/inkpad/pkg/transfer"
)

// Version info
const Version = "1.0.0"

// Global state
var (
	repo     *repository.Repository
	sess     *session.Session
	split    *layout.Split
	themes   *layout.ThemeManager
	gateway  *transfer.Gateway
	searcher *search.Searcher
	sqlStore *store.SQLiteStore // optional SQLite layer for OPFS sync

	registered []js.Func // everything to release on teardown
)

func main() {
	s := newLocalStorageStore()

	repo = repository.New(s)
	repo.Bootstrap()

	sess = session.New(repo, newMarkupRenderer())
	split = layout.NewSplit()
	themes = layout.NewThemeManager(s)
	gateway = transfer.New(repo, newPDFRenderer(), newPreviewFrame())
	searcher = search.New(repo)

	fmt.Println("[Inkpad] WASM Ready v" + Version)

	registerExports()
	registerDragListeners()

	select {}
}

// export wraps a callback so it is released on teardown.
func export(fn func(this js.Value, args []js.Value) interface{}) js.Func {
	f := js.FuncOf(fn)
	registered = append(registered, f)
	return f
}

func registerExports() {
	js.Global().Set("Inkpad", js.ValueOf(map[string]interface{}{
		"version": export(getVersion),
		// Document Repository
		"listDocuments":  export(listDocuments),
		"activeDocument": export(activeDocument),
		"createDocument": export(createDocument),
		"openDocument":   export(openDocument),
		"renameDocument": export(renameDocument),
		"deleteDocument": export(deleteDocument),
		// Editor Session
		"setBuffer":      export(setBuffer),
		"buffer":         export(getBuffer),
		"preview":        export(getPreview),
		"beginTitleEdit": export(beginTitleEdit),
		"setTitle":       export(setTitle),
		"endTitleEdit":   export(endTitleEdit),
		// Layout / View
		"splitRatio":       export(splitRatio),
		"dragStart":        export(dragStart),
		"dragMove":         export(dragMove),
		"dragEnd":          export(dragEnd),
		"toggleFullscreen": export(toggleFullscreen),
		"theme":            export(getTheme),
		"toggleTheme":      export(toggleTheme),
		// Transfer Gateway
		"importFile":   export(importFile),
		"exportSource": export(exportSource),
		"exportPdf":    export(exportPdf),
		// Search
		"search": export(searchDocuments),
		// SQLite layer (OPFS sync)
		"storeInit":   export(storeInit),
		"storeExport": export(storeExport),
		"storeImport": export(storeImport),
		// Lifecycle
		"teardown": export(teardown),
	}))
}

// =============================================================================
// Document Repository API
// =============================================================================

func listDocuments(this js.Value, args []js.Value) interface{} {
	bytes, err := json.Marshal(repo.List())
	if err != nil {
		return errorResult(err.Error())
	}
	return string(bytes)
}

func activeDocument(this js.Value, args []js.Value) interface{} {
	doc := repo.Active()
	if doc == nil {
		return "null"
	}
	bytes, _ := json.Marshal(doc)
	return string(bytes)
}

func createDocument(this js.Value, args []js.Value) interface{} {
	id := sess.NewDocument()
	return successResult(id)
}

func openDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("openDocument requires 1 arg: id")
	}
	if !sess.OpenDocument(args[0].String()) {
		return errorResult("document not found: " + args[0].String())
	}
	return successResult("opened")
}

func renameDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errorResult("renameDocument requires 2 args: id, title")
	}
	repo.Rename(args[0].String(), args[1].String())
	return successResult("renamed")
}

func deleteDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("deleteDocument requires 1 arg: id")
	}
	wasActive := args[0].String() == repo.ActiveID()
	if err := repo.Delete(args[0].String()); err != nil {
		return errorResult(err.Error())
	}
	if wasActive {
		sess.AdoptActive() // re-adopt whichever document became active
	}
	return successResult("deleted")
}

// =============================================================================
// Editor Session API
// =============================================================================

func setBuffer(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("setBuffer requires 1 arg: text")
	}
	sess.SetBuffer(args[0].String())
	return sess.Preview()
}

func getBuffer(this js.Value, args []js.Value) interface{} {
	return sess.Buffer()
}

func getPreview(this js.Value, args []js.Value) interface{} {
	return sess.Preview()
}

func beginTitleEdit(this js.Value, args []js.Value) interface{} {
	sess.BeginTitleEdit()
	return successResult("title edit")
}

func setTitle(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("setTitle requires 1 arg: title")
	}
	sess.SetTitle(args[0].String())
	return successResult("title set")
}

func endTitleEdit(this js.Value, args []js.Value) interface{} {
	sess.EndTitleEdit()
	return successResult("title edit done")
}

// =============================================================================
// Layout / View API
// =============================================================================

func splitRatio(this js.Value, args []js.Value) interface{} {
	return split.EditorWidth()
}

func dragStart(this js.Value, args []js.Value) interface{} {
	split.StartDrag()
	setDragCursor(true)
	return nil
}

// dragMove: [pointerX, boundsLeft, boundsWidth], fed by both pointer and
// touch streams.
func dragMove(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 || !split.Dragging() {
		return nil
	}
	split.Drag(args[0].Float(), args[1].Float(), args[2].Float())
	return split.Ratio()
}

func dragEnd(this js.Value, args []js.Value) interface{} {
	split.EndDrag()
	setDragCursor(false)
	return nil
}

func toggleFullscreen(this js.Value, args []js.Value) interface{} {
	return split.ToggleFullscreenPreview()
}

func getTheme(this js.Value, args []js.Value) interface{} {
	return string(themes.Theme())
}

func toggleTheme(this js.Value, args []js.Value) interface{} {
	return string(themes.Toggle())
}

// =============================================================================
// Transfer Gateway API
// =============================================================================

// importFile: [name string, data Uint8Array]
func importFile(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errorResult("importFile requires 2 args: name, data")
	}

	name := args[0].String()
	jsArray := args[1]
	data := make([]byte, jsArray.Get("length").Int())
	js.CopyBytesToGo(data, jsArray)

	id, err := gateway.Import(name, data)
	if err != nil {
		return errorResult(err.Error())
	}
	sess.AdoptActive()
	return successResult(id)
}

func exportSource(this js.Value, args []js.Value) interface{} {
	name, data, err := gateway.ExportSource()
	if err != nil {
		return errorResult(err.Error())
	}
	downloadBlob(name, transfer.MIMEMarkdown, data)
	return successResult(name)
}

// exportPdf: [optsJSON string (optional)]
// Returns a Promise that settles when the renderer does. The preview layout
// is restored before the promise settles, on success and on failure.
func exportPdf(this js.Value, args []js.Value) interface{} {
	var opts transfer.Options
	if len(args) > 0 && args[0].String() != "" && args[0].String() != "null" {
		if err := json.Unmarshal([]byte(args[0].String()), &opts); err != nil {
			return errorResult("invalid options json: " + err.Error())
		}
	}

	promise, resolve, reject := makePromise()

	go func() {
		if err := gateway.ExportPDF(context.Background(), opts); err != nil {
			reject.Invoke(js.Global().Get("Error").New(err.Error()))
			return
		}
		resolve.Invoke(successResult("exported"))
	}()

	return promise
}

// =============================================================================
// Search API
// =============================================================================

func searchDocuments(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("search requires 1 arg: query")
	}
	results, err := searcher.Search(args[0].String())
	if err != nil {
		return errorResult(err.Error())
	}
	bytes, _ := json.Marshal(results)
	return string(bytes)
}

// =============================================================================
// SQLite Store API (OPFS sync)
// =============================================================================

func storeInit(this js.Value, args []js.Value) interface{} {
	var err error
	sqlStore, err = store.NewSQLiteStore()
	if err != nil {
		return errorResult("failed to initialize SQLite store: " + err.Error())
	}
	return successResult("store initialized")
}

// storeExport serializes the SQLite store to a Uint8Array for OPFS
// persistence.
func storeExport(this js.Value, args []js.Value) interface{} {
	if sqlStore == nil {
		return errorResult("store not initialized")
	}

	data, err := sqlStore.Export()
	if err != nil {
		return errorResult("export failed: " + err.Error())
	}

	jsArray := js.Global().Get("Uint8Array").New(len(data))
	js.CopyBytesToJS(jsArray, data)
	return jsArray
}

// storeImport restores the SQLite store from a Uint8Array.
func storeImport(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("storeImport requires 1 arg: data (Uint8Array)")
	}
	if sqlStore == nil {
		return errorResult("store not initialized")
	}

	jsArray := args[0]
	data := make([]byte, jsArray.Get("length").Int())
	js.CopyBytesToGo(data, jsArray)

	if err := sqlStore.Import(data); err != nil {
		return errorResult("import failed: " + err.Error())
	}
	return successResult(fmt.Sprintf("imported %d bytes", len(data)))
}

// =============================================================================
// Lifecycle
// =============================================================================

// teardown deregisters the window-scoped drag listeners and releases every
// exported js.Func.
func teardown(this js.Value, args []js.Value) interface{} {
	removeDragListeners()
	funcs := registered
	registered = nil
	// Release after this callback has returned; teardown itself is in the list.
	go func() {
		for _, f := range funcs {
			f.Release()
		}
	}()
	js.Global().Delete("Inkpad")
	return nil
}

func getVersion(this js.Value, args []js.Value) interface{} {
	return Version
}

// =============================================================================
// Helpers
// =============================================================================

// makePromise creates a JS Promise and returns it along with resolve/reject
// functions.
func makePromise() (promise js.Value, resolve js.Value, reject js.Value) {
	var resolveFn, rejectFn js.Value
	handler := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		resolveFn = args[0]
		rejectFn = args[1]
		return nil
	})
	defer handler.Release()

	promise = js.Global().Get("Promise").New(handler)
	return promise, resolveFn, rejectFn
}

// Helper: Create error result
func errorResult(msg string) interface{} {
	result := map[string]interface{}{
		"error": msg,
	}
	jsonBytes, _ := json.Marshal(result)
	return string(jsonBytes)
}

// Helper: Create success result
func successResult(msg string) interface{} {
	result := map[string]interface{}{
		"success": msg,
	}
	jsonBytes, _ := json.Marshal(result)
	return string(jsonBytes)
}
