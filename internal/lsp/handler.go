package lsp

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"qasmc/internal/gatelib"
)

var log = commonlog.GetLogger("qasmc.lsp")

// SemanticTokenTypes is the legend advertised to clients; token types are
// sent as indexes into it.
var SemanticTokenTypes = []string{
	"keyword",
	"type",
	"function",
	"variable",
	"parameter",
	"number",
	"operator",
	"string",
	"comment",
}

// SemanticTokenModifiers are sent as a bitmask over this list.
var SemanticTokenModifiers = []string{
	"declaration",
	"definition",
	"readonly",
	"static",
}

// QasmHandler implements the LSP server handlers for OpenQASM documents
type QasmHandler struct {
	mu      sync.RWMutex
	lib     *gatelib.Library
	content map[string]string
}

// NewQasmHandler creates a handler checking documents against lib, or the
// embedded gate library when lib is nil.
func NewQasmHandler(lib *gatelib.Library) *QasmHandler {
	if lib == nil {
		lib = gatelib.Default()
	}
	return &QasmHandler{
		lib:     lib,
		content: make(map[string]string),
	}
}

// Initialize advertises full document sync and semantic tokens.
func (h *QasmHandler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Info("initialize")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: ptrBool(true),
			},
		},
	}, nil
}

func (h *QasmHandler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Info("initialized")
	return nil
}

func (h *QasmHandler) Shutdown(ctx *glsp.Context) error {
	log.Info("shutdown")
	return nil
}

func (h *QasmHandler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	return nil
}

// TextDocumentDidOpen stores the document and publishes its diagnostics
func (h *QasmHandler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	log.Infof("opened %s", params.TextDocument.URI)
	return h.update(ctx, params.TextDocument.URI, params.TextDocument.Text)
}

// TextDocumentDidChange re-checks the document. Only full synchronization is
// advertised, so the last change carries the whole text.
func (h *QasmHandler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	log.Debugf("changed %s", params.TextDocument.URI)

	text, ok := "", false
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text, ok = c.Text, true
		case protocol.TextDocumentContentChangeEvent:
			if c.Range == nil {
				text, ok = c.Text, true
			}
		}
	}
	if !ok {
		return fmt.Errorf("no full-text change for %s", params.TextDocument.URI)
	}
	return h.update(ctx, params.TextDocument.URI, text)
}

// TextDocumentDidClose forgets the document and clears its diagnostics
func (h *QasmHandler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	log.Infof("closed %s", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}

	h.mu.Lock()
	delete(h.content, path)
	h.mu.Unlock()

	sendDiagnosticNotification(ctx, params.TextDocument.URI, []protocol.Diagnostic{})
	return nil
}

// TextDocumentSemanticTokensFull classifies the open document, or the file
// on disk when the client never opened it.
func (h *QasmHandler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	source, err := h.source(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	return &protocol.SemanticTokens{Data: encodeSemanticTokens(collectSemanticTokens(source))}, nil
}

func (h *QasmHandler) update(ctx *glsp.Context, rawURI protocol.DocumentUri, text string) error {
	path, err := uriToPath(rawURI)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.content[path] = text
	h.mu.Unlock()

	sendDiagnosticNotification(ctx, rawURI, Diagnose(path, text, h.lib))
	return nil
}

// source returns the open document text, falling back to the file on disk.
func (h *QasmHandler) source(rawURI protocol.DocumentUri) (string, error) {
	path, err := uriToPath(rawURI)
	if err != nil {
		return "", err
	}

	h.mu.RLock()
	text, ok := h.content[path]
	h.mu.RUnlock()
	if ok {
		return text, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return string(content), nil
}

// uriToPath converts a file:// URI to a local path.
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path

	// On Windows, remove leading slash (e.g., /C:/...) -> C:/...
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}

	return filepath.FromSlash(path), nil
}

func sendDiagnosticNotification(ctx *glsp.Context, uri protocol.URI, diagnostics []protocol.Diagnostic) {
	log.Debugf("publishing %d diagnostic(s) for %s", len(diagnostics), uri)

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
