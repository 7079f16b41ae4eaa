package dashboard

import (
	"bytes"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// NotesRenderer turns indicator notes (Markdown) into HTML and memoizes the
// result per source text.
type NotesRenderer struct {
	md    goldmark.Markdown
	mu    sync.RWMutex
	cache map[string]string
}

// NewNotesRenderer builds a renderer with GitHub flavoured extensions.
// Raw HTML in notes is escaped.
func NewNotesRenderer() *NotesRenderer {
	return &NotesRenderer{
		md:    goldmark.New(goldmark.WithExtensions(extension.GFM)),
		cache: map[string]string{},
	}
}

// Render converts source to HTML. Empty input renders as "".
func (n *NotesRenderer) Render(source string) (string, error) {
	if source == "" {
		return "", nil
	}
	n.mu.RLock()
	html, ok := n.cache[source]
	n.mu.RUnlock()
	if ok {
		return html, nil
	}
	var buf bytes.Buffer
	if err := n.md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	html = buf.String()
	n.mu.Lock()
	n.cache[source] = html
	n.mu.Unlock()
	return html, nil
}
