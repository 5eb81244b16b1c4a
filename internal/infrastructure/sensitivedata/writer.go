package sensitivedata

import (
	"io"
	"sync"
)

// Writer scrubs tracked values from everything written through it. It is
// meant to sit under a slog handler, which writes one record per call.
type Writer struct {
	mu       sync.Mutex
	w        io.Writer
	provider *Provider
}

// NewWriter wraps w. A nil provider passes data through unchanged.
func NewWriter(w io.Writer, p *Provider) *Writer {
	return &Writer{w: w, provider: p}
}

// Write reports len(p) on success even when the scrubbed output differs in
// length.
func (w *Writer) Write(p []byte) (int, error) {
	out := p
	if w.provider != nil {
		out = []byte(w.provider.Scrub(string(p)))
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.w.Write(out); err != nil {
		return 0, err
	}
	return len(p), nil
}
