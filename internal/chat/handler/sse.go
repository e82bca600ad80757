package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// writeSSEMessage writes a raw SSE field such as "retry: 3000".
func writeSSEMessage(w http.ResponseWriter, flusher http.Flusher, field string, value string) error {
	if _, err := fmt.Fprintf(w, "%s: %s\n\n", field, value); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

// writeSSEEvent writes a named event with its data payload. Multi-line
// payloads are split into one data line per line, as the SSE wire format
// requires.
func (h *Handler) writeSSEEvent(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, event string, data string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "event: %s\n", event)
	for _, line := range strings.Split(data, "\n") {
		fmt.Fprintf(&b, "data: %s\n", line)
	}
	b.WriteString("\n")

	if _, err := w.Write([]byte(b.String())); err != nil {
		h.logger.Warn(ctx, "failed to write SSE event")
		return err
	}
	flusher.Flush()
	return nil
}
