package driven

import "context"

// Summarizer produces a short description of content for the sidecar note
// file. It is optional; the pipeline works without one.
type Summarizer interface {
	// Summarize returns a one-paragraph summary of text.
	Summarize(ctx context.Context, text string) (string, error)
}
