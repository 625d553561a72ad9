// Package completion abstracts the Completion Service the pipeline
// drafts content with. The core never depends on a concrete provider:
// it sees only Client, and it assumes the model can and will return
// malformed output (see extract.go for the repair path).
package completion

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when the provider produced no text.
var ErrEmptyResponse = errors.New("completion returned empty response")

// Client is the minimal interface the pipeline uses to call the
// Completion Service.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
