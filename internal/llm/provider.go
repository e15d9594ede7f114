package llm

import "context"

// Completion is the raw result of one model exchange.
type Completion struct {
	Text          string
	TokensUsed    int
	RetrievalUsed bool
}

// CompletionProvider is the narrow interface the coaching engine consumes for
// model access. One bounded attempt per call: retry and backoff, if wanted,
// belong to the provider client, never to callers.
type CompletionProvider interface {
	// Complete sends one instructions+prompt exchange and returns the text
	// response with usage metadata. Implementations must honor ctx deadlines.
	Complete(ctx context.Context, instructions, prompt string) (*Completion, error)

	// ModelName identifies the underlying model for provenance metadata.
	ModelName() string

	Close() error
}
