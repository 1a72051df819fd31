package ai

import "context"

// Inline is one media attachment sent alongside the prompt.
type Inline struct {
	MIMEType string
	Data     []byte
}

// Client is the remote text-completion provider. The returned text is
// free-form and unreliable: markers may be missing or contradictory, the
// parser must tolerate any subset.
type Client interface {
	Complete(ctx context.Context, prompt string, media []Inline) (string, error)
}
