package ports

import "context"

// Recommender is the driven port for the generative text service. The reply
// is free text expected to contain one fenced structured block; decoding it
// is the protocol codec's job, not the adapter's.
type Recommender interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}
