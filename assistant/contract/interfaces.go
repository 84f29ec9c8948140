package contract

import (
	"context"
	"io"
)

// Provider is one external computation: a child process, a remote service,
// an in-process function or a hosted model. Invoke returns an error only when
// the computation could not be run at all; a computation that ran and failed
// reports it through Output.
type Provider interface {
	Invoke(ctx context.Context, input string) (Output, error)
}

// ProviderFunc adapts a plain function to Provider.
type ProviderFunc func(ctx context.Context, input string) (Output, error)

func (f ProviderFunc) Invoke(ctx context.Context, input string) (Output, error) {
	return f(ctx, input)
}

// Uploader stores a local file on the media host and returns a durable URL.
type Uploader interface {
	Upload(ctx context.Context, fileName string, r io.Reader) (string, error)
}
