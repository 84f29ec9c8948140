package provider

import (
	"context"

	contractx "github.com/tanpawarit/student-assistant/assistant/contract"
)

// Func runs an in-process computation. A returned error is reported the way a
// failing script would report it: diagnostics plus a non-zero exit code.
func Func(fn func(ctx context.Context, input string) ([]byte, error)) contractx.Provider {
	return contractx.ProviderFunc(func(ctx context.Context, input string) (contractx.Output, error) {
		doc, err := fn(ctx, input)
		if err != nil {
			return contractx.Output{
				Document:    doc,
				Diagnostics: []byte(err.Error()),
				ExitCode:    1,
			}, nil
		}
		return contractx.Output{Document: doc}, nil
	})
}
