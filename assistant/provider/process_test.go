package provider

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contractx "github.com/tanpawarit/student-assistant/assistant/contract"
)

func shellProvider(script string) *ProcessProvider {
	return NewProcessProvider("test", "sh", "-c", script, "sh")
}

func TestProcessProviderPassesInputAsLastArgument(t *testing.T) {
	t.Parallel()

	p := shellProvider(`printf '{"weak_topics":["%s"]}' "$1"`)
	out, err := p.Invoke(context.Background(), "algebra")
	require.NoError(t, err)

	assert.Equal(t, 0, out.ExitCode)
	assert.JSONEq(t, `{"weak_topics":["algebra"]}`, string(out.Document))
	assert.Empty(t, out.Diagnostics)
}

func TestProcessProviderCapturesStderrAndExitCode(t *testing.T) {
	t.Parallel()

	p := shellProvider(`echo '{"weak_topics":["algebra"]}'; echo boom >&2; exit 3`)
	out, err := p.Invoke(context.Background(), "x")
	require.NoError(t, err)

	assert.Equal(t, 3, out.ExitCode)
	assert.True(t, out.Failed())
	assert.True(t, out.HasDiagnostics())
	assert.Equal(t, "boom\n", string(out.Diagnostics))
	assert.Contains(t, string(out.Document), "algebra")
}

func TestProcessProviderMissingBinary(t *testing.T) {
	t.Parallel()

	p := NewProcessProvider("missing", "definitely-not-a-real-binary-4821")
	_, err := p.Invoke(context.Background(), "x")
	require.Error(t, err)
}

func TestProcessProviderEmptyCommand(t *testing.T) {
	t.Parallel()

	p := &ProcessProvider{Name: "empty"}
	_, err := p.Invoke(context.Background(), "x")
	require.ErrorIs(t, err, contractx.ErrValidation)
}

func TestProcessProviderTimeoutKillsChild(t *testing.T) {
	t.Parallel()

	p := shellProvider(`sleep 5`)
	p.Timeout = 50 * time.Millisecond

	start := time.Now()
	out, err := p.Invoke(context.Background(), "x")
	require.NoError(t, err)

	assert.True(t, out.Failed())
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestProcessProviderCancelKillsForkedChildren(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"foreground child": `sleep 5; echo '{"weak_topics":[]}'`,
		"background child": `(sleep 5) & echo '{"weak_topics":[]}'; sleep 5`,
	}
	for name, script := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			start := time.Now()
			out, err := shellProvider(script).Invoke(ctx, "x")
			require.NoError(t, err)

			assert.Equal(t, -1, out.ExitCode)
			assert.Less(t, time.Since(start), 3*time.Second)
		})
	}
}
