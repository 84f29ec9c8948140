package provider

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/student-assistant/assistant/contract"
)

var _ contractx.Provider = (*ProcessProvider)(nil)

// ProcessProvider runs `Command Args... input` once per invocation and buffers
// both output streams until the process exits.
type ProcessProvider struct {
	Name    string
	Command string
	Args    []string
	Dir     string
	Env     []string
	Timeout time.Duration
}

// waitDelay bounds how long Invoke keeps reading output after the context is
// done and the process group has been killed.
const waitDelay = time.Second

func NewProcessProvider(name, command string, args ...string) *ProcessProvider {
	return &ProcessProvider{
		Name:    name,
		Command: command,
		Args:    args,
	}
}

func (p *ProcessProvider) Invoke(ctx context.Context, input string) (contractx.Output, error) {
	if strings.TrimSpace(p.Command) == "" {
		return contractx.Output{}, fmt.Errorf("%w: provider=%s has no command", contractx.ErrValidation, p.Name)
	}

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	args := make([]string, 0, len(p.Args)+1)
	args = append(args, p.Args...)
	args = append(args, input)

	cmd := exec.CommandContext(ctx, p.Command, args...)
	cmd.Dir = p.Dir
	if len(p.Env) > 0 {
		cmd.Env = append(os.Environ(), p.Env...)
	}

	killProcessGroup(cmd)
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()

	out := contractx.Output{
		Document:    stdout.Bytes(),
		Diagnostics: stderr.Bytes(),
	}

	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
	case errors.As(runErr, &exitErr):
		// -1 when the process was killed, e.g. by the context deadline
		out.ExitCode = exitErr.ExitCode()
	case errors.Is(runErr, exec.ErrWaitDelay):
		// a child outside the group held the pipes past waitDelay
		out.ExitCode = -1
	default:
		return contractx.Output{}, fmt.Errorf("start provider=%s: %w", p.Name, runErr)
	}

	log.Debug().
		Str("provider", p.Name).
		Int("exit_code", out.ExitCode).
		Int("stdout_bytes", len(out.Document)).
		Int("stderr_bytes", len(out.Diagnostics)).
		Dur("duration", time.Since(start)).
		Msg("provider process closed")

	return out, nil
}
