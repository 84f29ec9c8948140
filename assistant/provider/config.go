package provider

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/student-assistant/assistant/contract"
)

type Mode string

const (
	ModeProcess Mode = "process"
	ModeRemote  Mode = "remote"
	ModeBuiltin Mode = "builtin"
)

// Config is read once per provider with a prefix such as ANALYZER or SUMMARIZER.
type Config struct {
	Mode    string        `split_words:"true" default:"process"`
	Command string        `split_words:"true" default:"python"`
	Script  string        `split_words:"true"`
	Dir     string        `split_words:"true"`
	URL     string        `split_words:"true"`
	Token   string        `split_words:"true"`
	Timeout time.Duration `split_words:"true" default:"0s"`
}

// Build returns the provider selected by cfg.Mode. builtin may be nil when the
// route has no in-process implementation.
func Build(name string, cfg Config, defaultScript string, builtin contractx.Provider) (contractx.Provider, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(cfg.Mode))) {
	case ModeProcess, "":
		script := strings.TrimSpace(cfg.Script)
		if script == "" {
			script = defaultScript
		}
		p := NewProcessProvider(name, strings.TrimSpace(cfg.Command), script)
		p.Dir = strings.TrimSpace(cfg.Dir)
		p.Timeout = cfg.Timeout
		return p, nil
	case ModeRemote:
		return NewRemoteProvider(name, cfg.URL, cfg.Timeout, WithToken(cfg.Token))
	case ModeBuiltin:
		if builtin == nil {
			return nil, fmt.Errorf("%w: provider=%s has no builtin mode", contractx.ErrValidation, name)
		}
		return builtin, nil
	default:
		return nil, fmt.Errorf("%w: provider=%s unknown mode=%q", contractx.ErrValidation, name, cfg.Mode)
	}
}
