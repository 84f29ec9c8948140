// Package dispatcher turns validated requests into provider invocations and
// maps raw provider output onto route results or a single DispatchError.
package dispatcher

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/student-assistant/assistant/contract"
	validationx "github.com/tanpawarit/student-assistant/pkg/validation"
)

const (
	msgNoURL            = "No URL provided"
	msgAnalysisFailed   = "Failed to run analysis"
	msgAnalysisInvalid  = "Invalid JSON returned from script"
	msgNoTopic          = "No topic provided"
	msgRecommendFailed  = "Failed to run recommender"
	msgRecommendInvalid = "Recommender returned invalid JSON."
	msgNoVideoURL       = "No video URL provided"
	msgSummarizeFailed  = "Failed to run summarizer"
	msgSummarizeInvalid = "Summarizer returned invalid JSON."
	msgNoMessage        = "No message provided"
	msgChatFailed       = "Chat failed"
	analysisResultType  = "text/csv"
)

type Providers struct {
	Analyzer    contractx.Provider
	Recommender contractx.Provider
	Summarizer  contractx.Provider
	Chat        contractx.Provider
}

type Option func(*Dispatcher)

// WithTimeout bounds every provider call. Zero leaves calls bound only by the
// caller's context.
func WithTimeout(d time.Duration) Option {
	return func(s *Dispatcher) {
		s.timeout = d
	}
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Dispatcher) {
		if fn != nil {
			s.newID = fn
		}
	}
}

type Dispatcher struct {
	analyzer    contractx.Provider
	recommender contractx.Provider
	summarizer  contractx.Provider
	chat        contractx.Provider

	timeout time.Duration
	newID   func() string
}

func New(p Providers, opts ...Option) (*Dispatcher, error) {
	if p.Analyzer == nil {
		return nil, errors.New("analyzer provider is required")
	}
	if p.Recommender == nil {
		return nil, errors.New("recommender provider is required")
	}
	if p.Summarizer == nil {
		return nil, errors.New("summarizer provider is required")
	}
	if p.Chat == nil {
		return nil, errors.New("chat provider is required")
	}

	d := &Dispatcher{
		analyzer:    p.Analyzer,
		recommender: p.Recommender,
		summarizer:  p.Summarizer,
		chat:        p.Chat,
		newID:       newUUID,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

/* ----------------------------------- analyze ----------------------------------- */

// Analyze runs the weak-topic analysis on the file at req.URL. Any exit
// status other than zero, or anything written to diagnostics, fails the call.
func (d *Dispatcher) Analyze(ctx context.Context, req contractx.AnalyzeRequest) (contractx.AnalyzeResult, error) {
	if err := validationx.Struct(req); err != nil {
		return contractx.AnalyzeResult{}, contractx.ClientInputError(msgNoURL)
	}

	out, err := d.invoke(ctx, "analyze", d.analyzer, req.URL)
	if err != nil {
		return contractx.AnalyzeResult{}, contractx.ProviderFailure(msgAnalysisFailed, err)
	}
	if out.Failed() || out.HasDiagnostics() {
		msg := string(out.Diagnostics)
		if strings.TrimSpace(msg) == "" {
			msg = msgAnalysisFailed
		}
		log.Error().
			Str("route", "analyze").
			Int("exit_code", out.ExitCode).
			Bytes("stderr", out.Diagnostics).
			Msg("analysis provider failed")
		return contractx.AnalyzeResult{}, contractx.ProviderFailure(msg, contractx.ErrProviderFailure)
	}

	var doc analysisDocument
	if err := decodeDocument(out.Document, &doc); err != nil {
		log.Error().Err(err).Str("route", "analyze").Bytes("stdout", out.Document).Msg("analysis document rejected")
		return contractx.AnalyzeResult{}, contractx.ResponseShapeError(msgAnalysisInvalid, err)
	}

	return contractx.AnalyzeResult{
		FileName:  fileNameOf(req.URL),
		FileType:  analysisResultType,
		FileSize:  nil,
		Analysis1: doc.WeakTopics,
	}, nil
}

// fileNameOf returns the last "/" segment of raw exactly as written.
func fileNameOf(raw string) string {
	if i := strings.LastIndex(raw, "/"); i >= 0 {
		return raw[i+1:]
	}
	return raw
}

/* ---------------------------------- recommend ---------------------------------- */

// Recommend asks the recommender for videos on req.Topic. Diagnostics are
// only logged; an {"error"} document is passed through as the failure text.
func (d *Dispatcher) Recommend(ctx context.Context, req contractx.RecommendRequest) (contractx.RecommendResult, error) {
	if err := validationx.Struct(req); err != nil {
		return contractx.RecommendResult{}, contractx.ClientInputError(msgNoTopic)
	}

	out, err := d.invoke(ctx, "recommend", d.recommender, req.Topic)
	if err != nil {
		return contractx.RecommendResult{}, contractx.ProviderFailure(msgRecommendFailed, err)
	}
	if derr := recommendPolicy.check(out); derr != nil {
		return contractx.RecommendResult{}, derr
	}

	var doc recommendationDocument
	if err := decodeDocument(out.Document, &doc); err != nil {
		log.Error().Err(err).Str("route", "recommend").Bytes("stdout", out.Document).Msg("recommendation document rejected")
		return contractx.RecommendResult{}, contractx.ResponseShapeError(msgRecommendInvalid, err)
	}

	recs, err := normalizeRecommendations(doc.Recommendations, d.newID)
	if err != nil {
		log.Error().Err(err).Str("route", "recommend").Msg("recommendation document rejected")
		return contractx.RecommendResult{}, contractx.ResponseShapeError(msgRecommendInvalid, err)
	}
	return contractx.RecommendResult{Recommendations: recs}, nil
}

/* ---------------------------------- summarize ---------------------------------- */

func (d *Dispatcher) Summarize(ctx context.Context, req contractx.SummarizeRequest) (contractx.SummaryResult, error) {
	if err := validationx.Struct(req); err != nil {
		return contractx.SummaryResult{}, contractx.ClientInputError(msgNoVideoURL)
	}

	out, err := d.invoke(ctx, "summarize", d.summarizer, req.VideoURL)
	if err != nil {
		return contractx.SummaryResult{}, contractx.ProviderFailure(msgSummarizeFailed, err)
	}
	if derr := summarizePolicy.check(out); derr != nil {
		return contractx.SummaryResult{}, derr
	}

	var doc summaryDocument
	if err := decodeDocument(out.Document, &doc); err != nil {
		log.Error().Err(err).Str("route", "summarize").Bytes("stdout", out.Document).Msg("summary document rejected")
		return contractx.SummaryResult{}, contractx.ResponseShapeError(msgSummarizeInvalid, err)
	}
	return contractx.SummaryResult{Summary: doc.Summary}, nil
}

/* ------------------------------------- chat ------------------------------------ */

func (d *Dispatcher) Chat(ctx context.Context, req contractx.ChatRequest) (contractx.ChatResult, error) {
	if err := validationx.Struct(req); err != nil {
		return contractx.ChatResult{}, contractx.ClientInputError(msgNoMessage)
	}

	out, err := d.invoke(ctx, "chat", d.chat, req.Message)
	if err != nil {
		return contractx.ChatResult{}, contractx.ProviderFailure(msgChatFailed, err)
	}
	if out.Failed() {
		log.Error().
			Str("route", "chat").
			Int("exit_code", out.ExitCode).
			Bytes("stderr", out.Diagnostics).
			Msg("chat provider failed")
		return contractx.ChatResult{}, contractx.ProviderFailure(msgChatFailed, contractx.ErrProviderFailure)
	}

	reply := string(out.Document)
	if strings.TrimSpace(reply) == "" {
		return contractx.ChatResult{}, contractx.ResponseShapeError(msgChatFailed, errors.New("empty reply"))
	}
	return contractx.ChatResult{Reply: reply}, nil
}

/* ----------------------------------- helpers ----------------------------------- */

func (d *Dispatcher) invoke(ctx context.Context, route string, p contractx.Provider, input string) (contractx.Output, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	started := time.Now()
	out, err := p.Invoke(ctx, input)
	if err != nil {
		log.Error().Err(err).Str("route", route).Dur("elapsed", time.Since(started)).Msg("provider could not run")
		return contractx.Output{}, err
	}
	log.Debug().
		Str("route", route).
		Int("exit_code", out.ExitCode).
		Int("stdout_bytes", len(out.Document)).
		Int("stderr_bytes", len(out.Diagnostics)).
		Dur("elapsed", time.Since(started)).
		Msg("provider finished")
	return out, nil
}

// documentPolicy is the lenient failure policy: an error document reported
// by the provider wins, then a failing exit status. Diagnostics never fail
// the call on their own.
type documentPolicy struct {
	route   string
	failed  string
	invalid string
	// exitWinsOverParse reports a failing exit status with the failed message
	// even when the document could not be parsed.
	exitWinsOverParse bool
}

var (
	recommendPolicy = documentPolicy{
		route:             "recommend",
		failed:            msgRecommendFailed,
		invalid:           msgRecommendInvalid,
		exitWinsOverParse: true,
	}
	summarizePolicy = documentPolicy{
		route:   "summarize",
		failed:  msgSummarizeFailed,
		invalid: msgSummarizeInvalid,
	}
)

func (p documentPolicy) check(out contractx.Output) *contractx.DispatchError {
	if out.HasDiagnostics() {
		log.Warn().Str("route", p.route).Bytes("stderr", out.Diagnostics).Msg("provider wrote diagnostics")
	}

	if !json.Valid(trimmed(out.Document)) {
		log.Error().Str("route", p.route).Int("exit_code", out.ExitCode).Bytes("stdout", out.Document).Msg("provider document is not json")
		if out.Failed() && p.exitWinsOverParse {
			return contractx.ProviderFailure(p.failed, contractx.ErrProviderFailure)
		}
		return contractx.ResponseShapeError(p.invalid, contractx.ErrResponseShape)
	}

	if msg, ok := reportedError(out.Document); ok {
		log.Error().Str("route", p.route).Str("provider_error", msg).Msg("provider reported error")
		return contractx.ProviderFailure(msg, contractx.ErrProviderFailure)
	}

	if out.Failed() {
		log.Error().Str("route", p.route).Int("exit_code", out.ExitCode).Msg("provider exited with failure")
		return contractx.ProviderFailure(p.failed, contractx.ErrProviderFailure)
	}
	return nil
}

func trimmed(b []byte) []byte {
	return []byte(strings.TrimSpace(string(b)))
}
