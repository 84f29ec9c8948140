package chat

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	contractx "github.com/tanpawarit/student-assistant/assistant/contract"
	togetherx "github.com/tanpawarit/student-assistant/pkg/together"
)

type Backend string

const (
	BackendEino Backend = "eino"
	BackendSDK  Backend = "sdk"
)

type Config struct {
	Backend string `split_words:"true" default:"eino"`
}

var (
	_ contractx.Provider = (*GraphProvider)(nil)
	_ contractx.Provider = (*SDKProvider)(nil)
)

// GraphProvider answers one message through a compiled eino graph.
type GraphProvider struct {
	runner compose.Runnable[map[string]any, string]
}

func NewGraphProvider(ctx context.Context, chatModel einomodel.BaseChatModel) (*GraphProvider, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("%w: chat model is required", contractx.ErrValidation)
	}
	runner, err := compileReplyGraph(ctx, chatModel)
	if err != nil {
		return nil, err
	}
	return &GraphProvider{runner: runner}, nil
}

func (p *GraphProvider) Invoke(ctx context.Context, input string) (contractx.Output, error) {
	reply, err := p.runner.Invoke(ctx, map[string]any{
		"message": input,
	})
	if err != nil {
		return contractx.Output{}, fmt.Errorf("%w: chat graph invoke: %v", contractx.ErrProviderFailure, err)
	}
	return contractx.Output{Document: []byte(reply)}, nil
}

// completionsAPI is the slice of the openai-go client the SDK provider needs.
type completionsAPI interface {
	New(ctx context.Context, body openaisdk.ChatCompletionNewParams, opts ...option.RequestOption) (*openaisdk.ChatCompletion, error)
}

// SDKProvider calls chat completions directly through openai-go.
type SDKProvider struct {
	completions completionsAPI
	model       string
	maxTokens   *int
	temperature *float32
}

func NewSDKProvider(client *openaisdk.Client, cfg togetherx.Config) (*SDKProvider, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: openai client is required", contractx.ErrValidation)
	}
	return &SDKProvider{
		completions: &client.Chat.Completions,
		model:       cfg.ModelName(),
		maxTokens:   cfg.MaxCompletionToken,
		temperature: cfg.Temperature,
	}, nil
}

func (p *SDKProvider) Invoke(ctx context.Context, input string) (contractx.Output, error) {
	params := openaisdk.ChatCompletionNewParams{
		Model: openaisdk.ChatModel(p.model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.UserMessage(input),
		},
	}
	if p.maxTokens != nil {
		params.MaxTokens = openaisdk.Int(int64(*p.maxTokens))
	}
	if p.temperature != nil {
		params.Temperature = openaisdk.Float(float64(*p.temperature))
	}

	resp, err := p.completions.New(ctx, params)
	if err != nil {
		return contractx.Output{}, fmt.Errorf("%w: chat completion: %v", contractx.ErrProviderFailure, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return contractx.Output{}, fmt.Errorf("%w: chat completion has no choices", contractx.ErrResponseShape)
	}

	reply := resp.Choices[0].Message.Content
	if strings.TrimSpace(reply) == "" {
		return contractx.Output{}, fmt.Errorf("%w: model reply is empty", contractx.ErrResponseShape)
	}
	return contractx.Output{Document: []byte(reply)}, nil
}

// NewProvider builds the provider for the configured backend.
func NewProvider(ctx context.Context, cfg Config, model togetherx.Config) (contractx.Provider, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(cfg.Backend))) {
	case BackendEino, "":
		chatModel, err := model.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
		}
		return NewGraphProvider(ctx, chatModel)
	case BackendSDK:
		return NewSDKProvider(togetherx.NewClient(model), model)
	default:
		return nil, fmt.Errorf("%w: unknown chat backend=%q", contractx.ErrValidation, cfg.Backend)
	}
}
