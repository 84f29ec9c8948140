package cmd

import (
	"context"
	"fmt"

	analysisx "github.com/tanpawarit/student-assistant/assistant/analysis"
	chatx "github.com/tanpawarit/student-assistant/assistant/chat"
	dispatcherx "github.com/tanpawarit/student-assistant/assistant/dispatcher"
	httpapix "github.com/tanpawarit/student-assistant/assistant/httpapi"
	providerx "github.com/tanpawarit/student-assistant/assistant/provider"
	viewx "github.com/tanpawarit/student-assistant/assistant/view"
	cloudinaryx "github.com/tanpawarit/student-assistant/pkg/cloudinary"
	configx "github.com/tanpawarit/student-assistant/pkg/config"
	togetherx "github.com/tanpawarit/student-assistant/pkg/together"
)

const (
	analyzerScript    = "analyzer_api.py"
	recommenderScript = "recommender_api.py"
	summarizerScript  = "summarizer_api.py"
)

func newDispatcher(ctx context.Context) (*dispatcherx.Dispatcher, error) {
	serverCfg, err := configx.New[httpapix.Config]("")
	if err != nil {
		return nil, err
	}

	analyzerCfg, err := configx.New[providerx.Config]("ANALYZER")
	if err != nil {
		return nil, err
	}
	builtin := analysisx.NewAnalyzer(analyzerCfg.Timeout).Provider()
	analyzer, err := providerx.Build("analyzer", *analyzerCfg, analyzerScript, builtin)
	if err != nil {
		return nil, err
	}

	recommenderCfg, err := configx.New[providerx.Config]("RECOMMENDER")
	if err != nil {
		return nil, err
	}
	recommender, err := providerx.Build("recommender", *recommenderCfg, recommenderScript, nil)
	if err != nil {
		return nil, err
	}

	summarizerCfg, err := configx.New[providerx.Config]("SUMMARIZER")
	if err != nil {
		return nil, err
	}
	summarizer, err := providerx.Build("summarizer", *summarizerCfg, summarizerScript, nil)
	if err != nil {
		return nil, err
	}

	chatCfg, err := configx.New[chatx.Config]("CHAT")
	if err != nil {
		return nil, err
	}
	modelCfg, err := configx.New[togetherx.Config]("TOGETHER")
	if err != nil {
		return nil, err
	}
	chat, err := chatx.NewProvider(ctx, *chatCfg, *modelCfg)
	if err != nil {
		return nil, fmt.Errorf("build chat provider: %w", err)
	}

	return dispatcherx.New(dispatcherx.Providers{
		Analyzer:    analyzer,
		Recommender: recommender,
		Summarizer:  summarizer,
		Chat:        chat,
	}, dispatcherx.WithTimeout(serverCfg.ProviderTimeout))
}

// newBackend returns the in-process dispatcher with --local, otherwise a
// client for the running API.
func newBackend(ctx context.Context) (viewx.Backend, error) {
	if local {
		d, err := newDispatcher(ctx)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
	cfg, err := configx.New[viewx.ClientConfig]("")
	if err != nil {
		return nil, err
	}
	client, err := viewx.NewAPIClient(*cfg)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func newUploader() (*cloudinaryx.Client, error) {
	cfg, err := configx.New[cloudinaryx.Config]("CLOUDINARY")
	if err != nil {
		return nil, err
	}
	return cloudinaryx.NewClient(*cfg)
}
