package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	contractx "github.com/tanpawarit/student-assistant/assistant/contract"
	renderx "github.com/tanpawarit/student-assistant/assistant/render"
	storex "github.com/tanpawarit/student-assistant/assistant/store"
	viewx "github.com/tanpawarit/student-assistant/assistant/view"
)

// errViewFailed marks a run whose view reported an inline error; the text
// has already been printed.
var errViewFailed = errors.New("request failed")

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <file.csv>",
		Short: "Upload a quiz CSV and list its weak topics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := newBackend(cmd.Context())
			if err != nil {
				return err
			}
			uploader, err := newUploader()
			if err != nil {
				return err
			}
			file, closer, err := viewx.OpenFile(args[0])
			if err != nil {
				return err
			}
			defer closer.Close()

			st := storex.New()
			st.SetActiveTool(contractx.ToolAnalyzer)
			v := viewx.NewAnalyzerView(backend, uploader, st)
			v.Select(file)
			v.Analyze(cmd.Context())

			r := renderx.New(cmd.OutOrStdout(), !noColor)
			if msg := v.Error(); msg != "" {
				r.Error(msg)
				return errViewFailed
			}
			r.AnalysisResults(st.Snapshot().AnalysisResults)
			return nil
		},
	}
	clientFlags(cmd)
	return cmd
}

func newRecommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend <topic>",
		Short: "Recommend videos for a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := newBackend(cmd.Context())
			if err != nil {
				return err
			}

			st := storex.New()
			st.SetActiveTool(contractx.ToolVideoRecommender)
			v := viewx.NewRecommenderView(backend, st)
			v.Search(cmd.Context(), args[0])

			r := renderx.New(cmd.OutOrStdout(), !noColor)
			if msg := v.Error(); msg != "" {
				r.Error(msg)
				return errViewFailed
			}
			r.Recommendations(st.Snapshot().VideoRecommendations)
			return nil
		},
	}
	clientFlags(cmd)
	return cmd
}

func newSummarizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summarize <youtube-url>",
		Short: "Summarize a YouTube video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := newBackend(cmd.Context())
			if err != nil {
				return err
			}

			st := storex.New()
			st.SetActiveTool(contractx.ToolSummarizer)
			v := viewx.NewSummarizerView(backend, st)
			v.Summarize(cmd.Context(), args[0])

			r := renderx.New(cmd.OutOrStdout(), !noColor)
			if msg := v.Error(); msg != "" {
				r.Error(msg)
				return errViewFailed
			}
			r.Summaries(st.Snapshot().VideoSummaries)
			return nil
		},
	}
	clientFlags(cmd)
	return cmd
}
