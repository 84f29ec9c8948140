package view

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/student-assistant/assistant/contract"
	storex "github.com/tanpawarit/student-assistant/assistant/store"
)

const (
	msgInvalidYouTubeURL = "Invalid YouTube URL."
	msgSummaryMissing    = "Summary is missing in the response."
	msgSummarizeError    = "Failed to summarize."
)

type SummarizerView struct {
	api   Backend
	store *storex.Store

	summarizing atomic.Bool
	err         inline
}

func NewSummarizerView(api Backend, store *storex.Store) *SummarizerView {
	return &SummarizerView{api: api, store: store}
}

// Summarize validates videoURL locally before any request; the stored
// summary is titled with the video id.
func (v *SummarizerView) Summarize(ctx context.Context, videoURL string) bool {
	if strings.TrimSpace(videoURL) == "" {
		return false
	}
	if !IsYouTubeURL(videoURL) {
		v.err.set(msgInvalidYouTubeURL)
		return false
	}
	if !v.summarizing.CompareAndSwap(false, true) {
		return false
	}
	defer v.summarizing.Store(false)
	v.err.set("")

	res, err := v.api.Summarize(ctx, contractx.SummarizeRequest{VideoURL: videoURL})
	if err != nil {
		log.Error().Err(err).Str("view", "summarizer").Str("video_url", videoURL).Msg("summarize request failed")
		v.err.set(summarizeErrorText(err))
		return true
	}
	if res.Summary == "" {
		v.err.set(msgSummaryMissing)
		return true
	}

	v.store.AddVideoSummary(videoURL, YouTubeVideoID(videoURL), res.Summary)
	return true
}

// ClearError mirrors editing the url field.
func (v *SummarizerView) ClearError() {
	v.err.set("")
}

func (v *SummarizerView) Summarizing() bool {
	return v.summarizing.Load()
}

func (v *SummarizerView) Error() string {
	return v.err.get()
}

func summarizeErrorText(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var derr *contractx.DispatchError
	if errors.As(err, &derr) && derr.Message != "" {
		return derr.Message
	}
	return msgSummarizeError
}
