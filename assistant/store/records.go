package store

import (
	"time"

	contractx "github.com/tanpawarit/student-assistant/assistant/contract"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

const Greeting = "Hello! I'm your AI assistant. How can I help you today?"

type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`
}

type AnalysisResult struct {
	ID           string    `json:"id"`
	FileName     string    `json:"fileName"`
	FileType     string    `json:"fileType"`
	FileSize     string    `json:"fileSize"`
	AnalysisData string    `json:"analysisData"`
	Timestamp    time.Time `json:"timestamp"`
}

type VideoRecommendation struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Videos      []contractx.Video `json:"videos"`
	Thumbnail   string            `json:"thumbnail,omitempty"`
	Description string            `json:"description,omitempty"`
}

type VideoSummary struct {
	ID         string    `json:"id"`
	VideoURL   string    `json:"videoUrl"`
	VideoTitle string    `json:"videoTitle,omitempty"`
	Summary    string    `json:"summary"`
	Timestamp  time.Time `json:"timestamp"`
}

// State is a point-in-time copy of everything the views render.
type State struct {
	ActiveTool           contractx.ToolType    `json:"activeTool"`
	Messages             []Message             `json:"messages"`
	IsTyping             bool                  `json:"isTyping"`
	AnalysisResults      []AnalysisResult      `json:"analysisResults"`
	VideoRecommendations []VideoRecommendation `json:"videoRecommendations"`
	VideoSummaries       []VideoSummary        `json:"videoSummaries"`
}

func (s State) clone() State {
	out := s
	out.Messages = cloneSlice(s.Messages)
	out.AnalysisResults = cloneSlice(s.AnalysisResults)
	out.VideoSummaries = cloneSlice(s.VideoSummaries)
	out.VideoRecommendations = make([]VideoRecommendation, len(s.VideoRecommendations))
	for i, rec := range s.VideoRecommendations {
		rec.Videos = cloneSlice(rec.Videos)
		out.VideoRecommendations[i] = rec
	}
	return out
}

// cloneSlice copies in, keeping an empty slice non-nil so it encodes as [].
func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func ValidTool(tool contractx.ToolType) bool {
	switch tool {
	case contractx.ToolChat, contractx.ToolAnalyzer, contractx.ToolVideoRecommender, contractx.ToolSummarizer:
		return true
	default:
		return false
	}
}
