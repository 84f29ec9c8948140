package contract

type Output struct {
	Document    []byte
	Diagnostics []byte
	ExitCode    int
}

func (o Output) Failed() bool {
	return o.ExitCode != 0
}

func (o Output) HasDiagnostics() bool {
	return len(o.Diagnostics) > 0
}

type ToolType string

const (
	ToolChat             ToolType = "chat"
	ToolAnalyzer         ToolType = "analyzer"
	ToolVideoRecommender ToolType = "video-recommender"
	ToolSummarizer       ToolType = "summarizer"
)

/* ------------------------------ request envelopes ------------------------------ */

type AnalyzeRequest struct {
	URL string `json:"url" validate:"notblank"`
}

type RecommendRequest struct {
	Topic string `json:"topic" validate:"notblank"`
}

type SummarizeRequest struct {
	VideoURL string `json:"videoUrl" validate:"notblank"`
}

type ChatRequest struct {
	Message string `json:"message" validate:"notblank"`
}

/* -------------------------------- route results -------------------------------- */

type AnalyzeResult struct {
	FileName  string   `json:"fileName"`
	FileType  string   `json:"fileType"`
	FileSize  *int64   `json:"fileSize"`
	Analysis1 []string `json:"analysis1"`
}

type RecommendResult struct {
	Recommendations []Recommendation `json:"recommendations"`
}

type Recommendation struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Videos      []Video `json:"videos"`
	Thumbnail   string  `json:"thumbnail,omitempty"`
	Description string  `json:"description,omitempty"`
	Topic       string  `json:"topic,omitempty"`
	Subtopic    string  `json:"subtopic,omitempty"`
}

type Video struct {
	Title       string `json:"title,omitempty"`
	URL         string `json:"url"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	Description string `json:"description,omitempty"`
}

type SummaryResult struct {
	Summary string `json:"summary"`
}

type ChatResult struct {
	Reply string `json:"reply"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
