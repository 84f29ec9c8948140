package dispatcher

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	contractx "github.com/tanpawarit/student-assistant/assistant/contract"
	validationx "github.com/tanpawarit/student-assistant/pkg/validation"
)

// Provider documents as printed by the scripts. Only the fields the routes
// depend on are validated; anything extra is ignored.

type analysisDocument struct {
	WeakTopics []string `json:"weak_topics" validate:"required"`
}

type errorEnvelope struct {
	Error *string `json:"error"`
}

type recommendationDocument struct {
	Recommendations []recommendationItem `json:"recommendations" validate:"required,dive"`
}

type recommendationItem struct {
	ID          any          `json:"id"`
	Title       string       `json:"title"`
	Topic       string       `json:"topic"`
	Subtopic    string       `json:"subtopic"`
	Thumbnail   string       `json:"thumbnail"`
	Description string       `json:"description"`
	Videos      []videoEntry `json:"videos" validate:"required,min=1"`
}

type videoEntry struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Thumbnail   string `json:"thumbnail"`
	Description string `json:"description"`
}

type summaryDocument struct {
	Summary string `json:"summary" validate:"notblank"`
}

func decodeDocument(raw []byte, v any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return fmt.Errorf("%w: empty document", contractx.ErrResponseShape)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: decode document: %v", contractx.ErrResponseShape, err)
	}
	if err := validationx.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", contractx.ErrResponseShape, err)
	}
	return nil
}

// reportedError returns the {"error": ...} message of a document, if any.
func reportedError(raw []byte) (string, bool) {
	var env errorEnvelope
	if err := json.Unmarshal(bytes.TrimSpace(raw), &env); err != nil {
		return "", false
	}
	if env.Error == nil || strings.TrimSpace(*env.Error) == "" {
		return "", false
	}
	return *env.Error, true
}

func normalizeRecommendations(items []recommendationItem, newID func() string) ([]contractx.Recommendation, error) {
	out := make([]contractx.Recommendation, 0, len(items))
	for i, item := range items {
		videos := make([]contractx.Video, 0, len(item.Videos))
		for _, v := range item.Videos {
			if strings.TrimSpace(v.URL) == "" {
				continue
			}
			videos = append(videos, contractx.Video(v))
		}
		if len(videos) == 0 {
			return nil, fmt.Errorf("%w: recommendations[%d] has no video url", contractx.ErrResponseShape, i)
		}

		title := firstNonBlank(item.Title, item.Subtopic, item.Topic, videos[0].Title)
		if title == "" {
			return nil, fmt.Errorf("%w: recommendations[%d] has no title", contractx.ErrResponseShape, i)
		}

		id := idString(item.ID)
		if id == "" {
			id = newID()
		}

		out = append(out, contractx.Recommendation{
			ID:          id,
			Title:       title,
			Videos:      videos,
			Thumbnail:   firstNonBlank(item.Thumbnail, videos[0].Thumbnail),
			Description: firstNonBlank(item.Description, videos[0].Description),
			Topic:       item.Topic,
			Subtopic:    item.Subtopic,
		})
	}
	return out, nil
}

func idString(v any) string {
	switch id := v.(type) {
	case string:
		return strings.TrimSpace(id)
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return ""
	}
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func newUUID() string {
	return uuid.NewString()
}
