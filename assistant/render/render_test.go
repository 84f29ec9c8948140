package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contractx "github.com/tanpawarit/student-assistant/assistant/contract"
	storex "github.com/tanpawarit/student-assistant/assistant/store"
)

func TestMessageKeepsContentAndRole(t *testing.T) {
	t.Parallel()

	st := storex.New()
	content := "Line one\n  *markdown* & <tags> ✓"
	msg := st.AddMessage(content, storex.RoleUser)

	var buf bytes.Buffer
	require.NoError(t, New(&buf, false).Message(msg))

	line := strings.TrimSuffix(buf.String(), "\n")
	prefix := "[" + msg.Timestamp.Format(timeLayout) + "] "
	require.True(t, strings.HasPrefix(line, prefix))

	role, rest, ok := strings.Cut(strings.TrimPrefix(line, prefix), ": ")
	require.True(t, ok)
	assert.Equal(t, string(storex.RoleUser), role)
	assert.Equal(t, content, rest)
}

func TestTranscriptInOrder(t *testing.T) {
	t.Parallel()

	st := storex.New()
	st.AddMessage("first", storex.RoleUser)
	st.AddMessage("second", storex.RoleAssistant)

	var buf bytes.Buffer
	require.NoError(t, New(&buf, false).Transcript(st.Snapshot().Messages))

	out := buf.String()
	assert.Less(t, strings.Index(out, storex.Greeting), strings.Index(out, "first"))
	assert.Less(t, strings.Index(out, "first"), strings.Index(out, "second"))
}

func TestTables(t *testing.T) {
	t.Parallel()

	st := storex.New()
	st.AddAnalysisResult("quiz.csv", "text/csv", "2.0 KB", "Algebra, Geometry")
	st.SetVideoRecommendations([]storex.VideoRecommendation{{
		Title:  "Linear equations",
		Videos: []contractx.Video{{URL: "https://youtu.be/abc"}},
	}})
	st.AddVideoSummary("https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", "Short.")
	snap := st.Snapshot()

	var buf bytes.Buffer
	r := New(&buf, false)
	r.AnalysisResults(snap.AnalysisResults)
	r.Recommendations(snap.VideoRecommendations)
	r.Summaries(snap.VideoSummaries)
	r.Error("Failed to summarize.")

	out := buf.String()
	for _, want := range []string{"quiz.csv", "Algebra, Geometry", "Linear equations", "https://youtu.be/abc", "dQw4w9WgXcQ", "Short.", "Failed to summarize."} {
		assert.Contains(t, out, want)
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a b", truncate(" a\n b ", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
