package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contractx "github.com/tanpawarit/student-assistant/assistant/contract"
)

func frozenStore() *Store {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	n := 0
	return New(
		WithClock(func() time.Time { return at }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
}

func TestNewStartsWithGreeting(t *testing.T) {
	t.Parallel()

	snap := New().Snapshot()
	assert.Equal(t, contractx.ToolChat, snap.ActiveTool)
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, Greeting, snap.Messages[0].Content)
	assert.Equal(t, RoleAssistant, snap.Messages[0].Role)
	assert.NotEmpty(t, snap.Messages[0].ID)
	assert.False(t, snap.IsTyping)
	assert.Empty(t, snap.AnalysisResults)
	assert.Empty(t, snap.VideoRecommendations)
	assert.Empty(t, snap.VideoSummaries)
}

func TestTimestampsStrictlyIncreaseWithFrozenClock(t *testing.T) {
	t.Parallel()

	s := frozenStore()
	s.AddMessage("a", RoleUser)
	s.AddAnalysisResult("q.csv", "text/csv", "10 bytes", "Algebra")
	s.AddMessage("b", RoleAssistant)
	s.AddVideoSummary("https://youtu.be/x", "x", "short")

	snap := s.Snapshot()
	stamps := []time.Time{
		snap.Messages[0].Timestamp,
		snap.Messages[1].Timestamp,
		snap.AnalysisResults[0].Timestamp,
		snap.Messages[2].Timestamp,
		snap.VideoSummaries[0].Timestamp,
	}
	for i := 1; i < len(stamps); i++ {
		assert.True(t, stamps[i].After(stamps[i-1]), "stamp %d not after %d", i, i-1)
	}
}

func TestIDsAreDistinct(t *testing.T) {
	t.Parallel()

	s := New()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		msg := s.AddMessage("x", RoleUser)
		require.False(t, seen[msg.ID])
		seen[msg.ID] = true
	}
}

func TestRecommendationsReplaceSummariesAppend(t *testing.T) {
	t.Parallel()

	s := frozenStore()
	s.SetVideoRecommendations([]VideoRecommendation{{Title: "a"}, {Title: "b"}})
	s.SetVideoRecommendations([]VideoRecommendation{{ID: "keep", Title: "c"}})

	s.AddVideoSummary("u1", "t1", "s1")
	s.AddVideoSummary("u2", "t2", "s2")

	snap := s.Snapshot()
	require.Len(t, snap.VideoRecommendations, 1)
	assert.Equal(t, "keep", snap.VideoRecommendations[0].ID)
	assert.Equal(t, "c", snap.VideoRecommendations[0].Title)
	require.Len(t, snap.VideoSummaries, 2)
	assert.Equal(t, "s1", snap.VideoSummaries[0].Summary)
	assert.Equal(t, "s2", snap.VideoSummaries[1].Summary)
}

func TestSetVideoRecommendationsAssignsMissingIDs(t *testing.T) {
	t.Parallel()

	s := frozenStore()
	s.SetVideoRecommendations([]VideoRecommendation{{Title: "a"}})
	assert.NotEmpty(t, s.Snapshot().VideoRecommendations[0].ID)
}

func TestSnapshotIsACopy(t *testing.T) {
	t.Parallel()

	s := frozenStore()
	videos := []contractx.Video{{URL: "https://youtu.be/a"}}
	s.SetVideoRecommendations([]VideoRecommendation{{Title: "a", Videos: videos}})
	videos[0].URL = "mutated"

	snap := s.Snapshot()
	snap.Messages[0].Content = "changed"
	snap.VideoRecommendations[0].Videos[0].URL = "changed"

	again := s.Snapshot()
	assert.Equal(t, Greeting, again.Messages[0].Content)
	assert.Equal(t, "https://youtu.be/a", again.VideoRecommendations[0].Videos[0].URL)
}

func TestSetActiveTool(t *testing.T) {
	t.Parallel()

	s := New()
	s.SetActiveTool(contractx.ToolSummarizer)
	assert.Equal(t, contractx.ToolSummarizer, s.Snapshot().ActiveTool)

	s.SetActiveTool("unknown")
	assert.Equal(t, contractx.ToolSummarizer, s.Snapshot().ActiveTool)
}

func TestSubscribersSeeEveryMutation(t *testing.T) {
	t.Parallel()

	s := New()
	var got []State
	unsubscribe := s.Subscribe(func(st State) {
		got = append(got, st)
		_ = s.Snapshot()
	})

	s.SetTyping(true)
	s.AddMessage("hi", RoleUser)
	unsubscribe()
	unsubscribe()
	s.SetTyping(false)

	require.Len(t, got, 2)
	assert.True(t, got[0].IsTyping)
	assert.Equal(t, "hi", got[1].Messages[1].Content)
}

func TestConcurrentMutations(t *testing.T) {
	t.Parallel()

	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AddMessage("x", RoleUser)
			_ = s.Snapshot()
		}()
	}
	wg.Wait()
	assert.Len(t, s.Snapshot().Messages, 21)
}

func TestConcurrentListenersSeeMutationOrder(t *testing.T) {
	t.Parallel()

	s := New()
	var (
		mu   sync.Mutex
		seen []int
	)
	s.Subscribe(func(st State) {
		mu.Lock()
		seen = append(seen, len(st.Messages))
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AddMessage("x", RoleUser)
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, seen)
	assert.IsIncreasing(t, seen)
	assert.Equal(t, 51, seen[len(seen)-1])
}

func TestSnapshotKeepsEmptyListsNonNil(t *testing.T) {
	t.Parallel()

	snap := New().Snapshot()
	assert.NotNil(t, snap.AnalysisResults)
	assert.NotNil(t, snap.VideoSummaries)
	assert.NotNil(t, snap.VideoRecommendations)

	raw, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"analysisResults":[]`)
	assert.Contains(t, string(raw), `"videoSummaries":[]`)
}
