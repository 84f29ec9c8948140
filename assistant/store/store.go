// Package store holds the per-session presentation state. Every mutation is
// synchronous and visible to subscribers before it returns.
package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	contractx "github.com/tanpawarit/student-assistant/assistant/contract"
)

type Listener func(State)

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

type Store struct {
	mu    sync.RWMutex
	state State
	last  time.Time

	listeners map[int]Listener
	nextSub   int
	seq       uint64

	notifyMu sync.Mutex
	notified uint64

	now   func() time.Time
	newID func() string
}

func New(opts ...Option) *Store {
	s := &Store{
		listeners: make(map[int]Listener),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.state = State{
		ActiveTool: contractx.ToolChat,
		Messages: []Message{{
			ID:        s.newID(),
			Content:   Greeting,
			Role:      RoleAssistant,
			Timestamp: s.stamp(),
		}},
		AnalysisResults:      []AnalysisResult{},
		VideoRecommendations: []VideoRecommendation{},
		VideoSummaries:       []VideoSummary{},
	}
	return s
}

func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Subscribe registers fn for every later mutation and returns a func that
// removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

/* ---------------------------------- mutations ---------------------------------- */

// SetActiveTool ignores tools outside the known set.
func (s *Store) SetActiveTool(tool contractx.ToolType) {
	if !ValidTool(tool) {
		return
	}
	s.update(func(st *State) {
		st.ActiveTool = tool
	})
}

func (s *Store) AddMessage(content string, role Role) Message {
	var msg Message
	s.update(func(st *State) {
		msg = Message{ID: s.newID(), Content: content, Role: role, Timestamp: s.stamp()}
		st.Messages = append(st.Messages, msg)
	})
	return msg
}

func (s *Store) SetTyping(typing bool) {
	s.update(func(st *State) {
		st.IsTyping = typing
	})
}

func (s *Store) AddAnalysisResult(fileName, fileType, fileSize, analysisData string) AnalysisResult {
	var res AnalysisResult
	s.update(func(st *State) {
		res = AnalysisResult{
			ID:           s.newID(),
			FileName:     fileName,
			FileType:     fileType,
			FileSize:     fileSize,
			AnalysisData: analysisData,
			Timestamp:    s.stamp(),
		}
		st.AnalysisResults = append(st.AnalysisResults, res)
	})
	return res
}

// SetVideoRecommendations replaces the whole list. Records without an id get
// one.
func (s *Store) SetVideoRecommendations(list []VideoRecommendation) {
	s.update(func(st *State) {
		next := make([]VideoRecommendation, len(list))
		for i, rec := range list {
			if rec.ID == "" {
				rec.ID = s.newID()
			}
			rec.Videos = append([]contractx.Video(nil), rec.Videos...)
			next[i] = rec
		}
		st.VideoRecommendations = next
	})
}

func (s *Store) AddVideoSummary(videoURL, videoTitle, summary string) VideoSummary {
	var sum VideoSummary
	s.update(func(st *State) {
		sum = VideoSummary{
			ID:         s.newID(),
			VideoURL:   videoURL,
			VideoTitle: videoTitle,
			Summary:    summary,
			Timestamp:  s.stamp(),
		}
		st.VideoSummaries = append(st.VideoSummaries, sum)
	})
	return sum
}

/* ----------------------------------- helpers ----------------------------------- */

// update applies fn under the write lock, then notifies listeners outside it
// in subscription order so a listener may read the store again. Snapshots
// reach listeners in mutation order; a snapshot older than one already
// delivered is dropped. Listeners must not mutate the store themselves.
func (s *Store) update(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	s.seq++
	seq := s.seq
	snap := s.state.clone()
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	listeners := make([]Listener, 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, s.listeners[id])
	}
	s.mu.Unlock()

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if seq <= s.notified {
		return
	}
	s.notified = seq
	for _, l := range listeners {
		l(snap)
	}
}

// stamp returns a timestamp strictly after the previous one, even when the
// clock has not moved. Callers hold the write lock, or run during New.
func (s *Store) stamp() time.Time {
	t := s.now()
	if !t.After(s.last) {
		t = s.last.Add(time.Nanosecond)
	}
	s.last = t
	return t
}
