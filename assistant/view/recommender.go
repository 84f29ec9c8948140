package view

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/student-assistant/assistant/contract"
	storex "github.com/tanpawarit/student-assistant/assistant/store"
)

const msgRecommendError = "Failed to fetch recommendations."

type RecommenderView struct {
	api   Backend
	store *storex.Store

	searching atomic.Bool
	err       inline
}

func NewRecommenderView(api Backend, store *storex.Store) *RecommenderView {
	return &RecommenderView{api: api, store: store}
}

// Search replaces the stored recommendations with those for topic.
func (v *RecommenderView) Search(ctx context.Context, topic string) bool {
	if strings.TrimSpace(topic) == "" {
		return false
	}
	if !v.searching.CompareAndSwap(false, true) {
		return false
	}
	defer v.searching.Store(false)
	v.err.set("")

	res, err := v.api.Recommend(ctx, contractx.RecommendRequest{Topic: topic})
	if err != nil {
		log.Error().Err(err).Str("view", "recommender").Str("topic", topic).Msg("recommend request failed")
		v.err.set(msgRecommendError)
		return true
	}

	list := make([]storex.VideoRecommendation, 0, len(res.Recommendations))
	for _, rec := range res.Recommendations {
		list = append(list, storex.VideoRecommendation{
			ID:          rec.ID,
			Title:       rec.Title,
			Videos:      rec.Videos,
			Thumbnail:   rec.Thumbnail,
			Description: rec.Description,
		})
	}
	v.store.SetVideoRecommendations(list)
	return true
}

func (v *RecommenderView) Searching() bool {
	return v.searching.Load()
}

func (v *RecommenderView) Error() string {
	return v.err.get()
}
