// Package view holds the controllers behind each tool screen. A controller
// issues at most one request per action, folds the answer into the store and
// keeps any failure as inline text instead of returning it.
package view

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/student-assistant/assistant/contract"
	storex "github.com/tanpawarit/student-assistant/assistant/store"
)

const msgChatError = "Error fetching response."

// inline is the last error text a view shows, guarded for concurrent reads.
type inline struct {
	mu  sync.RWMutex
	msg string
}

func (i *inline) set(msg string) {
	i.mu.Lock()
	i.msg = msg
	i.mu.Unlock()
}

func (i *inline) get() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.msg
}

type ChatView struct {
	api   Backend
	store *storex.Store
	busy  atomic.Bool
}

func NewChatView(api Backend, store *storex.Store) *ChatView {
	return &ChatView{api: api, store: store}
}

// Send posts one user message. Blank input and calls made while a reply is
// pending are ignored; it reports whether a request was issued.
func (v *ChatView) Send(ctx context.Context, input string) bool {
	if strings.TrimSpace(input) == "" {
		return false
	}
	if v.store.Snapshot().IsTyping || !v.busy.CompareAndSwap(false, true) {
		return false
	}
	defer v.busy.Store(false)

	v.store.AddMessage(input, storex.RoleUser)
	v.store.SetTyping(true)
	defer v.store.SetTyping(false)

	res, err := v.api.Chat(ctx, contractx.ChatRequest{Message: input})
	if err != nil {
		log.Error().Err(err).Str("view", "chat").Msg("chat request failed")
		v.store.AddMessage(msgChatError, storex.RoleAssistant)
		return true
	}
	v.store.AddMessage(res.Reply, storex.RoleAssistant)
	return true
}

func (v *ChatView) Busy() bool {
	return v.busy.Load()
}
