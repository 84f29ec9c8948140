package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	contractx "github.com/tanpawarit/student-assistant/assistant/contract"
)

// Service is the set of operations the routes expose.
type Service interface {
	Analyze(ctx context.Context, req contractx.AnalyzeRequest) (contractx.AnalyzeResult, error)
	Recommend(ctx context.Context, req contractx.RecommendRequest) (contractx.RecommendResult, error)
	Summarize(ctx context.Context, req contractx.SummarizeRequest) (contractx.SummaryResult, error)
	Chat(ctx context.Context, req contractx.ChatRequest) (contractx.ChatResult, error)
}

type handler struct {
	svc          Service
	maxBodyBytes int64
}

func (h *handler) analyze(w http.ResponseWriter, r *http.Request) {
	var req contractx.AnalyzeRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.svc.Analyze(r.Context(), req)
	if err != nil {
		writeDispatchError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) recommend(w http.ResponseWriter, r *http.Request) {
	var req contractx.RecommendRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.svc.Recommend(r.Context(), req)
	if err != nil {
		writeDispatchError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) summarize(w http.ResponseWriter, r *http.Request) {
	var req contractx.SummarizeRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.svc.Summarize(r.Context(), req)
	if err != nil {
		writeDispatchError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) chat(w http.ResponseWriter, r *http.Request) {
	var req contractx.ChatRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.svc.Chat(r.Context(), req)
	if err != nil {
		writeDispatchError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decode reads the request envelope. An empty body decodes to the zero
// envelope so the route reports its own missing-field message.
func (h *handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return false
	}
	return true
}
