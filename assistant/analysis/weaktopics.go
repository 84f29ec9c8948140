// Package analysis is the in-process replacement for the weak-topic script.
package analysis

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	contractx "github.com/tanpawarit/student-assistant/assistant/contract"
	providerx "github.com/tanpawarit/student-assistant/assistant/provider"
)

const (
	AccuracyThreshold = 0.6
	AvgTimeThreshold  = 80.0

	maxCSVBytes = 16 << 20
)

var requiredColumns = []string{"Topic", "Correct", "Time_Taken"}

type topicStats struct {
	total   int
	correct int
	time    float64
}

// WeakTopics returns topics whose accuracy is below 60% and whose average
// time is above 80, in order of first appearance.
func WeakTopics(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	stats := map[string]*topicStats{}
	order := []string{}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}

		topic := record[cols["Topic"]]
		correct, err := strconv.Atoi(strings.TrimSpace(record[cols["Correct"]]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid Correct value: %w", line, err)
		}
		timeTaken, err := strconv.ParseFloat(strings.TrimSpace(record[cols["Time_Taken"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid Time_Taken value: %w", line, err)
		}

		st, ok := stats[topic]
		if !ok {
			st = &topicStats{}
			stats[topic] = st
			order = append(order, topic)
		}
		st.total++
		st.correct += correct
		st.time += timeTaken
	}

	weak := make([]string, 0)
	for _, topic := range order {
		st := stats[topic]
		accuracy := float64(st.correct) / float64(st.total)
		avgTime := st.time / float64(st.total)
		if accuracy < AccuracyThreshold && avgTime > AvgTimeThreshold {
			weak = append(weak, topic)
		}
	}
	return weak, nil
}

type document struct {
	WeakTopics []string `json:"weak_topics"`
}

type errorDocument struct {
	Error string `json:"error"`
}

// Analyzer downloads a CSV and reports its weak topics in the same document
// shape the analysis script prints.
type Analyzer struct {
	httpClient *http.Client
}

func NewAnalyzer(timeout time.Duration) *Analyzer {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Analyzer{httpClient: &http.Client{Timeout: timeout}}
}

func (a *Analyzer) Provider() contractx.Provider {
	return providerx.Func(a.analyze)
}

func (a *Analyzer) analyze(ctx context.Context, url string) ([]byte, error) {
	topics, err := a.fetchAndAnalyze(ctx, url)
	if err != nil {
		doc, _ := json.Marshal(errorDocument{Error: err.Error()})
		return doc, err
	}
	return json.Marshal(document{WeakTopics: topics})
}

func (a *Analyzer) fetchAndAnalyze(ctx context.Context, url string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download csv: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("download csv: status=%d", resp.StatusCode)
	}

	return WeakTopics(io.LimitReader(resp.Body, maxCSVBytes))
}
