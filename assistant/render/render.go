// Package render prints store snapshots for a terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	storex "github.com/tanpawarit/student-assistant/assistant/store"
)

const (
	timeLayout       = "15:04:05"
	summaryWidthMax  = 80
	titleWidthMax    = 40
	analysisWidthMax = 60
)

type Renderer struct {
	w     io.Writer
	color bool
}

func New(w io.Writer, color bool) *Renderer {
	return &Renderer{w: w, color: color}
}

// Message writes one transcript line: "[time] role: content". Content is
// written as given, including any newlines.
func (r *Renderer) Message(m storex.Message) error {
	role := string(m.Role)
	if r.color {
		role = roleColors(m.Role).Sprint(role)
	}
	_, err := fmt.Fprintf(r.w, "[%s] %s: %s\n", m.Timestamp.Format(timeLayout), role, m.Content)
	return err
}

func (r *Renderer) Transcript(msgs []storex.Message) error {
	for _, m := range msgs {
		if err := r.Message(m); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) AnalysisResults(results []storex.AnalysisResult) {
	t := r.table()
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, WidthMax: analysisWidthMax},
	})
	t.AppendHeader(table.Row{"File", "Type", "Size", "Weak Topics", "Time"})
	for _, res := range results {
		topics := res.AnalysisData
		if topics == "" {
			topics = "none"
		}
		t.AppendRow(table.Row{res.FileName, res.FileType, res.FileSize, topics, res.Timestamp.Format(timeLayout)})
	}
	t.AppendFooter(table.Row{"Total", len(results)})
	t.Render()
}

func (r *Renderer) Recommendations(recs []storex.VideoRecommendation) {
	t := r.table()
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: titleWidthMax},
	})
	t.AppendHeader(table.Row{"#", "Title", "Video", "Description"})
	for i, rec := range recs {
		video := "N/A"
		if len(rec.Videos) > 0 {
			video = rec.Videos[0].URL
		}
		t.AppendRow(table.Row{i + 1, rec.Title, video, truncate(rec.Description, titleWidthMax)})
	}
	t.AppendFooter(table.Row{"Total", len(recs)})
	t.Render()
}

func (r *Renderer) Summaries(sums []storex.VideoSummary) {
	t := r.table()
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: summaryWidthMax},
	})
	t.AppendHeader(table.Row{"Video", "Summary"})
	for _, s := range sums {
		label := s.VideoTitle
		if label == "" {
			label = s.VideoURL
		}
		t.AppendRow(table.Row{label, s.Summary})
	}
	t.Render()
}

// Error writes an inline view error.
func (r *Renderer) Error(msg string) {
	if msg == "" {
		return
	}
	if r.color {
		msg = text.Colors{text.FgRed}.Sprint(msg)
	}
	fmt.Fprintln(r.w, msg)
}

func (r *Renderer) table() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(r.w)
	t.SetStyle(table.StyleRounded)
	t.Style().Options.SeparateRows = true
	if !r.color {
		t.Style().Color = table.ColorOptions{}
	}
	return t
}

func roleColors(role storex.Role) text.Colors {
	if role == storex.RoleUser {
		return text.Colors{text.FgCyan, text.Bold}
	}
	return text.Colors{text.FgGreen, text.Bold}
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}
