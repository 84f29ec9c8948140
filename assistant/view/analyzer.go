package view

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/student-assistant/assistant/contract"
	storex "github.com/tanpawarit/student-assistant/assistant/store"
)

const msgAnalyzeError = "Upload or analysis failed."

// dataFileTypes covers extensions the system mime table may not know.
var dataFileTypes = map[string]string{
	".csv":  "text/csv",
	".tsv":  "text/tab-separated-values",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// File is the locally selected file the analyzer uploads.
type File struct {
	Name    string
	Type    string
	Size    int64
	Content io.Reader
}

// rewind moves seekable content back to its start so a retry uploads the
// whole file.
func (f *File) rewind() error {
	if s, ok := f.Content.(io.Seeker); ok {
		_, err := s.Seek(0, io.SeekStart)
		return err
	}
	return nil
}

// OpenFile selects path from disk. The caller closes the returned file.
func OpenFile(path string) (*File, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, nil, fmt.Errorf("%s is a directory", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	fileType := mime.TypeByExtension(ext)
	if i := strings.Index(fileType, ";"); i >= 0 {
		fileType = fileType[:i]
	}
	if fileType == "" {
		fileType = dataFileTypes[ext]
	}
	return &File{
		Name:    filepath.Base(path),
		Type:    fileType,
		Size:    info.Size(),
		Content: f,
	}, f, nil
}

type AnalyzerView struct {
	api      Backend
	uploader contractx.Uploader
	store    *storex.Store

	mu       sync.Mutex
	selected *File

	analyzing atomic.Bool
	err       inline
}

func NewAnalyzerView(api Backend, uploader contractx.Uploader, store *storex.Store) *AnalyzerView {
	return &AnalyzerView{api: api, uploader: uploader, store: store}
}

func (v *AnalyzerView) Select(f *File) {
	v.mu.Lock()
	v.selected = f
	v.mu.Unlock()
	v.err.set("")
}

func (v *AnalyzerView) Selected() *File {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selected
}

// Analyze uploads the selected file, asks for its weak topics and appends
// the result. Without a selection, or while busy, it does nothing.
func (v *AnalyzerView) Analyze(ctx context.Context) bool {
	f := v.Selected()
	if f == nil || f.Content == nil {
		return false
	}
	if !v.analyzing.CompareAndSwap(false, true) {
		return false
	}
	defer v.analyzing.Store(false)
	v.err.set("")

	if err := f.rewind(); err != nil {
		log.Error().Err(err).Str("view", "analyzer").Str("file", f.Name).Msg("rewind failed")
		v.fail(f)
		return true
	}

	fileURL, err := v.uploader.Upload(ctx, f.Name, f.Content)
	if err != nil {
		log.Error().Err(err).Str("view", "analyzer").Str("file", f.Name).Msg("upload failed")
		v.fail(f)
		return true
	}

	res, err := v.api.Analyze(ctx, contractx.AnalyzeRequest{URL: fileURL})
	if err != nil {
		log.Error().Err(err).Str("view", "analyzer").Str("url", fileURL).Msg("analysis failed")
		v.fail(f)
		return true
	}

	fileType := res.FileType
	if fileType == "" {
		fileType = f.Type
	}
	v.store.AddAnalysisResult(f.Name, fileType, FormatFileSize(f.Size), strings.Join(res.Analysis1, ", "))
	v.Select(nil)
	return true
}

// fail shows the error and keeps the selection only when it can be read
// again for a retry.
func (v *AnalyzerView) fail(f *File) {
	if _, ok := f.Content.(io.Seeker); !ok {
		v.mu.Lock()
		if v.selected == f {
			v.selected = nil
		}
		v.mu.Unlock()
	}
	v.err.set(msgAnalyzeError)
}

func (v *AnalyzerView) Analyzing() bool {
	return v.analyzing.Load()
}

func (v *AnalyzerView) Error() string {
	return v.err.get()
}
