package cloudinary

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientRequiresCloudAndPreset(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{UploadPreset: "p"})
	require.ErrorIs(t, err, ErrMissingCloudName)

	_, err = NewClient(Config{CloudName: "demo"})
	require.ErrorIs(t, err, ErrMissingUploadPreset)
}

func TestUploadSendsMultipartForm(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/demo/auto/upload", r.URL.Path)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		assert.Equal(t, "unsigned", r.FormValue("upload_preset"))

		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		raw, _ := io.ReadAll(f)
		assert.Equal(t, "quiz.csv", hdr.Filename)
		assert.Equal(t, "Topic,Correct,Time_Taken\n", string(raw))

		_, _ = w.Write([]byte(`{"secure_url":"https://res.cloudinary.com/demo/raw/upload/quiz.csv","url":"http://insecure"}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{CloudName: "demo", UploadPreset: "unsigned", BaseURL: srv.URL})
	require.NoError(t, err)

	got, err := c.Upload(context.Background(), "quiz.csv", strings.NewReader("Topic,Correct,Time_Taken\n"))
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/raw/upload/quiz.csv", got)
}

func TestUploadReportsHostError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Upload preset not found"}}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{CloudName: "demo", UploadPreset: "missing", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.Upload(context.Background(), "quiz.csv", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Upload preset not found")
	assert.Contains(t, err.Error(), "status=400")
}
