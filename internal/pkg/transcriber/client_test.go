package transcriber

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"

	pkgErr "github.com/aurimasl/voxpense/internal/pkg/err"
)

func TestNewClient(t *testing.T) {
	_, err := NewClient("", "whisper-1")
	assert.NotNil(t, err)
	_, err = NewClient("key", "")
	assert.NotNil(t, err)
	c, err := NewClient("key", "whisper-1")
	assert.Nil(t, err)
	assert.NotNil(t, c)
}

func TestTranscribe(t *testing.T) {
	srv := newSTTServer(t, `{"text":"Spent 20 on coffee"}`)
	defer srv.Close()
	c := newTestClient(t, srv)

	text, err := c.Transcribe(context.Background(), newAudioFile(t))

	assert.Nil(t, err)
	assert.Equal(t, "Spent 20 on coffee", text)
}

func TestTranscribeTrims(t *testing.T) {
	srv := newSTTServer(t, `{"text":"  olia \n"}`)
	defer srv.Close()
	c := newTestClient(t, srv)

	text, err := c.Transcribe(context.Background(), newAudioFile(t))

	assert.Nil(t, err)
	assert.Equal(t, "olia", text)
}

func TestTranscribeFailsOnEmptyResult(t *testing.T) {
	srv := newSTTServer(t, `{"text":""}`)
	defer srv.Close()
	c := newTestClient(t, srv)

	_, err := c.Transcribe(context.Background(), newAudioFile(t))

	assert.NotNil(t, err)
	assert.Equal(t, pkgErr.Transcription, pkgErr.StageOf(err))
}

func TestTranscribeFailsOnHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()
	c := newTestClient(t, srv)

	_, err := c.Transcribe(context.Background(), newAudioFile(t))

	assert.NotNil(t, err)
	assert.Equal(t, pkgErr.Transcription, pkgErr.StageOf(err))
}

func TestTranscribeFailsOnNoFile(t *testing.T) {
	c, err := NewClient("key", "whisper-1")
	assert.Nil(t, err)

	_, err = c.Transcribe(context.Background(), "/olia/no-file.oga")

	assert.NotNil(t, err)
	assert.Equal(t, pkgErr.Transcription, pkgErr.StageOf(err))
}

func newSTTServer(t *testing.T, resp string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/audio/transcriptions"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(resp))
	}))
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := NewClient("test-key", "whisper-1",
		option.WithBaseURL(srv.URL+"/"), option.WithMaxRetries(0))
	assert.Nil(t, err)
	return c
}

func newAudioFile(t *testing.T) string {
	t.Helper()
	res := filepath.Join(t.TempDir(), "1_1.oga")
	assert.Nil(t, os.WriteFile(res, []byte("audio bytes"), 0644))
	return res
}
