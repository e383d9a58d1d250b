package bot

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/facebookgo/grace/gracehttp"
	"github.com/gorilla/mux"
	"github.com/heptiolabs/healthcheck"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aurimasl/voxpense/internal/pkg/cmdapp"
	"github.com/aurimasl/voxpense/internal/pkg/record"
	"github.com/aurimasl/voxpense/internal/pkg/telegram"
)

// URLResolver resolves a voice note file ID to a direct download URL
type URLResolver interface {
	ResolveFileURL(fileID string) (string, error)
}

// Retriever downloads the audio at url into a local file
type Retriever interface {
	Download(ctx context.Context, url string, senderID int64) (string, error)
}

// Transcriber turns an audio file into text
type Transcriber interface {
	Transcribe(ctx context.Context, filePath string) (string, error)
}

// Extractor pulls raw record fields out of the transcript
type Extractor interface {
	Extract(ctx context.Context, transcript string) (map[string]interface{}, error)
}

// RecordSaver persists the finalized record
type RecordSaver interface {
	Save(ctx context.Context, rec record.Record) error
}

// Sender delivers a text reply to the user
type Sender interface {
	Send(senderID int64, text string) error
}

// ServiceData keeps data required for service work
type ServiceData struct {
	URLResolver URLResolver
	Retriever   Retriever
	Transcriber Transcriber
	Extractor   Extractor
	RecordSaver RecordSaver
	Sender      Sender

	VoiceCh <-chan telegram.VoiceEvent

	Port       int
	health     healthcheck.Handler
	metrics    serviceMetric
	removeFile func(string) error
	now        func() time.Time
	fc         chan struct{}
}

// StartVoiceListener starts consuming voice note events.
// The returned channel is closed when the event channel is drained
func StartVoiceListener(data *ServiceData) (<-chan struct{}, error) {
	if err := checkInputs(data); err != nil {
		return nil, err
	}
	data.fc = make(chan struct{})
	cmdapp.Log.Info("Listening for voice notes")
	go listenVoice(data)
	return data.fc, nil
}

func checkInputs(data *ServiceData) error {
	if data.URLResolver == nil {
		return errors.New("No URL resolver")
	}
	if data.Retriever == nil {
		return errors.New("No audio retriever")
	}
	if data.Transcriber == nil {
		return errors.New("No transcriber")
	}
	if data.Extractor == nil {
		return errors.New("No extractor")
	}
	if data.RecordSaver == nil {
		return errors.New("No record saver")
	}
	if data.Sender == nil {
		return errors.New("No sender")
	}
	if data.VoiceCh == nil {
		return errors.New("No voice event channel")
	}
	if data.removeFile == nil {
		data.removeFile = defaultRemoveFile
	}
	if data.now == nil {
		data.now = time.Now
	}
	return nil
}

func listenVoice(data *ServiceData) {
	for ev := range data.VoiceCh {
		cmdapp.Log.Infof("Got voice note from %d, %ds", ev.SenderID, ev.Duration)
		go processVoice(data, &VoiceJob{senderID: ev.SenderID, fileID: ev.FileID})
	}
	cmdapp.Log.Info("Voice event channel closed")
	close(data.fc)
}

// StartWebServer starts the HTTP service for health and metrics endpoints
func StartWebServer(data *ServiceData) error {
	cmdapp.Log.Infof("Starting HTTP service at %d", data.Port)
	r := NewRouter(data)

	portStr := strconv.Itoa(data.Port)
	srv := http.Server{
		Addr:              ":" + portStr,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		Handler:           r,
	}

	w := cmdapp.Log.Writer()
	defer w.Close()
	l := log.New(w, "", 0)
	gracehttp.SetLogger(l)

	return gracehttp.Serve(&srv)
}

// NewRouter creates the router for HTTP service
func NewRouter(data *ServiceData) *mux.Router {
	router := mux.NewRouter()
	router.Methods("GET").Path("/metrics").Handler(promhttp.Handler())
	if data.health != nil {
		router.Methods("GET").Path("/live").HandlerFunc(data.health.LiveEndpoint)
		router.Methods("GET").Path("/ready").HandlerFunc(data.health.ReadyEndpoint)
	}
	return router
}
