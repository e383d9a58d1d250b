package audio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/aurimasl/voxpense/internal/pkg/cmdapp"
	pkgErr "github.com/aurimasl/voxpense/internal/pkg/err"
	"github.com/aurimasl/voxpense/internal/pkg/utils"
)

// Retriever downloads voice note audio into the local storage dir
type Retriever struct {
	// StoragePath is the dir for temporary audio artifacts
	StoragePath string
	httpclient  *http.Client
}

// NewRetriever creates Retriever and makes sure the storage dir exists
func NewRetriever(storagePath string) (*Retriever, error) {
	if storagePath == "" {
		return nil, errors.New("No storage path provided")
	}
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return nil, errors.Wrap(err, "Can't init storage dir "+storagePath)
	}
	return &Retriever{StoragePath: storagePath,
		httpclient: &http.Client{Timeout: 2 * time.Minute}}, nil
}

// Download streams the file at url into a uniquely named local file.
// Ownership of the returned path transfers to the caller, who removes it.
// On any failure no file is left behind
func (r *Retriever) Download(ctx context.Context, url string, senderID int64) (string, error) {
	// uuid fragment keeps concurrent notes from the same sender apart
	fileName := fmt.Sprintf("%d_%d_%s.oga", senderID, time.Now().Unix(), uuid.New().String()[:8])
	filePath := filepath.Join(r.StoragePath, fileName)
	cmdapp.Log.Infof("Fetching %s", utils.URLToLog(url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", pkgErr.NewRetrieval(errors.Wrap(err, "Can't prepare request"))
	}
	resp, err := r.httpclient.Do(req)
	if err != nil {
		return "", pkgErr.NewRetrieval(errors.Wrap(err, "Can't fetch audio"))
	}
	defer resp.Body.Close()
	if err := utils.ValidateResponse(resp); err != nil {
		return "", pkgErr.NewRetrieval(err)
	}

	f, err := os.Create(filePath)
	if err != nil {
		return "", pkgErr.NewRetrieval(errors.Wrap(err, "Can't create file "+filePath))
	}
	savedBytes, err := io.Copy(f, resp.Body)
	if errC := f.Close(); err == nil {
		err = errC
	}
	if err != nil {
		if errR := os.Remove(filePath); errR != nil {
			cmdapp.Log.Error(errR)
		}
		return "", pkgErr.NewRetrieval(errors.Wrap(err, "Can't save file "+filePath))
	}
	cmdapp.Log.Infof("Saved %s. Size = %d", filePath, savedBytes)
	return filePath, nil
}

// HealthyFunc returns a liveness check testing that the storage dir is writable
func (r *Retriever) HealthyFunc() func() error {
	return func() error {
		probe := filepath.Join(r.StoragePath, ".probe")
		if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
			return err
		}
		return os.Remove(probe)
	}
}
