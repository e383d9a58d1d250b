package clean

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/aurimasl/voxpense/internal/pkg/cmdapp"
)

// fileCleaner drops leftover audio artifacts older than maxAge.
// The pipeline removes its own files, the sweep only catches
// files orphaned by a crash
type fileCleaner struct {
	storagePath string
	maxAge      time.Duration
}

func newFileCleaner(storagePath string, maxAge time.Duration) (*fileCleaner, error) {
	cmdapp.Log.Infof("Init file cleaner at %s, maxAge %v", storagePath, maxAge)
	if storagePath == "" {
		return nil, errors.New("No storage path provided")
	}
	if maxAge <= 0 {
		return nil, errors.New("Wrong maxAge " + maxAge.String())
	}
	return &fileCleaner{storagePath: storagePath, maxAge: maxAge}, nil
}

func (c *fileCleaner) Clean() error {
	limit := time.Now().Add(-c.maxAge)
	files, err := os.ReadDir(c.storagePath)
	if err != nil {
		return errors.Wrap(err, "Can't read dir "+c.storagePath)
	}
	removed := 0
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		info, err := f.Info()
		if err != nil {
			cmdapp.Log.Error(err)
			continue
		}
		if info.ModTime().Before(limit) {
			fp := filepath.Join(c.storagePath, f.Name())
			if err := os.Remove(fp); err != nil {
				cmdapp.Log.Error(err)
				continue
			}
			cmdapp.Log.Infof("Removed %s", fp)
			removed++
		}
	}
	if removed > 0 {
		cmdapp.Log.Infof("Removed %d old files", removed)
	}
	return nil
}
