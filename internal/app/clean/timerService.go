package clean

import (
	"time"

	"github.com/aurimasl/voxpense/internal/pkg/cmdapp"
)

type timerServiceData struct {
	runEvery     time.Duration
	cleaner      Cleaner
	qChan        chan struct{}
	workWaitChan chan struct{}
}

func startCleanTimer(data *timerServiceData) error {
	cmdapp.Log.Infof("Starting timer service every %v", data.runEvery)
	go serviceLoop(data)
	return nil
}

func serviceLoop(data *timerServiceData) {
	ticker := time.NewTicker(data.runEvery)
	// run on startup
	doClean(data)
mainloop:
	for {
		select {
		case <-ticker.C:
			doClean(data)
		case <-data.qChan:
			ticker.Stop()
			break mainloop
		}
	}
	cmdapp.Log.Infof("Stopped timer service")
	close(data.workWaitChan)
}

func doClean(data *timerServiceData) {
	cmdapp.Log.Info("Running cleaning")
	err := data.cleaner.Clean()
	if err != nil {
		cmdapp.Log.Error(err)
	}
}
