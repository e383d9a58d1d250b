package bot

import (
	"context"
	"os"
	"time"

	"github.com/aurimasl/voxpense/internal/pkg/cmdapp"
	pkgErr "github.com/aurimasl/voxpense/internal/pkg/err"
	"github.com/aurimasl/voxpense/internal/pkg/record"
	"github.com/aurimasl/voxpense/internal/pkg/status"
)

const (
	msgFailure    = "Sorry, something went wrong. Please try again."
	msgSaveFailed = "I understood the note but failed to save it. Please try again."
	msgSaved      = "✅ Saved."
)

// VoiceJob tracks one voice note through the pipeline
type VoiceJob struct {
	senderID   int64
	fileID     string
	localPath  string
	transcript string
	rec        record.Record
	status     status.Status
}

// processVoice runs the whole pipeline for one voice note.
// The local audio file is removed on every exit path after a
// successful download
func processVoice(data *ServiceData, job *VoiceJob) {
	ctx := context.Background()
	job.status = status.Received

	err := download(ctx, data, job)
	if err == nil {
		defer release(data, job)
		err = runStages(ctx, data, job)
	}
	if err != nil {
		job.status = status.Failed
		data.metrics.countJob(status.Name(status.Failed))
		cmdapp.Log.Errorf("Voice note from %d failed at %s: %v", job.senderID, pkgErr.StageOf(err), err)
		notify(data, job, msgFailure)
		return
	}
	cmdapp.Log.Infof("Voice note from %d done: %s", job.senderID, status.Name(job.status))
}

func download(ctx context.Context, data *ServiceData, job *VoiceJob) error {
	url, err := data.URLResolver.ResolveFileURL(job.fileID)
	if err != nil {
		return pkgErr.NewRetrieval(err)
	}
	st := time.Now()
	job.localPath, err = data.Retriever.Download(ctx, url, job.senderID)
	data.metrics.observe("download", time.Since(st))
	if err != nil {
		return err
	}
	job.status = status.Downloaded
	return nil
}

func runStages(ctx context.Context, data *ServiceData, job *VoiceJob) error {
	st := time.Now()
	transcript, err := data.Transcriber.Transcribe(ctx, job.localPath)
	data.metrics.observe("transcribe", time.Since(st))
	if err != nil {
		return err
	}
	job.transcript = transcript
	job.status = status.Transcribed
	notify(data, job, "🎙 "+job.transcript)

	st = time.Now()
	fields, err := data.Extractor.Extract(ctx, job.transcript)
	data.metrics.observe("extract", time.Since(st))
	if err != nil {
		return err
	}
	job.rec = record.Map(fields, job.transcript, data.now())
	job.status = status.Extracted

	st = time.Now()
	err = data.RecordSaver.Save(ctx, job.rec)
	data.metrics.observe("persist", time.Since(st))
	if err != nil {
		// a persist failure is an outcome, not a pipeline error
		job.status = status.Failed
		data.metrics.countJob(status.Name(status.Failed))
		cmdapp.Log.Errorf("Can't save record for %d: %v", job.senderID, err)
		notify(data, job, msgSaveFailed)
		return nil
	}
	job.status = status.Persisted
	data.metrics.countJob(status.Name(status.Persisted))
	notify(data, job, msgSaved)
	return nil
}

// release drops the local audio file, exactly once per job
func release(data *ServiceData, job *VoiceJob) {
	if job.localPath == "" {
		return
	}
	if err := data.removeFile(job.localPath); err != nil {
		cmdapp.Log.Errorf("Can't remove %s: %v", job.localPath, err)
	} else {
		cmdapp.Log.Infof("Removed %s", job.localPath)
	}
	job.localPath = ""
}

// notify is best effort, a lost progress message does not fail the job
func notify(data *ServiceData, job *VoiceJob, text string) {
	cmdapp.LogIf(data.Sender.Send(job.senderID, text))
}

func defaultRemoveFile(path string) error {
	return os.Remove(path)
}
