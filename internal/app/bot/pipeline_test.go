package bot

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/aurimasl/voxpense/internal/pkg/record"
	"github.com/aurimasl/voxpense/internal/pkg/status"
)

var testNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func TestProcessVoice(t *testing.T) {
	d, f := newTestServiceData(t)

	processVoice(d, &VoiceJob{senderID: 10, fileID: "f1"})

	assert.Equal(t, 1, f.saver.calls)
	assert.Equal(t, record.Record{Category: "Food", Amount: 20, Item: "Coffee",
		Date: "2024-05-01", Summary: "Spent 20 on coffee"}, f.saver.rec)
	assert.Equal(t, []string{"🎙 Spent 20 on coffee", msgSaved}, f.sender.msgs)
	assert.Equal(t, int64(10), f.sender.senderID)
	assertNoAudioFiles(t, f)
}

func TestProcessVoiceStatus(t *testing.T) {
	d, _ := newTestServiceData(t)
	job := &VoiceJob{senderID: 10, fileID: "f1"}

	processVoice(d, job)

	assert.Equal(t, status.Persisted, job.status)
}

func TestProcessVoiceFailsOnResolve(t *testing.T) {
	d, f := newTestServiceData(t)
	f.resolver.err = errors.New("no file")

	processVoice(d, &VoiceJob{senderID: 10, fileID: "f1"})

	assert.Equal(t, 0, f.retriever.calls)
	assert.Equal(t, 0, f.transcriber.calls)
	assert.Equal(t, 0, f.saver.calls)
	assert.Equal(t, []string{msgFailure}, f.sender.msgs)
}

func TestProcessVoiceFailsOnDownload(t *testing.T) {
	d, f := newTestServiceData(t)
	f.retriever.err = errors.New("timeout")

	processVoice(d, &VoiceJob{senderID: 10, fileID: "f1"})

	assert.Equal(t, 0, f.transcriber.calls)
	assert.Equal(t, 0, f.saver.calls)
	assert.Equal(t, []string{msgFailure}, f.sender.msgs)
	assert.Equal(t, 0, f.removed)
}

func TestProcessVoiceFailsOnTranscribe(t *testing.T) {
	d, f := newTestServiceData(t)
	f.transcriber.err = errors.New("stt down")

	processVoice(d, &VoiceJob{senderID: 10, fileID: "f1"})

	assert.Equal(t, 0, f.extractor.calls)
	assert.Equal(t, 0, f.saver.calls)
	assert.Equal(t, []string{msgFailure}, f.sender.msgs)
	assertNoAudioFiles(t, f)
}

func TestProcessVoiceFailsOnExtract(t *testing.T) {
	d, f := newTestServiceData(t)
	f.extractor.err = errors.New("not a JSON")

	processVoice(d, &VoiceJob{senderID: 10, fileID: "f1"})

	assert.Equal(t, 0, f.saver.calls)
	assert.Equal(t, []string{"🎙 Spent 20 on coffee", msgFailure}, f.sender.msgs)
	assertNoAudioFiles(t, f)
}

func TestProcessVoiceFailsOnPersist(t *testing.T) {
	d, f := newTestServiceData(t)
	f.saver.err = errors.New("notion down")
	job := &VoiceJob{senderID: 10, fileID: "f1"}

	processVoice(d, job)

	assert.Equal(t, 1, f.saver.calls)
	assert.Equal(t, []string{"🎙 Spent 20 on coffee", msgSaveFailed}, f.sender.msgs)
	assert.Equal(t, status.Failed, job.status)
	assertNoAudioFiles(t, f)
}

func TestProcessVoiceEmptyFields(t *testing.T) {
	d, f := newTestServiceData(t)
	f.extractor.fields = map[string]interface{}{}

	processVoice(d, &VoiceJob{senderID: 10, fileID: "f1"})

	assert.Equal(t, record.Record{Category: record.DefaultCategory, Amount: 0,
		Item: record.DefaultItem, Date: "2024-05-10",
		Summary: "Spent 20 on coffee"}, f.saver.rec)
}

func TestProcessVoiceKeepsSendingOnNotifyFailure(t *testing.T) {
	d, f := newTestServiceData(t)
	f.sender.err = errors.New("blocked")

	processVoice(d, &VoiceJob{senderID: 10, fileID: "f1"})

	assert.Equal(t, 1, f.saver.calls)
	assertNoAudioFiles(t, f)
}

func TestRelease(t *testing.T) {
	d, f := newTestServiceData(t)
	job := &VoiceJob{localPath: "/data/f.oga"}

	release(d, job)
	release(d, job)

	assert.Equal(t, 1, f.removed)
	assert.Equal(t, "", job.localPath)
}

func TestReleaseNoFile(t *testing.T) {
	d, f := newTestServiceData(t)

	release(d, &VoiceJob{})

	assert.Equal(t, 0, f.removed)
}

type testFakes struct {
	resolver    *fakeResolver
	retriever   *fakeRetriever
	transcriber *fakeTranscriber
	extractor   *fakeExtractor
	saver       *fakeSaver
	sender      *fakeSender
	removed     int
}

func newTestServiceData(t *testing.T) (*ServiceData, *testFakes) {
	t.Helper()
	f := &testFakes{
		resolver:    &fakeResolver{url: "http://files/f1"},
		retriever:   &fakeRetriever{dir: t.TempDir()},
		transcriber: &fakeTranscriber{text: "Spent 20 on coffee"},
		extractor: &fakeExtractor{fields: map[string]interface{}{
			"category": "Food", "amount": 20.0, "item": "Coffee", "date": "2024-05-01"}},
		saver:  &fakeSaver{},
		sender: &fakeSender{},
	}
	d := &ServiceData{URLResolver: f.resolver, Retriever: f.retriever,
		Transcriber: f.transcriber, Extractor: f.extractor,
		RecordSaver: f.saver, Sender: f.sender,
		now: func() time.Time { return testNow },
		removeFile: func(path string) error {
			f.removed++
			if _, err := os.Stat(path); os.IsNotExist(err) {
				return nil
			}
			return os.Remove(path)
		},
	}
	return d, f
}

func assertNoAudioFiles(t *testing.T, f *testFakes) {
	t.Helper()
	files, err := os.ReadDir(f.retriever.dir)
	assert.Nil(t, err)
	assert.Len(t, files, 0)
}

type fakeResolver struct {
	url   string
	err   error
	calls int
}

func (f *fakeResolver) ResolveFileURL(fileID string) (string, error) {
	f.calls++
	return f.url, f.err
}

type fakeRetriever struct {
	dir   string
	err   error
	calls int
}

func (f *fakeRetriever) Download(ctx context.Context, url string, senderID int64) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	path := filepath.Join(f.dir, "1_1_abc.oga")
	if err := os.WriteFile(path, []byte("audio"), 0644); err != nil {
		return "", err
	}
	return path, nil
}

type fakeTranscriber struct {
	text  string
	err   error
	calls int
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, filePath string) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeExtractor struct {
	fields map[string]interface{}
	err    error
	calls  int
}

func (f *fakeExtractor) Extract(ctx context.Context, transcript string) (map[string]interface{}, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.fields, nil
}

type fakeSaver struct {
	rec   record.Record
	err   error
	calls int
}

func (f *fakeSaver) Save(ctx context.Context, rec record.Record) error {
	f.calls++
	f.rec = rec
	return f.err
}

type fakeSender struct {
	senderID int64
	msgs     []string
	err      error
	sent     chan string
}

func (f *fakeSender) Send(senderID int64, text string) error {
	f.senderID = senderID
	f.msgs = append(f.msgs, text)
	if f.sent != nil {
		f.sent <- text
	}
	return f.err
}
