package err

import "errors"

// Stage identifies the pipeline step a failure belongs to
type Stage string

const (
	// Retrieval - fetching the audio from the messaging platform failed
	Retrieval Stage = "RETRIEVAL"
	// Transcription - the speech to text service failed or returned nothing
	Transcription Stage = "TRANSCRIPTION"
	// Extraction - the language extraction service failed or returned garbage
	Extraction Stage = "EXTRACTION"
)

// StageError wraps an underlying failure with the pipeline stage it occurred in.
// The user never sees the stage, it is for operator logs and metrics
type StageError struct {
	stage Stage
	err   error
}

// NewRetrieval marks e as an audio retrieval failure
func NewRetrieval(e error) *StageError {
	return &StageError{stage: Retrieval, err: e}
}

// NewTranscription marks e as a speech to text failure
func NewTranscription(e error) *StageError {
	return &StageError{stage: Transcription, err: e}
}

// NewExtraction marks e as a language extraction failure
func NewExtraction(e error) *StageError {
	return &StageError{stage: Extraction, err: e}
}

func (e *StageError) Error() string {
	return string(e.stage) + ": " + e.err.Error()
}

// Unwrap returns the underlying error
func (e *StageError) Unwrap() error {
	return e.err
}

// StageOf returns the stage recorded in e or empty string
func StageOf(e error) Stage {
	var se *StageError
	if errors.As(e, &se) {
		return se.stage
	}
	return ""
}
