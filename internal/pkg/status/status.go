package status

// Status represents voice note processing status
type Status int

const (
	// Received - the voice note event was accepted
	Received Status = iota + 1
	// Downloaded - the audio artifact is on local storage
	Downloaded
	// Transcribed - the speech to text result is available
	Transcribed
	// Extracted - the record fields were extracted and mapped
	Extracted
	// Persisted - the record was stored, terminal
	Persisted
	// Failed - any stage failed, terminal
	Failed
)

var (
	statusName = map[Status]string{Received: "RECEIVED", Downloaded: "DOWNLOADED",
		Transcribed: "TRANSCRIBED", Extracted: "EXTRACTED",
		Persisted: "PERSISTED", Failed: "FAILED"}
	nameStatus = map[string]Status{"RECEIVED": Received, "DOWNLOADED": Downloaded,
		"TRANSCRIBED": Transcribed, "EXTRACTED": Extracted,
		"PERSISTED": Persisted, "FAILED": Failed}
)

// Name returns the string value of st
func Name(st Status) string {
	return statusName[st]
}

// From parses the status from a string
func From(st string) Status {
	return nameStatus[st]
}
