package transcriber

import (
	"context"
	"os"
	"strings"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/pkg/errors"

	"github.com/aurimasl/voxpense/internal/pkg/cmdapp"
	pkgErr "github.com/aurimasl/voxpense/internal/pkg/err"
)

// Client communicates with the speech to text service
type Client struct {
	client oai.Client
	model  string
}

// NewClient creates a transcriber client
func NewClient(apiKey string, model string, opts ...option.RequestOption) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("No OpenAI API key provided")
	}
	if model == "" {
		return nil, errors.New("No transcription model provided")
	}
	ro := append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &Client{client: oai.NewClient(ro...), model: model}, nil
}

// Transcribe sends the audio file to the service and returns the recognized text.
// No retry here - a failed job is dropped and the user resubmits
func (c *Client) Transcribe(ctx context.Context, filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", pkgErr.NewTranscription(errors.Wrap(err, "Can't open audio file "+filePath))
	}
	defer f.Close()
	cmdapp.Log.Infof("Transcribing %s", filePath)
	resp, err := c.client.Audio.Transcriptions.New(ctx, oai.AudioTranscriptionNewParams{
		Model: oai.AudioModel(c.model),
		File:  f,
	})
	if err != nil {
		return "", pkgErr.NewTranscription(errors.Wrap(err, "Can't call speech to text service"))
	}
	res := strings.TrimSpace(resp.Text)
	if res == "" {
		return "", pkgErr.NewTranscription(errors.New("Empty transcription result"))
	}
	return res, nil
}
