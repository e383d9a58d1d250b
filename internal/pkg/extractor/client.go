package extractor

import (
	"context"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"github.com/pkg/errors"

	"github.com/aurimasl/voxpense/internal/pkg/cmdapp"
	pkgErr "github.com/aurimasl/voxpense/internal/pkg/err"
)

// the instruction is fixed, only the transcript changes per request
const systemInstruction = `You extract structured expense data from a voice note transcript.
Return a single JSON object with the fields: category, amount, item, date (YYYY-MM-DD).
If the utterance is not an expense, tag the category as "Note" or "Journal" and set amount to 0.
Return JSON only, no explanations.`

// Client asks the language model for structured record fields
type Client struct {
	client oai.Client
	model  string
}

// NewClient creates an extraction client
func NewClient(apiKey string, model string, opts ...option.RequestOption) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("No OpenAI API key provided")
	}
	if model == "" {
		return nil, errors.New("No extraction model provided")
	}
	ro := append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &Client{client: oai.NewClient(ro...), model: model}, nil
}

// Extract requests category, amount, item, date for the transcript as one JSON object.
// The returned fields are raw - type coercion and defaulting is the record mapper's job
func (c *Client) Extract(ctx context.Context, transcript string) (map[string]interface{}, error) {
	cmdapp.Log.Debugf("Extracting from %d chars", len(transcript))
	resp, err := c.client.Chat.Completions.New(ctx, oai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []oai.ChatCompletionMessageParamUnion{
			oai.SystemMessage(systemInstruction),
			oai.UserMessage(transcript),
		},
		ResponseFormat: oai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		return nil, pkgErr.NewExtraction(errors.Wrap(err, "Can't call completion service"))
	}
	if len(resp.Choices) == 0 {
		return nil, pkgErr.NewExtraction(errors.New("Empty choices in response"))
	}
	fields, err := ParseFields(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, pkgErr.NewExtraction(err)
	}
	return fields, nil
}
