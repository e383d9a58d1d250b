package telegram

import (
	"time"

	"github.com/cenkalti/backoff"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"github.com/aurimasl/voxpense/internal/pkg/cmdapp"
)

// VoiceEvent is one incoming voice note reference
type VoiceEvent struct {
	SenderID int64
	FileID   string
	// Duration is the note length in seconds as reported by telegram
	Duration int
}

const welcomeMsg = "Hi! Send me a voice note with your expense and I will save it to Notion."

// Client wraps the telegram bot API
type Client struct {
	bot         *tgbotapi.BotAPI
	pollTimeout int
}

// NewClient connects to the bot API.
// The initial connect is retried with exponential backoff, the
// per-note pipeline itself stays retry free
func NewClient(token string) (*Client, error) {
	if token == "" {
		return nil, errors.New("No telegram token provided")
	}
	var bot *tgbotapi.BotAPI
	op := func() error {
		var err error
		bot, err = tgbotapi.NewBotAPI(token)
		if err != nil {
			cmdapp.Log.Warn("Can't connect to telegram, retrying")
		}
		return err
	}
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = time.Minute
	if err := backoff.Retry(op, bo); err != nil {
		return nil, errors.Wrap(err, "Can't connect to telegram")
	}
	cmdapp.Log.Infof("Authorized as @%s", bot.Self.UserName)
	return &Client{bot: bot, pollTimeout: 60}, nil
}

// ResolveFileURL resolves a file ID to a direct download URL
func (c *Client) ResolveFileURL(fileID string) (string, error) {
	res, err := c.bot.GetFileDirectURL(fileID)
	if err != nil {
		return "", errors.Wrap(err, "Can't resolve file URL")
	}
	return res, nil
}

// Send delivers a text message to the user
func (c *Client) Send(senderID int64, text string) error {
	_, err := c.bot.Send(tgbotapi.NewMessage(senderID, text))
	return err
}

// VoiceEvents starts long polling and returns the channel of incoming voice notes.
// The command layer is handled here: /start gets a welcome reply,
// everything that is not a voice message is dropped
func (c *Client) VoiceEvents() <-chan VoiceEvent {
	res := make(chan VoiceEvent)
	u := tgbotapi.NewUpdate(0)
	u.Timeout = c.pollTimeout
	updates := c.bot.GetUpdatesChan(u)
	go func() {
		defer close(res)
		for update := range updates {
			if update.Message == nil {
				continue
			}
			if update.Message.IsCommand() {
				if update.Message.Command() == "start" {
					cmdapp.LogIf(c.Send(update.Message.Chat.ID, welcomeMsg))
				}
				continue
			}
			if update.Message.Voice == nil {
				continue
			}
			res <- VoiceEvent{SenderID: update.Message.Chat.ID, FileID: update.Message.Voice.FileID,
				Duration: update.Message.Voice.Duration}
		}
	}()
	return res
}

// Close stops receiving updates
func (c *Client) Close() {
	c.bot.StopReceivingUpdates()
}
