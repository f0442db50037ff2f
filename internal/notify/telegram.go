package notify

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"fx-signal-bot/internal/api"
	"fx-signal-bot/internal/logger"
)

const telegramBaseURL = "https://api.telegram.org"

// Telegram delivers messages through the Telegram Bot API. The returned
// handle is the Telegram message_id, which sendMessage accepts back as
// reply_to_message_id for threading.
type Telegram struct {
	client *api.Client
	token  string
	chatID string
}

func NewTelegram(token, chatID string) *Telegram {
	return &Telegram{
		client: api.NewClient(api.WithBaseURL(telegramBaseURL), api.WithTimeout(10*time.Second)),
		token:  token,
		chatID: chatID,
	}
}

type sendMessageRequest struct {
	ChatID           string `json:"chat_id"`
	Text             string `json:"text"`
	ParseMode        string `json:"parse_mode"`
	ReplyToMessageID int64  `json:"reply_to_message_id,omitempty"`
}

type sendMessageResponse struct {
	OK     bool `json:"ok"`
	Result struct {
		MessageID int64 `json:"message_id"`
	} `json:"result"`
	Description string `json:"description"`
}

func (t *Telegram) send(ctx context.Context, req sendMessageRequest) (int64, error) {
	resp, err := t.client.POST(ctx, fmt.Sprintf("/bot%s/sendMessage", t.token), req)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}
	var payload sendMessageResponse
	if err := resp.ParseJSON(&payload); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}
	if !payload.OK {
		return 0, fmt.Errorf("%w: %s", ErrDeliveryFailed, payload.Description)
	}
	return payload.Result.MessageID, nil
}

func (t *Telegram) Send(ctx context.Context, text string) (string, error) {
	id, err := t.send(ctx, sendMessageRequest{
		ChatID:    t.chatID,
		Text:      text,
		ParseMode: "Markdown",
	})
	if err != nil {
		logger.Warn(ctx, "Telegram send failed", "error", err)
		return "", err
	}
	return strconv.FormatInt(id, 10), nil
}

func (t *Telegram) SendReply(ctx context.Context, text, handle string) error {
	replyTo, err := strconv.ParseInt(handle, 10, 64)
	if err != nil {
		// A foreign handle still gets the result out, just unthreaded.
		logger.Warn(ctx, "Invalid reply handle, sending unthreaded", "handle", handle)
	}
	_, err = t.send(ctx, sendMessageRequest{
		ChatID:           t.chatID,
		Text:             text,
		ParseMode:        "Markdown",
		ReplyToMessageID: replyTo,
	})
	if err != nil {
		logger.Warn(ctx, "Telegram reply failed", "error", err, "reply_to", handle)
	}
	return err
}
