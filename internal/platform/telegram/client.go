// Package telegram is a minimal Bot API client covering the calls the bot
// needs: sending and copying messages, editing text and markup, answering
// callback queries and banning chat members.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ErrForbidden marks calls rejected with a 403, typically a user who never
// opened or has blocked the private chat.
var ErrForbidden = errors.New("telegram: forbidden")

// InlineKeyboardButton mirrors the Bot API inline button object.
type InlineKeyboardButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data,omitempty"`
}

// ReplyMarkup mirrors the Bot API inline keyboard markup object.
type ReplyMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

// Message is the subset of the Bot API message object callers consume.
type Message struct {
	MessageID int64 `json:"message_id"`
}

type Client struct {
	apiBase string
	token   string
	client  *http.Client
	logger  *slog.Logger
}

func NewClient(apiBase, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		apiBase: apiBase,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
}

func (c *Client) call(ctx context.Context, method string, payload any, out any) error {
	if c.token == "" {
		return errors.New("telegram: bot token is not configured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", method, err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/%s", c.apiBase, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do %s request: %w", method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", method, err)
	}

	var parsed apiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if !parsed.OK {
		c.logger.Warn("telegram call rejected",
			"event", "telegram_call_rejected",
			"module", "platform/telegram",
			"method", method,
			"status", resp.StatusCode,
			"description", parsed.Description,
		)
		if resp.StatusCode == http.StatusForbidden {
			return fmt.Errorf("%w: %s", ErrForbidden, parsed.Description)
		}
		return fmt.Errorf("telegram %s: %s", method, parsed.Description)
	}
	if out != nil && len(parsed.Result) > 0 {
		if err := json.Unmarshal(parsed.Result, out); err != nil {
			return fmt.Errorf("decode %s result: %w", method, err)
		}
	}
	return nil
}

func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, markup *ReplyMarkup) (Message, error) {
	payload := map[string]any{"chat_id": chatID, "text": text}
	if markup != nil {
		payload["reply_markup"] = markup
	}
	var message Message
	err := c.call(ctx, "sendMessage", payload, &message)
	return message, err
}

// CopyMessage re-posts a message without the forwarded-from header, which
// keeps anonymous submissions anonymous.
func (c *Client) CopyMessage(ctx context.Context, toChatID, fromChatID, messageID int64, markup *ReplyMarkup) (Message, error) {
	payload := map[string]any{
		"chat_id":      toChatID,
		"from_chat_id": fromChatID,
		"message_id":   messageID,
	}
	if markup != nil {
		payload["reply_markup"] = markup
	}
	var message Message
	err := c.call(ctx, "copyMessage", payload, &message)
	return message, err
}

func (c *Client) ForwardMessage(ctx context.Context, toChatID, fromChatID, messageID int64) (Message, error) {
	payload := map[string]any{
		"chat_id":      toChatID,
		"from_chat_id": fromChatID,
		"message_id":   messageID,
	}
	var message Message
	err := c.call(ctx, "forwardMessage", payload, &message)
	return message, err
}

func (c *Client) EditMessageText(ctx context.Context, chatID, messageID int64, text string, markup *ReplyMarkup) error {
	payload := map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
		"text":       text,
	}
	if markup != nil {
		payload["reply_markup"] = markup
	}
	return c.call(ctx, "editMessageText", payload, nil)
}

func (c *Client) EditMessageReplyMarkup(ctx context.Context, chatID, messageID int64, markup ReplyMarkup) error {
	payload := map[string]any{
		"chat_id":      chatID,
		"message_id":   messageID,
		"reply_markup": markup,
	}
	return c.call(ctx, "editMessageReplyMarkup", payload, nil)
}

func (c *Client) AnswerCallbackQuery(ctx context.Context, queryID, text string) error {
	payload := map[string]any{"callback_query_id": queryID}
	if text != "" {
		payload["text"] = text
	}
	return c.call(ctx, "answerCallbackQuery", payload, nil)
}

func (c *Client) BanChatMember(ctx context.Context, chatID, userID int64) error {
	payload := map[string]any{"chat_id": chatID, "user_id": userID}
	return c.call(ctx, "banChatMember", payload, nil)
}
