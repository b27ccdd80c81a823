// Package telegram provides a minimal client for the Telegram Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// API defines the Bot API operations the bot uses.
type API interface {
	// GetUpdates long-polls for new updates after the given offset.
	GetUpdates(ctx context.Context, offset int64, timeoutSecs int) ([]Update, error)
	// SendMessage sends a text message, optionally with an inline keyboard.
	SendMessage(ctx context.Context, req SendMessageRequest) (*Message, error)
	// EditMessageText rewrites an existing message in place.
	EditMessageText(ctx context.Context, req EditMessageTextRequest) error
	// DeleteMessage removes a message from a chat.
	DeleteMessage(ctx context.Context, chatID, messageID int64) error
	// AnswerCallbackQuery acknowledges an inline button press.
	AnswerCallbackQuery(ctx context.Context, callbackID, text string) error
}

// Option configures the Telegram client.
type Option func(*httpClient)

// WithBaseURL sets a custom API base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit overrides the outgoing request rate.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
	}
}

type httpClient struct {
	token   string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Bot API client. The default rate limit stays under
// the 30 messages per second the API allows a bot overall.
func NewClient(token string, opts ...Option) API {
	c := &httpClient{
		token:   token,
		baseURL: "https://api.telegram.org",
		http: &http.Client{
			// Long-poll requests hold the connection open for up to
			// telegram's timeout plus network slack.
			Timeout: 90 * time.Second,
		},
		limiter: rate.NewLimiter(25, 5),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// call posts a Bot API method and decodes the envelope. result may be nil
// when the caller does not need the payload.
func (c *httpClient) call(ctx context.Context, method string, payload any, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "telegram: rate limit wait")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return eris.Wrapf(err, "telegram: marshal %s", method)
	}

	reqURL := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return eris.Wrapf(err, "telegram: create %s request", method)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrapf(err, "telegram: %s request", method)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrapf(err, "telegram: read %s response", method)
	}

	var envelope struct {
		OK          bool            `json:"ok"`
		Description string          `json:"description"`
		ErrorCode   int             `json:"error_code"`
		Result      json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return eris.Wrapf(err, "telegram: unmarshal %s response", method)
	}
	if !envelope.OK {
		return eris.Errorf("telegram: %s failed: %d %s", method, envelope.ErrorCode, envelope.Description)
	}
	if result != nil {
		if err := json.Unmarshal(envelope.Result, result); err != nil {
			return eris.Wrapf(err, "telegram: unmarshal %s result", method)
		}
	}
	return nil
}

func (c *httpClient) GetUpdates(ctx context.Context, offset int64, timeoutSecs int) ([]Update, error) {
	payload := map[string]any{
		"offset":          offset,
		"timeout":         timeoutSecs,
		"allowed_updates": []string{"message", "callback_query"},
	}
	var updates []Update
	if err := c.call(ctx, "getUpdates", payload, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

func (c *httpClient) SendMessage(ctx context.Context, req SendMessageRequest) (*Message, error) {
	var msg Message
	if err := c.call(ctx, "sendMessage", req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *httpClient) EditMessageText(ctx context.Context, req EditMessageTextRequest) error {
	return c.call(ctx, "editMessageText", req, nil)
}

func (c *httpClient) DeleteMessage(ctx context.Context, chatID, messageID int64) error {
	payload := map[string]any{"chat_id": chatID, "message_id": messageID}
	return c.call(ctx, "deleteMessage", payload, nil)
}

func (c *httpClient) AnswerCallbackQuery(ctx context.Context, callbackID, text string) error {
	payload := map[string]any{"callback_query_id": callbackID}
	if text != "" {
		payload["text"] = text
	}
	return c.call(ctx, "answerCallbackQuery", payload, nil)
}
