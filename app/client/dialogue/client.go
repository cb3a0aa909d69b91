package dialogue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"casebot/app/config"

	"github.com/samber/do"
	"github.com/samber/oops"
)

const maxErrorBody = 512

// BotMessage is one reply as the REST input channel returns it.
type BotMessage struct {
	RecipientID string           `json:"recipient_id"`
	Text        string           `json:"text,omitempty"`
	Buttons     []map[string]any `json:"buttons,omitempty"`
	Image       string           `json:"image,omitempty"`
	Attachment  any              `json:"attachment,omitempty"`
	Custom      any              `json:"custom,omitempty"`
}

type userMessage struct {
	Sender   string         `json:"sender"`
	Message  string         `json:"message"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Client hands user messages to the dialogue framework and collects its replies.
type Client struct {
	url        string
	httpClient *http.Client
}

func NewClient(di *do.Injector) (*Client, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return New(cfg.Dialogue, nil), nil
}

func New(cfg config.Dialogue, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: cfg.Timeout,
		}
	}

	return &Client{
		url:        cfg.URL,
		httpClient: httpClient,
	}
}

// Send posts one user turn and returns the bot replies in order.
func (c *Client) Send(ctx context.Context, sender, message string, metadata map[string]any) ([]BotMessage, error) {
	body, err := json.Marshal(userMessage{
		Sender:   sender,
		Message:  message,
		Metadata: metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, oops.In("dialogue").With("sender", sender).Wrapf(err, "POST %s", c.url)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		return nil, oops.
			In("dialogue").
			With("sender", sender).
			With("status", resp.StatusCode).
			Errorf("unexpected status %d: %s", resp.StatusCode, string(data))
	}

	var result []BotMessage
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, oops.In("dialogue").Wrapf(err, "decode replies")
	}

	return result, nil
}
