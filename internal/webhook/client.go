// Package webhook talks to the workflow-automation webhooks that back the
// chat widget and the contact form.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lupa-app/lupa/internal/config"
)

var (
	// ErrNotConfigured means the webhook URL for the call is empty.
	ErrNotConfigured = errors.New("webhook not configured")
	// ErrUnavailable is a transport failure: the webhook could not be reached.
	ErrUnavailable = errors.New("webhook unavailable")
)

// UpstreamError is a non-2xx answer from the webhook.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("webhook returned %d: %s", e.StatusCode, e.Body)
}

// maxBody caps how much of a webhook reply is read.
const maxBody = 1 << 20

type Client struct {
	chatURL    string
	contactURL string
	username   string
	password   string
	http       *http.Client
}

func NewClient(cfg config.WebhookConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		chatURL:    cfg.ChatURL,
		contactURL: cfg.ContactURL,
		username:   cfg.Username,
		password:   cfg.Password,
		http:       &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Text      string `json:"text"`
	SessionID string `json:"sessionId"`
}

// Chat forwards one message of the conversation identified by sessionID and
// returns the bot reply.
func (c *Client) Chat(ctx context.Context, sessionID, message string) (*ChatReply, error) {
	if c.chatURL == "" {
		return nil, fmt.Errorf("chat: %w", ErrNotConfigured)
	}
	body, err := c.post(ctx, c.chatURL, chatRequest{Text: message, SessionID: sessionID})
	if err != nil {
		return nil, fmt.Errorf("chat: %w", err)
	}
	return parseChatReply(body)
}

// ContactForm is the landing page contact request.
type ContactForm struct {
	Nome     string `json:"nome" binding:"required,max=200"`
	Email    string `json:"email" binding:"required,email"`
	Empresa  string `json:"empresa" binding:"max=200"`
	Mensagem string `json:"mensagem" binding:"required,max=5000"`
}

func (c *Client) SubmitContact(ctx context.Context, form ContactForm) error {
	if c.contactURL == "" {
		return fmt.Errorf("contact: %w", ErrNotConfigured)
	}
	if _, err := c.post(ctx, c.contactURL, form); err != nil {
		return fmt.Errorf("contact: %w", err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, url string, payload any) ([]byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	r, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	r.Header.Set("Content-Type", "application/json")
	if c.username != "" {
		r.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.http.Do(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("%w: read reply: %w", ErrUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}
