package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// ErrNoRecipient is returned when a message has no phone number.
var ErrNoRecipient = errors.New("whatsapp message requires a phone number")

// Message is a plain-text WhatsApp message.
type Message struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// Sender delivers WhatsApp messages.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// CloudSender posts text messages to the WhatsApp Cloud API.
type CloudSender struct {
	baseURL string
	token   string
	phoneID string
	client  *http.Client
}

// NewCloudSender creates a sender for the Graph API base URL, e.g. https://graph.facebook.com/v19.0.
func NewCloudSender(baseURL, token, phoneID string) *CloudSender {
	return &CloudSender{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		phoneID: phoneID,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type cloudRequest struct {
	MessagingProduct string `json:"messaging_product"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		Body string `json:"body"`
	} `json:"text"`
}

type cloudResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// Send posts msg and returns the provider message ID.
// PRE: msg.To is an E.164 phone number
// POST: Non-2xx responses are returned as errors
func (s *CloudSender) Send(ctx context.Context, msg Message) (string, error) {
	if strings.TrimSpace(msg.To) == "" {
		return "", ErrNoRecipient
	}
	payload := cloudRequest{MessagingProduct: "whatsapp", To: msg.To, Type: "text"}
	payload.Text.Body = msg.Body
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/%s/messages", s.baseURL, s.phoneID), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("whatsapp request failed: %w", err)
	}
	defer resp.Body.Close()

	var out cloudResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(raw, &out)

	if resp.StatusCode/100 != 2 {
		msg := resp.Status
		if out.Error != nil {
			msg = out.Error.Message
		}
		slog.Error("whatsapp_send_failed", "status", resp.StatusCode, "error", msg)
		return "", fmt.Errorf("whatsapp send failed: %s", msg)
	}
	id := ""
	if len(out.Messages) > 0 {
		id = out.Messages[0].ID
	}
	slog.Info("whatsapp_sent", "message_id", id)
	return id, nil
}

// NoopSender logs messages without delivering them.
type NoopSender struct{}

// Send logs the message.
func (NoopSender) Send(_ context.Context, msg Message) (string, error) {
	if strings.TrimSpace(msg.To) == "" {
		return "", ErrNoRecipient
	}
	slog.Info("noop_whatsapp_send", "to", msg.To)
	return fmt.Sprintf("noop-%d", time.Now().UnixNano()), nil
}
