package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"

	"github.com/archimorph/archimorph-server/internal/config"
)

// FallbackReply is sent when the configured responder cannot produce an
// answer; message appends never fail on chatbot trouble.
const FallbackReply = "Sorry, I'm having trouble connecting right now. Please try again later."

// Responder produces the bot side of a conversation. The sender id keys the
// remote NLP session so follow-up messages share context.
type Responder interface {
	Reply(ctx context.Context, sender, message string) (string, error)
}

// NewResponder picks the responder by configuration. Unknown types fall back
// to the canned bot.
func NewResponder(cfg config.ChatbotConfig) Responder {
	if cfg.Type == "rasa" {
		return &RasaClient{
			baseURL: cfg.RasaURL,
			token:   cfg.Token,
			http:    &http.Client{Timeout: cfg.Timeout},
		}
	}
	return &CannedBot{}
}

// RasaClient proxies messages to a Rasa server's REST webhook.
type RasaClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func (c *RasaClient) Reply(ctx context.Context, sender, message string) (string, error) {
	body, err := json.Marshal(map[string]string{
		"sender":  sender,
		"message": message,
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/webhooks/rest/webhook", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("rasa server error: %d", resp.StatusCode)
	}

	var replies []struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&replies); err != nil {
		return "", err
	}
	if len(replies) == 0 || replies[0].Text == "" {
		return "Sorry, I didn't understand that.", nil
	}
	return replies[0].Text, nil
}

// CannedBot answers with placeholder lines while no NLP backend is wired up.
type CannedBot struct{}

var cannedReplies = []string{
	"That's an interesting question! Let me think about that.",
	"I understand what you're asking. Here's what I think...",
	"Thanks for sharing that with me. I'd be happy to help!",
	"That's a great point. Let me provide some insights on that.",
	"I see what you mean. Here's my perspective on this topic.",
}

func (b *CannedBot) Reply(_ context.Context, _, _ string) (string, error) {
	return cannedReplies[rand.IntN(len(cannedReplies))], nil
}
