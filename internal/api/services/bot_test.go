package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/archimorph/archimorph-server/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCannedBot_AlwaysReplies(t *testing.T) {
	t.Parallel()

	bot := &CannedBot{}
	for i := 0; i < 10; i++ {
		reply, err := bot.Reply(context.Background(), "u1", "hello")
		require.NoError(t, err)
		assert.Contains(t, cannedReplies, reply)
	}
}

func TestRasaClient_Reply(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/webhooks/rest/webhook", r.URL.Path)
		assert.Equal(t, "Bearer rasa-token", r.Header.Get("Authorization"))

		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "u1", in["sender"])
		assert.Equal(t, "two bedrooms please", in["message"])

		_ = json.NewEncoder(w).Encode([]map[string]string{
			{"text": "Two bedrooms, noted."},
		})
	}))
	defer srv.Close()

	bot := NewResponder(config.ChatbotConfig{
		Type:    "rasa",
		RasaURL: srv.URL,
		Token:   "rasa-token",
		Timeout: time.Second,
	})

	reply, err := bot.Reply(context.Background(), "u1", "two bedrooms please")
	require.NoError(t, err)
	assert.Equal(t, "Two bedrooms, noted.", reply)
}

func TestRasaClient_EmptyAndErrorResponses(t *testing.T) {
	t.Parallel()

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]string{})
	}))
	defer empty.Close()

	bot := &RasaClient{baseURL: empty.URL, http: &http.Client{Timeout: time.Second}}
	reply, err := bot.Reply(context.Background(), "u1", "hello")
	require.NoError(t, err)
	assert.Equal(t, "Sorry, I didn't understand that.", reply)

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer failing.Close()

	bot = &RasaClient{baseURL: failing.URL, http: &http.Client{Timeout: time.Second}}
	_, err = bot.Reply(context.Background(), "u1", "hello")
	assert.Error(t, err)
}
