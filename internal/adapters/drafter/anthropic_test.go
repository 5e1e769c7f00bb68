package drafter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorled/fellowtrack/internal/domain/model"
	"github.com/mentorled/fellowtrack/internal/domain/warning"
	"github.com/mentorled/fellowtrack/pkg/logger"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func draftJSON(message string) string {
	payload := map[string]any{
		"message":      message,
		"tone":         "firm",
		"key_points":   []string{"attendance"},
		"requirements": []string{"weekly check-ins"},
		"timeline":     "2 weeks",
	}
	raw, _ := json.Marshal(payload)
	return string(raw)
}

func messagesBody(text string) string {
	raw, _ := json.Marshal(map[string]any{
		"content": []map[string]string{{"type": "text", "text": text}},
	})
	return string(raw)
}

func TestClientDraft(t *testing.T) {
	longMessage := strings.Repeat("you must improve attendance and output. ", 8)

	t.Run("sends an authenticated messages request and parses the draft", func(t *testing.T) {
		var gotPath, gotKey, gotVersion string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotKey = r.Header.Get("x-api-key")
			gotVersion = r.Header.Get("anthropic-version")

			var req messagesRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.NotEmpty(t, req.System)
			require.Len(t, req.Messages, 1)
			assert.Contains(t, req.Messages[0].Content, "Ada")

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(messagesBody(draftJSON(longMessage))))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "test-key")
		draft, err := c.Draft(context.Background(), warning.DraftRequest{
			Level:      model.WarningFirst,
			FellowName: "Ada",
			Role:       "backend",
		})
		require.NoError(t, err)

		assert.Equal(t, "/v1/messages", gotPath)
		assert.Equal(t, "test-key", gotKey)
		assert.Equal(t, apiVersion, gotVersion)
		assert.Equal(t, strings.TrimSpace(longMessage), draft.Message)
		assert.Equal(t, []string{"weekly check-ins"}, draft.Requirements)
		assert.Equal(t, "2 weeks", draft.Timeline)
	})

	t.Run("final warnings get the final system prompt", func(t *testing.T) {
		var system string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req messagesRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			system = req.System
			_, _ = w.Write([]byte(messagesBody(draftJSON(longMessage))))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "k")
		_, err := c.Draft(context.Background(), warning.DraftRequest{Level: model.WarningFinal})
		require.NoError(t, err)
		assert.Contains(t, system, "final warnings")
	})

	t.Run("rejects a message below the minimum length", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(messagesBody(draftJSON("too short"))))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "k")
		_, err := c.Draft(context.Background(), warning.DraftRequest{Level: model.WarningFirst})
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})

	t.Run("maps transport-level failures to unavailability", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "k")
		_, err := c.Draft(context.Background(), warning.DraftRequest{Level: model.WarningFirst})
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}

func TestParseDraft(t *testing.T) {
	longMessage := strings.Repeat("attendance must improve immediately. ", 8)

	t.Run("tolerates code fences around the JSON", func(t *testing.T) {
		fenced := "```json\n" + draftJSON(longMessage) + "\n```"
		draft, err := parseDraft(fenced)
		require.NoError(t, err)
		assert.Equal(t, strings.TrimSpace(longMessage), draft.Message)
	})

	t.Run("fails on prose with no JSON object", func(t *testing.T) {
		_, err := parseDraft("I cannot help with that.")
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})

	t.Run("fails when requirements are missing", func(t *testing.T) {
		raw, _ := json.Marshal(map[string]any{"message": longMessage, "timeline": "2 weeks"})
		_, err := parseDraft(string(raw))
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})
}
