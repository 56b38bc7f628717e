package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lupa-app/lupa/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(chatURL, contactURL string) *Client {
	return NewClient(config.WebhookConfig{
		ChatURL:    chatURL,
		ContactURL: contactURL,
		Username:   "lupa",
		Password:   "secret",
		Timeout:    2 * time.Second,
	})
}

func TestChat_ForwardsMessage(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "lupa", user)
		assert.Equal(t, "secret", pass)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"output":"Olá! Como posso ajudar?"}`))
	}))
	defer srv.Close()

	reply, err := newTestClient(srv.URL, "").Chat(context.Background(), "user-token-1", "oi")
	require.NoError(t, err)
	assert.Equal(t, "Olá! Como posso ajudar?", reply.Text)
	assert.Equal(t, "oi", got.Text)
	assert.Equal(t, "user-token-1", got.SessionID)
}

func TestChat_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "workflow inactive", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, "").Chat(context.Background(), "tok", "oi")
	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, http.StatusNotFound, upErr.StatusCode)
	assert.Equal(t, "workflow inactive", upErr.Body)
}

func TestChat_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestClient(url, "").Chat(context.Background(), "tok", "oi")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestChat_NotConfigured(t *testing.T) {
	_, err := newTestClient("", "").Chat(context.Background(), "tok", "oi")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestParseChatReply(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "plain text", body: "Resposta simples\n", want: "Resposta simples"},
		{name: "json string", body: `"oi"`, want: "oi"},
		{name: "text field", body: `{"text":"a"}`, want: "a"},
		{name: "response field", body: `{"response":"b","sessionId":"x"}`, want: "b"},
		{name: "message field", body: `{"message":"c"}`, want: "c"},
		{name: "content field", body: `{"content":"d"}`, want: "d"},
		{name: "array", body: `[{"output":"e"}]`, want: "e"},
		{name: "text wins", body: `{"text":"f","output":"g"}`, want: "f"},
		{name: "blank text falls through", body: `{"text":"","output":"h"}`, want: "h"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := parseChatReply([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, reply.Text)
		})
	}
}

func TestParseChatReply_Malformed(t *testing.T) {
	for _, body := range []string{`{"foo":"bar"}`, `{"text":42}`, `[]`, `[1]`, `17`} {
		t.Run(body, func(t *testing.T) {
			_, err := parseChatReply([]byte(body))
			assert.ErrorIs(t, err, ErrMalformedReply)
		})
	}
}

func TestSubmitContact(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := newTestClient("", srv.URL).SubmitContact(context.Background(), ContactForm{
		Nome:     "Maria",
		Email:    "maria@acme.com",
		Empresa:  "Acme",
		Mensagem: "Quero conhecer a plataforma",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"nome":     "Maria",
		"email":    "maria@acme.com",
		"empresa":  "Acme",
		"mensagem": "Quero conhecer a plataforma",
	}, got)
}

func TestSubmitContact_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := newTestClient("", srv.URL).SubmitContact(context.Background(), ContactForm{Nome: "M", Email: "m@a.com", Mensagem: "x"})
	var upErr *UpstreamError
	assert.ErrorAs(t, err, &upErr)
}
