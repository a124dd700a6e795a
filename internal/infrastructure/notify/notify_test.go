package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallMeBotClient_SendWhatsApp(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = w.Write([]byte("Message queued."))
	}))
	defer srv.Close()

	c := NewCallMeBotClient(srv.URL+"/", time.Second)
	err := c.SendWhatsApp(context.Background(), "5522997146538", "k&y", "Novo Pedido: 500x Etiquetas")
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, "/whatsapp.php", got.URL.Path)
	assert.Equal(t, "5522997146538", got.URL.Query().Get("phone"))
	assert.Equal(t, "k&y", got.URL.Query().Get("apikey"))
	assert.Equal(t, "Novo Pedido: 500x Etiquetas", got.URL.Query().Get("text"))
}

func TestCallMeBotClient_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("  APIKey is invalid.\n  "))
	}))
	defer srv.Close()

	err := NewCallMeBotClient(srv.URL, time.Second).SendWhatsApp(context.Background(), "1", "bad", "hi")
	require.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "callmebot returned 403: APIKey is invalid.")
}

func TestCallMeBotClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	err := NewCallMeBotClient(srv.URL, time.Second).SendWhatsApp(context.Background(), "1", "k", "hi")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRejected)
}

func TestEmailJSClient_SendEmail(t *testing.T) {
	var payload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1.0/email/send", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		_, _ = w.Write([]byte("OK"))
	}))
	defer srv.Close()

	c := NewEmailJSClient(srv.URL, "private", time.Second)
	err := c.SendEmail(context.Background(), Email{
		ServiceID:  "service_x",
		TemplateID: "template_admin",
		PublicKey:  "pub",
		Params:     map[string]string{"user_name": "Maria", "grand_total": "151.05"},
	})
	require.NoError(t, err)

	assert.Equal(t, "service_x", payload["service_id"])
	assert.Equal(t, "template_admin", payload["template_id"])
	assert.Equal(t, "pub", payload["user_id"])
	assert.Equal(t, "private", payload["accessToken"])
	params, ok := payload["template_params"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "151.05", params["grand_total"])
}

func TestEmailJSClient_OmitsEmptyAccessToken(t *testing.T) {
	var payload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&payload)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("The template ID is invalid"))
	}))
	defer srv.Close()

	err := NewEmailJSClient(srv.URL, "", time.Second).SendEmail(context.Background(), Email{TemplateID: "nope"})
	require.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "The template ID is invalid")
	assert.NotContains(t, payload, "accessToken")
}
