package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	c := NewClient("http://gateway", "u", "p", "")
	require.Equal(t, "962791234567", c.NormalizePhone("0791234567"))
	require.Equal(t, "962791234567", c.NormalizePhone("+962 79 123 4567"))
	require.Equal(t, "962791234567", c.NormalizePhone("00962791234567"))
	require.Equal(t, "", c.NormalizePhone("n/a"))
}

func TestSendMessage(t *testing.T) {
	var got SendMessageRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/device1/send/message", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "user", user)
		require.Equal(t, "secret", pass)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"success":true,"data":{"message_id":"m1","status":"sent"}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL+"/", "user", "secret", "/device1/")
	resp, err := c.SendMessage(context.Background(), "0791234567", "hello")
	require.NoError(t, err)
	require.Equal(t, "m1", resp.Data.MessageID)
	require.Equal(t, "962791234567@s.whatsapp.net", got.Phone)
	require.Equal(t, "hello", got.Message)
}

func TestSendMessageGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewClient(server.URL, "u", "p", "")
	err := c.SendTextMessage(context.Background(), "0791234567", "hi")
	require.ErrorContains(t, err, "502")
}

func TestSendMessageRejectsEmptyPhone(t *testing.T) {
	c := NewClient("http://gateway", "u", "p", "")
	require.Error(t, c.SendTextMessage(context.Background(), "---", "hi"))
}

func TestWebhookSender(t *testing.T) {
	msg := WebhookMessage{From: "962791234567@s.whatsapp.net"}
	require.Equal(t, "962791234567", msg.Sender())

	msg = WebhookMessage{SenderID: "962700000000"}
	require.Equal(t, "962700000000", msg.Sender())
}

func TestNormalizePhoneWithoutCountryCode(t *testing.T) {
	require.Equal(t, "0791234567", NormalizePhone("079 123 4567", ""))
	require.Equal(t, "44123456789", NormalizePhone("0044 123 456 789", "962"))
}
