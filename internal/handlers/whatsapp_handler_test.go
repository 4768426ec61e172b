package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"restaurant_web/internal/models"
	"restaurant_web/internal/services"

	"github.com/stretchr/testify/require"
)

func webhookPayload(from, text string) map[string]interface{} {
	return map[string]interface{}{
		"from":    from + "@s.whatsapp.net",
		"message": map[string]string{"text": text, "id": "m1"},
	}
}

func (s *testServer) webhook(t *testing.T, from, text string) *httptest.ResponseRecorder {
	t.Helper()
	return s.do(http.MethodPost, "/api/whatsapp/webhook?secret="+testWebhookSecret, "", webhookPayload(from, text))
}

func (s *testServer) placeOrder(t *testing.T) *models.Order {
	t.Helper()
	order, err := s.orders.Create(context.Background(), services.CreateOrderRequest{
		Name:         "Sara",
		Phone:        "0791234567",
		DeliveryType: models.DeliveryTypePickup,
		Items:        []services.OrderItemInput{{Name: "Falafel", Price: 3, Quantity: 2}},
	})
	require.NoError(t, err)
	return order
}

func TestWebhookRequiresSecret(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(http.MethodPost, "/api/whatsapp/webhook", "", webhookPayload("962795550000", "/help"))
	require.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/whatsapp/webhook", strings.NewReader("{"))
	req.Header.Set("X-Webhook-Secret", testWebhookSecret)
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookIgnoresStrangers(t *testing.T) {
	srv := newTestServer(t)

	w := srv.webhook(t, "962700000000", "/orders")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ignored"}`, w.Body.String())

	w = srv.webhook(t, "962795550000", "   ")
	require.JSONEq(t, `{"status":"ignored"}`, w.Body.String())
	require.Empty(t, srv.sender.sent)
}

func TestWebhookCommands(t *testing.T) {
	srv := newTestServer(t)
	staff := "962795550000"

	w := srv.webhook(t, staff, "/help")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"success"}`, w.Body.String())
	require.Equal(t, staff, srv.sender.last().Phone)
	require.Contains(t, srv.sender.last().Message, "Available commands (STAFF)")

	srv.webhook(t, staff, "hello")
	require.Equal(t, "Type /help for available commands.", srv.sender.last().Message)

	srv.webhook(t, staff, "/dance")
	require.Equal(t, "Unknown command. Type /help for available commands.", srv.sender.last().Message)

	srv.webhook(t, staff, "/orders")
	require.Equal(t, "No orders found.", srv.sender.last().Message)

	order := srv.placeOrder(t)
	srv.webhook(t, staff, "/orders")
	require.Contains(t, srv.sender.last().Message, order.Reference)

	srv.webhook(t, staff, "/order "+strings.ToLower(order.Reference))
	reply := srv.sender.last().Message
	require.Contains(t, reply, "Order "+order.Reference+" (NEW)")
	require.Contains(t, reply, "Pickup")
	require.Contains(t, reply, "- 2 x Falafel (6.00)")

	srv.webhook(t, staff, "/status "+order.Reference+" completed")
	require.Equal(t, "Order "+order.Reference+" is now COMPLETED.", srv.sender.last().Message)

	srv.webhook(t, staff, "/status "+order.Reference+" eaten")
	require.Equal(t, "Unknown status. Use NEW, IN_PROGRESS, COMPLETED or CANCELLED.", srv.sender.last().Message)

	srv.webhook(t, staff, "/orders completed")
	require.Contains(t, srv.sender.last().Message, order.Reference)

	srv.webhook(t, staff, "/orders lost")
	require.Equal(t, "Unknown status. Use NEW, IN_PROGRESS, COMPLETED or CANCELLED.", srv.sender.last().Message)

	srv.webhook(t, staff, "/order ORD-NOPE")
	require.Equal(t, "Order not found.", srv.sender.last().Message)

	srv.webhook(t, staff, "/status")
	require.True(t, strings.HasPrefix(srv.sender.last().Message, "Usage: /status"))

	srv.webhook(t, staff, "/reservations")
	require.Equal(t, "No upcoming reservations.", srv.sender.last().Message)

	updated, err := srv.orders.GetByReference(context.Background(), order.Reference)
	require.NoError(t, err)
	require.Equal(t, models.OrderCompleted, updated.Status)
}

func TestWebhookReplyFailure(t *testing.T) {
	srv := newTestServer(t)
	srv.sender.err = errors.New("gateway down")

	w := srv.webhook(t, "962795550000", "/help")
	require.Equal(t, http.StatusBadGateway, w.Code)
}

func TestAdminSendMessage(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(http.MethodPost, "/api/admin/whatsapp/send", srv.staffToken, map[string]string{"phone": "0791234567"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(http.MethodPost, "/api/admin/whatsapp/send", srv.staffToken, map[string]string{"phone": "0791234567", "message": "Your table is ready"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, sentText{Phone: "0791234567", Message: "Your table is ready"}, srv.sender.last())

	w = srv.do(http.MethodPost, "/api/admin/whatsapp/send", "", map[string]string{"phone": "0791234567", "message": "hi"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
