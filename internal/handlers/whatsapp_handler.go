package handlers

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"restaurant_web/internal/models"
	"restaurant_web/internal/repository"
	"restaurant_web/internal/services"
	"restaurant_web/pkg/whatsapp"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// WhatsAppHandler serves the gateway webhook. Registered staff members run
// order and reservation commands from their phone.
type WhatsAppHandler struct {
	sender        services.MessageSender
	users         services.UserService
	orders        services.OrderService
	reservations  services.ReservationService
	webhookSecret string
	logger        *logrus.Logger
}

func NewWhatsAppHandler(
	sender services.MessageSender,
	users services.UserService,
	orders services.OrderService,
	reservations services.ReservationService,
	webhookSecret string,
	logger *logrus.Logger,
) *WhatsAppHandler {
	return &WhatsAppHandler{
		sender:        sender,
		users:         users,
		orders:        orders,
		reservations:  reservations,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

type SendMessageRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

func (h *WhatsAppHandler) authorized(c *gin.Context) bool {
	if h.webhookSecret == "" {
		return true
	}
	given := c.GetHeader("X-Webhook-Secret")
	if given == "" {
		given = c.Query("secret")
	}
	return subtle.ConstantTimeCompare([]byte(given), []byte(h.webhookSecret)) == 1
}

func (h *WhatsAppHandler) HandleWebhook(c *gin.Context) {
	if !h.authorized(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid webhook secret"})
		return
	}

	var msg whatsapp.WebhookMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request format"})
		return
	}

	phone := msg.Sender()
	text := strings.TrimSpace(msg.Message.Text)
	if phone == "" || text == "" {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.users.GetByWhatsAppNumber(ctx, phone)
	if err != nil {
		// Customers write to the same number; only staff commands are answered.
		h.logger.WithField("phone", phone).Debug("Ignoring WhatsApp message from unregistered number")
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	response := h.processCommand(ctx, user, text)
	if err := h.sender.SendTextMessage(ctx, phone, response); err != nil {
		h.logger.WithError(err).WithField("user_id", user.ID).Error("Failed to send WhatsApp reply")
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "Failed to send message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// SendMessage lets staff message a customer through the gateway.
func (h *WhatsAppHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	if strings.TrimSpace(req.Phone) == "" || strings.TrimSpace(req.Message) == "" {
		respondError(c, h.logger, services.NewValidationError("phone and message are required", map[string]string{
			"phone":   "is required",
			"message": "is required",
		}))
		return
	}
	if err := h.sender.SendTextMessage(c.Request.Context(), req.Phone, req.Message); err != nil {
		h.logger.WithError(err).Warn("Failed to send WhatsApp message")
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "Failed to send message"})
		return
	}
	respond(c, http.StatusOK, gin.H{"sent": true})
}

func (h *WhatsAppHandler) processCommand(ctx context.Context, user *models.User, message string) string {
	if !strings.HasPrefix(message, "/") {
		return "Type /help for available commands."
	}

	parts := strings.Fields(message)
	command := strings.ToLower(parts[0])
	args := parts[1:]

	switch command {
	case "/help":
		return helpMessage(user.Role)
	case "/orders":
		return h.listOrders(ctx, args)
	case "/order":
		return h.showOrder(ctx, args)
	case "/status":
		return h.setOrderStatus(ctx, user, args)
	case "/reservations":
		return h.listReservations(ctx)
	default:
		return "Unknown command. Type /help for available commands."
	}
}

func helpMessage(role models.UserRole) string {
	return fmt.Sprintf(`Available commands (%s):
/orders [STATUS] - open orders, or orders in STATUS
/order <reference> - order details
/status <reference> <NEW|IN_PROGRESS|COMPLETED|CANCELLED> - update an order
/reservations - upcoming reservations
/help - show this message`, role)
}

func (h *WhatsAppHandler) listOrders(ctx context.Context, args []string) string {
	statuses := []models.OrderStatus{models.OrderNew, models.OrderInProgress}
	if len(args) > 0 {
		statuses = []models.OrderStatus{models.OrderStatus(strings.ToUpper(args[0]))}
	}

	var b strings.Builder
	found := 0
	for _, status := range statuses {
		orders, _, err := h.orders.List(ctx, repository.OrderFilter{Status: status, Limit: 10})
		if err != nil {
			if services.IsKind(err, services.KindValidation) {
				return "Unknown status. Use NEW, IN_PROGRESS, COMPLETED or CANCELLED."
			}
			return "Failed to load orders."
		}
		for _, order := range orders {
			fmt.Fprintf(&b, "%s | %s | %s | %.2f | %s\n", order.Reference, order.Status, order.CustomerName, order.TotalPrice, order.CreatedAt.Format("15:04"))
			found++
		}
	}
	if found == 0 {
		return "No orders found."
	}
	return strings.TrimRight(b.String(), "\n")
}

func (h *WhatsAppHandler) showOrder(ctx context.Context, args []string) string {
	if len(args) < 1 {
		return "Usage: /order <reference>"
	}
	order, err := h.orders.GetByReference(ctx, args[0])
	if err != nil {
		if services.IsKind(err, services.KindNotFound) {
			return "Order not found."
		}
		return "Failed to load order."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Order %s (%s)\n", order.Reference, order.Status)
	fmt.Fprintf(&b, "%s, %s\n", order.CustomerName, order.Phone)
	if order.Address != nil {
		fmt.Fprintf(&b, "Delivery to: %s\n", *order.Address)
	} else {
		b.WriteString("Pickup\n")
	}
	for _, item := range order.Items {
		fmt.Fprintf(&b, "- %d x %s (%.2f)\n", item.Quantity, item.Name, item.Subtotal())
	}
	fmt.Fprintf(&b, "Total: %.2f", order.TotalPrice)
	if order.PaidOnline {
		b.WriteString(" (paid online)")
	}
	if order.Notes != "" {
		fmt.Fprintf(&b, "\nNotes: %s", order.Notes)
	}
	return b.String()
}

func (h *WhatsAppHandler) setOrderStatus(ctx context.Context, user *models.User, args []string) string {
	if len(args) < 2 {
		return "Usage: /status <reference> <NEW|IN_PROGRESS|COMPLETED|CANCELLED>"
	}
	order, err := h.orders.GetByReference(ctx, args[0])
	if err != nil {
		if services.IsKind(err, services.KindNotFound) {
			return "Order not found."
		}
		return "Failed to load order."
	}

	status := models.OrderStatus(strings.ToUpper(args[1]))
	updated, err := h.orders.UpdateStatus(ctx, order.ID, status, user.Email)
	if err != nil {
		if services.IsKind(err, services.KindValidation) {
			return "Unknown status. Use NEW, IN_PROGRESS, COMPLETED or CANCELLED."
		}
		return "Failed to update order."
	}
	return fmt.Sprintf("Order %s is now %s.", updated.Reference, updated.Status)
}

func (h *WhatsAppHandler) listReservations(ctx context.Context) string {
	reservations, err := h.reservations.Upcoming(ctx, 10)
	if err != nil {
		return "Failed to load reservations."
	}
	if len(reservations) == 0 {
		return "No upcoming reservations."
	}

	var b strings.Builder
	for _, r := range reservations {
		fmt.Fprintf(&b, "%s | %s %s | %d guest(s) | %s | %s\n", r.Reference, r.Date, r.Time, r.Guests, r.Name, r.Status)
	}
	return strings.TrimRight(b.String(), "\n")
}
