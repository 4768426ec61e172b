package services

import (
	"fmt"
	"strings"

	"restaurant_web/internal/models"
)

var orderStatusText = map[models.OrderStatus]string{
	models.OrderNew:        "received",
	models.OrderInProgress: "being prepared",
	models.OrderCompleted:  "completed",
	models.OrderCancelled:  "cancelled",
}

var reservationStatusText = map[models.ReservationStatus]string{
	models.ReservationPending:   "pending confirmation",
	models.ReservationConfirmed: "confirmed",
	models.ReservationCancelled: "cancelled",
	models.ReservationNoShow:    "marked as no-show",
}

func orderCreatedMessage(order *models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Thank you %s! Your order %s has been received.\n", order.CustomerName, order.Reference)
	for _, item := range order.Items {
		fmt.Fprintf(&b, "- %d x %s\n", item.Quantity, item.Name)
	}
	fmt.Fprintf(&b, "Total: %.2f\n", order.TotalPrice)
	if order.DeliveryType == models.DeliveryTypePickup {
		b.WriteString("We will let you know when it is ready for pickup.")
	} else {
		b.WriteString("We will let you know when it is on its way.")
	}
	return b.String()
}

func orderStatusMessage(order *models.Order) string {
	return fmt.Sprintf("Your order %s is now %s.", order.Reference, orderStatusText[order.Status])
}

func staffOrderMessage(order *models.Order) string {
	address := "pickup"
	if order.Address != nil {
		address = *order.Address
	}
	return fmt.Sprintf("New order %s\n%s (%s)\n%d item(s), total %.2f\n%s",
		order.Reference, order.CustomerName, order.Phone, len(order.Items), order.TotalPrice, address)
}

func staffOrderCancelledMessage(order *models.Order) string {
	return fmt.Sprintf("Order %s was cancelled by the customer.", order.Reference)
}

func reservationCreatedMessage(r *models.Reservation) string {
	return fmt.Sprintf("Thank you %s! Your table for %d on %s at %s is %s. Reference: %s",
		r.Name, r.Guests, r.Date, r.Time, reservationStatusText[r.Status], r.Reference)
}

func reservationStatusMessage(r *models.Reservation) string {
	return fmt.Sprintf("Your reservation %s on %s at %s is now %s.", r.Reference, r.Date, r.Time, reservationStatusText[r.Status])
}

func staffReservationMessage(r *models.Reservation) string {
	return fmt.Sprintf("New reservation %s\n%s (%s)\n%d guest(s) on %s at %s", r.Reference, r.Name, r.Phone, r.Guests, r.Date, r.Time)
}

func staffContactMessage(m *models.ContactMessage) string {
	subject := m.Subject
	if subject == "" {
		subject = "(no subject)"
	}
	return fmt.Sprintf("New contact message from %s <%s>\n%s", m.Name, m.Email, subject)
}

func reservationReminderMessage(r *models.Reservation) string {
	return fmt.Sprintf("Reminder: your table for %d is booked today at %s (reference %s). Reply to this message if your plans change.",
		r.Guests, r.Time, r.Reference)
}
