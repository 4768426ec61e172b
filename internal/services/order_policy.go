package services

import (
	"time"

	"restaurant_web/internal/models"
)

// CancellationWindow is how long after creation a customer may cancel.
const CancellationWindow = 30 * time.Minute

type CancellationResult struct {
	Cancelled bool     `json:"cancelled"`
	Fee       *float64 `json:"fee,omitempty"`
}

// EvaluateCancellation applies the self-service cancellation rules in a fixed
// order and returns the first one that fails.
func EvaluateCancellation(order *models.Order, settings *models.RestaurantSettings, now time.Time) error {
	if err := checkOrderOpen(order); err != nil {
		return err
	}
	if order.PaidOnline && !settings.AllowCancelPaid {
		return Forbidden("paid orders cannot be canceled")
	}
	if order.Status == models.OrderInProgress && !settings.AllowCancelInProgress {
		return Forbidden("in progress")
	}
	if now.Sub(order.CreatedAt) > CancellationWindow {
		return Forbidden("window expired")
	}
	return nil
}

// checkOrderOpen reports a Conflict for orders already in a terminal state.
func checkOrderOpen(order *models.Order) error {
	switch order.Status {
	case models.OrderCompleted:
		return Conflict("already completed")
	case models.OrderCancelled:
		return Conflict("already cancelled")
	}
	return nil
}

func cancellationResult(settings *models.RestaurantSettings) *CancellationResult {
	result := &CancellationResult{Cancelled: true}
	if settings.CancellationFee > 0 {
		fee := settings.CancellationFee
		result.Fee = &fee
	}
	return result
}

// EvaluateReservationCancellation is the reservation counterpart of
// EvaluateCancellation. An empty phone skips the ownership check.
func EvaluateReservationCancellation(reservation *models.Reservation, phone string, now time.Time) error {
	if reservation.Status == models.ReservationCancelled {
		return Conflict("already cancelled")
	}
	if phone != "" && !phoneMatches(phone, reservation.Phone) {
		return Forbidden("phone does not match")
	}
	if !reservation.ScheduledAt.After(now) {
		return Forbidden("reservation time has passed")
	}
	return nil
}
