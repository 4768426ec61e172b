package services

import (
	"testing"
	"time"

	"restaurant_web/internal/models"

	"github.com/stretchr/testify/require"
)

func TestEvaluateCancellation(t *testing.T) {
	created := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	strict := &models.RestaurantSettings{}
	lenient := &models.RestaurantSettings{AllowCancelPaid: true, AllowCancelInProgress: true}

	cases := []struct {
		name     string
		status   models.OrderStatus
		paid     bool
		settings *models.RestaurantSettings
		after    time.Duration
		kind     ErrorKind
		message  string
	}{
		{name: "new within window", status: models.OrderNew, settings: strict, after: 29 * time.Minute},
		{name: "exactly at window", status: models.OrderNew, settings: strict, after: 30 * time.Minute},
		{name: "window expired", status: models.OrderNew, settings: strict, after: 31 * time.Minute, kind: KindForbidden, message: "window expired"},
		{name: "completed", status: models.OrderCompleted, settings: lenient, after: time.Minute, kind: KindConflict, message: "already completed"},
		{name: "cancelled", status: models.OrderCancelled, settings: lenient, after: time.Minute, kind: KindConflict, message: "already cancelled"},
		{name: "completed beats paid", status: models.OrderCompleted, paid: true, settings: strict, after: time.Minute, kind: KindConflict, message: "already completed"},
		{name: "paid not allowed", status: models.OrderNew, paid: true, settings: strict, after: time.Minute, kind: KindForbidden, message: "paid orders cannot be canceled"},
		{name: "paid allowed", status: models.OrderNew, paid: true, settings: lenient, after: time.Minute},
		{name: "in progress not allowed", status: models.OrderInProgress, settings: strict, after: time.Minute, kind: KindForbidden, message: "in progress"},
		{name: "in progress allowed", status: models.OrderInProgress, settings: lenient, after: time.Minute},
		{name: "paid checked before in progress", status: models.OrderInProgress, paid: true, settings: strict, after: time.Minute, kind: KindForbidden, message: "paid orders cannot be canceled"},
		{name: "in progress checked before window", status: models.OrderInProgress, settings: strict, after: time.Hour, kind: KindForbidden, message: "in progress"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := &models.Order{Status: tc.status, PaidOnline: tc.paid, CreatedAt: created}
			err := EvaluateCancellation(order, tc.settings, created.Add(tc.after))
			if tc.message == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Equal(t, tc.kind, KindOf(err))
			require.Equal(t, tc.message, err.Error())
		})
	}
}

func TestCancellationResultFee(t *testing.T) {
	require.Nil(t, cancellationResult(&models.RestaurantSettings{}).Fee)

	result := cancellationResult(&models.RestaurantSettings{CancellationFee: 1.5})
	require.True(t, result.Cancelled)
	require.Equal(t, 1.5, *result.Fee)
}

func TestEvaluateReservationCancellation(t *testing.T) {
	now := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	res := &models.Reservation{Phone: "0791234567", Status: models.ReservationConfirmed, ScheduledAt: now.Add(time.Hour)}

	require.NoError(t, EvaluateReservationCancellation(res, "", now))
	require.NoError(t, EvaluateReservationCancellation(res, "+962 79 123 4567", now))
	require.True(t, IsKind(EvaluateReservationCancellation(res, "0790000000", now), KindForbidden))
	require.True(t, IsKind(EvaluateReservationCancellation(res, "", now.Add(time.Hour)), KindForbidden))

	res.Status = models.ReservationCancelled
	require.True(t, IsKind(EvaluateReservationCancellation(res, "", now), KindConflict))
}

func TestPhoneMatches(t *testing.T) {
	require.True(t, phoneMatches("0791234567", "+962791234567"))
	require.True(t, phoneMatches("079-123-4567", "0791234567"))
	require.False(t, phoneMatches("0791234567", "0781234567"))
	require.True(t, phoneMatches("12345", "1-2-3-4-5"))
	require.False(t, phoneMatches("", ""))
}
