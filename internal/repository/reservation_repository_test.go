package repository

import (
	"context"
	"testing"
	"time"

	"restaurant_web/internal/models"
	"restaurant_web/internal/testutil"

	"github.com/stretchr/testify/require"
)

func newReservation(ref string, status models.ReservationStatus, at time.Time) *models.Reservation {
	return &models.Reservation{
		Reference:   ref,
		Name:        "Omar",
		Phone:       "0790000000",
		Date:        at.Format("2006-01-02"),
		Time:        at.Format("15:04"),
		Guests:      4,
		Status:      status,
		ScheduledAt: at,
	}
}

func TestUpcomingSkipsPastAndCancelled(t *testing.T) {
	repo := NewReservationRepository(testutil.NewDB(t))
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, newReservation("RES-past", models.ReservationConfirmed, now.Add(-time.Hour))))
	require.NoError(t, repo.Create(ctx, newReservation("RES-cancel", models.ReservationCancelled, now.Add(time.Hour))))
	require.NoError(t, repo.Create(ctx, newReservation("RES-late", models.ReservationPending, now.Add(3*time.Hour))))
	require.NoError(t, repo.Create(ctx, newReservation("RES-soon", models.ReservationConfirmed, now.Add(time.Hour))))

	upcoming, err := repo.Upcoming(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	require.Equal(t, "RES-soon", upcoming[0].Reference)
	require.Equal(t, "RES-late", upcoming[1].Reference)
}

func TestReminderClaimIsOnce(t *testing.T) {
	repo := NewReservationRepository(testutil.NewDB(t))
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	soon := newReservation("RES-soon", models.ReservationConfirmed, now.Add(30*time.Minute))
	require.NoError(t, repo.Create(ctx, soon))
	require.NoError(t, repo.Create(ctx, newReservation("RES-tomorrow", models.ReservationConfirmed, now.Add(24*time.Hour))))

	due, err := repo.DueForReminder(ctx, now, now.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, due, 1)
	require.Equal(t, soon.ID, due[0].ID)

	ok, err := repo.MarkReminded(ctx, soon.ID, now)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = repo.MarkReminded(ctx, soon.ID, now)
	require.NoError(t, err)
	require.False(t, ok)

	due, err = repo.DueForReminder(ctx, now, now.Add(2*time.Hour))
	require.NoError(t, err)
	require.Empty(t, due)
}

func TestReservationConditionalStatus(t *testing.T) {
	repo := NewReservationRepository(testutil.NewDB(t))
	ctx := context.Background()

	r := newReservation("RES-1", models.ReservationPending, time.Now().UTC().Add(time.Hour))
	require.NoError(t, repo.Create(ctx, r))

	ok, err := repo.UpdateStatusIf(ctx, r.ID, models.ReservationConfirmed, models.ReservationCancelled)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = repo.UpdateStatusIf(ctx, r.ID, models.ReservationPending, models.ReservationCancelled)
	require.NoError(t, err)
	require.True(t, ok)

	list, total, err := repo.List(ctx, ReservationFilter{Status: models.ReservationCancelled})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "RES-1", list[0].Reference)
}
