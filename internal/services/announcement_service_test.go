package services

import (
	"context"
	"strings"
	"testing"

	"restaurant_web/internal/repository"
	"restaurant_web/internal/testutil"

	"github.com/stretchr/testify/require"
)

func newAnnouncementService(t *testing.T) AnnouncementService {
	t.Helper()
	return NewAnnouncementService(repository.NewAnnouncementRepository(testutil.NewDB(t)), testutil.Logger())
}

func TestAnnouncementValidation(t *testing.T) {
	svc := newAnnouncementService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, AnnouncementRequest{Message: "  ", IsActive: true})
	requireValidation(t, err, "message required if active", "message")

	_, err = svc.Save(ctx, AnnouncementRequest{Message: strings.Repeat("é", 281)})
	requireValidation(t, err, "message must be at most 280 characters", "message")

	saved, err := svc.Save(ctx, AnnouncementRequest{Message: strings.Repeat("é", 280), IsActive: true})
	require.NoError(t, err)
	require.True(t, saved.IsActive)

	empty, err := svc.Save(ctx, AnnouncementRequest{})
	require.NoError(t, err)
	require.Empty(t, empty.Message)
	require.False(t, empty.IsActive)
}

func TestAnnouncementSaveUpdatesInPlace(t *testing.T) {
	svc := newAnnouncementService(t)
	ctx := context.Background()

	current, err := svc.Current(ctx)
	require.NoError(t, err)
	require.Nil(t, current)

	first, err := svc.Save(ctx, AnnouncementRequest{Message: "Closed on Friday", IsActive: true})
	require.NoError(t, err)
	second, err := svc.Save(ctx, AnnouncementRequest{Message: "<i>Open</i> on Friday", IsActive: true})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, "Open on Friday", second.Message)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	_, err = svc.Save(ctx, AnnouncementRequest{Message: "Open on Friday"})
	require.NoError(t, err)
	active, err := svc.Active(ctx)
	require.NoError(t, err)
	require.Nil(t, active)
}

func TestAnnouncementSingleActive(t *testing.T) {
	svc := newAnnouncementService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, AnnouncementRequest{Message: "Ramadan hours", IsActive: true})
	require.NoError(t, err)
	second, err := svc.Create(ctx, AnnouncementRequest{Message: "New dessert menu", IsActive: true})
	require.NoError(t, err)

	active, err := svc.Active(ctx)
	require.NoError(t, err)
	require.Equal(t, second.ID, active.ID)

	_, err = svc.Activate(ctx, first.ID)
	require.NoError(t, err)
	active, err = svc.Active(ctx)
	require.NoError(t, err)
	require.Equal(t, first.ID, active.ID)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	activeCount := 0
	for _, a := range all {
		if a.IsActive {
			activeCount++
		}
	}
	require.Equal(t, 1, activeCount)

	_, err = svc.Activate(ctx, 999)
	require.Equal(t, KindNotFound, KindOf(err))

	_, err = svc.Create(ctx, AnnouncementRequest{Message: " "})
	requireValidation(t, err, "message required", "message")
}
