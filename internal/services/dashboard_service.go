package services

import (
	"context"
	"time"

	"restaurant_web/internal/models"
	"restaurant_web/internal/repository"
)

type Dashboard struct {
	OrdersByStatus       map[models.OrderStatus]int64 `json:"ordersByStatus"`
	RevenueToday         float64                      `json:"revenueToday"`
	TopItems             []repository.ItemSales       `json:"topItems"`
	UpcomingReservations []models.Reservation         `json:"upcomingReservations"`
	UnreadMessages       int64                        `json:"unreadMessages"`
}

type DashboardService interface {
	Summary(ctx context.Context, now time.Time) (*Dashboard, error)
}

type dashboardService struct {
	orderRepo       repository.OrderRepository
	itemRepo        repository.OrderItemRepository
	reservationRepo repository.ReservationRepository
	contactRepo     repository.ContactRepository
	location        *time.Location
}

func NewDashboardService(
	orderRepo repository.OrderRepository,
	itemRepo repository.OrderItemRepository,
	reservationRepo repository.ReservationRepository,
	contactRepo repository.ContactRepository,
	location *time.Location,
) DashboardService {
	if location == nil {
		location = time.UTC
	}
	return &dashboardService{
		orderRepo:       orderRepo,
		itemRepo:        itemRepo,
		reservationRepo: reservationRepo,
		contactRepo:     contactRepo,
		location:        location,
	}
}

func (s *dashboardService) Summary(ctx context.Context, now time.Time) (*Dashboard, error) {
	counts, err := s.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, Internal("failed to count orders", err)
	}

	local := now.In(s.location)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.location)
	revenue, err := s.orderRepo.Revenue(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, Internal("failed to compute revenue", err)
	}

	top, err := s.itemRepo.TopItems(ctx, 5)
	if err != nil {
		return nil, Internal("failed to load top items", err)
	}

	upcoming, err := s.reservationRepo.Upcoming(ctx, now, 10)
	if err != nil {
		return nil, Internal("failed to load reservations", err)
	}

	unread, err := s.contactRepo.CountUnread(ctx)
	if err != nil {
		return nil, Internal("failed to count messages", err)
	}

	return &Dashboard{
		OrdersByStatus:       counts,
		RevenueToday:         revenue,
		TopItems:             top,
		UpcomingReservations: upcoming,
		UnreadMessages:       unread,
	}, nil
}
