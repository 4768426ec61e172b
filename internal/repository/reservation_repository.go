package repository

import (
	"context"
	"time"

	"restaurant_web/internal/models"

	"gorm.io/gorm"
)

type ReservationFilter struct {
	Status models.ReservationStatus
	Date   string
	Page   int
	Limit  int
}

type ReservationRepository interface {
	Create(ctx context.Context, reservation *models.Reservation) error
	GetByID(ctx context.Context, id uint) (*models.Reservation, error)
	GetByReference(ctx context.Context, reference string) (*models.Reservation, error)
	List(ctx context.Context, filter ReservationFilter) ([]models.Reservation, int64, error)
	Upcoming(ctx context.Context, from time.Time, limit int) ([]models.Reservation, error)
	UpdateStatus(ctx context.Context, id uint, status models.ReservationStatus) error
	UpdateStatusIf(ctx context.Context, id uint, current, next models.ReservationStatus) (bool, error)
	Delete(ctx context.Context, id uint) error
	// DueForReminder returns active reservations in [from, to) not yet reminded.
	DueForReminder(ctx context.Context, from, to time.Time) ([]models.Reservation, error)
	// MarkReminded stamps the reminder time unless another worker already did.
	MarkReminded(ctx context.Context, id uint, at time.Time) (bool, error)
}

type reservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) Create(ctx context.Context, reservation *models.Reservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

func (r *reservationRepository) GetByID(ctx context.Context, id uint) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := r.db.WithContext(ctx).First(&reservation, id).Error; err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *reservationRepository) GetByReference(ctx context.Context, reference string) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&reservation).Error; err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *reservationRepository) List(ctx context.Context, filter ReservationFilter) ([]models.Reservation, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Reservation{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Date != "" {
		query = query.Where("date = ?", filter.Date)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reservations []models.Reservation
	err := query.Order("scheduled_at ASC").Scopes(Paginate(filter.Page, filter.Limit)).Find(&reservations).Error
	return reservations, total, err
}

// Upcoming returns pending and confirmed reservations scheduled at or after from.
func (r *reservationRepository) Upcoming(ctx context.Context, from time.Time, limit int) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := r.db.WithContext(ctx).
		Where("scheduled_at >= ? AND status IN ?", from, []models.ReservationStatus{models.ReservationPending, models.ReservationConfirmed}).
		Order("scheduled_at ASC").
		Limit(limit).
		Find(&reservations).Error
	return reservations, err
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, id uint, status models.ReservationStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Reservation{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reservationRepository) UpdateStatusIf(ctx context.Context, id uint, current, next models.ReservationStatus) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("id = ? AND status = ?", id, current).
		Update("status", next)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *reservationRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Reservation{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reservationRepository) DueForReminder(ctx context.Context, from, to time.Time) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := r.db.WithContext(ctx).
		Where("scheduled_at >= ? AND scheduled_at < ? AND reminded_at IS NULL", from, to).
		Where("status IN ?", []models.ReservationStatus{models.ReservationPending, models.ReservationConfirmed}).
		Order("scheduled_at ASC").
		Find(&reservations).Error
	return reservations, err
}

func (r *reservationRepository) MarkReminded(ctx context.Context, id uint, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("id = ? AND reminded_at IS NULL", id).
		Update("reminded_at", at)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
