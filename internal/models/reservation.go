package models

import (
	"time"
)

type Reservation struct {
	ID          uint              `json:"id" gorm:"primaryKey"`
	Reference   string            `json:"reference" gorm:"size:40;uniqueIndex;not null"`
	Name        string            `json:"name" gorm:"not null"`
	Phone       string            `json:"phone" gorm:"size:32;index;not null"`
	Email       string            `json:"email"`
	Date        string            `json:"date" gorm:"size:10;not null"`
	Time        string            `json:"time" gorm:"size:5;not null"`
	Guests      int               `json:"guests" gorm:"not null"`
	Notes       string            `json:"notes" gorm:"type:text"`
	Status      ReservationStatus `json:"status" gorm:"size:16;index;not null"`
	ScheduledAt time.Time         `json:"scheduledAt" gorm:"index;not null"`
	RemindedAt  *time.Time        `json:"remindedAt"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "PENDING"
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationCancelled ReservationStatus = "CANCELLED"
	ReservationNoShow    ReservationStatus = "NO_SHOW"
)

var ReservationStatuses = []ReservationStatus{ReservationPending, ReservationConfirmed, ReservationCancelled, ReservationNoShow}

func (s ReservationStatus) Valid() bool {
	for _, status := range ReservationStatuses {
		if s == status {
			return true
		}
	}
	return false
}
