package models

import "time"

const AnnouncementMaxLength = 280

type Announcement struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Message   string    `json:"message" gorm:"size:280"`
	IsActive  bool      `json:"isActive" gorm:"index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
