package models

import (
	"time"
)

type MenuCategory struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name" gorm:"size:120;uniqueIndex;not null"`
	Description string     `json:"description"`
	SortOrder   int        `json:"sortOrder"`
	Items       []MenuItem `json:"items,omitempty" gorm:"foreignKey:CategoryID"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type MenuItem struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	CategoryID  uint      `json:"categoryId" gorm:"index;not null"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	Price       float64   `json:"price" gorm:"not null"`
	ImageURL    string    `json:"imageUrl"`
	Available   bool      `json:"available"`
	Featured    bool      `json:"featured"`
	SortOrder   int       `json:"sortOrder"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
