package models

import (
	"time"
)

// SettingsID is the primary key of the singleton settings row.
const SettingsID uint = 1

type RestaurantSettings struct {
	ID                    uint         `json:"-" gorm:"primaryKey"`
	OpeningTime           string       `json:"openingTime" gorm:"size:5;not null"`
	ClosingTime           string       `json:"closingTime" gorm:"size:5;not null"`
	WorkingHours          []DayHours   `json:"workingHours" gorm:"type:text;serializer:json"`
	DisplayHours          DisplayHours `json:"displayHours" gorm:"type:text;serializer:json"`
	AllowCancelPaid       bool         `json:"allowCancelPaid"`
	AllowCancelInProgress bool         `json:"allowCancelInProgress"`
	CancellationFee       float64      `json:"cancellationFee"`
	UpdatedAt             time.Time    `json:"updatedAt"`
}

type DayHours struct {
	Day         string `json:"day"`
	OpeningTime string `json:"openingTime"`
	ClosingTime string `json:"closingTime"`
	Closed      bool   `json:"closed"`
}

type DisplayHours struct {
	Weekdays string `json:"weekdays"`
	Friday   string `json:"friday"`
	Saturday string `json:"saturday"`
}

// WeekDays is the fixed order of the working-hours table.
var WeekDays = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// HoursFor returns the working-hours entry for the given weekday, if present.
func (s RestaurantSettings) HoursFor(day time.Weekday) (DayHours, bool) {
	name := day.String()
	for _, entry := range s.WorkingHours {
		if entry.Day == name {
			return entry, true
		}
	}
	return DayHours{}, false
}
