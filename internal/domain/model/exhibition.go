package model

import (
	"time"

	"gorm.io/gorm"
)

type ExhibitionStatus string

const (
	ExhibitionStatusUpcoming ExhibitionStatus = "upcoming"
	ExhibitionStatusOngoing  ExhibitionStatus = "ongoing"
	ExhibitionStatusPast     ExhibitionStatus = "past"
)

// Exhibitionは展示会。チケットは枠（AvailableSlots）を上限に販売する。
type Exhibition struct {
	ID             string           `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title          string           `gorm:"type:varchar(255);not null" json:"title"`
	Description    string           `gorm:"type:text" json:"description"`
	Location       string           `gorm:"type:varchar(255)" json:"location"`
	StartDate      time.Time        `gorm:"not null" json:"start_date"`
	EndDate        time.Time        `gorm:"not null" json:"end_date"`
	TicketPrice    int64            `gorm:"not null" json:"ticket_price"`
	ImageURL       string           `gorm:"type:text;column:image_url" json:"image_url"`
	TotalSlots     int64            `gorm:"not null" json:"total_slots"`
	AvailableSlots int64            `gorm:"not null" json:"available_slots"`
	Status         ExhibitionStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt      time.Time        `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time        `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt   `gorm:"index" json:"-"`
}
