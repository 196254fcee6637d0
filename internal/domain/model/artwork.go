package model

import (
	"time"

	"gorm.io/gorm"
)

type ArtworkStatus string

const (
	ArtworkStatusAvailable ArtworkStatus = "available"
	ArtworkStatusSold      ArtworkStatus = "sold"
)

// Artworkは一点物の作品。PriceはKES（整数）。
type Artwork struct {
	ID          string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title"`
	Artist      string         `gorm:"type:varchar(255);not null" json:"artist"`
	Description string         `gorm:"type:text" json:"description"`
	Price       int64          `gorm:"not null" json:"price"`
	ImageURL    string         `gorm:"type:text;column:image_url" json:"image_url"`
	ImagePath   string         `gorm:"type:text;column:image_path" json:"-"` // 旧アップロード形式（uploads/相対パス）
	Dimensions  string         `gorm:"type:varchar(100)" json:"dimensions,omitempty"`
	Medium      string         `gorm:"type:varchar(100)" json:"medium,omitempty"`
	Year        int            `json:"year,omitempty"`
	Status      ArtworkStatus  `gorm:"type:varchar(20);not null;default:'available';index" json:"status"`
	CreatedAt   time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
