package model

import "time"

type Role string

const (
	RoleIndividual Role = "INDIVIDUAL"
	RoleCorporate  Role = "CORPORATE"
	RoleArtist     Role = "ARTIST"
	RoleAdmin      Role = "ADMIN"
)

// 購入できるロールか（個人・法人のみ）
func (r Role) CanPurchase() bool {
	return r == RoleIndividual || r == RoleCorporate
}

type User struct {
	ID    int64  `gorm:"primaryKey;autoIncrement"`
	Name  string `gorm:"type:varchar(255);not null"`
	Email string `gorm:"uniqueIndex;not null"`
	Phone string `gorm:"type:varchar(20)"`
	Role  Role   `gorm:"type:varchar(20);not null;default:'INDIVIDUAL'"`

	// 法人のみ使うフィールド
	CompanyName    string `gorm:"type:varchar(255)"`
	BillingAddress string `gorm:"type:text"`
	AllowInvoicing bool   `gorm:"not null;default:false"`
	// 法人割引率（basis points）。0ならデフォルト10%を適用する。
	DiscountBP int64 `gorm:"not null;default:0;column:discount_bp"`

	IsActive  bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
