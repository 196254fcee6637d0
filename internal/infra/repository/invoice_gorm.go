package repository

import (
	"context"

	"gallery/internal/domain/model"

	"gorm.io/gorm"
)

type InvoiceGormRepository struct {
	db *gorm.DB
}

// DI
func NewInvoiceGormRepository(db *gorm.DB) *InvoiceGormRepository {
	return &InvoiceGormRepository{db: db}
}

// 請求書払いの記録を作成
func (r *InvoiceGormRepository) Create(ctx context.Context, inv model.InvoiceRequest) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&inv).Error; err != nil {
		return 0, err
	}
	return inv.ID, nil
}
