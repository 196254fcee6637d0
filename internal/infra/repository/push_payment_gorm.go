package repository

import (
	"context"

	"gallery/internal/domain/model"
	repo "gallery/internal/repository"

	"gorm.io/gorm"
)

type PushPaymentGormRepository struct {
	db *gorm.DB
}

// DI
func NewPushPaymentGormRepository(db *gorm.DB) *PushPaymentGormRepository {
	return &PushPaymentGormRepository{db: db}
}

// 受理済みPushの記録を作成
func (r *PushPaymentGormRepository) Create(ctx context.Context, p model.PushPayment) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return 0, err
	}
	return p.ID, nil
}

// callbackで届いた結果をGatewayRequestIDで突き合わせて確定させる
func (r *PushPaymentGormRepository) ResolveByGatewayRequestID(ctx context.Context, gatewayRequestID string, status model.PushPaymentStatus, reason string) error {
	res := r.db.WithContext(ctx).
		Model(&model.PushPayment{}).
		Where("gateway_request_id = ? AND status = ?", gatewayRequestID, model.PushPaymentStatusPending).
		Updates(map[string]interface{}{
			"status":         status,
			"failure_reason": reason,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// チェックアウト単位の記録一覧
func (r *PushPaymentGormRepository) ListByCheckoutID(ctx context.Context, checkoutID string) ([]model.PushPayment, error) {
	var items []model.PushPayment

	if err := r.db.WithContext(ctx).
		Where("checkout_id = ?", checkoutID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return []model.PushPayment{}, err
	}
	return items, nil
}
