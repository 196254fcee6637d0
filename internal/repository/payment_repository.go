package repository

import (
	"context"

	"gallery/internal/domain/model"
)

// STK Push記録の保存・確定
type PushPaymentRepository interface {
	Create(ctx context.Context, p model.PushPayment) (int64, error)
	// ゲートウェイcallbackの突き合わせ。該当なしはErrNotFound。
	ResolveByGatewayRequestID(ctx context.Context, gatewayRequestID string, status model.PushPaymentStatus, reason string) error
	ListByCheckoutID(ctx context.Context, checkoutID string) ([]model.PushPayment, error)
}

// 請求書払いの記録
type InvoiceRepository interface {
	Create(ctx context.Context, inv model.InvoiceRequest) (int64, error)
}
