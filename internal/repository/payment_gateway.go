package repository

import (
	"context"

	"gallery/internal/domain/model"
)

// Push受理時にゲートウェイが返す識別子
type PushReceipt struct {
	MerchantRequestID string
	CheckoutRequestID string
}

// モバイルマネーのPush決済ゲートウェイ。
// 「受理」は支払い完了ではない。確定はcallbackで届く。
type PaymentGateway interface {
	InitiatePush(ctx context.Context, phone string, amount int64, kind model.ItemKind, itemID string, reference string) (PushReceipt, error)
}
