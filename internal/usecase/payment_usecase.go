package usecase

import (
	"context"
	"log/slog"
	"net/http"

	"gallery/internal/domain/model"
	repo "gallery/internal/repository"
)

// PaymentUsecaseはSTK Pushの結果通知を確定処理に落とす。
type PaymentUsecase struct {
	pushes repo.PushPaymentRepository
	log    *slog.Logger
}

func NewPaymentUsecase(pushes repo.PushPaymentRepository, log *slog.Logger) *PaymentUsecase {
	return &PaymentUsecase{pushes: pushes, log: log}
}

// ConfirmPushはゲートウェイのcallbackを適用する。
// ResultCode 0 が成功、それ以外は失敗としてrecordに理由を残す。
// 対象レコードがない・すでに確定済みの通知は404（ゲートウェイ側のリトライを止める）。
func (u *PaymentUsecase) ConfirmPush(ctx context.Context, gatewayRequestID string, resultCode int, resultDesc string) error {
	if gatewayRequestID == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid request id")
	}

	status := model.PushPaymentStatusConfirmed
	reason := ""
	if resultCode != 0 {
		status = model.PushPaymentStatusFailed
		reason = resultDesc
	}

	err := u.pushes.ResolveByGatewayRequestID(ctx, gatewayRequestID, status, reason)
	if err == repo.ErrNotFound {
		u.log.Warn("push callback for unknown request", "gateway_request_id", gatewayRequestID)
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.log.Info("push payment resolved",
		"gateway_request_id", gatewayRequestID,
		"status", string(status),
		"result_code", resultCode,
	)
	return nil
}

// Checkout1回分の決済状況（確認画面のポーリング用）。
// 本人のチェックアウトしか見せない。他人のIDは存在ごと404にする。
func (u *PaymentUsecase) ListByCheckout(ctx context.Context, checkoutID string, userID int64) ([]model.PushPayment, error) {
	if checkoutID == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	items, err := u.pushes.ListByCheckoutID(ctx, checkoutID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	for _, p := range items {
		if p.UserID != userID {
			return nil, NewHTTPError(http.StatusNotFound, "not found")
		}
	}
	return items, nil
}
