package repository

import (
	"context"
	"errors"

	"gallery/internal/domain/model"
)

// ユーザーが見つかりませんを統一
var ErrUserNotFound = errors.New("user not found")

// チェックアウト時のアクター情報（ロール・割引率・連絡先デフォルト）取得
type UserRepository interface {
	FindByID(ctx context.Context, userID int64) (*model.User, error)
}
