package repository

import (
	"context"
	"errors"
)

// スナップショットが無い
var ErrSnapshotNotFound = errors.New("snapshot not found")

// セッション単位のカートスナップショット永続化。
// 値はシリアライズ済みのバイト列で、中身の解釈はUsecase側が持つ。
type CartSnapshotStore interface {
	Get(ctx context.Context, sessionID string) ([]byte, error)
	Set(ctx context.Context, sessionID string, data []byte) error
	Remove(ctx context.Context, sessionID string) error
}
