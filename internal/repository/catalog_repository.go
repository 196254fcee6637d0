package repository

import (
	"context"
	"errors"

	"gallery/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// カタログの読み取り。カート追加時のスナップショット取得にだけ使う。
type CatalogRepository interface {
	// 作品を1件取得
	FindArtworkByID(ctx context.Context, id string) (model.Artwork, error)
	// 展示会を1件取得
	FindExhibitionByID(ctx context.Context, id string) (model.Exhibition, error)

	// 公開一覧（カタログ画面用）
	ListArtworks(ctx context.Context, q CatalogListQuery) ([]model.Artwork, int64, error)
	ListExhibitions(ctx context.Context, q CatalogListQuery) ([]model.Exhibition, int64, error)
}

// 一覧検索
type CatalogListQuery struct {
	Page  int
	Limit int
	Q     string
}
