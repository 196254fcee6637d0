package repository

import (
	"context"
	"errors"
	"strings"

	"gallery/internal/domain/model"
	repo "gallery/internal/repository"

	"gorm.io/gorm"
)

type CatalogGormRepository struct {
	db *gorm.DB
}

// DI
func NewCatalogGormRepository(db *gorm.DB) *CatalogGormRepository {
	return &CatalogGormRepository{db: db}
}

// 作品を1件取得。画像参照はここで正規化する。
func (r *CatalogGormRepository) FindArtworkByID(ctx context.Context, id string) (model.Artwork, error) {
	var a model.Artwork

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&a).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Artwork{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Artwork{}, err
	}

	a.ImageURL = NormalizeImageRef(a.ImageURL, a.ImagePath)
	return a, nil
}

// 展示会を1件取得
func (r *CatalogGormRepository) FindExhibitionByID(ctx context.Context, id string) (model.Exhibition, error) {
	var e model.Exhibition

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&e).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Exhibition{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Exhibition{}, err
	}
	return e, nil
}

// 公開作品一覧
func (r *CatalogGormRepository) ListArtworks(ctx context.Context, q repo.CatalogListQuery) ([]model.Artwork, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Artwork{})

	if s := strings.TrimSpace(q.Q); s != "" {
		like := "%" + s + "%"
		base = base.Where("title ILIKE ? OR artist ILIKE ?", like, like)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []model.Artwork
	err := base.
		Order("created_at desc").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}

	for i := range items {
		items[i].ImageURL = NormalizeImageRef(items[i].ImageURL, items[i].ImagePath)
	}
	return items, total, nil
}

// 展示会一覧
func (r *CatalogGormRepository) ListExhibitions(ctx context.Context, q repo.CatalogListQuery) ([]model.Exhibition, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Exhibition{})

	if s := strings.TrimSpace(q.Q); s != "" {
		like := "%" + s + "%"
		base = base.Where("title ILIKE ? OR location ILIKE ?", like, like)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []model.Exhibition
	err := base.
		Order("start_date asc").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// NormalizeImageRefは画像参照を1つの形に揃える。
// 旧データはimage_urlが空でuploads/相対パスだけ持っていることがある。
// 正規化はこの境界の1箇所だけで行い、カート側ではフォールバックしない。
func NormalizeImageRef(imageURL string, imagePath string) string {
	u := strings.TrimSpace(imageURL)
	if u != "" {
		return u
	}

	p := strings.TrimSpace(imagePath)
	if p == "" {
		return ""
	}
	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return p
	}
	return "/" + strings.TrimPrefix(p, "/")
}
