package usecase

import (
	"context"
	"net/http"

	"gallery/internal/domain/model"
	repo "gallery/internal/repository"
)

// CatalogUsecaseは公開カタログの読み取り専用API。
type CatalogUsecase struct {
	catalog repo.CatalogRepository
}

// DI
func NewCatalogUsecase(catalog repo.CatalogRepository) *CatalogUsecase {
	return &CatalogUsecase{catalog: catalog}
}

type ListCatalogInput struct {
	Page  int
	Limit int
	Q     string
}

type ArtworkListOutput struct {
	Items []model.Artwork `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type ExhibitionListOutput struct {
	Items []model.Exhibition `json:"items"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

func (u *CatalogUsecase) ListArtworks(ctx context.Context, in ListCatalogInput) (ArtworkListOutput, error) {
	q := normalizeListQuery(in)

	items, total, err := u.catalog.ListArtworks(ctx, q)
	if err != nil {
		return ArtworkListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return ArtworkListOutput{Items: items, Total: total, Page: q.Page, Limit: q.Limit}, nil
}

func (u *CatalogUsecase) GetArtwork(ctx context.Context, id string) (model.Artwork, error) {
	a, err := u.catalog.FindArtworkByID(ctx, id)
	if err == repo.ErrNotFound {
		return model.Artwork{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Artwork{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return a, nil
}

func (u *CatalogUsecase) ListExhibitions(ctx context.Context, in ListCatalogInput) (ExhibitionListOutput, error) {
	q := normalizeListQuery(in)

	items, total, err := u.catalog.ListExhibitions(ctx, q)
	if err != nil {
		return ExhibitionListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return ExhibitionListOutput{Items: items, Total: total, Page: q.Page, Limit: q.Limit}, nil
}

func (u *CatalogUsecase) GetExhibition(ctx context.Context, id string) (model.Exhibition, error) {
	e, err := u.catalog.FindExhibitionByID(ctx, id)
	if err == repo.ErrNotFound {
		return model.Exhibition{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Exhibition{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return e, nil
}

// page/limitのデフォルトと上限
func normalizeListQuery(in ListCatalogInput) repo.CatalogListQuery {
	page := in.Page
	if page < 1 {
		page = 1
	}

	limit := in.Limit
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return repo.CatalogListQuery{Page: page, Limit: limit, Q: in.Q}
}
