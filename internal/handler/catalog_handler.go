package handler

import (
	"errors"
	"net/http"
	"strconv"

	"gallery/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// /artworks, /exhibitions の公開API
type CatalogHandler struct {
	uc *usecase.CatalogUsecase
}

// DI
func NewCatalogHandler(uc *usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// 公開カタログのルートを登録
func (h *CatalogHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/artworks", h.listArtworks)
	e.GET("/artworks/:id", h.artworkDetail)
	e.GET("/exhibitions", h.listExhibitions)
	e.GET("/exhibitions/:id", h.exhibitionDetail)
}

func (h *CatalogHandler) listArtworks(c echo.Context) error {
	in, err := parseListInput(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	out, err := h.uc.ListArtworks(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) artworkDetail(c echo.Context) error {
	a, err := h.uc.GetArtwork(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *CatalogHandler) listExhibitions(c echo.Context) error {
	in, err := parseListInput(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	out, err := h.uc.ListExhibitions(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) exhibitionDetail(c echo.Context) error {
	e, err := h.uc.GetExhibition(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, e)
}

func parseListInput(c echo.Context) (usecase.ListCatalogInput, error) {
	// page（default 1）
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return usecase.ListCatalogInput{}, errors.New("invalid page")
		}
		page = p
	}

	// limit（default 20）
	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return usecase.ListCatalogInput{}, errors.New("invalid limit")
		}
		limit = l
	}

	return usecase.ListCatalogInput{
		Page:  page,
		Limit: limit,
		Q:     c.QueryParam("q"),
	}, nil
}
