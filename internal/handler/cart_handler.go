package handler

import (
	"net/http"

	"gallery/internal/domain/model"
	"gallery/internal/middleware"
	"gallery/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cartのHTTP。匿名セッションcookieで識別する（ログイン不要）。
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type AddCartItemRequest struct {
	Kind     string `json:"kind"` // artwork / exhibition_ticket
	ID       string `json:"id"`
	Quantity int64  `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int64 `json:"quantity"`
}

type ContainsResponse struct {
	Contains bool `json:"contains"`
}

// /cart, /cart/items/{id} を登録
func (h *CartHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/cart")
	g.Use(middleware.CartSession())

	g.GET("", h.getCart)
	g.POST("/items", h.addItem)
	g.PATCH("/items/:id", h.patchItem)
	g.DELETE("/items/:id", h.deleteItem)
	g.DELETE("", h.clear)
	g.GET("/contains/:id", h.contains)
	g.DELETE("/session", h.destroy)
}

func (h *CartHandler) getCart(c echo.Context) error {
	sessionID := getSessionIDFromContext(c)

	out, err := h.uc.GetCart(c.Request().Context(), sessionID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) addItem(c echo.Context) error {
	sessionID := getSessionIDFromContext(c)

	var req AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.AddItem(c.Request().Context(), sessionID, usecase.AddItemInput{
		Kind:     model.ItemKind(req.Kind),
		EntityID: req.ID,
		Quantity: req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) patchItem(c echo.Context) error {
	sessionID := getSessionIDFromContext(c)

	var req UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.SetQuantity(c.Request().Context(), sessionID, c.Param("id"), req.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) deleteItem(c echo.Context) error {
	sessionID := getSessionIDFromContext(c)

	out, err := h.uc.RemoveItem(c.Request().Context(), sessionID, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) clear(c echo.Context) error {
	sessionID := getSessionIDFromContext(c)

	out, err := h.uc.Clear(c.Request().Context(), sessionID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) contains(c echo.Context) error {
	sessionID := getSessionIDFromContext(c)

	in, err := h.uc.Contains(c.Request().Context(), sessionID, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ContainsResponse{Contains: in})
}

// ログアウト時にフロントから呼ばれる。スナップショットごと消す。
func (h *CartHandler) destroy(c echo.Context) error {
	sessionID := getSessionIDFromContext(c)

	if err := h.uc.Destroy(c.Request().Context(), sessionID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func getSessionIDFromContext(c echo.Context) string {
	s, _ := c.Get(middleware.CtxSessionIDKey).(string)
	return s
}
