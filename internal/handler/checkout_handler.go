package handler

import (
	"errors"
	"net/http"

	"gallery/internal/config"
	"gallery/internal/domain/model"
	"gallery/internal/middleware"
	"gallery/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /checkoutのHTTP。ログイン必須（カートは匿名だがチェックアウトは本人確認する）。
type CheckoutHandler struct {
	uc *usecase.CheckoutUsecase
}

// DI
func NewCheckoutHandler(uc *usecase.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

type CheckoutRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	DeliveryAddress string `json:"delivery_address"`
	PaymentMode     string `json:"payment_mode"` // mobile_money / invoice
	Note            string `json:"note"`
}

// 部分失敗のレスポンス。失敗明細はカートに残っているのでそのままリトライできる。
type PartialFailureResponse struct {
	Error     string                `json:"error"`
	Succeeded []model.CartLine      `json:"succeeded"`
	Failed    []usecase.LineFailure `json:"failed"`
}

func (h *CheckoutHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/checkout")
	g.Use(middleware.CartSession())
	g.Use(middleware.AuthJWT(cfg))

	g.POST("", h.checkout)
}

func (h *CheckoutHandler) checkout(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	sessionID := getSessionIDFromContext(c)

	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Checkout(c.Request().Context(), sessionID, userID, usecase.CheckoutInput{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		DeliveryAddress: req.DeliveryAddress,
		PaymentMode:     model.PaymentMode(req.PaymentMode),
		Note:            req.Note,
	})
	if err != nil {
		var pe *usecase.PartialSubmissionError
		if errors.As(err, &pe) {
			return c.JSON(http.StatusBadGateway, PartialFailureResponse{
				Error:     pe.Error(),
				Succeeded: pe.Succeeded,
				Failed:    pe.Failed,
			})
		}
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func getUserIDFromContext(c echo.Context) (int64, bool) {
	id, ok := c.Get(middleware.CtxUserIDKey).(int64)
	return id, ok
}
