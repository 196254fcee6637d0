package handler

import (
	"net/http"

	"gallery/internal/config"
	"gallery/internal/middleware"
	"gallery/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 決済まわりのHTTP。callbackはゲートウェイから叩かれる公開エンドポイント。
type PaymentHandler struct {
	uc *usecase.PaymentUsecase
}

// DI
func NewPaymentHandler(uc *usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

// DarajaのSTK callbackボディ
type MpesaCallbackRequest struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

// ゲートウェイへの応答形式
type MpesaCallbackResponse struct {
	ResultCode int    `json:"ResultCode"`
	ResultDesc string `json:"ResultDesc"`
}

func (h *PaymentHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	e.POST("/payments/mpesa/callback", h.mpesaCallback)

	g := e.Group("/payments")
	g.Use(middleware.AuthJWT(cfg))
	g.GET("/checkout/:id", h.listByCheckout)
}

func (h *PaymentHandler) mpesaCallback(c echo.Context) error {
	var req MpesaCallbackRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	cb := req.Body.StkCallback
	err := h.uc.ConfirmPush(c.Request().Context(), cb.CheckoutRequestID, cb.ResultCode, cb.ResultDesc)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, MpesaCallbackResponse{ResultCode: 0, ResultDesc: "Accepted"})
}

func (h *PaymentHandler) listByCheckout(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	items, err := h.uc.ListByCheckout(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}
