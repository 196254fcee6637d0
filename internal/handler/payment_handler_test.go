package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gallery/internal/domain/model"
	repo "gallery/internal/repository"
	"gallery/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPushRepo struct {
	resolvedID     string
	resolvedStatus model.PushPaymentStatus
	resolvedReason string
	missing        bool
}

func (s *stubPushRepo) Create(ctx context.Context, p model.PushPayment) (int64, error) {
	panic("not used")
}

func (s *stubPushRepo) ResolveByGatewayRequestID(ctx context.Context, gatewayRequestID string, status model.PushPaymentStatus, reason string) error {
	if s.missing {
		return repo.ErrNotFound
	}
	s.resolvedID = gatewayRequestID
	s.resolvedStatus = status
	s.resolvedReason = reason
	return nil
}

func (s *stubPushRepo) ListByCheckoutID(ctx context.Context, checkoutID string) ([]model.PushPayment, error) {
	return nil, nil
}

func newPaymentServer(pushes *stubPushRepo) *echo.Echo {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	uc := usecase.NewPaymentUsecase(pushes, log)

	e := echo.New()
	e.POST("/payments/mpesa/callback", NewPaymentHandler(uc).mpesaCallback)
	return e
}

func postCallback(e *echo.Echo, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/payments/mpesa/callback", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestPaymentHandler_CallbackConfirmsPayment(t *testing.T) {
	pushes := &stubPushRepo{}
	e := newPaymentServer(pushes)

	rec := postCallback(e, `{
		"Body": {"stkCallback": {
			"MerchantRequestID": "m1",
			"CheckoutRequestID": "ws_42",
			"ResultCode": 0,
			"ResultDesc": "The service request is processed successfully."
		}}
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ws_42", pushes.resolvedID)
	assert.Equal(t, model.PushPaymentStatusConfirmed, pushes.resolvedStatus)
	assert.Empty(t, pushes.resolvedReason)
}

func TestPaymentHandler_CallbackRecordsFailureReason(t *testing.T) {
	pushes := &stubPushRepo{}
	e := newPaymentServer(pushes)

	rec := postCallback(e, `{
		"Body": {"stkCallback": {
			"CheckoutRequestID": "ws_43",
			"ResultCode": 1032,
			"ResultDesc": "Request cancelled by user"
		}}
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.PushPaymentStatusFailed, pushes.resolvedStatus)
	assert.Equal(t, "Request cancelled by user", pushes.resolvedReason)
}

func TestPaymentHandler_CallbackUnknownRequest(t *testing.T) {
	pushes := &stubPushRepo{missing: true}
	e := newPaymentServer(pushes)

	rec := postCallback(e, `{
		"Body": {"stkCallback": {
			"CheckoutRequestID": "ws_ghost",
			"ResultCode": 0,
			"ResultDesc": "ok"
		}}
	}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPaymentHandler_CallbackMissingRequestID(t *testing.T) {
	pushes := &stubPushRepo{}
	e := newPaymentServer(pushes)

	rec := postCallback(e, `{"Body": {"stkCallback": {"ResultCode": 0}}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
