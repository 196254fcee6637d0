package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"gallery/internal/domain/model"
	repo "gallery/internal/repository"
	"gallery/internal/validator"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// 法人割引のデフォルト（10% = 1000bp）。
// アカウントにdiscount_bpが入っていればそちらを優先する。
const defaultCorporateDiscountBP int64 = 1000

// CheckoutUsecaseはカートとアクターから注文送信を組み立てる。
// 1回の試行は IDLE -> VALIDATING -> SUBMITTING -> {SUCCEEDED, FAILED}。
type CheckoutUsecase struct {
	cart     *CartUsecase
	users    repo.UserRepository
	gateway  repo.PaymentGateway
	pushes   repo.PushPaymentRepository
	invoices repo.InvoiceRepository
	log      *slog.Logger
}

func NewCheckoutUsecase(
	cart *CartUsecase,
	users repo.UserRepository,
	gateway repo.PaymentGateway,
	pushes repo.PushPaymentRepository,
	invoices repo.InvoiceRepository,
	log *slog.Logger,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		cart:     cart,
		users:    users,
		gateway:  gateway,
		pushes:   pushes,
		invoices: invoices,
		log:      log,
	}
}

type CheckoutInput struct {
	Name            string
	Email           string
	Phone           string
	DeliveryAddress string
	PaymentMode     model.PaymentMode
	Note            string
}

// 確認画面向けのスナップショット
type CheckoutOutput struct {
	CheckoutID      string               `json:"checkout_id"`
	Status          model.CheckoutStatus `json:"status"`
	Lines           []model.CartLine     `json:"lines"`
	TotalAmount     int64                `json:"total_amount"`
	FinalAmount     int64                `json:"final_amount"`
	DiscountBP      int64                `json:"discount_bp"`
	DiscountApplied bool                 `json:"discount_applied"`
	PaymentMode     model.PaymentMode    `json:"payment_mode"`
	Name            string               `json:"name"`
	Email           string               `json:"email"`
	Phone           string               `json:"phone"`
	DeliveryAddress string               `json:"delivery_address"`
	Note            string               `json:"note,omitempty"`
}

// Checkoutは1回のチェックアウト試行。
// 検証で落ちたら外部呼び出しは一切しない。成功時だけカートを空にする。
func (u *CheckoutUsecase) Checkout(ctx context.Context, sessionID string, userID int64, in CheckoutInput) (CheckoutOutput, error) {
	checkoutID := uuid.NewString()
	status := model.CheckoutStatusIdle

	u.transition(checkoutID, &status, model.CheckoutStatusValidating)

	// 未ログインは送信前に弾く（Handlerがログインへ誘導する）
	if userID <= 0 {
		u.transition(checkoutID, &status, model.CheckoutStatusFailed)
		return CheckoutOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := u.users.FindByID(ctx, userID)
	if err == repo.ErrUserNotFound {
		u.transition(checkoutID, &status, model.CheckoutStatusFailed)
		return CheckoutOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err != nil {
		u.transition(checkoutID, &status, model.CheckoutStatusFailed)
		return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !user.IsActive {
		u.transition(checkoutID, &status, model.CheckoutStatusFailed)
		return CheckoutOutput{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}

	// 購入できるのは個人と法人だけ
	if !user.Role.CanPurchase() {
		u.transition(checkoutID, &status, model.CheckoutStatusFailed)
		return CheckoutOutput{}, NewHTTPError(http.StatusForbidden, "role cannot purchase")
	}

	if err := validator.ValidateContact(in.Name, in.Email, in.Phone, in.DeliveryAddress); err != nil {
		u.transition(checkoutID, &status, model.CheckoutStatusFailed)
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "missing required field")
	}

	switch in.PaymentMode {
	case model.PaymentModeMobileMoney:
		// ok
	case model.PaymentModeInvoice:
		// 請求書払いは法人のみ
		if user.Role != model.RoleCorporate || !user.AllowInvoicing {
			u.transition(checkoutID, &status, model.CheckoutStatusFailed)
			return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "invoice not allowed")
		}
	default:
		u.transition(checkoutID, &status, model.CheckoutStatusFailed)
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "invalid payment mode")
	}

	cart, err := u.cart.GetCart(ctx, sessionID)
	if err != nil {
		u.transition(checkoutID, &status, model.CheckoutStatusFailed)
		return CheckoutOutput{}, err
	}
	if cart.IsEmpty() {
		u.transition(checkoutID, &status, model.CheckoutStatusFailed)
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "cart empty")
	}

	// 割引はカートに持たせず、ここで毎回計算し直す
	discountBP := u.discountBP(user)
	finalAmount := cart.TotalAmount - cart.TotalAmount*discountBP/10000

	out := CheckoutOutput{
		CheckoutID:      checkoutID,
		Lines:           cart.Lines,
		TotalAmount:     cart.TotalAmount,
		FinalAmount:     finalAmount,
		DiscountBP:      discountBP,
		DiscountApplied: discountBP > 0,
		PaymentMode:     in.PaymentMode,
		Name:            in.Name,
		Email:           in.Email,
		Phone:           in.Phone,
		DeliveryAddress: in.DeliveryAddress,
		Note:            in.Note,
	}

	u.transition(checkoutID, &status, model.CheckoutStatusSubmitting)

	if in.PaymentMode == model.PaymentModeInvoice {
		if err := u.submitInvoice(ctx, checkoutID, user, cart, finalAmount, in.Note); err != nil {
			u.transition(checkoutID, &status, model.CheckoutStatusFailed)
			return CheckoutOutput{}, err
		}

		if _, err := u.cart.Clear(ctx, sessionID); err != nil {
			u.log.Error("cart clear after invoice failed", "checkout_id", checkoutID, "error", err)
		}
		u.transition(checkoutID, &status, model.CheckoutStatusSucceeded)
		out.Status = status
		return out, nil
	}

	succeeded, failed := u.submitPushBatch(ctx, checkoutID, user, cart, in.Phone, discountBP)

	// 全滅：カートはそのまま、リトライ可能な失敗として返す
	if len(succeeded) == 0 {
		u.transition(checkoutID, &status, model.CheckoutStatusFailed)
		return CheckoutOutput{}, NewHTTPError(http.StatusBadGateway, "payment submission failed: "+failed[0].Reason)
	}

	// 部分失敗：成功した明細だけカートから外し、失敗分は残す
	if len(failed) > 0 {
		for _, ln := range succeeded {
			if _, err := u.cart.RemoveItem(ctx, sessionID, ln.ID); err != nil {
				u.log.Error("remove settled line failed", "checkout_id", checkoutID, "item_id", ln.ID, "error", err)
			}
		}
		u.transition(checkoutID, &status, model.CheckoutStatusFailed)
		return CheckoutOutput{}, &PartialSubmissionError{Succeeded: succeeded, Failed: failed}
	}

	// 全件受理：カートを空にして成功
	if _, err := u.cart.Clear(ctx, sessionID); err != nil {
		u.log.Error("cart clear after checkout failed", "checkout_id", checkoutID, "error", err)
	}
	u.transition(checkoutID, &status, model.CheckoutStatusSucceeded)
	out.Status = status
	return out, nil
}

// 明細ごとにSTK Pushを発行する。全明細を投げ切ってから結果をまとめる。
func (u *CheckoutUsecase) submitPushBatch(ctx context.Context, checkoutID string, user *model.User, cart model.Cart, phone string, discountBP int64) ([]model.CartLine, []LineFailure) {
	receipts := make([]repo.PushReceipt, len(cart.Lines))
	errs := make([]error, len(cart.Lines))

	g, gctx := errgroup.WithContext(ctx)
	for i, ln := range cart.Lines {
		i, ln := i, ln
		g.Go(func() error {
			lineAmount := ln.UnitPrice * ln.Quantity
			amount := lineAmount - lineAmount*discountBP/10000
			reference := fmt.Sprintf("%s-%s", ln.Kind, ln.ID)

			receipts[i], errs[i] = u.gateway.InitiatePush(gctx, phone, amount, ln.Kind, ln.ID, reference)
			// 1件の失敗で残りを巻き添えにしない
			return nil
		})
	}
	_ = g.Wait()

	var succeeded []model.CartLine
	var failed []LineFailure

	for i, ln := range cart.Lines {
		if errs[i] != nil {
			u.log.Warn("push submission failed", "checkout_id", checkoutID, "item_id", ln.ID, "error", errs[i])
			failed = append(failed, LineFailure{Line: ln, Reason: errs[i].Error()})
			continue
		}

		lineAmount := ln.UnitPrice * ln.Quantity
		amount := lineAmount - lineAmount*discountBP/10000

		// 受理された分はPENDINGで記録し、確定はcallbackに任せる
		_, err := u.pushes.Create(ctx, model.PushPayment{
			CheckoutID:       checkoutID,
			UserID:           user.ID,
			ItemKind:         ln.Kind,
			ItemID:           ln.ID,
			Phone:            phone,
			Amount:           amount,
			Reference:        fmt.Sprintf("%s-%s", ln.Kind, ln.ID),
			GatewayRequestID: receipts[i].CheckoutRequestID,
			Status:           model.PushPaymentStatusPending,
		})
		if err != nil {
			// 記録に失敗しても決済自体は受理済みなので落とさない
			u.log.Error("push record create failed", "checkout_id", checkoutID, "item_id", ln.ID, "error", err)
		}

		succeeded = append(succeeded, ln)
	}

	return succeeded, failed
}

// 請求書払いは外部呼び出しなし。明細スナップショット込みで1件記録する。
func (u *CheckoutUsecase) submitInvoice(ctx context.Context, checkoutID string, user *model.User, cart model.Cart, amount int64, note string) error {
	linesJSON, err := json.Marshal(cart.Lines)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "encode error")
	}

	_, err = u.invoices.Create(ctx, model.InvoiceRequest{
		CheckoutID: checkoutID,
		UserID:     user.ID,
		LinesJSON:  string(linesJSON),
		Amount:     amount,
		Note:       note,
	})
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *CheckoutUsecase) discountBP(user *model.User) int64 {
	if user.Role != model.RoleCorporate {
		return 0
	}
	if user.DiscountBP > 0 {
		return user.DiscountBP
	}
	return defaultCorporateDiscountBP
}

func (u *CheckoutUsecase) transition(checkoutID string, cur *model.CheckoutStatus, next model.CheckoutStatus) {
	u.log.Info("checkout transition", "checkout_id", checkoutID, "from", cur.String(), "to", next.String())
	*cur = next
}
