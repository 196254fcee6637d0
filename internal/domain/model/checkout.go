package model

import "time"

type PaymentMode string

const (
	PaymentModeMobileMoney PaymentMode = "mobile_money"
	PaymentModeInvoice     PaymentMode = "invoice"
)

// チェックアウト1回分の状態遷移
// IDLE -> VALIDATING -> SUBMITTING -> {SUCCEEDED, FAILED}
type CheckoutStatus string

const (
	CheckoutStatusIdle       CheckoutStatus = "IDLE"
	CheckoutStatusValidating CheckoutStatus = "VALIDATING"
	CheckoutStatusSubmitting CheckoutStatus = "SUBMITTING"
	CheckoutStatusSucceeded  CheckoutStatus = "SUCCEEDED"
	CheckoutStatusFailed     CheckoutStatus = "FAILED"
)

func (s CheckoutStatus) IsTerminal() bool {
	return s == CheckoutStatusSucceeded || s == CheckoutStatusFailed
}

func (s CheckoutStatus) String() string {
	return string(s)
}

type PushPaymentStatus string

const (
	PushPaymentStatusPending   PushPaymentStatus = "PENDING"
	PushPaymentStatusConfirmed PushPaymentStatus = "CONFIRMED"
	PushPaymentStatusFailed    PushPaymentStatus = "FAILED"
)

// PushPaymentはSTK Push1件の記録。
// 受理された時点でPENDINGを作り、ゲートウェイのcallbackで確定させる。
type PushPayment struct {
	ID         int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	CheckoutID string            `gorm:"type:varchar(36);not null;index" json:"checkout_id"`
	UserID     int64             `gorm:"not null;index" json:"user_id"`
	ItemKind   ItemKind          `gorm:"type:varchar(20);not null" json:"item_kind"`
	ItemID     string            `gorm:"type:varchar(36);not null" json:"item_id"`
	Phone      string            `gorm:"type:varchar(20);not null" json:"phone"`
	Amount     int64             `gorm:"not null" json:"amount"`
	Reference  string            `gorm:"type:varchar(100);not null" json:"reference"`
	// DarajaのCheckoutRequestID。callbackの突き合わせに使う。
	GatewayRequestID string            `gorm:"type:varchar(100);index;column:gateway_request_id" json:"gateway_request_id"`
	Status           PushPaymentStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	FailureReason    string            `gorm:"type:text" json:"failure_reason,omitempty"`
	CreatedAt        time.Time         `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// InvoiceRequestは法人の請求書払い注文の記録。
// LinesJSONは確定時点のカート明細スナップショット。
type InvoiceRequest struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CheckoutID string    `gorm:"type:varchar(36);not null;uniqueIndex" json:"checkout_id"`
	UserID     int64     `gorm:"not null;index" json:"user_id"`
	LinesJSON  string    `gorm:"type:text;not null;column:lines_json" json:"-"`
	Amount     int64     `gorm:"not null" json:"amount"`
	Note       string    `gorm:"type:text" json:"note,omitempty"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
