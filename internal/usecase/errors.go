package usecase

import (
	"errors"
	"fmt"

	"gallery/internal/domain/model"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	if errors.As(err, &he) {
		return he, true
	}
	return nil, false
}

// 1明細分の送信失敗
type LineFailure struct {
	Line   model.CartLine `json:"line"`
	Reason string         `json:"reason"`
}

// PartialSubmissionErrorはモバイルマネー一括送信の部分失敗。
// 成功分はカートから外れ、失敗分は残してリトライさせる。
// 全滅（Succeededが空）とは別物として扱う。
type PartialSubmissionError struct {
	Succeeded []model.CartLine `json:"succeeded"`
	Failed    []LineFailure    `json:"failed"`
}

func (e *PartialSubmissionError) Error() string {
	total := len(e.Succeeded) + len(e.Failed)
	return fmt.Sprintf("%d of %d items submitted; %d failed", len(e.Succeeded), total, len(e.Failed))
}
