package validator

import (
	"errors"
	"regexp"
	"strings"
)

// 入力が不正
var ErrInvalidInput = errors.New("invalid input")

// チェックアウトの連絡先入力を検証。
// どれか1つでも空なら送信前に弾く。
func ValidateContact(name string, email string, phone string, address string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidInput
	}
	if strings.TrimSpace(phone) == "" {
		return ErrInvalidInput
	}
	if strings.TrimSpace(address) == "" {
		return ErrInvalidInput
	}

	email = strings.TrimSpace(email)
	if email == "" || !isEmailLike(email) {
		return ErrInvalidInput
	}

	return nil
}

// 簡易メール形式をチェック
func isEmailLike(s string) bool {
	re := regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	return re.MatchString(s)
}
