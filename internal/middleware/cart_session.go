package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	CtxSessionIDKey   = "cart_session_id" // string
	SessionCookieName = "cart_session"
)

// カートセッションcookieの寿命。Redis側のTTLと揃えている。
const sessionCookieTTL = 30 * 24 * time.Hour

// CartSessionは匿名セッションIDを発行・維持するミドルウェア。
// カートはログイン不要で使えるので、認証とは独立にcookieで識別する。
func CartSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sessionID := ""
			if ck, err := c.Cookie(SessionCookieName); err == nil && ck.Value != "" {
				if _, err := uuid.Parse(ck.Value); err == nil {
					sessionID = ck.Value
				}
			}

			//初回（またはcookieが壊れている）なら発行し直す
			if sessionID == "" {
				sessionID = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     SessionCookieName,
					Value:    sessionID,
					Path:     "/",
					MaxAge:   int(sessionCookieTTL.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set(CtxSessionIDKey, sessionID)
			return next(c)
		}
	}
}
