package middleware

import (
	"net/http"
	"time"

	"github.com/middas-stores/storefront-gateway/api/responses"
	"github.com/middas-stores/storefront-gateway/pkg/config"
	pkgerrors "github.com/middas-stores/storefront-gateway/pkg/errors"
	"github.com/middas-stores/storefront-gateway/pkg/logger"
	"github.com/middas-stores/storefront-gateway/pkg/session"
)

// Session attaches a storefront session id to every request. A valid cookie
// is honored; anything else gets a freshly minted session, so an expired or
// tampered cookie silently becomes a new anonymous session instead of an
// error page.
func Session(cfg config.SessionConfig, secureCookies bool, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			sessionID := ""
			if cookie, err := r.Cookie(cfg.CookieName); err == nil {
				if sid, err := session.Parse(cfg, cookie.Value); err == nil {
					sessionID = sid
				}
			}

			if sessionID == "" {
				token, sid, err := session.Mint(cfg, time.Now())
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting session"))
					return
				}
				sessionID = sid
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    token,
					Path:     "/",
					MaxAge:   int(cfg.TTL.Seconds()),
					HttpOnly: true,
					Secure:   secureCookies,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx = WithSessionID(ctx, sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
