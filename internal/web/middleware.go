package web

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/lostfound/internal/auth"
	"github.com/erazemk/lostfound/internal/model"
)

type webContextKey string

const (
	webClaimsKey     webContextKey = "webclaims"
	webRegistrantKey webContextKey = "webregistrant"
)

// tokenCookie is the name of the admin session cookie.
const tokenCookie = "token"

// SessionMiddleware lets a request through only with a valid, unrevoked
// session cookie whose email is still a registrant. Anything else is sent
// to the login page.
func SessionMiddleware(secret string, db *sql.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(tokenCookie)
			if err != nil || cookie.Value == "" {
				http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
				return
			}

			claims, reg, err := auth.CheckSession(r.Context(), db, secret, cookie.Value)
			if err != nil {
				if !errors.Is(err, auth.ErrSessionInvalid) {
					slog.Error("failed to check session", "error", err)
				}
				clearAuthCookie(w)
				http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), webClaimsKey, claims)
			ctx = context.WithValue(ctx, webRegistrantKey, reg)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(auth.TokenExpiry.Seconds()),
	})
}

// clearAuthCookie clears the session cookie with consistent attributes.
func clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetWebClaims retrieves the session claims from the request context.
func GetWebClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(webClaimsKey).(*auth.Claims)
	return claims
}

// GetWebRegistrant retrieves the signed-in registrant.
func GetWebRegistrant(ctx context.Context) *model.Registrant {
	reg, _ := ctx.Value(webRegistrantKey).(*model.Registrant)
	return reg
}

// viewerVerified reports whether the browser passed the viewer gate.
func viewerVerified(r *http.Request) bool {
	c, err := r.Cookie(auth.ViewerCookieName)
	return err == nil && c.Value == "1"
}
