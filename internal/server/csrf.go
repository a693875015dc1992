package server

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"

	"github.com/desertthunder/reel/internal/shared"
)

var (
	ErrCSRFTokenMissing = errors.New("CSRF token missing")
	ErrCSRFTokenInvalid = errors.New("CSRF token invalid")
)

// CSRFConfig configures [CSRF].
type CSRFConfig struct {
	Secret        []byte // signs token nonces; required
	CookieName    string // default "_csrf"
	HeaderName    string // default "X-CSRF-Token"
	FormFieldName string // default "csrf_token"
	CookieSecure  bool
}

// CSRFTokenFromContext returns the token the current page should embed in its forms.
func CSRFTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(csrfTokenKey).(string)
	return token
}

type csrfGuard struct {
	config CSRFConfig
}

// CSRF implements double-submit protection with signed tokens.
//
// A token is "<nonce>.<hex HMAC-SHA256(secret, nonce)>" and lives in a cookie.
// Safe methods issue one when the cookie is absent or forged. Other methods must echo the
// cookie's token in the header or form field, else 403.
func CSRF(config CSRFConfig) Middleware {
	if config.CookieName == "" {
		config.CookieName = "_csrf"
	}
	if config.HeaderName == "" {
		config.HeaderName = "X-CSRF-Token"
	}
	if config.FormFieldName == "" {
		config.FormFieldName = "csrf_token"
	}
	guard := &csrfGuard{config: config}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookieToken := guard.cookieToken(r)

			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
				if cookieToken == "" {
					cookieToken = guard.issue(w)
				}
			default:
				if err := guard.validate(r, cookieToken); err != nil {
					http.Error(w, "Forbidden: "+err.Error(), http.StatusForbidden)
					return
				}
			}

			ctx := context.WithValue(r.Context(), csrfTokenKey, cookieToken)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Sign returns a token for nonce under secret.
func Sign(secret []byte, nonce string) string {
	return nonce + "." + signature(secret, nonce)
}

// Verify reports whether token was produced by [Sign] with secret.
func Verify(secret []byte, token string) bool {
	nonce, sig, ok := strings.Cut(token, ".")
	if !ok || nonce == "" || sig == "" {
		return false
	}
	return hmac.Equal([]byte(sig), []byte(signature(secret, nonce)))
}

func signature(secret []byte, nonce string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(nonce))
	return hex.EncodeToString(mac.Sum(nil))
}

// cookieToken returns the cookie token when its signature holds, else "".
func (g *csrfGuard) cookieToken(r *http.Request) string {
	cookie, err := r.Cookie(g.config.CookieName)
	if err != nil || !Verify(g.config.Secret, cookie.Value) {
		return ""
	}
	return cookie.Value
}

func (g *csrfGuard) issue(w http.ResponseWriter) string {
	token := Sign(g.config.Secret, shared.GenerateID())
	http.SetCookie(w, &http.Cookie{
		Name:     g.config.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   g.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return token
}

func (g *csrfGuard) validate(r *http.Request, cookieToken string) error {
	if cookieToken == "" {
		return ErrCSRFTokenMissing
	}

	requestToken := r.Header.Get(g.config.HeaderName)
	if requestToken == "" {
		requestToken = r.PostFormValue(g.config.FormFieldName)
	}
	if requestToken == "" {
		return ErrCSRFTokenMissing
	}

	if subtle.ConstantTimeCompare([]byte(cookieToken), []byte(requestToken)) != 1 {
		return ErrCSRFTokenInvalid
	}
	return nil
}
