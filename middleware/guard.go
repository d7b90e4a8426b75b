package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/msb418/contractpulse/handlers"
)

// RouteGuard, uygulama sayfaları için ucuz edge kontrolü.
//
// SADECE cookie varlığına bakar — imza doğrulamaz, DB'ye gitmez. Amaç
// oturumsuz kullanıcıyı sayfa render edilmeden login'e yönlendirmektir.
// Sahte bir cookie bu katmanı geçer ama veriye ulaşamaz: her API çağrısı
// AuthMiddleware.RequireSession'dan geçer. Guard UX katmanıdır, güvenlik
// katmanı değil.
type RouteGuard struct {
	// protectedPrefixes: oturum isteyen sayfa path önekleri (ör. /contracts).
	protectedPrefixes []string
	loginPath         string
}

// NewRouteGuard, constructor.
func NewRouteGuard(protectedPrefixes []string, loginPath string) *RouteGuard {
	return &RouteGuard{
		protectedPrefixes: protectedPrefixes,
		loginPath:         loginPath,
	}
}

// Wrap, korunan path'lerde cookie yoksa login'e redirect eder.
//
// Redirect, kullanıcının gitmek istediği adresi ?next= parametresinde taşır
// (path + query birlikte) — login sonrası kaldığı yere döner.
func (g *RouteGuard) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.isProtected(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(handlers.SessionCookieName)
		if err != nil || cookie.Value == "" {
			target := r.URL.Path
			if r.URL.RawQuery != "" {
				target += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, g.loginPath+"?next="+url.QueryEscape(target), http.StatusFound)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (g *RouteGuard) isProtected(path string) bool {
	for _, prefix := range g.protectedPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}
