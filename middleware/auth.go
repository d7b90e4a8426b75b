// Package middleware, HTTP request pipeline'ına eklenen ara katmanları barındırır.
//
// Middleware Pattern nedir?
// Her HTTP request, handler'a ulaşmadan önce bir veya daha fazla middleware'dan geçer.
// Middleware'lar zincir şeklinde çalışır: Guard → Auth → Handler
//
// Go'da middleware bir fonksiyondur:
//
//	func(next http.Handler) http.Handler
//
// "next" zincirdeki bir sonraki handler'dır. Middleware kendi işini yapar,
// sonra next'i çağırır. Hata varsa next'i çağırmaz — request burada durur.
package middleware

import (
	"context"
	"net/http"

	"github.com/msb418/contractpulse/handlers"
	"github.com/msb418/contractpulse/pkg"
	"github.com/msb418/contractpulse/services"
)

// AuthMiddleware, session cookie doğrulama middleware'ı.
//
// Bu katman OTORİTATİF kontroldür: imza, süre ve kullanıcının hâlâ var
// olduğu burada doğrulanır. RouteGuard sadece cookie varlığına bakan ucuz
// ön kontroldür — API güvenliği ona değil, buna dayanır.
type AuthMiddleware struct {
	authService services.AuthService
}

// NewAuthMiddleware, constructor.
func NewAuthMiddleware(authService services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// RequireSession, geçerli oturum zorunlu kılan middleware.
// Cookie yoksa veya token geçersizse → 401 Unauthorized.
//
// Akış:
// 1. Session cookie'sini oku
// 2. JWT'yi doğrula (imza + exp)
// 3. Kullanıcıyı DB'den getir — token geçerli ama hesap silinmiş olabilir
// 4. Context'e user'ı ekle → next handler'ı çağır
func (m *AuthMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(handlers.SessionCookieName)
		if err != nil || cookie.Value == "" {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "authentication required")
			return
		}

		claims, err := m.authService.VerifySessionToken(cookie.Value)
		if err != nil {
			pkg.Error(w, err)
			return
		}

		user, err := m.authService.GetUser(r.Context(), claims.UID)
		if err != nil {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "authentication required")
			return
		}

		// Password hash'i temizle — context'te taşınmamalı
		user.PasswordHash = ""

		ctx := context.WithValue(r.Context(), handlers.UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
