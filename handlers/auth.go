// Package handlers, HTTP request/response işlemlerini yönetir.
//
// Handler'ın görevi çok basit ve "ince" (thin) olmalı:
// 1. Request body'yi parse et (JSON → struct)
// 2. Service katmanını çağır
// 3. Sonucu HTTP response olarak döndür
//
// Handler ASLA iş mantığı (business logic) içermez.
// Handler ASLA doğrudan DB'ye erişmez.
// Tüm akıl service'de, handler sadece köprü.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/msb418/contractpulse/models"
	"github.com/msb418/contractpulse/pkg"
	"github.com/msb418/contractpulse/pkg/ratelimit"
	"github.com/msb418/contractpulse/services"
)

// AuthHandler, auth endpoint'lerini yöneten struct.
// Service interface'i ve rate limiter constructor'dan alınır (DI).
type AuthHandler struct {
	authService   services.AuthService
	loginLimiter  *ratelimit.LoginRateLimiter
	secureCookies bool
}

// NewAuthHandler, constructor.
// loginLimiter: login brute-force koruması. nil ise rate limiting devre dışı kalır.
// secureCookies: production'da true — cookie'ler Secure flag'i ile yazılır.
func NewAuthHandler(authService services.AuthService, loginLimiter *ratelimit.LoginRateLimiter, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		loginLimiter:  loginLimiter,
		secureCookies: secureCookies,
	}
}

// Register godoc
// POST /api/auth/register
// Body: { "email": "...", "password": "...", "captcha_token": "..." }
//
// Başarıda session cookie set edilir — kayıt sonrası ayrıca login gerekmez.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest

	// json.NewDecoder: request body'yi Go struct'ına parse eder.
	// r.Body bir io.Reader'dır — stream olarak okunur, hepsini belleğe almaz.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	setSessionCookie(w, result.Token, h.secureCookies)
	pkg.JSON(w, http.StatusCreated, map[string]string{"id": result.User.ID})
}

// Login godoc
// POST /api/auth/login
// Body: { "email": "...", "password": "...", "captcha_token": "..." }
//
// Rate limiting: IP bazlı brute-force koruması.
// - Pencere içinde izin verilen deneme sayısı aşılırsa 429 döner.
// - Başarılı login sayacı sıfırlar — meşru kullanıcı bloke olmaz.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	// Rate limit kontrolü — brute-force koruması
	ip := ratelimit.ExtractIP(r)
	if h.loginLimiter != nil && !h.loginLimiter.Allow(ip) {
		retryAfter := h.loginLimiter.RetryAfterSeconds(ip)
		w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
		pkg.ErrorWithMessage(w, http.StatusTooManyRequests,
			fmt.Sprintf("too many login attempts, please try again in %s",
				ratelimit.FormatRetryMessage(retryAfter)))
		return
	}

	var req models.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		// Başarısız login'de varsa eski cookie de temizlenir — yarı geçerli
		// bir oturum artığı kalmaz.
		clearSessionCookie(w, h.secureCookies)
		pkg.Error(w, err)
		return
	}

	// Başarılı login — sayacı sıfırla.
	if h.loginLimiter != nil {
		h.loginLimiter.Reset(ip)
	}

	setSessionCookie(w, result.Token, h.secureCookies)
	pkg.JSON(w, http.StatusOK, map[string]string{"id": result.User.ID})
}

// Logout godoc
// POST /api/auth/logout
//
// Session stateless JWT olduğu için server tarafında silinecek bir şey yok —
// logout cookie'yi temizlemekten ibarettir. Body gerekmez, her zaman başarılıdır.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w, h.secureCookies)
	pkg.JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me godoc
// GET /api/users/me
// Auth middleware gerektirir — context'te user bilgisi olur.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	// Context'ten user bilgisini al (auth middleware tarafından eklenir)
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	pkg.JSON(w, http.StatusOK, user)
}

// ForgotPassword godoc
// POST /api/auth/forgot-password
// Body: { "email": "..." }
//
// Response hesabın varlığından bağımsız olarak aynıdır — enumeration koruması.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.authService.ForgotPassword(r.Context(), &req); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{
		"message": "if an account exists for that email, a reset link has been sent",
	})
}

// ResetPassword godoc
// POST /api/auth/reset-password
// Body: { "token": "...", "new_password": "..." }
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.authService.ResetPassword(r.Context(), &req); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

// ─── Context Keys ───

// contextKey, context.WithValue için özel tip.
// string yerine özel tip kullanılır — başka paketlerin "user" string key'i
// ile çakışma (collision) olmaz.
type contextKey string

// UserContextKey, auth middleware'ın context'e eklediği *models.User'ın key'i.
const UserContextKey contextKey = "user"
