// Package services, business logic katmanını barındırır.
//
// Service Layer Pattern nedir?
// Handler (HTTP) ile Repository (DB) arasında oturan katmandır.
// Tüm iş kuralları burada yaşar:
//   - Şifre hash'leme
//   - Session token oluşturma/doğrulama
//   - Captcha kontrolü
//
// Service ASLA http.Request/Response bilmez — sadece domain modelleri alır/verir.
// Service ASLA doğrudan SQL çalıştırmaz — Repository interface'i kullanır.
package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/msb418/contractpulse/models"
	"github.com/msb418/contractpulse/pkg"
	"github.com/msb418/contractpulse/pkg/cache"
	"github.com/msb418/contractpulse/pkg/captcha"
	"github.com/msb418/contractpulse/pkg/email"
	"github.com/msb418/contractpulse/repository"
)

// resetTokenTTL: emaildeki reset linkinin geçerlilik süresi.
const resetTokenTTL = 20 * time.Minute

// forgotPasswordCooldown: aynı email'e iki reset emaili arasındaki minimum süre.
const forgotPasswordCooldown = 90 * time.Second

// AuthService interface'i — dışarıya açık API.
// Handler bu interface'e bağımlıdır, concrete struct'a değil.
type AuthService interface {
	// Register, yeni hesap açar ve oturum token'ı döner.
	Register(ctx context.Context, req *models.RegisterRequest) (*AuthResult, error)
	// Login, kimlik doğrular ve oturum token'ı döner. Başarısızlık nedeni
	// (hesap yok / şifre yanlış) dışarıya AYNI mesajla yansır.
	Login(ctx context.Context, req *models.LoginRequest) (*AuthResult, error)
	// VerifySessionToken, cookie'den gelen JWT'yi doğrular ve claims döner.
	VerifySessionToken(tokenString string) (*models.SessionClaims, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
	// ForgotPassword, reset emaili gönderir. Hesabın var olup olmadığını
	// dışarıya sızdırmaz — her durumda başarı döner.
	ForgotPassword(ctx context.Context, req *models.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error
}

// AuthResult, login/register sonrası dönen sonuç.
// Token handler tarafından HttpOnly cookie'ye yazılır — response gövdesine
// DEĞİL. Frontend token'ı hiç görmez.
type AuthResult struct {
	Token string
	User  models.User
}

// authService, AuthService interface'inin implementasyonu.
type authService struct {
	userRepo   repository.UserRepository
	resetRepo  repository.PasswordResetRepository
	captcha    captcha.Verifier
	mailer     email.EmailSender
	jwtSecret  []byte
	sessionExp time.Duration

	// resetCooldown: email → son istek zamanı. TTL dolunca kayıt görünmez
	// olur, yani "cache'te var" == "cooldown aktif".
	resetCooldown *cache.TTLCache[string, time.Time]
}

// NewAuthService, constructor.
//
// Session'lar stateless JWT'dir — DB'de session tablosu yoktur, dolayısıyla
// sunucu tarafı revocation da yoktur. Logout sadece cookie'yi temizler.
// expiryDays bu trade-off'un sınırıdır: çalınan bir token en fazla bu kadar yaşar.
func NewAuthService(
	userRepo repository.UserRepository,
	resetRepo repository.PasswordResetRepository,
	captchaVerifier captcha.Verifier,
	mailer email.EmailSender,
	jwtSecret string,
	expiryDays int,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		resetRepo:     resetRepo,
		captcha:       captchaVerifier,
		mailer:        mailer,
		jwtSecret:     []byte(jwtSecret),
		sessionExp:    time.Duration(expiryDays) * 24 * time.Hour,
		resetCooldown: cache.New[string, time.Time](forgotPasswordCooldown, 5*time.Minute),
	}
}

// Register, yeni kullanıcı kaydı oluşturur.
//
// Sıra önemlidir: captcha, bcrypt'ten ÖNCE kontrol edilir — bot trafiği
// pahalı hash hesabına hiç ulaşmaz.
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*AuthResult, error) {
	// 1. Validation (email normalize edilir)
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	// 2. Captcha
	if err := s.captcha.Verify(ctx, req.CaptchaToken); err != nil {
		return nil, err
	}

	// 3. Bcrypt hash (cost=12)
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// 4. User oluştur
	user := &models.User{
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err // ErrAlreadyExists olabilir
	}

	// 5. Session token
	return s.issueSession(user)
}

// Login, kullanıcı girişi yapar.
//
// "Hesap yok" ile "şifre yanlış" aynı hatayla döner — aksi halde login
// formu bir email-enumeration oracle'ına dönüşür.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*AuthResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	if err := s.captcha.Verify(ctx, req.CaptchaToken); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", pkg.ErrUnauthorized)
		}
		return nil, err
	}

	// Bcrypt şifre karşılaştırması
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", pkg.ErrUnauthorized)
	}

	return s.issueSession(user)
}

// VerifySessionToken, JWT session token'ı doğrular ve claims'i döner.
func (s *authService) VerifySessionToken(tokenString string) (*models.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{}, func(token *jwt.Token) (any, error) {
		// alg pinning: sadece HMAC kabul edilir. "none" veya RS256'ya
		// downgrade edilmiş token'lar burada düşer.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("%w: invalid session", pkg.ErrUnauthorized)
	}

	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok || !token.Valid || claims.UID == "" {
		return nil, fmt.Errorf("%w: invalid session", pkg.ErrUnauthorized)
	}

	return claims, nil
}

// GetUser, ID ile kullanıcı döner. Middleware ve /me endpoint'i kullanır.
func (s *authService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// ForgotPassword, şifre sıfırlama akışını başlatır.
//
// Üç koruma katmanı:
//  1. Cooldown — aynı email'e 90 saniyede en fazla bir email
//  2. Hesap yoksa sessizce başarı — enumeration koruması
//  3. DB'ye plaintext token DEĞİL SHA256 hash yazılır
func (s *authService) ForgotPassword(ctx context.Context, req *models.ForgotPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	if _, active := s.resetCooldown.Get(req.Email); active {
		remaining := int(s.resetCooldown.Remaining(req.Email).Seconds()) + 1
		return fmt.Errorf("%w: please wait %d seconds before requesting another reset email", pkg.ErrBadRequest, remaining)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			// Hesap yok ama response aynı. Cooldown yine yazılır —
			// var olmayan email'ler üzerinden timing farkı oluşmasın.
			s.resetCooldown.Set(req.Email, time.Now())
			return nil
		}
		return err
	}

	// Eski token'lar iptal — aynı anda tek geçerli link
	if err := s.resetRepo.DeleteByUserID(ctx, user.ID); err != nil {
		return err
	}

	plaintext, hash, err := generateResetToken()
	if err != nil {
		return err
	}

	resetToken := &models.PasswordResetToken{
		UserID:    user.ID,
		TokenHash: hash,
		ExpiresAt: time.Now().UTC().Add(resetTokenTTL),
	}
	if err := s.resetRepo.Create(ctx, resetToken); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, plaintext); err != nil {
		// Email gidemedi — token'ı bırakma, kullanıcı tekrar deneyebilsin
		if delErr := s.resetRepo.DeleteByUserID(ctx, user.ID); delErr != nil {
			log.Printf("[auth] failed to clean up reset token after email error: %v", delErr)
		}
		return fmt.Errorf("%w: failed to send reset email", pkg.ErrInternal)
	}

	s.resetCooldown.Set(req.Email, time.Now())
	return nil
}

// ResetPassword, emaildeki token ile yeni şifre belirler.
func (s *authService) ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	// Gelen plaintext token hash'lenip DB'deki hash ile karşılaştırılır
	hash := hashResetToken(req.Token)
	token, err := s.resetRepo.GetByTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return fmt.Errorf("%w: invalid or expired reset token", pkg.ErrBadRequest)
		}
		return err
	}

	if time.Now().After(token.ExpiresAt) {
		if delErr := s.resetRepo.DeleteByUserID(ctx, token.UserID); delErr != nil {
			log.Printf("[auth] failed to delete expired reset token: %v", delErr)
		}
		return fmt.Errorf("%w: invalid or expired reset token", pkg.ErrBadRequest)
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), 12)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, token.UserID, string(newHash)); err != nil {
		return err
	}

	// Token tek kullanımlık — başarıdan sonra hepsi silinir
	return s.resetRepo.DeleteByUserID(ctx, token.UserID)
}

// ─── Private Helpers ───

// issueSession, kullanıcı için 7 günlük HS256 JWT üretir.
// Claims minimal tutulur: uid + iat + exp. Email gibi değişebilir veriler
// token'a gömülmez — her request'te DB'den taze okunur.
func (s *authService) issueSession(user *models.User) (*AuthResult, error) {
	now := time.Now()
	claims := &models.SessionClaims{
		UID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionExp)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	user.PasswordHash = ""

	return &AuthResult{Token: signed, User: *user}, nil
}

// generateResetToken, 32 byte'lık random token üretir.
// plaintext emaile gider, hash DB'ye yazılır.
func generateResetToken() (plaintext, hash string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	plaintext = hex.EncodeToString(buf)
	return plaintext, hashResetToken(plaintext), nil
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
