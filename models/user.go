// Package models, uygulamanın domain modellerini tanımlar.
//
// Model structu veritabanı kaydının Go karşılığıdır; aynı zamanda API'den
// gelen/giden verilerin şeklini belirler. Request tipleri kendi Validate()
// method'larını taşır — validation kuralları handler'a değil modele aittir.
package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// emailRegex, basit ama yeterli bir email format kontrolü.
// RFC 5322'nin tamamını kovalamak gereksiz — asıl doğrulama unique index
// ve (varsa) reset email akışıdır.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// EmailRegex, email format regex'ini döner.
func EmailRegex() *regexp.Regexp {
	return emailRegex
}

// NormalizeEmail, email'i kanonik forma getirir: trim + lowercase.
// Email tenant kimliğinin giriş anahtarıdır — "A@x.com" ile "a@x.com"
// aynı hesaba düşmelidir.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// User, bir hesabı temsil eder. Tenant isolation'ın birimi User.ID'dir:
// her sözleşme sorgusu bu ID ile filtrelenir.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // API response'a ASLA dahil edilmez
	CreatedAt    time.Time `json:"created_at"`
}

// RegisterRequest, kayıt olurken frontend'den gelen veri.
// PasswordHash yerine Password alırız — hash'leme service katmanında yapılır.
type RegisterRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	CaptchaToken string `json:"captcha_token"`
}

// Validate, RegisterRequest'i kontrol eder ve email'i normalize eder.
// Captcha token'ın varlığı burada DEĞİL, captcha.Verifier'da kontrol edilir —
// boş token network çağrısı yapılmadan orada reddedilir.
func (r *RegisterRequest) Validate() error {
	r.Email = NormalizeEmail(r.Email)
	if r.Email == "" || r.Password == "" {
		return fmt.Errorf("email and password are required")
	}
	if !emailRegex.MatchString(r.Email) {
		return fmt.Errorf("invalid email format")
	}
	if utf8.RuneCountInString(r.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}

// LoginRequest, giriş yaparken frontend'den gelen veri.
type LoginRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	CaptchaToken string `json:"captcha_token"`
}

// Validate, LoginRequest'i kontrol eder.
// Format kontrolü yapılmaz — var olmayan bir email'in "geçersiz format"
// diye ayrışması bile bilgi sızıntısıdır; eksik alan dışında her şey
// service katmanında jenerik "invalid credentials" ile sonuçlanır.
func (r *LoginRequest) Validate() error {
	r.Email = NormalizeEmail(r.Email)
	if r.Email == "" || r.Password == "" {
		return fmt.Errorf("email and password are required")
	}
	return nil
}

// ForgotPasswordRequest, şifre sıfırlama isteği.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// Validate, ForgotPasswordRequest'i kontrol eder.
func (r *ForgotPasswordRequest) Validate() error {
	r.Email = NormalizeEmail(r.Email)
	if r.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailRegex.MatchString(r.Email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ResetPasswordRequest, email'deki token ile şifre sıfırlama.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// Validate, ResetPasswordRequest'i kontrol eder.
func (r *ResetPasswordRequest) Validate() error {
	if strings.TrimSpace(r.Token) == "" {
		return fmt.Errorf("token is required")
	}
	if utf8.RuneCountInString(r.NewPassword) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}
