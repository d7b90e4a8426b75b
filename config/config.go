// Package config, uygulamanın tüm konfigürasyonunu merkezi olarak yönetir.
// Environment variable'lardan okur, .env dosyasını da destekler.
//
// Her yerde ayrı ayrı os.Getenv() çağırmak yerine tüm ayarlar tek bir
// Config struct'ında toplanır ve main.go'daki wire-up sırasında dağıtılır.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config, uygulamanın tüm konfigürasyon değerlerini taşır.
// Her alt bölüm ayrı bir struct — her struct tek bir concern'ü temsil eder.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
	Captcha  CaptchaConfig
	Email    EmailConfig
	App      AppConfig
}

// ServerConfig, HTTP server ayarları.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig, SQLite database ayarları.
type DatabaseConfig struct {
	Path string // SQLite dosya yolu (ör: ./data/contractpulse.db)
}

// SessionConfig, session token ve cookie ayarları.
type SessionConfig struct {
	Secret     string // Token imzalama anahtarı — GİZLİ TUTULMALI
	ExpiryDays int    // Token ömrü, gün cinsinden (varsayılan: 7)
}

// CaptchaConfig, hCaptcha bot-check ayarları.
type CaptchaConfig struct {
	Secret    string // hCaptcha site secret — register/login için zorunlu
	VerifyURL string // Boşsa hCaptcha'nın kendi endpoint'i kullanılır
}

// EmailConfig, Resend email ayarları.
// APIKey veya FromEmail boşsa email gönderimi devre dışı kalır —
// forgot-password yine success döner ama email gitmez.
type EmailConfig struct {
	ResendAPIKey string
	FromEmail    string
}

// AppConfig, uygulama geneli ayarlar.
type AppConfig struct {
	Env string // "development" veya "production" — production'da cookie'ler Secure olur
	URL string // Uygulamanın public URL'i (reset linkleri, login redirect)
}

// Load, environment variable'lardan Config oluşturur.
// .env dosyası varsa önce onu yükler (development kolaylığı için);
// production'da dosya olmaz, gerçek env variable'lar kullanılır.
//
// SESSION_SECRET ve HCAPTCHA_SECRET eksikse startup hatası döner —
// bunların yokluğu per-request hata değil, fatal konfigürasyon hatasıdır.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("SERVER_PORT", "9090"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	expiryDays, err := strconv.Atoi(getEnv("SESSION_EXPIRY_DAYS", "7"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_EXPIRY_DAYS: %w", err)
	}

	sessionSecret := getEnv("SESSION_SECRET", "")
	if sessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET environment variable is required")
	}

	captchaSecret := getEnv("HCAPTCHA_SECRET", "")
	if captchaSecret == "" {
		return nil, fmt.Errorf("HCAPTCHA_SECRET environment variable is required")
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", "./data/contractpulse.db"),
		},
		Session: SessionConfig{
			Secret:     sessionSecret,
			ExpiryDays: expiryDays,
		},
		Captcha: CaptchaConfig{
			Secret:    captchaSecret,
			VerifyURL: getEnv("HCAPTCHA_VERIFY_URL", ""),
		},
		Email: EmailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			FromEmail:    getEnv("EMAIL_FROM", ""),
		},
		App: AppConfig{
			Env: getEnv("APP_ENV", "development"),
			URL: getEnv("APP_URL", "http://localhost:3000"),
		},
	}

	return cfg, nil
}

// Addr, HTTP server'ın dinleyeceği adresi döner (ör: "0.0.0.0:9090").
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsProduction, APP_ENV=production olup olmadığını döner.
// Session cookie'nin Secure attribute'u buna bağlıdır.
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// getEnv, environment variable'ı okur, yoksa fallback değeri döner.
func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
