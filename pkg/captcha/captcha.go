// Package captcha, register/login endpoint'lerini koruyan bot doğrulamasını
// (hCaptcha) soyutlar.
//
// Verifier interface'i ile doğrulama detayları soyutlanır — AuthService bu
// interface'e bağımlıdır, hCaptcha implementasyonuna değil. Testlerde stub
// verifier kullanılır; farklı bir sağlayıcıya (Turnstile vb.) geçmek için
// yeni bir implementasyon yazmak yeterli.
//
// Dış servis sınırı kuralları:
// - Tek çağrı, retry yok — transport hatası da olumsuz verdict de isteği
//   düşürür.
// - İstemciye her iki durumda da aynı mesaj gider ("captcha verification
//   failed") — kötü kimlik bilgisi hatasından AYRI bir hata, ama sağlayıcı
//   detayı sızdırmayan bir hata. Asıl sebep server log'una yazılır.
// - Boş client token network çağrısı yapılmadan reddedilir (fail fast).
package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/msb418/contractpulse/pkg"
)

// DefaultVerifyURL, hCaptcha siteverify endpoint'i.
const DefaultVerifyURL = "https://api.hcaptcha.com/siteverify"

// Verifier, bot-check doğrulaması için interface.
type Verifier interface {
	// Verify, client'ın challenge token'ını doğrular.
	// Başarısızlıkta pkg.ErrBadRequest wrap'li error döner.
	Verify(ctx context.Context, clientToken string) error
}

// hcaptchaVerifier, hCaptcha siteverify API'sini çağıran Verifier implementasyonu.
type hcaptchaVerifier struct {
	secret    string
	verifyURL string
	client    *http.Client
}

// NewHCaptchaVerifier, yeni bir hCaptcha verifier oluşturur.
//
// secret: hCaptcha dashboard'dan alınan site secret.
// verifyURL: boşsa DefaultVerifyURL kullanılır (testlerde override edilir).
func NewHCaptchaVerifier(secret, verifyURL string) Verifier {
	if verifyURL == "" {
		verifyURL = DefaultVerifyURL
	}
	return &hcaptchaVerifier{
		secret:    secret,
		verifyURL: verifyURL,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// verifyResponse, siteverify API'sinin JSON yanıtı.
type verifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

func (v *hcaptchaVerifier) Verify(ctx context.Context, clientToken string) error {
	if strings.TrimSpace(clientToken) == "" {
		return fmt.Errorf("%w: captcha token is required", pkg.ErrBadRequest)
	}

	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", clientToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build captcha request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		// Transport hatası — istemciye jenerik mesaj, detay log'a
		log.Printf("[captcha] siteverify request failed: %v", err)
		return fmt.Errorf("%w: captcha verification failed", pkg.ErrBadRequest)
	}
	defer resp.Body.Close()

	var result verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Printf("[captcha] siteverify response decode failed: %v", err)
		return fmt.Errorf("%w: captcha verification failed", pkg.ErrBadRequest)
	}

	if !result.Success {
		log.Printf("[captcha] verification rejected (codes: %v)", result.ErrorCodes)
		return fmt.Errorf("%w: captcha verification failed", pkg.ErrBadRequest)
	}

	return nil
}
