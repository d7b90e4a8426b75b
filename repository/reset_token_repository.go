package repository

import (
	"context"

	"github.com/msb418/contractpulse/models"
)

// PasswordResetRepository, şifre sıfırlama token'ları için interface.
//
// Token plaintext olarak SAKLANMAZ — service katmanı SHA256 hash'ini üretir,
// burası sadece hash görür. DB sızsa bile token'lar kullanılamaz.
type PasswordResetRepository interface {
	Create(ctx context.Context, token *models.PasswordResetToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.PasswordResetToken, error)
	// DeleteByUserID, kullanıcının tüm token'larını siler.
	// Başarılı reset sonrası ve yeni token üretmeden önce çağrılır —
	// aynı anda tek geçerli token olur.
	DeleteByUserID(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context) error
}
