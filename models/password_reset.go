package models

import "time"

// PasswordResetToken, şifre sıfırlama token kaydı.
// Token'ın kendisi DB'de YOKTUR — sadece SHA256 hash'i saklanır.
// Plaintext token yalnızca email içindeki linkte yaşar.
type PasswordResetToken struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
