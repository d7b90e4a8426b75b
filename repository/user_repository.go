// Package repository, veritabanı erişim katmanını tanımlar.
//
// Repository Pattern nedir?
// Veritabanı işlemlerini (CRUD) soyutlayan bir tasarım kalıbıdır.
// Service katmanı doğrudan SQL yazmaz — repository interface'i üzerinden çalışır.
//
// Neden interface?
// 1. Test: Mock repository yazarak DB olmadan test edebilirsin
// 2. Esneklik: SQLite'tan PostgreSQL'e geçmek istersen sadece yeni implementasyon yazarsın
// 3. SOLID (Dependency Inversion): Service, concrete struct'a değil interface'e bağımlı
package repository

import (
	"context"

	"github.com/msb418/contractpulse/models"
)

// UserRepository, kullanıcı veritabanı işlemleri için interface.
//
// Email, tek login kimliğidir ve DB'ye her zaman normalize edilmiş
// (trim + lowercase) yazılır — lookup'lar da normalize edilmiş email ile
// yapılmalıdır, aksi halde "Bob@X.com" ve "bob@x.com" iki ayrı hesap olur.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// UpdatePassword, kullanıcının şifre hash'ini günceller.
	// AuthService.ResetPassword tarafından çağrılır — yeni bcrypt hash alır.
	UpdatePassword(ctx context.Context, userID string, newPasswordHash string) error
}
