package repository

import (
	"context"

	"github.com/msb418/contractpulse/models"
)

// ContractRepository, sözleşme veritabanı işlemleri için interface.
//
// Tenant isolation kuralı: ownerID her method'un parametresidir ve her SQL
// predicate'ine girer. "Kayıt var ama başkasının" durumu bu katmandan hiçbir
// zaman ayırt edilebilir şekilde çıkmaz — her iki durum da ErrNotFound'dur.
type ContractRepository interface {
	// List, sahibin sözleşmelerini filtreleyip sayfalayarak döner.
	// Sonuç her zaman geçerli bir sayfa yapısıdır; eşleşme yoksa Items boştur.
	List(ctx context.Context, ownerID string, q models.ListQuery) (*models.ContractPage, error)
	Get(ctx context.Context, ownerID, id string) (*models.Contract, error)
	// Create, kanonik dokümanı yeni bir UUID ile kaydeder ve kaydedilen
	// sözleşmeyi döner.
	Create(ctx context.Context, ownerID string, doc map[string]any) (*models.Contract, error)
	// Update, dokümanı okuyup patch'i uygulayıp geri yazar (read-modify-write,
	// tek transaction). Sonuç normalize edilmiş güncel sözleşmedir.
	Update(ctx context.Context, ownerID, id string, patch models.ContractPatch) (*models.Contract, error)
	// Delete idempotent'tir: kayıt yoksa da başarı döner.
	Delete(ctx context.Context, ownerID, id string) error
}
