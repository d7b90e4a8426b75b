// Package repository — ContractRepository'nin SQLite implementasyonu.
//
// Sözleşmeler JSON doküman olarak saklanır (doc kolonu): alan kümesi
// zamanla evrilmiş, birden fazla client sürümü farklı şekillerde veri
// yazmış durumda. Rijit kolonlar yerine doküman + okuma anında
// normalizasyon bu gerçeği kabul eder. Filtreleme json_extract ile
// index'li kolonlara (owner_id, created_at) yaslanarak yapılır.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/msb418/contractpulse/database"
	"github.com/msb418/contractpulse/models"
	"github.com/msb418/contractpulse/pkg"
)

// sqliteContractRepo, ContractRepository'nin SQLite implementasyonu.
// WithTx için *sql.DB tutar — read-modify-write update transaction ister.
type sqliteContractRepo struct {
	db *sql.DB
}

// NewSQLiteContractRepo, constructor.
func NewSQLiteContractRepo(db *sql.DB) ContractRepository {
	return &sqliteContractRepo{db: db}
}

func (r *sqliteContractRepo) List(ctx context.Context, ownerID string, q models.ListQuery) (*models.ContractPage, error) {
	q.Normalize()

	// WHERE parçaları dinamik kurulur ama her zaman owner_id ile başlar —
	// tenant isolation sorgu düzeyinde garanti edilir.
	where := []string{"owner_id = ?"}
	args := []any{ownerID}

	if search := strings.TrimSpace(q.Search); search != "" {
		where = append(where, `lower(json_extract(doc, '$.title')) LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(strings.ToLower(search))+"%")
	}
	if q.HasStatusFilter() {
		where = append(where, `json_extract(doc, '$.status') = ?`)
		args = append(args, q.Status)
	}

	whereClause := strings.Join(where, " AND ")

	// Önce toplam sayı — totalPages hesabı filtrelenmiş küme üzerinden yapılır.
	var total int
	countQuery := `SELECT COUNT(*) FROM contracts WHERE ` + whereClause
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count contracts: %w", err)
	}

	// created_at DESC tek başına deterministik değil (aynı saniyede iki insert
	// olabilir) — id DESC tiebreaker sıralamayı stabil yapar.
	listQuery := `
		SELECT id, doc FROM contracts
		WHERE ` + whereClause + `
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`
	listArgs := append(args, q.PageSize, (q.Page-1)*q.PageSize)

	rows, err := r.db.QueryContext(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	defer rows.Close() // Önemli: rows'u kapatmayı ASLA unutma — aksi halde bağlantı sızar (leak)

	items := []models.Contract{}
	for rows.Next() {
		var id, rawDoc string
		if err := rows.Scan(&id, &rawDoc); err != nil {
			return nil, fmt.Errorf("failed to scan contract row: %w", err)
		}
		items = append(items, decodeContract(id, rawDoc))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contract rows: %w", err)
	}

	return &models.ContractPage{
		Items:      items,
		Page:       q.Page,
		PageSize:   q.PageSize,
		Total:      total,
		TotalPages: models.TotalPagesFor(total, q.PageSize),
	}, nil
}

func (r *sqliteContractRepo) Get(ctx context.Context, ownerID, id string) (*models.Contract, error) {
	// Bozuk ID hiçbir kayda denk gelemez — DB'ye gitmeden not found.
	if !isValidID(id) {
		return nil, pkg.ErrNotFound
	}

	var rawDoc string
	err := r.db.QueryRowContext(ctx,
		`SELECT doc FROM contracts WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	).Scan(&rawDoc)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}

	c := decodeContract(id, rawDoc)
	return &c, nil
}

func (r *sqliteContractRepo) Create(ctx context.Context, ownerID string, doc map[string]any) (*models.Contract, error) {
	id := uuid.NewString()

	rawDoc, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode contract doc: %w", err)
	}

	// created_at/updated_at dokümandaki RFC3339 UTC damgalarının kopyasıdır —
	// sıralama ve index bu kolonlar üzerinden çalışır, doc ayrıştırılmaz.
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO contracts (id, owner_id, doc, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		id, ownerID, string(rawDoc), docTimestamp(doc, "createdAt"), docTimestamp(doc, "updatedAt"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create contract: %w", err)
	}

	c := models.NormalizeContract(id, doc)
	return &c, nil
}

func (r *sqliteContractRepo) Update(ctx context.Context, ownerID, id string, patch models.ContractPatch) (*models.Contract, error) {
	if !isValidID(id) {
		return nil, pkg.ErrNotFound
	}

	var updated models.Contract
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var rawDoc string
		err := tx.QueryRowContext(ctx,
			`SELECT doc FROM contracts WHERE id = ? AND owner_id = ?`,
			id, ownerID,
		).Scan(&rawDoc)

		if errors.Is(err, sql.ErrNoRows) {
			return pkg.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to read contract for update: %w", err)
		}

		doc := map[string]any{}
		if err := json.Unmarshal([]byte(rawDoc), &doc); err != nil {
			// Bozuk doc geri kazanılamaz — patch boş dokümana uygulanır,
			// update en azından tutarlı bir kayıt bırakır.
			doc = map[string]any{}
		}

		patch.Apply(doc, time.Now())

		newDoc, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to encode updated contract doc: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE contracts SET doc = ?, updated_at = ? WHERE id = ? AND owner_id = ?`,
			string(newDoc), docTimestamp(doc, "updatedAt"), id, ownerID,
		)
		if err != nil {
			return fmt.Errorf("failed to update contract: %w", err)
		}

		updated = models.NormalizeContract(id, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

func (r *sqliteContractRepo) Delete(ctx context.Context, ownerID, id string) error {
	// Idempotent: kayıt yoksa (veya ID bozuksa) da sonuç aynı — "yok".
	if !isValidID(id) {
		return nil
	}

	_, err := r.db.ExecContext(ctx,
		`DELETE FROM contracts WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete contract: %w", err)
	}

	return nil
}

// decodeContract, ham JSON dokümanı normalize edilmiş Contract'a çevirir.
// Parse edilemeyen doc bile sonucu bozmaz — boş doküman gibi davranılır,
// liste endpoint'i tek bozuk kayıt yüzünden 500 dönmez.
func decodeContract(id, rawDoc string) models.Contract {
	doc := map[string]any{}
	if err := json.Unmarshal([]byte(rawDoc), &doc); err != nil {
		doc = map[string]any{}
	}
	return models.NormalizeContract(id, doc)
}

// docTimestamp, dokümandan damga string'ini okur; yoksa şimdiki zaman.
func docTimestamp(doc map[string]any, key string) string {
	if s, ok := doc[key].(string); ok && s != "" {
		return s
	}
	return time.Now().UTC().Format(time.RFC3339)
}

// isValidID, path'ten gelen ID'nin UUID olup olmadığını kontrol eder.
func isValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// escapeLike, LIKE pattern'ine girecek kullanıcı girdisindeki joker
// karakterleri etkisizleştirir. Aranan "%50" metinse herkesin kaydıyla
// eşleşmemeli.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
