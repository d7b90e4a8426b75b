// Sözleşme dokümanlarının tolerant okunması.
//
// Store'daki kayıtlar tarih boyunca farklı alan isimleriyle yazılmış olabilir:
// oluşturulma zamanı createdAt / created / created_at altında, tutar value
// veya amount altında, durum status veya state altında, tags dizi ya da
// virgülle birleştirilmiş string olarak bulunabilir.
//
// Bu dosya her mantıksal alan için SIRALI bir aday key listesi tutar —
// ilk bulunan kazanır (first-present-wins). Yeni bir tarihsel alias çıkarsa
// tabloya bir satır eklemek yeterlidir, yeni kod yolu gerekmez.
//
// Normalizasyon idempotenttır: normalize edilmiş bir dokümanı tekrar
// normalize etmek aynı sonucu verir. Bu özellik test ile garanti altındadır.
package models

import (
	"strconv"
	"strings"
	"time"
)

// fieldAliases, mantıksal alan → sıralı aday key listesi.
// İlk eleman her zaman kanonik key'dir; normalize edilmiş dokümanlar
// yalnızca kanonik key'leri taşır, bu yüzden ikinci geçiş no-op olur.
var fieldAliases = map[string][]string{
	"title":      {"title"},
	"status":     {"status", "state"},
	"value":      {"value", "amount"},
	"currency":   {"currency"},
	"notes":      {"notes"},
	"tags":       {"tags"},
	"autoRenew":  {"autoRenew", "auto_renew"},
	"noticeDays": {"noticeDays", "notice_days"},
	"startDate":  {"startDate", "start_date"},
	"endDate":    {"endDate", "end_date"},
	"createdAt":  {"createdAt", "created", "created_at"},
	"updatedAt":  {"updatedAt", "updated", "updated_at"},
}

// firstPresent, doc içinde aday key'lerden ilk mevcut olanın değerini döner.
func firstPresent(doc map[string]any, field string) (any, bool) {
	for _, key := range fieldAliases[field] {
		if v, ok := doc[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// NormalizeContract, store'dan okunan ham dokümanı kanonik Contract'a çevirir.
// Her alan bağımsız coerce edilir; bozuk veya eksik değerler alanın
// varsayılanına düşer, asla error üretmez — okuma yolu tolerant olmalıdır.
func NormalizeContract(id string, doc map[string]any) Contract {
	c := Contract{
		ID:         id,
		Title:      coerceString(get(doc, "title"), ""),
		Status:     coerceString(get(doc, "status"), StatusDraft),
		Value:      coerceNumber(get(doc, "value"), 0),
		Currency:   coerceString(get(doc, "currency"), DefaultCurrency),
		Notes:      coerceString(get(doc, "notes"), ""),
		Tags:       coerceTags(get(doc, "tags")),
		AutoRenew:  coerceBool(get(doc, "autoRenew"), false),
		NoticeDays: coerceInt(get(doc, "noticeDays"), DefaultNoticeDays),
		StartDate:  coerceDatePtr(get(doc, "startDate")),
		EndDate:    coerceDatePtr(get(doc, "endDate")),
		Created:    coerceDatePtr(get(doc, "createdAt")),
		Updated:    coerceDatePtr(get(doc, "updatedAt")),
	}
	return c
}

// get, firstPresent'ın nil-tolerant sarmalayıcısı.
func get(doc map[string]any, field string) any {
	v, _ := firstPresent(doc, field)
	return v
}

// Doc, Contract'ı kanonik doküman şekline geri çevirir.
// NormalizeContract(id, c.Doc()) == c — idempotency bu çiftle tanımlıdır.
func (c *Contract) Doc() map[string]any {
	doc := map[string]any{
		"title":      c.Title,
		"status":     c.Status,
		"value":      c.Value,
		"currency":   c.Currency,
		"notes":      c.Notes,
		"tags":       c.Tags,
		"autoRenew":  c.AutoRenew,
		"noticeDays": c.NoticeDays,
		"startDate":  strPtrToAny(c.StartDate),
		"endDate":    strPtrToAny(c.EndDate),
		"createdAt":  strPtrToAny(c.Created),
		"updatedAt":  strPtrToAny(c.Updated),
	}
	return doc
}

func strPtrToAny(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// NewContractDoc, create isteğindeki ham JSON gövdesinden kanonik doküman
// üretir. Eksik her opsiyonel alan varsayılanını alır; tip uyuşmazlıkları
// sessizce varsayılana düşer (create tolerant'tır, reddetmez).
func NewContractDoc(raw map[string]any, now time.Time) map[string]any {
	nowISO := now.UTC().Format(time.RFC3339)
	return map[string]any{
		"title":      coerceString(raw["title"], ""),
		"status":     coerceString(raw["status"], StatusDraft),
		"value":      coerceNumber(raw["value"], 0),
		"currency":   coerceString(raw["currency"], DefaultCurrency),
		"notes":      coerceString(raw["notes"], ""),
		"tags":       coerceTags(raw["tags"]),
		"autoRenew":  coerceBool(raw["autoRenew"], false),
		"noticeDays": coerceInt(raw["noticeDays"], DefaultNoticeDays),
		"startDate":  datePtrToAny(coerceDatePtr(raw["startDate"])),
		"endDate":    datePtrToAny(coerceDatePtr(raw["endDate"])),
		"createdAt":  nowISO,
		"updatedAt":  nowISO,
	}
}

func datePtrToAny(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// ─── Coercion fonksiyonları ───
//
// Her hedef tip için TEK coercion fonksiyonu vardır; alias tablosu hangi
// key'den okunacağını, coercion nasıl okunacağını belirler. JSON decode
// sonrası sayılar her zaman float64 gelir, o yüzden numeric case'ler
// float64 üzerinden yürür.

func coerceString(v any, def string) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return def
	}
}

func coerceNumber(v any, def float64) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		if n = strings.TrimSpace(n); n != "" {
			if f, err := strconv.ParseFloat(n, 64); err == nil {
				return f
			}
		}
		return def
	default:
		return def
	}
}

func coerceInt(v any, def int) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	case string:
		if n = strings.TrimSpace(n); n != "" {
			if i, err := strconv.Atoi(n); err == nil {
				return i
			}
			if f, err := strconv.ParseFloat(n, 64); err == nil {
				return int(f)
			}
		}
		return def
	default:
		return def
	}
}

func coerceBool(v any, def bool) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true":
			return true
		case "false":
			return false
		}
		return def
	default:
		return def
	}
}

// coerceTags, tags alanını string dizisine çevirir.
// Dizi → string olmayan elemanlar atılır.
// String → virgülle bölünür, trim'lenir, boşlar atılır ("a, b," → ["a","b"]).
// Diğer her şey → boş dizi (nil değil — JSON'da [] olarak serialize olsun).
func coerceTags(v any) []string {
	switch t := v.(type) {
	case []string:
		out := make([]string, 0, len(t))
		out = append(out, t...)
		return out
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		out := []string{}
		for _, part := range strings.Split(t, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	default:
		return []string{}
	}
}

// dateLayouts, kabul edilen tarih formatları. RFC3339 kanoniktir;
// düz tarih ("2024-01-15") form girişlerinden gelir.
var dateLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02",
	"2006-01-02 15:04:05",
}

// coerceDatePtr, tarih alanını RFC3339 string pointer'ına çevirir.
// Parse edilemeyen veya eksik değer nil döner (null olarak serialize olur).
func coerceDatePtr(v any) *string {
	switch d := v.(type) {
	case string:
		if d = strings.TrimSpace(d); d == "" {
			return nil
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, d); err == nil {
				iso := t.UTC().Format(time.RFC3339)
				return &iso
			}
		}
		return nil
	case time.Time:
		iso := d.UTC().Format(time.RFC3339)
		return &iso
	default:
		return nil
	}
}

// ParseDate, dışarıdan gelen tarih değerini time.Time'a çevirir.
// Update patch'inin Clear/Set ayrımı için kullanılır.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
