// Sözleşme güncelleme patch'i.
//
// PUT gövdesi whitelist ile işlenir: yalnızca tanınan alanlar yazılır,
// tanınmayan key'ler sessizce yok sayılır (client drift'e tolerans —
// asla error değil). Her alan bağımsız coerce edilir ve yalnızca coercion
// başarılıysa uygulanır.
//
// Tarih alanları üç durumlu olmak zorundadır:
//   - key hiç yok          → Unset  (dokunma)
//   - key var, boş/null    → Clear  (tarihi sil)
//   - key var, parse oldu  → Set    (yeni değer)
//   - key var, parse OLMADI → Unset  (bozuk girdi mevcut tarihi ezmez)
//
// *string/pointer tek başına bu dörtlüyü ifade edemez, o yüzden DateField
// ayrı bir tip olarak tanımlıdır.
package models

import (
	"strconv"
	"strings"
	"time"
)

// DateField, bir tarih alanının patch durumu: Unset / Clear / Set.
type DateField struct {
	Present bool   // key gövdede var mıydı (ve anlamlı mıydı)
	Clear   bool   // true → tarihi null'a çek
	Value   string // Clear=false iken RFC3339 değer
}

// ContractPatch, whitelist'ten geçmiş, coerce edilmiş güncelleme alanları.
// nil pointer = alan gövdede yoktu veya coerce edilemedi (dokunma).
type ContractPatch struct {
	Title      *string
	Status     *string
	Currency   *string
	Notes      *string
	Value      *float64
	NoticeDays *int
	AutoRenew  *bool
	Tags       *[]string
	StartDate  DateField
	EndDate    DateField
}

// ParseContractPatch, ham JSON gövdesinden patch üretir.
//
// String alanlar yalnızca gerçekten string geldiyse kabul edilir
// (create'teki gibi sayıdan string'e coerce edilmez — update daha katıdır,
// mevcut veriyi yanlışlıkla ezmemek için). Title trim'lenir.
func ParseContractPatch(raw map[string]any) ContractPatch {
	var p ContractPatch

	if s, ok := raw["title"].(string); ok {
		trimmed := strings.TrimSpace(s)
		p.Title = &trimmed
	}
	if s, ok := raw["status"].(string); ok {
		p.Status = &s
	}
	if s, ok := raw["currency"].(string); ok {
		p.Currency = &s
	}
	if s, ok := raw["notes"].(string); ok {
		p.Notes = &s
	}

	if v, ok := patchNumber(raw["value"]); ok {
		p.Value = &v
	}
	if v, ok := patchNumber(raw["noticeDays"]); ok {
		n := int(v)
		p.NoticeDays = &n
	}
	if b, ok := patchBool(raw["autoRenew"]); ok {
		p.AutoRenew = &b
	}

	// Tags: dizi veya virgüllü string kabul edilir; diğer tipler yok sayılır.
	switch raw["tags"].(type) {
	case []any, string:
		tags := coerceTags(raw["tags"])
		p.Tags = &tags
	}

	p.StartDate = patchDate(raw, "startDate")
	p.EndDate = patchDate(raw, "endDate")

	return p
}

// Apply, patch'i kanonik dokümana uygular ve updatedAt'i damgalar.
// Damga, sıfır alan değişse bile basılır — "update çağrıldı" bilgisi
// kayıtta görünür olmalıdır.
func (p *ContractPatch) Apply(doc map[string]any, now time.Time) {
	if p.Title != nil {
		doc["title"] = *p.Title
	}
	if p.Status != nil {
		doc["status"] = *p.Status
	}
	if p.Currency != nil {
		doc["currency"] = *p.Currency
	}
	if p.Notes != nil {
		doc["notes"] = *p.Notes
	}
	if p.Value != nil {
		doc["value"] = *p.Value
	}
	if p.NoticeDays != nil {
		doc["noticeDays"] = *p.NoticeDays
	}
	if p.AutoRenew != nil {
		doc["autoRenew"] = *p.AutoRenew
	}
	if p.Tags != nil {
		doc["tags"] = *p.Tags
	}

	applyDate(doc, "startDate", p.StartDate)
	applyDate(doc, "endDate", p.EndDate)

	doc["updatedAt"] = now.UTC().Format(time.RFC3339)
}

func applyDate(doc map[string]any, key string, f DateField) {
	if !f.Present {
		return
	}
	if f.Clear {
		doc[key] = nil
		return
	}
	doc[key] = f.Value
}

// patchNumber, update için sayı coercion'ı: number veya parse edilebilir
// string kabul eder, diğer her şey (bool dahil) yok sayılır.
func patchNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		if n = strings.TrimSpace(n); n != "" {
			if f, ok := parseFloat(n); ok {
				return f, true
			}
		}
	}
	return 0, false
}

func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// patchBool, update için bool coercion'ı: bool veya "true"/"false" string.
func patchBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

// patchDate, raw gövdedeki bir tarih key'ini DateField'a çevirir.
func patchDate(raw map[string]any, key string) DateField {
	v, exists := raw[key]
	if !exists {
		return DateField{}
	}

	// Açık boş değer → Clear
	if v == nil {
		return DateField{Present: true, Clear: true}
	}
	s, ok := v.(string)
	if !ok {
		// Tarih alanında string dışı tip → yok say
		return DateField{}
	}
	if strings.TrimSpace(s) == "" {
		return DateField{Present: true, Clear: true}
	}

	t, ok := ParseDate(s)
	if !ok {
		// Parse edilemeyen tarih mevcut değeri ezmez — omission ile korunur
		return DateField{}
	}
	return DateField{Present: true, Value: t.UTC().Format(time.RFC3339)}
}
