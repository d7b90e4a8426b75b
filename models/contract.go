package models

import "strings"

// Sözleşme durumları. Geçiş grafiği YOKTUR — update ile herhangi bir değer
// herhangi bir değere dönebilir; bu bilinçli bir sadeleştirmedir, modellenmiş
// bir workflow değil. Tanınmayan status string'leri de tolere edilir (eski
// kayıtlar serbest metin taşıyabiliyor) — sabitler filtre UI'ı ve
// varsayılan değer içindir.
const (
	StatusDraft     = "Draft"
	StatusActive    = "Active"
	StatusPending   = "Pending"
	StatusExpired   = "Expired"
	StatusCancelled = "Cancelled"
)

// StatusFilterAll, liste filtresinde "filtre yok" anlamına gelen sentinel.
// Frontend'in durum dropdown'ındaki ilk seçenektir.
const StatusFilterAll = "All statuses"

// Varsayılanlar — create sırasında eksik bırakılan alanlara uygulanır.
const (
	DefaultCurrency   = "USD"
	DefaultNoticeDays = 30
)

// Contract, bir sözleşme kaydının API'ye dönen kanonik şeklidir.
// Store'daki doküman birden fazla tarihsel şekil taşıyabilir (bkz.
// normalize.go); bu struct her zaman normalize edilmiş halidir.
type Contract struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Status     string   `json:"status"`
	Value      float64  `json:"value"`
	Currency   string   `json:"currency"`
	Notes      string   `json:"notes"`
	Tags       []string `json:"tags"`
	AutoRenew  bool     `json:"autoRenew"`
	NoticeDays int      `json:"noticeDays"`
	StartDate  *string  `json:"startDate"` // RFC3339 veya null
	EndDate    *string  `json:"endDate"`
	Created    *string  `json:"created"`
	Updated    *string  `json:"updated"`
}

// ListQuery, sözleşme listeleme parametreleri.
type ListQuery struct {
	Page     int
	PageSize int
	Search   string // title üzerinde case-insensitive substring
	Status   string // tam eşleşme; boş veya StatusFilterAll → filtre yok
}

// Normalize, query parametrelerini güvenli aralıklara çeker:
// page ≥ 1, pageSize ∈ [1, 50] (varsayılan 10), status trim'lenir —
// "Draft " gibi bir değer boş sonuç yerine Draft kayıtlarını bulur.
func (q *ListQuery) Normalize() {
	q.Status = strings.TrimSpace(q.Status)
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 10
	}
	if q.PageSize > 50 {
		q.PageSize = 50
	}
}

// HasStatusFilter, status filtresinin aktif olup olmadığını döner.
func (q *ListQuery) HasStatusFilter() bool {
	return q.Status != "" && q.Status != StatusFilterAll
}

// ContractPage, sayfalı liste sonucu.
type ContractPage struct {
	Items      []Contract `json:"items"`
	Page       int        `json:"page"`
	PageSize   int        `json:"pageSize"`
	Total      int        `json:"total"`
	TotalPages int        `json:"totalPages"`
}

// TotalPagesFor, toplam sayfa sayısını hesaplar: max(1, ceil(total/pageSize)).
// Boş sonuç kümesi bile 1 sayfa sayılır — frontend pagination'ı 0 sayfa
// ile başa çıkmak zorunda kalmaz.
func TotalPagesFor(total, pageSize int) int {
	if total <= 0 {
		return 1
	}
	pages := (total + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}
