// Package handlers — ContractHandler: sözleşme CRUD endpoint'leri.
//
// Thin handler prensibi: Parse → Service → Response.
// Owner kimliği HER ZAMAN context'teki user'dan alınır — request'in
// hiçbir parçası (body, query, path) owner'ı belirleyemez.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/msb418/contractpulse/models"
	"github.com/msb418/contractpulse/pkg"
	"github.com/msb418/contractpulse/services"
)

// ContractHandler, sözleşme endpoint'lerini yöneten struct.
type ContractHandler struct {
	contractService services.ContractService
}

// NewContractHandler, constructor.
func NewContractHandler(contractService services.ContractService) *ContractHandler {
	return &ContractHandler{contractService: contractService}
}

// List godoc
// GET /api/contracts?page=1&pageSize=10&search=...&status=...
//
// Geçersiz sayfa parametreleri hata DEĞİLDİR — default'a düşer.
// Liste endpoint'i kullanıcının elindeki en sık kullanılan ekrandır,
// bozuk bir query string onu kilitleyemez.
func (h *ContractHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	query := r.URL.Query()

	// Metin filtresi `q` parametresidir; eski istemciler `search` gönderir,
	// o da kabul edilir ama `q` doluysa öncelik ondadır.
	search := query.Get("q")
	if search == "" {
		search = query.Get("search")
	}

	q := models.ListQuery{
		Page:     parseIntParam(query.Get("page")),
		PageSize: parseIntParam(query.Get("pageSize")),
		Search:   search,
		Status:   query.Get("status"),
	}

	page, err := h.contractService.List(r.Context(), user.ID, q)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, page)
}

// Get godoc
// GET /api/contracts/{id}
func (h *ContractHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	contract, err := h.contractService.Get(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]any{"item": contract})
}

// Create godoc
// POST /api/contracts
// Body: serbest şekilli sözleşme alanları — eksikler default'lanır.
func (h *ContractHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	// map[string]any'ye decode edilir, struct'a değil — gövdenin şekli
	// client sürümüne göre değişir, normalizasyon service/model katmanında.
	raw := map[string]any{}
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	contract, err := h.contractService.Create(r.Context(), user.ID, raw)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, map[string]string{"id": contract.ID})
}

// Update godoc
// PUT /api/contracts/{id}
// Body: değişecek alanlar — tanınmayanlar sessizce yok sayılır.
func (h *ContractHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	raw := map[string]any{}
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	contract, err := h.contractService.Update(r.Context(), user.ID, r.PathValue("id"), raw)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]any{"item": contract})
}

// Delete godoc
// DELETE /api/contracts/{id}
// Idempotent — var olmayan kayıt için de başarı döner.
func (h *ContractHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	if err := h.contractService.Delete(r.Context(), user.ID, r.PathValue("id")); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// parseIntParam, query parametresini int'e çevirir; bozuksa 0 döner ve
// ListQuery.Normalize default'u uygular.
func parseIntParam(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
