package handlers

import (
	"database/sql"
	"net/http"

	"github.com/msb418/contractpulse/pkg"
)

// HealthHandler, liveness/readiness endpoint'i.
type HealthHandler struct {
	db *sql.DB
}

// NewHealthHandler, constructor.
func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check godoc
// GET /api/health
// DB erişilebilir değilse 503 döner — load balancer trafiği keser.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		pkg.ErrorWithMessage(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
