package pkg

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
)

// JSON, veriyi olduğu gibi JSON olarak yazar.
// Response gövdeleri sarmalanmaz — liste endpoint'i Page objesi,
// tekil endpoint'ler {"item": ...} veya {"id": ...} döner.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[response] failed to encode response: %v", err)
	}
}

// Error, domain error'ı HTTP yanıtına çevirir.
//
// Taksonomide olmayan (beklenmeyen) error'lar 500 olarak döner ve
// istemciye sadece jenerik "internal error" mesajı gider — asıl detay
// server log'una yazılır. DB/crypto hata mesajları dışarı sızmamalı.
func Error(w http.ResponseWriter, err error) {
	status := mapErrorToStatus(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("[response] internal error: %v", err)
		message = ErrInternal.Error()
	}

	ErrorWithMessage(w, status, message)
}

// ErrorWithMessage, özel mesajlı hata yanıtı gönderir: {"error": "..."}.
func ErrorWithMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		log.Printf("[response] failed to encode error response: %v", err)
	}
}

// mapErrorToStatus, domain error'ları HTTP status code'larına eşler.
// errors.Is ile error chain kontrol edilir — wrap edilmiş error'lar da eşleşir.
func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
