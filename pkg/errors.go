// Package pkg, projede paylaşılan utility'leri barındırır.
// Bu dosya domain-level error tanımlarını içerir.
//
// Error'lar sabit sentinel değerler olarak tanımlanır — karşılaştırma
// string yerine errors.Is ile yapılır:
//
//	if errors.Is(err, pkg.ErrNotFound) { ... }
//
// Handler katmanı bu error'ları HTTP status code'larına map'ler (response.go).
// Tenant isolation açısından kritik bir kural: başka kullanıcıya ait bir
// sözleşme de ErrNotFound döner — "kayıt var ama senin değil" bilgisi
// API üzerinden asla sızmaz.
package pkg

import "errors"

// Domain-level error'lar.
// Service katmanı bunları wrap'leyerek döner, handler yakalar.
var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrAlreadyExists = errors.New("already exists")
	ErrBadRequest    = errors.New("bad request")
	ErrInternal      = errors.New("internal error")
)
