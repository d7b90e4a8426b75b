package ws

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/msb418/contractpulse/models"
)

// SessionValidator, WebSocket handler'ın oturum doğrulaması için kullandığı
// interface.
//
// Neden services.AuthService yerine kendi interface'imiz?
// Circular dependency'yi önlemek için: services paketi ws.EventPublisher'ı
// kullanıyor (broadcast için); ws, services'i import etseydi döngü oluşurdu.
// Interface Segregation: handler'ın tek ihtiyacı token doğrulamak.
type SessionValidator interface {
	VerifySessionToken(tokenString string) (*models.SessionClaims, error)
}

// upgrader, HTTP bağlantısını WebSocket bağlantısına yükseltir.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CheckOrigin: cookie bazlı auth kullanıldığı için cross-site WS
	// istekleri origin kontrolünden geçmeli. Same-origin deployment'ta
	// Origin header'ı Host ile eşleşir.
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || origin == "http://"+r.Host || origin == "https://"+r.Host
	},
}

// Handler, WebSocket bağlantı isteklerini işleyen HTTP handler'ı.
type Handler struct {
	hub        *Hub
	validator  SessionValidator
	cookieName string
}

// NewHandler, yeni bir WebSocket handler oluşturur.
// cookieName: session cookie'sinin adı — auth HTTP API ile aynı cookie
// üzerinden yapılır, query parameter'da token taşınmaz.
func NewHandler(hub *Hub, validator SessionValidator, cookieName string) *Handler {
	return &Handler{
		hub:        hub,
		validator:  validator,
		cookieName: cookieName,
	}
}

// HandleConnection, HTTP bağlantısını WebSocket'e yükseltir ve client'ı
// Hub'a kaydeder.
//
// Flow:
// 1. Session cookie'den token al (WS upgrade isteği cookie taşır —
//    bağlantı same-origin'den açılır)
// 2. Token'ı doğrula
// 3. HTTP → WebSocket upgrade
// 4. Client oluştur, Hub'a kaydet
// 5. ReadPump ve WritePump'ı başlat
func (h *Handler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(h.cookieName)
	if err != nil || cookie.Value == "" {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}

	claims, err := h.validator.VerifySessionToken(cookie.Value)
	if err != nil {
		http.Error(w, "invalid session", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed for user %s: %v", claims.UID, err)
		return
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		userID: claims.UID,
		send:   make(chan []byte, sendBufferSize),
	}

	h.hub.register <- client

	// WritePump ayrı goroutine'de; ReadPump bu goroutine'de bloklar —
	// handler dönerse bağlantı yaşamı biter.
	go client.WritePump()
	client.ReadPump()
}
