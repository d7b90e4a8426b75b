// Uçtan uca API testleri: gerçek router, gerçek service'ler, gerçek
// (dosya tabanlı) SQLite. Sadece dış dünya stub'lanır — hCaptcha için
// sahte bir doğrulama sunucusu, email için log sender.
//
// External test paketi (handlers_test) kullanılır; middleware,
// handlers'a bağımlı olduğu için iç paketten import döngüsü doğardı.
package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msb418/contractpulse/database"
	"github.com/msb418/contractpulse/handlers"
	"github.com/msb418/contractpulse/middleware"
	"github.com/msb418/contractpulse/pkg/captcha"
	"github.com/msb418/contractpulse/pkg/email"
	"github.com/msb418/contractpulse/pkg/ratelimit"
	"github.com/msb418/contractpulse/repository"
	"github.com/msb418/contractpulse/services"
	"github.com/msb418/contractpulse/ws"
)

// newTestAPI, main.go'daki wiring'in test kopyasını kurar ve çalışan bir
// httptest server döner.
func newTestAPI(t *testing.T) *httptest.Server {
	t.Helper()

	// Her captcha token'ını kabul eden sahte hCaptcha endpoint'i
	captchaSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	t.Cleanup(captchaSrv.Close)

	dbPath := filepath.Join(t.TempDir(), "api.db")
	db, err := database.New(dbPath, os.DirFS(filepath.Join("..", "database", "migrations")))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	hub := ws.NewHub()
	go hub.Run()
	t.Cleanup(hub.Shutdown)

	userRepo := repository.NewSQLiteUserRepo(db.Conn)
	contractRepo := repository.NewSQLiteContractRepo(db.Conn)
	resetRepo := repository.NewSQLiteResetTokenRepo(db.Conn)

	authService := services.NewAuthService(
		userRepo,
		resetRepo,
		captcha.NewHCaptchaVerifier("test-secret", captchaSrv.URL),
		email.NewLogSender("http://localhost:3000"),
		"api-test-jwt-secret",
		7,
	)
	contractService := services.NewContractService(contractRepo, hub)

	loginLimiter := ratelimit.NewLoginRateLimiter(5, 2*time.Minute)
	t.Cleanup(loginLimiter.Close)

	authHandler := handlers.NewAuthHandler(authService, loginLimiter, false)
	contractHandler := handlers.NewContractHandler(contractService)
	healthHandler := handlers.NewHealthHandler(db.Conn)
	authMiddleware := middleware.NewAuthMiddleware(authService)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", healthHandler.Check)
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("POST /api/auth/forgot-password", authHandler.ForgotPassword)
	mux.HandleFunc("POST /api/auth/reset-password", authHandler.ResetPassword)
	mux.Handle("GET /api/users/me", authMiddleware.RequireSession(http.HandlerFunc(authHandler.Me)))
	mux.Handle("GET /api/contracts", authMiddleware.RequireSession(http.HandlerFunc(contractHandler.List)))
	mux.Handle("POST /api/contracts", authMiddleware.RequireSession(http.HandlerFunc(contractHandler.Create)))
	mux.Handle("GET /api/contracts/{id}", authMiddleware.RequireSession(http.HandlerFunc(contractHandler.Get)))
	mux.Handle("PUT /api/contracts/{id}", authMiddleware.RequireSession(http.HandlerFunc(contractHandler.Update)))
	mux.Handle("DELETE /api/contracts/{id}", authMiddleware.RequireSession(http.HandlerFunc(contractHandler.Delete)))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// newClient, cookie jar'lı bir client döner — session cookie'si otomatik taşınır.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func register(t *testing.T, client *http.Client, baseURL, emailAddr string) string {
	t.Helper()
	resp, body := doJSON(t, client, http.MethodPost, baseURL+"/api/auth/register", map[string]string{
		"email":         emailAddr,
		"password":      "password123",
		"captcha_token": "test-token",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestAPI_Health(t *testing.T) {
	srv := newTestAPI(t)

	resp, body := doJSON(t, newClient(t), http.MethodGet, srv.URL+"/api/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestAPI_RegisterSetsSessionCookie(t *testing.T) {
	srv := newTestAPI(t)
	client := newClient(t)

	register(t, client, srv.URL, "reg@example.com")

	// Jar'da session cookie olmalı
	found := false
	for _, c := range client.Jar.Cookies(mustParseURL(t, srv.URL)) {
		if c.Name == handlers.SessionCookieName && c.Value != "" {
			found = true
		}
	}
	assert.True(t, found, "register should set the session cookie")

	// Cookie ile /me çalışır
	resp, body := doJSON(t, client, http.MethodGet, srv.URL+"/api/users/me", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "reg@example.com", body["email"])
	// Hash sızmaz
	_, hasHash := body["password_hash"]
	assert.False(t, hasHash)
}

func TestAPI_LoginWrongPassword(t *testing.T) {
	srv := newTestAPI(t)
	client := newClient(t)

	register(t, client, srv.URL, "wp@example.com")

	resp, body := doJSON(t, client, http.MethodPost, srv.URL+"/api/auth/login", map[string]string{
		"email":         "wp@example.com",
		"password":      "not-the-password",
		"captcha_token": "test-token",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, fmt.Sprint(body["error"]), "invalid credentials")
}

func TestAPI_ContractsRequireSession(t *testing.T) {
	srv := newTestAPI(t)

	// Cookie'siz client — tüm contract endpoint'leri 401
	client := &http.Client{}
	resp, _ := doJSON(t, client, http.MethodGet, srv.URL+"/api/contracts", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, client, http.MethodPost, srv.URL+"/api/contracts", map[string]string{"title": "x"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_ContractCRUDRoundTrip(t *testing.T) {
	srv := newTestAPI(t)
	client := newClient(t)

	register(t, client, srv.URL, "crud@example.com")

	// Create — eksik alanlar default'lanır
	resp, body := doJSON(t, client, http.MethodPost, srv.URL+"/api/contracts", map[string]any{
		"title": "Hosting Agreement",
		"value": "1500.50", // string olarak gelse de sayıya çevrilir
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)

	// Get
	resp, body = doJSON(t, client, http.MethodGet, srv.URL+"/api/contracts/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	item := body["item"].(map[string]any)
	assert.Equal(t, "Hosting Agreement", item["title"])
	assert.Equal(t, 1500.50, item["value"])
	assert.Equal(t, "Draft", item["status"])
	assert.Equal(t, "USD", item["currency"])

	// List
	resp, body = doJSON(t, client, http.MethodGet, srv.URL+"/api/contracts?page=1&pageSize=10", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["total"])

	// Update
	resp, body = doJSON(t, client, http.MethodPut, srv.URL+"/api/contracts/"+id, map[string]any{
		"title":  "Hosting Agreement v2",
		"status": "Active",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	item = body["item"].(map[string]any)
	assert.Equal(t, "Hosting Agreement v2", item["title"])
	assert.Equal(t, "Active", item["status"])

	// Delete — idempotent
	resp, _ = doJSON(t, client, http.MethodDelete, srv.URL+"/api/contracts/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, client, http.MethodDelete, srv.URL+"/api/contracts/"+id, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Silinen kayıt 404
	resp, _ = doJSON(t, client, http.MethodGet, srv.URL+"/api/contracts/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_ListTextFilterParam(t *testing.T) {
	srv := newTestAPI(t)
	client := newClient(t)

	register(t, client, srv.URL, "filter@example.com")

	for _, title := range []string{"Office Lease", "Vendor SLA"} {
		resp, _ := doJSON(t, client, http.MethodPost, srv.URL+"/api/contracts",
			map[string]any{"title": title})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	// Metin filtresi `q` parametresiyle çalışır
	resp, body := doJSON(t, client, http.MethodGet, srv.URL+"/api/contracts?q=office", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.EqualValues(t, 1, body["total"])
	items := body["items"].([]any)
	assert.Equal(t, "Office Lease", items[0].(map[string]any)["title"])

	// Eski istemcilerin `search` parametresi de kabul edilir
	resp, body = doJSON(t, client, http.MethodGet, srv.URL+"/api/contracts?search=vendor", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["total"])

	// İkisi birden gelirse `q` kazanır
	resp, body = doJSON(t, client, http.MethodGet,
		srv.URL+"/api/contracts?q=office&search=vendor", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["total"])
	items = body["items"].([]any)
	assert.Equal(t, "Office Lease", items[0].(map[string]any)["title"])

	// Status filtresi boşlukla birlikte gelse de eşleşir
	resp, body = doJSON(t, client, http.MethodGet,
		srv.URL+"/api/contracts?status=Draft%20", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2, body["total"])
}

func TestAPI_TenantIsolationOverHTTP(t *testing.T) {
	srv := newTestAPI(t)

	alice := newClient(t)
	bob := newClient(t)
	register(t, alice, srv.URL, "alice@example.com")
	register(t, bob, srv.URL, "bob@example.com")

	resp, body := doJSON(t, alice, http.MethodPost, srv.URL+"/api/contracts", map[string]any{
		"title": "Alice Only",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := body["id"].(string)

	// Bob aynı ID'ye erişemez — 404, 403 değil (varlık bilgisi sızmaz)
	resp, _ = doJSON(t, bob, http.MethodGet, srv.URL+"/api/contracts/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, bob, http.MethodPut, srv.URL+"/api/contracts/"+id, map[string]any{"title": "hijack"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Bob'un listesi boştur
	resp, body = doJSON(t, bob, http.MethodGet, srv.URL+"/api/contracts", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 0, body["total"])
}

func TestAPI_LogoutClearsSession(t *testing.T) {
	srv := newTestAPI(t)
	client := newClient(t)

	register(t, client, srv.URL, "out@example.com")

	resp, _ := doJSON(t, client, http.MethodPost, srv.URL+"/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Cookie temizlendi — /me artık 401
	resp, _ = doJSON(t, client, http.MethodGet, srv.URL+"/api/users/me", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_LoginRateLimit(t *testing.T) {
	srv := newTestAPI(t)
	client := newClient(t)

	register(t, client, srv.URL, "rl@example.com")

	badLogin := map[string]string{
		"email":         "rl@example.com",
		"password":      "wrong",
		"captcha_token": "test-token",
	}

	// İlk 5 deneme 401, 6. deneme 429
	for i := 0; i < 5; i++ {
		resp, _ := doJSON(t, client, http.MethodPost, srv.URL+"/api/auth/login", badLogin)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, "attempt %d", i+1)
	}

	resp, body := doJSON(t, client, http.MethodPost, srv.URL+"/api/auth/login", badLogin)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
	assert.Contains(t, fmt.Sprint(body["error"]), "too many login attempts")
}

func TestAPI_UnknownFieldsIgnoredOnCreate(t *testing.T) {
	srv := newTestAPI(t)
	client := newClient(t)

	register(t, client, srv.URL, "fields@example.com")

	// ownerId gövdeden gelse bile session'daki kullanıcı kazanır
	resp, body := doJSON(t, client, http.MethodPost, srv.URL+"/api/contracts", map[string]any{
		"title":   "Sneaky",
		"ownerId": "someone-else",
		"_id":     "custom-id",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := body["id"].(string)
	assert.NotEqual(t, "custom-id", id)

	resp, body = doJSON(t, client, http.MethodGet, srv.URL+"/api/contracts/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	item := body["item"].(map[string]any)
	_, hasOwner := item["ownerId"]
	assert.False(t, hasOwner)
}

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}
