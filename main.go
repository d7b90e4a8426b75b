// Package main, ContractPulse backend uygulamasının giriş noktasıdır.
//
// Bu dosyanın görevi — Dependency Injection "wire-up":
//  1. Config'i yükle
//  2. Database'i başlat (embedded migration'lar ile)
//  3. Repository'leri oluştur (DB bağlantısı ile)
//  4. WebSocket Hub'ı başlat
//  5. Service'leri oluştur (repository'ler + hub + captcha + email ile)
//  6. Handler'ları oluştur (service'ler ile)
//  7. Middleware'ları oluştur
//  8. HTTP router'ı kur, route'ları bağla
//  9. CORS yapılandır
// 10. HTTP Server'ı başlat
// 11. Graceful shutdown
//
// Global değişken YOK — her şey bu fonksiyonda oluşturulup birbirine bağlanıyor.
package main

import (
	"context"
	"io"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/msb418/contractpulse/config"
	"github.com/msb418/contractpulse/database"
	"github.com/msb418/contractpulse/handlers"
	"github.com/msb418/contractpulse/middleware"
	"github.com/msb418/contractpulse/pkg/captcha"
	"github.com/msb418/contractpulse/pkg/email"
	"github.com/msb418/contractpulse/pkg/ratelimit"
	"github.com/msb418/contractpulse/repository"
	"github.com/msb418/contractpulse/services"
	"github.com/msb418/contractpulse/static"
	"github.com/msb418/contractpulse/ws"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("[main] contractpulse server starting...")

	// ─── 1. Config ───
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] failed to load config: %v", err)
	}
	log.Printf("[main] config loaded (port=%d, env=%s)", cfg.Server.Port, cfg.App.Env)

	// ─── 2. Database ───
	migrationsFS, err := fs.Sub(database.EmbeddedMigrations, "migrations")
	if err != nil {
		log.Fatalf("[main] failed to open embedded migrations: %v", err)
	}

	db, err := database.New(cfg.Database.Path, migrationsFS)
	if err != nil {
		log.Fatalf("[main] failed to initialize database: %v", err)
	}
	defer db.Close()

	// ─── 3. Repository Layer ───
	userRepo := repository.NewSQLiteUserRepo(db.Conn)
	contractRepo := repository.NewSQLiteContractRepo(db.Conn)
	resetTokenRepo := repository.NewSQLiteResetTokenRepo(db.Conn)

	// ─── 4. WebSocket Hub ───
	// Hub aynı zamanda EventPublisher interface'ini implement eder —
	// service'ler hub'a doğrudan bağımlı olmak yerine interface üzerinden erişir.
	hub := ws.NewHub()
	go hub.Run()

	// ─── 5. Service Layer ───
	captchaVerifier := captcha.NewHCaptchaVerifier(cfg.Captcha.Secret, cfg.Captcha.VerifyURL)

	var mailer email.EmailSender
	if cfg.Email.ResendAPIKey != "" && cfg.Email.FromEmail != "" {
		mailer = email.NewResendSender(cfg.Email.ResendAPIKey, cfg.Email.FromEmail, cfg.App.URL)
	} else {
		log.Println("[main] RESEND_API_KEY not set, password reset emails will be logged instead")
		mailer = email.NewLogSender(cfg.App.URL)
	}

	authService := services.NewAuthService(
		userRepo,
		resetTokenRepo,
		captchaVerifier,
		mailer,
		cfg.Session.Secret,
		cfg.Session.ExpiryDays,
	)
	contractService := services.NewContractService(contractRepo, hub)

	// Eski reset token'ları periyodik temizle — DB'de çöp birikmesin
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := resetTokenRepo.DeleteExpired(context.Background()); err != nil {
				log.Printf("[main] failed to clean expired reset tokens: %v", err)
			}
		}
	}()

	// ─── 6. Handler Layer ───
	// Login brute-force koruması: IP başına 2 dakikada 5 deneme
	loginLimiter := ratelimit.NewLoginRateLimiter(5, 2*time.Minute)
	defer loginLimiter.Close()

	authHandler := handlers.NewAuthHandler(authService, loginLimiter, cfg.App.IsProduction())
	contractHandler := handlers.NewContractHandler(contractService)
	healthHandler := handlers.NewHealthHandler(db.Conn)
	wsHandler := ws.NewHandler(hub, authService, handlers.SessionCookieName)

	// ─── 7. Middleware ───
	authMiddleware := middleware.NewAuthMiddleware(authService)
	routeGuard := middleware.NewRouteGuard([]string{"/contracts", "/account"}, "/login")

	// ─── 8. HTTP Router ───
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /api/health", healthHandler.Check)

	// Auth — public endpoint'ler (session gerekmez)
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("POST /api/auth/forgot-password", authHandler.ForgotPassword)
	mux.HandleFunc("POST /api/auth/reset-password", authHandler.ResetPassword)

	// Protected endpoint'ler — authMiddleware.RequireSession() sarar.
	// RouteGuard API route'larını SARMAZ: API'nin cevabı redirect değil 401'dir.
	mux.Handle("GET /api/users/me", authMiddleware.RequireSession(http.HandlerFunc(authHandler.Me)))

	// Contracts — tamamı session ister, owner her zaman session'daki kullanıcıdır
	mux.Handle("GET /api/contracts", authMiddleware.RequireSession(
		http.HandlerFunc(contractHandler.List)))
	mux.Handle("POST /api/contracts", authMiddleware.RequireSession(
		http.HandlerFunc(contractHandler.Create)))
	mux.Handle("GET /api/contracts/{id}", authMiddleware.RequireSession(
		http.HandlerFunc(contractHandler.Get)))
	mux.Handle("PUT /api/contracts/{id}", authMiddleware.RequireSession(
		http.HandlerFunc(contractHandler.Update)))
	mux.Handle("DELETE /api/contracts/{id}", authMiddleware.RequireSession(
		http.HandlerFunc(contractHandler.Delete)))

	// WebSocket — session cookie ile authenticate edilir, handler kendi
	// içinde doğrulama yapar (upgrade öncesi normal HTTP request'tir).
	mux.HandleFunc("GET /ws", wsHandler.HandleConnection)

	// Frontend — embedded SPA, route guard ile sarılı.
	// Guard sadece sayfa route'larında çalışır: oturumsuz kullanıcı
	// /contracts'a gelirse login'e redirect edilir (?next= ile geri dönüş).
	mux.Handle("/", routeGuard.Wrap(spaHandler()))

	// ─── 9. CORS ───
	// Same-origin deployment'ta CORS hiç devreye girmez; ayrı domain'de host
	// edilen frontend için APP_URL izinli origin'dir. Cookie bazlı auth
	// AllowCredentials ister.
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{
			cfg.App.URL,
			"http://localhost:3000",
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})

	handler := corsHandler.Handler(mux)

	// ─── 10. HTTP Server ───
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ─── 11. Graceful Shutdown ───
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("[main] server listening on %s", cfg.Server.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[main] server error: %v", err)
		}
	}()

	<-done
	log.Println("[main] shutting down...")

	// Önce WebSocket bağlantılarını kapat, sonra HTTP server'ı —
	// yeni request kabul etmeyi durdurur, mevcutların bitmesini bekler.
	hub.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("[main] forced shutdown: %v", err)
	}

	log.Println("[main] server stopped gracefully")
}

// spaHandler, embedded frontend'i SPA fallback ile servis eder:
// dosya varsa dosya, yoksa index.html döner (client-side routing).
// dist/ boşsa (development) kısa bir bilgi mesajı döner.
func spaHandler() http.Handler {
	distFS, err := fs.Sub(static.FrontendFS, "dist")
	if err != nil {
		log.Fatalf("[main] failed to open embedded frontend: %v", err)
	}

	fileServer := http.FileServer(http.FS(distFS))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path != "/" {
			if f, err := distFS.Open(path[1:]); err == nil {
				f.Close()
				fileServer.ServeHTTP(w, r)
				return
			}
		}

		index, err := distFS.Open("index.html")
		if err != nil {
			// dist/ boş — frontend build edilmemiş
			http.Error(w, "frontend not built", http.StatusNotFound)
			return
		}
		defer index.Close()

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := io.Copy(w, index); err != nil {
			log.Printf("[main] failed to serve index.html: %v", err)
		}
	})
}
