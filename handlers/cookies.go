// Package handlers — session cookie yönetimi.
//
// Oturum token'ı response gövdesinde DEĞİL, HttpOnly cookie'de taşınır:
// JavaScript token'ı okuyamaz, XSS ile çalınamaz. Cookie attribute'ları
// tek yerden salınır — set ve clear aynı Path ile yapılmazsa tarayıcı
// eski cookie'yi silmez ve "çıkış yapamıyorum" bug'ı doğar.
package handlers

import "net/http"

// SessionCookieName, oturum cookie'sinin adı.
const SessionCookieName = "cp.session"

// setSessionCookie, imzalı session token'ını HttpOnly cookie olarak yazar.
//
// Max-Age bilinçli olarak yok — cookie "session cookie"dir, tarayıcı
// kapanınca düşebilir. Asıl süre sınırı token'ın kendi exp claim'idir.
// secure: production'da true — cookie sadece HTTPS üzerinden gider.
func setSessionCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie, session cookie'sini siler.
// Silme = boş değer + negatif MaxAge, set ile AYNI attribute'larla.
func clearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
