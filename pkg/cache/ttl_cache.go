// Package cache — generic in-memory TTL cache.
//
// TTLCache, süresi dolunca görünmez olan kayıtları tutan thread-safe,
// generic bir yapıdır. Bu projede tek kullanım yeri AuthService'in
// forgot-password cooldown takibidir: aynı email'e kısa aralıklarla
// tekrar reset emaili gönderilmesini engeller.
//
// Neden in-memory?
// Cooldown verisi kaybolursa sonuç sadece bir fazladan email olur —
// DB'ye yazmaya değmez, Redis bağımlılığına hiç değmez.
package cache

import (
	"sync"
	"time"
)

// entry, cache'teki tek bir kayıttır.
type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache, generic in-memory TTL cache.
//
//	c := cache.New[string, time.Time](90*time.Second, 5*time.Minute)
//	c.Set("user@example.com", time.Now())
//	_, active := c.Get("user@example.com")
//
// sync.RWMutex ile korunur — birden fazla goroutine aynı anda okuyabilir,
// yazma sırasında tüm erişim bloklanır.
type TTLCache[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]entry[V]
	ttl     time.Duration

	// stopCleanup: periyodik temizleme goroutine'ini durdurmak için.
	stopCleanup chan struct{}
}

// New, yeni bir TTLCache oluşturur ve periyodik temizleme goroutine'ini başlatır.
//
// ttl: her entry'nin yaşam süresi.
// cleanupInterval: süresi dolan entry'lerin map'ten fiziksel silinme sıklığı.
// Get zaten stale entry döndürmez; cleanup sadece belleği geri kazanır.
func New[K comparable, V any](ttl, cleanupInterval time.Duration) *TTLCache[K, V] {
	c := &TTLCache[K, V]{
		entries:     make(map[K]entry[V]),
		ttl:         ttl,
		stopCleanup: make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.evictExpired()
			case <-c.stopCleanup:
				return
			}
		}
	}()

	return c
}

// Get, cache'ten bir değer okur.
// (value, true): key var ve süresi dolmamış. (zero, false): aksi halde.
// Süresi dolan entry burada silinmez — RLock yeterli kalsın diye
// fiziksel silme periyodik cleanup'a bırakılır.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set, cache'e bir değer yazar (TTL başlangıcı şimdi).
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Delete, belirli bir key'i cache'ten siler.
func (c *TTLCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// Remaining, key'in TTL'inden kalan süreyi döner.
// Key yoksa veya süresi dolmuşsa 0 döner.
func (c *TTLCache[K, V]) Remaining(key K) time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok {
		return 0
	}
	remaining := time.Until(e.expiresAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Len, cache'teki toplam entry sayısını döner (süresi dolmuşlar dahil).
func (c *TTLCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Close, periyodik temizleme goroutine'ini durdurur.
func (c *TTLCache[K, V]) Close() {
	close(c.stopCleanup)
}

func (c *TTLCache[K, V]) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}
