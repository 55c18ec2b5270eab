package state

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

const cookieName = "lp_session"

const defaultSessionTTL = 24 * time.Hour

type sessionEntry struct {
	store    *Store
	lastSeen time.Time
}

// Manager выдаёт Store по opaque cookie браузера.
// Один браузер — один Store, повторные запросы получают тот же контейнер.
// Контейнеры, к которым не обращались дольше sessionTTL, вычищаются
// при следующем обращении к Manager: брошенная сессия теряет выбранные
// файлы и черновик, её гостевые загрузки остаются в БД и хранилище.
type Manager struct {
	mu         sync.Mutex
	stores     map[string]*sessionEntry
	sessionTTL time.Duration
}

func NewManager(sessionTTL time.Duration) *Manager {
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}
	return &Manager{
		stores:     make(map[string]*sessionEntry),
		sessionTTL: sessionTTL,
	}
}

// StoreFor возвращает Store для запроса, при необходимости ставит cookie
func (m *Manager) StoreFor(w http.ResponseWriter, r *http.Request) *Store {
	var key string
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		key = cookie.Value
	} else {
		key = uuid.New().String()
		http.SetCookie(w, &http.Cookie{
			Name:     cookieName,
			Value:    key,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	m.evictStale(now)

	entry, ok := m.stores[key]
	if !ok {
		entry = &sessionEntry{store: NewStore()}
		m.stores[key] = entry
	}
	entry.lastSeen = now
	return entry.store
}

// Drop удаляет Store браузерной сессии (после sign-out)
func (m *Manager) Drop(r *http.Request) {
	cookie, err := r.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, cookie.Value)
}

// evictStale вычищает брошенные сессии, вызывается под мьютексом
func (m *Manager) evictStale(now time.Time) {
	for key, entry := range m.stores {
		if now.Sub(entry.lastSeen) > m.sessionTTL {
			delete(m.stores, key)
		}
	}
}
