package state_test

import (
	"law-pilot-server/internal/model"
	"law-pilot-server/internal/state"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== Тесты Store =====

func TestEnsureSessionID_LazyAndStable(t *testing.T) {
	store := state.NewStore()

	// до первого обращения идентификатора нет
	assert.Empty(t, store.SessionID())

	first := store.EnsureSessionID()
	require.NotEmpty(t, first)

	// повторные обращения возвращают тот же идентификатор
	assert.Equal(t, first, store.EnsureSessionID())
	assert.Equal(t, first, store.SessionID())
}

func TestEnsureSessionID_Concurrent(t *testing.T) {
	store := state.NewStore()

	ids := make([]string, 10)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = store.EnsureSessionID()
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestClearIntake(t *testing.T) {
	store := state.NewStore()
	store.EnsureSessionID()
	store.SetUser(&model.User{UUID: "U1"})
	store.SetProfile(&model.Profile{UUID: "U1", FullName: "Maria Torres"})
	store.SetCases([]model.Case{{UUID: "c-1"}})
	store.SetPendingCase(&model.PendingCaseDraft{CaseType: "H-1B Work Visa"})
	store.SetPendingFiles([]model.PendingFileSelection{{ID: "f-1", Name: "passport.pdf"}})

	store.ClearIntake()

	// данные мастера подачи очищены
	assert.Empty(t, store.SessionID())
	assert.Nil(t, store.PendingCase())
	assert.Nil(t, store.PendingFiles())
	// пользователь, его профиль и дела остаются
	require.NotNil(t, store.User())
	assert.Equal(t, "U1", store.User().UUID)
	require.NotNil(t, store.Profile())
	assert.Len(t, store.Cases(), 1)
}

func TestSignOut(t *testing.T) {
	store := state.NewStore()
	store.EnsureSessionID()
	store.SetUser(&model.User{UUID: "U1"})
	store.SetProfile(&model.Profile{UUID: "U1"})
	store.SetCases([]model.Case{{UUID: "c-1"}})
	store.SetPendingFiles([]model.PendingFileSelection{{ID: "f-1"}})

	store.SignOut()

	assert.Nil(t, store.User())
	assert.Nil(t, store.Profile())
	assert.Nil(t, store.Cases())
	assert.Empty(t, store.SessionID())
	assert.Nil(t, store.PendingFiles())
}

func TestSetPendingFiles_LastWriteWins(t *testing.T) {
	store := state.NewStore()

	store.SetPendingFiles([]model.PendingFileSelection{{ID: "f-1", Name: "old.pdf"}})
	store.SetPendingFiles([]model.PendingFileSelection{{ID: "f-2", Name: "new.pdf"}})

	files := store.PendingFiles()
	require.Len(t, files, 1)
	assert.Equal(t, "new.pdf", files[0].Name)
}

// ===== Тесты Manager =====

func TestManager_StoreForSetsCookie(t *testing.T) {
	manager := state.NewManager(time.Hour)

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()

	store := manager.StoreFor(rec, req)
	require.NotNil(t, store)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "lp_session", cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
}

func TestManager_SameCookieSameStore(t *testing.T) {
	manager := state.NewManager(time.Hour)

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	first := manager.StoreFor(rec, req)

	cookie := rec.Result().Cookies()[0]
	second := httptest.NewRequest("GET", "/", nil)
	second.AddCookie(cookie)

	assert.Same(t, first, manager.StoreFor(httptest.NewRecorder(), second))
}

func TestManager_Drop(t *testing.T) {
	manager := state.NewManager(time.Hour)

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	first := manager.StoreFor(rec, req)
	first.SetUser(&model.User{UUID: "U1"})

	cookie := rec.Result().Cookies()[0]
	dropReq := httptest.NewRequest("POST", "/logout", nil)
	dropReq.AddCookie(cookie)
	manager.Drop(dropReq)

	// после удаления по тому же cookie выдаётся свежий Store
	next := httptest.NewRequest("GET", "/", nil)
	next.AddCookie(cookie)
	fresh := manager.StoreFor(httptest.NewRecorder(), next)
	assert.Nil(t, fresh.User())
}

func TestManager_EvictsIdleSessions(t *testing.T) {
	manager := state.NewManager(10 * time.Millisecond)

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	stale := manager.StoreFor(rec, req)
	stale.SetUser(&model.User{UUID: "U1"})
	cookie := rec.Result().Cookies()[0]

	time.Sleep(50 * time.Millisecond)

	// обращение с тем же cookie после простоя получает свежий контейнер
	next := httptest.NewRequest("GET", "/", nil)
	next.AddCookie(cookie)
	fresh := manager.StoreFor(httptest.NewRecorder(), next)

	assert.NotSame(t, stale, fresh)
	assert.Nil(t, fresh.User())
}

func TestManager_ActiveSessionSurvivesSweep(t *testing.T) {
	manager := state.NewManager(time.Hour)

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	first := manager.StoreFor(rec, req)
	cookie := rec.Result().Cookies()[0]

	time.Sleep(20 * time.Millisecond)

	next := httptest.NewRequest("GET", "/", nil)
	next.AddCookie(cookie)
	assert.Same(t, first, manager.StoreFor(httptest.NewRecorder(), next))
}
