package state

import (
	"sync"

	"law-pilot-server/internal/model"

	"github.com/google/uuid"
)

// Store : состояние одной клиентской сессии браузера.
// Хранит анонимный session_id, черновик заявки, выбранные файлы,
// авторизованного пользователя и список его дел.
// Контейнер передаётся явно (не синглтон), чтобы в тестах можно было
// подменять свежий экземпляр. Каждый setter — last-write-wins.
type Store struct {
	mu sync.Mutex

	sessionID    string
	user         *model.User
	profile      *model.Profile
	cases        []model.Case
	pendingCase  *model.PendingCaseDraft
	pendingFiles []model.PendingFileSelection
}

func NewStore() *Store {
	return &Store{}
}

// EnsureSessionID возвращает session_id, лениво создавая его при первом обращении.
// Идентификатор живёт до явного SignOut или ассоциации.
func (s *Store) EnsureSessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessionID == "" {
		s.sessionID = uuid.New().String()
	}
	return s.sessionID
}

func (s *Store) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

func (s *Store) SetUser(user *model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

func (s *Store) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *Store) SetProfile(profile *model.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = profile
}

func (s *Store) Profile() *model.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

func (s *Store) SetCases(cases []model.Case) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cases = cases
}

func (s *Store) Cases() []model.Case {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cases
}

func (s *Store) SetPendingCase(draft *model.PendingCaseDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingCase = draft
}

func (s *Store) PendingCase() *model.PendingCaseDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingCase
}

func (s *Store) SetPendingFiles(files []model.PendingFileSelection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingFiles = files
}

func (s *Store) PendingFiles() []model.PendingFileSelection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingFiles
}

// ClearIntake очищает данные мастера подачи после успешной
// ассоциации или finalize. Пользователь и его дела остаются.
func (s *Store) ClearIntake() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionID = ""
	s.pendingCase = nil
	s.pendingFiles = nil
}

// SignOut сбрасывает пользователя и все данные, привязанные к сессии
func (s *Store) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.profile = nil
	s.cases = nil
	s.sessionID = ""
	s.pendingCase = nil
	s.pendingFiles = nil
}
