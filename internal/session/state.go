// Package session хранит состояние одной клиентской сессии и реестр сессий.
package session

// State хранит последнюю успешно полученную короткую ссылку сессии.
// Ошибки и история сюда не попадают.
type State struct {
	shortURL string
	set      bool
}

// NewState создаёт пустое состояние.
func NewState() *State {
	return &State{}
}

// Set безусловно перезаписывает короткую ссылку.
func (s *State) Set(shortURL string) {
	s.shortURL = shortURL
	s.set = true
}

// Get возвращает короткую ссылку и признак её наличия.
func (s *State) Get() (string, bool) {
	return s.shortURL, s.set
}
