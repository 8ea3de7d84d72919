// Package session владеет эфемерным состоянием диалога каждого
// пользователя. Состояние живёт только в памяти процесса: после
// перезапуска все пользователи снова в Idle.
package session

import (
	"sync"

	"github.com/zenamons-s/ZenamonsBot-Telegram/internal/model"
)

// State — состояние конечного автомата диалога.
type State int

const (
	StateIdle State = iota
	StateChoosingCategory
	StateEnteringAmount
	StateChoosingDeleteAction
	StateEnteringDeleteID
	StateEnteringTimezone
)

// Session — однописательный автомат одного пользователя. Обработчик
// обязан держать Lock на всё время перехода: события одного пользователя
// строго последовательны, разные пользователи независимы.
type Session struct {
	mu sync.Mutex

	state State

	// Накопленные поля незавершённого потока.
	action   model.Kind
	category string
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

func (s *Session) State() State { return s.state }

// BeginTransaction входит в поток добавления записи выбранного вида.
func (s *Session) BeginTransaction(action model.Kind) {
	s.state = StateChoosingCategory
	s.action = action
	s.category = ""
}

// ChooseCategory фиксирует категорию и ждёт сумму.
func (s *Session) ChooseCategory(category string) {
	s.state = StateEnteringAmount
	s.category = category
}

func (s *Session) BeginDelete()   { s.state = StateChoosingDeleteAction }
func (s *Session) AwaitDeleteID() { s.state = StateEnteringDeleteID }
func (s *Session) BeginTimezone() { s.state = StateEnteringTimezone }

func (s *Session) Action() model.Kind { return s.action }
func (s *Session) Category() string   { return s.category }

// Reset возвращает сессию в Idle и стирает накопленные данные. Вызывается
// при завершении, отмене и любой ошибке.
func (s *Session) Reset() {
	s.state = StateIdle
	s.action = ""
	s.category = ""
}

// Manager выдаёт сессию по внутреннему идентификатору пользователя,
// создавая её при первом обращении.
type Manager struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[int64]*Session)}
}

func (m *Manager) Get(userID int64) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok {
		s = &Session{}
		m.sessions[userID] = s
	}
	return s
}
