package state

import (
	"sync"
)

// Manager управляет состояниями пользователей
type Manager struct {
	mu     sync.RWMutex
	states map[int64]UserData // telegramID -> UserData
}

// NewManager создаёт новый менеджер состояний
func NewManager() *Manager {
	return &Manager{
		states: make(map[int64]UserData),
	}
}

// Get получает текущее состояние пользователя
func (sm *Manager) Get(telegramID int64) UserData {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.states[telegramID]
}

// Set устанавливает состояние пользователя; StateNone удаляет запись
func (sm *Manager) Set(telegramID int64, data UserData) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if data.State == StateNone {
		delete(sm.states, telegramID)
		return
	}
	sm.states[telegramID] = data
}

// AwaitReport запоминает сессию, по которой ждём отчёт
func (sm *Manager) AwaitReport(telegramID, sessionID int64) {
	sm.Set(telegramID, UserData{State: StateAwaitingReport, SessionID: sessionID})
}

// ClearIf сбрасывает состояние, только если оно относится к sessionID
func (sm *Manager) ClearIf(telegramID, sessionID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if data, ok := sm.states[telegramID]; ok && data.SessionID == sessionID {
		delete(sm.states, telegramID)
	}
}

// Clear очищает состояние пользователя
func (sm *Manager) Clear(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.states, telegramID)
}
