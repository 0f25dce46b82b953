package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManager_AwaitAndClear(t *testing.T) {
	m := NewManager()
	assert.Equal(t, StateNone, m.Get(1).State)

	m.AwaitReport(1, 10)
	assert.Equal(t, UserData{State: StateAwaitingReport, SessionID: 10}, m.Get(1))

	// другая сессия не сбрасывает ожидание
	m.ClearIf(1, 11)
	assert.Equal(t, StateAwaitingReport, m.Get(1).State)

	m.ClearIf(1, 10)
	assert.Equal(t, StateNone, m.Get(1).State)
}

func TestManager_SetNoneDeletes(t *testing.T) {
	m := NewManager()
	m.AwaitReport(1, 10)
	m.Set(1, UserData{})
	assert.Empty(t, m.states)

	m.AwaitReport(2, 20)
	m.Clear(2)
	assert.Empty(t, m.states)
}

func TestManager_Concurrent(t *testing.T) {
	m := NewManager()

	var wg sync.WaitGroup
	for i := int64(0); i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			m.AwaitReport(id, id*10)
			_ = m.Get(id)
		}(i)
	}
	wg.Wait()

	for i := int64(0); i < 50; i++ {
		assert.Equal(t, i*10, m.Get(i).SessionID)
	}
}
