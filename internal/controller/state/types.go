package state

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Сессия запущена, ждём отчёт "минут помидоров" обычным сообщением
	StateAwaitingReport UserState = "awaiting_report"
)

// UserData состояние диалога и его контекст
type UserData struct {
	State     UserState
	SessionID int64
}
