package advisor

import (
	"context"
	"errors"
)

var (
	ErrTimeout         = errors.New("advisor timeout")
	ErrUnavailable     = errors.New("advisor unavailable")
	ErrInvalidResponse = errors.New("advisor invalid response")
)

// Advisor внешний советник, по текстовому запросу возвращающий черновой план в виде текста
type Advisor interface {
	Advise(ctx context.Context, prompt string) (string, error)
}

// Disabled советник-заглушка, когда ключ не настроен: генерация всегда уходит в запасной план
type Disabled struct{}

func (Disabled) Advise(context.Context, string) (string, error) {
	return "", ErrUnavailable
}
