// Package pomodoro раскладывает длительность учебной сессии на блоки
// фокуса и короткие перерывы между ними.
package pomodoro

const (
	DefaultFocusMinutes      = 25
	DefaultShortBreakMinutes = 5
	DefaultLongBreakMinutes  = 15
)

// Config длительности блоков в минутах
type Config struct {
	FocusMinutes      int `json:"focus_minutes"`
	ShortBreakMinutes int `json:"short_break_minutes"`
	LongBreakMinutes  int `json:"long_break_minutes"` // пока только сообщается клиенту
}

// DefaultConfig классические 25/5/15
func DefaultConfig() Config {
	return Config{
		FocusMinutes:      DefaultFocusMinutes,
		ShortBreakMinutes: DefaultShortBreakMinutes,
		LongBreakMinutes:  DefaultLongBreakMinutes,
	}
}

// Plan результат раскладки
type Plan struct {
	Pomodoros        int `json:"pomodoros"`
	UsedMinutes      int `json:"used_minutes"`
	RemainingMinutes int `json:"remaining_minutes"`
}

// Plan считает максимальное число помидоров, помещающихся в totalMinutes.
// Перерыв ставится только между помидорами, после последнего его нет.
// Отрицательные длительность и перерыв считаются нулевыми.
func (c Config) Plan(totalMinutes int) Plan {
	if totalMinutes < 0 {
		totalMinutes = 0
	}
	if c.ShortBreakMinutes < 0 {
		c.ShortBreakMinutes = 0
	}
	if c.FocusMinutes <= 0 {
		return Plan{RemainingMinutes: totalMinutes}
	}

	count, used := 0, 0
	for {
		next := (count+1)*c.FocusMinutes + count*c.ShortBreakMinutes
		if next > totalMinutes {
			break
		}
		count++
		used = next
	}

	return Plan{
		Pomodoros:        count,
		UsedMinutes:      used,
		RemainingMinutes: totalMinutes - used,
	}
}

// PlanDefault раскладка с настройками по умолчанию
func PlanDefault(totalMinutes int) Plan {
	return DefaultConfig().Plan(totalMinutes)
}

type BlockKind string

const (
	BlockFocus      BlockKind = "focus"
	BlockShortBreak BlockKind = "short_break"
)

// Block один отрезок таймера; Offset - минуты от начала сессии
type Block struct {
	Kind    BlockKind `json:"kind"`
	Offset  int       `json:"offset"`
	Minutes int       `json:"minutes"`
}

// Blocks возвращает последовательность фокус/перерыв для totalMinutes
func (c Config) Blocks(totalMinutes int) []Block {
	plan := c.Plan(totalMinutes)
	if plan.Pomodoros == 0 {
		return nil
	}

	blocks := make([]Block, 0, plan.Pomodoros*2-1)
	offset := 0
	for i := 0; i < plan.Pomodoros; i++ {
		if i > 0 && c.ShortBreakMinutes > 0 {
			blocks = append(blocks, Block{Kind: BlockShortBreak, Offset: offset, Minutes: c.ShortBreakMinutes})
			offset += c.ShortBreakMinutes
		}
		blocks = append(blocks, Block{Kind: BlockFocus, Offset: offset, Minutes: c.FocusMinutes})
		offset += c.FocusMinutes
	}
	return blocks
}
