package clock

import "time"

// Clock отдаёт текущее время. Планировщик и прогресс заказов не зовут time.Now напрямую.
type Clock interface {
	Now() time.Time
}

type System struct{}

func (System) Now() time.Time {
	return time.Now().UTC()
}

// Fixed всегда возвращает одно и то же время, используется в тестах и в CLI (--now).
type Fixed time.Time

func (f Fixed) Now() time.Time {
	return time.Time(f).UTC()
}

type Func func() time.Time

func (f Func) Now() time.Time {
	return f().UTC()
}
