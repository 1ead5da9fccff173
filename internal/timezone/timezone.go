package timezone

import "time"

// Converter конвертация между UTC и локальным временем бизнеса.
// Единственная точка перевода часовых поясов в сервисе: всё ядро
// планировщика работает в локальном времени, UTC появляется только
// на границах (события, таймстемпы в БД).
type Converter struct {
	loc *time.Location
}

// New создает конвертер с фиксированным смещением бизнеса от UTC
func New(offsetHours int) *Converter {
	return &Converter{
		loc: time.FixedZone("business", offsetHours*3600),
	}
}

// Location возвращает локацию бизнеса
func (c *Converter) Location() *time.Location {
	return c.loc
}

// ToLocal переводит UTC-момент в локальное время бизнеса
func (c *Converter) ToLocal(t time.Time) time.Time {
	return t.In(c.loc)
}

// ToUTC переводит локальное время бизнеса в UTC
func (c *Converter) ToUTC(t time.Time) time.Time {
	return t.UTC()
}

// NowLocal возвращает текущее время в локальном времени бизнеса
func (c *Converter) NowLocal() time.Time {
	return time.Now().In(c.loc)
}

// Now возвращает текущее время в локальном времени бизнеса.
// Конвертер реализует интерфейсы TimeProvider в use cases
func (c *Converter) Now() time.Time {
	return c.NowLocal()
}
