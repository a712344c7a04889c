package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidClock = errors.New("invalid clock time")
	ErrEmptyShift   = errors.New("shift end must be after shift start")
	ErrNoWorkingDay = errors.New("no working days")
)

// Calendar описывает смену станка: начало и конец смены (смещение от полуночи UTC)
// и рабочие дни недели. Смены через полночь не поддерживаются.
type Calendar struct {
	ShiftStart  time.Duration
	ShiftEnd    time.Duration
	WorkingDays [7]bool
}

var defaultWorkingDays = [7]bool{
	time.Monday:    true,
	time.Tuesday:   true,
	time.Wednesday: true,
	time.Thursday:  true,
	time.Friday:    true,
	time.Saturday:  true,
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// New собирает календарь из строкового представления станка: "08:00", "16:00", "Mon,Tue,...".
func New(shiftStart, shiftEnd, workingDays string) (Calendar, error) {
	const op = "calendar.New"

	start, err := ParseClock(shiftStart)
	if err != nil {
		return Calendar{}, fmt.Errorf("%s: shift start: %w", op, err)
	}
	end, err := ParseClock(shiftEnd)
	if err != nil {
		return Calendar{}, fmt.Errorf("%s: shift end: %w", op, err)
	}
	if end <= start {
		return Calendar{}, fmt.Errorf("%s: %s-%s: %w", op, shiftStart, shiftEnd, ErrEmptyShift)
	}

	days, err := ParseWorkingDays(workingDays)
	if err != nil {
		return Calendar{}, fmt.Errorf("%s: %w", op, err)
	}

	return Calendar{ShiftStart: start, ShiftEnd: end, WorkingDays: days}, nil
}

// ParseClock разбирает "HH:MM" в смещение от начала суток.
func ParseClock(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("%q: %w", s, ErrInvalidClock)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 24 {
		return 0, fmt.Errorf("%q: %w", s, ErrInvalidClock)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("%q: %w", s, ErrInvalidClock)
	}

	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, nil
}

// ParseWorkingDays принимает список дней через запятую ("Mon,Tue" или "Monday,Tuesday").
// Пустая строка или число означают стандартную неделю Пн-Сб.
func ParseWorkingDays(s string) ([7]bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultWorkingDays, nil
	}
	if _, err := strconv.Atoi(s); err == nil {
		return defaultWorkingDays, nil
	}

	var days [7]bool
	found := false
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		wd, ok := weekdayNames[part]
		if !ok {
			return [7]bool{}, fmt.Errorf("unknown weekday %q", part)
		}
		days[wd] = true
		found = true
	}
	if !found {
		return [7]bool{}, ErrNoWorkingDay
	}

	return days, nil
}

func (c Calendar) IsWorkingDay(t time.Time) bool {
	return c.WorkingDays[t.UTC().Weekday()]
}

// NextWorkingInstant возвращает первый момент внутри смены, не раньше candidate.
func (c Calendar) NextWorkingInstant(candidate time.Time) time.Time {
	t := candidate.UTC()

	// две недели с запасом: если рабочих дней нет, возвращаем как есть
	for i := 0; i < 14; i++ {
		day := midnight(t)
		if !c.WorkingDays[t.Weekday()] {
			t = day.AddDate(0, 0, 1).Add(c.ShiftStart)
			continue
		}

		start := day.Add(c.ShiftStart)
		end := day.Add(c.ShiftEnd)
		switch {
		case t.Before(start):
			return start
		case !t.Before(end):
			t = day.AddDate(0, 0, 1).Add(c.ShiftStart)
			continue
		default:
			return t
		}
	}

	return t
}

// ShiftHoursAvailable сколько рабочего времени осталось до конца смены в тот же день.
func (c Calendar) ShiftHoursAvailable(candidate time.Time) time.Duration {
	t := candidate.UTC()
	left := midnight(t).Add(c.ShiftEnd).Sub(t)
	if left < 0 {
		return 0
	}
	return left
}

func (c Calendar) ShiftLength() time.Duration {
	return c.ShiftEnd - c.ShiftStart
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
