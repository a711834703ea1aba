// Package clock provides the injectable time source used by the extraction
// pipeline so that temporal resolution is deterministic under test.
package clock

import "time"

// Clock supplies the current instant. Implementations must be safe for
// concurrent use.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// System returns a Clock backed by the real wall clock.
func System() Clock {
	return systemClock{}
}

// Fixed returns a Clock that always reports the given instant.
func Fixed(t time.Time) Clock {
	return fixedClock{t}
}

type fixedClock struct {
	t time.Time
}

func (f fixedClock) Now() time.Time {
	return f.t
}

// NextWeekday returns the next occurrence of the given weekday strictly
// after from, at the same time of day.
func NextWeekday(from time.Time, day time.Weekday) time.Time {
	delta := (int(day) - int(from.Weekday()) + 7) % 7
	if delta == 0 {
		delta = 7
	}
	return from.AddDate(0, 0, delta)
}

// SameISOWeek reports whether both instants fall in the same ISO week.
func SameISOWeek(a, b time.Time) bool {
	ay, aw := a.ISOWeek()
	by, bw := b.ISOWeek()
	return ay == by && aw == bw
}
