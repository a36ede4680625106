package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is an offset from local midnight.
type TimeOfDay time.Duration

func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	hours, minutes, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok {
		return 0, fmt.Errorf("%w: time of day %q must be HH:MM", ErrInvalidWindow, raw)
	}

	h, err := strconv.Atoi(hours)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: hour in %q", ErrInvalidWindow, raw)
	}
	m, err := strconv.Atoi(minutes)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: minute in %q", ErrInvalidWindow, raw)
	}

	return TimeOfDay(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute), nil
}

func (t TimeOfDay) String() string {
	d := time.Duration(t)
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}

func (t TimeOfDay) clock() (int, int) {
	d := time.Duration(t)
	return int(d.Hours()), int(d.Minutes()) % 60
}

func timeOfDayOf(t time.Time) TimeOfDay {
	h, m, s := t.Clock()
	return TimeOfDay(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second + time.Duration(t.Nanosecond()))
}

// ActivityWindow is the daily interval [Start, End) in Location during which
// workers may act. Start > End describes a window spanning midnight; Start ==
// End means always open.
type ActivityWindow struct {
	Start    TimeOfDay
	End      TimeOfDay
	Location *time.Location
}

func DefaultActivityWindow(loc *time.Location) ActivityWindow {
	return ActivityWindow{
		Start:    TimeOfDay(6 * time.Hour),
		End:      TimeOfDay(23 * time.Hour),
		Location: loc,
	}
}

func (w ActivityWindow) Validate() error {
	if w.Location == nil {
		return fmt.Errorf("%w: location is required", ErrInvalidWindow)
	}
	day := TimeOfDay(24 * time.Hour)
	if w.Start < 0 || w.Start >= day || w.End < 0 || w.End >= day {
		return fmt.Errorf("%w: bounds must fall within a day", ErrInvalidWindow)
	}
	return nil
}

func (w ActivityWindow) location() *time.Location {
	if w.Location == nil {
		return time.UTC
	}
	return w.Location
}

// IsAllowed reports whether now, converted to the window's location, falls
// inside [Start, End).
func (w ActivityWindow) IsAllowed(now time.Time) bool {
	tod := timeOfDayOf(now.In(w.location()))

	switch {
	case w.Start == w.End:
		return true
	case w.Start < w.End:
		return tod >= w.Start && tod < w.End
	default:
		return tod >= w.Start || tod < w.End
	}
}

// NextOpen returns now when the window is open, otherwise the next instant at
// which it opens.
func (w ActivityWindow) NextOpen(now time.Time) time.Time {
	if w.IsAllowed(now) {
		return now
	}

	local := now.In(w.location())
	h, m := w.Start.clock()
	year, month, day := local.Date()
	open := time.Date(year, month, day, h, m, 0, 0, w.location())
	if !open.After(local) {
		open = time.Date(year, month, day+1, h, m, 0, 0, w.location())
	}
	return open
}

// UntilOpen is the duration from now until the window next opens; zero when
// it is already open.
func (w ActivityWindow) UntilOpen(now time.Time) time.Duration {
	return w.NextOpen(now).Sub(now)
}

func (w ActivityWindow) String() string {
	return fmt.Sprintf("%s-%s %s", w.Start, w.End, w.location())
}

// NextClose returns the instant the currently open window closes. It returns
// the zero time when the window is closed or always open.
func (w ActivityWindow) NextClose(now time.Time) time.Time {
	if w.Start == w.End || !w.IsAllowed(now) {
		return time.Time{}
	}

	local := now.In(w.location())
	h, m := w.End.clock()
	year, month, day := local.Date()
	closing := time.Date(year, month, day, h, m, 0, 0, w.location())
	if !closing.After(local) {
		closing = time.Date(year, month, day+1, h, m, 0, 0, w.location())
	}
	return closing
}
