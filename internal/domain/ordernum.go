package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	orderNumberPrefix = "OT"
	orderNumberDayFmt = "060102"
	maxDailySequence  = 999
)

var (
	ErrSequenceExhausted = errors.New("daily order number sequence exhausted")
	ErrBadOrderNumber    = errors.New("malformed order number")
)

// DayPrefix returns the number prefix shared by all of a day's orders,
// e.g. OT241201.
func DayPrefix(day time.Time) string {
	return orderNumberPrefix + day.Format(orderNumberDayFmt)
}

// FormatOrderNumber renders an order number as OT{YY}{MM}{DD}-{NNN}.
func FormatOrderNumber(day time.Time, seq int) string {
	return fmt.Sprintf("%s%s-%03d", orderNumberPrefix, day.Format(orderNumberDayFmt), seq)
}

// ParseOrderNumber splits an order number into its day prefix and
// sequence component.
func ParseOrderNumber(number string) (day string, seq int, err error) {
	rest, ok := strings.CutPrefix(number, orderNumberPrefix)
	if !ok {
		return "", 0, fmt.Errorf("%w: %q", ErrBadOrderNumber, number)
	}
	day, suffix, ok := strings.Cut(rest, "-")
	if !ok || len(day) != 6 || len(suffix) != 3 {
		return "", 0, fmt.Errorf("%w: %q", ErrBadOrderNumber, number)
	}
	if _, err := time.Parse(orderNumberDayFmt, day); err != nil {
		return "", 0, fmt.Errorf("%w: %q", ErrBadOrderNumber, number)
	}
	seq, err = strconv.Atoi(suffix)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %q", ErrBadOrderNumber, number)
	}
	return day, seq, nil
}

// NumberGenerator issues order numbers with a monotonically increasing
// per-day counter. Unlike a random suffix, two rapid intakes can never
// collide; the counter resets when the calendar day changes.
type NumberGenerator struct {
	mu  sync.Mutex
	day string
	seq int
}

// NewNumberGenerator returns a generator starting at sequence 1.
func NewNumberGenerator() *NumberGenerator {
	return &NumberGenerator{}
}

// Resume advances the counter past an already-issued number, so a
// restarted process continues rather than reissuing today's sequence.
// Numbers from other days are ignored.
func (g *NumberGenerator) Resume(number string, now time.Time) error {
	day, seq, err := ParseOrderNumber(number)
	if err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	today := now.Format(orderNumberDayFmt)
	if day != today {
		return nil
	}
	if g.day != today {
		g.day = today
		g.seq = 0
	}
	if seq > g.seq {
		g.seq = seq
	}
	return nil
}

// Next issues the following order number for now's calendar date.
func (g *NumberGenerator) Next(now time.Time) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	today := now.Format(orderNumberDayFmt)
	if g.day != today {
		g.day = today
		g.seq = 0
	}
	if g.seq >= maxDailySequence {
		return "", fmt.Errorf("%w: day %s", ErrSequenceExhausted, today)
	}
	g.seq++
	return FormatOrderNumber(now, g.seq), nil
}
