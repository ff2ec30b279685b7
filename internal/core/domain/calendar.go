package domain

import "time"

// DefaultBusinessDayLookback bounds how many calendar days a rate lookup walks
// back from the requested date looking for a published observation.
const DefaultBusinessDayLookback = 7

// BusinessCalendar decides which dates carry a published reference rate.
// Saturdays and Sundays are never business days; holidays add closures.
type BusinessCalendar struct {
	holidays map[string]struct{}
}

// NewBusinessCalendar builds a calendar with the given holiday dates.
func NewBusinessCalendar(holidays ...Date) BusinessCalendar {
	set := make(map[string]struct{}, len(holidays))
	for _, h := range holidays {
		set[h.String()] = struct{}{}
	}
	return BusinessCalendar{holidays: set}
}

// IsBusinessDay reports whether rates are published on d.
func (c BusinessCalendar) IsBusinessDay(d Date) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	_, holiday := c.holidays[d.String()]
	return !holiday
}

// PreviousBusinessDay returns the latest business day strictly before d.
func (c BusinessCalendar) PreviousBusinessDay(d Date) Date {
	prev := d.AddDays(-1)
	for !c.IsBusinessDay(prev) {
		prev = prev.AddDays(-1)
	}
	return prev
}

// EffectiveRateDate returns d when it is a business day, otherwise the
// preceding business day.
func (c BusinessCalendar) EffectiveRateDate(d Date) Date {
	if c.IsBusinessDay(d) {
		return d
	}
	return c.PreviousBusinessDay(d)
}
