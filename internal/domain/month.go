// internal/domain/month.go
package domain

import (
	"fmt"
	"strings"
	"time"
)

const MonthLayout = "2006-01"

// Month — календарный месяц в формате YYYY-MM
type Month struct {
	start time.Time
}

func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(MonthLayout, strings.TrimSpace(s))
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q, expected YYYY-MM: %w", s, err)
	}
	return Month{start: t}, nil
}

func MonthOf(t time.Time) Month {
	return Month{start: time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)}
}

// Start: первый день месяца, включительно.
func (m Month) Start() time.Time { return m.start }

// End: первый день следующего месяца, не включительно.
func (m Month) End() time.Time { return m.start.AddDate(0, 1, 0) }

func (m Month) Contains(t time.Time) bool {
	return !t.Before(m.Start()) && t.Before(m.End())
}

func (m Month) String() string { return m.start.Format(MonthLayout) }
