package utility

import (
	"fmt"
	"strings"
	"time"
)

// visitDateLayouts are tried in order by ParseVisitDate
var visitDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2/1/2006",
}

// FormatDayMonthYear renders t as D/M/YYYY without zero padding
func FormatDayMonthYear(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", t.Day(), int(t.Month()), t.Year())
}

// ParseVisitDate accepts ISO timestamps, plain dates and D/M/YYYY
func ParseVisitDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range visitDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}
