package attendance

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/tutorias/asistencias/core"
)

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func (r DateRange) StartDate() string { return r.Start.Format(core.DateLayout) }
func (r DateRange) EndDate() string   { return r.End.Format(core.DateLayout) }

// MonthRange converts "MM-YYYY" (month may be a single digit) into the first and last day of that month.
// Calendar arithmetic only: the result never depends on the server's timezone.
func MonthRange(monthYear string) (DateRange, error) {
	parts := strings.Split(strings.TrimSpace(monthYear), "-")
	if len(parts) != 2 {
		return DateRange{}, errors.Errorf("invalid month-year %q: expected MM-YYYY", monthYear)
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil || !isDigits(parts[0]) || month < 1 || month > 12 {
		return DateRange{}, errors.Errorf("invalid month %q", parts[0])
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil || !isDigits(parts[1]) || len(parts[1]) != 4 {
		return DateRange{}, errors.Errorf("invalid year %q", parts[1])
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	// day 0 of the next month is the last day of this one
	end := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
	return DateRange{Start: start, End: end}, nil
}

// isDigits reports whether s is made of ASCII digits only; strconv.Atoi also accepts a sign.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
