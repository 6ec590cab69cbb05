package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout es el formato de fechas calendario ("YYYY-MM-DD").
const DateLayout = "2006-01-02"

var errBadClock = errors.New("invalid HH:MM time")

// ParseClock parsea "HH:MM" 24h y devuelve hora y minuto.
func ParseClock(s string) (hour, minute int, err error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, 0, errBadClock
	}

	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, errBadClock
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, errBadClock
	}

	return hour, minute, nil
}

// ParseDate parsea una fecha calendario "YYYY-MM-DD".
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid YYYY-MM-DD date: %w", err)
	}
	return t, nil
}

// At combina la fecha calendario de `day` con un "HH:MM", en la
// location de `day`. Segundos y nanos en cero.
func At(day time.Time, clock string) (time.Time, error) {
	h, m, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	y, mo, d := day.Date()
	return time.Date(y, mo, d, h, m, 0, 0, day.Location()), nil
}

// compareDate compara solo los componentes de fecha calendario (ignora
// hora y location). Devuelve <0, 0, >0 como strings.Compare.
// Las fechas de un schedule pueden venir parseadas en UTC mientras `now`
// está en hora local; comparar instantes directamente rompería los bordes.
func compareDate(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()

	if ay != by {
		return ay - by
	}
	if am != bm {
		return int(am) - int(bm)
	}
	return ad - bd
}
