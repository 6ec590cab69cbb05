package schedule

import (
	"fmt"
	"time"
)

// Schedule es la definición de recurrencia de un medicamento:
// horarios del día, fecha de inicio y fecha de fin opcional.
// Todas las operaciones sobre Schedule son puras: reciben `now`
// como parámetro explícito y nunca leen el reloj del sistema.
type Schedule struct {
	Frequency Frequency
	TimeOfDay []string // "HH:MM" 24h; el orden importa solo para el rollover (índice 0)

	StartDate time.Time  // solo fecha; zero value = sin fecha de inicio
	EndDate   *time.Time // solo fecha; nil = tratamiento abierto ("ongoing")
}

// ValidationResult es el resultado de Validate.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// Validate chequea la forma del schedule. No tiene efectos secundarios.
// Es la única barrera de entrada: el resto del motor asume best-effort
// y degrada a nil/false en vez de fallar si estas garantías no se cumplen.
func Validate(s Schedule) ValidationResult {
	var errs []string

	if len(s.TimeOfDay) == 0 {
		errs = append(errs, "time_of_day must contain at least one time")
	}
	for _, tod := range s.TimeOfDay {
		if _, _, err := ParseClock(tod); err != nil {
			errs = append(errs, fmt.Sprintf("time_of_day entry %q must be HH:MM 24h", tod))
		}
	}

	if s.StartDate.IsZero() {
		errs = append(errs, "start_date is required")
	}

	if s.EndDate != nil && !s.StartDate.IsZero() {
		if compareDate(*s.EndDate, s.StartDate) < 0 {
			errs = append(errs, "end_date must not be earlier than start_date")
		}
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}
