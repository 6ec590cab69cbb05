package appointments

import (
	"time"

	"health-assistant-api/internal/domain/schedule"
)

// Status del turno médico.
// @Enum scheduled, completed, cancelled
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func knownStatus(s Status) bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Appointment es un turno médico del paciente. A diferencia de un
// medicamento es de ocurrencia única: no hay recurrencia ni cálculo de
// próxima toma, solo orden cronológico y bucketing por fecha.
type Appointment struct {
	ID     string
	UserID string

	DoctorName string
	Specialty  string

	Date time.Time // solo fecha
	Time string    // "HH:MM" 24h

	Location string
	Notes    string
	Status   Status

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StartsAt combina fecha y hora del turno en un instante. Con hora no
// parseable cae a medianoche de la fecha (best effort, no falla).
func (a Appointment) StartsAt() time.Time {
	t, err := schedule.At(a.Date, a.Time)
	if err != nil {
		return a.Date
	}
	return t
}

// Upcoming: el turno es presente o futuro respecto de `now`.
func (a Appointment) Upcoming(now time.Time) bool {
	return !a.StartsAt().Before(now)
}
