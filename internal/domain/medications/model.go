package medications

import (
	"time"

	"health-assistant-api/internal/domain/schedule"
)

// Medication es un medicamento registrado por el paciente.
// Los campos descriptivos (instructions, prescribed_by, reason, refills,
// pharmacy, notes) son opacos para el motor de scheduling: pasan tal cual.
type Medication struct {
	ID     string
	UserID string

	Name      string
	Dosage    string
	Frequency schedule.Frequency
	TimeOfDay []string // "HH:MM" 24h, una entrada por toma diaria

	StartDate time.Time  // solo fecha
	EndDate   *time.Time // solo fecha; nil = tratamiento abierto

	Instructions string
	PrescribedBy string
	Reason       string
	Refills      int
	Pharmacy     string
	Notes        string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Schedule proyecta los campos de recurrencia hacia el motor.
func (m Medication) Schedule() schedule.Schedule {
	return schedule.Schedule{
		Frequency: m.Frequency,
		TimeOfDay: m.TimeOfDay,
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
	}
}

// Annotated es un medicamento más sus campos derivados. Los derivados se
// recalculan en cada lectura a partir de los campos canónicos y un único
// `now` capturado por pasada; nunca se persisten.
type Annotated struct {
	Medication

	NextDose *time.Time
	Active   bool
	Bucket   schedule.Bucket
	DueSoon  bool
}

// Annotate calcula los campos derivados de un medicamento para `now`.
func Annotate(m Medication, now time.Time) Annotated {
	s := m.Schedule()
	next := schedule.NextDose(s, now)

	return Annotated{
		Medication: m,
		NextDose:   next,
		Active:     schedule.IsActive(s, now),
		Bucket:     schedule.BucketOf(s, now),
		DueSoon:    schedule.DueSoon(next, now),
	}
}
