package schedule

import "time"

// NextDose devuelve el próximo instante de toma para el schedule, o nil
// si no hay toma calculable ("not scheduled").
//
// Algoritmo:
//  1. Si el schedule no está activo en la fecha calendario de `now`, nil.
//  2. Un candidato por entrada de TimeOfDay, sobre la fecha de `now`.
//  3. Entre los candidatos estrictamente posteriores a `now`, el menor.
//     El borde es exclusivo: un candidato igual a `now` ya pasó.
//  4. Si todas las tomas de hoy ya pasaron, devuelve mañana con
//     TimeOfDay[0]. Siempre índice 0, sin importar Frequency: el rollover
//     no busca el siguiente slot real de un patrón multi-día.
//  5. El rollover no re-chequea EndDate sobre el día siguiente: si el
//     schedule termina hoy, igual se devuelve la toma de mañana y el
//     filtrado por actividad aguas abajo decide ocultarla.
//
// Entradas malformadas no lanzan error: lista vacía o entradas no
// parseables degradan a nil.
func NextDose(s Schedule, now time.Time) *time.Time {
	if !IsActive(s, now) {
		return nil
	}
	if len(s.TimeOfDay) == 0 {
		return nil
	}

	var next *time.Time
	for _, tod := range s.TimeOfDay {
		candidate, err := At(now, tod)
		if err != nil {
			continue
		}
		if !candidate.After(now) {
			continue
		}
		if next == nil || candidate.Before(*next) {
			next = &candidate
		}
	}
	if next != nil {
		return next
	}

	// Rollover: primera toma listada, día siguiente.
	tomorrow, err := At(now.AddDate(0, 0, 1), s.TimeOfDay[0])
	if err != nil {
		return nil
	}
	return &tomorrow
}
