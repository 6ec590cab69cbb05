package medications

import (
	"sort"
	"strings"

	"health-assistant-api/internal/domain/schedule"
)

// StatusFilter selecciona el bucket a mostrar en las vistas de lista.
// @Enum current, past, future, all
type StatusFilter string

const (
	StatusAll     StatusFilter = "all"
	StatusCurrent StatusFilter = "current"
	StatusPast    StatusFilter = "past"
	StatusFuture  StatusFilter = "future"
)

// ParseStatusFilter normaliza el query param. Vacío = all.
func ParseStatusFilter(s string) (StatusFilter, bool) {
	switch StatusFilter(strings.ToLower(strings.TrimSpace(s))) {
	case "", StatusAll:
		return StatusAll, true
	case StatusCurrent:
		return StatusCurrent, true
	case StatusPast:
		return StatusPast, true
	case StatusFuture:
		return StatusFuture, true
	}
	return "", false
}

type Filter struct {
	Status StatusFilter
	Query  string
}

// Apply produce la sublista ordenada para mostrar: primero filtra por
// bucket, después búsqueda por texto, después ordena. Puro sobre la
// colección ya anotada.
func Apply(items []Annotated, f Filter) []Annotated {
	status := f.Status
	if status == "" {
		status = StatusAll
	}

	out := make([]Annotated, 0, len(items))
	for _, a := range items {
		if status != StatusAll && a.Bucket != schedule.Bucket(status) {
			continue
		}
		if !matchesQuery(a.Medication, f.Query) {
			continue
		}
		out = append(out, a)
	}

	sortForDisplay(out)
	return out
}

// UpcomingDoses devuelve los n medicamentos activos con NextDose más
// cercano, ascendente. Los que no tienen NextDose calculable quedan fuera
// del resumen (siguen visibles en las listas completas).
func UpcomingDoses(items []Annotated, n int) []Annotated {
	out := make([]Annotated, 0, len(items))
	for _, a := range items {
		if !a.Active || a.NextDose == nil {
			continue
		}
		out = append(out, a)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].NextDose.Before(*out[j].NextDose)
	})

	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// matchesQuery: substring case-insensitive sobre nombre, prescriptor,
// motivo y farmacia (OR entre campos). Query vacío matchea todo.
func matchesQuery(m Medication, q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}

	for _, field := range []string{m.Name, m.PrescribedBy, m.Reason, m.Pharmacy} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// sortForDisplay: próxima toma ascendente, sin NextDose al final,
// nombre como desempate estable.
func sortForDisplay(items []Annotated) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]

		switch {
		case a.NextDose != nil && b.NextDose != nil:
			if !a.NextDose.Equal(*b.NextDose) {
				return a.NextDose.Before(*b.NextDose)
			}
		case a.NextDose != nil:
			return true
		case b.NextDose != nil:
			return false
		}

		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
}
