package schedule

import "time"

// DueSoonWindow es la ventana fija de "due soon" para resaltar tomas
// próximas en la UI.
const DueSoonWindow = 60 * time.Minute

// DueSoon indica si la próxima toma cae dentro de la ventana de alerta:
// next no nil, estrictamente posterior a `now` y a lo sumo a
// DueSoonWindow de distancia (borde inclusivo).
func DueSoon(next *time.Time, now time.Time) bool {
	return dueSoonWithin(next, now, DueSoonWindow)
}

func dueSoonWithin(next *time.Time, now time.Time, window time.Duration) bool {
	if next == nil {
		return false
	}
	if !next.After(now) {
		return false
	}
	return !next.After(now.Add(window))
}
