package schedule

import "time"

// IsActive indica si el schedule cubre la fecha calendario de `now`.
// Compara solo fechas: la hora de `now` se descarta.
// Activo ⇔ StartDate <= hoy y (EndDate ausente o EndDate >= hoy).
// Ambos bordes son inclusivos. Sin StartDate nunca está activo.
func IsActive(s Schedule, now time.Time) bool {
	if s.StartDate.IsZero() {
		return false
	}
	if compareDate(s.StartDate, now) > 0 {
		return false
	}
	if s.EndDate != nil && compareDate(*s.EndDate, now) < 0 {
		return false
	}
	return true
}

// BucketOf clasifica el schedule en current/past/future para la fecha de
// `now`. Para schedules con StartDate determinable la partición es
// estricta: exactamente uno de los tres. Sin StartDate devuelve
// BucketUnknown y la validación upstream es quien reporta el problema.
func BucketOf(s Schedule, now time.Time) Bucket {
	if s.StartDate.IsZero() {
		return BucketUnknown
	}
	if IsActive(s, now) {
		return BucketCurrent
	}
	if compareDate(s.StartDate, now) > 0 {
		return BucketFuture
	}
	// Inactivo con StartDate <= hoy ⇒ EndDate presente y anterior a hoy.
	// Cubre también el caso inconsistente EndDate < StartDate.
	return BucketPast
}
