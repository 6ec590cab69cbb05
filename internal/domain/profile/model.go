package profile

import "time"

// Profile es el perfil del paciente: un registro por usuario, editado
// completo desde las pantallas de perfil. El motor de scheduling no lo
// usa salvo por PushoverKey, que enruta los recordatorios de tomas.
type Profile struct {
	UserID string

	FullName    string
	DateOfBirth *time.Time // solo fecha
	Gender      string
	Phone       string

	BloodType  string
	Allergies  string
	Conditions string

	EmergencyContact string
	EmergencyPhone   string

	// PushoverKey es la user key de Pushover del paciente. Vacía =
	// recordatorios push deshabilitados para este usuario.
	PushoverKey string

	CreatedAt time.Time
	UpdatedAt time.Time
}
