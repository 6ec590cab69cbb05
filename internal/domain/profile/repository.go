package profile

import "context"

// Repository es un store clave-valor por usuario: un perfil por UserID.
type Repository interface {
	Get(ctx context.Context, userID string) (Profile, error)
	Put(ctx context.Context, p Profile) error
}
