package medications

import "context"

type Repository interface {
	Create(ctx context.Context, m Medication) error
	GetByID(ctx context.Context, id string) (Medication, error)
	ListByUser(ctx context.Context, userID string) ([]Medication, error)
	Update(ctx context.Context, m Medication) error
	Delete(ctx context.Context, id string) error

	// ListAll se usa en el barrido de recordatorios (todos los usuarios).
	ListAll(ctx context.Context) ([]Medication, error)
}
