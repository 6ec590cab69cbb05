package badgerstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"health-assistant-api/internal/domain/medications"
)

var medicationPrefix = []byte("medication:")

func medicationKey(id string) []byte {
	return append(append([]byte{}, medicationPrefix...), []byte(id)...)
}

type MedicationsRepo struct {
	store *Store
}

func NewMedicationsRepo(store *Store) *MedicationsRepo {
	return &MedicationsRepo{store: store}
}

func (r *MedicationsRepo) Create(ctx context.Context, m medications.Medication) error {
	if m.ID == "" {
		return fmt.Errorf("medication id required")
	}
	return r.store.create(medicationKey(m.ID), m)
}

func (r *MedicationsRepo) GetByID(ctx context.Context, id string) (medications.Medication, error) {
	var m medications.Medication
	if err := r.store.get(medicationKey(id), &m); err != nil {
		return medications.Medication{}, err
	}
	return m, nil
}

func (r *MedicationsRepo) ListByUser(ctx context.Context, userID string) ([]medications.Medication, error) {
	all, err := r.scanAll()
	if err != nil {
		return nil, err
	}

	out := make([]medications.Medication, 0, len(all))
	for _, m := range all {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *MedicationsRepo) ListAll(ctx context.Context) ([]medications.Medication, error) {
	return r.scanAll()
}

func (r *MedicationsRepo) Update(ctx context.Context, m medications.Medication) error {
	if m.ID == "" {
		return fmt.Errorf("medication id required")
	}
	return r.store.update(medicationKey(m.ID), m)
}

func (r *MedicationsRepo) Delete(ctx context.Context, id string) error {
	return r.store.delete(medicationKey(id))
}

func (r *MedicationsRepo) scanAll() ([]medications.Medication, error) {
	out := make([]medications.Medication, 0)

	err := r.store.scan(medicationPrefix, func(val []byte) error {
		var m medications.Medication
		if err := json.Unmarshal(val, &m); err != nil {
			return fmt.Errorf("failed to unmarshal medication value: %w", err)
		}
		out = append(out, m)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}
