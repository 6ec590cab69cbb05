package badgerstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"health-assistant-api/internal/domain/appointments"
)

var appointmentPrefix = []byte("appointment:")

func appointmentKey(id string) []byte {
	return append(append([]byte{}, appointmentPrefix...), []byte(id)...)
}

type AppointmentsRepo struct {
	store *Store
}

func NewAppointmentsRepo(store *Store) *AppointmentsRepo {
	return &AppointmentsRepo{store: store}
}

func (r *AppointmentsRepo) Create(ctx context.Context, a appointments.Appointment) error {
	if a.ID == "" {
		return fmt.Errorf("appointment id required")
	}
	return r.store.create(appointmentKey(a.ID), a)
}

func (r *AppointmentsRepo) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	var a appointments.Appointment
	if err := r.store.get(appointmentKey(id), &a); err != nil {
		return appointments.Appointment{}, err
	}
	return a, nil
}

func (r *AppointmentsRepo) ListByUser(ctx context.Context, userID string) ([]appointments.Appointment, error) {
	out := make([]appointments.Appointment, 0)

	err := r.store.scan(appointmentPrefix, func(val []byte) error {
		var a appointments.Appointment
		if err := json.Unmarshal(val, &a); err != nil {
			return fmt.Errorf("failed to unmarshal appointment value: %w", err)
		}
		if a.UserID == userID {
			out = append(out, a)
		}
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

func (r *AppointmentsRepo) Update(ctx context.Context, a appointments.Appointment) error {
	if a.ID == "" {
		return fmt.Errorf("appointment id required")
	}
	return r.store.update(appointmentKey(a.ID), a)
}

func (r *AppointmentsRepo) Delete(ctx context.Context, id string) error {
	return r.store.delete(appointmentKey(id))
}
