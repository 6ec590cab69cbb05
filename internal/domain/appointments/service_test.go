package appointments

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]Appointment
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Appointment{}}
}

func (r *testRepo) Create(ctx context.Context, a Appointment) error {
	if a.ID == "" {
		return errors.New("repo: id required")
	}
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Appointment, error) {
	a, ok := r.byID[id]
	if !ok {
		return Appointment{}, errRepoNotFound
	}
	return a, nil
}

func (r *testRepo) ListByUser(ctx context.Context, userID string) ([]Appointment, error) {
	out := make([]Appointment, 0)
	for _, a := range r.byID {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, a Appointment) error {
	if _, ok := r.byID[a.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return errRepoNotFound
	}
	delete(r.byID, id)
	return nil
}

func day(d int) time.Time {
	return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC)
}

func dayPtr(d int) *time.Time {
	t := day(d)
	return &t
}

func seed(t *testing.T, svc *Service, userID, doctor, clock string, d int) Appointment {
	t.Helper()

	a, err := svc.Create(context.Background(), userID, CreateInput{
		DoctorName: doctor,
		Specialty:  "cardiology",
		Date:       dayPtr(d),
		Time:       clock,
	})
	if err != nil {
		t.Fatalf("Create %s error: %v", doctor, err)
	}
	return a
}

func TestService_Create_DefaultsToScheduled(t *testing.T) {
	svc := NewService(newTestRepo())
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	a := seed(t, svc, "user-1", "Dr. Ruiz", "14:30", 15)
	if a.Status != StatusScheduled {
		t.Fatalf("expected default status scheduled, got %s", a.Status)
	}
	if want := time.Date(2025, 3, 15, 14, 30, 0, 0, time.UTC); !a.StartsAt().Equal(want) {
		t.Fatalf("expected starts_at %v, got %v", want, a.StartsAt())
	}
	if a.CreatedAt != now || a.UpdatedAt != now {
		t.Fatalf("expected CreatedAt/UpdatedAt = now")
	}
}

func TestService_Create_Validation(t *testing.T) {
	svc := NewService(newTestRepo())

	cases := []struct {
		name string
		in   CreateInput
	}{
		{"missing doctor", CreateInput{Date: dayPtr(15), Time: "10:00"}},
		{"missing date", CreateInput{DoctorName: "Dr. Ruiz", Time: "10:00"}},
		{"bad time", CreateInput{DoctorName: "Dr. Ruiz", Date: dayPtr(15), Time: "25:00"}},
		{"unknown status", CreateInput{DoctorName: "Dr. Ruiz", Date: dayPtr(15), Time: "10:00", Status: "pending"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), "user-1", tc.in); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestService_List_SortsByDateTimeAscending(t *testing.T) {
	svc := NewService(newTestRepo())
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }

	seed(t, svc, "user-1", "Third", "09:00", 20)
	seed(t, svc, "user-1", "First", "08:00", 10)
	seed(t, svc, "user-1", "Second", "15:00", 10)

	items, err := svc.List(context.Background(), "user-1", Filter{})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}

	want := []string{"First", "Second", "Third"}
	if len(items) != 3 {
		t.Fatalf("expected 3 appointments, got %d", len(items))
	}
	for i, doctor := range want {
		if items[i].DoctorName != doctor {
			t.Fatalf("expected order %v, got %s at %d", want, items[i].DoctorName, i)
		}
	}
}

func TestService_List_UpcomingIncludesPresent(t *testing.T) {
	svc := NewService(newTestRepo())

	// now exactamente en el instante del turno: sigue siendo upcoming.
	svc.now = func() time.Time { return time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC) }

	seed(t, svc, "user-1", "Past", "09:00", 5)
	seed(t, svc, "user-1", "Now", "14:30", 10)
	seed(t, svc, "user-1", "Future", "10:00", 20)

	upcoming, err := svc.List(context.Background(), "user-1", Filter{When: WhenUpcoming})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(upcoming) != 2 || upcoming[0].DoctorName != "Now" || upcoming[1].DoctorName != "Future" {
		t.Fatalf("unexpected upcoming set: %+v", doctors(upcoming))
	}

	past, err := svc.List(context.Background(), "user-1", Filter{When: WhenPast})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(past) != 1 || past[0].DoctorName != "Past" {
		t.Fatalf("unexpected past set: %+v", doctors(past))
	}
}

func TestService_List_Search(t *testing.T) {
	svc := NewService(newTestRepo())
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }

	seed(t, svc, "user-1", "Dra. García", "09:00", 10)
	b := seed(t, svc, "user-1", "Dr. Pérez", "10:00", 11)

	// Búsqueda por especialidad vía Update (cambia specialty).
	_, err := svc.Update(context.Background(), b.ID, "user-1", CreateInput{
		DoctorName: "Dr. Pérez",
		Specialty:  "Dermatología",
		Date:       dayPtr(11),
		Time:       "10:00",
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}

	items, err := svc.List(context.Background(), "user-1", Filter{Query: "dermat"})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(items) != 1 || items[0].DoctorName != "Dr. Pérez" {
		t.Fatalf("unexpected search result: %v", doctors(items))
	}
}

func TestService_Ownership(t *testing.T) {
	svc := NewService(newTestRepo())
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }

	a := seed(t, svc, "user-1", "Dr. Ruiz", "10:00", 10)

	if _, err := svc.Get(context.Background(), a.ID, "user-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign Get, got %v", err)
	}
	if err := svc.Delete(context.Background(), a.ID, "user-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign Delete, got %v", err)
	}
}

func doctors(items []Appointment) []string {
	out := make([]string, 0, len(items))
	for _, a := range items {
		out = append(out, a.DoctorName)
	}
	return out
}
