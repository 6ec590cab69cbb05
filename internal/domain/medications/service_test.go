package medications

import (
	"context"
	"errors"
	"testing"
	"time"

	"health-assistant-api/internal/domain/schedule"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]Medication
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Medication{}}
}

func (r *testRepo) Create(ctx context.Context, m Medication) error {
	if m.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[m.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Medication, error) {
	m, ok := r.byID[id]
	if !ok {
		return Medication{}, errRepoNotFound
	}
	return m, nil
}

func (r *testRepo) ListByUser(ctx context.Context, userID string) ([]Medication, error) {
	out := make([]Medication, 0)
	for _, m := range r.byID {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, m Medication) error {
	if _, ok := r.byID[m.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return errRepoNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) ListAll(ctx context.Context) ([]Medication, error) {
	out := make([]Medication, 0, len(r.byID))
	for _, m := range r.byID {
		out = append(out, m)
	}
	return out, nil
}

// -------------------------
// Helpers
// -------------------------

func fixedNow() time.Time {
	// Lunes 10 de marzo 2025, 09:00
	return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
}

func dayPtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func validInput() CreateInput {
	return CreateInput{
		Name:      "Lisinopril",
		Dosage:    "10mg",
		Frequency: "twice-daily",
		TimeOfDay: []string{"08:00", "20:00"},
		StartDate: dayPtr(2025, 3, 10),
	}
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_AnnotatesDerivedFields(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	svc.now = fixedNow

	a, err := svc.Create(context.Background(), "user-1", validInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if a.ID == "" {
		t.Fatalf("expected generated id")
	}
	if !a.Active || a.Bucket != schedule.BucketCurrent {
		t.Fatalf("expected active/current, got active=%v bucket=%q", a.Active, a.Bucket)
	}
	if a.NextDose == nil {
		t.Fatalf("expected next dose")
	}
	// now = 09:00 => la toma de las 08 pasó, sigue la de las 20.
	if want := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC); !a.NextDose.Equal(want) {
		t.Fatalf("expected next dose %v, got %v", want, *a.NextDose)
	}

	// El repo guarda solo campos canónicos: los derivados no viven ahí.
	stored, err := repo.GetByID(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("stored medication missing: %v", err)
	}
	if stored.CreatedAt != fixedNow() || stored.UpdatedAt != fixedNow() {
		t.Fatalf("expected CreatedAt/UpdatedAt to be now")
	}
}

func TestService_Create_RejectsBadSchedules(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	svc.now = fixedNow

	cases := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"empty name", func(in *CreateInput) { in.Name = " " }},
		{"empty dosage", func(in *CreateInput) { in.Dosage = "" }},
		{"unknown frequency", func(in *CreateInput) { in.Frequency = "hourly" }},
		{"empty time_of_day", func(in *CreateInput) { in.TimeOfDay = nil }},
		{"bad time entry", func(in *CreateInput) { in.TimeOfDay = []string{"8pm"} }},
		{"missing start date", func(in *CreateInput) { in.StartDate = nil }},
		{"end before start", func(in *CreateInput) { in.EndDate = dayPtr(2025, 3, 1) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)

			_, err := svc.Create(context.Background(), "user-1", in)
			if err == nil {
				t.Fatalf("expected validation error")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if len(verr.Errors) == 0 {
				t.Fatalf("expected error messages")
			}
			if len(repo.byID) != 0 {
				t.Fatalf("nothing should be persisted on validation failure")
			}
		})
	}
}

func TestService_Update_FullReplace(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now1 := fixedNow()
	now2 := now1.Add(10 * time.Minute)

	svc.now = func() time.Time { return now1 }
	a, err := svc.Create(context.Background(), "user-1", validInput())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	svc.now = func() time.Time { return now2 }
	in := validInput()
	in.Name = "Lisinopril HCT"
	in.TimeOfDay = []string{"07:30"}
	in.Notes = "tomar con comida"

	updated, err := svc.Update(context.Background(), a.ID, "user-1", in)
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.Name != "Lisinopril HCT" {
		t.Fatalf("expected replaced name, got %q", updated.Name)
	}
	if len(updated.TimeOfDay) != 1 || updated.TimeOfDay[0] != "07:30" {
		t.Fatalf("expected replaced time_of_day, got %v", updated.TimeOfDay)
	}
	if updated.CreatedAt != now1 {
		t.Fatalf("CreatedAt must not change on update")
	}
	if updated.UpdatedAt != now2 {
		t.Fatalf("expected UpdatedAt = now2")
	}
	// 07:30 < now (09:00): el derivado refleja el rollover a mañana.
	if want := time.Date(2025, 3, 11, 7, 30, 0, 0, time.UTC); updated.NextDose == nil || !updated.NextDose.Equal(want) {
		t.Fatalf("expected next dose %v, got %v", want, updated.NextDose)
	}
}

func TestService_OwnershipIsEnforced(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	svc.now = fixedNow

	a, err := svc.Create(context.Background(), "user-1", validInput())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if _, err := svc.Get(context.Background(), a.ID, "user-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign Get, got %v", err)
	}
	if _, err := svc.Update(context.Background(), a.ID, "user-2", validInput()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign Update, got %v", err)
	}
	if err := svc.Delete(context.Background(), a.ID, "user-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign Delete, got %v", err)
	}
	if err := svc.Delete(context.Background(), a.ID, "user-1"); err != nil {
		t.Fatalf("owner delete should succeed: %v", err)
	}
}

func TestService_List_SingleNowSnapshot(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	svc.now = fixedNow

	for _, name := range []string{"A", "B", "C"} {
		in := validInput()
		in.Name = name
		if _, err := svc.Create(context.Background(), "user-1", in); err != nil {
			t.Fatalf("Create %s error: %v", name, err)
		}
	}

	items, err := svc.List(context.Background(), "user-1", Filter{Status: StatusCurrent})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 medications, got %d", len(items))
	}
	// Todos anotados contra el mismo instante => mismo next dose.
	for _, a := range items {
		if a.NextDose == nil || !a.NextDose.Equal(*items[0].NextDose) {
			t.Fatalf("expected same next dose across the pass")
		}
	}
}
