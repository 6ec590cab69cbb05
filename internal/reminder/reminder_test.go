package reminder

import (
	"context"
	"sync"
	"testing"
	"time"

	"health-assistant-api/internal/adapters/storage/memory"
	"health-assistant-api/internal/domain/medications"
	"health-assistant-api/internal/domain/profile"
	"health-assistant-api/internal/domain/schedule"
	"health-assistant-api/internal/platform/logger"
	"health-assistant-api/internal/ports/notify"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []notify.Message
}

func (f *fakeSender) Send(_ context.Context, msg notify.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeSender) messages() []notify.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]notify.Message, len(f.sent))
	copy(out, f.sent)
	return out
}

func testLogger() logger.Logger {
	return logger.New(logger.Options{Level: logger.Error})
}

func dateOnly(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedMedication(t *testing.T, repo medications.Repository, id, userID, name, tod string) {
	t.Helper()
	err := repo.Create(context.Background(), medications.Medication{
		ID:        id,
		UserID:    userID,
		Name:      name,
		Dosage:    "1 comprimido",
		Frequency: schedule.FreqOnceDaily,
		TimeOfDay: []string{tod},
		StartDate: dateOnly(2025, time.March, 1),
	})
	if err != nil {
		t.Fatalf("seed medication: %v", err)
	}
}

func seedProfile(t *testing.T, repo profile.Repository, userID, pushoverKey string) {
	t.Helper()
	err := repo.Put(context.Background(), profile.Profile{
		UserID:      userID,
		FullName:    "Paciente " + userID,
		PushoverKey: pushoverKey,
	})
	if err != nil {
		t.Fatalf("seed profile: %v", err)
	}
}

func TestSweepNotifiesOnlyDueSoon(t *testing.T) {
	meds := memory.NewMedicationsRepo()
	profiles := memory.NewProfileRepo()
	sender := &fakeSender{}

	seedMedication(t, meds, "m1", "u1", "Ibuprofeno", "09:30")  // dentro de la ventana
	seedMedication(t, meds, "m2", "u1", "Amoxicilina", "15:00") // fuera de la ventana
	seedProfile(t, profiles, "u1", "key-u1")

	s := NewScheduler(meds, profiles, sender, testLogger())
	s.now = func() time.Time {
		return time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	}

	s.Sweep(context.Background())

	got := sender.messages()
	if len(got) != 1 {
		t.Fatalf("messages = %d, want 1", len(got))
	}
	if got[0].Recipient != "key-u1" {
		t.Errorf("recipient = %q, want key-u1", got[0].Recipient)
	}
	if got[0].Title != "Toma próxima: Ibuprofeno" {
		t.Errorf("title = %q", got[0].Title)
	}
}

func TestSweepDeduplicatesSameDose(t *testing.T) {
	meds := memory.NewMedicationsRepo()
	profiles := memory.NewProfileRepo()
	sender := &fakeSender{}

	seedMedication(t, meds, "m1", "u1", "Ibuprofeno", "09:30")
	seedProfile(t, profiles, "u1", "key-u1")

	s := NewScheduler(meds, profiles, sender, testLogger())
	now := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.Sweep(context.Background())
	now = now.Add(5 * time.Minute)
	s.Sweep(context.Background())

	if got := len(sender.messages()); got != 1 {
		t.Fatalf("messages = %d, want 1 (misma toma, un solo aviso)", got)
	}

	// La toma del día siguiente es otra dosis: se vuelve a avisar.
	now = time.Date(2025, time.March, 11, 9, 0, 0, 0, time.UTC)
	s.Sweep(context.Background())

	if got := len(sender.messages()); got != 2 {
		t.Fatalf("messages = %d, want 2 (nueva dosis al día siguiente)", got)
	}
}

func TestSweepSkipsUsersWithoutPushoverKey(t *testing.T) {
	meds := memory.NewMedicationsRepo()
	profiles := memory.NewProfileRepo()
	sender := &fakeSender{}

	seedMedication(t, meds, "m1", "u1", "Ibuprofeno", "09:30")
	seedMedication(t, meds, "m2", "u2", "Paracetamol", "09:30")
	seedProfile(t, profiles, "u2", "key-u2") // u1 no tiene perfil

	s := NewScheduler(meds, profiles, sender, testLogger())
	s.now = func() time.Time {
		return time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	}

	s.Sweep(context.Background())

	got := sender.messages()
	if len(got) != 1 {
		t.Fatalf("messages = %d, want 1", len(got))
	}
	if got[0].Recipient != "key-u2" {
		t.Errorf("recipient = %q, want key-u2", got[0].Recipient)
	}
}

func TestSweepSkipsInactiveMedications(t *testing.T) {
	meds := memory.NewMedicationsRepo()
	profiles := memory.NewProfileRepo()
	sender := &fakeSender{}

	end := dateOnly(2025, time.March, 5)
	err := meds.Create(context.Background(), medications.Medication{
		ID:        "m1",
		UserID:    "u1",
		Name:      "Tratamiento terminado",
		Dosage:    "1 comprimido",
		Frequency: schedule.FreqOnceDaily,
		TimeOfDay: []string{"09:30"},
		StartDate: dateOnly(2025, time.March, 1),
		EndDate:   &end,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	seedProfile(t, profiles, "u1", "key-u1")

	s := NewScheduler(meds, profiles, sender, testLogger())
	s.now = func() time.Time {
		return time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	}

	s.Sweep(context.Background())

	if got := len(sender.messages()); got != 0 {
		t.Fatalf("messages = %d, want 0", got)
	}
}
