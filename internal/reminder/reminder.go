package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"health-assistant-api/internal/domain/medications"
	"health-assistant-api/internal/domain/profile"
	"health-assistant-api/internal/domain/schedule"
	"health-assistant-api/internal/platform/logger"
	"health-assistant-api/internal/ports/notify"
)

// Scheduler barre los medicamentos de todos los usuarios y notifica las
// tomas próximas (dentro de la ventana due-soon) vía notify.Sender.
// Deduplica por (medicamento, instante de toma): una toma se avisa una
// sola vez aunque el barrido corra varias veces dentro de la ventana.
type Scheduler struct {
	meds     medications.Repository
	profiles profile.Repository
	sender   notify.Sender
	log      logger.Logger

	now func() time.Time

	cron *cron.Cron

	mu   sync.Mutex
	sent map[string]time.Time // clave "medID@RFC3339" => instante de la toma
}

func NewScheduler(meds medications.Repository, profiles profile.Repository, sender notify.Sender, log logger.Logger) *Scheduler {
	return &Scheduler{
		meds:     meds,
		profiles: profiles,
		sender:   sender,
		log:      log,
		now:      time.Now,
		sent:     map[string]time.Time{},
	}
}

// Start registra el barrido con el spec cron estándar de 5 campos
// (p.ej. "*/5 * * * *") y arranca el scheduler en background.
func (s *Scheduler) Start(cronSpec string) error {
	if s.cron != nil {
		return nil
	}
	c := cron.New()
	_, err := c.AddFunc(cronSpec, func() {
		s.Sweep(context.Background())
	})
	if err != nil {
		return fmt.Errorf("reminder: invalid cron spec %q: %w", cronSpec, err)
	}
	s.cron = c
	c.Start()
	s.log.Info("reminder scheduler started", map[string]any{"cron": cronSpec})
	return nil
}

// Stop detiene el scheduler y espera a que termine el barrido en curso.
func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.cron = nil
}

// Sweep hace un barrido: anota todos los medicamentos con un mismo now,
// y para cada toma próxima de un medicamento activo envía la
// notificación al PushoverKey del perfil del dueño.
func (s *Scheduler) Sweep(ctx context.Context) {
	now := s.now()

	items, err := s.meds.ListAll(ctx)
	if err != nil {
		s.log.Error("reminder sweep: list medications", map[string]any{"error": err.Error()})
		return
	}

	s.pruneSent(now)

	// Cache de perfiles por usuario dentro del barrido.
	keys := map[string]string{}

	for _, m := range items {
		a := medications.Annotate(m, now)
		if !a.Active || !a.DueSoon || a.NextDose == nil {
			continue
		}
		if s.alreadySent(m.ID, *a.NextDose) {
			continue
		}

		key, ok := keys[m.UserID]
		if !ok {
			key = s.recipientKey(ctx, m.UserID)
			keys[m.UserID] = key
		}
		if key == "" {
			continue
		}

		msg := notify.Message{
			Recipient: key,
			Title:     "Toma próxima: " + m.Name,
			Body:      doseBody(m, *a.NextDose),
		}
		if err := s.sender.Send(ctx, msg); err != nil {
			s.log.Error("reminder sweep: send", map[string]any{
				"medication_id": m.ID,
				"error":         err.Error(),
			})
			continue
		}

		s.markSent(m.ID, *a.NextDose)
		s.log.Info("reminder sent", map[string]any{
			"medication_id": m.ID,
			"dose_at":       a.NextDose.Format(time.RFC3339),
		})
	}
}

func (s *Scheduler) recipientKey(ctx context.Context, userID string) string {
	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return ""
	}
	return p.PushoverKey
}

func doseBody(m medications.Medication, doseAt time.Time) string {
	body := fmt.Sprintf("%s a las %s", m.Dosage, doseAt.Format("15:04"))
	if m.Instructions != "" {
		body += ". " + m.Instructions
	}
	return body
}

func sentKey(medID string, doseAt time.Time) string {
	return medID + "@" + doseAt.Format(time.RFC3339)
}

func (s *Scheduler) alreadySent(medID string, doseAt time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sent[sentKey(medID, doseAt)]
	return ok
}

func (s *Scheduler) markSent(medID string, doseAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent[sentKey(medID, doseAt)] = doseAt
}

// pruneSent descarta entradas cuya toma ya quedó atrás hace más de una
// ventana; el mapa no crece sin límite entre barridos.
func (s *Scheduler) pruneSent(now time.Time) {
	cutoff := now.Add(-schedule.DueSoonWindow)
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, doseAt := range s.sent {
		if doseAt.Before(cutoff) {
			delete(s.sent, k)
		}
	}
}
