package medications

import (
	"context"
	"errors"
	"strings"
	"time"

	"health-assistant-api/internal/domain/schedule"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// ValidationError agrupa los errores de forma del schedule para que el
// handler pueda devolverlos al formulario.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "invalid medication: " + strings.Join(e.Errors, "; ")
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name      string
	Dosage    string
	Frequency string
	TimeOfDay []string
	StartDate *time.Time
	EndDate   *time.Time

	Instructions string
	PrescribedBy string
	Reason       string
	Refills      int
	Pharmacy     string
	Notes        string
}

// validate es el punto único de enforcement: el motor de scheduling aguas
// abajo no rechaza datos, solo degrada a nil/false.
func validate(in CreateInput) error {
	var errs []string

	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(in.Dosage) == "" {
		errs = append(errs, "dosage is required")
	}
	if !schedule.KnownFrequency(schedule.Frequency(strings.TrimSpace(in.Frequency))) {
		errs = append(errs, "frequency is not a known value")
	}

	s := schedule.Schedule{
		TimeOfDay: in.TimeOfDay,
		EndDate:   in.EndDate,
	}
	if in.StartDate != nil {
		s.StartDate = *in.StartDate
	}
	if res := schedule.Validate(s); !res.Valid {
		errs = append(errs, res.Errors...)
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Annotated, error) {
	if strings.TrimSpace(userID) == "" {
		return Annotated{}, ErrInvalidInput
	}
	if err := validate(in); err != nil {
		return Annotated{}, err
	}

	now := s.now()
	m := Medication{
		ID:     uuid.NewString(),
		UserID: userID,

		Name:      strings.TrimSpace(in.Name),
		Dosage:    strings.TrimSpace(in.Dosage),
		Frequency: schedule.Frequency(strings.TrimSpace(in.Frequency)),
		TimeOfDay: normalizeTimes(in.TimeOfDay),
		StartDate: *in.StartDate,
		EndDate:   in.EndDate,

		Instructions: strings.TrimSpace(in.Instructions),
		PrescribedBy: strings.TrimSpace(in.PrescribedBy),
		Reason:       strings.TrimSpace(in.Reason),
		Refills:      in.Refills,
		Pharmacy:     strings.TrimSpace(in.Pharmacy),
		Notes:        strings.TrimSpace(in.Notes),

		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return Annotated{}, err
	}
	return Annotate(m, now), nil
}

// Update reemplaza todos los campos mutables (los formularios de edición
// mandan el registro completo, no un patch).
func (s *Service) Update(ctx context.Context, id, userID string, in CreateInput) (Annotated, error) {
	current, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return Annotated{}, err
	}
	if err := validate(in); err != nil {
		return Annotated{}, err
	}

	current.Name = strings.TrimSpace(in.Name)
	current.Dosage = strings.TrimSpace(in.Dosage)
	current.Frequency = schedule.Frequency(strings.TrimSpace(in.Frequency))
	current.TimeOfDay = normalizeTimes(in.TimeOfDay)
	current.StartDate = *in.StartDate
	current.EndDate = in.EndDate
	current.Instructions = strings.TrimSpace(in.Instructions)
	current.PrescribedBy = strings.TrimSpace(in.PrescribedBy)
	current.Reason = strings.TrimSpace(in.Reason)
	current.Refills = in.Refills
	current.Pharmacy = strings.TrimSpace(in.Pharmacy)
	current.Notes = strings.TrimSpace(in.Notes)
	now := s.now()
	current.UpdatedAt = now

	if err := s.repo.Update(ctx, current); err != nil {
		return Annotated{}, err
	}
	return Annotate(current, now), nil
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.getOwned(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Get devuelve el medicamento anotado con sus derivados para este instante.
func (s *Service) Get(ctx context.Context, id, userID string) (Annotated, error) {
	m, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return Annotated{}, err
	}
	return Annotate(m, s.now()), nil
}

// List anota la colección del usuario con un único `now` capturado al
// inicio de la pasada y aplica filtro de estado + búsqueda.
func (s *Service) List(ctx context.Context, userID string, f Filter) ([]Annotated, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}

	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	annotated := make([]Annotated, 0, len(items))
	for _, m := range items {
		annotated = append(annotated, Annotate(m, now))
	}

	return Apply(annotated, f), nil
}

// UpcomingSummary devuelve los n medicamentos activos con toma más
// próxima, para los widgets de resumen del dashboard.
func (s *Service) UpcomingSummary(ctx context.Context, userID string, n int) ([]Annotated, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}

	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	annotated := make([]Annotated, 0, len(items))
	for _, m := range items {
		annotated = append(annotated, Annotate(m, now))
	}

	return UpcomingDoses(annotated, n), nil
}

// getOwned carga por id y chequea ownership. Registro de otro usuario se
// reporta como not found para no filtrar existencia.
func (s *Service) getOwned(ctx context.Context, id, userID string) (Medication, error) {
	id = strings.TrimSpace(id)
	userID = strings.TrimSpace(userID)
	if id == "" || userID == "" {
		return Medication{}, ErrInvalidInput
	}

	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Medication{}, ErrNotFound
	}
	if m.UserID != userID {
		return Medication{}, ErrNotFound
	}
	return m, nil
}

func normalizeTimes(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}
