package appointments

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"health-assistant-api/internal/domain/schedule"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// WhenFilter selecciona turnos futuros, pasados o todos.
// @Enum upcoming, past, all
type WhenFilter string

const (
	WhenAll      WhenFilter = "all"
	WhenUpcoming WhenFilter = "upcoming"
	WhenPast     WhenFilter = "past"
)

// ParseWhenFilter normaliza el query param. Vacío = all.
func ParseWhenFilter(s string) (WhenFilter, bool) {
	switch WhenFilter(strings.ToLower(strings.TrimSpace(s))) {
	case "", WhenAll:
		return WhenAll, true
	case WhenUpcoming:
		return WhenUpcoming, true
	case WhenPast:
		return WhenPast, true
	}
	return "", false
}

type Filter struct {
	When  WhenFilter
	Query string
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
	DoctorName string
	Specialty  string
	Date       *time.Time
	Time       string
	Location   string
	Notes      string
	Status     Status
}

func validate(in CreateInput) error {
	if strings.TrimSpace(in.DoctorName) == "" {
		return ErrInvalidInput
	}
	if in.Date == nil || in.Date.IsZero() {
		return ErrInvalidInput
	}
	if _, _, err := schedule.ParseClock(in.Time); err != nil {
		return ErrInvalidInput
	}
	if in.Status != "" && !knownStatus(in.Status) {
		return ErrInvalidInput
	}
	return nil
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Appointment, error) {
	if strings.TrimSpace(userID) == "" {
		return Appointment{}, ErrInvalidInput
	}
	if err := validate(in); err != nil {
		return Appointment{}, err
	}

	status := in.Status
	if status == "" {
		status = StatusScheduled
	}

	now := s.now()
	a := Appointment{
		ID:     uuid.NewString(),
		UserID: userID,

		DoctorName: strings.TrimSpace(in.DoctorName),
		Specialty:  strings.TrimSpace(in.Specialty),
		Date:       *in.Date,
		Time:       strings.TrimSpace(in.Time),
		Location:   strings.TrimSpace(in.Location),
		Notes:      strings.TrimSpace(in.Notes),
		Status:     status,

		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, id, userID string) (Appointment, error) {
	return s.getOwned(ctx, id, userID)
}

// Update reemplaza los campos mutables (full replace, igual que
// medications).
func (s *Service) Update(ctx context.Context, id, userID string, in CreateInput) (Appointment, error) {
	current, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return Appointment{}, err
	}
	if err := validate(in); err != nil {
		return Appointment{}, err
	}

	status := in.Status
	if status == "" {
		status = StatusScheduled
	}

	current.DoctorName = strings.TrimSpace(in.DoctorName)
	current.Specialty = strings.TrimSpace(in.Specialty)
	current.Date = *in.Date
	current.Time = strings.TrimSpace(in.Time)
	current.Location = strings.TrimSpace(in.Location)
	current.Notes = strings.TrimSpace(in.Notes)
	current.Status = status
	current.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, current); err != nil {
		return Appointment{}, err
	}
	return current, nil
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.getOwned(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// List filtra por upcoming/past contra un único `now` y ordena por
// fecha+hora ascendente. Búsqueda sobre médico, especialidad y lugar.
func (s *Service) List(ctx context.Context, userID string, f Filter) ([]Appointment, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}

	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	when := f.When
	if when == "" {
		when = WhenAll
	}

	out := make([]Appointment, 0, len(items))
	for _, a := range items {
		switch when {
		case WhenUpcoming:
			if !a.Upcoming(now) {
				continue
			}
		case WhenPast:
			if a.Upcoming(now) {
				continue
			}
		}
		if !matchesQuery(a, f.Query) {
			continue
		}
		out = append(out, a)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartsAt().Before(out[j].StartsAt())
	})

	return out, nil
}

func (s *Service) getOwned(ctx context.Context, id, userID string) (Appointment, error) {
	id = strings.TrimSpace(id)
	userID = strings.TrimSpace(userID)
	if id == "" || userID == "" {
		return Appointment{}, ErrInvalidInput
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, ErrNotFound
	}
	if a.UserID != userID {
		return Appointment{}, ErrNotFound
	}
	return a, nil
}

func matchesQuery(a Appointment, q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}

	for _, field := range []string{a.DoctorName, a.Specialty, a.Location} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
