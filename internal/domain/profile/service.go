package profile

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

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

type PutInput struct {
	FullName    string
	DateOfBirth *time.Time
	Gender      string
	Phone       string

	BloodType  string
	Allergies  string
	Conditions string

	EmergencyContact string
	EmergencyPhone   string

	PushoverKey string
}

func (s *Service) Get(ctx context.Context, userID string) (Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Profile{}, ErrInvalidInput
	}

	p, err := s.repo.Get(ctx, userID)
	if err != nil {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

// Put crea o reemplaza el perfil del usuario (upsert, full replace).
func (s *Service) Put(ctx context.Context, userID string, in PutInput) (Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Profile{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.FullName) == "" {
		return Profile{}, ErrInvalidInput
	}

	now := s.now()
	createdAt := now
	if existing, err := s.repo.Get(ctx, userID); err == nil && !existing.CreatedAt.IsZero() {
		createdAt = existing.CreatedAt
	}

	p := Profile{
		UserID: userID,

		FullName:    strings.TrimSpace(in.FullName),
		DateOfBirth: in.DateOfBirth,
		Gender:      strings.TrimSpace(in.Gender),
		Phone:       strings.TrimSpace(in.Phone),

		BloodType:  strings.TrimSpace(in.BloodType),
		Allergies:  strings.TrimSpace(in.Allergies),
		Conditions: strings.TrimSpace(in.Conditions),

		EmergencyContact: strings.TrimSpace(in.EmergencyContact),
		EmergencyPhone:   strings.TrimSpace(in.EmergencyPhone),

		PushoverKey: strings.TrimSpace(in.PushoverKey),

		CreatedAt: createdAt,
		UpdatedAt: now,
	}

	if err := s.repo.Put(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}
