package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"health-assistant-api/internal/domain/profile"
)

type profileRepo struct {
	mu     sync.RWMutex
	byUser map[string]profile.Profile
}

func NewProfileRepo() profile.Repository {
	return &profileRepo{
		byUser: make(map[string]profile.Profile),
	}
}

func (r *profileRepo) Get(ctx context.Context, userID string) (profile.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byUser[userID]
	if !ok {
		return profile.Profile{}, ErrNotFound
	}
	return p, nil
}

func (r *profileRepo) Put(ctx context.Context, p profile.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.UserID) == "" {
		return errors.New("profile user id required")
	}
	r.byUser[p.UserID] = p
	return nil
}
