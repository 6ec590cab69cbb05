package badgerstore

import (
	"context"
	"fmt"

	"health-assistant-api/internal/domain/profile"
)

var profilePrefix = []byte("profile:")

func profileKey(userID string) []byte {
	return append(append([]byte{}, profilePrefix...), []byte(userID)...)
}

type ProfileRepo struct {
	store *Store
}

func NewProfileRepo(store *Store) *ProfileRepo {
	return &ProfileRepo{store: store}
}

func (r *ProfileRepo) Get(ctx context.Context, userID string) (profile.Profile, error) {
	var p profile.Profile
	if err := r.store.get(profileKey(userID), &p); err != nil {
		return profile.Profile{}, err
	}
	return p, nil
}

func (r *ProfileRepo) Put(ctx context.Context, p profile.Profile) error {
	if p.UserID == "" {
		return fmt.Errorf("profile user id required")
	}
	return r.store.put(profileKey(p.UserID), p)
}
