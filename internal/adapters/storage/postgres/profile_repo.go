package postgres

import (
	"context"
	"database/sql"
	"strings"

	"health-assistant-api/internal/domain/profile"
)

type ProfileRepo struct {
	db *sql.DB
}

func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

func (r *ProfileRepo) Get(ctx context.Context, userID string) (profile.Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return profile.Profile{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			user_id,
			full_name, date_of_birth, gender, phone,
			blood_type, allergies, conditions,
			emergency_contact, emergency_phone,
			pushover_key,
			created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`, userID)

	var p profile.Profile
	var dob sql.NullTime
	if err := row.Scan(
		&p.UserID,
		&p.FullName,
		&dob,
		&p.Gender,
		&p.Phone,
		&p.BloodType,
		&p.Allergies,
		&p.Conditions,
		&p.EmergencyContact,
		&p.EmergencyPhone,
		&p.PushoverKey,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return profile.Profile{}, ErrNotFound
		}
		return profile.Profile{}, err
	}

	if dob.Valid {
		t := dob.Time
		p.DateOfBirth = &t
	}

	return p, nil
}

func (r *ProfileRepo) Put(ctx context.Context, p profile.Profile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (
			user_id,
			full_name, date_of_birth, gender, phone,
			blood_type, allergies, conditions,
			emergency_contact, emergency_phone,
			pushover_key,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		ON CONFLICT (user_id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			date_of_birth = EXCLUDED.date_of_birth,
			gender = EXCLUDED.gender,
			phone = EXCLUDED.phone,
			blood_type = EXCLUDED.blood_type,
			allergies = EXCLUDED.allergies,
			conditions = EXCLUDED.conditions,
			emergency_contact = EXCLUDED.emergency_contact,
			emergency_phone = EXCLUDED.emergency_phone,
			pushover_key = EXCLUDED.pushover_key,
			updated_at = EXCLUDED.updated_at
	`,
		p.UserID,
		p.FullName,
		nullTime(p.DateOfBirth),
		p.Gender,
		p.Phone,
		p.BloodType,
		p.Allergies,
		p.Conditions,
		p.EmergencyContact,
		p.EmergencyPhone,
		p.PushoverKey,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}
