package postgres

import (
	"context"
	"database/sql"
	"strings"

	"health-assistant-api/internal/domain/medications"
	"health-assistant-api/internal/domain/schedule"
)

type MedicationsRepo struct {
	db *sql.DB
}

func NewMedicationsRepo(db *sql.DB) *MedicationsRepo {
	return &MedicationsRepo{db: db}
}

const medicationColumns = `
	id, user_id,
	name, dosage, frequency, time_of_day,
	start_date, end_date,
	instructions, prescribed_by, reason, refills, pharmacy, notes,
	created_at, updated_at
`

func (r *MedicationsRepo) Create(ctx context.Context, m medications.Medication) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO medications (`+medicationColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
	`,
		m.ID,
		m.UserID,
		m.Name,
		m.Dosage,
		string(m.Frequency),
		joinTimes(m.TimeOfDay),
		m.StartDate,
		nullTime(m.EndDate),
		m.Instructions,
		m.PrescribedBy,
		m.Reason,
		m.Refills,
		m.Pharmacy,
		m.Notes,
		m.CreatedAt,
		m.UpdatedAt,
	)
	return err
}

func (r *MedicationsRepo) GetByID(ctx context.Context, id string) (medications.Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return medications.Medication{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+medicationColumns+`
		FROM medications
		WHERE id = $1
	`, id)

	m, err := scanMedication(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return medications.Medication{}, ErrNotFound
		}
		return medications.Medication{}, err
	}
	return m, nil
}

func (r *MedicationsRepo) ListByUser(ctx context.Context, userID string) ([]medications.Medication, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+medicationColumns+`
		FROM medications
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMedications(rows)
}

func (r *MedicationsRepo) ListAll(ctx context.Context) ([]medications.Medication, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+medicationColumns+`
		FROM medications
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMedications(rows)
}

func (r *MedicationsRepo) Update(ctx context.Context, m medications.Medication) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE medications SET
			name = $2,
			dosage = $3,
			frequency = $4,
			time_of_day = $5,
			start_date = $6,
			end_date = $7,
			instructions = $8,
			prescribed_by = $9,
			reason = $10,
			refills = $11,
			pharmacy = $12,
			notes = $13,
			updated_at = $14
		WHERE id = $1
	`,
		m.ID,
		m.Name,
		m.Dosage,
		string(m.Frequency),
		joinTimes(m.TimeOfDay),
		m.StartDate,
		nullTime(m.EndDate),
		m.Instructions,
		m.PrescribedBy,
		m.Reason,
		m.Refills,
		m.Pharmacy,
		m.Notes,
		m.UpdatedAt,
	)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MedicationsRepo) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNotFound
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM medications WHERE id = $1`, id)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMedication(row rowScanner) (medications.Medication, error) {
	var m medications.Medication
	var freq, times string
	var end sql.NullTime

	if err := row.Scan(
		&m.ID,
		&m.UserID,
		&m.Name,
		&m.Dosage,
		&freq,
		&times,
		&m.StartDate,
		&end,
		&m.Instructions,
		&m.PrescribedBy,
		&m.Reason,
		&m.Refills,
		&m.Pharmacy,
		&m.Notes,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return medications.Medication{}, err
	}

	m.Frequency = schedule.Frequency(freq)
	m.TimeOfDay = splitTimes(times)
	if end.Valid {
		t := end.Time
		m.EndDate = &t
	}

	return m, nil
}

func collectMedications(rows *sql.Rows) ([]medications.Medication, error) {
	out := make([]medications.Medication, 0)
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// time_of_day se guarda como CSV "08:00,20:00": es una lista corta de
// strings fijos, no amerita tabla aparte.
func joinTimes(times []string) string {
	return strings.Join(times, ",")
}

func splitTimes(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
