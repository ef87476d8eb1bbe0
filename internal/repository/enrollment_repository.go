package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/event-hotel-booking/internal/model"
)

// EnrollmentRepo reads and writes the enrollments table.
type EnrollmentRepo struct {
	db *sql.DB
}

func NewEnrollmentRepo(db *sql.DB) *EnrollmentRepo { return &EnrollmentRepo{db: db} }

const enrollmentColumns = `id, user_id, name, cpf, birthday, phone, created_at, updated_at`

// FindEnrollmentByUser returns the user's enrollment or nil.
func (r *EnrollmentRepo) FindEnrollmentByUser(ctx context.Context, userID uint64) (*model.Enrollment, error) {
	const q = `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE user_id = ?`
	var e model.Enrollment
	err := conn(ctx, r.db).QueryRowContext(ctx, q, userID).Scan(
		&e.ID, &e.UserID, &e.Name, &e.CPF, &e.Birthday, &e.Phone, &e.CreatedAt, &e.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// UpsertEnrollment inserts the user's enrollment or updates it in place
// (user_id is unique), then reloads e so ID and timestamps are set.
func (r *EnrollmentRepo) UpsertEnrollment(ctx context.Context, e *model.Enrollment) error {
	const q = `INSERT INTO enrollments (user_id, name, cpf, birthday, phone) VALUES (?, ?, ?, ?, ?)
               ON DUPLICATE KEY UPDATE name = VALUES(name), cpf = VALUES(cpf), birthday = VALUES(birthday), phone = VALUES(phone)`
	if _, err := conn(ctx, r.db).ExecContext(ctx, q, e.UserID, e.Name, e.CPF, e.Birthday, e.Phone); err != nil {
		return classify(err)
	}
	saved, err := r.FindEnrollmentByUser(ctx, e.UserID)
	if err != nil {
		return err
	}
	if saved == nil {
		return sql.ErrNoRows
	}
	*e = *saved
	return nil
}
