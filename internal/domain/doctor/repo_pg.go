package doctor

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/suryacity/hms/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const doctorCols = `doctor_id, name, department, new_patient_fee, followup_fee, status, created_at`

func scanDoctor(row pgx.Row) (*Doctor, error) {
	d := &Doctor{}
	err := row.Scan(&d.DoctorID, &d.Name, &d.Department, &d.NewPatientFee, &d.FollowupFee, &d.Status, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *repoPG) Create(ctx context.Context, d *Doctor) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO doctors (doctor_id, name, department, new_patient_fee, followup_fee, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		d.DoctorID, d.Name, d.Department, d.NewPatientFee, d.FollowupFee, d.Status, d.CreatedAt,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Doctor, error) {
	return scanDoctor(r.conn(ctx).QueryRow(ctx,
		`SELECT `+doctorCols+` FROM doctors WHERE doctor_id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, d *Doctor) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE doctors SET department=$2, new_patient_fee=$3, followup_fee=$4, status=$5
		WHERE doctor_id=$1`,
		d.DoctorID, d.Department, d.NewPatientFee, d.FollowupFee, d.Status,
	)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT count(*) FROM doctors`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+doctorCols+` FROM doctors ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Doctor
	for rows.Next() {
		d := &Doctor{}
		if err := rows.Scan(&d.DoctorID, &d.Name, &d.Department, &d.NewPatientFee, &d.FollowupFee, &d.Status, &d.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}
