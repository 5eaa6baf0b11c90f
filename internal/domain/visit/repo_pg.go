package visit

import (
	"context"
	"errors"
	"time"

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

const visitCols = `visit_id, patient_id, doctor_id, visit_type, opd_fee, serial_number,
	payment_mode, visit_date, created_by, created_at`

func scanVisit(row pgx.Row) (*Visit, error) {
	v := &Visit{}
	err := row.Scan(&v.VisitID, &v.PatientID, &v.DoctorID, &v.VisitType, &v.OPDFee,
		&v.SerialNumber, &v.PaymentMode, &v.VisitDate, &v.CreatedBy, &v.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *repoPG) Create(ctx context.Context, v *Visit) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO visits (visit_id, patient_id, doctor_id, visit_type, opd_fee, serial_number,
			payment_mode, visit_date, created_by, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		v.VisitID, v.PatientID, v.DoctorID, v.VisitType, v.OPDFee, v.SerialNumber,
		v.PaymentMode, v.VisitDate, v.CreatedBy, v.CreatedAt,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Visit, error) {
	return scanVisit(r.conn(ctx).QueryRow(ctx,
		`SELECT `+visitCols+` FROM visits WHERE visit_id = $1`, id))
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Visit, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT count(*) FROM visits WHERE patient_id = $1`, patientID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+visitCols+` FROM visits WHERE patient_id = $1
		 ORDER BY serial_number DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collect(rows, total)
}

func (r *repoPG) ListByDate(ctx context.Context, day time.Time, limit, offset int) ([]*Visit, int, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT count(*) FROM visits WHERE visit_date >= $1 AND visit_date < $2`, start, end,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+visitCols+` FROM visits WHERE visit_date >= $1 AND visit_date < $2
		 ORDER BY created_at LIMIT $3 OFFSET $4`, start, end, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collect(rows, total)
}

// NextSerial serializes per-patient serial allocation with a transaction-
// scoped advisory lock, so concurrent visit creation cannot hand out the
// same number. The UNIQUE (patient_id, serial_number) constraint backstops
// it.
func (r *repoPG) NextSerial(ctx context.Context, patientID string) (int, error) {
	q := r.conn(ctx)
	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, patientID); err != nil {
		return 0, err
	}

	var n int
	err := q.QueryRow(ctx, `
		SELECT COALESCE(MAX(serial_number), 0) + 1
		FROM visits WHERE patient_id = $1`, patientID,
	).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func collect(rows pgx.Rows, total int) ([]*Visit, int, error) {
	var out []*Visit
	for rows.Next() {
		v := &Visit{}
		if err := rows.Scan(&v.VisitID, &v.PatientID, &v.DoctorID, &v.VisitType, &v.OPDFee,
			&v.SerialNumber, &v.PaymentMode, &v.VisitDate, &v.CreatedBy, &v.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, v)
	}
	return out, total, rows.Err()
}
