package admission

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/suryacity/hms/internal/platform/db"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func conn(ctx context.Context, pool *pgxpool.Pool) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return pool
}

type bedRepoPG struct {
	pool *pgxpool.Pool
}

func NewBedRepo(pool *pgxpool.Pool) BedRepository {
	return &bedRepoPG{pool: pool}
}

const bedCols = `bed_id, bed_number, ward_type, per_day_charge, status, created_at`

func (r *bedRepoPG) Create(ctx context.Context, b *Bed) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO beds (bed_id, bed_number, ward_type, per_day_charge, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		b.BedID, b.BedNumber, b.WardType, b.PerDayCharge, b.Status, b.CreatedAt,
	)
	return err
}

func (r *bedRepoPG) GetByID(ctx context.Context, id string) (*Bed, error) {
	b := &Bed{}
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+bedCols+` FROM beds WHERE bed_id = $1`, id,
	).Scan(&b.BedID, &b.BedNumber, &b.WardType, &b.PerDayCharge, &b.Status, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bedRepoPG) List(ctx context.Context, status BedStatus, limit, offset int) ([]*Bed, int, error) {
	where := ``
	args := []interface{}{}
	if status != "" {
		where = ` WHERE status = $1`
		args = append(args, status)
	}

	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT count(*) FROM beds`+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	sql := fmt.Sprintf(`SELECT %s FROM beds%s ORDER BY bed_number LIMIT $%d OFFSET $%d`,
		bedCols, where, n+1, n+2)
	args = append(args, limit, offset)

	rows, err := conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Bed
	for rows.Next() {
		b := &Bed{}
		if err := rows.Scan(&b.BedID, &b.BedNumber, &b.WardType, &b.PerDayCharge, &b.Status, &b.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

// Occupy is a single guarded UPDATE so two concurrent admits can never both
// see AVAILABLE and both succeed.
func (r *bedRepoPG) Occupy(ctx context.Context, id string) (bool, error) {
	tag, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE beds SET status = 'OCCUPIED'
		WHERE bed_id = $1 AND status = 'AVAILABLE'`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *bedRepoPG) Release(ctx context.Context, id string) error {
	_, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE beds SET status = 'AVAILABLE' WHERE bed_id = $1`, id)
	return err
}

func (r *bedRepoPG) Stats(ctx context.Context) (*BedStats, error) {
	s := &BedStats{}
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE status = 'AVAILABLE'),
		       count(*) FILTER (WHERE status = 'OCCUPIED')
		FROM beds`,
	).Scan(&s.Total, &s.Available, &s.Occupied)
	if err != nil {
		return nil, err
	}
	return s, nil
}

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const admissionCols = `admission_id, patient_id, bed_id, visit_id, file_charge,
	admission_date, discharge_date, status, created_by, created_at`

func scanAdmission(row pgx.Row) (*Admission, error) {
	a := &Admission{}
	err := row.Scan(&a.AdmissionID, &a.PatientID, &a.BedID, &a.VisitID, &a.FileCharge,
		&a.AdmissionDate, &a.DischargeDate, &a.Status, &a.CreatedBy, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *repoPG) Create(ctx context.Context, a *Admission) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO admissions (admission_id, patient_id, bed_id, visit_id, file_charge,
			admission_date, discharge_date, status, created_by, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		a.AdmissionID, a.PatientID, a.BedID, a.VisitID, a.FileCharge,
		a.AdmissionDate, a.DischargeDate, a.Status, a.CreatedBy, a.CreatedAt,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Admission, error) {
	return scanAdmission(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+admissionCols+` FROM admissions WHERE admission_id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, a *Admission) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE admissions SET bed_id=$2, discharge_date=$3, status=$4
		WHERE admission_id=$1`,
		a.AdmissionID, a.BedID, a.DischargeDate, a.Status,
	)
	return err
}

func (r *repoPG) List(ctx context.Context, status Status, limit, offset int) ([]*Admission, int, error) {
	where := ``
	args := []interface{}{}
	if status != "" {
		where = ` WHERE status = $1`
		args = append(args, status)
	}

	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT count(*) FROM admissions`+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	sql := fmt.Sprintf(`SELECT %s FROM admissions%s ORDER BY admission_date DESC LIMIT $%d OFFSET $%d`,
		admissionCols, where, n+1, n+2)
	args = append(args, limit, offset)

	rows, err := conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectAdmissions(rows, total)
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Admission, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT count(*) FROM admissions WHERE patient_id = $1`, patientID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+admissionCols+` FROM admissions WHERE patient_id = $1
		 ORDER BY admission_date DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectAdmissions(rows, total)
}

func collectAdmissions(rows pgx.Rows, total int) ([]*Admission, int, error) {
	var out []*Admission
	for rows.Next() {
		a := &Admission{}
		if err := rows.Scan(&a.AdmissionID, &a.PatientID, &a.BedID, &a.VisitID, &a.FileCharge,
			&a.AdmissionDate, &a.DischargeDate, &a.Status, &a.CreatedBy, &a.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}
