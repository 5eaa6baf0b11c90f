package ot

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

const procedureCols = `ot_id, admission_id, operation_name, operation_date, duration_minutes,
	surgeon_name, anesthesia_type, notes, created_by, created_at`

func (r *repoPG) Create(ctx context.Context, p *Procedure) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO ot_procedures (ot_id, admission_id, operation_name, operation_date,
			duration_minutes, surgeon_name, anesthesia_type, notes, created_by, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		p.OTID, p.AdmissionID, p.OperationName, p.OperationDate,
		p.DurationMinutes, p.SurgeonName, p.AnesthesiaType, p.Notes, p.CreatedBy, p.CreatedAt,
	)
	return err
}

func scanProcedure(row pgx.Row) (*Procedure, error) {
	p := &Procedure{}
	err := row.Scan(&p.OTID, &p.AdmissionID, &p.OperationName, &p.OperationDate, &p.DurationMinutes,
		&p.SurgeonName, &p.AnesthesiaType, &p.Notes, &p.CreatedBy, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Procedure, error) {
	return scanProcedure(r.conn(ctx).QueryRow(ctx,
		`SELECT `+procedureCols+` FROM ot_procedures WHERE ot_id = $1`, id))
}

func (r *repoPG) ListByAdmission(ctx context.Context, admissionID string) ([]*Procedure, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+procedureCols+` FROM ot_procedures WHERE admission_id = $1 ORDER BY operation_date DESC`,
		admissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Procedure
	for rows.Next() {
		p, err := scanProcedure(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
