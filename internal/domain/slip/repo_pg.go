package slip

import (
	"context"
	"encoding/json"
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

const slipCols = `slip_id, slip_type, patient_id, visit_id, admission_id, barcode_data,
	barcode_image, content, printer_format, is_reprinted, original_slip_id, generated_by, created_at`

func (r *repoPG) Create(ctx context.Context, s *Slip) error {
	content, err := json.Marshal(s.Content)
	if err != nil {
		return err
	}
	_, err = r.conn(ctx).Exec(ctx, `
		INSERT INTO slips (slip_id, slip_type, patient_id, visit_id, admission_id, barcode_data,
			barcode_image, content, printer_format, is_reprinted, original_slip_id, generated_by, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		s.SlipID, s.SlipType, s.PatientID, s.VisitID, s.AdmissionID, s.BarcodeData,
		s.BarcodeImage, content, s.PrinterFormat, s.IsReprinted, s.OriginalSlipID, s.GeneratedBy, s.CreatedAt,
	)
	return err
}

func scanSlip(row pgx.Row) (*Slip, error) {
	s := &Slip{}
	var content []byte
	err := row.Scan(&s.SlipID, &s.SlipType, &s.PatientID, &s.VisitID, &s.AdmissionID, &s.BarcodeData,
		&s.BarcodeImage, &content, &s.PrinterFormat, &s.IsReprinted, &s.OriginalSlipID, &s.GeneratedBy, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(content, &s.Content); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Slip, error) {
	return scanSlip(r.conn(ctx).QueryRow(ctx,
		`SELECT `+slipCols+` FROM slips WHERE slip_id = $1`, id))
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Slip, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT count(*) FROM slips WHERE patient_id = $1`, patientID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+slipCols+` FROM slips WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Slip
	for rows.Next() {
		s, err := scanSlip(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}
