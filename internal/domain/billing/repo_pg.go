package billing

import (
	"context"
	"errors"
	"time"

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

// ownerCond resolves the column/value pair a tagged owner filters on.
func ownerCond(o Owner) (string, string) {
	if v, ok := o.VisitID(); ok {
		return "visit_id", v
	}
	a, _ := o.AdmissionID()
	return "admission_id", a
}

type chargeRepoPG struct {
	pool *pgxpool.Pool
}

func NewChargeRepo(pool *pgxpool.Pool) ChargeRepository {
	return &chargeRepoPG{pool: pool}
}

const chargeCols = `charge_id, visit_id, admission_id, charge_type, charge_name, quantity,
	rate, total_amount, start_time, end_time, created_by, created_at`

func scanCharge(row pgx.Row) (*Charge, error) {
	c := &Charge{}
	err := row.Scan(&c.ChargeID, &c.VisitID, &c.AdmissionID, &c.ChargeType, &c.ChargeName,
		&c.Quantity, &c.Rate, &c.TotalAmount, &c.StartTime, &c.EndTime, &c.CreatedBy, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *chargeRepoPG) Create(ctx context.Context, c *Charge) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO charges (charge_id, visit_id, admission_id, charge_type, charge_name,
			quantity, rate, total_amount, start_time, end_time, created_by, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		c.ChargeID, c.VisitID, c.AdmissionID, c.ChargeType, c.ChargeName,
		c.Quantity, c.Rate, c.TotalAmount, c.StartTime, c.EndTime, c.CreatedBy, c.CreatedAt,
	)
	return err
}

func (r *chargeRepoPG) GetByID(ctx context.Context, id string) (*Charge, error) {
	return scanCharge(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+chargeCols+` FROM charges WHERE charge_id = $1`, id))
}

func (r *chargeRepoPG) Update(ctx context.Context, c *Charge) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE charges SET charge_name=$2, quantity=$3, rate=$4, total_amount=$5
		WHERE charge_id=$1`,
		c.ChargeID, c.ChargeName, c.Quantity, c.Rate, c.TotalAmount,
	)
	return err
}

func (r *chargeRepoPG) ListByOwner(ctx context.Context, owner Owner) ([]*Charge, error) {
	col, id := ownerCond(owner)
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+chargeCols+` FROM charges WHERE `+col+` = $1 ORDER BY created_at, charge_id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCharges(rows)
}

func (r *chargeRepoPG) ListByOwnerAndType(ctx context.Context, owner Owner, chargeType ChargeType) ([]*Charge, error) {
	col, id := ownerCond(owner)
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+chargeCols+` FROM charges WHERE `+col+` = $1 AND charge_type = $2
		 ORDER BY created_at, charge_id`, id, chargeType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCharges(rows)
}

func collectCharges(rows pgx.Rows) ([]*Charge, error) {
	var out []*Charge
	for rows.Next() {
		c := &Charge{}
		if err := rows.Scan(&c.ChargeID, &c.VisitID, &c.AdmissionID, &c.ChargeType, &c.ChargeName,
			&c.Quantity, &c.Rate, &c.TotalAmount, &c.StartTime, &c.EndTime, &c.CreatedBy, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type paymentRepoPG struct {
	pool *pgxpool.Pool
}

func NewPaymentRepo(pool *pgxpool.Pool) PaymentRepository {
	return &paymentRepoPG{pool: pool}
}

const paymentCols = `payment_id, patient_id, visit_id, admission_id, payment_type, amount,
	payment_mode, transaction_reference, notes, payment_date, created_by, created_at`

func (r *paymentRepoPG) Create(ctx context.Context, p *Payment) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO payments (payment_id, patient_id, visit_id, admission_id, payment_type,
			amount, payment_mode, transaction_reference, notes, payment_date, created_by, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		p.PaymentID, p.PatientID, p.VisitID, p.AdmissionID, p.PaymentType,
		p.Amount, p.PaymentMode, p.TransactionRef, p.Notes, p.PaymentDate, p.CreatedBy, p.CreatedAt,
	)
	return err
}

func (r *paymentRepoPG) GetByID(ctx context.Context, id string) (*Payment, error) {
	p := &Payment{}
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+paymentCols+` FROM payments WHERE payment_id = $1`, id,
	).Scan(&p.PaymentID, &p.PatientID, &p.VisitID, &p.AdmissionID, &p.PaymentType, &p.Amount,
		&p.PaymentMode, &p.TransactionRef, &p.Notes, &p.PaymentDate, &p.CreatedBy, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *paymentRepoPG) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Payment, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT count(*) FROM payments WHERE patient_id = $1`, patientID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+paymentCols+` FROM payments WHERE patient_id = $1
		 ORDER BY payment_date DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out, err := collectPayments(rows)
	return out, total, err
}

func (r *paymentRepoPG) ListByOwner(ctx context.Context, owner Owner) ([]*Payment, error) {
	col, id := ownerCond(owner)
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+paymentCols+` FROM payments WHERE `+col+` = $1 ORDER BY payment_date, payment_id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPayments(rows)
}

func (r *paymentRepoPG) ListByDate(ctx context.Context, day time.Time) ([]*Payment, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)

	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+paymentCols+` FROM payments WHERE payment_date >= $1 AND payment_date < $2
		 ORDER BY payment_date, payment_id`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPayments(rows)
}

func collectPayments(rows pgx.Rows) ([]*Payment, error) {
	var out []*Payment
	for rows.Next() {
		p := &Payment{}
		if err := rows.Scan(&p.PaymentID, &p.PatientID, &p.VisitID, &p.AdmissionID, &p.PaymentType,
			&p.Amount, &p.PaymentMode, &p.TransactionRef, &p.Notes, &p.PaymentDate, &p.CreatedBy, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
