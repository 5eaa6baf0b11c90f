package employee

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

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const employeeCols = `employee_id, name, post, qualification, employment_status, duty_hours,
	joining_date, monthly_salary, status, created_at`

func (r *repoPG) Create(ctx context.Context, e *Employee) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO employees (employee_id, name, post, qualification, employment_status, duty_hours,
			joining_date, monthly_salary, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		e.EmployeeID, e.Name, e.Post, e.Qualification, e.EmploymentStatus, e.DutyHours,
		e.JoiningDate, e.MonthlySalary, e.Status, e.CreatedAt,
	)
	return err
}

func scanEmployee(row pgx.Row) (*Employee, error) {
	e := &Employee{}
	err := row.Scan(&e.EmployeeID, &e.Name, &e.Post, &e.Qualification, &e.EmploymentStatus, &e.DutyHours,
		&e.JoiningDate, &e.MonthlySalary, &e.Status, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Employee, error) {
	return scanEmployee(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+employeeCols+` FROM employees WHERE employee_id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, e *Employee) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE employees
		SET post = $2, qualification = $3, employment_status = $4, duty_hours = $5,
			monthly_salary = $6, status = $7
		WHERE employee_id = $1`,
		e.EmployeeID, e.Post, e.Qualification, e.EmploymentStatus, e.DutyHours,
		e.MonthlySalary, e.Status,
	)
	return err
}

func (r *repoPG) List(ctx context.Context, status Status, limit, offset int) ([]*Employee, int, error) {
	where := ``
	args := []interface{}{}
	if status != "" {
		where = ` WHERE status = $1`
		args = append(args, status)
	}

	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT count(*) FROM employees`+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	sql := fmt.Sprintf(`SELECT %s FROM employees%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		employeeCols, where, n+1, n+2)
	args = append(args, limit, offset)

	rows, err := conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

type salaryRepoPG struct {
	pool *pgxpool.Pool
}

func NewSalaryRepo(pool *pgxpool.Pool) SalaryRepository {
	return &salaryRepoPG{pool: pool}
}

const salaryCols = `salary_id, employee_id, month, year, amount, payment_mode, notes, paid_by, paid_at`

func (r *salaryRepoPG) Create(ctx context.Context, p *SalaryPayment) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO salary_payments (salary_id, employee_id, month, year, amount, payment_mode, notes, paid_by, paid_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		p.SalaryID, p.EmployeeID, p.Month, p.Year, p.Amount, p.PaymentMode, p.Notes, p.PaidBy, p.PaidAt,
	)
	return err
}

func scanSalary(row pgx.Row) (*SalaryPayment, error) {
	p := &SalaryPayment{}
	err := row.Scan(&p.SalaryID, &p.EmployeeID, &p.Month, &p.Year, &p.Amount, &p.PaymentMode,
		&p.Notes, &p.PaidBy, &p.PaidAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *salaryRepoPG) GetByID(ctx context.Context, id string) (*SalaryPayment, error) {
	return scanSalary(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+salaryCols+` FROM salary_payments WHERE salary_id = $1`, id))
}

func (r *salaryRepoPG) GetByEmployeeMonthYear(ctx context.Context, employeeID string, month, year int) (*SalaryPayment, error) {
	return scanSalary(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+salaryCols+` FROM salary_payments WHERE employee_id = $1 AND month = $2 AND year = $3`,
		employeeID, month, year))
}

func (r *salaryRepoPG) ListByEmployee(ctx context.Context, employeeID string) ([]*SalaryPayment, error) {
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+salaryCols+` FROM salary_payments WHERE employee_id = $1 ORDER BY year, month`,
		employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*SalaryPayment
	for rows.Next() {
		p, err := scanSalary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
