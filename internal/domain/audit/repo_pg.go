package audit

import (
	"context"
	"fmt"

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

func (r *repoPG) Create(ctx context.Context, e *Entry) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO audit_logs (audit_id, actor, action_type, table_name, record_id, old_value, new_value, ts)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		e.AuditID, e.Actor, e.ActionType, e.TableName, e.RecordID, e.OldValue, e.NewValue, e.Timestamp,
	)
	return err
}

func (r *repoPG) List(ctx context.Context, tableName string, limit, offset int) ([]*Entry, int, error) {
	where := ``
	args := []interface{}{}
	if tableName != "" {
		where = ` WHERE table_name = $1`
		args = append(args, tableName)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT count(*) FROM audit_logs`+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	sql := fmt.Sprintf(`SELECT audit_id, actor, action_type, table_name, record_id, old_value, new_value, ts
		FROM audit_logs%s ORDER BY ts DESC LIMIT $%d OFFSET $%d`, where, n+1, n+2)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Entry
	for rows.Next() {
		e := &Entry{}
		if err := rows.Scan(&e.AuditID, &e.Actor, &e.ActionType, &e.TableName, &e.RecordID, &e.OldValue, &e.NewValue, &e.Timestamp); err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}
