package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

// RecordRepo stores entity records as JSON documents.
type RecordRepo struct {
	db *sql.DB
}

func NewRecordRepo(db *sql.DB) *RecordRepo { return &RecordRepo{db: db} }

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row scanner) (Record, error) {
	var rec Record
	var data string
	if err := row.Scan(&rec.ID, &rec.Entity, &data, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return Record{}, err
	}
	rec.Data = map[string]any{}
	if data != "" {
		if err := json.Unmarshal([]byte(data), &rec.Data); err != nil {
			return Record{}, fmt.Errorf("decode record %s: %w", rec.ID, err)
		}
	}
	return rec, nil
}

func encode(data map[string]any) (string, error) {
	if data == nil {
		return "{}", nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *RecordRepo) List(ctx context.Context, entity string) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, entity, data, created_at, updated_at FROM records WHERE entity = ? ORDER BY created_at, id`, entity)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Get returns nil, nil when the record does not exist.
func (r *RecordRepo) Get(ctx context.Context, entity, id string) (*Record, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, entity, data, created_at, updated_at FROM records WHERE entity = ? AND id = ?`, entity, id)
	rec, err := scanRecord(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *RecordRepo) Insert(ctx context.Context, rec Record) error {
	data, err := encode(rec.Data)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
	INSERT INTO records(id, entity, data, created_at, updated_at)
	VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`, rec.ID, rec.Entity, data)
	return err
}

// Upsert inserts rec unless a record with the same id exists.
func (r *RecordRepo) Upsert(ctx context.Context, rec Record) error {
	data, err := encode(rec.Data)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
	INSERT INTO records(id, entity, data, created_at, updated_at)
	VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO NOTHING`, rec.ID, rec.Entity, data)
	return err
}

func (r *RecordRepo) Update(ctx context.Context, entity, id string, data map[string]any) error {
	enc, err := encode(data)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `UPDATE records SET data = ?, updated_at = CURRENT_TIMESTAMP WHERE entity = ? AND id = ?`, enc, entity, id)
	if err != nil {
		return err
	}
	return affected(res)
}

func (r *RecordRepo) Delete(ctx context.Context, entity, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE entity = ? AND id = ?`, entity, id)
	if err != nil {
		return err
	}
	return affected(res)
}

// DeleteMany removes ids in one transaction and reports how many existed.
func (r *RecordRepo) DeleteMany(ctx context.Context, entity string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	args := make([]any, 0, len(ids)+1)
	args = append(args, entity)
	for _, id := range ids {
		args = append(args, id)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	var n int64
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM records WHERE entity = ? AND id IN (`+placeholders+`)`, args...)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (r *RecordRepo) Count(ctx context.Context, entity string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records WHERE entity = ?`, entity).Scan(&n)
	return n, err
}

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
