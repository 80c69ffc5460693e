package repository

import (
	"context"
	"database/sql"
)

// PermissionRepo handles user_permissions.
type PermissionRepo struct {
	db *sql.DB
}

func NewPermissionRepo(db *sql.DB) *PermissionRepo { return &PermissionRepo{db: db} }

// ForUser returns the user's permissions sorted.
func (r *PermissionRepo) ForUser(ctx context.Context, username string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT permission FROM user_permissions WHERE username = ? ORDER BY permission`, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PermissionRepo) Users(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT username FROM user_permissions ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *PermissionRepo) Grant(ctx context.Context, username string, perms ...string) error {
	for _, p := range perms {
		if _, err := r.db.ExecContext(ctx, `
		INSERT INTO user_permissions(username, permission, granted_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(username, permission) DO NOTHING`, username, p); err != nil {
			return err
		}
	}
	return nil
}

func (r *PermissionRepo) Revoke(ctx context.Context, username string, perms ...string) error {
	for _, p := range perms {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM user_permissions WHERE username = ? AND permission = ?`, username, p); err != nil {
			return err
		}
	}
	return nil
}

// Replace swaps the user's permissions for perms atomically.
func (r *PermissionRepo) Replace(ctx context.Context, username string, perms []string) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM user_permissions WHERE username = ?`, username); err != nil {
			return err
		}
		for _, p := range perms {
			if _, err := tx.ExecContext(ctx, `INSERT INTO user_permissions(username, permission, granted_at) VALUES (?, ?, CURRENT_TIMESTAMP) ON CONFLICT(username, permission) DO NOTHING`, username, p); err != nil {
				return err
			}
		}
		return nil
	})
}
