package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"evals/internal/domain/auth"
	"evals/internal/platform/config"
)

// Seed bootstraps the admin account and a small demo org so a fresh install
// is immediately usable. Every step is idempotent.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.SeedAdminEmail == "" || cfg.SeedAdminPassword == "" {
		return nil
	}

	orgUnitID, err := ensureNamed(ctx, pool, "org_units", "General")
	if err != nil {
		return err
	}
	positionID, err := ensureNamed(ctx, pool, "positions", "Staff")
	if err != nil {
		return err
	}

	adminEmployeeID, err := ensureEmployee(ctx, pool, "Administrator", auth.RoleAdmin, orgUnitID, positionID)
	if err != nil {
		return err
	}

	return ensureUser(ctx, pool, cfg.SeedAdminEmail, cfg.SeedAdminPassword, auth.RoleAdmin, adminEmployeeID)
}

func ensureNamed(ctx context.Context, pool *pgxpool.Pool, table, name string) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM "+table+" WHERE name = $1", name).Scan(&id)
	if err == nil {
		return id, nil
	}

	err = pool.QueryRow(ctx, "INSERT INTO "+table+" (name) VALUES ($1) RETURNING id", name).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func ensureEmployee(ctx context.Context, pool *pgxpool.Pool, name, role, orgUnitID, positionID string) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM employees WHERE name = $1 AND role = $2", name, role).Scan(&id)
	if err == nil {
		return id, nil
	}

	err = pool.QueryRow(ctx, `
    INSERT INTO employees (name, role, org_unit_id, position_id, status)
    VALUES ($1, $2, $3, $4, 'active')
    RETURNING id
  `, name, role, orgUnitID, positionID).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func ensureUser(ctx context.Context, pool *pgxpool.Pool, email, password, role, employeeID string) error {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&id)
	if err == nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
    INSERT INTO users (email, password_hash, role, employee_id, status)
    VALUES ($1, $2, $3, $4, 'active')
  `, email, hash, role, employeeID)
	return err
}
