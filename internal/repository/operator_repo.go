package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"school-admin/internal/model"
)

type OperatorRepository struct {
	pool *pgxpool.Pool
}

func NewOperatorRepository(pool *pgxpool.Pool) *OperatorRepository {
	return &OperatorRepository{pool: pool}
}

func (r *OperatorRepository) FindByID(ctx context.Context, id string) (model.Operator, error) {
	var op model.Operator
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, role, created_at
		 FROM operators WHERE id = $1`, id).
		Scan(&op.ID, &op.Username, &op.PasswordHash, &op.Role, &op.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Operator{}, fmt.Errorf("%w: %s", model.ErrUserNotFound, id)
	}
	if err != nil {
		return model.Operator{}, fmt.Errorf("find operator by id: %w", err)
	}
	return op, nil
}

func (r *OperatorRepository) FindByUsername(ctx context.Context, username string) (model.Operator, error) {
	var op model.Operator
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, role, created_at
		 FROM operators WHERE lower(username) = lower($1)`, strings.TrimSpace(username)).
		Scan(&op.ID, &op.Username, &op.PasswordHash, &op.Role, &op.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Operator{}, fmt.Errorf("%w: %s", model.ErrUserNotFound, username)
	}
	if err != nil {
		return model.Operator{}, fmt.Errorf("find operator by username: %w", err)
	}
	return op, nil
}

func (r *OperatorRepository) CreateOperator(ctx context.Context, op model.Operator) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO operators (id, username, password_hash, role, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		op.ID, op.Username, op.PasswordHash, op.Role, op.CreatedAt)
	if err != nil {
		return fmt.Errorf("create operator: %w", err)
	}
	return nil
}

func (r *OperatorRepository) CountOperators(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM operators`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count operators: %w", err)
	}
	return count, nil
}
