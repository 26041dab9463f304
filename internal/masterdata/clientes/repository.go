package clientes

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rotacarga/rotacarga/internal/masterdata/shared"
	"github.com/rotacarga/rotacarga/internal/platform/httpx"
)

// Repository defines cliente persistence.
type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Cliente, int, error)
	Get(ctx context.Context, id string) (Cliente, error)
	Create(ctx context.Context, c Cliente) error
	Update(ctx context.Context, c Cliente) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const columns = `id, nome, contato, email, documento, cidade, observacao, created_at, updated_at`

func scan(row pgx.Row) (Cliente, error) {
	var c Cliente
	err := row.Scan(&c.ID, &c.Nome, &c.Contato, &c.Email, &c.Documento, &c.Cidade, &c.Observacao, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Cliente, int, error) {
	limit, offset := filters.Normalize()

	var args []any
	query := `SELECT ` + columns + ` FROM clientes`
	countQuery := `SELECT COUNT(*) FROM clientes`
	if filters.Search != "" {
		cond := ` WHERE nome ILIKE $1 OR documento ILIKE $1 OR cidade ILIKE $1`
		query += cond
		countQuery += cond
		args = append(args, "%"+filters.Search+"%")
	}
	query += fmt.Sprintf(` ORDER BY nome LIMIT %d OFFSET %d`, limit, offset)

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("clientes: count: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("clientes: list: %w", err)
	}
	defer rows.Close()

	var result []Cliente
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("clientes: scan: %w", err)
		}
		result = append(result, c)
	}
	return result, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (Cliente, error) {
	c, err := scan(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM clientes WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Cliente{}, fmt.Errorf("%w: cliente %s", httpx.ErrNotFound, id)
		}
		return Cliente{}, fmt.Errorf("clientes: get: %w", err)
	}
	return c, nil
}

func (r *repository) Create(ctx context.Context, c Cliente) error {
	const query = `
		INSERT INTO clientes (id, nome, contato, email, documento, cidade, observacao, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,NOW(),NOW())`
	_, err := r.pool.Exec(ctx, query, c.ID, c.Nome, c.Contato, c.Email, c.Documento, c.Cidade, c.Observacao)
	if err != nil {
		return fmt.Errorf("clientes: insert: %w", err)
	}
	return nil
}

func (r *repository) Update(ctx context.Context, c Cliente) error {
	const query = `
		UPDATE clientes SET nome=$2, contato=$3, email=$4, documento=$5, cidade=$6, observacao=$7, updated_at=NOW()
		WHERE id=$1`
	tag, err := r.pool.Exec(ctx, query, c.ID, c.Nome, c.Contato, c.Email, c.Documento, c.Cidade, c.Observacao)
	if err != nil {
		return fmt.Errorf("clientes: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: cliente %s", httpx.ErrNotFound, c.ID)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM clientes WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("clientes: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: cliente %s", httpx.ErrNotFound, id)
	}
	return nil
}
