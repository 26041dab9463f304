package motoristas

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rotacarga/rotacarga/internal/masterdata/shared"
	"github.com/rotacarga/rotacarga/internal/platform/httpx"
)

// Repository defines motorista persistence.
type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Motorista, int, error)
	Get(ctx context.Context, id string) (Motorista, error)
	Create(ctx context.Context, m Motorista) error
	Update(ctx context.Context, m Motorista) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const columns = `id, nome, contato, cnh, categoria_cnh, observacao, created_at, updated_at`

func scan(row pgx.Row) (Motorista, error) {
	var m Motorista
	err := row.Scan(&m.ID, &m.Nome, &m.Contato, &m.CNH, &m.CategoriaCNH, &m.Observacao, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Motorista, int, error) {
	limit, offset := filters.Normalize()

	var args []any
	query := `SELECT ` + columns + ` FROM motoristas`
	countQuery := `SELECT COUNT(*) FROM motoristas`
	if filters.Search != "" {
		cond := ` WHERE nome ILIKE $1 OR cnh ILIKE $1`
		query += cond
		countQuery += cond
		args = append(args, "%"+filters.Search+"%")
	}
	query += fmt.Sprintf(` ORDER BY nome LIMIT %d OFFSET %d`, limit, offset)

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("motoristas: count: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("motoristas: list: %w", err)
	}
	defer rows.Close()

	var result []Motorista
	for rows.Next() {
		m, err := scan(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("motoristas: scan: %w", err)
		}
		result = append(result, m)
	}
	return result, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (Motorista, error) {
	m, err := scan(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM motoristas WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Motorista{}, fmt.Errorf("%w: motorista %s", httpx.ErrNotFound, id)
		}
		return Motorista{}, fmt.Errorf("motoristas: get: %w", err)
	}
	return m, nil
}

func (r *repository) Create(ctx context.Context, m Motorista) error {
	const query = `
		INSERT INTO motoristas (id, nome, contato, cnh, categoria_cnh, observacao, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,NOW(),NOW())`
	_, err := r.pool.Exec(ctx, query, m.ID, m.Nome, m.Contato, m.CNH, m.CategoriaCNH, m.Observacao)
	if err != nil {
		return fmt.Errorf("motoristas: insert: %w", err)
	}
	return nil
}

func (r *repository) Update(ctx context.Context, m Motorista) error {
	const query = `
		UPDATE motoristas SET nome=$2, contato=$3, cnh=$4, categoria_cnh=$5, observacao=$6, updated_at=NOW()
		WHERE id=$1`
	tag, err := r.pool.Exec(ctx, query, m.ID, m.Nome, m.Contato, m.CNH, m.CategoriaCNH, m.Observacao)
	if err != nil {
		return fmt.Errorf("motoristas: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: motorista %s", httpx.ErrNotFound, m.ID)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM motoristas WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("motoristas: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: motorista %s", httpx.ErrNotFound, id)
	}
	return nil
}
