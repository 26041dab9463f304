package veiculos

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rotacarga/rotacarga/internal/masterdata/shared"
	"github.com/rotacarga/rotacarga/internal/platform/httpx"
)

// Repository defines veiculo persistence.
type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Veiculo, int, error)
	Get(ctx context.Context, id string) (Veiculo, error)
	Create(ctx context.Context, v Veiculo) error
	Update(ctx context.Context, v Veiculo) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const columns = `id, modelo, placa, tipo, capacidade_t, observacao, created_at, updated_at`

func scan(row pgx.Row) (Veiculo, error) {
	var v Veiculo
	err := row.Scan(&v.ID, &v.Modelo, &v.Placa, &v.Tipo, &v.CapacidadeT, &v.Observacao, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Veiculo, int, error) {
	limit, offset := filters.Normalize()

	var args []any
	query := `SELECT ` + columns + ` FROM veiculos`
	countQuery := `SELECT COUNT(*) FROM veiculos`
	if filters.Search != "" {
		cond := ` WHERE modelo ILIKE $1 OR placa ILIKE $1 OR tipo ILIKE $1`
		query += cond
		countQuery += cond
		args = append(args, "%"+filters.Search+"%")
	}
	query += fmt.Sprintf(` ORDER BY placa LIMIT %d OFFSET %d`, limit, offset)

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("veiculos: count: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("veiculos: list: %w", err)
	}
	defer rows.Close()

	var result []Veiculo
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("veiculos: scan: %w", err)
		}
		result = append(result, v)
	}
	return result, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (Veiculo, error) {
	v, err := scan(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM veiculos WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Veiculo{}, fmt.Errorf("%w: veículo %s", httpx.ErrNotFound, id)
		}
		return Veiculo{}, fmt.Errorf("veiculos: get: %w", err)
	}
	return v, nil
}

func (r *repository) Create(ctx context.Context, v Veiculo) error {
	const query = `
		INSERT INTO veiculos (id, modelo, placa, tipo, capacidade_t, observacao, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,NOW(),NOW())`
	_, err := r.pool.Exec(ctx, query, v.ID, v.Modelo, v.Placa, v.Tipo, v.CapacidadeT, v.Observacao)
	if err != nil {
		return fmt.Errorf("veiculos: insert: %w", err)
	}
	return nil
}

func (r *repository) Update(ctx context.Context, v Veiculo) error {
	const query = `
		UPDATE veiculos SET modelo=$2, placa=$3, tipo=$4, capacidade_t=$5, observacao=$6, updated_at=NOW()
		WHERE id=$1`
	tag, err := r.pool.Exec(ctx, query, v.ID, v.Modelo, v.Placa, v.Tipo, v.CapacidadeT, v.Observacao)
	if err != nil {
		return fmt.Errorf("veiculos: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: veículo %s", httpx.ErrNotFound, v.ID)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM veiculos WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("veiculos: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: veículo %s", httpx.ErrNotFound, id)
	}
	return nil
}
