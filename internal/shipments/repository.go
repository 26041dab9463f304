package shipments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rotacarga/rotacarga/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence for viagens.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx so inserts can run
// inside a caller-owned transaction (quote approval creates legs atomically).
type dbtx interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const viagemColumns = `
	id, numero_nf, numero_carga, numero_cte, data_cte, chave_id, tipo_carga,
	contratante, destinatario, cidade, motorista, veiculo, status,
	valor_frete, valor_distribuicao, metodo_pagamento, numero_boleto,
	data_vencimento_boleto, url_comprovante, data_saida, data_entrega,
	observacao, criado_por, created_at, updated_at`

func scanViagem(row pgx.Row) (Viagem, error) {
	var v Viagem
	err := row.Scan(
		&v.ID, &v.NumeroNF, &v.NumeroCarga, &v.NumeroCTe, &v.DataCTe, &v.ChaveID, &v.TipoCarga,
		&v.Contratante, &v.Destinatario, &v.Cidade, &v.Motorista, &v.Veiculo, &v.Status,
		&v.ValorFrete, &v.ValorDistribuicao, &v.MetodoPagamento, &v.NumeroBoleto,
		&v.DataVencimentoBoleto, &v.URLComprovante, &v.DataSaida, &v.DataEntrega,
		&v.Observacao, &v.CriadoPor, &v.CreatedAt, &v.UpdatedAt,
	)
	return v, err
}

// Create inserts a new viagem.
func (r *Repository) Create(ctx context.Context, v Viagem) error {
	return insertViagem(ctx, r.pool, v)
}

// CreateTx inserts a new viagem inside an existing transaction.
func (r *Repository) CreateTx(ctx context.Context, tx pgx.Tx, v Viagem) error {
	return insertViagem(ctx, tx, v)
}

func insertViagem(ctx context.Context, db dbtx, v Viagem) error {
	const query = `
		INSERT INTO viagens (
			id, numero_nf, numero_carga, numero_cte, data_cte, chave_id, tipo_carga,
			contratante, destinatario, cidade, motorista, veiculo, status,
			valor_frete, valor_distribuicao, metodo_pagamento, numero_boleto,
			data_vencimento_boleto, url_comprovante, data_saida, data_entrega,
			observacao, criado_por, created_at, updated_at
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,NOW(),NOW()
		)`
	_, err := db.Exec(ctx, query,
		v.ID, v.NumeroNF, v.NumeroCarga, v.NumeroCTe, v.DataCTe, v.ChaveID, v.TipoCarga,
		v.Contratante, v.Destinatario, v.Cidade, v.Motorista, v.Veiculo, v.Status,
		v.ValorFrete, v.ValorDistribuicao, v.MetodoPagamento, v.NumeroBoleto,
		v.DataVencimentoBoleto, v.URLComprovante, v.DataSaida, v.DataEntrega,
		v.Observacao, v.CriadoPor,
	)
	if err != nil {
		return fmt.Errorf("shipments: insert viagem: %w", err)
	}
	return nil
}

// Update rewrites every mutable field of a viagem.
func (r *Repository) Update(ctx context.Context, v Viagem) error {
	const query = `
		UPDATE viagens SET
			numero_nf=$2, numero_carga=$3, numero_cte=$4, data_cte=$5, chave_id=$6,
			tipo_carga=$7, contratante=$8, destinatario=$9, cidade=$10, motorista=$11,
			veiculo=$12, status=$13, valor_frete=$14, valor_distribuicao=$15,
			metodo_pagamento=$16, numero_boleto=$17, data_vencimento_boleto=$18,
			url_comprovante=$19, data_saida=$20, data_entrega=$21, observacao=$22,
			updated_at=NOW()
		WHERE id=$1`
	tag, err := r.pool.Exec(ctx, query,
		v.ID, v.NumeroNF, v.NumeroCarga, v.NumeroCTe, v.DataCTe, v.ChaveID,
		v.TipoCarga, v.Contratante, v.Destinatario, v.Cidade, v.Motorista,
		v.Veiculo, v.Status, v.ValorFrete, v.ValorDistribuicao,
		v.MetodoPagamento, v.NumeroBoleto, v.DataVencimentoBoleto,
		v.URLComprovante, v.DataSaida, v.DataEntrega, v.Observacao,
	)
	if err != nil {
		return fmt.Errorf("shipments: update viagem: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: viagem %s", httpx.ErrNotFound, v.ID)
	}
	return nil
}

// Delete removes a viagem by id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM viagens WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("shipments: delete viagem: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: viagem %s", httpx.ErrNotFound, id)
	}
	return nil
}

// Get loads a viagem by id.
func (r *Repository) Get(ctx context.Context, id string) (*Viagem, error) {
	query := `SELECT ` + viagemColumns + ` FROM viagens WHERE id=$1`
	v, err := scanViagem(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: viagem %s", httpx.ErrNotFound, id)
		}
		return nil, fmt.Errorf("shipments: get viagem: %w", err)
	}
	return &v, nil
}

// ListFilter narrows and pages viagem listings.
type ListFilter struct {
	Search  string
	Page    int
	PerPage int
}

func (f *ListFilter) normalize() (limit, offset int) {
	perPage := f.PerPage
	if perPage <= 0 {
		perPage = 50
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	return perPage, (page - 1) * perPage
}

// List returns a page of viagens plus the unfiltered total.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Viagem, int, error) {
	limit, offset := filter.normalize()

	var args []any
	query := `SELECT ` + viagemColumns + ` FROM viagens`
	countQuery := `SELECT COUNT(*) FROM viagens`
	if s := strings.TrimSpace(filter.Search); s != "" {
		cond := ` WHERE numero_nf ILIKE $1 OR numero_carga ILIKE $1 OR contratante ILIKE $1 OR destinatario ILIKE $1 OR cidade ILIKE $1`
		query += cond
		countQuery += cond
		args = append(args, "%"+s+"%")
	}
	query += fmt.Sprintf(` ORDER BY created_at, id LIMIT %d OFFSET %d`, limit, offset)

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("shipments: count viagens: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("shipments: list viagens: %w", err)
	}
	defer rows.Close()

	var result []Viagem
	for rows.Next() {
		v, err := scanViagem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("shipments: scan viagem: %w", err)
		}
		result = append(result, v)
	}
	return result, total, rows.Err()
}

// ListAll returns every viagem in insertion order, for derivations that need
// the whole live set (cargo rollups, receivable reconciliation, dashboards).
func (r *Repository) ListAll(ctx context.Context) ([]Viagem, error) {
	query := `SELECT ` + viagemColumns + ` FROM viagens ORDER BY created_at, id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("shipments: list all viagens: %w", err)
	}
	defer rows.Close()

	var result []Viagem
	for rows.Next() {
		v, err := scanViagem(rows)
		if err != nil {
			return nil, fmt.Errorf("shipments: scan viagem: %w", err)
		}
		result = append(result, v)
	}
	return result, rows.Err()
}

// ListCargoNumbers returns every numeroCarga, used to seed the cargo sequence.
func (r *Repository) ListCargoNumbers(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT numero_carga FROM viagens WHERE numero_carga <> ''`)
	if err != nil {
		return nil, fmt.Errorf("shipments: list cargo numbers: %w", err)
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

// FindByDocRef matches a viagem by normalized invoice number, CT-e number or
// access key. The reference must already be normalized (lowercase, no spaces).
func (r *Repository) FindByDocRef(ctx context.Context, ref string) (*Viagem, error) {
	query := `SELECT ` + viagemColumns + ` FROM viagens
		WHERE lower(regexp_replace(numero_nf, '\s', '', 'g')) = $1
		   OR lower(regexp_replace(numero_cte, '\s', '', 'g')) = $1
		   OR lower(regexp_replace(chave_id, '\s', '', 'g')) = $1
		ORDER BY created_at DESC
		LIMIT 1`
	v, err := scanViagem(r.pool.QueryRow(ctx, query, ref))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: documento %s", httpx.ErrNotFound, ref)
		}
		return nil, fmt.Errorf("shipments: find by doc ref: %w", err)
	}
	return &v, nil
}
