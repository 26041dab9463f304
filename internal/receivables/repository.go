package receivables

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rotacarga/rotacarga/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence for financeiro records.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const financeiroColumns = `
	id, viagem_id, numero_nf, numero_carga, numero_cte, contratante,
	destinatario, cidade, status_viagem, valor_frete, valor_distribuicao,
	metodo_pagamento, numero_boleto, data_vencimento, status_financeiro,
	data_pagamento, observacao, created_at, updated_at`

func scanFinanceiro(row pgx.Row) (Financeiro, error) {
	var f Financeiro
	err := row.Scan(
		&f.ID, &f.ViagemID, &f.NumeroNF, &f.NumeroCarga, &f.NumeroCTe, &f.Contratante,
		&f.Destinatario, &f.Cidade, &f.StatusViagem, &f.ValorFrete, &f.ValorDistribuicao,
		&f.MetodoPagamento, &f.NumeroBoleto, &f.DataVencimento, &f.StatusFinanceiro,
		&f.DataPagamento, &f.Observacao, &f.CreatedAt, &f.UpdatedAt,
	)
	return f, err
}

// Upsert merges the mirror of a viagem into its receivable. The key makes the
// operation idempotent; the status CASE keeps any non-Pendente payment status
// a person already set, and the WHERE clause skips the write entirely when
// nothing would change.
func (r *Repository) Upsert(ctx context.Context, f Financeiro) error {
	const query = `
		INSERT INTO financeiro (
			id, viagem_id, numero_nf, numero_carga, numero_cte, contratante,
			destinatario, cidade, status_viagem, valor_frete, valor_distribuicao,
			metodo_pagamento, numero_boleto, data_vencimento, status_financeiro,
			data_pagamento, observacao, created_at, updated_at
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,'','',NOW(),NOW()
		)
		ON CONFLICT (id) DO UPDATE SET
			viagem_id=EXCLUDED.viagem_id,
			numero_nf=EXCLUDED.numero_nf,
			numero_carga=EXCLUDED.numero_carga,
			numero_cte=EXCLUDED.numero_cte,
			contratante=EXCLUDED.contratante,
			destinatario=EXCLUDED.destinatario,
			cidade=EXCLUDED.cidade,
			status_viagem=EXCLUDED.status_viagem,
			valor_frete=EXCLUDED.valor_frete,
			valor_distribuicao=EXCLUDED.valor_distribuicao,
			metodo_pagamento=EXCLUDED.metodo_pagamento,
			numero_boleto=EXCLUDED.numero_boleto,
			data_vencimento=EXCLUDED.data_vencimento,
			status_financeiro=CASE
				WHEN financeiro.status_financeiro <> 'Pendente' AND EXCLUDED.status_financeiro = 'Pendente'
				THEN financeiro.status_financeiro
				ELSE EXCLUDED.status_financeiro
			END,
			updated_at=NOW()
		WHERE (
			financeiro.viagem_id, financeiro.numero_nf, financeiro.numero_carga,
			financeiro.numero_cte, financeiro.contratante, financeiro.destinatario,
			financeiro.cidade, financeiro.status_viagem, financeiro.valor_frete,
			financeiro.valor_distribuicao, financeiro.metodo_pagamento,
			financeiro.numero_boleto, financeiro.data_vencimento
		) IS DISTINCT FROM (
			EXCLUDED.viagem_id, EXCLUDED.numero_nf, EXCLUDED.numero_carga,
			EXCLUDED.numero_cte, EXCLUDED.contratante, EXCLUDED.destinatario,
			EXCLUDED.cidade, EXCLUDED.status_viagem, EXCLUDED.valor_frete,
			EXCLUDED.valor_distribuicao, EXCLUDED.metodo_pagamento,
			EXCLUDED.numero_boleto, EXCLUDED.data_vencimento
		)`
	_, err := r.pool.Exec(ctx, query,
		f.ID, f.ViagemID, f.NumeroNF, f.NumeroCarga, f.NumeroCTe, f.Contratante,
		f.Destinatario, f.Cidade, f.StatusViagem, f.ValorFrete, f.ValorDistribuicao,
		f.MetodoPagamento, f.NumeroBoleto, f.DataVencimento, f.StatusFinanceiro,
	)
	if err != nil {
		return fmt.Errorf("receivables: upsert financeiro: %w", err)
	}
	return nil
}

// SetStatus records a payment status change made by a person.
func (r *Repository) SetStatus(ctx context.Context, id string, status StatusFinanceiro, dataPagamento string) error {
	const query = `
		UPDATE financeiro SET
			status_financeiro=$2, data_pagamento=$3, updated_at=NOW()
		WHERE id=$1`
	tag, err := r.pool.Exec(ctx, query, id, status, dataPagamento)
	if err != nil {
		return fmt.Errorf("receivables: set status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: financeiro %s", httpx.ErrNotFound, id)
	}
	return nil
}

// Get loads one financeiro record.
func (r *Repository) Get(ctx context.Context, id string) (*Financeiro, error) {
	query := `SELECT ` + financeiroColumns + ` FROM financeiro WHERE id=$1`
	f, err := scanFinanceiro(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: financeiro %s", httpx.ErrNotFound, id)
		}
		return nil, fmt.Errorf("receivables: get financeiro: %w", err)
	}
	return &f, nil
}

// List returns every financeiro record, insertion ordered.
func (r *Repository) List(ctx context.Context) ([]Financeiro, error) {
	query := `SELECT ` + financeiroColumns + ` FROM financeiro ORDER BY created_at, id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("receivables: list financeiro: %w", err)
	}
	defer rows.Close()

	var result []Financeiro
	for rows.Next() {
		f, err := scanFinanceiro(rows)
		if err != nil {
			return nil, fmt.Errorf("receivables: scan financeiro: %w", err)
		}
		result = append(result, f)
	}
	return result, rows.Err()
}

// Delete removes a financeiro record.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM financeiro WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("receivables: delete financeiro: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: financeiro %s", httpx.ErrNotFound, id)
	}
	return nil
}
