package quotes

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rotacarga/rotacarga/internal/platform/db"
	"github.com/rotacarga/rotacarga/internal/platform/httpx"
	"github.com/rotacarga/rotacarga/internal/shipments"
)

// Repository provides PostgreSQL backed persistence for cotações.
type Repository struct {
	pool      *pgxpool.Pool
	shipments *shipments.Repository
}

// NewRepository constructs a repository. The shipments repository is needed
// so approval can insert the generated legs in the same transaction.
func NewRepository(pool *pgxpool.Pool, shipmentsRepo *shipments.Repository) *Repository {
	return &Repository{pool: pool, shipments: shipmentsRepo}
}

const cotacaoColumns = `
	id, numero_cotacao, cliente, origem, tipo_carga, cidades_entrega,
	distancia_km, peso_kg, volume_m3, valor_frete, validade_dias,
	numero_notas_fiscais, status_cotacao, observacao, viagens_geradas,
	criado_por, created_at, updated_at`

func scanCotacao(row pgx.Row) (Cotacao, error) {
	var c Cotacao
	err := row.Scan(
		&c.ID, &c.NumeroCotacao, &c.Cliente, &c.Origem, &c.TipoCarga, &c.CidadesEntrega,
		&c.DistanciaKm, &c.PesoKg, &c.VolumeM3, &c.ValorFrete, &c.ValidadeDias,
		&c.NumeroNotasFiscais, &c.StatusCotacao, &c.Observacao, &c.ViagensGeradas,
		&c.CriadoPor, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

// Create inserts a new cotação.
func (r *Repository) Create(ctx context.Context, c Cotacao) error {
	const query = `
		INSERT INTO cotacoes (
			id, numero_cotacao, cliente, origem, tipo_carga, cidades_entrega,
			distancia_km, peso_kg, volume_m3, valor_frete, validade_dias,
			numero_notas_fiscais, status_cotacao, observacao, viagens_geradas,
			criado_por, created_at, updated_at
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,NOW(),NOW()
		)`
	_, err := r.pool.Exec(ctx, query,
		c.ID, c.NumeroCotacao, c.Cliente, c.Origem, c.TipoCarga, c.CidadesEntrega,
		c.DistanciaKm, c.PesoKg, c.VolumeM3, c.ValorFrete, c.ValidadeDias,
		c.NumeroNotasFiscais, c.StatusCotacao, c.Observacao, c.ViagensGeradas,
		c.CriadoPor,
	)
	if err != nil {
		return fmt.Errorf("quotes: insert cotacao: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields of a cotação still under review.
func (r *Repository) Update(ctx context.Context, c Cotacao) error {
	const query = `
		UPDATE cotacoes SET
			cliente=$2, origem=$3, tipo_carga=$4, cidades_entrega=$5,
			distancia_km=$6, peso_kg=$7, volume_m3=$8, valor_frete=$9,
			validade_dias=$10, numero_notas_fiscais=$11, observacao=$12,
			updated_at=NOW()
		WHERE id=$1`
	tag, err := r.pool.Exec(ctx, query,
		c.ID, c.Cliente, c.Origem, c.TipoCarga, c.CidadesEntrega,
		c.DistanciaKm, c.PesoKg, c.VolumeM3, c.ValorFrete,
		c.ValidadeDias, c.NumeroNotasFiscais, c.Observacao,
	)
	if err != nil {
		return fmt.Errorf("quotes: update cotacao: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: cotação %s", httpx.ErrNotFound, c.ID)
	}
	return nil
}

// Get loads a cotação by id.
func (r *Repository) Get(ctx context.Context, id string) (*Cotacao, error) {
	query := `SELECT ` + cotacaoColumns + ` FROM cotacoes WHERE id=$1`
	c, err := scanCotacao(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: cotação %s", httpx.ErrNotFound, id)
		}
		return nil, fmt.Errorf("quotes: get cotacao: %w", err)
	}
	return &c, nil
}

// List returns every cotação in insertion order.
func (r *Repository) List(ctx context.Context) ([]Cotacao, error) {
	query := `SELECT ` + cotacaoColumns + ` FROM cotacoes ORDER BY created_at, id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("quotes: list cotacoes: %w", err)
	}
	defer rows.Close()

	var result []Cotacao
	for rows.Next() {
		c, err := scanCotacao(rows)
		if err != nil {
			return nil, fmt.Errorf("quotes: scan cotacao: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// CountByStatus returns how many cotações sit in each lifecycle state.
func (r *Repository) CountByStatus(ctx context.Context) (emAnalise, aprovadas int, err error) {
	const query = `
		SELECT
			COUNT(*) FILTER (WHERE status_cotacao = $1),
			COUNT(*) FILTER (WHERE status_cotacao = $2)
		FROM cotacoes`
	if err := r.pool.QueryRow(ctx, query, CotacaoEmAnalise, CotacaoAprovada).Scan(&emAnalise, &aprovadas); err != nil {
		return 0, 0, fmt.Errorf("quotes: count by status: %w", err)
	}
	return emAnalise, aprovadas, nil
}

// Approve flips the cotação to Aprovada and inserts its legs in one
// transaction. The WHERE clause re-checks the status so a concurrent
// approval cannot duplicate legs.
func (r *Repository) Approve(ctx context.Context, c Cotacao, legs []shipments.Viagem) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		const flip = `
			UPDATE cotacoes SET
				status_cotacao=$2, viagens_geradas=$3, updated_at=NOW()
			WHERE id=$1 AND status_cotacao=$4`
		tag, err := tx.Exec(ctx, flip, c.ID, CotacaoAprovada, c.ViagensGeradas, CotacaoEmAnalise)
		if err != nil {
			return fmt.Errorf("quotes: flip status: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrAlreadyApproved
		}
		for _, leg := range legs {
			if err := r.shipments.CreateTx(ctx, tx, leg); err != nil {
				return err
			}
		}
		return nil
	})
}
