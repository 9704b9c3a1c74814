package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/expensehq/expense_mgmt_app/internal/apperrors"
	"github.com/expensehq/expense_mgmt_app/internal/core/domain"
	portsrepo "github.com/expensehq/expense_mgmt_app/internal/core/ports/repositories"
	"github.com/expensehq/expense_mgmt_app/internal/models"
	"github.com/expensehq/expense_mgmt_app/internal/utils/mapping"
)

// PgxCurrencyRepository implements portsrepo.CurrencyRepositoryFacade using pgx.
type PgxCurrencyRepository struct {
	BaseRepository
}

func newPgxCurrencyRepository(db PGXQuerier) *PgxCurrencyRepository {
	return &PgxCurrencyRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.CurrencyRepositoryFacade = (*PgxCurrencyRepository)(nil)

func (r *PgxCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	m := mapping.ToModelCurrency(currency)
	m.CurrencyCode = strings.ToUpper(m.CurrencyCode)
	query := `
        INSERT INTO currencies (currency_code, symbol, name, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (currency_code) DO UPDATE SET
            symbol = EXCLUDED.symbol,
            name = EXCLUDED.name,
            last_updated_at = EXCLUDED.last_updated_at,
            last_updated_by = EXCLUDED.last_updated_by;
    `
	_, err := r.DB.Exec(ctx, query,
		m.CurrencyCode,
		m.Symbol,
		m.Name,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save currency: %w", err)
	}
	return nil
}

func (r *PgxCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	query := `
        SELECT currency_code, symbol, name, created_at, created_by, last_updated_at, last_updated_by
        FROM currencies
        WHERE currency_code = $1;
    `
	var m models.Currency
	err := r.DB.QueryRow(ctx, query, strings.ToUpper(currencyCode)).Scan(
		&m.CurrencyCode,
		&m.Symbol,
		&m.Name,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find currency %s: %w", currencyCode, err)
	}
	currency := mapping.ToDomainCurrency(m)
	return &currency, nil
}

func (r *PgxCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	query := `
        SELECT currency_code, symbol, name, created_at, created_by, last_updated_at, last_updated_by
        FROM currencies
        ORDER BY currency_code ASC;
    `
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query currencies: %w", err)
	}
	defer rows.Close()

	modelCurrencies := []models.Currency{}
	for rows.Next() {
		var m models.Currency
		err := rows.Scan(
			&m.CurrencyCode,
			&m.Symbol,
			&m.Name,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan currency row: %w", err)
		}
		modelCurrencies = append(modelCurrencies, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating currency rows: %w", rows.Err())
	}
	return mapping.ToDomainCurrencySlice(modelCurrencies), nil
}
