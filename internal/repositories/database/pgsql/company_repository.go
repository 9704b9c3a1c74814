package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/expensehq/expense_mgmt_app/internal/apperrors"
	"github.com/expensehq/expense_mgmt_app/internal/core/domain"
	portsrepo "github.com/expensehq/expense_mgmt_app/internal/core/ports/repositories"
	"github.com/expensehq/expense_mgmt_app/internal/models"
	"github.com/expensehq/expense_mgmt_app/internal/utils/mapping"
)

// PgxCompanyRepository implements portsrepo.CompanyRepositoryFacade using pgx.
type PgxCompanyRepository struct {
	BaseRepository
}

func newPgxCompanyRepository(db PGXQuerier) *PgxCompanyRepository {
	return &PgxCompanyRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.CompanyRepositoryFacade = (*PgxCompanyRepository)(nil)

func (r *PgxCompanyRepository) SaveCompany(ctx context.Context, company domain.Company) error {
	m := mapping.ToModelCompany(company)
	query := `
        INSERT INTO companies (company_id, name, currency_code, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7);
    `
	_, err := r.DB.Exec(ctx, query,
		m.CompanyID,
		m.Name,
		m.CurrencyCode,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("company %s already exists: %w", company.Name, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save company: %w", err)
	}
	return nil
}

func (r *PgxCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	query := `
        SELECT company_id, name, currency_code, created_at, created_by, last_updated_at, last_updated_by
        FROM companies
        WHERE company_id = $1;
    `
	var m models.Company
	err := r.DB.QueryRow(ctx, query, companyID).Scan(
		&m.CompanyID,
		&m.Name,
		&m.CurrencyCode,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find company by ID %s: %w", companyID, err)
	}
	company := mapping.ToDomainCompany(m)
	return &company, nil
}
