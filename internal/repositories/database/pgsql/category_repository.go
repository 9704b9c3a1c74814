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

// PgxCategoryRepository implements portsrepo.CategoryRepositoryFacade using pgx.
type PgxCategoryRepository struct {
	BaseRepository
}

func newPgxCategoryRepository(db PGXQuerier) *PgxCategoryRepository {
	return &PgxCategoryRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.CategoryRepositoryFacade = (*PgxCategoryRepository)(nil)

func (r *PgxCategoryRepository) SaveCategory(ctx context.Context, category domain.ExpenseCategory) error {
	m := mapping.ToModelCategory(category)
	query := `
        INSERT INTO expense_categories (category_id, company_id, name, is_active, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
    `
	_, err := r.DB.Exec(ctx, query,
		m.CategoryID,
		m.CompanyID,
		m.Name,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("category %s already exists: %w", category.Name, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save category: %w", err)
	}
	return nil
}

func (r *PgxCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.ExpenseCategory, error) {
	query := `
        SELECT category_id, company_id, name, is_active, created_at, created_by, last_updated_at, last_updated_by
        FROM expense_categories
        WHERE category_id = $1;
    `
	var m models.ExpenseCategory
	err := r.DB.QueryRow(ctx, query, categoryID).Scan(
		&m.CategoryID,
		&m.CompanyID,
		&m.Name,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find category by ID %s: %w", categoryID, err)
	}
	category := mapping.ToDomainCategory(m)
	return &category, nil
}

func (r *PgxCategoryRepository) ListCategoriesByCompany(ctx context.Context, companyID string) ([]domain.ExpenseCategory, error) {
	query := `
        SELECT category_id, company_id, name, is_active, created_at, created_by, last_updated_at, last_updated_by
        FROM expense_categories
        WHERE company_id = $1
        ORDER BY name ASC;
    `
	rows, err := r.DB.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	modelCategories := []models.ExpenseCategory{}
	for rows.Next() {
		var m models.ExpenseCategory
		err := rows.Scan(
			&m.CategoryID,
			&m.CompanyID,
			&m.Name,
			&m.IsActive,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		modelCategories = append(modelCategories, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", rows.Err())
	}
	return mapping.ToDomainCategorySlice(modelCategories), nil
}

func (r *PgxCategoryRepository) UpdateCategory(ctx context.Context, category domain.ExpenseCategory) error {
	m := mapping.ToModelCategory(category)
	query := `
        UPDATE expense_categories
        SET name = $1, is_active = $2, last_updated_at = $3, last_updated_by = $4
        WHERE category_id = $5;
    `
	cmdTag, err := r.DB.Exec(ctx, query,
		m.Name,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.CategoryID,
	)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("category not found: %w", apperrors.ErrNotFound)
	}
	return nil
}
