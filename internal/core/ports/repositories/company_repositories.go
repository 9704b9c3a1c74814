package repositories

import (
	"context"

	"github.com/expensehq/expense_mgmt_app/internal/core/domain"
)

// CompanyReader defines read operations for company data
type CompanyReader interface {
	// FindCompanyByID retrieves a company by its ID.
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)
}

// CompanyWriter defines write operations for company data
type CompanyWriter interface {
	// SaveCompany persists a new company.
	SaveCompany(ctx context.Context, company domain.Company) error
}

// CompanyRepositoryFacade combines all company-related repository interfaces
type CompanyRepositoryFacade interface {
	CompanyReader
	CompanyWriter
}

// CategoryReader defines read operations for expense categories
type CategoryReader interface {
	// FindCategoryByID retrieves a category by its ID.
	FindCategoryByID(ctx context.Context, categoryID string) (*domain.ExpenseCategory, error)

	// ListCategoriesByCompany retrieves a company's categories.
	ListCategoriesByCompany(ctx context.Context, companyID string) ([]domain.ExpenseCategory, error)
}

// CategoryWriter defines write operations for expense categories
type CategoryWriter interface {
	// SaveCategory persists a new category.
	SaveCategory(ctx context.Context, category domain.ExpenseCategory) error

	// UpdateCategory updates an existing category.
	UpdateCategory(ctx context.Context, category domain.ExpenseCategory) error
}

// CategoryRepositoryFacade combines all category-related repository interfaces
type CategoryRepositoryFacade interface {
	CategoryReader
	CategoryWriter
}
