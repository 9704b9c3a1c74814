package services

import (
	"context"

	"github.com/expensehq/expense_mgmt_app/internal/core/domain"
	"github.com/expensehq/expense_mgmt_app/internal/dto"
)

// CompanyReaderSvc defines read operations for company data
type CompanyReaderSvc interface {
	// GetCompanyByID retrieves a company by ID.
	GetCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)
}

// CompanyWriterSvc defines write operations for company data
type CompanyWriterSvc interface {
	// CreateCompany persists a new company with its reporting currency.
	CreateCompany(ctx context.Context, name string, currencyCode string, creatorUserID string) (*domain.Company, error)
}

// CompanySvcFacade combines all company-related service interfaces
type CompanySvcFacade interface {
	CompanyReaderSvc
	CompanyWriterSvc
}

// CategoryReaderSvc defines read operations for expense categories
type CategoryReaderSvc interface {
	// GetCategoryByID retrieves a category by ID within a company.
	GetCategoryByID(ctx context.Context, companyID string, categoryID string) (*domain.ExpenseCategory, error)

	// ListCategoriesByCompany retrieves all categories of a company.
	ListCategoriesByCompany(ctx context.Context, companyID string) ([]domain.ExpenseCategory, error)
}

// CategoryWriterSvc defines write operations for expense categories
type CategoryWriterSvc interface {
	// CreateCategory persists a new category within a company.
	CreateCategory(ctx context.Context, companyID string, req dto.CreateCategoryRequest, creatorUserID string) (*domain.ExpenseCategory, error)

	// UpdateCategory updates an existing category.
	UpdateCategory(ctx context.Context, companyID string, categoryID string, req dto.UpdateCategoryRequest, requestingUserID string) (*domain.ExpenseCategory, error)
}

// CategorySvcFacade combines all category-related service interfaces
type CategorySvcFacade interface {
	CategoryReaderSvc
	CategoryWriterSvc
}
