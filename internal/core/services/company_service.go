package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/expensehq/expense_mgmt_app/internal/apperrors"
	"github.com/expensehq/expense_mgmt_app/internal/core/domain"
	portsrepo "github.com/expensehq/expense_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/expensehq/expense_mgmt_app/internal/core/ports/services"
	"github.com/expensehq/expense_mgmt_app/internal/middleware"
)

// defaultCategoryNames are seeded for every new company so the first expense
// can be filed right after signup.
var defaultCategoryNames = []string{"Travel", "Meals", "Office Supplies", "Other"}

// CompanyService handles business logic related to companies.
type CompanyService struct {
	companyRepo  portsrepo.CompanyRepositoryFacade
	categoryRepo portsrepo.CategoryRepositoryFacade
	currencyRepo portsrepo.CurrencyReader
}

// NewCompanyService creates a new CompanyService.
func NewCompanyService(companyRepo portsrepo.CompanyRepositoryFacade, categoryRepo portsrepo.CategoryRepositoryFacade, currencyRepo portsrepo.CurrencyReader) portssvc.CompanySvcFacade {
	return &CompanyService{
		companyRepo:  companyRepo,
		categoryRepo: categoryRepo,
		currencyRepo: currencyRepo,
	}
}

var _ portssvc.CompanySvcFacade = (*CompanyService)(nil)

func (s *CompanyService) GetCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get company %s: %w", companyID, err)
	}
	return company, nil
}

// CreateCompany creates a company with its reporting currency and seeds the
// default expense categories.
func (s *CompanyService) CreateCompany(ctx context.Context, name string, currencyCode string, creatorUserID string) (*domain.Company, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	currencyCode = strings.ToUpper(currencyCode)
	if _, err := s.currencyRepo.FindCurrencyByCode(ctx, currencyCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: currency code %s", apperrors.ErrUnknownCurrency, currencyCode)
		}
		return nil, fmt.Errorf("failed to validate currency code: %w", err)
	}

	now := time.Now().UTC()
	company := domain.Company{
		CompanyID:    uuid.NewString(),
		Name:         name,
		CurrencyCode: currencyCode,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.companyRepo.SaveCompany(ctx, company); err != nil {
		logger.Error("Failed to save company", slog.String("error", err.Error()), slog.String("company_name", name))
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	for _, categoryName := range defaultCategoryNames {
		category := domain.ExpenseCategory{
			CategoryID: uuid.NewString(),
			CompanyID:  company.CompanyID,
			Name:       categoryName,
			IsActive:   true,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     creatorUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: creatorUserID,
			},
		}
		if err := s.categoryRepo.SaveCategory(ctx, category); err != nil {
			// The company remains usable without seeds; admins can add
			// categories manually.
			logger.Error("Failed to seed default category",
				slog.String("company_id", company.CompanyID),
				slog.String("category_name", categoryName),
				slog.String("error", err.Error()))
		}
	}

	logger.Info("Company created",
		slog.String("company_id", company.CompanyID),
		slog.String("currency_code", currencyCode))
	return &company, nil
}
