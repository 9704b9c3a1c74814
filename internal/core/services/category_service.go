package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/expensehq/expense_mgmt_app/internal/apperrors"
	"github.com/expensehq/expense_mgmt_app/internal/core/domain"
	portsrepo "github.com/expensehq/expense_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/expensehq/expense_mgmt_app/internal/core/ports/services"
	"github.com/expensehq/expense_mgmt_app/internal/dto"
)

// CategoryService handles business logic for expense categories.
type CategoryService struct {
	categoryRepo portsrepo.CategoryRepositoryFacade
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(categoryRepo portsrepo.CategoryRepositoryFacade) portssvc.CategorySvcFacade {
	return &CategoryService{categoryRepo: categoryRepo}
}

var _ portssvc.CategorySvcFacade = (*CategoryService)(nil)

func (s *CategoryService) GetCategoryByID(ctx context.Context, companyID string, categoryID string) (*domain.ExpenseCategory, error) {
	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return category, nil
}

func (s *CategoryService) ListCategoriesByCompany(ctx context.Context, companyID string) ([]domain.ExpenseCategory, error) {
	categories, err := s.categoryRepo.ListCategoriesByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	if categories == nil {
		return []domain.ExpenseCategory{}, nil
	}
	return categories, nil
}

func (s *CategoryService) CreateCategory(ctx context.Context, companyID string, req dto.CreateCategoryRequest, creatorUserID string) (*domain.ExpenseCategory, error) {
	now := time.Now().UTC()
	category := domain.ExpenseCategory{
		CategoryID: uuid.NewString(),
		CompanyID:  companyID,
		Name:       req.Name,
		IsActive:   true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := s.categoryRepo.SaveCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &category, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, companyID string, categoryID string, req dto.UpdateCategoryRequest, requestingUserID string) (*domain.ExpenseCategory, error) {
	category, err := s.GetCategoryByID(ctx, companyID, categoryID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	category.LastUpdatedAt = time.Now().UTC()
	category.LastUpdatedBy = requestingUserID

	if err := s.categoryRepo.UpdateCategory(ctx, *category); err != nil {
		return nil, fmt.Errorf("failed to update category %s: %w", categoryID, err)
	}
	return category, nil
}
