package dto

import (
	"github.com/expensehq/expense_mgmt_app/internal/core/domain"
)

// CreateCategoryRequest defines data for creating an expense category.
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateCategoryRequest defines data for updating an expense category.
type UpdateCategoryRequest struct {
	Name     *string `json:"name,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// CategoryResponse defines data returned for a category.
type CategoryResponse struct {
	CategoryID string `json:"categoryID"`
	CompanyID  string `json:"companyID"`
	Name       string `json:"name"`
	IsActive   bool   `json:"isActive"`
}

// ToCategoryResponse converts domain.ExpenseCategory to DTO.
func ToCategoryResponse(c *domain.ExpenseCategory) CategoryResponse {
	return CategoryResponse{
		CategoryID: c.CategoryID,
		CompanyID:  c.CompanyID,
		Name:       c.Name,
		IsActive:   c.IsActive,
	}
}

// ListCategoriesResponse wraps a list of categories.
type ListCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

// ToListCategoriesResponse converts a slice of domain.ExpenseCategory to DTO.
func ToListCategoriesResponse(cs []domain.ExpenseCategory) ListCategoriesResponse {
	list := make([]CategoryResponse, len(cs))
	for i := range cs {
		list[i] = ToCategoryResponse(&cs[i])
	}
	return ListCategoriesResponse{Categories: list}
}
