package mapping

import (
	"github.com/expensehq/expense_mgmt_app/internal/core/domain"
	"github.com/expensehq/expense_mgmt_app/internal/models"
)

// ToModelCompany converts a domain Company to a model Company
func ToModelCompany(d domain.Company) models.Company {
	return models.Company{
		CompanyID:    d.CompanyID,
		Name:         d.Name,
		CurrencyCode: d.CurrencyCode,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCompany converts a model Company to a domain Company
func ToDomainCompany(m models.Company) domain.Company {
	return domain.Company{
		CompanyID:    m.CompanyID,
		Name:         m.Name,
		CurrencyCode: m.CurrencyCode,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelCategory converts a domain ExpenseCategory to a model ExpenseCategory
func ToModelCategory(d domain.ExpenseCategory) models.ExpenseCategory {
	return models.ExpenseCategory{
		CategoryID:  d.CategoryID,
		CompanyID:   d.CompanyID,
		Name:        d.Name,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCategory converts a model ExpenseCategory to a domain ExpenseCategory
func ToDomainCategory(m models.ExpenseCategory) domain.ExpenseCategory {
	return domain.ExpenseCategory{
		CategoryID:  m.CategoryID,
		CompanyID:   m.CompanyID,
		Name:        m.Name,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCategorySlice converts a slice of model categories to domain categories.
func ToDomainCategorySlice(ms []models.ExpenseCategory) []domain.ExpenseCategory {
	ds := make([]domain.ExpenseCategory, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCategory(m)
	}
	return ds
}
