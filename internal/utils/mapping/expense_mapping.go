package mapping

import (
	"github.com/expensehq/expense_mgmt_app/internal/core/domain"
	"github.com/expensehq/expense_mgmt_app/internal/models"
)

// ToModelExpense converts a domain Expense to a model Expense.
// The approval trail is persisted separately (approval_decisions table).
func ToModelExpense(d domain.Expense) models.Expense {
	return models.Expense{
		ExpenseID:           d.ExpenseID,
		EmployeeID:          d.EmployeeID,
		CompanyID:           d.CompanyID,
		Amount:              d.Amount,
		CurrencyCode:        d.CurrencyCode,
		CompanyCurrencyCode: d.CompanyCurrencyCode,
		ConvertedAmount:     d.ConvertedAmount,
		CategoryID:          d.CategoryID,
		Description:         d.Description,
		ExpenseDate:         d.ExpenseDate,
		Status:              string(d.Status),
		CurrentStepIndex:    d.CurrentStepIndex,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExpense converts a model Expense to a domain Expense.
func ToDomainExpense(m models.Expense, trail []models.ApprovalDecision) domain.Expense {
	return domain.Expense{
		ExpenseID:           m.ExpenseID,
		EmployeeID:          m.EmployeeID,
		CompanyID:           m.CompanyID,
		Amount:              m.Amount,
		CurrencyCode:        m.CurrencyCode,
		CompanyCurrencyCode: m.CompanyCurrencyCode,
		ConvertedAmount:     m.ConvertedAmount,
		CategoryID:          m.CategoryID,
		Description:         m.Description,
		ExpenseDate:         m.ExpenseDate,
		Status:              domain.ExpenseStatus(m.Status),
		CurrentStepIndex:    m.CurrentStepIndex,
		Trail:               ToDomainDecisionSlice(trail),
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelDecision converts a domain ApprovalDecision to a model ApprovalDecision.
func ToModelDecision(d domain.ApprovalDecision) models.ApprovalDecision {
	return models.ApprovalDecision{
		DecisionID:   d.DecisionID,
		ExpenseID:    d.ExpenseID,
		StepOrder:    d.StepOrder,
		ApproverID:   d.ApproverID,
		ApproverRole: string(d.ApproverRole),
		Outcome:      string(d.Outcome),
		Comment:      d.Comment,
		DecidedAt:    d.DecidedAt,
	}
}

// ToDomainDecision converts a model ApprovalDecision to a domain ApprovalDecision.
func ToDomainDecision(m models.ApprovalDecision) domain.ApprovalDecision {
	return domain.ApprovalDecision{
		DecisionID:   m.DecisionID,
		ExpenseID:    m.ExpenseID,
		StepOrder:    m.StepOrder,
		ApproverID:   m.ApproverID,
		ApproverRole: domain.Role(m.ApproverRole),
		Outcome:      domain.DecisionOutcome(m.Outcome),
		Comment:      m.Comment,
		DecidedAt:    m.DecidedAt,
	}
}

// ToDomainDecisionSlice converts a slice of model decisions to domain decisions.
func ToDomainDecisionSlice(ms []models.ApprovalDecision) []domain.ApprovalDecision {
	ds := make([]domain.ApprovalDecision, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainDecision(m)
	}
	return ds
}
