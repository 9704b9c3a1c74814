package domain

// Company represents a tenant owning users, categories and expenses.
// Created implicitly when the first user signs up; that user becomes admin.
type Company struct {
	CompanyID    string `json:"companyID"` // Primary Key (e.g., UUID)
	Name         string `json:"name"`
	CurrencyCode string `json:"currencyCode"` // Display currency for converted amounts
	AuditFields
}

// ExpenseCategory is an enumerated expense classification scoped to a company.
// The workflow validates it for existence only and never interprets it.
type ExpenseCategory struct {
	CategoryID string `json:"categoryID"` // Primary Key (e.g., UUID)
	CompanyID  string `json:"companyID"`
	Name       string `json:"name"`
	IsActive   bool   `json:"isActive"`
	AuditFields
}
