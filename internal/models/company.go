package models

// Company mirrors the companies table.
type Company struct {
	CompanyID    string `db:"company_id"`
	Name         string `db:"name"`
	CurrencyCode string `db:"currency_code"`
	AuditFields
}

// ExpenseCategory mirrors the expense_categories table.
type ExpenseCategory struct {
	CategoryID string `db:"category_id"`
	CompanyID  string `db:"company_id"`
	Name       string `db:"name"`
	IsActive   bool   `db:"is_active"`
	AuditFields
}
