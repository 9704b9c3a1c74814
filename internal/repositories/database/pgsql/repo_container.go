package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/expensehq/expense_mgmt_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	userRepo := newPgxUserRepository(dbPool)
	companyRepo := newPgxCompanyRepository(dbPool)
	categoryRepo := newPgxCategoryRepository(dbPool)
	currencyRepo := newPgxCurrencyRepository(dbPool)
	expenseRepo := newPgxExpenseRepository(dbPool)

	return portsrepo.RepositoryProvider{
		UserRepo:     userRepo,
		CompanyRepo:  companyRepo,
		CategoryRepo: categoryRepo,
		CurrencyRepo: currencyRepo,
		ExpenseRepo:  expenseRepo,
	}
}
