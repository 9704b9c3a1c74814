package services

import (
	"github.com/expensehq/expense_mgmt_app/internal/core/ports/providers"
	portsrepo "github.com/expensehq/expense_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/expensehq/expense_mgmt_app/internal/core/ports/services"
	"github.com/expensehq/expense_mgmt_app/internal/platform/config"
)

// NewServiceContainer creates the service container with properly wired
// dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, rateProvider providers.RateProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo)
	container.Company = NewCompanyService(repos.CompanyRepo, repos.CategoryRepo, repos.CurrencyRepo)
	container.Category = NewCategoryService(repos.CategoryRepo)
	container.Currency = NewCurrencyService(repos.CurrencyRepo)
	container.Conversion = NewConversionService(repos.CurrencyRepo, rateProvider)

	chainSvc := NewApprovalChainService(repos.UserRepo)
	container.Expense = NewExpenseService(
		repos.ExpenseRepo,
		repos.UserRepo,
		repos.CompanyRepo,
		repos.CategoryRepo,
		repos.CurrencyRepo,
		chainSvc,
		container.Conversion,
	)

	container.TokenService = NewTokenService(cfg)
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	return container
}
