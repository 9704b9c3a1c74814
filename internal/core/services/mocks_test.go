package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/expensehq/expense_mgmt_app/internal/core/domain"
)

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUsersByCompany(ctx context.Context, companyID string, limit int, offset int) ([]domain.User, error) {
	args := m.Called(ctx, companyID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) FindAdminsByCompany(ctx context.Context, companyID string) ([]domain.User, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	args := m.Called(ctx, userID, deletedAt, deletedBy)
	return args.Error(0)
}

// --- Mock ExpenseRepository ---

type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	args := m.Called(ctx, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) ListExpensesByEmployee(ctx context.Context, employeeID string, limit int, nextToken string) ([]domain.Expense, string, error) {
	args := m.Called(ctx, employeeID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]domain.Expense), args.String(1), args.Error(2)
}

func (m *MockExpenseRepository) ListExpensesByManager(ctx context.Context, managerID string, limit int, nextToken string) ([]domain.Expense, string, error) {
	args := m.Called(ctx, managerID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]domain.Expense), args.String(1), args.Error(2)
}

func (m *MockExpenseRepository) ListExpensesByCompany(ctx context.Context, companyID string, limit int, nextToken string) ([]domain.Expense, string, error) {
	args := m.Called(ctx, companyID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]domain.Expense), args.String(1), args.Error(2)
}

func (m *MockExpenseRepository) ListPendingExpensesByCompany(ctx context.Context, companyID string) ([]domain.Expense, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) ApplyDecision(ctx context.Context, expenseID string, expectedStepIndex int, decision domain.ApprovalDecision, newStatus domain.ExpenseStatus, newStepIndex int) error {
	args := m.Called(ctx, expenseID, expectedStepIndex, decision, newStatus, newStepIndex)
	return args.Error(0)
}

func (m *MockExpenseRepository) UpdateConvertedAmount(ctx context.Context, expenseID string, converted decimal.Decimal) error {
	args := m.Called(ctx, expenseID, converted)
	return args.Error(0)
}

// --- Mock CompanyRepository (reader) ---

type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

// --- Mock CategoryRepository (reader) ---

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.ExpenseCategory, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExpenseCategory), args.Error(1)
}

func (m *MockCategoryRepository) ListCategoriesByCompany(ctx context.Context, companyID string) ([]domain.ExpenseCategory, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExpenseCategory), args.Error(1)
}

// --- Mock CurrencyRepository (reader) ---

type MockCurrencyRepository struct {
	mock.Mock
}

func (m *MockCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

// --- Mock RateProvider ---

type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) GetRate(ctx context.Context, base, target string) (decimal.Decimal, error) {
	args := m.Called(ctx, base, target)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Mock ApprovalChainService ---

type MockChainService struct {
	mock.Mock
}

func (m *MockChainService) ResolveChain(ctx context.Context, expense *domain.Expense) (domain.ApprovalChain, error) {
	args := m.Called(ctx, expense)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.ApprovalChain), args.Error(1)
}

// --- Mock ConversionService ---

type MockConversionService struct {
	mock.Mock
}

func (m *MockConversionService) Convert(ctx context.Context, amount decimal.Decimal, fromCode, toCode string) (*domain.Conversion, error) {
	args := m.Called(ctx, amount, fromCode, toCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversion), args.Error(1)
}
