package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/expensehq/expense_mgmt_app/internal/apperrors"
	"github.com/expensehq/expense_mgmt_app/internal/core/domain"
	portssvc "github.com/expensehq/expense_mgmt_app/internal/core/ports/services"
	"github.com/expensehq/expense_mgmt_app/internal/core/services"
	"github.com/expensehq/expense_mgmt_app/internal/dto"
)

type ExpenseServiceTestSuite struct {
	suite.Suite
	ctx              context.Context
	mockExpenseRepo  *MockExpenseRepository
	mockUserRepo     *MockUserRepository
	mockCompanyRepo  *MockCompanyRepository
	mockCategoryRepo *MockCategoryRepository
	mockCurrencyRepo *MockCurrencyRepository
	mockChainSvc     *MockChainService
	mockConversion   *MockConversionService
	service          portssvc.ExpenseSvcFacade

	employee *domain.User
	manager  *domain.User
	admin    *domain.User
	chain    domain.ApprovalChain
}

func (s *ExpenseServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.mockExpenseRepo = new(MockExpenseRepository)
	s.mockUserRepo = new(MockUserRepository)
	s.mockCompanyRepo = new(MockCompanyRepository)
	s.mockCategoryRepo = new(MockCategoryRepository)
	s.mockCurrencyRepo = new(MockCurrencyRepository)
	s.mockChainSvc = new(MockChainService)
	s.mockConversion = new(MockConversionService)
	s.service = services.NewExpenseService(
		s.mockExpenseRepo,
		s.mockUserRepo,
		s.mockCompanyRepo,
		s.mockCategoryRepo,
		s.mockCurrencyRepo,
		s.mockChainSvc,
		s.mockConversion,
	)

	s.employee = &domain.User{UserID: "emp-1", CompanyID: "co-1", Role: domain.RoleEmployee, ManagerID: strPtr("mgr-1"), IsActive: true}
	s.manager = &domain.User{UserID: "mgr-1", CompanyID: "co-1", Role: domain.RoleManager, IsActive: true}
	s.admin = &domain.User{UserID: "adm-1", CompanyID: "co-1", Role: domain.RoleAdmin, IsActive: true}
	s.chain = domain.ApprovalChain{
		{StepOrder: 1, RequiredRole: domain.RoleManager, ApproverID: "mgr-1"},
		{StepOrder: 2, RequiredRole: domain.RoleAdmin, ApproverID: "adm-1"},
	}
}

func (s *ExpenseServiceTestSuite) pendingExpense(stepIndex int) *domain.Expense {
	return &domain.Expense{
		ExpenseID:           "exp-1",
		EmployeeID:          "emp-1",
		CompanyID:           "co-1",
		Amount:              decimal.NewFromInt(100),
		CurrencyCode:        "USD",
		CompanyCurrencyCode: "USD",
		CategoryID:          "cat-1",
		Description:         "team lunch",
		ExpenseDate:         time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		Status:              domain.ExpensePending,
		CurrentStepIndex:    stepIndex,
	}
}

// --- Decide ---

func (s *ExpenseServiceTestSuite) TestDecide_TwoStepHappyPath() {
	// Step 1: the designated manager approves; the expense stays pending.
	atStepZero := s.pendingExpense(0)
	afterManager := s.pendingExpense(1)
	s.mockExpenseRepo.On("FindExpenseByID", s.ctx, "exp-1").Return(atStepZero, nil).Once()
	s.mockChainSvc.On("ResolveChain", s.ctx, mock.Anything).Return(s.chain, nil)
	s.mockExpenseRepo.On("ApplyDecision", s.ctx, "exp-1", 0, mock.MatchedBy(func(d domain.ApprovalDecision) bool {
		return d.StepOrder == 1 && d.ApproverID == "mgr-1" && d.ApproverRole == domain.RoleManager && d.Outcome == domain.OutcomeApproved
	}), domain.ExpensePending, 1).Return(nil).Once()
	s.mockExpenseRepo.On("FindExpenseByID", s.ctx, "exp-1").Return(afterManager, nil).Once()

	result, err := s.service.Decide(s.ctx, "exp-1", s.manager, domain.OutcomeApproved, "fine by me")
	s.Require().NoError(err)
	s.Equal(domain.ExpensePending, result.Status)
	s.Equal(1, result.CurrentStepIndex)

	// Step 2: the admin approves; the expense goes terminal.
	approved := s.pendingExpense(2)
	approved.Status = domain.ExpenseApproved
	s.mockExpenseRepo.On("FindExpenseByID", s.ctx, "exp-1").Return(afterManager, nil).Once()
	s.mockExpenseRepo.On("ApplyDecision", s.ctx, "exp-1", 1, mock.MatchedBy(func(d domain.ApprovalDecision) bool {
		return d.StepOrder == 2 && d.ApproverID == "adm-1" && d.ApproverRole == domain.RoleAdmin && d.Outcome == domain.OutcomeApproved
	}), domain.ExpenseApproved, 2).Return(nil).Once()
	s.mockExpenseRepo.On("FindExpenseByID", s.ctx, "exp-1").Return(approved, nil).Once()

	result, err = s.service.Decide(s.ctx, "exp-1", s.admin, domain.OutcomeApproved, "")
	s.Require().NoError(err)
	s.Equal(domain.ExpenseApproved, result.Status)
}

func (s *ExpenseServiceTestSuite) TestDecide_RejectionIsTerminal() {
	atStepZero := s.pendingExpense(0)
	rejected := s.pendingExpense(0)
	rejected.Status = domain.ExpenseRejected

	s.mockExpenseRepo.On("FindExpenseByID", s.ctx, "exp-1").Return(atStepZero, nil).Once()
	s.mockChainSvc.On("ResolveChain", s.ctx, mock.Anything).Return(s.chain, nil)
	// Rejection keeps the step index where it was.
	s.mockExpenseRepo.On("ApplyDecision", s.ctx, "exp-1", 0, mock.MatchedBy(func(d domain.ApprovalDecision) bool {
		return d.Outcome == domain.OutcomeRejected
	}), domain.ExpenseRejected, 0).Return(nil).Once()
	s.mockExpenseRepo.On("FindExpenseByID", s.ctx, "exp-1").Return(rejected, nil).Once()

	result, err := s.service.Decide(s.ctx, "exp-1", s.manager, domain.OutcomeRejected, "no receipt")
	s.Require().NoError(err)
	s.Equal(domain.ExpenseRejected, result.Status)

	// Any further decision on the terminal record fails before touching state.
	s.mockExpenseRepo.On("FindExpenseByID", s.ctx, "exp-1").Return(rejected, nil).Once()
	_, err = s.service.Decide(s.ctx, "exp-1", s.admin, domain.OutcomeApproved, "")
	s.True(errors.Is(err, apperrors.ErrExpenseNotPending))
	s.mockExpenseRepo.AssertNumberOfCalls(s.T(), "ApplyDecision", 1)
}

func (s *ExpenseServiceTestSuite) TestDecide_WrongApproverRejected() {
	otherManager := &domain.User{UserID: "mgr-2", CompanyID: "co-1", Role: domain.RoleManager, IsActive: true}

	s.mockExpenseRepo.On("FindExpenseByID", s.ctx, "exp-1").Return(s.pendingExpense(0), nil).Once()
	s.mockChainSvc.On("ResolveChain", s.ctx, mock.Anything).Return(s.chain, nil)

	_, err := s.service.Decide(s.ctx, "exp-1", otherManager, domain.OutcomeApproved, "")

	s.True(errors.Is(err, apperrors.ErrNotAuthorizedApprover))
	s.mockExpenseRepo.AssertNotCalled(s.T(), "ApplyDecision", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ExpenseServiceTestSuite) TestDecide_EmployeeCannotApprove() {
	s.mockExpenseRepo.On("FindExpenseByID", s.ctx, "exp-1").Return(s.pendingExpense(0), nil).Once()
	s.mockChainSvc.On("ResolveChain", s.ctx, mock.Anything).Return(s.chain, nil)

	_, err := s.service.Decide(s.ctx, "exp-1", s.employee, domain.OutcomeApproved, "")

	s.True(errors.Is(err, apperrors.ErrNotAuthorizedApprover))
}

func (s *ExpenseServiceTestSuite) TestDecide_AdminOverrideRecordsActingRole() {
	// The admin steps in at the manager step; the trail must say admin.
	atStepZero := s.pendingExpense(0)
	afterOverride := s.pendingExpense(1)

	s.mockExpenseRepo.On("FindExpenseByID", s.ctx, "exp-1").Return(atStepZero, nil).Once()
	s.mockChainSvc.On("ResolveChain", s.ctx, mock.Anything).Return(s.chain, nil)
	s.mockExpenseRepo.On("ApplyDecision", s.ctx, "exp-1", 0, mock.MatchedBy(func(d domain.ApprovalDecision) bool {
		return d.ApproverID == "adm-1" && d.ApproverRole == domain.RoleAdmin && d.StepOrder == 1
	}), domain.ExpensePending, 1).Return(nil).Once()
	s.mockExpenseRepo.On("FindExpenseByID", s.ctx, "exp-1").Return(afterOverride, nil).Once()

	_, err := s.service.Decide(s.ctx, "exp-1", s.admin, domain.OutcomeApproved, "covering for manager")
	s.Require().NoError(err)
}

func (s *ExpenseServiceTestSuite) TestDecide_LostRaceSurfacesConflict() {
	s.mockExpenseRepo.On("FindExpenseByID", s.ctx, "exp-1").Return(s.pendingExpense(0), nil).Once()
	s.mockChainSvc.On("ResolveChain", s.ctx, mock.Anything).Return(s.chain, nil)
	s.mockExpenseRepo.On("ApplyDecision", s.ctx, "exp-1", 0, mock.Anything, domain.ExpensePending, 1).
		Return(apperrors.ErrStaleExpense).Once()

	_, err := s.service.Decide(s.ctx, "exp-1", s.manager, domain.OutcomeApproved, "")
	s.True(errors.Is(err, apperrors.ErrStaleExpense))
}

func (s *ExpenseServiceTestSuite) TestDecide_CrossCompanyReadsAsAbsent() {
	foreignAdmin := &domain.User{UserID: "adm-9", CompanyID: "co-9", Role: domain.RoleAdmin, IsActive: true}
	s.mockExpenseRepo.On("FindExpenseByID", s.ctx, "exp-1").Return(s.pendingExpense(0), nil).Once()

	_, err := s.service.Decide(s.ctx, "exp-1", foreignAdmin, domain.OutcomeApproved, "")
	s.True(errors.Is(err, apperrors.ErrNotFound))
}

// --- Submit ---

func (s *ExpenseServiceTestSuite) submitRequest() dto.SubmitExpenseRequest {
	return dto.SubmitExpenseRequest{
		Amount:       decimal.NewFromInt(100),
		CurrencyCode: "USD",
		CategoryID:   "cat-1",
		Description:  "client dinner",
		ExpenseDate:  time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
	}
}

func (s *ExpenseServiceTestSuite) stubSubmitLookups(companyCurrency string) {
	s.mockCurrencyRepo.On("FindCurrencyByCode", s.ctx, "USD").Return(&domain.Currency{CurrencyCode: "USD"}, nil)
	s.mockCompanyRepo.On("FindCompanyByID", s.ctx, "co-1").Return(&domain.Company{CompanyID: "co-1", CurrencyCode: companyCurrency}, nil)
	s.mockCategoryRepo.On("FindCategoryByID", s.ctx, "cat-1").Return(&domain.ExpenseCategory{CategoryID: "cat-1", CompanyID: "co-1", IsActive: true}, nil)
}

func (s *ExpenseServiceTestSuite) TestSubmit_UnresolvableChainCreatesNoRecord() {
	s.stubSubmitLookups("USD")
	s.mockChainSvc.On("ResolveChain", s.ctx, mock.Anything).Return(nil, apperrors.ErrNoManagerAssigned)

	_, err := s.service.SubmitExpense(s.ctx, s.employee, s.submitRequest())

	s.True(errors.Is(err, apperrors.ErrNoManagerAssigned))
	s.mockExpenseRepo.AssertNotCalled(s.T(), "SaveExpense", mock.Anything, mock.Anything)
}

func (s *ExpenseServiceTestSuite) TestSubmit_ConversionFailureDegrades() {
	s.stubSubmitLookups("EUR")
	s.mockChainSvc.On("ResolveChain", s.ctx, mock.Anything).Return(s.chain, nil)
	s.mockConversion.On("Convert", s.ctx, mock.Anything, "USD", "EUR").Return(nil, apperrors.ErrRateUnavailable)
	s.mockExpenseRepo.On("SaveExpense", s.ctx, mock.MatchedBy(func(e domain.Expense) bool {
		return e.ConvertedAmount == nil && e.Status == domain.ExpensePending && e.CurrentStepIndex == 0
	})).Return(nil).Once()

	expense, err := s.service.SubmitExpense(s.ctx, s.employee, s.submitRequest())

	s.Require().NoError(err)
	s.Nil(expense.ConvertedAmount)
}

func (s *ExpenseServiceTestSuite) TestSubmit_StoresConvertedAmount() {
	s.stubSubmitLookups("EUR")
	s.mockChainSvc.On("ResolveChain", s.ctx, mock.Anything).Return(s.chain, nil)
	s.mockConversion.On("Convert", s.ctx, mock.Anything, "USD", "EUR").Return(&domain.Conversion{
		Amount:          decimal.NewFromInt(100),
		FromCurrency:    "USD",
		ToCurrency:      "EUR",
		Rate:            decimal.RequireFromString("0.855"),
		ConvertedAmount: decimal.RequireFromString("85.50"),
	}, nil)
	s.mockExpenseRepo.On("SaveExpense", s.ctx, mock.MatchedBy(func(e domain.Expense) bool {
		return e.ConvertedAmount != nil && e.ConvertedAmount.Equal(decimal.RequireFromString("85.50"))
	})).Return(nil).Once()

	expense, err := s.service.SubmitExpense(s.ctx, s.employee, s.submitRequest())

	s.Require().NoError(err)
	s.Require().NotNil(expense.ConvertedAmount)
	s.True(expense.ConvertedAmount.Equal(decimal.RequireFromString("85.50")))
}

func (s *ExpenseServiceTestSuite) TestSubmit_SameCurrencyConvertsExactly() {
	s.stubSubmitLookups("USD")
	s.mockChainSvc.On("ResolveChain", s.ctx, mock.Anything).Return(s.chain, nil)
	s.mockConversion.On("Convert", s.ctx, mock.Anything, "USD", "USD").Return(&domain.Conversion{
		Amount:          decimal.NewFromInt(100),
		FromCurrency:    "USD",
		ToCurrency:      "USD",
		Rate:            decimal.NewFromInt(1),
		ConvertedAmount: decimal.NewFromInt(100),
	}, nil)
	s.mockExpenseRepo.On("SaveExpense", s.ctx, mock.Anything).Return(nil).Once()

	expense, err := s.service.SubmitExpense(s.ctx, s.employee, s.submitRequest())

	s.Require().NoError(err)
	s.Require().NotNil(expense.ConvertedAmount)
	s.True(expense.ConvertedAmount.Equal(expense.Amount))
}

func (s *ExpenseServiceTestSuite) TestSubmit_NonPositiveAmount() {
	req := s.submitRequest()
	req.Amount = decimal.NewFromInt(-5)

	_, err := s.service.SubmitExpense(s.ctx, s.employee, req)
	s.True(errors.Is(err, apperrors.ErrInvalidAmount))
}

func (s *ExpenseServiceTestSuite) TestSubmit_UnknownCurrency() {
	s.mockCurrencyRepo.On("FindCurrencyByCode", s.ctx, "USD").Return(nil, apperrors.ErrNotFound)

	_, err := s.service.SubmitExpense(s.ctx, s.employee, s.submitRequest())
	s.True(errors.Is(err, apperrors.ErrUnknownCurrency))
}

// --- Role views ---

func (s *ExpenseServiceTestSuite) TestListVisible_EmployeeSeesOwnOnly() {
	own := []domain.Expense{*s.pendingExpense(0)}
	s.mockExpenseRepo.On("ListExpensesByEmployee", s.ctx, "emp-1", 20, "").Return(own, "", nil)

	result, token, err := s.service.ListVisibleExpenses(s.ctx, s.employee, 20, "")

	s.Require().NoError(err)
	s.Len(result, 1)
	s.Empty(token)
	s.mockExpenseRepo.AssertNotCalled(s.T(), "ListExpensesByCompany", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ExpenseServiceTestSuite) TestListVisible_AdminSeesCompany() {
	all := []domain.Expense{*s.pendingExpense(0)}
	s.mockExpenseRepo.On("ListExpensesByCompany", s.ctx, "co-1", 20, "").Return(all, "tok", nil)

	result, token, err := s.service.ListVisibleExpenses(s.ctx, s.admin, 20, "")

	s.Require().NoError(err)
	s.Len(result, 1)
	s.Equal("tok", token)
}

func (s *ExpenseServiceTestSuite) TestListVisible_ManagerMergesEscalatedItems() {
	older := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)

	report := *s.pendingExpense(0)
	report.ExpenseID = "exp-report"
	report.ExpenseDate = older

	// Pending item owned by someone who is not a direct report, but whose
	// resolved current approver is this manager.
	escalated := *s.pendingExpense(0)
	escalated.ExpenseID = "exp-escalated"
	escalated.EmployeeID = "emp-9"
	escalated.ExpenseDate = newer

	// Pending item waiting on a different approver; must not leak in.
	other := *s.pendingExpense(0)
	other.ExpenseID = "exp-other"
	other.EmployeeID = "emp-8"

	s.mockExpenseRepo.On("ListExpensesByManager", s.ctx, "mgr-1", 20, "").Return([]domain.Expense{report}, "", nil)
	s.mockExpenseRepo.On("ListPendingExpensesByCompany", s.ctx, "co-1").Return([]domain.Expense{escalated, other, report}, nil)
	s.mockChainSvc.On("ResolveChain", s.ctx, mock.MatchedBy(func(e *domain.Expense) bool {
		return e.ExpenseID == "exp-escalated"
	})).Return(s.chain, nil)
	s.mockChainSvc.On("ResolveChain", s.ctx, mock.MatchedBy(func(e *domain.Expense) bool {
		return e.ExpenseID == "exp-other"
	})).Return(domain.ApprovalChain{
		{StepOrder: 1, RequiredRole: domain.RoleManager, ApproverID: "mgr-2"},
		{StepOrder: 2, RequiredRole: domain.RoleAdmin, ApproverID: "adm-1"},
	}, nil)

	result, _, err := s.service.ListVisibleExpenses(s.ctx, s.manager, 20, "")

	s.Require().NoError(err)
	s.Require().Len(result, 2)
	// Newest expense date first; no duplicate of the direct report's record.
	s.Equal("exp-escalated", result[0].ExpenseID)
	s.Equal("exp-report", result[1].ExpenseID)
}

// --- Get ---

func (s *ExpenseServiceTestSuite) TestGetExpenseByID_EmployeeCannotSeeOthers() {
	other := s.pendingExpense(0)
	other.EmployeeID = "emp-2"
	s.mockExpenseRepo.On("FindExpenseByID", s.ctx, "exp-1").Return(other, nil).Once()
	s.mockChainSvc.On("ResolveChain", s.ctx, mock.Anything).Return(s.chain, nil)

	_, _, err := s.service.GetExpenseByID(s.ctx, "exp-1", s.employee)
	s.True(errors.Is(err, apperrors.ErrForbidden))
}

func (s *ExpenseServiceTestSuite) TestGetExpenseByID_RetriesMissingConversion() {
	expense := s.pendingExpense(0)
	expense.CurrencyCode = "USD"
	expense.CompanyCurrencyCode = "EUR"
	expense.ConvertedAmount = nil

	converted := decimal.RequireFromString("85.50")
	s.mockExpenseRepo.On("FindExpenseByID", s.ctx, "exp-1").Return(expense, nil).Once()
	s.mockChainSvc.On("ResolveChain", s.ctx, mock.Anything).Return(s.chain, nil)
	s.mockConversion.On("Convert", s.ctx, mock.Anything, "USD", "EUR").Return(&domain.Conversion{
		ConvertedAmount: converted,
	}, nil)
	s.mockExpenseRepo.On("UpdateConvertedAmount", s.ctx, "exp-1", converted).Return(nil).Once()

	result, chain, err := s.service.GetExpenseByID(s.ctx, "exp-1", s.admin)

	s.Require().NoError(err)
	s.Require().NotNil(result.ConvertedAmount)
	s.True(result.ConvertedAmount.Equal(converted))
	s.Len(chain, 2)
}

func TestExpenseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExpenseServiceTestSuite))
}
