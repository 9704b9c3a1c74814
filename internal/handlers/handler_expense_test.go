package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/expensehq/expense_mgmt_app/internal/apperrors"
	"github.com/expensehq/expense_mgmt_app/internal/core/domain"
	portssvc "github.com/expensehq/expense_mgmt_app/internal/core/ports/services"
	"github.com/expensehq/expense_mgmt_app/internal/dto"
	"github.com/expensehq/expense_mgmt_app/internal/handlers"
	"github.com/expensehq/expense_mgmt_app/internal/middleware"
	"github.com/expensehq/expense_mgmt_app/internal/utils"
)

// --- Mock ExpenseService ---
type MockExpenseService struct {
	mock.Mock
}

func (m *MockExpenseService) SubmitExpense(ctx context.Context, employee *domain.User, req dto.SubmitExpenseRequest) (*domain.Expense, error) {
	args := m.Called(ctx, employee, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseService) Decide(ctx context.Context, expenseID string, approver *domain.User, outcome domain.DecisionOutcome, comment string) (*domain.Expense, error) {
	args := m.Called(ctx, expenseID, approver, outcome, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseService) GetExpenseByID(ctx context.Context, expenseID string, requester *domain.User) (*domain.Expense, domain.ApprovalChain, error) {
	args := m.Called(ctx, expenseID, requester)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var chain domain.ApprovalChain
	if args.Get(1) != nil {
		chain = args.Get(1).(domain.ApprovalChain)
	}
	return args.Get(0).(*domain.Expense), chain, args.Error(2)
}

func (m *MockExpenseService) ListVisibleExpenses(ctx context.Context, requester *domain.User, limit int, nextToken string) ([]domain.Expense, string, error) {
	args := m.Called(ctx, requester, limit, nextToken)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).([]domain.Expense), args.String(1), args.Error(2)
}

var _ portssvc.ExpenseSvcFacade = (*MockExpenseService)(nil)

// --- Test Suite ---
type ExpenseHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockExpenseService *MockExpenseService
	jwtSecret          string
}

func (suite *ExpenseHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockExpenseService = new(MockExpenseService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterExpenseRoutes(v1, suite.mockExpenseService)
}

// generateTestToken creates a signed JWT carrying the claim triple.
func (suite *ExpenseHandlerTestSuite) generateTestToken(userID string, role domain.Role, companyID string) string {
	token, err := utils.GenerateJWT(userID, string(role), companyID, suite.jwtSecret, time.Hour, "test")
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return token
}

func (suite *ExpenseHandlerTestSuite) doRequest(method, url, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *ExpenseHandlerTestSuite) sampleExpense(status domain.ExpenseStatus) *domain.Expense {
	return &domain.Expense{
		ExpenseID:           uuid.NewString(),
		EmployeeID:          "emp-1",
		CompanyID:           "co-1",
		Amount:              decimal.NewFromInt(100),
		CurrencyCode:        "USD",
		CompanyCurrencyCode: "USD",
		CategoryID:          "cat-1",
		Description:         "team lunch",
		ExpenseDate:         time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		Status:              status,
	}
}

// --- Test Cases ---

func (suite *ExpenseHandlerTestSuite) TestSubmitExpense_Success() {
	expected := suite.sampleExpense(domain.ExpensePending)
	suite.mockExpenseService.On("SubmitExpense",
		mock.Anything,
		mock.MatchedBy(func(u *domain.User) bool {
			return u.UserID == "emp-1" && u.Role == domain.RoleEmployee && u.CompanyID == "co-1"
		}),
		mock.MatchedBy(func(r dto.SubmitExpenseRequest) bool {
			return r.CurrencyCode == "USD" && r.Amount.Equal(decimal.NewFromInt(100))
		}),
	).Return(expected, nil).Once()

	token := suite.generateTestToken("emp-1", domain.RoleEmployee, "co-1")
	body := dto.SubmitExpenseRequest{
		Amount:       decimal.NewFromInt(100),
		CurrencyCode: "USD",
		CategoryID:   "cat-1",
		Description:  "team lunch",
		ExpenseDate:  time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
	}
	w := suite.doRequest(http.MethodPost, "/api/v1/expenses", token, body)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.ExpenseResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(expected.ExpenseID, resp.ExpenseID)
	suite.Equal(domain.ExpensePending, resp.Status)
	suite.mockExpenseService.AssertExpectations(suite.T())
}

func (suite *ExpenseHandlerTestSuite) TestSubmitExpense_NoManagerIsUnprocessable() {
	suite.mockExpenseService.On("SubmitExpense", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrNoManagerAssigned).Once()

	token := suite.generateTestToken("emp-1", domain.RoleEmployee, "co-1")
	body := dto.SubmitExpenseRequest{
		Amount:       decimal.NewFromInt(100),
		CurrencyCode: "USD",
		CategoryID:   "cat-1",
		Description:  "team lunch",
		ExpenseDate:  time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
	}
	w := suite.doRequest(http.MethodPost, "/api/v1/expenses", token, body)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *ExpenseHandlerTestSuite) TestSubmitExpense_RejectsUnauthenticated() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/expenses", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockExpenseService.AssertNotCalled(suite.T(), "SubmitExpense", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExpenseHandlerTestSuite) TestApproveExpense_Success() {
	expected := suite.sampleExpense(domain.ExpensePending)
	expected.CurrentStepIndex = 1
	suite.mockExpenseService.On("Decide",
		mock.Anything,
		expected.ExpenseID,
		mock.MatchedBy(func(u *domain.User) bool { return u.UserID == "mgr-1" && u.Role == domain.RoleManager }),
		domain.OutcomeApproved,
		"looks good",
	).Return(expected, nil).Once()

	token := suite.generateTestToken("mgr-1", domain.RoleManager, "co-1")
	url := fmt.Sprintf("/api/v1/expenses/%s/approve", expected.ExpenseID)
	w := suite.doRequest(http.MethodPost, url, token, dto.DecisionRequest{Comment: "looks good"})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ExpenseResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(1, resp.CurrentStepIndex)
	suite.mockExpenseService.AssertExpectations(suite.T())
}

func (suite *ExpenseHandlerTestSuite) TestRejectExpense_WithoutBody() {
	expected := suite.sampleExpense(domain.ExpenseRejected)
	suite.mockExpenseService.On("Decide",
		mock.Anything, expected.ExpenseID, mock.Anything, domain.OutcomeRejected, "",
	).Return(expected, nil).Once()

	token := suite.generateTestToken("mgr-1", domain.RoleManager, "co-1")
	url := fmt.Sprintf("/api/v1/expenses/%s/reject", expected.ExpenseID)
	w := suite.doRequest(http.MethodPost, url, token, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ExpenseResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.ExpenseRejected, resp.Status)
}

func (suite *ExpenseHandlerTestSuite) TestApproveExpense_WrongApproverIsForbidden() {
	suite.mockExpenseService.On("Decide", mock.Anything, "exp-1", mock.Anything, domain.OutcomeApproved, "").
		Return(nil, apperrors.ErrNotAuthorizedApprover).Once()

	token := suite.generateTestToken("mgr-2", domain.RoleManager, "co-1")
	w := suite.doRequest(http.MethodPost, "/api/v1/expenses/exp-1/approve", token, nil)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *ExpenseHandlerTestSuite) TestApproveExpense_AlreadyDecidedIsConflict() {
	suite.mockExpenseService.On("Decide", mock.Anything, "exp-1", mock.Anything, domain.OutcomeApproved, "").
		Return(nil, apperrors.ErrExpenseNotPending).Once()

	token := suite.generateTestToken("adm-1", domain.RoleAdmin, "co-1")
	w := suite.doRequest(http.MethodPost, "/api/v1/expenses/exp-1/approve", token, nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *ExpenseHandlerTestSuite) TestApproveExpense_LostRaceIsConflict() {
	suite.mockExpenseService.On("Decide", mock.Anything, "exp-1", mock.Anything, domain.OutcomeApproved, "").
		Return(nil, apperrors.ErrStaleExpense).Once()

	token := suite.generateTestToken("mgr-1", domain.RoleManager, "co-1")
	w := suite.doRequest(http.MethodPost, "/api/v1/expenses/exp-1/approve", token, nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *ExpenseHandlerTestSuite) TestGetExpense_IncludesCurrentApprover() {
	expected := suite.sampleExpense(domain.ExpensePending)
	chain := domain.ApprovalChain{
		{StepOrder: 1, RequiredRole: domain.RoleManager, ApproverID: "mgr-1"},
		{StepOrder: 2, RequiredRole: domain.RoleAdmin, ApproverID: "adm-1"},
	}
	suite.mockExpenseService.On("GetExpenseByID", mock.Anything, expected.ExpenseID, mock.Anything).
		Return(expected, chain, nil).Once()

	token := suite.generateTestToken("emp-1", domain.RoleEmployee, "co-1")
	w := suite.doRequest(http.MethodGet, "/api/v1/expenses/"+expected.ExpenseID, token, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ExpenseResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().NotNil(resp.CurrentApprover)
	suite.Equal("mgr-1", resp.CurrentApprover.ApproverID)
	suite.Equal(domain.RoleManager, resp.CurrentApprover.RequiredRole)
}

func (suite *ExpenseHandlerTestSuite) TestGetExpense_NotFound() {
	suite.mockExpenseService.On("GetExpenseByID", mock.Anything, "missing", mock.Anything).
		Return(nil, nil, apperrors.ErrNotFound).Once()

	token := suite.generateTestToken("emp-1", domain.RoleEmployee, "co-1")
	w := suite.doRequest(http.MethodGet, "/api/v1/expenses/missing", token, nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *ExpenseHandlerTestSuite) TestListExpenses_PassesPagination() {
	expenses := []domain.Expense{*suite.sampleExpense(domain.ExpensePending)}
	suite.mockExpenseService.On("ListVisibleExpenses", mock.Anything, mock.Anything, 5, "tok-in").
		Return(expenses, "tok-out", nil).Once()

	token := suite.generateTestToken("adm-1", domain.RoleAdmin, "co-1")
	w := suite.doRequest(http.MethodGet, "/api/v1/expenses?limit=5&nextToken=tok-in", token, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListExpensesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Expenses, 1)
	suite.Equal("tok-out", resp.NextToken)
}

func (suite *ExpenseHandlerTestSuite) TestListExpenses_BadTokenIsBadRequest() {
	suite.mockExpenseService.On("ListVisibleExpenses", mock.Anything, mock.Anything, 20, "garbage").
		Return(nil, "", apperrors.ErrValidation).Once()

	token := suite.generateTestToken("emp-1", domain.RoleEmployee, "co-1")
	w := suite.doRequest(http.MethodGet, "/api/v1/expenses?nextToken=garbage", token, nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

// --- Run Test Suite ---
func TestExpenseHandler(t *testing.T) {
	suite.Run(t, new(ExpenseHandlerTestSuite))
}
