package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/expensehq/expense_mgmt_app/internal/apperrors"
	"github.com/expensehq/expense_mgmt_app/internal/core/domain"
	portssvc "github.com/expensehq/expense_mgmt_app/internal/core/ports/services"
	"github.com/expensehq/expense_mgmt_app/internal/core/services"
)

type ApprovalChainServiceTestSuite struct {
	suite.Suite
	ctx          context.Context
	mockUserRepo *MockUserRepository
	service      portssvc.ApprovalChainSvcFacade
}

func (s *ApprovalChainServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.mockUserRepo = new(MockUserRepository)
	s.service = services.NewApprovalChainService(s.mockUserRepo)
}

func strPtr(v string) *string { return &v }

func (s *ApprovalChainServiceTestSuite) expense() *domain.Expense {
	return &domain.Expense{
		ExpenseID:  "exp-1",
		EmployeeID: "emp-1",
		CompanyID:  "co-1",
		Status:     domain.ExpensePending,
	}
}

func (s *ApprovalChainServiceTestSuite) TestResolveChain_TwoSteps() {
	s.mockUserRepo.On("FindUserByID", s.ctx, "emp-1").Return(&domain.User{
		UserID: "emp-1", CompanyID: "co-1", Role: domain.RoleEmployee, ManagerID: strPtr("mgr-1"), IsActive: true,
	}, nil)
	s.mockUserRepo.On("FindUserByID", s.ctx, "mgr-1").Return(&domain.User{
		UserID: "mgr-1", CompanyID: "co-1", Role: domain.RoleManager, IsActive: true,
	}, nil)
	s.mockUserRepo.On("FindAdminsByCompany", s.ctx, "co-1").Return([]domain.User{
		{UserID: "adm-1", Role: domain.RoleAdmin, IsActive: true},
	}, nil)

	chain, err := s.service.ResolveChain(s.ctx, s.expense())

	s.Require().NoError(err)
	s.Require().Len(chain, 2)
	s.Equal(domain.ApprovalStep{StepOrder: 1, RequiredRole: domain.RoleManager, ApproverID: "mgr-1"}, chain[0])
	s.Equal(domain.ApprovalStep{StepOrder: 2, RequiredRole: domain.RoleAdmin, ApproverID: "adm-1"}, chain[1])
}

func (s *ApprovalChainServiceTestSuite) TestResolveChain_NoManagerAssigned() {
	s.mockUserRepo.On("FindUserByID", s.ctx, "emp-1").Return(&domain.User{
		UserID: "emp-1", CompanyID: "co-1", Role: domain.RoleEmployee, ManagerID: nil, IsActive: true,
	}, nil)

	_, err := s.service.ResolveChain(s.ctx, s.expense())

	s.True(errors.Is(err, apperrors.ErrNoManagerAssigned))
	s.mockUserRepo.AssertNotCalled(s.T(), "FindAdminsByCompany", s.ctx, "co-1")
}

func (s *ApprovalChainServiceTestSuite) TestResolveChain_InactiveManager() {
	s.mockUserRepo.On("FindUserByID", s.ctx, "emp-1").Return(&domain.User{
		UserID: "emp-1", CompanyID: "co-1", ManagerID: strPtr("mgr-1"), IsActive: true,
	}, nil)
	s.mockUserRepo.On("FindUserByID", s.ctx, "mgr-1").Return(&domain.User{
		UserID: "mgr-1", CompanyID: "co-1", Role: domain.RoleManager, IsActive: false,
	}, nil)

	_, err := s.service.ResolveChain(s.ctx, s.expense())

	s.True(errors.Is(err, apperrors.ErrNoManagerAssigned))
}

func (s *ApprovalChainServiceTestSuite) TestResolveChain_NoAdminAvailable() {
	s.mockUserRepo.On("FindUserByID", s.ctx, "emp-1").Return(&domain.User{
		UserID: "emp-1", CompanyID: "co-1", ManagerID: strPtr("mgr-1"), IsActive: true,
	}, nil)
	s.mockUserRepo.On("FindUserByID", s.ctx, "mgr-1").Return(&domain.User{
		UserID: "mgr-1", CompanyID: "co-1", Role: domain.RoleManager, IsActive: true,
	}, nil)
	s.mockUserRepo.On("FindAdminsByCompany", s.ctx, "co-1").Return([]domain.User{}, nil)

	_, err := s.service.ResolveChain(s.ctx, s.expense())

	s.True(errors.Is(err, apperrors.ErrNoAdminAvailable))
}

func (s *ApprovalChainServiceTestSuite) TestResolveChain_AdminTieBreakFirstByUserID() {
	s.mockUserRepo.On("FindUserByID", s.ctx, "emp-1").Return(&domain.User{
		UserID: "emp-1", CompanyID: "co-1", ManagerID: strPtr("mgr-1"), IsActive: true,
	}, nil)
	s.mockUserRepo.On("FindUserByID", s.ctx, "mgr-1").Return(&domain.User{
		UserID: "mgr-1", CompanyID: "co-1", Role: domain.RoleManager, IsActive: true,
	}, nil)
	// Repository returns admins already ordered by ascending user ID.
	s.mockUserRepo.On("FindAdminsByCompany", s.ctx, "co-1").Return([]domain.User{
		{UserID: "adm-a", Role: domain.RoleAdmin, IsActive: true},
		{UserID: "adm-b", Role: domain.RoleAdmin, IsActive: true},
	}, nil)

	chain, err := s.service.ResolveChain(s.ctx, s.expense())

	s.Require().NoError(err)
	s.Equal("adm-a", chain[1].ApproverID)
}

func (s *ApprovalChainServiceTestSuite) TestStepAt_PastEndIsNil() {
	chain := domain.ApprovalChain{
		{StepOrder: 1, RequiredRole: domain.RoleManager, ApproverID: "mgr-1"},
		{StepOrder: 2, RequiredRole: domain.RoleAdmin, ApproverID: "adm-1"},
	}

	s.NotNil(chain.StepAt(0))
	s.NotNil(chain.StepAt(1))
	s.Nil(chain.StepAt(2))
	s.Nil(chain.StepAt(-1))
}

func TestApprovalChainServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ApprovalChainServiceTestSuite))
}
