package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/expensehq/expense_mgmt_app/internal/apperrors"
	"github.com/expensehq/expense_mgmt_app/internal/core/domain"
	portssvc "github.com/expensehq/expense_mgmt_app/internal/core/ports/services"
	"github.com/expensehq/expense_mgmt_app/internal/dto"
	"github.com/expensehq/expense_mgmt_app/internal/middleware"
)

// expenseHandler handles HTTP requests related to expenses and approvals.
type expenseHandler struct {
	expenseService portssvc.ExpenseSvcFacade
}

func newExpenseHandler(es portssvc.ExpenseSvcFacade) *expenseHandler {
	return &expenseHandler{expenseService: es}
}

// RegisterExpenseRoutes registers routes related to expenses.
func RegisterExpenseRoutes(rg *gin.RouterGroup, expenseService portssvc.ExpenseSvcFacade) {
	h := newExpenseHandler(expenseService)

	expenses := rg.Group("/expenses")
	{
		expenses.POST("", h.submitExpense)
		expenses.GET("", h.listExpenses)
		expenses.GET("/:id", h.getExpense)
		expenses.POST("/:id/approve", h.approveExpense)
		expenses.POST("/:id/reject", h.rejectExpense)
	}
}

// submitExpense godoc
// @Summary Submit an expense
// @Description Creates a pending expense. The approval chain must be resolvable at submission time; the amount is converted to the company currency when a rate is available.
// @Tags expenses
// @Accept json
// @Produce json
// @Param expense body dto.SubmitExpenseRequest true "Expense details"
// @Success 201 {object} dto.ExpenseResponse
// @Failure 400 {object} ErrorResponse "Invalid amount, unknown currency or category"
// @Failure 422 {object} ErrorResponse "No manager or admin available to approve"
// @Security BearerAuth
// @Router /expenses [post]
func (h *expenseHandler) submitExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requester, ok := requesterFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.SubmitExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	expense, err := h.expenseService.SubmitExpense(c.Request.Context(), requester, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidAmount),
			errors.Is(err, apperrors.ErrUnknownCurrency),
			errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrNoManagerAssigned),
			errors.Is(err, apperrors.ErrNoAdminAvailable):
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to submit expense", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to submit expense"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToExpenseResponse(expense, nil))
}

// listExpenses godoc
// @Summary List visible expenses
// @Description Returns the expenses the caller may see. Employees see their own, managers their reports' plus items awaiting them, admins the whole company.
// @Tags expenses
// @Produce json
// @Param limit query int false "Page size (default 20)"
// @Param nextToken query string false "Opaque pagination token from a previous page"
// @Success 200 {object} dto.ListExpensesResponse
// @Failure 400 {object} ErrorResponse "Malformed pagination token"
// @Security BearerAuth
// @Router /expenses [get]
func (h *expenseHandler) listExpenses(c *gin.Context) {
	requester, ok := requesterFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	nextToken := c.Query("nextToken")

	expenses, token, err := h.expenseService.ListVisibleExpenses(c.Request.Context(), requester, limit, nextToken)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid pagination token"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
		default:
			logger := middleware.GetLoggerFromCtx(c.Request.Context())
			logger.Error("Failed to list expenses", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list expenses"})
		}
		return
	}

	resp := dto.ListExpensesResponse{
		Expenses:  make([]dto.ExpenseResponse, len(expenses)),
		NextToken: token,
	}
	for i := range expenses {
		resp.Expenses[i] = dto.ToExpenseResponse(&expenses[i], nil)
	}
	c.JSON(http.StatusOK, resp)
}

// getExpense godoc
// @Summary Get an expense
// @Description Returns one expense with its approval trail and, while pending, the approver it currently waits on.
// @Tags expenses
// @Produce json
// @Param id path string true "Expense ID"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /expenses/{id} [get]
func (h *expenseHandler) getExpense(c *gin.Context) {
	requester, ok := requesterFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	expense, chain, err := h.expenseService.GetExpenseByID(c.Request.Context(), c.Param("id"), requester)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Expense not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
		default:
			logger := middleware.GetLoggerFromCtx(c.Request.Context())
			logger.Error("Failed to get expense", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to get expense"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense, chain))
}

// approveExpense godoc
// @Summary Approve the current step
// @Description Records an approval by the designated approver, or by an admin overriding the step. Approving the final step pays out the expense.
// @Tags expenses
// @Accept json
// @Produce json
// @Param id path string true "Expense ID"
// @Param decision body dto.DecisionRequest false "Optional comment"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 403 {object} ErrorResponse "Caller is not the designated approver"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Expense already decided or changed concurrently"
// @Security BearerAuth
// @Router /expenses/{id}/approve [post]
func (h *expenseHandler) approveExpense(c *gin.Context) {
	h.decide(c, domain.OutcomeApproved)
}

// rejectExpense godoc
// @Summary Reject the current step
// @Description Records a rejection; the expense becomes terminal and no later step is consulted.
// @Tags expenses
// @Accept json
// @Produce json
// @Param id path string true "Expense ID"
// @Param decision body dto.DecisionRequest false "Optional comment"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 403 {object} ErrorResponse "Caller is not the designated approver"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Expense already decided or changed concurrently"
// @Security BearerAuth
// @Router /expenses/{id}/reject [post]
func (h *expenseHandler) rejectExpense(c *gin.Context) {
	h.decide(c, domain.OutcomeRejected)
}

func (h *expenseHandler) decide(c *gin.Context, outcome domain.DecisionOutcome) {
	requester, ok := requesterFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	// The body is optional; a bare POST decides without a comment.
	var req dto.DecisionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
			return
		}
	}

	expense, err := h.expenseService.Decide(c.Request.Context(), c.Param("id"), requester, outcome, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Expense not found"})
		case errors.Is(err, apperrors.ErrNotAuthorizedApprover):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Not the designated approver for this step"})
		case errors.Is(err, apperrors.ErrExpenseNotPending), errors.Is(err, apperrors.ErrStaleExpense):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrNoManagerAssigned), errors.Is(err, apperrors.ErrNoAdminAvailable):
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logger := middleware.GetLoggerFromCtx(c.Request.Context())
			logger.Error("Failed to record decision", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to record decision"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense, nil))
}
