package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/expensehq/expense_mgmt_app/internal/apperrors"
	"github.com/expensehq/expense_mgmt_app/internal/core/domain"
	portssvc "github.com/expensehq/expense_mgmt_app/internal/core/ports/services"
	"github.com/expensehq/expense_mgmt_app/internal/dto"
	"github.com/expensehq/expense_mgmt_app/internal/middleware"
)

// userHandler handles HTTP requests related to company users.
type userHandler struct {
	userService portssvc.UserSvcFacade
}

func newUserHandler(us portssvc.UserSvcFacade) *userHandler {
	return &userHandler{userService: us}
}

// registerUserRoutes registers routes related to users.
func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := newUserHandler(userService)

	users := rg.Group("/users")
	{
		users.GET("", h.listUsers)
		users.GET("/:id", h.getUser)
		users.POST("", h.createUser)
		users.PUT("/:id", h.updateUser)
		users.PUT("/:id/manager", h.assignManager)
		users.POST("/:id/deactivate", h.deactivateUser)
		users.DELETE("/:id", h.deleteUser)
	}
}

// requireAdmin aborts with 403 unless the caller is a company admin.
func requireAdmin(c *gin.Context) (*domain.User, bool) {
	requester, ok := requesterFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return nil, false
	}
	if requester.Role != domain.RoleAdmin {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Admin role required"})
		return nil, false
	}
	return requester, true
}

// listUsers godoc
// @Summary List company users
// @Description Returns every user of the caller's company.
// @Tags users
// @Produce json
// @Success 200 {object} dto.ListUsersResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /users [get]
func (h *userHandler) listUsers(c *gin.Context) {
	requester, ok := requesterFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	users, err := h.userService.ListUsersByCompany(c.Request.Context(), requester.CompanyID)
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to list users", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list users"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListUsersResponse(users))
}

// getUser godoc
// @Summary Get a user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *userHandler) getUser(c *gin.Context) {
	requester, ok := requesterFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil || user.CompanyID != requester.CompanyID {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// createUser godoc
// @Summary Create a company user
// @Description Admin creates an employee or manager account, optionally assigning a manager.
// @Tags users
// @Accept json
// @Produce json
// @Param user body dto.CreateUserRequest true "User details"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Email already exists"
// @Security BearerAuth
// @Router /users [post]
func (h *userHandler) createUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requester, ok := requireAdmin(c)
	if !ok {
		return
	}

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), requester.CompanyID, req, requester.UserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Email already exists"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to create user", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create user"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// updateUser godoc
// @Summary Update a user
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param user body dto.UpdateUserRequest true "Fields to update"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [put]
func (h *userHandler) updateUser(c *gin.Context) {
	requester, ok := requireAdmin(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	if !h.sameCompany(c, requester) {
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), c.Param("id"), req, requester.UserID)
	if err != nil {
		h.respondUserError(c, err, "Failed to update user")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// assignManager godoc
// @Summary Assign or clear a user's manager
// @Description Sets the reporting line used by approval chain resolution. A null manager ID unassigns.
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param manager body dto.AssignManagerRequest true "Manager assignment"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/{id}/manager [put]
func (h *userHandler) assignManager(c *gin.Context) {
	requester, ok := requireAdmin(c)
	if !ok {
		return
	}

	var req dto.AssignManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	if !h.sameCompany(c, requester) {
		return
	}

	user, err := h.userService.AssignManager(c.Request.Context(), c.Param("id"), req.ManagerID, requester.UserID)
	if err != nil {
		h.respondUserError(c, err, "Failed to assign manager")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// deactivateUser godoc
// @Summary Deactivate a user
// @Description Marks a user inactive so they drop out of approval chains.
// @Tags users
// @Param id path string true "User ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/{id}/deactivate [post]
func (h *userHandler) deactivateUser(c *gin.Context) {
	requester, ok := requireAdmin(c)
	if !ok {
		return
	}
	if !h.sameCompany(c, requester) {
		return
	}

	if err := h.userService.DeactivateUser(c.Request.Context(), c.Param("id"), requester.UserID); err != nil {
		h.respondUserError(c, err, "Failed to deactivate user")
		return
	}

	c.Status(http.StatusNoContent)
}

// deleteUser godoc
// @Summary Delete a user
// @Description Soft-deletes a user account.
// @Tags users
// @Param id path string true "User ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [delete]
func (h *userHandler) deleteUser(c *gin.Context) {
	requester, ok := requireAdmin(c)
	if !ok {
		return
	}
	if !h.sameCompany(c, requester) {
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), c.Param("id"), requester.UserID); err != nil {
		h.respondUserError(c, err, "Failed to delete user")
		return
	}

	c.Status(http.StatusNoContent)
}

// sameCompany rejects cross-tenant user IDs as not found.
func (h *userHandler) sameCompany(c *gin.Context, requester *domain.User) bool {
	target, err := h.userService.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil || target.CompanyID != requester.CompanyID {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
		return false
	}
	return true
}

func (h *userHandler) respondUserError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fallback})
	}
}
