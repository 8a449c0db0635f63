package controllers

import (
	"net/http"

	"escalas-server/internal/apperrors"
	"escalas-server/internal/logics"
	"escalas-server/internal/middlewares"
	"escalas-server/internal/models"

	"github.com/labstack/echo/v4"
)

// BaseController provides the shared profile resolution and the policy
// checks every mutating endpoint uses. Authorization lives here once instead
// of being re-implemented per operation.
type BaseController struct {
	UserService *logics.UserService
}

// NewBaseController creates a new BaseController.
func NewBaseController(userService *logics.UserService) BaseController {
	return BaseController{
		UserService: userService,
	}
}

// CurrentUser resolves the caller's profile from the validated token,
// creating the row on first login.
func (bc *BaseController) CurrentUser(c echo.Context) (*models.User, error) {
	id, err := middlewares.GetUserIDFromContext(c)
	if err != nil {
		return nil, apperrors.NewUnauthorized(err.Error())
	}
	email, err := middlewares.GetEmailFromContext(c)
	if err != nil {
		return nil, apperrors.NewUnauthorized(err.Error())
	}

	return bc.UserService.GetOrCreateUser(id, email)
}

// RequireAdmin returns the caller when they are an administrator, and a
// Forbidden error otherwise.
func (bc *BaseController) RequireAdmin(c echo.Context) (*models.User, error) {
	user, err := bc.CurrentUser(c)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleAdmin {
		return nil, apperrors.NewForbidden("only administrators can perform this action")
	}
	return user, nil
}

// RequireSelfOrAdmin returns the caller when they are the target user or an
// administrator.
func (bc *BaseController) RequireSelfOrAdmin(c echo.Context, targetID string) (*models.User, error) {
	user, err := bc.CurrentUser(c)
	if err != nil {
		return nil, err
	}
	if user.ID != targetID && user.Role != models.RoleAdmin {
		return nil, apperrors.NewForbidden("not allowed to modify another user")
	}
	return user, nil
}

// respondError maps a service error to its HTTP response.
func respondError(c echo.Context, err error) error {
	if appErr, ok := apperrors.As(err); ok {
		return c.JSON(appErr.HTTPStatus(), map[string]string{"error": appErr.Message})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
}
