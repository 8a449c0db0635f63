package controllers

import (
	"net/http"

	"escalas-server/internal/logics"
	"escalas-server/internal/middlewares"
	"escalas-server/internal/models"

	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"
)

type UserController struct {
	BaseController
	AvatarService *logics.AvatarService
}

func NewUserController(base BaseController, avatarService *logics.AvatarService) *UserController {
	return &UserController{
		BaseController: base,
		AvatarService:  avatarService,
	}
}

type inviteUserRequest struct {
	Email          string  `json:"email" validate:"required,email"`
	FullName       string  `json:"full_name" validate:"required"`
	Role           string  `json:"role" validate:"omitempty,oneof=admin user"`
	TeamFunctionID *string `json:"team_function_id"`
}

type setPasswordRequest struct {
	Password     string `json:"password" validate:"required"`
	Confirmation string `json:"confirmation" validate:"required"`
}

type pushSubscriptionRequest struct {
	Subscription datatypes.JSON `json:"subscription" validate:"required"`
}

// ListUsers handles GET /api/v1/users.
func (uc *UserController) ListUsers(c echo.Context) error {
	if _, err := uc.CurrentUser(c); err != nil {
		return respondError(c, err)
	}

	users, err := uc.UserService.ListUsers()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// Me handles GET /api/v1/users/me.
func (uc *UserController) Me(c echo.Context) error {
	user, err := uc.CurrentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// InviteUser handles POST /api/v1/users. The identity provider sends the
// invitation email; the profile row is reconciled locally.
func (uc *UserController) InviteUser(c echo.Context) error {
	if _, err := uc.RequireAdmin(c); err != nil {
		return respondError(c, err)
	}

	var req inviteUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err)
	}

	user, err := uc.UserService.InviteUser(c.Request().Context(), req.Email, req.FullName, req.Role, req.TeamFunctionID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

// UpdateUser handles PUT /api/v1/users/:id. Admin only; self-service is
// limited to the dedicated avatar, password and push-subscription endpoints.
func (uc *UserController) UpdateUser(c echo.Context) error {
	if _, err := uc.RequireAdmin(c); err != nil {
		return respondError(c, err)
	}

	var updates models.UserUpdate
	if err := c.Bind(&updates); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	user, err := uc.UserService.UpdateUser(c.Param("id"), updates)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteUser handles DELETE /api/v1/users/:id. Schedules referencing the
// user are left in place and surface with a null user.
func (uc *UserController) DeleteUser(c echo.Context) error {
	caller, err := uc.RequireAdmin(c)
	if err != nil {
		return respondError(c, err)
	}

	id := c.Param("id")
	if id == caller.ID {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "cannot delete your own account"})
	}

	if err := uc.UserService.DeleteUser(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// UploadAvatar handles POST /api/v1/users/:id/avatar with a multipart file.
func (uc *UserController) UploadAvatar(c echo.Context) error {
	id := c.Param("id")
	if _, err := uc.RequireSelfOrAdmin(c, id); err != nil {
		return respondError(c, err)
	}

	header, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "file field is required"})
	}
	file, err := header.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "failed to read uploaded file"})
	}
	defer file.Close()

	user, err := uc.AvatarService.UploadAvatar(c.Request().Context(), id, file, header)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// SetPassword handles POST /api/v1/users/me/password. The caller's own token
// is forwarded to the identity provider, so only the account owner can set it.
func (uc *UserController) SetPassword(c echo.Context) error {
	if _, err := uc.CurrentUser(c); err != nil {
		return respondError(c, err)
	}

	var req setPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err)
	}

	token, err := middlewares.GetAccessTokenFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := uc.UserService.SetPassword(c.Request().Context(), token, req.Password, req.Confirmation); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// SetPushSubscription handles PUT /api/v1/users/me/push-subscription.
func (uc *UserController) SetPushSubscription(c echo.Context) error {
	user, err := uc.CurrentUser(c)
	if err != nil {
		return respondError(c, err)
	}

	var req pushSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if len(req.Subscription) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "subscription is required"})
	}

	if err := uc.UserService.SetPushSubscription(user.ID, req.Subscription); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// ClearPushSubscription handles DELETE /api/v1/users/me/push-subscription.
func (uc *UserController) ClearPushSubscription(c echo.Context) error {
	user, err := uc.CurrentUser(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := uc.UserService.ClearPushSubscription(user.ID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
