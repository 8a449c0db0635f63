package controllers

import (
	"net/http"

	"escalas-server/internal/logics"

	"github.com/labstack/echo/v4"
)

// PushController exposes the service-to-service notification endpoint. It is
// guarded by the shared service token, not user JWTs.
type PushController struct {
	NotificationService *logics.NotificationService
}

func NewPushController(notificationService *logics.NotificationService) *PushController {
	return &PushController{
		NotificationService: notificationService,
	}
}

type sendPushRequest struct {
	UserID string `json:"userId" validate:"required"`
	Title  string `json:"title" validate:"required"`
	Body   string `json:"body"`
	URL    string `json:"url"`
}

// SendPush handles POST /push.
func (pc *PushController) SendPush(c echo.Context) error {
	var req sendPushRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err)
	}

	if err := pc.NotificationService.NotifyUserByID(c.Request().Context(), req.UserID, req.Title, req.Body, req.URL); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
