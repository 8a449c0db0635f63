package controllers

import (
	"fmt"
	"net/http"
	"net/url"

	"escalas-server/configs"
	"escalas-server/internal/identity"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthController completes the invitation flow: the identity provider
// redirects invited users here with a one-time code, which is exchanged for a
// session before handing the browser back to the web app.
type AuthController struct {
	IdentityClient *identity.Client
}

func NewAuthController(identityClient *identity.Client) *AuthController {
	return &AuthController{
		IdentityClient: identityClient,
	}
}

// Callback handles GET /auth/callback.
func (ac *AuthController) Callback(c echo.Context) error {
	appURL := configs.Configs.Service.AppURL

	code := c.QueryParam("code")
	if code == "" {
		reason := c.QueryParam("error_description")
		if reason == "" {
			reason = "missing authorization code"
		}
		return redirectWithError(c, appURL, reason)
	}

	session, err := ac.IdentityClient.ExchangeCode(c.Request().Context(), code)
	if err != nil {
		configs.Logger.Warn("code exchange failed", zap.Error(err))
		return redirectWithError(c, appURL, "invitation link is invalid or expired")
	}

	// Tokens travel in the URL fragment so they never reach server logs.
	target := fmt.Sprintf("%s/auth/set-password#access_token=%s&refresh_token=%s",
		appURL,
		url.QueryEscape(session.AccessToken),
		url.QueryEscape(session.RefreshToken),
	)
	return c.Redirect(http.StatusFound, target)
}

func redirectWithError(c echo.Context, appURL, reason string) error {
	return c.Redirect(http.StatusFound, fmt.Sprintf("%s/auth/error?reason=%s", appURL, url.QueryEscape(reason)))
}
