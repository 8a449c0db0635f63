package middlewares

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"escalas-server/configs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const userIDKey = "user_id"
const emailKey = "user_email"
const accessTokenKey = "access_token"

// JWTMiddleware extracts the Bearer token from the Authorization header,
// verifies it against the identity provider's HS256 secret, and stores the
// sub claim (user ID) and email claim in the request context.
func JWTMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing authorization header"})
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == authHeader {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid authorization header format"})
		}

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(configs.Configs.Secrets.JWTSecret), nil
		})
		if err != nil {
			configs.Logger.Warn("JWT validation failed",
				zap.String("path", c.Request().URL.Path),
				zap.Error(err))
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || !token.Valid {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
		}

		sub, ok := claims["sub"].(string)
		if !ok || sub == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "sub claim not found in token"})
		}
		// Identity provider subjects are UUIDs.
		if _, err := uuid.Parse(sub); err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "sub claim is not a valid user id"})
		}
		email, ok := claims["email"].(string)
		if !ok || email == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "email claim not found in token"})
		}

		c.Set(userIDKey, sub)
		c.Set(emailKey, email)
		c.Set(accessTokenKey, tokenStr)
		return next(c)
	}
}

// ServiceTokenMiddleware gates endpoints reserved for server-side callers
// behind the shared service token header.
func ServiceTokenMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := c.Request().Header.Get("X-Service-Token")
		expected := configs.Configs.Secrets.ServiceToken
		if expected == "" || subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid service token"})
		}
		return next(c)
	}
}

// GetUserIDFromContext extracts the user_id stored by the middleware.
func GetUserIDFromContext(c echo.Context) (string, error) {
	uid := c.Get(userIDKey)
	if uid == nil {
		return "", errors.New("user id not found in context")
	}
	userID, ok := uid.(string)
	if !ok {
		return "", errors.New("user id has invalid type")
	}
	return userID, nil
}

// GetEmailFromContext extracts the email stored by the middleware.
func GetEmailFromContext(c echo.Context) (string, error) {
	email := c.Get(emailKey)
	if email == nil {
		return "", errors.New("email not found in context")
	}
	emailStr, ok := email.(string)
	if !ok {
		return "", errors.New("email has invalid type")
	}
	return emailStr, nil
}

// GetAccessTokenFromContext extracts the raw bearer token, forwarded to the
// identity provider on self-service operations.
func GetAccessTokenFromContext(c echo.Context) (string, error) {
	token := c.Get(accessTokenKey)
	if token == nil {
		return "", errors.New("access token not found in context")
	}
	tokenStr, ok := token.(string)
	if !ok {
		return "", errors.New("access token has invalid type")
	}
	return tokenStr, nil
}
