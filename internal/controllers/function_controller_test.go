package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"escalas-server/configs"
	"escalas-server/internal/apperrors"
	"escalas-server/internal/logics"
	"escalas-server/internal/models"
	"escalas-server/internal/repositories"

	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testValidator struct {
	validate *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return apperrors.NewValidation(err.Error())
	}
	return nil
}

func setupControllerTest(t *testing.T) BaseController {
	t.Helper()

	configs.Logger = zap.NewNop()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	require.NoError(t, repositories.AutoMigrateInOrder(db))
	repositories.DBS.Postgres = db

	return NewBaseController(logics.NewUserService(nil, nil))
}

// newAuthedContext builds an echo context carrying the claims the JWT
// middleware would have stored.
func newAuthedContext(t *testing.T, method, target, body, userID, email string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = &testValidator{validate: validator.New()}

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	c.Set("user_email", email)
	return c, rec
}

func createAdmin(t *testing.T) *models.User {
	t.Helper()

	admin := &models.User{
		ID:       "11111111-1111-1111-1111-111111111111",
		Email:    "admin@example.com",
		FullName: "admin",
		Username: "admin",
		Role:     models.RoleAdmin,
	}
	require.NoError(t, repositories.DBS.Postgres.Create(admin).Error)
	return admin
}

func TestFunctionController_CreateFunction(t *testing.T) {
	base := setupControllerTest(t)
	controller := NewFunctionController(base, logics.NewFunctionService(nil))
	admin := createAdmin(t)

	t.Run("admin creates a function", func(t *testing.T) {
		c, rec := newAuthedContext(t, http.MethodPost, "/api/v1/functions",
			`{"name":"Operador De Câmera","label":"Operador de Câmera"}`, admin.ID, admin.Email)

		require.NoError(t, controller.CreateFunction(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var function models.TeamFunction
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &function))
		assert.Equal(t, "operador_de_câmera", function.Name)
		assert.Equal(t, models.DefaultFunctionColor, function.Color)
	})

	t.Run("non-admin is rejected", func(t *testing.T) {
		// An unknown caller self-registers with the default role.
		c, rec := newAuthedContext(t, http.MethodPost, "/api/v1/functions",
			`{"name":"Vocal","label":"Vocal"}`, "22222222-2222-2222-2222-222222222222", "ana@example.com")

		require.NoError(t, controller.CreateFunction(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("missing label is rejected", func(t *testing.T) {
		c, rec := newAuthedContext(t, http.MethodPost, "/api/v1/functions",
			`{"name":"Vocal"}`, admin.ID, admin.Email)

		require.NoError(t, controller.CreateFunction(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestFunctionController_DeleteFunction(t *testing.T) {
	base := setupControllerTest(t)
	controller := NewFunctionController(base, logics.NewFunctionService(nil))
	admin := createAdmin(t)

	function := models.TeamFunction{ID: "F00VOCAL0001", Name: "vocal", Label: "Vocal", Color: models.DefaultFunctionColor}
	require.NoError(t, repositories.DBS.Postgres.Create(&function).Error)

	t.Run("requires the id parameter", func(t *testing.T) {
		c, rec := newAuthedContext(t, http.MethodDelete, "/api/v1/functions", "", admin.ID, admin.Email)

		require.NoError(t, controller.DeleteFunction(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("conflict while assigned", func(t *testing.T) {
		require.NoError(t, repositories.DBS.Postgres.Model(&models.User{ID: admin.ID}).
			Update("team_function_id", function.ID).Error)

		c, rec := newAuthedContext(t, http.MethodDelete, "/api/v1/functions?id="+function.ID, "", admin.ID, admin.Email)

		require.NoError(t, controller.DeleteFunction(c))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("deletes once unassigned", func(t *testing.T) {
		require.NoError(t, repositories.DBS.Postgres.Model(&models.User{ID: admin.ID}).
			Update("team_function_id", nil).Error)

		c, rec := newAuthedContext(t, http.MethodDelete, "/api/v1/functions?id="+function.ID, "", admin.ID, admin.Email)

		require.NoError(t, controller.DeleteFunction(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
