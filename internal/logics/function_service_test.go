package logics

import (
	"testing"

	"escalas-server/internal/apperrors"
	"escalas-server/internal/models"
	"escalas-server/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFunctionName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "simple", input: "Vocal", expected: "vocal"},
		{name: "multi word with accents", input: "Operador De Câmera", expected: "operador_de_câmera"},
		{name: "surrounding whitespace", input: "  Projeção  ", expected: "projeção"},
		{name: "collapses inner whitespace", input: "Som\t e  Luz", expected: "som_e_luz"},
		{name: "already normalized", input: "baixo", expected: "baixo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeFunctionName(tt.input))
		})
	}
}

func TestFunctionService_CreateFunction(t *testing.T) {
	setupTestDB(t)
	service := NewFunctionService(nil)

	t.Run("normalizes name and applies default color", func(t *testing.T) {
		function, err := service.CreateFunction("Operador De Câmera", "Operador de Câmera", "filma os cultos", "")
		require.NoError(t, err)

		assert.Equal(t, "operador_de_câmera", function.Name)
		assert.Equal(t, "Operador de Câmera", function.Label)
		assert.Equal(t, models.DefaultFunctionColor, function.Color)
		assert.Len(t, function.ID, 12)
	})

	t.Run("keeps explicit color", func(t *testing.T) {
		function, err := service.CreateFunction("Vocal", "Vocal", "", "#FF0000")
		require.NoError(t, err)
		assert.Equal(t, "#FF0000", function.Color)
	})

	t.Run("rejects missing name or label", func(t *testing.T) {
		_, err := service.CreateFunction("", "Label", "", "")
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.TypeValidation, appErr.Type)

		_, err = service.CreateFunction("name", "  ", "", "")
		appErr, ok = apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.TypeValidation, appErr.Type)
	})
}

func TestFunctionService_UpdateFunction(t *testing.T) {
	setupTestDB(t)
	service := NewFunctionService(nil)

	function, err := service.CreateFunction("Vocal", "Vocal", "", "")
	require.NoError(t, err)

	t.Run("renormalizes updated name", func(t *testing.T) {
		newName := "Vocal Principal"
		updated, err := service.UpdateFunction(function.ID, models.TeamFunctionUpdate{Name: &newName})
		require.NoError(t, err)
		assert.Equal(t, "vocal_principal", updated.Name)
		assert.Equal(t, "Vocal", updated.Label)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		empty := "  "
		_, err := service.UpdateFunction(function.ID, models.TeamFunctionUpdate{Name: &empty})
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.TypeValidation, appErr.Type)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := service.UpdateFunction("F00UNKNOWN00", models.TeamFunctionUpdate{})
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.TypeNotFound, appErr.Type)
	})
}

func TestFunctionService_DeleteFunction(t *testing.T) {
	setupTestDB(t)
	service := NewFunctionService(nil)

	assigned, err := service.CreateFunction("Vocal", "Vocal", "", "")
	require.NoError(t, err)
	unused, err := service.CreateFunction("Projeção", "Projeção", "", "")
	require.NoError(t, err)

	user := createTestUser(t, "11111111-1111-1111-1111-111111111111", "ana@example.com", models.RoleUser)
	require.NoError(t, repositories.DBS.Postgres.Model(user).Update("team_function_id", assigned.ID).Error)

	t.Run("refuses while a user has the function", func(t *testing.T) {
		err := service.DeleteFunction(assigned.ID)
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.TypeConflict, appErr.Type)

		_, err = service.GetFunctionByID(assigned.ID)
		assert.NoError(t, err)
	})

	t.Run("deletes an unused function", func(t *testing.T) {
		require.NoError(t, service.DeleteFunction(unused.ID))

		_, err := service.GetFunctionByID(unused.ID)
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.TypeNotFound, appErr.Type)
	})

	t.Run("deletes after the last assignment is cleared", func(t *testing.T) {
		require.NoError(t, repositories.DBS.Postgres.Model(user).Update("team_function_id", nil).Error)
		assert.NoError(t, service.DeleteFunction(assigned.ID))
	})

	t.Run("unknown id", func(t *testing.T) {
		err := service.DeleteFunction("F00UNKNOWN00")
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.TypeNotFound, appErr.Type)
	})
}
