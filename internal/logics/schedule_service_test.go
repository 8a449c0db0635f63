package logics

import (
	"context"
	"testing"

	"escalas-server/internal/apperrors"
	"escalas-server/internal/models"
	"escalas-server/internal/repositories"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduleService() *ScheduleService {
	return NewScheduleService(NewUserService(nil, nil), nil, nil)
}

func TestValidateDate(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		wantErr bool
	}{
		{name: "canonical", date: "2026-09-06", wantErr: false},
		{name: "leap day", date: "2024-02-29", wantErr: false},
		{name: "non leap february", date: "2026-02-29", wantErr: true},
		{name: "missing zero padding", date: "2026-9-6", wantErr: true},
		{name: "slash separators", date: "2026/09/06", wantErr: true},
		{name: "with time suffix", date: "2026-09-06T00:00:00Z", wantErr: true},
		{name: "empty", date: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDate(tt.date)
			if tt.wantErr {
				appErr, ok := apperrors.As(err)
				require.True(t, ok)
				assert.Equal(t, apperrors.TypeValidation, appErr.Type)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestScheduleService_CreateSchedule(t *testing.T) {
	setupTestDB(t)
	service := newTestScheduleService()
	ctx := context.Background()

	admin := createTestUser(t, "11111111-1111-1111-1111-111111111111", "admin@example.com", models.RoleAdmin)
	member := createTestUser(t, "22222222-2222-2222-2222-222222222222", "ana@example.com", models.RoleUser)

	t.Run("creates and joins the user", func(t *testing.T) {
		schedule, err := service.CreateSchedule(ctx, "2026-09-06", member.ID, admin.ID)
		require.NoError(t, err)

		assert.Equal(t, "2026-09-06", schedule.Date)
		assert.Equal(t, admin.ID, schedule.CreatedBy)
		require.NotNil(t, schedule.User)
		assert.Equal(t, member.Email, schedule.User.Email)
	})

	t.Run("duplicate date and user pair is allowed", func(t *testing.T) {
		first, err := service.CreateSchedule(ctx, "2026-09-13", member.ID, admin.ID)
		require.NoError(t, err)
		second, err := service.CreateSchedule(ctx, "2026-09-13", member.ID, admin.ID)
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)

		rows, err := service.ListSchedulesByDate(ctx, "2026-09-13")
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("rejects unknown user", func(t *testing.T) {
		_, err := service.CreateSchedule(ctx, "2026-09-06", "33333333-3333-3333-3333-333333333333", admin.ID)
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.TypeNotFound, appErr.Type)
	})

	t.Run("rejects malformed date", func(t *testing.T) {
		_, err := service.CreateSchedule(ctx, "06/09/2026", member.ID, admin.ID)
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.TypeValidation, appErr.Type)
	})
}

func TestScheduleService_ListSchedulesByDate(t *testing.T) {
	setupTestDB(t)
	service := newTestScheduleService()
	ctx := context.Background()

	admin := createTestUser(t, "11111111-1111-1111-1111-111111111111", "admin@example.com", models.RoleAdmin)
	member := createTestUser(t, "22222222-2222-2222-2222-222222222222", "ana@example.com", models.RoleUser)

	_, err := service.CreateSchedule(ctx, "2026-09-06", member.ID, admin.ID)
	require.NoError(t, err)
	_, err = service.CreateSchedule(ctx, "2026-09-13", admin.ID, admin.ID)
	require.NoError(t, err)

	t.Run("filters by exact date", func(t *testing.T) {
		rows, err := service.ListSchedulesByDate(ctx, "2026-09-06")
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, member.ID, rows[0].UserID)
	})

	t.Run("empty roster date", func(t *testing.T) {
		rows, err := service.ListSchedulesByDate(ctx, "2026-09-20")
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("full list is date ordered", func(t *testing.T) {
		rows, err := service.ListSchedules(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "2026-09-06", rows[0].Date)
		assert.Equal(t, "2026-09-13", rows[1].Date)
	})
}

func TestScheduleService_AvailableUsers(t *testing.T) {
	setupTestDB(t)
	service := newTestScheduleService()
	ctx := context.Background()

	admin := createTestUser(t, "11111111-1111-1111-1111-111111111111", "admin@example.com", models.RoleAdmin)
	ana := createTestUser(t, "22222222-2222-2222-2222-222222222222", "ana@example.com", models.RoleUser)
	bruno := createTestUser(t, "33333333-3333-3333-3333-333333333333", "bruno@example.com", models.RoleUser)

	_, err := service.CreateSchedule(ctx, "2026-09-06", ana.ID, admin.ID)
	require.NoError(t, err)

	t.Run("excludes already scheduled users", func(t *testing.T) {
		available, err := service.AvailableUsers(ctx, "2026-09-06")
		require.NoError(t, err)

		ids := lo.Map(available, func(u models.User, _ int) string { return u.ID })
		assert.NotContains(t, ids, ana.ID)
		assert.Contains(t, ids, bruno.ID)
		assert.Contains(t, ids, admin.ID)
	})

	t.Run("everyone is available on an empty date", func(t *testing.T) {
		available, err := service.AvailableUsers(ctx, "2026-09-20")
		require.NoError(t, err)
		assert.Len(t, available, 3)
	})
}

func TestScheduleService_CreateSchedulesBatch(t *testing.T) {
	setupTestDB(t)
	service := newTestScheduleService()
	ctx := context.Background()

	admin := createTestUser(t, "11111111-1111-1111-1111-111111111111", "admin@example.com", models.RoleAdmin)
	ana := createTestUser(t, "22222222-2222-2222-2222-222222222222", "ana@example.com", models.RoleUser)
	bruno := createTestUser(t, "33333333-3333-3333-3333-333333333333", "bruno@example.com", models.RoleUser)

	t.Run("partial failure keeps earlier rows", func(t *testing.T) {
		unknown := "44444444-4444-4444-4444-444444444444"
		result, err := service.CreateSchedulesBatch(ctx, "2026-09-06", []string{ana.ID, unknown, bruno.ID}, admin.ID)
		require.NoError(t, err)

		assert.Len(t, result.Created, 2)
		require.Len(t, result.Failed, 1)
		assert.Equal(t, unknown, result.Failed[0].UserID)

		rows, err := service.ListSchedulesByDate(ctx, "2026-09-06")
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("rejects empty id list", func(t *testing.T) {
		_, err := service.CreateSchedulesBatch(ctx, "2026-09-06", nil, admin.ID)
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.TypeValidation, appErr.Type)
	})

	t.Run("rejects malformed date before any row is written", func(t *testing.T) {
		_, err := service.CreateSchedulesBatch(ctx, "bad-date", []string{ana.ID}, admin.ID)
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.TypeValidation, appErr.Type)
	})
}

func TestScheduleService_DeleteSchedule(t *testing.T) {
	setupTestDB(t)
	service := newTestScheduleService()
	ctx := context.Background()

	admin := createTestUser(t, "11111111-1111-1111-1111-111111111111", "admin@example.com", models.RoleAdmin)
	schedule, err := service.CreateSchedule(ctx, "2026-09-06", admin.ID, admin.ID)
	require.NoError(t, err)

	t.Run("deletes and is idempotent", func(t *testing.T) {
		require.NoError(t, service.DeleteSchedule(ctx, schedule.ID))

		_, err := service.GetScheduleByID(schedule.ID)
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.TypeNotFound, appErr.Type)

		// Repeating the delete is a no-op success.
		assert.NoError(t, service.DeleteSchedule(ctx, schedule.ID))
	})
}

func TestScheduleService_OrphanedSchedules(t *testing.T) {
	setupTestDB(t)
	service := newTestScheduleService()
	ctx := context.Background()

	admin := createTestUser(t, "11111111-1111-1111-1111-111111111111", "admin@example.com", models.RoleAdmin)
	member := createTestUser(t, "22222222-2222-2222-2222-222222222222", "ana@example.com", models.RoleUser)

	schedule, err := service.CreateSchedule(ctx, "2026-09-06", member.ID, admin.ID)
	require.NoError(t, err)

	// Removing the profile directly; the roster entry stays behind.
	require.NoError(t, repositories.DBS.Postgres.Delete(&models.User{}, "id = ?", member.ID).Error)

	rows, err := service.ListSchedulesByDate(ctx, "2026-09-06")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, schedule.ID, rows[0].ID)
	assert.Equal(t, member.ID, rows[0].UserID)
	assert.Nil(t, rows[0].User)
}
