package logics

import (
	"testing"

	"escalas-server/configs"
	"escalas-server/internal/models"
	"escalas-server/internal/repositories"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB points the global DB at a fresh in-memory SQLite instance.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	configs.Logger = zap.NewNop()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	require.NoError(t, repositories.AutoMigrateInOrder(db))

	repositories.DBS.Postgres = db
	return db
}

func createTestUser(t *testing.T, id, email, role string) *models.User {
	t.Helper()

	user := &models.User{
		ID:       id,
		Email:    email,
		FullName: UsernameFromEmail(email),
		Username: UsernameFromEmail(email),
		Role:     role,
	}
	require.NoError(t, repositories.DBS.Postgres.Create(user).Error)
	return user
}
