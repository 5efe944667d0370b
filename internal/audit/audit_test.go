package audit

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/skyportlabs/panel/internal/db/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.AuditLog{}))

	return db
}

func TestDBNotifier_Notify(t *testing.T) {
	db := setupTestDB(t)
	notifier := NewDBNotifier(db)

	ctx, cancel := context.WithCancel(context.Background())
	notifier.Notify(ctx, Entry{ActorID: 1, ActorName: "admin", Action: "footer:enabled", Origin: "10.0.0.1"})
	// a finished request must not drop the entry
	cancel()

	notifier.Notify(context.Background(), Entry{ActorID: 1, ActorName: "admin", Action: "name:edit", Origin: "10.0.0.1"})
	notifier.Wait()

	var rows []models.AuditLog
	require.NoError(t, db.Order("action").Find(&rows).Error)
	require.Len(t, rows, 2)

	assert.Equal(t, "footer:enabled", rows[0].Action)
	assert.Equal(t, "name:edit", rows[1].Action)

	for _, row := range rows {
		assert.Len(t, row.ID, 36)
		assert.Equal(t, uint64(1), row.ActorID)
		assert.Equal(t, "admin", row.ActorName)
		assert.Equal(t, "10.0.0.1", row.Origin)
		assert.False(t, row.CreatedAt.IsZero())
	}
}

func TestDBNotifier_FailureIsSwallowed(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Migrator().DropTable(&models.AuditLog{}))

	notifier := NewDBNotifier(db)
	notifier.Notify(context.Background(), Entry{Action: "logo:edit"})
	notifier.Wait()
}
