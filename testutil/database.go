package testutil

import (
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"keepsakes/entity"
)

// SetupTestDB opens a private in-memory sqlite database with foreign keys on
// and every table migrated.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	conn, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get database handle: %v", err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = conn.Close() })

	if err := db.AutoMigrate(entity.All()...); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}
	return db
}

// AttachLaggingReplica routes db's plain reads to a migrated replica that
// never receives writes, like a replica that has fallen behind.
func AttachLaggingReplica(t *testing.T, db *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	replica, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("Failed to open replica: %v", err)
	}
	if err := replica.AutoMigrate(entity.All()...); err != nil {
		t.Fatalf("Failed to migrate replica: %v", err)
	}
	// keeps the in-memory replica alive for the resolver's own pool
	conn, err := replica.DB()
	if err != nil {
		t.Fatalf("Failed to get replica handle: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	if err := db.Use(dbresolver.Register(dbresolver.Config{
		Replicas: []gorm.Dialector{sqlite.Open(dsn)},
	})); err != nil {
		t.Fatalf("Failed to register replica: %v", err)
	}
}

// CreateUser inserts a user with fake profile data.
func CreateUser(t *testing.T, db *gorm.DB) *entity.User {
	t.Helper()
	user := &entity.User{
		Name:  gofakeit.Name(),
		Email: gofakeit.Email(),
		Slug:  "user-" + uuid.NewString()[:8],
		Image: AttachmentURL("user_profiles/" + uuid.NewString()[:8] + ".png"),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user
}
