package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/carman72tmn/foodtech/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens a fresh in-memory database, migrates every table and
// binds it as the global connection used by transactional services.
func newTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Customer{},
		&models.Branch{},
		&models.Category{},
		&models.Product{},
		&models.ProductSize{},
		&models.PromoCode{},
		&models.Action{},
		&models.Order{},
		&models.OrderItem{},
		&models.SyncLog{},
		&models.WebhookEvent{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return db
}
