package profile

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mkohara/roastery/pkg/db/models"
)

var profileTestDBSeq int

func newProfileTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	profileTestDBSeq++
	dsn := fmt.Sprintf("file:profile_%d?mode=memory&cache=shared", profileTestDBSeq)
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Profile{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return conn
}

func TestUpsertCreatesThenUpdates(t *testing.T) {
	repo := NewRepository(newProfileTestDB(t))
	ctx := context.Background()

	first := &models.Profile{
		UserID:      "user-1",
		DisplayName: "Mika",
		PostCode:    "150-0001",
	}
	if err := repo.Upsert(ctx, first); err != nil {
		t.Fatalf("initial upsert: %v", err)
	}

	second := &models.Profile{
		UserID:      "user-1",
		DisplayName: "Mika K",
		PostCode:    "160-0022",
		AboutMe:     "single origin only",
	}
	if err := repo.Upsert(ctx, second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	found, err := repo.FindByUserID(ctx, "user-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.DisplayName != "Mika K" || found.PostCode != "160-0022" {
		t.Fatalf("expected updated row, got %+v", found)
	}

	var count int64
	if err := repo.DB(ctx).Model(&models.Profile{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single row, got %d", count)
	}
}

func TestFindByUserIDMissing(t *testing.T) {
	repo := NewRepository(newProfileTestDB(t))

	_, err := repo.FindByUserID(context.Background(), "nobody")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}
