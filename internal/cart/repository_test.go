package cart

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mkohara/roastery/pkg/db/models"
	"github.com/mkohara/roastery/pkg/enums"
)

var cartTestDBSeq int

// The uuid defaults in the model tags are postgres-only, so the test schema
// is written by hand. The repository assigns ids itself via uuid.New.
func newCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cartTestDBSeq++
	dsn := fmt.Sprintf("file:cart_%d?mode=memory&cache=shared", cartTestDBSeq)
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	beans := `
CREATE TABLE IF NOT EXISTS beans (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  origin TEXT NOT NULL,
  price INTEGER NOT NULL,
  process TEXT NOT NULL,
  roast_profile TEXT NOT NULL,
  flavor_notes TEXT,
  description TEXT,
  image_url TEXT,
  user_id TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	carts := `
CREATE TABLE IF NOT EXISTS carts (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  created_at DATETIME,
  updated_at DATETIME
);`
	cartItems := `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL REFERENCES carts (id) ON DELETE CASCADE,
  bean_id INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (cart_id, bean_id)
);`
	for _, ddl := range []string{beans, carts, cartItems} {
		if err := conn.Exec(ddl).Error; err != nil {
			t.Fatalf("failed to create test schema: %v", err)
		}
	}
	return conn
}

func seedTestBean(t *testing.T, db *gorm.DB, name string, price int) *models.Bean {
	t.Helper()
	bean := &models.Bean{
		Name:         name,
		Origin:       "Ethiopia",
		Price:        price,
		Process:      enums.BeanProcessWashed,
		RoastProfile: enums.RoastProfileLight,
		UserID:       "roaster-1",
	}
	if err := db.Create(bean).Error; err != nil {
		t.Fatalf("seed bean: %v", err)
	}
	return bean
}

func TestUpsertItemIncrementsExistingLine(t *testing.T) {
	db := newCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	bean := seedTestBean(t, db, "Yirgacheffe", 1800)

	cart, err := repo.FindOrCreateCart(ctx, "user-1")
	if err != nil {
		t.Fatalf("find or create cart: %v", err)
	}

	first, err := repo.UpsertItem(ctx, cart.ID, bean.ID, 2)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second, err := repo.UpsertItem(ctx, cart.ID, bean.ID, 3)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("expected same line reused, got %s and %s", first.ID, second.ID)
	}
	if second.Quantity != 5 {
		t.Fatalf("expected quantity 5 after increment, got %d", second.Quantity)
	}

	var count int64
	if err := db.Model(&models.CartItem{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single line, got %d", count)
	}
}

func TestItemsDetailForUserJoinsBeans(t *testing.T) {
	db := newCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	bean := seedTestBean(t, db, "Guji", 2200)

	cart, err := repo.FindOrCreateCart(ctx, "user-1")
	if err != nil {
		t.Fatalf("find or create cart: %v", err)
	}
	if _, err := repo.UpsertItem(ctx, cart.ID, bean.ID, 2); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	items, err := repo.ItemsDetailForUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("items detail: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	got := items[0]
	if got.Name != "Guji" || got.Price != 2200 || got.Quantity != 2 || got.Process != "washed" {
		t.Fatalf("unexpected detail %+v", got)
	}
}

func TestItemsDetailForUserMissingCartIsEmpty(t *testing.T) {
	repo := NewRepository(newCartTestDB(t))

	items, err := repo.ItemsDetailForUser(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("items detail: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty slice, got %d items", len(items))
	}
	if items == nil {
		t.Fatal("expected non-nil empty slice so the endpoint renders [] not null")
	}
}

func TestUpdateItemQuantityEnforcesOwnership(t *testing.T) {
	db := newCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	bean := seedTestBean(t, db, "Gesha", 4200)

	cart, err := repo.FindOrCreateCart(ctx, "owner")
	if err != nil {
		t.Fatalf("find or create cart: %v", err)
	}
	item, err := repo.UpsertItem(ctx, cart.ID, bean.ID, 1)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if _, err := repo.UpdateItemQuantity(ctx, item.ID, "intruder", 9); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not-found for foreign user, got %v", err)
	}

	updated, err := repo.UpdateItemQuantity(ctx, item.ID, "owner", 9)
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Quantity != 9 {
		t.Fatalf("expected quantity 9, got %d", updated.Quantity)
	}
}

func TestDeleteItemEnforcesOwnership(t *testing.T) {
	db := newCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	bean := seedTestBean(t, db, "Gesha", 4200)

	cart, err := repo.FindOrCreateCart(ctx, "owner")
	if err != nil {
		t.Fatalf("find or create cart: %v", err)
	}
	item, err := repo.UpsertItem(ctx, cart.ID, bean.ID, 1)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if err := repo.DeleteItem(ctx, item.ID, "intruder"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not-found for foreign user, got %v", err)
	}
	if err := repo.DeleteItem(ctx, item.ID, "owner"); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if err := repo.DeleteItem(ctx, uuid.New(), "owner"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not-found for unknown item, got %v", err)
	}
}

func TestClearForUser(t *testing.T) {
	db := newCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	bean := seedTestBean(t, db, "Yirgacheffe", 1800)

	// Clearing a user without a cart is a no-op.
	if err := repo.ClearForUser(ctx, "nobody"); err != nil {
		t.Fatalf("clear without cart: %v", err)
	}

	cart, err := repo.FindOrCreateCart(ctx, "user-1")
	if err != nil {
		t.Fatalf("find or create cart: %v", err)
	}
	if _, err := repo.UpsertItem(ctx, cart.ID, bean.ID, 2); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if err := repo.ClearForUser(ctx, "user-1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	items, err := repo.ItemsDetailForUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("items detail: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(items))
	}
}
