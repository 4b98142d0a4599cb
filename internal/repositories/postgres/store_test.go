package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	domain "github.com/lancer-works/api/internal/domain"
	"github.com/lancer-works/api/internal/repositories"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql db: %v", err)
	}
	// In-memory sqlite gives each connection its own database.
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	store, err := NewStore(db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func mustDecimal(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	return decimal.RequireFromString(value)
}

func TestTagFindByNameIsCaseInsensitive(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tag, err := store.Tags().Insert(ctx, domain.Tag{UserID: "user-1", Name: "Canine"})
	if err != nil {
		t.Fatalf("insert tag: %v", err)
	}

	found, err := store.Tags().FindByName(ctx, "user-1", "cAnInE")
	if err != nil {
		t.Fatalf("find by name: %v", err)
	}
	if found.ID != tag.ID {
		t.Fatalf("found tag %d, want %d", found.ID, tag.ID)
	}

	if _, err := store.Tags().FindByName(ctx, "user-2", "canine"); !repositories.IsNotFound(err) {
		t.Fatalf("foreign account lookup: got %v, want not found", err)
	}
}

func TestArtistBaseSearchRequiresEveryTag(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	canine, err := store.Tags().Insert(ctx, domain.Tag{UserID: "user-1", Name: "canine"})
	if err != nil {
		t.Fatalf("insert tag: %v", err)
	}
	chibi, err := store.Tags().Insert(ctx, domain.Tag{UserID: "user-1", Name: "chibi"})
	if err != nil {
		t.Fatalf("insert tag: %v", err)
	}

	both, err := store.ArtistBases().Insert(ctx, domain.ArtistBase{
		UserID: "user-1",
		Name:   "Canine chibi base",
		Price:  mustDecimal(t, "25.00"),
	}, []uint{canine.ID, chibi.ID})
	if err != nil {
		t.Fatalf("insert base: %v", err)
	}
	if _, err := store.ArtistBases().Insert(ctx, domain.ArtistBase{
		UserID: "user-1",
		Name:   "Canine fullbody base",
		Price:  mustDecimal(t, "40.00"),
	}, []uint{canine.ID}); err != nil {
		t.Fatalf("insert base: %v", err)
	}

	results, err := store.ArtistBases().Search(ctx, "user-1", repositories.ArtistBaseFilter{
		TagIDs: []uint{canine.ID, chibi.ID},
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].ID != both.ID {
		t.Fatalf("search returned %d bases, want only base %d", len(results), both.ID)
	}
	if len(results[0].Tags) != 2 {
		t.Fatalf("expected both tags preloaded, got %d", len(results[0].Tags))
	}

	minPrice := mustDecimal(t, "30.00")
	priced, err := store.ArtistBases().Search(ctx, "user-1", repositories.ArtistBaseFilter{MinPrice: &minPrice})
	if err != nil {
		t.Fatalf("price search: %v", err)
	}
	if len(priced) != 1 || priced[0].Name != "Canine fullbody base" {
		t.Fatalf("price search returned %d bases", len(priced))
	}

	if used, err := store.Tags().InUse(ctx, canine.ID); err != nil || !used {
		t.Fatalf("InUse(canine) = %v, %v, want true", used, err)
	}
}

func TestOrderUpdateDetectsStaleVersion(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	customer, err := store.Customers().Insert(ctx, domain.Customer{UserID: "user-1", Name: "Aster"})
	if err != nil {
		t.Fatalf("insert customer: %v", err)
	}
	order, err := store.Orders().Insert(ctx, domain.Order{
		UserID:     "user-1",
		CustomerID: &customer.ID,
		Status:     domain.OrderStatusPending,
		Total:      decimal.Zero,
	})
	if err != nil {
		t.Fatalf("insert order: %v", err)
	}

	updated, err := store.Orders().Update(ctx, order)
	if err != nil {
		t.Fatalf("first update: %v", err)
	}
	if updated.Version != order.Version+1 {
		t.Fatalf("version = %d, want %d", updated.Version, order.Version+1)
	}

	_, err = store.Orders().Update(ctx, order)
	if !repositories.IsConflict(err) {
		t.Fatalf("stale update: got %v, want conflict", err)
	}

	order.ID = 9999
	if _, err := store.Orders().Update(ctx, order); !repositories.IsNotFound(err) {
		t.Fatalf("missing order update: got %v, want not found", err)
	}
}

func TestOrderDeleteRemovesLines(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	customer, err := store.Customers().Insert(ctx, domain.Customer{UserID: "user-1", Name: "Aster"})
	if err != nil {
		t.Fatalf("insert customer: %v", err)
	}
	product, err := store.Products().Insert(ctx, domain.Product{
		UserID: "user-1",
		Name:   "Sticker",
		Price:  mustDecimal(t, "5.00"),
	})
	if err != nil {
		t.Fatalf("insert product: %v", err)
	}
	order, err := store.Orders().Insert(ctx, domain.Order{
		UserID:     "user-1",
		CustomerID: &customer.ID,
		Status:     domain.OrderStatusPending,
		Total:      decimal.Zero,
	})
	if err != nil {
		t.Fatalf("insert order: %v", err)
	}
	if _, err := store.Orders().InsertLine(ctx, domain.OrderLine{
		OrderID:   order.ID,
		ProductID: product.ID,
		Quantity:  2,
		UnitPrice: product.Price,
		NetPrice:  mustDecimal(t, "10.00"),
	}); err != nil {
		t.Fatalf("insert line: %v", err)
	}

	if err := store.Orders().Delete(ctx, "user-1", order.ID); err != nil {
		t.Fatalf("delete order: %v", err)
	}

	lines, err := store.Orders().ListLines(ctx, order.ID)
	if err != nil {
		t.Fatalf("list lines: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected lines removed, got %d", len(lines))
	}
}

func TestRunInTxRollsBackOnError(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := store.Artists().Insert(ctx, domain.Artist{UserID: "user-1", Name: "Lumen"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("RunInTx error = %v, want boom", err)
	}

	artists, err := store.Artists().List(ctx, "user-1")
	if err != nil {
		t.Fatalf("list artists: %v", err)
	}
	if len(artists) != 0 {
		t.Fatalf("expected rollback, found %d artists", len(artists))
	}
}
